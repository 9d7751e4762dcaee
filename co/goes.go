// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Goes runs the long lived goroutines of a process and keeps the first
// error one of them returns.
type Goes struct {
	wg   sync.WaitGroup
	once sync.Once
	err  error
}

// Go run f in go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoErr runs f in a go routine and records its error, if it is the first.
func (g *Goes) GoErr(f func() error) {
	g.Go(func() {
		if err := f(); err != nil {
			g.once.Do(func() { g.err = err })
		}
	})
}

// Wait waits for all go routines, then returns the first recorded error.
func (g *Goes) Wait() error {
	g.wg.Wait()
	return g.err
}

// Done return the done channel for exiting of all go routines.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
