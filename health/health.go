// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/pact"
)

type Commit struct {
	Instruction pact.Bytes32 `json:"instruction"`
	Timestamp   time.Time    `json:"timestamp"`
}

type Status struct {
	Healthy          bool       `json:"healthy"`
	LastCommit       *Commit    `json:"lastCommit"`
	LastSchedulerRun *time.Time `json:"lastSchedulerRun"`
}

// Health tracks the liveness of the node. It is healthy while the scheduler
// keeps running within the allowed gap. Commits are reported for information.
type Health struct {
	lock       sync.RWMutex
	maxRunGap  time.Duration
	lastCommit *Commit
	lastRun    time.Time
	started    time.Time
}

var _ mirror.Sink = (*Health)(nil)

// New creates a tracker. A zero maxRunGap disables the scheduler check.
func New(maxRunGap time.Duration) *Health {
	return &Health{
		maxRunGap: maxRunGap,
		started:   time.Now(),
	}
}

func (h *Health) Name() string {
	return "health"
}

// Write records the last committed instruction.
func (h *Health) Write(_ context.Context, events []*mirror.Event) error {
	if len(events) == 0 {
		return nil
	}
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = &Commit{
		Instruction: events[len(events)-1].Instruction,
		Timestamp:   time.Now(),
	}
	return nil
}

// SchedulerRan records a completed scheduler run.
func (h *Health) SchedulerRan() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastRun = time.Now()
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{
		Healthy: true,
	}
	if h.lastCommit != nil {
		commit := *h.lastCommit
		status.LastCommit = &commit
	}
	if !h.lastRun.IsZero() {
		run := h.lastRun
		status.LastSchedulerRun = &run
	}
	if h.maxRunGap > 0 {
		// before the first run, measure from startup
		since := h.started
		if !h.lastRun.IsZero() {
			since = h.lastRun
		}
		status.Healthy = time.Since(since) <= h.maxRunGap
	}
	return status, nil
}
