// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/state"
)

// Meter counts slot accesses made through a Context.
type Meter struct {
	Reads  uint64
	Writes uint64
}

// Context binds typed slots to the storage of one account.
type Context struct {
	address pact.Address
	state   *state.State
	meter   *Meter
}

func NewContext(address pact.Address, state *state.State, meter *Meter) *Context {
	return &Context{
		address: address,
		state:   state,
		meter:   meter,
	}
}

func (c *Context) Address() pact.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// At returns a context over another account sharing the same state and meter.
func (c *Context) At(address pact.Address) *Context {
	return &Context{address: address, state: c.state, meter: c.meter}
}

func (c *Context) read() {
	if c.meter != nil {
		c.meter.Reads++
	}
}

func (c *Context) write() {
	if c.meter != nil {
		c.meter.Writes++
	}
}
