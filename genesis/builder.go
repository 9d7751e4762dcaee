// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
}

// Timestamp set launch time.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes on st and returns the resulting stage.
// The genesis id is the hash of the stage.
func (b *Builder) Build(st *state.State) (*state.Stage, error) {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	return st.Stage(), nil
}

// ComputeID builds on an empty state and returns the genesis id.
func (b *Builder) ComputeID() (pact.Bytes32, error) {
	stage, err := b.Build(state.New(emptyGetter{}))
	if err != nil {
		return pact.Bytes32{}, err
	}
	return stage.Hash(), nil
}
