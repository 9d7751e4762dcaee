// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/kv"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
	"github.com/stakepact/pact/state"
)

// Genesis to build the initial state of a deployment.
type Genesis struct {
	builder *Builder
	id      pact.Bytes32
	name    string
	config  program.Config
}

func newGenesis(name string, config program.Config, builder *Builder) (*Genesis, error) {
	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder: builder, id: id, name: name, config: config}, nil
}

// Build applies the genesis state processes on st.
func (g *Genesis) Build(st *state.State) (*state.Stage, error) {
	return g.builder.Build(st)
}

// ID returns the genesis id, the hash of the initial state.
func (g *Genesis) ID() pact.Bytes32 {
	return g.id
}

func (g *Genesis) Name() string {
	return g.name
}

// Config returns the program parameters of the deployment.
func (g *Genesis) Config() program.Config {
	return g.config
}

// LaunchTime returns the time the deployment starts accepting instructions.
func (g *Genesis) LaunchTime() uint64 {
	return g.builder.timestamp
}

// Alloc is a genesis balance.
type Alloc struct {
	Address pact.Address `yaml:"address" json:"address"`
	Balance uint64       `yaml:"balance" json:"balance"`
}

func allocate(accounts []Alloc) func(*state.State) error {
	return func(st *state.State) error {
		for _, a := range accounts {
			if a.Balance == 0 {
				return errors.Errorf("%v: balance must be positive", a.Address)
			}
			if err := st.SetBalance(a.Address, a.Balance); err != nil {
				return err
			}
		}
		return nil
	}
}

type emptyGetter struct{}

var _ kv.Getter = emptyGetter{}

func (emptyGetter) Get([]byte) ([]byte, error) { return nil, errNotFound }
func (emptyGetter) Has([]byte) (bool, error)   { return false, nil }
func (emptyGetter) IsNotFound(err error) bool  { return err == errNotFound }

var errNotFound = errors.New("not found")
