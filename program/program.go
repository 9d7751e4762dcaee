// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/program/slots"
	"github.com/stakepact/pact/state"
)

var logger = log.WithContext("pkg", "program")

func SetLogger(l log.Logger) {
	logger = l
}

// Program implements the escrow instructions over one state instance.
// Handlers check authority and every pre-condition before mutating, so a
// rejected instruction leaves the state untouched.
type Program struct {
	cfg   Config
	state *state.State

	poolService        *pool.Service
	participantService *participant.Service

	events []Event
}

// New create a new instance. meter is optional.
func New(cfg Config, st *state.State, meter *slots.Meter) *Program {
	sctx := slots.NewContext(cfg.Namespace.RegistryAddress(), st, meter)
	return &Program{
		cfg:                cfg,
		state:              st,
		poolService:        pool.New(sctx, cfg.Namespace),
		participantService: participant.New(sctx, cfg.Namespace),
	}
}

// Events returns the events emitted so far.
func (p *Program) Events() []Event {
	return p.events
}

// Namespace returns the namespace accounts are derived in.
func (p *Program) Namespace() pact.Namespace {
	return p.cfg.Namespace
}

//
// Getters - no state change
//

// Pool returns the pool or reverts with PoolNotFound.
func (p *Program) Pool(poolID uint64) (*pool.Pool, error) {
	return p.poolService.GetExisting(poolID)
}

// Participant returns the membership of wallet in the pool.
func (p *Program) Participant(poolID uint64, wallet pact.Address) (*participant.Participant, error) {
	return p.participantService.GetExisting(poolID, wallet)
}

// Participants lists the members of the pool in join order.
func (p *Program) Participants(poolID uint64) ([]*participant.Participant, error) {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return nil, err
	}
	return p.participantService.List(poolID, pl.ParticipantCount)
}

// IteratePools calls fn for every pool in creation order.
func (p *Program) IteratePools(fn func(*pool.Pool) error) error {
	return p.poolService.Iterate(fn)
}

// Balance returns the balance of any account.
func (p *Program) Balance(addr pact.Address) (uint64, error) {
	return p.state.GetBalance(addr)
}

// IsProgramAccount reports whether addr is owned by the program.
func (p *Program) IsProgramAccount(addr pact.Address) (bool, error) {
	return p.state.IsProgram(addr)
}

// VaultBalance returns the escrowed balance of the pool.
func (p *Program) VaultBalance(poolID uint64) (uint64, error) {
	return p.state.GetBalance(p.cfg.Namespace.VaultAddress(poolID))
}

// move transfers amount between two accounts.
func (p *Program) move(from, to pact.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	fromBalance, err := p.state.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return reverts.Newf(reverts.InsufficientFunds, "balance %d, required %d", fromBalance, amount)
	}
	toBalance, err := p.state.GetBalance(to)
	if err != nil {
		return err
	}
	newTo, overflow := math.SafeAdd(toBalance, amount)
	if overflow {
		return reverts.New(reverts.Overflow, "recipient balance")
	}
	if err := p.state.SetBalance(from, fromBalance-amount); err != nil {
		return err
	}
	return p.state.SetBalance(to, newTo)
}
