// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package participant

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/program/slots"
)

var (
	slotParticipant = pact.BytesToBytes32([]byte("participant"))
	// ordinal -> wallet, kept in the pool account
	slotIndex = pact.BytesToBytes32([]byte("participant-index"))
)

// Service reads and writes participant records and the per-pool join index.
type Service struct {
	sctx *slots.Context
	ns   pact.Namespace
}

func New(sctx *slots.Context, ns pact.Namespace) *Service {
	return &Service{sctx: sctx, ns: ns}
}

func (s *Service) record(poolID uint64, wallet pact.Address) *slots.Raw[*Participant] {
	return slots.NewRaw[*Participant](s.sctx.At(s.ns.ParticipantAddress(poolID, wallet)), slotParticipant)
}

func (s *Service) index(poolID uint64) *slots.Mapping[slots.Uint64, pact.Address] {
	return slots.NewMapping[slots.Uint64, pact.Address](s.sctx.At(s.ns.PoolAddress(poolID)), slotIndex)
}

// Get returns the participant, which is empty when the wallet never joined.
func (s *Service) Get(poolID uint64, wallet pact.Address) (*Participant, error) {
	p, err := s.record(poolID, wallet).Get()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get participant %v of pool %d", wallet, poolID)
	}
	return p, nil
}

// GetExisting returns the participant or reverts with ParticipantNotFound.
func (s *Service) GetExisting(poolID uint64, wallet pact.Address) (*Participant, error) {
	p, err := s.Get(poolID, wallet)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, reverts.Newf(reverts.ParticipantNotFound, "wallet %v in pool %d", wallet, poolID)
	}
	return p, nil
}

// Insert stores a new participant under its ordinal in the pool index.
func (s *Service) Insert(p *Participant) error {
	if err := s.index(p.PoolID).Set(slots.Uint64(p.Ordinal), p.Wallet); err != nil {
		return errors.Wrap(err, "failed to index participant")
	}
	return s.Update(p)
}

func (s *Service) Update(p *Participant) error {
	if err := s.record(p.PoolID, p.Wallet).Set(p); err != nil {
		return errors.Wrapf(err, "failed to set participant %v", p.Wallet)
	}
	return nil
}

// Iterate calls fn for the first count participants of the pool in join order.
func (s *Service) Iterate(poolID uint64, count uint64, fn func(*Participant) error) error {
	index := s.index(poolID)
	for i := range count {
		wallet, err := index.Get(slots.Uint64(i))
		if err != nil {
			return err
		}
		p, err := s.GetExisting(poolID, wallet)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// List returns the first count participants of the pool in join order.
func (s *Service) List(poolID uint64, count uint64) ([]*Participant, error) {
	list := make([]*Participant, 0, count)
	err := s.Iterate(poolID, count, func(p *Participant) error {
		list = append(list, p)
		return nil
	})
	return list, err
}
