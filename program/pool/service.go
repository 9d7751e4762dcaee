// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/program/slots"
)

var (
	slotPool = pact.BytesToBytes32([]byte("pool"))

	// registry account slots
	slotPoolCount = pact.BytesToBytes32([]byte("pool-count"))
	slotPoolIndex = pact.BytesToBytes32([]byte("pool-index"))
)

// Service reads and writes pool records and the program-wide pool registry.
type Service struct {
	sctx *slots.Context
	ns   pact.Namespace

	count *slots.Raw[uint64]
	index *slots.Mapping[slots.Uint64, uint64]
}

func New(sctx *slots.Context, ns pact.Namespace) *Service {
	registry := sctx.At(ns.RegistryAddress())
	return &Service{
		sctx:  sctx,
		ns:    ns,
		count: slots.NewRaw[uint64](registry, slotPoolCount),
		index: slots.NewMapping[slots.Uint64, uint64](registry, slotPoolIndex),
	}
}

func (s *Service) record(id uint64) *slots.Raw[*Pool] {
	return slots.NewRaw[*Pool](s.sctx.At(s.ns.PoolAddress(id)), slotPool)
}

// Get returns the pool, which is empty when it does not exist.
func (s *Service) Get(id uint64) (*Pool, error) {
	p, err := s.record(id).Get()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get pool %d", id)
	}
	return p, nil
}

// GetExisting returns the pool or reverts with PoolNotFound.
func (s *Service) GetExisting(id uint64) (*Pool, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d", id)
	}
	return p, nil
}

// Insert stores a new pool and appends it to the registry.
func (s *Service) Insert(p *Pool) error {
	if err := s.Update(p); err != nil {
		return err
	}
	n, err := s.count.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get pool count")
	}
	if err := s.index.Set(slots.Uint64(n), p.ID); err != nil {
		return errors.Wrap(err, "failed to index pool")
	}
	return s.count.Set(n + 1)
}

func (s *Service) Update(p *Pool) error {
	if err := s.record(p.ID).Set(p); err != nil {
		return errors.Wrapf(err, "failed to set pool %d", p.ID)
	}
	return nil
}

// Count returns the number of pools ever created.
func (s *Service) Count() (uint64, error) {
	return s.count.Get()
}

// Iterate calls fn for every registered pool in creation order.
func (s *Service) Iterate(fn func(*Pool) error) error {
	n, err := s.count.Get()
	if err != nil {
		return err
	}
	for i := range n {
		id, err := s.index.Get(slots.Uint64(i))
		if err != nil {
			return err
		}
		p, err := s.GetExisting(id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}
