// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// storedReceipt is the rlp form of a receipt, keyed by instruction id.
type storedReceipt struct {
	Kind   string
	Signer *pact.Address `rlp:"nil"`
	Time   uint64
	Events []*storedEvent
}

// storedEvent flattens the optional fields, rlp cannot tell a nil pointer from a zero value.
type storedEvent struct {
	Kind      string
	PoolID    uint64
	Time      uint64
	HasWallet bool
	Wallet    pact.Address
	Amount    uint64
	HasDay    bool
	Day       uint64
	HasPassed bool
	Passed    bool
	Status    string
}

func newStoredReceipt(r *Receipt) *storedReceipt {
	s := &storedReceipt{
		Kind:   r.Kind,
		Signer: r.Signer,
		Time:   r.Time,
		Events: make([]*storedEvent, 0, len(r.Events)),
	}
	for _, ev := range r.Events {
		se := &storedEvent{
			Kind:   string(ev.Kind),
			PoolID: ev.PoolID,
			Time:   ev.Time,
			Amount: ev.Amount,
			Status: ev.Status,
		}
		if ev.Wallet != nil {
			se.HasWallet, se.Wallet = true, *ev.Wallet
		}
		if ev.Day != nil {
			se.HasDay, se.Day = true, *ev.Day
		}
		if ev.Passed != nil {
			se.HasPassed, se.Passed = true, *ev.Passed
		}
		s.Events = append(s.Events, se)
	}
	return s
}

func (s *storedReceipt) receipt(id pact.Bytes32) *Receipt {
	r := &Receipt{
		ID:     id,
		Kind:   s.Kind,
		Signer: s.Signer,
		Time:   s.Time,
		Events: make([]program.Event, 0, len(s.Events)),
	}
	for _, se := range s.Events {
		ev := program.Event{
			Kind:   program.EventKind(se.Kind),
			PoolID: se.PoolID,
			Time:   se.Time,
			Amount: se.Amount,
			Status: se.Status,
		}
		if se.HasWallet {
			wallet := se.Wallet
			ev.Wallet = &wallet
		}
		if se.HasDay {
			day := se.Day
			ev.Day = &day
		}
		if se.HasPassed {
			passed := se.Passed
			ev.Passed = &passed
		}
		r.Events = append(r.Events, ev)
	}
	return r
}
