// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package mirror forwards committed program events to external indexes.
// Mirrors are never read back by the program.
package mirror

import (
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/runtime"
)

// Event is the flat, externally visible form of a program event.
type Event struct {
	Instruction pact.Bytes32  `json:"instruction"`
	Index       int           `json:"index"`
	Kind        string        `json:"kind"`
	PoolID      uint64        `json:"poolId"`
	Time        uint64        `json:"time"`
	Wallet      *pact.Address `json:"wallet,omitempty"`
	Amount      uint64        `json:"amount"`
	Day         *uint64       `json:"day,omitempty"`
	Passed      *bool         `json:"passed,omitempty"`
	Status      string        `json:"status,omitempty"`
}

// FromReceipt flattens the events of a receipt, keeping their order.
func FromReceipt(r *runtime.Receipt) []*Event {
	events := make([]*Event, 0, len(r.Events))
	for i, ev := range r.Events {
		events = append(events, &Event{
			Instruction: r.ID,
			Index:       i,
			Kind:        string(ev.Kind),
			PoolID:      ev.PoolID,
			Time:        ev.Time,
			Wallet:      ev.Wallet,
			Amount:      ev.Amount,
			Day:         ev.Day,
			Passed:      ev.Passed,
			Status:      ev.Status,
		})
	}
	return events
}
