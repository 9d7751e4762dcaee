// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/stakepact/pact/pact"
)

type EventKind string

const (
	EventPoolCreated          EventKind = "PoolCreated"
	EventParticipantJoined    EventKind = "ParticipantJoined"
	EventRecruitmentFilled    EventKind = "RecruitmentFilled"
	EventRecruitmentExtended  EventKind = "RecruitmentExtended"
	EventPoolActivated        EventKind = "PoolActivated"
	EventPoolExpired          EventKind = "PoolExpired"
	EventStakeRefunded        EventKind = "StakeRefunded"
	EventPoolEnded            EventKind = "PoolEnded"
	EventVerificationRecorded EventKind = "VerificationRecorded"
	EventParticipantForfeited EventKind = "ParticipantForfeited"
	EventVerifierRotated      EventKind = "VerifierRotated"
	EventPayoutSent           EventKind = "PayoutSent"
	EventPoolSettled          EventKind = "PoolSettled"
	EventTransferred          EventKind = "Transferred"
)

// Event describes one state transition made by a successful instruction.
// Fields not relevant to the kind are left zero.
type Event struct {
	Kind   EventKind     `json:"kind"`
	PoolID uint64        `json:"poolId"`
	Time   uint64        `json:"time"`
	Wallet *pact.Address `json:"wallet,omitempty"`
	Amount uint64        `json:"amount,omitempty"`
	Day    *uint64       `json:"day,omitempty"`
	Passed *bool         `json:"passed,omitempty"`
	Status string        `json:"status,omitempty"`
}

func (p *Program) emit(ev Event) {
	p.events = append(p.events, ev)
}

func addrPtr(a pact.Address) *pact.Address { return &a }
