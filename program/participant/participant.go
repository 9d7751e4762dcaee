// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package participant

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
)

type Status uint8

const (
	StatusUnknown = Status(iota) // 0 -> never joined
	StatusActive                 // still in the challenge
	StatusSuccess                // verified every day
	StatusFailed                 // missed a day
	StatusForfeit                // left early, or refunded on expiry
)

var statusNames = [...]string{"unknown", "active", "success", "failed", "forfeit"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return errors.Errorf("invalid participant status %q", text)
}

// Participant is one wallet's membership in a pool.
// It is stored in the account derived from (pool id, wallet).
type Participant struct {
	PoolID          uint64       `json:"poolId"`
	Wallet          pact.Address `json:"wallet"`
	Ordinal         uint64       `json:"ordinal"` // join order within the pool
	Status          Status       `json:"status"`
	StakeAmount     uint64       `json:"stakeAmount"`
	DaysVerified    uint64       `json:"daysVerified"`
	Verified        bool         `json:"verified"` // at least one outcome recorded
	LastVerifiedDay uint64       `json:"lastVerifiedDay"`
	LastPassed      bool         `json:"lastPassed"`
	JoinTimestamp   uint64       `json:"joinTimestamp"`
	Refunded        bool         `json:"refunded"`
	Payout          uint64       `json:"payout"` // amount paid back at settlement or refund
}

// IsEmpty returns true if the wallet never joined.
func (p *Participant) IsEmpty() bool {
	return p.Status == StatusUnknown
}

// IsActive reports whether the participant can still be verified.
func (p *Participant) IsActive() bool {
	return p.Status == StatusActive
}

// VerifiedOn reports whether a verification was already recorded for day.
func (p *Participant) VerifiedOn(day uint64) bool {
	return p.Verified && p.LastVerifiedDay == day
}

// Record applies a verification outcome for day.
// A pass reaching durationDays completes the challenge, a miss eliminates.
func (p *Participant) Record(day uint64, passed bool, durationDays uint64) {
	p.Verified = true
	p.LastVerifiedDay = day
	p.LastPassed = passed
	if !passed {
		p.Status = StatusFailed
		return
	}
	p.DaysVerified++
	if p.DaysVerified >= durationDays {
		p.Status = StatusSuccess
	}
}
