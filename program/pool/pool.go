// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/goal"
)

type Status uint8

const (
	StatusUnknown    = Status(iota) // 0 -> pool does not exist
	StatusRecruiting                // accepting joins
	StatusActive                    // challenge running
	StatusEnded                     // challenge over, awaiting settlement
	StatusSettled                   // funds distributed, terminal
	StatusExpired                   // recruitment failed, stakes refunded, terminal
)

var statusNames = [...]string{"unknown", "recruiting", "active", "ended", "settled", "expired"}

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
	return errors.Errorf("invalid pool status %q", text)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusSettled || s == StatusExpired
}

// Mode selects how forfeited stakes are split at settlement.
type Mode uint8

const (
	ModeCompetitive = Mode(iota + 1) // losers' stakes go to winners
	ModeCharity                      // losers' stakes go to charity
	ModeSplit                        // losers' stakes split between winners and charity
)

var modeNames = map[Mode]string{
	ModeCompetitive: "competitive",
	ModeCharity:     "charity",
	ModeSplit:       "split",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func (m Mode) IsValid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for mode, name := range modeNames {
		if name == string(text) {
			*m = mode
			return nil
		}
	}
	return errors.Errorf("invalid distribution mode %q", text)
}

// Pool is one commitment challenge. It is stored in the pool's derived account.
type Pool struct {
	ID                     uint64       `json:"id"`
	Creator                pact.Address `json:"creator"`
	Verifier               pact.Address `json:"verifier"` // authority allowed to verify and settle
	StakeAmount            uint64       `json:"stakeAmount"`
	DurationDays           uint64       `json:"durationDays"`
	MinParticipants        uint64       `json:"minParticipants"`
	MaxParticipants        uint64       `json:"maxParticipants"`
	Mode                   Mode         `json:"mode"`
	WinnerSharePercent     uint8        `json:"winnerSharePercent"`
	Charity                pact.Address `json:"charity"`
	Goal                   goal.Goal    `json:"goal"`
	RequireMinParticipants bool         `json:"requireMinParticipants"`
	AllowLateJoin          bool         `json:"allowLateJoin"`

	Status              Status  `json:"status"`
	ParticipantCount    uint64  `json:"participantCount"`
	CreatedAt           uint64  `json:"createdAt"`
	RecruitmentDeadline uint64  `json:"recruitmentDeadline"`
	FilledAt            *uint64 `json:"filledAt" rlp:"nil"`
	AutoStartTime       *uint64 `json:"autoStartTime" rlp:"nil"`
	ScheduledStartTime  uint64  `json:"scheduledStartTime"`
	ExtensionCount      uint64  `json:"extensionCount"`
	StartTimestamp      uint64  `json:"startTimestamp"`
	EndTimestamp        uint64  `json:"endTimestamp"`
	TotalStaked         uint64  `json:"totalStaked"`
	YieldEarned         uint64  `json:"yieldEarned"`
	FinalPoolValue      uint64  `json:"finalPoolValue"`
}

// IsEmpty returns true if the pool was never created.
func (p *Pool) IsEmpty() bool {
	return p.Status == StatusUnknown
}

// IsFilled reports whether the pool reached its minimum participant count.
func (p *Pool) IsFilled() bool {
	return p.FilledAt != nil
}

// EffectiveSharePercent is the share of forfeited stakes routed to winners.
func (p *Pool) EffectiveSharePercent() uint8 {
	if p.Mode == ModeCharity {
		return 0
	}
	return p.WinnerSharePercent
}

// IsJoinable reports whether a join is allowed at now.
func (p *Pool) IsJoinable(now uint64) bool {
	switch p.Status {
	case StatusRecruiting:
		return true
	case StatusActive:
		return p.AllowLateJoin && now < p.EndTimestamp
	}
	return false
}

// CurrentDay returns the zero-based challenge day at now.
func (p *Pool) CurrentDay(now uint64) uint64 {
	if now < p.StartTimestamp {
		return 0
	}
	return (now - p.StartTimestamp) / pact.SecondsPerDay
}

// HasEnded reports whether settlement may run.
func (p *Pool) HasEnded(now uint64) bool {
	return p.Status == StatusEnded || (p.Status == StatusActive && now >= p.EndTimestamp)
}
