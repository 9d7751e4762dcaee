// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"

	"github.com/stakepact/pact/pact"
)

// Transition is the next lifecycle step a pool requires.
type Transition uint8

const (
	TransitionNone     = Transition(iota) // nothing due yet
	TransitionActivate                    // Recruiting -> Active
	TransitionExtend                      // scheduled start pushed while below minimum
	TransitionExpire                      // Recruiting -> Expired, stakes refunded
	TransitionEnd                         // Active -> Ended
)

var transitionNames = [...]string{"none", "activate", "extend", "expire", "end"}

func (t Transition) String() string {
	if int(t) < len(transitionNames) {
		return transitionNames[t]
	}
	return fmt.Sprintf("transition(%d)", uint8(t))
}

func (t Transition) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Next evaluates the lifecycle rules against a pool snapshot.
// It has no side effects and returns the same result for the same input.
//
// A filled pool only waits for its scheduled start; expiry never applies to it.
func Next(p *Pool, now uint64) Transition {
	switch p.Status {
	case StatusRecruiting:
		if p.IsFilled() {
			if now >= p.ScheduledStartTime {
				return TransitionActivate
			}
			return TransitionNone
		}
		if now >= p.RecruitmentDeadline {
			return TransitionExpire
		}
		if now >= p.ScheduledStartTime {
			if p.RequireMinParticipants {
				return TransitionExtend
			}
			if p.ParticipantCount > 0 {
				return TransitionActivate
			}
		}
	case StatusActive:
		if now >= p.EndTimestamp {
			return TransitionEnd
		}
	}
	return TransitionNone
}

// Activate moves the pool to Active, starting the challenge at now.
func (p *Pool) Activate(now uint64) {
	p.Status = StatusActive
	p.StartTimestamp = now
	p.EndTimestamp = now + p.DurationDays*pact.SecondsPerDay
}

// Extend pushes the scheduled start by one extension period.
func (p *Pool) Extend() {
	p.ScheduledStartTime += pact.RecruitmentExtension
	p.ExtensionCount++
}

// MarkFilled records that the minimum was reached at now.
// The scheduled start is tightened to the auto start when that is earlier.
func (p *Pool) MarkFilled(now uint64) {
	filledAt := now
	autoStart := now + pact.AutoStartDelay
	p.FilledAt = &filledAt
	p.AutoStartTime = &autoStart
	if autoStart < p.ScheduledStartTime {
		p.ScheduledStartTime = autoStart
	}
}
