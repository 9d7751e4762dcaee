// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

// VerifyArgs carries one daily outcome for one participant.
type VerifyArgs struct {
	PoolID uint64       `json:"poolId"`
	Wallet pact.Address `json:"wallet"`
	Day    uint64       `json:"day"`
	Passed bool         `json:"passed"`
}

// VerifyParticipant records the outcome of the current challenge day.
// Only the pool's verifier may call it. Replaying the recorded outcome for
// the same day is a no-op; a conflicting outcome is rejected.
func (p *Program) VerifyParticipant(signer pact.Address, now uint64, args *VerifyArgs) error {
	pl, err := p.poolService.GetExisting(args.PoolID)
	if err != nil {
		return err
	}
	if signer != pl.Verifier {
		return reverts.Newf(reverts.NotAuthorized, "%v is not the verifier of pool %d", signer, args.PoolID)
	}
	if pl.Status != pool.StatusActive {
		return reverts.Newf(reverts.PoolNotActive, "pool %d is %v", args.PoolID, pl.Status)
	}
	current := pl.CurrentDay(now)
	if args.Day != current || args.Day >= pl.DurationDays {
		return reverts.Newf(reverts.DayOutOfWindow, "day %d, current %d of %d", args.Day, current, pl.DurationDays)
	}

	pt, err := p.participantService.GetExisting(args.PoolID, args.Wallet)
	if err != nil {
		return err
	}
	if pt.VerifiedOn(args.Day) {
		if pt.LastPassed == args.Passed {
			return nil
		}
		return reverts.Newf(reverts.DuplicateVerificationForDay, "day %d already recorded as passed=%v", args.Day, pt.LastPassed)
	}
	if !pt.IsActive() {
		return reverts.Newf(reverts.ParticipantNotActive, "participant is %v", pt.Status)
	}

	pt.Record(args.Day, args.Passed, pl.DurationDays)
	if err := p.participantService.Update(pt); err != nil {
		return err
	}

	logger.Debug("verification recorded", "pool", args.PoolID, "wallet", args.Wallet, "day", args.Day, "passed", args.Passed, "status", pt.Status)
	day, passed := args.Day, args.Passed
	p.emit(Event{
		Kind:   EventVerificationRecorded,
		PoolID: args.PoolID,
		Time:   now,
		Wallet: addrPtr(args.Wallet),
		Amount: pt.DaysVerified,
		Day:    &day,
		Passed: &passed,
		Status: pt.Status.String(),
	})
	return nil
}
