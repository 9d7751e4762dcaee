// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

// Tick applies the lifecycle transition due at now. Anyone may call it.
// It reverts with TransitionNotReady when nothing is due, leaving the pool untouched.
func (p *Program) Tick(now uint64, poolID uint64) (pool.Transition, error) {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return pool.TransitionNone, err
	}

	transition := pool.Next(pl, now)
	switch transition {
	case pool.TransitionNone:
		return transition, reverts.Newf(reverts.TransitionNotReady, "pool %d is %v", poolID, pl.Status)
	case pool.TransitionActivate:
		pl.Activate(now)
		logger.Info("pool activated", "pool", poolID, "participants", pl.ParticipantCount, "end", pl.EndTimestamp)
		p.emit(Event{Kind: EventPoolActivated, PoolID: poolID, Time: now, Amount: pl.ParticipantCount})
	case pool.TransitionExtend:
		pl.Extend()
		logger.Debug("recruitment extended", "pool", poolID, "scheduledStart", pl.ScheduledStartTime)
		p.emit(Event{Kind: EventRecruitmentExtended, PoolID: poolID, Time: now, Amount: pl.ScheduledStartTime})
	case pool.TransitionExpire:
		refunded, err := p.refund(pl, now)
		if err != nil {
			return transition, err
		}
		pl.Status = pool.StatusExpired
		pl.FinalPoolValue = refunded
		logger.Info("pool expired", "pool", poolID, "participants", pl.ParticipantCount, "refunded", refunded)
		p.emit(Event{Kind: EventPoolExpired, PoolID: poolID, Time: now, Amount: refunded})
	case pool.TransitionEnd:
		pl.Status = pool.StatusEnded
		p.emit(Event{Kind: EventPoolEnded, PoolID: poolID, Time: now})
	}
	return transition, p.poolService.Update(pl)
}

// refund returns every unrefunded stake to its wallet and sweeps any yield to charity.
// Active participants become Forfeit. It returns the total paid out of the vault.
func (p *Program) refund(pl *pool.Pool, now uint64) (uint64, error) {
	vault := p.cfg.Namespace.VaultAddress(pl.ID)
	var total uint64
	err := p.participantService.Iterate(pl.ID, pl.ParticipantCount, func(pt *participant.Participant) error {
		if pt.Refunded {
			return nil
		}
		if err := p.move(vault, pt.Wallet, pt.StakeAmount); err != nil {
			return err
		}
		if pt.IsActive() {
			pt.Status = participant.StatusForfeit
		}
		pt.Refunded = true
		pt.Payout = pt.StakeAmount
		total += pt.StakeAmount
		p.emit(Event{Kind: EventStakeRefunded, PoolID: pl.ID, Time: now, Wallet: addrPtr(pt.Wallet), Amount: pt.StakeAmount})
		return p.participantService.Update(pt)
	})
	if err != nil {
		return 0, err
	}
	yield, err := p.sweep(pl, now)
	if err != nil {
		return 0, err
	}
	return total + yield, nil
}

// sweep pays whatever remains in the vault, the accrued yield, to charity.
func (p *Program) sweep(pl *pool.Pool, now uint64) (uint64, error) {
	vault := p.cfg.Namespace.VaultAddress(pl.ID)
	rest, err := p.state.GetBalance(vault)
	if err != nil || rest == 0 {
		return 0, err
	}
	if err := p.move(vault, pl.Charity, rest); err != nil {
		return 0, err
	}
	p.emit(Event{Kind: EventPayoutSent, PoolID: pl.ID, Time: now, Wallet: addrPtr(pl.Charity), Amount: rest, Status: "yield"})
	return rest, nil
}
