// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/reverts"
)

// JoinPool moves the pool's stake from wallet into the vault and records the membership.
func (p *Program) JoinPool(wallet pact.Address, now uint64, poolID uint64) error {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return err
	}
	if !pl.IsJoinable(now) {
		return reverts.Newf(reverts.PoolNotJoinable, "pool %d is %v", poolID, pl.Status)
	}
	existing, err := p.participantService.Get(poolID, wallet)
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return reverts.Newf(reverts.AlreadyJoined, "wallet %v in pool %d", wallet, poolID)
	}
	if pl.ParticipantCount >= pl.MaxParticipants {
		return reverts.Newf(reverts.PoolFull, "pool %d has %d participants", poolID, pl.ParticipantCount)
	}
	totalStaked, overflow := math.SafeAdd(pl.TotalStaked, pl.StakeAmount)
	if overflow {
		return reverts.New(reverts.Overflow, "total staked")
	}
	balance, err := p.state.GetBalance(wallet)
	if err != nil {
		return err
	}
	if balance < pl.StakeAmount {
		return reverts.Newf(reverts.InsufficientFunds, "balance %d, stake %d", balance, pl.StakeAmount)
	}

	if err := p.move(wallet, p.cfg.Namespace.VaultAddress(poolID), pl.StakeAmount); err != nil {
		return err
	}
	ns := p.cfg.Namespace
	if err := p.state.SetProgram(ns.ParticipantAddress(poolID, wallet), true); err != nil {
		return err
	}
	if err := p.participantService.Insert(&participant.Participant{
		PoolID:        poolID,
		Wallet:        wallet,
		Ordinal:       pl.ParticipantCount,
		Status:        participant.StatusActive,
		StakeAmount:   pl.StakeAmount,
		JoinTimestamp: now,
	}); err != nil {
		return err
	}

	pl.ParticipantCount++
	pl.TotalStaked = totalStaked
	p.emit(Event{Kind: EventParticipantJoined, PoolID: poolID, Time: now, Wallet: addrPtr(wallet), Amount: pl.StakeAmount})

	if !pl.IsFilled() && pl.ParticipantCount >= pl.MinParticipants {
		pl.MarkFilled(now)
		logger.Debug("pool filled", "pool", poolID, "scheduledStart", pl.ScheduledStartTime)
		p.emit(Event{Kind: EventRecruitmentFilled, PoolID: poolID, Time: now, Amount: pl.ParticipantCount})
	}
	return p.poolService.Update(pl)
}
