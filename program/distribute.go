// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/payout"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

// DistributeRewards settles an ended pool in one step, emptying its vault.
//
// On an Expired pool it runs the refund path instead, which anyone may trigger.
func (p *Program) DistributeRewards(signer pact.Address, now uint64, poolID uint64) error {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return err
	}
	if pl.Status == pool.StatusExpired {
		return p.refundExpired(pl, now)
	}
	if signer != pl.Verifier {
		return reverts.Newf(reverts.NotAuthorized, "%v is not the verifier of pool %d", signer, poolID)
	}
	if pl.Status == pool.StatusSettled {
		return reverts.Newf(reverts.AlreadySettled, "pool %d", poolID)
	}
	if !pl.HasEnded(now) {
		return reverts.Newf(reverts.PoolNotEnded, "pool %d is %v, ends at %d", poolID, pl.Status, pl.EndTimestamp)
	}

	members, err := p.participantService.List(poolID, pl.ParticipantCount)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return reverts.Newf(reverts.NoParticipants, "pool %d", poolID)
	}

	var (
		winners []*participant.Participant
		losers  []*participant.Participant
		pending []*participant.Participant
	)
	for _, pt := range members {
		switch pt.Status {
		case participant.StatusSuccess:
			winners = append(winners, pt)
		case participant.StatusFailed, participant.StatusForfeit:
			losers = append(losers, pt)
		default:
			pending = append(pending, pt)
		}
	}

	var disbursed uint64
	if len(winners) == 0 && len(losers) == 0 {
		// verification never ran, everyone gets the stake back
		if disbursed, err = p.refund(pl, now); err != nil {
			return err
		}
	} else {
		// unverified participants did not complete the challenge
		for _, pt := range pending {
			pt.Status = participant.StatusFailed
		}
		losers = append(losers, pending...)
		if disbursed, err = p.settle(pl, winners, losers, now); err != nil {
			return err
		}
	}

	vaultBalance, err := p.VaultBalance(poolID)
	if err != nil {
		return err
	}
	if vaultBalance != 0 {
		return errors.Errorf("pool %d: vault holds %d after settlement", poolID, vaultBalance)
	}

	pl.Status = pool.StatusSettled
	pl.FinalPoolValue = disbursed
	if err := p.poolService.Update(pl); err != nil {
		return err
	}
	logger.Info("pool settled", "pool", poolID, "winners", len(winners), "losers", len(losers), "disbursed", disbursed)
	p.emit(Event{Kind: EventPoolSettled, PoolID: poolID, Time: now, Amount: disbursed, Status: pl.Status.String()})
	return nil
}

// settle pays winners their stake plus bonus and sends the rest to charity.
func (p *Program) settle(pl *pool.Pool, winners, losers []*participant.Participant, now uint64) (uint64, error) {
	var forfeited uint64
	for _, pt := range losers {
		forfeited += pt.StakeAmount
	}
	stakes := make([]uint64, len(winners))
	for i, pt := range winners {
		stakes[i] = pt.StakeAmount
	}
	plan, err := payout.Compute(pl.EffectiveSharePercent(), stakes, forfeited)
	if err != nil {
		return 0, reverts.New(reverts.Overflow, err.Error())
	}

	vault := p.cfg.Namespace.VaultAddress(pl.ID)
	for i, pt := range winners {
		if err := p.move(vault, pt.Wallet, plan.Winners[i]); err != nil {
			return 0, err
		}
		pt.Payout = plan.Winners[i]
		p.emit(Event{Kind: EventPayoutSent, PoolID: pl.ID, Time: now, Wallet: addrPtr(pt.Wallet), Amount: pt.Payout, Status: pt.Status.String()})
	}
	for _, pt := range append(winners, losers...) {
		if err := p.participantService.Update(pt); err != nil {
			return 0, err
		}
	}
	if plan.Charity > 0 {
		if err := p.move(vault, pl.Charity, plan.Charity); err != nil {
			return 0, err
		}
		p.emit(Event{Kind: EventPayoutSent, PoolID: pl.ID, Time: now, Wallet: addrPtr(pl.Charity), Amount: plan.Charity, Status: "charity"})
	}
	yield, err := p.sweep(pl, now)
	if err != nil {
		return 0, err
	}
	logger.Debug("settlement plan", "pool", pl.ID, "forfeited", forfeited, "bonus", plan.PerWinnerBonus, "dust", plan.Dust, "charity", plan.Charity)
	return plan.Total + yield, nil
}

// refundExpired re-runs the refund for participants an expiry did not cover.
func (p *Program) refundExpired(pl *pool.Pool, now uint64) error {
	var pending bool
	err := p.participantService.Iterate(pl.ID, pl.ParticipantCount, func(pt *participant.Participant) error {
		if !pt.Refunded {
			pending = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !pending {
		return reverts.Newf(reverts.AlreadySettled, "pool %d expired and refunded", pl.ID)
	}
	refunded, err := p.refund(pl, now)
	if err != nil {
		return err
	}
	pl.FinalPoolValue += refunded
	return p.poolService.Update(pl)
}
