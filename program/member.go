// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

// Forfeit lets a participant leave a running challenge. The stake stays in
// the vault and is forfeited at settlement.
func (p *Program) Forfeit(wallet pact.Address, now uint64, poolID uint64) error {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return err
	}
	if pl.Status != pool.StatusActive {
		return reverts.Newf(reverts.PoolNotActive, "pool %d is %v", poolID, pl.Status)
	}
	pt, err := p.participantService.GetExisting(poolID, wallet)
	if err != nil {
		return err
	}
	if !pt.IsActive() {
		return reverts.Newf(reverts.ParticipantNotActive, "participant is %v", pt.Status)
	}
	pt.Status = participant.StatusForfeit
	if err := p.participantService.Update(pt); err != nil {
		return err
	}
	p.emit(Event{Kind: EventParticipantForfeited, PoolID: poolID, Time: now, Wallet: addrPtr(wallet), Amount: pt.StakeAmount})
	return nil
}

// RotateVerifier replaces the pool's verifying authority. Only the creator may call it.
func (p *Program) RotateVerifier(signer pact.Address, now uint64, poolID uint64, verifier pact.Address) error {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return err
	}
	if signer != pl.Creator {
		return reverts.Newf(reverts.NotAuthorized, "%v is not the creator of pool %d", signer, poolID)
	}
	if verifier.IsZero() {
		return reverts.New(reverts.InvalidConfig, "verifier required")
	}
	if pl.Status.IsTerminal() {
		return reverts.Newf(reverts.AlreadySettled, "pool %d is %v", poolID, pl.Status)
	}
	pl.Verifier = verifier
	if err := p.poolService.Update(pl); err != nil {
		return err
	}
	logger.Info("verifier rotated", "pool", poolID, "verifier", verifier)
	p.emit(Event{Kind: EventVerifierRotated, PoolID: poolID, Time: now, Wallet: addrPtr(verifier)})
	return nil
}

// Transfer moves funds between wallets. Program owned accounts can be
// neither source nor destination.
func (p *Program) Transfer(from pact.Address, now uint64, to pact.Address, amount uint64) error {
	for _, addr := range []pact.Address{from, to} {
		owned, err := p.state.IsProgram(addr)
		if err != nil {
			return err
		}
		if owned {
			return reverts.Newf(reverts.ProgramAccount, "%v is program owned", addr)
		}
	}
	if err := p.move(from, to, amount); err != nil {
		return err
	}
	p.emit(Event{Kind: EventTransferred, Time: now, Wallet: addrPtr(to), Amount: amount})
	return nil
}
