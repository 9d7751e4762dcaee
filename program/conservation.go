// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/program/participant"
)

// ErrConservation reports a vault balance that does not match the claims on it.
var ErrConservation = errors.New("conservation violated")

// CheckConservation verifies the vault balance of the pool equals the stakes
// still escrowed plus the yield, and that nothing remains once the pool is terminal.
func (p *Program) CheckConservation(poolID uint64) error {
	pl, err := p.poolService.GetExisting(poolID)
	if err != nil {
		return err
	}
	balance, err := p.VaultBalance(poolID)
	if err != nil {
		return err
	}

	var escrowed, staked, paid uint64
	err = p.participantService.Iterate(poolID, pl.ParticipantCount, func(pt *participant.Participant) error {
		staked += pt.StakeAmount
		paid += pt.Payout
		if !pt.Refunded && pt.Payout == 0 {
			escrowed += pt.StakeAmount
		}
		return nil
	})
	if err != nil {
		return err
	}
	if staked != pl.TotalStaked {
		return errors.Wrapf(ErrConservation, "pool %d: total staked %d, participants hold %d", poolID, pl.TotalStaked, staked)
	}

	if pl.Status.IsTerminal() {
		if balance != 0 {
			return errors.Wrapf(ErrConservation, "pool %d is %v with vault balance %d", poolID, pl.Status, balance)
		}
		if paid > pl.FinalPoolValue {
			return errors.Wrapf(ErrConservation, "pool %d paid %d above final value %d", poolID, paid, pl.FinalPoolValue)
		}
		return nil
	}
	if expected := escrowed + pl.YieldEarned; balance != expected {
		return errors.Wrapf(ErrConservation, "pool %d: vault balance %d, expected %d", poolID, balance, expected)
	}
	return nil
}
