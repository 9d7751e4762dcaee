// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package payout computes settlement amounts. All divisions truncate toward zero
// and every unit of truncation dust is routed to charity.
package payout

import (
	"math/bits"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
)

var ErrOverflow = errors.New("payout: amount overflow")

// Plan is the outcome of one settlement.
type Plan struct {
	Forfeited      uint64   // sum of loser stakes
	ToWinnersPool  uint64   // forfeited * share / 100
	PerWinnerBonus uint64   // ToWinnersPool / len(winners)
	Winners        []uint64 // payout per winner, stake + bonus
	Dust           uint64   // truncation remainder of the per-winner split
	Charity        uint64   // forfeited - ToWinnersPool + Dust
	Total          uint64   // everything disbursed
}

// Compute splits forfeited between the winners (given by their stakes) and charity.
// With no winners the whole forfeited amount goes to charity.
func Compute(sharePercent uint8, winnerStakes []uint64, forfeited uint64) (*Plan, error) {
	if sharePercent > pact.MaxPercent {
		return nil, errors.Errorf("payout: share %d exceeds %d", sharePercent, pact.MaxPercent)
	}
	plan := &Plan{
		Forfeited: forfeited,
		Winners:   make([]uint64, len(winnerStakes)),
	}

	if len(winnerStakes) > 0 {
		plan.ToWinnersPool = mulDiv(forfeited, uint64(sharePercent), pact.MaxPercent)
		n := uint64(len(winnerStakes))
		plan.PerWinnerBonus = plan.ToWinnersPool / n
		plan.Dust = plan.ToWinnersPool - plan.PerWinnerBonus*n
	}
	plan.Charity = forfeited - plan.ToWinnersPool + plan.Dust

	total := plan.Charity
	for i, stake := range winnerStakes {
		amount, overflow := math.SafeAdd(stake, plan.PerWinnerBonus)
		if overflow {
			return nil, ErrOverflow
		}
		plan.Winners[i] = amount
		if total, overflow = math.SafeAdd(total, amount); overflow {
			return nil, ErrOverflow
		}
	}
	plan.Total = total
	return plan, nil
}

// mulDiv returns a*b/d without intermediate overflow. The result fits when b <= d.
func mulDiv(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, d)
	return q
}
