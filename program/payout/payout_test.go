// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package payout

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stakes(n int, amount uint64) []uint64 {
	s := make([]uint64, n)
	for i := range s {
		s[i] = amount
	}
	return s
}

func TestComputeScenario(t *testing.T) {
	// 10 participants stake 1, 3 fail, 7 succeed, full share to winners
	plan, err := Compute(100, stakes(7, 1), 3)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), plan.ToWinnersPool)
	assert.Equal(t, uint64(0), plan.PerWinnerBonus)
	for _, w := range plan.Winners {
		assert.Equal(t, uint64(1+3/7), w)
	}
	assert.Equal(t, uint64(3-7*(3/7)), plan.Dust)
	assert.Equal(t, uint64(3), plan.Charity)
	assert.Equal(t, uint64(10), plan.Total)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		share     uint8
		winners   []uint64
		forfeited uint64
		perWinner uint64
		charity   uint64
	}{
		{"all to winners, even split", 100, stakes(2, 10), 20, 20, 0},
		{"charity only", 0, stakes(2, 10), 20, 10, 20},
		{"split with dust", 50, stakes(3, 10), 26, 14, 14}, // 13 to winners, 4 each, 1 dust
		{"no winners", 100, nil, 30, 0, 30},
		{"no losers", 80, stakes(4, 5), 0, 5, 0},
		{"truncated share", 33, stakes(1, 1), 10, 4, 7}, // 3.3 -> 3
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compute(tt.share, tt.winners, tt.forfeited)
			require.NoError(t, err)
			for _, w := range plan.Winners {
				assert.Equal(t, tt.perWinner, w)
			}
			assert.Equal(t, tt.charity, plan.Charity)

			var stakeSum uint64
			for _, s := range tt.winners {
				stakeSum += s
			}
			assert.Equal(t, stakeSum+tt.forfeited, plan.Total)
		})
	}
}

func TestComputeRoundingSafety(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		n := r.IntN(50)
		share := uint8(r.IntN(101))
		forfeited := r.Uint64N(1 << 40)
		winners := stakes(n, r.Uint64N(1<<20)+1)

		plan, err := Compute(share, winners, forfeited)
		require.NoError(t, err)

		var bonus uint64
		for i, w := range plan.Winners {
			bonus += w - winners[i]
		}
		// no dust lost or fabricated
		assert.Equal(t, forfeited, bonus+plan.Charity)
	}
}

func TestComputeLimits(t *testing.T) {
	// share arithmetic does not overflow for huge forfeits
	plan, err := Compute(100, stakes(1, 0), math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), plan.Winners[0])
	assert.Equal(t, uint64(0), plan.Charity)

	_, err = Compute(100, stakes(1, 1), math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Compute(101, nil, 1)
	assert.Error(t, err)
}
