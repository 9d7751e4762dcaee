// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

// TestConservation_RandomLifecycles drives pools through random instruction
// sequences and checks the vault after every step.
func TestConservation_RandomLifecycles(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		prog := newTestProgram(t)
		members := wallets(20)
		fund(t, prog, 10_000, members...)

		args := defaultArgs(seed)
		args.StakeAmount = 1 + rng.Uint64N(500)
		args.DurationDays = 1 + rng.Uint64N(5)
		args.MaxParticipants = 5 + rng.Uint64N(15)
		args.Mode = pool.Mode(1 + rng.IntN(3))
		args.WinnerSharePercent = uint8(rng.IntN(101))
		args.AllowLateJoin = rng.IntN(2) == 0
		args.RequireMinParticipants = rng.IntN(2) == 0
		require.NoError(t, prog.CreatePool(creator, t0, args))

		var (
			total   uint64
			settled bool
		)
		for now := t0; now < t0+30*oneDay && !settled; now += 1 + rng.Uint64N(oneDay/3) {
			var err error
			w := members[rng.IntN(len(members))]
			pl, perr := prog.Pool(seed)
			require.NoError(t, perr)

			switch rng.IntN(5) {
			case 0, 1:
				err = prog.JoinPool(w, now, seed)
			case 2:
				_, err = prog.Tick(now, seed)
			case 3:
				err = prog.VerifyParticipant(verifier, now, &VerifyArgs{
					PoolID: seed,
					Wallet: w,
					Day:    pl.CurrentDay(now),
					Passed: rng.IntN(4) != 0,
				})
			case 4:
				if rng.IntN(8) == 0 {
					err = prog.Forfeit(w, now, seed)
				} else {
					err = prog.DistributeRewards(verifier, now, seed)
				}
			}
			if err != nil {
				require.True(t, reverts.IsRevertErr(err), "seed %d: unexpected error %v", seed, err)
			}
			require.NoError(t, prog.CheckConservation(seed), "seed %d at %d", seed, now)

			pl, perr = prog.Pool(seed)
			require.NoError(t, perr)
			settled = pl.Status.IsTerminal()
		}

		// value never leaves the closed system of wallets, charity and vault
		for _, w := range members {
			total += balanceOf(t, prog, w)
		}
		vault, err := prog.VaultBalance(seed)
		require.NoError(t, err)
		total += vault + balanceOf(t, prog, charity)
		assert.Equal(t, uint64(len(members))*10_000, total, "seed %d", seed)
	}
}
