// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

func TestJoinPool(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallet(1))
	require.NoError(t, prog.CreatePool(creator, t0, defaultArgs(1)))

	require.NoError(t, prog.JoinPool(wallet(1), t0+60, 1))

	assert.Equal(t, uint64(900), balanceOf(t, prog, wallet(1)))
	AssertPool(prog, 1).Status(pool.StatusRecruiting).Count(1).Vault(100).Assert(t)

	pt := assertParticipant(t, prog, 1, wallet(1), participant.StatusActive)
	assert.Equal(t, uint64(0), pt.Ordinal)
	assert.Equal(t, uint64(100), pt.StakeAmount)
	assert.Equal(t, t0+60, pt.JoinTimestamp)
	assert.False(t, pt.Verified)

	pl, err := prog.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), pl.TotalStaked)

	owned, err := prog.state.IsProgram(prog.Namespace().ParticipantAddress(1, wallet(1)))
	require.NoError(t, err)
	assert.True(t, owned)
	assert.NoError(t, prog.CheckConservation(1))
}

func TestJoinPool_ExactlyOnce(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallet(1))
	require.NoError(t, prog.CreatePool(creator, t0, defaultArgs(1)))
	require.NoError(t, prog.JoinPool(wallet(1), t0, 1))

	err := prog.JoinPool(wallet(1), t0+1, 1)
	assert.True(t, reverts.Is(err, reverts.AlreadyJoined), "got %v", err)

	assert.Equal(t, uint64(900), balanceOf(t, prog, wallet(1)))
	AssertPool(prog, 1).Count(1).Vault(100).Assert(t)
}

func TestJoinPool_Rejections(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallets(12)...)
	fund(t, prog, 99, wallet(99))

	args := defaultArgs(1)
	args.MaxParticipants = 5
	require.NoError(t, prog.CreatePool(creator, t0, args))

	err := prog.JoinPool(wallet(0), t0, 42)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound), "got %v", err)

	err = prog.JoinPool(wallet(99), t0, 1)
	assert.True(t, reverts.Is(err, reverts.InsufficientFunds), "got %v", err)
	assert.Equal(t, uint64(99), balanceOf(t, prog, wallet(99)))

	for _, w := range wallets(5) {
		require.NoError(t, prog.JoinPool(w, t0, 1))
	}
	err = prog.JoinPool(wallet(5), t0, 1)
	assert.True(t, reverts.Is(err, reverts.PoolFull), "got %v", err)
	code, _ := reverts.CodeOf(err)
	assert.Equal(t, reverts.CategoryResource, code.Category())

	AssertPool(prog, 1).Count(5).Vault(500).Assert(t)
	assert.Equal(t, uint64(1000), balanceOf(t, prog, wallet(5)))
}

func TestJoinPool_NotJoinableOnceActive(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallets(6)...)
	require.NoError(t, prog.CreatePool(creator, t0, defaultArgs(1)))

	NewSequence(prog).
		Join(1, t0, wallets(5)...).
		Tick(1, t0+oneDay, pool.TransitionActivate).
		Reverts(reverts.PoolNotJoinable, func(prog *Program) error {
			return prog.JoinPool(wallet(5), t0+oneDay+1, 1)
		}).
		Run(t)

	AssertPool(prog, 1).Status(pool.StatusActive).Count(5).Vault(500).Assert(t)
}

func TestJoinPool_LateJoin(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallets(6)...)
	args := defaultArgs(1)
	args.AllowLateJoin = true
	require.NoError(t, prog.CreatePool(creator, t0, args))

	start := t0 + oneDay
	NewSequence(prog).
		Join(1, t0, wallets(5)...).
		Tick(1, start, pool.TransitionActivate).
		Join(1, start+oneDay, wallet(5)).
		Conserved(1).
		// no late joins once the challenge is over
		Reverts(reverts.PoolNotJoinable, func(prog *Program) error {
			fund(t, prog, 1000, wallet(6))
			return prog.JoinPool(wallet(6), start+3*oneDay, 1)
		}).
		Run(t)

	AssertPool(prog, 1).Status(pool.StatusActive).Count(6).Vault(600).Assert(t)
	assertParticipant(t, prog, 1, wallet(5), participant.StatusActive)
}

func TestJoinPool_FillSchedulesAutoStart(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallets(6)...)
	require.NoError(t, prog.CreatePool(creator, t0, defaultArgs(1)))

	filledAt := t0 + 2*oneDay
	require.NoError(t, prog.JoinPool(wallet(0), t0, 1))
	for _, w := range wallets(5)[1:] {
		require.NoError(t, prog.JoinPool(w, filledAt, 1))
	}

	pl, err := prog.Pool(1)
	require.NoError(t, err)
	require.True(t, pl.IsFilled())
	assert.Equal(t, filledAt, *pl.FilledAt)
	assert.Equal(t, filledAt+oneDay, *pl.AutoStartTime)
	assert.Equal(t, filledAt+oneDay, pl.ScheduledStartTime)

	// joining past the minimum keeps the first fill time
	require.NoError(t, prog.JoinPool(wallet(5), filledAt+3600, 1))
	pl, err = prog.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, filledAt, *pl.FilledAt)

	var filled int
	for _, ev := range prog.Events() {
		if ev.Kind == EventRecruitmentFilled {
			filled++
		}
	}
	assert.Equal(t, 1, filled)
}

func TestJoinPool_FillKeepsEarlierSchedule(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallets(5)...)
	args := defaultArgs(1)
	args.ScheduledStartTime = t0 + oneDay/2
	require.NoError(t, prog.CreatePool(creator, t0, args))

	for _, w := range wallets(5) {
		require.NoError(t, prog.JoinPool(w, t0+3600, 1))
	}

	pl, err := prog.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, t0+3600+oneDay, *pl.AutoStartTime)
	assert.Equal(t, t0+oneDay/2, pl.ScheduledStartTime)
}
