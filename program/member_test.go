// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
)

func TestForfeit(t *testing.T) {
	prog, start := newActivePool(t, nil)

	require.NoError(t, prog.Forfeit(wallet(2), start+60, 1))
	assertParticipant(t, prog, 1, wallet(2), participant.StatusForfeit)
	AssertPool(prog, 1).Vault(500).Assert(t)
	assert.Equal(t, uint64(900), balanceOf(t, prog, wallet(2)))

	err := prog.Forfeit(wallet(2), start+120, 1)
	assert.True(t, reverts.Is(err, reverts.ParticipantNotActive), "got %v", err)

	err = prog.VerifyParticipant(verifier, start+120, verifyArgs(2, 0, true))
	assert.True(t, reverts.Is(err, reverts.ParticipantNotActive), "got %v", err)

	err = prog.Forfeit(wallet(9), start, 1)
	assert.True(t, reverts.Is(err, reverts.ParticipantNotFound), "got %v", err)
}

func TestForfeit_OnlyWhileActive(t *testing.T) {
	prog := newTestProgram(t)
	fund(t, prog, 1000, wallet(0))
	require.NoError(t, prog.CreatePool(creator, t0, defaultArgs(1)))
	require.NoError(t, prog.JoinPool(wallet(0), t0, 1))

	err := prog.Forfeit(wallet(0), t0, 1)
	assert.True(t, reverts.Is(err, reverts.PoolNotActive), "got %v", err)
}

func TestRotateVerifier(t *testing.T) {
	prog, start := newActivePool(t, func(a *CreatePoolArgs) { a.DurationDays = 1 })
	next := wallet(77)

	err := prog.RotateVerifier(verifier, start, 1, next)
	assert.True(t, reverts.Is(err, reverts.NotAuthorized), "got %v", err)

	err = prog.RotateVerifier(creator, start, 1, pact.Address{})
	assert.True(t, reverts.Is(err, reverts.InvalidConfig), "got %v", err)

	require.NoError(t, prog.RotateVerifier(creator, start, 1, next))

	err = prog.VerifyParticipant(verifier, start, verifyArgs(0, 0, true))
	assert.True(t, reverts.Is(err, reverts.NotAuthorized), "got %v", err)
	require.NoError(t, prog.VerifyParticipant(next, start, verifyArgs(0, 0, true)))

	require.NoError(t, prog.DistributeRewards(next, start+oneDay, 1))

	err = prog.RotateVerifier(creator, start+oneDay, 1, verifier)
	assert.True(t, reverts.Is(err, reverts.AlreadySettled), "got %v", err)

	pl, err := prog.Pool(1)
	require.NoError(t, err)
	assert.Equal(t, next, pl.Verifier)
	assert.Equal(t, pool.StatusSettled, pl.Status)
}

func TestTransfer(t *testing.T) {
	prog, _ := newActivePool(t, nil)
	ns := prog.Namespace()

	require.NoError(t, prog.Transfer(wallet(8), t0, wallet(9), 250))
	assert.Equal(t, uint64(750), balanceOf(t, prog, wallet(8)))
	assert.Equal(t, uint64(1250), balanceOf(t, prog, wallet(9)))

	err := prog.Transfer(wallet(8), t0, wallet(9), 751)
	assert.True(t, reverts.Is(err, reverts.InsufficientFunds), "got %v", err)

	for _, addr := range []pact.Address{
		ns.VaultAddress(1),
		ns.PoolAddress(1),
		ns.RegistryAddress(),
		ns.ParticipantAddress(1, wallet(0)),
	} {
		err = prog.Transfer(wallet(8), t0, addr, 1)
		assert.True(t, reverts.Is(err, reverts.ProgramAccount), "got %v", err)
		err = prog.Transfer(addr, t0, wallet(8), 1)
		assert.True(t, reverts.Is(err, reverts.ProgramAccount), "got %v", err)
	}
	AssertPool(prog, 1).Vault(500).Assert(t)
	assert.NoError(t, prog.CheckConservation(1))
}
