// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instr

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
	"github.com/stakepact/pact/program/goal"
	"github.com/stakepact/pact/program/pool"
)

func createArgs() *program.CreatePoolArgs {
	return &program.CreatePoolArgs{
		PoolID:             42,
		StakeAmount:        1_000,
		DurationDays:       7,
		MinParticipants:    5,
		MaxParticipants:    20,
		Mode:               pool.ModeSplit,
		WinnerSharePercent: 80,
		Charity:            pact.BytesToAddress([]byte("charity")),
		Verifier:           pact.BytesToAddress([]byte("verifier")),
		Goal:               goal.New(goal.GithubCommits{Username: "octocat", MinCommitsPerDay: 1}),
		AllowLateJoin:      true,
	}
}

func TestInstructionPayload(t *testing.T) {
	args := createArgs()
	tests := []struct {
		ins     *Instruction
		kind    Kind
		payload any
		poolID  uint64
		hasPool bool
	}{
		{CreatePool(args, 1), KindCreatePool, args, 42, true},
		{JoinPool(3, 1), KindJoinPool, &PoolRef{PoolID: 3}, 3, true},
		{Tick(4, 0), KindTick, &PoolRef{PoolID: 4}, 4, true},
		{VerifyParticipant(&program.VerifyArgs{PoolID: 5, Day: 2, Passed: true}, 9), KindVerifyParticipant,
			&program.VerifyArgs{PoolID: 5, Day: 2, Passed: true}, 5, true},
		{DistributeRewards(6, 1), KindDistributeRewards, &PoolRef{PoolID: 6}, 6, true},
		{Forfeit(7, 1), KindForfeit, &PoolRef{PoolID: 7}, 7, true},
		{RotateVerifierOf(8, pact.BytesToAddress([]byte{1}), 1), KindRotateVerifier,
			&RotateVerifier{PoolID: 8, Verifier: pact.BytesToAddress([]byte{1})}, 8, true},
		{TransferTo(pact.BytesToAddress([]byte{2}), 10, 1), KindTransfer,
			&Transfer{To: pact.BytesToAddress([]byte{2}), Amount: 10}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.ins.Kind())

			raw, err := tt.ins.Encode()
			require.NoError(t, err)
			decoded, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.ins.Hash(), decoded.Hash())
			assert.Equal(t, tt.ins.ID(pact.Address{}), decoded.ID(pact.Address{}))

			payload, err := decoded.Payload()
			require.NoError(t, err)
			assert.Equal(t, tt.payload, payload)

			poolID, ok, err := decoded.PoolID()
			require.NoError(t, err)
			assert.Equal(t, tt.hasPool, ok)
			assert.Equal(t, tt.poolID, poolID)
		})
	}
}

func TestInstructionHashes(t *testing.T) {
	ins := JoinPool(1, 7)
	signed := ins.WithSignature([]byte{1, 2, 3})

	assert.Equal(t, ins.SigningHash(), signed.SigningHash(), "signature is not part of the signing hash")
	assert.NotEqual(t, ins.Hash(), signed.Hash())

	// the id ignores signature bytes and binds the signer
	alice, bob := pact.BytesToAddress([]byte("alice")), pact.BytesToAddress([]byte("bob"))
	assert.Equal(t, signed.ID(alice), signed.WithSignature([]byte{4, 5, 6}).ID(alice))
	assert.NotEqual(t, signed.ID(alice), signed.ID(bob))
	assert.NotEqual(t, ins.ID(alice), signed.ID(alice), "unsigned ids do not take a signer")
	assert.Equal(t, ins.ID(alice), ins.ID(bob))
	assert.NotEqual(t, ins.SigningHash(), JoinPool(1, 8).SigningHash())
	assert.Nil(t, ins.Signature())
	assert.Equal(t, []byte{1, 2, 3}, signed.Signature())
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := Decode("0xzz")
	assert.Error(t, err)

	_, err = Decode("0x01")
	assert.Error(t, err)

	raw, err := JoinPool(1, 1).Encode()
	require.NoError(t, err)
	_, err = Decode(raw[2:])
	assert.Error(t, err, "0x prefix is required")

	_, err = New(Kind(0), &PoolRef{}, 0)
	assert.Error(t, err)
}

func TestSigning(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := pact.Address(crypto.PubkeyToAddress(key.PublicKey))

	signing := NewSigning(pact.DefaultNamespace)
	signed, err := signing.Sign(JoinPool(1, 1), key)
	require.NoError(t, err)

	signer, err := signing.Signer(signed)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	// cached
	signer, err = signing.Signer(signed)
	require.NoError(t, err)
	assert.Equal(t, addr, signer)

	_, err = signing.Signer(JoinPool(1, 1))
	assert.ErrorIs(t, err, ErrUnsigned)

	// a signature from another namespace recovers a different address
	other := NewSigning(pact.Namespace(pact.Blake2b([]byte("other"))))
	signer, err = other.Signer(signed)
	if err == nil {
		assert.NotEqual(t, addr, signer)
	}

	// tampering with the signature changes the recovered signer
	sig := signed.Signature()
	sig[10] ^= 0xff
	signer, err = signing.Signer(signed.WithSignature(sig))
	if err == nil {
		assert.NotEqual(t, addr, signer)
	}
}

// malleate returns the other valid signature over the same hash: s' = N - s, v flipped.
func malleate(sig []byte) []byte {
	out := append([]byte(nil), sig...)
	s := new(big.Int).SetBytes(sig[32:64])
	s.Sub(crypto.S256().Params().N, s)
	s.FillBytes(out[32:64])
	out[64] ^= 1
	return out
}

func TestSigningRejectsHighS(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := pact.Address(crypto.PubkeyToAddress(key.PublicKey))

	signing := NewSigning(pact.DefaultNamespace)
	signed := signing.MustSign(TransferTo(pact.BytesToAddress([]byte("payee")), 100, 1), key)

	id, err := signing.ID(signed)
	require.NoError(t, err)
	assert.Equal(t, signed.ID(addr), id)

	twin := signed.WithSignature(malleate(signed.Signature()))
	assert.NotEqual(t, signed.Hash(), twin.Hash())
	_, err = signing.Signer(twin)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = signing.Signer(signed.WithSignature([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	id, err = signing.ID(Tick(4, 0))
	require.NoError(t, err)
	assert.Equal(t, Tick(4, 0).ID(pact.Address{}), id)
}
