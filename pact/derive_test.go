// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDeterministic(t *testing.T) {
	wallet := BytesToAddress([]byte("wallet"))

	assert.Equal(t, DefaultNamespace.PoolAddress(7), DefaultNamespace.PoolAddress(7))
	assert.Equal(t, DefaultNamespace.VaultAddress(7), DefaultNamespace.VaultAddress(7))
	assert.Equal(t, DefaultNamespace.ParticipantAddress(7, wallet), DefaultNamespace.ParticipantAddress(7, wallet))
}

func TestDeriveNoCollision(t *testing.T) {
	w1 := BytesToAddress([]byte("w1"))
	w2 := BytesToAddress([]byte("w2"))

	seen := map[Address]string{DefaultNamespace.RegistryAddress(): "registry"}
	add := func(name string, addr Address) {
		prev, ok := seen[addr]
		assert.False(t, ok, "%s collides with %s", name, prev)
		seen[addr] = name
	}

	for _, id := range []uint64{0, 1, 2, 1 << 40} {
		add("pool", DefaultNamespace.PoolAddress(id))
		add("vault", DefaultNamespace.VaultAddress(id))
		add("participant-w1", DefaultNamespace.ParticipantAddress(id, w1))
		add("participant-w2", DefaultNamespace.ParticipantAddress(id, w2))
	}
}

func TestDeriveNamespaceScoped(t *testing.T) {
	other := Namespace(BytesToBytes32([]byte("other")))
	assert.NotEqual(t, DefaultNamespace.PoolAddress(1), other.PoolAddress(1))
	assert.NotEqual(t, DefaultNamespace.RegistryAddress(), other.RegistryAddress())
}

func TestDeriveMatchesFormula(t *testing.T) {
	ns := DefaultNamespace
	expected := Blake2b(ns[:], []byte("pool"), PoolIDBytes(42))
	assert.Equal(t, BytesToAddress(expected[12:]), ns.PoolAddress(42))

	wallet := MustParseAddress("0x5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b")
	expected = Blake2b(ns[:], []byte("participant"), PoolIDBytes(42), wallet.Bytes())
	assert.Equal(t, BytesToAddress(expected[12:]), ns.ParticipantAddress(42, wallet))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b")
	assert.NoError(t, err)
	assert.Equal(t, "0x5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b", addr.String())

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.EqualError(t, err, "invalid prefix")
}
