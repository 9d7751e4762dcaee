// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pact

import (
	"encoding/binary"
	"io"
)

// Namespace scopes every derived account address to one program deployment.
// Derivation is a pure function of the namespace and the seeds, so any off-chain
// caller can locate an account without a directory service:
//
//	addr = Blake2b(namespace || tag || seeds...)[12:]
type Namespace Bytes32

// DefaultNamespace is the namespace used when the genesis config does not override it.
var DefaultNamespace = Namespace(BytesToBytes32([]byte("pact/commitment-pool/v1")))

const (
	tagPool        = "pool"
	tagParticipant = "participant"
	tagVault       = "vault"
	tagRegistry    = "registry"
)

// ParseNamespace parses a hex encoded namespace.
func ParseNamespace(s string) (Namespace, error) {
	b, err := ParseBytes32(s)
	if err != nil {
		return Namespace{}, err
	}
	return Namespace(b), nil
}

func (ns Namespace) String() string {
	return Bytes32(ns).String()
}

func (ns Namespace) derive(tag string, seeds ...[]byte) Address {
	h := Blake2bFn(func(w io.Writer) {
		w.Write(ns[:])
		w.Write([]byte(tag))
		for _, s := range seeds {
			w.Write(s)
		}
	})
	return BytesToAddress(h[12:])
}

// PoolAddress returns f(namespace, pool_id).
func (ns Namespace) PoolAddress(poolID uint64) Address {
	return ns.derive(tagPool, PoolIDBytes(poolID))
}

// VaultAddress returns f(namespace, pool_id, "vault").
func (ns Namespace) VaultAddress(poolID uint64) Address {
	return ns.derive(tagVault, PoolIDBytes(poolID), []byte(tagVault))
}

// ParticipantAddress returns f(namespace, pool_id, wallet).
func (ns Namespace) ParticipantAddress(poolID uint64, wallet Address) Address {
	return ns.derive(tagParticipant, PoolIDBytes(poolID), wallet.Bytes())
}

// RegistryAddress returns the program-wide account indexing every created pool.
func (ns Namespace) RegistryAddress() Address {
	return ns.derive(tagRegistry)
}

// PoolIDBytes is the big-endian seed form of a pool id.
func PoolIDBytes(poolID uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], poolID)
	return b[:]
}
