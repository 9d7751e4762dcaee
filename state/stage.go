// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"slices"

	"github.com/stakepact/pact/kv"
	"github.com/stakepact/pact/pact"

	"github.com/ethereum/go-ethereum/rlp"
)

// Stage holds the final value of every touched account and storage slot.
type Stage struct {
	accounts map[pact.Address]*Account
	storage  map[storageKey]rlp.RawValue
}

// Len returns the count of changed entries.
func (s *Stage) Len() int {
	return len(s.accounts) + len(s.storage)
}

// Accounts returns the changed addresses in ascending order.
func (s *Stage) Accounts() []pact.Address {
	addrs := make([]pact.Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b pact.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return addrs
}

// Hash computes a digest of the change set. Equal change sets give equal hashes.
func (s *Stage) Hash() pact.Bytes32 {
	keys := make([]storageKey, 0, len(s.storage))
	for k := range s.storage {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b storageKey) int {
		if c := bytes.Compare(a.addr[:], b.addr[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.key[:], b.key[:])
	})

	var w bytes.Buffer
	for _, addr := range s.Accounts() {
		enc, _ := rlp.EncodeToBytes(s.accounts[addr])
		w.Write(addr[:])
		w.Write(enc)
	}
	for _, k := range keys {
		w.Write(k.addr[:])
		w.Write(k.key[:])
		w.Write(s.storage[k])
	}
	return pact.Blake2b(w.Bytes())
}

// Commit writes all changes into the putter.
// The putter is usually a kv.Bulk so that changes are applied atomically.
func (s *Stage) Commit(putter kv.Putter) error {
	accounts := AccountBucket.NewPutter(putter)
	storage := StorageBucket.NewPutter(putter)

	for addr, a := range s.accounts {
		if err := saveAccount(accounts, addr, a); err != nil {
			return &Error{err}
		}
	}
	for k, v := range s.storage {
		if err := saveStorage(storage, k.addr, k.key, v); err != nil {
			return &Error{err}
		}
	}
	return nil
}
