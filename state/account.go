// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/kv"
	"github.com/stakepact/pact/pact"
)

// Account is the ledger representation of an account.
// RLP encoded objects are stored in the account bucket.
type Account struct {
	Balance uint64
	// Program marks accounts owned by the escrow program. Their balance
	// only moves through program instructions.
	Program bool
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and is not program owned.
func (a *Account) IsEmpty() bool {
	return a.Balance == 0 && !a.Program
}

func emptyAccount() *Account {
	return &Account{}
}

// loadAccount load an account object by address from the account getter.
// If the given address not found, an empty account is returned.
func loadAccount(getter kv.Getter, addr pact.Address) (*Account, error) {
	data, err := getter.Get(addr[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return &a, nil
}

// saveAccount save account into the account putter.
// An empty account is removed.
func saveAccount(putter kv.Putter, addr pact.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr[:])
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr[:], data)
}

func storageDBKey(addr pact.Address, key pact.Bytes32) []byte {
	return append(append(make([]byte, 0, len(addr)+len(key)), addr[:]...), key[:]...)
}

// loadStorage load storage value for the given key. Missing keys yield nil.
func loadStorage(getter kv.Getter, addr pact.Address, key pact.Bytes32) (rlp.RawValue, error) {
	v, err := getter.Get(storageDBKey(addr, key))
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// saveStorage save value for given key.
// If the data is zero, the given key will be deleted.
func saveStorage(putter kv.Putter, addr pact.Address, key pact.Bytes32, data rlp.RawValue) error {
	if len(data) == 0 {
		return putter.Delete(storageDBKey(addr, key))
	}
	return putter.Put(storageDBKey(addr, key), data)
}
