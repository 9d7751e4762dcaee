// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakepact/pact/kv"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/stackedmap"
)

const (
	// AccountBucket is the bucket of account records.
	AccountBucket = kv.Bucket("a")
	// StorageBucket is the bucket of account storage slots.
	StorageBucket = kv.Bucket("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr pact.Address
	key  pact.Bytes32
}

// State manages the ledger state.
type State struct {
	accounts kv.Getter
	storage  kv.Getter
	cache    map[pact.Address]*Account
	sm       *stackedmap.StackedMap // keeps revisions of accounts state
}

// New create state object reading from src.
// The src is usually a snapshot of the underlying store.
func New(src kv.Getter) *State {
	state := State{
		accounts: AccountBucket.NewGetter(src),
		storage:  StorageBucket.NewGetter(src),
		cache:    make(map[pact.Address]*Account),
	}
	state.sm = stackedmap.New(state.cacheGetter)
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case pact.Address:
		if a, ok := s.cache[k]; ok {
			return a, true, nil
		}
		a, err := loadAccount(s.accounts, k)
		if err != nil {
			return nil, false, err
		}
		s.cache[k] = a
		return a, true, nil
	case storageKey:
		v, err := loadStorage(s.storage, k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr pact.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

func (s *State) getAccountCopy(addr pact.Address) (Account, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

func (s *State) updateAccount(addr pact.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr pact.Address) (uint64, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return 0, &Error{err}
	}
	return acc.Balance, nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr pact.Address, balance uint64) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
	return nil
}

// IsProgram returns whether the account is owned by the program.
func (s *State) IsProgram(addr pact.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return acc.Program, nil
}

// SetProgram marks the account as program owned.
func (s *State) SetProgram(addr pact.Address, owned bool) error {
	cpy, err := s.getAccountCopy(addr)
	if err != nil {
		return &Error{err}
	}
	cpy.Program = owned
	s.updateAccount(addr, &cpy)
	return nil
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr pact.Address) (bool, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return false, &Error{err}
	}
	return !acc.IsEmpty(), nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr pact.Address, key pact.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr pact.Address, key pact.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr pact.Address, key pact.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr pact.Address, key pact.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return &Error{err}
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the cumulative changes, ready to be committed.
func (s *State) Stage() *Stage {
	stage := &Stage{
		accounts: make(map[pact.Address]*Account),
		storage:  make(map[storageKey]rlp.RawValue),
	}
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case pact.Address:
			stage.accounts[key] = v.(*Account)
		case storageKey:
			stage.storage[key] = v.(rlp.RawValue)
		}
		return true
	})
	return stage
}
