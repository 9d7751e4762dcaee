// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"encoding/binary"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/stakepact/pact/pact"
)

type Key interface {
	Bytes() []byte
}

// Uint64 is a mapping key over an unsigned integer.
type Uint64 uint64

func (u Uint64) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(u))
	return b[:]
}

// Mapping is a key/value storage abstraction for program accounts.
// Each entry lives at Blake2b(key, basePos) in the account storage.
type Mapping[K Key, V any] struct {
	context *Context
	basePos pact.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos pact.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

// Get returns the value for key. A missing entry yields the zero value,
// or a freshly allocated value when V is a pointer type.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	position := pact.Blake2b(key.Bytes(), m.basePos.Bytes())
	return decode[V](m.context, position)
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	position := pact.Blake2b(key.Bytes(), m.basePos.Bytes())
	return encode(m.context, position, value)
}

// Delete clears the entry for key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.write()
	m.context.state.SetRawStorage(m.context.address, pact.Blake2b(key.Bytes(), m.basePos.Bytes()), nil)
}

func decode[V any](ctx *Context, position pact.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, position, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		ctx.read()
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func encode[V any](ctx *Context, position pact.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, position, func() ([]byte, error) {
		ctx.write()
		return rlp.EncodeToBytes(value)
	})
}
