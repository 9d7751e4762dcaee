// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"github.com/stakepact/pact/pact"
)

// Raw is a single rlp-encoded value stored at a fixed position.
type Raw[V any] struct {
	context *Context
	pos     pact.Bytes32
}

func NewRaw[V any](context *Context, pos pact.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (V, error) {
	return decode[V](r.context, r.pos)
}

func (r *Raw[V]) Set(value V) error {
	return encode(r.context, r.pos, value)
}

// Exists reports whether a value has been stored.
func (r *Raw[V]) Exists() (bool, error) {
	raw, err := r.context.state.GetRawStorage(r.context.address, r.pos)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}
