// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pact

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const AddressLength = common.AddressLength

// Address identifies an account: a wallet, or one of the program's derived accounts.
type Address common.Address

func (a Address) String() string {
	return hexutil.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText encodes a as lower case 0x-prefixed hex, in JSON and YAML alike.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	return decodeFixed(string(text), a[:])
}

// ParseAddress parses a hex address with or without 0x prefix.
func ParseAddress(s string) (*Address, error) {
	var addr Address
	if err := decodeFixed(s, addr[:]); err != nil {
		return nil, err
	}
	return &addr, nil
}

func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return *addr
}

// BytesToAddress left-pads or left-crops b to an address.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
