// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pact

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	errHexLength = errors.New("invalid length")
	errHexPrefix = errors.New("invalid prefix")
)

// decodeFixed decodes s into out. The 0x prefix is optional but s must
// encode exactly len(out) bytes.
func decodeFixed(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
		s = "0x" + s
	case len(out)*2 + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errHexPrefix
		}
		s = "0x" + s[2:]
	default:
		return errHexLength
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return err
	}
	copy(out, b)
	return nil
}
