// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
)

// Pool is a pool record with its derived view at request time.
type Pool struct {
	*pool.Pool
	VaultBalance   uint64          `json:"vaultBalance"`
	CurrentDay     *uint64         `json:"currentDay,omitempty"`
	NextTransition pool.Transition `json:"nextTransition"`
}

type Participant = participant.Participant
