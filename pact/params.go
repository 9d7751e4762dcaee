// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pact

// Timing constants, all in seconds.
const (
	SecondsPerDay uint64 = 86400

	RecruitmentWindow    = 7 * SecondsPerDay // recruitment deadline offset from creation
	AutoStartDelay       = SecondsPerDay     // delay between filling and automatic start
	RecruitmentExtension = SecondsPerDay     // scheduled start push when the minimum is not met
)

// Default program bounds.
const (
	DefaultMinParticipantsFloor = 5
	DefaultMinParticipantsCeil  = 50
	DefaultMaxParticipantsCap   = 100
	DefaultMinDurationDays      = 1
	DefaultMaxDurationDays      = 30
	MaxPercent                  = 100
)
