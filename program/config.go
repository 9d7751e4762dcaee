// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
)

// Config holds the deployment wide program parameters.
type Config struct {
	Namespace            pact.Namespace `yaml:"-" json:"-"`
	MinParticipantsFloor uint64         `yaml:"minParticipantsFloor" json:"minParticipantsFloor"`
	MinParticipantsCeil  uint64         `yaml:"minParticipantsCeil" json:"minParticipantsCeil"`
	MaxParticipantsCap   uint64         `yaml:"maxParticipantsCap" json:"maxParticipantsCap"`
	MinDurationDays      uint64         `yaml:"minDurationDays" json:"minDurationDays"`
	MaxDurationDays      uint64         `yaml:"maxDurationDays" json:"maxDurationDays"`
}

// DefaultConfig returns the production bounds.
func DefaultConfig() Config {
	return Config{
		Namespace:            pact.DefaultNamespace,
		MinParticipantsFloor: pact.DefaultMinParticipantsFloor,
		MinParticipantsCeil:  pact.DefaultMinParticipantsCeil,
		MaxParticipantsCap:   pact.DefaultMaxParticipantsCap,
		MinDurationDays:      pact.DefaultMinDurationDays,
		MaxDurationDays:      pact.DefaultMaxDurationDays,
	}
}

// Validate checks the bounds are consistent.
func (c Config) Validate() error {
	if c.MinParticipantsFloor == 0 {
		return errors.New("min participants floor must be positive")
	}
	if c.MinParticipantsFloor > c.MinParticipantsCeil {
		return errors.Errorf("min participants floor %d above ceil %d", c.MinParticipantsFloor, c.MinParticipantsCeil)
	}
	if c.MaxParticipantsCap < c.MinParticipantsCeil {
		return errors.Errorf("max participants cap %d below min participants ceil %d", c.MaxParticipantsCap, c.MinParticipantsCeil)
	}
	if c.MinDurationDays == 0 || c.MinDurationDays > c.MaxDurationDays {
		return errors.Errorf("invalid duration bounds [%d, %d]", c.MinDurationDays, c.MaxDurationDays)
	}
	return nil
}
