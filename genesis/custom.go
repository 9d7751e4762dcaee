// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// CustomGenesis is user customized genesis, loaded from YAML.
type CustomGenesis struct {
	Name       string          `yaml:"name"`
	LaunchTime uint64          `yaml:"launchTime"`
	Namespace  string          `yaml:"namespace"`
	Program    *program.Config `yaml:"program"`
	Accounts   []Alloc         `yaml:"accounts"`
}

// LoadCustom reads a CustomGenesis from a YAML file.
func LoadCustom(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustom create a custom genesis.
func NewCustom(gen *CustomGenesis) (*Genesis, error) {
	config := program.DefaultConfig()
	if gen.Program != nil {
		config = *gen.Program
	}
	config.Namespace = pact.DefaultNamespace
	if gen.Namespace != "" {
		ns, err := pact.ParseNamespace(gen.Namespace)
		if err != nil {
			return nil, errors.Wrap(err, "namespace")
		}
		config.Namespace = ns
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "program config")
	}

	seen := make(map[pact.Address]bool, len(gen.Accounts))
	for _, a := range gen.Accounts {
		if seen[a.Address] {
			return nil, errors.Errorf("%v: allocated twice", a.Address)
		}
		seen[a.Address] = true
	}

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		State(allocate(gen.Accounts))
	return newGenesis(name, config, builder)
}
