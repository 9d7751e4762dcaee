// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepact/pact/pact"
)

func keygenAction(ctx *cli.Context) error {
	path := ctx.String(keyFileFlag.Name)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("key file %v already exists", path)
		}
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	encoded := fmt.Sprintf("%x", crypto.FromECDSA(key))
	if path != "" {
		if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
			return errors.WithMessage(err, "write key file")
		}
		// read it back the way signers will
		if _, err := loadKey(path); err != nil {
			return err
		}
	} else {
		fmt.Println("key:    ", encoded)
	}
	fmt.Println("address:", pact.Address(crypto.PubkeyToAddress(key.PublicKey)))
	return nil
}

func deriveAction(ctx *cli.Context) error {
	ns := selectGenesis(ctx).Config().Namespace
	fmt.Println("namespace:  ", ns)
	fmt.Println("registry:   ", ns.RegistryAddress())
	if !ctx.IsSet(poolFlag.Name) {
		return nil
	}
	poolID := ctx.Uint64(poolFlag.Name)
	fmt.Println("pool:       ", ns.PoolAddress(poolID))
	fmt.Println("vault:      ", ns.VaultAddress(poolID))
	if s := ctx.String(walletFlag.Name); s != "" {
		wallet, err := pact.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, "wallet")
		}
		fmt.Println("participant:", ns.ParticipantAddress(poolID, *wallet))
	}
	return nil
}
