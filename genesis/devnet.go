// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// DevAccount is a funded development wallet with a well-known key.
type DevAccount struct {
	Address    pact.Address
	PrivateKey *ecdsa.PrivateKey
}

const (
	// DevBalance is the genesis balance of every dev account.
	DevBalance = 1_000_000_000

	devAccountCount = 10
)

// DevAccounts returns the devnet wallets. Key i is blake2b("pact-devnet", i),
// so tools can rebuild them without a key file.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	accs := make([]DevAccount, 0, devAccountCount)
	for i := range devAccountCount {
		seed := pact.Blake2b([]byte("pact-devnet"), []byte{byte(i)})
		pk, err := crypto.ToECDSA(seed[:])
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{pact.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// NewDevnet creates the development genesis with every dev account funded.
func NewDevnet() *Genesis {
	launchTime := uint64(1735689600) // 2025-01-01T00:00:00Z

	alloc := make([]Alloc, 0, devAccountCount)
	for _, acc := range DevAccounts() {
		alloc = append(alloc, Alloc{Address: acc.Address, Balance: DevBalance})
	}

	builder := new(Builder).
		Timestamp(launchTime).
		State(allocate(alloc))

	gen, err := newGenesis("devnet", program.DefaultConfig(), builder)
	if err != nil {
		panic(err)
	}
	return gen
}
