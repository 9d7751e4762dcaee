// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instr

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/cache"
	"github.com/stakepact/pact/pact"
)

var signerCacheSize = 1024

var (
	// ErrUnsigned is returned when recovering the signer of an unsigned instruction.
	ErrUnsigned = errors.New("instruction is not signed")
	// ErrInvalidSignature rejects malformed and non-canonical (high s) signatures.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signing signs instructions and recovers their signers.
// The signing hash is masked with the namespace so a signature is only valid
// for one program deployment.
type Signing struct {
	ns    pact.Namespace
	cache *cache.LRU[pact.Bytes32, pact.Address]
}

// NewSigning create a signing object.
func NewSigning(ns pact.Namespace) *Signing {
	return &Signing{
		ns:    ns,
		cache: cache.MustNewLRU[pact.Bytes32, pact.Address](signerCacheSize),
	}
}

// xor signing hash with namespace
func (s *Signing) maskHash(signingHash *pact.Bytes32) {
	for i := range signingHash {
		signingHash[i] ^= s.ns[i]
	}
}

// Sign returns a copy of ins signed with key.
func (s *Signing) Sign(ins *Instruction, key *ecdsa.PrivateKey) (*Instruction, error) {
	signingHash := ins.SigningHash()
	s.maskHash(&signingHash)

	sig, err := crypto.Sign(signingHash[:], key)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign instruction")
	}
	return ins.WithSignature(sig), nil
}

// MustSign is Sign that panics on error.
func (s *Signing) MustSign(ins *Instruction, key *ecdsa.PrivateKey) *Instruction {
	signed, err := s.Sign(ins, key)
	if err != nil {
		panic(err)
	}
	return signed
}

// Signer extract signer from signed instruction.
func (s *Signing) Signer(ins *Instruction) (pact.Address, error) {
	if !ins.IsSigned() {
		return pact.Address{}, ErrUnsigned
	}
	return s.cache.GetOrLoad(ins.Hash(), func(pact.Bytes32) (pact.Address, error) {
		sig := ins.body.Signature
		if len(sig) != crypto.SignatureLength {
			return pact.Address{}, ErrInvalidSignature
		}
		r, sv := new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64])
		if !crypto.ValidateSignatureValues(sig[64], r, sv, true) {
			return pact.Address{}, ErrInvalidSignature
		}
		signingHash := ins.SigningHash()
		s.maskHash(&signingHash)

		pub, err := crypto.SigToPub(signingHash[:], sig)
		if err != nil {
			return pact.Address{}, errors.Wrap(err, "recover signer")
		}
		return pact.Address(crypto.PubkeyToAddress(*pub)), nil
	})
}

// ID recovers the signer and returns the instruction id.
func (s *Signing) ID(ins *Instruction) (pact.Bytes32, error) {
	if !ins.IsSigned() {
		return ins.ID(pact.Address{}), nil
	}
	signer, err := s.Signer(ins)
	if err != nil {
		return pact.Bytes32{}, err
	}
	return ins.ID(signer), nil
}
