// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instr

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
)

// Kind selects the program handler an instruction is dispatched to.
type Kind uint8

const (
	KindCreatePool Kind = iota + 1
	KindJoinPool
	KindTick
	KindVerifyParticipant
	KindDistributeRewards
	KindForfeit
	KindRotateVerifier
	KindTransfer
)

var kindNames = map[Kind]string{
	KindCreatePool:        "create_pool",
	KindJoinPool:          "join_pool",
	KindTick:              "tick",
	KindVerifyParticipant: "verify_participant",
	KindDistributeRewards: "distribute_rewards",
	KindForfeit:           "forfeit",
	KindRotateVerifier:    "rotate_verifier",
	KindTransfer:          "transfer",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// Instruction is an immutable signed request to run one program handler.
type Instruction struct {
	body body

	cache struct {
		hash        atomic.Pointer[pact.Bytes32]
		signingHash atomic.Pointer[pact.Bytes32]
	}
}

type body struct {
	Kind      Kind
	Payload   []byte
	Nonce     uint64
	Signature []byte
}

// New creates an unsigned instruction, rlp encoding the payload.
func New(kind Kind, payload any, nonce uint64) (*Instruction, error) {
	if !kind.IsValid() {
		return nil, errors.Errorf("invalid instruction kind %d", kind)
	}
	data, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %v payload", kind)
	}
	return &Instruction{body: body{Kind: kind, Payload: data, Nonce: nonce}}, nil
}

// MustNew is New that panics on error.
func MustNew(kind Kind, payload any, nonce uint64) *Instruction {
	ins, err := New(kind, payload, nonce)
	if err != nil {
		panic(err)
	}
	return ins
}

func (i *Instruction) Kind() Kind {
	return i.body.Kind
}

func (i *Instruction) Nonce() uint64 {
	return i.body.Nonce
}

// Signature returns a copy of the signature, nil when unsigned.
func (i *Instruction) Signature() []byte {
	return append([]byte(nil), i.body.Signature...)
}

func (i *Instruction) IsSigned() bool {
	return len(i.body.Signature) > 0
}

// WithSignature create a new instruction with signature set.
func (i *Instruction) WithSignature(sig []byte) *Instruction {
	cpy := body{
		Kind:      i.body.Kind,
		Payload:   i.body.Payload,
		Nonce:     i.body.Nonce,
		Signature: append([]byte(nil), sig...),
	}
	return &Instruction{body: cpy}
}

// Hash returns the hash of the whole encoded instruction, signature included.
// Two valid signatures over one message give two hashes, so it is not an identity.
func (i *Instruction) Hash() pact.Bytes32 {
	if cached := i.cache.hash.Load(); cached != nil {
		return *cached
	}
	h := pact.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, i)
	})
	i.cache.hash.Store(&h)
	return h
}

// ID identifies the instruction by what was signed and who signed it:
// blake2b(signingHash, signer), or blake2b(signingHash) when unsigned.
// The signature bytes do not take part.
func (i *Instruction) ID(signer pact.Address) pact.Bytes32 {
	signingHash := i.SigningHash()
	if !i.IsSigned() {
		return pact.Blake2b(signingHash[:])
	}
	return pact.Blake2b(signingHash[:], signer[:])
}

// SigningHash returns the hash of the instruction excluding the signature.
func (i *Instruction) SigningHash() pact.Bytes32 {
	if cached := i.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	h := pact.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			i.body.Kind,
			i.body.Payload,
			i.body.Nonce,
		})
	})
	i.cache.signingHash.Store(&h)
	return h
}

// EncodeRLP implements rlp.Encoder
func (i *Instruction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &i.body)
}

// DecodeRLP implements rlp.Decoder
func (i *Instruction) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	if !b.Kind.IsValid() {
		return errors.Errorf("invalid instruction kind %d", b.Kind)
	}
	*i = Instruction{body: b}
	return nil
}

// Encode returns the 0x prefixed hex form of the rlp encoding.
func (i *Instruction) Encode() (string, error) {
	data, err := rlp.EncodeToBytes(i)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(data), nil
}

// Decode parses the hex form produced by Encode.
func Decode(raw string) (*Instruction, error) {
	data, err := hexutil.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode hex")
	}
	var ins Instruction
	if err := rlp.DecodeBytes(data, &ins); err != nil {
		return nil, errors.Wrap(err, "decode rlp")
	}
	return &ins, nil
}

func (i *Instruction) String() string {
	return fmt.Sprintf("Instruction(%v, nonce %d, hash %v)", i.body.Kind, i.body.Nonce, i.Hash().AbbrevString())
}
