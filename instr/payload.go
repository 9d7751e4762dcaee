// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instr

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// PoolRef is the payload of instructions addressing a pool only.
type PoolRef struct {
	PoolID uint64 `json:"poolId"`
}

type RotateVerifier struct {
	PoolID   uint64       `json:"poolId"`
	Verifier pact.Address `json:"verifier"`
}

type Transfer struct {
	To     pact.Address `json:"to"`
	Amount uint64       `json:"amount"`
}

// Payload decodes the payload into the type bound to the kind:
//
//	create_pool         *program.CreatePoolArgs
//	verify_participant  *program.VerifyArgs
//	rotate_verifier     *RotateVerifier
//	transfer            *Transfer
//	others              *PoolRef
func (i *Instruction) Payload() (any, error) {
	var v any
	switch i.body.Kind {
	case KindCreatePool:
		v = &program.CreatePoolArgs{}
	case KindVerifyParticipant:
		v = &program.VerifyArgs{}
	case KindRotateVerifier:
		v = &RotateVerifier{}
	case KindTransfer:
		v = &Transfer{}
	case KindJoinPool, KindTick, KindDistributeRewards, KindForfeit:
		v = &PoolRef{}
	default:
		return nil, errors.Errorf("invalid instruction kind %d", i.body.Kind)
	}
	if err := rlp.DecodeBytes(i.body.Payload, v); err != nil {
		return nil, errors.Wrapf(err, "decode %v payload", i.body.Kind)
	}
	return v, nil
}

// PoolID returns the pool the instruction addresses, false for transfers.
func (i *Instruction) PoolID() (uint64, bool, error) {
	payload, err := i.Payload()
	if err != nil {
		return 0, false, err
	}
	switch p := payload.(type) {
	case *program.CreatePoolArgs:
		return p.PoolID, true, nil
	case *program.VerifyArgs:
		return p.PoolID, true, nil
	case *RotateVerifier:
		return p.PoolID, true, nil
	case *PoolRef:
		return p.PoolID, true, nil
	}
	return 0, false, nil
}

// Convenience constructors.

func CreatePool(args *program.CreatePoolArgs, nonce uint64) *Instruction {
	return MustNew(KindCreatePool, args, nonce)
}

func JoinPool(poolID uint64, nonce uint64) *Instruction {
	return MustNew(KindJoinPool, &PoolRef{PoolID: poolID}, nonce)
}

func Tick(poolID uint64, nonce uint64) *Instruction {
	return MustNew(KindTick, &PoolRef{PoolID: poolID}, nonce)
}

func VerifyParticipant(args *program.VerifyArgs, nonce uint64) *Instruction {
	return MustNew(KindVerifyParticipant, args, nonce)
}

func DistributeRewards(poolID uint64, nonce uint64) *Instruction {
	return MustNew(KindDistributeRewards, &PoolRef{PoolID: poolID}, nonce)
}

func Forfeit(poolID uint64, nonce uint64) *Instruction {
	return MustNew(KindForfeit, &PoolRef{PoolID: poolID}, nonce)
}

func RotateVerifierOf(poolID uint64, verifier pact.Address, nonce uint64) *Instruction {
	return MustNew(KindRotateVerifier, &RotateVerifier{PoolID: poolID, Verifier: verifier}, nonce)
}

func TransferTo(to pact.Address, amount uint64, nonce uint64) *Instruction {
	return MustNew(KindTransfer, &Transfer{To: to, Amount: amount}, nonce)
}
