// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/stakepact/pact/genesis"
	"github.com/stakepact/pact/instr"
	"github.com/stakepact/pact/kv"
	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/program/slots"
	"github.com/stakepact/pact/state"
)

var logger = log.WithContext("pkg", "runtime")

var (
	// ErrAccountBusy rejects an instruction declaring an account another one is mutating.
	ErrAccountBusy = errors.New("account busy")
	// ErrKnownInstruction rejects an instruction that was already committed.
	ErrKnownInstruction = errors.New("known instruction")
	// ErrUnsigned rejects a signed-only instruction without signature.
	ErrUnsigned = errors.New("instruction must be signed")
)

// InvalidInstructionError rejects an instruction whose signature or payload
// cannot be read. It is never a program revert.
type InvalidInstructionError struct {
	Cause error
}

func (e *InvalidInstructionError) Error() string {
	return "invalid instruction: " + e.Cause.Error()
}

func (e *InvalidInstructionError) Unwrap() error {
	return e.Cause
}

var (
	metaBucket    = kv.Bucket("m")
	receiptBucket = kv.Bucket("r")
	genesisKey    = []byte("genesis")
)

// Receipt is the outcome of a committed instruction.
type Receipt struct {
	ID     pact.Bytes32    `json:"id"`
	Kind   string          `json:"kind"`
	Signer *pact.Address   `json:"signer,omitempty"`
	Time   uint64          `json:"time"`
	Events []program.Event `json:"events"`
}

// Executor runs instructions against the store, one indivisible transaction each.
type Executor struct {
	db        kv.Store
	genesisID pact.Bytes32
	cfg       program.Config
	signing   *instr.Signing
	clock     func() uint64

	locks *xsync.Map[pact.Address, struct{}]
	mu    sync.Mutex

	receiptFeed event.Feed
	scope       event.SubscriptionScope
}

// Option configures the Executor.
type Option func(*Executor)

// WithClock overrides the wall clock, in unix seconds.
func WithClock(clock func() uint64) Option {
	return func(e *Executor) {
		e.clock = clock
	}
}

// New opens the executor on db, applying the genesis on first open.
func New(db kv.Store, gen *genesis.Genesis, opts ...Option) (*Executor, error) {
	e := &Executor{
		db:        db,
		genesisID: gen.ID(),
		cfg:       gen.Config(),
		signing:   instr.NewSigning(gen.Config().Namespace),
		clock:     func() uint64 { return uint64(time.Now().Unix()) },
		locks:     xsync.NewMap[pact.Address, struct{}](),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.initGenesis(gen); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Executor) initGenesis(gen *genesis.Genesis) error {
	meta := metaBucket.NewGetter(e.db)
	stored, err := meta.Get(genesisKey)
	if err != nil && !meta.IsNotFound(err) {
		return errors.Wrap(err, "read genesis marker")
	}
	if err == nil {
		if id := pact.BytesToBytes32(stored); id != gen.ID() {
			return errors.Errorf("genesis mismatch: stored %v, expected %v", id, gen.ID())
		}
		return nil
	}

	stage, err := gen.Build(state.New(e.db))
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	bulk := e.db.Bulk()
	if err := stage.Commit(bulk); err != nil {
		return err
	}
	id := gen.ID()
	if err := metaBucket.NewPutter(bulk).Put(genesisKey, id[:]); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("genesis applied", "name", gen.Name(), "id", id, "accounts", stage.Len())
	return nil
}

// GenesisID returns the id of the genesis the store was initialized with.
func (e *Executor) GenesisID() pact.Bytes32 {
	return e.genesisID
}

// Config returns the program parameters.
func (e *Executor) Config() program.Config {
	return e.cfg
}

// Signing returns the signing helper bound to the namespace.
func (e *Executor) Signing() *instr.Signing {
	return e.signing
}

// Now returns the executor clock.
func (e *Executor) Now() uint64 {
	return e.clock()
}

// SubscribeReceipts delivers receipts of committed instructions.
func (e *Executor) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return e.scope.Track(e.receiptFeed.Subscribe(ch))
}

// Close unsubscribes every receipt subscriber.
func (e *Executor) Close() {
	e.scope.Close()
}

// View runs fn against a read-only snapshot of the latest committed state.
func (e *Executor) View(fn func(prog *program.Program) error) error {
	snapshot := e.db.Snapshot()
	defer snapshot.Release()
	return fn(program.New(e.cfg, state.New(snapshot), nil))
}

// Receipt returns the receipt of a committed instruction, nil when unknown.
func (e *Executor) Receipt(id pact.Bytes32) (*Receipt, error) {
	getter := receiptBucket.NewGetter(e.db)
	data, err := getter.Get(id[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var stored storedReceipt
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	return stored.receipt(id), nil
}

// Execute runs the instruction and commits its effects, or returns the error
// leaving the store untouched. Reverts are returned as *reverts.ErrRevert.
func (e *Executor) Execute(ins *instr.Instruction) (*Receipt, error) {
	start := time.Now()
	receipt, err := e.execute(ins)

	outcome := "ok"
	switch {
	case err == nil:
	case reverts.IsRevertErr(err):
		code, _ := reverts.CodeOf(err)
		outcome = string(code)
	case errors.Is(err, ErrAccountBusy):
		outcome = "busy"
	case errors.As(err, new(*InvalidInstructionError)):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metricInstructionCount().AddWithLabel(1, map[string]string{"kind": ins.Kind().String(), "outcome": outcome})
	metricInstructionDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"kind": ins.Kind().String()})

	if err != nil {
		logger.Debug("instruction rejected", "hash", ins.Hash(), "kind", ins.Kind(), "err", err)
		return nil, err
	}
	logger.Debug("instruction committed", "id", receipt.ID, "kind", receipt.Kind, "events", len(receipt.Events))
	e.receiptFeed.Send(receipt)
	return receipt, nil
}

func (e *Executor) execute(ins *instr.Instruction) (*Receipt, error) {
	signer, err := e.signerOf(ins)
	if err != nil {
		return nil, &InvalidInstructionError{err}
	}
	accounts, err := e.declaredAccounts(ins, signer)
	if err != nil {
		return nil, &InvalidInstructionError{err}
	}
	release, err := e.tryLock(accounts)
	if err != nil {
		return nil, err
	}
	defer release()

	e.mu.Lock()
	defer e.mu.Unlock()

	id := ins.ID(signer)
	if known, err := receiptBucket.NewGetter(e.db).Has(id[:]); err != nil {
		return nil, err
	} else if known {
		return nil, ErrKnownInstruction
	}

	snapshot := e.db.Snapshot()
	defer snapshot.Release()

	st := state.New(snapshot)
	meter := &slots.Meter{}
	prog := program.New(e.cfg, st, meter)
	now := e.clock()

	checkpoint := st.NewCheckpoint()
	if err := e.dispatch(prog, ins, signer, now); err != nil {
		st.RevertTo(checkpoint)
		return nil, err
	}
	if err := e.checkConservation(prog, ins); err != nil {
		st.RevertTo(checkpoint)
		return nil, err
	}
	metricSlotAccess().ObserveWithLabels(int64(meter.Reads), map[string]string{"op": "read"})
	metricSlotAccess().ObserveWithLabels(int64(meter.Writes), map[string]string{"op": "write"})

	receipt := &Receipt{
		ID:     id,
		Kind:   ins.Kind().String(),
		Time:   now,
		Events: prog.Events(),
	}
	if ins.IsSigned() {
		receipt.Signer = &signer
	}

	bulk := e.db.Bulk()
	if err := st.Stage().Commit(bulk); err != nil {
		return nil, err
	}
	data, err := rlp.EncodeToBytes(newStoredReceipt(receipt))
	if err != nil {
		return nil, err
	}
	if err := receiptBucket.NewPutter(bulk).Put(id[:], data); err != nil {
		return nil, err
	}
	if err := bulk.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return receipt, nil
}

// signerOf recovers the signer. Only tick may be submitted unsigned.
func (e *Executor) signerOf(ins *instr.Instruction) (pact.Address, error) {
	if !ins.IsSigned() {
		if ins.Kind() == instr.KindTick {
			return pact.Address{}, nil
		}
		return pact.Address{}, ErrUnsigned
	}
	return e.signing.Signer(ins)
}

// declaredAccounts lists the accounts the instruction may mutate.
func (e *Executor) declaredAccounts(ins *instr.Instruction, signer pact.Address) ([]pact.Address, error) {
	var accounts []pact.Address
	if ins.IsSigned() {
		accounts = append(accounts, signer)
	}
	poolID, ok, err := ins.PoolID()
	if err != nil {
		return nil, err
	}
	if ok {
		accounts = append(accounts, e.cfg.Namespace.PoolAddress(poolID))
	}
	switch ins.Kind() {
	case instr.KindCreatePool:
		accounts = append(accounts, e.cfg.Namespace.RegistryAddress())
	case instr.KindTransfer:
		payload, err := ins.Payload()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, payload.(*instr.Transfer).To)
	}
	return accounts, nil
}

// tryLock marks every account as in use, or none when one is already taken.
func (e *Executor) tryLock(accounts []pact.Address) (func(), error) {
	var locked []pact.Address
	release := func() {
		for _, addr := range locked {
			e.locks.Delete(addr)
		}
	}
	for _, addr := range accounts {
		var busy bool
		e.locks.Compute(addr, func(old struct{}, loaded bool) (struct{}, xsync.ComputeOp) {
			if loaded {
				busy = true
				return old, xsync.CancelOp
			}
			return struct{}{}, xsync.UpdateOp
		})
		if busy {
			if !contains(locked, addr) {
				release()
				return nil, errors.Wrapf(ErrAccountBusy, "%v", addr)
			}
			continue
		}
		locked = append(locked, addr)
	}
	return release, nil
}

func contains(list []pact.Address, addr pact.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}

func (e *Executor) dispatch(prog *program.Program, ins *instr.Instruction, signer pact.Address, now uint64) error {
	payload, err := ins.Payload()
	if err != nil {
		return err
	}
	switch p := payload.(type) {
	case *program.CreatePoolArgs:
		return prog.CreatePool(signer, now, p)
	case *program.VerifyArgs:
		return prog.VerifyParticipant(signer, now, p)
	case *instr.RotateVerifier:
		return prog.RotateVerifier(signer, now, p.PoolID, p.Verifier)
	case *instr.Transfer:
		return prog.Transfer(signer, now, p.To, p.Amount)
	case *instr.PoolRef:
		switch ins.Kind() {
		case instr.KindJoinPool:
			return prog.JoinPool(signer, now, p.PoolID)
		case instr.KindTick:
			_, err := prog.Tick(now, p.PoolID)
			return err
		case instr.KindDistributeRewards:
			return prog.DistributeRewards(signer, now, p.PoolID)
		case instr.KindForfeit:
			return prog.Forfeit(signer, now, p.PoolID)
		}
	}
	return errors.Errorf("unsupported instruction %v", ins.Kind())
}

// checkConservation verifies the vault post-condition of the addressed pool.
func (e *Executor) checkConservation(prog *program.Program, ins *instr.Instruction) error {
	poolID, ok, err := ins.PoolID()
	if err != nil || !ok {
		return err
	}
	if err := prog.CheckConservation(poolID); err != nil {
		logger.Error("conservation check failed", "pool", poolID, "kind", ins.Kind(), "err", err)
		return err
	}
	if balance, err := prog.VaultBalance(poolID); err == nil {
		metricVaultBalance().SetWithLabel(int64(balance), map[string]string{"pool": poolIDLabel(poolID)})
	}
	return nil
}
