// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/lvldb"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/goal"
	"github.com/stakepact/pact/program/participant"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/state"
)

const (
	oneDay = pact.SecondsPerDay
	t0     = uint64(1_700_000_000)
)

var (
	creator  = pact.BytesToAddress([]byte("creator"))
	verifier = pact.BytesToAddress([]byte("verifier"))
	charity  = pact.BytesToAddress([]byte("charity"))
)

func wallet(i int) pact.Address {
	return pact.BytesToAddress([]byte{0xaa, byte(i >> 8), byte(i)})
}

func newTestProgram(t *testing.T) *Program {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(DefaultConfig(), state.New(db), nil)
}

func fund(t *testing.T, prog *Program, amount uint64, wallets ...pact.Address) {
	for _, w := range wallets {
		require.NoError(t, prog.state.SetBalance(w, amount))
	}
}

func wallets(n int) []pact.Address {
	ws := make([]pact.Address, n)
	for i := range ws {
		ws[i] = wallet(i)
	}
	return ws
}

func defaultArgs(poolID uint64) *CreatePoolArgs {
	return &CreatePoolArgs{
		PoolID:             poolID,
		StakeAmount:        100,
		DurationDays:       3,
		MinParticipants:    5,
		MaxParticipants:    10,
		Mode:               pool.ModeCompetitive,
		WinnerSharePercent: 100,
		Charity:            charity,
		Verifier:           verifier,
		Goal:               goal.New(goal.CustomCheckin{HabitName: "run 5k"}),
	}
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	prog *Program

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(prog *Program) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), prog: prog}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Create(args *CreatePoolArgs, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.prog.CreatePool(creator, now, args); err != nil {
			t.Fatalf("failed to create pool %d: %v", args.PoolID, err)
		}
		t.Logf("created pool %d", args.PoolID)
	})
}

func (st *TestSequence) Join(poolID uint64, now uint64, ws ...pact.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		for _, w := range ws {
			if err := st.prog.JoinPool(w, now, poolID); err != nil {
				t.Fatalf("failed to join pool %d with %v: %v", poolID, w, err)
			}
		}
		t.Logf("%d wallets joined pool %d", len(ws), poolID)
	})
}

func (st *TestSequence) Tick(poolID uint64, now uint64, expected pool.Transition) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		transition, err := st.prog.Tick(now, poolID)
		if expected == pool.TransitionNone {
			assert.True(t, reverts.Is(err, reverts.TransitionNotReady), "expected TransitionNotReady, got %v", err)
			return
		}
		if err != nil {
			t.Fatalf("failed to tick pool %d: %v", poolID, err)
		}
		assert.Equal(t, expected, transition)
		t.Logf("pool %d: %v", poolID, transition)
	})
}

func (st *TestSequence) Verify(poolID uint64, now uint64, day uint64, passed bool, ws ...pact.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		for _, w := range ws {
			err := st.prog.VerifyParticipant(verifier, now, &VerifyArgs{PoolID: poolID, Wallet: w, Day: day, Passed: passed})
			if err != nil {
				t.Fatalf("failed to verify %v on day %d: %v", w, day, err)
			}
		}
	})
}

func (st *TestSequence) Distribute(poolID uint64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.prog.DistributeRewards(verifier, now, poolID); err != nil {
			t.Fatalf("failed to distribute pool %d: %v", poolID, err)
		}
		t.Logf("pool %d settled", poolID)
	})
}

// Reverts expects fn to fail with code.
func (st *TestSequence) Reverts(code reverts.Code, fn func(prog *Program) error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := fn(st.prog)
		assert.True(t, reverts.Is(err, code), "expected %v, got %v", code, err)
	})
}

func (st *TestSequence) Conserved(poolID uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.NoError(t, st.prog.CheckConservation(poolID))
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type PoolAssertions struct {
	prog   *Program
	poolID uint64

	status *pool.Status
	count  *uint64
	vault  *uint64
}

func AssertPool(prog *Program, poolID uint64) *PoolAssertions {
	return &PoolAssertions{prog: prog, poolID: poolID}
}

func (pa *PoolAssertions) Status(expected pool.Status) *PoolAssertions {
	pa.status = &expected
	return pa
}

func (pa *PoolAssertions) Count(expected uint64) *PoolAssertions {
	pa.count = &expected
	return pa
}

func (pa *PoolAssertions) Vault(expected uint64) *PoolAssertions {
	pa.vault = &expected
	return pa
}

func (pa *PoolAssertions) Assert(t *testing.T) {
	pl, err := pa.prog.Pool(pa.poolID)
	require.NoError(t, err, "failed to get pool %d", pa.poolID)

	if pa.status != nil {
		assert.Equal(t, *pa.status, pl.Status, "pool %d status mismatch", pa.poolID)
	}
	if pa.count != nil {
		assert.Equal(t, *pa.count, pl.ParticipantCount, "pool %d participant count mismatch", pa.poolID)
	}
	if pa.vault != nil {
		balance, err := pa.prog.VaultBalance(pa.poolID)
		require.NoError(t, err)
		assert.Equal(t, *pa.vault, balance, "pool %d vault mismatch", pa.poolID)
	}
}

func assertParticipant(t *testing.T, prog *Program, poolID uint64, w pact.Address, status participant.Status) *participant.Participant {
	pt, err := prog.Participant(poolID, w)
	require.NoError(t, err)
	assert.Equal(t, status, pt.Status, "participant %v status mismatch", w)
	return pt
}

func balanceOf(t *testing.T, prog *Program, addr pact.Address) uint64 {
	b, err := prog.Balance(addr)
	require.NoError(t, err)
	return b
}
