// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/lvldb"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/goal"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/program/slots"
	"github.com/stakepact/pact/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(slots.NewContext(pact.Address{}, state.New(db), nil), pact.DefaultNamespace)
}

func TestServiceInsertGet(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetExisting(1)
	assert.True(t, reverts.Is(err, reverts.PoolNotFound))

	p := recruiting(0)
	p.ID = 1
	p.Mode = ModeSplit
	p.WinnerSharePercent = 60
	p.Goal = goal.New(goal.Hodl{TokenMint: "mint", MinBalance: 5})
	p.FilledAt = u64(10)
	require.NoError(t, svc.Insert(p))

	got, err := svc.GetExisting(1)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got.ParticipantCount = 3
	require.NoError(t, svc.Update(got))
	got, err = svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.ParticipantCount)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "update does not register again")
}

func TestServiceIterate(t *testing.T) {
	svc := newService(t)
	ids := []uint64{42, 7, 1000}
	for _, id := range ids {
		p := recruiting(0)
		p.ID = id
		require.NoError(t, svc.Insert(p))
	}

	var seen []uint64
	require.NoError(t, svc.Iterate(func(p *Pool) error {
		seen = append(seen, p.ID)
		return nil
	}))
	assert.Equal(t, ids, seen)
}
