// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package participant

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/lvldb"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/program/slots"
	"github.com/stakepact/pact/state"
)

func TestRecord(t *testing.T) {
	p := &Participant{Status: StatusActive}

	p.Record(0, true, 2)
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, uint64(1), p.DaysVerified)
	assert.True(t, p.VerifiedOn(0))
	assert.False(t, p.VerifiedOn(1))

	p.Record(1, true, 2)
	assert.Equal(t, StatusSuccess, p.Status)
	assert.Equal(t, uint64(2), p.DaysVerified)

	p = &Participant{Status: StatusActive}
	p.Record(0, false, 2)
	assert.Equal(t, StatusFailed, p.Status)
	assert.Equal(t, uint64(0), p.DaysVerified)
	assert.False(t, p.LastPassed)
}

func TestRecordDayZeroEncoding(t *testing.T) {
	p := &Participant{Status: StatusActive}
	p.Record(0, true, 3)

	data, err := rlp.EncodeToBytes(p)
	require.NoError(t, err)
	var decoded Participant
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, *p, decoded)
	assert.True(t, decoded.VerifiedOn(0))
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	svc := New(slots.NewContext(pact.Address{}, state.New(db), nil), pact.DefaultNamespace)

	wallets := []pact.Address{{1}, {2}, {3}}

	_, err = svc.GetExisting(1, wallets[0])
	assert.True(t, reverts.Is(err, reverts.ParticipantNotFound))

	for i, w := range wallets {
		require.NoError(t, svc.Insert(&Participant{
			PoolID:      1,
			Wallet:      w,
			Ordinal:     uint64(i),
			Status:      StatusActive,
			StakeAmount: 10,
		}))
	}

	p, err := svc.GetExisting(1, wallets[1])
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p.Ordinal)

	p.Record(0, false, 3)
	require.NoError(t, svc.Update(p))

	// a day 0 outcome survives the storage encoding
	stored, err := svc.GetExisting(1, wallets[1])
	require.NoError(t, err)
	assert.True(t, stored.VerifiedOn(0))
	assert.False(t, stored.VerifiedOn(1))

	fresh, err := svc.GetExisting(1, wallets[0])
	require.NoError(t, err)
	assert.False(t, fresh.VerifiedOn(0))

	list, err := svc.List(1, uint64(len(wallets)))
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, p := range list {
		assert.Equal(t, wallets[i], p.Wallet)
	}
	assert.Equal(t, StatusFailed, list[1].Status)

	// records are scoped by pool
	other, err := svc.Get(2, wallets[0])
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}
