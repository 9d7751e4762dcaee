// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := Open(filepath.Join(t.TempDir(), "main.db"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, ldb := range []*LevelDB{persistent, mem} {
		assert.NoError(t, ldb.Put(key, value))

		got, err := ldb.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := ldb.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = ldb.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, ldb.Delete(key))
		_, err = ldb.Get(key)
		assert.True(t, ldb.IsNotFound(err))
	}
}

func TestLevelDBBulk(t *testing.T) {
	ldb, err := NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	bulk := ldb.Bulk()
	assert.NoError(t, bulk.Put([]byte("k1"), []byte("v1")))
	assert.NoError(t, bulk.Put([]byte("k2"), []byte("v2")))
	assert.Equal(t, 2, bulk.Len())

	// nothing visible before write
	has, err := ldb.Has([]byte("k1"))
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, bulk.Write())

	got, err := ldb.Get([]byte("k2"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestLevelDBSnapshot(t *testing.T) {
	ldb, err := NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	require.NoError(t, ldb.Put([]byte("k"), []byte("old")))

	snap := ldb.Snapshot()
	defer snap.Release()

	require.NoError(t, ldb.Put([]byte("k"), []byte("new")))

	got, err := snap.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("old"), got)

	_, err = snap.Get([]byte("missing"))
	assert.True(t, snap.IsNotFound(err))
}
