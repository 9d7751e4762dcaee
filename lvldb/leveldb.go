// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/stakepact/pact/kv"
	"github.com/stakepact/pact/log"
)

var logger = log.WithContext("pkg", "lvldb")

var (
	syncWrite = &opt.WriteOptions{Sync: true}
	noReadOpt = &opt.ReadOptions{}
)

var _ kv.Store = (*LevelDB)(nil)

// Options tunes the persistent store. Zero values fall back to minimums.
type Options struct {
	CacheSize              int // MB, split between block cache and write buffer
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, 16)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, 16),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is the node's ledger store: accounts, storage slots and receipts.
type LevelDB struct {
	db *leveldb.DB
}

// Open opens or creates the store at path, recovering a corrupted manifest in place.
func Open(path string, opts Options) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, opts.leveldb())
	var corrupted *dberrors.ErrCorrupted
	if errors.As(err, &corrupted) {
		logger.Warn("ledger store corrupted, recovering", "path", path, "err", err)
		db, err = leveldb.RecoverFile(path, opts.leveldb())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger store at %s", path)
	}
	return &LevelDB{db}, nil
}

// NewMem creates an in-memory store, used by tests and throwaway nodes.
func NewMem() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), Options{}.leveldb())
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory ledger store")
	}
	return &LevelDB{db}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get returns leveldb.ErrNotFound for a missing key, see IsNotFound.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, noReadOpt)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, noReadOpt)
}

func (ldb *LevelDB) Put(key, val []byte) error {
	return ldb.db.Put(key, val, syncWrite)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, syncWrite)
}

// Snapshot pins the current contents. Writes committed afterwards are not
// visible through it. It must be released.
func (ldb *LevelDB) Snapshot() kv.Snapshot {
	s, err := ldb.db.GetSnapshot()
	return &snapshot{s, err}
}

// Bulk buffers writes into one batch, applied atomically by Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{db: ldb.db}
}

func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

type snapshot struct {
	snap *leveldb.Snapshot
	err  error // a failed GetSnapshot surfaces on every read
}

func (s *snapshot) Get(key []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap.Get(key, noReadOpt)
}

func (s *snapshot) Has(key []byte) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.snap.Has(key, noReadOpt)
}

func (s *snapshot) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (s *snapshot) Release() {
	if s.snap != nil {
		s.snap.Release()
	}
}

type bulk struct {
	db    *leveldb.DB
	batch leveldb.Batch
}

func (b *bulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Len() int {
	return b.batch.Len()
}

func (b *bulk) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	defer b.batch.Reset()
	return b.db.Write(&b.batch, syncWrite)
}
