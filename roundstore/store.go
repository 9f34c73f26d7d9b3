// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roundstore persists the distribution computed for each round.
package roundstore

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/sybilguard/cache"
	"github.com/vechain/sybilguard/log"
	"github.com/vechain/sybilguard/reward"
)

var logger = log.WithContext("pkg", "roundstore")

const (
	roundPrefix      = "r"
	defaultCacheSize = 64
)

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
)

// Record is the stored outcome of one round.
type Record struct {
	Round        uint64              `json:"round"`
	Bounty       uint64              `json:"bounty"`
	Distribution reward.Distribution `json:"distribution"`
	Stats        reward.Stats        `json:"stats"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// Options for opening a store.
type Options struct {
	CacheSize              int // records kept in memory
	OpenFilesCacheCapacity int
}

// Store keeps round records in leveldb with a LRU of decoded records in front.
type Store struct {
	stg   storage.Storage
	db    *leveldb.DB
	cache *cache.LRU[uint64, *Record]
}

// Open creates or opens a persistent store at path. The directory is locked
// until Close.
func Open(path string, opts Options) (*Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open round store")
	}
	s, err := open(stg, opts)
	if err != nil {
		stg.Close()
		return nil, err
	}
	return s, nil
}

// NewMem creates a store in memory.
func NewMem() (*Store, error) {
	stg := storage.NewMemStorage()
	s, err := open(stg, Options{})
	if err != nil {
		stg.Close()
		return nil, err
	}
	return s, nil
}

func open(stg storage.Storage, opts Options) (*Store, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.OpenFilesCacheCapacity < 16 {
		opts.OpenFilesCacheCapacity = 16
	}
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	records, err := cache.NewLRU[uint64, *Record](opts.CacheSize)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "new cache")
	}
	return &Store{stg: stg, db: db, cache: records}, nil
}

func roundKey(round uint64) []byte {
	key := make([]byte, len(roundPrefix)+8)
	copy(key, roundPrefix)
	binary.BigEndian.PutUint64(key[len(roundPrefix):], round)
	return key
}

// Put saves rec, replacing any record of the same round.
func (s *Store) Put(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode record")
	}
	if err := s.db.Put(roundKey(rec.Round), data, &writeOpt); err != nil {
		return errors.Wrapf(err, "put round %d", rec.Round)
	}
	s.cache.Add(rec.Round, rec)
	return nil
}

// Get loads the record of round. The error can be checked with IsNotFound.
func (s *Store) Get(round uint64) (*Record, error) {
	rec, err := s.cache.GetOrLoad(round, s.load)
	if stats := s.cache.Stats(); stats.Changed() {
		logger.Debug("round cache", "hit", stats.Hits(), "miss", stats.Misses(), "rate", stats.HitRate())
	}
	return rec, err
}

func (s *Store) load(round uint64) (*Record, error) {
	data, err := s.db.Get(roundKey(round), &readOpt)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Latest loads the record with the highest round number.
func (s *Store) Latest() (*Record, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(roundPrefix)), &readOpt)
	defer it.Release()

	if !it.Last() {
		if err := it.Error(); err != nil {
			return nil, err
		}
		return nil, leveldb.ErrNotFound
	}
	return decode(it.Value())
}

// Rounds returns up to limit round numbers, newest first.
func (s *Store) Rounds(limit int) ([]uint64, error) {
	it := s.db.NewIterator(util.BytesPrefix([]byte(roundPrefix)), &readOpt)
	defer it.Release()

	var rounds []uint64
	for ok := it.Last(); ok && len(rounds) < limit; ok = it.Prev() {
		rounds = append(rounds, binary.BigEndian.Uint64(it.Key()[len(roundPrefix):]))
	}
	return rounds, it.Error()
}

// IsNotFound reports whether err means the record does not exist.
func (s *Store) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Close closes the store and releases the directory lock. Later operations fail.
func (s *Store) Close() error {
	err := s.db.Close()
	if serr := s.stg.Close(); err == nil {
		err = serr
	}
	return err
}

func decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return &rec, nil
}
