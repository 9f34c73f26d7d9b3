// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roundstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sybilguard/reward"
)

func newMem(t *testing.T) *Store {
	s, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(round uint64) *Record {
	return &Record{
		Round:        round,
		Bounty:       100,
		Distribution: reward.Distribution{"pk-a": 50, "pk-b": -7},
		Stats:        reward.Stats{Submitters: 2, TotalEligible: 2, PerNode: 50},
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPutGet(t *testing.T) {
	s := newMem(t)

	require.NoError(t, s.Put(record(7)))

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, record(7), got)

	_, err = s.Get(8)
	require.Error(t, err)
	assert.True(t, s.IsNotFound(err))
}

func TestGetBypassingCache(t *testing.T) {
	s := newMem(t)
	require.NoError(t, s.Put(record(3)))
	s.cache.Remove(3)
	assert.Zero(t, s.cache.Len())

	got, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, record(3), got)
	assert.Equal(t, 1, s.cache.Len())

	_, err = s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.cache.Stats().Hits())
	assert.Equal(t, int64(1), s.cache.Stats().Misses())
}

func TestPutReplaces(t *testing.T) {
	s := newMem(t)
	require.NoError(t, s.Put(record(1)))

	updated := record(1)
	updated.Distribution = reward.Distribution{"pk-c": 100}
	require.NoError(t, s.Put(updated))
	s.cache.Remove(1)

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, reward.Distribution{"pk-c": 100}, got.Distribution)
}

func TestLatestAndRounds(t *testing.T) {
	s := newMem(t)

	_, err := s.Latest()
	assert.True(t, s.IsNotFound(err))

	for _, r := range []uint64{5, 300, 42, 256} {
		require.NoError(t, s.Put(record(r)))
	}

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), latest.Round)

	rounds, err := s.Rounds(3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{300, 256, 42}, rounds)
}

func TestOpenPersists(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Put(record(9)))
	require.NoError(t, s.Close())

	s, err = Open(dir, Options{CacheSize: 1})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(9)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Round)
}

func TestOpenLockedDir(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, Options{})
	require.NoError(t, err)

	_, err = Open(dir, Options{})
	assert.ErrorContains(t, err, "open round store")

	require.NoError(t, s.Close())

	s, err = Open(dir, Options{})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestOpenNotADir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rounds.db")
	require.NoError(t, os.WriteFile(path, []byte("not a db"), 0o600))

	_, err := Open(path, Options{})
	assert.Error(t, err)
}

func TestClosedStore(t *testing.T) {
	s, err := NewMem()
	require.NoError(t, err)
	require.NoError(t, s.Put(record(1)))
	require.NoError(t, s.Close())

	assert.Error(t, s.Put(record(2)))
	_, err = s.Latest()
	assert.Error(t, err)
}
