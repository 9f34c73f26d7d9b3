// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts the lookups of an LRU.
type Stats struct {
	hits, misses atomic.Int64
	// hit rate in permille seen by the last Changed call
	reported atomic.Int32
}

func (s *Stats) hit()  { s.hits.Add(1) }
func (s *Stats) miss() { s.misses.Add(1) }

// Hits returns the number of lookups served from the cache.
func (s *Stats) Hits() int64 { return s.hits.Load() }

// Misses returns the number of lookups not found in the cache.
func (s *Stats) Misses() int64 { return s.misses.Load() }

// HitRate is hits over lookups, 0 before any lookup.
func (s *Stats) HitRate() float64 {
	hits, misses := s.Hits(), s.Misses()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Changed reports whether the hit rate, in permille, moved since the previous
// call. Callers use it to log the rate only when it moves.
func (s *Stats) Changed() bool {
	rate := int32(s.HitRate() * 1000)
	return s.reported.Swap(rate) != rate
}
