// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package task

import (
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/reward"
	"github.com/vechain/sybilguard/roundstore"
)

// RoundWriter persists round records.
type RoundWriter interface {
	Put(rec *roundstore.Record) error
}

// Distributor computes and records the distribution of a round.
type Distributor struct {
	allocator *reward.Allocator
	store     RoundWriter
	tracker   Tracker
	now       func() time.Time
}

// NewDistributor creates a Distributor. store and tracker may be nil.
func NewDistributor(allocator *reward.Allocator, store RoundWriter, tracker Tracker) *Distributor {
	return &Distributor{
		allocator: allocator,
		store:     store,
		tracker:   trackerOrNoop(tracker),
		now:       time.Now,
	}
}

// Distribute allocates bounty over submitters for round. The distribution is
// returned even when persisting it fails.
func (d *Distributor) Distribute(round uint64, submitters []reward.Submitter, bounty uint64) (reward.Distribution, error) {
	d.tracker.Touch(HookDistribution, round)
	logger.Info("making distribution list", "round", round, "submitters", len(submitters), "bounty", bounty)

	dist, stats := d.allocator.Allocate(submitters, bounty)
	recordHook(HookDistribution, true)

	if d.store == nil {
		return dist, nil
	}
	err := d.store.Put(&roundstore.Record{
		Round:        round,
		Bounty:       bounty,
		Distribution: dist,
		Stats:        stats,
		CreatedAt:    d.now().UTC(),
	})
	if err != nil {
		return dist, errors.WithMessagef(err, "store distribution of round %d", round)
	}
	return dist, nil
}
