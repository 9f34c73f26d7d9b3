// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry tracks which nodes claim each network address and decides,
// per address, which of them are eligible for rewards.
package registry

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/vechain/sybilguard/addrhash"
	"github.com/vechain/sybilguard/log"
)

var logger = log.WithContext("pkg", "registry")

const (
	DefaultMaxNodesPerAddress = 4
	DefaultGracePeriod        = 5 * time.Minute
	DefaultEvictAbove         = 64
)

// Options for the registry.
type Options struct {
	// MaxNodesPerAddress caps the eligible nodes of one address.
	MaxNodesPerAddress int
	// GracePeriod is how long a node stays live after its last registration.
	GracePeriod time.Duration
	// EvictAbove triggers dropping stale records from a group once it holds
	// more records than this. Zero disables eviction.
	EvictAbove int
}

// DefaultOptions returns the stock policy.
func DefaultOptions() Options {
	return Options{
		MaxNodesPerAddress: DefaultMaxNodesPerAddress,
		GracePeriod:        DefaultGracePeriod,
		EvictAbove:         DefaultEvictAbove,
	}
}

// NodeRecord is the latest known claim of one node within an address group.
type NodeRecord struct {
	NodeID      string
	StartTime   time.Time
	StakeAmount uint64
	LastSeen    time.Time
}

type group struct {
	nodes       map[string]*NodeRecord
	lastUpdated time.Time
}

// Registry maps hashed addresses to the nodes claiming them. It is safe for
// concurrent use.
type Registry struct {
	lock   sync.RWMutex
	opts   Options
	groups map[addrhash.Hash]*group
	now    func() time.Time
}

// New creates a registry. Non-positive MaxNodesPerAddress or GracePeriod fall
// back to the defaults.
func New(opts Options) *Registry {
	if opts.MaxNodesPerAddress <= 0 {
		opts.MaxNodesPerAddress = DefaultMaxNodesPerAddress
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.EvictAbove < 0 {
		opts.EvictAbove = 0
	}
	return &Registry{
		opts:   opts,
		groups: make(map[addrhash.Hash]*group),
		now:    time.Now,
	}
}

// Options returns the options in effect.
func (r *Registry) Options() Options {
	return r.opts
}

// Register inserts or refreshes the record of nodeID under rawAddress.
func (r *Registry) Register(rawAddress, nodeID string, startTime time.Time, stakeAmount uint64) {
	key := addrhash.Of(rawAddress)

	r.lock.Lock()
	defer r.lock.Unlock()

	now := r.now()
	g, ok := r.groups[key]
	if !ok {
		g = &group{nodes: make(map[string]*NodeRecord)}
		r.groups[key] = g
		metricGroups().Set(int64(len(r.groups)))
	}
	g.nodes[nodeID] = &NodeRecord{
		NodeID:      nodeID,
		StartTime:   startTime,
		StakeAmount: stakeAmount,
		LastSeen:    now,
	}
	g.lastUpdated = now
	metricRegistrations().Add(1)

	if r.opts.EvictAbove > 0 && len(g.nodes) > r.opts.EvictAbove {
		r.evictStale(key, g, now)
	}

	logger.Debug("node registered",
		"group", key.Abbrev(),
		"node", addrhash.Abbrev(nodeID),
		"nodes", len(g.nodes),
	)
}

// evictStale drops records that are past the grace period. Live records are kept
// even if the group stays above the threshold.
func (r *Registry) evictStale(key addrhash.Hash, g *group, now time.Time) {
	evicted := 0
	for id, rec := range g.nodes {
		if !r.isLive(rec, now) {
			delete(g.nodes, id)
			evicted++
		}
	}
	if evicted > 0 {
		metricEvictions().Add(int64(evicted))
		logger.Debug("evicted stale nodes", "group", key.Abbrev(), "evicted", evicted, "remaining", len(g.nodes))
	}
}

// Unregister removes nodeID from the group of rawAddress, dropping the group once
// it is empty. Unknown addresses or nodes are ignored.
func (r *Registry) Unregister(rawAddress, nodeID string) {
	key := addrhash.Of(rawAddress)

	r.lock.Lock()
	defer r.lock.Unlock()

	g, ok := r.groups[key]
	if !ok {
		return
	}
	if _, ok := g.nodes[nodeID]; !ok {
		return
	}
	delete(g.nodes, nodeID)
	g.lastUpdated = r.now()
	if len(g.nodes) == 0 {
		delete(r.groups, key)
		metricGroups().Set(int64(len(r.groups)))
	}
	logger.Debug("node unregistered", "group", key.Abbrev(), "node", addrhash.Abbrev(nodeID))
}

// EligibleNodes returns the ids of the live nodes of rawAddress, best ranked
// first and capped at MaxNodesPerAddress. Nodes rank by stake descending, then
// start time ascending, then id ascending.
func (r *Registry) EligibleNodes(rawAddress string) []string {
	key := addrhash.Of(rawAddress)

	r.lock.RLock()
	defer r.lock.RUnlock()

	g, ok := r.groups[key]
	if !ok {
		return []string{}
	}

	active := r.liveNodes(g, r.now())
	slices.SortFunc(active, compareRank)

	n := min(len(active), r.opts.MaxNodesPerAddress)
	eligible := make([]string, 0, n)
	for _, rec := range active[:n] {
		eligible = append(eligible, rec.NodeID)
	}

	logger.Debug("eligibility computed", "group", key.Abbrev(), "active", len(active), "eligible", len(eligible))
	return eligible
}

// IsEligible reports whether nodeID is among the eligible nodes of rawAddress.
func (r *Registry) IsEligible(rawAddress, nodeID string) bool {
	return slices.Contains(r.EligibleNodes(rawAddress), nodeID)
}

// ActiveCount returns the number of live nodes of rawAddress, ignoring the cap.
func (r *Registry) ActiveCount(rawAddress string) int {
	key := addrhash.Of(rawAddress)

	r.lock.RLock()
	defer r.lock.RUnlock()

	g, ok := r.groups[key]
	if !ok {
		return 0
	}
	return len(r.liveNodes(g, r.now()))
}

// Len returns the number of address groups.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.groups)
}

func (r *Registry) isLive(rec *NodeRecord, now time.Time) bool {
	return now.Sub(rec.LastSeen) <= r.opts.GracePeriod
}

func (r *Registry) liveNodes(g *group, now time.Time) []*NodeRecord {
	live := make([]*NodeRecord, 0, len(g.nodes))
	for _, rec := range g.nodes {
		if r.isLive(rec, now) {
			live = append(live, rec)
		}
	}
	return live
}

func compareRank(a, b *NodeRecord) int {
	if c := cmp.Compare(b.StakeAmount, a.StakeAmount); c != 0 {
		return c
	}
	if c := a.StartTime.Compare(b.StartTime); c != 0 {
		return c
	}
	return cmp.Compare(a.NodeID, b.NodeID)
}
