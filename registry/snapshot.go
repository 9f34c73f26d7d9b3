// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"slices"
	"strings"
	"time"

	"github.com/vechain/sybilguard/addrhash"
)

// NodeView is the redacted form of a NodeRecord.
type NodeView struct {
	NodeID      string    `json:"nodeId"`
	StakeAmount uint64    `json:"stakeAmount"`
	StartTime   time.Time `json:"startTime"`
}

// GroupView is the redacted form of an address group. Address is an
// abbreviated hash, never the raw address.
type GroupView struct {
	Address     string     `json:"address"`
	NodeCount   int        `json:"nodeCount"`
	LastUpdated time.Time  `json:"lastUpdated"`
	Nodes       []NodeView `json:"nodes"`
}

// Snapshot returns a read-only view of all groups for operational tooling.
// Groups are ordered by address label and nodes by rank, stale ones included.
func (r *Registry) Snapshot() []GroupView {
	r.lock.RLock()
	defer r.lock.RUnlock()

	views := make([]GroupView, 0, len(r.groups))
	for key, g := range r.groups {
		records := make([]*NodeRecord, 0, len(g.nodes))
		for _, rec := range g.nodes {
			records = append(records, rec)
		}
		slices.SortFunc(records, compareRank)

		nodes := make([]NodeView, 0, len(records))
		for _, rec := range records {
			nodes = append(nodes, NodeView{
				NodeID:      addrhash.Abbrev(rec.NodeID),
				StakeAmount: rec.StakeAmount,
				StartTime:   rec.StartTime.UTC(),
			})
		}
		views = append(views, GroupView{
			Address:     key.Abbrev(),
			NodeCount:   len(g.nodes),
			LastUpdated: g.lastUpdated.UTC(),
			Nodes:       nodes,
		})
	}
	slices.SortFunc(views, func(a, b GroupView) int {
		return strings.Compare(a.Address, b.Address)
	})
	return views
}
