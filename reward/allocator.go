// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward turns a round's audit votes and address eligibility into a
// distribution of the bounty pool.
package reward

import (
	"math"
	"math/big"
	"slices"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/addrhash"
	"github.com/vechain/sybilguard/log"
	"github.com/vechain/sybilguard/submission"
)

var logger = log.WithContext("pkg", "reward")

// DefaultSlashFraction is the share of stake taken from a negatively voted submitter.
const DefaultSlashFraction = 0.7

// Allocator computes distributions against an eligibility registry.
type Allocator struct {
	registry Registry
	slash    *big.Rat
}

// New creates an allocator. slashFraction must be within [0, 1].
func New(registry Registry, slashFraction float64) (*Allocator, error) {
	if math.IsNaN(slashFraction) || slashFraction < 0 || slashFraction > 1 {
		return nil, errors.Errorf("slash fraction %v out of range [0, 1]", slashFraction)
	}
	// go through the shortest decimal form, so 0.7 is exactly 7/10
	slash, ok := new(big.Rat).SetString(strconv.FormatFloat(slashFraction, 'f', -1, 64))
	if !ok {
		return nil, errors.Errorf("invalid slash fraction %v", slashFraction)
	}
	return &Allocator{registry: registry, slash: slash}, nil
}

type pending struct {
	publicKey string
	nodeID    string
}

// Allocate computes the distribution of bounty over submitters.
//
// A submitter with an undecodable payload gets 0. Otherwise zero votes give 0,
// negative votes slash floor(stake*slashFraction), and positive votes register
// the claim and compete for the bounty: it is split evenly, rounding down, over
// the eligible nodes of every claimed address, and pending submitters whose node
// is not eligible get 0. The rounding remainder is not distributed.
func (a *Allocator) Allocate(submitters []Submitter, bounty uint64) (Distribution, Stats) {
	var (
		dist      = make(Distribution, len(submitters))
		stats     = Stats{Submitters: len(submitters)}
		addresses []string
		byAddress = make(map[string][]pending)
	)

	for _, s := range submitters {
		claim, err := submission.Decode(s.Submission)
		if err != nil {
			dist[s.PublicKey] = 0
			stats.Malformed++
			logger.Debug("malformed submission", "submitter", s.PublicKey, "err", err)
			continue
		}

		switch {
		case s.Votes == 0:
			dist[s.PublicKey] = 0
			stats.NoVotes++
		case s.Votes < 0:
			amount := a.slashAmount(s.Stake)
			dist[s.PublicKey] = -amount
			stats.Slashed++
			logger.Info("stake slashed", "submitter", s.PublicKey, "stake", s.Stake, "slashed", amount)
		default:
			a.registry.Register(claim.PublicIP, claim.NodeID, claim.Start(), claim.StakeAmount)
			if _, ok := byAddress[claim.PublicIP]; !ok {
				addresses = append(addresses, claim.PublicIP)
			}
			byAddress[claim.PublicIP] = append(byAddress[claim.PublicIP], pending{
				publicKey: s.PublicKey,
				nodeID:    claim.NodeID,
			})
			stats.Pending++
		}
	}

	if stats.Pending == 0 {
		logger.Debug("no submitters to reward", "submitters", stats.Submitters)
		recordStats(&stats)
		return dist, stats
	}

	eligible := make(map[string][]string, len(addresses))
	for _, addr := range addresses {
		nodes := a.registry.EligibleNodes(addr)
		eligible[addr] = nodes
		stats.TotalEligible += len(nodes)
		logger.Debug("address eligibility",
			"group", addrhash.Of(addr).Abbrev(),
			"eligible", len(nodes),
			"pending", len(byAddress[addr]),
		)
	}
	stats.Addresses = len(addresses)

	if stats.TotalEligible > 0 {
		stats.PerNode = bounty / uint64(stats.TotalEligible)
	}
	perNode := toAmount(new(big.Int).SetUint64(stats.PerNode))

	for _, addr := range addresses {
		for _, p := range byAddress[addr] {
			if stats.TotalEligible > 0 && slices.Contains(eligible[addr], p.nodeID) {
				dist[p.publicKey] = perNode
				stats.Rewarded++
			} else {
				dist[p.publicKey] = 0
				stats.Capped++
				logger.Debug("not eligible due to address limit", "submitter", p.publicKey)
			}
		}
	}

	logger.Info("distribution computed",
		"submitters", stats.Submitters,
		"pending", stats.Pending,
		"addresses", stats.Addresses,
		"eligible", stats.TotalEligible,
		"perNode", stats.PerNode,
		"bounty", bounty,
	)
	recordStats(&stats)
	return dist, stats
}

// slashAmount returns floor(stake * slash).
func (a *Allocator) slashAmount(stake uint64) int64 {
	v := new(big.Int).SetUint64(stake)
	v.Mul(v, a.slash.Num())
	v.Quo(v, a.slash.Denom())
	return toAmount(v)
}

// toAmount clamps v into the int64 range used by Distribution.
func toAmount(v *big.Int) int64 {
	if !v.IsInt64() {
		return math.MaxInt64
	}
	return v.Int64()
}
