// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import "time"

// Submitter is one participant of a round as seen by the distribution step.
type Submitter struct {
	PublicKey string `json:"publicKey" yaml:"publicKey"`
	// Votes is the audit outcome: negative slashes, zero is neutral, positive
	// makes the submitter a reward candidate.
	Votes int64  `json:"votes" yaml:"votes"`
	Stake uint64 `json:"stake" yaml:"stake"`
	// Submission is the raw claim payload, see package submission.
	Submission string `json:"submission" yaml:"submission"`
}

// Distribution maps submitter public keys to signed amounts: negative is a
// slash, zero nothing and positive a reward.
type Distribution map[string]int64

// Total returns the sum of positive amounts.
func (d Distribution) Total() uint64 {
	var total uint64
	for _, v := range d {
		if v > 0 {
			total += uint64(v)
		}
	}
	return total
}

// Stats summarises one allocation.
type Stats struct {
	Submitters    int    `json:"submitters"`
	Malformed     int    `json:"malformed"`
	NoVotes       int    `json:"noVotes"`
	Slashed       int    `json:"slashed"`
	Pending       int    `json:"pending"`
	Addresses     int    `json:"addresses"`
	TotalEligible int    `json:"totalEligible"`
	PerNode       uint64 `json:"perNode"`
	Rewarded      int    `json:"rewarded"`
	Capped        int    `json:"capped"`
}

// Registry is the part of the eligibility registry the allocator needs.
type Registry interface {
	Register(rawAddress, nodeID string, startTime time.Time, stakeAmount uint64)
	EligibleNodes(rawAddress string) []string
}
