// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import "github.com/vechain/sybilguard/metrics"

var (
	metricOutcomes      = metrics.LazyLoadCounterVec("reward_outcomes_count", []string{"outcome"})
	metricEligibleNodes = metrics.LazyLoadHistogram("reward_eligible_nodes", metrics.BucketNodes)
)

func recordStats(s *Stats) {
	outcomes := metricOutcomes()
	for outcome, n := range map[string]int{
		"malformed": s.Malformed,
		"no_votes":  s.NoVotes,
		"slashed":   s.Slashed,
		"rewarded":  s.Rewarded,
		"capped":    s.Capped,
	} {
		if n > 0 {
			outcomes.AddWithLabel(int64(n), map[string]string{"outcome": outcome})
		}
	}
	metricEligibleNodes().Observe(int64(s.TotalEligible))
}
