// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import "github.com/vechain/sybilguard/metrics"

var (
	metricGroups        = metrics.LazyLoadGauge("registry_groups_count")
	metricRegistrations = metrics.LazyLoadCounter("registry_registrations_count")
	metricEvictions     = metrics.LazyLoadCounter("registry_evictions_count")
)
