// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/vechain/sybilguard/metrics"
	"github.com/vechain/sybilguard/registry"
)

var metricNodes = metrics.LazyLoadGauge("registry_nodes_count")

func pollMetrics(ctx context.Context, reg *registry.Registry) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var nodes int64
			for _, g := range reg.Snapshot() {
				nodes += int64(g.NodeCount)
			}
			metricNodes().Set(nodes)
		}
	}
}
