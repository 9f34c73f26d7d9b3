// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sybilguard/config"
	"github.com/vechain/sybilguard/registry"
	"github.com/vechain/sybilguard/reward"
)

func envVar(name string) string {
	return "SYBILGUARD_" + name
}

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path to a yaml policy file",
		EnvVar: envVar("CONFIG"),
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the round database",
		EnvVar: envVar("DATA_DIR"),
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8670",
		Usage:  "API service listening address",
		EnvVar: envVar("API_ADDR"),
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: envVar("API_CORS"),
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "log API requests slower than this duration (0 disables)",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log API requests answered with a server error",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "serve the /admin endpoints on the API address",
	}
	healthMaxIdleFlag = cli.DurationFlag{
		Name:  "health-max-idle",
		Value: 10 * time.Minute,
		Usage: "report unhealthy when no task hook ran for this long",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: envVar("ENABLE_METRICS"),
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: envVar("METRICS_ADDR"),
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: envVar("VERBOSITY"),
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	ipServicesFlag = cli.StringSliceFlag{
		Name:  "ip-service",
		Usage: "public IP discovery service URL, may be repeated (defaults to the built-in list)",
	}

	// policy overrides
	maxNodesPerAddressFlag = cli.IntFlag{
		Name:  "max-nodes-per-address",
		Value: registry.DefaultMaxNodesPerAddress,
		Usage: "maximum number of reward eligible nodes behind one public address",
	}
	gracePeriodFlag = cli.DurationFlag{
		Name:  "grace-period",
		Value: registry.DefaultGracePeriod,
		Usage: "time a registration stays live without being refreshed",
	}
	slashFractionFlag = cli.Float64Flag{
		Name:  "slash-fraction",
		Value: reward.DefaultSlashFraction,
		Usage: "share of stake taken from a negatively voted submitter",
	}
	auditWindowFlag = cli.DurationFlag{
		Name:  "audit-window",
		Value: config.DefaultAuditWindow,
		Usage: "maximum distance between a claimed start time and now at audit",
	}

	// distribute
	roundFileFlag = cli.StringFlag{
		Name:  "round-file",
		Usage: "yaml file describing the round to distribute",
	}
	saveFlag = cli.BoolFlag{
		Name:  "save",
		Usage: "record the distribution in the round database (fails while a node holds it, use POST /task/distribution instead)",
	}

	// submission
	nodeIDFlag = cli.StringFlag{
		Name:  "node-id",
		Usage: "identifier of this node",
	}
	stakeFlag = cli.Uint64Flag{
		Name:  "stake",
		Usage: "stake of this node in base units",
	}
	proofFlag = cli.StringFlag{
		Name:  "proof",
		Usage: "proof of work to submit (default_proof when empty)",
	}
	roundFlag = cli.Uint64Flag{
		Name:  "round",
		Usage: "round number",
	}

	// audit
	payloadFlag = cli.StringFlag{
		Name:  "payload",
		Usage: "submission payload to audit",
	}
	submitterFlag = cli.StringFlag{
		Name:  "submitter",
		Usage: "public key of the submitter, for logging",
	}
	acceptedProofsFlag = cli.StringSliceFlag{
		Name:  "accepted-proof",
		Usage: "proof accepted by the audit, repeatable (default_proof when none)",
	}
)

var policyFlags = []cli.Flag{
	configFlag,
	maxNodesPerAddressFlag,
	gracePeriodFlag,
	slashFractionFlag,
	auditWindowFlag,
}
