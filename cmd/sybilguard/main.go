// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// sybilguard hosts the address eligibility registry of a reward task and
// computes round distributions.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sybilguard/api"
	"github.com/vechain/sybilguard/api/tasks"
	"github.com/vechain/sybilguard/cmd/sybilguard/httpserver"
	"github.com/vechain/sybilguard/health"
	"github.com/vechain/sybilguard/ipresolver"
	"github.com/vechain/sybilguard/log"
	"github.com/vechain/sybilguard/metrics"
	"github.com/vechain/sybilguard/registry"
	"github.com/vechain/sybilguard/reward"
	"github.com/vechain/sybilguard/task"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

var logger = log.WithContext("pkg", "sybilguard")

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "sybilguard",
		Usage:   "Address eligibility registry and reward allocator for staking tasks",
		Flags: append([]cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAdminFlag,
			healthMaxIdleFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
			ipServicesFlag,
			nodeIDFlag,
			stakeFlag,
			proofFlag,
			acceptedProofsFlag,
		}, policyFlags...),
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "distribute",
				Usage: "compute the distribution of a round described by a yaml file and print it as JSON",
				Flags: append([]cli.Flag{
					roundFileFlag,
					saveFlag,
					dataDirFlag,
					verbosityFlag,
					jsonLogsFlag,
				}, policyFlags...),
				Action: distributeAction,
			},
			{
				Name:  "submission",
				Usage: "resolve the public address of this host and print the payload this node would submit",
				Flags: append([]cli.Flag{
					nodeIDFlag,
					stakeFlag,
					proofFlag,
					roundFlag,
					ipServicesFlag,
					verbosityFlag,
					jsonLogsFlag,
				}, policyFlags...),
				Action: submissionAction,
			},
			{
				Name:  "audit",
				Usage: "audit a submission payload, seeding the registry from an optional round file",
				Flags: append([]cli.Flag{
					payloadFlag,
					submitterFlag,
					acceptedProofsFlag,
					roundFileFlag,
					roundFlag,
					verbosityFlag,
					jsonLogsFlag,
				}, policyFlags...),
				Action: auditAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	policy, err := loadPolicy(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	store, err := openRoundStore(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing round database..."); store.Close() }()

	reg := registry.New(policy.RegistryOptions())
	healthStatus := health.New(reg)
	allocator, err := reward.New(reg, policy.SlashFraction)
	if err != nil {
		return err
	}

	apiHandler := api.New(reg, store, healthStatus, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableAdmin:          ctx.Bool(enableAdminFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		HealthMaxIdle:        ctx.Duration(healthMaxIdleFlag.Name),
		LogLevel:             logLevel,
		Hooks: tasks.Hooks{
			Submitter: task.NewSubmitter(
				reg,
				newResolver(ctx),
				staticNode{id: ctx.String(nodeIDFlag.Name), stake: ctx.Uint64(stakeFlag.Name)},
				staticProof(ctx.String(proofFlag.Name)),
				healthStatus,
			),
			Auditor:     task.NewAuditor(reg, acceptedProofs(ctx), policy.AuditWindow, healthStatus),
			Distributor: task.NewDistributor(allocator, store, healthStatus),
		},
	})
	apiServer, err := httpserver.Listen("api", ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		return apiServer.Serve(groupCtx)
	})

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsServer, err := httpserver.ListenMetrics(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		group.Go(func() error {
			return metricsServer.Serve(groupCtx)
		})
		group.Go(func() error {
			pollMetrics(groupCtx, reg)
			return nil
		})
	}

	group.Go(func() error {
		logPublicAddress(groupCtx, newResolver(ctx))
		return nil
	})

	printStartupMessage(policy, apiServer.URL(), ctx.String(dataDirFlag.Name))

	return group.Wait()
}

func distributeAction(ctx *cli.Context) error {
	initLogger(ctx)
	policy, err := loadPolicy(ctx)
	if err != nil {
		return err
	}

	if !ctx.IsSet(roundFileFlag.Name) {
		return errors.Errorf("missing --%s", roundFileFlag.Name)
	}
	round, err := readRoundFile(ctx.String(roundFileFlag.Name))
	if err != nil {
		return err
	}

	reg := registry.New(policy.RegistryOptions())
	seedRegistry(reg, round.Registered)

	allocator, err := reward.New(reg, policy.SlashFraction)
	if err != nil {
		return err
	}

	var writer task.RoundWriter
	if ctx.Bool(saveFlag.Name) {
		store, err := openRoundStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()
		writer = store
	}

	dist, err := task.NewDistributor(allocator, writer, nil).
		Distribute(round.Round, round.Submitters, round.Bounty)
	if err != nil {
		return err
	}
	return printJSON(dist)
}

func submissionAction(ctx *cli.Context) error {
	initLogger(ctx)
	policy, err := loadPolicy(ctx)
	if err != nil {
		return err
	}

	node := staticNode{id: ctx.String(nodeIDFlag.Name), stake: ctx.Uint64(stakeFlag.Name)}
	submitter := task.NewSubmitter(
		registry.New(policy.RegistryOptions()),
		newResolver(ctx),
		node,
		staticProof(ctx.String(proofFlag.Name)),
		nil,
	)

	fmt.Println(submitter.Submit(context.Background(), ctx.Uint64(roundFlag.Name)))
	return nil
}

func auditAction(ctx *cli.Context) error {
	initLogger(ctx)
	policy, err := loadPolicy(ctx)
	if err != nil {
		return err
	}

	reg := registry.New(policy.RegistryOptions())
	if ctx.IsSet(roundFileFlag.Name) {
		round, err := readRoundFile(ctx.String(roundFileFlag.Name))
		if err != nil {
			return err
		}
		seedRegistry(reg, round.Registered)
	}

	auditor := task.NewAuditor(reg, acceptedProofs(ctx), policy.AuditWindow, nil)
	valid := auditor.Audit(ctx.String(payloadFlag.Name), ctx.Uint64(roundFlag.Name), ctx.String(submitterFlag.Name))
	return printJSON(map[string]bool{"valid": valid})
}

// seedRegistry registers nodes known before the round. A zero start time
// means now.
func seedRegistry(reg *registry.Registry, nodes []registeredNode) {
	now := time.Now()
	for _, n := range nodes {
		start := n.StartTime
		if start.IsZero() {
			start = now
		}
		reg.Register(n.Address, n.NodeID, start, n.Stake)
	}
}

func newResolver(ctx *cli.Context) *ipresolver.Resolver {
	return ipresolver.New(ctx.StringSlice(ipServicesFlag.Name)...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
