// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sybilguard/addrhash"
	"github.com/vechain/sybilguard/config"
	"github.com/vechain/sybilguard/log"
	"github.com/vechain/sybilguard/roundstore"
	"github.com/vechain/sybilguard/task"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

// initLogger installs the root log handler and returns its level, which the
// admin API may change later.
func initLogger(ctx *cli.Context) *slog.LevelVar {
	var lvl slog.LevelVar
	lvl.Set(log.FromVerbosity(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stdout, &lvl)
	} else {
		handler = log.NewTerminalHandler(os.Stdout, &lvl)
	}
	log.SetDefault(handler)
	return &lvl
}

// loadPolicy reads the policy file when given and applies explicitly set
// policy flags on top.
func loadPolicy(ctx *cli.Context) (config.Policy, error) {
	policy := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return policy, err
		}
		policy = loaded
	}

	if ctx.IsSet(maxNodesPerAddressFlag.Name) {
		policy.MaxNodesPerAddress = ctx.Int(maxNodesPerAddressFlag.Name)
	}
	if ctx.IsSet(gracePeriodFlag.Name) {
		policy.GracePeriod = ctx.Duration(gracePeriodFlag.Name)
	}
	if ctx.IsSet(slashFractionFlag.Name) {
		policy.SlashFraction = ctx.Float64(slashFractionFlag.Name)
	}
	if ctx.IsSet(auditWindowFlag.Name) {
		policy.AuditWindow = ctx.Duration(auditWindowFlag.Name)
	}
	if err := policy.Validate(); err != nil {
		return policy, errors.WithMessage(err, "policy")
	}
	return policy, nil
}

func openRoundStore(ctx *cli.Context) (*roundstore.Store, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
	}
	dir := filepath.Join(dataDir, "rounds.db")
	store, err := roundstore.Open(dir, roundstore.Options{})
	if err != nil {
		return nil, errors.WithMessagef(err, "open round database at '%v'", dir)
	}
	return store, nil
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".sybilguard")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// handleExitSignal returns a context cancelled on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(policy config.Policy, apiURL, dataDir string) {
	fmt.Printf(`Starting %v
    Max nodes    [ %v per address ]
    Grace period [ %v ]
    Slash        [ %v of stake ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		"sybilguard/"+fullVersion(),
		policy.MaxNodesPerAddress,
		policy.GracePeriod,
		policy.SlashFraction,
		dataDir,
		apiURL)
}

// logPublicAddress logs the group this host falls into. Only the abbreviated
// hash is logged.
func logPublicAddress(ctx context.Context, resolver task.IPResolver) {
	ip, err := resolver.PublicIP(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("unable to resolve public address", "err", err)
		}
		return
	}
	logger.Info("public address resolved", "group", addrhash.Of(ip).Abbrev())
}

// staticNode serves the node identity given on the command line.
type staticNode struct {
	id    string
	stake uint64
}

func (n staticNode) NodeID(context.Context) (string, error) {
	if n.id == "" {
		return "", errors.Errorf("missing --%s", nodeIDFlag.Name)
	}
	return n.id, nil
}

func (n staticNode) Stake(context.Context, string) (uint64, error) {
	return n.stake, nil
}

type staticProof string

func (p staticProof) Proof(context.Context, uint64) (string, error) {
	return string(p), nil
}

// acceptedProofs returns the proofs given on the command line, or the default
// proof when none is.
func acceptedProofs(ctx *cli.Context) task.AcceptedProofs {
	proofs := task.AcceptedProofs(ctx.StringSlice(acceptedProofsFlag.Name))
	if len(proofs) == 0 {
		return task.AcceptedProofs{task.DefaultProof}
	}
	return proofs
}
