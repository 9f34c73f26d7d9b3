// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/sybilguard/config"
	"github.com/vechain/sybilguard/task"
)

func newContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPolicyDefaults(t *testing.T) {
	policy, err := loadPolicy(newContext(t, policyFlags))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), policy)
}

func TestLoadPolicyFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "policy.yaml", "maxNodesPerAddress: 6\ngracePeriod: 2m\nevictAbove: 0\n")

	policy, err := loadPolicy(newContext(t, policyFlags,
		"--config", path,
		"--grace-period", "90s",
		"--slash-fraction", "0.5",
	))
	require.NoError(t, err)
	assert.Equal(t, 6, policy.MaxNodesPerAddress)
	assert.Equal(t, 90*time.Second, policy.GracePeriod)
	assert.Equal(t, 0.5, policy.SlashFraction)
	assert.Equal(t, 0, policy.EvictAbove)
	assert.Equal(t, config.DefaultAuditWindow, policy.AuditWindow)
}

func TestLoadPolicyRejectsInvalid(t *testing.T) {
	_, err := loadPolicy(newContext(t, policyFlags, "--slash-fraction", "1.5"))
	assert.ErrorContains(t, err, "slashFraction")

	_, err = loadPolicy(newContext(t, policyFlags, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestOpenRoundStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store, err := openRoundStore(newContext(t, []cli.Flag{dataDirFlag}, "--data-dir", dir))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.DirExists(t, filepath.Join(dir, "rounds.db"))

	_, err = openRoundStore(newContext(t, []cli.Flag{dataDirFlag}, "--data-dir", ""))
	assert.Error(t, err)
}

type failingResolver struct{}

func (failingResolver) PublicIP(context.Context) (string, error) { return "", errors.New("offline") }

func TestStaticNode(t *testing.T) {
	_, err := staticNode{}.NodeID(context.Background())
	assert.ErrorContains(t, err, "--node-id")

	id, err := staticNode{id: "n1"}.NodeID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n1", id)

	// never blocks or panics without a public address
	logPublicAddress(context.Background(), failingResolver{})
}

func TestAcceptedProofs(t *testing.T) {
	flags := []cli.Flag{acceptedProofsFlag}

	assert.Equal(t, task.AcceptedProofs{task.DefaultProof}, acceptedProofs(newContext(t, flags)))
	assert.Equal(t, task.AcceptedProofs{"a", "b"},
		acceptedProofs(newContext(t, flags, "--accepted-proof", "a", "--accepted-proof", "b")))
}
