// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package task implements the round hooks a task runner calls: building this
// node's submission, auditing a peer's submission and computing the round's
// distribution. Every hook registers the claims it sees before it asks the
// registry about eligibility, since the registry only learns about nodes that way.
package task

import (
	"context"
	"time"

	"github.com/vechain/sybilguard/log"
	"github.com/vechain/sybilguard/metrics"
)

var logger = log.WithContext("pkg", "task")

var metricHooks = metrics.LazyLoadCounterVec("task_hooks_count", []string{"hook", "result"})

// Hook names, also used as activity kinds.
const (
	HookSubmission   = "submission"
	HookAudit        = "audit"
	HookDistribution = "distribution"
)

// DefaultProof is submitted when the proof source has nothing stored.
const DefaultProof = "default_proof"

// Registry is the eligibility registry as seen by the hooks.
type Registry interface {
	Register(rawAddress, nodeID string, startTime time.Time, stakeAmount uint64)
	IsEligible(rawAddress, nodeID string) bool
}

// IPResolver discovers this host's public address.
type IPResolver interface {
	PublicIP(ctx context.Context) (string, error)
}

// NodeInfo supplies this node's identity and stake from the task runner.
type NodeInfo interface {
	NodeID(ctx context.Context) (string, error)
	Stake(ctx context.Context, nodeID string) (uint64, error)
}

// ProofSource returns the proof of work this node submits for a round.
type ProofSource interface {
	Proof(ctx context.Context, round uint64) (string, error)
}

// ProofVerifier checks a submitted proof. Its internals are opaque here.
type ProofVerifier interface {
	Verify(proof string) bool
}

// Tracker is notified of every hook run.
type Tracker interface {
	Touch(kind string, round uint64)
}

// AcceptedProofs is a ProofVerifier accepting a fixed set of proofs.
type AcceptedProofs []string

// Verify implements ProofVerifier.
func (a AcceptedProofs) Verify(proof string) bool {
	for _, p := range a {
		if p == proof {
			return true
		}
	}
	return false
}

type noopTracker struct{}

func (noopTracker) Touch(string, uint64) {}

func trackerOrNoop(t Tracker) Tracker {
	if t == nil {
		return noopTracker{}
	}
	return t
}

func recordHook(hook string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	metricHooks().AddWithLabel(1, map[string]string{"hook": hook, "result": result})
}
