// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package task

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/submission"
)

// Submitter builds this node's submission for a round.
type Submitter struct {
	registry Registry
	resolver IPResolver
	node     NodeInfo
	proofs   ProofSource
	tracker  Tracker
	now      func() time.Time
}

// NewSubmitter creates a Submitter. tracker may be nil.
func NewSubmitter(registry Registry, resolver IPResolver, node NodeInfo, proofs ProofSource, tracker Tracker) *Submitter {
	return &Submitter{
		registry: registry,
		resolver: resolver,
		node:     node,
		proofs:   proofs,
		tracker:  trackerOrNoop(tracker),
		now:      time.Now,
	}
}

// Submit returns the payload to submit for round. It never fails: when this node
// is over its address limit, or anything else goes wrong, a sentinel error
// payload is returned instead of a claim.
func (s *Submitter) Submit(ctx context.Context, round uint64) string {
	s.tracker.Touch(HookSubmission, round)

	claim, err := s.claim(ctx, round)
	if err != nil {
		logger.Error("submission failed", "round", round, "err", err)
		recordHook(HookSubmission, false)
		return submission.ErrorPayload(submission.CodeSubmissionFailed)
	}

	if !s.registry.IsEligible(claim.PublicIP, claim.NodeID) {
		logger.Warn("node not eligible due to address limit", "round", round, "node", claim.NodeID)
		recordHook(HookSubmission, false)
		return submission.ErrorPayload(submission.CodeIPLimitExceeded)
	}

	logger.Info("submission created", "round", round, "node", claim.NodeID)
	recordHook(HookSubmission, true)
	return submission.Encode(claim)
}

// claim assembles this node's claim and registers it.
func (s *Submitter) claim(ctx context.Context, round uint64) (*submission.Claim, error) {
	ip, err := s.resolver.PublicIP(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "resolve public IP")
	}
	nodeID, err := s.node.NodeID(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "get node id")
	}
	if nodeID == "" {
		return nil, errors.New("empty node id")
	}
	stake, err := s.node.Stake(ctx, nodeID)
	if err != nil {
		return nil, errors.WithMessage(err, "get stake")
	}
	proof, err := s.proofs.Proof(ctx, round)
	if err != nil {
		return nil, errors.WithMessage(err, "get proof")
	}
	if proof == "" {
		proof = DefaultProof
	}

	start := s.now()
	s.registry.Register(ip, nodeID, start, stake)

	return &submission.Claim{
		NodeID:      nodeID,
		PublicIP:    ip,
		StartTime:   start.UnixMilli(),
		StakeAmount: stake,
		Proof:       proof,
	}, nil
}
