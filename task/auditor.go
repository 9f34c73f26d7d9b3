// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package task

import (
	"time"

	"github.com/vechain/sybilguard/addrhash"
	"github.com/vechain/sybilguard/submission"
)

// Auditor judges submissions of other nodes.
type Auditor struct {
	registry Registry
	verifier ProofVerifier
	window   time.Duration
	tracker  Tracker
	now      func() time.Time
}

// NewAuditor creates an Auditor. Claims whose start time is more than window
// away from now are rejected. tracker may be nil.
func NewAuditor(registry Registry, verifier ProofVerifier, window time.Duration, tracker Tracker) *Auditor {
	return &Auditor{
		registry: registry,
		verifier: verifier,
		window:   window,
		tracker:  trackerOrNoop(tracker),
		now:      time.Now,
	}
}

// Audit reports whether the payload submitted by submitterKey for round is valid.
func (a *Auditor) Audit(payload string, round uint64, submitterKey string) bool {
	a.tracker.Touch(HookAudit, round)

	ok, reason := a.audit(payload)
	recordHook(HookAudit, ok)
	if !ok {
		logger.Warn("audit failed", "round", round, "submitter", submitterKey, "reason", reason)
		return false
	}
	logger.Debug("audit passed", "round", round, "submitter", submitterKey)
	return true
}

func (a *Auditor) audit(payload string) (bool, string) {
	claim, err := submission.Decode(payload)
	if err != nil {
		return false, err.Error()
	}
	if claim.Proof == "" {
		return false, "missing proof"
	}

	a.registry.Register(claim.PublicIP, claim.NodeID, claim.Start(), claim.StakeAmount)

	if !a.registry.IsEligible(claim.PublicIP, claim.NodeID) {
		return false, "node " + addrhash.Abbrev(claim.NodeID) + " not eligible due to address limit"
	}
	if !a.verifier.Verify(claim.Proof) {
		return false, "invalid proof"
	}

	diff := a.now().Sub(claim.Start())
	if diff < 0 {
		diff = -diff
	}
	if diff > a.window {
		return false, "start time too old or in the future"
	}
	return true, ""
}
