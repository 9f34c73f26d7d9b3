// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tasks exposes the round hooks of the reward task over HTTP.
package tasks

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/api/utils"
	"github.com/vechain/sybilguard/reward"
)

type Submitter interface {
	Submit(ctx context.Context, round uint64) string
}

type Auditor interface {
	Audit(payload string, round uint64, submitterKey string) bool
}

type Distributor interface {
	Distribute(round uint64, submitters []reward.Submitter, bounty uint64) (reward.Distribution, error)
}

// Hooks groups the hook implementations. A nil hook is not mounted.
type Hooks struct {
	Submitter   Submitter
	Auditor     Auditor
	Distributor Distributor
}

type SubmissionRequest struct {
	Round uint64 `json:"round"`
}

type SubmissionResponse struct {
	Round      uint64 `json:"round"`
	Submission string `json:"submission"`
}

type AuditRequest struct {
	Round        uint64 `json:"round"`
	Submission   string `json:"submission"`
	SubmitterKey string `json:"submitterKey"`
}

type AuditResponse struct {
	Valid bool `json:"valid"`
}

type DistributionRequest struct {
	Round      uint64             `json:"round"`
	Bounty     uint64             `json:"bounty"`
	Submitters []reward.Submitter `json:"submitters"`
}

type Tasks struct {
	hooks Hooks
}

func New(hooks Hooks) *Tasks {
	return &Tasks{hooks}
}

func (t *Tasks) handleSubmission(w http.ResponseWriter, req *http.Request) error {
	var body SubmissionRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.WriteJSON(w, &SubmissionResponse{
		Round:      body.Round,
		Submission: t.hooks.Submitter.Submit(req.Context(), body.Round),
	})
}

func (t *Tasks) handleAudit(w http.ResponseWriter, req *http.Request) error {
	var body AuditRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.WriteJSON(w, &AuditResponse{
		Valid: t.hooks.Auditor.Audit(body.Submission, body.Round, body.SubmitterKey),
	})
}

func (t *Tasks) handleDistribution(w http.ResponseWriter, req *http.Request) error {
	var body DistributionRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	seen := make(map[string]bool, len(body.Submitters))
	for i, s := range body.Submitters {
		if s.PublicKey == "" {
			return utils.BadRequest(errors.Errorf("submitters[%d]: missing publicKey", i))
		}
		if seen[s.PublicKey] {
			return utils.BadRequest(errors.Errorf("submitters[%d]: duplicate publicKey %s", i, s.PublicKey))
		}
		seen[s.PublicKey] = true
	}

	dist, err := t.hooks.Distributor.Distribute(body.Round, body.Submitters, body.Bounty)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, dist)
}

func (t *Tasks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	if t.hooks.Submitter != nil {
		sub.Path("/submission").
			Methods(http.MethodPost).
			Name("post-task-submission").
			HandlerFunc(utils.WrapHandlerFunc(t.handleSubmission))
	}
	if t.hooks.Auditor != nil {
		sub.Path("/audit").
			Methods(http.MethodPost).
			Name("post-task-audit").
			HandlerFunc(utils.WrapHandlerFunc(t.handleAudit))
	}
	if t.hooks.Distributor != nil {
		sub.Path("/distribution").
			Methods(http.MethodPost).
			Name("post-task-distribution").
			HandlerFunc(utils.WrapHandlerFunc(t.handleDistribution))
	}
}
