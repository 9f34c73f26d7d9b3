// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package apilogs toggles logging of every API request at runtime.
package apilogs

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/sybilguard/api/utils"
	"github.com/vechain/sybilguard/log"
)

var logger = log.WithContext("pkg", "apilogs")

type Request struct {
	Enabled bool `json:"enabled"`
}

// Status reports whether every API request is logged. Slow requests are
// logged regardless when SlowQueriesThresholdMs is positive.
type Status struct {
	Enabled                bool  `json:"enabled"`
	SlowQueriesThresholdMs int64 `json:"slowQueriesThresholdMs"`
}

type APILogs struct {
	enabled       *atomic.Bool
	slowThreshold time.Duration
}

func New(enabled *atomic.Bool, slowThreshold time.Duration) *APILogs {
	return &APILogs{
		enabled:       enabled,
		slowThreshold: slowThreshold,
	}
}

func (a *APILogs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("get-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))

	sub.Path("").
		Methods(http.MethodPost).
		Name("post-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetEnabled))
}

func (a *APILogs) status() Status {
	return Status{
		Enabled:                a.enabled.Load(),
		SlowQueriesThresholdMs: a.slowThreshold.Milliseconds(),
	}
}

func (a *APILogs) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, a.status())
}

func (a *APILogs) handleSetEnabled(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(err)
	}
	if prev := a.enabled.Swap(req.Enabled); prev != req.Enabled {
		logger.Info("api logs updated", "enabled", req.Enabled)
	}
	return utils.WriteJSON(w, a.status())
}
