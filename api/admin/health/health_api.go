// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/api/utils"
	"github.com/vechain/sybilguard/health"
)

// DefaultMaxIdle is how long the task may stay silent before it is reported
// unhealthy.
const DefaultMaxIdle = 10 * time.Minute

type API struct {
	healthStatus *health.Health
	maxIdle      time.Duration
}

func NewAPI(healthStatus *health.Health, maxIdle time.Duration) *API {
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	return &API{
		healthStatus: healthStatus,
		maxIdle:      maxIdle,
	}
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxIdle := h.maxIdle
	if query := r.URL.Query().Get("maxIdle"); query != "" {
		parsed, err := time.ParseDuration(query)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "maxIdle"))
		}
		maxIdle = parsed
	}

	acc, err := h.healthStatus.Status(maxIdle)
	if err != nil {
		return err
	}

	if !acc.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, acc)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
