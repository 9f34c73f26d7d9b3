// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package debug

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/sybilguard/api/utils"
	"github.com/vechain/sybilguard/registry"
)

// Snapshotter exposes a redacted view of the eligibility registry.
type Snapshotter interface {
	Snapshot() []registry.GroupView
}

type Debug struct {
	registry Snapshotter
}

func New(registry Snapshotter) *Debug {
	return &Debug{registry}
}

func (d *Debug) handleGetRegistry(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteEnvelope(w, d.registry.Snapshot())
}

func (d *Debug) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/registry").
		Methods(http.MethodGet).
		Name("debug-registry").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetRegistry))
}
