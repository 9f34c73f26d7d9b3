// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/sybilguard/api/admin/apilogs"
	"github.com/vechain/sybilguard/api/admin/loglevel"
)

// Admin groups the endpoints that change the running process.
type Admin struct {
	logLevel      *slog.LevelVar
	apiLogs       *atomic.Bool
	slowThreshold time.Duration
}

func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, slowThreshold time.Duration) *Admin {
	return &Admin{
		logLevel:      logLevel,
		apiLogs:       apiLogs,
		slowThreshold: slowThreshold,
	}
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	loglevel.New(a.logLevel).Mount(sub, "/loglevel")
	apilogs.New(a.apiLogs, a.slowThreshold).Mount(sub, "/apilogs")
}
