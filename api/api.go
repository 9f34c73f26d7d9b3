// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/sybilguard/api/admin"
	healthAPI "github.com/vechain/sybilguard/api/admin/health"
	"github.com/vechain/sybilguard/api/debug"
	"github.com/vechain/sybilguard/api/distributions"
	"github.com/vechain/sybilguard/api/middleware"
	"github.com/vechain/sybilguard/api/tasks"
	"github.com/vechain/sybilguard/health"
	"github.com/vechain/sybilguard/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	EnableAdmin          bool
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	HealthMaxIdle        time.Duration
	// LogLevel is changed by the admin endpoints. Required when EnableAdmin is set.
	LogLevel *slog.LevelVar
	// Hooks are served under /task. They should share the registry, round
	// store and health given to New.
	Hooks tasks.Hooks
}

// New returns the api handler.
func New(
	registry debug.Snapshotter,
	rounds distributions.Store,
	healthStatus *health.Health,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	debug.New(registry).
		Mount(router, "/debug")
	healthAPI.NewAPI(healthStatus, opts.HealthMaxIdle).
		Mount(router, "/health")
	distributions.New(rounds).
		Mount(router, "/distributions")
	tasks.New(opts.Hooks).
		Mount(router, "/task")

	var reqLoggerEnabled atomic.Bool
	reqLoggerEnabled.Store(opts.EnableReqLogger)
	if opts.EnableAdmin {
		admin.New(opts.LogLevel, &reqLoggerEnabled, opts.SlowQueriesThreshold).
			Mount(router, "/admin")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)
	handler = middleware.RequestLoggerMiddleware(logger, &reqLoggerEnabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP
}
