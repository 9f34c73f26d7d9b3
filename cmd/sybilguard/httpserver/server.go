// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/log"
	"github.com/vechain/sybilguard/metrics"
)

var logger = log.WithContext("pkg", "httpserver")

const shutdownTimeout = 5 * time.Second

// Server is a bound http server, ready to serve.
type Server struct {
	name     string
	url      string
	listener net.Listener
	srv      *http.Server
}

// Listen binds addr for handler. name is used in logs and errors.
func Listen(name, addr string, handler http.Handler) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	return &Server{
		name:     name,
		url:      "http://" + listener.Addr().String(),
		listener: listener,
		srv: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		},
	}, nil
}

// ListenMetrics binds addr for the metrics endpoint.
func ListenMetrics(addr string) (*Server, error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return Listen("metrics", addr, handlers.CompressHandler(router))
}

// URL returns the base url of the server.
func (s *Server) URL() string {
	return s.url
}

// Serve serves requests until ctx is done, then shuts the server down
// gracefully. It returns nil after a shutdown triggered by ctx.
func (s *Server) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", "name", s.name, "err", err)
			s.srv.Close()
		}
	}()

	logger.Info("server started", "name", s.name, "url", s.url)
	if err := s.srv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "serve %s", s.name)
	}
	logger.Info("server stopped", "name", s.name)
	return nil
}
