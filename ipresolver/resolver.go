// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ipresolver discovers the public address of this host by asking
// external echo services in turn.
package ipresolver

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/log"
)

var logger = log.WithContext("pkg", "ipresolver")

// ErrNoPublicIP is returned when no service produced an address.
var ErrNoPublicIP = errors.New("failed to determine public IP address")

// DefaultServices are tried in order.
var DefaultServices = []string{
	"https://api.ipify.org",
	"https://icanhazip.com",
}

const (
	defaultTimeout = 5 * time.Second
	maxBodySize    = 256
)

// Resolver queries echo services for the public address.
type Resolver struct {
	services []string
	timeout  time.Duration
	c        *http.Client
}

// New creates a resolver over services. An empty list means DefaultServices.
func New(services ...string) *Resolver {
	return NewWithHTTP(http.DefaultClient, defaultTimeout, services...)
}

// NewWithHTTP creates a resolver using c, bounding each attempt by timeout.
func NewWithHTTP(c *http.Client, timeout time.Duration, services ...string) *Resolver {
	if len(services) == 0 {
		services = DefaultServices
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{services: services, timeout: timeout, c: c}
}

// PublicIP returns the first valid address reported by a service.
func (r *Resolver) PublicIP(ctx context.Context) (string, error) {
	for _, svc := range r.services {
		ip, err := r.query(ctx, svc)
		if err == nil {
			return ip, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Warn("failed to fetch public IP", "service", svc, "err", err)
	}
	return "", ErrNoPublicIP
}

func (r *Resolver) query(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	resp, err := r.c.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", errors.Errorf("invalid address %q", ip)
	}
	return ip, nil
}
