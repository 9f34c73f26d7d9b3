// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config holds the admission policy and loads it from yaml.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/sybilguard/registry"
	"github.com/vechain/sybilguard/reward"
)

// DefaultAuditWindow bounds how far a claimed start time may be from now at audit.
const DefaultAuditWindow = 10 * time.Minute

// Policy is the set of tunable admission and reward constants.
type Policy struct {
	MaxNodesPerAddress int           `yaml:"maxNodesPerAddress"`
	GracePeriod        time.Duration `yaml:"gracePeriod"`
	SlashFraction      float64       `yaml:"slashFraction"`
	EvictAbove         int           `yaml:"evictAbove"`
	AuditWindow        time.Duration `yaml:"auditWindow"`
}

// Default returns the stock policy.
func Default() Policy {
	return Policy{
		MaxNodesPerAddress: registry.DefaultMaxNodesPerAddress,
		GracePeriod:        registry.DefaultGracePeriod,
		SlashFraction:      reward.DefaultSlashFraction,
		EvictAbove:         registry.DefaultEvictAbove,
		AuditWindow:        DefaultAuditWindow,
	}
}

// Load reads a yaml policy file. Fields absent from the file keep their
// default values; unknown fields are rejected.
func Load(path string) (Policy, error) {
	p := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrap(err, "read policy file")
	}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return p, errors.Wrapf(err, "parse policy file %s", path)
	}
	return p, p.Validate()
}

// Validate checks the policy values.
func (p Policy) Validate() error {
	if p.MaxNodesPerAddress < 1 {
		return errors.Errorf("maxNodesPerAddress must be positive, got %d", p.MaxNodesPerAddress)
	}
	if p.GracePeriod <= 0 {
		return errors.Errorf("gracePeriod must be positive, got %v", p.GracePeriod)
	}
	if p.SlashFraction < 0 || p.SlashFraction > 1 {
		return errors.Errorf("slashFraction must be within [0, 1], got %v", p.SlashFraction)
	}
	if p.EvictAbove < 0 {
		return errors.Errorf("evictAbove must not be negative, got %d", p.EvictAbove)
	}
	if p.EvictAbove > 0 && p.EvictAbove < p.MaxNodesPerAddress {
		return errors.Errorf("evictAbove (%d) must not be below maxNodesPerAddress (%d)", p.EvictAbove, p.MaxNodesPerAddress)
	}
	if p.AuditWindow <= 0 {
		return errors.Errorf("auditWindow must be positive, got %v", p.AuditWindow)
	}
	return nil
}

// RegistryOptions returns the registry part of the policy.
func (p Policy) RegistryOptions() registry.Options {
	return registry.Options{
		MaxNodesPerAddress: p.MaxNodesPerAddress,
		GracePeriod:        p.GracePeriod,
		EvictAbove:         p.EvictAbove,
	}
}
