// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/sybilguard/reward"
)

// registeredNode is a node known to the registry before the round is distributed.
type registeredNode struct {
	Address   string    `yaml:"address"`
	NodeID    string    `yaml:"nodeId"`
	Stake     uint64    `yaml:"stake"`
	StartTime time.Time `yaml:"startTime"`
}

// roundFile describes a round for offline distribution:
//
//	round: 12
//	bounty: 1000
//	registered:
//	  - address: 203.0.113.7
//	    nodeId: observer-1
//	    stake: 5
//	submitters:
//	  - publicKey: pk-1
//	    votes: 1
//	    stake: 10
//	    submission: '{"nodeId":"n1","publicIP":"203.0.113.7","startTime":0,"stakeAmount":10,"proof":"default_proof"}'
type roundFile struct {
	Round      uint64             `yaml:"round"`
	Bounty     uint64             `yaml:"bounty"`
	Registered []registeredNode   `yaml:"registered"`
	Submitters []reward.Submitter `yaml:"submitters"`
}

func readRoundFile(path string) (*roundFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read round file")
	}

	var rf roundFile
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, errors.Wrapf(err, "parse round file %s", path)
	}

	seen := make(map[string]bool, len(rf.Submitters))
	for i, s := range rf.Submitters {
		if s.PublicKey == "" {
			return nil, errors.Errorf("submitter #%d: missing publicKey", i)
		}
		if seen[s.PublicKey] {
			return nil, errors.Errorf("submitter #%d: duplicate publicKey %s", i, s.PublicKey)
		}
		seen[s.PublicKey] = true
	}
	for i, n := range rf.Registered {
		if n.Address == "" || n.NodeID == "" {
			return nil, errors.Errorf("registered #%d: address and nodeId are required", i)
		}
	}
	return &rf, nil
}
