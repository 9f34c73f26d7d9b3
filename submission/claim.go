// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package submission encodes and decodes the claim a node submits each round.
package submission

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Error codes carried by sentinel payloads.
const (
	CodeIPLimitExceeded  = "IP_LIMIT_EXCEEDED"
	CodeSubmissionFailed = "SUBMISSION_FAILED"
)

// ErrMalformed is the cause of every Decode failure.
var ErrMalformed = errors.New("malformed submission")

// Claim is the payload a node submits: the address and identity it claims,
// the stake backing it and an opaque proof of work.
type Claim struct {
	NodeID      string `json:"nodeId"`
	PublicIP    string `json:"publicIP"`
	StartTime   int64  `json:"startTime"` // unix milliseconds
	StakeAmount uint64 `json:"stakeAmount"`
	Proof       string `json:"proof,omitempty"`
}

// Start returns StartTime as a time.Time.
func (c *Claim) Start() time.Time {
	return time.UnixMilli(c.StartTime)
}

// payload is the superset of a claim and a sentinel error payload.
type payload struct {
	Claim
	Error string `json:"error,omitempty"`
}

// Decode parses and validates a submission payload. Sentinel error payloads and
// claims without a node id or public address are rejected. Every error wraps
// ErrMalformed.
func Decode(s string) (*Claim, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	var p payload
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "decode: %v", err)
	}
	if dec.More() {
		return nil, errors.Wrap(ErrMalformed, "trailing data")
	}
	if p.Error != "" {
		return nil, errors.Wrapf(ErrMalformed, "error payload %q", p.Error)
	}
	if strings.TrimSpace(p.NodeID) == "" {
		return nil, errors.Wrap(ErrMalformed, "missing nodeId")
	}
	if strings.TrimSpace(p.PublicIP) == "" {
		return nil, errors.Wrap(ErrMalformed, "missing publicIP")
	}
	return &p.Claim, nil
}

// Encode returns the JSON form of c.
func Encode(c *Claim) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// a Claim only holds strings and integers
	_ = enc.Encode(c)
	return strings.TrimSuffix(buf.String(), "\n")
}

// ErrorPayload returns the sentinel payload for code.
func ErrorPayload(code string) string {
	return `{"error":"` + code + `"}`
}

// IsMalformed reports whether err came from Decode.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}
