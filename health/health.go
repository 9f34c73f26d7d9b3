// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"
)

// Activity is the most recent task hook invocation.
type Activity struct {
	Kind      string     `json:"kind"`
	Round     uint64     `json:"round"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy       bool      `json:"healthy"`
	CurrentRound  uint64    `json:"currentRound"`
	LastActivity  *Activity `json:"lastActivity"`
	AddressGroups int       `json:"addressGroups"`
}

// GroupCounter reports the number of tracked address groups.
type GroupCounter interface {
	Len() int
}

type Health struct {
	lock         sync.RWMutex
	startedAt    time.Time
	lastActivity *Activity
	round        uint64
	groups       GroupCounter
	now          func() time.Time
}

func New(groups GroupCounter) *Health {
	return &Health{
		startedAt: time.Now(),
		groups:    groups,
		now:       time.Now,
	}
}

// Touch records a task hook run for round.
func (h *Health) Touch(kind string, round uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := h.now()
	h.lastActivity = &Activity{Kind: kind, Round: round, Timestamp: &now}
	if round > h.round {
		h.round = round
	}
}

// Status is healthy when some task hook ran within maxIdle, counting start up
// as activity.
func (h *Health) Status(maxIdle time.Duration) (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	last := h.startedAt
	var activity *Activity
	if h.lastActivity != nil {
		last = *h.lastActivity.Timestamp
		copied := *h.lastActivity
		activity = &copied
	}

	groups := 0
	if h.groups != nil {
		groups = h.groups.Len()
	}

	return &Status{
		Healthy:       h.now().Sub(last) <= maxIdle,
		CurrentRound:  h.round,
		LastActivity:  activity,
		AddressGroups: groups,
	}, nil
}
