// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sybilguard/health"
	"github.com/vechain/sybilguard/registry"
)

type groups int

func (g groups) Len() int { return int(g) }

func initAPIServer(t *testing.T, h *health.Health) *httptest.Server {
	router := mux.NewRouter()
	NewAPI(h, 0).Mount(router, "/health")

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestHealth(t *testing.T) {
	h := health.New(groups(3))
	h.Touch("audit", 12)
	ts := initAPIServer(t, h)

	body, code := httpGet(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, code)

	var status health.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint64(12), status.CurrentRound)
	assert.Equal(t, 3, status.AddressGroups)
	require.NotNil(t, status.LastActivity)
	assert.Equal(t, "audit", status.LastActivity.Kind)
}

func TestHealthIdle(t *testing.T) {
	h := health.New(registry.New(registry.DefaultOptions()))
	ts := initAPIServer(t, h)

	time.Sleep(5 * time.Millisecond)
	body, code := httpGet(t, ts.URL+"/health?maxIdle=1ms")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	var status health.Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.False(t, status.Healthy)
	assert.Nil(t, status.LastActivity)
}

func TestHealthBadQuery(t *testing.T) {
	ts := initAPIServer(t, health.New(nil))

	_, code := httpGet(t, ts.URL+"/health?maxIdle=soon")
	assert.Equal(t, http.StatusBadRequest, code)
}
