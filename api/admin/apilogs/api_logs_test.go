// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogsHandler(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		startValue  bool
		requestBody *Request
		expected    bool
	}{
		{"enable", http.MethodPost, false, &Request{Enabled: true}, true},
		{"disable", http.MethodPost, true, &Request{Enabled: false}, false},
		{"unchanged", http.MethodPost, true, &Request{Enabled: true}, true},
		{"get", http.MethodGet, true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.startValue)

			var reqBody []byte
			if tt.requestBody != nil {
				var err error
				reqBody, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			rr := httptest.NewRecorder()
			router := mux.NewRouter()
			New(&enabled, 2*time.Second).Mount(router, "/admin/apilogs")
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/apilogs", bytes.NewReader(reqBody)))

			require.Equal(t, http.StatusOK, rr.Code)
			var status Status
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
			assert.Equal(t, tt.expected, status.Enabled)
			assert.Equal(t, int64(2000), status.SlowQueriesThresholdMs)
			assert.Equal(t, tt.expected, enabled.Load())
		})
	}
}

func TestAPILogsBadRequest(t *testing.T) {
	var enabled atomic.Bool
	router := mux.NewRouter()
	New(&enabled, 0).Mount(router, "/admin/apilogs")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/apilogs", strings.NewReader(`{"enabled":"yes"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, enabled.Load())
}
