// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tasks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sybilguard/reward"
)

type fakeHooks struct {
	rounds     []uint64
	audited    []string
	submitters []reward.Submitter
	err        error
}

func (f *fakeHooks) Submit(_ context.Context, round uint64) string {
	f.rounds = append(f.rounds, round)
	return `{"error":"SUBMISSION_FAILED"}`
}

func (f *fakeHooks) Audit(payload string, round uint64, submitterKey string) bool {
	f.rounds = append(f.rounds, round)
	f.audited = append(f.audited, submitterKey)
	return payload == "ok"
}

func (f *fakeHooks) Distribute(round uint64, submitters []reward.Submitter, bounty uint64) (reward.Distribution, error) {
	f.rounds = append(f.rounds, round)
	f.submitters = submitters
	dist := reward.Distribution{}
	for _, s := range submitters {
		dist[s.PublicKey] = int64(bounty)
	}
	return dist, f.err
}

func initAPIServer(t *testing.T, hooks Hooks) *httptest.Server {
	router := mux.NewRouter()
	New(hooks).Mount(router, "/task")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func httpPost(t *testing.T, url, body string) ([]byte, int) {
	res, err := http.Post(url, "application/json", strings.NewReader(body)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func TestSubmission(t *testing.T) {
	f := &fakeHooks{}
	ts := initAPIServer(t, Hooks{Submitter: f})

	body, code := httpPost(t, ts.URL+"/task/submission", `{"round":7}`)
	assert.Equal(t, http.StatusOK, code)

	var res SubmissionResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, SubmissionResponse{Round: 7, Submission: `{"error":"SUBMISSION_FAILED"}`}, res)
	assert.Equal(t, []uint64{7}, f.rounds)

	_, code = httpPost(t, ts.URL+"/task/submission", `{"round":"seven"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAudit(t *testing.T) {
	f := &fakeHooks{}
	ts := initAPIServer(t, Hooks{Auditor: f})

	body, code := httpPost(t, ts.URL+"/task/audit", `{"round":2,"submission":"ok","submitterKey":"pk"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"valid":true}`, string(body))

	body, code = httpPost(t, ts.URL+"/task/audit", `{"round":2,"submission":"bad","submitterKey":"pk2"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"valid":false}`, string(body))
	assert.Equal(t, []string{"pk", "pk2"}, f.audited)

	_, code = httpPost(t, ts.URL+"/task/audit", `{"payload":"ok"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDistribution(t *testing.T) {
	f := &fakeHooks{}
	ts := initAPIServer(t, Hooks{Distributor: f})

	body, code := httpPost(t, ts.URL+"/task/distribution",
		`{"round":3,"bounty":10,"submitters":[{"publicKey":"a","votes":1,"stake":5,"submission":"{}"}]}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"a":10}`, string(body))
	require.Len(t, f.submitters, 1)
	assert.Equal(t, int64(1), f.submitters[0].Votes)

	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"round":3,"submitters":[{"votes":1}]}`},
		{"duplicate key", `{"round":3,"submitters":[{"publicKey":"a"},{"publicKey":"a"}]}`},
		{"unknown field", `{"round":3,"pool":10}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code := httpPost(t, ts.URL+"/task/distribution", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestDistributionStoreError(t *testing.T) {
	ts := initAPIServer(t, Hooks{Distributor: &fakeHooks{err: errors.New("disk full")}})

	body, code := httpPost(t, ts.URL+"/task/distribution", `{"round":1,"bounty":1,"submitters":[]}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, string(body), "disk full")
}

func TestNilHooksAreNotMounted(t *testing.T) {
	ts := initAPIServer(t, Hooks{Auditor: &fakeHooks{}})

	for _, path := range []string{"/task/submission", "/task/distribution"} {
		_, code := httpPost(t, ts.URL+path, `{}`)
		assert.Equal(t, http.StatusNotFound, code, path)
	}
}
