// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributions

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/sybilguard/reward"
	"github.com/vechain/sybilguard/roundstore"
)

func initAPIServer(t *testing.T) (*httptest.Server, *roundstore.Store) {
	store, err := roundstore.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	router := mux.NewRouter()
	New(store).Mount(router, "/distributions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, store
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}

func putRound(t *testing.T, store *roundstore.Store, round uint64) *roundstore.Record {
	rec := &roundstore.Record{
		Round:        round,
		Bounty:       100,
		Distribution: reward.Distribution{"pk-" + strconv.FormatUint(round, 10): 100},
		Stats:        reward.Stats{Submitters: 1, Rewarded: 1},
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, int(round), 0, time.UTC),
	}
	require.NoError(t, store.Put(rec))
	return rec
}

func TestEmptyStore(t *testing.T) {
	ts, _ := initAPIServer(t)

	_, code := httpGet(t, ts.URL+"/distributions/latest")
	assert.Equal(t, http.StatusNotFound, code)

	_, code = httpGet(t, ts.URL+"/distributions/3")
	assert.Equal(t, http.StatusNotFound, code)

	body, code := httpGet(t, ts.URL+"/distributions")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))
}

func TestGetDistribution(t *testing.T) {
	ts, store := initAPIServer(t)
	putRound(t, store, 2)
	want := putRound(t, store, 9)
	putRound(t, store, 300)

	body, code := httpGet(t, ts.URL+"/distributions/9")
	require.Equal(t, http.StatusOK, code)
	var rec roundstore.Record
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, *want, rec)

	body, code = httpGet(t, ts.URL+"/distributions/latest")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, uint64(300), rec.Round)

	body, code = httpGet(t, ts.URL+"/distributions?limit=2")
	require.Equal(t, http.StatusOK, code)
	var rounds []uint64
	require.NoError(t, json.Unmarshal(body, &rounds))
	assert.Equal(t, []uint64{300, 9}, rounds)
}

func TestBadRequests(t *testing.T) {
	ts, _ := initAPIServer(t)

	for _, path := range []string{
		"/distributions/abc",
		"/distributions/-1",
		"/distributions?limit=0",
		"/distributions?limit=x",
	} {
		_, code := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusBadRequest, code, path)
	}
}
