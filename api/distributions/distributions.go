// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributions

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/sybilguard/api/utils"
	"github.com/vechain/sybilguard/roundstore"
)

const (
	defaultLimit = 20
	maxLimit     = 1000
)

// Store is the read side of the round store.
type Store interface {
	Get(round uint64) (*roundstore.Record, error)
	Latest() (*roundstore.Record, error)
	Rounds(limit int) ([]uint64, error)
	IsNotFound(err error) bool
}

type Distributions struct {
	store Store
}

func New(store Store) *Distributions {
	return &Distributions{store}
}

func (d *Distributions) handleListRounds(w http.ResponseWriter, req *http.Request) error {
	limit := defaultLimit
	if s := req.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return utils.BadRequest(errors.New("limit: positive integer expected"))
		}
		limit = min(n, maxLimit)
	}

	rounds, err := d.store.Rounds(limit)
	if err != nil {
		return err
	}
	if rounds == nil {
		rounds = []uint64{}
	}
	return utils.WriteJSON(w, rounds)
}

func (d *Distributions) handleGetLatest(w http.ResponseWriter, _ *http.Request) error {
	rec, err := d.store.Latest()
	if err != nil {
		if d.store.IsNotFound(err) {
			return utils.NotFound(errors.New("no distribution recorded"))
		}
		return err
	}
	return utils.WriteJSON(w, rec)
}

func (d *Distributions) handleGetRound(w http.ResponseWriter, req *http.Request) error {
	round, err := strconv.ParseUint(mux.Vars(req)["round"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "round"))
	}
	rec, err := d.store.Get(round)
	if err != nil {
		if d.store.IsNotFound(err) {
			return utils.NotFound(errors.Errorf("no distribution for round %d", round))
		}
		return err
	}
	return utils.WriteJSON(w, rec)
}

func (d *Distributions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("list-distribution-rounds").
		HandlerFunc(utils.WrapHandlerFunc(d.handleListRounds))
	sub.Path("/latest").
		Methods(http.MethodGet).
		Name("get-latest-distribution").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetLatest))
	sub.Path("/{round}").
		Methods(http.MethodGet).
		Name("get-distribution").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetRound))
}
