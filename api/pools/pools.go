// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/api/utils"
	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/program"
	"github.com/stakepact/pact/program/pool"
)

const defaultEventsLimit = 100

// Viewer runs read-only queries against the latest committed state.
type Viewer interface {
	View(fn func(prog *program.Program) error) error
	Now() uint64
}

// Index serves the mirrored event history of a pool.
type Index interface {
	Events(ctx context.Context, poolID uint64, limit int) ([]*mirror.Event, error)
}

type Pools struct {
	viewer      Viewer
	index       Index
	eventsLimit int
}

// New creates the pools api. index may be nil, then the event history is not served.
func New(viewer Viewer, index Index, eventsLimit int) *Pools {
	if eventsLimit <= 0 {
		eventsLimit = defaultEventsLimit
	}
	return &Pools{
		viewer:      viewer,
		index:       index,
		eventsLimit: eventsLimit,
	}
}

func (p *Pools) describe(prog *program.Program, pl *pool.Pool, now uint64) (*Pool, error) {
	vault, err := prog.VaultBalance(pl.ID)
	if err != nil {
		return nil, err
	}
	view := &Pool{
		Pool:           pl,
		VaultBalance:   vault,
		NextTransition: pool.Next(pl, now),
	}
	if pl.Status == pool.StatusActive {
		day := pl.CurrentDay(now)
		view.CurrentDay = &day
	}
	return view, nil
}

func (p *Pools) handleListPools(w http.ResponseWriter, req *http.Request) error {
	var filter pool.Status
	if s := req.URL.Query().Get("status"); s != "" {
		if err := filter.UnmarshalText([]byte(s)); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "status"))
		}
	}
	now := p.viewer.Now()
	pools := make([]*Pool, 0)
	err := p.viewer.View(func(prog *program.Program) error {
		return prog.IteratePools(func(pl *pool.Pool) error {
			if filter != pool.StatusUnknown && pl.Status != filter {
				return nil
			}
			view, err := p.describe(prog, pl, now)
			if err != nil {
				return err
			}
			pools = append(pools, view)
			return nil
		})
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pools)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var view *Pool
	err = p.viewer.View(func(prog *program.Program) error {
		pl, err := prog.Pool(id)
		if err != nil {
			return err
		}
		view, err = p.describe(prog, pl, p.viewer.Now())
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, view)
}

func (p *Pools) handleListParticipants(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var participants []*Participant
	err = p.viewer.View(func(prog *program.Program) (err error) {
		participants, err = prog.Participants(id)
		return
	})
	if err != nil {
		return err
	}
	if participants == nil {
		participants = []*Participant{}
	}
	return utils.WriteJSON(w, participants)
}

func (p *Pools) handleGetParticipant(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	id, err := utils.ParsePoolID(vars["id"])
	if err != nil {
		return err
	}
	wallet, err := utils.ParseAddress(vars["wallet"], "wallet")
	if err != nil {
		return err
	}
	var pt *Participant
	err = p.viewer.View(func(prog *program.Program) (err error) {
		pt, err = prog.Participant(id, wallet)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pt)
}

func (p *Pools) handleGetEvents(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParsePoolID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	limit := p.eventsLimit
	if s := req.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return utils.BadRequest(errors.New("limit: must be a positive integer"))
		}
		limit = min(n, p.eventsLimit)
	}
	events, err := p.index.Events(req.Context(), id, limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*mirror.Event{}
	}
	return utils.WriteJSON(w, events)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleListPools))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{id}/participants").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/participants").
		HandlerFunc(utils.WrapHandlerFunc(p.handleListParticipants))
	sub.Path("/{id}/participants/{wallet}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/participants/{wallet}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetParticipant))
	if p.index != nil {
		sub.Path("/{id}/events").
			Methods(http.MethodGet).
			Name("GET /pools/{id}/events").
			HandlerFunc(utils.WrapHandlerFunc(p.handleGetEvents))
	}
}
