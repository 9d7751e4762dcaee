// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakepact/pact/api/utils"
	"github.com/stakepact/pact/health"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// Runtime exposes the static facts of the running program.
type Runtime interface {
	GenesisID() pact.Bytes32
	Config() program.Config
	Now() uint64
}

type Info struct {
	GenesisID pact.Bytes32   `json:"genesisId"`
	Namespace string         `json:"namespace"`
	Now       uint64         `json:"now"`
	Bounds    program.Config `json:"bounds"`
}

type Node struct {
	rt     Runtime
	health *health.Health
}

func New(rt Runtime, h *health.Health) *Node {
	return &Node{rt, h}
}

func (n *Node) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	cfg := n.rt.Config()
	return utils.WriteJSON(w, &Info{
		GenesisID: n.rt.GenesisID(),
		Namespace: cfg.Namespace.String(),
		Now:       n.rt.Now(),
		Bounds:    cfg,
	})
}

func (n *Node) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status, err := n.health.Status()
	if err != nil {
		return err
	}
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /node").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetInfo))
	sub.Path("/health").
		Methods(http.MethodGet).
		Name("GET /node/health").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetHealth))
}
