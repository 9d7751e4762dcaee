// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakepact/pact/api/utils"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
)

// Viewer runs read-only queries against the latest committed state.
type Viewer interface {
	View(fn func(prog *program.Program) error) error
}

type Account struct {
	Address pact.Address `json:"address"`
	Balance uint64       `json:"balance"`
	Program bool         `json:"program"`
}

type Accounts struct {
	viewer Viewer
}

func New(viewer Viewer) *Accounts {
	return &Accounts{viewer}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	acc := &Account{Address: addr}
	err = a.viewer.View(func(prog *program.Program) (err error) {
		if acc.Balance, err = prog.Balance(addr); err != nil {
			return
		}
		acc.Program, err = prog.IsProgramAccount(addr)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
