// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instructions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/api/utils"
	"github.com/stakepact/pact/instr"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/runtime"
)

// Executor runs submitted instructions and serves their receipts.
type Executor interface {
	Execute(ins *instr.Instruction) (*runtime.Receipt, error)
	Receipt(id pact.Bytes32) (*runtime.Receipt, error)
}

// RawInstruction carries a signed instruction in its 0x hex encoding.
type RawInstruction struct {
	Raw string `json:"raw"`
}

type Instructions struct {
	exec Executor
}

func New(exec Executor) *Instructions {
	return &Instructions{exec}
}

func (i *Instructions) handleSend(w http.ResponseWriter, req *http.Request) error {
	var raw RawInstruction
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	ins, err := instr.Decode(raw.Raw)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}

	receipt, err := i.exec.Execute(ins)
	if err != nil {
		switch {
		case errors.Is(err, runtime.ErrAccountBusy), errors.Is(err, runtime.ErrKnownInstruction):
			return utils.Conflict(err)
		case errors.As(err, new(*runtime.InvalidInstructionError)):
			return utils.BadRequest(err)
		}
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (i *Instructions) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := pact.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := i.exec.Receipt(id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return utils.NotFound(errors.New("receipt not found"))
	}
	return utils.WriteJSON(w, receipt)
}

func (i *Instructions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /instructions").
		HandlerFunc(utils.WrapHandlerFunc(i.handleSend))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /instructions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(i.handleGetReceipt))
}
