// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program/reverts"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

// Conflict convenience method to create http conflict error.
func Conflict(cause error) error {
	return HTTPError(cause, http.StatusConflict)
}

// RevertError is the body sent for a rejected instruction.
type RevertError struct {
	Code     reverts.Code `json:"code"`
	Category string       `json:"category"`
	Message  string       `json:"message"`
}

// revertStatus maps a revert category to the response status.
func revertStatus(code reverts.Code) int {
	switch code {
	case reverts.PoolNotFound, reverts.ParticipantNotFound:
		return http.StatusNotFound
	}
	switch code.Category() {
	case reverts.CategoryConfig:
		return http.StatusBadRequest
	case reverts.CategoryAuthorization:
		return http.StatusForbidden
	case reverts.CategoryResource:
		return http.StatusUnprocessableEntity
	}
	return http.StatusConflict
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded,
// a revert is responded as a JSON RevertError,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if he, ok := err.(*httpError); ok {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if code, ok := reverts.CodeOf(err); ok {
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(revertStatus(code))
			json.NewEncoder(w).Encode(&RevertError{
				Code:     code,
				Category: code.Category().String(),
				Message:  err.Error(),
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParsePoolID parses a decimal pool id path variable.
func ParsePoolID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "pool id"))
	}
	return id, nil
}

// ParseAddress parses a hex address path variable.
func ParseAddress(s, name string) (pact.Address, error) {
	addr, err := pact.ParseAddress(s)
	if err != nil {
		return pact.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// M shortcut for type map[string]any.
type M map[string]any
