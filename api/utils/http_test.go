// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/program/reverts"
)

func serve(err error) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
		return err
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"not found", NotFound(errors.New("missing")), http.StatusNotFound},
		{"conflict", Conflict(errors.New("busy")), http.StatusConflict},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"config revert", reverts.New(reverts.InvalidConfig, "stake"), http.StatusBadRequest},
		{"auth revert", reverts.New(reverts.NotAuthorized, ""), http.StatusForbidden},
		{"resource revert", reverts.New(reverts.PoolFull, ""), http.StatusUnprocessableEntity},
		{"state revert", reverts.New(reverts.AlreadyJoined, ""), http.StatusConflict},
		{"missing revert", errors.WithMessage(reverts.New(reverts.PoolNotFound, "pool 1"), "join"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(tt.err).Code)
		})
	}
}

func TestRevertBody(t *testing.T) {
	rec := serve(reverts.Newf(reverts.PoolFull, "pool %d", 3))

	var body RevertError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, reverts.PoolFull, body.Code)
	assert.Equal(t, "resource", body.Category)
	assert.Equal(t, "PoolFull: pool 3", body.Message)
}

func TestParse(t *testing.T) {
	id, err := ParsePoolID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = ParsePoolID("-1")
	assert.Equal(t, http.StatusBadRequest, serve(err).Code)

	_, err = ParseAddress("0x12", "wallet")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "wallet"))

	var v struct{ A int }
	assert.Error(t, ParseJSON(strings.NewReader(`{"A":1,"B":2}`), &v))
	assert.NoError(t, ParseJSON(strings.NewReader(`{"A":1}`), &v))
}
