// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	defer Discard()

	// declared before Init, like package level loggers
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	Init(&buf, 3, true, false)

	logger.With("pool", 7).Info("pool created", "stake", 10)
	logger.Debug("hidden at info level")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "pool created", record["msg"])
	assert.Equal(t, "test", record["pkg"])
	assert.Equal(t, float64(7), record["pool"])
	assert.Equal(t, float64(10), record["stake"])
}

func TestTerminal(t *testing.T) {
	defer Discard()

	var buf bytes.Buffer
	Init(&buf, 5, false, false)
	Root().Trace("tick", "pools", 3)
	assert.Contains(t, buf.String(), "tick")
	assert.Contains(t, buf.String(), "pools=3")
}
