// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package redisstream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/pact"
)

func TestValues(t *testing.T) {
	wallet := pact.BytesToAddress([]byte("alice"))
	ev := &mirror.Event{
		Instruction: pact.BytesToBytes32([]byte("ins")),
		Index:       2,
		Kind:        "PayoutSent",
		PoolID:      42,
		Time:        1000,
		Wallet:      &wallet,
		Amount:      250,
		Status:      "success",
	}

	values, err := Values(ev)
	require.NoError(t, err)
	assert.Equal(t, "PayoutSent", values["kind"])
	assert.Equal(t, "42", values["pool"])
	assert.Equal(t, ev.Instruction.String(), values["instruction"])

	var decoded mirror.Event
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, *ev, decoded)
}

func TestArgs(t *testing.T) {
	capped := &Stream{stream: "s", maxLen: 10}
	args := capped.args(map[string]any{"k": "v"})
	assert.Equal(t, "s", args.Stream)
	assert.Equal(t, int64(10), args.MaxLen)
	assert.True(t, args.Approx)

	unlimited := &Stream{stream: "s"}
	args = unlimited.args(nil)
	assert.Zero(t, args.MaxLen)
	assert.False(t, args.Approx)
}

// captureHook records pipelined commands instead of sending them.
type captureHook struct {
	cmds []redis.Cmder
	err  error
}

func (h *captureHook) DialHook(next redis.DialHook) redis.DialHook { return next }
func (h *captureHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }
func (h *captureHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		h.cmds = append(h.cmds, cmds...)
		return h.err
	}
}

func offlineStream(t *testing.T, hook *captureHook, maxLen int64) *Stream {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(hook)
	t.Cleanup(func() { client.Close() })
	return &Stream{client: client, stream: "pact:test", maxLen: maxLen}
}

func TestWrite(t *testing.T) {
	hook := &captureHook{}
	s := offlineStream(t, hook, 100)

	require.NoError(t, s.Write(context.Background(), nil))
	assert.Empty(t, hook.cmds)

	events := []*mirror.Event{
		{Instruction: pact.BytesToBytes32([]byte("a")), Kind: "PoolCreated", PoolID: 7},
		{Instruction: pact.BytesToBytes32([]byte("a")), Index: 1, Kind: "ParticipantJoined", PoolID: 7, Amount: 10},
	}
	require.NoError(t, s.Write(context.Background(), events))
	require.Len(t, hook.cmds, 2)

	for i, cmd := range hook.cmds {
		args := cmd.Args()
		assert.Equal(t, []any{"xadd", "pact:test", "maxlen", "~", int64(100), "*"}, args[:6])

		fields := map[string]any{}
		for j := 6; j+1 < len(args); j += 2 {
			fields[args[j].(string)] = args[j+1]
		}
		want, err := Values(events[i])
		require.NoError(t, err)
		assert.Equal(t, want, fields)
	}
}

func TestWrite_PipelineError(t *testing.T) {
	hook := &captureHook{err: errors.New("connection reset")}
	s := offlineStream(t, hook, 0)

	err := s.Write(context.Background(), []*mirror.Event{{Kind: "PoolCreated", PoolID: 1}})
	assert.ErrorContains(t, err, "xadd pact:test")
	assert.ErrorContains(t, err, "connection reset")

	require.Len(t, hook.cmds, 1)
	assert.Equal(t, []any{"xadd", "pact:test", "*"}, hook.cmds[0].Args()[:3])
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, "127.0.0.1:1", "", 0)
	assert.ErrorContains(t, err, "connect redis at 127.0.0.1:1")
}
