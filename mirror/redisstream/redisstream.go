// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package redisstream appends program events to a redis stream.
package redisstream

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/mirror"
)

const (
	DefaultStream       = "pact:events"
	DefaultStreamMaxLen = 10000 // 0 means unlimited
)

var logger = log.WithContext("pkg", "redisstream")

// Stream is a mirror sink backed by XADD.
type Stream struct {
	client *redis.Client
	stream string
	maxLen int64
}

var _ mirror.Sink = (*Stream)(nil)

// New connects to the redis server at addr.
func New(ctx context.Context, addr, stream string, maxLen int64) (*Stream, error) {
	if stream == "" {
		stream = DefaultStream
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect redis at %s", addr)
	}
	logger.Info("connected to redis", "addr", addr, "stream", stream, "maxLen", maxLen)

	return &Stream{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}, nil
}

func (s *Stream) Name() string {
	return "redis"
}

// Write appends one stream entry per event in a single pipeline.
func (s *Stream) Write(ctx context.Context, events []*mirror.Event) error {
	if len(events) == 0 {
		return nil
	}
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, ev := range events {
			values, err := Values(ev)
			if err != nil {
				return err
			}
			pipe.XAdd(ctx, s.args(values))
		}
		return nil
	})
	return errors.Wrapf(err, "xadd %s", s.stream)
}

func (s *Stream) args(values map[string]any) *redis.XAddArgs {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	return args
}

// Close closes the redis connection.
func (s *Stream) Close() error {
	return s.client.Close()
}

// Values renders an event as stream entry fields. The kind and pool are
// duplicated outside the payload so consumers can filter without decoding.
func Values(ev *mirror.Event) (map[string]any, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"instruction": ev.Instruction.String(),
		"kind":        ev.Kind,
		"pool":        strconv.FormatUint(ev.PoolID, 10),
		"data":        string(data),
	}, nil
}
