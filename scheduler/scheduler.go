// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package scheduler drives the lifecycle tick of every pool from a cron job.
// It holds no state of its own: each run re-reads the pools, evaluates the
// transition function and submits a tick instruction for every pool with a
// transition due.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/stakepact/pact/instr"
	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/program"
	"github.com/stakepact/pact/program/pool"
	"github.com/stakepact/pact/program/reverts"
	"github.com/stakepact/pact/runtime"
)

var logger = log.WithContext("pkg", "scheduler")

// DefaultSpec runs every minute, at second 0.
const DefaultSpec = "0 * * * * *"

const runTimeout = 50 * time.Second

// Executor is the part of the runtime the scheduler needs.
type Executor interface {
	Execute(ins *instr.Instruction) (*runtime.Receipt, error)
	View(fn func(prog *program.Program) error) error
	Now() uint64
}

// Result summarizes one run.
type Result struct {
	Due       int
	Committed int
	Busy      int
	Failed    int
}

type Scheduler struct {
	exec    Executor
	workers pond.Pool
	cron    *cron.Cron
	nonce   atomic.Uint64
	onRun   func(*Result)
}

// New creates a scheduler running spec with at most workers concurrent ticks.
func New(exec Executor, spec string, workers int) (*Scheduler, error) {
	s := &Scheduler{
		exec:    exec,
		workers: pond.NewPool(workers, pond.WithQueueSize(1024)),
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger{}))),
	}
	s.nonce.Store(uint64(time.Now().UnixNano()))

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		result, err := s.RunOnce(ctx)
		if err != nil {
			logger.Warn("tick run failed", "err", err)
			return
		}
		if s.onRun != nil {
			s.onRun(result)
		}
	})
	if err != nil {
		s.workers.StopAndWait()
		return nil, errors.Wrapf(err, "invalid cron spec %q", spec)
	}
	return s, nil
}

// OnRun registers fn to be called after every successful cron run.
// It must be called before Start.
func (s *Scheduler) OnRun(fn func(*Result)) {
	s.onRun = fn
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started")
}

// Stop waits for a running job, then stops the workers.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.workers.StopAndWait()
	logger.Info("scheduler stopped")
}

// Due lists the pools with a transition due at now, in creation order.
func Due(exec Executor, now uint64) ([]uint64, error) {
	var due []uint64
	err := exec.View(func(prog *program.Program) error {
		return prog.IteratePools(func(p *pool.Pool) error {
			if pool.Next(p, now) != pool.TransitionNone {
				due = append(due, p.ID)
			}
			return nil
		})
	})
	return due, err
}

// RunOnce submits a tick for every pool with a transition due.
// Rejections are logged and retried on the next run.
func (s *Scheduler) RunOnce(ctx context.Context) (*Result, error) {
	due, err := Due(s.exec, s.exec.Now())
	if err != nil {
		return nil, errors.Wrap(err, "list due pools")
	}
	result := &Result{Due: len(due)}
	if len(due) == 0 {
		return result, nil
	}

	var committed, busy, failed atomic.Int64
	group := s.workers.NewGroupContext(ctx)
	for _, id := range due {
		group.Submit(func() {
			_, err := s.exec.Execute(instr.Tick(id, s.nonce.Add(1)))
			switch {
			case err == nil:
				committed.Add(1)
			case errors.Is(err, runtime.ErrAccountBusy):
				busy.Add(1)
				logger.Debug("pool busy, retry next run", "pool", id)
			case reverts.Is(err, reverts.TransitionNotReady):
				// another caller ticked first
			default:
				failed.Add(1)
				logger.Warn("tick failed", "pool", id, "err", err)
			}
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return nil, err
	}

	result.Committed = int(committed.Load())
	result.Busy = int(busy.Load())
	result.Failed = int(failed.Load())
	metricTickCount().AddWithLabel(int64(result.Committed), map[string]string{"outcome": "committed"})
	metricTickCount().AddWithLabel(int64(result.Busy), map[string]string{"outcome": "busy"})
	metricTickCount().AddWithLabel(int64(result.Failed), map[string]string{"outcome": "failed"})
	logger.Debug("tick run", "due", result.Due, "committed", result.Committed, "busy", result.Busy, "failed", result.Failed)
	return result, nil
}

// cronLogger adapts the package logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.Error(msg, append(keysAndValues, "err", err)...)
}
