// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepact/pact/runtime"
	"github.com/stakepact/pact/scheduler"
)

// tickAction drives due transitions once, for deployments where an external
// cron replaces the in-process scheduler.
func tickAction(ctx *cli.Context) error {
	initLogger(ctx)

	gene := selectGenesis(ctx)
	mainDB := openMainDB(makeInstanceDir(ctx, gene))
	defer mainDB.Close()

	exec, err := runtime.New(mainDB, gene)
	if err != nil {
		return err
	}
	defer exec.Close()

	sched, err := scheduler.New(exec, scheduler.DefaultSpec, ctx.Int(tickWorkersFlag.Name))
	if err != nil {
		return err
	}
	defer sched.Stop()

	runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	result, err := sched.RunOnce(runCtx)
	if err != nil {
		return err
	}
	fmt.Printf("due %d, committed %d, busy %d, failed %d\n", result.Due, result.Committed, result.Busy, result.Failed)
	return nil
}
