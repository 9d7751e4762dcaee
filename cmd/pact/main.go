// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepact/pact/api"
	"github.com/stakepact/pact/api/pools"
	"github.com/stakepact/pact/health"
	"github.com/stakepact/pact/metrics"
	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/runtime"
	"github.com/stakepact/pact/scheduler"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Pact",
		Usage:     "Commitment pool escrow node",
		Copyright: "2025 The Pact developers",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			tickCronFlag,
			tickWorkersFlag,
			healthMaxGapFlag,
			mirrorSQLiteFlag,
			mirrorRedisFlag,
			mirrorRedisStreamFlag,
			mirrorRedisMaxLenFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "tick",
				Usage: "run one scheduler pass against the database and exit",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					verbosityFlag,
					jsonLogsFlag,
					tickWorkersFlag,
				},
				Action: tickAction,
			},
			{
				Name:  "keygen",
				Usage: "generate a private key and print its address",
				Flags: []cli.Flag{
					keyFileFlag,
				},
				Action: keygenAction,
			},
			{
				Name:  "derive",
				Usage: "print the program addresses of a pool",
				Flags: []cli.Flag{
					genesisFlag,
					poolFlag,
					walletFlag,
				},
				Action: deriveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene := selectGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)

	mainDB := openMainDB(instanceDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	exec, err := runtime.New(mainDB, gene)
	if err != nil {
		return err
	}
	defer exec.Close()

	h := health.New(ctx.Duration(healthMaxGapFlag.Name))
	sinks, sqliteIndex, closeMirrors := openMirrors(ctx, instanceDir)
	defer closeMirrors()

	mirrorCtx, stopMirrors := context.WithCancel(context.Background())
	mirrorsDone := mirror.Start(mirrorCtx, exec, append(sinks, h)...)
	defer func() { stopMirrors(); <-mirrorsDone }()

	sched, err := scheduler.New(exec, ctx.String(tickCronFlag.Name), ctx.Int(tickWorkersFlag.Name))
	if err != nil {
		return err
	}
	sched.OnRun(func(*scheduler.Result) { h.SchedulerRan() })
	sched.Start()
	defer sched.Stop()

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	opts := api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EventsLimit:          ctx.Int(apiEventsLimitFlag.Name),
	}
	var index pools.Index
	if sqliteIndex != nil {
		index = sqliteIndex
	}
	apiHandler, apiCloser := api.New(exec, h, index, opts)
	defer func() { logger.Info("closing API..."); apiCloser() }()
	apiURL, stopAPI := startAPIServer(ctx, apiHandler)
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(gene, instanceDir, apiURL, sinks)

	<-exitSignal.Done()
	return nil
}
