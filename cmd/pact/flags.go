// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepact/pact/mirror/redisstream"
	"github.com/stakepact/pact/scheduler"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a custom genesis YAML file, devnet when empty",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the program database",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiEventsLimitFlag = cli.IntFlag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /pools/{id}/events",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with duration (in milliseconds) greater than this value will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log every request answered with a 5xx status",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served on /metrics",
	}
	tickCronFlag = cli.StringFlag{
		Name:  "tick-cron",
		Value: scheduler.DefaultSpec,
		Usage: "cron spec, with seconds, of the lifecycle scheduler",
	}
	tickWorkersFlag = cli.IntFlag{
		Name:  "tick-workers",
		Value: 8,
		Usage: "maximum concurrent tick instructions per scheduler run",
	}
	healthMaxGapFlag = cli.DurationFlag{
		Name:  "health-max-gap",
		Value: 0,
		Usage: "report unhealthy when the scheduler has not run for this long, 0 disables the check",
	}
	mirrorSQLiteFlag = cli.StringFlag{
		Name:  "mirror-sqlite",
		Usage: "index committed events into this sqlite file, 'memory' for an in-memory index",
	}
	mirrorRedisFlag = cli.StringFlag{
		Name:  "mirror-redis",
		Usage: "append committed events to a redis stream at this address",
	}
	mirrorRedisStreamFlag = cli.StringFlag{
		Name:  "mirror-redis-stream",
		Value: redisstream.DefaultStream,
		Usage: "name of the redis stream",
	}
	mirrorRedisMaxLenFlag = cli.Int64Flag{
		Name:  "mirror-redis-maxlen",
		Value: redisstream.DefaultStreamMaxLen,
		Usage: "approximate cap of the redis stream length, 0 for unlimited",
	}

	// keys and addresses
	keyFileFlag = cli.StringFlag{
		Name:  "key-file",
		Usage: "path of the hex encoded private key file",
	}
	poolFlag = cli.Uint64Flag{
		Name:  "pool",
		Usage: "pool id",
	}
	walletFlag = cli.StringFlag{
		Name:  "wallet",
		Usage: "wallet address",
	}
)
