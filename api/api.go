// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakepact/pact/api/accounts"
	"github.com/stakepact/pact/api/instructions"
	"github.com/stakepact/pact/api/middleware"
	"github.com/stakepact/pact/api/node"
	"github.com/stakepact/pact/api/pools"
	"github.com/stakepact/pact/api/subscriptions"
	"github.com/stakepact/pact/health"
	"github.com/stakepact/pact/instr"
	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/metrics"
	"github.com/stakepact/pact/pact"
	"github.com/stakepact/pact/program"
	"github.com/stakepact/pact/runtime"
)

var logger = log.WithContext("pkg", "api")

// Runtime is everything the api needs from the executor.
type Runtime interface {
	Execute(ins *instr.Instruction) (*runtime.Receipt, error)
	Receipt(id pact.Bytes32) (*runtime.Receipt, error)
	View(fn func(prog *program.Program) error) error
	Now() uint64
	GenesisID() pact.Bytes32
	Config() program.Config
	SubscribeReceipts(ch chan *runtime.Receipt) event.Subscription
}

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EventsLimit          int
}

// New return api router and the closer of its websocket subscriptions.
// index may be nil when no sqlite mirror runs.
func New(rt Runtime, h *health.Health, index pools.Index, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	instructions.New(rt).
		Mount(router, "/instructions")
	accounts.New(rt).
		Mount(router, "/accounts")
	pools.New(rt, index, opts.EventsLimit).
		Mount(router, "/pools")
	node.New(rt, h).
		Mount(router, "/node")
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLogger(logger, enabled, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close
}
