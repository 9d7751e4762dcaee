// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakepact/pact/co"
	"github.com/stakepact/pact/genesis"
	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/lvldb"
	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/mirror/redisstream"
	"github.com/stakepact/pact/mirror/sqlitedb"
)

var logger = log.WithContext("pkg", "main")

func fatal(args ...any) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name), color && !ctx.Bool(jsonLogsFlag.Name))
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet()
	}
	custom, err := genesis.LoadCustom(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis [%v]: %v", path, err))
	}
	gene, err := genesis.NewCustom(custom)
	if err != nil {
		fatal(fmt.Sprintf("build genesis [%v]: %v", path, err))
	}
	return gene
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".pact")
	}
	return ".pact"
}

// makeInstanceDir keeps the databases of different genesis apart.
func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	id := gene.ID()
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(instanceDir string) *lvldb.LevelDB {
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.Open(dir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", dir, err))
	}
	return db
}

// openMirrors builds the configured sinks. The returned index is nil when no
// sqlite mirror is configured.
func openMirrors(ctx *cli.Context, instanceDir string) (sinks []mirror.Sink, index *sqlitedb.SQLiteDB, closeAll func()) {
	var closers []func() error
	if path := ctx.String(mirrorSQLiteFlag.Name); path != "" {
		var err error
		if path == "memory" {
			index, err = sqlitedb.NewMem()
		} else {
			if !filepath.IsAbs(path) {
				path = filepath.Join(instanceDir, path)
			}
			index, err = sqlitedb.New(path)
		}
		if err != nil {
			fatal(fmt.Sprintf("open sqlite mirror [%v]: %v", path, err))
		}
		sinks = append(sinks, index)
		closers = append(closers, index.Close)
		logger.Info("sqlite mirror enabled", "path", index.Path())
	}
	if addr := ctx.String(mirrorRedisFlag.Name); addr != "" {
		stream, err := redisstream.New(context.Background(), addr, ctx.String(mirrorRedisStreamFlag.Name), ctx.Int64(mirrorRedisMaxLenFlag.Name))
		if err != nil {
			fatal(err)
		}
		sinks = append(sinks, stream)
		closers = append(closers, stream.Close)
	}
	return sinks, index, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("close mirror", "err", err)
			}
		}
	}
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestBodyLimit caps request bodies, instructions are small.
func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
		h.ServeHTTP(w, r)
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		goes.Wait()
	}
}

// handleExitSignal returns a context cancelled on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func loadKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(string(data)), "0x"))
	if err != nil {
		return nil, errors.WithMessage(err, "invalid private key")
	}
	return key, nil
}

func printStartupMessage(gene *genesis.Genesis, instanceDir, apiURL string, sinks []mirror.Sink) {
	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	mirrors := strings.Join(names, ",")
	if mirrors == "" {
		mirrors = "none"
	}
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Namespace    [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Mirrors      [ %v ]
`,
		fullVersion(),
		gene.Name(), gene.ID(),
		gene.Config().Namespace,
		instanceDir,
		apiURL,
		mirrors)
}
