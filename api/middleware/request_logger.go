// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/stakepact/pact/log"
)

// maxLoggedBody caps the request body copied into a log record.
const maxLoggedBody = 4096

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

// RequestLogger logs every request while enabled, and otherwise only the
// requests slower than slowThreshold or, with log5xx, failing with a 5xx.
// A zero slowThreshold disables slow request logging.
func RequestLogger(logger log.Logger, enabled *atomic.Bool, slowThreshold time.Duration, log5xx bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowThreshold == 0 && !log5xx {
				next.ServeHTTP(w, r)
				return
			}
			var body []byte
			if r.Body != nil {
				var err error
				body, err = io.ReadAll(r.Body)
				if err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			slow := slowThreshold > 0 && duration > slowThreshold
			failed := log5xx && sw.status >= http.StatusInternalServerError
			if !enabled.Load() && !slow && !failed {
				return
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			logger.Info("API Request",
				"durationMs", duration.Milliseconds(),
				"uri", r.URL.String(),
				"method", r.Method,
				"status", sw.status,
				"body", string(body),
			)
		})
	}
}
