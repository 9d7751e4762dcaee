// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/stakepact/pact/api/utils"
	"github.com/stakepact/pact/co"
	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/metrics"
	"github.com/stakepact/pact/mirror"
	"github.com/stakepact/pact/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

var metricActiveWebsocket = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})

const (
	listenerBuffer = 64
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 7 / 10
)

// Source is the receipt feed of the runtime.
type Source interface {
	SubscribeReceipts(ch chan *runtime.Receipt) event.Subscription
}

type Subscriptions struct {
	upgrader  *websocket.Upgrader
	mu        sync.RWMutex
	listeners map[chan *runtime.Receipt]struct{}
	done      chan struct{}
	closeOnce sync.Once
	goes      co.Goes
}

// New starts dispatching receipts of src to websocket listeners. Close stops it.
func New(src Source, allowedOrigins []string) *Subscriptions {
	s := &Subscriptions{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		listeners: make(map[chan *runtime.Receipt]struct{}),
		done:      make(chan struct{}),
	}
	ch := make(chan *runtime.Receipt, listenerBuffer)
	sub := src.SubscribeReceipts(ch)
	s.goes.Go(func() {
		defer sub.Unsubscribe()
		s.dispatchLoop(sub, ch)
	})
	return s
}

func (s *Subscriptions) subscribe(ch chan *runtime.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners[ch] = struct{}{}
}

func (s *Subscriptions) unsubscribe(ch chan *runtime.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.listeners, ch)
}

func (s *Subscriptions) dispatchLoop(sub event.Subscription, ch <-chan *runtime.Receipt) {
	for {
		select {
		case r := <-ch:
			s.mu.RLock()
			for lsn := range s.listeners {
				select {
				case lsn <- r:
				default: // a lagging client misses receipts rather than stalling the runtime
				}
			}
			s.mu.RUnlock()
		case err := <-sub.Err():
			if err != nil {
				logger.Warn("receipt subscription closed", "err", err)
			}
			return
		case <-s.done:
			return
		}
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	var pool *uint64
	if v := req.URL.Query().Get("pool"); v != "" {
		id, err := utils.ParsePoolID(v)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "pool"))
		}
		pool = &id
	}

	// listen before upgrading, so a client sees every receipt committed after its handshake
	ch := make(chan *runtime.Receipt, listenerBuffer)
	s.subscribe(ch)
	defer s.unsubscribe(ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	labels := map[string]string{"subject": "events"}
	metricActiveWebsocket().AddWithLabel(1, labels)
	defer metricActiveWebsocket().AddWithLabel(-1, labels)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
				time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case r := <-ch:
			for _, ev := range mirror.FromReceipt(r) {
				if pool != nil && ev.PoolID != *pool {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					logger.Debug("websocket write failed", "err", err)
					return nil
				}
			}
		}
	}
}

// Close stops dispatching and asks every open websocket to go away.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.goes.Wait()
	})
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
