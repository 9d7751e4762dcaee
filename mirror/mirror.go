// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mirror

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/stakepact/pact/co"
	"github.com/stakepact/pact/log"
	"github.com/stakepact/pact/metrics"
	"github.com/stakepact/pact/runtime"
)

var logger = log.WithContext("pkg", "mirror")

// Sink receives the events of every committed instruction.
type Sink interface {
	Name() string
	Write(ctx context.Context, events []*Event) error
}

// Source is the receipt feed of the runtime.
type Source interface {
	SubscribeReceipts(ch chan *runtime.Receipt) event.Subscription
}

// queueSize bounds the events buffered per sink. A sink further behind loses
// the overflow, which is logged and counted.
var queueSize = 1024

var metricDropped = metrics.LazyLoadCounterVec("mirror_dropped_batches_count", []string{"sink"})

// Start subscribes to src, then forwards receipts to the sinks until ctx is
// done. Every sink writes from its own bounded queue, so a slow sink neither
// delays the others nor backs up into the runtime, whose receipt feed blocks
// on full subscribers. The returned channel is closed once all goroutines exit.
func Start(ctx context.Context, src Source, sinks ...Sink) <-chan struct{} {
	ch := make(chan *runtime.Receipt, 256)
	sub := src.SubscribeReceipts(ch)

	var goes co.Goes
	queues := make([]chan []*Event, len(sinks))
	for i, sink := range sinks {
		queues[i] = make(chan []*Event, queueSize)
		goes.Go(func() { drain(ctx, sink, queues[i]) })
	}
	goes.Go(func() {
		defer sub.Unsubscribe()
		forward(ctx, sub, ch, sinks, queues)
	})
	return goes.Done()
}

// Run is the blocking form of Start.
func Run(ctx context.Context, src Source, sinks ...Sink) {
	<-Start(ctx, src, sinks...)
}

// forward moves receipts from the feed into the sink queues without ever blocking.
func forward(ctx context.Context, sub event.Subscription, ch <-chan *runtime.Receipt, sinks []Sink, queues []chan []*Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				logger.Warn("receipt subscription closed", "err", err)
			}
			return
		case r := <-ch:
			events := FromReceipt(r)
			if len(events) == 0 {
				continue
			}
			for i, q := range queues {
				select {
				case q <- events:
				default:
					metricDropped().AddWithLabel(1, map[string]string{"sink": sinks[i].Name()})
					logger.Warn("mirror lagging, events dropped", "sink", sinks[i].Name(), "instruction", r.ID, "events", len(events))
				}
			}
		}
	}
}

func drain(ctx context.Context, sink Sink, queue <-chan []*Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-queue:
			if err := sink.Write(ctx, events); err != nil {
				logger.Warn("mirror write failed", "sink", sink.Name(), "instruction", events[0].Instruction, "err", err)
			}
		}
	}
}
