package workers

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"context"
	"log/slog"
	"time"
)

var (
	_ contract.Worker    = (*DeliveryWorker)(nil)
	_ contract.IPipeline = (*DeliveryWorker)(nil)
)

// DeliveryWorker is a bounded FIFO of outgoing webhook posts drained by a
// single goroutine. Items are attempted once, failures are only logged.
type DeliveryWorker struct {
	name      string
	log       *slog.Logger
	transport contract.Transport
	queue     chan domain.QueueItem
	throttle  time.Duration
	timeout   time.Duration
}

func NewDeliveryWorker(name string, log *slog.Logger, transport contract.Transport,
	capacity int, throttle, timeout time.Duration) *DeliveryWorker {
	return &DeliveryWorker{
		name:      name,
		log:       log.With("pipeline", name),
		transport: transport,
		queue:     make(chan domain.QueueItem, capacity),
		throttle:  throttle,
		timeout:   timeout,
	}
}

func (w *DeliveryWorker) Name() string { return w.name }

// Enqueue never blocks: once the queue holds capacity items the new one is dropped.
func (w *DeliveryWorker) Enqueue(item domain.QueueItem) bool {
	select {
	case w.queue <- item:
		return true
	default:
		w.log.Warn("Delivery queue full, dropping item", "url", item.URL)
		return false
	}
}

func (w *DeliveryWorker) Len() int { return len(w.queue) }
func (w *DeliveryWorker) Cap() int { return cap(w.queue) }

func (w *DeliveryWorker) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			w.log.Debug("Context done, stopping delivery")
			return nil
		}
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping delivery")
			return nil
		case item := <-w.queue:
			w.send(ctx, item)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.throttle):
			}
		}
	}
}

// send outlives the session context so a post started before shutdown still
// completes, bounded by the delivery timeout.
func (w *DeliveryWorker) send(ctx context.Context, item domain.QueueItem) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
	defer cancel()
	if err := w.transport.Post(sendCtx, item.URL, item.Payload); err != nil {
		w.log.Warn("Delivery failed", "url", item.URL, "error", err)
		return
	}
	w.log.Debug("Delivered", "url", item.URL)
}
