package workers

import (
	"agent-lab/contract"
	"agent-lab/domain/event"
	"context"
	"fmt"
	"log/slog"
)

// Ensure *PoolUnitWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*PoolUnitWorker)(nil)

// PoolUnitWorker is one of NUMBER_OF_WORKERS goroutines draining inbound
// chat and instant messages. A panicking message only loses itself.
type PoolUnitWorker struct {
	name    string
	inbound chan event.Event
	handler contract.EventSink
	log     *slog.Logger
}

func NewPoolUnitWorker(index int, inbound chan event.Event, handler contract.EventSink, log *slog.Logger) *PoolUnitWorker {
	name := fmt.Sprintf("pool_unit_%d", index)
	return &PoolUnitWorker{
		name:    name,
		inbound: inbound,
		handler: handler,
		log:     log.With("worker", name),
	}
}

func (w *PoolUnitWorker) Name() string { return w.name }

func (w *PoolUnitWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case evt, ok := <-w.inbound:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, evt)
		}
	}
}

func (w *PoolUnitWorker) handle(ctx context.Context, evt event.Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Inbound message handler panicked", "type", evt.Type, "panic", r)
		}
	}()
	if err := w.handler.Consume(ctx, evt); err != nil {
		w.log.Debug("Inbound message not handled", "type", evt.Type, "error", err)
	}
}
