package workers

import (
	"agent-lab/contract"
	"agent-lab/domain/event"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout hands every world event to each registered sink.
//
// Delivery is best effort: a sink that fails, panics or exceeds its timeout
// is logged and the next sink still runs.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.Event
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events chan event.Event, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, events: events, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Name() string { return "event_fanout" }

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One sink for each event
func (w *EventFanout) Fanout(ctx context.Context, evt event.Event) {
	for _, sink := range w.sinks {
		w.consume(ctx, sink, evt)
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.Event) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Sink panicked", "type", evt.Type, "panic", r)
		}
	}()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Warn("Sink failed", "type", evt.Type, "error", err)
	}
}
