// Package runtime wires one agent session: command routing, notification
// bindings and the supervised workers moving world events between them.
package runtime

import (
	"agent-lab/contract"
	"agent-lab/domain/event"
	"agent-lab/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"time"
)

// inboundTypes are handed to the pool workers as well as to the fan-out.
var inboundTypes = []event.Type{event.ChatType, event.InstantMessageType}

// notificationTypes only go through the fan-out.
var notificationTypes = []event.Type{
	event.AlertType,
	event.BalanceType,
	event.MoneyTransferType,
	event.RegionCrossedType,
	event.ScriptPermissionType,
	event.TeleportLureType,
}

type Orchestrator struct {
	mu          sync.Mutex
	log         *slog.Logger
	gateway     contract.EventSource
	supervisor  contract.ISupervisor
	numWorkers  int
	inbound     chan event.Event
	events      chan event.Event
	handler     contract.EventSink
	sinks       []contract.EventSink
	extra       []contract.Worker
	unsubscribe []func()
	sinkTimeout time.Duration
}

func NewOrchestrator(log *slog.Logger, gateway contract.EventSource, supervisor contract.ISupervisor,
	numWorkers, bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:         log,
		gateway:     gateway,
		supervisor:  supervisor,
		numWorkers:  numWorkers,
		inbound:     make(chan event.Event, bufferSize),
		events:      make(chan event.Event, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Route sets the sink the pool workers hand chat and instant messages to.
func (o *Orchestrator) Route(handler contract.EventSink) *Orchestrator {
	o.handler = handler
	return o
}

// Add registers sinks fed by the event fan-out.
func (o *Orchestrator) Add(sinks ...contract.EventSink) *Orchestrator {
	o.sinks = append(o.sinks, sinks...)
	return o
}

// AddWorkers registers long-lived workers, such as the delivery pipelines,
// to run under the same supervisor.
func (o *Orchestrator) AddWorkers(w ...contract.Worker) *Orchestrator {
	o.extra = append(o.extra, w...)
	return o
}

// Publish offers an event to the fan-out without blocking.
func (o *Orchestrator) Publish(e event.Event) bool {
	select {
	case o.events <- e:
		return true
	default:
		o.log.Warn("Event channel full, dropping event", "type", e.Type)
		return false
	}
}

func (o *Orchestrator) Channels() []workers.NamedChannel {
	return []workers.NamedChannel{
		{Name: "inbound", Channel: o.inbound},
		{Name: "events", Channel: o.events},
	}
}

// Start subscribes to the gateway, registers every worker and blocks until
// the supervisor returns.
func (o *Orchestrator) Start(ctx context.Context) error {
	poolWorkers := o.preparePoolWorkers()
	fanout := workers.NewEventFanout(o.log, o.events, o.sinkTimeout).Add(o.sinks...)

	o.mu.Lock()
	o.supervisor.Add(fanout)
	o.supervisor.Add(poolWorkers...)
	o.supervisor.Add(o.extra...)
	o.subscribe()
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "pool", len(poolWorkers), "sinks", len(o.sinks))
	o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) preparePoolWorkers() []contract.Worker {
	if o.handler == nil {
		return nil
	}
	var res []contract.Worker
	for i := 0; i < o.numWorkers; i++ {
		res = append(res, workers.NewPoolUnitWorker(i, o.inbound, o.handler, o.log))
	}
	return res
}

// subscribe never blocks the gateway's goroutines: a full channel drops.
func (o *Orchestrator) subscribe() {
	for _, t := range inboundTypes {
		o.unsubscribe = append(o.unsubscribe, o.gateway.Subscribe(t, func(e event.Event) {
			select {
			case o.inbound <- e:
			default:
				o.log.Warn("Inbound channel full, dropping message", "type", e.Type)
			}
			o.Publish(redacted(e))
		}))
	}
	for _, t := range notificationTypes {
		o.unsubscribe = append(o.unsubscribe, o.gateway.Subscribe(t, func(e event.Event) {
			o.Publish(e)
		}))
	}
}

// redacted copies chat and instant messages without their command password,
// only the router ever sees it.
func redacted(e event.Event) event.Event {
	switch p := e.Payload.(type) {
	case event.Chat:
		p.Message = Redact(p.Message)
		e.Payload = p
	case event.InstantMessage:
		p.Message = Redact(p.Message)
		e.Payload = p
	}
	return e
}

// Stop removes the gateway subscriptions then cancels the supervised context.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")

	o.mu.Lock()
	for _, unsubscribe := range o.unsubscribe {
		unsubscribe()
	}
	o.unsubscribe = nil
	o.mu.Unlock()

	o.supervisor.Stop()
}
