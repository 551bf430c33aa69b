//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"agent-lab/domain"
	"agent-lab/domain/event"
	"context"
	"reflect"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Workers implementing Named take precedence.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	if n, ok := w.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type Named interface {
	Name() string
}

type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// Transport performs a single best-effort POST of an encoded payload.
type Transport interface {
	Post(ctx context.Context, url, payload string) error
}

// IPipeline accepts items without ever blocking the producer.
type IPipeline interface {
	Enqueue(item domain.QueueItem) bool
}

type ICredentialStore interface {
	Authenticate(group, secret string) bool
	Group(nameOrID string) (domain.Group, bool)
	HasPermission(group string, bit domain.Permission) bool
	HasNotificationGrant(group string, bit domain.Notification) bool
}

// Handler is the business logic bound to one command verb.
type Handler interface {
	Handle(ctx context.Context, cmd domain.CommandContext) (domain.Result, error)
}

// EventSource pushes World Gateway events on the gateway's own goroutines.
// The returned function removes the subscription and is safe to call twice.
type EventSource interface {
	Subscribe(t event.Type, fn func(event.Event)) (unsubscribe func())
}

// Directory requests are answered asynchronously by reply events.
type Directory interface {
	RequestAgentName(id uuid.UUID) error
	RequestAgentSearch(name string) error
	RequestGroupSearch(name string) error
}

// DirectoryGateway is what name resolution needs from the World Gateway.
type DirectoryGateway interface {
	EventSource
	Directory
}
