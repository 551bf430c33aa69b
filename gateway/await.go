// Package gateway adapts the push-model World Gateway to the request/reply
// calls the agent needs, and provides an in-memory gateway for local runs.
package gateway

import (
	"agent-lab/contract"
	"agent-lab/domain/event"
	"agent-lab/errors"
	"context"
	"time"
)

// Await bridges one World Gateway request to its asynchronous reply.
//
// The subscription is installed before the request is issued so a fast reply
// cannot be missed, only the first event accepted by match is kept, and the
// subscription is always removed before returning. A timeout is reported as
// errors.ErrTimeout and is never fatal.
func Await[T any](ctx context.Context, source contract.EventSource, t event.Type,
	timeout time.Duration, request func() error, match func(event.Event) (T, bool)) (T, error) {
	var zero T
	replies := make(chan T, 1)

	unsubscribe := source.Subscribe(t, func(e event.Event) {
		v, ok := match(e)
		if !ok {
			return
		}
		select {
		case replies <- v:
		default:
		}
	})
	defer unsubscribe()

	if err := request(); err != nil {
		return zero, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-replies:
		return v, nil
	case <-timer.C:
		return zero, errors.ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
