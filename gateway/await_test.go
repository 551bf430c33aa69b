package gateway

import (
	"agent-lab/domain/event"
	"agent-lab/errors"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func nameReply(id uuid.UUID) func(event.Event) (string, bool) {
	return func(e event.Event) (string, bool) {
		reply, ok := e.Payload.(event.AgentNameReply)
		if !ok || reply.ID != id {
			return "", false
		}
		return reply.Name, true
	}
}

func TestAwait_ReturnsReplyAndUnsubscribes(t *testing.T) {
	req := require.New(t)
	world := NewLoopback("Home")
	id := uuid.New()
	world.AddAgent(id, "Ada Lovelace")

	// When the name of a known agent is requested
	name, err := Await(context.Background(), world, event.AgentNameReplyType, time.Second,
		func() error { return world.RequestAgentName(id) }, nameReply(id))

	// Then the reply is returned and the one-shot subscription is gone
	req.NoError(err)
	req.Equal("Ada Lovelace", name)
	req.Zero(world.Subscribers(event.AgentNameReplyType))
}

func TestAwait_IgnoresUnrelatedReplies(t *testing.T) {
	req := require.New(t)
	world := NewLoopback("Home")
	wanted, other := uuid.New(), uuid.New()
	world.AddAgent(wanted, "Wanted Agent")
	world.AddAgent(other, "Other Agent")

	name, err := Await(context.Background(), world, event.AgentNameReplyType, time.Second,
		func() error {
			_ = world.RequestAgentName(other)
			return world.RequestAgentName(wanted)
		}, nameReply(wanted))

	req.NoError(err)
	req.Equal("Wanted Agent", name)
}

func TestAwait_TimeoutIsRecoverable(t *testing.T) {
	req := require.New(t)
	world := NewLoopback("Home")
	world.Silence(true)

	// When the gateway never answers
	_, err := Await(context.Background(), world, event.AgentNameReplyType, 20*time.Millisecond,
		func() error { return world.RequestAgentName(uuid.New()) }, nameReply(uuid.New()))

	// Then a timeout is reported and the subscription is removed
	req.ErrorIs(err, errors.ErrTimeout)
	req.Zero(world.Subscribers(event.AgentNameReplyType))
}

func TestAwait_RequestFailureUnsubscribes(t *testing.T) {
	req := require.New(t)
	world := NewLoopback("Home")
	boom := fmt.Errorf("boom")

	_, err := Await(context.Background(), world, event.AgentNameReplyType, time.Second,
		func() error { return boom }, nameReply(uuid.New()))

	req.ErrorIs(err, boom)
	req.Zero(world.Subscribers(event.AgentNameReplyType))
}

func TestAwait_ContextCanceled(t *testing.T) {
	req := require.New(t)
	world := NewLoopback("Home")
	world.Silence(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Await(ctx, world, event.AgentNameReplyType, time.Second,
		func() error { return nil }, nameReply(uuid.New()))

	req.ErrorIs(err, context.Canceled)
}
