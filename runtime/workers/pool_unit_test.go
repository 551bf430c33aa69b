package workers

import (
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPoolUnitWorker_SurvivesHandlerPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	handler := mocks.NewMockEventSink(ctrl)
	inbound := make(chan event.Event, 2)
	done := make(chan struct{})

	// Given the first message makes the handler panic
	gomock.InOrder(
		handler.EXPECT().Consume(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e event.Event) error { panic("bad message") }),
		handler.EXPECT().Consume(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e event.Event) error {
				close(done)
				return nil
			}),
	)

	worker := NewPoolUnitWorker(0, inbound, handler, slog.Default())
	req.Equal("pool_unit_0", worker.Name())
	inbound <- event.New(event.ChatType, event.Chat{Message: "one"})
	inbound <- event.New(event.ChatType, event.Chat{Message: "two"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// Then the following message is still handled
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Second message was not handled")
	}
}

func TestPoolUnitWorker_StopsOnClosedChannel(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	inbound := make(chan event.Event)
	close(inbound)

	worker := NewPoolUnitWorker(1, inbound, mocks.NewMockEventSink(ctrl), slog.Default())

	req.NoError(worker.Run(context.Background()))
}

func TestChannelCapacityWorker_Measure(t *testing.T) {
	req := require.New(t)
	ch := make(chan int, 3)
	ch <- 1

	length, capacity, ok := measure(ch)
	req.True(ok)
	req.Equal(1, length)
	req.Equal(3, capacity)

	pipeline := NewDeliveryWorker("callback", slog.Default(), nil, 2, 0, time.Second)
	pipeline.Enqueue(domain.QueueItem{URL: "http://a"})
	length, capacity, ok = measure(pipeline)
	req.True(ok)
	req.Equal(1, length)
	req.Equal(2, capacity)

	_, _, ok = measure("not a channel")
	req.False(ok)

	// Report never blocks on any of them
	NewChannelCapacityWorker(slog.Default(), []NamedChannel{
		{Name: "inbound", Channel: ch},
		{Name: "callback", Channel: pipeline},
		{Name: "bogus", Channel: 42},
	}, time.Second).Report()
}
