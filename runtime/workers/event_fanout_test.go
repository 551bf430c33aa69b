package workers

import (
	"agent-lab/domain/event"
	"agent-lab/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_EverySinkReceivesTheEvent(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	first := mocks.NewMockEventSink(ctrl)
	second := mocks.NewMockEventSink(ctrl)
	evt := event.New(event.AlertType, event.Alert{Message: "restart in 5 minutes"})

	// Given the first sink fails
	first.EXPECT().Consume(gomock.Any(), evt).Return(fmt.Errorf("boom")).Times(1)
	// Then the second one is still called
	second.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	fanout := NewEventFanout(log, nil, time.Second).Add(first, second)
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_SinkPanicIsContained(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	first := mocks.NewMockEventSink(ctrl)
	second := mocks.NewMockEventSink(ctrl)

	first.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.Event) error { panic("sink bug") }).Times(1)
	second.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	fanout := NewEventFanout(slog.Default(), nil, time.Second).Add(first, second)
	fanout.Fanout(context.Background(), event.New(event.BalanceType, event.Balance{Balance: 10}))
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sink := mocks.NewMockEventSink(ctrl)

	// Given a sink that waits for its context
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.Event) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)

	fanout := NewEventFanout(slog.Default(), nil, 20*time.Millisecond).Add(sink)

	// When the event is fanned out
	start := time.Now()
	fanout.Fanout(context.Background(), event.New(event.AlertType, event.Alert{}))

	// Then the sink is cut off by the timeout
	req.Less(time.Since(start), time.Second)
}

func TestEventFanout_Run(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	sink := mocks.NewMockEventSink(ctrl)
	events := make(chan event.Event, 1)
	received := make(chan event.Event, 1)

	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e event.Event) error {
			received <- e
			return nil
		}).Times(1)

	fanout := NewEventFanout(slog.Default(), events, time.Second).Add(sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()

	events <- event.New(event.RegionCrossedType, event.RegionCrossed{Old: "A", New: "B"})

	select {
	case e := <-received:
		req.Equal(event.RegionCrossedType, e.Type)
	case <-time.After(time.Second):
		req.Fail("Event was not fanned out")
	}
}
