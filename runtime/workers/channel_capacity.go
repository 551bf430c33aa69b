package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

// Queue is anything that reports its own depth, such as a DeliveryWorker.
type Queue interface {
	Len() int
	Cap() int
}

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically logs the depth of the session's buffers.
// Reading len and cap is non-blocking so sampling never interferes with producers.
// A saturated buffer is reported as a warning since new items are being dropped.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{log: log, channels: channels, metricInterval: metricInterval}
}

func (w *ChannelCapacityWorker) Name() string { return "channel_capacity" }

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity report")
			return nil
		case <-ticker.C:
			w.Report()
		}
	}
}

func (w *ChannelCapacityWorker) Report() {
	for _, nc := range w.channels {
		length, capacity, ok := measure(nc.Channel)
		if !ok {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		if capacity > 0 && length >= capacity {
			w.log.Warn("Buffer saturated", "name", nc.Name, "length", length, "capacity", capacity)
			continue
		}
		w.log.Debug("Buffer depth", "name", nc.Name, "length", length, "capacity", capacity)
	}
}

func measure(c any) (int, int, bool) {
	if q, ok := c.(Queue); ok {
		return q.Len(), q.Cap(), true
	}
	v := reflect.ValueOf(c)
	if v.Kind() != reflect.Chan {
		return 0, 0, false
	}
	return v.Len(), v.Cap(), true
}
