package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventType EventType = "test"

func testConfig() *Config {
	return &Config{ChannelBuffer: 10, MaxRetries: 3, RetryDelay: time.Millisecond}
}

func shutdown(t *testing.T, bus EventBus) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Shutdown(ctx))
}

func TestEventBus_DeliversToConsumer(t *testing.T) {
	// Setup
	bus := New(logger.NewNop(), testConfig())
	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(testEventType, ConsumerFunc(func(ctx context.Context, event Event) error {
		received <- event
		return nil
	})))
	require.NoError(t, bus.Start(context.Background()))
	defer shutdown(t, bus)

	// Execute
	require.NoError(t, bus.Publish(context.Background(), Event{ID: "evt-1", Type: testEventType}))

	// Assert
	select {
	case event := <-received:
		assert.Equal(t, "evt-1", event.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	assert.Eventually(t, func() bool { return bus.Stats().Processed == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int64(1), bus.Stats().Published)
}

func TestEventBus_RetriesFailedEvents(t *testing.T) {
	bus := New(logger.NewNop(), testConfig())
	var attempts atomic.Int32
	require.NoError(t, bus.Subscribe(testEventType, ConsumerFunc(func(ctx context.Context, event Event) error {
		if attempts.Add(1) < 3 {
			return errors.New("store busy")
		}
		return nil
	})))
	require.NoError(t, bus.Start(context.Background()))
	defer shutdown(t, bus)

	require.NoError(t, bus.Publish(context.Background(), Event{ID: "evt-1", Type: testEventType}))

	assert.Eventually(t, func() bool { return bus.Stats().Processed == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Zero(t, bus.Stats().Failed)
}

func TestEventBus_InvalidPayloadIsNotRetried(t *testing.T) {
	bus := New(logger.NewNop(), testConfig())
	var attempts atomic.Int32
	require.NoError(t, bus.Subscribe(testEventType, ConsumerFunc(func(ctx context.Context, event Event) error {
		attempts.Add(1)
		return ErrInvalidPayload
	})))
	require.NoError(t, bus.Start(context.Background()))
	defer shutdown(t, bus)

	require.NoError(t, bus.Publish(context.Background(), Event{ID: "evt-1", Type: testEventType}))

	assert.Eventually(t, func() bool { return bus.Stats().Failed == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestEventBus_PublishWithoutSubscriber(t *testing.T) {
	bus := New(logger.NewNop(), testConfig())

	err := bus.Publish(context.Background(), Event{ID: "evt-1", Type: testEventType})

	assert.NoError(t, err)
	assert.Zero(t, bus.Stats().Published)
}

func TestEventBus_DropsWhenChannelFull(t *testing.T) {
	bus := New(logger.NewNop(), &Config{ChannelBuffer: 1, MaxRetries: 1})
	require.NoError(t, bus.Subscribe(testEventType, ConsumerFunc(func(ctx context.Context, event Event) error {
		return nil
	})))

	// Not started, so nothing drains the channel.
	require.NoError(t, bus.Publish(context.Background(), Event{ID: "evt-1", Type: testEventType}))
	require.NoError(t, bus.Publish(context.Background(), Event{ID: "evt-2", Type: testEventType}))

	stats := bus.Stats()
	assert.Equal(t, int64(1), stats.Published)
	assert.Equal(t, int64(1), stats.Dropped)
}

func TestEventBus_SubscribeAfterStart(t *testing.T) {
	bus := New(logger.NewNop(), testConfig())
	require.NoError(t, bus.Start(context.Background()))
	defer shutdown(t, bus)

	err := bus.Subscribe(testEventType, ConsumerFunc(func(ctx context.Context, event Event) error { return nil }))

	assert.Error(t, err)
}

func TestEventBus_ShutdownDrainsQueue(t *testing.T) {
	bus := New(logger.NewNop(), testConfig())
	var handled atomic.Int32
	release := make(chan struct{})
	require.NoError(t, bus.Subscribe(testEventType, ConsumerFunc(func(ctx context.Context, event Event) error {
		<-release
		handled.Add(1)
		return nil
	})))
	require.NoError(t, bus.Start(context.Background()))

	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		require.NoError(t, bus.Publish(context.Background(), Event{ID: id, Type: testEventType}))
	}
	close(release)
	shutdown(t, bus)

	assert.Equal(t, int32(3), handled.Load())
	assert.ErrorIs(t, bus.Publish(context.Background(), Event{ID: "evt-4", Type: testEventType}), ErrBusClosed)
}
