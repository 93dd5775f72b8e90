// Package eventbus is an in-process, channel-backed event bus with a worker
// pool per consumer.
package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/grachmannico95/finsync/pkg/retry"
)

var ErrBusClosed = errors.New("event bus is shut down")

type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, consumer Consumer) error
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Stats() Stats
}

// Stats counts bus traffic since start.
type Stats struct {
	Published int64 `json:"published"`
	Dropped   int64 `json:"dropped"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

type eventBus struct {
	channels      map[EventType]chan Event
	consumers     map[EventType][]Consumer
	mu            sync.RWMutex
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	logger        *logger.Logger
	channelBuffer int
	maxRetries    int
	retryDelay    time.Duration
	started       bool
	closed        bool

	published atomic.Int64
	dropped   atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

type Config struct {
	ChannelBuffer int
	MaxRetries    int
	RetryDelay    time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ChannelBuffer: 1000,
		MaxRetries:    5,
		RetryDelay:    100 * time.Millisecond,
	}
}

func New(log *logger.Logger, cfg *Config) EventBus {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig().RetryDelay
	}

	return &eventBus{
		channels:      make(map[EventType]chan Event),
		consumers:     make(map[EventType][]Consumer),
		logger:        log,
		channelBuffer: cfg.ChannelBuffer,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
	}
}

func (eb *eventBus) Subscribe(eventType EventType, consumer Consumer) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return errors.New("cannot subscribe after the event bus started")
	}

	if _, exists := eb.channels[eventType]; !exists {
		eb.channels[eventType] = make(chan Event, eb.channelBuffer)
	}

	eb.consumers[eventType] = append(eb.consumers[eventType], consumer)

	return nil
}

func (eb *eventBus) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return nil
	}

	eb.ctx, eb.cancel = context.WithCancel(ctx)

	for eventType, consumers := range eb.consumers {
		ch := eb.channels[eventType]

		for _, consumer := range consumers {
			workerCount := consumer.GetWorkerCount()
			eb.logger.Info(eb.ctx, "Starting workers",
				"event_type", eventType,
				"worker_count", workerCount,
			)

			for i := 0; i < workerCount; i++ {
				eb.wg.Add(1)
				go eb.worker(eb.ctx, ch, consumer, i)
			}
		}
	}

	eb.started = true
	eb.logger.Info(eb.ctx, "Event bus started")

	return nil
}

func (eb *eventBus) worker(ctx context.Context, ch <-chan Event, consumer Consumer, workerID int) {
	defer eb.wg.Done()

	// An accepted event is finished even when shutdown starts mid-retry.
	eventCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			eb.drain(eventCtx, ch, consumer, workerID)
			return
		case event := <-ch:
			eb.processEvent(eventCtx, event, consumer, workerID)
		}
	}
}

// drain empties the queue on shutdown so accepted notifications are not lost.
func (eb *eventBus) drain(ctx context.Context, ch <-chan Event, consumer Consumer, workerID int) {
	for {
		select {
		case event := <-ch:
			eb.processEvent(ctx, event, consumer, workerID)
		default:
			return
		}
	}
}

func (eb *eventBus) processEvent(ctx context.Context, event Event, consumer Consumer, workerID int) {
	eventCtx := ctx
	if event.ID != "" {
		eventCtx = logger.WithTraceID(ctx, event.ID)
	}

	err := retry.Do(eventCtx, func() error {
		return consumer.Consume(eventCtx, event)
	},
		retry.WithMaxAttempts(eb.maxRetries),
		retry.WithBaseDelay(eb.retryDelay),
		retry.WithMaxDelay(10*eb.retryDelay),
		retry.WithRetryIf(func(err error) bool {
			return !errors.Is(err, ErrInvalidPayload)
		}),
	)

	if err != nil {
		eb.failed.Add(1)
		eb.logger.Error(eventCtx, "Failed to process event",
			"event_id", event.ID,
			"event_type", event.Type,
			"worker_id", workerID,
			"error", err,
		)
		return
	}

	eb.processed.Add(1)
	eb.logger.Debug(eventCtx, "Event processed",
		"event_id", event.ID,
		"event_type", event.Type,
		"worker_id", workerID,
	)
}

func (eb *eventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	ch, exists := eb.channels[event.Type]
	closed := eb.closed
	eb.mu.RUnlock()

	if closed {
		return ErrBusClosed
	}

	if !exists {
		eb.logger.Warn(ctx, "No channel for event type",
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return nil
	}

	// Non-blocking send
	select {
	case ch <- event:
		eb.published.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		eb.dropped.Add(1)
		eb.logger.Warn(ctx, "Event channel full, event dropped",
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return nil
	}
}

func (eb *eventBus) Stats() Stats {
	return Stats{
		Published: eb.published.Load(),
		Dropped:   eb.dropped.Load(),
		Processed: eb.processed.Load(),
		Failed:    eb.failed.Load(),
	}
}

func (eb *eventBus) Shutdown(ctx context.Context) error {
	eb.logger.Info(ctx, "Shutting down event bus")

	eb.mu.Lock()
	eb.closed = true
	if eb.cancel != nil {
		eb.cancel()
	}
	eb.mu.Unlock()

	done := make(chan struct{})
	go func() {
		eb.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		eb.logger.Info(ctx, "Event bus shutdown complete", "stats", eb.Stats())
		return nil
	case <-ctx.Done():
		eb.logger.Warn(ctx, "Event bus shutdown timeout")
		return ctx.Err()
	}
}
