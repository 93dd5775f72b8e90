package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/grachmannico95/finsync/pkg/retry"
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// RetryManager runs remote operations with bounded backoff. Only transient
// remote failures are retried; everything else surfaces on the first attempt.
type RetryManager interface {
	Execute(ctx context.Context, operation string, fn func(ctx context.Context) error) error
}

type retryManager struct {
	cfg    RetryConfig
	logger *logger.Logger
}

func NewRetryManager(cfg RetryConfig, log *logger.Logger) RetryManager {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryManager{
		cfg:    cfg,
		logger: log,
	}
}

func (rm *retryManager) Execute(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	err := retry.Do(ctx, func() error {
		return fn(ctx)
	},
		retry.WithMaxAttempts(rm.cfg.MaxAttempts),
		retry.WithBaseDelay(rm.cfg.BaseDelay),
		retry.WithMaxDelay(rm.cfg.MaxDelay),
		retry.WithRetryIf(domain.IsRetryable),
		retry.WithOnRetry(func(attempt int, delay time.Duration, err error) {
			rm.logger.Warn(ctx, "Remote call failed, retrying",
				"operation", operation,
				"attempt", attempt,
				"max_attempts", rm.cfg.MaxAttempts,
				"delay", delay,
				"error", err,
			)
		}),
	)
	if err == nil {
		return nil
	}

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		rm.logger.Error(ctx, "Remote call exhausted retries",
			"operation", operation,
			"attempts", exhausted.Attempts,
			"error", exhausted.Err,
		)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
