package eventbus

import (
	"context"
	"fmt"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
)

// NotificationConsumer persists notification events into the user's outbox.
// Each event is stored at most once.
type NotificationConsumer struct {
	repo        domain.NotificationRepository
	logger      *logger.Logger
	workerCount int
}

func NewNotificationConsumer(repo domain.NotificationRepository, log *logger.Logger, workerCount int) *NotificationConsumer {
	if workerCount < 1 {
		workerCount = 1
	}
	return &NotificationConsumer{
		repo:        repo,
		logger:      log,
		workerCount: workerCount,
	}
}

func (nc *NotificationConsumer) Consume(ctx context.Context, event Event) error {
	// Check idempotency
	processed, err := nc.repo.IsEventProcessed(ctx, event.ID)
	if err != nil {
		nc.logger.Error(ctx, "Failed to check event processed status",
			"event_id", event.ID,
			"error", err,
		)
		return err
	}

	if processed {
		nc.logger.Debug(ctx, "Event already processed, skipping",
			"event_id", event.ID,
		)
		return nil
	}

	payload, ok := event.Payload.(NotificationEvent)
	if !ok {
		nc.logger.Error(ctx, "Invalid payload type for notification event",
			"event_id", event.ID,
		)
		return fmt.Errorf("event %s: %w", event.ID, ErrInvalidPayload)
	}

	n := payload.Notification
	ctx = logger.WithUserID(ctx, n.UserID)

	// A cancellation supersedes whatever the user has not looked at yet.
	if n.Kind == domain.NotificationSyncCancelled {
		dismissed, err := nc.repo.DismissPending(ctx, n.UserID)
		if err != nil {
			nc.logger.Error(ctx, "Failed to dismiss pending notifications",
				"event_id", event.ID,
				"error", err,
			)
			return err
		}
		if dismissed > 0 {
			nc.logger.Debug(ctx, "Dismissed pending notifications",
				"count", dismissed,
			)
		}
	}

	if err := nc.repo.SaveNotification(ctx, n); err != nil {
		nc.logger.Error(ctx, "Failed to save notification",
			"event_id", event.ID,
			"kind", n.Kind,
			"error", err,
		)
		return err
	}

	if err := nc.repo.MarkEventProcessed(ctx, event.ID); err != nil {
		nc.logger.Error(ctx, "Failed to mark event as processed",
			"event_id", event.ID,
			"error", err,
		)
		return err
	}

	nc.logger.Debug(ctx, "Notification stored",
		"event_id", event.ID,
		"kind", n.Kind,
	)

	return nil
}

func (nc *NotificationConsumer) GetWorkerCount() int {
	return nc.workerCount
}
