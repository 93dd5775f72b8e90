package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/internal/storage"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification(id string, kind domain.NotificationKind, at time.Time) domain.Notification {
	return domain.Notification{
		ID:        id,
		UserID:    "user-1",
		Kind:      kind,
		Title:     string(kind),
		State:     domain.NotificationStatePending,
		CreatedAt: at,
	}
}

func TestNotificationConsumer_StoresNotification(t *testing.T) {
	// Setup
	ctx := context.Background()
	store := storage.NewMemoryStore()
	consumer := NewNotificationConsumer(store, logger.NewNop(), 2)
	n := notification("n-1", domain.NotificationSyncSuccess, time.Now())

	// Execute
	err := consumer.Consume(ctx, NewNotificationEvent(n))

	// Assert
	require.NoError(t, err)
	stored, err := store.ListNotifications(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.NotificationSyncSuccess, stored[0].Kind)

	processed, err := store.IsEventProcessed(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, 2, consumer.GetWorkerCount())
}

func TestNotificationConsumer_SkipsProcessedEvents(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	consumer := NewNotificationConsumer(store, logger.NewNop(), 1)
	event := NewNotificationEvent(notification("n-1", domain.NotificationSyncSuccess, time.Now()))

	require.NoError(t, consumer.Consume(ctx, event))
	_, err := store.DismissPending(ctx, "user-1")
	require.NoError(t, err)

	// Redelivery must not resurrect the dismissed notification.
	require.NoError(t, consumer.Consume(ctx, event))

	stored, err := store.ListNotifications(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.NotificationStateDismissed, stored[0].State)
}

func TestNotificationConsumer_CancellationDismissesPending(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	consumer := NewNotificationConsumer(store, logger.NewNop(), 1)
	base := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, consumer.Consume(ctx, NewNotificationEvent(notification("n-1", domain.NotificationSyncFailure, base))))
	require.NoError(t, consumer.Consume(ctx, NewNotificationEvent(notification("n-2", domain.NotificationSyncCancelled, base.Add(time.Second)))))

	stored, err := store.ListNotifications(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "n-2", stored[0].ID)
	assert.Equal(t, domain.NotificationStatePending, stored[0].State)
	assert.Equal(t, domain.NotificationStateDismissed, stored[1].State)
}

func TestNotificationConsumer_InvalidPayload(t *testing.T) {
	consumer := NewNotificationConsumer(storage.NewMemoryStore(), logger.NewNop(), 0)

	err := consumer.Consume(context.Background(), Event{ID: "evt-1", Type: EventTypeNotification, Payload: "oops"})

	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, 1, consumer.GetWorkerCount())
}
