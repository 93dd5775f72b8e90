// Package notification renders sync outcomes into user notifications and
// hands them to the event bus for delivery.
package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/internal/eventbus"
	"github.com/grachmannico95/finsync/pkg/logger"
)

// Publisher is the part of the event bus the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

type Dispatcher struct {
	publisher Publisher
	logger    *logger.Logger
	now       func() time.Time
	newID     func() string
}

var _ domain.Notifier = (*Dispatcher)(nil)

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func NewDispatcher(publisher Publisher, log *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		logger:    log,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) NotifySyncSuccess(ctx context.Context, userID string, counts domain.SyncCounts) error {
	body := "Everything is up to date."
	if !counts.IsZero() {
		body = fmt.Sprintf("%s updated, %s added, %s changed.",
			plural(counts.AccountsUpdated, "account"),
			plural(counts.TransactionsAdded, "transaction"),
			plural(counts.TransactionsUpdated, "transaction"),
		)
	}

	return d.dispatch(ctx, userID, domain.NotificationSyncSuccess, "Sync complete", body, countsPayload(counts))
}

func (d *Dispatcher) NotifyPartialSuccess(ctx context.Context, userID string, counts domain.SyncCounts, failures []domain.AccountFailure) error {
	names := make([]string, 0, len(failures))
	ids := make([]string, 0, len(failures))
	for _, f := range failures {
		name := f.InstitutionName
		if name == "" {
			name = f.AccountID
		}
		names = append(names, name)
		ids = append(ids, f.AccountID)
	}

	payload := countsPayload(counts)
	payload["failed_accounts"] = strings.Join(ids, ",")

	body := fmt.Sprintf("Some accounts could not be synced: %s.", strings.Join(names, ", "))
	return d.dispatch(ctx, userID, domain.NotificationPartialSuccess, "Sync partially complete", body, payload)
}

func (d *Dispatcher) NotifySyncFailure(ctx context.Context, userID string, syncErr *domain.SyncError) error {
	if syncErr == nil {
		syncErr = domain.NewSyncError(domain.SyncErrorUnknown, "", nil)
	}

	payload := map[string]string{"error_kind": string(syncErr.Kind)}
	if syncErr.AccountID != "" {
		payload["account_id"] = syncErr.AccountID
	}

	return d.dispatch(ctx, userID, domain.NotificationSyncFailure, "Sync failed", syncErr.UserMessage(), payload)
}

func (d *Dispatcher) NotifyConflictsResolved(ctx context.Context, userID string, count int) error {
	body := fmt.Sprintf("%s updated with your bank's latest data.", plural(count, "transaction"))
	return d.dispatch(ctx, userID, domain.NotificationConflictsResolved, "Transactions updated", body, map[string]string{
		"count": strconv.Itoa(count),
	})
}

func (d *Dispatcher) NotifyReauthRequired(ctx context.Context, userID, accountID, institutionName string) error {
	if institutionName == "" {
		institutionName = "your bank"
	}

	return d.dispatch(ctx, userID, domain.NotificationReauthRequired,
		"Reconnect "+institutionName,
		fmt.Sprintf("Your connection to %s has expired. Sign in again to keep syncing.", institutionName),
		map[string]string{
			"account_id":  accountID,
			"institution": institutionName,
		},
	)
}

func (d *Dispatcher) NotifyNewTransactions(ctx context.Context, userID, accountID string, count int) error {
	return d.dispatch(ctx, userID, domain.NotificationNewTransactions, "New transactions",
		fmt.Sprintf("%s since your last sync.", plural(count, "new transaction")),
		map[string]string{
			"account_id": accountID,
			"count":      strconv.Itoa(count),
		},
	)
}

func (d *Dispatcher) NotifySyncCancelled(ctx context.Context, userID string) error {
	return d.dispatch(ctx, userID, domain.NotificationSyncCancelled, "Sync cancelled", "The sync was stopped before it finished.", nil)
}

func (d *Dispatcher) dispatch(ctx context.Context, userID string, kind domain.NotificationKind, title, body string, payload map[string]string) error {
	n := domain.Notification{
		ID:        d.newID(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Payload:   payload,
		State:     domain.NotificationStatePending,
		CreatedAt: d.now().UTC(),
	}

	if err := d.publisher.Publish(ctx, eventbus.NewNotificationEvent(n)); err != nil {
		return fmt.Errorf("publish %s notification: %w", kind, err)
	}

	d.logger.Debug(ctx, "Notification dispatched",
		"notification_id", n.ID,
		"kind", kind,
	)
	return nil
}

func countsPayload(c domain.SyncCounts) map[string]string {
	return map[string]string{
		"accounts_updated":     strconv.Itoa(c.AccountsUpdated),
		"transactions_added":   strconv.Itoa(c.TransactionsAdded),
		"transactions_updated": strconv.Itoa(c.TransactionsUpdated),
		"conflicts_resolved":   strconv.Itoa(c.ConflictsResolved),
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
