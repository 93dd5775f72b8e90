package domain

import (
	"context"
	"time"
)

// LocalStore holds the last-known-good copy of accounts and transactions.
type LocalStore interface {
	GetAccountsForUser(ctx context.Context, userID string) ([]Account, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	GetTransactionsForAccount(ctx context.Context, accountID string) ([]Transaction, error)
	UpsertAccount(ctx context.Context, account Account) error
	UpsertTransaction(ctx context.Context, tx Transaction) error
}

// CredentialStore resolves the aggregation access token of a linked item.
type CredentialStore interface {
	GetAccessToken(ctx context.Context, itemID string) (string, error)
	SaveAccessToken(ctx context.Context, itemID, accessToken string) error
}

// UserDirectory lists users that own at least one account.
type UserDirectory interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// RemoteDataSource fetches fresh data from the aggregation provider. Failures
// are returned as *RemoteError.
type RemoteDataSource interface {
	GetBalances(ctx context.Context, accessToken string) ([]AccountSnapshot, error)
	GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time, accountIDs []string) ([]TransactionSnapshot, error)
}

// NewTransactionsMultipleAccounts is the account argument of NotifyNewTransactions
// when the new transactions span more than one account.
const NewTransactionsMultipleAccounts = "multiple"

// Notifier informs the user about sync outcomes.
type Notifier interface {
	NotifySyncSuccess(ctx context.Context, userID string, counts SyncCounts) error
	NotifyPartialSuccess(ctx context.Context, userID string, counts SyncCounts, failures []AccountFailure) error
	NotifySyncFailure(ctx context.Context, userID string, syncErr *SyncError) error
	NotifyConflictsResolved(ctx context.Context, userID string, count int) error
	NotifyReauthRequired(ctx context.Context, userID, accountID, institutionName string) error
	NotifyNewTransactions(ctx context.Context, userID, accountID string, count int) error
	NotifySyncCancelled(ctx context.Context, userID string) error
}

// NotificationRepository is the outbox the notification consumer writes to.
type NotificationRepository interface {
	SaveNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)
	DismissPending(ctx context.Context, userID string) (int, error)

	// Idempotency tracking
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID string) error
}
