package domain

import "time"

type NotificationKind string

const (
	NotificationSyncSuccess       NotificationKind = "sync_success"
	NotificationPartialSuccess    NotificationKind = "sync_partial_success"
	NotificationSyncFailure       NotificationKind = "sync_failure"
	NotificationConflictsResolved NotificationKind = "conflicts_resolved"
	NotificationReauthRequired    NotificationKind = "reauth_required"
	NotificationNewTransactions   NotificationKind = "new_transactions"
	NotificationSyncCancelled     NotificationKind = "sync_cancelled"
)

type NotificationState string

const (
	NotificationStatePending   NotificationState = "pending"
	NotificationStateDismissed NotificationState = "dismissed"
)

type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Kind      NotificationKind  `json:"kind"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Payload   map[string]string `json:"payload,omitempty"`
	State     NotificationState `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
}
