package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrCredentialNotFound  = errors.New("access token not found")
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrInvalidAccount      = errors.New("invalid account")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrSyncInProgress      = errors.New("sync already in progress")
	ErrCycleNotActive      = errors.New("sync cycle is not active")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrUnsupportedStrategy = errors.New("unsupported resolution strategy")
)

// RemoteErrorCategory classifies failures reported by the remote data source.
type RemoteErrorCategory string

const (
	RemoteErrorAuthentication         RemoteErrorCategory = "authentication"
	RemoteErrorRateLimit              RemoteErrorCategory = "rate_limit"
	RemoteErrorInstitutionDown        RemoteErrorCategory = "institution_down"
	RemoteErrorInstitutionUnsupported RemoteErrorCategory = "institution_unsupported"
	RemoteErrorItemNotFound           RemoteErrorCategory = "item_not_found"
	RemoteErrorConsentRevoked         RemoteErrorCategory = "consent_revoked"
	RemoteErrorNetwork                RemoteErrorCategory = "network"
	RemoteErrorUnknown                RemoteErrorCategory = "unknown"
)

type RemoteError struct {
	Category RemoteErrorCategory
	Code     string
	Message  string
	Err      error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("remote %s error", e.Category)
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient.
func (e *RemoteError) Retryable() bool {
	switch e.Category {
	case RemoteErrorRateLimit, RemoteErrorInstitutionDown, RemoteErrorNetwork:
		return true
	default:
		return false
	}
}

func NewRemoteError(category RemoteErrorCategory, code, message string) *RemoteError {
	return &RemoteError{Category: category, Code: code, Message: message}
}

// IsRetryable reports whether err wraps a transient remote failure.
func IsRetryable(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Retryable()
	}
	return false
}

// SyncErrorKind is the sync-level error taxonomy reported in results and notifications.
type SyncErrorKind string

const (
	SyncErrorAuth                   SyncErrorKind = "auth_error"
	SyncErrorRateLimit              SyncErrorKind = "rate_limit_error"
	SyncErrorInstitutionDown        SyncErrorKind = "institution_down"
	SyncErrorInstitutionUnsupported SyncErrorKind = "institution_unsupported"
	SyncErrorItemNotFound           SyncErrorKind = "item_not_found"
	SyncErrorConsentRevoked         SyncErrorKind = "consent_revoked"
	SyncErrorNetwork                SyncErrorKind = "network_error"
	SyncErrorUnknown                SyncErrorKind = "unknown_error"
	SyncErrorCancelled              SyncErrorKind = "cancelled"
	SyncErrorInProgress             SyncErrorKind = "sync_in_progress"
)

type SyncError struct {
	Kind      SyncErrorKind `json:"kind"`
	AccountID string        `json:"account_id,omitempty"`
	Message   string        `json:"message"`
	Err       error         `json:"-"`
}

func (e *SyncError) Error() string {
	if e.AccountID != "" {
		return fmt.Sprintf("sync %s for account %s: %s", e.Kind, e.AccountID, e.Message)
	}
	return fmt.Sprintf("sync %s: %s", e.Kind, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) RequiresReauth() bool {
	return e.Kind == SyncErrorAuth
}

// UserMessage is the human-readable category shown in failure notifications.
func (e *SyncError) UserMessage() string {
	switch e.Kind {
	case SyncErrorAuth:
		return "Your bank connection needs to be re-authenticated."
	case SyncErrorRateLimit:
		return "Too many requests to your bank. We will try again shortly."
	case SyncErrorInstitutionDown:
		return "Your bank is temporarily unavailable."
	case SyncErrorInstitutionUnsupported:
		return "This bank is no longer supported. Please disconnect and relink it."
	case SyncErrorItemNotFound:
		return "This bank connection no longer exists. Please relink it."
	case SyncErrorConsentRevoked:
		return "Access to this bank was revoked. Please relink it."
	case SyncErrorNetwork:
		return "Network problem while syncing."
	case SyncErrorCancelled:
		return "Sync was cancelled."
	case SyncErrorInProgress:
		return "A sync is already running."
	default:
		return "Something went wrong while syncing."
	}
}

func NewSyncError(kind SyncErrorKind, accountID string, err error) *SyncError {
	msg := string(kind)
	if err != nil {
		msg = err.Error()
	}
	return &SyncError{Kind: kind, AccountID: accountID, Message: msg, Err: err}
}

var remoteToSyncKind = map[RemoteErrorCategory]SyncErrorKind{
	RemoteErrorAuthentication:         SyncErrorAuth,
	RemoteErrorRateLimit:              SyncErrorRateLimit,
	RemoteErrorInstitutionDown:        SyncErrorInstitutionDown,
	RemoteErrorInstitutionUnsupported: SyncErrorInstitutionUnsupported,
	RemoteErrorItemNotFound:           SyncErrorItemNotFound,
	RemoteErrorConsentRevoked:         SyncErrorConsentRevoked,
	RemoteErrorNetwork:                SyncErrorNetwork,
	RemoteErrorUnknown:                SyncErrorUnknown,
}

// ClassifyError maps any error onto the sync-level taxonomy.
func ClassifyError(err error, accountID string) *SyncError {
	if err == nil {
		return nil
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		if syncErr.AccountID == "" && accountID != "" {
			cp := *syncErr
			cp.AccountID = accountID
			return &cp
		}
		return syncErr
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		kind, ok := remoteToSyncKind[remoteErr.Category]
		if !ok {
			kind = SyncErrorUnknown
		}
		return NewSyncError(kind, accountID, err)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return NewSyncError(SyncErrorCancelled, accountID, err)
	case errors.Is(err, ErrSyncInProgress):
		return NewSyncError(SyncErrorInProgress, accountID, err)
	case errors.Is(err, ErrCredentialNotFound):
		return NewSyncError(SyncErrorAuth, accountID, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewSyncError(SyncErrorNetwork, accountID, err)
	}

	return NewSyncError(SyncErrorUnknown, accountID, err)
}
