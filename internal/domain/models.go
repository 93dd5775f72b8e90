package domain

import (
	"fmt"
	"time"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeMortgage   AccountType = "mortgage"
)

type Account struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	ItemID           string      `json:"item_id"`
	InstitutionID    string      `json:"institution_id"`
	InstitutionName  string      `json:"institution_name"`
	Name             string      `json:"name"`
	Type             AccountType `json:"type"`
	Balance          Money       `json:"balance"`
	AvailableBalance *Money      `json:"available_balance,omitempty"`
	Currency         string      `json:"currency"`
	LastUpdated      time.Time   `json:"last_updated"`
	IsActive         bool        `json:"is_active"`
}

func (a Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: account id is empty", ErrInvalidAccount)
	}
	if a.Balance.Currency != a.Currency {
		return fmt.Errorf("%w: balance currency %s != account currency %s", ErrInvalidAccount, a.Balance.Currency, a.Currency)
	}
	if a.AvailableBalance != nil && a.AvailableBalance.Currency != a.Currency {
		return fmt.Errorf("%w: available currency %s != account currency %s", ErrInvalidAccount, a.AvailableBalance.Currency, a.Currency)
	}
	return nil
}

// BalanceEqual reports whether both balances match the snapshot.
func (a Account) BalanceEqual(s AccountSnapshot) bool {
	return a.Balance.Equal(s.Balance) && equalMoneyPtr(a.AvailableBalance, s.AvailableBalance)
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPosted    TransactionStatus = "posted"
	TransactionStatusCancelled TransactionStatus = "cancelled"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction amounts are signed: negative is a debit, positive a credit.
type Transaction struct {
	ID          string            `json:"id"`
	AccountID   string            `json:"account_id"`
	Amount      Money             `json:"amount"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Date        time.Time         `json:"date"`
	IsRecurring bool              `json:"is_recurring"`
	Merchant    *string           `json:"merchant,omitempty"`
	Location    *string           `json:"location,omitempty"`
	Status      TransactionStatus `json:"status"`
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction id is empty", ErrInvalidTransaction)
	}
	if t.Amount.IsZero() {
		return fmt.Errorf("%w: transaction %s has zero amount", ErrInvalidTransaction, t.ID)
	}
	return nil
}

// ContentEqual compares every synced field of two versions of the same transaction.
func (t Transaction) ContentEqual(o Transaction) bool {
	return t.ID == o.ID &&
		t.AccountID == o.AccountID &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description &&
		t.Category == o.Category &&
		t.Date.Equal(o.Date) &&
		t.IsRecurring == o.IsRecurring &&
		equalStringPtr(t.Merchant, o.Merchant) &&
		equalStringPtr(t.Location, o.Location) &&
		t.Status == o.Status
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// AccountSnapshot is the remote view of one account's balances.
type AccountSnapshot struct {
	AccountID        string      `json:"account_id"`
	Name             string      `json:"name"`
	Type             AccountType `json:"type"`
	Balance          Money       `json:"balance"`
	AvailableBalance *Money      `json:"available_balance,omitempty"`
	Currency         string      `json:"currency"`
}

// TransactionSnapshot is the remote view of one transaction.
type TransactionSnapshot struct {
	ID                   string    `json:"id"`
	AccountID            string    `json:"account_id"`
	PendingTransactionID string    `json:"pending_transaction_id,omitempty"`
	Amount               Money     `json:"amount"`
	Description          string    `json:"description"`
	Category             string    `json:"category"`
	Date                 time.Time `json:"date"`
	Merchant             *string   `json:"merchant,omitempty"`
	Location             *string   `json:"location,omitempty"`
	Pending              bool      `json:"pending"`
	Recurring            bool      `json:"recurring"`
}

func (s TransactionSnapshot) ToTransaction() Transaction {
	status := TransactionStatusPosted
	if s.Pending {
		status = TransactionStatusPending
	}
	return Transaction{
		ID:          s.ID,
		AccountID:   s.AccountID,
		Amount:      s.Amount,
		Description: s.Description,
		Category:    s.Category,
		Date:        s.Date.UTC(),
		IsRecurring: s.Recurring,
		Merchant:    s.Merchant,
		Location:    s.Location,
		Status:      status,
	}
}

type ConflictType string

const (
	ConflictTypeModifiedTransaction ConflictType = "MODIFIED_TRANSACTION"
	ConflictTypeStatusChanged       ConflictType = "STATUS_CHANGED"
	ConflictTypeMetadataChanged     ConflictType = "METADATA_CHANGED"
)

type ResolutionStrategy string

const (
	ResolutionUseLocal  ResolutionStrategy = "USE_LOCAL"
	ResolutionUseRemote ResolutionStrategy = "USE_REMOTE"
	ResolutionMerge     ResolutionStrategy = "MERGE"
	ResolutionManual    ResolutionStrategy = "MANUAL"
)

// ConflictDetails pairs the local and remote versions of one transaction.
type ConflictDetails struct {
	RecordID      string             `json:"record_id"`
	Type          ConflictType       `json:"type"`
	Local         Transaction        `json:"local"`
	Remote        Transaction        `json:"remote"`
	ChangedFields []string           `json:"changed_fields"`
	Similarity    float64            `json:"similarity"`
	Strategy      ResolutionStrategy `json:"strategy"`
}

type Resolution struct {
	Details  ConflictDetails    `json:"details"`
	Strategy ResolutionStrategy `json:"strategy"`
	Result   Transaction        `json:"result"`
}

// RequiresWrite reports whether applying the resolution changes the stored record.
func (r Resolution) RequiresWrite() bool {
	if r.Strategy == ResolutionManual || r.Strategy == ResolutionUseLocal {
		return false
	}
	return !r.Result.ContentEqual(r.Details.Local)
}

type SyncOutcome string

const (
	SyncOutcomeSuccess        SyncOutcome = "success"
	SyncOutcomePartialSuccess SyncOutcome = "partial_success"
	SyncOutcomeFailure        SyncOutcome = "failure"
)

type SyncCounts struct {
	AccountsUpdated     int `json:"accounts_updated"`
	TransactionsAdded   int `json:"transactions_added"`
	TransactionsUpdated int `json:"transactions_updated"`
	ConflictsResolved   int `json:"conflicts_resolved"`
}

func (c SyncCounts) Plus(o SyncCounts) SyncCounts {
	return SyncCounts{
		AccountsUpdated:     c.AccountsUpdated + o.AccountsUpdated,
		TransactionsAdded:   c.TransactionsAdded + o.TransactionsAdded,
		TransactionsUpdated: c.TransactionsUpdated + o.TransactionsUpdated,
		ConflictsResolved:   c.ConflictsResolved + o.ConflictsResolved,
	}
}

func (c SyncCounts) IsZero() bool {
	return c == SyncCounts{}
}

type AccountFailure struct {
	AccountID       string     `json:"account_id"`
	InstitutionName string     `json:"institution_name"`
	Err             *SyncError `json:"error"`
}

// SyncResult is the outcome of one sync pass. Build it with Success,
// PartialSuccess or Failure; Failures is only set on partial success and Err
// only on failure.
type SyncResult struct {
	Outcome  SyncOutcome      `json:"outcome"`
	Counts   SyncCounts       `json:"counts"`
	Failures []AccountFailure `json:"failures,omitempty"`
	Err      *SyncError       `json:"error,omitempty"`
}

func Success(counts SyncCounts) SyncResult {
	return SyncResult{Outcome: SyncOutcomeSuccess, Counts: counts}
}

func PartialSuccess(counts SyncCounts, failures []AccountFailure) SyncResult {
	return SyncResult{Outcome: SyncOutcomePartialSuccess, Counts: counts, Failures: failures}
}

func Failure(err *SyncError) SyncResult {
	return SyncResult{Outcome: SyncOutcomeFailure, Err: err}
}

func (r SyncResult) IsSuccess() bool        { return r.Outcome == SyncOutcomeSuccess }
func (r SyncResult) IsPartialSuccess() bool { return r.Outcome == SyncOutcomePartialSuccess }
func (r SyncResult) IsFailure() bool        { return r.Outcome == SyncOutcomeFailure }

type SyncStatus string

const (
	SyncStatusIdle       SyncStatus = "IDLE"
	SyncStatusInProgress SyncStatus = "IN_PROGRESS"
	SyncStatusCompleted  SyncStatus = "COMPLETED"
	SyncStatusFailed     SyncStatus = "FAILED"
	SyncStatusCancelled  SyncStatus = "CANCELLED"
)

// IsTerminal reports whether a new cycle may start from this status.
func (s SyncStatus) IsTerminal() bool {
	return s == SyncStatusCompleted || s == SyncStatusFailed || s == SyncStatusCancelled
}
