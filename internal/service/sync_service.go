package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grachmannico95/finsync/internal/conflict"
	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/internal/syncstatus"
	"github.com/grachmannico95/finsync/pkg/logger"
)

type SyncService interface {
	SyncAllAccounts(ctx context.Context, userID string) domain.SyncResult
	SyncAccount(ctx context.Context, accountID string) domain.SyncResult
	SyncTransactions(ctx context.Context, accountID string, startDate, endDate time.Time) domain.SyncResult
	IncrementalSync(ctx context.Context, userID string) domain.SyncResult
	CancelSync(ctx context.Context, userID string)
	Status(userID string) syncstatus.Snapshot
}

type SyncConfig struct {
	WindowDays            int
	StaleAfter            time.Duration
	IncrementalOverlap    time.Duration
	MaxConcurrentAccounts int
	// NewTransactionThreshold is the count an incremental sync must exceed
	// before the user hears about new transactions.
	NewTransactionThreshold int
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		WindowDays:              30,
		StaleAfter:              15 * time.Minute,
		IncrementalOverlap:      72 * time.Hour,
		MaxConcurrentAccounts:   4,
		NewTransactionThreshold: 5,
	}
}

type SyncOption func(*syncService)

func WithSyncClock(now func() time.Time) SyncOption {
	return func(s *syncService) {
		s.now = now
	}
}

type syncService struct {
	store       domain.LocalStore
	credentials domain.CredentialStore
	remote      domain.RemoteDataSource
	resolver    *conflict.Resolver
	status      *syncstatus.Manager
	retry       RetryManager
	notifier    domain.Notifier
	cfg         SyncConfig
	now         func() time.Time
	logger      *logger.Logger
}

func NewSyncService(
	store domain.LocalStore,
	credentials domain.CredentialStore,
	remote domain.RemoteDataSource,
	resolver *conflict.Resolver,
	status *syncstatus.Manager,
	retryManager RetryManager,
	notifier domain.Notifier,
	cfg SyncConfig,
	log *logger.Logger,
	opts ...SyncOption,
) SyncService {
	if cfg.MaxConcurrentAccounts < 1 {
		cfg.MaxConcurrentAccounts = 1
	}
	if cfg.WindowDays < 1 {
		cfg.WindowDays = DefaultSyncConfig().WindowDays
	}

	s := &syncService{
		store:       store,
		credentials: credentials,
		remote:      remote,
		resolver:    resolver,
		status:      status,
		retry:       retryManager,
		notifier:    notifier,
		cfg:         cfg,
		now:         time.Now,
		logger:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type notifyMode int

const (
	notifySingleAccount notifyMode = iota
	notifyAllAccounts
	notifyIncremental
)

// accountOutcome is the fan-in unit of a multi-account sync.
type accountOutcome struct {
	account domain.Account
	counts  domain.SyncCounts
	err     *domain.SyncError
	skipped bool
}

type window struct {
	start time.Time
	end   time.Time
}

func (s *syncService) SyncAllAccounts(ctx context.Context, userID string) domain.SyncResult {
	ctx = logger.WithUserID(ctx, userID)
	scope := syncstatus.UserScope(userID)

	cycleCtx, cycleID, err := s.status.Begin(ctx, scope)
	if err != nil {
		return s.rejectInFlight(ctx, scope, err)
	}

	s.logger.Info(cycleCtx, "Starting full sync")

	accounts, err := s.store.GetAccountsForUser(cycleCtx, userID)
	if err != nil {
		s.logger.Error(cycleCtx, "Failed to load accounts",
			"error", err,
		)
		syncErr := domain.NewSyncError(domain.SyncErrorUnknown, "", fmt.Errorf("load accounts: %w", err))
		return s.finish(ctx, scope, cycleID, domain.Failure(syncErr), nil, notifyAllAccounts)
	}

	full := s.fullWindow()
	outcomes := s.syncAccounts(cycleCtx, activeAccounts(accounts), func(domain.Account) window {
		return full
	})

	result := aggregate(outcomes)
	s.logger.Info(cycleCtx, "Full sync finished",
		"outcome", result.Outcome,
		"accounts", len(outcomes),
		"accounts_updated", result.Counts.AccountsUpdated,
		"transactions_added", result.Counts.TransactionsAdded,
		"transactions_updated", result.Counts.TransactionsUpdated,
		"conflicts_resolved", result.Counts.ConflictsResolved,
	)

	return s.finish(ctx, scope, cycleID, result, outcomes, notifyAllAccounts)
}

func (s *syncService) SyncAccount(ctx context.Context, accountID string) domain.SyncResult {
	ctx = logger.WithAccountID(ctx, accountID)

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load account",
			"error", err,
		)
		return domain.Failure(domain.NewSyncError(domain.SyncErrorUnknown, accountID, fmt.Errorf("load account: %w", err)))
	}

	ctx = logger.WithUserID(ctx, account.UserID)
	scope := syncstatus.AccountScope(account.UserID, account.ID)

	cycleCtx, cycleID, err := s.status.Begin(ctx, scope)
	if err != nil {
		return s.rejectInFlight(ctx, scope, err)
	}

	s.logger.Info(cycleCtx, "Starting account sync")

	counts, err := s.syncOne(cycleCtx, *account, s.fullWindow())
	outcome := accountOutcome{account: *account, counts: counts, err: domain.ClassifyError(err, account.ID)}
	outcomes := []accountOutcome{outcome}

	return s.finish(ctx, scope, cycleID, aggregate(outcomes), outcomes, notifySingleAccount)
}

func (s *syncService) SyncTransactions(ctx context.Context, accountID string, startDate, endDate time.Time) domain.SyncResult {
	ctx = logger.WithAccountID(ctx, accountID)

	if endDate.Before(startDate) {
		s.logger.Warn(ctx, "Rejected transaction sync with inverted range",
			"start", startDate,
			"end", endDate,
		)
		err := fmt.Errorf("%w: %s after %s", domain.ErrInvalidDateRange, startDate.Format(time.DateOnly), endDate.Format(time.DateOnly))
		return domain.Failure(domain.NewSyncError(domain.SyncErrorUnknown, accountID, err))
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load account",
			"error", err,
		)
		return domain.Failure(domain.NewSyncError(domain.SyncErrorUnknown, accountID, fmt.Errorf("load account: %w", err)))
	}

	ctx = logger.WithUserID(ctx, account.UserID)
	scope := syncstatus.AccountScope(account.UserID, account.ID)

	cycleCtx, cycleID, err := s.status.Begin(ctx, scope)
	if err != nil {
		return s.rejectInFlight(ctx, scope, err)
	}

	s.logger.Info(cycleCtx, "Starting transaction sync",
		"start", startDate,
		"end", endDate,
	)

	var counts domain.SyncCounts
	token, err := s.accessToken(cycleCtx, *account)
	if err == nil {
		counts, err = s.reconcileTransactions(cycleCtx, *account, token, window{start: startDate, end: endDate})
	}

	outcome := accountOutcome{account: *account, counts: counts, err: domain.ClassifyError(err, account.ID)}
	outcomes := []accountOutcome{outcome}

	return s.finish(ctx, scope, cycleID, aggregate(outcomes), outcomes, notifySingleAccount)
}

func (s *syncService) IncrementalSync(ctx context.Context, userID string) domain.SyncResult {
	ctx = logger.WithUserID(ctx, userID)
	scope := syncstatus.UserScope(userID)

	cycleCtx, cycleID, err := s.status.Begin(ctx, scope)
	if err != nil {
		return s.rejectInFlight(ctx, scope, err)
	}

	accounts, err := s.store.GetAccountsForUser(cycleCtx, userID)
	if err != nil {
		s.logger.Error(cycleCtx, "Failed to load accounts",
			"error", err,
		)
		syncErr := domain.NewSyncError(domain.SyncErrorUnknown, "", fmt.Errorf("load accounts: %w", err))
		return s.finish(ctx, scope, cycleID, domain.Failure(syncErr), nil, notifyIncremental)
	}

	now := s.now()
	var stale []domain.Account
	for _, acct := range activeAccounts(accounts) {
		if now.Sub(acct.LastUpdated) > s.cfg.StaleAfter {
			stale = append(stale, acct)
		}
	}

	s.logger.Info(cycleCtx, "Starting incremental sync",
		"accounts", len(accounts),
		"stale_accounts", len(stale),
	)

	full := s.fullWindow()
	outcomes := s.syncAccounts(cycleCtx, stale, func(acct domain.Account) window {
		if acct.LastUpdated.IsZero() {
			return full
		}
		start := acct.LastUpdated.Add(-s.cfg.IncrementalOverlap)
		if start.Before(full.start) {
			start = full.start
		}
		return window{start: start, end: full.end}
	})

	result := aggregate(outcomes)
	s.logger.Info(cycleCtx, "Incremental sync finished",
		"outcome", result.Outcome,
		"transactions_added", result.Counts.TransactionsAdded,
	)

	return s.finish(ctx, scope, cycleID, result, outcomes, notifyIncremental)
}

func (s *syncService) CancelSync(ctx context.Context, userID string) {
	ctx = logger.WithUserID(ctx, userID)

	cancelled := s.status.Cancel(ctx, userID)
	if cancelled == 0 {
		s.logger.Debug(ctx, "No sync in progress to cancel")
		return
	}

	s.logger.Info(ctx, "Sync cancelled",
		"scopes", cancelled,
	)

	if err := s.notifier.NotifySyncCancelled(ctx, userID); err != nil {
		s.logger.Warn(ctx, "Failed to dispatch cancellation notification",
			"error", err,
		)
	}
}

func (s *syncService) Status(userID string) syncstatus.Snapshot {
	return s.status.Get(userID)
}

func (s *syncService) rejectInFlight(ctx context.Context, scope syncstatus.Scope, err error) domain.SyncResult {
	s.logger.Warn(ctx, "Sync rejected",
		"scope", scope.String(),
		"error", err,
	)
	return domain.Failure(domain.ClassifyError(err, scope.AccountID))
}

// syncAccounts fans out one goroutine per account, bounded by
// MaxConcurrentAccounts, and returns outcomes in input order.
func (s *syncService) syncAccounts(ctx context.Context, accounts []domain.Account, windowFor func(domain.Account) window) []accountOutcome {
	outcomes := make([]accountOutcome, len(accounts))
	sem := make(chan struct{}, s.cfg.MaxConcurrentAccounts)
	var wg sync.WaitGroup

	for i, acct := range accounts {
		wg.Add(1)
		go func(i int, acct domain.Account) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes[i] = accountOutcome{account: acct, err: domain.ClassifyError(ctx.Err(), acct.ID)}
				return
			}
			defer func() { <-sem }()

			outcomes[i] = s.syncScopedAccount(ctx, acct, windowFor(acct))
		}(i, acct)
	}

	wg.Wait()
	return outcomes
}

// syncScopedAccount syncs one account of a multi-account pass under its own
// account scope so single-account syncs of the same account cannot overlap.
func (s *syncService) syncScopedAccount(ctx context.Context, acct domain.Account, w window) accountOutcome {
	ctx = logger.WithAccountID(ctx, acct.ID)
	scope := syncstatus.AccountScope(acct.UserID, acct.ID)

	cycleCtx, cycleID, err := s.status.Begin(ctx, scope)
	if errors.Is(err, domain.ErrSyncInProgress) {
		s.logger.Info(ctx, "Account sync already in progress, skipping")
		return accountOutcome{account: acct, skipped: true}
	}

	counts, err := s.syncOne(cycleCtx, acct, w)
	syncErr := domain.ClassifyError(err, acct.ID)

	var statusErr error
	switch {
	case syncErr == nil:
		statusErr = s.status.Complete(ctx, scope, cycleID, nil)
	case syncErr.Kind == domain.SyncErrorCancelled:
		statusErr = s.status.Abort(ctx, scope, cycleID)
	default:
		statusErr = s.status.Fail(ctx, scope, cycleID, syncErr)
	}
	if errors.Is(statusErr, domain.ErrCycleNotActive) && syncErr == nil {
		syncErr = domain.NewSyncError(domain.SyncErrorCancelled, acct.ID, context.Canceled)
	}

	if syncErr != nil {
		s.logger.Warn(ctx, "Account sync failed",
			"kind", syncErr.Kind,
			"institution", acct.InstitutionName,
			"error", syncErr,
		)
	}

	return accountOutcome{account: acct, counts: counts, err: syncErr}
}

// syncOne refreshes the account's balance and reconciles its transactions
// within w.
func (s *syncService) syncOne(ctx context.Context, acct domain.Account, w window) (domain.SyncCounts, error) {
	var counts domain.SyncCounts

	token, err := s.accessToken(ctx, acct)
	if err != nil {
		return counts, err
	}

	var balances []domain.AccountSnapshot
	err = s.retry.Execute(ctx, "get balances", func(ctx context.Context) error {
		var fetchErr error
		balances, fetchErr = s.remote.GetBalances(ctx, token)
		return fetchErr
	})
	if err != nil {
		return counts, err
	}

	snap, ok := findSnapshot(balances, acct.ID)
	if !ok {
		return counts, domain.NewRemoteError(domain.RemoteErrorItemNotFound, "ACCOUNT_NOT_RETURNED",
			fmt.Sprintf("account %s missing from balance response", acct.ID))
	}

	changed, err := s.applyBalance(ctx, acct, snap)
	if err != nil {
		return counts, err
	}
	if changed {
		counts.AccountsUpdated = 1
	}

	txCounts, err := s.reconcileTransactions(ctx, acct, token, w)
	if err != nil {
		return counts, err
	}

	return counts.Plus(txCounts), nil
}

func (s *syncService) accessToken(ctx context.Context, acct domain.Account) (string, error) {
	token, err := s.credentials.GetAccessToken(ctx, acct.ItemID)
	if err != nil {
		s.logger.Error(ctx, "Failed to resolve access token",
			"item_id", acct.ItemID,
			"error", err,
		)
		return "", fmt.Errorf("access token for item %s: %w", acct.ItemID, err)
	}
	return token, nil
}

// applyBalance writes the remote balance. It reports whether either balance
// changed; LastUpdated is refreshed regardless.
func (s *syncService) applyBalance(ctx context.Context, acct domain.Account, snap domain.AccountSnapshot) (bool, error) {
	changed := !acct.BalanceEqual(snap)

	updated := acct
	updated.Balance = snap.Balance
	updated.AvailableBalance = snap.AvailableBalance
	updated.LastUpdated = s.now()
	if err := updated.Validate(); err != nil {
		return false, fmt.Errorf("remote balance for account %s: %w", acct.ID, err)
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.store.UpsertAccount(ctx, updated); err != nil {
		s.logger.Error(ctx, "Failed to store account",
			"error", err,
		)
		return false, fmt.Errorf("store account: %w", err)
	}

	if changed {
		s.logger.Debug(ctx, "Account balance changed",
			"old_balance", acct.Balance.String(),
			"new_balance", snap.Balance.String(),
		)
	}
	return changed, nil
}

func (s *syncService) reconcileTransactions(ctx context.Context, acct domain.Account, token string, w window) (domain.SyncCounts, error) {
	var counts domain.SyncCounts

	var remote []domain.TransactionSnapshot
	err := s.retry.Execute(ctx, "get transactions", func(ctx context.Context) error {
		var fetchErr error
		remote, fetchErr = s.remote.GetTransactions(ctx, token, w.start, w.end, []string{acct.ID})
		return fetchErr
	})
	if err != nil {
		return counts, err
	}

	local, err := s.store.GetTransactionsForAccount(ctx, acct.ID)
	if err != nil {
		s.logger.Error(ctx, "Failed to load local transactions",
			"error", err,
		)
		return counts, fmt.Errorf("load transactions: %w", err)
	}

	byID := make(map[string]domain.Transaction, len(local))
	for _, tx := range local {
		byID[tx.ID] = tx
	}

	for _, snap := range remote {
		if snap.AccountID != acct.ID {
			s.logger.Warn(ctx, "Skipping remote transaction for another account",
				"transaction_id", snap.ID,
				"remote_account_id", snap.AccountID,
			)
			continue
		}

		incoming := snap.ToTransaction()
		if err := incoming.Validate(); err != nil {
			s.logger.Warn(ctx, "Skipping invalid remote transaction",
				"transaction_id", snap.ID,
				"error", err,
			)
			continue
		}

		superseded, err := s.supersedePending(ctx, byID, snap)
		if err != nil {
			return counts, err
		}
		if superseded {
			counts.TransactionsUpdated++
		}

		existing, found := byID[incoming.ID]
		if !found {
			if err := s.writeTransaction(ctx, incoming); err != nil {
				return counts, err
			}
			byID[incoming.ID] = incoming
			counts.TransactionsAdded++
			continue
		}

		details, isConflict, err := s.resolver.Detect(existing, incoming)
		if err != nil {
			return counts, err
		}
		if !isConflict {
			continue
		}

		resolution, err := s.resolver.Resolve(ctx, details)
		if err != nil {
			return counts, err
		}

		s.logger.Info(ctx, "Resolved transaction conflict",
			"transaction_id", details.RecordID,
			"conflict_type", details.Type,
			"changed_fields", details.ChangedFields,
			"similarity", details.Similarity,
			"strategy", resolution.Strategy,
		)

		switch {
		case resolution.RequiresWrite():
			if err := s.writeTransaction(ctx, resolution.Result); err != nil {
				return counts, err
			}
			byID[incoming.ID] = resolution.Result
			counts.TransactionsUpdated++
			counts.ConflictsResolved++
		case resolution.Strategy == domain.ResolutionUseLocal:
			counts.ConflictsResolved++
		case resolution.Strategy == domain.ResolutionManual:
			s.logger.Info(ctx, "Conflict left for manual review",
				"transaction_id", details.RecordID,
			)
		}
	}

	return counts, nil
}

// supersedePending marks the stored pending row that snap replaces as
// cancelled. The posted version arrives under its own ID; the pending row is
// kept, never deleted.
func (s *syncService) supersedePending(ctx context.Context, byID map[string]domain.Transaction, snap domain.TransactionSnapshot) (bool, error) {
	if snap.PendingTransactionID == "" || snap.PendingTransactionID == snap.ID {
		return false, nil
	}
	pending, ok := byID[snap.PendingTransactionID]
	if !ok || pending.Status != domain.TransactionStatusPending {
		return false, nil
	}

	pending.Status = domain.TransactionStatusCancelled
	if err := s.writeTransaction(ctx, pending); err != nil {
		return false, err
	}
	byID[pending.ID] = pending

	s.logger.Info(ctx, "Pending transaction superseded by posted transaction",
		"pending_transaction_id", pending.ID,
		"transaction_id", snap.ID,
	)
	return true, nil
}

func (s *syncService) writeTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.UpsertTransaction(ctx, tx); err != nil {
		s.logger.Error(ctx, "Failed to store transaction",
			"transaction_id", tx.ID,
			"error", err,
		)
		return fmt.Errorf("store transaction %s: %w", tx.ID, err)
	}
	return nil
}

// finish records the terminal status and dispatches the outcome notification.
// A cycle cancelled through CancelSync yields a cancelled failure and no
// further notification.
func (s *syncService) finish(ctx context.Context, scope syncstatus.Scope, cycleID string, result domain.SyncResult, outcomes []accountOutcome, mode notifyMode) domain.SyncResult {
	var err error
	switch {
	case result.IsFailure() && result.Err.Kind == domain.SyncErrorCancelled:
		if err := s.status.Abort(ctx, scope, cycleID); err == nil {
			s.logger.Info(ctx, "Sync aborted by caller")
		}
		return result
	case result.IsFailure():
		err = s.status.Fail(ctx, scope, cycleID, result.Err)
	default:
		err = s.status.Complete(ctx, scope, cycleID, lastFailure(result))
	}

	if errors.Is(err, domain.ErrCycleNotActive) {
		s.logger.Info(ctx, "Sync cycle was cancelled, discarding outcome",
			"scope", scope.String(),
		)
		return domain.Failure(domain.NewSyncError(domain.SyncErrorCancelled, scope.AccountID, context.Canceled))
	}

	s.notify(ctx, scope.UserID, result, outcomes, mode)
	return result
}

func (s *syncService) notify(ctx context.Context, userID string, result domain.SyncResult, outcomes []accountOutcome, mode notifyMode) {
	var errs []error

	switch {
	case result.IsFailure():
		if mode == notifySingleAccount && result.Err.RequiresReauth() {
			errs = append(errs, s.notifyReauth(ctx, userID, outcomes)...)
			break
		}
		errs = append(errs, s.notifier.NotifySyncFailure(ctx, userID, result.Err))
		if mode != notifySingleAccount {
			errs = append(errs, s.notifyReauth(ctx, userID, outcomes)...)
		}

	case result.IsPartialSuccess():
		errs = append(errs, s.notifier.NotifyPartialSuccess(ctx, userID, result.Counts, result.Failures))
		errs = append(errs, s.notifyReauth(ctx, userID, outcomes)...)

	case mode == notifyIncremental:
		if result.Counts.TransactionsAdded > s.cfg.NewTransactionThreshold {
			errs = append(errs, s.notifier.NotifyNewTransactions(ctx, userID, newTransactionsAccount(outcomes), result.Counts.TransactionsAdded))
		}

	case result.Counts.ConflictsResolved > 0:
		errs = append(errs, s.notifier.NotifyConflictsResolved(ctx, userID, result.Counts.ConflictsResolved))

	default:
		errs = append(errs, s.notifier.NotifySyncSuccess(ctx, userID, result.Counts))
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn(ctx, "Failed to dispatch sync notification",
			"outcome", result.Outcome,
			"error", err,
		)
	}
}

func (s *syncService) notifyReauth(ctx context.Context, userID string, outcomes []accountOutcome) []error {
	var errs []error
	for _, o := range outcomes {
		if o.err != nil && o.err.RequiresReauth() {
			errs = append(errs, s.notifier.NotifyReauthRequired(ctx, userID, o.account.ID, o.account.InstitutionName))
		}
	}
	return errs
}

func (s *syncService) fullWindow() window {
	end := s.now()
	return window{start: end.AddDate(0, 0, -s.cfg.WindowDays), end: end}
}

// aggregate folds per-account outcomes into one result. Skipped accounts
// count neither as success nor failure.
func aggregate(outcomes []accountOutcome) domain.SyncResult {
	var (
		counts    domain.SyncCounts
		failures  []domain.AccountFailure
		succeeded int
	)

	for _, o := range outcomes {
		switch {
		case o.skipped:
		case o.err != nil:
			failures = append(failures, domain.AccountFailure{
				AccountID:       o.account.ID,
				InstitutionName: o.account.InstitutionName,
				Err:             o.err,
			})
		default:
			counts = counts.Plus(o.counts)
			succeeded++
		}
	}

	switch {
	case len(failures) == 0:
		return domain.Success(counts)
	case succeeded > 0:
		return domain.PartialSuccess(counts, failures)
	default:
		return domain.Failure(primaryFailure(failures))
	}
}

// primaryFailure picks the error reported for a pass in which every account
// failed. Cancellation wins so aborted passes are recognisable.
func primaryFailure(failures []domain.AccountFailure) *domain.SyncError {
	for _, f := range failures {
		if f.Err.Kind == domain.SyncErrorCancelled {
			return f.Err
		}
	}
	return failures[0].Err
}

func lastFailure(result domain.SyncResult) *domain.SyncError {
	if len(result.Failures) == 0 {
		return nil
	}
	return result.Failures[len(result.Failures)-1].Err
}

func newTransactionsAccount(outcomes []accountOutcome) string {
	accountID := ""
	for _, o := range outcomes {
		if o.err != nil || o.counts.TransactionsAdded == 0 {
			continue
		}
		if accountID != "" {
			return domain.NewTransactionsMultipleAccounts
		}
		accountID = o.account.ID
	}
	return accountID
}

func activeAccounts(accounts []domain.Account) []domain.Account {
	active := make([]domain.Account, 0, len(accounts))
	for _, acct := range accounts {
		if acct.IsActive {
			active = append(active, acct)
		}
	}
	return active
}

func findSnapshot(snaps []domain.AccountSnapshot, accountID string) (domain.AccountSnapshot, bool) {
	for _, snap := range snaps {
		if snap.AccountID == accountID {
			return snap, true
		}
	}
	return domain.AccountSnapshot{}, false
}
