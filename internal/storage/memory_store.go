package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/grachmannico95/finsync/internal/domain"
)

type MemoryStore struct {
	accounts        map[string]domain.Account
	transactions    map[string]map[string]domain.Transaction
	credentials     map[string]string
	notifications   []domain.Notification
	processedEvents map[string]bool
	mu              sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:        make(map[string]domain.Account),
		transactions:    make(map[string]map[string]domain.Transaction),
		credentials:     make(map[string]string),
		processedEvents: make(map[string]bool),
	}
}

func (s *MemoryStore) GetAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := []domain.Account{}
	for _, acct := range s.accounts {
		if acct.UserID == userID {
			accounts = append(accounts, acct)
		}
	}

	sortAccounts(accounts)
	return accounts, nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, exists := s.accounts[accountID]
	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	return &acct, nil
}

func (s *MemoryStore) GetTransactionsForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]domain.Transaction, 0, len(s.transactions[accountID]))
	for _, tx := range s.transactions[accountID] {
		txs = append(txs, tx)
	}

	sortTransactions(txs)
	return txs, nil
}

func (s *MemoryStore) UpsertAccount(ctx context.Context, account domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = account

	return nil
}

func (s *MemoryStore) UpsertTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transactions[tx.AccountID] == nil {
		s.transactions[tx.AccountID] = make(map[string]domain.Transaction)
	}
	s.transactions[tx.AccountID][tx.ID] = tx

	return nil
}

func (s *MemoryStore) GetAccessToken(ctx context.Context, itemID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, exists := s.credentials[itemID]
	if !exists {
		return "", domain.ErrCredentialNotFound
	}

	return token, nil
}

func (s *MemoryStore) SaveAccessToken(ctx context.Context, itemID, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials[itemID] = accessToken

	return nil
}

func (s *MemoryStore) ListUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	users := []string{}
	for _, acct := range s.accounts {
		if !seen[acct.UserID] {
			seen[acct.UserID] = true
			users = append(users, acct.UserID)
		}
	}

	sort.Strings(users)
	return users, nil
}

func (s *MemoryStore) SaveNotification(ctx context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == n.ID {
			s.notifications[i] = n
			return nil
		}
	}
	s.notifications = append(s.notifications, n)

	return nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID != userID {
			continue
		}
		out = append(out, s.notifications[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

func (s *MemoryStore) DismissPending(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dismissed := 0
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.UserID == userID && n.State == domain.NotificationStatePending {
			n.State = domain.NotificationStateDismissed
			dismissed++
		}
	}

	return dismissed, nil
}

func (s *MemoryStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.processedEvents[eventID], nil
}

func (s *MemoryStore) MarkEventProcessed(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processedEvents[eventID] = true

	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
