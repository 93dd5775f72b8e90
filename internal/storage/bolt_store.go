package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/grachmannico95/finsync/internal/domain"
)

var (
	bucketAccounts        = []byte("accounts")
	bucketTransactions    = []byte("transactions")
	bucketCredentials     = []byte("credentials")
	bucketNotifications   = []byte("notifications")
	bucketProcessedEvents = []byte("processed_events")
)

// BoltStore keeps everything in a single bolt file. Transactions and
// notifications live in nested buckets keyed by account and user.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketTransactions, bucketCredentials, bucketNotifications, bucketProcessedEvents} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) GetAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts := []domain.Account{}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var acct domain.Account
			if err := json.Unmarshal(v, &acct); err != nil {
				return err
			}
			if acct.UserID == userID {
				accounts = append(accounts, acct)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortAccounts(accounts)
	return accounts, nil
}

func (s *BoltStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	var acct domain.Account

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAccounts).Get([]byte(accountID))
		if v == nil {
			return domain.ErrAccountNotFound
		}
		return json.Unmarshal(v, &acct)
	})
	if err != nil {
		return nil, err
	}

	return &acct, nil
}

func (s *BoltStore) GetTransactionsForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions).Bucket([]byte(accountID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var t domain.Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			txs = append(txs, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortTransactions(txs)
	return txs, nil
}

func (s *BoltStore) UpsertAccount(ctx context.Context, account domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return putIfChanged(tx.Bucket(bucketAccounts), []byte(account.ID), data)
	})
}

func (s *BoltStore) UpsertTransaction(ctx context.Context, t domain.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(bucketTransactions).CreateBucketIfNotExists([]byte(t.AccountID))
		if err != nil {
			return err
		}
		return putIfChanged(b, []byte(t.ID), data)
	})
}

// putIfChanged skips the write when the stored bytes are identical.
func putIfChanged(b *bolt.Bucket, key, data []byte) error {
	if existing := b.Get(key); existing != nil && bytes.Equal(existing, data) {
		return nil
	}
	return b.Put(key, data)
}

func (s *BoltStore) GetAccessToken(ctx context.Context, itemID string) (string, error) {
	var token string

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCredentials).Get([]byte(itemID))
		if v == nil {
			return domain.ErrCredentialNotFound
		}
		token = string(v)
		return nil
	})

	return token, err
}

func (s *BoltStore) SaveAccessToken(ctx context.Context, itemID, accessToken string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCredentials).Put([]byte(itemID), []byte(accessToken))
	})
}

func (s *BoltStore) ListUserIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	users := []string{}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var acct domain.Account
			if err := json.Unmarshal(v, &acct); err != nil {
				return err
			}
			if !seen[acct.UserID] {
				seen[acct.UserID] = true
				users = append(users, acct.UserID)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(users)
	return users, nil
}

func (s *BoltStore) SaveNotification(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(bucketNotifications).CreateBucketIfNotExists([]byte(n.UserID))
		if err != nil {
			return err
		}
		return b.Put([]byte(n.ID), data)
	})
}

func (s *BoltStore) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotifications).Bucket([]byte(userID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			out = append(out, n)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *BoltStore) DismissPending(ctx context.Context, userID string) (int, error) {
	dismissed := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotifications).Bucket([]byte(userID))
		if b == nil {
			return nil
		}

		updates := make(map[string][]byte)
		err := b.ForEach(func(k, v []byte) error {
			var n domain.Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			if n.State != domain.NotificationStatePending {
				return nil
			}
			n.State = domain.NotificationStateDismissed
			data, err := json.Marshal(n)
			if err != nil {
				return err
			}
			updates[string(k)] = data
			return nil
		})
		if err != nil {
			return err
		}

		// Bolt forbids writes while iterating.
		for k, data := range updates {
			if err := b.Put([]byte(k), data); err != nil {
				return err
			}
		}
		dismissed = len(updates)
		return nil
	})

	return dismissed, err
}

func (s *BoltStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	processed := false

	err := s.db.View(func(tx *bolt.Tx) error {
		processed = tx.Bucket(bucketProcessedEvents).Get([]byte(eventID)) != nil
		return nil
	})

	return processed, err
}

func (s *BoltStore) MarkEventProcessed(ctx context.Context, eventID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		stamp := []byte(time.Now().UTC().Format(time.RFC3339Nano))
		return tx.Bucket(bucketProcessedEvents).Put([]byte(eventID), stamp)
	})
}
