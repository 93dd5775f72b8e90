// Package storage provides the Local Store backends: an in-memory store for
// tests and development, and durable bolt and sqlite stores.
package storage

import (
	"fmt"
	"sort"

	"github.com/grachmannico95/finsync/internal/domain"
)

const (
	DriverMemory = "memory"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Store is implemented by every backend.
type Store interface {
	domain.LocalStore
	domain.CredentialStore
	domain.UserDirectory
	domain.NotificationRepository
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BoltStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the backend selected by driver. path is ignored by the memory
// driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverBolt:
		return NewBoltStore(path)
	case DriverSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func sortAccounts(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
}

// sortTransactions orders newest first, ties broken by ID.
func sortTransactions(txs []domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}
