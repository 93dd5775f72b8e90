package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/grachmannico95/finsync/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and applies pending migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close closes the database. The migrate instance is not closed because it
// would close the shared *sql.DB underneath.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const accountColumns = `id, user_id, item_id, institution_id, institution_name, name, type,
	balance_minor, available_minor, currency, last_updated, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		acct        domain.Account
		balance     int64
		available   sql.NullInt64
		lastUpdated string
	)
	err := row.Scan(&acct.ID, &acct.UserID, &acct.ItemID, &acct.InstitutionID, &acct.InstitutionName,
		&acct.Name, &acct.Type, &balance, &available, &acct.Currency, &lastUpdated, &acct.IsActive)
	if err != nil {
		return domain.Account{}, err
	}

	acct.Balance = domain.NewMoney(balance, acct.Currency)
	if available.Valid {
		m := domain.NewMoney(available.Int64, acct.Currency)
		acct.AvailableBalance = &m
	}
	if acct.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}

func (s *SQLiteStore) GetAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

func (s *SQLiteStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, accountID)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *SQLiteStore) UpsertAccount(ctx context.Context, account domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	var available sql.NullInt64
	if account.AvailableBalance != nil {
		available = sql.NullInt64{Int64: account.AvailableBalance.Amount, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			item_id = excluded.item_id,
			institution_id = excluded.institution_id,
			institution_name = excluded.institution_name,
			name = excluded.name,
			type = excluded.type,
			balance_minor = excluded.balance_minor,
			available_minor = excluded.available_minor,
			currency = excluded.currency,
			last_updated = excluded.last_updated,
			is_active = excluded.is_active`,
		account.ID, account.UserID, account.ItemID, account.InstitutionID, account.InstitutionName,
		account.Name, account.Type, account.Balance.Amount, available, account.Currency,
		formatTime(account.LastUpdated), account.IsActive,
	)
	return err
}

func (s *SQLiteStore) GetTransactionsForAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, amount_minor, currency, description, category, date,
			is_recurring, merchant, location, status
		FROM transactions WHERE account_id = ?`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var (
			tx       domain.Transaction
			amount   int64
			currency string
			date     string
			merchant sql.NullString
			location sql.NullString
		)
		err := rows.Scan(&tx.ID, &tx.AccountID, &amount, &currency, &tx.Description, &tx.Category,
			&date, &tx.IsRecurring, &merchant, &location, &tx.Status)
		if err != nil {
			return nil, err
		}

		tx.Amount = domain.NewMoney(amount, currency)
		if tx.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		if merchant.Valid {
			tx.Merchant = &merchant.String
		}
		if location.Valid {
			tx.Location = &location.String
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortTransactions(txs)
	return txs, nil
}

func (s *SQLiteStore) UpsertTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, amount_minor, currency, description, category, date,
			is_recurring, merchant, location, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			amount_minor = excluded.amount_minor,
			currency = excluded.currency,
			description = excluded.description,
			category = excluded.category,
			date = excluded.date,
			is_recurring = excluded.is_recurring,
			merchant = excluded.merchant,
			location = excluded.location,
			status = excluded.status`,
		tx.ID, tx.AccountID, tx.Amount.Amount, tx.Amount.Currency, tx.Description, tx.Category,
		formatTime(tx.Date), tx.IsRecurring, nullString(tx.Merchant), nullString(tx.Location), tx.Status,
	)
	return err
}

func (s *SQLiteStore) GetAccessToken(ctx context.Context, itemID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT access_token FROM credentials WHERE item_id = ?`, itemID).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrCredentialNotFound
	}
	return token, err
}

func (s *SQLiteStore) SaveAccessToken(ctx context.Context, itemID, accessToken string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (item_id, access_token) VALUES (?, ?)
		ON CONFLICT(item_id) DO UPDATE SET access_token = excluded.access_token`,
		itemID, accessToken)
	return err
}

func (s *SQLiteStore) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) SaveNotification(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, kind, title, body, payload, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			body = excluded.body,
			payload = excluded.payload,
			state = excluded.state`,
		n.ID, n.UserID, n.Kind, n.Title, n.Body, string(payload), n.State, formatTime(n.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `SELECT id, user_id, kind, title, body, payload, state, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var (
			n         domain.Notification
			payload   string
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &payload, &n.State, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &n.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of notification %s: %w", n.ID, err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DismissPending(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET state = ? WHERE user_id = ? AND state = ?`,
		domain.NotificationStateDismissed, userID, domain.NotificationStatePending)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM processed_events WHERE event_id = ?`, eventID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) MarkEventProcessed(ctx context.Context, eventID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_events (event_id, processed_at) VALUES (?, ?)`,
		eventID, formatTime(time.Now()))
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
