// Package plaid is the remote data source backed by Plaid's read-only
// balance and transaction endpoints.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
)

const (
	sandboxBaseURL     = "https://sandbox.plaid.com"
	developmentBaseURL = "https://development.plaid.com"
	productionBaseURL  = "https://production.plaid.com"

	apiVersion      = "2020-09-14"
	defaultPageSize = 500
)

type Config struct {
	// Environment is sandbox, development or production.
	Environment string
	ClientID    string
	// Secret is never logged.
	Secret string
	// BaseURL overrides the environment's endpoint.
	BaseURL    string
	Timeout    time.Duration
	PageSize   int
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	pageSize   int
	logger     *logger.Logger
}

var _ domain.RemoteDataSource = (*Client)(nil)

func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, ErrNotConfigured
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch strings.ToLower(cfg.Environment) {
		case "production":
			baseURL = productionBaseURL
		case "development":
			baseURL = developmentBaseURL
		default:
			baseURL = sandboxBaseURL
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		pageSize:   pageSize,
		logger:     log,
	}, nil
}

// GetBalances returns real-time balances for every account of the item.
func (c *Client) GetBalances(ctx context.Context, accessToken string) ([]domain.AccountSnapshot, error) {
	var resp balanceGetResponse
	err := c.post(ctx, "/accounts/balance/get", map[string]interface{}{
		"access_token": accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.AccountSnapshot, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		snapshots = append(snapshots, a.toSnapshot())
	}

	c.logger.Debug(ctx, "Fetched balances",
		"accounts", len(snapshots),
		"request_id", resp.RequestID,
	)
	return snapshots, nil
}

// GetTransactions pages through /transactions/get for the inclusive date
// range. Records with an unparseable date are dropped.
func (c *Client) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time, accountIDs []string) ([]domain.TransactionSnapshot, error) {
	var out []domain.TransactionSnapshot
	offset := 0

	for {
		var resp transactionsGetResponse
		err := c.post(ctx, "/transactions/get", map[string]interface{}{
			"access_token": accessToken,
			"start_date":   startDate.UTC().Format(dateLayout),
			"end_date":     endDate.UTC().Format(dateLayout),
			"options": transactionsGetOptions{
				AccountIDs: accountIDs,
				Count:      c.pageSize,
				Offset:     offset,
			},
		}, &resp)
		if err != nil {
			return nil, err
		}

		for _, t := range resp.Transactions {
			snap, err := t.toSnapshot()
			if err != nil {
				c.logger.Warn(ctx, "Skipping transaction with invalid date",
					"transaction_id", t.TransactionID,
					"date", t.Date,
				)
				continue
			}
			out = append(out, snap)
		}

		offset += len(resp.Transactions)
		if len(resp.Transactions) == 0 || offset >= resp.TotalTransactions {
			break
		}
	}

	c.logger.Debug(ctx, "Fetched transactions",
		"count", len(out),
		"start_date", startDate.Format(dateLayout),
		"end_date", endDate.Format(dateLayout),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Plaid-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.RemoteError{
			Category: domain.RemoteErrorNetwork,
			Message:  "request to " + path + " failed",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{
			Category: domain.RemoteErrorUnknown,
			Message:  "decode " + path + " response",
			Err:      err,
		}
	}
	return nil
}
