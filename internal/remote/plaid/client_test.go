package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, pageSize int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		ClientID: "client-id",
		Secret:   "secret",
		BaseURL:  srv.URL,
		PageSize: pageSize,
	}, logger.NewNop())
	require.NoError(t, err)
	return client
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{ClientID: "id"}, logger.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_EnvironmentURL(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", productionBaseURL},
		{"Development", developmentBaseURL},
		{"sandbox", sandboxBaseURL},
		{"", sandboxBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			client, err := NewClient(Config{Environment: tt.env, ClientID: "id", Secret: "s"}, logger.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.baseURL)
		})
	}
}

func TestClient_GetBalances(t *testing.T) {
	// Setup
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/balance/get", r.URL.Path)
		assert.Equal(t, apiVersion, r.Header.Get("Plaid-Version"))
		body := decodeBody(t, r)
		assert.Equal(t, "access-token", body["access_token"])
		assert.Equal(t, "client-id", body["client_id"])

		_, _ = w.Write([]byte(`{
			"accounts": [
				{"account_id": "acc-1", "name": "Checking", "type": "depository", "subtype": "checking",
				 "balances": {"current": 1234.56, "available": 1200.5, "iso_currency_code": "USD"}},
				{"account_id": "acc-2", "name": "Home", "official_name": "Home Loan", "type": "loan", "subtype": "mortgage",
				 "balances": {"current": 250000, "available": null, "iso_currency_code": null, "unofficial_currency_code": "usd"}}
			],
			"request_id": "req-1"
		}`))
	}, 0)

	// Execute
	snapshots, err := client.GetBalances(context.Background(), "access-token")

	// Assert
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	assert.Equal(t, "acc-1", snapshots[0].AccountID)
	assert.Equal(t, domain.AccountTypeChecking, snapshots[0].Type)
	assert.Equal(t, domain.NewMoney(123456, "USD"), snapshots[0].Balance)
	require.NotNil(t, snapshots[0].AvailableBalance)
	assert.Equal(t, domain.NewMoney(120050, "USD"), *snapshots[0].AvailableBalance)

	assert.Equal(t, "Home Loan", snapshots[1].Name)
	assert.Equal(t, domain.AccountTypeMortgage, snapshots[1].Type)
	assert.Equal(t, "USD", snapshots[1].Currency)
	assert.Nil(t, snapshots[1].AvailableBalance)
}

func TestClient_GetTransactionsPaginates(t *testing.T) {
	// Setup
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body := decodeBody(t, r)
		assert.Equal(t, "2026-09-15", body["start_date"])
		assert.Equal(t, "2026-10-15", body["end_date"])

		options := body["options"].(map[string]interface{})
		assert.Equal(t, []interface{}{"acc-1"}, options["account_ids"])
		assert.EqualValues(t, 2, options["count"])

		switch options["offset"].(float64) {
		case 0:
			_, _ = w.Write([]byte(`{"total_transactions": 3, "transactions": [
				{"transaction_id": "tx-1", "account_id": "acc-1", "amount": 12.5, "iso_currency_code": "USD", "date": "2026-10-01",
				 "name": "COFFEE", "merchant_name": "Blue Bottle", "pending": false,
				 "personal_finance_category": {"primary": "FOOD_AND_DRINK"},
				 "location": {"city": "Oakland", "region": "CA"}},
				{"transaction_id": "tx-2", "account_id": "acc-1", "amount": -1000, "iso_currency_code": "USD", "date": "2026-10-02",
				 "name": "PAYROLL", "category": ["Transfer", "Payroll"], "pending": true}
			]}`))
		case 2:
			_, _ = w.Write([]byte(`{"total_transactions": 3, "transactions": [
				{"transaction_id": "tx-3", "account_id": "acc-1", "amount": 3, "iso_currency_code": "USD", "date": "not-a-date", "name": "BAD"}
			]}`))
		default:
			t.Errorf("unexpected offset %v", options["offset"])
		}
	}, 2)

	start := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	// Execute
	txs, err := client.GetTransactions(context.Background(), "access-token", start, end, []string{"acc-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, txs, 2)

	assert.Equal(t, domain.NewMoney(-1250, "USD"), txs[0].Amount)
	assert.Equal(t, "food_and_drink", txs[0].Category)
	require.NotNil(t, txs[0].Merchant)
	assert.Equal(t, "Blue Bottle", *txs[0].Merchant)
	require.NotNil(t, txs[0].Location)
	assert.Equal(t, "Oakland, CA", *txs[0].Location)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), txs[0].Date)

	assert.Equal(t, domain.NewMoney(100000, "USD"), txs[1].Amount)
	assert.Equal(t, "payroll", txs[1].Category)
	assert.True(t, txs[1].Pending)
	assert.Nil(t, txs[1].Merchant)
}

func TestClient_ErrorCategories(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category domain.RemoteErrorCategory
		code     string
	}{
		{"invalid token", 400, `{"error_type":"INVALID_INPUT","error_code":"INVALID_ACCESS_TOKEN","error_message":"bad token"}`, domain.RemoteErrorAuthentication, "INVALID_ACCESS_TOKEN"},
		{"login required", 400, `{"error_type":"ITEM_ERROR","error_code":"ITEM_LOGIN_REQUIRED"}`, domain.RemoteErrorAuthentication, "ITEM_LOGIN_REQUIRED"},
		{"rate limit code", 429, `{"error_type":"RATE_LIMIT_EXCEEDED","error_code":"RATE_LIMIT_EXCEEDED"}`, domain.RemoteErrorRateLimit, "RATE_LIMIT_EXCEEDED"},
		{"bare 429", 429, `slow down`, domain.RemoteErrorRateLimit, ""},
		{"institution down", 400, `{"error_type":"INSTITUTION_ERROR","error_code":"INSTITUTION_DOWN"}`, domain.RemoteErrorInstitutionDown, "INSTITUTION_DOWN"},
		{"unsupported", 400, `{"error_type":"INSTITUTION_ERROR","error_code":"INSTITUTION_NO_LONGER_SUPPORTED"}`, domain.RemoteErrorInstitutionUnsupported, "INSTITUTION_NO_LONGER_SUPPORTED"},
		{"item not found", 400, `{"error_type":"ITEM_ERROR","error_code":"ITEM_NOT_FOUND"}`, domain.RemoteErrorItemNotFound, "ITEM_NOT_FOUND"},
		{"consent revoked", 400, `{"error_type":"ITEM_ERROR","error_code":"USER_PERMISSION_REVOKED"}`, domain.RemoteErrorConsentRevoked, "USER_PERMISSION_REVOKED"},
		{"server error", 502, `<html>bad gateway</html>`, domain.RemoteErrorNetwork, ""},
		{"unknown", 400, `{"error_type":"INVALID_REQUEST","error_code":"MISSING_FIELDS"}`, domain.RemoteErrorUnknown, "MISSING_FIELDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, 0)

			_, err := client.GetBalances(context.Background(), "access-token")

			var remoteErr *domain.RemoteError
			require.True(t, errors.As(err, &remoteErr))
			assert.Equal(t, tt.category, remoteErr.Category)
			assert.Equal(t, tt.code, remoteErr.Code)
		})
	}
}

func TestClient_TransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, err := NewClient(Config{ClientID: "id", Secret: "s", BaseURL: srv.URL}, logger.NewNop())
	require.NoError(t, err)

	_, err = client.GetBalances(context.Background(), "access-token")

	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, domain.SyncErrorNetwork, domain.ClassifyError(err, "").Kind)
}

func TestClient_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accounts": []}`))
	}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetBalances(ctx, "access-token")

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsRetryable(err))
}

func TestAccountType(t *testing.T) {
	assert.Equal(t, domain.AccountTypeSavings, accountType("depository", "savings"))
	assert.Equal(t, domain.AccountTypeCredit, accountType("credit", "credit card"))
	assert.Equal(t, domain.AccountTypeInvestment, accountType("investment", "401k"))
	assert.Equal(t, domain.AccountTypeLoan, accountType("loan", "student"))
	assert.Equal(t, domain.AccountTypeChecking, accountType("other", ""))
}
