package plaid

import (
	"strings"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type balanceGetResponse struct {
	Accounts  []account `json:"accounts"`
	RequestID string    `json:"request_id"`
}

type account struct {
	AccountID    string   `json:"account_id"`
	Balances     balances `json:"balances"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
}

type balances struct {
	Available              *decimal.Decimal `json:"available"`
	Current                *decimal.Decimal `json:"current"`
	IsoCurrencyCode        string           `json:"iso_currency_code"`
	UnofficialCurrencyCode string           `json:"unofficial_currency_code"`
}

type transactionsGetOptions struct {
	AccountIDs []string `json:"account_ids,omitempty"`
	Count      int      `json:"count"`
	Offset     int      `json:"offset"`
}

type transactionsGetResponse struct {
	Transactions      []transaction `json:"transactions"`
	TotalTransactions int           `json:"total_transactions"`
	RequestID         string        `json:"request_id"`
}

type transaction struct {
	TransactionID           string                   `json:"transaction_id"`
	AccountID               string                   `json:"account_id"`
	Amount                  decimal.Decimal          `json:"amount"`
	IsoCurrencyCode         string                   `json:"iso_currency_code"`
	UnofficialCurrencyCode  string                   `json:"unofficial_currency_code"`
	Date                    string                   `json:"date"`
	Name                    string                   `json:"name"`
	MerchantName            string                   `json:"merchant_name"`
	Pending                 bool                     `json:"pending"`
	PendingTransactionID    string                   `json:"pending_transaction_id"`
	Category                []string                 `json:"category"`
	PersonalFinanceCategory *personalFinanceCategory `json:"personal_finance_category"`
	Location                *location                `json:"location"`
}

type personalFinanceCategory struct {
	Primary  string `json:"primary"`
	Detailed string `json:"detailed"`
}

type location struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

func currencyOf(iso, unofficial string) string {
	switch {
	case iso != "":
		return strings.ToUpper(iso)
	case unofficial != "":
		return strings.ToUpper(unofficial)
	default:
		return "USD"
	}
}

func accountType(typ, subtype string) domain.AccountType {
	switch typ {
	case "credit":
		return domain.AccountTypeCredit
	case "investment", "brokerage":
		return domain.AccountTypeInvestment
	case "loan":
		if subtype == "mortgage" || subtype == "home equity" {
			return domain.AccountTypeMortgage
		}
		return domain.AccountTypeLoan
	}
	if subtype == "savings" || subtype == "money market" || subtype == "cd" {
		return domain.AccountTypeSavings
	}
	return domain.AccountTypeChecking
}

func (a account) toSnapshot() domain.AccountSnapshot {
	currency := currencyOf(a.Balances.IsoCurrencyCode, a.Balances.UnofficialCurrencyCode)

	current := decimal.Zero
	if a.Balances.Current != nil {
		current = *a.Balances.Current
	}

	snap := domain.AccountSnapshot{
		AccountID: a.AccountID,
		Name:      a.Name,
		Type:      accountType(a.Type, a.Subtype),
		Balance:   domain.MoneyFromDecimal(current, currency),
		Currency:  currency,
	}
	if a.OfficialName != "" {
		snap.Name = a.OfficialName
	}
	if a.Balances.Available != nil {
		available := domain.MoneyFromDecimal(*a.Balances.Available, currency)
		snap.AvailableBalance = &available
	}
	return snap
}

// toSnapshot flips Plaid's sign convention (positive means money out) so
// debits come out negative.
func (t transaction) toSnapshot() (domain.TransactionSnapshot, error) {
	date, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return domain.TransactionSnapshot{}, err
	}

	currency := currencyOf(t.IsoCurrencyCode, t.UnofficialCurrencyCode)
	snap := domain.TransactionSnapshot{
		ID:                   t.TransactionID,
		AccountID:            t.AccountID,
		PendingTransactionID: t.PendingTransactionID,
		Amount:               domain.MoneyFromDecimal(t.Amount.Neg(), currency),
		Description:          t.Name,
		Category:             t.category(),
		Date:                 date,
		Pending:              t.Pending,
	}
	if t.MerchantName != "" {
		merchant := t.MerchantName
		snap.Merchant = &merchant
	}
	if t.Location != nil {
		if loc := t.Location.String(); loc != "" {
			snap.Location = &loc
		}
	}
	return snap, nil
}

func (t transaction) category() string {
	if t.PersonalFinanceCategory != nil && t.PersonalFinanceCategory.Primary != "" {
		return strings.ToLower(t.PersonalFinanceCategory.Primary)
	}
	if n := len(t.Category); n > 0 {
		return strings.ToLower(t.Category[n-1])
	}
	return ""
}

func (l location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.Region, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
