package conflict

import (
	"context"
	"testing"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTransaction() domain.Transaction {
	return domain.Transaction{
		ID:          "tx-1",
		AccountID:   "acc-1",
		Amount:      domain.NewMoney(-2599, "USD"),
		Description: "GROCERY MART #12",
		Category:    "groceries",
		Date:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:      domain.TransactionStatusPosted,
	}
}

func TestDetect_IdenticalIsNotAConflict(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	tx := baseTransaction()

	_, ok, err := r.Detect(tx, tx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDetect_KeyMismatch(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	local := baseTransaction()
	remote := baseTransaction()
	remote.ID = "tx-2"

	_, _, err := r.Detect(local, remote)
	assert.Error(t, err)
}

func TestDetect_Classification(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
		want   domain.ConflictType
		fields []string
	}{
		{
			name:   "amount changed",
			mutate: func(tx *domain.Transaction) { tx.Amount = domain.NewMoney(-2699, "USD") },
			want:   domain.ConflictTypeModifiedTransaction,
			fields: []string{FieldAmount},
		},
		{
			name:   "description changed",
			mutate: func(tx *domain.Transaction) { tx.Description = "GROCERY MART" },
			want:   domain.ConflictTypeModifiedTransaction,
			fields: []string{FieldDescription},
		},
		{
			name:   "pending to posted",
			mutate: func(tx *domain.Transaction) { tx.Status = domain.TransactionStatusCancelled },
			want:   domain.ConflictTypeStatusChanged,
			fields: []string{FieldStatus},
		},
		{
			name:   "category and status",
			mutate: func(tx *domain.Transaction) { tx.Category = "food"; tx.Status = domain.TransactionStatusPending },
			want:   domain.ConflictTypeMetadataChanged,
			fields: []string{FieldCategory, FieldStatus},
		},
	}

	r := NewResolver(DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := baseTransaction()
			remote := baseTransaction()
			tt.mutate(&remote)

			details, ok, err := r.Detect(local, remote)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, details.Type)
			assert.Equal(t, tt.fields, details.ChangedFields)
			assert.Equal(t, domain.ResolutionUseRemote, details.Strategy)
		})
	}
}

func TestResolve_DefaultUsesRemote(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	local := baseTransaction()
	remote := baseTransaction()
	remote.Amount = domain.NewMoney(-3000, "USD")
	remote.Description = "GROCERY MART #12 REFUND ADJ"

	details, ok, err := r.Detect(local, remote)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.ConflictTypeModifiedTransaction, details.Type)

	res, err := r.Resolve(context.Background(), details)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionUseRemote, res.Strategy)
	assert.True(t, res.Result.ContentEqual(remote))
	assert.True(t, res.RequiresWrite())
}

func TestResolve_MergeKeepsLocalCategory(t *testing.T) {
	r := NewResolver(Policy{Strategy: domain.ResolutionMerge})
	local := baseTransaction()
	local.Category = "household"
	local.IsRecurring = true
	remote := baseTransaction()
	remote.Amount = domain.NewMoney(-2000, "USD")
	remote.Category = "groceries"

	details, ok, err := r.Detect(local, remote)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := r.Resolve(context.Background(), details)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionMerge, res.Strategy)
	assert.Equal(t, remote.Amount, res.Result.Amount)
	assert.Equal(t, "household", res.Result.Category)
	assert.True(t, res.Result.IsRecurring)
}

func TestResolve_LocalAndManualDoNotWrite(t *testing.T) {
	for _, strategy := range []domain.ResolutionStrategy{domain.ResolutionUseLocal, domain.ResolutionManual} {
		r := NewResolver(Policy{Strategy: strategy})
		local := baseTransaction()
		remote := baseTransaction()
		remote.Description = "changed"

		details, _, err := r.Detect(local, remote)
		require.NoError(t, err)

		res, err := r.Resolve(context.Background(), details)
		require.NoError(t, err)
		assert.True(t, res.Result.ContentEqual(local))
		assert.False(t, res.RequiresWrite())
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	r := NewResolver(DefaultPolicy())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, domain.ConflictDetails{RecordID: "tx-1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("use_remote")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionUseRemote, s)

	s, err = ParseStrategy("merge")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionMerge, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionUseRemote, s)

	_, err = ParseStrategy("coin_flip")
	assert.ErrorIs(t, err, domain.ErrUnsupportedStrategy)
}

func TestDescriptionSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, DescriptionSimilarity("Coffee", "COFFEE"))
	assert.InDelta(t, 0.75, DescriptionSimilarity("ABCD", "ABCX"), 0.0001)
	assert.Equal(t, 0.0, DescriptionSimilarity("AAAA", "BBBB"))
}
