// Package conflict classifies divergent local/remote transaction pairs and
// decides how each pair is resolved. It never touches storage; the caller
// applies the returned Resolution.
package conflict

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/grachmannico95/finsync/internal/domain"
)

// Field names reported in ConflictDetails.ChangedFields.
const (
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldRecurring   = "is_recurring"
	FieldMerchant    = "merchant"
	FieldLocation    = "location"
	FieldStatus      = "status"
)

// Policy selects the resolution applied to every detected conflict.
type Policy struct {
	Strategy domain.ResolutionStrategy
}

// DefaultPolicy treats the remote ledger as authoritative.
func DefaultPolicy() Policy {
	return Policy{Strategy: domain.ResolutionUseRemote}
}

// ParseStrategy maps a config value such as "use_remote" onto a strategy.
func ParseStrategy(s string) (domain.ResolutionStrategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(domain.ResolutionUseRemote):
		return domain.ResolutionUseRemote, nil
	case string(domain.ResolutionUseLocal):
		return domain.ResolutionUseLocal, nil
	case string(domain.ResolutionMerge):
		return domain.ResolutionMerge, nil
	case string(domain.ResolutionManual):
		return domain.ResolutionManual, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedStrategy, s)
	}
}

type Resolver struct {
	policy Policy
}

func NewResolver(policy Policy) *Resolver {
	if policy.Strategy == "" {
		policy.Strategy = domain.ResolutionUseRemote
	}
	return &Resolver{policy: policy}
}

// Detect compares two versions of the same transaction. ok is false when the
// versions are identical.
func (r *Resolver) Detect(local, remote domain.Transaction) (details domain.ConflictDetails, ok bool, err error) {
	if local.ID != remote.ID {
		return domain.ConflictDetails{}, false, fmt.Errorf("conflict key mismatch: local %q remote %q", local.ID, remote.ID)
	}

	changed := ChangedFields(local, remote)
	if len(changed) == 0 {
		return domain.ConflictDetails{}, false, nil
	}

	return domain.ConflictDetails{
		RecordID:      local.ID,
		Type:          classify(changed),
		Local:         local,
		Remote:        remote,
		ChangedFields: changed,
		Similarity:    DescriptionSimilarity(local.Description, remote.Description),
		Strategy:      r.policy.Strategy,
	}, true, nil
}

// Resolve applies the policy to a detected conflict.
func (r *Resolver) Resolve(ctx context.Context, details domain.ConflictDetails) (domain.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Resolution{}, err
	}

	strategy := details.Strategy
	if strategy == "" {
		strategy = r.policy.Strategy
	}

	res := domain.Resolution{Details: details, Strategy: strategy}

	switch strategy {
	case domain.ResolutionUseRemote:
		res.Result = details.Remote
	case domain.ResolutionUseLocal, domain.ResolutionManual:
		res.Result = details.Local
	case domain.ResolutionMerge:
		res.Result = merge(details.Local, details.Remote)
	default:
		return domain.Resolution{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedStrategy, strategy)
	}

	return res, nil
}

// merge keeps the remote ledger fields and the user's local categorisation.
func merge(local, remote domain.Transaction) domain.Transaction {
	merged := remote
	if local.Category != "" {
		merged.Category = local.Category
	}
	merged.IsRecurring = local.IsRecurring || remote.IsRecurring
	return merged
}

func classify(changed []string) domain.ConflictType {
	onlyStatus := true
	for _, f := range changed {
		switch f {
		case FieldAmount, FieldDescription:
			return domain.ConflictTypeModifiedTransaction
		case FieldStatus:
		default:
			onlyStatus = false
		}
	}
	if onlyStatus {
		return domain.ConflictTypeStatusChanged
	}
	return domain.ConflictTypeMetadataChanged
}

// ChangedFields lists the synced fields that differ between a and b.
func ChangedFields(a, b domain.Transaction) []string {
	var changed []string
	if !a.Amount.Equal(b.Amount) {
		changed = append(changed, FieldAmount)
	}
	if a.Description != b.Description {
		changed = append(changed, FieldDescription)
	}
	if a.Category != b.Category {
		changed = append(changed, FieldCategory)
	}
	if !a.Date.Equal(b.Date) {
		changed = append(changed, FieldDate)
	}
	if a.IsRecurring != b.IsRecurring {
		changed = append(changed, FieldRecurring)
	}
	if !samePtr(a.Merchant, b.Merchant) {
		changed = append(changed, FieldMerchant)
	}
	if !samePtr(a.Location, b.Location) {
		changed = append(changed, FieldLocation)
	}
	if a.Status != b.Status {
		changed = append(changed, FieldStatus)
	}
	return changed
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DescriptionSimilarity returns 1 for identical descriptions and approaches 0
// as the case-insensitive edit distance grows.
func DescriptionSimilarity(a, b string) float64 {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
