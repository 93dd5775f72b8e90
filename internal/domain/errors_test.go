package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError_RemoteCategories(t *testing.T) {
	tests := []struct {
		category RemoteErrorCategory
		want     SyncErrorKind
	}{
		{RemoteErrorAuthentication, SyncErrorAuth},
		{RemoteErrorRateLimit, SyncErrorRateLimit},
		{RemoteErrorInstitutionDown, SyncErrorInstitutionDown},
		{RemoteErrorInstitutionUnsupported, SyncErrorInstitutionUnsupported},
		{RemoteErrorItemNotFound, SyncErrorItemNotFound},
		{RemoteErrorConsentRevoked, SyncErrorConsentRevoked},
		{RemoteErrorNetwork, SyncErrorNetwork},
		{RemoteErrorUnknown, SyncErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := fmt.Errorf("fetch balances: %w", NewRemoteError(tt.category, "CODE", "boom"))
			syncErr := ClassifyError(err, "acc-1")
			assert.Equal(t, tt.want, syncErr.Kind)
			assert.Equal(t, "acc-1", syncErr.AccountID)
		})
	}
}

func TestClassifyError_LocalErrors(t *testing.T) {
	assert.Nil(t, ClassifyError(nil, ""))
	assert.Equal(t, SyncErrorCancelled, ClassifyError(context.Canceled, "").Kind)
	assert.Equal(t, SyncErrorInProgress, ClassifyError(ErrSyncInProgress, "").Kind)
	assert.Equal(t, SyncErrorAuth, ClassifyError(ErrCredentialNotFound, "").Kind)
	assert.Equal(t, SyncErrorUnknown, ClassifyError(errors.New("disk full"), "").Kind)
}

func TestClassifyError_KeepsSyncError(t *testing.T) {
	original := NewSyncError(SyncErrorRateLimit, "", errors.New("slow down"))
	classified := ClassifyError(fmt.Errorf("wrapped: %w", original), "acc-9")

	assert.Equal(t, SyncErrorRateLimit, classified.Kind)
	assert.Equal(t, "acc-9", classified.AccountID)
	assert.Empty(t, original.AccountID)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRemoteError(RemoteErrorRateLimit, "", "")))
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", NewRemoteError(RemoteErrorInstitutionDown, "", ""))))
	assert.True(t, IsRetryable(NewRemoteError(RemoteErrorNetwork, "", "")))
	assert.False(t, IsRetryable(NewRemoteError(RemoteErrorAuthentication, "", "")))
	assert.False(t, IsRetryable(NewRemoteError(RemoteErrorConsentRevoked, "", "")))
	assert.False(t, IsRetryable(NewRemoteError(RemoteErrorInstitutionUnsupported, "", "")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestSyncError_UserMessage(t *testing.T) {
	err := NewSyncError(SyncErrorAuth, "acc-1", nil)
	assert.True(t, err.RequiresReauth())
	assert.Contains(t, err.UserMessage(), "re-authenticated")
	assert.Contains(t, err.Error(), "acc-1")
}
