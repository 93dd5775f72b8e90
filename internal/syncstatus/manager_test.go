package syncstatus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMirror struct {
	mu    sync.Mutex
	snaps []Snapshot
	err   error
}

func (r *recordingMirror) Publish(ctx context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
	return r.err
}

func (r *recordingMirror) statuses() []domain.SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SyncStatus, 0, len(r.snaps))
	for _, s := range r.snaps {
		out = append(out, s.Status)
	}
	return out
}

func TestManager_UnknownScopeIsIdle(t *testing.T) {
	m := NewManager(logger.NewNop())

	assert.Equal(t, domain.SyncStatusIdle, m.Get("user-1").Status)
	assert.Equal(t, domain.SyncStatusIdle, m.Lookup(AccountScope("user-1", "acc-1")).Status)
}

func TestManager_Lifecycle(t *testing.T) {
	mirror := &recordingMirror{}
	m := NewManager(logger.NewNop(), WithMirror(mirror))
	scope := UserScope("user-1")

	cycleCtx, cycleID, err := m.Begin(context.Background(), scope)
	require.NoError(t, err)
	assert.NotEmpty(t, cycleID)
	assert.Equal(t, cycleID, logger.GetCycleID(cycleCtx))
	assert.Equal(t, domain.SyncStatusInProgress, m.Get("user-1").Status)

	require.NoError(t, m.Complete(context.Background(), scope, cycleID, nil))
	assert.Equal(t, domain.SyncStatusCompleted, m.Get("user-1").Status)
	assert.ErrorIs(t, cycleCtx.Err(), context.Canceled)

	// Next cycle starts from a terminal state
	_, second, err := m.Begin(context.Background(), scope)
	require.NoError(t, err)
	assert.NotEqual(t, cycleID, second)

	syncErr := domain.NewSyncError(domain.SyncErrorNetwork, "", errors.New("timeout"))
	require.NoError(t, m.Fail(context.Background(), scope, second, syncErr))

	snap := m.Get("user-1")
	assert.Equal(t, domain.SyncStatusFailed, snap.Status)
	assert.Equal(t, syncErr, snap.LastError)

	assert.Equal(t, []domain.SyncStatus{
		domain.SyncStatusInProgress,
		domain.SyncStatusCompleted,
		domain.SyncStatusInProgress,
		domain.SyncStatusFailed,
	}, mirror.statuses())
}

func TestManager_RejectsConcurrentCycle(t *testing.T) {
	m := NewManager(logger.NewNop())
	scope := AccountScope("user-1", "acc-1")

	_, first, err := m.Begin(context.Background(), scope)
	require.NoError(t, err)

	_, inFlight, err := m.Begin(context.Background(), scope)
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)
	assert.Equal(t, first, inFlight)

	// Other scopes are independent
	_, _, err = m.Begin(context.Background(), AccountScope("user-1", "acc-2"))
	assert.NoError(t, err)
}

func TestManager_ConcurrentBeginOnlyOneWins(t *testing.T) {
	m := NewManager(logger.NewNop())
	scope := UserScope("user-1")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := m.Begin(context.Background(), scope); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager(logger.NewNop())

	userCtx, userCycle, err := m.Begin(context.Background(), UserScope("user-1"))
	require.NoError(t, err)
	acctCtx, _, err := m.Begin(context.Background(), AccountScope("user-1", "acc-1"))
	require.NoError(t, err)
	otherCtx, _, err := m.Begin(context.Background(), UserScope("user-2"))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Cancel(context.Background(), "user-1"))

	assert.ErrorIs(t, userCtx.Err(), context.Canceled)
	assert.ErrorIs(t, acctCtx.Err(), context.Canceled)
	assert.NoError(t, otherCtx.Err())
	assert.Equal(t, domain.SyncStatusCancelled, m.Lookup(UserScope("user-1")).Status)
	assert.Equal(t, domain.SyncStatusCancelled, m.Lookup(AccountScope("user-1", "acc-1")).Status)

	// The cancelled cycle can no longer finish
	err = m.Complete(context.Background(), UserScope("user-1"), userCycle, nil)
	assert.ErrorIs(t, err, domain.ErrCycleNotActive)
	assert.Equal(t, domain.SyncStatusCancelled, m.Lookup(UserScope("user-1")).Status)

	// Idempotent
	assert.Equal(t, 0, m.Cancel(context.Background(), "user-1"))
}

func TestManager_FinishWithStaleCycle(t *testing.T) {
	m := NewManager(logger.NewNop())
	scope := UserScope("user-1")

	err := m.Complete(context.Background(), scope, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrCycleNotActive)

	_, cycleID, err := m.Begin(context.Background(), scope)
	require.NoError(t, err)

	err = m.Fail(context.Background(), scope, "other-cycle", nil)
	assert.ErrorIs(t, err, domain.ErrCycleNotActive)
	assert.Equal(t, cycleID, m.Lookup(scope).CycleID)
}

func TestManager_GetPrefersInFlightScope(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(logger.NewNop(), WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))

	_, acctCycle, err := m.Begin(context.Background(), AccountScope("user-1", "acc-1"))
	require.NoError(t, err)
	_, userCycle, err := m.Begin(context.Background(), UserScope("user-1"))
	require.NoError(t, err)
	require.NoError(t, m.Complete(context.Background(), UserScope("user-1"), userCycle, nil))

	snap := m.Get("user-1")
	assert.Equal(t, domain.SyncStatusInProgress, snap.Status)
	assert.Equal(t, "acc-1", snap.AccountID)

	require.NoError(t, m.Complete(context.Background(), AccountScope("user-1", "acc-1"), acctCycle, nil))
	snap = m.Get("user-1")
	assert.Equal(t, domain.SyncStatusCompleted, snap.Status)
	assert.Equal(t, "acc-1", snap.AccountID)

	scopes := m.Scopes("user-1")
	require.Len(t, scopes, 2)
	assert.Empty(t, scopes[0].AccountID)
}

func TestManager_Subscribe(t *testing.T) {
	m := NewManager(logger.NewNop())
	updates, unsubscribe := m.Subscribe("user-1")

	_, cycleID, err := m.Begin(context.Background(), UserScope("user-1"))
	require.NoError(t, err)
	_, _, err = m.Begin(context.Background(), UserScope("user-2"))
	require.NoError(t, err)
	require.NoError(t, m.Complete(context.Background(), UserScope("user-1"), cycleID, nil))

	first := <-updates
	assert.Equal(t, domain.SyncStatusInProgress, first.Status)
	second := <-updates
	assert.Equal(t, domain.SyncStatusCompleted, second.Status)
	assert.Equal(t, "user-1", second.UserID)

	unsubscribe()
	unsubscribe()

	_, ok := <-updates
	assert.False(t, ok)
}

func TestManager_MirrorFailureDoesNotBlockTransition(t *testing.T) {
	mirror := &recordingMirror{err: errors.New("redis down")}
	m := NewManager(logger.NewNop(), WithMirror(mirror))

	_, _, err := m.Begin(context.Background(), UserScope("user-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.SyncStatusInProgress, m.Get("user-1").Status)
	assert.Len(t, mirror.statuses(), 1)
}

func TestRedisKeys(t *testing.T) {
	assert.Equal(t, "sync:status:user-1", RedisKey(UserScope("user-1")))
	assert.Equal(t, "sync:status:user-1:acc-1", RedisKey(AccountScope("user-1", "acc-1")))
	assert.Equal(t, "sync:status:events:user-1", RedisChannel("user-1"))
}

func TestManager_Abort(t *testing.T) {
	m := NewManager(logger.NewNop())
	scope := AccountScope("user-1", "acc-1")

	cycleCtx, cycleID, err := m.Begin(context.Background(), scope)
	require.NoError(t, err)

	require.NoError(t, m.Abort(context.Background(), scope, cycleID))

	snap := m.Lookup(scope)
	assert.Equal(t, domain.SyncStatusCancelled, snap.Status)
	require.NotNil(t, snap.LastError)
	assert.Equal(t, domain.SyncErrorCancelled, snap.LastError.Kind)
	assert.Equal(t, "acc-1", snap.LastError.AccountID)
	assert.ErrorIs(t, cycleCtx.Err(), context.Canceled)

	// A new cycle may start once the aborted one is terminal.
	_, next, err := m.Begin(context.Background(), scope)
	require.NoError(t, err)
	assert.NotEqual(t, cycleID, next)
}

// slowMirror stalls IN_PROGRESS writes so a later transition can overtake them.
type slowMirror struct {
	recordingMirror
	entered chan struct{}
	delay   time.Duration
}

func (s *slowMirror) Publish(ctx context.Context, snap Snapshot) error {
	if snap.Status == domain.SyncStatusInProgress {
		close(s.entered)
		time.Sleep(s.delay)
	}
	return s.recordingMirror.Publish(ctx, snap)
}

func TestManager_MirrorKeepsTransitionOrder(t *testing.T) {
	// Setup
	mirror := &slowMirror{entered: make(chan struct{}), delay: 50 * time.Millisecond}
	m := NewManager(logger.NewNop(), WithMirror(mirror))

	// Execute
	began := make(chan error, 1)
	go func() {
		_, _, err := m.Begin(context.Background(), UserScope("user-1"))
		began <- err
	}()
	<-mirror.entered
	cancelled := m.Cancel(context.Background(), "user-1")
	require.NoError(t, <-began)

	// Assert
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, domain.SyncStatusCancelled, m.Get("user-1").Status)
	assert.Equal(t, []domain.SyncStatus{
		domain.SyncStatusInProgress,
		domain.SyncStatusCancelled,
	}, mirror.statuses())
}

type loadingMirror struct {
	recordingMirror
	stored map[Scope]Snapshot
	err    error
}

func (l *loadingMirror) Load(ctx context.Context, scope Scope) (Snapshot, bool, error) {
	if l.err != nil {
		return Snapshot{}, false, l.err
	}
	snap, ok := l.stored[scope]
	return snap, ok, nil
}

func TestManager_RecallFallsBackToMirror(t *testing.T) {
	failed := Snapshot{
		UserID:    "user-1",
		Status:    domain.SyncStatusFailed,
		CycleID:   "cycle-old",
		LastError: domain.NewSyncError(domain.SyncErrorNetwork, "", nil),
	}
	orphan := Snapshot{UserID: "user-2", Status: domain.SyncStatusInProgress, CycleID: "cycle-dead"}

	tests := []struct {
		name   string
		mirror *loadingMirror
		userID string
		expect domain.SyncStatus
		cycle  string
	}{
		{
			name:   "mirrored terminal state",
			mirror: &loadingMirror{stored: map[Scope]Snapshot{UserScope("user-1"): failed}},
			userID: "user-1",
			expect: domain.SyncStatusFailed,
			cycle:  "cycle-old",
		},
		{
			name:   "orphaned in progress reads as idle",
			mirror: &loadingMirror{stored: map[Scope]Snapshot{UserScope("user-2"): orphan}},
			userID: "user-2",
			expect: domain.SyncStatusIdle,
		},
		{
			name:   "nothing mirrored",
			mirror: &loadingMirror{stored: map[Scope]Snapshot{}},
			userID: "user-3",
			expect: domain.SyncStatusIdle,
		},
		{
			name:   "mirror unavailable",
			mirror: &loadingMirror{err: errors.New("redis down")},
			userID: "user-1",
			expect: domain.SyncStatusIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			m := NewManager(logger.NewNop(), WithMirror(tt.mirror))

			// Execute
			snap := m.Recall(context.Background(), tt.userID)

			// Assert
			assert.Equal(t, tt.expect, snap.Status)
			assert.Equal(t, tt.cycle, snap.CycleID)
		})
	}
}

func TestManager_RecallPrefersLocalState(t *testing.T) {
	// Setup
	mirror := &loadingMirror{stored: map[Scope]Snapshot{
		UserScope("user-1"): {UserID: "user-1", Status: domain.SyncStatusFailed},
	}}
	m := NewManager(logger.NewNop(), WithMirror(mirror))
	_, cycleID, err := m.Begin(context.Background(), UserScope("user-1"))
	require.NoError(t, err)

	// Execute
	snap := m.Recall(context.Background(), "user-1")

	// Assert
	assert.Equal(t, domain.SyncStatusInProgress, snap.Status)
	assert.Equal(t, cycleID, snap.CycleID)
}
