// Package syncstatus tracks the lifecycle of sync cycles per user and per
// account and guards each scope against concurrent duplicate cycles.
package syncstatus

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
)

// Scope identifies one sync unit. An empty AccountID is the user-wide scope.
type Scope struct {
	UserID    string
	AccountID string
}

func UserScope(userID string) Scope {
	return Scope{UserID: userID}
}

func AccountScope(userID, accountID string) Scope {
	return Scope{UserID: userID, AccountID: accountID}
}

func (s Scope) String() string {
	if s.AccountID == "" {
		return s.UserID
	}
	return s.UserID + ":" + s.AccountID
}

// Snapshot is the observable state of one scope.
type Snapshot struct {
	UserID    string            `json:"user_id"`
	AccountID string            `json:"account_id,omitempty"`
	Status    domain.SyncStatus `json:"status"`
	CycleID   string            `json:"cycle_id,omitempty"`
	LastError *domain.SyncError `json:"last_error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (s Snapshot) Scope() Scope {
	return Scope{UserID: s.UserID, AccountID: s.AccountID}
}

// Mirror receives every transition, e.g. to expose status outside the process.
type Mirror interface {
	Publish(ctx context.Context, snap Snapshot) error
}

// Loader reads back what a Mirror stored, possibly by an earlier process.
type Loader interface {
	Load(ctx context.Context, scope Scope) (Snapshot, bool, error)
}

type entry struct {
	snap   Snapshot
	cancel context.CancelFunc
}

type Manager struct {
	// emitMu is held from a state change until its emission finishes, so
	// subscribers and the mirror see transitions in the order they happened.
	emitMu  sync.Mutex
	mu      sync.Mutex
	entries map[Scope]*entry
	subs    map[string]map[int]chan Snapshot
	nextSub int
	mirror  Mirror
	now     func() time.Time
	logger  *logger.Logger
}

type Option func(*Manager)

func WithMirror(m Mirror) Option {
	return func(mgr *Manager) {
		mgr.mirror = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(mgr *Manager) {
		mgr.now = now
	}
}

func NewManager(log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		entries: make(map[Scope]*entry),
		subs:    make(map[string]map[int]chan Snapshot),
		now:     time.Now,
		logger:  log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin starts a new cycle for scope. The returned context is cancelled by
// Cancel or when the cycle finishes. A scope already IN_PROGRESS is rejected
// with domain.ErrSyncInProgress.
func (m *Manager) Begin(ctx context.Context, scope Scope) (context.Context, string, error) {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	if e, ok := m.entries[scope]; ok && e.snap.Status == domain.SyncStatusInProgress {
		m.mu.Unlock()
		return ctx, e.snap.CycleID, domain.ErrSyncInProgress
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	cycleID := uuid.NewString()
	snap := Snapshot{
		UserID:    scope.UserID,
		AccountID: scope.AccountID,
		Status:    domain.SyncStatusInProgress,
		CycleID:   cycleID,
		UpdatedAt: m.now(),
	}
	m.entries[scope] = &entry{snap: snap, cancel: cancel}
	m.mu.Unlock()

	m.emit(ctx, snap)
	return logger.WithCycleID(cycleCtx, cycleID), cycleID, nil
}

// Complete moves the cycle to COMPLETED. lastErr records account failures of
// a partially successful cycle and may be nil.
func (m *Manager) Complete(ctx context.Context, scope Scope, cycleID string, lastErr *domain.SyncError) error {
	return m.finish(ctx, scope, cycleID, domain.SyncStatusCompleted, lastErr)
}

func (m *Manager) Fail(ctx context.Context, scope Scope, cycleID string, syncErr *domain.SyncError) error {
	return m.finish(ctx, scope, cycleID, domain.SyncStatusFailed, syncErr)
}

// Abort moves a single cycle to CANCELLED, e.g. when its caller went away.
func (m *Manager) Abort(ctx context.Context, scope Scope, cycleID string) error {
	return m.finish(ctx, scope, cycleID, domain.SyncStatusCancelled,
		domain.NewSyncError(domain.SyncErrorCancelled, scope.AccountID, nil))
}

func (m *Manager) finish(ctx context.Context, scope Scope, cycleID string, status domain.SyncStatus, syncErr *domain.SyncError) error {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	e, ok := m.entries[scope]
	if !ok || e.snap.CycleID != cycleID || e.snap.Status != domain.SyncStatusInProgress {
		m.mu.Unlock()
		return domain.ErrCycleNotActive
	}

	e.snap.Status = status
	e.snap.LastError = syncErr
	e.snap.UpdatedAt = m.now()
	e.cancel()
	snap := e.snap
	m.mu.Unlock()

	m.emit(ctx, snap)
	return nil
}

// Cancel cancels every in-flight cycle of the user and reports how many
// scopes moved to CANCELLED.
func (m *Manager) Cancel(ctx context.Context, userID string) int {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	var cancelled []Snapshot
	for scope, e := range m.entries {
		if scope.UserID != userID || e.snap.Status != domain.SyncStatusInProgress {
			continue
		}
		e.snap.Status = domain.SyncStatusCancelled
		e.snap.LastError = domain.NewSyncError(domain.SyncErrorCancelled, scope.AccountID, nil)
		e.snap.UpdatedAt = m.now()
		e.cancel()
		cancelled = append(cancelled, e.snap)
	}
	m.mu.Unlock()

	for _, snap := range cancelled {
		m.emit(ctx, snap)
	}
	return len(cancelled)
}

// Lookup returns the state of one scope; unknown scopes are IDLE.
func (m *Manager) Lookup(scope Scope) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[scope]; ok {
		return e.snap
	}
	return Snapshot{UserID: scope.UserID, AccountID: scope.AccountID, Status: domain.SyncStatusIdle}
}

// Get returns the user's current status: an in-flight scope if any, otherwise
// the most recently updated one.
func (m *Manager) Get(userID string) Snapshot {
	var current *Snapshot
	for _, snap := range m.Scopes(userID) {
		snap := snap
		switch {
		case current == nil:
			current = &snap
		case snap.Status == domain.SyncStatusInProgress && current.Status != domain.SyncStatusInProgress:
			current = &snap
		case (snap.Status == domain.SyncStatusInProgress) == (current.Status == domain.SyncStatusInProgress) &&
			snap.UpdatedAt.After(current.UpdatedAt):
			current = &snap
		}
	}
	if current == nil {
		return Snapshot{UserID: userID, Status: domain.SyncStatusIdle}
	}
	return *current
}

// Recall is Get with a fallback to the mirror when this process has not seen
// the user yet, e.g. right after a restart. A mirrored IN_PROGRESS belongs to
// a cycle no longer running here and is reported as IDLE.
func (m *Manager) Recall(ctx context.Context, userID string) Snapshot {
	m.mu.Lock()
	known := false
	for scope := range m.entries {
		if scope.UserID == userID {
			known = true
			break
		}
	}
	m.mu.Unlock()

	loader, ok := m.mirror.(Loader)
	if known || !ok {
		return m.Get(userID)
	}

	snap, found, err := loader.Load(ctx, UserScope(userID))
	if err != nil {
		m.logger.Warn(ctx, "Failed to load mirrored sync status",
			"user_id", userID,
			"error", err,
		)
		return m.Get(userID)
	}
	if !found {
		return m.Get(userID)
	}
	if snap.Status == domain.SyncStatusInProgress {
		snap.Status = domain.SyncStatusIdle
		snap.CycleID = ""
	}
	return snap
}

// Scopes lists every known scope of the user, user-wide scope first.
func (m *Manager) Scopes(userID string) []Snapshot {
	m.mu.Lock()
	var out []Snapshot
	for scope, e := range m.entries {
		if scope.UserID == userID {
			out = append(out, e.snap)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

// Subscribe streams the user's transitions until the returned func is called.
// Slow subscribers miss transitions rather than block the sync.
func (m *Manager) Subscribe(userID string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 16)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	if m.subs[userID] == nil {
		m.subs[userID] = make(map[int]chan Snapshot)
	}
	m.subs[userID][id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[userID], id)
			if len(m.subs[userID]) == 0 {
				delete(m.subs, userID)
			}
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) emit(ctx context.Context, snap Snapshot) {
	m.logger.Debug(ctx, "Sync status changed",
		"scope", snap.Scope().String(),
		"status", snap.Status,
		"cycle_id", snap.CycleID,
	)

	m.mu.Lock()
	for _, ch := range m.subs[snap.UserID] {
		select {
		case ch <- snap:
		default:
		}
	}
	m.mu.Unlock()

	if m.mirror == nil {
		return
	}
	// The cycle context may already be cancelled; the mirror write must not be.
	if err := m.mirror.Publish(context.WithoutCancel(ctx), snap); err != nil {
		m.logger.Warn(ctx, "Failed to mirror sync status",
			"scope", snap.Scope().String(),
			"error", err,
		)
	}
}
