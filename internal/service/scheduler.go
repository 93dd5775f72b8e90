package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grachmannico95/finsync/internal/domain"
	"github.com/grachmannico95/finsync/pkg/logger"
)

// DeviceState is what the host reports about the device running the sync.
type DeviceState struct {
	NetworkAvailable bool `json:"network_available"`
	BatteryLevel     int  `json:"battery_level"`
	Charging         bool `json:"charging"`
}

// Conditions decides whether a background run may start now. reason explains
// a refusal and is empty otherwise.
type Conditions interface {
	Allow(ctx context.Context) (ok bool, reason string)
}

// DeviceMonitor holds the last reported DeviceState. Until the host reports
// anything it assumes a connected, charging device.
type DeviceMonitor struct {
	mu    sync.RWMutex
	state DeviceState
}

func NewDeviceMonitor() *DeviceMonitor {
	return &DeviceMonitor{state: DeviceState{NetworkAvailable: true, BatteryLevel: 100, Charging: true}}
}

func (m *DeviceMonitor) Update(state DeviceState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func (m *DeviceMonitor) State() DeviceState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// DeviceConditions refuses runs without network, or on low battery unless
// the device is charging.
type DeviceConditions struct {
	monitor    *DeviceMonitor
	minBattery int
}

func NewDeviceConditions(monitor *DeviceMonitor, minBattery int) *DeviceConditions {
	return &DeviceConditions{monitor: monitor, minBattery: minBattery}
}

func (c *DeviceConditions) Allow(ctx context.Context) (bool, string) {
	state := c.monitor.State()
	if !state.NetworkAvailable {
		return false, "network unavailable"
	}
	if state.BatteryLevel < c.minBattery && !state.Charging {
		return false, "battery low"
	}
	return true, ""
}

// DefaultSchedulerInterval replaces a non-positive interval.
const DefaultSchedulerInterval = 15 * time.Minute

// Scheduler runs IncrementalSync for every known user on a fixed interval.
type Scheduler struct {
	syncer     SyncService
	users      domain.UserDirectory
	conditions Conditions
	interval   time.Duration
	logger     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(syncService SyncService, users domain.UserDirectory, conditions Conditions, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	return &Scheduler{
		syncer:     syncService,
		users:      users,
		conditions: conditions,
		interval:   interval,
		logger:     log,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info(ctx, "Background sync scheduler started",
			"interval", s.interval,
		)

		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Background sync scheduler stopping")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs one pass over all users and returns how many were synced.
// Users are synced one after another to keep background load low.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	ctx = logger.WithTraceID(ctx, uuid.New().String())

	if ok, reason := s.conditions.Allow(ctx); !ok {
		s.logger.Info(ctx, "Skipping background sync",
			"reason", reason,
		)
		return 0
	}

	users, err := s.users.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error(ctx, "Failed to list users for background sync",
			"error", err,
		)
		return 0
	}

	synced := 0
	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		result := s.syncer.IncrementalSync(ctx, userID)
		if result.IsFailure() && result.Err.Kind == domain.SyncErrorInProgress {
			continue
		}
		synced++
	}

	s.logger.Info(ctx, "Background sync pass finished",
		"users", len(users),
		"synced", synced,
	)
	return synced
}
