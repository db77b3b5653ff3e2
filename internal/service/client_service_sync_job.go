package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

const defaultSyncInterval = 30 * time.Second

// SchedulerOptions tunes a SyncScheduler.
type SchedulerOptions struct {
	Interval        time.Duration
	AutoSyncEnabled bool
	// MaxBackoff caps the window of skipped ticks after failures. Zero means
	// eight intervals.
	MaxBackoff time.Duration
	// PullInterval, when longer than Interval, lets idle ticks pass without
	// a cycle while nothing is pending and the last sync is recent enough.
	PullInterval time.Duration
	Clock        utils.Clock
	OnEvent      EventHandler
}

// SyncScheduler decides when sync cycles run. At most one cycle is in
// flight at any time.
type SyncScheduler struct {
	sync     *ClientSyncService
	storages *store.ClientStorages
	opts     SchedulerOptions
	clock    utils.Clock
	logger   *logger.Logger

	mu           sync.Mutex
	inFlight     bool
	state        models.SchedulerState
	failures     int
	backoffUntil time.Time
	handlers     []EventHandler

	runMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncScheduler creates a scheduler over syncService. It is idle until
// Start is called; TriggerNow works either way.
func NewSyncScheduler(syncService *ClientSyncService, storages *store.ClientStorages, opts SchedulerOptions, log *logger.Logger) *SyncScheduler {
	if opts.Interval <= 0 {
		opts.Interval = defaultSyncInterval
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 8 * opts.Interval
	}
	if opts.Clock == nil {
		opts.Clock = utils.NewRealClock()
	}

	s := &SyncScheduler{
		sync:     syncService,
		storages: storages,
		opts:     opts,
		clock:    opts.Clock,
		logger:   log,
		state:    models.SchedulerIdle,
	}
	if opts.OnEvent != nil {
		s.handlers = append(s.handlers, opts.OnEvent)
	}
	return s
}

// AddEventHandler registers another receiver of sync events.
func (s *SyncScheduler) AddEventHandler(h EventHandler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start launches the periodic loop when auto sync is enabled. A running
// loop is stopped first. The loop exits when ctx is done or Stop is called.
func (s *SyncScheduler) Start(ctx context.Context) {
	s.Stop()
	if !s.opts.AutoSyncEnabled {
		s.logger.Info().Str("func", "SyncScheduler.Start").Msg("auto sync disabled, periodic sync not started")
		return
	}

	s.runMu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.runMu.Unlock()

	ticker := s.clock.NewTicker(s.opts.Interval)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-ticker.C():
				s.tick(jobCtx)
			}
		}
	}()
}

// Stop cancels the periodic loop and waits for it to exit. Safe to call
// when the loop is not running.
func (s *SyncScheduler) Stop() {
	s.runMu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.runMu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// TriggerNow runs a cycle immediately, ignoring any backoff window. It
// returns false without doing anything if a cycle is already in flight.
func (s *SyncScheduler) TriggerNow(ctx context.Context) bool {
	return s.run(ctx, "manual")
}

// SetStrategy switches the conflict strategy for subsequent cycles.
func (s *SyncScheduler) SetStrategy(ctx context.Context, strategy models.Strategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("%w: %d", models.ErrUnknownStrategy, int(strategy))
	}
	if err := s.storages.State.SetStrategy(ctx, strategy); err != nil {
		s.logger.Err(err).Str("func", "SyncScheduler.SetStrategy").Msg("failed to persist strategy")
		return err
	}
	s.appendLog(ctx, models.LogInfo, "Conflict strategy set to "+strategy.String())
	return nil
}

// State returns the engine's current posture.
func (s *SyncScheduler) State() models.SyncState {
	st := s.storages.State.Snapshot()
	st.Pending = s.storages.Pending.Entries()
	s.mu.Lock()
	st.InFlight = s.inFlight
	s.mu.Unlock()
	return st
}

// SchedulerState returns the scheduler's state machine position.
func (s *SyncScheduler) SchedulerState() models.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.SchedulerBackoff && !s.clock.Now().Before(s.backoffUntil) {
		return models.SchedulerIdle
	}
	return s.state
}

// tick handles one periodic tick. It reports whether a cycle ran.
func (s *SyncScheduler) tick(ctx context.Context) bool {
	now := s.clock.Now()

	s.mu.Lock()
	switch {
	case s.inFlight || s.state == models.SchedulerAwaitingResolution:
		s.mu.Unlock()
		s.logger.Debug().Str("func", "SyncScheduler.tick").Msg("cycle in flight, tick dropped")
		return false
	case now.Before(s.backoffUntil):
		until := s.backoffUntil
		s.mu.Unlock()
		s.logger.Debug().Str("func", "SyncScheduler.tick").Time("until", until).Msg("backing off, tick skipped")
		return false
	}
	s.mu.Unlock()

	if s.idle(now) {
		s.logger.Debug().Str("func", "SyncScheduler.tick").Msg("nothing pending and last sync is recent, tick skipped")
		return false
	}
	return s.run(ctx, "periodic")
}

func (s *SyncScheduler) idle(now time.Time) bool {
	if s.opts.PullInterval <= s.opts.Interval {
		return false
	}
	if s.storages.Pending.Len() > 0 {
		return false
	}
	last := s.storages.State.Snapshot().LastSyncAt
	return last != nil && now.Sub(*last) < s.opts.PullInterval
}

func (s *SyncScheduler) run(ctx context.Context, trigger string) bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Info().Str("func", "SyncScheduler.run").Str("trigger", trigger).Msg("sync already in progress, trigger dropped")
		return false
	}
	s.inFlight = true
	s.state = models.SchedulerSyncing
	s.mu.Unlock()

	s.emit(ctx, models.SyncEvent{Status: models.SyncStatusSyncing, Message: "Initiating synchronization process"})

	report, err := s.sync.RunCycle(ctx, func(strategy models.Strategy, conflicts []models.Conflict) {
		if strategy == models.StrategyManual {
			s.setState(models.SchedulerAwaitingResolution)
		}
		s.emit(ctx, models.SyncEvent{
			Status:    models.SyncStatusConflict,
			Message:   fmt.Sprintf("Found %d conflicts, applying %s", len(conflicts), strategy),
			Conflicts: len(conflicts),
		})
	})

	now := s.clock.Now()
	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.failures++
		s.backoffUntil = now.Add(s.backoff(s.failures))
		s.state = models.SchedulerBackoff
	} else {
		s.failures = 0
		s.backoffUntil = time.Time{}
		s.state = models.SchedulerIdle
	}
	failures, until := s.failures, s.backoffUntil
	s.mu.Unlock()

	if err != nil {
		s.logger.Err(err).Str("func", "SyncScheduler.run").Str("trigger", trigger).
			Int("failures", failures).Time("backoff_until", until).Msg("sync cycle failed")
		s.emit(ctx, models.SyncEvent{Status: models.SyncStatusError, Message: "Sync failed: " + err.Error()})
		return true
	}

	s.logger.Info().Str("func", "SyncScheduler.run").Str("trigger", trigger).
		Int("pushed", report.Pushed).Int("deleted", report.Deleted).Int("pulled", report.Pulled).
		Int("conflicts", len(report.Conflicts)).Int("requeued", report.Requeued).Msg("sync cycle completed")
	s.emit(ctx, successEvent(report))
	return true
}

// backoff is min(interval * 2^(n-1), MaxBackoff) for n consecutive failures.
func (s *SyncScheduler) backoff(failures int) time.Duration {
	b := retry.WithCappedDuration(s.opts.MaxBackoff, retry.NewExponential(s.opts.Interval))

	var d time.Duration
	for i, n := 0, max(failures, 1); i < n; i++ {
		d, _ = b.Next()
	}
	return d
}

func (s *SyncScheduler) setState(state models.SchedulerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *SyncScheduler) emit(ctx context.Context, ev models.SyncEvent) {
	if ev.At.IsZero() {
		ev.At = s.clock.Now()
	}
	s.appendLog(ctx, models.LevelForStatus(ev.Status), ev.Message)

	s.mu.Lock()
	handlers := append([]EventHandler(nil), s.handlers...)
	s.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

func (s *SyncScheduler) appendLog(ctx context.Context, level models.LogLevel, msg string) {
	if err := s.storages.SyncLog.Append(ctx, level, msg); err != nil {
		s.logger.Err(err).Str("func", "SyncScheduler.appendLog").Msg("failed to append sync log entry")
	}
}

func successEvent(report CycleReport) models.SyncEvent {
	msg := "Synchronization process completed successfully"
	if n := len(report.Conflicts); n > 0 {
		msg = fmt.Sprintf("Successfully resolved %d conflicts", n)
	}
	return models.SyncEvent{
		Status:    models.SyncStatusSuccess,
		Message:   msg,
		Conflicts: len(report.Conflicts),
	}
}
