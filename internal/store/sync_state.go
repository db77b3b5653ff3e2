package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/models"
)

// persistedSyncState is the JSON shape stored under KeySyncState.
type persistedSyncState struct {
	LastSyncAt *time.Time      `json:"last_sync_at,omitempty"`
	Strategy   models.Strategy `json:"strategy"`
	// Pinned is set once the strategy was chosen at runtime; a pinned
	// strategy survives restarts, otherwise configuration decides.
	Pinned  bool  `json:"pinned,omitempty"`
	NextSeq int64 `json:"next_seq"`
}

// SyncStateStore keeps the durable part of models.SyncState.
type SyncStateStore struct {
	mu          sync.RWMutex
	state       persistedSyncState
	persistence Persistence
	logger      *logger.Logger
}

func NewSyncStateStore(p Persistence, strategy models.Strategy, log *logger.Logger) *SyncStateStore {
	return &SyncStateStore{
		state:       persistedSyncState{Strategy: strategy, NextSeq: 1},
		persistence: p,
		logger:      log,
	}
}

// Load restores the persisted state. It reports whether any state had been
// persisted before.
func (s *SyncStateStore) Load(ctx context.Context) (bool, error) {
	data, found, err := s.persistence.Load(ctx, KeySyncState)
	if err != nil {
		s.logger.Err(err).Str("func", "SyncStateStore.Load").Msg("failed to load sync state")
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !found {
		return false, nil
	}

	var st persistedSyncState
	if err := decode(KeySyncState, data, &st); err != nil {
		s.logger.Err(err).Str("func", "SyncStateStore.Load").Msg("failed to decode sync state")
		return true, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastSyncAt = st.LastSyncAt
	s.state.NextSeq = max(st.NextSeq, 1)
	if st.Pinned && st.Strategy.IsValid() {
		s.state.Strategy = st.Strategy
		s.state.Pinned = true
	}
	return true, nil
}

// Snapshot returns LastSyncAt and Strategy. InFlight and Pending are filled
// in by their owners.
func (s *SyncStateStore) Snapshot() models.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.SyncState{Strategy: s.state.Strategy}
	if s.state.LastSyncAt != nil {
		at := *s.state.LastSyncAt
		st.LastSyncAt = &at
	}
	return st
}

func (s *SyncStateStore) Strategy() models.Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Strategy
}

func (s *SyncStateStore) NextSeq() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.NextSeq
}

// MarkSynced records a successful cycle.
func (s *SyncStateStore) MarkSynced(ctx context.Context, at time.Time, nextSeq int64) error {
	return s.update(ctx, func(st *persistedSyncState) {
		st.LastSyncAt = &at
		st.NextSeq = max(st.NextSeq, nextSeq)
	})
}

// SetStrategy changes the conflict strategy for subsequent cycles.
func (s *SyncStateStore) SetStrategy(ctx context.Context, strategy models.Strategy) error {
	if !strategy.IsValid() {
		return models.ErrUnknownStrategy
	}
	return s.update(ctx, func(st *persistedSyncState) {
		st.Strategy = strategy
		st.Pinned = true
	})
}

func (s *SyncStateStore) update(ctx context.Context, fn func(st *persistedSyncState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)

	entry, err := encode(KeySyncState, next)
	if err != nil {
		return err
	}
	if err := s.persistence.Save(ctx, entry.Key, entry.Value); err != nil {
		s.logger.Err(err).Str("func", "SyncStateStore.update").Msg("failed to persist sync state")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.state = next
	return nil
}
