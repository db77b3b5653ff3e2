package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

// DefaultSyncLogLimit is used when NewSyncLog is given a non-positive limit.
const DefaultSyncLogLimit = 50

// SyncLog is a bounded, persisted history of sync activity. The oldest
// entries are evicted first.
type SyncLog struct {
	mu          sync.RWMutex
	entries     []models.SyncLogEntry
	limit       int
	persistence Persistence
	clock       utils.Clock
	logger      *logger.Logger
}

func NewSyncLog(p Persistence, clock utils.Clock, limit int, log *logger.Logger) *SyncLog {
	if limit <= 0 {
		limit = DefaultSyncLogLimit
	}
	return &SyncLog{
		limit:       limit,
		persistence: p,
		clock:       clock,
		logger:      log,
	}
}

func (l *SyncLog) Load(ctx context.Context) error {
	data, found, err := l.persistence.Load(ctx, KeySyncLog)
	if err != nil {
		l.logger.Err(err).Str("func", "SyncLog.Load").Msg("failed to load sync log")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !found {
		return nil
	}

	var entries []models.SyncLogEntry
	if err := decode(KeySyncLog, data, &entries); err != nil {
		l.logger.Err(err).Str("func", "SyncLog.Load").Msg("failed to decode sync log")
		return err
	}

	l.mu.Lock()
	l.entries = trimLog(entries, l.limit)
	l.mu.Unlock()
	return nil
}

// Append adds an entry stamped with the current time. A failed write is
// returned but the entry stays in memory; the log is informational.
func (l *SyncLog) Append(ctx context.Context, level models.LogLevel, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = trimLog(append(l.entries, models.SyncLogEntry{
		At:      l.clock.Now(),
		Level:   level,
		Message: message,
	}), l.limit)

	return l.persist(ctx)
}

// Entries returns the log oldest first.
func (l *SyncLog) Entries() []models.SyncLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.SyncLogEntry(nil), l.entries...)
}

// Clear empties the log.
func (l *SyncLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	return l.persist(ctx)
}

func (l *SyncLog) Limit() int {
	return l.limit
}

func (l *SyncLog) persist(ctx context.Context) error {
	entries := l.entries
	if entries == nil {
		entries = []models.SyncLogEntry{}
	}
	entry, err := encode(KeySyncLog, entries)
	if err != nil {
		return err
	}
	if err := l.persistence.Save(ctx, entry.Key, entry.Value); err != nil {
		l.logger.Err(err).Str("func", "SyncLog.persist").Msg("failed to persist sync log")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func trimLog(entries []models.SyncLogEntry, limit int) []models.SyncLogEntry {
	if len(entries) <= limit {
		return entries
	}
	return append([]models.SyncLogEntry(nil), entries[len(entries)-limit:]...)
}
