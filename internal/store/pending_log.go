package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

// PendingLog is the FIFO of local changes not yet confirmed synced,
// persisted under KeyPending. Each entry gets a sequence number that only
// grows, so a sync cycle can clear exactly what it pushed.
type PendingLog struct {
	mu          sync.RWMutex
	entries     []models.PendingChange
	nextSeq     int64
	persistence Persistence
	clock       utils.Clock
	logger      *logger.Logger
}

func NewPendingLog(p Persistence, clock utils.Clock, log *logger.Logger) *PendingLog {
	return &PendingLog{
		nextSeq:     1,
		persistence: p,
		clock:       clock,
		logger:      log,
	}
}

// Load restores the persisted entries. minNextSeq keeps sequence numbers
// from being reused after the log was emptied.
func (l *PendingLog) Load(ctx context.Context, minNextSeq int64) error {
	data, found, err := l.persistence.Load(ctx, KeyPending)
	if err != nil {
		l.logger.Err(err).Str("func", "PendingLog.Load").Msg("failed to load pending changes")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	var entries []models.PendingChange
	if found {
		if err := decode(KeyPending, data, &entries); err != nil {
			l.logger.Err(err).Str("func", "PendingLog.Load").Msg("failed to decode pending changes")
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = entries
	l.nextSeq = max(minNextSeq, 1)
	for _, e := range entries {
		if e.Seq >= l.nextSeq {
			l.nextSeq = e.Seq + 1
		}
	}
	return nil
}

// Entries returns the pending changes in creation order.
func (l *PendingLog) Entries() []models.PendingChange {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clonePending(l.entries)
}

// Len returns the number of pending changes.
func (l *PendingLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// NextSeq returns the sequence number the next entry will get.
func (l *PendingLog) NextSeq() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextSeq
}

// Append records a change. record may be nil for deletions.
func (l *PendingLog) Append(ctx context.Context, kind models.ChangeKind, recordID string, record *models.Record) (models.PendingChange, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := clonePending(l.entries)
	change, nextSeq := newChange(l.nextSeq, kind, recordID, record, l.clock)
	entries = append(entries, change)

	if err := l.commit(ctx, entries); err != nil {
		return models.PendingChange{}, err
	}
	l.nextSeq = nextSeq
	return change, nil
}

// Clear drops every entry for the given record ids and returns how many
// were removed.
func (l *PendingLog) Clear(ctx context.Context, ids ...string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	entries := slices.DeleteFunc(clonePending(l.entries), func(e models.PendingChange) bool {
		_, ok := drop[e.RecordID]
		return ok
	})

	removed := len(l.entries) - len(entries)
	if removed == 0 {
		return 0, nil
	}
	if err := l.commit(ctx, entries); err != nil {
		return 0, err
	}
	return removed, nil
}

// commit persists entries and installs them. The caller holds l.mu.
func (l *PendingLog) commit(ctx context.Context, entries []models.PendingChange) error {
	entry, err := encode(KeyPending, entries)
	if err != nil {
		return err
	}
	if err := l.persistence.Save(ctx, entry.Key, entry.Value); err != nil {
		l.logger.Err(err).Str("func", "PendingLog.commit").Msg("failed to persist pending changes")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	l.entries = entries
	return nil
}

func newChange(seq int64, kind models.ChangeKind, recordID string, record *models.Record, clock utils.Clock) (models.PendingChange, int64) {
	var snapshot *models.Record
	if record != nil && kind != models.ChangeDelete {
		snapshot = record.Clone()
	}
	return models.PendingChange{
		Seq:       seq,
		Kind:      kind,
		RecordID:  recordID,
		Record:    snapshot,
		CreatedAt: clock.Now(),
	}, seq + 1
}

func clonePending(entries []models.PendingChange) []models.PendingChange {
	out := make([]models.PendingChange, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.Record != nil {
			out[i].Record = e.Record.Clone()
		}
	}
	return out
}
