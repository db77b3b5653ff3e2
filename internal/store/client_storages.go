// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
	"github.com/MKhiriev/go-quote-sync/models"
)

// ClientStorages groups the client-side stores into a single value that is
// passed to every service constructor. There is no package-level state.
type ClientStorages struct {
	Records *RecordStore
	Pending *PendingLog
	SyncLog *SyncLog
	State   *SyncStateStore

	persistence Persistence
	clock       utils.Clock
	logger      *logger.Logger

	// txMu serializes Update calls. Lock order: txMu, Records.mu, Pending.mu.
	txMu   sync.Mutex
	closer func() error
	// fresh is true when nothing had ever been persisted before Load.
	fresh bool
}

// ClientStoragesOptions tunes NewClientStorages.
type ClientStoragesOptions struct {
	Clock    utils.Clock
	Strategy models.Strategy
	LogLimit int
}

// NewClientStorages opens the configured persistence (SQLite file, or
// process memory), runs the client migrations, and loads the persisted state.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, opts ClientStoragesOptions, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Str("func", "NewClientStorages").Msg("creating client storages...")

	var (
		p      Persistence
		closer func() error
	)
	if cfg.DB.InMemory {
		p = NewMemoryPersistence()
	} else {
		db, err := NewConnectSQLite(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		p = NewSQLitePersistence(db, opts.Clock, log)
		closer = db.Close
	}

	s := NewClientStoragesWith(p, opts, log)
	s.closer = closer

	if err := s.Load(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewClientStoragesWith builds the stores over an existing Persistence
// without loading anything.
func NewClientStoragesWith(p Persistence, opts ClientStoragesOptions, log *logger.Logger) *ClientStorages {
	clock := opts.Clock
	if clock == nil {
		clock = utils.NewRealClock()
	}
	return &ClientStorages{
		Records:     NewRecordStore(p, clock, log),
		Pending:     NewPendingLog(p, clock, log),
		SyncLog:     NewSyncLog(p, clock, opts.LogLimit, log),
		State:       NewSyncStateStore(p, opts.Strategy, log),
		persistence: p,
		clock:       clock,
		logger:      log,
	}
}

// Load restores every store from persistence.
func (s *ClientStorages) Load(ctx context.Context) error {
	stateFound, err := s.State.Load(ctx)
	if err != nil {
		return err
	}
	recordsFound, err := s.Records.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.Pending.Load(ctx, s.State.NextSeq()); err != nil {
		return err
	}
	if err := s.SyncLog.Load(ctx); err != nil {
		return err
	}
	s.fresh = !stateFound && !recordsFound
	return nil
}

// Fresh reports whether Load found no persisted records and no sync state.
func (s *ClientStorages) Fresh() bool {
	return s.fresh
}

// Update runs fn against a Tx holding copies of the records and the pending
// log. If fn succeeds, the changed keys are persisted with one SaveAll and
// then installed; if fn or the write fails, nothing changes.
func (s *ClientStorages) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.Records.mu.Lock()
	defer s.Records.mu.Unlock()
	s.Pending.mu.Lock()
	defer s.Pending.mu.Unlock()

	tx := &Tx{
		ctx:       ctx,
		records:   s.Records.set.clone(),
		pending:   clonePending(s.Pending.entries),
		nextSeq:   s.Pending.nextSeq,
		clock:     s.clock,
		validator: validators.NewRecordValidator(),
	}

	if err := fn(tx); err != nil {
		return err
	}

	entries := make([]Entry, 0, 2)
	if tx.recordsDirty {
		entry, err := encode(KeyRecords, tx.records.all())
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if tx.pendingDirty {
		entry, err := encode(KeyPending, tx.pending)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil
	}

	if err := s.persistence.SaveAll(ctx, entries...); err != nil {
		s.logger.Err(err).Str("func", "ClientStorages.Update").Msg("failed to persist local state")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if tx.recordsDirty {
		s.Records.set = tx.records
	}
	if tx.pendingDirty {
		s.Pending.entries = tx.pending
		s.Pending.nextSeq = tx.nextSeq
	}
	return nil
}

// Close releases the underlying database, if any.
func (s *ClientStorages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
