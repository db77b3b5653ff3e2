// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
	"github.com/MKhiriev/go-quote-sync/models"
)

// RecordStore is the authoritative local collection of records. Every
// mutation is written through to Persistence under KeyRecords as an ordered
// JSON list; the in-memory state only changes once the write succeeded.
type RecordStore struct {
	mu          sync.RWMutex
	set         recordSet
	persistence Persistence
	clock       utils.Clock
	validator   validators.Validator
	logger      *logger.Logger
}

// NewRecordStore returns an empty store. Call Load to restore persisted
// records.
func NewRecordStore(p Persistence, clock utils.Clock, log *logger.Logger) *RecordStore {
	return &RecordStore{
		set:         newRecordSet(nil),
		persistence: p,
		clock:       clock,
		validator:   validators.NewRecordValidator(),
		logger:      log,
	}
}

// Load replaces the in-memory collection with the persisted one. It reports
// whether anything was persisted.
func (s *RecordStore) Load(ctx context.Context) (bool, error) {
	data, found, err := s.persistence.Load(ctx, KeyRecords)
	if err != nil {
		s.logger.Err(err).Str("func", "RecordStore.Load").Msg("failed to load records")
		return false, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if !found {
		return false, nil
	}

	var records []models.Record
	if err := decode(KeyRecords, data, &records); err != nil {
		s.logger.Err(err).Str("func", "RecordStore.Load").Msg("failed to decode records")
		return true, err
	}

	s.mu.Lock()
	s.set = newRecordSet(records)
	s.mu.Unlock()

	return true, nil
}

// Get returns the record with the given id.
func (s *RecordStore) Get(id string) (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.get(id)
}

// All returns a copy of every record in insertion order.
func (s *RecordStore) All() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.all()
}

// Len returns the number of records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.len()
}

// Categories returns the distinct non-empty categories, sorted.
func (s *RecordStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.categories()
}

// Upsert applies a local write and returns the stored record and whether
// anything changed. An identical payload is a no-op and nothing is written.
func (s *RecordStore) Upsert(ctx context.Context, record models.Record) (models.Record, bool, error) {
	if err := s.validator.Validate(ctx, record, validators.FieldID, validators.FieldVersion); err != nil {
		return models.Record{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.set.clone()
	stored, changed := next.upsert(record, s.clock.Now())
	if !changed {
		return stored, false, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return models.Record{}, false, err
	}
	return stored, true, nil
}

// Put stores a remote-derived record verbatim, without a version bump.
func (s *RecordStore) Put(ctx context.Context, record models.Record) error {
	if err := s.validator.Validate(ctx, record, validators.FieldID, validators.FieldVersion); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.set.clone()
	next.put(record)
	return s.commit(ctx, next)
}

// Remove deletes the record with the given id. Removing an unknown id
// returns ErrRecordNotFound.
func (s *RecordStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.set.clone()
	if !next.remove(id) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return s.commit(ctx, next)
}

// ReplaceAll swaps the whole collection in one step.
func (s *RecordStore) ReplaceAll(ctx context.Context, records []models.Record) error {
	for _, r := range records {
		if err := s.validator.Validate(ctx, r, validators.FieldID, validators.FieldVersion); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(ctx, newRecordSet(records))
}

// commit persists next and installs it. The caller holds s.mu.
func (s *RecordStore) commit(ctx context.Context, next recordSet) error {
	entry, err := encode(KeyRecords, next.all())
	if err != nil {
		return err
	}
	if err := s.persistence.Save(ctx, entry.Key, entry.Value); err != nil {
		s.logger.Err(err).Str("func", "RecordStore.commit").Msg("failed to persist records")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.set = next
	return nil
}
