package store

import (
	"context"
	"slices"
	"time"

	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
	"github.com/MKhiriev/go-quote-sync/models"
)

// Tx stages changes to the record store and the pending log. It works on
// private copies; nothing is visible to readers until ClientStorages.Update
// has persisted both keys together.
type Tx struct {
	ctx       context.Context
	records   recordSet
	pending   []models.PendingChange
	nextSeq   int64
	clock     utils.Clock
	validator validators.Validator

	recordsDirty bool
	pendingDirty bool
}

// Now is the transaction's clock reading.
func (tx *Tx) Now() time.Time {
	return tx.clock.Now()
}

func (tx *Tx) Get(id string) (models.Record, bool) {
	return tx.records.get(id)
}

func (tx *Tx) All() []models.Record {
	return tx.records.all()
}

// Upsert behaves like RecordStore.Upsert.
func (tx *Tx) Upsert(record models.Record) (models.Record, bool, error) {
	if err := tx.validator.Validate(tx.ctx, record, validators.FieldID, validators.FieldVersion); err != nil {
		return models.Record{}, false, err
	}
	stored, changed := tx.records.upsert(record, tx.clock.Now())
	if changed {
		tx.recordsDirty = true
	}
	return stored, changed, nil
}

// Put stores record verbatim.
func (tx *Tx) Put(record models.Record) error {
	if err := tx.validator.Validate(tx.ctx, record, validators.FieldID, validators.FieldVersion); err != nil {
		return err
	}
	tx.records.put(record)
	tx.recordsDirty = true
	return nil
}

// Remove reports whether the id was present.
func (tx *Tx) Remove(id string) bool {
	if tx.records.remove(id) {
		tx.recordsDirty = true
		return true
	}
	return false
}

// ReplaceAll swaps the whole collection.
func (tx *Tx) ReplaceAll(records []models.Record) error {
	for _, r := range records {
		if err := tx.validator.Validate(tx.ctx, r, validators.FieldID, validators.FieldVersion); err != nil {
			return err
		}
	}
	tx.records = newRecordSet(records)
	tx.recordsDirty = true
	return nil
}

// Pending returns the staged pending changes in creation order.
func (tx *Tx) Pending() []models.PendingChange {
	return clonePending(tx.pending)
}

// Append stages a pending change and returns it.
func (tx *Tx) Append(kind models.ChangeKind, recordID string, record *models.Record) models.PendingChange {
	change, next := newChange(tx.nextSeq, kind, recordID, record, tx.clock)
	tx.nextSeq = next
	tx.pending = append(tx.pending, change)
	tx.pendingDirty = true
	return change
}

// DropPending removes every staged change matching fn and returns how many
// were removed.
func (tx *Tx) DropPending(fn func(models.PendingChange) bool) int {
	before := len(tx.pending)
	tx.pending = slices.DeleteFunc(tx.pending, fn)
	removed := before - len(tx.pending)
	if removed > 0 {
		tx.pendingDirty = true
	}
	return removed
}
