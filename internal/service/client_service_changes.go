package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
	"github.com/MKhiriev/go-quote-sync/models"
)

// ChangeTracker owns every local write. A record mutation and the pending
// change describing it are staged in one store transaction and persisted
// together.
type ChangeTracker struct {
	storages  *store.ClientStorages
	ids       IDGenerator
	validator validators.Validator
	logger    *logger.Logger
}

func NewChangeTracker(storages *store.ClientStorages, ids IDGenerator, log *logger.Logger) *ChangeTracker {
	if ids == nil {
		ids = utils.NewUUIDGenerator()
	}
	return &ChangeTracker{
		storages:  storages,
		ids:       ids,
		validator: validators.NewRecordValidator(),
		logger:    log,
	}
}

// CycleResult is what a finished sync cycle writes back.
type CycleResult struct {
	// Records is the full collection computed by merge or resolution.
	Records []models.Record
	// Requeue lists changes to push on the next cycle.
	Requeue []Requeue
	// Cutoff is the Seq of the last pending change the cycle pushed.
	Cutoff int64
}

// Add stores a new quote under a fresh id and queues it.
func (t *ChangeTracker) Add(ctx context.Context, payload models.Payload) (models.Record, error) {
	if err := t.validatePayload(ctx, payload); err != nil {
		return models.Record{}, err
	}

	var stored models.Record
	err := t.storages.Update(ctx, func(tx *store.Tx) error {
		var err error
		stored, _, err = tx.Upsert(models.Record{
			ID:      t.ids.Generate(),
			Payload: payload,
			Origin:  models.OriginLocal,
		})
		if err != nil {
			return err
		}
		tx.Append(models.ChangeAdd, stored.ID, &stored)
		return nil
	})
	if err != nil {
		t.logger.Err(err).Str("func", "ChangeTracker.Add").Msg("failed to add quote")
		return models.Record{}, err
	}
	return stored, nil
}

// Edit replaces the payload of an existing quote. An identical payload
// changes nothing and queues nothing. Editing clears a conflict marker.
func (t *ChangeTracker) Edit(ctx context.Context, id string, payload models.Payload) (models.Record, bool, error) {
	if err := t.validatePayload(ctx, payload); err != nil {
		return models.Record{}, false, err
	}

	var (
		stored  models.Record
		changed bool
	)
	err := t.storages.Update(ctx, func(tx *store.Tx) error {
		existing, ok := tx.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", store.ErrRecordNotFound, id)
		}

		existing.Payload = payload
		var err error
		stored, changed, err = tx.Upsert(existing)
		if err != nil || !changed {
			return err
		}
		tx.Append(models.ChangeUpdate, stored.ID, &stored)
		return nil
	})
	if err != nil {
		t.logger.Err(err).Str("func", "ChangeTracker.Edit").Str("id", id).Msg("failed to edit quote")
		return models.Record{}, false, err
	}
	return stored, changed, nil
}

// Delete removes a quote. Deleting a quote the remote has never seen drops
// its queued add instead of queueing a delete.
func (t *ChangeTracker) Delete(ctx context.Context, id string) error {
	err := t.storages.Update(ctx, func(tx *store.Tx) error {
		existing, ok := tx.Get(id)
		if !ok {
			return fmt.Errorf("%w: %s", store.ErrRecordNotFound, id)
		}
		tx.Remove(id)

		if !existing.Synced() && hasPendingAdd(tx.Pending(), id) {
			tx.DropPending(func(c models.PendingChange) bool { return c.RecordID == id })
			return nil
		}
		tx.Append(models.ChangeDelete, id, nil)
		return nil
	})
	if err != nil {
		t.logger.Err(err).Str("func", "ChangeTracker.Delete").Str("id", id).Msg("failed to delete quote")
		return err
	}
	return nil
}

// Seed inserts records that should be pushed as additions. Existing ids are
// left alone.
func (t *ChangeTracker) Seed(ctx context.Context, records ...models.Record) (int, error) {
	added := 0
	err := t.storages.Update(ctx, func(tx *store.Tx) error {
		added = 0
		for _, r := range records {
			if _, ok := tx.Get(r.ID); ok {
				continue
			}
			stored, _, err := tx.Upsert(r)
			if err != nil {
				return err
			}
			tx.Append(models.ChangeAdd, stored.ID, &stored)
			added++
		}
		return nil
	})
	if err != nil {
		t.logger.Err(err).Str("func", "ChangeTracker.Seed").Msg("failed to seed quotes")
		return 0, err
	}
	return added, nil
}

// RecordChange appends a pending change without touching the record store.
func (t *ChangeTracker) RecordChange(ctx context.Context, kind models.ChangeKind, record models.Record) (models.PendingChange, error) {
	return t.storages.Pending.Append(ctx, kind, record.ID, &record)
}

// PendingChanges returns the queued changes, oldest first.
func (t *ChangeTracker) PendingChanges() []models.PendingChange {
	return t.storages.Pending.Entries()
}

// Clear drops the queued changes of the given records.
func (t *ChangeTracker) Clear(ctx context.Context, ids ...string) (int, error) {
	return t.storages.Pending.Clear(ctx, ids...)
}

// ApplyCycleResult installs a cycle's outcome in one transaction. Pending
// changes up to result.Cutoff are dropped and requeued changes appended.
// Records the user touched after the cutoff keep their current state, so a
// slow cycle never overwrites a newer local edit.
func (t *ChangeTracker) ApplyCycleResult(ctx context.Context, result CycleResult) error {
	err := t.storages.Update(ctx, func(tx *store.Tx) error {
		touched := make(map[string]struct{})
		for _, c := range tx.Pending() {
			if c.Seq > result.Cutoff {
				touched[c.RecordID] = struct{}{}
			}
		}

		current := tx.All()
		currentByID := make(map[string]models.Record, len(current))
		for _, r := range current {
			currentByID[r.ID] = r
		}

		final := make([]models.Record, 0, len(result.Records)+len(touched))
		placed := make(map[string]struct{}, len(result.Records))
		for _, r := range result.Records {
			if _, ok := touched[r.ID]; ok {
				cur, exists := currentByID[r.ID]
				if !exists {
					continue
				}
				r = cur
			}
			final = append(final, r)
			placed[r.ID] = struct{}{}
		}
		for _, r := range current {
			if _, ok := touched[r.ID]; !ok {
				continue
			}
			if _, ok := placed[r.ID]; ok {
				continue
			}
			final = append(final, r)
			placed[r.ID] = struct{}{}
		}

		if err := tx.ReplaceAll(final); err != nil {
			return err
		}

		tx.DropPending(func(c models.PendingChange) bool { return c.Seq <= result.Cutoff })

		for _, q := range result.Requeue {
			if _, ok := touched[q.Record.ID]; ok {
				continue
			}
			r := q.Record
			if q.Kind == models.ChangeDelete {
				tx.Append(q.Kind, r.ID, nil)
				continue
			}
			tx.Append(q.Kind, r.ID, &r)
		}
		return nil
	})
	if err != nil {
		t.logger.Err(err).Str("func", "ChangeTracker.ApplyCycleResult").Msg("failed to write back sync result")
		return fmt.Errorf("%w: %w", ErrWriteBackFailed, err)
	}
	return nil
}

func (t *ChangeTracker) validatePayload(ctx context.Context, payload models.Payload) error {
	if err := t.validator.Validate(ctx, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

func hasPendingAdd(pending []models.PendingChange, id string) bool {
	for _, c := range pending {
		if c.RecordID == id && c.Kind == models.ChangeAdd {
			return true
		}
	}
	return false
}
