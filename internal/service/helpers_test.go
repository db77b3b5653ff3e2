package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-sync/internal/adapter"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// harness wires a client against an in-process reference remote.
type harness struct {
	clock    *utils.ManualClock
	ids      *utils.SequenceGenerator
	storages *store.ClientStorages
	tracker  *ChangeTracker
	remote   store.RemoteRecordRepository
	gateway  adapter.Gateway
	sync     *ClientSyncService
}

func newHarness(t *testing.T, strategy models.Strategy, remoteSeed ...store.StoredRecord) *harness {
	t.Helper()

	h := &harness{
		clock: utils.NewManualClock(testStart),
		ids:   &utils.SequenceGenerator{Prefix: "q"},
	}
	h.storages = store.NewClientStoragesWith(store.NewMemoryPersistence(), store.ClientStoragesOptions{
		Clock:    h.clock,
		Strategy: strategy,
	}, logger.Nop())
	require.NoError(t, h.storages.Load(testContext()))

	h.remote = store.NewMemoryRemoteRepository(remoteSeed...)
	h.gateway = adapter.NewMemoryGateway(NewRemoteRecordService(h.remote, h.clock, logger.Nop()))
	h.tracker = NewChangeTracker(h.storages, h.ids, logger.Nop())
	h.sync = newTestSyncService(h.storages, h.gateway, h.tracker, nil, h.ids, h.clock)
	return h
}

func newTestSyncService(storages *store.ClientStorages, gateway adapter.Gateway, tracker *ChangeTracker, decider ConflictDecider, ids IDGenerator, clock utils.Clock) *ClientSyncService {
	return NewClientSyncService(SyncDeps{
		Storages: storages,
		Gateway:  gateway,
		Tracker:  tracker,
		Decider:  decider,
		IDs:      ids,
		Clock:    clock,
	}, logger.Nop())
}

func (h *harness) remoteRecords(t *testing.T) []store.StoredRecord {
	t.Helper()
	records, err := h.remote.ListRecords(testContext())
	require.NoError(t, err)
	return records
}

func (h *harness) local(t *testing.T, id string) models.Record {
	t.Helper()
	r, ok := h.storages.Records.Get(id)
	require.True(t, ok, "record %q is missing locally", id)
	return r
}

func payload(text, category string) models.Payload {
	return models.Payload{Text: text, Category: category}
}

func record(id, text string, version int64, at time.Time) models.Record {
	return models.Record{
		ID:           id,
		Payload:      payload(text, "Wisdom"),
		Version:      version,
		LastModified: at,
	}
}

func synced(r models.Record) models.Record {
	r.SyncedVersion = r.Version
	return r
}

func storedRecord(r models.Record) store.StoredRecord {
	return store.StoredRecord{
		Record:      r,
		PayloadHash: utils.PayloadHash(r.Payload.Text, r.Payload.Category),
	}
}

func recordIDs(records []models.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func pendingIDs(pending []models.PendingChange) []string {
	out := make([]string, 0, len(pending))
	for _, c := range pending {
		out = append(out, string(c.Kind)+":"+c.RecordID)
	}
	return out
}

// seedLocal installs records as if an earlier cycle had synced them.
func seedLocal(t *testing.T, storages *store.ClientStorages, records ...models.Record) {
	t.Helper()
	require.NoError(t, storages.Update(testContext(), func(tx *store.Tx) error {
		for _, r := range records {
			if err := tx.Put(r); err != nil {
				return err
			}
		}
		return nil
	}))
}

// eventRecorder collects emitted sync events.
type eventRecorder struct {
	ch chan models.SyncEvent
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{ch: make(chan models.SyncEvent, 64)}
}

func (r *eventRecorder) handle(ev models.SyncEvent) {
	r.ch <- ev
}

func (r *eventRecorder) statuses() []models.SyncStatus {
	var out []models.SyncStatus
	for {
		select {
		case ev := <-r.ch:
			out = append(out, ev.Status)
		default:
			return out
		}
	}
}
