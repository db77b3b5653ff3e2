package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

var errDiskFull = errors.New("disk full")

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// flakyPersistence wraps MemoryPersistence and fails writes on demand.
type flakyPersistence struct {
	*MemoryPersistence

	mu        sync.Mutex
	failSaves bool
	saves     int
	saveAlls  int
}

func newFlakyPersistence() *flakyPersistence {
	return &flakyPersistence{MemoryPersistence: NewMemoryPersistence()}
}

func (f *flakyPersistence) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSaves = fail
}

func (f *flakyPersistence) Save(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.saves++
	fail := f.failSaves
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryPersistence.Save(ctx, key, value)
}

func (f *flakyPersistence) SaveAll(ctx context.Context, entries ...Entry) error {
	f.mu.Lock()
	f.saveAlls++
	fail := f.failSaves
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryPersistence.SaveAll(ctx, entries...)
}

func newTestRecordStore(t *testing.T) (*RecordStore, *flakyPersistence, *utils.ManualClock) {
	t.Helper()
	p := newFlakyPersistence()
	clock := utils.NewManualClock(testStart)
	return NewRecordStore(p, clock, logger.Nop()), p, clock
}

func quote(id, text, category string) models.Record {
	return models.Record{
		ID:      id,
		Payload: models.Payload{Text: text, Category: category},
	}
}

func ids(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func requireReload(t *testing.T, p Persistence) *RecordStore {
	t.Helper()
	s := NewRecordStore(p, utils.NewManualClock(testStart), logger.Nop())
	found, err := s.Load(testContext())
	require.NoError(t, err)
	require.True(t, found)
	return s
}
