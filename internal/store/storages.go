package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
)

// Storages groups the reference server's repositories.
type Storages struct {
	Records RemoteRecordRepository

	closer func() error
}

// NewStorages connects to postgres and runs migrations, or falls back to an
// in-memory repository when the DSN asks for one.
func NewStorages(ctx context.Context, cfg config.ServerStorage, log *logger.Logger) (*Storages, error) {
	if cfg.DB.InMemory {
		log.Info().Str("func", "NewStorages").Msg("using in-memory record repository")
		return &Storages{Records: NewMemoryRemoteRepository()}, nil
	}

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err = db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("failed to migrate server database")
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return &Storages{
		Records: NewRemoteRecordRepository(db, log),
		closer:  db.Close,
	}, nil
}

func (s *Storages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
