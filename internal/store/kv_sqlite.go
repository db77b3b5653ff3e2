package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
)

const (
	clientStateTable  = "client_state"
	clientStateKey    = "state_key"
	clientStateValue  = "state_value"
	clientStateUpdate = "updated_at"

	upsertClientStateSuffix = "ON CONFLICT(" + clientStateKey + ") DO UPDATE SET " +
		clientStateValue + " = excluded." + clientStateValue + ", " +
		clientStateUpdate + " = excluded." + clientStateUpdate
)

// SQLitePersistence stores client state as rows of the client_state table,
// one row per key.
type SQLitePersistence struct {
	*DB
	clock  utils.Clock
	logger *logger.Logger
}

func NewSQLitePersistence(db *DB, clock utils.Clock, log *logger.Logger) *SQLitePersistence {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	return &SQLitePersistence{DB: db, clock: clock, logger: log}
}

func (p *SQLitePersistence) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := sq.Select(clientStateValue).
		From(clientStateTable).
		Where(sq.Eq{clientStateKey: key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	err = p.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		p.logger.Err(err).
			Str("func", "SQLitePersistence.Load").
			Str("key", key).
			Msg("failed to read client state")
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (p *SQLitePersistence) Save(ctx context.Context, key string, value []byte) error {
	return p.SaveAll(ctx, Entry{Key: key, Value: value})
}

// SaveAll upserts every entry inside one transaction.
func (p *SQLitePersistence) SaveAll(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	builder := sq.Insert(clientStateTable).
		Columns(clientStateKey, clientStateValue, clientStateUpdate)
	now := p.clock.Now().UTC()
	for _, e := range entries {
		builder = builder.Values(e.Key, e.Value, now)
	}
	query, args, err := builder.Suffix(upsertClientStateSuffix).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		p.logger.Err(err).Str("func", "SQLitePersistence.SaveAll").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		p.logger.Err(err).
			Str("func", "SQLitePersistence.SaveAll").
			Int("entries", len(entries)).
			Msg("failed to write client state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		p.logger.Err(err).Str("func", "SQLitePersistence.SaveAll").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
