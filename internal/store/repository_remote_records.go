package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/models"
)

// Retry policy for ApplyChanges.
var (
	applyMaxRetries uint64 = 3
	applyRetryBase         = 50 * time.Millisecond
)

// remoteRecordRepository is the PostgreSQL-backed [RemoteRecordRepository].
// It keeps every quote in the "quotes" table.
type remoteRecordRepository struct {
	*DB
	logger *logger.Logger
}

func NewRemoteRecordRepository(db *DB, logger *logger.Logger) RemoteRecordRepository {
	return &remoteRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *remoteRecordRepository) ListRecords(ctx context.Context) ([]StoredRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRecordsQuery()
	if err != nil {
		log.Err(err).Str("func", "remoteRecordRepository.ListRecords").Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "remoteRecordRepository.ListRecords").
			Bool("retryable", r.retryable(err)).
			Msg("failed to execute query for listing records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]StoredRecord, 0, 50)
	for rows.Next() {
		item, scanErr := scanStoredRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "remoteRecordRepository.ListRecords").Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "remoteRecordRepository.ListRecords").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (r *remoteRecordRepository) GetRecords(ctx context.Context, ids []string) (map[string]StoredRecord, error) {
	log := logger.FromContext(ctx)

	result := make(map[string]StoredRecord, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := buildGetRecordsQuery(ids)
	if err != nil {
		log.Err(err).Str("func", "remoteRecordRepository.GetRecords").Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "remoteRecordRepository.GetRecords").
			Int("ids count", len(ids)).
			Msg("failed to execute query for getting records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scanStoredRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "remoteRecordRepository.GetRecords").Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		result[item.ID] = item
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "remoteRecordRepository.GetRecords").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return result, nil
}

// ApplyChanges writes upserts first and deletions second inside a single
// transaction. Either both land or neither does. A transaction that fails
// with a retryable error (serialization failure, deadlock, lost connection)
// is run again from the start, up to applyMaxRetries times.
func (r *remoteRecordRepository) ApplyChanges(ctx context.Context, upserts []StoredRecord, deleted []string) error {
	if len(upserts) == 0 && len(deleted) == 0 {
		return nil
	}

	attempt := 0
	backoff := retry.WithMaxRetries(applyMaxRetries, retry.NewExponential(applyRetryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := r.applyOnce(ctx, upserts, deleted)
		if err == nil || !r.retryable(err) {
			return err
		}
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "remoteRecordRepository.ApplyChanges").
			Int("attempt", attempt).
			Msg("transaction failed, retrying")
		return retry.RetryableError(err)
	})
}

func (r *remoteRecordRepository) applyOnce(ctx context.Context, upserts []StoredRecord, deleted []string) error {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "remoteRecordRepository.applyOnce").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if len(upserts) > 0 {
		if err = r.execUpserts(ctx, tx, upserts); err != nil {
			return err
		}
	}

	if len(deleted) > 0 {
		query, args, buildErr := buildDeleteRecordsQuery(deleted)
		if buildErr != nil {
			log.Err(buildErr).Str("func", "remoteRecordRepository.applyOnce").Msg("failed to create delete query")
			return buildErr
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "remoteRecordRepository.applyOnce").
				Int("deleted count", len(deleted)).
				Msg("failed to delete records")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "remoteRecordRepository.applyOnce").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *remoteRecordRepository) execUpserts(ctx context.Context, tx *sql.Tx, upserts []StoredRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertRecordsQuery(upserts)
	if err != nil {
		log.Err(err).Str("func", "remoteRecordRepository.execUpserts").Msg("failed to create upsert query")
		return err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "remoteRecordRepository.execUpserts").
			Int("records count", len(upserts)).
			Bool("retryable", r.retryable(err)).
			Msg("failed to upsert records")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Error().
			Str("func", "remoteRecordRepository.execUpserts").
			Int("records count", len(upserts)).
			Msg("no rows affected by upsert")
		return ErrRecordsNotSaved
	}

	return nil
}

func (r *remoteRecordRepository) retryable(err error) bool {
	if r.errorClassificator == nil {
		return false
	}
	return r.errorClassificator.Classify(err) == Retryable
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredRecord(row rowScanner) (StoredRecord, error) {
	var item StoredRecord
	err := row.Scan(
		&item.ID,
		&item.Payload.Text,
		&item.Payload.Category,
		&item.Payload.ConflictMarked,
		&item.Version,
		&item.LastModified,
		&item.PayloadHash,
	)
	item.Origin = models.OriginRemote
	return item, err
}
