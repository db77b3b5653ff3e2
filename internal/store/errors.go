package store

import "errors"

// Sentinel errors returned by the stores to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when an operation targets an id the
	// record store does not hold.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrPersistence wraps every failure of the durable persistence layer.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorruptState is returned when a persisted value cannot be decoded.
	ErrCorruptState = errors.New("persisted state is corrupt")

	// ErrRecordsNotSaved is returned when a write to the remote record table
	// completes without error but affects no rows.
	ErrRecordsNotSaved = errors.New("records were not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a result set fails midway.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrNilDB is returned by the migrations when no connection is given.
	ErrNilDB = errors.New("db is nil")
)
