package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells a repository whether a failed call may be
// repeated as is.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

func (c ErrorClassification) String() string {
	if c == Retryable {
		return "retryable"
	}
	return "non-retryable"
}

// PostgresErrorClassifier classifies errors coming out of the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify reports Retryable for server errors whose SQLSTATE says the
// statement itself was fine, and for client side failures pgconn marks as
// safe to retry because nothing reached the server.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}
	if pgconn.SafeToRetry(err) {
		return Retryable
	}
	return NonRetryable
}

// classifySQLState retries lost connections, rolled back transactions
// (serialization failures, deadlocks), exhausted connection slots and
// server restarts. A cancelled query or a dropped database is final.
func classifySQLState(code string) ErrorClassification {
	switch code {
	case pgerrcode.QueryCanceled, pgerrcode.DatabaseDropped:
		return NonRetryable
	case pgerrcode.TooManyConnections:
		return Retryable
	}

	if pgerrcode.IsConnectionException(code) ||
		pgerrcode.IsTransactionRollback(code) ||
		pgerrcode.IsOperatorIntervention(code) {
		return Retryable
	}
	return NonRetryable
}
