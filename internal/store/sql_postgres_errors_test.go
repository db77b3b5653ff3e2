package store

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	pgErr := func(code string) error { return &pgconn.PgError{Code: code} }

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "not a driver error", err: sql.ErrConnDone, want: NonRetryable},
		{name: "connection failure", err: pgErr(pgerrcode.ConnectionFailure), want: Retryable},
		{name: "serialization failure", err: pgErr(pgerrcode.SerializationFailure), want: Retryable},
		{name: "deadlock", err: pgErr(pgerrcode.DeadlockDetected), want: Retryable},
		{name: "cannot connect now", err: pgErr(pgerrcode.CannotConnectNow), want: Retryable},
		{name: "admin shutdown", err: pgErr(pgerrcode.AdminShutdown), want: Retryable},
		{name: "too many connections", err: pgErr(pgerrcode.TooManyConnections), want: Retryable},
		{name: "query canceled", err: pgErr(pgerrcode.QueryCanceled), want: NonRetryable},
		{name: "database dropped", err: pgErr(pgerrcode.DatabaseDropped), want: NonRetryable},
		{name: "unique violation", err: pgErr(pgerrcode.UniqueViolation), want: NonRetryable},
		{name: "syntax error", err: pgErr(pgerrcode.SyntaxError), want: NonRetryable},
		{name: "wrapped deadlock", err: fmt.Errorf("%w: %w", ErrExecutingStatement, pgErr(pgerrcode.DeadlockDetected)), want: Retryable},
	}

	c := NewPostgresErrorClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestErrorClassification_String(t *testing.T) {
	assert.Equal(t, "retryable", Retryable.String())
	assert.Equal(t, "non-retryable", NonRetryable.String())
}
