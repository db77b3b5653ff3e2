package store

import (
	"database/sql"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/migrations"
)

// Dialects understood by DB.Migrate.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the embedded migrations for the connection's dialect.
func (db *DB) Migrate() error {
	if db.dialect == DialectSQLite {
		return migrations.MigrateClient(db.DB)
	}
	return migrations.MigrateServer(db.DB)
}
