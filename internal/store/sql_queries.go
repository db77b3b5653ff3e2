package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const quotesTable = "quotes"

var quotesColumns = []string{
	"id",
	"text",
	"category",
	"conflict_marked",
	"version",
	"last_modified",
	"payload_hash",
}

const upsertQuotesSuffix = `ON CONFLICT (id) DO UPDATE SET
	text = EXCLUDED.text,
	category = EXCLUDED.category,
	conflict_marked = EXCLUDED.conflict_marked,
	version = EXCLUDED.version,
	last_modified = EXCLUDED.last_modified,
	payload_hash = EXCLUDED.payload_hash,
	updated_at = NOW()`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListRecordsQuery selects every quote in insertion order.
func buildListRecordsQuery() (string, []any, error) {
	return psql.Select(quotesColumns...).
		From(quotesTable).
		OrderBy("seq").
		ToSql()
}

func buildGetRecordsQuery(ids []string) (string, []any, error) {
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("%w: no ids given", ErrBuildingSQLQuery)
	}
	return psql.Select(quotesColumns...).
		From(quotesTable).
		Where(sq.Eq{"id": ids}).
		ToSql()
}

// buildUpsertRecordsQuery inserts records, overwriting rows with the same id
// while keeping their original position.
func buildUpsertRecordsQuery(records []StoredRecord) (string, []any, error) {
	if len(records) == 0 {
		return "", nil, fmt.Errorf("%w: no records given", ErrBuildingSQLQuery)
	}

	builder := psql.Insert(quotesTable).Columns(quotesColumns...)
	for _, r := range records {
		builder = builder.Values(
			r.ID,
			r.Payload.Text,
			r.Payload.Category,
			r.Payload.ConflictMarked,
			r.Version,
			r.LastModified.UTC(),
			r.PayloadHash,
		)
	}

	return builder.Suffix(upsertQuotesSuffix).ToSql()
}

func buildDeleteRecordsQuery(ids []string) (string, []any, error) {
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("%w: no ids given", ErrBuildingSQLQuery)
	}
	return psql.Delete(quotesTable).
		Where(sq.Eq{"id": ids}).
		ToSql()
}
