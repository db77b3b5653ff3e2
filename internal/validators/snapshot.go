// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-quote-sync/models"
)

// Rejection describes a remote record that was dropped from a snapshot.
type Rejection struct {
	Index    int
	RecordID string
	Err      error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("remote record %q at index %d: %v", r.RecordID, r.Index, r.Err)
}

func (r Rejection) Unwrap() error {
	return r.Err
}

// SanitizeRecords keeps the structurally valid records of a pulled snapshot
// in their original order. A record with an empty id or a negative version
// is dropped, and so is every repeat of an id already seen. Each dropped
// record is reported as a Rejection wrapping ErrInvariantViolation.
func SanitizeRecords(ctx context.Context, v Validator, records []models.Record) ([]models.Record, []Rejection) {
	kept := make([]models.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	var rejected []Rejection

	for i, record := range records {
		if err := v.Validate(ctx, record, FieldID, FieldVersion); err != nil {
			rejected = append(rejected, Rejection{Index: i, RecordID: record.ID, Err: err})
			continue
		}
		if _, dup := seen[record.ID]; dup {
			rejected = append(rejected, Rejection{Index: i, RecordID: record.ID, Err: ErrDuplicateRecordID})
			continue
		}
		seen[record.ID] = struct{}{}
		kept = append(kept, record)
	}

	return kept, rejected
}
