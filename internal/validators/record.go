package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-quote-sync/models"
)

// Field name constants used to scope validation to a subset of fields.
const (
	// FieldID targets the stable record identifier.
	FieldID = "id"

	// FieldVersion targets the record version, which must not be negative.
	FieldVersion = "version"

	// FieldText targets the quote text of the payload.
	FieldText = "text"

	// FieldCategory targets the quote category of the payload.
	FieldCategory = "category"

	// FieldRecords targets the records list of a push request.
	FieldRecords = "records"

	// FieldDeleted targets the deleted ids list of a push request.
	FieldDeleted = "deleted"

	// FieldLength targets the declared record count of a push request.
	FieldLength = "length"
)

// RecordValidator validates models.Record, models.Payload and
// models.PushRequest values, by value or by pointer.
type RecordValidator struct {
}

// NewRecordValidator constructs a RecordValidator and returns it as the
// Validator interface.
func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate dispatches to the type-specific check. With no fields given,
// every rule for the type is applied.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Record:
		return v.validateRecord(ctx, value, fields...)
	case *models.Record:
		return v.validateRecord(ctx, *value, fields...)

	case models.Payload:
		return v.validatePayload(value, fields...)
	case *models.Payload:
		return v.validatePayload(*value, fields...)

	case models.PushRequest:
		return v.validatePushRequest(ctx, value, fields...)
	case *models.PushRequest:
		return v.validatePushRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateRecord(_ context.Context, record models.Record, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if strings.TrimSpace(record.ID) == "" {
				return ErrEmptyRecordID
			}
		case FieldVersion:
			if record.Version < 0 {
				return ErrNegativeVersion
			}
		case FieldText, FieldCategory:
			if err := v.validatePayload(record.Payload, f); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validatePayload(payload models.Payload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldText, FieldCategory}
	}

	for _, f := range fields {
		switch f {
		case FieldText:
			if strings.TrimSpace(payload.Text) == "" {
				return ErrEmptyText
			}
		case FieldCategory:
			if strings.TrimSpace(payload.Category) == "" {
				return ErrEmptyCategory
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validatePushRequest(ctx context.Context, request models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecords, FieldDeleted, FieldLength}
	}

	for _, f := range fields {
		switch f {
		case FieldRecords:
			seen := make(map[string]struct{}, len(request.Records))
			for i, record := range request.Records {
				if err := v.validateRecord(ctx, record); err != nil {
					return fmt.Errorf("%w: record at index %d: %w", ErrInvalidPushRequest, i, err)
				}
				if _, dup := seen[record.ID]; dup {
					return fmt.Errorf("%w: record at index %d: %w", ErrInvalidPushRequest, i, ErrDuplicateRecordID)
				}
				seen[record.ID] = struct{}{}
			}
		case FieldDeleted:
			for i, id := range request.Deleted {
				if strings.TrimSpace(id) == "" {
					return fmt.Errorf("%w: deleted id at index %d: %w", ErrInvalidPushRequest, i, ErrEmptyDeletedID)
				}
			}
		case FieldLength:
			if request.Length != len(request.Records) {
				return fmt.Errorf("%w: %w", ErrInvalidPushRequest, ErrInvalidPushLength)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
