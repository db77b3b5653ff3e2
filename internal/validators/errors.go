package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// ErrInvariantViolation marks data that breaks the record model's
	// structural rules. Remote records failing it are skipped, never stored.
	ErrInvariantViolation = errors.New("invariant violation")

	ErrEmptyRecordID     = fmt.Errorf("%w: empty record id", ErrInvariantViolation)
	ErrNegativeVersion   = fmt.Errorf("%w: negative version", ErrInvariantViolation)
	ErrDuplicateRecordID = fmt.Errorf("%w: duplicate record id", ErrInvariantViolation)

	ErrEmptyText          = errors.New("quote text is required")
	ErrEmptyCategory      = errors.New("quote category is required")
	ErrInvalidPushLength  = errors.New("push length does not match records")
	ErrEmptyDeletedID     = errors.New("deleted id cannot be empty")
	ErrInvalidPushRequest = errors.New("invalid push request")
)
