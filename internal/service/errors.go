package service

import "errors"

var (
	// ErrInvalidResolution is returned when a manual decision is missing,
	// duplicated, names an unknown record, or picks a non-automatic strategy.
	ErrInvalidResolution = errors.New("invalid conflict resolution")

	// ErrDeciderRequired is returned when the manual strategy is selected
	// without a ConflictDecider.
	ErrDeciderRequired = errors.New("manual strategy requires a conflict decider")

	// ErrInvalidPayload is returned by the change tracker for payloads that
	// fail validation.
	ErrInvalidPayload = errors.New("invalid quote payload")

	ErrPushFailed        = errors.New("push failed")
	ErrPullFailed        = errors.New("pull failed")
	ErrWriteBackFailed   = errors.New("failed to write sync result")
	ErrResolutionFailed  = errors.New("conflict resolution failed")
	ErrInvalidPushBuffer = errors.New("pending changes do not form a valid push")
)

// ErrVersionIsNotSpecified is returned when the server is built without an
// application version.
var ErrVersionIsNotSpecified = errors.New("app version is not specified")
