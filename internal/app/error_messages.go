// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// reference server's handlers and middleware.
//
// All Msg* constants are human-readable strings written into HTTP response
// bodies or log entries. Keeping them in one place keeps the API wording
// consistent.
package app

const (
	// MsgInvalidJSON is returned when a request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgPushFailed is returned when a decoded push could not be applied.
	MsgPushFailed = "error applying pushed records"

	// MsgPullFailed is returned when the record snapshot could not be read.
	MsgPullFailed = "error reading records snapshot"

	// MsgIntegrityCheckFailed is returned when a push body does not match
	// its X-Content-Hash digest.
	MsgIntegrityCheckFailed = "Integrity check failed"

	// MsgInvalidGzip is returned when a gzip-encoded body cannot be inflated.
	MsgInvalidGzip = "Invalid gzip data"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"
)
