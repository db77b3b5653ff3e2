// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the push integrity middleware. Callers can match
// against them with [errors.Is].
var (
	// ErrContentHashMismatch is returned when the digest in the
	// "X-Content-Hash" header does not match the received body.
	ErrContentHashMismatch = errors.New("content hash does not match body")

	// ErrBodyTooLarge is returned when a hashed body exceeds the accepted size.
	ErrBodyTooLarge = errors.New("request body is too large")
)
