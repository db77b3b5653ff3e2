// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// payloadSeparator keeps "ab"+"c" and "a"+"bc" from hashing to the same value.
const payloadSeparator = 0x1f

// PayloadHash returns a hex-encoded BLAKE2b-256 digest of a record's
// user-visible content.
//
// The server compares digests to tell whether a pushed record actually
// changed, and the terminal client shows a short prefix of it on the
// detail screen so two copies of a record can be compared at a glance.
//
// Example usage:
//
//	h := utils.PayloadHash("Stay hungry", "Motivation")
func PayloadHash(text, category string) string {
	buf := make([]byte, 0, len(text)+len(category)+1)
	buf = append(buf, text...)
	buf = append(buf, payloadSeparator)
	buf = append(buf, category...)

	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// ShortHash trims a digest to n characters for display.
func ShortHash(hash string, n int) string {
	if n <= 0 || len(hash) <= n {
		return hash
	}
	return hash[:n]
}

// BodyHash returns a hex-encoded BLAKE2b-256 digest of a raw message body.
// The HTTP gateway sends it in ContentHashHeader and the reference server
// rejects a push whose body does not match.
func BodyHash(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}
