// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for hashing, clocks, id generation,
// HTTP response writing, HTTP client initialization,
// and other common operations.
package utils
