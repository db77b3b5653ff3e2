// Package server runs the reference remote's HTTP listener.
//
// It owns startup, signal handling, and graceful shutdown bounded by the
// configured shutdown timeout.
package server
