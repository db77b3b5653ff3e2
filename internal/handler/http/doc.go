// Package http implements the reference remote's REST API.
//
// It exposes the record push and pull endpoints the HTTP gateway talks to,
// plus a version probe. Request tracing, access logging, gzip transport and
// push body integrity checks run as middleware before a request reaches the
// record service.
package http
