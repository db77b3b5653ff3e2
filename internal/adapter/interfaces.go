// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer abstractions the sync engine
// uses to reach a remote quote collection.
//
// The primary abstraction is [Gateway], which decouples the sync cycle from
// the underlying protocol. The package ships three implementations: an
// HTTP/REST gateway for the reference server ([NewHTTPGateway]), a gateway
// over a JSONPlaceholder-style posts API ([NewPlaceholderGateway]), and an
// in-process gateway ([NewMemoryGateway]) for offline use and tests.
//
// Every failure leaves a gateway as a [*GatewayError], which matches
// [ErrGateway] via [errors.Is]. HTTP status codes are mapped to the sentinel
// values in errors.go by mapHTTPError so callers can still tell, for
// example, a 400 from a 502 without inspecting transport detail.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-quote-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// Gateway is the boundary to the remote quote collection.
type Gateway interface {
	// Push sends pending local changes in creation order.
	Push(ctx context.Context, req models.PushRequest) error

	// Pull fetches the full remote collection. The snapshot is
	// authoritative: anything absent from it is absent remotely.
	Pull(ctx context.Context) (models.Snapshot, error)
}

// RecordServer is the in-process counterpart of the reference server's HTTP
// API. [NewMemoryGateway] forwards to it.
type RecordServer interface {
	Push(ctx context.Context, req models.PushRequest) error
	Pull(ctx context.Context) (models.Snapshot, error)
}
