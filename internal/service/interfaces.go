package service

import (
	"context"

	"github.com/MKhiriev/go-quote-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=ConflictResolver

// ConflictDecider supplies decisions for the manual strategy. It is called
// once per cycle with every detected conflict and may block until the user
// has answered; it must return when ctx is done.
type ConflictDecider interface {
	OnConflictsDetected(ctx context.Context, conflicts []models.Conflict) ([]models.Resolution, error)
}

// ConflictResolver computes the outcome of a batch of conflicts. It never
// writes; the caller applies the result in one step.
type ConflictResolver interface {
	Strategy() models.Strategy
	Resolve(ctx context.Context, local []models.Record, conflicts []models.Conflict) (Resolved, error)
}

// RecordService is the reference server's record API.
type RecordService interface {
	// Push applies pushed changes. A payload-changing write stores
	// max(incoming version, stored version + 1).
	Push(ctx context.Context, req models.PushRequest) error
	// Pull returns the whole collection in insertion order.
	Pull(ctx context.Context) (models.Snapshot, error)
}

// AppInfoService exposes build metadata of the running server.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// IDGenerator mints record ids.
type IDGenerator interface {
	Generate() string
}

// EventHandler receives every sync event.
type EventHandler func(models.SyncEvent)
