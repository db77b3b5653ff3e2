package service

import (
	"github.com/MKhiriev/go-quote-sync/internal/adapter"
	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
)

// ClientServices groups the client-side services.
type ClientServices struct {
	Tracker   *ChangeTracker
	Sync      *ClientSyncService
	Scheduler *SyncScheduler
}

// ClientServicesOptions carries the optional collaborators of the client
// services. Zero values fall back to real implementations.
type ClientServicesOptions struct {
	Decider ConflictDecider
	IDs     IDGenerator
	Clock   utils.Clock
	OnEvent EventHandler
}

func NewClientServices(storages *store.ClientStorages, gateway adapter.Gateway, cfg config.ClientSync, opts ClientServicesOptions, log *logger.Logger) *ClientServices {
	if opts.IDs == nil {
		opts.IDs = utils.NewUUIDGenerator()
	}
	if opts.Clock == nil {
		opts.Clock = utils.NewRealClock()
	}

	tracker := NewChangeTracker(storages, opts.IDs, log.WithComponent("tracker"))
	syncSvc := NewClientSyncService(SyncDeps{
		Storages: storages,
		Gateway:  gateway,
		Tracker:  tracker,
		Decider:  opts.Decider,
		IDs:      opts.IDs,
		Clock:    opts.Clock,
	}, log.WithComponent("sync"))

	scheduler := NewSyncScheduler(syncSvc, storages, SchedulerOptions{
		Interval:        cfg.Interval,
		AutoSyncEnabled: cfg.AutoSyncEnabled,
		MaxBackoff:      cfg.MaxBackoff,
		PullInterval:    cfg.PullInterval,
		Clock:           opts.Clock,
		OnEvent:         opts.OnEvent,
	}, log.WithComponent("scheduler"))

	return &ClientServices{
		Tracker:   tracker,
		Sync:      syncSvc,
		Scheduler: scheduler,
	}
}
