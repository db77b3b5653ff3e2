package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-quote-sync/internal/adapter"
	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/service"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/tui"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/workers"
	"github.com/MKhiriev/go-quote-sync/models"
)

var ErrUnknownAdapter = errors.New("unknown adapter kind")

var _ Client = (*App)(nil)

// App is the quote sync client: local storages, sync services, the
// background scheduler and the terminal UI, run as one worker group.
type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	workers  *workers.Workers
	logger   *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, store.ClientStoragesOptions{
		Strategy: cfg.Sync.ConflictStrategy,
		LogLimit: cfg.Sync.LogLimit,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	gateway, err := newGateway(cfg, log)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create gateway: %w", err)
	}

	bridge := tui.NewBridge()
	services := service.NewClientServices(storages, gateway, cfg.Sync, service.ClientServicesOptions{
		Decider: bridge,
		OnEvent: bridge.HandleEvent,
	}, log)

	if cfg.App.SeedQuotes {
		seeded, err := service.SeedIfFresh(ctx, services.Tracker)
		if err != nil {
			storages.Close()
			return nil, fmt.Errorf("seed starter quotes: %w", err)
		}
		if seeded > 0 {
			log.Info().Str("func", "NewApp").Int("seeded", seeded).Msg("starter quotes queued")
		}
	}

	ui := tui.New(services, storages, bridge, buildInfo, log.WithComponent("tui"))

	return &App{
		storages: storages,
		services: services,
		workers: workers.NewWorkers(
			workers.NewSyncWorker(services.Scheduler, cfg.Sync.AutoSyncEnabled, log.WithComponent("sync-worker")),
			ui,
		),
		logger: log,
	}, nil
}

// Run blocks until the UI exits or the process is interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = a.logger.WithContext(ctx)

	runErr := a.workers.Run(ctx)
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Str("func", "App.Run").Msg("failed to close local storage")
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	a.logger.Info().Str("func", "App.Run").Msg("client stopped")
	return nil
}

func newGateway(cfg *config.ClientConfig, log *logger.Logger) (adapter.Gateway, error) {
	switch cfg.Adapter.Kind {
	case config.AdapterHTTP:
		return adapter.NewHTTPGateway(cfg.Adapter, cfg.App.Version, log.WithComponent("gateway"))
	case config.AdapterPlaceholder:
		return adapter.NewPlaceholderGateway(cfg.Adapter, log.WithComponent("gateway")), nil
	case config.AdapterMemory:
		remote := service.NewRemoteRecordService(store.NewMemoryRemoteRepository(), utils.NewRealClock(), log.WithComponent("remote"))
		return adapter.NewMemoryGateway(remote), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, cfg.Adapter.Kind)
	}
}
