package workers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Add(worker Worker) {
	w.workers = append(w.workers, worker)
}

// Run starts every worker and waits for all of them. The first worker to
// return cancels the context shared by the rest; its error, if any, is
// returned.
func (w *Workers) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		worker := worker
		g.Go(func() error {
			defer cancel()
			return worker.Run(gctx)
		})
	}
	return g.Wait()
}

// SyncWorker keeps the sync scheduler running for the lifetime of ctx.
type SyncWorker struct {
	scheduler   Scheduler
	initialSync bool

	logger *logger.Logger
}

// NewSyncWorker wraps scheduler. With initialSync set, one cycle runs as soon
// as the worker starts instead of waiting for the first tick.
func NewSyncWorker(scheduler Scheduler, initialSync bool, log *logger.Logger) *SyncWorker {
	return &SyncWorker{scheduler: scheduler, initialSync: initialSync, logger: log}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	w.scheduler.Start(ctx)
	defer w.scheduler.Stop()

	if w.initialSync {
		ran := w.scheduler.TriggerNow(ctx)
		w.logger.Debug().Str("func", "SyncWorker.Run").Bool("ran", ran).Msg("initial sync triggered")
	}

	<-ctx.Done()
	w.logger.Info().Str("func", "SyncWorker.Run").Msg("sync worker stopped")
	return nil
}
