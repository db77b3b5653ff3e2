// Package workers runs the client's long-lived background loops.
//
// It defines the Worker interface and a Workers aggregate that starts them
// together and stops all of them as soon as one returns.
package workers

import "context"

// Worker is a long-running unit of the client process. Run blocks until ctx
// is done or the worker has nothing left to do.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a plain function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Scheduler is the part of the sync scheduler a [SyncWorker] drives.
type Scheduler interface {
	Start(ctx context.Context)
	Stop()
	TriggerNow(ctx context.Context) bool
}
