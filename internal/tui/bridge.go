package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-sync/models"
)

const eventBuffer = 32

type conflictReply struct {
	resolutions []models.Resolution
	err         error
}

type conflictRequest struct {
	conflicts []models.Conflict
	reply     chan conflictReply
}

// Bridge connects the sync scheduler, which runs on its own goroutine, to the
// terminal program. It is the scheduler's event handler and the manual
// conflict decider at the same time.
type Bridge struct {
	events    chan models.SyncEvent
	conflicts chan conflictRequest
}

func NewBridge() *Bridge {
	return &Bridge{
		events:    make(chan models.SyncEvent, eventBuffer),
		conflicts: make(chan conflictRequest),
	}
}

// HandleEvent queues ev for the UI. Events are dropped while the buffer is
// full; the sync log keeps the complete history.
func (b *Bridge) HandleEvent(ev models.SyncEvent) {
	select {
	case b.events <- ev:
	default:
	}
}

// OnConflictsDetected hands the batch to the conflict screen and blocks
// until the user decides, cancels, or ctx is done.
func (b *Bridge) OnConflictsDetected(ctx context.Context, conflicts []models.Conflict) ([]models.Resolution, error) {
	req := conflictRequest{conflicts: conflicts, reply: make(chan conflictReply, 1)}

	select {
	case b.conflicts <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.resolutions, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Bridge) waitForEvent(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-b.events:
			return syncEventMsg(ev)
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *Bridge) waitForConflicts(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-b.conflicts:
			return conflictRequestMsg(req)
		case <-ctx.Done():
			return nil
		}
	}
}
