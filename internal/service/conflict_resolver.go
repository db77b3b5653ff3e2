// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

// reassertTick is how far past the remote copy a reasserted local record's
// LastModified is moved when the clock lags behind the remote's.
const reassertTick = time.Millisecond

// Requeue is a change a resolution wants pushed on the next cycle.
type Requeue struct {
	Kind   models.ChangeKind
	Record models.Record
}

// AppliedResolution records which strategy settled a conflict.
type AppliedResolution struct {
	RecordID string
	Kind     models.ConflictKind
	Strategy models.Strategy
}

// Resolved is the outcome of one batch of conflicts: the full record
// collection to install and the changes to queue again.
type Resolved struct {
	Records []models.Record
	Requeue []Requeue
	Applied []AppliedResolution
}

// ResolverDeps are the collaborators a resolver may need.
type ResolverDeps struct {
	Decider ConflictDecider
	IDs     IDGenerator
	Clock   utils.Clock
}

// NewConflictResolver returns the resolver implementing strategy.
func NewConflictResolver(strategy models.Strategy, deps ResolverDeps) (ConflictResolver, error) {
	if deps.IDs == nil {
		deps.IDs = utils.NewUUIDGenerator()
	}
	if deps.Clock == nil {
		deps.Clock = utils.NewRealClock()
	}

	switch strategy {
	case models.StrategyRemoteWins:
		return &remoteWinsResolver{deps: deps}, nil
	case models.StrategyLocalWins:
		return &localWinsResolver{deps: deps}, nil
	case models.StrategyMergeKeepBoth:
		return &keepBothResolver{deps: deps}, nil
	case models.StrategyManual:
		if deps.Decider == nil {
			return nil, ErrDeciderRequired
		}
		return &manualResolver{deps: deps}, nil
	default:
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownStrategy, int(strategy))
	}
}

// conflictApplier settles a single conflict into a resolution in progress.
type conflictApplier interface {
	apply(b *resolution, c models.Conflict)
}

func appliers(deps ResolverDeps) map[models.Strategy]conflictApplier {
	return map[models.Strategy]conflictApplier{
		models.StrategyRemoteWins:    &remoteWinsResolver{deps: deps},
		models.StrategyLocalWins:     &localWinsResolver{deps: deps},
		models.StrategyMergeKeepBoth: &keepBothResolver{deps: deps},
	}
}

func resolveAll(deps ResolverDeps, strategy models.Strategy, a conflictApplier, local []models.Record, conflicts []models.Conflict) Resolved {
	b := newResolution(local, conflicts, deps.Clock.Now(), deps.IDs)
	for _, c := range conflicts {
		a.apply(b, c)
		b.applied = append(b.applied, AppliedResolution{RecordID: c.RecordID, Kind: c.Kind, Strategy: strategy})
	}
	return b.result()
}

// ── remote-wins ──

type remoteWinsResolver struct {
	deps ResolverDeps
}

func (r *remoteWinsResolver) Strategy() models.Strategy { return models.StrategyRemoteWins }

func (r *remoteWinsResolver) Resolve(_ context.Context, local []models.Record, conflicts []models.Conflict) (Resolved, error) {
	return resolveAll(r.deps, r.Strategy(), r, local, conflicts), nil
}

func (r *remoteWinsResolver) apply(b *resolution, c models.Conflict) {
	switch c.Kind {
	case models.ConflictUpdate, models.ConflictAddition:
		b.put(adopt(*c.Remote))
	case models.ConflictDeletion:
		b.remove(c.RecordID)
	}
}

// ── local-wins ──

type localWinsResolver struct {
	deps ResolverDeps
}

func (r *localWinsResolver) Strategy() models.Strategy { return models.StrategyLocalWins }

func (r *localWinsResolver) Resolve(_ context.Context, local []models.Record, conflicts []models.Conflict) (Resolved, error) {
	return resolveAll(r.deps, r.Strategy(), r, local, conflicts), nil
}

func (r *localWinsResolver) apply(b *resolution, c models.Conflict) {
	switch c.Kind {
	case models.ConflictUpdate:
		kept := reassert(*c.Local, *c.Remote, b.now)
		b.put(kept)
		b.requeue(models.ChangeUpdate, kept)
	case models.ConflictAddition:
		b.put(adopt(*c.Remote))
	case models.ConflictDeletion:
		kept := *c.Local
		kept.SyncedVersion = 0
		b.put(kept)
		b.requeue(models.ChangeAdd, kept)
	}
}

// ── merge-keep-both ──

type keepBothResolver struct {
	deps ResolverDeps
}

func (r *keepBothResolver) Strategy() models.Strategy { return models.StrategyMergeKeepBoth }

func (r *keepBothResolver) Resolve(_ context.Context, local []models.Record, conflicts []models.Conflict) (Resolved, error) {
	return resolveAll(r.deps, r.Strategy(), r, local, conflicts), nil
}

// apply keeps both payloads of an update conflict at most once. A remote
// copy that is already conflict-marked is another client's keep-both
// result and already carries both sides, so it is adopted instead of being
// duplicated again.
func (r *keepBothResolver) apply(b *resolution, c models.Conflict) {
	switch c.Kind {
	case models.ConflictUpdate:
		if c.Remote.Payload.ConflictMarked {
			b.put(adopt(*c.Remote))
			if !b.holds(c.Local.Payload, c.RecordID) {
				b.duplicate(*c.Local, c.RecordID)
			}
			return
		}

		kept := *c.Local
		kept.Payload.ConflictMarked = true
		kept = reassert(kept, *c.Remote, b.now)
		kept.Origin = models.OriginMerged
		b.put(kept)
		b.requeue(models.ChangeUpdate, kept)

		if !b.holds(c.Remote.Payload, kept.ID) {
			b.duplicate(*c.Remote, kept.ID)
		}
	case models.ConflictAddition:
		b.put(adopt(*c.Remote))
	case models.ConflictDeletion:
		kept := *c.Local
		kept.SyncedVersion = 0
		b.put(kept)
		b.requeue(models.ChangeAdd, kept)
	}
}

// ── manual ──

type manualResolver struct {
	deps ResolverDeps
}

func (r *manualResolver) Strategy() models.Strategy { return models.StrategyManual }

// Resolve asks the decider once for the whole batch, then settles every
// conflict with the strategy chosen for it. Nothing is applied unless every
// conflict has exactly one valid decision.
func (r *manualResolver) Resolve(ctx context.Context, local []models.Record, conflicts []models.Conflict) (Resolved, error) {
	if len(conflicts) == 0 {
		return Resolved{Records: local}, nil
	}

	decisions, err := r.ask(ctx, conflicts)
	if err != nil {
		return Resolved{}, err
	}

	choices, err := matchResolutions(conflicts, decisions)
	if err != nil {
		return Resolved{}, err
	}

	byStrategy := appliers(r.deps)
	b := newResolution(local, conflicts, r.deps.Clock.Now(), r.deps.IDs)
	for _, c := range conflicts {
		choice := choices[c.RecordID]
		byStrategy[choice].apply(b, c)
		b.applied = append(b.applied, AppliedResolution{RecordID: c.RecordID, Kind: c.Kind, Strategy: choice})
	}
	return b.result(), nil
}

func (r *manualResolver) ask(ctx context.Context, conflicts []models.Conflict) ([]models.Resolution, error) {
	type answer struct {
		decisions []models.Resolution
		err       error
	}
	done := make(chan answer, 1)

	batch := make([]models.Conflict, len(conflicts))
	copy(batch, conflicts)
	go func() {
		decisions, err := r.deps.Decider.OnConflictsDetected(ctx, batch)
		done <- answer{decisions: decisions, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrResolutionFailed, ctx.Err())
	case a := <-done:
		if a.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolutionFailed, a.err)
		}
		return a.decisions, nil
	}
}

func matchResolutions(conflicts []models.Conflict, decisions []models.Resolution) (map[string]models.Strategy, error) {
	pending := make(map[string]struct{}, len(conflicts))
	for _, c := range conflicts {
		pending[c.RecordID] = struct{}{}
	}

	choices := make(map[string]models.Strategy, len(decisions))
	for _, d := range decisions {
		if _, ok := pending[d.RecordID]; !ok {
			return nil, fmt.Errorf("%w: no conflict for record %q", ErrInvalidResolution, d.RecordID)
		}
		if _, dup := choices[d.RecordID]; dup {
			return nil, fmt.Errorf("%w: record %q decided twice", ErrInvalidResolution, d.RecordID)
		}
		if !d.Choice.IsAutomatic() {
			return nil, fmt.Errorf("%w: record %q: %s cannot settle a conflict", ErrInvalidResolution, d.RecordID, d.Choice)
		}
		choices[d.RecordID] = d.Choice
	}

	for id := range pending {
		if _, ok := choices[id]; !ok {
			return nil, fmt.Errorf("%w: record %q left undecided", ErrInvalidResolution, id)
		}
	}
	return choices, nil
}

// reassert turns local into a write that supersedes remote: its version
// passes the remote's and it becomes strictly newer.
func reassert(local, remote models.Record, now time.Time) models.Record {
	local.Version = max(local.Version, remote.Version) + 1
	local.LastModified = now
	if !now.After(remote.LastModified) {
		local.LastModified = remote.LastModified.Add(reassertTick)
	}
	local.SyncedVersion = remote.Version
	return local
}

// resolution is an ordered record collection being rewritten by appliers.
type resolution struct {
	order   []string
	byID    map[string]models.Record
	queued  []Requeue
	applied []AppliedResolution
	now     time.Time
	ids     IDGenerator

	// incoming are remote-only records arriving in the same batch.
	incoming []models.Record
}

func newResolution(local []models.Record, conflicts []models.Conflict, now time.Time, ids IDGenerator) *resolution {
	b := &resolution{
		order: make([]string, 0, len(local)),
		byID:  make(map[string]models.Record, len(local)),
		now:   now,
		ids:   ids,
	}
	for _, r := range local {
		b.put(r)
	}
	for _, c := range conflicts {
		if c.Kind == models.ConflictAddition && c.Remote != nil {
			b.incoming = append(b.incoming, *c.Remote)
		}
	}
	return b
}

// holds reports whether a record other than except already carries p,
// ignoring the conflict marker. Remote additions of the current batch count.
func (b *resolution) holds(p models.Payload, except string) bool {
	p.ConflictMarked = false
	same := func(r models.Record) bool {
		q := r.Payload
		q.ConflictMarked = false
		return r.ID != except && q.Equal(p)
	}
	for _, r := range b.byID {
		if same(r) {
			return true
		}
	}
	for _, r := range b.incoming {
		if same(r) {
			return true
		}
	}
	return false
}

// duplicate mints an unmarked copy of src under a fresh id, placed after
// anchor and queued as an addition.
func (b *resolution) duplicate(src models.Record, anchor string) {
	dup := src
	dup.ID = b.ids.Generate()
	dup.Payload.ConflictMarked = false
	dup.Version = 1
	dup.SyncedVersion = 0
	dup.Origin = models.OriginMerged
	b.insertAfter(anchor, dup)
	b.requeue(models.ChangeAdd, dup)
}

func (b *resolution) put(r models.Record) {
	if _, ok := b.byID[r.ID]; !ok {
		b.order = append(b.order, r.ID)
	}
	b.byID[r.ID] = r
}

func (b *resolution) insertAfter(anchor string, r models.Record) {
	if _, ok := b.byID[r.ID]; ok {
		b.byID[r.ID] = r
		return
	}
	b.byID[r.ID] = r
	for i, id := range b.order {
		if id == anchor {
			b.order = append(b.order[:i+1], append([]string{r.ID}, b.order[i+1:]...)...)
			return
		}
	}
	b.order = append(b.order, r.ID)
}

func (b *resolution) remove(id string) {
	if _, ok := b.byID[id]; !ok {
		return
	}
	delete(b.byID, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

func (b *resolution) requeue(kind models.ChangeKind, r models.Record) {
	b.queued = append(b.queued, Requeue{Kind: kind, Record: r})
}

func (b *resolution) result() Resolved {
	records := make([]models.Record, 0, len(b.order))
	for _, id := range b.order {
		records = append(records, b.byID[id])
	}
	return Resolved{Records: records, Requeue: b.queued, Applied: b.applied}
}
