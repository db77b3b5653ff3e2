package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-quote-sync/internal/adapter"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
	"github.com/MKhiriev/go-quote-sync/models"
)

// CycleReport summarizes one completed sync cycle.
type CycleReport struct {
	Strategy  models.Strategy
	Pushed    int
	Deleted   int
	Pulled    int
	Rejected  []validators.Rejection
	Conflicts []models.Conflict
	Applied   []AppliedResolution
	Requeued  int
}

// ConflictHook is called once per cycle, before resolution starts, when the
// detector has found conflicts.
type ConflictHook func(strategy models.Strategy, conflicts []models.Conflict)

// ClientSyncService runs single sync cycles: push pending changes, pull the
// remote snapshot, detect conflicts, merge or resolve, write back.
type ClientSyncService struct {
	storages  *store.ClientStorages
	gateway   adapter.Gateway
	tracker   *ChangeTracker
	decider   ConflictDecider
	ids       IDGenerator
	clock     utils.Clock
	validator validators.Validator
	logger    *logger.Logger
}

// SyncDeps are the collaborators of a ClientSyncService.
type SyncDeps struct {
	Storages *store.ClientStorages
	Gateway  adapter.Gateway
	Tracker  *ChangeTracker
	Decider  ConflictDecider
	IDs      IDGenerator
	Clock    utils.Clock
}

func NewClientSyncService(deps SyncDeps, log *logger.Logger) *ClientSyncService {
	if deps.IDs == nil {
		deps.IDs = utils.NewUUIDGenerator()
	}
	if deps.Clock == nil {
		deps.Clock = utils.NewRealClock()
	}
	if deps.Tracker == nil {
		deps.Tracker = NewChangeTracker(deps.Storages, deps.IDs, log)
	}
	return &ClientSyncService{
		storages:  deps.Storages,
		gateway:   deps.Gateway,
		tracker:   deps.Tracker,
		decider:   deps.Decider,
		ids:       deps.IDs,
		clock:     deps.Clock,
		validator: validators.NewRecordValidator(),
		logger:    log,
	}
}

// RunCycle performs one full cycle. On any error nothing is written back
// and the pending changes stay queued.
func (s *ClientSyncService) RunCycle(ctx context.Context, onConflicts ConflictHook) (CycleReport, error) {
	strategy := s.storages.State.Strategy()
	report := CycleReport{Strategy: strategy}

	pending := s.tracker.PendingChanges()
	req, cutoff, err := buildPushRequest(pending)
	if err != nil {
		s.logger.Err(err).Str("func", "ClientSyncService.RunCycle").Msg("pending changes cannot be pushed")
		return report, err
	}

	if !req.Empty() {
		if err := s.gateway.Push(ctx, req); err != nil {
			s.logger.Err(err).Str("func", "ClientSyncService.RunCycle").Int("records", len(req.Records)).Msg("push failed")
			return report, fmt.Errorf("%w: %w", ErrPushFailed, err)
		}
		report.Pushed = len(req.Records)
		report.Deleted = len(req.Deleted)
	}

	snapshot, err := s.gateway.Pull(ctx)
	if err != nil {
		s.logger.Err(err).Str("func", "ClientSyncService.RunCycle").Msg("pull failed")
		return report, fmt.Errorf("%w: %w", ErrPullFailed, err)
	}

	remote, rejected := validators.SanitizeRecords(ctx, s.validator, snapshot.Records)
	report.Pulled = len(remote)
	report.Rejected = rejected
	for _, r := range rejected {
		s.logger.Warn().Err(r.Err).Str("func", "ClientSyncService.RunCycle").
			Str("id", r.RecordID).Int("index", r.Index).Msg("skipping invalid remote record")
		s.appendLog(ctx, models.LogWarning, "Skipped invalid remote record: "+r.Error())
	}

	local := s.storages.Records.All()
	conflicts := DetectConflicts(local, remote, s.clock.Now())
	report.Conflicts = conflicts

	result := CycleResult{Cutoff: cutoff}
	if len(conflicts) == 0 {
		result.Records = MergeRecords(local, remote)
	} else {
		if onConflicts != nil {
			onConflicts(strategy, conflicts)
		}

		resolved, err := s.resolve(ctx, strategy, local, remote, conflicts)
		if err != nil {
			return report, err
		}
		result.Records = resolved.Records
		result.Requeue = resolved.Requeue
		report.Applied = resolved.Applied
		report.Requeued = len(resolved.Requeue)
	}

	if err := s.tracker.ApplyCycleResult(ctx, result); err != nil {
		return report, err
	}

	if err := s.storages.State.MarkSynced(ctx, s.clock.Now(), s.storages.Pending.NextSeq()); err != nil {
		s.logger.Err(err).Str("func", "ClientSyncService.RunCycle").Msg("failed to persist sync state")
	}
	return report, nil
}

// resolve merges the unconflicted part of the snapshot and hands the rest
// to the strategy's resolver.
func (s *ClientSyncService) resolve(ctx context.Context, strategy models.Strategy, local, remote []models.Record, conflicts []models.Conflict) (Resolved, error) {
	resolver, err := NewConflictResolver(strategy, ResolverDeps{
		Decider: s.decider,
		IDs:     s.ids,
		Clock:   s.clock,
	})
	if err != nil {
		s.logger.Err(err).Str("func", "ClientSyncService.resolve").Str("strategy", strategy.String()).Msg("no resolver for strategy")
		return Resolved{}, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	conflicted := make(map[string]struct{}, len(conflicts))
	for _, c := range conflicts {
		conflicted[c.RecordID] = struct{}{}
	}
	settled := make([]models.Record, 0, len(remote))
	for _, r := range remote {
		if _, ok := conflicted[r.ID]; !ok {
			settled = append(settled, r)
		}
	}
	base := MergeRecords(local, settled)

	resolved, err := resolver.Resolve(ctx, base, conflicts)
	if err != nil {
		s.logger.Err(err).Str("func", "ClientSyncService.resolve").Str("strategy", strategy.String()).Msg("failed to resolve conflicts")
		if errors.Is(err, ErrInvalidResolution) || errors.Is(err, ErrResolutionFailed) {
			return Resolved{}, err
		}
		return Resolved{}, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}
	return resolved, nil
}

func (s *ClientSyncService) appendLog(ctx context.Context, level models.LogLevel, msg string) {
	if err := s.storages.SyncLog.Append(ctx, level, msg); err != nil {
		s.logger.Err(err).Str("func", "ClientSyncService.appendLog").Msg("failed to append sync log entry")
	}
}

// buildPushRequest collapses the pending log into one request. Each id is
// sent once with its latest state, in the order it was first changed. The
// returned cutoff is the Seq of the newest entry covered by the request.
func buildPushRequest(pending []models.PendingChange) (models.PushRequest, int64, error) {
	var cutoff int64
	order := make([]string, 0, len(pending))
	latest := make(map[string]models.PendingChange, len(pending))

	for _, c := range pending {
		if c.Kind != models.ChangeDelete && c.Record == nil {
			return models.PushRequest{}, 0, fmt.Errorf("%w: %s change %d for %q has no record", ErrInvalidPushBuffer, c.Kind, c.Seq, c.RecordID)
		}
		if _, ok := latest[c.RecordID]; !ok {
			order = append(order, c.RecordID)
		}
		latest[c.RecordID] = c
		cutoff = max(cutoff, c.Seq)
	}

	req := models.PushRequest{}
	for _, id := range order {
		c := latest[id]
		if c.Kind == models.ChangeDelete {
			req.Deleted = append(req.Deleted, id)
			continue
		}
		req.Records = append(req.Records, *c.Record)
	}
	req.Length = len(req.Records)
	return req, cutoff, nil
}
