package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/internal/validators"
	"github.com/MKhiriev/go-quote-sync/models"
)

type remoteRecordService struct {
	repository store.RemoteRecordRepository
	validator  validators.Validator
	clock      utils.Clock

	logger *logger.Logger
}

// NewRemoteRecordService returns the reference server's RecordService.
func NewRemoteRecordService(repository store.RemoteRecordRepository, clock utils.Clock, logger *logger.Logger) RecordService {
	if clock == nil {
		clock = utils.NewRealClock()
	}
	return &remoteRecordService{
		repository: repository,
		validator:  validators.NewRecordValidator(),
		clock:      clock,
		logger:     logger,
	}
}

func (s *remoteRecordService) Push(ctx context.Context, req models.PushRequest) error {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, req); err != nil {
		log.Err(err).Str("func", "remoteRecordService.Push").Msg("invalid push request")
		return err
	}
	if req.Empty() {
		return nil
	}

	ids := make([]string, 0, len(req.Records))
	for _, r := range req.Records {
		ids = append(ids, r.ID)
	}
	stored, err := s.repository.GetRecords(ctx, ids)
	if err != nil {
		log.Err(err).Str("func", "remoteRecordService.Push").Msg("failed to load stored records")
		return err
	}

	now := s.clock.Now().UTC()
	upserts := make([]store.StoredRecord, 0, len(req.Records))
	for _, incoming := range req.Records {
		next, changed := nextStoredRecord(incoming, stored, now)
		if !changed {
			continue
		}
		upserts = append(upserts, next)
	}

	if err := s.repository.ApplyChanges(ctx, upserts, req.Deleted); err != nil {
		log.Err(err).Str("func", "remoteRecordService.Push").Msg("failed to apply pushed changes")
		return fmt.Errorf("apply pushed changes: %w", err)
	}

	log.Info().Str("func", "remoteRecordService.Push").
		Int("received", len(req.Records)).Int("written", len(upserts)).Int("deleted", len(req.Deleted)).
		Msg("push applied")
	return nil
}

func (s *remoteRecordService) Pull(ctx context.Context) (models.Snapshot, error) {
	stored, err := s.repository.ListRecords(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "remoteRecordService.Pull").Msg("failed to list records")
		return models.Snapshot{}, err
	}

	records := make([]models.Record, 0, len(stored))
	for _, r := range stored {
		rec := r.Record
		rec.Origin = models.OriginRemote
		rec.SyncedVersion = 0
		records = append(records, rec)
	}
	return models.Snapshot{Records: records, Timestamp: s.clock.Now().UTC()}, nil
}

// nextStoredRecord computes what the remote stores for an incoming record.
// Versions never move backwards: a payload change is stored at
// max(incoming, stored+1). An unchanged payload is not written again.
func nextStoredRecord(incoming models.Record, stored map[string]store.StoredRecord, now time.Time) (store.StoredRecord, bool) {
	hash := utils.PayloadHash(incoming.Payload.Text, incoming.Payload.Category)

	next := store.StoredRecord{Record: incoming, PayloadHash: hash}
	next.Origin = models.OriginRemote
	next.SyncedVersion = 0
	if next.LastModified.IsZero() {
		next.LastModified = now
	}

	current, ok := stored[incoming.ID]
	if !ok {
		next.Version = max(1, incoming.Version)
		return next, true
	}

	if current.PayloadHash == hash && current.Payload.ConflictMarked == incoming.Payload.ConflictMarked {
		return current, false
	}
	next.Version = max(incoming.Version, current.Version+1)
	return next, true
}
