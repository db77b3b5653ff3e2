// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-quote-sync/internal/adapter"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/mock"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

// ── buildPushRequest ────────────────────────────────────────────────────────

func TestBuildPushRequest(t *testing.T) {
	a1 := record("a", "a v1", 1, testStart)
	a2 := record("a", "a v2", 2, testStart)
	b1 := record("b", "b v1", 1, testStart)

	pending := []models.PendingChange{
		{Seq: 3, Kind: models.ChangeAdd, RecordID: "a", Record: &a1},
		{Seq: 4, Kind: models.ChangeAdd, RecordID: "b", Record: &b1},
		{Seq: 5, Kind: models.ChangeDelete, RecordID: "c"},
		{Seq: 6, Kind: models.ChangeUpdate, RecordID: "a", Record: &a2},
		{Seq: 7, Kind: models.ChangeDelete, RecordID: "b"},
	}

	req, cutoff, err := buildPushRequest(pending)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cutoff)
	assert.Equal(t, []models.Record{a2}, req.Records)
	assert.Equal(t, []string{"b", "c"}, req.Deleted)
	assert.Equal(t, 1, req.Length)
}

func TestBuildPushRequest_Empty(t *testing.T) {
	req, cutoff, err := buildPushRequest(nil)
	require.NoError(t, err)
	assert.True(t, req.Empty())
	assert.Zero(t, cutoff)
}

func TestBuildPushRequest_MissingSnapshot(t *testing.T) {
	_, _, err := buildPushRequest([]models.PendingChange{{Seq: 1, Kind: models.ChangeUpdate, RecordID: "a"}})
	assert.ErrorIs(t, err, ErrInvalidPushBuffer)
}

// ── Scenarios ───────────────────────────────────────────────────────────────

func TestRunCycle_CleanAdd(t *testing.T) {
	h := newHarness(t, models.StrategyRemoteWins)
	ctx := testContext()

	added, err := h.tracker.Add(ctx, payload("Simplicity is the ultimate sophistication.", "Wisdom"))
	require.NoError(t, err)

	h.clock.Advance(time.Second)
	report, err := h.sync.RunCycle(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Pushed)
	assert.Empty(t, report.Conflicts)
	assert.Empty(t, h.tracker.PendingChanges())

	remote := h.remoteRecords(t)
	require.Len(t, remote, 1)
	assert.Equal(t, added.Payload, remote[0].Payload)
	assert.Equal(t, int64(1), remote[0].Version)

	local := h.local(t, added.ID)
	assert.Equal(t, added.Payload, local.Payload)
	assert.True(t, local.Synced())

	st := h.storages.State.Snapshot()
	require.NotNil(t, st.LastSyncAt)
	assert.Equal(t, testStart.Add(time.Second), *st.LastSyncAt)
}

func TestRunCycle_SecondCycleIsQuiet(t *testing.T) {
	h := newHarness(t, models.StrategyRemoteWins)
	ctx := testContext()

	_, err := h.tracker.Add(ctx, payload("once", "Life"))
	require.NoError(t, err)
	_, err = h.sync.RunCycle(ctx, nil)
	require.NoError(t, err)
	before := h.storages.Records.All()

	report, err := h.sync.RunCycle(ctx, nil)
	require.NoError(t, err)

	assert.Zero(t, report.Pushed)
	assert.Empty(t, report.Conflicts)
	assert.Equal(t, before, h.storages.Records.All())
}

func TestRunCycle_UpdateConflictRemoteWins(t *testing.T) {
	local := synced(record("1", "local text", 1, testStart))
	remote := record("1", "remote text", 2, testStart.Add(time.Minute))
	h := newHarness(t, models.StrategyRemoteWins, storedRecord(remote))
	seedLocal(t, h.storages, local)

	var hooked []models.Conflict
	report, err := h.sync.RunCycle(testContext(), func(strategy models.Strategy, conflicts []models.Conflict) {
		assert.Equal(t, models.StrategyRemoteWins, strategy)
		hooked = conflicts
	})
	require.NoError(t, err)

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, models.ConflictUpdate, report.Conflicts[0].Kind)
	assert.Equal(t, report.Conflicts, hooked)

	got := h.local(t, "1")
	assert.Equal(t, remote.Payload, got.Payload)
	assert.Equal(t, remote.Version, got.Version)
	assert.Empty(t, h.tracker.PendingChanges())
}

func TestRunCycle_AdditionConflict(t *testing.T) {
	remote := record("r1", "from another device", 3, testStart)
	h := newHarness(t, models.StrategyLocalWins, storedRecord(remote))

	report, err := h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, models.ConflictAddition, report.Conflicts[0].Kind)

	got := h.local(t, "r1")
	assert.Equal(t, remote.Payload, got.Payload)
	assert.Equal(t, int64(3), got.SyncedVersion)
	assert.Empty(t, h.tracker.PendingChanges())
}

func TestRunCycle_LocalWinsReassertsOnNextCycle(t *testing.T) {
	local := synced(record("1", "keep mine", 1, testStart))
	remote := record("1", "theirs", 2, testStart.Add(time.Minute))
	h := newHarness(t, models.StrategyLocalWins, storedRecord(remote))
	seedLocal(t, h.storages, local)
	h.clock.Advance(2 * time.Minute)

	report, err := h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Requeued)
	assert.Equal(t, []string{"update:1"}, pendingIDs(h.tracker.PendingChanges()))
	assert.Equal(t, "keep mine", h.local(t, "1").Payload.Text)

	h.clock.Advance(time.Second)
	report, err = h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)
	assert.Empty(t, h.tracker.PendingChanges())

	stored := h.remoteRecords(t)
	require.Len(t, stored, 1)
	assert.Equal(t, "keep mine", stored[0].Payload.Text)
	assert.Equal(t, int64(3), stored[0].Version)
	assert.Equal(t, "keep mine", h.local(t, "1").Payload.Text)
}

func TestRunCycle_KeepBothPushesDuplicate(t *testing.T) {
	local := synced(record("1", "mine", 1, testStart))
	remote := record("1", "theirs", 2, testStart.Add(time.Minute))
	h := newHarness(t, models.StrategyMergeKeepBoth, storedRecord(remote))
	seedLocal(t, h.storages, local)
	h.clock.Advance(2 * time.Minute)

	_, err := h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "q-1"}, recordIDs(h.storages.Records.All()))

	_, err = h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)

	stored := h.remoteRecords(t)
	require.Len(t, stored, 2)
	texts := []string{stored[0].Payload.Text, stored[1].Payload.Text}
	assert.ElementsMatch(t, []string{"mine", "theirs"}, texts)
	assert.True(t, h.local(t, "1").Payload.ConflictMarked)
}

// peer is a second client sharing h's remote and clock.
func peer(t *testing.T, h *harness, prefix string, strategy models.Strategy) *harness {
	t.Helper()

	p := &harness{
		clock:   h.clock,
		ids:     &utils.SequenceGenerator{Prefix: prefix},
		remote:  h.remote,
		gateway: h.gateway,
	}
	p.storages = store.NewClientStoragesWith(store.NewMemoryPersistence(), store.ClientStoragesOptions{
		Clock:    p.clock,
		Strategy: strategy,
	}, logger.Nop())
	require.NoError(t, p.storages.Load(testContext()))
	p.tracker = NewChangeTracker(p.storages, p.ids, logger.Nop())
	p.sync = newTestSyncService(p.storages, p.gateway, p.tracker, nil, p.ids, p.clock)
	return p
}

func payloadsOf(records []models.Record) map[string]models.Payload {
	out := make(map[string]models.Payload, len(records))
	for _, r := range records {
		out[r.ID] = r.Payload
	}
	return out
}

func TestRunCycle_KeepBothTwoClientsConverge(t *testing.T) {
	base := record("1", "original", 1, testStart)
	a := newHarness(t, models.StrategyMergeKeepBoth, storedRecord(base))
	b := peer(t, a, "b", models.StrategyMergeKeepBoth)
	seedLocal(t, a.storages, synced(base))
	seedLocal(t, b.storages, synced(base))

	a.clock.Advance(time.Minute)
	_, _, err := a.tracker.Edit(testContext(), "1", payload("from a", "Wisdom"))
	require.NoError(t, err)
	a.clock.Advance(time.Minute)
	_, _, err = b.tracker.Edit(testContext(), "1", payload("from b", "Wisdom"))
	require.NoError(t, err)

	var last [2]CycleReport
	for round := 0; round < 10; round++ {
		for i, c := range []*harness{a, b} {
			c.clock.Advance(time.Second)
			report, err := c.sync.RunCycle(testContext(), nil)
			require.NoError(t, err, "round %d", round)
			last[i] = report
		}
	}

	stored := a.remoteRecords(t)
	require.Len(t, stored, 2)
	texts := []string{stored[0].Payload.Text, stored[1].Payload.Text}
	assert.ElementsMatch(t, []string{"from a", "from b"}, texts)

	assert.Equal(t, payloadsOf(a.storages.Records.All()), payloadsOf(b.storages.Records.All()))
	assert.Empty(t, last[0].Conflicts)
	assert.Empty(t, last[1].Conflicts)
	assert.Empty(t, a.tracker.PendingChanges())
	assert.Empty(t, b.tracker.PendingChanges())
}

func TestRunCycle_RemoteDeletionRemoteWins(t *testing.T) {
	h := newHarness(t, models.StrategyRemoteWins)
	seedLocal(t, h.storages, synced(record("gone", "deleted elsewhere", 2, testStart)))

	report, err := h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)

	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, models.ConflictDeletion, report.Conflicts[0].Kind)
	assert.Empty(t, h.storages.Records.All())
}

func TestRunCycle_LocalDeletePushed(t *testing.T) {
	r := record("1", "doomed", 1, testStart)
	h := newHarness(t, models.StrategyRemoteWins, storedRecord(r))
	seedLocal(t, h.storages, synced(r))

	require.NoError(t, h.tracker.Delete(testContext(), "1"))

	report, err := h.sync.RunCycle(testContext(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.Empty(t, h.remoteRecords(t))
	assert.Empty(t, h.tracker.PendingChanges())
}

// ── Failures ────────────────────────────────────────────────────────────────

func TestRunCycle_PullFailureKeepsPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, models.StrategyRemoteWins)
	ctx := testContext()
	added, err := h.tracker.Add(ctx, payload("offline edit", "Life"))
	require.NoError(t, err)
	before := h.tracker.PendingChanges()

	gw := mock.NewMockGateway(ctrl)
	gw.EXPECT().Push(gomock.Any(), gomock.Any()).Return(nil)
	gw.EXPECT().Pull(gomock.Any()).Return(models.Snapshot{}, &adapter.GatewayError{Op: "pull", Err: adapter.ErrUnavailable})

	svc := newTestSyncService(h.storages, gw, h.tracker, nil, h.ids, h.clock)
	_, err = svc.RunCycle(ctx, nil)

	assert.ErrorIs(t, err, ErrPullFailed)
	assert.ErrorIs(t, err, adapter.ErrGateway)
	assert.Equal(t, before, h.tracker.PendingChanges())
	assert.Equal(t, added, h.local(t, added.ID))
	assert.Nil(t, h.storages.State.Snapshot().LastSyncAt)
}

func TestRunCycle_PushFailureSkipsPull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, models.StrategyRemoteWins)
	ctx := testContext()
	_, err := h.tracker.Add(ctx, payload("offline edit", "Life"))
	require.NoError(t, err)

	gw := mock.NewMockGateway(ctrl)
	gw.EXPECT().Push(gomock.Any(), gomock.Any()).Return(&adapter.GatewayError{Op: "push", Err: adapter.ErrBadGateway})

	svc := newTestSyncService(h.storages, gw, h.tracker, nil, h.ids, h.clock)
	_, err = svc.RunCycle(ctx, nil)

	assert.ErrorIs(t, err, ErrPushFailed)
	assert.ErrorIs(t, err, adapter.ErrBadGateway)
	assert.Len(t, h.tracker.PendingChanges(), 1)
}

func TestRunCycle_NothingPendingSkipsPush(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, models.StrategyRemoteWins)
	gw := mock.NewMockGateway(ctrl)
	gw.EXPECT().Pull(gomock.Any()).Return(models.Snapshot{}, nil)

	svc := newTestSyncService(h.storages, gw, h.tracker, nil, h.ids, h.clock)
	_, err := svc.RunCycle(testContext(), nil)
	require.NoError(t, err)
}

func TestRunCycle_InvalidRemoteRecordsSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, models.StrategyRemoteWins)
	gw := mock.NewMockGateway(ctrl)
	gw.EXPECT().Pull(gomock.Any()).Return(models.Snapshot{Records: []models.Record{
		record("ok", "fine", 1, testStart),
		record("", "no id", 1, testStart),
		record("neg", "negative", -1, testStart),
		record("ok", "duplicate", 2, testStart),
	}}, nil)

	svc := newTestSyncService(h.storages, gw, h.tracker, nil, h.ids, h.clock)
	report, err := svc.RunCycle(testContext(), nil)
	require.NoError(t, err)

	assert.Len(t, report.Rejected, 3)
	assert.Equal(t, 1, report.Pulled)
	assert.Equal(t, []string{"ok"}, recordIDs(h.storages.Records.All()))
	assert.Equal(t, "fine", h.local(t, "ok").Payload.Text)

	warnings := 0
	for _, e := range h.storages.SyncLog.Entries() {
		if e.Level == models.LogWarning {
			warnings++
		}
	}
	assert.Equal(t, 3, warnings)
}

func TestRunCycle_ManualWithoutDeciderFails(t *testing.T) {
	h := newHarness(t, models.StrategyManual, storedRecord(record("r", "remote", 1, testStart)))

	_, err := h.sync.RunCycle(testContext(), nil)
	assert.ErrorIs(t, err, ErrResolutionFailed)
	assert.ErrorIs(t, err, ErrDeciderRequired)
	assert.Empty(t, h.storages.Records.All())
}

func TestRunCycle_ManualInvalidResolutionAppliesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, models.StrategyManual, storedRecord(record("r", "remote", 1, testStart)))
	ctx := testContext()
	_, err := h.tracker.Add(ctx, payload("pending", "Life"))
	require.NoError(t, err)

	decider := mock.NewMockConflictDecider(ctrl)
	decider.EXPECT().OnConflictsDetected(gomock.Any(), gomock.Len(1)).Return(nil, nil)

	svc := newTestSyncService(h.storages, h.gateway, h.tracker, decider, h.ids, h.clock)
	_, err = svc.RunCycle(ctx, nil)

	assert.ErrorIs(t, err, ErrInvalidResolution)
	assert.Len(t, h.tracker.PendingChanges(), 1)
	_, ok := h.storages.Records.Get("r")
	assert.False(t, ok)
}

func TestRunCycle_WriteBackFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("disk full")
	p := mock.NewMockPersistence(ctrl)
	p.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Return(boom)

	storages := store.NewClientStoragesWith(p, store.ClientStoragesOptions{Clock: utils.NewManualClock(testStart)}, logger.Nop())
	gw := mock.NewMockGateway(ctrl)
	gw.EXPECT().Pull(gomock.Any()).Return(models.Snapshot{Records: []models.Record{record("r", "remote", 1, testStart)}}, nil)

	svc := newTestSyncService(storages, gw, nil, nil, nil, utils.NewManualClock(testStart))
	_, err := svc.RunCycle(testContext(), nil)

	assert.ErrorIs(t, err, ErrWriteBackFailed)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, storages.Records.All())
	assert.Nil(t, storages.State.Snapshot().LastSyncAt)
}

func TestRunCycle_EditDuringResolutionSurvives(t *testing.T) {
	h := newHarness(t, models.StrategyRemoteWins, storedRecord(record("r", "remote", 1, testStart)))
	ctx := testContext()

	var during models.Record
	_, err := h.sync.RunCycle(ctx, func(models.Strategy, []models.Conflict) {
		var err error
		during, err = h.tracker.Add(ctx, payload("typed while syncing", "Life"))
		require.NoError(t, err)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"r", during.ID}, recordIDs(h.storages.Records.All()))
	assert.Equal(t, []string{"add:" + during.ID}, pendingIDs(h.tracker.PendingChanges()))
}
