package tui

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-quote-sync/internal/adapter"
	"github.com/MKhiriev/go-quote-sync/internal/config"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/service"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	statusTTL = time.Millisecond
	os.Exit(m.Run())
}

type tuiHarness struct {
	ctx      context.Context
	storages *store.ClientStorages
	services *service.ClientServices
	remote   store.RemoteRecordRepository
	bridge   *Bridge
}

func newTUIHarness(t *testing.T, strategy models.Strategy, remoteSeed ...store.StoredRecord) *tuiHarness {
	t.Helper()

	l := zerolog.Nop()
	ctx, cancel := context.WithCancel(l.WithContext(context.Background()))
	t.Cleanup(cancel)

	clock := utils.NewManualClock(testStart)
	storages := store.NewClientStoragesWith(store.NewMemoryPersistence(), store.ClientStoragesOptions{
		Clock:    clock,
		Strategy: strategy,
	}, logger.Nop())
	require.NoError(t, storages.Load(ctx))

	remote := store.NewMemoryRemoteRepository(remoteSeed...)
	gateway := adapter.NewMemoryGateway(service.NewRemoteRecordService(remote, clock, logger.Nop()))

	bridge := NewBridge()
	services := service.NewClientServices(storages, gateway, config.ClientSync{}, service.ClientServicesOptions{
		Decider: bridge,
		IDs:     &utils.SequenceGenerator{Prefix: "q"},
		Clock:   clock,
		OnEvent: bridge.HandleEvent,
	}, logger.Nop())

	return &tuiHarness{
		ctx:      ctx,
		storages: storages,
		services: services,
		remote:   remote,
		bridge:   bridge,
	}
}

func (h *tuiHarness) model() model {
	return newModel(h.ctx, h.services, h.storages, h.bridge, models.NewAppBuildInfo("1.0.0", "2026-03-01", "abc123"))
}

func (h *tuiHarness) add(t *testing.T, text, category string) models.Record {
	t.Helper()
	r, err := h.services.Tracker.Add(h.ctx, models.Payload{Text: text, Category: category})
	require.NoError(t, err)
	return r
}

func remoteRecord(id, text, category string) store.StoredRecord {
	return store.StoredRecord{
		Record: models.Record{
			ID:           id,
			Payload:      models.Payload{Text: text, Category: category},
			Version:      1,
			LastModified: testStart,
		},
		PayloadHash: utils.PayloadHash(text, category),
	}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func step(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

// run executes cmd and every command batched inside it.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, run(c)...)
	}
	return out
}

func msgOf[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	require.Failf(t, "message not found", "%T not among %v", zero, msgs)
	return zero
}

func texts(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Payload.Text
	}
	return out
}

// ── list ────────────────────────────────────────────────────────────────────

func TestModel_ListShowsRecords(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	h.add(t, "First quote", "Life")
	h.add(t, "Second quote", "Work")

	m := h.model()
	assert.Equal(t, []string{"First quote", "Second quote"}, texts(m.records))

	view := m.View()
	assert.Contains(t, view, "QUOTES")
	assert.Contains(t, view, "First quote")
	assert.Contains(t, view, "pending: 2")
	assert.Contains(t, view, "strategy: remote-wins")
}

func TestModel_ListNavigation(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	h.add(t, "one", "A")
	h.add(t, "two", "A")

	m := h.model()
	m, _ = step(t, m, press("k"))
	assert.Equal(t, 0, m.idx)

	m, _ = step(t, m, press("j"))
	m, _ = step(t, m, press("j"))
	assert.Equal(t, 1, m.idx)

	m, _ = step(t, m, press("enter"))
	assert.Equal(t, modeDetail, m.mode)
	assert.Contains(t, m.View(), "two")
	assert.Contains(t, m.View(), "Hash:")

	m, _ = step(t, m, press("esc"))
	assert.Equal(t, modeList, m.mode)
}

func TestModel_QuitOnlyFromList(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m, _ = step(t, m, press("n"))
	require.Equal(t, modeForm, m.mode)
	m, _ = step(t, m, press("q"))
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "q", m.form.inputs[fieldText].Value())

	m.mode = modeList
	_, cmd := step(t, m, press("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_FilterCyclesCategories(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	h.add(t, "one", "Life")
	h.add(t, "two", "Work")
	h.add(t, "three", "Life")

	m := h.model()
	require.Equal(t, []string{"Life", "Work"}, m.categories)

	m, _ = step(t, m, press("f"))
	assert.Equal(t, "Life", m.filter)
	assert.Equal(t, []string{"one", "three"}, texts(m.records))

	m, _ = step(t, m, press("f"))
	assert.Equal(t, "Work", m.filter)
	assert.Equal(t, []string{"two"}, texts(m.records))

	m, _ = step(t, m, press("f"))
	assert.Empty(t, m.filter)
	assert.Len(t, m.records, 3)
}

// ── editing ─────────────────────────────────────────────────────────────────

func TestModel_AddQuote(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m, _ = step(t, m, press("n"))
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "NEW QUOTE")

	m.form.inputs[fieldText].SetValue("  Stay hungry  ")
	m.form.inputs[fieldCategory].SetValue("Work")

	m, cmd := step(t, m, press("enter"))
	assert.True(t, m.form.submitting)

	saved := msgOf[savedMsg](t, run(cmd))
	require.NoError(t, saved.err)
	assert.True(t, saved.created)

	m, _ = step(t, m, saved)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Quote added", m.status)
	assert.Equal(t, []string{"Stay hungry"}, texts(m.records))
	assert.Equal(t, 1, h.storages.Pending.Len())
}

func TestModel_AddQuote_ValidationError(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m, _ = step(t, m, press("n"))
	m.form.inputs[fieldCategory].SetValue("Work")

	m, cmd := step(t, m, press("enter"))
	saved := msgOf[savedMsg](t, run(cmd))
	require.Error(t, saved.err)

	m, _ = step(t, m, saved)
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Quote text is required", m.form.err)
	assert.False(t, m.form.submitting)
	assert.Zero(t, h.storages.Records.Len())
}

func TestModel_EditQuote(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	r := h.add(t, "old text", "Life")

	m := h.model()
	m, _ = step(t, m, press("e"))
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, r.ID, m.form.editingID)
	assert.Equal(t, "old text", m.form.inputs[fieldText].Value())
	assert.Contains(t, m.View(), "EDIT QUOTE")

	m.form.inputs[fieldText].SetValue("new text")
	m, cmd := step(t, m, press("enter"))
	saved := msgOf[savedMsg](t, run(cmd))
	require.NoError(t, saved.err)
	assert.True(t, saved.changed)

	m, _ = step(t, m, saved)
	assert.Equal(t, "Quote updated", m.status)

	got, ok := h.storages.Records.Get(r.ID)
	require.True(t, ok)
	assert.Equal(t, "new text", got.Payload.Text)
}

func TestModel_FormTabMovesFocus(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m, _ = step(t, m, press("n"))
	assert.Equal(t, fieldText, m.form.focus)

	m, _ = step(t, m, press("tab"))
	assert.Equal(t, fieldCategory, m.form.focus)

	m, _ = step(t, m, press("tab"))
	assert.Equal(t, fieldText, m.form.focus)

	m, _ = step(t, m, press("esc"))
	assert.Equal(t, modeList, m.mode)
}

func TestModel_DeleteQuote(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	r := h.add(t, "doomed", "Life")
	m := h.model()

	m, _ = step(t, m, press("d"))
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete this quote?")

	m, _ = step(t, m, press("n"))
	assert.Equal(t, modeList, m.mode)
	_, ok := h.storages.Records.Get(r.ID)
	assert.True(t, ok)

	m, _ = step(t, m, press("d"))
	m, cmd := step(t, m, press("y"))
	deleted := msgOf[deletedMsg](t, run(cmd))
	require.NoError(t, deleted.err)

	m, _ = step(t, m, deleted)
	assert.Equal(t, "Quote deleted", m.status)
	assert.Empty(t, m.records)
	_, ok = h.storages.Records.Get(r.ID)
	assert.False(t, ok)
}

func TestModel_CopyUsesClipboard(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	h.add(t, "copy me", "Life")

	var copied string
	orig := copyToClipboard
	t.Cleanup(func() { copyToClipboard = orig })
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}

	m := h.model()
	m, _ = step(t, m, press("c"))
	assert.Equal(t, "copy me", copied)
	assert.Equal(t, "Copied to clipboard", m.status)

	copyToClipboard = func(string) error { return errors.New("no clipboard utility") }
	m, _ = step(t, m, press("c"))
	assert.Contains(t, m.errMsg, "no clipboard utility")
}

// ── sync ────────────────────────────────────────────────────────────────────

func TestModel_SyncPushesPending(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	h.add(t, "to the server", "Life")
	m := h.model()

	m, cmd := step(t, m, press("s"))
	assert.True(t, m.syncing)

	done := msgOf[syncDoneMsg](t, run(cmd))
	assert.True(t, done.ran)

	m, _ = step(t, m, done)
	assert.False(t, m.syncing)
	assert.Zero(t, h.storages.Pending.Len())

	stored, err := h.remote.ListRecords(h.ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "to the server", stored[0].Payload.Text)

	ev, ok := h.bridge.waitForEvent(h.ctx)().(syncEventMsg)
	require.True(t, ok)
	assert.Equal(t, models.SyncStatusSyncing, ev.Status)
}

func TestModel_SyncEvents(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m, _ = step(t, m, syncEventMsg{Status: models.SyncStatusSyncing, Message: "Initiating synchronization process"})
	assert.True(t, m.syncing)
	assert.Contains(t, m.View(), "syncing")

	m, _ = step(t, m, syncEventMsg{Status: models.SyncStatusError, Message: "Sync failed: dial tcp 127.0.0.1:1: connect: connection refused"})
	assert.False(t, m.syncing)
	assert.Equal(t, msgNetworkUnavailable, m.errMsg)

	m, _ = step(t, m, syncEventMsg{Status: models.SyncStatusSuccess, Message: "Sync completed"})
	assert.False(t, m.syncing)
	assert.Equal(t, "Sync completed", m.status)
}

func TestModel_StatusClearsOnlyForLatestSeq(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m.setStatus("first")
	m.setStatus("second")

	m, _ = step(t, m, clearStatusMsg{seq: 1})
	assert.Equal(t, "second", m.status)

	m, _ = step(t, m, clearStatusMsg{seq: 2})
	assert.Empty(t, m.status)
}

func TestModel_CycleStrategy(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	want := []models.Strategy{
		models.StrategyLocalWins,
		models.StrategyMergeKeepBoth,
		models.StrategyManual,
		models.StrategyRemoteWins,
	}
	for _, s := range want {
		var cmd tea.Cmd
		m, cmd = step(t, m, press("m"))
		changed := msgOf[strategyChangedMsg](t, run(cmd))
		require.NoError(t, changed.err)
		assert.Equal(t, s, changed.strategy)
		assert.Equal(t, s, h.storages.State.Strategy())

		m, _ = step(t, m, changed)
		assert.Equal(t, "Conflict strategy: "+s.String(), m.status)
	}
}

func TestModel_SyncLogView(t *testing.T) {
	h := newTUIHarness(t, models.StrategyLocalWins)
	require.NoError(t, h.storages.SyncLog.Append(h.ctx, models.LogWarning, "Found 2 conflicts"))

	m := h.model()
	m, _ = step(t, m, press("g"))
	require.Equal(t, modeSyncLog, m.mode)

	view := m.View()
	assert.Contains(t, view, "SYNC LOG")
	assert.Contains(t, view, "local-wins")
	assert.Contains(t, view, models.StrategyLocalWins.Description())
	assert.Contains(t, view, "Found 2 conflicts")
	assert.Contains(t, view, string(models.SchedulerIdle))

	m, _ = step(t, m, press("esc"))
	assert.Equal(t, modeList, m.mode)
}

func TestModel_BuildInfoView(t *testing.T) {
	h := newTUIHarness(t, models.StrategyRemoteWins)
	m := h.model()

	m, _ = step(t, m, press("v"))
	require.Equal(t, modeBuildInfo, m.mode)
	assert.Contains(t, m.View(), "abc123")

	m, _ = step(t, m, press("esc"))
	assert.Equal(t, modeList, m.mode)
}

// ── manual conflict resolution ──────────────────────────────────────────────

// startManualSync runs a cycle in the background and returns the model on
// the conflict screen together with the cycle's completion channel.
func startManualSync(t *testing.T, h *tuiHarness) (model, <-chan bool) {
	t.Helper()

	done := make(chan bool, 1)
	go func() {
		done <- h.services.Scheduler.TriggerNow(h.ctx)
	}()

	req := h.bridge.waitForConflicts(h.ctx)()
	m, _ := step(t, h.model(), req)
	require.Equal(t, modeConflicts, m.mode)
	return m, done
}

func waitDone(t *testing.T, done <-chan bool) {
	t.Helper()
	select {
	case ran := <-done:
		assert.True(t, ran)
	case <-time.After(5 * time.Second):
		t.Fatal("sync cycle did not finish")
	}
}

func TestModel_ManualResolution(t *testing.T) {
	h := newTUIHarness(t, models.StrategyManual, remoteRecord("r1", "From the server", "Remote"))

	m, done := startManualSync(t, h)
	view := m.View()
	assert.Contains(t, view, "CONFLICTS")
	assert.Contains(t, view, "r1")
	assert.Contains(t, view, "From the server")

	m, _ = step(t, m, press("enter"))
	assert.Equal(t, modeList, m.mode)
	waitDone(t, done)

	got, ok := h.storages.Records.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "From the server", got.Payload.Text)
}

func TestModel_ManualResolutionCancelled(t *testing.T) {
	h := newTUIHarness(t, models.StrategyManual, remoteRecord("r1", "From the server", "Remote"))

	m, done := startManualSync(t, h)
	m, _ = step(t, m, press("esc"))
	assert.Equal(t, modeList, m.mode)
	waitDone(t, done)

	_, ok := h.storages.Records.Get("r1")
	assert.False(t, ok)
	assert.Nil(t, h.storages.State.Snapshot().LastSyncAt)
}

func TestModel_CtrlCRepliesToPendingResolution(t *testing.T) {
	h := newTUIHarness(t, models.StrategyManual, remoteRecord("r1", "From the server", "Remote"))

	m, done := startManualSync(t, h)
	_, cmd := step(t, m, press("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	waitDone(t, done)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name               string
		cursor, n, size    int
		wantStart, wantEnd int
	}{
		{name: "fits", cursor: 2, n: 5, size: 10, wantStart: 0, wantEnd: 5},
		{name: "top", cursor: 0, n: 30, size: 10, wantStart: 0, wantEnd: 10},
		{name: "middle", cursor: 15, n: 30, size: 10, wantStart: 10, wantEnd: 20},
		{name: "bottom", cursor: 29, n: 30, size: 10, wantStart: 20, wantEnd: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleWindow(tt.cursor, tt.n, tt.size)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestFitText(t *testing.T) {
	assert.Equal(t, "short", fitText("short", 10))
	assert.Equal(t, "abcd...", fitText("abcdefghij", 7))
	assert.Equal(t, "héllo...", fitText("héllo wörld", 8))
	assert.Equal(t, "ab", fitText("abcdef", 2))
}
