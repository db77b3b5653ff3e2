package tui

import (
	"context"
	"slices"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-sync/internal/service"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/models"
)

type mode int

const (
	modeList mode = iota
	modeDetail
	modeForm
	modeConfirmDelete
	modeSyncLog
	modeConflicts
	modeBuildInfo
)

// statusTTL is how long a status line stays on screen.
var statusTTL = 4 * time.Second

// strategyCycle is the order the strategy hotkey walks through.
var strategyCycle = []models.Strategy{
	models.StrategyRemoteWins,
	models.StrategyLocalWins,
	models.StrategyMergeKeepBoth,
	models.StrategyManual,
}

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

type model struct {
	ctx       context.Context
	services  *service.ClientServices
	storages  *store.ClientStorages
	bridge    *Bridge
	buildInfo models.AppBuildInfo

	mode mode
	// back is the mode restored when the conflict screen closes.
	back mode

	records    []models.Record
	categories []string
	filter     string
	idx        int

	form      formModel
	conflicts conflictModel
	spinner   spinner.Model
	syncing   bool

	status    string
	statusSeq int
	errMsg    string
}

func newModel(ctx context.Context, services *service.ClientServices, storages *store.ClientStorages, bridge *Bridge, buildInfo models.AppBuildInfo) model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := model{
		ctx:       ctx,
		services:  services,
		storages:  storages,
		bridge:    bridge,
		buildInfo: buildInfo,
		spinner:   s,
	}
	m.reload()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.bridge.waitForEvent(m.ctx),
		m.bridge.waitForConflicts(m.ctx),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncEventMsg:
		cmd := m.applyEvent(models.SyncEvent(msg))
		return m, tea.Batch(m.bridge.waitForEvent(m.ctx), cmd)

	case conflictRequestMsg:
		if m.mode != modeConflicts {
			m.back = m.mode
		}
		m.mode = modeConflicts
		m.conflicts = newConflictModel(conflictRequest(msg))
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		m.reload()
		if !msg.ran {
			return m, m.setStatus("A sync is already running")
		}
		return m, nil

	case savedMsg:
		m.form.submitting = false
		if msg.err != nil {
			m.form.err = humanizeError(msg.err)
			return m, nil
		}
		m.mode = modeList
		m.reload()
		m.selectID(msg.record.ID)
		switch {
		case msg.created:
			return m, m.setStatus("Quote added")
		case msg.changed:
			return m, m.setStatus("Quote updated")
		default:
			return m, m.setStatus("Nothing changed")
		}

	case deletedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.reload()
		return m, m.setStatus("Quote deleted")

	case strategyChangedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		return m, m.setStatus("Conflict strategy: " + msg.strategy.String())

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancelPendingResolution()
		return m, tea.Quit
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConflicts:
		return m.updateConflicts(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	case modeDetail:
		return m.updateDetail(msg)
	case modeSyncLog:
		return m.updateSyncLog(msg)
	case modeBuildInfo:
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.buildInfo) {
			m.mode = modeList
		}
		return m, nil
	default:
		return m.updateList(msg)
	}
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.records)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if _, ok := m.current(); ok {
			m.mode = modeDetail
		}
	case key.Matches(msg, keys.newItem):
		m.form = newFormModel(nil, m.categories)
		m.mode = modeForm
		return m, m.form.init()
	case key.Matches(msg, keys.edit):
		return m.startEdit()
	case key.Matches(msg, keys.delete):
		if _, ok := m.current(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, keys.copy):
		return m, m.copyCurrent()
	case key.Matches(msg, keys.sync):
		return m.startSync()
	case key.Matches(msg, keys.filter):
		m.cycleFilter()
	case key.Matches(msg, keys.strategy):
		return m, m.cmdCycleStrategy()
	case key.Matches(msg, keys.syncLog):
		m.mode = modeSyncLog
	case key.Matches(msg, keys.buildInfo):
		m.mode = modeBuildInfo
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.enter):
		m.mode = modeList
	case key.Matches(msg, keys.edit):
		return m.startEdit()
	case key.Matches(msg, keys.delete):
		m.mode = modeConfirmDelete
	case key.Matches(msg, keys.copy):
		return m, m.copyCurrent()
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		record, ok := m.current()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		return m, m.cmdDelete(record.ID)
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.mode = modeList
	}
	return m, nil
}

func (m model) updateSyncLog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.syncLog):
		m.mode = modeList
	case key.Matches(msg, keys.sync):
		return m.startSync()
	case key.Matches(msg, keys.strategy):
		return m, m.cmdCycleStrategy()
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeList
		return m, nil
	case key.Matches(msg, keys.tab):
		if m.form.canCompleteCategory() {
			break
		}
		m.form.moveFocus(1)
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.form.moveFocus(-1)
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.form.submitting {
			return m, nil
		}
		m.form.submitting = true
		m.form.err = ""
		return m, m.cmdSave(m.form.editingID, m.form.payload())
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m model) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		m.conflicts.move(-1)
	case key.Matches(msg, keys.down):
		m.conflicts.move(1)
	case key.Matches(msg, keys.left):
		m.conflicts.cycleChoice(-1)
	case key.Matches(msg, keys.right), key.Matches(msg, keys.tab):
		m.conflicts.cycleChoice(1)
	case key.Matches(msg, keys.applyAll):
		m.conflicts.applyToAll()
	case key.Matches(msg, keys.enter):
		m.conflicts.reply(conflictReply{resolutions: m.conflicts.resolutions()})
		m.mode = m.back
		return m, tea.Batch(m.bridge.waitForConflicts(m.ctx), m.setStatus("Resolving conflicts..."))
	case key.Matches(msg, keys.esc):
		m.conflicts.reply(conflictReply{err: ErrResolutionCancelled})
		m.mode = m.back
		return m, m.bridge.waitForConflicts(m.ctx)
	}
	return m, nil
}

func (m model) startEdit() (tea.Model, tea.Cmd) {
	record, ok := m.current()
	if !ok {
		return m, nil
	}
	m.form = newFormModel(&record, m.categories)
	m.mode = modeForm
	return m, m.form.init()
}

func (m model) startSync() (tea.Model, tea.Cmd) {
	if m.syncing {
		return m, m.setStatus("A sync is already running")
	}
	m.syncing = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.cmdSync())
}

// applyEvent reflects a scheduler event in the status line.
func (m *model) applyEvent(ev models.SyncEvent) tea.Cmd {
	switch ev.Status {
	case models.SyncStatusSyncing:
		wasSyncing := m.syncing
		m.syncing = true
		m.errMsg = ""
		if !wasSyncing {
			return m.spinner.Tick
		}
		return nil
	case models.SyncStatusConflict:
		return m.setStatus(ev.Message)
	case models.SyncStatusError:
		m.syncing = false
		m.errMsg = humanizeMessage(ev.Message)
		m.reload()
		return nil
	default:
		m.syncing = false
		m.reload()
		return m.setStatus(ev.Message)
	}
}

func (m *model) setStatus(status string) tea.Cmd {
	m.statusSeq++
	m.status = status
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// reload re-reads the record store, keeping the selection on the same id
// when it still exists.
func (m *model) reload() {
	selected := ""
	if r, ok := m.current(); ok {
		selected = r.ID
	}

	m.categories = m.storages.Records.Categories()
	if m.filter != "" && !slices.Contains(m.categories, m.filter) {
		m.filter = ""
	}

	all := m.storages.Records.All()
	records := make([]models.Record, 0, len(all))
	for _, r := range all {
		if m.filter == "" || r.Payload.Category == m.filter {
			records = append(records, r)
		}
	}
	m.records = records

	m.selectID(selected)
}

func (m *model) selectID(id string) {
	for i, r := range m.records {
		if r.ID == id {
			m.idx = i
			return
		}
	}
	if m.idx >= len(m.records) {
		m.idx = len(m.records) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

// cycleFilter walks "all categories" followed by every known category.
func (m *model) cycleFilter() {
	if len(m.categories) == 0 {
		m.filter = ""
		return
	}
	next := 0
	if m.filter != "" {
		next = slices.Index(m.categories, m.filter) + 1
	}
	if next >= len(m.categories) {
		m.filter = ""
	} else {
		m.filter = m.categories[next]
	}
	m.idx = 0
	m.reload()
}

func (m model) current() (models.Record, bool) {
	if len(m.records) == 0 || m.idx < 0 || m.idx >= len(m.records) {
		return models.Record{}, false
	}
	return m.records[m.idx], true
}

func (m *model) copyCurrent() tea.Cmd {
	record, ok := m.current()
	if !ok {
		return m.setStatus("Nothing to copy")
	}
	if err := copyToClipboard(record.Payload.Text); err != nil {
		m.errMsg = "Copy failed: " + err.Error()
		return nil
	}
	return m.setStatus("Copied to clipboard")
}

func (m *model) cancelPendingResolution() {
	if m.mode == modeConflicts {
		m.conflicts.reply(conflictReply{err: ErrResolutionCancelled})
		m.mode = m.back
	}
}

func (m model) cmdSync() tea.Cmd {
	ctx, scheduler := m.ctx, m.services.Scheduler
	return func() tea.Msg {
		return syncDoneMsg{ran: scheduler.TriggerNow(ctx)}
	}
}

func (m model) cmdSave(id string, payload models.Payload) tea.Cmd {
	ctx, tracker := m.ctx, m.services.Tracker
	return func() tea.Msg {
		if id == "" {
			record, err := tracker.Add(ctx, payload)
			return savedMsg{record: record, created: true, changed: true, err: err}
		}
		record, changed, err := tracker.Edit(ctx, id, payload)
		return savedMsg{record: record, changed: changed, err: err}
	}
}

func (m model) cmdDelete(id string) tea.Cmd {
	ctx, tracker := m.ctx, m.services.Tracker
	return func() tea.Msg {
		return deletedMsg{id: id, err: tracker.Delete(ctx, id)}
	}
}

func (m model) cmdCycleStrategy() tea.Cmd {
	current := m.storages.State.Strategy()
	next := strategyCycle[(slices.Index(strategyCycle, current)+1)%len(strategyCycle)]

	ctx, scheduler := m.ctx, m.services.Scheduler
	return func() tea.Msg {
		return strategyChangedMsg{strategy: next, err: scheduler.SetStrategy(ctx, next)}
	}
}

func (m model) View() string {
	switch m.mode {
	case modeDetail:
		return m.viewDetail()
	case modeForm:
		return m.form.View()
	case modeConfirmDelete:
		return m.viewConfirm()
	case modeSyncLog:
		return m.viewSyncLog()
	case modeConflicts:
		return m.conflicts.View()
	case modeBuildInfo:
		return renderBuildInfoWindow(m.buildInfo)
	default:
		return m.viewList()
	}
}
