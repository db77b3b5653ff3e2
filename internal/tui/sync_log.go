package tui

import (
	"fmt"
	"strings"
)

const syncLogRows = 20

func (m model) viewSyncLog() string {
	state := m.services.Scheduler.State()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Strategy:  %s\n", state.Strategy))
	b.WriteString(helpStyle.Render("           " + state.Strategy.Description()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Scheduler: %s\n", m.services.Scheduler.SchedulerState()))
	if state.LastSyncAt != nil {
		b.WriteString(fmt.Sprintf("Last sync: %s\n", formatTime(*state.LastSyncAt)))
	} else {
		b.WriteString("Last sync: never\n")
	}
	b.WriteString(fmt.Sprintf("Pending:   %d\n\n", len(state.Pending)))

	entries := m.storages.SyncLog.Entries()
	if len(entries) == 0 {
		b.WriteString("The sync log is empty.\n")
	}
	shown := 0
	for i := len(entries) - 1; i >= 0 && shown < syncLogRows; i-- {
		e := entries[i]
		style := logLevelStyles[e.Level]
		b.WriteString(helpStyle.Render(formatTime(e.At)))
		b.WriteString("  ")
		b.WriteString(style.Render(fmt.Sprintf("%-7s %s", e.Level, e.Message)))
		b.WriteString("\n")
		shown++
	}

	b.WriteString(m.footerLines())

	return renderPage("SYNC LOG", b.String(), "s: sync now  m: strategy  esc: back")
}
