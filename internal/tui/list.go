package tui

import (
	"fmt"
	"strings"
)

const (
	listTextWidth = 60
	listPageSize  = 15
)

func (m model) viewList() string {
	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		if m.filter != "" {
			b.WriteString("No quotes in this category.\n")
		} else {
			b.WriteString("No quotes yet. Press n to add one.\n")
		}
	}

	start, end := visibleWindow(m.idx, len(m.records), listPageSize)
	for i := start; i < end; i++ {
		r := m.records[i]

		line := fitText(r.Payload.Text, listTextWidth) + "  " + categoryStyle.Render(r.Payload.Category)
		if r.Payload.ConflictMarked {
			line = markedStyle.Render("! ") + line
		} else {
			line = "  " + line
		}
		if !r.Synced() {
			line += helpStyle.Render(" *")
		}

		if i == m.idx {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(m.records) > end-start {
		b.WriteString(helpStyle.Render(fmt.Sprintf("\n%d of %d", m.idx+1, len(m.records))))
		b.WriteString("\n")
	}

	b.WriteString(m.footerLines())

	return renderPage("QUOTES",
		b.String(),
		"↑/↓: navigate  enter: open  n: new  e: edit  d: delete  c: copy  s: sync  f: filter  m: strategy  g: log  v: about  q: quit")
}

func (m model) headerLine() string {
	state := m.storages.State.Snapshot()

	parts := []string{
		"strategy: " + state.Strategy.String(),
		fmt.Sprintf("pending: %d", m.storages.Pending.Len()),
	}
	if m.filter != "" {
		parts = append(parts, "category: "+m.filter)
	}
	if state.LastSyncAt != nil {
		parts = append(parts, "last sync: "+formatTime(*state.LastSyncAt))
	} else {
		parts = append(parts, "last sync: never")
	}

	header := helpStyle.Render(strings.Join(parts, "  |  "))
	if m.syncing {
		header = m.spinner.View() + " syncing  " + header
	}
	return header
}

func (m model) footerLines() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// visibleWindow returns the [start, end) slice of a list of n rows that keeps
// the cursor on screen.
func visibleWindow(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}
