package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-quote-sync/internal/utils"
)

func (m model) viewDetail() string {
	r, ok := m.current()
	if !ok {
		return renderPage("QUOTE", "", "esc: back")
	}

	var b strings.Builder
	b.WriteString(r.Payload.Text)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Category:      %s\n", valueOrDash(r.Payload.Category)))
	b.WriteString(fmt.Sprintf("ID:            %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Version:       %d\n", r.Version))
	b.WriteString(fmt.Sprintf("Last modified: %s\n", formatTime(r.LastModified)))
	b.WriteString(fmt.Sprintf("Origin:        %s\n", valueOrDash(string(r.Origin))))
	if r.Synced() {
		b.WriteString(fmt.Sprintf("Synced:        version %d\n", r.SyncedVersion))
	} else {
		b.WriteString("Synced:        not yet\n")
	}
	b.WriteString(fmt.Sprintf("Hash:          %s\n", utils.ShortHash(utils.PayloadHash(r.Payload.Text, r.Payload.Category), 12)))
	if r.Payload.ConflictMarked {
		b.WriteString("\n")
		b.WriteString(markedStyle.Render("Kept from a conflict; the remote version was added as a separate quote."))
		b.WriteString("\n")
	}

	b.WriteString(m.footerLines())

	return renderPage("QUOTE", b.String(), "e: edit  d: delete  c: copy  esc: back")
}

func (m model) viewConfirm() string {
	r, ok := m.current()
	if !ok {
		return renderPage("DELETE", "", "esc: back")
	}

	body := overlayBoxStyle.Render(fmt.Sprintf("Delete this quote?\n\n%s\n\n%s",
		fitText(r.Payload.Text, listTextWidth),
		categoryStyle.Render(r.Payload.Category)))

	return renderPage("DELETE", body, "y: yes  n/esc: no")
}
