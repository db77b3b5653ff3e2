package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-quote-sync/models"
)

// conflictChoices are the per-conflict outcomes offered to the user. Manual
// is not a valid answer to itself.
var conflictChoices = []models.Strategy{
	models.StrategyRemoteWins,
	models.StrategyLocalWins,
	models.StrategyMergeKeepBoth,
}

type conflictModel struct {
	request conflictRequest
	choices []models.Strategy
	cursor  int
	replied bool
}

func newConflictModel(req conflictRequest) conflictModel {
	choices := make([]models.Strategy, len(req.conflicts))
	for i := range choices {
		choices[i] = models.StrategyRemoteWins
	}
	return conflictModel{request: req, choices: choices}
}

func (c *conflictModel) move(delta int) {
	next := c.cursor + delta
	if next >= 0 && next < len(c.choices) {
		c.cursor = next
	}
}

func (c *conflictModel) cycleChoice(delta int) {
	if len(c.choices) == 0 {
		return
	}
	i := slices.Index(conflictChoices, c.choices[c.cursor])
	n := len(conflictChoices)
	c.choices[c.cursor] = conflictChoices[((i+delta)%n+n)%n]
}

// applyToAll copies the choice under the cursor to every conflict.
func (c *conflictModel) applyToAll() {
	if len(c.choices) == 0 {
		return
	}
	choice := c.choices[c.cursor]
	for i := range c.choices {
		c.choices[i] = choice
	}
}

func (c conflictModel) resolutions() []models.Resolution {
	out := make([]models.Resolution, len(c.request.conflicts))
	for i, conflict := range c.request.conflicts {
		out[i] = models.Resolution{RecordID: conflict.RecordID, Choice: c.choices[i]}
	}
	return out
}

// reply answers the waiting sync cycle once. The reply channel is buffered,
// so this never blocks even when the cycle already gave up.
func (c *conflictModel) reply(r conflictReply) {
	if c.replied || c.request.reply == nil {
		return
	}
	c.replied = true
	c.request.reply <- r
}

func (c conflictModel) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%d conflict(s) need a decision.\n\n", len(c.request.conflicts)))

	for i, conflict := range c.request.conflicts {
		cursor := "  "
		if i == c.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s[%s] %s  ->  %s", cursor, conflict.Kind, conflict.RecordID, c.choices[i])
		if i == c.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if len(c.request.conflicts) > 0 {
		b.WriteString("\n")
		b.WriteString(renderConflictSides(c.request.conflicts[c.cursor]))
		b.WriteString(helpStyle.Render(c.choices[c.cursor].Description()))
		b.WriteString("\n")
	}

	return renderPage("CONFLICTS",
		b.String(),
		"↑/↓: select  ←/→: change  a: apply to all  enter: resolve  esc: cancel sync")
}

func renderConflictSides(c models.Conflict) string {
	var b strings.Builder
	b.WriteString("Local:  ")
	b.WriteString(describeSide(c.Local))
	b.WriteString("\nRemote: ")
	b.WriteString(describeSide(c.Remote))
	b.WriteString("\n\n")
	return b.String()
}

func describeSide(r *models.Record) string {
	if r == nil {
		return helpStyle.Render("(absent)")
	}
	return fmt.Sprintf("%s  %s  v%d  %s",
		fitText(r.Payload.Text, 50),
		categoryStyle.Render(r.Payload.Category),
		r.Version,
		formatTime(r.LastModified))
}
