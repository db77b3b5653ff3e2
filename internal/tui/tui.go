// Package tui is the terminal front end of the quote sync client.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/service"
	"github.com/MKhiriev/go-quote-sync/internal/store"
	"github.com/MKhiriev/go-quote-sync/models"
)

type TUI struct {
	services  *service.ClientServices
	storages  *store.ClientStorages
	bridge    *Bridge
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, storages *store.ClientStorages, bridge *Bridge, buildInfo models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{
		services:  services,
		storages:  storages,
		bridge:    bridge,
		buildInfo: buildInfo,
		logger:    log,
	}
}

// Run shows the terminal UI and blocks until the user quits or ctx is done.
// Returning makes the surrounding worker group shut down.
func (t *TUI) Run(ctx context.Context) error {
	m := newModel(ctx, t.services, t.storages, t.bridge, t.buildInfo)

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		t.logger.Err(err).Str("func", "TUI.Run").Msg("terminal program failed")
		return fmt.Errorf("run terminal program: %w", err)
	}

	t.logger.Info().Str("func", "TUI.Run").Msg("terminal program exited")
	return nil
}
