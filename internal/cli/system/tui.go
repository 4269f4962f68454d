package system

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/cloudcast/internal/cli"
	"github.com/julianstephens/cloudcast/internal/constants"
	clierrors "github.com/julianstephens/cloudcast/internal/errors"
	"github.com/julianstephens/cloudcast/internal/instance"
	"github.com/julianstephens/cloudcast/internal/logger"
	"github.com/julianstephens/cloudcast/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	lock, err := instance.Acquire(ctx.ConfigDir)
	if err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			return clierrors.WithHint(err, fmt.Sprintf("close the other console, or remove %s if it is no longer running", filepath.Join(ctx.ConfigDir, constants.LockfileName)))
		}
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release console lock", "error", err)
		}
	}()

	ctx.PerformAutomaticBackup()

	model := tui.NewModel(tui.Options{
		Station:   ctx.Station,
		Store:     ctx.Store,
		ServerURL: ctx.ServerURL(),
		Timeout:   ctx.Timeout(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}
