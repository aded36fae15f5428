package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/ironlist/internal/config"
	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/view"
)

// Run launches the full-screen UI over app and blocks until the user quits
func Run(app *dispatch.App, cfg *config.Config) error {
	refresh := make(chan struct{}, 1)
	notify := func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	}

	// Renderers run under the dispatcher lock; they only signal
	app.Tasks.SetRenderer(func(view.TaskView) { notify() })
	app.Cart.SetRenderer(func(view.CartView) { notify() })
	defer func() {
		app.Tasks.SetRenderer(nil)
		app.Cart.SetRenderer(nil)
	}()

	logger.Info("Launching TUI")
	p := tea.NewProgram(NewModel(app, cfg, refresh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", logger.F("error", err))
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	logger.Info("TUI exited normally")
	return nil
}
