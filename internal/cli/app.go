package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/logger"
	"github.com/existflow/ironlist/internal/model"
	"github.com/spf13/cobra"
)

// removalTimeout bounds how long a command waits for deferred removals
const removalTimeout = 5 * time.Second

// openApp opens storage and the catalog and restores saved state. A failed
// restore is reported but not fatal; the affected collection starts empty.
func openApp(cmd *cobra.Command) (*dispatch.App, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := dispatch.Open(ctx, cfg, dispatch.AppOptions{
		OnError: func(err error) {
			logger.Warn("Background save failed", logger.F("error", err))
		},
	})
	if err != nil {
		return nil, err
	}

	if err := app.Load(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Could not read saved data, starting empty: %v\n", err)
	}
	return app, nil
}

// closeApp lets pending removals land, then closes storage
func closeApp(cmd *cobra.Command, app *dispatch.App) {
	ctx, cancel := context.WithTimeout(context.Background(), removalTimeout)
	defer cancel()

	if err := app.Wait(ctx); err != nil {
		logger.Warn("Pending removals did not finish", logger.F("error", err))
	}
	if err := app.Close(); err != nil {
		logger.Warn("Failed to close storage", logger.F("error", err))
	}
}

// withApp runs fn against an opened app and closes it afterwards
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *dispatch.App) error) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(cmd, app)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, app)
}

// dispatchErr turns a dispatch error into the command's result. A
// persistence error means the change was applied in memory only.
func dispatchErr(cmd *cobra.Command, err error) error {
	var perr *model.PersistenceError
	if errors.As(err, &perr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Change applied but not saved: %v\n", perr)
		return fmt.Errorf("failed to save: %w", err)
	}
	return err
}
