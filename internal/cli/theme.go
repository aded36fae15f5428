package cli

import (
	"context"
	"fmt"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Switch between the light and dark theme",
	Args:  cobra.NoArgs,
	RunE:  runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		v, err := app.Tasks.Dispatch(ctx, dispatch.ToggleTheme{})
		if v.DarkTheme {
			fmt.Fprintln(cmd.OutOrStdout(), "🌙 Dark theme on")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "☀️  Light theme on")
		}
		return dispatchErr(cmd, err)
	})
}
