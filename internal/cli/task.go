package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/existflow/ironlist/internal/dispatch"
	"github.com/existflow/ironlist/internal/model"
	"github.com/existflow/ironlist/internal/view"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"t"},
	Short:   "Manage the task list",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task",
	Long: `Add a new task.

Examples:
  ironlist task add "Buy milk"
  ironlist task add "Call bank" -p high`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, highest priority first and newest first within a priority.

Without --filter the saved filter is used.

Examples:
  ironlist task list
  ironlist task list --filter active`,
	Args: cobra.NoArgs,
	RunE: runTaskList,
}

var taskToggleCmd = &cobra.Command{
	Use:     "toggle [task-id]",
	Aliases: []string{"done"},
	Short:   "Mark a task done or not done",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskToggle,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id] [text]",
	Short: "Change a task's text",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTaskEdit,
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID. A unique prefix of the ID is enough.

Examples:
  ironlist task rm 3f2a9c1b`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskRemove,
}

var taskClearCmd = &cobra.Command{
	Use:   "clear-completed",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runTaskClear,
}

var taskFilterCmd = &cobra.Command{
	Use:       "filter [all|active|completed]",
	Short:     "Set the saved list filter",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(model.FilterAll), string(model.FilterActive), string(model.FilterCompleted)},
	RunE:      runTaskFilter,
}

var (
	addPriority string
	listFilter  string
)

func init() {
	taskAddCmd.Flags().StringVarP(&addPriority, "priority", "p", string(model.PriorityMedium), "Priority (high, medium, low)")
	taskListCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Show all, active or completed tasks")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskToggleCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	taskCmd.AddCommand(taskClearCmd)
	taskCmd.AddCommand(taskFilterCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("task text is empty")
	}

	priority := model.Priority(strings.ToLower(addPriority))
	if !priority.Valid() {
		return fmt.Errorf("invalid priority %q (use high, medium or low)", addPriority)
	}

	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		_, err := app.Tasks.Dispatch(ctx, dispatch.AddTask{Text: text, Priority: priority})
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added: \"%s\" (%s)\n", text, priority)
		return dispatchErr(cmd, err)
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		v := app.Tasks.View()

		if listFilter != "" {
			f, err := model.ParseFilter(listFilter)
			if err != nil {
				return fmt.Errorf("invalid filter %q (use all, active or completed)", listFilter)
			}
			prefs := app.Tasks.Preferences()
			prefs.CurrentFilter = f
			v = view.ProjectTasks(app.Tasks.Tasks(), prefs)
		}

		printTaskView(cmd.OutOrStdout(), v)
		return nil
	})
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		id, err := app.Tasks.Resolve(args[0])
		if err != nil {
			return err
		}

		v, err := app.Tasks.Dispatch(ctx, dispatch.ToggleTask{ID: id})
		if t, ok := findTask(v, id); ok {
			if t.Completed {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: \"%s\"\n", t.Text)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "○ Reopened: \"%s\"\n", t.Text)
			}
		}
		return dispatchErr(cmd, err)
	})
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return fmt.Errorf("task text is empty")
	}

	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		id, err := app.Tasks.Resolve(args[0])
		if err != nil {
			return err
		}

		_, err = app.Tasks.Dispatch(ctx, dispatch.EditTask{ID: id, Text: text})
		fmt.Fprintf(cmd.OutOrStdout(), "✎ Updated: \"%s\"\n", text)
		return dispatchErr(cmd, err)
	})
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		id, err := app.Tasks.Resolve(args[0])
		if err != nil {
			return err
		}

		v, err := app.Tasks.Dispatch(ctx, dispatch.RemoveTask{ID: id})
		if err != nil {
			return dispatchErr(cmd, err)
		}
		if err := app.Wait(ctx); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if t, ok := findTask(v, id); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted: \"%s\"\n", t.Text)
		}
		return nil
	})
}

func runTaskClear(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		v, err := app.Tasks.Dispatch(ctx, dispatch.ClearCompleted{})
		if err != nil {
			return dispatchErr(cmd, err)
		}
		if err := app.Wait(ctx); err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}

		cleared := 0
		for _, t := range v.Tasks {
			if t.Removing {
				cleared++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🧹 Cleared %d completed task(s)\n", cleared)
		return nil
	})
}

func runTaskFilter(cmd *cobra.Command, args []string) error {
	f, err := model.ParseFilter(args[0])
	if err != nil {
		return fmt.Errorf("invalid filter %q (use all, active or completed)", args[0])
	}

	return withApp(cmd, func(ctx context.Context, app *dispatch.App) error {
		v, err := app.Tasks.Dispatch(ctx, dispatch.SetFilter{Filter: f})
		printTaskView(cmd.OutOrStdout(), v)
		return dispatchErr(cmd, err)
	})
}

func findTask(v view.TaskView, id string) (view.TaskItem, bool) {
	for _, t := range v.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return view.TaskItem{}, false
}

func printTaskView(w io.Writer, v view.TaskView) {
	fmt.Fprintf(w, "\n📋 Tasks [%s] (%s)\n", v.Filter, v.Summary)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(v.Tasks) == 0 {
		fmt.Fprintln(w, "  No tasks found. Add one with: ironlist task add \"Your task\"")
		fmt.Fprintln(w)
		return
	}

	for _, t := range v.Tasks {
		printTask(w, t)
	}
	fmt.Fprintln(w)
}

func printTask(w io.Writer, t view.TaskItem) {
	// Status icon
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}
	if t.Removing {
		icon = "[-]"
	}

	// Priority indicator
	priority := "  low"
	switch t.Priority {
	case model.PriorityHigh:
		priority = "▲ high"
	case model.PriorityMedium:
		priority = "  medium"
	}

	// Truncate content if too long
	text := t.Text
	if len([]rune(text)) > 40 {
		text = string([]rune(text)[:37]) + "..."
	}

	// Short ID
	shortID := t.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	fmt.Fprintf(w, "  %s  %-8s  %-40s  %s\n", icon, shortID, text, priority)
}
