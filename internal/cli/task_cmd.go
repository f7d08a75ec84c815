package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/edutrack/internal/cli/formatter"
	"github.com/alexanderramin/edutrack/internal/domain"
	"github.com/alexanderramin/edutrack/internal/progress"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Record and review task checks",
	}

	cmd.AddCommand(
		newTaskStatusCmd(app),
		newTaskHistoryCmd(app),
	)

	return cmd
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <course> <task-path> <status>",
		Short: "Record a check result (" + strings.Join(statusNames(), "|") + ")",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := domain.ParseCheckStatus(args[2])
			if !ok {
				return fmt.Errorf("invalid status %q (use %s)", args[2], strings.Join(statusNames(), ", "))
			}
			outcome, err := app.Checks.RecordResult(cmd.Context(), args[0], args[1], status)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := outcome.Task
			label := formatter.CheckResult(outcome.Result.Status)
			if label == "" {
				label = formatter.Dim("reset")
			}
			fmt.Fprintf(out, "%s  %s\n", formatter.Bold(args[1]), label)
			if t.HasSubtasks() {
				fmt.Fprintf(out, "Step %d of %d\n", t.ActiveSubtaskIndex+1, t.LastSubtaskIndex+1)
			}
			fmt.Fprintln(out, formatter.ProgressLine(progress.Count(outcome.Course.Lessons())))
			return nil
		},
	}
}

func newTaskHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <course> <task-path>",
		Short: "List recorded checks of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app.Checks.History(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCheckHistory(args[1], results))
			return nil
		},
	}
}

func statusNames() []string {
	names := make([]string, 0, len(domain.ValidCheckStatuses))
	for name := range domain.ValidCheckStatuses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
