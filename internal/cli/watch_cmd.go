package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/edutrack/internal/cli/formatter"
	"github.com/alexanderramin/edutrack/internal/service"
)

func newWatchCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "watch <course>",
		Short: "Watch a course directory and register new files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cp, err := app.Progress.Progress(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			events := make(chan service.WatchEvent, 16)
			done := make(chan error, 1)
			go func() {
				done <- app.Watcher.Watch(ctx, args[0], events)
			}()

			if plain || !app.interactive() {
				printWatchEvents(cmd.OutOrStdout(), cp.Course.Dir, events)
				return <-done
			}

			model := newWatchModel(cp.Course.Name, cp.Course.Dir, cp.Total, events)
			_, runErr := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			if runErr != nil && ctx.Err() != nil {
				// Interrupted from outside; the watch reports its own error.
				runErr = nil
			}
			cancel()
			for range events {
			}
			if err := <-done; err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print one line per event instead of the live view")

	return cmd
}

// printWatchEvents writes events until the channel closes.
func printWatchEvents(w io.Writer, dir string, events <-chan service.WatchEvent) {
	for ev := range events {
		line := formatWatchEvent(dir, ev)
		if ev.Info != nil && ev.Err == nil {
			line += "  " + formatter.Dim(ev.Progress.String())
		}
		fmt.Fprintln(w, line)
	}
}

// formatWatchEvent describes one event relative to the course directory.
func formatWatchEvent(dir string, ev service.WatchEvent) string {
	path := ev.Path
	if dir != "" && path != "" {
		if rel, err := filepath.Rel(dir, path); err == nil {
			path = filepath.ToSlash(rel)
		}
	}
	if ev.Err != nil {
		if path == "" {
			return formatter.StyleRed.Render("error: " + ev.Err.Error())
		}
		return formatter.StyleRed.Render(fmt.Sprintf("%s: %v", path, ev.Err))
	}
	line := formatter.ClassificationLine(path, ev.Info)
	if ev.Inserted {
		line += "  " + formatter.StyleGreen.Render("added")
	}
	return line
}
