package cli

import (
	"github.com/alexanderramin/edutrack/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Courses  service.CourseService
	Progress service.ProgressService
	Checks   service.CheckService
	Watcher  service.WatchService
	Remote   service.RemoteService

	// IsInteractive reports whether stdin is a terminal. Nil means it is not.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// confirm asks title unless skip is set or the session is not interactive.
func (a *App) confirm(title string, skip bool) (bool, error) {
	if skip || !a.interactive() {
		return true, nil
	}
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return runConfirm(title)
}

// NewRootCmd creates the top-level "edutrack" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "edutrack",
		Short:         "Track progress through programming courses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCourseCmd(app),
		newProgressCmd(app),
		newTaskCmd(app),
		newClassifyCmd(app),
		newWatchCmd(app),
		newRemoteCmd(app),
	)

	return root
}
