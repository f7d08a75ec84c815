package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/edutrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRemoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Exchange courses with the learning platform",
	}

	cmd.AddCommand(
		newRemoteFetchCmd(app),
		newRemoteWireCmd(app),
	)

	return cmd
}

func newRemoteFetchCmd(app *App) *cobra.Command {
	var (
		dir      string
		language string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <course-id>",
		Short: "Download a course from the platform and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid course id %q", args[0])
			}

			ok, err := app.confirm(fmt.Sprintf("Join course %d?", id), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Fetching course %d...", id))
			}
			c, err := app.Remote.Fetch(cmd.Context(), id, language, dir)
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fetched %s (%d tasks)\n", formatter.Bold(c.Name), len(c.Tasks()))
			if c.Dir != "" {
				fmt.Fprintf(out, "Written to %s\n", c.Dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write the course to")
	cmd.Flags().StringVar(&language, "language", "", "Programming language when the platform omits it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newRemoteWireCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "wire <course>",
		Short: "Print a stored course as a platform course object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Remote.ExportWire(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
