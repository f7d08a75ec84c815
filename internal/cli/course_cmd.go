package cli

import (
	"fmt"

	"github.com/alexanderramin/edutrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCourseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "course",
		Aliases: []string{"c"},
		Short:   "Manage imported courses",
	}

	cmd.AddCommand(
		newCourseImportCmd(app),
		newCourseListCmd(app),
		newCourseShowCmd(app),
		newCourseDeleteCmd(app),
		newCourseExportCmd(app),
	)

	return cmd
}

func newCourseImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Import a course directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Courses.ImportDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%d tasks) from %s\n",
				formatter.Bold(c.Name), len(c.Tasks()), c.Dir)
			return nil
		},
	}
}

func newCourseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List imported courses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := app.Courses.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCourseList(courses))
			return nil
		},
	}
}

func newCourseShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <course>",
		Short: "Show a course tree with task status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Courses.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCourse(c))
			return nil
		},
	}
}

func newCourseDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <course>",
		Short: "Delete a course and its recorded checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(fmt.Sprintf("Delete course %q and its check history?", args[0]), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := app.Courses.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newCourseExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <course> <dir>",
		Short: "Write a stored course to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Courses.Export(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
