package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/edutrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newClassifyCmd(app *App) *cobra.Command {
	var isDir bool

	cmd := &cobra.Command{
		Use:   "classify <course> <path>",
		Short: "Show how a path in the course directory is classified",
		Long: "Classify a path relative to the course directory. A trailing slash\n" +
			"or --dir marks the path as a directory.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[1]
			if strings.HasSuffix(path, "/") {
				isDir = true
				path = strings.TrimRight(path, "/")
			}
			_, info, err := app.Courses.Classify(cmd.Context(), args[0], path, isDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.ClassificationLine(args[1], info))
			return nil
		},
	}

	cmd.Flags().BoolVar(&isDir, "dir", false, "Treat the path as a directory")

	return cmd
}
