package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func (r *runner) newPageCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "page <book-id> <n>",
		Short: "Save a page of a book as a PNG",
		Long: `Download page n (starting at 1) of a book as a PNG image.

Examples:
  learnai page book-3 12
  learnai page book-3 12 -o figure.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID := args[0]
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("page %q is not a number", args[1])
			}

			data, err := r.env.Controller.Page(cmd.Context(), bookID, n)
			if err != nil {
				return explain(err, "Could not fetch the page.")
			}

			path := output
			if path == "" {
				path = fmt.Sprintf("%s-p%d.png", bookID, n)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write page: %w", err)
			}
			newPrinter(cmd).ok("Saved page %d of %s to %s", n, bookID, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <book-id>-p<n>.png)")
	return cmd
}
