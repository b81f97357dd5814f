package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/five82/learnai/internal/access"
	"github.com/five82/learnai/internal/workflow"
)

func (r *runner) newUploadCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF book to the library",
		Long: `Upload a PDF book to the library.

The upload password unlocks the library for this command only. Without
--secret it is read from stdin.

Examples:
  learnai upload biology.pdf --secret "$LEARNAI_UPLOAD_PASSWORD"
  learnai upload ~/books/chemistry.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			ctrl := r.env.Controller
			path := args[0]

			pages, err := workflow.CheckPDF(path)
			if err != nil {
				return fmt.Errorf("%s is not a readable PDF: %w", filepath.Base(path), err)
			}

			s, err := r.promptSecret(cmd, secret, "Upload password: ")
			if err != nil {
				return err
			}
			if ctrl.Login(s) != access.Authenticated {
				return errors.New("Incorrect Password")
			}

			p.header("Uploading %s (%d pages) …", filepath.Base(path), pages)
			book, err := ctrl.Upload(cmd.Context(), path)
			if err != nil {
				return explain(err, "Upload failed.")
			}
			p.ok("Book uploaded successfully!")
			fmt.Fprintf(cmd.OutOrStdout(), "ID:    %s\nTitle: %s\n", book.ID, book.DisplayTitle())
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Upload password")
	return cmd
}
