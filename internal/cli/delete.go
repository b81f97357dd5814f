package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/learnai/internal/learnapi"
)

func (r *runner) newDeleteCmd() *cobra.Command {
	var (
		secret      string
		all         bool
		skipConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "delete [book-id...]",
		Short: "Delete books from the library",
		Long: `Delete the given books, or every book with --all.

Book ids that are no longer in the library are skipped. The delete password
is checked before anything is sent; without --secret it is read from stdin.

This action is DESTRUCTIVE and cannot be undone.

Examples:
  learnai delete book-3 book-7 --secret "$LEARNAI_DELETE_PASSWORD"
  learnai delete --all
  learnai delete --all --yes --secret "$LEARNAI_DELETE_PASSWORD"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("--all takes no book ids")
			}
			if !all && len(args) == 0 {
				return errors.New("give at least one book id, or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return r.deleteAll(cmd, secret, skipConfirm)
			}
			return r.deleteSelected(cmd, args, secret)
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Delete password")
	cmd.Flags().BoolVar(&all, "all", false, "Delete every book")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt for --all")
	return cmd
}

func (r *runner) deleteSelected(cmd *cobra.Command, ids []string, secret string) error {
	p := newPrinter(cmd)
	ctrl := r.env.Controller

	for _, id := range ids {
		if !ctrl.Selection.IsSelected(id) {
			ctrl.Toggle(id)
		}
	}
	// The refresh prunes ids the server no longer has.
	snap, err := ctrl.Refresh(cmd.Context())
	if err != nil {
		return explain(err, "Could not load the library.")
	}
	for _, id := range ids {
		if !snap.Contains(id) {
			p.warn("%s is not in the library; skipped", id)
		}
	}
	if len(ctrl.SelectedIDs()) == 0 {
		return errors.New("Please select books to delete.")
	}

	s, err := r.promptSecret(cmd, secret, "Delete password: ")
	if err != nil {
		return err
	}
	ack, err := ctrl.DeleteSelected(cmd.Context(), s)
	if err != nil {
		return explain(err, "Delete failed.")
	}
	p.ok("%s", ackLine(ack, "Books deleted."))
	return nil
}

func (r *runner) deleteAll(cmd *cobra.Command, secret string, skipConfirm bool) error {
	p := newPrinter(cmd)
	ctrl := r.env.Controller
	out := cmd.OutOrStdout()

	snap, err := ctrl.Refresh(cmd.Context())
	if err != nil {
		return explain(err, "Could not load the library.")
	}
	if snap.Len() == 0 {
		p.warn("The library is already empty.")
		return nil
	}

	if !skipConfirm {
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.YellowString("⚠ Warning: You are about to delete every book (%d)", snap.Len()))
		fmt.Fprintln(out, color.RedString("THIS CANNOT BE UNDONE"))
		fmt.Fprintln(out)
		fmt.Fprint(out, "Type 'yes' to confirm: ")
		answer, _ := r.input.line()
		if answer != "yes" {
			return errors.New("confirmation did not match - aborted")
		}
	}

	s, err := r.promptSecret(cmd, secret, "Delete password: ")
	if err != nil {
		return err
	}
	ack, err := ctrl.DeleteAll(cmd.Context(), s)
	if err != nil {
		return explain(err, "Delete failed.")
	}
	p.ok("%s", ackLine(ack, "All books deleted."))
	return nil
}

// ackLine is the server's message with the remaining count when it sent one.
func ackLine(ack learnapi.Ack, fallback string) string {
	msg := ack.Message
	if msg == "" {
		msg = fallback
	}
	if ack.Remaining != nil {
		msg = fmt.Sprintf("%s (%d remaining)", msg, *ack.Remaining)
	}
	return msg
}
