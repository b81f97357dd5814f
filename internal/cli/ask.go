package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (r *runner) newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <book-id>",
		Short: "Answer one multiple-choice question about a book",
		Long: `Ask the server for a question about a book, then read your choice
(the option number) from stdin and grade it.

Examples:
  learnai ask book-3
  echo 2 | learnai ask book-3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			out := cmd.OutOrStdout()
			ctrl := r.env.Controller

			st, err := ctrl.Ask(cmd.Context(), args[0])
			if err != nil {
				return explain(err, "Could not get a question.")
			}
			q := st.Question

			p.header("%s", q.Question)
			for i, opt := range q.Options {
				fmt.Fprintf(out, "  %d. %s\n", i+1, opt)
			}
			if q.SourcePage > 0 {
				fmt.Fprintf(out, "Source: page %d\n", q.SourcePage)
			}
			fmt.Fprintln(out)

			for {
				fmt.Fprintf(out, "Your answer (1-%d): ", len(q.Options))
				line, err := r.input.line()
				if err != nil {
					if errors.Is(err, errNoInput) {
						fmt.Fprintln(out)
						return errors.New("no answer given")
					}
					return fmt.Errorf("read answer: %w", err)
				}
				n, err := strconv.Atoi(line)
				if err != nil || n < 1 || n > len(q.Options) {
					p.warn("Pick a number from 1 to %d.", len(q.Options))
					continue
				}

				fb, ok := ctrl.Answer(q.Options[n-1])
				if !ok {
					return errors.New("the question is no longer open")
				}
				if fb.Correct {
					p.ok("%s", fb.Message())
				} else {
					p.bad("%s", fb.Message())
				}
				return nil
			}
		},
	}
	return cmd
}
