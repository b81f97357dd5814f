package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/learnai/internal/render"
)

func (r *runner) newArticleCmd() *cobra.Command {
	var (
		raw   bool
		width int
		style string
	)

	cmd := &cobra.Command{
		Use:   "article <book-id> <topic...>",
		Short: "Write an article about a topic from a book",
		Long: `Generate an article about a topic using one book as the source and print
it as rendered markdown. Everything after the book id is the topic.

Examples:
  learnai article book-3 photosynthesis
  learnai article book-3 the light reactions --raw > notes.md`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args[1:], " ")

			st, err := r.env.Controller.Generate(cmd.Context(), args[0], topic)
			if err != nil {
				return explain(err, "Could not generate the article.")
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, st.Content)
				return nil
			}
			if !isTerminal(out) && !cmd.Flags().Changed("style") {
				style = render.StylePlain
			}
			fmt.Fprint(out, render.NewRenderer(style).Render(st.Content, width))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width")
	cmd.Flags().StringVar(&style, "style", render.StyleAuto, "Markdown style: auto, dark, light or notty")
	return cmd
}
