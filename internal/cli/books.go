package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/five82/learnai/internal/library"
)

type bookOutput struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

func (r *runner) newBooksCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the books in the library",
		Long: `List the books in the library in the order the server returns them.

Examples:
  learnai books
  learnai books --output json
  learnai books -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output %q: want table, json or yaml", output)
			}

			snap, err := r.env.Controller.Refresh(cmd.Context())
			if err != nil {
				return explain(err, "Could not load the library.")
			}
			return writeBooks(cmd, snap, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

func writeBooks(cmd *cobra.Command, snap library.Snapshot, output string) error {
	out := cmd.OutOrStdout()

	rows := make([]bookOutput, 0, snap.Len())
	for _, b := range snap.Books {
		rows = append(rows, bookOutput{ID: b.ID, Title: b.DisplayTitle(), Filename: b.Filename})
	}

	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	if len(rows) == 0 {
		newPrinter(cmd).warn("The library is empty. Upload a PDF with 'learnai upload <file.pdf>'.")
		return nil
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	head := cell.Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "TITLE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}
			return cell
		})
	for i, b := range rows {
		t.Row(strconv.Itoa(i+1), b.ID, b.Title)
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "%d book(s)\n", len(rows))
	return nil
}
