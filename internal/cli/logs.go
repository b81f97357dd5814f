package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/learnai/internal/diag"
)

func (r *runner) newLogsCmd() *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent diagnostics",
		Long: `Print the last lines of the diagnostic log (log_file in the config).

Examples:
  learnai logs
  learnai logs -n 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := r.env.Config.LogFile
			tail, err := diag.Tail(path, lines)
			if err != nil {
				return err
			}
			if len(tail) == 0 {
				newPrinter(cmd).warn("No diagnostics in %s yet.", path)
				return nil
			}
			out := cmd.OutOrStdout()
			for _, line := range tail {
				e := diag.Parse(line)
				fmt.Fprintln(out, levelColor(e.Level)("%s", e.Format()))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show (0 for all)")
	return cmd
}

func levelColor(level string) func(format string, a ...interface{}) string {
	switch level {
	case "ERROR":
		return color.RedString
	case "WARN":
		return color.YellowString
	case "DEBUG":
		return color.HiBlackString
	default:
		return fmt.Sprintf
	}
}
