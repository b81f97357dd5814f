package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/learnai/internal/app"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// Options configure a command tree. The zero value is what main uses.
type Options struct {
	PrefsPath string
	// RunTUI replaces the terminal interface started by the bare command.
	RunTUI func(ctx context.Context, env *app.Env) error
}

// runner carries the flags and the loaded Env shared by every subcommand.
type runner struct {
	opts Options

	flagConfig  string
	flagNoColor bool

	env   *app.Env
	input *lineReader
}

func newRunner(opts Options) *runner {
	if opts.RunTUI == nil {
		opts.RunTUI = func(ctx context.Context, env *app.Env) error { return env.RunTUI(ctx) }
	}
	return &runner{opts: opts}
}

func (r *runner) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learnai",
		Short: "Quiz yourself and write articles from your PDF library",
		Long: `learnai talks to a LearnAI backend that turns uploaded PDF books into
multiple-choice questions and topic articles.

Run 'learnai' with no arguments to open the terminal interface. The
subcommands do the same work one step at a time and are safe to script.

Configuration is read from ~/.config/learnai/config.toml; every key can be
overridden with a LEARNAI_* environment variable (LEARNAI_API_URL, ...).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.opts.RunTUI(cmd.Context(), r.env)
		},
	}

	cmd.PersistentFlags().BoolVar(&r.flagNoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&r.flagConfig, "config", "", "Config file path (default: ~/.config/learnai/config.toml)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initColor(r.flagNoColor, cmd.OutOrStdout())
		r.input = newLineReader(cmd.InOrStdin())

		if cmd.Name() == "version" {
			return nil
		}
		env, err := app.Open(app.Options{ConfigPath: r.flagConfig, PrefsPath: r.opts.PrefsPath})
		if err != nil {
			return err
		}
		r.env = env
		return nil
	}

	cmd.AddCommand(
		r.newBooksCmd(),
		r.newUploadCmd(),
		r.newDeleteCmd(),
		r.newAskCmd(),
		r.newArticleCmd(),
		r.newPageCmd(),
		r.newLogsCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (r *runner) close() {
	if r.env != nil {
		_ = r.env.Close()
		r.env = nil
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	r := newRunner(Options{})
	defer r.close()

	if err := r.rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		return 1
	}
	return 0
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the learnai version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "learnai %s\n", Version)
		},
	}
}
