package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/learnai/internal/apperr"
)

// initColor turns color off for --no-color or when out is not a terminal.
func initColor(noColor bool, out io.Writer) {
	if noColor || !isTerminal(out) {
		color.NoColor = true
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer writes the colored status lines every command uses.
type printer struct {
	out, err io.Writer
}

func newPrinter(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

// ok prints a green success line.
func (p printer) ok(format string, a ...any) {
	fmt.Fprintln(p.out, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func (p printer) warn(format string, a ...any) {
	fmt.Fprintln(p.err, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// bad prints a red line for an outcome that is not an error, like a wrong
// quiz answer.
func (p printer) bad(format string, a ...any) {
	fmt.Fprintln(p.out, color.RedString("✗"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func (p printer) header(format string, a ...any) {
	fmt.Fprintln(p.out, color.CyanString(fmt.Sprintf(format, a...)))
}

// userError keeps the underlying error for errors.Is/As but prints the
// message a screen would show.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// explain converts err into its user-facing form. fallback names the failed
// operation for transport errors.
func explain(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &userError{msg: apperr.Message(err, fallback), err: err}
}

var errNoInput = errors.New("no input")

// lineReader shares one buffered reader over stdin between prompts.
type lineReader struct {
	src io.Reader
	buf *bufio.Reader
}

func newLineReader(src io.Reader) *lineReader {
	return &lineReader{src: src, buf: bufio.NewReader(src)}
}

// line reads one trimmed line. EOF with nothing read is errNoInput.
func (l *lineReader) line() (string, error) {
	s, err := l.buf.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && s != "" {
			return strings.TrimSpace(s), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// secret reads a password without echo when stdin is a terminal.
func (l *lineReader) secret() (string, error) {
	if f, ok := l.src.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return l.line()
}

// promptSecret returns flagValue or asks for a secret on stdin.
func (r *runner) promptSecret(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	s, err := r.input.secret()
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		if errors.Is(err, errNoInput) {
			return "", fmt.Errorf("a password is required (use --secret)")
		}
		return "", fmt.Errorf("read password: %w", err)
	}
	return s, nil
}
