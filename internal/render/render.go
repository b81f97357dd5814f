// Package render turns article markdown and quiz text into terminal output.
package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Style names accepted by NewRenderer.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Renderer renders markdown with glamour. Renderers are cached per width
// because glamour bakes the wrap width in at construction.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// NewRenderer builds a renderer for style; unknown styles use auto detection.
func NewRenderer(style string) *Renderer {
	switch style {
	case StyleDark, StyleLight, StylePlain:
	default:
		style = StyleAuto
	}
	return &Renderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

// Style returns the glamour style in use.
func (r *Renderer) Style() string { return r.style }

// Render returns content as styled terminal text wrapped to width. If glamour
// fails the content comes back word-wrapped but otherwise untouched.
func (r *Renderer) Render(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	tr, err := r.termRenderer(width)
	if err != nil {
		return Wrap(content, width)
	}
	out, err := tr.Render(content)
	if err != nil {
		return Wrap(content, width)
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	return tr, nil
}

// Wrap word-wraps s at width. A non-positive width returns s unchanged.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

// Hang wraps s to width and indents every line by n spaces.
func Hang(s string, width int, n uint) string {
	return indent.String(Wrap(s, width-int(n)), n)
}
