package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/learnai/internal/diag"
	"github.com/five82/learnai/internal/library"
	"github.com/five82/learnai/internal/prefs"
	"github.com/five82/learnai/internal/render"
	"github.com/five82/learnai/internal/workflow"
)

// statusKind colors the status message in the header.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *workflow.Controller
	ThemeName  string
	PrefsPath  string
	LastBookID string
	LogPath    string // diagnostics file shown on Home; empty hides the panel
	StartDir   string // first directory of the upload picker
}

// libraryState is the Library screen's local state.
type libraryState struct {
	cursor   int
	password textinput.Model
	busy     string // label of the in-flight mutation

	picking bool
	picker  filepicker.Model

	// confirming is set while the delete secret prompt is open.
	confirming bool
	confirmAll bool
	secret     textinput.Model
}

// articleState is the Article screen's local state.
type articleState struct {
	cursor   int
	topic    textinput.Model
	viewport viewport.Model
	rendered string // content the viewport currently shows
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *workflow.Controller
	prefsPath string
	logPath   string
	keys      keyMap

	// UI state
	theme    Theme
	renderer *render.Renderer
	view     workflow.View
	width    int
	height   int
	ready    bool
	showHelp bool
	spinner  spinner.Model

	// Status line
	status     string
	statusKind statusKind
	statusAt   time.Time

	// Data state
	snapshot   library.Snapshot
	lastBookID string
	diag       []diag.Entry
	diagErr    error

	// Screen state
	library    libraryState
	quizCursor int
	article    articleState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}
	theme := GetTheme(themeName)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	password := textinput.New()
	password.Placeholder = "Upload password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256

	secret := textinput.New()
	secret.Placeholder = "Delete password"
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'
	secret.CharLimit = 256

	topic := textinput.New()
	topic.Placeholder = "Topic, e.g. photosynthesis"
	topic.CharLimit = 200

	picker := filepicker.New()
	picker.AllowedTypes = []string{".pdf", ".PDF"}
	picker.ShowHidden = false
	picker.CurrentDirectory = startDir(opts.StartDir)

	m := Model{
		ctx:        ctx,
		ctrl:       opts.Controller,
		prefsPath:  prefsPath,
		logPath:    opts.LogPath,
		keys:       DefaultKeyMap(),
		theme:      theme,
		renderer:   render.NewRenderer(theme.Markdown),
		view:       workflow.ViewHome,
		spinner:    spin,
		lastBookID: opts.LastBookID,
		library: libraryState{
			password: password,
			picker:   picker,
			secret:   secret,
		},
		article: articleState{
			topic:    topic,
			viewport: viewport.New(0, 0),
		},
	}
	if m.ctrl != nil {
		m.snapshot = m.ctrl.Library.Current()
		m.view = m.ctrl.Router.Current()
	}
	return m
}

func startDir(dir string) string {
	if dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	// The library loads once on start; every later refresh is explicit.
	if m.ctrl != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.ctrl))
	}
	if cmd := tailDiagCmd(m.logPath, DiagTailLines); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeArticle()
		// The picker sizes itself from window messages.
		var cmd tea.Cmd
		m.library.picker, cmd = m.library.picker.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		m.snapshot = msg.snap
		m.clampCursors()
		if msg.err != nil {
			m.setStatus(statusError, errorMessage(msg.err, "Could not load the library."))
		}
		return m, tailDiagCmd(m.logPath, DiagTailLines)

	case uploadedMsg:
		return m.handleUploaded(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case questionMsg:
		return m.handleQuestion(msg)

	case articleMsg:
		return m.handleArticle(msg)

	case diagMsg:
		m.diag = msg.entries
		m.diagErr = msg.err
		return m, nil
	}

	// Anything else belongs to whichever component is active: directory
	// reads for the picker, cursor blinks for text inputs.
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.library.picking:
		m.library.picker, cmd = m.library.picker.Update(msg)
	case m.library.confirming:
		m.library.secret, cmd = m.library.secret.Update(msg)
	case m.library.password.Focused():
		m.library.password, cmd = m.library.password.Update(msg)
	case m.article.topic.Focused():
		m.article.topic, cmd = m.article.topic.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Focused inputs and the picker take every key.
	switch {
	case m.library.picking:
		return m.handlePickerKey(msg)
	case m.library.confirming:
		return m.handleSecretKey(msg)
	case m.view == workflow.ViewUpload && m.library.password.Focused():
		return m.handlePasswordKey(msg)
	case m.view == workflow.ViewArticle && m.article.topic.Focused():
		return m.handleTopicKey(msg)
	}

	// Digits answer an open question before they switch views.
	if m.view == workflow.ViewQuiz && m.quizAcceptsAnswer() {
		if idx, ok := digit(msg.String()); ok {
			return m.answer(idx)
		}
	}

	switch msg.String() {
	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.renderer = render.NewRenderer(m.theme.Markdown)
		m.article.rendered = ""
		m.syncArticle()
		m.savePrefs()
		return m, nil

	case "tab":
		return m.navigate(nextView(m.view, 1))

	case "shift+tab":
		return m.navigate(nextView(m.view, -1))

	case "h", "1":
		return m.navigate(workflow.ViewHome)

	case "u", "2":
		return m.navigate(workflow.ViewUpload)

	case "q", "3":
		return m.navigate(workflow.ViewQuiz)

	case "a", "4":
		return m.navigate(workflow.ViewArticle)

	case "esc":
		return m.navigate(workflow.ViewHome)
	}

	// View-specific keys
	switch m.view {
	case workflow.ViewUpload:
		return m.handleLibraryKey(msg)
	case workflow.ViewQuiz:
		return m.handleQuizKey(msg)
	case workflow.ViewArticle:
		return m.handleArticleKey(msg)
	}

	return m, nil
}

// navigate switches views through the router, which also tears down the
// session of the view being left.
func (m Model) navigate(v workflow.View) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		m.view = v
		return m, nil
	}
	screen := m.ctrl.Navigate(v)
	if screen.View != m.view {
		m.clearStatus()
	}
	m.view = screen.View
	m.snapshot = screen.Library
	m.clampCursors()
	m.library.password.Blur()
	m.article.topic.Blur()

	var cmds []tea.Cmd
	switch m.view {
	case workflow.ViewHome:
		cmds = append(cmds, tailDiagCmd(m.logPath, DiagTailLines))
	case workflow.ViewUpload:
		if !m.ctrl.Gate.Authenticated() {
			cmds = append(cmds, m.library.password.Focus())
		}
	case workflow.ViewQuiz:
		m.preselect(&m.quizCursor)
	case workflow.ViewArticle:
		m.preselect(&m.article.cursor)
		m.article.rendered = ""
		m.syncArticle()
	}
	return m, tea.Batch(cmds...)
}

func nextView(v workflow.View, step int) workflow.View {
	n := len(workflow.Views)
	return workflow.Views[((int(v)+step)%n+n)%n]
}

// preselect moves a book cursor to the remembered book when it still exists.
func (m *Model) preselect(cursor *int) {
	if m.lastBookID == "" {
		return
	}
	for i, b := range m.snapshot.Books {
		if b.ID == m.lastBookID {
			*cursor = i
			return
		}
	}
}

func (m *Model) clampCursors() {
	n := m.snapshot.Len()
	m.library.cursor = clamp(m.library.cursor, n)
	m.quizCursor = clamp(m.quizCursor, n)
	m.article.cursor = clamp(m.article.cursor, n)
}

// bookAt returns the id under cursor, or "" for an empty library.
func (m Model) bookAt(cursor int) string {
	if cursor < 0 || cursor >= m.snapshot.Len() {
		return ""
	}
	return m.snapshot.Books[cursor].ID
}

// rememberBook records id as the last used book.
func (m *Model) rememberBook(id string) {
	if id == "" || id == m.lastBookID {
		return
	}
	m.lastBookID = id
	m.savePrefs()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	theme, last := m.theme.Name, m.lastBookID
	_ = prefs.Update(m.prefsPath, func(p *prefs.Prefs) {
		p.Theme = theme
		p.LastBookID = last
	})
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.status = text
	m.statusKind = kind
	m.statusAt = time.Now()
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusKind = statusInfo
}

// digit maps "1".."9" to a zero-based index.
func digit(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil {
		// A cancelled context (SIGTERM) is a normal shutdown.
		if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
