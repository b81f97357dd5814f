package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/learnai/internal/access"
	"github.com/five82/learnai/internal/learnapi"
	"github.com/five82/learnai/internal/workflow"
)

// handlePasswordKey drives the unlock prompt.
func (m Model) handlePasswordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.library.password.Blur()
		m.library.password.Reset()
		return m.navigate(workflow.ViewHome)

	case "enter":
		secret := m.library.password.Value()
		m.library.password.Reset()
		if m.ctrl == nil {
			return m, nil
		}
		if m.ctrl.Login(secret) != access.Authenticated {
			m.setStatus(statusError, "Incorrect Password")
			return m, nil
		}
		m.library.password.Blur()
		m.setStatus(statusSuccess, "Library unlocked.")
		return m, nil
	}

	var cmd tea.Cmd
	m.library.password, cmd = m.library.password.Update(msg)
	return m, cmd
}

// handleLibraryKey handles keys on the unlocked library list.
func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.unlocked() {
		if msg.String() == "enter" {
			return m, m.library.password.Focus()
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		m.library.cursor = clamp(m.library.cursor+1, m.snapshot.Len())
	case "k", "up":
		m.library.cursor = clamp(m.library.cursor-1, m.snapshot.Len())
	case "g", "home":
		m.library.cursor = 0
	case "G", "end":
		m.library.cursor = clamp(m.snapshot.Len()-1, m.snapshot.Len())

	case " ":
		if id := m.bookAt(m.library.cursor); id != "" {
			m.ctrl.Toggle(id)
		}

	case "c":
		m.ctrl.Selection.Clear()
		m.setStatus(statusInfo, "Selection cleared.")

	case "r":
		if m.library.busy != "" {
			return m, nil
		}
		m.setStatus(statusInfo, "Refreshing library...")
		return m, refreshCmd(m.ctx, m.ctrl)

	case "L":
		m.ctrl.Lock()
		m.ctrl.Selection.Clear()
		m.setStatus(statusInfo, "Library locked.")
		return m, m.library.password.Focus()

	case "o":
		if m.library.busy != "" {
			return m, nil
		}
		m.library.picking = true
		return m, m.library.picker.Init()

	case "x":
		if m.library.busy != "" {
			return m, nil
		}
		if len(m.ctrl.SelectedIDs()) == 0 {
			m.setStatus(statusError, "Please select books to delete.")
			return m, nil
		}
		return m.openSecretPrompt(false)

	case "D":
		if m.library.busy != "" {
			return m, nil
		}
		if m.snapshot.Len() == 0 {
			m.setStatus(statusInfo, "The library is already empty.")
			return m, nil
		}
		return m.openSecretPrompt(true)
	}
	return m, nil
}

func (m Model) openSecretPrompt(all bool) (tea.Model, tea.Cmd) {
	m.library.confirming = true
	m.library.confirmAll = all
	m.library.secret.Reset()
	return m, m.library.secret.Focus()
}

// handleSecretKey drives the delete password prompt.
func (m Model) handleSecretKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.library.confirming = false
		m.library.secret.Blur()
		m.library.secret.Reset()
		return m, nil

	case "enter":
		secret := m.library.secret.Value()
		all := m.library.confirmAll
		m.library.confirming = false
		m.library.secret.Blur()
		m.library.secret.Reset()
		m.library.busy = "Deleting"
		m.clearStatus()
		return m, tea.Batch(m.spinner.Tick, deleteCmd(m.ctx, m.ctrl, secret, all))
	}

	var cmd tea.Cmd
	m.library.secret, cmd = m.library.secret.Update(msg)
	return m, cmd
}

// handlePickerKey forwards keys to the file picker and starts the upload
// once a PDF is chosen.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.library.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.library.picker, cmd = m.library.picker.Update(msg)

	if ok, path := m.library.picker.DidSelectFile(msg); ok {
		m.library.picking = false
		m.library.busy = "Uploading " + filepath.Base(path)
		m.clearStatus()
		return m, tea.Batch(m.spinner.Tick, uploadCmd(m.ctx, m.ctrl, path))
	}
	if ok, path := m.library.picker.DidSelectDisabledFile(msg); ok {
		m.setStatus(statusError, filepath.Base(path)+" is not a PDF.")
		return m, cmd
	}
	return m, cmd
}

func (m Model) handleUploaded(msg uploadedMsg) (tea.Model, tea.Cmd) {
	m.library.busy = ""
	if msg.err != nil {
		m.setStatus(statusError, errorMessage(msg.err, "Upload failed."))
		return m, nil
	}
	m.snapshot = m.ctrl.Library.Current()
	// New books land at the end in server order.
	for i, b := range m.snapshot.Books {
		if b.ID == msg.book.ID {
			m.library.cursor = i
		}
	}
	m.clampCursors()
	m.setStatus(statusSuccess, "Book uploaded successfully!")
	return m, nil
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	m.library.busy = ""
	if msg.err != nil {
		m.setStatus(statusError, errorMessage(msg.err, "Delete failed."))
		return m, nil
	}
	m.snapshot = m.ctrl.Library.Current()
	m.clampCursors()
	m.setStatus(statusSuccess, deleteSummary(msg.ack, msg.all))
	return m, nil
}

// deleteSummary builds the status line for a successful delete.
func deleteSummary(ack learnapi.Ack, all bool) string {
	text := strings.TrimSpace(ack.Message)
	if text == "" {
		text = "Books deleted."
		if all {
			text = "All books deleted."
		}
	}
	if ack.Remaining != nil {
		text = fmt.Sprintf("%s (%d remaining)", text, *ack.Remaining)
	}
	return text
}

// renderLibrary renders the Library screen.
func (m Model) renderLibrary() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Library"))
	b.WriteString("\n\n")

	if !m.unlocked() {
		b.WriteString(styles.MutedText.Render("Enter the upload password to manage the library."))
		b.WriteString("\n\n")
		panel := styles.Panel
		if m.library.password.Focused() {
			panel = styles.FocusPanel
		}
		b.WriteString(panel.Width(40).Render(m.library.password.View()))
		b.WriteString("\n")
		return b.String()
	}

	if m.library.busy != "" {
		b.WriteString(m.spinner.View() + " " + styles.InfoText.Render(m.library.busy+"..."))
		b.WriteString("\n\n")
	}

	if m.library.picking {
		b.WriteString(styles.AccentText.Render("Choose a PDF to upload"))
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(truncateMiddle(m.library.picker.CurrentDirectory, 60)))
		b.WriteString("\n\n")
		b.WriteString(m.library.picker.View())
		return b.String()
	}

	if m.library.confirming {
		prompt := "Delete the selected books?"
		if m.library.confirmAll {
			prompt = "Delete ALL books in the library?"
		}
		b.WriteString(styles.WarningText.Render(prompt))
		b.WriteString("\n")
		b.WriteString(styles.FocusPanel.Width(40).Render(m.library.secret.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderBookChecklist())
	return b.String()
}

// renderBookChecklist renders the library with selection boxes.
func (m Model) renderBookChecklist() string {
	styles := m.theme.Styles()
	if m.snapshot.Len() == 0 {
		return styles.FaintText.Render("No books yet. Press o to upload a PDF.")
	}

	rows := m.bodyHeight() - 6
	if m.library.confirming {
		rows -= 5
	}
	start, end := window(m.library.cursor, m.snapshot.Len(), rows)

	width := m.width - 8
	var b strings.Builder
	for i := start; i < end; i++ {
		book := m.snapshot.Books[i]
		box := "[ ]"
		if m.ctrl.Selection.IsSelected(book.ID) {
			box = "[x]"
		}
		line := padRight(truncate(fmt.Sprintf("%s %s", box, book.DisplayTitle()), width-14), width-14) +
			" " + truncateMiddle(book.ID, 12)
		if i == m.library.cursor {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	if end < m.snapshot.Len() || start > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d-%d of %d", start+1, end, m.snapshot.Len())))
	}
	return b.String()
}

// window returns the visible [start, end) range of n rows that keeps cursor
// in view.
func window(cursor, n, rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}
