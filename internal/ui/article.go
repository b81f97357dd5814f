package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/learnai/internal/session"
)

// handleArticleKey handles keys on the Article screen when the topic input
// is not focused.
func (m Model) handleArticleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		m.article.cursor = clamp(m.article.cursor+1, m.snapshot.Len())
	case "k", "up":
		m.article.cursor = clamp(m.article.cursor-1, m.snapshot.Len())

	case "i", "/":
		return m, m.article.topic.Focus()

	case "enter":
		return m.generate()

	case "pgup", "ctrl+u", "pgdown", "ctrl+d":
		var cmd tea.Cmd
		m.article.viewport, cmd = m.article.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTopicKey drives the topic input.
func (m Model) handleTopicKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.article.topic.Blur()
		return m, nil
	case "enter":
		m.article.topic.Blur()
		return m.generate()
	}

	var cmd tea.Cmd
	m.article.topic, cmd = m.article.topic.Update(msg)
	return m, cmd
}

// generate starts an article request for the selected book and topic.
func (m Model) generate() (tea.Model, tea.Cmd) {
	// Generate is disabled while an article is loading.
	if m.ctrl.Article.State().Phase == session.Loading {
		return m, nil
	}
	bookID := m.bookAt(m.article.cursor)
	t, err := m.ctrl.StartArticle(bookID, m.article.topic.Value())
	if err != nil {
		m.setStatus(statusError, errorMessage(err, ""))
		return m, nil
	}
	m.clearStatus()
	m.rememberBook(bookID)
	m.syncArticle()
	return m, tea.Batch(m.spinner.Tick, fetchArticleCmd(m.ctx, m.ctrl, t))
}

func (m Model) handleArticle(msg articleMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.ResolveArticle(msg.ticket, msg.content, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.setStatus(statusError, errorMessage(msg.err, "Could not generate the article."))
	}
	m.syncArticle()
	return m, nil
}

// articleChrome is the rows above the viewport: title, picker, topic box.
const articleChrome = 13

// resizeArticle fits the viewport to the window.
func (m *Model) resizeArticle() {
	h := m.bodyHeight() - articleChrome
	if h < 3 {
		h = 3
	}
	m.article.viewport.Width = m.contentWidth()
	m.article.viewport.Height = h
	m.article.topic.Width = m.contentWidth() - 6
	m.article.rendered = ""
	m.syncArticle()
}

// syncArticle renders the session's content into the viewport when it
// changed.
func (m *Model) syncArticle() {
	if m.ctrl == nil {
		return
	}
	st := m.ctrl.Article.State()
	content := ""
	if st.Phase == session.Ready {
		content = st.Content
	}
	if content == m.article.rendered && content != "" {
		return
	}
	m.article.rendered = content
	m.article.viewport.SetContent(m.renderer.Render(content, m.article.viewport.Width))
	m.article.viewport.GotoTop()
}

// renderArticle renders the Article screen.
func (m Model) renderArticle() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Article"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBookPicker(m.article.cursor, 5))
	b.WriteString("\n")

	panel := styles.Panel
	if m.article.topic.Focused() {
		panel = styles.FocusPanel
	}
	b.WriteString(panel.Width(m.contentWidth() - 2).Render(m.article.topic.View()))
	b.WriteString("\n")

	if m.ctrl == nil {
		return b.String()
	}
	st := m.ctrl.Article.State()
	switch st.Phase {
	case session.Loading:
		b.WriteString(m.spinner.View() + " " + styles.InfoText.Render("Writing about "+st.Topic+"..."))
	case session.Ready:
		b.WriteString(styles.MutedText.Render(st.Topic))
		b.WriteString("\n")
		b.WriteString(m.article.viewport.View())
	default:
		hint := "Press i to enter a topic, then enter to generate."
		if st.Err != nil {
			hint = "Press enter to try again."
		}
		b.WriteString(styles.FaintText.Render(hint))
	}
	return b.String()
}
