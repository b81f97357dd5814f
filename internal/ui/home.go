package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/learnai/internal/workflow"
)

// renderHome shows the navigation cards and recent diagnostics.
func (m Model) renderHome() string {
	styles := m.theme.Styles()

	cards := []struct {
		key   string
		view  workflow.View
		blurb string
	}{
		{"u", workflow.ViewUpload, "Upload PDFs and manage the library"},
		{"q", workflow.ViewQuiz, "Answer questions drawn from a book"},
		{"a", workflow.ViewArticle, "Generate an article on a topic"},
	}

	cardWidth := (m.width - 8) / len(cards)
	if cardWidth < 24 {
		cardWidth = 24
	}
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		title := styles.AccentText.Bold(true).Render(c.view.Title()) + " " +
			styles.FaintText.Render("["+c.key+"]")
		body := styles.MutedText.Render(c.blurb)
		rendered = append(rendered, styles.Panel.Width(cardWidth).Render(title+"\n"+body))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Welcome to LearnAI"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Study your own PDFs with quizzes and generated articles."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")
	b.WriteString(m.renderDiagnostics())
	return b.String()
}

// renderDiagnostics renders the tail of the diagnostic log.
func (m Model) renderDiagnostics() string {
	if m.logPath == "" {
		return ""
	}
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Recent diagnostics"))
	b.WriteString(" ")
	b.WriteString(styles.FaintText.Render(truncateMiddle(m.logPath, 50)))
	b.WriteString("\n")

	switch {
	case m.diagErr != nil:
		b.WriteString(styles.DangerText.Render(m.diagErr.Error()))
	case len(m.diag) == 0:
		b.WriteString(styles.FaintText.Render("Nothing logged yet."))
	default:
		width := m.width - 4
		for _, e := range m.diag {
			line := truncate(e.Format(), width)
			switch strings.ToUpper(e.Level) {
			case "ERROR":
				b.WriteString(styles.DangerText.Render(line))
			case "WARN":
				b.WriteString(styles.WarningText.Render(line))
			case "DEBUG":
				b.WriteString(styles.FaintText.Render(line))
			default:
				b.WriteString(styles.Text.Render(line))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
