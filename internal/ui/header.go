package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/learnai/internal/apperr"
	"github.com/five82/learnai/internal/workflow"
)

// renderMain stacks header, active screen and command bar.
func (m Model) renderMain() string {
	var body string
	switch m.view {
	case workflow.ViewUpload:
		body = m.renderLibrary()
	case workflow.ViewQuiz:
		body = m.renderQuiz()
	case workflow.ViewArticle:
		body = m.renderArticle()
	default:
		body = m.renderHome()
	}
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Padding(0, 1).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		body,
		m.renderCommandBar(),
	)
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("learnai", styles.Logo)}

	// Library count, or the refresh error when there is nothing to show.
	snap := m.snapshot
	books := bg.Render("Books:", styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", snap.Len()), styles.Text)
	parts = append(parts, books)

	if m.ctrl != nil {
		if m.ctrl.Gate.Authenticated() {
			parts = append(parts, bg.Render("● unlocked", styles.SuccessText))
		} else {
			parts = append(parts, bg.Render("● locked", styles.MutedText))
		}
		if n := len(m.ctrl.SelectedIDs()); n > 0 {
			parts = append(parts,
				bg.Render("Selected:", styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", n), styles.WarningText))
		}
	}

	if !snap.LastUpdated.IsZero() && !compact {
		parts = append(parts, bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	if m.status != "" {
		max := 80
		if compact {
			max = 40
		}
		text := truncate(m.status, max)
		style := styles.InfoText
		switch m.statusKind {
		case statusSuccess:
			style = styles.SuccessText
		case statusError:
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(text, style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTabs renders one tab per view with the active one highlighted.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(workflow.Views))
	for i, v := range workflow.Views {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.view {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.library.picking:
		commands = []cmd{{"enter", "Upload"}, {"←/→", "Folders"}, {"esc", "Cancel"}}
	case m.library.confirming:
		commands = []cmd{{"enter", "Delete"}, {"esc", "Cancel"}}
	case m.view == workflow.ViewUpload && !m.unlocked():
		commands = []cmd{{"enter", "Unlock"}, {"esc", "Home"}}
	case m.view == workflow.ViewUpload:
		commands = []cmd{
			{"space", "Select"},
			{"o", "Upload"},
			{"x", "Delete"},
			{"D", "Delete all"},
			{"c", "Clear"},
			{"r", "Refresh"},
			{"L", "Lock"},
		}
	case m.view == workflow.ViewQuiz:
		commands = []cmd{{"j/k", "Book"}, {"enter", "Ask"}}
		if m.quizAcceptsAnswer() {
			commands = append(commands, cmd{"1-9", "Answer"})
		}
	case m.view == workflow.ViewArticle && m.article.topic.Focused():
		commands = []cmd{{"enter", "Generate"}, {"esc", "Done"}}
	case m.view == workflow.ViewArticle:
		commands = []cmd{{"j/k", "Book"}, {"i", "Topic"}, {"enter", "Generate"}, {"ctrl+d/u", "Scroll"}}
	default:
		commands = []cmd{{"u", "Library"}, {"q", "Quiz"}, {"a", "Article"}}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

func (m Model) unlocked() bool {
	return m.ctrl != nil && m.ctrl.Gate.Authenticated()
}

// errorMessage turns err into a status line.
func errorMessage(err error, fallback string) string {
	return apperr.Message(err, fallback)
}
