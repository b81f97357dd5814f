package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/learnai/internal/render"
	"github.com/five82/learnai/internal/session"
)

// handleQuizKey handles keys on the Quiz screen.
func (m Model) handleQuizKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	loading := m.ctrl.Quiz.State().Phase == session.Loading

	switch msg.String() {
	case "j", "down":
		m.quizCursor = clamp(m.quizCursor+1, m.snapshot.Len())
	case "k", "up":
		m.quizCursor = clamp(m.quizCursor-1, m.snapshot.Len())

	case "enter", "n":
		// Ask is disabled while a question is loading.
		if loading {
			return m, nil
		}
		return m.ask()
	}
	return m, nil
}

// ask starts a question request for the book under the cursor.
func (m Model) ask() (tea.Model, tea.Cmd) {
	bookID := m.bookAt(m.quizCursor)
	t, err := m.ctrl.StartQuiz(bookID)
	if err != nil {
		m.setStatus(statusError, errorMessage(err, ""))
		return m, nil
	}
	m.clearStatus()
	m.rememberBook(bookID)
	return m, tea.Batch(m.spinner.Tick, fetchQuestionCmd(m.ctx, m.ctrl, t))
}

func (m Model) handleQuestion(msg questionMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.ResolveQuestion(msg.ticket, msg.question, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.setStatus(statusError, errorMessage(msg.err, "Could not get a question."))
	}
	return m, nil
}

// quizAcceptsAnswer reports whether a question is waiting for an answer.
func (m Model) quizAcceptsAnswer() bool {
	return m.ctrl != nil && m.ctrl.Quiz.State().Phase == session.Ready
}

// answer grades option idx of the current question.
func (m Model) answer(idx int) (tea.Model, tea.Cmd) {
	st := m.ctrl.Quiz.State()
	if idx < 0 || idx >= len(st.Question.Options) {
		return m, nil
	}
	m.ctrl.Answer(st.Question.Options[idx])
	return m, nil
}

// renderQuiz renders the Quiz screen.
func (m Model) renderQuiz() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Quiz"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBookPicker(m.quizCursor, 5))
	b.WriteString("\n")

	if m.ctrl == nil {
		return b.String()
	}
	st := m.ctrl.Quiz.State()
	width := m.contentWidth()

	switch st.Phase {
	case session.Idle:
		hint := "Pick a book and press enter for a question."
		if st.Err != nil {
			hint = "Press enter to try again."
		}
		b.WriteString(styles.FaintText.Render(hint))

	case session.Loading:
		b.WriteString(m.spinner.View() + " " + styles.InfoText.Render("Fetching a question..."))

	case session.Ready, session.Answered:
		b.WriteString(styles.Text.Bold(true).Render(render.Wrap(st.Question.Question, width)))
		b.WriteString("\n\n")
		for i, opt := range st.Question.Options {
			label := fmt.Sprintf("%d. %s", i+1, opt)
			line := render.Hang(label, width, 2)
			style := styles.Text
			if st.Phase == session.Answered {
				switch {
				case opt == st.Feedback.CorrectAnswer:
					style = styles.SuccessText
				case opt == st.Feedback.Chosen:
					style = styles.DangerText
				default:
					style = styles.MutedText
				}
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		if st.Question.SourcePage > 0 {
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("Source: page %d", st.Question.SourcePage)))
			b.WriteString("\n")
		}
		if st.Phase == session.Answered {
			b.WriteString("\n")
			style := styles.DangerText
			if st.Feedback.Correct {
				style = styles.SuccessText
			}
			b.WriteString(style.Render(st.Feedback.Message()))
			b.WriteString("\n")
			b.WriteString(styles.FaintText.Render("Press enter for another question."))
		}
	}
	return b.String()
}

// renderBookPicker renders a compact list of books around cursor.
func (m Model) renderBookPicker(cursor, rows int) string {
	styles := m.theme.Styles()
	if m.snapshot.Len() == 0 {
		return styles.FaintText.Render("The library is empty. Upload a PDF first.") + "\n"
	}
	start, end := window(cursor, m.snapshot.Len(), rows)
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Book"))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		line := truncate(m.snapshot.Books[i].DisplayTitle(), width-2)
		if i == cursor {
			b.WriteString(styles.Selected.Render("> " + line))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
