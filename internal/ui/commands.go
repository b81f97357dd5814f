package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/learnai/internal/diag"
	"github.com/five82/learnai/internal/learnapi"
	"github.com/five82/learnai/internal/library"
	"github.com/five82/learnai/internal/session"
	"github.com/five82/learnai/internal/workflow"
)

// refreshedMsg carries the library after an explicit refresh.
type refreshedMsg struct {
	snap library.Snapshot
	err  error
}

// uploadedMsg is the outcome of an upload.
type uploadedMsg struct {
	book learnapi.Book
	err  error
}

// deletedMsg is the outcome of a destructive action.
type deletedMsg struct {
	all bool
	ack learnapi.Ack
	err error
}

// questionMsg carries a question response and the ticket it answers.
type questionMsg struct {
	ticket   session.QuizTicket
	question learnapi.Question
	err      error
}

// articleMsg carries an article response and the ticket it answers.
type articleMsg struct {
	ticket  session.ArticleTicket
	content string
	err     error
}

// diagMsg carries the recent diagnostics shown on Home.
type diagMsg struct {
	entries []diag.Entry
	err     error
}

// refreshCmd reloads the library.
func refreshCmd(ctx context.Context, ctrl *workflow.Controller) tea.Cmd {
	return func() tea.Msg {
		snap, err := ctrl.Refresh(ctx)
		return refreshedMsg{snap: snap, err: err}
	}
}

// uploadCmd uploads the PDF at path. The controller refreshes on success.
func uploadCmd(ctx context.Context, ctrl *workflow.Controller, path string) tea.Cmd {
	return func() tea.Msg {
		book, err := ctrl.Upload(ctx, path)
		return uploadedMsg{book: book, err: err}
	}
}

// deleteCmd runs delete-selected, or delete-all when all is set.
func deleteCmd(ctx context.Context, ctrl *workflow.Controller, secret string, all bool) tea.Cmd {
	return func() tea.Msg {
		var (
			ack learnapi.Ack
			err error
		)
		if all {
			ack, err = ctrl.DeleteAll(ctx, secret)
		} else {
			ack, err = ctrl.DeleteSelected(ctx, secret)
		}
		return deletedMsg{all: all, ack: ack, err: err}
	}
}

// fetchQuestionCmd performs the request behind t. State is applied in Update.
func fetchQuestionCmd(ctx context.Context, ctrl *workflow.Controller, t session.QuizTicket) tea.Cmd {
	return func() tea.Msg {
		q, err := ctrl.FetchQuestion(ctx, t)
		return questionMsg{ticket: t, question: q, err: err}
	}
}

// fetchArticleCmd performs the request behind t. State is applied in Update.
func fetchArticleCmd(ctx context.Context, ctrl *workflow.Controller, t session.ArticleTicket) tea.Cmd {
	return func() tea.Msg {
		content, err := ctrl.FetchArticle(ctx, t)
		return articleMsg{ticket: t, content: content, err: err}
	}
}

// tailDiagCmd reads the last lines of the diagnostic log.
func tailDiagCmd(path string, n int) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := diag.Tail(path, n)
		if err != nil {
			return diagMsg{err: err}
		}
		entries := make([]diag.Entry, 0, len(lines))
		for _, line := range lines {
			entries = append(entries, diag.Parse(line))
		}
		return diagMsg{entries: entries}
	}
}
