package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/five82/learnai/internal/access"
	"github.com/five82/learnai/internal/apperr"
	"github.com/five82/learnai/internal/learnapi"
	"github.com/five82/learnai/internal/library"
	"github.com/five82/learnai/internal/session"
)

// Options configure a Controller.
type Options struct {
	API     learnapi.API
	Secrets access.Secrets
	Logger  *slog.Logger // nil discards diagnostics
}

// Controller owns every piece of per-session state. One is built per process.
type Controller struct {
	api learnapi.API
	log *slog.Logger

	Library   *library.Store
	Selection *library.Selection
	Gate      *access.Gate
	Quiz      *session.Quiz
	Article   *session.Article
	Router    *Router
}

// New wires a controller around api.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		api:       opts.API,
		log:       logger,
		Library:   library.NewStore(opts.API),
		Selection: library.NewSelection(),
		Gate:      access.NewGate(opts.Secrets),
		Quiz:      session.NewQuiz(opts.API),
		Article:   session.NewArticle(opts.API),
	}
	c.Router = NewRouter(c.Library, c.leave)
	return c
}

// Logger returns the diagnostic sink.
func (c *Controller) Logger() *slog.Logger { return c.log }

// Navigate switches the active view. Leaving Quiz or Article tears down that
// session; the access gate is left alone.
func (c *Controller) Navigate(v View) Screen {
	return c.Router.Navigate(v)
}

func (c *Controller) leave(from View) {
	switch from {
	case ViewQuiz:
		c.Quiz.Reset()
	case ViewArticle:
		c.Article.Reset()
	}
}

// Refresh reloads the library and prunes the selection against the result.
// On failure the previous snapshot is kept.
func (c *Controller) Refresh(ctx context.Context) (library.Snapshot, error) {
	snap, err := c.Library.Refresh(ctx)
	if dropped := c.Selection.Prune(snap); len(dropped) > 0 {
		c.log.Debug("pruned stale selection", slog.Any("book_ids", dropped))
	}
	if err != nil {
		c.logFailure("list books", err)
		return snap, err
	}
	c.log.Debug("library refreshed", slog.Int("books", snap.Len()), slog.Uint64("version", snap.Version))
	return snap, nil
}

// Login attempts the upload secret.
func (c *Controller) Login(secret string) access.Result {
	res := c.Gate.Attempt(secret)
	c.log.Info("library unlock attempt", slog.String("result", res.String()))
	return res
}

// Lock drops the authenticated flag.
func (c *Controller) Lock() {
	c.Gate.Reset()
	c.log.Info("library locked")
}

// Toggle flips id in the deletion selection.
func (c *Controller) Toggle(id string) bool {
	return c.Selection.Toggle(id)
}

// SelectedIDs returns the selection filtered against the current snapshot.
func (c *Controller) SelectedIDs() []string {
	return c.Selection.IDs(c.Library.Current())
}

// CheckPDF opens path as a PDF and returns its page count.
func CheckPDF(path string) (pages int, err error) {
	defer func() {
		// The parser panics on some malformed inputs.
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	n := reader.NumPage()
	if n < 1 {
		return 0, errors.New("pdf has no pages")
	}
	return n, nil
}

// Upload sends the PDF at path using the session's upload secret, then
// refreshes the library. The session must be unlocked first; otherwise no
// request is sent.
func (c *Controller) Upload(ctx context.Context, path string) (learnapi.Book, error) {
	if !c.Gate.Authenticated() {
		return learnapi.Book{}, apperr.Denied("upload", nil)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return learnapi.Book{}, apperr.Invalid("file", "Please choose a PDF file.")
	}
	pages, err := CheckPDF(path)
	if err != nil {
		c.log.Warn("rejected upload candidate", slog.String("path", path), slog.String("error", err.Error()))
		return learnapi.Book{}, apperr.Invalid("file", filepath.Base(path)+" is not a readable PDF.")
	}

	f, err := os.Open(path)
	if err != nil {
		return learnapi.Book{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	book, err := c.api.UploadBook(ctx, path, f, c.Gate.UploadSecret())
	if err != nil {
		c.logFailure("upload", err, slog.String("path", path))
		if learnapi.IsUnauthorized(err) {
			return learnapi.Book{}, apperr.Denied("upload", err)
		}
		return learnapi.Book{}, err
	}
	c.log.Info("uploaded book", slog.String("book_id", book.ID), slog.String("title", book.DisplayTitle()), slog.Int("pages", pages))

	_, _ = c.Refresh(ctx)
	return book, nil
}

// DeleteSelected deletes the selected books that are still in the library.
// The delete secret is checked before anything is sent; a mismatch leaves
// both the library and the selection as they were.
func (c *Controller) DeleteSelected(ctx context.Context, secret string) (learnapi.Ack, error) {
	snap := c.Library.Current()
	c.Selection.Prune(snap)
	ids := c.Selection.IDs(snap)
	if len(ids) == 0 {
		return learnapi.Ack{}, apperr.Invalid("selection", "Please select books to delete.")
	}
	if c.Gate.RequireForDestructive(secret) != access.Authenticated {
		c.log.Warn("delete rejected locally", slog.Int("books", len(ids)))
		return learnapi.Ack{}, apperr.Denied("delete", nil)
	}

	ack, err := c.api.DeleteSelection(ctx, ids, secret)
	if err != nil {
		c.logFailure("delete selection", err, slog.Any("book_ids", ids))
		if learnapi.IsUnauthorized(err) {
			return learnapi.Ack{}, apperr.Denied("delete", err)
		}
		return learnapi.Ack{}, err
	}
	c.log.Info("deleted books", slog.Any("book_ids", ids), slog.String("message", ack.Message))

	c.Selection.Clear()
	_, _ = c.Refresh(ctx)
	return ack, nil
}

// DeleteAll wipes the library after checking the delete secret.
func (c *Controller) DeleteAll(ctx context.Context, secret string) (learnapi.Ack, error) {
	if c.Gate.RequireForDestructive(secret) != access.Authenticated {
		c.log.Warn("delete all rejected locally")
		return learnapi.Ack{}, apperr.Denied("delete all", nil)
	}
	ack, err := c.api.DeleteAll(ctx, secret)
	if err != nil {
		c.logFailure("delete all", err)
		if learnapi.IsUnauthorized(err) {
			return learnapi.Ack{}, apperr.Denied("delete all", err)
		}
		return learnapi.Ack{}, err
	}
	c.log.Info("deleted all books", slog.String("message", ack.Message))

	c.Selection.Clear()
	_, _ = c.Refresh(ctx)
	return ack, nil
}

// StartQuiz begins a question request for bookID.
func (c *Controller) StartQuiz(bookID string) (session.QuizTicket, error) {
	return c.Quiz.Start(bookID)
}

// FetchQuestion performs the request for t without touching state.
func (c *Controller) FetchQuestion(ctx context.Context, t session.QuizTicket) (learnapi.Question, error) {
	return c.Quiz.Fetch(ctx, t)
}

// ResolveQuestion applies a question response, logging failures and
// superseded responses.
func (c *Controller) ResolveQuestion(t session.QuizTicket, q learnapi.Question, err error) bool {
	applied := c.Quiz.Resolve(t, q, err)
	switch {
	case !applied:
		c.log.Debug("discarded superseded question", slog.String("book_id", t.BookID), slog.Uint64("gen", t.Gen))
	case err != nil:
		c.logFailure("ask", err, slog.String("book_id", t.BookID))
	}
	return applied
}

// Ask runs a full question request for bookID.
func (c *Controller) Ask(ctx context.Context, bookID string) (session.QuizState, error) {
	t, err := c.StartQuiz(bookID)
	if err != nil {
		return c.Quiz.State(), err
	}
	q, err := c.FetchQuestion(ctx, t)
	c.ResolveQuestion(t, q, err)
	return c.Quiz.State(), err
}

// Answer grades option against the current question.
func (c *Controller) Answer(option string) (session.Feedback, bool) {
	return c.Quiz.Select(option)
}

// StartArticle begins an article request.
func (c *Controller) StartArticle(bookID, topic string) (session.ArticleTicket, error) {
	return c.Article.Start(bookID, topic)
}

// FetchArticle performs the request for t without touching state.
func (c *Controller) FetchArticle(ctx context.Context, t session.ArticleTicket) (string, error) {
	return c.Article.Fetch(ctx, t)
}

// ResolveArticle applies an article response, logging failures and
// superseded responses.
func (c *Controller) ResolveArticle(t session.ArticleTicket, content string, err error) bool {
	applied := c.Article.Resolve(t, content, err)
	switch {
	case !applied:
		c.log.Debug("discarded superseded article", slog.String("book_id", t.BookID), slog.String("topic", t.Topic))
	case err != nil:
		c.logFailure("article", err, slog.String("book_id", t.BookID), slog.String("topic", t.Topic))
	}
	return applied
}

// Generate runs a full article request.
func (c *Controller) Generate(ctx context.Context, bookID, topic string) (session.ArticleState, error) {
	t, err := c.StartArticle(bookID, topic)
	if err != nil {
		return c.Article.State(), err
	}
	content, err := c.FetchArticle(ctx, t)
	c.ResolveArticle(t, content, err)
	return c.Article.State(), err
}

// Page fetches the PNG preview of one page.
func (c *Controller) Page(ctx context.Context, bookID string, page int) ([]byte, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, apperr.Invalid("book", "Select a book first.")
	}
	if page < 1 {
		return nil, apperr.Invalid("page", "Page numbers start at 1.")
	}
	fetcher, ok := c.api.(learnapi.PageFetcher)
	if !ok {
		return nil, errors.New("transport does not serve page previews")
	}
	data, err := fetcher.FetchPage(ctx, bookID, page)
	if err != nil {
		c.logFailure("page", err, slog.String("book_id", bookID), slog.Int("page", page))
		return nil, err
	}
	return data, nil
}

func (c *Controller) logFailure(op string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("op", op), slog.String("error", err.Error()))
	if te, ok := learnapi.AsTransportError(err); ok {
		attrs = append(attrs, slog.Int("status", te.Status), slog.String("request_id", te.RequestID))
	}
	c.log.Error("request failed", attrs...)
}
