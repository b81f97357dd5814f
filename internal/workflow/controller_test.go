package workflow

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/five82/learnai/internal/access"
	"github.com/five82/learnai/internal/apperr"
	"github.com/five82/learnai/internal/learnapi"
	"github.com/five82/learnai/internal/learnapi/apitest"
	"github.com/five82/learnai/internal/session"
)

func newTestController(t *testing.T, logger *slog.Logger) (*Controller, *apitest.Server) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	client, err := learnapi.NewClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c := New(Options{
		API:     client,
		Secrets: access.Secrets{UploadSecret: srv.UploadPassword, DeleteSecret: srv.DeletePassword},
		Logger:  logger,
	})
	return c, srv
}

func TestController_UploadToggleWrongDeleteSecretKeepsBook(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestController(t, nil)
	srv.AddBook("first.pdf")
	srv.AddBook("second.pdf")
	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if res := c.Login(srv.UploadPassword); res != access.Authenticated {
		t.Fatalf("Login = %v, want authenticated", res)
	}
	path := apitest.WritePDF(t, t.TempDir(), "new.pdf")
	book, err := c.Upload(ctx, path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	snap := c.Library.Current()
	if snap.Len() != 3 || snap.Books[2].ID != book.ID {
		t.Fatalf("snapshot = %+v, want new book last", snap.Books)
	}

	c.Toggle(book.ID)
	_, err = c.DeleteSelected(ctx, "wrong")
	if !apperr.IsAuth(err) {
		t.Fatalf("DeleteSelected(wrong) error = %v, want auth error", err)
	}
	if got := srv.Calls("delete-selection"); got != 0 {
		t.Fatalf("delete-selection calls = %d, want 0", got)
	}

	snap, err = c.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !snap.Contains(book.ID) {
		t.Fatalf("book %s missing after rejected delete", book.ID)
	}
	if !c.Selection.IsSelected(book.ID) {
		t.Fatalf("rejected delete cleared the selection")
	}
}

func TestController_DeleteSelectedRemovesBooks(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestController(t, nil)
	a := srv.AddBook("a.pdf")
	b := srv.AddBook("b.pdf")
	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	c.Toggle(b.ID)
	c.Toggle(a.ID)
	ack, err := c.DeleteSelected(ctx, srv.DeletePassword)
	if err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}
	if ack.Remaining == nil || *ack.Remaining != 0 {
		t.Fatalf("ack = %+v, want remaining 0", ack)
	}
	if got := srv.LastDeletedIDs(); !slices.Equal(got, []string{b.ID, a.ID}) {
		t.Fatalf("sent ids = %v, want pick order", got)
	}
	if c.Library.Current().Len() != 0 {
		t.Fatalf("library not refreshed after delete")
	}
	if c.Selection.Len() != 0 {
		t.Fatalf("selection not cleared after delete")
	}
}

func TestController_StaleSelectionNeverSent(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestController(t, nil)
	a := srv.AddBook("a.pdf")
	b := srv.AddBook("b.pdf")
	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	c.Toggle(a.ID)
	c.Toggle(b.ID)

	// Another client deletes b.
	other, _ := learnapi.NewClient(srv.URL, 0)
	if _, err := other.DeleteSelection(ctx, []string{b.ID}, srv.DeletePassword); err != nil {
		t.Fatalf("out-of-band delete: %v", err)
	}

	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if c.Selection.IsSelected(b.ID) {
		t.Fatalf("stale id %s survived refresh", b.ID)
	}
	if _, err := c.DeleteSelected(ctx, srv.DeletePassword); err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}
	if got := srv.LastDeletedIDs(); !slices.Equal(got, []string{a.ID}) {
		t.Fatalf("sent ids = %v, want only %s", got, a.ID)
	}
}

func TestController_DeleteSelectedRequiresSelection(t *testing.T) {
	c, srv := newTestController(t, nil)
	_, err := c.DeleteSelected(context.Background(), srv.DeletePassword)
	if got := apperr.Message(err, "Delete failed."); got != "Please select books to delete." {
		t.Fatalf("message = %q", got)
	}
	if srv.Calls("delete-selection") != 0 {
		t.Fatalf("request sent with empty selection")
	}
}

func TestController_DeleteAll(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestController(t, nil)
	srv.AddBook("a.pdf")
	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := c.DeleteAll(ctx, srv.UploadPassword); !apperr.IsAuth(err) {
		t.Fatalf("DeleteAll(upload secret) error = %v, want auth error", err)
	}
	if srv.Calls("delete-all") != 0 {
		t.Fatalf("request sent with wrong secret")
	}

	if _, err := c.DeleteAll(ctx, srv.DeletePassword); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if c.Library.Current().Len() != 0 {
		t.Fatalf("library not empty after delete all")
	}
}

func TestController_UploadRequiresUnlock(t *testing.T) {
	c, srv := newTestController(t, nil)
	path := apitest.WritePDF(t, t.TempDir(), "book.pdf")

	if res := c.Login("nope"); res != access.Rejected {
		t.Fatalf("Login(nope) = %v", res)
	}
	_, err := c.Upload(context.Background(), path)
	if !apperr.IsAuth(err) {
		t.Fatalf("Upload error = %v, want auth error", err)
	}
	if srv.Calls("upload") != 0 {
		t.Fatalf("upload sent while locked")
	}
}

func TestController_UploadRejectsNonPDF(t *testing.T) {
	c, srv := newTestController(t, nil)
	c.Login(srv.UploadPassword)

	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("just text"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := c.Upload(context.Background(), path)
	if !apperr.IsValidation(err) {
		t.Fatalf("Upload error = %v, want validation error", err)
	}
	if srv.Calls("upload") != 0 {
		t.Fatalf("invalid file was uploaded")
	}
}

func TestController_UploadServerRejectsSecret(t *testing.T) {
	c, srv := newTestController(t, nil)
	srv.UploadPassword = "rotated"
	c.Login("upload-secret")

	_, err := c.Upload(context.Background(), apitest.WritePDF(t, t.TempDir(), "book.pdf"))
	if !apperr.IsAuth(err) {
		t.Fatalf("Upload error = %v, want auth error", err)
	}
	if !learnapi.IsUnauthorized(err) {
		t.Fatalf("auth error lost the transport cause: %v", err)
	}
}

func TestController_RefreshFailureKeepsSnapshotAndLogs(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, srv := newTestController(t, logger)
	srv.AddBook("a.pdf")
	if _, err := c.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	srv.Hook("books", apitest.Fail(500, "db down"))
	snap, err := c.Refresh(ctx)
	te, ok := learnapi.AsTransportError(err)
	if !ok || te.Status != 500 {
		t.Fatalf("Refresh error = %v, want 500 transport error", err)
	}
	if snap.Len() != 1 {
		t.Fatalf("snapshot len = %d, want previous 1", snap.Len())
	}
	for _, want := range []string{`"op":"list books"`, `"status":500`, `"request_id"`} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("log missing %s:\n%s", want, logs.String())
		}
	}
}

func TestController_QuizDiscardsSupersededResponse(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestController(t, nil)
	a := srv.AddBook("a.pdf")
	b := srv.AddBook("b.pdf")
	srv.SetQuestion(a.ID, learnapi.Question{Question: "from a", Options: []string{"x"}, Answer: "x"})
	srv.SetQuestion(b.ID, learnapi.Question{Question: "from b", Options: []string{"y"}, Answer: "y"})

	ta, err := c.StartQuiz(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	tb, err := c.StartQuiz(b.ID)
	if err != nil {
		t.Fatal(err)
	}

	qb, errB := c.FetchQuestion(ctx, tb)
	if !c.ResolveQuestion(tb, qb, errB) {
		t.Fatalf("current response discarded")
	}
	qa, errA := c.FetchQuestion(ctx, ta)
	if c.ResolveQuestion(ta, qa, errA) {
		t.Fatalf("late response for %s applied", a.ID)
	}

	state := c.Quiz.State()
	if state.Phase != session.Ready || state.Question.Question != "from b" {
		t.Fatalf("state = %+v, want b's question", state)
	}
}

func TestController_AskAndAnswer(t *testing.T) {
	c, srv := newTestController(t, nil)
	b := srv.AddBook("a.pdf")

	state, err := c.Ask(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if state.Question.SourcePage != 1 {
		t.Fatalf("source page = %d, want 1", state.Question.SourcePage)
	}
	fb, ok := c.Answer("Option B")
	if !ok || fb.Correct || fb.Message() != "Incorrect. The correct answer was: Option A" {
		t.Fatalf("feedback = %+v ok=%v", fb, ok)
	}
}

func TestController_AskUnknownBookRevertsToIdle(t *testing.T) {
	c, _ := newTestController(t, nil)
	state, err := c.Ask(context.Background(), "missing")
	te, ok := learnapi.AsTransportError(err)
	if !ok || te.Status != 404 || te.Message != "Book content not found" {
		t.Fatalf("Ask error = %v", err)
	}
	if state.Phase != session.Idle {
		t.Fatalf("phase = %v, want idle", state.Phase)
	}
}

func TestController_Generate(t *testing.T) {
	c, srv := newTestController(t, nil)
	b := srv.AddBook("a.pdf")
	srv.SetArticle(b.ID, "Chapter 1", "# Chapter 1\n\nBody.")

	state, err := c.Generate(context.Background(), b.ID, " Chapter 1 ")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if state.Content != "# Chapter 1\n\nBody." {
		t.Fatalf("content = %q", state.Content)
	}

	if _, err := c.Generate(context.Background(), b.ID, ""); !apperr.IsValidation(err) {
		t.Fatalf("Generate(empty topic) error = %v", err)
	}
	if srv.Calls("article") != 1 {
		t.Fatalf("article calls = %d, want 1", srv.Calls("article"))
	}
}

func TestController_NavigationTearsDownSessionsButKeepsAuth(t *testing.T) {
	c, srv := newTestController(t, nil)
	b := srv.AddBook("a.pdf")
	c.Login(srv.UploadPassword)

	c.Navigate(ViewQuiz)
	if _, err := c.Ask(context.Background(), b.ID); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	screen := c.Navigate(ViewUpload)
	if screen.View != ViewUpload {
		t.Fatalf("view = %v", screen.View)
	}
	if c.Quiz.State().Phase != session.Idle {
		t.Fatalf("quiz survived leaving the view")
	}
	c.Navigate(ViewHome)
	if !c.Gate.Authenticated() {
		t.Fatalf("navigation reset the access gate")
	}
}

func TestController_Page(t *testing.T) {
	c, srv := newTestController(t, nil)
	b := srv.AddBook("a.pdf")

	if _, err := c.Page(context.Background(), b.ID, 0); !apperr.IsValidation(err) {
		t.Fatalf("Page(0) error = %v", err)
	}
	data, err := c.Page(context.Background(), b.ID, 2)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("page bytes are not a PNG")
	}
}

func TestCheckPDF(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "three.pdf")
	if err := os.WriteFile(good, apitest.MinimalPDF(3), 0o644); err != nil {
		t.Fatal(err)
	}
	if n, err := CheckPDF(good); err != nil || n != 3 {
		t.Fatalf("CheckPDF = %d, %v; want 3 pages", n, err)
	}

	bad := filepath.Join(dir, "bad.pdf")
	if err := os.WriteFile(bad, []byte("%PDF-1.4\ngarbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CheckPDF(bad); err == nil {
		t.Fatalf("CheckPDF accepted a broken file")
	}
	if _, err := CheckPDF(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Fatalf("CheckPDF accepted a missing file")
	}
}
