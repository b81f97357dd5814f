package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/five82/learnai/internal/app"
	"github.com/five82/learnai/internal/learnapi"
	"github.com/five82/learnai/internal/learnapi/apitest"
)

type testEnv struct {
	srv     *apitest.Server
	dir     string
	cfgPath string
	logPath string
	tuiRuns int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("LEARNAI_API_URL", "")
	t.Setenv("VITE_API_URL", "")

	srv := apitest.New()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	env := &testEnv{
		srv:     srv,
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.toml"),
		logPath: filepath.Join(dir, "learnai.log"),
	}
	cfg := fmt.Sprintf("api_url = %q\nupload_secret = %q\ndelete_secret = %q\nlog_file = %q\n",
		srv.URL, srv.UploadPassword, srv.DeletePassword, env.logPath)
	if err := os.WriteFile(env.cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// run executes one command line and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	r := newRunner(Options{
		PrefsPath: filepath.Join(e.dir, "prefs.toml"),
		RunTUI: func(context.Context, *app.Env) error {
			e.tuiRuns++
			return nil
		},
	})
	defer r.close()

	cmd := r.rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", e.cfgPath))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootRunsTUI(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.run(t, ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if env.tuiRuns != 1 {
		t.Fatalf("tui runs = %d, want 1", env.tuiRuns)
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "", "version")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out) != "learnai dev" {
		t.Fatalf("version output = %q", out)
	}
}

func TestBooks_Table(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddBook("Biology")
	env.srv.AddBook("Chemistry")

	out, _, err := env.run(t, "", "books")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"TITLE", "book-1", "Biology", "book-2", "Chemistry", "2 book(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Biology") > strings.Index(out, "Chemistry") {
		t.Fatalf("books not in server order:\n%s", out)
	}
}

func TestBooks_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddBook("Biology")
	env.srv.AddBook("Chemistry")

	out, _, err := env.run(t, "", "books", "--output", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got []bookOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(got) != 2 || got[0].ID != "book-1" || got[1].Title != "Chemistry" {
		t.Fatalf("got %+v", got)
	}
}

func TestBooks_YAML(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddBook("Biology")

	out, _, err := env.run(t, "", "books", "-o", "yaml")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got []bookOutput
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].ID != "book-1" || got[0].Title != "Biology" {
		t.Fatalf("got %+v", got)
	}
}

func TestBooks_EmptyAndErrors(t *testing.T) {
	env := newTestEnv(t)

	_, errOut, err := env.run(t, "", "books")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut, "The library is empty.") {
		t.Fatalf("stderr = %q", errOut)
	}

	out, _, err := env.run(t, "", "books", "-o", "json")
	if err != nil {
		t.Fatalf("run json: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("empty json = %q, want []", out)
	}

	if _, _, err := env.run(t, "", "books", "-o", "csv"); err == nil {
		t.Fatalf("expected error for unknown output")
	}

	env.srv.Hook("books", apitest.Fail(500, "database offline"))
	_, _, err = env.run(t, "", "books")
	if err == nil || err.Error() != "Could not load the library. (database offline)" {
		t.Fatalf("err = %v", err)
	}
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	pdfPath := apitest.WritePDF(t, t.TempDir(), "biology.pdf")

	out, _, err := env.run(t, "", "upload", pdfPath, "--secret", env.srv.UploadPassword)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Book uploaded successfully!") || !strings.Contains(out, "book-1") {
		t.Fatalf("output:\n%s", out)
	}
	if len(env.srv.Books()) != 1 {
		t.Fatalf("server books = %+v", env.srv.Books())
	}
}

func TestUpload_SecretFromStdin(t *testing.T) {
	env := newTestEnv(t)
	pdfPath := apitest.WritePDF(t, t.TempDir(), "biology.pdf")

	_, errOut, err := env.run(t, env.srv.UploadPassword+"\n", "upload", pdfPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut, "Upload password:") {
		t.Fatalf("expected a prompt, stderr = %q", errOut)
	}
	if env.srv.Calls("upload") != 1 {
		t.Fatalf("upload calls = %d", env.srv.Calls("upload"))
	}
}

func TestUpload_Rejected(t *testing.T) {
	env := newTestEnv(t)
	pdfPath := apitest.WritePDF(t, t.TempDir(), "biology.pdf")
	txtPath := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(txtPath, []byte("just text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{"wrong secret", "", []string{"upload", pdfPath, "--secret", "nope"}, "Incorrect Password"},
		{"no secret", "", []string{"upload", pdfPath}, "a password is required (use --secret)"},
		{"not a pdf", "", []string{"upload", txtPath, "--secret", env.srv.UploadPassword}, "notes.pdf is not a readable PDF"},
		{"missing file", "", []string{"upload", filepath.Join(t.TempDir(), "gone.pdf"), "--secret", env.srv.UploadPassword}, "gone.pdf is not a readable PDF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.run(t, tc.stdin, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want %q", err, tc.wantErr)
			}
		})
	}
	if env.srv.Calls("upload") != 0 {
		t.Fatalf("upload calls = %d, want 0", env.srv.Calls("upload"))
	}
}

func TestDelete_Selected(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddBook("Biology")
	env.srv.AddBook("Chemistry")
	env.srv.AddBook("Physics")

	out, errOut, err := env.run(t, "", "delete", "book-1", "book-3", "book-9", "book-1", "--secret", env.srv.DeletePassword)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Selected books deleted (1 remaining)") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(errOut, "book-9 is not in the library; skipped") {
		t.Fatalf("stderr = %q", errOut)
	}
	got := env.srv.LastDeletedIDs()
	if len(got) != 2 || got[0] != "book-1" || got[1] != "book-3" {
		t.Fatalf("deleted ids = %v, want [book-1 book-3]", got)
	}
}

func TestDelete_SelectedRejected(t *testing.T) {
	env := newTestEnv(t)
	env.srv.AddBook("Biology")

	_, _, err := env.run(t, "", "delete", "book-1", "--secret", "wrong")
	if err == nil || err.Error() != "Incorrect password!" {
		t.Fatalf("err = %v, want Incorrect password!", err)
	}

	_, _, err = env.run(t, "", "delete", "book-7", "--secret", env.srv.DeletePassword)
	if err == nil || err.Error() != "Please select books to delete." {
		t.Fatalf("err = %v, want selection error", err)
	}

	if env.srv.Calls("delete-selection") != 0 {
		t.Fatalf("delete-selection calls = %d, want 0", env.srv.Calls("delete-selection"))
	}
	if len(env.srv.Books()) != 1 {
		t.Fatalf("library changed: %+v", env.srv.Books())
	}
}

func TestDelete_Args(t *testing.T) {
	env := newTestEnv(t)
	if _, _, err := env.run(t, "", "delete"); err == nil {
		t.Fatalf("expected error without ids")
	}
	if _, _, err := env.run(t, "", "delete", "--all", "book-1"); err == nil {
		t.Fatalf("expected error for --all with ids")
	}
}

func TestDelete_All(t *testing.T) {
	cases := []struct {
		name      string
		stdin     string
		args      []string
		wantErr   string
		wantBooks int
	}{
		{"confirmed", "yes\n", []string{"--secret", "delete-secret"}, "", 0},
		{"yes flag", "", []string{"--yes", "--secret", "delete-secret"}, "", 0},
		{"aborted", "no\n", []string{"--secret", "delete-secret"}, "aborted", 2},
		{"wrong secret", "", []string{"-y", "--secret", "nope"}, "Incorrect password!", 2},
		{"secret from stdin", "yes\ndelete-secret\n", nil, "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.srv.AddBook("Biology")
			env.srv.AddBook("Chemistry")

			args := append([]string{"delete", "--all"}, tc.args...)
			out, _, err := env.run(t, tc.stdin, args...)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want %q", err, tc.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("run: %v", err)
				}
				if !strings.Contains(out, "All books deleted") {
					t.Fatalf("output:\n%s", out)
				}
			}
			if got := len(env.srv.Books()); got != tc.wantBooks {
				t.Fatalf("books left = %d, want %d", got, tc.wantBooks)
			}
		})
	}
}

func TestDelete_AllOnEmptyLibrary(t *testing.T) {
	env := newTestEnv(t)
	_, errOut, err := env.run(t, "", "delete", "--all", "--yes", "--secret", "delete-secret")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut, "The library is already empty.") {
		t.Fatalf("stderr = %q", errOut)
	}
	if env.srv.Calls("delete-all") != 0 {
		t.Fatalf("delete-all was sent")
	}
}

func seedQuestion(env *testEnv) learnapi.Book {
	book := env.srv.AddBook("Biology")
	env.srv.SetQuestion(book.ID, learnapi.Question{
		Question:   "What do plants make?",
		Options:    []string{"Salt", "Sugar", "Steel"},
		Answer:     "Sugar",
		SourcePage: 4,
	})
	return book
}

func TestAsk(t *testing.T) {
	cases := []struct {
		name  string
		stdin string
		want  string
	}{
		{"correct", "2\n", "Correct!"},
		{"incorrect", "1\n", "Incorrect. The correct answer was: Sugar"},
		{"retry after bad input", "7\nabc\n2\n", "Correct!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			book := seedQuestion(env)

			out, _, err := env.run(t, tc.stdin, "ask", book.ID)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, want := range []string{"What do plants make?", "2. Sugar", "Source: page 4", tc.want} {
				if !strings.Contains(out, want) {
					t.Fatalf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestAsk_Failures(t *testing.T) {
	env := newTestEnv(t)
	book := seedQuestion(env)

	_, _, err := env.run(t, "", "ask", book.ID)
	if err == nil || err.Error() != "no answer given" {
		t.Fatalf("err = %v, want no answer given", err)
	}

	_, _, err = env.run(t, "1\n", "ask", "book-404")
	if err == nil || err.Error() != "Could not get a question. (Book content not found)" {
		t.Fatalf("err = %v", err)
	}

	_, _, err = env.run(t, "1\n", "ask", "  ")
	if err == nil || err.Error() != "Select a book first." {
		t.Fatalf("err = %v, want Select a book first.", err)
	}
}

func TestArticle(t *testing.T) {
	env := newTestEnv(t)
	book := env.srv.AddBook("Biology")
	env.srv.SetArticle(book.ID, "light reactions", "# Light Reactions\n\nChlorophyll absorbs light.")

	out, _, err := env.run(t, "", "article", book.ID, "light", "reactions", "--raw")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out) != "# Light Reactions\n\nChlorophyll absorbs light." {
		t.Fatalf("raw output = %q", out)
	}

	out, _, err = env.run(t, "", "article", book.ID, "light", "reactions")
	if err != nil {
		t.Fatalf("run rendered: %v", err)
	}
	if !strings.Contains(out, "Light Reactions") || !strings.Contains(out, "Chlorophyll absorbs light.") {
		t.Fatalf("rendered output:\n%s", out)
	}
}

func TestArticle_Failures(t *testing.T) {
	env := newTestEnv(t)
	book := env.srv.AddBook("Biology")

	_, _, err := env.run(t, "", "article", book.ID, "   ")
	if err == nil || err.Error() != "Enter a topic first." {
		t.Fatalf("err = %v, want Enter a topic first.", err)
	}
	if env.srv.Calls("article") != 0 {
		t.Fatalf("article was requested for a blank topic")
	}

	env.srv.Hook("article", apitest.Fail(502, "model unavailable"))
	_, _, err = env.run(t, "", "article", book.ID, "cells")
	if err == nil || err.Error() != "Could not generate the article. (model unavailable)" {
		t.Fatalf("err = %v", err)
	}
}

func TestPage(t *testing.T) {
	env := newTestEnv(t)
	book := env.srv.AddBook("Biology")

	target := filepath.Join(t.TempDir(), "figure.png")
	out, _, err := env.run(t, "", "page", book.ID, "3", "-o", target)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Saved page 3 of book-1 to "+target) {
		t.Fatalf("output:\n%s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("not a png: %q", data)
	}
}

func TestPage_DefaultPath(t *testing.T) {
	env := newTestEnv(t)
	book := env.srv.AddBook("Biology")
	wd := t.TempDir()
	t.Chdir(wd)

	if _, _, err := env.run(t, "", "page", book.ID, "2"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(wd, "book-1-p2.png")); err != nil {
		t.Fatalf("default file missing: %v", err)
	}
}

func TestPage_InvalidNumber(t *testing.T) {
	env := newTestEnv(t)
	book := env.srv.AddBook("Biology")

	_, _, err := env.run(t, "", "page", book.ID, "0")
	if err == nil || err.Error() != "Page numbers start at 1." {
		t.Fatalf("err = %v", err)
	}
	_, _, err = env.run(t, "", "page", book.ID, "two")
	if err == nil || !strings.Contains(err.Error(), "not a number") {
		t.Fatalf("err = %v", err)
	}
	if env.srv.Calls("page") != 0 {
		t.Fatalf("page was requested")
	}
}

func TestLogs(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Hook("books", apitest.Fail(500, "database offline"))
	_, _, _ = env.run(t, "", "books")

	out, _, err := env.run(t, "", "logs")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"learnai starting", "request failed", "op=list books"} {
		if !strings.Contains(out, want) {
			t.Fatalf("logs missing %q:\n%s", want, out)
		}
	}

	out, _, err = env.run(t, "", "logs", "-n", "1")
	if err != nil {
		t.Fatalf("run -n 1: %v", err)
	}
	if n := strings.Count(strings.TrimSpace(out), "\n"); n != 0 {
		t.Fatalf("-n 1 printed %d lines:\n%s", n+1, out)
	}
}

func TestAckLine(t *testing.T) {
	one := 1
	cases := []struct {
		ack      learnapi.Ack
		fallback string
		want     string
	}{
		{learnapi.Ack{Message: "Selected books deleted", Remaining: &one}, "x", "Selected books deleted (1 remaining)"},
		{learnapi.Ack{Message: "All books deleted"}, "x", "All books deleted"},
		{learnapi.Ack{}, "Books deleted.", "Books deleted."},
	}
	for _, tc := range cases {
		if got := ackLine(tc.ack, tc.fallback); got != tc.want {
			t.Errorf("ackLine = %q, want %q", got, tc.want)
		}
	}
}
