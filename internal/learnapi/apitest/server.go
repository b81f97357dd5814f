// Package apitest runs an in-memory stand-in for the library backend.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/five82/learnai/internal/learnapi"
)

// Hook runs before a route handler. Returning false means the hook already
// wrote the response.
type Hook func(w http.ResponseWriter, r *http.Request) bool

// Server is a fake backend with the same routes and password rules as the
// real one.
type Server struct {
	*httptest.Server

	UploadPassword string
	DeletePassword string

	mu        sync.Mutex
	books     []learnapi.Book
	questions map[string]learnapi.Question
	articles  map[string]string
	hooks     map[string]Hook
	calls     map[string]int
	nextID    int
	lastIDs   []string
	uploads   map[string][]byte
}

// New starts a server. Call Close when done (tests usually use t.Cleanup).
func New() *Server {
	s := &Server{
		UploadPassword: "upload-secret",
		DeletePassword: "delete-secret",
		questions:      make(map[string]learnapi.Question),
		articles:       make(map[string]string),
		hooks:          make(map[string]Hook),
		calls:          make(map[string]int),
		uploads:        make(map[string][]byte),
	}

	r := chi.NewRouter()
	r.Get("/books", s.wrap("books", s.handleList))
	r.Post("/upload", s.wrap("upload", s.handleUpload))
	r.Post("/delete-all", s.wrap("delete-all", s.handleDeleteAll))
	r.Post("/delete-selection", s.wrap("delete-selection", s.handleDeleteSelection))
	r.Post("/ask", s.wrap("ask", s.handleAsk))
	r.Post("/article", s.wrap("article", s.handleArticle))
	r.Get("/books/{id}/pages/{page}", s.wrap("page", s.handlePage))

	s.Server = httptest.NewServer(r)
	return s
}

// AddBook seeds the library and returns the stored book.
func (s *Server) AddBook(title string) learnapi.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(title)
}

// Books returns the server-side library.
func (s *Server) Books() []learnapi.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]learnapi.Book, len(s.books))
	copy(out, s.books)
	return out
}

// SetQuestion fixes the question returned for bookID.
func (s *Server) SetQuestion(bookID string, q learnapi.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[bookID] = q
}

// SetArticle fixes the article body returned for (bookID, topic).
func (s *Server) SetArticle(bookID, topic, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[bookID+"\x00"+topic] = content
}

// Hook installs a hook for a route name: books, upload, delete-all,
// delete-selection, ask, article, page.
func (s *Server) Hook(route string, h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		delete(s.hooks, route)
		return
	}
	s.hooks[route] = h
}

// Calls reports how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// LastDeletedIDs returns the ids sent by the most recent delete-selection.
func (s *Server) LastDeletedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lastIDs...)
}

// Uploaded returns the bytes received for a book id.
func (s *Server) Uploaded(id string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads[id]
}

// Fail returns a hook that answers every request with status and detail.
func Fail(status int, detail string) Hook {
	return func(w http.ResponseWriter, _ *http.Request) bool {
		writeDetail(w, status, detail)
		return false
	}
}

func (s *Server) wrap(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		hook := s.hooks[route]
		s.mu.Unlock()
		if hook != nil && !hook(w, r) {
			return
		}
		next(w, r)
	}
}

func (s *Server) addLocked(title string) learnapi.Book {
	s.nextID++
	b := learnapi.Book{ID: fmt.Sprintf("book-%d", s.nextID), Title: title, Filename: title}
	s.books = append(s.books, b)
	return b
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	books := s.Books()
	if books == nil {
		books = []learnapi.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if r.FormValue("password") != s.UploadPassword {
		writeDetail(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	s.mu.Lock()
	book := s.addLocked(header.Filename)
	s.uploads[book.ID] = data
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Password != s.DeletePassword {
		writeDetail(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	s.mu.Lock()
	s.books = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "All books deleted"})
}

func (s *Server) handleDeleteSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string   `json:"password"`
		BookIDs  []string `json:"book_ids"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Password != s.DeletePassword {
		writeDetail(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	drop := make(map[string]struct{}, len(req.BookIDs))
	for _, id := range req.BookIDs {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	s.lastIDs = append([]string(nil), req.BookIDs...)
	kept := s.books[:0]
	for _, b := range s.books {
		if _, ok := drop[b.ID]; !ok {
			kept = append(kept, b)
		}
	}
	s.books = kept
	remaining := len(kept)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Selected books deleted", "remaining": remaining})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"book_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if !s.has(req.BookID) {
		writeDetail(w, http.StatusNotFound, "Book content not found")
		return
	}
	s.mu.Lock()
	q, ok := s.questions[req.BookID]
	s.mu.Unlock()
	if !ok {
		q = learnapi.Question{
			Question:   "Sample question generated from text content (AI unavailable)?",
			Options:    []string{"Option A", "Option B", "Option C", "Option D"},
			Answer:     "Option A",
			SourcePage: 1,
		}
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID string `json:"book_id"`
		Topic  string `json:"topic"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if !s.has(req.BookID) {
		writeDetail(w, http.StatusNotFound, "Book content not found")
		return
	}
	s.mu.Lock()
	content, ok := s.articles[req.BookID+"\x00"+req.Topic]
	s.mu.Unlock()
	if !ok {
		content = "# Article on " + req.Topic + "\n\nPlaceholder article."
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || !s.has(id) {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if page < 1 {
		writeDetail(w, http.StatusNotFound, "Page number out of range")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(append([]byte("\x89PNG\r\n\x1a\n"), []byte(fmt.Sprintf("%s:%d", id, page))...))
}

func (s *Server) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if b.ID == id {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
