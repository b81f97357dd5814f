package session

import (
	"context"
	"strings"
	"sync"

	"github.com/five82/learnai/internal/apperr"
	"github.com/five82/learnai/internal/learnapi"
)

// Writer is the part of the transport the article session needs.
type Writer interface {
	GenerateArticle(ctx context.Context, bookID, topic string) (learnapi.Article, error)
}

// ArticleState is a copy of the article state machine. Content is opaque
// markdown and is only set in Ready.
type ArticleState struct {
	Phase   Phase
	BookID  string
	Topic   string
	Content string
	Err     error
}

// ArticleTicket identifies one Generate call.
type ArticleTicket struct {
	Gen    uint64
	BookID string
	Topic  string
}

// Article drives generate → render for a (book, topic) pair.
type Article struct {
	api Writer

	mu       sync.Mutex
	state    ArticleState
	fallback ArticleState
	gen      uint64
}

// NewArticle builds an idle article session.
func NewArticle(api Writer) *Article {
	return &Article{api: api}
}

// Start moves to Loading. Both inputs are trimmed and must be non-empty;
// otherwise nothing changes and a ValidationError is returned.
func (a *Article) Start(bookID, topic string) (ArticleTicket, error) {
	bookID = strings.TrimSpace(bookID)
	topic = strings.TrimSpace(topic)
	if bookID == "" {
		return ArticleTicket{}, apperr.Invalid("book", "Select source material first.")
	}
	if topic == "" {
		return ArticleTicket{}, apperr.Invalid("topic", "Enter a topic first.")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Phase != Loading {
		a.fallback = a.state
		a.fallback.Err = nil
	}
	a.gen++
	a.state = ArticleState{Phase: Loading, BookID: bookID, Topic: topic}
	return ArticleTicket{Gen: a.gen, BookID: bookID, Topic: topic}, nil
}

// Fetch performs the request for t. It does not touch state.
func (a *Article) Fetch(ctx context.Context, t ArticleTicket) (string, error) {
	art, err := a.api.GenerateArticle(ctx, t.BookID, t.Topic)
	if err != nil {
		return "", err
	}
	return art.Content, nil
}

// Resolve applies the outcome of t, discarding it when superseded. A
// failure restores the state that preceded Start with Err set.
func (a *Article) Resolve(t ArticleTicket, content string, err error) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t.Gen != a.gen || a.state.Phase != Loading || a.state.BookID != t.BookID || a.state.Topic != t.Topic {
		return false
	}
	if err != nil {
		a.state = a.fallback
		a.state.Err = err
		return true
	}
	a.state = ArticleState{Phase: Ready, BookID: t.BookID, Topic: t.Topic, Content: content}
	return true
}

// Generate runs Start, Fetch and Resolve in sequence.
func (a *Article) Generate(ctx context.Context, bookID, topic string) (ArticleState, error) {
	t, err := a.Start(bookID, topic)
	if err != nil {
		return a.State(), err
	}
	content, err := a.Fetch(ctx, t)
	a.Resolve(t, content, err)
	return a.State(), err
}

// State returns a copy of the current state.
func (a *Article) State() ArticleState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Reset discards everything and invalidates outstanding tickets.
func (a *Article) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.state = ArticleState{}
	a.fallback = ArticleState{}
}
