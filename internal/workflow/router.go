package workflow

import (
	"strings"
	"sync"

	"github.com/five82/learnai/internal/library"
)

// View selects the active screen.
type View int

const (
	ViewHome View = iota
	ViewUpload
	ViewQuiz
	ViewArticle
)

// Views lists every view in tab order.
var Views = []View{ViewHome, ViewUpload, ViewQuiz, ViewArticle}

func (v View) String() string {
	switch v {
	case ViewUpload:
		return "upload"
	case ViewQuiz:
		return "quiz"
	case ViewArticle:
		return "article"
	default:
		return "home"
	}
}

// Title is the tab label.
func (v View) Title() string {
	switch v {
	case ViewUpload:
		return "Library"
	case ViewQuiz:
		return "Quiz"
	case ViewArticle:
		return "Article"
	default:
		return "Home"
	}
}

// ParseView maps a selector name back to a View.
func ParseView(name string) (View, bool) {
	for _, v := range Views {
		if strings.EqualFold(strings.TrimSpace(name), v.String()) {
			return v, true
		}
	}
	return ViewHome, false
}

// Screen is what the router hands the active view: which screen to draw and
// the library snapshot to draw it from.
type Screen struct {
	View    View
	Library library.Snapshot
}

// Router maps the view selector to the active screen. It starts on Home.
type Router struct {
	store *library.Store

	mu      sync.Mutex
	current View
	leave   func(from View)
}

// NewRouter builds a router reading snapshots from store. leave, when set,
// runs whenever the active view changes, with the view being left.
func NewRouter(store *library.Store, leave func(from View)) *Router {
	return &Router{store: store, leave: leave}
}

// Navigate switches to v and returns the new screen. Unknown values fall back
// to Home.
func (r *Router) Navigate(v View) Screen {
	if v < ViewHome || v > ViewArticle {
		v = ViewHome
	}
	r.mu.Lock()
	prev := r.current
	r.current = v
	r.mu.Unlock()

	if prev != v && r.leave != nil {
		r.leave(prev)
	}
	return r.Active()
}

// Current returns the active view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Active returns the active view with a fresh library snapshot.
func (r *Router) Active() Screen {
	screen := Screen{View: r.Current()}
	if r.store != nil {
		screen.Library = r.store.Current()
	}
	return screen
}
