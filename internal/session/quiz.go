package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/five82/learnai/internal/apperr"
	"github.com/five82/learnai/internal/learnapi"
)

// ErrEmptyQuestion is returned when the backend answers /ask with no options.
var ErrEmptyQuestion = errors.New("question has no options")

// Asker is the part of the transport the quiz needs.
type Asker interface {
	AskQuestion(ctx context.Context, bookID string) (learnapi.Question, error)
}

// Feedback is the verdict for one answered question.
type Feedback struct {
	Chosen        string
	Correct       bool
	CorrectAnswer string
}

// Message returns the line shown under the options.
func (f Feedback) Message() string {
	if f.Correct {
		return "Correct!"
	}
	return "Incorrect. The correct answer was: " + f.CorrectAnswer
}

// QuizState is a copy of the quiz state machine. Question is set in Ready and
// Answered; Feedback only in Answered. Err holds the last failure and is
// cleared by the next Start.
type QuizState struct {
	Phase    Phase
	BookID   string
	Question learnapi.Question
	Feedback Feedback
	Err      error
}

// QuizTicket identifies one Start call.
type QuizTicket struct {
	Gen    uint64
	BookID string
}

// Quiz drives ask → answer → feedback for one book at a time.
type Quiz struct {
	api Asker

	mu       sync.Mutex
	state    QuizState
	fallback QuizState
	gen      uint64
}

// NewQuiz builds an idle quiz.
func NewQuiz(api Asker) *Quiz {
	return &Quiz{api: api}
}

// Start moves to Loading for bookID and returns the ticket the response must
// present to Resolve. Starting while Loading supersedes the earlier request.
func (q *Quiz) Start(bookID string) (QuizTicket, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return QuizTicket{}, apperr.Invalid("book", "Select a book first.")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state.Phase != Loading {
		q.fallback = q.state
		q.fallback.Err = nil
	}
	q.gen++
	q.state = QuizState{Phase: Loading, BookID: bookID}
	return QuizTicket{Gen: q.gen, BookID: bookID}, nil
}

// Fetch performs the request for t. It does not touch state.
func (q *Quiz) Fetch(ctx context.Context, t QuizTicket) (learnapi.Question, error) {
	question, err := q.api.AskQuestion(ctx, t.BookID)
	if err != nil {
		return learnapi.Question{}, err
	}
	if len(question.Options) == 0 {
		return learnapi.Question{}, ErrEmptyQuestion
	}
	return question, nil
}

// Resolve applies the outcome of t. It returns false, leaving state alone,
// when a later Start has superseded t. A failure restores the state that
// preceded Start with Err set.
func (q *Quiz) Resolve(t QuizTicket, question learnapi.Question, err error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t.Gen != q.gen || q.state.Phase != Loading || q.state.BookID != t.BookID {
		return false
	}
	if err != nil {
		q.state = q.fallback
		q.state.Err = err
		return true
	}
	question.Options = append([]string(nil), question.Options...)
	q.state = QuizState{Phase: Ready, BookID: t.BookID, Question: question}
	return true
}

// Ask runs Start, Fetch and Resolve in sequence.
func (q *Quiz) Ask(ctx context.Context, bookID string) (QuizState, error) {
	t, err := q.Start(bookID)
	if err != nil {
		return q.State(), err
	}
	question, err := q.Fetch(ctx, t)
	q.Resolve(t, question, err)
	return q.State(), err
}

// Select grades option against the current question with exact string
// equality. It is a no-op outside Ready.
func (q *Quiz) Select(option string) (Feedback, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state.Phase != Ready {
		return q.state.Feedback, false
	}
	fb := Feedback{
		Chosen:        option,
		Correct:       option == q.state.Question.Answer,
		CorrectAnswer: q.state.Question.Answer,
	}
	q.state.Phase = Answered
	q.state.Feedback = fb
	return fb, true
}

// State returns a copy of the current state.
func (q *Quiz) State() QuizState {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := q.state
	s.Question.Options = append([]string(nil), q.state.Question.Options...)
	return s
}

// Reset discards everything and invalidates outstanding tickets.
func (q *Quiz) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.gen++
	q.state = QuizState{}
	q.fallback = QuizState{}
}
