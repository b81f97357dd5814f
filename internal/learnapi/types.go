package learnapi

import (
	"encoding/json"
	"strings"
)

// Book mirrors an entry returned by /books and the /upload acknowledgement.
type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename,omitempty"`
}

// DisplayTitle returns the title, falling back to the filename and then the id.
func (b Book) DisplayTitle() string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if f := strings.TrimSpace(b.Filename); f != "" {
		return f
	}
	return b.ID
}

// Question mirrors the /ask payload.
type Question struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	SourcePage int      `json:"source_page_number,omitempty"`
}

// Article mirrors the /article payload. Content is markdown.
type Article struct {
	Content string `json:"content"`
}

// Ack is the acknowledgement returned by the delete endpoints.
type Ack struct {
	Message   string `json:"message"`
	Remaining *int   `json:"remaining,omitempty"`
}

type deleteAllRequest struct {
	Password string `json:"password"`
}

type deleteSelectionRequest struct {
	BookIDs  []string `json:"book_ids"`
	Password string   `json:"password"`
}

type askRequest struct {
	BookID string `json:"book_id"`
}

type articleRequest struct {
	BookID string `json:"book_id"`
	Topic  string `json:"topic"`
}

// errorBody covers the error shapes the backend produces. FastAPI uses
// "detail", which is a string for HTTPException and a list for validation.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (b errorBody) text() string {
	if len(b.Detail) > 0 {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(b.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if m := strings.TrimSpace(it.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if e := strings.TrimSpace(b.Error); e != "" {
		return e
	}
	return strings.TrimSpace(b.Message)
}
