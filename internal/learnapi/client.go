package learnapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// API is the remote library contract consumed by the workflow controller.
type API interface {
	ListBooks(ctx context.Context) ([]Book, error)
	UploadBook(ctx context.Context, filename string, r io.Reader, password string) (Book, error)
	DeleteAll(ctx context.Context, password string) (Ack, error)
	DeleteSelection(ctx context.Context, bookIDs []string, password string) (Ack, error)
	AskQuestion(ctx context.Context, bookID string) (Question, error)
	GenerateArticle(ctx context.Context, bookID, topic string) (Article, error)
}

// PageFetcher retrieves rendered PDF pages.
type PageFetcher interface {
	FetchPage(ctx context.Context, bookID string, page int) ([]byte, error)
}

// Ensure Client implements API and PageFetcher at compile time.
var (
	_ API         = (*Client)(nil)
	_ PageFetcher = (*Client)(nil)
)

// Client talks to the library backend over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL matches the backend's development listener.
	DefaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "learnai/0.1"
	requestIDHeader  = "X-Request-Id"
	maxErrorBody     = 64 * 1024
)

// NewClient builds a Client for baseURL. A zero timeout leaves requests bound
// only by ctx and the transport defaults.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListBooks retrieves the library in server order.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.doJSON(ctx, "list books", http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// UploadBook posts a PDF as multipart form data with the upload password.
func (c *Client) UploadBook(ctx context.Context, filename string, r io.Reader, password string) (Book, error) {
	const op = "upload book"
	if r == nil {
		return Book{}, &TransportError{Op: op, Message: "no file content"}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return Book{}, &TransportError{Op: op, Message: fmt.Sprintf("create form file: %v", err), Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return Book{}, &TransportError{Op: op, Message: fmt.Sprintf("read file: %v", err), Err: err}
	}
	if err := writer.WriteField("password", password); err != nil {
		return Book{}, &TransportError{Op: op, Message: fmt.Sprintf("write password field: %v", err), Err: err}
	}
	if err := writer.Close(); err != nil {
		return Book{}, &TransportError{Op: op, Message: fmt.Sprintf("close form: %v", err), Err: err}
	}

	var book Book
	if err := c.do(ctx, op, http.MethodPost, "/upload", writer.FormDataContentType(), body, &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// DeleteAll removes every book from the library.
func (c *Client) DeleteAll(ctx context.Context, password string) (Ack, error) {
	var ack Ack
	if err := c.doJSON(ctx, "delete all", http.MethodPost, "/delete-all", deleteAllRequest{Password: password}, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// DeleteSelection removes the given books.
func (c *Client) DeleteSelection(ctx context.Context, bookIDs []string, password string) (Ack, error) {
	req := deleteSelectionRequest{BookIDs: bookIDs, Password: password}
	if req.BookIDs == nil {
		req.BookIDs = []string{}
	}
	var ack Ack
	if err := c.doJSON(ctx, "delete selection", http.MethodPost, "/delete-selection", req, &ack); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// AskQuestion requests a multiple-choice question drawn from bookID.
func (c *Client) AskQuestion(ctx context.Context, bookID string) (Question, error) {
	var q Question
	if err := c.doJSON(ctx, "ask question", http.MethodPost, "/ask", askRequest{BookID: bookID}, &q); err != nil {
		return Question{}, err
	}
	return q, nil
}

// GenerateArticle requests a markdown article about topic from bookID.
func (c *Client) GenerateArticle(ctx context.Context, bookID, topic string) (Article, error) {
	var a Article
	if err := c.doJSON(ctx, "generate article", http.MethodPost, "/article", articleRequest{BookID: bookID, Topic: topic}, &a); err != nil {
		return Article{}, err
	}
	return a, nil
}

// FetchPage returns the PNG rendering of a 1-based page.
func (c *Client) FetchPage(ctx context.Context, bookID string, page int) ([]byte, error) {
	const op = "fetch page"
	path := "/books/" + url.PathEscape(bookID) + "/pages/" + strconv.Itoa(page)
	resp, reqID, err := c.send(ctx, op, http.MethodGet, path, "", nil, "image/png")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("read body: %v", err), RequestID: reqID, Err: err}
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, payload, dest any) error {
	if payload == nil {
		return c.do(ctx, op, method, path, "", nil, dest)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Op: op, Message: fmt.Sprintf("encode request: %v", err), Err: err}
	}
	return c.do(ctx, op, method, path, "application/json", bytes.NewReader(raw), dest)
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, dest any) error {
	resp, reqID, err := c.send(ctx, op, method, path, contentType, body, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), RequestID: reqID, Err: err}
	}
	return nil
}

// send executes the request and converts non-2xx responses into
// *TransportError. On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, op, method, path, contentType string, body io.Reader, accept string) (*http.Response, string, error) {
	if c == nil {
		return nil, "", &TransportError{Op: op, Message: "client is nil"}
	}
	reqID := uuid.NewString()
	reqURL := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, reqID, &TransportError{Op: op, Message: fmt.Sprintf("create request: %v", err), RequestID: reqID, Err: err}
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, reqID, &TransportError{Op: op, Message: fmt.Sprintf("execute request: %v", err), RequestID: reqID, Err: err}
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, reqID, &TransportError{
			Op:        op,
			Status:    resp.StatusCode,
			Message:   readErrorMessage(resp),
			RequestID: reqID,
		}
	}
	return resp, reqID, nil
}

func readErrorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if msg := eb.text(); msg != "" {
			return msg
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return resp.Status
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse api url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
