// Package learnapi provides an HTTP client for the learnai library backend.
//
// # Overview
//
// The backend stores uploaded PDF books and generates quiz questions and
// articles from them. This package is the only place that knows its wire
// format; everything above it works with the typed values in types.go.
//
// # Endpoints
//
//	GET  /books                    list books in server order
//	POST /upload                   multipart: file (PDF), password
//	POST /delete-all               {"password"}
//	POST /delete-selection         {"book_ids", "password"}
//	POST /ask                      {"book_id"} -> {"question", "options", "answer", "source_page_number"}
//	POST /article                  {"book_id", "topic"} -> {"content"}
//	GET  /books/{id}/pages/{n}     PNG rendering of page n (1-based)
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Carry a fresh X-Request-Id (uuid) so client and server logs can be joined
//   - Include User-Agent: learnai/0.1
//   - Are never retried
//
// The client sets no timeout of its own unless one is configured. Article
// generation can legitimately take tens of seconds.
//
// # Error Handling
//
// Every failure is a *TransportError carrying the operation name, the HTTP
// status (zero for network failures) and the server's message. FastAPI error
// bodies ({"detail": "..."}) are unpacked so the message reads like the server
// wrote it:
//
//	upload book: status 401: Invalid password
//	ask question: status 404: Book content not found
//	list books: execute request: dial tcp 127.0.0.1:8000: connect: connection refused
//
// Use IsUnauthorized to detect a rejected secret.
package learnapi
