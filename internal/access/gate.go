// Package access gates library mutations behind shared secrets.
package access

import (
	"crypto/subtle"
	"sync"
)

// Result is the outcome of a secret check.
type Result int

const (
	Rejected Result = iota
	Authenticated
)

func (r Result) String() string {
	if r == Authenticated {
		return "authenticated"
	}
	return "rejected"
}

// Secrets holds the two trust levels. UploadSecret unlocks library
// management for the session; DeleteSecret is checked on every destructive
// action.
type Secrets struct {
	UploadSecret string
	DeleteSecret string
}

// Gate holds the session-scoped authenticated flag.
type Gate struct {
	secrets Secrets

	mu     sync.RWMutex
	authed bool
}

// NewGate builds a gate. Empty secrets never match.
func NewGate(secrets Secrets) *Gate {
	return &Gate{secrets: secrets}
}

// Attempt compares secret with the upload secret. A match authenticates the
// session; a mismatch leaves the flag untouched.
func (g *Gate) Attempt(secret string) Result {
	if !matches(g.secrets.UploadSecret, secret) {
		return Rejected
	}
	g.mu.Lock()
	g.authed = true
	g.mu.Unlock()
	return Authenticated
}

// Authenticated reports whether Attempt has succeeded this session.
func (g *Gate) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authed
}

// UploadSecret returns the secret sent with uploads once authenticated.
func (g *Gate) UploadSecret() string {
	return g.secrets.UploadSecret
}

// RequireForDestructive checks secret against the delete secret. It never
// changes the authenticated flag.
func (g *Gate) RequireForDestructive(secret string) Result {
	if matches(g.secrets.DeleteSecret, secret) {
		return Authenticated
	}
	return Rejected
}

// Reset drops the authenticated flag.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.authed = false
	g.mu.Unlock()
}

func matches(want, got string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
