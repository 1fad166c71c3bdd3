// Package auth resolves sessions to roles. Sessions are created at login,
// stored process-wide keyed by an opaque token, and removed at logout; the
// cookie only transports the (signed) token, never the role itself.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
)

// Session is the resolved identity for one logged-in client.
type Session struct {
	Username string
	Role     string
}

// Store keeps live sessions keyed by token. A sync.Map is used so lookups and
// invalidations on different tokens never contend on a single lock.
type Store struct {
	sessions sync.Map // token -> Session
}

func NewStore() *Store { return &Store{} }

// Create registers a new session and returns its token.
func (s *Store) Create(username, role string) string {
	token := newToken()
	s.sessions.Store(token, Session{Username: username, Role: role})
	return token
}

// Get resolves a token to its session.
func (s *Store) Get(token string) (Session, bool) {
	v, ok := s.sessions.Load(token)
	if !ok {
		return Session{}, false
	}
	return v.(Session), true
}

// Delete invalidates a session. Idempotent: deleting an unknown or already
// removed token is not an error.
func (s *Store) Delete(token string) {
	s.sessions.Delete(token)
}

func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for session issuance
		panic("auth: rand.Read: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// Secret returns SESSION_SECRET or default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(token string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SetSessionCookie sets a signed cookie carrying the session token.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token + "." + sign(token),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// TokenFromRequest validates the cookie signature and returns the raw token.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 2 {
		return "", false
	}
	token, sig := parts[0], parts[1]
	if !hmac.Equal([]byte(sig), []byte(sign(token))) {
		return "", false
	}
	return token, true
}

// WithSession stores the resolved session in context.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

// SessionFromContext extracts the resolved session.
func SessionFromContext(ctx context.Context) (Session, bool) {
	v := ctx.Value(sessionCtxKey)
	if v == nil {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

// Middleware resolves the request's token against the store and, when valid,
// attaches the session to the request context. Guests pass through unchanged.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := TokenFromRequest(r); ok {
			if sess, found := s.Get(token); found {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}
