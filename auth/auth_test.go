package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	token := s.Create("main", "MAINT")
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	sess, ok := s.Get(token)
	if !ok {
		t.Fatal("expected session to resolve")
	}
	if sess.Username != "main" || sess.Role != "MAINT" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	s.Delete(token)
	if _, ok := s.Get(token); ok {
		t.Fatal("expected session gone after delete")
	}
	// Idempotent: deleting again or deleting garbage is fine.
	s.Delete(token)
	s.Delete("no-such-token")
}

func TestTokensAreUnique(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := s.Create("u", "LOG")
		if seen[tok] {
			t.Fatalf("duplicate token issued: %s", tok)
		}
		seen[tok] = true
	}
}

func TestCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookie(w, "sometoken")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	token, ok := TokenFromRequest(req)
	if !ok {
		t.Fatal("expected valid cookie to parse")
	}
	if token != "sometoken" {
		t.Fatalf("unexpected token: %s", token)
	}
}

func TestCookieTamperRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "sometoken.bogussignature"})
	if _, ok := TokenFromRequest(req); ok {
		t.Fatal("expected tampered cookie to be rejected")
	}
}

func TestMiddlewareAttachesSession(t *testing.T) {
	s := NewStore()
	token := s.Create("log", "LOG")

	var got Session
	var found bool
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = SessionFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	SetSessionCookie(w, token)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !found {
		t.Fatal("expected session in context")
	}
	if got.Role != "LOG" {
		t.Fatalf("unexpected role: %s", got.Role)
	}

	// Guest request passes through with no session.
	found = false
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if found {
		t.Fatal("expected no session for guest")
	}
}
