package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/equilog/equilog-backend/pkg/config"
)

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected request id req-1 got %q", got)
	}
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "bad id\nforged=1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	got := resp.Header().Get(requestIDHeader)
	if got == "" || got == "bad id\nforged=1" {
		t.Fatalf("expected a fresh request id, got %q", got)
	}
	if seen != got {
		t.Fatalf("context id %q does not match header %q", seen, got)
	}
}

func TestRecovererWritesFailureEnvelope(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"isSuccess":false`) {
		t.Fatalf("expected failure envelope, got %s", resp.Body.String())
	}
}

func TestRecovererRepanicsOnAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil).Context(), Principal{UserID: 3, AccessID: "sess"})
	if id, ok := UserIDFromContext(ctx); !ok || id != 3 {
		t.Fatalf("expected user 3 got %d", id)
	}
	if got := AccessIDFromContext(ctx); got != "sess" {
		t.Fatalf("expected access id sess got %q", got)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowedOrigins: []string{"https://app.equilog.test"}})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/stables", nil)
	req.Header.Set("Origin", "https://app.equilog.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://app.equilog.test" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestUserIDFromContextRejectsMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Fatal("expected no user id")
	}
	if id, ok := UserIDFromContext(WithUserID(req.Context(), 9)); !ok || id != 9 {
		t.Fatalf("expected user 9 got %d", id)
	}
}
