package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authcore "github.com/hubforge/authcore"
	"github.com/hubforge/authcore/revocation"
)

func newTestEngine(t *testing.T) (*authcore.Engine, *revocation.MemoryStore) {
	t.Helper()

	store := revocation.NewMemoryStore()
	engine, err := authcore.New().WithRevocationStore(store).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	return engine, store
}

func issueAccessToken(t *testing.T, engine *authcore.Engine, subject, role string) string {
	t.Helper()

	pair, err := engine.IssueTokens(context.Background(), subject, subject+"@example.com", role)
	if err != nil {
		t.Fatalf("IssueTokens: %v", err)
	}
	return pair.AccessToken
}

func TestGuard(t *testing.T) {
	engine, _ := newTestEngine(t)
	token := issueAccessToken(t, engine, "user-1", authcore.RoleUser)

	var seen *authcore.Identity
	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No header.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header status = %d, want 401", rec.Code)
	}

	// Wrong scheme.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme status = %d, want 401", rec.Code)
	}

	// Valid token.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.Subject != "user-1" {
		t.Fatalf("identity in context = %+v", seen)
	}
}

func TestGuardRevokedToken(t *testing.T) {
	engine, _ := newTestEngine(t)
	token := issueAccessToken(t, engine, "user-1", authcore.RoleUser)

	if err := engine.RevokeToken(context.Background(), token); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with revoked token")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	engine, _ := newTestEngine(t)
	userToken := issueAccessToken(t, engine, "user-1", authcore.RoleUser)
	adminToken := issueAccessToken(t, engine, "admin-1", authcore.RoleAdmin)

	handler := RequireRole(engine, authcore.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// User hitting an admin route.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route status = %d, want 403", rec.Code)
	}

	// Admin passes.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin on admin route status = %d, want 200", rec.Code)
	}

	// Missing token is 401 before the role check runs.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}
}

func TestOptional(t *testing.T) {
	engine, _ := newTestEngine(t)
	token := issueAccessToken(t, engine, "user-1", authcore.RoleUser)

	var seen *authcore.Identity
	var found bool
	handler := Optional(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, found = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Anonymous request passes with no identity.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want 200", rec.Code)
	}
	if found {
		t.Fatalf("identity present on anonymous request: %+v", seen)
	}

	// Garbage token also passes, still anonymous.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || found {
		t.Fatalf("garbage token status = %d, found = %v", rec.Code, found)
	}

	// Valid token decorates the context.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", rec.Code)
	}
	if !found || seen == nil || seen.Subject != "user-1" {
		t.Fatalf("identity = %+v, found = %v", seen, found)
	}
}
