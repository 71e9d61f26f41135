package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/domain/member"
)

func testAuth() *JWTAuth {
	return NewJWTAuth(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
}

func okHandler(captured *User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			user, _ := UserFromContext(r.Context())
			*captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAcceptsIssuedToken(t *testing.T) {
	auth := testAuth()

	token, err := auth.IssueToken(member.Member{ID: "mem-1", LoginName: "anag", Role: member.RoleMember})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	var user User
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler(&user)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if user.ID != "mem-1" || user.LoginName != "anag" || user.Role != member.RoleMember {
		t.Fatalf("unexpected user on context: %+v", user)
	}
}

func TestMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	auth := testAuth()

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			auth.Middleware(okHandler(nil)).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestMiddlewareRejectsTokenFromOtherSecret(t *testing.T) {
	other := NewJWTAuth(config.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour})
	token, err := other.IssueToken(member.Member{ID: "mem-1"})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	auth := testAuth()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler(nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	auth := testAuth()
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := auth.IssueToken(member.Member{ID: "mem-1"})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	auth.now = time.Now
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler(nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	guarded := RequireRole(member.RoleBoard)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), User{ID: "mem-1", Role: member.RoleMember}))
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("socio reaching a board route: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), User{ID: "mem-2", Role: member.RoleBoard}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("board user refused: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous user: expected 401, got %d", rec.Code)
	}
}
