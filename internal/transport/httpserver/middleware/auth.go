package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/domain/member"
	"github.com/golang-jwt/jwt/v5"
)

type JWTAuth struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

type contextKey int

const userKey contextKey = iota

// User is the authenticated identity attached to the request context.
type User struct {
	ID        string
	LoginName string
	Role      string
}

type claims struct {
	LoginName string `json:"login_name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func NewJWTAuth(cfg config.AuthConfig) *JWTAuth {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: ttl,
		now:      time.Now,
	}
}

// IssueToken signs a token for a freshly authenticated member.
func (a *JWTAuth) IssueToken(m member.Member) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		LoginName: m.LoginName,
		Role:      m.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   m.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	})
	return token.SignedString(a.secret)
}

func (a *JWTAuth) parseToken(raw string) (User, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return User{}, errors.New("invalid token")
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return User{}, errors.New("invalid claims")
	}
	return User{ID: c.Subject, LoginName: c.LoginName, Role: c.Role}, nil
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.secret) == 0 {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		user, err := a.parseToken(token)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole guards a route group with an explicit role check. It must run
// after Middleware so the user is already on the context.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if user.Role != role {
				writeError(w, http.StatusForbidden, "forbidden", "acceso restringido a la directiva")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
