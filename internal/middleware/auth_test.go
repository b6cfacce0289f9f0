// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdfclan/portal/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s *stubVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (*AccessTokenClaims, error) {
	return s.claims, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorMissingToken(t *testing.T) {
	mw := Authenticator(&stubVerifier{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)

	mw(okHandler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	mw := Authenticator(&stubVerifier{err: core.ErrTokenExpired})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer expired-token")

	mw(okHandler()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorPopulatesContext(t *testing.T) {
	claims := &AccessTokenClaims{
		UserID:   "user-1",
		Role:     "MEMBER",
		Nickname: "shade",
	}
	mw := Authenticator(&stubVerifier{claims: claims})

	var gotID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotRole = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	mw(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", gotID)
	require.Equal(t, "MEMBER", gotRole)
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{"LEADER", http.StatusOK},
		{"ELITE", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"MEMBER", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/logs", nil)
			if tt.role != "" {
				ctx := context.WithValue(req.Context(), UserRoleKey, tt.role)
				req = req.WithContext(ctx)
			}

			RequireStaff(okHandler()).ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequirePasswordChanged(t *testing.T) {
	mw := RequirePasswordChanged("/v1/auth")

	withClaims := func(path string, mustChange bool) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		ctx := context.WithValue(req.Context(), ClaimsKey, &AccessTokenClaims{
			UserID:             "user-1",
			MustChangePassword: mustChange,
		})
		return req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, withClaims("/v1/goals", true))
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, withClaims("/v1/auth/session/change-password", true))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, withClaims("/v1/goals", false))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, ExtractToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	require.Equal(t, "abc123", ExtractToken(req))

	req.Header.Set("Authorization", "bearer abc123")
	require.Equal(t, "abc123", ExtractToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	require.Empty(t, ExtractToken(req))
}
