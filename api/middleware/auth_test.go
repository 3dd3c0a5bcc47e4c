package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/My-selling-apps/PhoneBechPakistan/pkg/auth"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/auth/session"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
)

type stubSessionChecker struct {
	active bool
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active, nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "phonebech-test",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, role string) (string, string) {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(authTestConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "ahmed@example.com",
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, accessID
}

func TestAuthSeedsContext(t *testing.T) {
	token, accessID := mintToken(t, models.RoleUser)

	var gotUserID, gotRole, gotAccessID string
	handler := Auth(authTestConfig(), &stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotAccessID = AccessIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUserID == "" || gotRole != models.RoleUser || gotAccessID != accessID {
		t.Fatalf("context not seeded: user=%q role=%q access=%q", gotUserID, gotRole, gotAccessID)
	}
}

func TestAuthRejectsMissingOrRevokedSessions(t *testing.T) {
	token, _ := mintToken(t, models.RoleUser)

	handler := Auth(authTestConfig(), &stubSessionChecker{active: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session must 401, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ads/my", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header must 401, got %d", w.Code)
	}
}

func TestRequireAdminBlocksUsers(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ads", nil)
	req = req.WithContext(WithRole(req.Context(), models.RoleUser))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("user role must 403, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/ads", nil)
	req = req.WithContext(WithRole(req.Context(), models.RoleAdmin))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin role must pass, got %d", w.Code)
	}
}
