package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/contact"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/favorites"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/featured"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/moderation"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/registration"
	pkgauth "github.com/My-selling-apps/PhoneBechPakistan/pkg/auth"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
)

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAdsService struct{}

func (stubAdsService) Submit(ctx context.Context, draft ads.Draft) (*ads.Outcome, error) {
	return &ads.Outcome{AdID: 1, Accepted: true, Message: ads.MessagePosted}, nil
}

func (stubAdsService) Get(ctx context.Context, adID int64) (*ads.AdDTO, error) {
	return &ads.AdDTO{AdID: adID}, nil
}

func (stubAdsService) List(ctx context.Context, filters ads.ListFilters, cursor string, limit int) (ads.AdsPageDTO, error) {
	return ads.AdsPageDTO{Items: []ads.AdDTO{}}, nil
}

func (stubAdsService) MyAds(ctx context.Context, userID string, cursor string, limit int) (ads.AdsPageDTO, error) {
	return ads.AdsPageDTO{Items: []ads.AdDTO{}}, nil
}

func (stubAdsService) Update(ctx context.Context, adID int64, userID string, input ads.UpdateInput) (*ads.AdDTO, error) {
	return &ads.AdDTO{AdID: adID}, nil
}

func (stubAdsService) Delete(ctx context.Context, adID int64, userID string, asAdmin bool) error {
	return nil
}

type stubFavoritesService struct{}

func (stubFavoritesService) Add(ctx context.Context, userID string, adID int64) error {
	return nil
}

func (stubFavoritesService) Remove(ctx context.Context, userID string, adID int64) error {
	return nil
}

func (stubFavoritesService) List(ctx context.Context, userID string, cursor string, limit int) (favorites.FavoritesPageDTO, error) {
	return favorites.FavoritesPageDTO{Items: []favorites.FavoriteDTO{}}, nil
}

type stubFeaturedService struct{}

func (stubFeaturedService) Promote(ctx context.Context, adID int64) (*featured.FeaturedAdDTO, error) {
	return &featured.FeaturedAdDTO{AdID: adID}, nil
}

func (stubFeaturedService) List(ctx context.Context) ([]featured.FeaturedAdDTO, error) {
	return []featured.FeaturedAdDTO{}, nil
}

func (stubFeaturedService) Demote(ctx context.Context, adID int64) error {
	return nil
}

type stubModerationService struct{}

func (stubModerationService) ListAccepted(ctx context.Context, cursor string, limit int) (ads.AdsPageDTO, error) {
	return ads.AdsPageDTO{Items: []ads.AdDTO{}}, nil
}

func (stubModerationService) ListRejected(ctx context.Context, userID string, limit int) ([]moderation.RejectedAdDTO, error) {
	return []moderation.RejectedAdDTO{}, nil
}

func (stubModerationService) DeleteAccepted(ctx context.Context, adID int64) error {
	return nil
}

func (stubModerationService) DeleteRejected(ctx context.Context, adID int64) error {
	return nil
}

type stubContactService struct{}

func (stubContactService) Submit(ctx context.Context, input contact.Input) error {
	return nil
}

func (stubContactService) List(ctx context.Context, limit int) ([]contact.MessageDTO, error) {
	return []contact.MessageDTO{}, nil
}

type stubRegistrationService struct{}

func (stubRegistrationService) StartRegistration(ctx context.Context, input registration.SignupInput) error {
	return nil
}

func (stubRegistrationService) VerifyRegistration(ctx context.Context, email, code string) error {
	return nil
}

func (stubRegistrationService) Login(ctx context.Context, email, password string) (*registration.TokenPairDTO, error) {
	return &registration.TokenPairDTO{}, nil
}

func (stubRegistrationService) Refresh(ctx context.Context, accessToken, refreshToken string) (*registration.TokenPairDTO, error) {
	return &registration.TokenPairDTO{}, nil
}

func (stubRegistrationService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubRegistrationService) StartPasswordReset(ctx context.Context, email string) error {
	return nil
}

func (stubRegistrationService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "phonebech-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:       cfg,
		Logger:       logger.New(logger.Options{ServiceName: "router-test", Level: logger.ParseLevel("error")}),
		Sessions:     stubSessions{},
		Ads:          stubAdsService{},
		Favorites:    stubFavoritesService{},
		Featured:     stubFeaturedService{},
		Moderation:   stubModerationService{},
		Contact:      stubContactService{},
		Registration: stubRegistrationService{},
	})
}

func mintToken(t *testing.T, cfg *config.Config, role string) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@test.local",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	for _, path := range []string{"/health/live", "/api/v1/ads", "/api/v1/ads/1722515400123", "/api/v1/featured"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	paths := map[string]string{
		http.MethodGet:    "/api/v1/my-ads",
		http.MethodDelete: "/api/v1/ads/1722515400123",
		http.MethodPost:   "/api/v1/favorites/1722515400123",
	}
	for method, path := range paths {
		req := httptest.NewRequest(method, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", method, path, rec.Code)
		}
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ads", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/ads", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestAuthenticatedUserCanReachOwnResources(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/my-ads", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, models.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d (%s)", rec.Code, rec.Body.String())
	}
}
