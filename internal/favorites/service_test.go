package favorites

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

type stubFavoritesRepo struct {
	added   map[int64]bool
	removed []int64
	page    FavoritesPageDTO
}

func (s *stubFavoritesRepo) Add(ctx context.Context, userID string, adID int64) error {
	if s.added == nil {
		s.added = map[int64]bool{}
	}
	s.added[adID] = true
	return nil
}

func (s *stubFavoritesRepo) Remove(ctx context.Context, userID string, adID int64) error {
	s.removed = append(s.removed, adID)
	return nil
}

func (s *stubFavoritesRepo) List(ctx context.Context, userID string, cursor string, limit int) (FavoritesPageDTO, error) {
	return s.page, nil
}

type stubAdFinder struct {
	known map[int64]*models.Ad
}

func (s *stubAdFinder) FindByAdID(ctx context.Context, adID int64) (*models.Ad, error) {
	if ad, ok := s.known[adID]; ok {
		return ad, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newFavoritesService(t *testing.T, repo *stubFavoritesRepo, finder *stubAdFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{FavoritesRepo: repo, AdsRepo: finder})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddRequiresExistingAd(t *testing.T) {
	repo := &stubFavoritesRepo{}
	finder := &stubAdFinder{known: map[int64]*models.Ad{42: {AdID: 42}}}
	svc := newFavoritesService(t, repo, finder)

	if err := svc.Add(context.Background(), "user-1", 42); err != nil {
		t.Fatalf("add existing ad: %v", err)
	}
	if !repo.added[42] {
		t.Fatalf("favorite was not persisted")
	}

	err := svc.Add(context.Background(), "user-1", 7)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown ad, got %v", err)
	}
	if repo.added[7] {
		t.Fatalf("unknown ad must not be saved")
	}
}

func TestAddRejectsMissingIdentity(t *testing.T) {
	svc := newFavoritesService(t, &stubFavoritesRepo{}, &stubAdFinder{})

	err := svc.Add(context.Background(), "", 42)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	err = svc.Add(context.Background(), "user-1", 0)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero ad id, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := &stubFavoritesRepo{}
	svc := newFavoritesService(t, repo, &stubAdFinder{})

	if err := svc.Remove(context.Background(), "user-1", 42); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(context.Background(), "user-1", 42); err != nil {
		t.Fatalf("second remove must not fail: %v", err)
	}
	if len(repo.removed) != 2 {
		t.Fatalf("expected two delete attempts, got %d", len(repo.removed))
	}
}

func TestListPassesThroughPage(t *testing.T) {
	repo := &stubFavoritesRepo{page: FavoritesPageDTO{Items: []FavoriteDTO{{}, {}}}}
	svc := newFavoritesService(t, repo, &stubAdFinder{})

	page, err := svc.List(context.Background(), "user-1", "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(page.Items))
	}

	_, err = svc.List(context.Background(), "", "", 0)
	if err == nil {
		t.Fatalf("expected unauthorized error without identity")
	}
}
