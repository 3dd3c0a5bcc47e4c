package featured

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

type stubFeaturedRepo struct {
	created []*models.FeaturedAd
	rows    []models.FeaturedAd
	deleted []int64
	missing bool
}

func (s *stubFeaturedRepo) Create(ctx context.Context, featured *models.FeaturedAd) error {
	s.created = append(s.created, featured)
	return nil
}

func (s *stubFeaturedRepo) List(ctx context.Context) ([]models.FeaturedAd, error) {
	return s.rows, nil
}

func (s *stubFeaturedRepo) Delete(ctx context.Context, adID int64) error {
	if s.missing {
		return gorm.ErrRecordNotFound
	}
	s.deleted = append(s.deleted, adID)
	return nil
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

func newFeaturedService(t *testing.T, repo *stubFeaturedRepo, finder *stubAdFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{FeaturedRepo: repo, AdsRepo: finder})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestPromoteSnapshotsTheAd(t *testing.T) {
	repo := &stubFeaturedRepo{}
	finder := &stubAdFinder{known: map[int64]*models.Ad{42: {
		AdID:        42,
		UserID:      "user-1",
		AdTitle:     "Galaxy S21",
		Description: "Lightly used",
		Price:       "85000",
		Location:    "Islamabad",
		Images:      dbtypes.ImageList{"https://cdn.example.com/a.jpg"},
	}}}
	svc := newFeaturedService(t, repo, finder)

	dto, err := svc.Promote(context.Background(), 42)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if dto.Title != "Galaxy S21" || dto.Price != "85000" {
		t.Fatalf("snapshot did not copy the ad fields, got %+v", dto)
	}
	if len(repo.created) != 1 || repo.created[0].AdID != 42 {
		t.Fatalf("snapshot was not persisted")
	}
}

func TestPromoteUnknownAdFails(t *testing.T) {
	svc := newFeaturedService(t, &stubFeaturedRepo{}, &stubAdFinder{})

	_, err := svc.Promote(context.Background(), 7)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDemoteMissingSnapshotFails(t *testing.T) {
	svc := newFeaturedService(t, &stubFeaturedRepo{missing: true}, &stubAdFinder{})

	err := svc.Demote(context.Background(), 42)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMapsRows(t *testing.T) {
	repo := &stubFeaturedRepo{rows: []models.FeaturedAd{
		{AdID: 1, AdTitle: "One"},
		{AdID: 2, AdTitle: "Two"},
	}}
	svc := newFeaturedService(t, repo, &stubAdFinder{})

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].AdID != 1 || items[1].Title != "Two" {
		t.Fatalf("unexpected items %+v", items)
	}
}
