package featured

import (
	"context"
	"time"

	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

type featuredRepository interface {
	Create(ctx context.Context, featured *models.FeaturedAd) error
	List(ctx context.Context) ([]models.FeaturedAd, error)
	Delete(ctx context.Context, adID int64) error
}

type adFinder interface {
	FindByAdID(ctx context.Context, adID int64) (*models.Ad, error)
}

// FeaturedAdDTO is the public projection of a promoted ad snapshot.
type FeaturedAdDTO struct {
	AdID        int64     `json:"ad_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"ad_title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service exposes admin promotion and the public featured listing.
type Service interface {
	Promote(ctx context.Context, adID int64) (*FeaturedAdDTO, error)
	List(ctx context.Context) ([]FeaturedAdDTO, error)
	Demote(ctx context.Context, adID int64) error
}

// ServiceParams groups dependencies for the featured service.
type ServiceParams struct {
	FeaturedRepo featuredRepository
	AdsRepo      adFinder
}

type service struct {
	repo    featuredRepository
	adsRepo adFinder
}

// NewService builds a featured service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FeaturedRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "featured repo is required")
	}
	if params.AdsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ads repo is required")
	}
	return &service{repo: params.FeaturedRepo, adsRepo: params.AdsRepo}, nil
}

// Promote copies the accepted ad into the featured table. The snapshot does
// not track later edits to the source ad.
func (s *service) Promote(ctx context.Context, adID int64) (*FeaturedAdDTO, error) {
	if adID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ad id is required")
	}
	ad, err := s.adsRepo.FindByAdID(ctx, adID)
	if err != nil {
		if ads.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}

	snapshot := &models.FeaturedAd{
		AdID:        ad.AdID,
		UserID:      ad.UserID,
		AdTitle:     ad.AdTitle,
		Description: ad.Description,
		Price:       ad.Price,
		Location:    ad.Location,
		Images:      ad.Images,
	}
	if err := s.repo.Create(ctx, snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote ad")
	}
	dto := toDTO(*snapshot)
	return &dto, nil
}

// List returns every promoted ad for the public carousel.
func (s *service) List(ctx context.Context) ([]FeaturedAdDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured ads")
	}
	items := make([]FeaturedAdDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return items, nil
}

// Demote removes the snapshot. The source ad is untouched.
func (s *service) Demote(ctx context.Context, adID int64) error {
	if err := s.repo.Delete(ctx, adID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "featured ad not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "demote ad")
	}
	return nil
}

func toDTO(row models.FeaturedAd) FeaturedAdDTO {
	return FeaturedAdDTO{
		AdID:        row.AdID,
		UserID:      row.UserID,
		Title:       row.AdTitle,
		Description: row.Description,
		Price:       row.Price,
		Location:    row.Location,
		Images:      row.Images,
		CreatedAt:   row.CreatedAt,
	}
}
