package favorites

import (
	"context"

	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

type favoritesRepository interface {
	Add(ctx context.Context, userID string, adID int64) error
	Remove(ctx context.Context, userID string, adID int64) error
	List(ctx context.Context, userID string, cursor string, limit int) (FavoritesPageDTO, error)
}

type adFinder interface {
	FindByAdID(ctx context.Context, adID int64) (*models.Ad, error)
}

// Service exposes business rules for saved ads.
type Service interface {
	Add(ctx context.Context, userID string, adID int64) error
	Remove(ctx context.Context, userID string, adID int64) error
	List(ctx context.Context, userID string, cursor string, limit int) (FavoritesPageDTO, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoritesRepo favoritesRepository
	AdsRepo       adFinder
}

type service struct {
	repo    favoritesRepository
	adsRepo adFinder
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoritesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.AdsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ads repo is required")
	}
	return &service{repo: params.FavoritesRepo, adsRepo: params.AdsRepo}, nil
}

// Add ensures the ad exists and saves it for the user. Saving the same ad
// twice is a no-op.
func (s *service) Add(ctx context.Context, userID string, adID int64) error {
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if adID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ad id is required")
	}
	if _, err := s.adsRepo.FindByAdID(ctx, adID); err != nil {
		if ads.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}
	if err := s.repo.Add(ctx, userID, adID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save favorite")
	}
	return nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, userID string, adID int64) error {
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Remove(ctx, userID, adID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// List returns the paginated saved ads for the user.
func (s *service) List(ctx context.Context, userID string, cursor string, limit int) (FavoritesPageDTO, error) {
	if userID == "" {
		return FavoritesPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.List(ctx, userID, cursor, limit)
	if err != nil {
		return FavoritesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return page, nil
}
