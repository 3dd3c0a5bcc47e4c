package moderation

import (
	"context"
	"time"

	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	pubsubpkg "github.com/My-selling-apps/PhoneBechPakistan/pkg/pubsub"
)

type adsService interface {
	List(ctx context.Context, filters ads.ListFilters, cursor string, limit int) (ads.AdsPageDTO, error)
	Delete(ctx context.Context, adID int64, userID string, asAdmin bool) error
}

type rejectedRepository interface {
	ListRejected(ctx context.Context, userID string, limit int) ([]models.RejectedAd, error)
	DeleteRejected(ctx context.Context, adID int64) (*models.RejectedAd, error)
}

type deletedEventPublisher interface {
	PublishAdDeleted(ctx context.Context, event pubsubpkg.AdDeletedEvent) error
}

// RejectedAdDTO is the admin projection of a screened-out submission.
type RejectedAdDTO struct {
	AdID            int64     `json:"ad_id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"ad_title"`
	Brand           string    `json:"brand"`
	Price           string    `json:"price"`
	Images          []string  `json:"images"`
	RejectionReason string    `json:"rejection_reason"`
	CreatedAt       time.Time `json:"created_at"`
}

// Service exposes the admin moderation surface over both ad tables.
type Service interface {
	ListAccepted(ctx context.Context, cursor string, limit int) (ads.AdsPageDTO, error)
	ListRejected(ctx context.Context, userID string, limit int) ([]RejectedAdDTO, error)
	DeleteAccepted(ctx context.Context, adID int64) error
	DeleteRejected(ctx context.Context, adID int64) error
}

// ServiceParams groups dependencies for the moderation service.
type ServiceParams struct {
	Ads       adsService
	Rejected  rejectedRepository
	Publisher deletedEventPublisher
	Logger    *logger.Logger
}

type service struct {
	ads       adsService
	rejected  rejectedRepository
	publisher deletedEventPublisher
	logg      *logger.Logger
}

// NewService builds a moderation service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Ads == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ads service is required")
	}
	if params.Rejected == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejected repo is required")
	}
	return &service{
		ads:       params.Ads,
		rejected:  params.Rejected,
		publisher: params.Publisher,
		logg:      params.Logger,
	}, nil
}

// ListAccepted pages through every live listing regardless of owner.
func (s *service) ListAccepted(ctx context.Context, cursor string, limit int) (ads.AdsPageDTO, error) {
	return s.ads.List(ctx, ads.ListFilters{}, cursor, limit)
}

// ListRejected returns screened-out submissions, optionally for one user.
func (s *service) ListRejected(ctx context.Context, userID string, limit int) ([]RejectedAdDTO, error) {
	rows, err := s.rejected.ListRejected(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rejected ads")
	}
	items := make([]RejectedAdDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, RejectedAdDTO{
			AdID:            row.AdID,
			UserID:          row.UserID,
			Title:           row.AdTitle,
			Brand:           row.Brand,
			Price:           row.Price,
			Images:          row.Images,
			RejectionReason: row.RejectionReason,
			CreatedAt:       row.CreatedAt,
		})
	}
	return items, nil
}

// DeleteAccepted removes a live listing without an ownership check.
func (s *service) DeleteAccepted(ctx context.Context, adID int64) error {
	return s.ads.Delete(ctx, adID, "", true)
}

// DeleteRejected removes a rejected record and queues its blobs for cleanup.
func (s *service) DeleteRejected(ctx context.Context, adID int64) error {
	rejected, err := s.rejected.DeleteRejected(ctx, adID)
	if err != nil {
		if ads.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "rejected ad not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rejected ad")
	}

	if s.publisher != nil && len(rejected.Images) > 0 {
		event := pubsubpkg.AdDeletedEvent{
			AdID:      rejected.AdID,
			UserID:    rejected.UserID,
			ImageURLs: rejected.Images,
			DeletedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishAdDeleted(ctx, event); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithAdID(ctx, rejected.AdID), "publish cleanup event failed")
		}
	}
	return nil
}
