package ads

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/classifier"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/metrics"
	pubsubpkg "github.com/My-selling-apps/PhoneBechPakistan/pkg/pubsub"
)

type classifierService interface {
	Classify(ctx context.Context, filename, contentType string, image io.Reader) (*classifier.Prediction, error)
}

type storageUploader interface {
	ObjectKey(submittedAt time.Time, filename string) string
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type adsRepository interface {
	CreateAccepted(ctx context.Context, ad *models.Ad) error
	CreateRejected(ctx context.Context, rejected *models.RejectedAd) error
	FindByAdID(ctx context.Context, adID int64) (*models.Ad, error)
	List(ctx context.Context, filters ListFilters, cursor string, limit int) (AdsPageDTO, error)
	ListByUser(ctx context.Context, userID string, cursor string, limit int) (AdsPageDTO, error)
	Update(ctx context.Context, adID int64, userID string, input UpdateInput) (*models.Ad, error)
	Delete(ctx context.Context, adID int64, userID string) (*models.Ad, error)
}

type deletedEventPublisher interface {
	PublishAdDeleted(ctx context.Context, event pubsubpkg.AdDeletedEvent) error
}

// Service exposes the ad submission pipeline and listing operations.
type Service interface {
	Submit(ctx context.Context, draft Draft) (*Outcome, error)
	Get(ctx context.Context, adID int64) (*AdDTO, error)
	List(ctx context.Context, filters ListFilters, cursor string, limit int) (AdsPageDTO, error)
	MyAds(ctx context.Context, userID string, cursor string, limit int) (AdsPageDTO, error)
	Update(ctx context.Context, adID int64, userID string, input UpdateInput) (*AdDTO, error)
	Delete(ctx context.Context, adID int64, userID string, asAdmin bool) error
}

// ServiceParams groups dependencies for the ads service.
type ServiceParams struct {
	Repo       adsRepository
	Classifier classifierService
	Storage    storageUploader
	Publisher  deletedEventPublisher
	Policy     Policy
	AdsConfig  config.AdsConfig
	Metrics    *metrics.PipelineMetrics
	Logger     *logger.Logger
}

type service struct {
	repo       adsRepository
	classifier classifierService
	storage    storageUploader
	publisher  deletedEventPublisher
	policy     Policy
	cfg        config.AdsConfig
	metrics    *metrics.PipelineMetrics
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds the ads service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ads repo is required")
	}
	if params.Classifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "classifier client is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage client is required")
	}
	return &service{
		repo:       params.Repo,
		classifier: params.Classifier,
		storage:    params.Storage,
		publisher:  params.Publisher,
		policy:     params.Policy,
		cfg:        params.AdsConfig,
		metrics:    params.Metrics,
		logg:       params.Logger,
		now:        time.Now,
	}, nil
}

// Submit runs the full pipeline: validate, fan out classify-then-upload per
// image, join, partition, persist. Any single image failure aborts the batch
// before anything is written.
func (s *service) Submit(ctx context.Context, draft Draft) (*Outcome, error) {
	if err := draft.Validate(s.cfg); err != nil {
		return nil, err
	}

	submittedAt := s.now()
	adID := draft.AdID
	if adID == 0 {
		adID = submittedAt.UnixMilli()
	}

	screened := make([]ScreenedImage, len(draft.Images))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, image := range draft.Images {
		group.Go(func() error {
			start := s.now()
			prediction, err := s.classifier.Classify(groupCtx, image.Filename, image.ContentType, bytes.NewReader(image.Data))
			if err != nil {
				s.metrics.ObserveClassify("error", s.now().Sub(start))
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "classify image")
			}
			s.metrics.ObserveClassify("ok", s.now().Sub(start))

			key := s.storage.ObjectKey(submittedAt, image.Filename)
			publicURL, err := s.storage.Upload(groupCtx, key, image.ContentType, bytes.NewReader(image.Data))
			if err != nil {
				s.metrics.IncUploadFailure()
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
			}

			screened[i] = ScreenedImage{
				URL:           publicURL,
				Label:         prediction.Label,
				Confidence:    prediction.Confidence,
				RawConfidence: prediction.RawConfidence,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		s.metrics.IncAdSubmitted("failed")
		return nil, err
	}

	valid, invalid := s.policy.Partition(screened)
	for range valid {
		s.metrics.IncImageScreened("valid")
	}
	for range invalid {
		s.metrics.IncImageScreened("invalid")
	}

	outcome := &Outcome{AdID: adID}

	if len(valid) > 0 {
		accepted := s.buildAccepted(draft, adID, imageURLs(valid))
		if err := s.repo.CreateAccepted(ctx, accepted); err != nil {
			s.metrics.IncAdSubmitted("failed")
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist accepted ad")
		}
		outcome.Accepted = true
		outcome.ValidImageURLs = imageURLs(valid)
	}

	if len(invalid) > 0 {
		rejected := s.buildRejected(draft, adID, imageURLs(invalid), JoinReasons(invalid))
		if err := s.repo.CreateRejected(ctx, rejected); err != nil {
			s.metrics.IncAdSubmitted("failed")
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist rejected ad")
		}
		outcome.Rejected = true
		outcome.InvalidImageURLs = imageURLs(invalid)
		outcome.RejectionReason = JoinReasons(invalid)
	}

	if outcome.Accepted {
		outcome.Message = MessagePosted
		s.metrics.IncAdSubmitted("accepted")
	} else {
		outcome.Message = MessageRejected
		s.metrics.IncAdSubmitted("rejected")
	}

	if s.logg != nil {
		ctx = s.logg.WithAdID(ctx, adID)
		ctx = s.logg.WithFields(ctx, map[string]any{
			"valid_images":   len(valid),
			"invalid_images": len(invalid),
		})
		s.logg.Info(ctx, "ad submission processed")
	}

	return outcome, nil
}

func (s *service) buildAccepted(draft Draft, adID int64, urls []string) *models.Ad {
	sold := false
	return &models.Ad{
		AdID:          adID,
		UserID:        draft.UserID,
		Brand:         draft.Brand,
		Location:      draft.Location,
		Sector:        draft.Sector,
		Area:          draft.Area,
		AdTitle:       draft.Title,
		Description:   draft.Description,
		Price:         draft.Price,
		Name:          draft.Name,
		Phone:         draft.Phone,
		Images:        dbtypes.ImageList(urls),
		IsDeliverable: draft.IsDeliverable,
		Condition:     draft.Condition,
		Sold:          &sold,
	}
}

func (s *service) buildRejected(draft Draft, adID int64, urls []string, reason string) *models.RejectedAd {
	return &models.RejectedAd{
		AdID:            adID,
		UserID:          draft.UserID,
		Brand:           draft.Brand,
		Location:        draft.Location,
		Sector:          draft.Sector,
		Area:            draft.Area,
		AdTitle:         draft.Title,
		Description:     draft.Description,
		Price:           draft.Price,
		Name:            draft.Name,
		Phone:           draft.Phone,
		Images:          dbtypes.ImageList(urls),
		IsDeliverable:   draft.IsDeliverable,
		Condition:       draft.Condition,
		RejectionReason: reason,
	}
}

// Get loads one accepted ad.
func (s *service) Get(ctx context.Context, adID int64) (*AdDTO, error) {
	ad, err := s.repo.FindByAdID(ctx, adID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}
	dto := toDTO(*ad)
	return &dto, nil
}

// List returns the public listing page.
func (s *service) List(ctx context.Context, filters ListFilters, cursor string, limit int) (AdsPageDTO, error) {
	if limit <= 0 {
		limit = s.cfg.ListingPerPage
	}
	page, err := s.repo.List(ctx, filters, cursor, limit)
	if err != nil {
		return AdsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ads")
	}
	return page, nil
}

// MyAds returns the submitter's own listings.
func (s *service) MyAds(ctx context.Context, userID string, cursor string, limit int) (AdsPageDTO, error) {
	if userID == "" {
		return AdsPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		return AdsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user ads")
	}
	return page, nil
}

// Update edits the submitter-owned ad.
func (s *service) Update(ctx context.Context, adID int64, userID string, input UpdateInput) (*AdDTO, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*input.Price))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be numeric")
		}
		if !price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
	}
	ad, err := s.repo.Update(ctx, adID, userID, input)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ad")
	}
	dto := toDTO(*ad)
	return &dto, nil
}

// Delete removes the ad and emits a cleanup event for its stored images.
// Admins may delete any ad; submitters only their own.
func (s *service) Delete(ctx context.Context, adID int64, userID string, asAdmin bool) error {
	owner := userID
	if asAdmin {
		owner = ""
	}
	if !asAdmin && userID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	ad, err := s.repo.Delete(ctx, adID, owner)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "ad not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ad")
	}

	if s.publisher != nil && len(ad.Images) > 0 {
		event := pubsubpkg.AdDeletedEvent{
			AdID:      ad.AdID,
			UserID:    ad.UserID,
			ImageURLs: ad.Images,
			DeletedAt: s.now(),
		}
		if err := s.publisher.PublishAdDeleted(ctx, event); err != nil && s.logg != nil {
			// The row is already gone; blob cleanup is best effort.
			errCtx := s.logg.WithAdID(ctx, ad.AdID)
			s.logg.Warn(errCtx, "failed to publish ad deleted event")
		}
	}

	return nil
}
