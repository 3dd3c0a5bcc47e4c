package ads

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/pagination"
)

// Repository encapsulates ad persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an ads repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAccepted inserts the accepted record. Retries with the same ad and
// user identifiers are absorbed by the unique pair constraint.
func (r *Repository) CreateAccepted(ctx context.Context, ad *models.Ad) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(ad).
		Error
}

// CreateRejected inserts the rejection record with the same retry semantics.
func (r *Repository) CreateRejected(ctx context.Context, rejected *models.RejectedAd) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(rejected).
		Error
}

// FindByAdID loads one accepted ad.
func (r *Repository) FindByAdID(ctx context.Context, adID int64) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.WithContext(ctx).Where("ad_id = ?", adID).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListFilters narrows the public listing query.
type ListFilters struct {
	Brand       string
	Location    string
	Sector      string
	Condition   string
	Search      string
	Deliverable *bool
	MinPrice    string
	MaxPrice    string
}

// List returns a cursor-paginated page of accepted ads, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, cursor string, limit int) (AdsPageDTO, error) {
	return r.listPage(ctx, func(query *gorm.DB) *gorm.DB {
		return applyFilters(query, filters)
	}, cursor, limit)
}

// ListByUser returns the submitter's own ads.
func (r *Repository) ListByUser(ctx context.Context, userID string, cursor string, limit int) (AdsPageDTO, error) {
	return r.listPage(ctx, func(query *gorm.DB) *gorm.DB {
		return query.Where("user_id = ?", userID)
	}, cursor, limit)
}

func (r *Repository) listPage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, cursor string, limit int) (AdsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return AdsPageDTO{}, err
	}

	query := scope(r.db.WithContext(ctx).Model(&models.Ad{}))
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND ad_id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.AdID)
	}

	var rows []models.Ad
	if err := query.Order("created_at DESC").Order("ad_id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return AdsPageDTO{}, err
	}

	resultRows := rows
	nextCursor := ""
	if len(rows) > normalizedLimit {
		resultRows = rows[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			AdID:      last.AdID,
		})
	}

	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&models.Ad{})).Count(&total).Error; err != nil {
		return AdsPageDTO{}, err
	}

	items := make([]AdDTO, 0, len(resultRows))
	for _, row := range resultRows {
		items = append(items, toDTO(row))
	}

	return AdsPageDTO{
		Items: items,
		Pagination: PaginationDTO{
			Total:   int(total),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

func applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if brand := strings.TrimSpace(filters.Brand); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if location := strings.TrimSpace(filters.Location); location != "" {
		query = query.Where("location = ?", location)
	}
	if sector := strings.TrimSpace(filters.Sector); sector != "" {
		query = query.Where("sector = ?", sector)
	}
	if condition := strings.TrimSpace(filters.Condition); condition != "" {
		query = query.Where("condition = ?", condition)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("ad_title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filters.Deliverable != nil {
		query = query.Where("is_deliverable = ?", *filters.Deliverable)
	}
	if minPrice := strings.TrimSpace(filters.MinPrice); minPrice != "" {
		query = query.Where("price::numeric >= ?::numeric", minPrice)
	}
	if maxPrice := strings.TrimSpace(filters.MaxPrice); maxPrice != "" {
		query = query.Where("price::numeric <= ?::numeric", maxPrice)
	}
	return query
}

// UpdateInput carries the submitter-editable fields. Nil pointers leave the
// column untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *string
	Location    *string
	Images      []string
	Sold        *bool
}

// Update writes the provided fields on the submitter's ad and returns the row.
func (r *Repository) Update(ctx context.Context, adID int64, userID string, input UpdateInput) (*models.Ad, error) {
	updates := map[string]any{}
	if input.Title != nil {
		updates["ad_title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Images != nil {
		updates["images"] = dbtypes.ImageList(input.Images)
	}
	if input.Sold != nil {
		updates["sold"] = *input.Sold
	}
	if len(updates) == 0 {
		return nil, gorm.ErrEmptySlice
	}

	result := r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("ad_id = ? AND user_id = ?", adID, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByAdID(ctx, adID)
}

// Delete removes the accepted ad and returns the deleted row so callers can
// schedule storage cleanup. An empty userID skips the ownership check.
func (r *Repository) Delete(ctx context.Context, adID int64, userID string) (*models.Ad, error) {
	var ad models.Ad
	query := r.db.WithContext(ctx).Where("ad_id = ?", adID)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&ad).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("ad_id = ? AND user_id = ?", ad.AdID, ad.UserID).
		Delete(&models.Ad{}).
		Error; err != nil {
		return nil, err
	}

	return &ad, nil
}

// DeleteRejected removes a rejection record and returns it for cleanup.
func (r *Repository) DeleteRejected(ctx context.Context, adID int64) (*models.RejectedAd, error) {
	var rejected models.RejectedAd
	if err := r.db.WithContext(ctx).Where("ad_id = ?", adID).First(&rejected).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("ad_id = ?", adID).Delete(&models.RejectedAd{}).Error; err != nil {
		return nil, err
	}
	return &rejected, nil
}

// ListRejected returns rejection records, newest first, optionally scoped to a user.
func (r *Repository) ListRejected(ctx context.Context, userID string, limit int) ([]models.RejectedAd, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	query := r.db.WithContext(ctx).Model(&models.RejectedAd{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var rows []models.RejectedAd
	if err := query.Order("created_at DESC").Limit(normalizedLimit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IsNotFound reports whether err is the repo's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func toDTO(ad models.Ad) AdDTO {
	sold := false
	if ad.Sold != nil {
		sold = *ad.Sold
	}
	return AdDTO{
		AdID:          ad.AdID,
		UserID:        ad.UserID,
		Brand:         ad.Brand,
		Location:      ad.Location,
		Sector:        ad.Sector,
		Area:          ad.Area,
		Title:         ad.AdTitle,
		Description:   ad.Description,
		Price:         ad.Price,
		Name:          ad.Name,
		Phone:         ad.Phone,
		Images:        ad.Images,
		IsDeliverable: ad.IsDeliverable,
		Condition:     ad.Condition,
		Sold:          sold,
		CreatedAt:     ad.CreatedAt,
	}
}
