package featured

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
)

// Repository encapsulates featured-ad persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a featured repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores the promoted snapshot. Promoting an already featured ad is
// a no-op.
func (r *Repository) Create(ctx context.Context, featured *models.FeaturedAd) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}},
			DoNothing: true,
		}).
		Create(featured).
		Error
}

// List returns all featured ads, newest first.
func (r *Repository) List(ctx context.Context) ([]models.FeaturedAd, error) {
	var rows []models.FeaturedAd
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByAdID loads the snapshot for one promoted ad.
func (r *Repository) FindByAdID(ctx context.Context, adID int64) (*models.FeaturedAd, error) {
	var row models.FeaturedAd
	if err := r.db.WithContext(ctx).
		Where("ad_id = ?", adID).
		First(&row).
		Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the snapshot and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, adID int64) error {
	result := r.db.WithContext(ctx).
		Where("ad_id = ?", adID).
		Delete(&models.FeaturedAd{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
