package favorites

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db/models"
	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/pagination"
)

// Repository encapsulates saved-ad persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID string, adID int64) error {
	if userID == "" || adID == 0 {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO user_fav_ads (user_id, ad_id) VALUES (?, ?) ON CONFLICT (user_id, ad_id) DO NOTHING`, userID, adID).
		Error
}

// Remove deletes the favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID string, adID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND ad_id = ?", userID, adID).
		Delete(&models.Favorite{}).
		Error
}

// List returns a paginated page of the user's saved ads, newest first. Rows
// whose underlying ad was deleted by moderation are skipped by the join.
func (r *Repository) List(ctx context.Context, userID string, cursor string, limit int) (FavoritesPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return FavoritesPageDTO{}, err
	}

	selectColumns := []string{
		"f.id AS favorite_id",
		"f.created_at AS favorited_at",
		"a.ad_id",
		"a.user_id",
		"a.brand",
		"a.location",
		"a.sector",
		"a.area",
		"a.ad_title",
		"a.description",
		"a.price",
		"a.name",
		"a.phone",
		"a.images",
		"a.is_deliverable",
		"a.condition",
		"a.sold",
		"a.created_at AS ad_created_at",
	}

	query := r.db.WithContext(ctx).
		Table("user_fav_ads f").
		Select(strings.Join(selectColumns, ", ")).
		Joins("JOIN user_ads a ON a.ad_id = f.ad_id").
		Where("f.user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(f.created_at < ?) OR (f.created_at = ? AND f.ad_id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.AdID)
	}

	query = query.Order("f.created_at DESC").Order("f.ad_id DESC").Limit(limitWithBuffer)

	var records []favoriteAdRecord
	if err := query.Scan(&records).Error; err != nil {
		return FavoritesPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.FavoritedAt,
			AdID:      last.AdID,
		})
	}

	items := make([]FavoriteDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	total, err := r.count(ctx, userID)
	if err != nil {
		return FavoritesPageDTO{}, err
	}

	return FavoritesPageDTO{
		Items: items,
		Pagination: ads.PaginationDTO{
			Total:   int(total),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

func (r *Repository) count(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

type favoriteAdRecord struct {
	FavoriteID    uuid.UUID         `gorm:"column:favorite_id"`
	FavoritedAt   time.Time         `gorm:"column:favorited_at"`
	AdID          int64             `gorm:"column:ad_id"`
	UserID        string            `gorm:"column:user_id"`
	Brand         string            `gorm:"column:brand"`
	Location      string            `gorm:"column:location"`
	Sector        string            `gorm:"column:sector"`
	Area          string            `gorm:"column:area"`
	AdTitle       string            `gorm:"column:ad_title"`
	Description   string            `gorm:"column:description"`
	Price         string            `gorm:"column:price"`
	Name          string            `gorm:"column:name"`
	Phone         string            `gorm:"column:phone"`
	Images        dbtypes.ImageList `gorm:"column:images"`
	IsDeliverable bool              `gorm:"column:is_deliverable"`
	Condition     string            `gorm:"column:condition"`
	Sold          *bool             `gorm:"column:sold"`
	AdCreatedAt   time.Time         `gorm:"column:ad_created_at"`
}

func (r favoriteAdRecord) toDTO() FavoriteDTO {
	sold := false
	if r.Sold != nil {
		sold = *r.Sold
	}
	return FavoriteDTO{
		FavoriteID:  r.FavoriteID,
		FavoritedAt: r.FavoritedAt,
		Ad: ads.AdDTO{
			AdID:          r.AdID,
			UserID:        r.UserID,
			Brand:         r.Brand,
			Location:      r.Location,
			Sector:        r.Sector,
			Area:          r.Area,
			Title:         r.AdTitle,
			Description:   r.Description,
			Price:         r.Price,
			Name:          r.Name,
			Phone:         r.Phone,
			Images:        r.Images,
			IsDeliverable: r.IsDeliverable,
			Condition:     r.Condition,
			Sold:          sold,
			CreatedAt:     r.AdCreatedAt,
		},
	}
}
