package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a user to an accepted ad they saved.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;index:user_fav_ads_user_id_idx;uniqueIndex:user_fav_ads_user_ad_key"`
	AdID      int64     `gorm:"column:ad_id;not null;index:user_fav_ads_ad_id_idx;uniqueIndex:user_fav_ads_user_ad_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Favorite) TableName() string { return "user_fav_ads" }
