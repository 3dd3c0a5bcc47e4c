package models

import (
	"time"

	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
)

// FeaturedAd is an admin-promoted denormalized copy of an accepted ad. It is
// an independent snapshot: edits to the original ad do not propagate here.
type FeaturedAd struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	AdID        int64             `gorm:"column:ad_id;not null;uniqueIndex:features_ads_ad_id_key"`
	UserID      string            `gorm:"column:user_id;not null"`
	AdTitle     string            `gorm:"column:ad_title;not null"`
	Description string            `gorm:"column:description"`
	Price       string            `gorm:"column:price;not null"`
	Location    string            `gorm:"column:location"`
	Images      dbtypes.ImageList `gorm:"column:images;type:text"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (FeaturedAd) TableName() string { return "features_ads" }
