package models

import (
	"time"

	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
)

// Ad is an accepted marketplace listing. Every image URL on this row passed
// classification before the row was written.
type Ad struct {
	ID            int64             `gorm:"column:id;primaryKey;autoIncrement"`
	AdID          int64             `gorm:"column:ad_id;not null;uniqueIndex:user_ads_ad_user_key"`
	UserID        string            `gorm:"column:user_id;not null;uniqueIndex:user_ads_ad_user_key;index:user_ads_user_id_idx"`
	Brand         string            `gorm:"column:brand"`
	Location      string            `gorm:"column:location"`
	Sector        string            `gorm:"column:sector"`
	Area          string            `gorm:"column:area"`
	AdTitle       string            `gorm:"column:ad_title;not null"`
	Description   string            `gorm:"column:description"`
	Price         string            `gorm:"column:price;not null"`
	Name          string            `gorm:"column:name"`
	Phone         string            `gorm:"column:phone"`
	Images        dbtypes.ImageList `gorm:"column:images;type:text"`
	IsDeliverable bool              `gorm:"column:is_deliverable;not null;default:false"`
	Condition     string            `gorm:"column:condition;not null"`
	Sold          *bool             `gorm:"column:sold"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Ad) TableName() string { return "user_ads" }
