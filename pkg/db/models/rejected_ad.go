package models

import (
	"time"

	dbtypes "github.com/My-selling-apps/PhoneBechPakistan/pkg/db/types"
)

// RejectedAd mirrors Ad for submissions whose images failed classification,
// plus a human-readable reason per rejected image. Write-once from the
// pipeline; only admins delete these rows.
type RejectedAd struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement"`
	AdID            int64             `gorm:"column:ad_id;not null;uniqueIndex:rejected_user_ads_ad_user_key"`
	UserID          string            `gorm:"column:user_id;not null;uniqueIndex:rejected_user_ads_ad_user_key;index:rejected_user_ads_user_id_idx"`
	Brand           string            `gorm:"column:brand"`
	Location        string            `gorm:"column:location"`
	Sector          string            `gorm:"column:sector"`
	Area            string            `gorm:"column:area"`
	AdTitle         string            `gorm:"column:ad_title;not null"`
	Description     string            `gorm:"column:description"`
	Price           string            `gorm:"column:price;not null"`
	Name            string            `gorm:"column:name"`
	Phone           string            `gorm:"column:phone"`
	Images          dbtypes.ImageList `gorm:"column:images;type:text"`
	IsDeliverable   bool              `gorm:"column:is_deliverable;not null;default:false"`
	Condition       string            `gorm:"column:condition;not null"`
	RejectionReason string            `gorm:"column:rejection_reason;not null"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (RejectedAd) TableName() string { return "rejected_user_ads" }
