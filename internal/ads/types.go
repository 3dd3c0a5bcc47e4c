package ads

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
)

const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

const (
	// MessagePosted is shown when at least one image passed screening.
	MessagePosted = "Ad posted successfully!"
	// MessageRejected is shown when every image failed screening.
	MessageRejected = "Ad could not be posted. Images do not meet smartphone criteria."
)

// DraftImage is one raw image attached to a submission.
type DraftImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Draft is the immutable submission value built by the collector. It either
// fully becomes persisted records or nothing at all.
type Draft struct {
	AdID          int64
	UserID        string
	Brand         string
	Location      string
	Sector        string
	Area          string
	Title         string
	Description   string
	Price         string
	Name          string
	Phone         string
	IsDeliverable bool
	Condition     string
	Images        []DraftImage
}

// Validate enforces the collector rules before any network call is made.
func (d Draft) Validate(cfg config.AdsConfig) error {
	if strings.TrimSpace(d.UserID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "submitter identity missing")
	}
	if strings.TrimSpace(d.Brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if strings.TrimSpace(d.Location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "ad_title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be numeric")
	}
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if d.Condition != ConditionNew && d.Condition != ConditionUsed {
		return pkgerrors.New(pkgerrors.CodeValidation, "condition must be new or used")
	}
	if len(d.Images) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	if len(d.Images) > cfg.MaxImages {
		return pkgerrors.New(pkgerrors.CodeValidation, "too many images attached")
	}
	for _, image := range d.Images {
		if len(image.Data) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "empty image attached")
		}
		if cfg.MaxImageBytes > 0 && int64(len(image.Data)) > cfg.MaxImageBytes {
			return pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the size limit")
		}
		if !strings.HasPrefix(strings.ToLower(image.ContentType), "image/") {
			return pkgerrors.New(pkgerrors.CodeValidation, "attachments must be images")
		}
	}
	return nil
}

// Outcome describes what one submission produced.
type Outcome struct {
	AdID             int64    `json:"ad_id"`
	Accepted         bool     `json:"accepted"`
	Rejected         bool     `json:"rejected"`
	Message          string   `json:"message"`
	ValidImageURLs   []string `json:"valid_image_urls"`
	InvalidImageURLs []string `json:"invalid_image_urls,omitempty"`
	RejectionReason  string   `json:"rejection_reason,omitempty"`
}

// AdDTO is the listing/detail projection returned to clients.
type AdDTO struct {
	AdID          int64     `json:"ad_id"`
	UserID        string    `json:"user_id"`
	Brand         string    `json:"brand"`
	Location      string    `json:"location"`
	Sector        string    `json:"sector,omitempty"`
	Area          string    `json:"area,omitempty"`
	Title         string    `json:"ad_title"`
	Description   string    `json:"description"`
	Price         string    `json:"price"`
	Name          string    `json:"name,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Images        []string  `json:"images"`
	IsDeliverable bool      `json:"is_deliverable"`
	Condition     string    `json:"condition"`
	Sold          bool      `json:"sold"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdsPageDTO is a cursor-paginated listing view.
type AdsPageDTO struct {
	Items      []AdDTO       `json:"items"`
	Pagination PaginationDTO `json:"pagination"`
}

// PaginationDTO carries cursor metadata for listing responses.
type PaginationDTO struct {
	Total   int    `json:"total"`
	Current string `json:"current"`
	Next    string `json:"next"`
}
