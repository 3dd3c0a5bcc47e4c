package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
)

// FavoriteDTO pairs a saved ad with the moment it was saved.
type FavoriteDTO struct {
	FavoriteID  uuid.UUID `json:"favorite_id"`
	Ad          ads.AdDTO `json:"ad"`
	FavoritedAt time.Time `json:"favorited_at"`
}

// FavoritesPageDTO is a cursor-paginated page of saved ads.
type FavoritesPageDTO struct {
	Items      []FavoriteDTO     `json:"items"`
	Pagination ads.PaginationDTO `json:"pagination"`
}
