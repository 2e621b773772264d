package discovery

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreRow is one ranked store in a feed or store-search response.
type StoreRow struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	LogoURL      *string   `json:"logo_url"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int       `json:"rating_count"`
	OrderCount   int       `json:"order_count"`
	ProductCount int       `json:"product_count"`
	// DistanceKm is null when the request carried no origin or the store
	// has no coordinates.
	DistanceKm *float64 `json:"distance_km"`
}

// ProductRow is one product-search result. EffectivePrice reflects the
// currently-active promotion, or the base price when none applies.
type ProductRow struct {
	ID             uuid.UUID       `json:"id"`
	StoreID        uuid.UUID       `json:"store_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       *string         `json:"category"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	OnPromotion    bool            `json:"on_promotion"`
	IsActive       bool            `json:"is_active"`
	CoverImage     *string         `json:"cover_image"`
}

// PromoRow is one currently-active promotion on the initial feed.
type PromoRow struct {
	ProductID   uuid.UUID       `json:"product_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	PromoPrice  decimal.Decimal `json:"promo_price"`
	StartsOn    string          `json:"starts_on"`
	EndsOn      string          `json:"ends_on"`
	CoverImage  *string         `json:"cover_image"`
}

// Feed is the initial-feed payload.
type Feed struct {
	Categories []string   `json:"categories"`
	Stores     []StoreRow `json:"stores"`
	Promotions []PromoRow `json:"promotions"`
}
