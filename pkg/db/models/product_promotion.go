package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPromotion is a time-bounded promotional price for a product.
// The validity range [StartsOn, EndsOn] is inclusive on both ends and is
// compared at date granularity.
type ProductPromotion struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	StartsOn  time.Time       `gorm:"column:starts_on;type:date;not null"`
	EndsOn    time.Time       `gorm:"column:ends_on;type:date;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
