package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing owned by a store.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID          `gorm:"column:store_id;type:uuid;not null"`
	Name        string             `gorm:"column:name;not null"`
	Description string             `gorm:"column:description;not null;default:''"`
	Category    *string            `gorm:"column:category"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive    bool               `gorm:"column:is_active;not null;default:true"`
	Images      []ProductImage     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Promotions  []ProductPromotion `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
