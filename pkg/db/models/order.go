package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the minimal projection discovery needs: order volume per store.
// Placement, payment and fulfillment state belong to the orders subsystem.
type Order struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
