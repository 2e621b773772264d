package models

import (
	"time"

	"github.com/google/uuid"
)

// Review holds a customer rating for a store. Only the rating value matters
// to discovery; review text and authorship live in the reviews subsystem.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
