package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a registered seller storefront.
//
// Lat/Lng are nullable: stores registered before geocoding (or whose address
// failed to geocode) carry no coordinate and are invisible to radius search.
type Store struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	LogoURL      *string    `gorm:"column:logo_url"`
	Street       string     `gorm:"column:street;not null"`
	Neighborhood string     `gorm:"column:neighborhood;not null"`
	City         string     `gorm:"column:city;not null"`
	State        string     `gorm:"column:state;not null"`
	PostalCode   string     `gorm:"column:postal_code;not null"`
	Lat          *float64   `gorm:"column:lat;type:numeric(9,6)"`
	Lng          *float64   `gorm:"column:lng;type:numeric(9,6)"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	Products     []Product  `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
