// Package catalog is the read-side query surface over stores, products and
// promotions. Every value-bearing filter binds through a query parameter;
// the only literal SQL fragments are fixed strings chosen in this package.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercadoperto/mercadoperto-backend/pkg/db/models"
	"github.com/mercadoperto/mercadoperto-backend/pkg/geo"
	"github.com/mercadoperto/mercadoperto-backend/pkg/pagination"
)

// Repository handles catalog read queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog reads.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// StoreFilters describe the optional predicates for the store candidate query.
type StoreFilters struct {
	Name     string
	Address  string
	Category string
	// Box prunes candidates to a rectangle before exact distance math.
	// Nil means no geographic constraint; stores without coordinates are
	// then still candidates.
	Box *geo.BoundingBox
}

// StoreCandidate is a store row annotated with the aggregates ranking needs.
type StoreCandidate struct {
	ID           uuid.UUID
	Name         string
	LogoURL      *string
	City         string
	State        string
	Lat          *float64
	Lng          *float64
	RatingAvg    float64
	RatingCount  int
	OrderCount   int
	ProductCount int
}

// Coord returns the store coordinate, or nil when it was never geocoded.
func (c StoreCandidate) Coord() *geo.Point {
	if c.Lat == nil || c.Lng == nil {
		return nil
	}
	return &geo.Point{Lat: *c.Lat, Lng: *c.Lng}
}

const storeCandidateColumns = `s.id, s.name, s.logo_url, s.city, s.state, s.lat, s.lng,
COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.store_id = s.id), 0) AS rating_avg,
(SELECT COUNT(*) FROM reviews r WHERE r.store_id = s.id) AS rating_count,
(SELECT COUNT(*) FROM orders o WHERE o.store_id = s.id) AS order_count,
(SELECT COUNT(*) FROM products p WHERE p.store_id = s.id AND p.is_active) AS product_count`

// ListStoreCandidates returns every active store matching the filters. The
// result is ordered by name/id only for determinism; ranking is the caller's
// concern.
func (r *Repository) ListStoreCandidates(ctx context.Context, filters StoreFilters) ([]StoreCandidate, error) {
	qb := r.db.WithContext(ctx).
		Table("stores s").
		Select(storeCandidateColumns).
		Where("s.is_active = ?", true)

	if name := strings.TrimSpace(filters.Name); name != "" {
		qb = qb.Where("LOWER(s.name) LIKE ?", likePattern(name))
	}
	if address := strings.TrimSpace(filters.Address); address != "" {
		pattern := likePattern(address)
		qb = qb.Where(
			"(LOWER(s.street) LIKE ? OR LOWER(s.neighborhood) LIKE ? OR LOWER(s.city) LIKE ? OR LOWER(s.state) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		qb = qb.Where(
			"EXISTS (SELECT 1 FROM products p WHERE p.store_id = s.id AND p.is_active AND LOWER(p.category) LIKE ?)",
			likePattern(category),
		)
	}
	if box := filters.Box; box != nil {
		qb = qb.Where("s.lat IS NOT NULL AND s.lng IS NOT NULL").
			Where("s.lat BETWEEN ? AND ?", box.MinLat, box.MaxLat).
			Where("s.lng BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	var candidates []StoreCandidate
	if err := qb.Order("s.name ASC").Order("s.id ASC").Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// ProductFilters describe the optional predicates for product search.
type ProductFilters struct {
	// Search matches name, description and category.
	Search  string
	StoreID *uuid.UUID
	// Active is tri-state: nil imposes no constraint.
	Active *bool
}

// ListProducts returns one page of products with images and promotions
// preloaded, ordered by name then id. Params must already be normalized.
func (r *Repository) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Promotions")

	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := likePattern(search)
		qb = qb.Where(
			"(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filters.StoreID != nil {
		qb = qb.Where("store_id = ?", *filters.StoreID)
	}
	if filters.Active != nil {
		qb = qb.Where("is_active = ?", *filters.Active)
	}

	var products []models.Product
	err := qb.
		Order("name ASC").Order("id ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListCategories returns the distinct non-empty category labels across
// active products of active stores, sorted ascending.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Table("products p").
		Distinct("p.category").
		Joins("JOIN stores s ON s.id = p.store_id").
		Where("p.is_active = ?", true).
		Where("s.is_active = ?", true).
		Where("p.category IS NOT NULL AND p.category <> ''").
		Order("p.category ASC").
		Pluck("p.category", &categories).
		Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// PromotionCandidate pairs an in-window promotion with its product context.
// One product may surface several candidates; the caller reduces them to the
// winning promotion per product.
type PromotionCandidate struct {
	PromotionID uuid.UUID
	ProductID   uuid.UUID
	StoreID     uuid.UUID
	ProductName string
	BasePrice   decimal.Decimal
	PromoPrice  decimal.Decimal
	StartsOn    time.Time
	EndsOn      time.Time
	CoverImage  *string
}

const promotionCandidateColumns = `pr.id AS promotion_id, p.id AS product_id, p.store_id,
p.name AS product_name, p.price AS base_price, pr.price AS promo_price,
pr.starts_on, pr.ends_on,
(SELECT i.url FROM product_images i WHERE i.product_id = p.id ORDER BY i.position ASC, i.id ASC LIMIT 1) AS cover_image`

// ListActivePromotions returns the promotions whose validity window contains
// asOf, for active products of active stores.
func (r *Repository) ListActivePromotions(ctx context.Context, asOf time.Time) ([]PromotionCandidate, error) {
	day := asOf.UTC().Format("2006-01-02")

	var candidates []PromotionCandidate
	err := r.db.WithContext(ctx).
		Table("product_promotions pr").
		Select(promotionCandidateColumns).
		Joins("JOIN products p ON p.id = pr.product_id").
		Joins("JOIN stores s ON s.id = p.store_id").
		Where("p.is_active = ?", true).
		Where("s.is_active = ?", true).
		Where("DATE(pr.starts_on) <= ?", day).
		Where("DATE(pr.ends_on) >= ?", day).
		Order("pr.starts_on DESC").Order("pr.id DESC").
		Scan(&candidates).
		Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func likePattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
