// Package discovery implements the read-only discovery surface: the initial
// feed, store search and product search. All computation is pure or a
// read-only round-trip to the catalog; the package holds no cross-request
// state.
package discovery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mercadoperto/mercadoperto-backend/internal/catalog"
	"github.com/mercadoperto/mercadoperto-backend/internal/pricing"
	"github.com/mercadoperto/mercadoperto-backend/pkg/config"
	"github.com/mercadoperto/mercadoperto-backend/pkg/db/models"
	"github.com/mercadoperto/mercadoperto-backend/pkg/enums"
	pkgerrors "github.com/mercadoperto/mercadoperto-backend/pkg/errors"
	"github.com/mercadoperto/mercadoperto-backend/pkg/geo"
	"github.com/mercadoperto/mercadoperto-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

type catalogRepository interface {
	ListStoreCandidates(ctx context.Context, filters catalog.StoreFilters) ([]catalog.StoreCandidate, error)
	ListProducts(ctx context.Context, filters catalog.ProductFilters, params pagination.Params) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListActivePromotions(ctx context.Context, asOf time.Time) ([]catalog.PromotionCandidate, error)
}

// FeedInput carries the initial-feed parameters after tolerant parsing.
type FeedInput struct {
	Origin   *geo.Point
	RadiusKm float64
	Limit    int
}

// StoreSearchInput carries the store-search parameters after tolerant parsing.
type StoreSearchInput struct {
	Name     string
	Address  string
	Category string
	Sort     enums.SortMode
	Origin   *geo.Point
	RadiusKm float64
	Page     pagination.Params
}

// ProductSearchInput carries the product-search parameters after tolerant
// parsing. Products are not geo-filtered.
type ProductSearchInput struct {
	Search  string
	StoreID *uuid.UUID
	Active  *bool
	Page    pagination.Params
}

// Service exposes the discovery operations.
type Service interface {
	Feed(ctx context.Context, input FeedInput) (*Feed, error)
	SearchStores(ctx context.Context, input StoreSearchInput) (*pagination.Page[StoreRow], error)
	SearchProducts(ctx context.Context, input ProductSearchInput) (*pagination.Page[ProductRow], error)
}

type service struct {
	repo catalogRepository
	cfg  config.DiscoveryConfig
	now  func() time.Time
}

// NewService builds a discovery service backed by the catalog repository.
func NewService(repo catalogRepository, cfg config.DiscoveryConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "discovery: catalog repository is required")
	}
	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

// Feed assembles the initial feed. The three backing queries are independent
// and run concurrently.
func (s *service) Feed(ctx context.Context, input FeedInput) (*Feed, error) {
	limit := pagination.NormalizeLimit(input.Limit, s.cfg.FeedLimit)

	var (
		stores     []StoreRow
		categories []string
		promotions []PromoRow
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := s.rankedStores(groupCtx, catalog.StoreFilters{}, input.Origin, input.RadiusKm, enums.SortModeRelevance)
		if err != nil {
			return err
		}
		stores = pagination.Slice(rows, pagination.Params{Page: 1, Limit: limit}, s.cfg.FeedLimit).Items
		return nil
	})
	group.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(groupCtx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
		}
		return nil
	})
	group.Go(func() error {
		candidates, err := s.repo.ListActivePromotions(groupCtx, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active promotions")
		}
		promotions = reducePromotions(candidates, s.cfg.FeedPromoLimit)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []string{}
	}
	return &Feed{Categories: categories, Stores: stores, Promotions: promotions}, nil
}

// SearchStores runs the filtered, ranked, paginated store query.
func (s *service) SearchStores(ctx context.Context, input StoreSearchInput) (*pagination.Page[StoreRow], error) {
	filters := catalog.StoreFilters{
		Name:     input.Name,
		Address:  input.Address,
		Category: input.Category,
	}
	rows, err := s.rankedStores(ctx, filters, input.Origin, input.RadiusKm, input.Sort)
	if err != nil {
		return nil, err
	}
	page := pagination.Slice(rows, input.Page, s.cfg.PageLimit)
	return &page, nil
}

// rankedStores fetches candidates (bounding-box pruned when an origin is
// present), drops those beyond the exact radius, and ranks the survivors.
func (s *service) rankedStores(ctx context.Context, filters catalog.StoreFilters, origin *geo.Point, radiusKm float64, sortMode enums.SortMode) ([]StoreRow, error) {
	if radiusKm <= 0 {
		radiusKm = s.cfg.DefaultRadiusKm
	}
	if origin != nil {
		box := geo.BoxAround(*origin, radiusKm)
		filters.Box = &box
	}

	candidates, err := s.repo.ListStoreCandidates(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store candidates")
	}

	rows := make([]StoreRow, 0, len(candidates))
	for _, c := range candidates {
		row := StoreRow{
			ID:           c.ID,
			Name:         c.Name,
			LogoURL:      c.LogoURL,
			City:         c.City,
			State:        c.State,
			RatingAvg:    c.RatingAvg,
			RatingCount:  c.RatingCount,
			OrderCount:   c.OrderCount,
			ProductCount: c.ProductCount,
		}
		if origin != nil {
			coord := c.Coord()
			if coord == nil {
				continue
			}
			// The box is a coarse superset; the haversine distance is the
			// inclusion authority.
			distance := geo.DistanceKm(*origin, *coord)
			if distance > radiusKm {
				continue
			}
			row.DistanceKm = &distance
		}
		rows = append(rows, row)
	}

	rankStores(rows, sortMode)
	return rows, nil
}

// SearchProducts runs the filtered, paginated product query and resolves
// each product's effective price as of now.
func (s *service) SearchProducts(ctx context.Context, input ProductSearchInput) (*pagination.Page[ProductRow], error) {
	params := input.Page.Normalize(s.cfg.PageLimit)

	filters := catalog.ProductFilters{
		Search:  input.Search,
		StoreID: input.StoreID,
		Active:  input.Active,
	}
	products, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	asOf := s.now()
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		row := ProductRow{
			ID:          p.ID,
			StoreID:     p.StoreID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			IsActive:    p.IsActive,
		}
		row.EffectivePrice = p.Price
		if promo := pricing.ActivePromotion(p.Promotions, asOf); promo != nil {
			row.EffectivePrice = promo.Price
			row.OnPromotion = true
		}
		if len(p.Images) > 0 {
			row.CoverImage = &p.Images[0].URL
		}
		rows = append(rows, row)
	}

	return &pagination.Page[ProductRow]{Page: params.Page, Limit: params.Limit, Items: rows}, nil
}

// reducePromotions keeps the winning promotion per product. Candidates
// arrive ordered by starts_on then id descending, so the first row seen for
// a product is the most recently started, greatest-id winner.
func reducePromotions(candidates []catalog.PromotionCandidate, limit int) []PromoRow {
	rows := make([]PromoRow, 0, limit)
	seen := make(map[uuid.UUID]struct{}, limit)
	for _, c := range candidates {
		if _, ok := seen[c.ProductID]; ok {
			continue
		}
		seen[c.ProductID] = struct{}{}
		rows = append(rows, PromoRow{
			ProductID:   c.ProductID,
			StoreID:     c.StoreID,
			ProductName: c.ProductName,
			Price:       c.BasePrice,
			PromoPrice:  c.PromoPrice,
			StartsOn:    c.StartsOn.UTC().Format(dateLayout),
			EndsOn:      c.EndsOn.UTC().Format(dateLayout),
			CoverImage:  c.CoverImage,
		})
		if len(rows) == limit {
			break
		}
	}
	return rows
}
