package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mercadoperto/mercadoperto-backend/pkg/db/models"
	"github.com/mercadoperto/mercadoperto-backend/pkg/geo"
	"github.com/mercadoperto/mercadoperto-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	stores := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  logo_url TEXT,
  street TEXT NOT NULL DEFAULT '',
  neighborhood TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  lat REAL,
  lng REAL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT,
  price NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	productImages := `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	productPromotions := `
CREATE TABLE IF NOT EXISTS product_promotions (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  starts_on DATETIME NOT NULL,
  ends_on DATETIME NOT NULL,
  created_at DATETIME
);`
	reviews := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  created_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  created_at DATETIME
);`
	for _, stmt := range []string{stores, products, productImages, productPromotions, reviews, orders} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedStore(t *testing.T, db *gorm.DB, name, city string, coord *geo.Point, active bool) *models.Store {
	t.Helper()

	store := &models.Store{
		ID:           uuid.New(),
		Name:         name,
		Street:       "Rua das Flores 100",
		Neighborhood: "Centro",
		City:         city,
		State:        "PR",
		PostalCode:   "80010-000",
		IsActive:     active,
	}
	if coord != nil {
		store.Lat = &coord.Lat
		store.Lng = &coord.Lng
	}
	require.NoError(t, db.Create(store).Error)
	if !active {
		// GORM substitutes the tagged default (true) for the zero value on
		// create, so an inactive seed must be forced after the insert.
		require.NoError(t, db.Model(store).UpdateColumn("is_active", false).Error)
	}
	return store
}

func seedProduct(t *testing.T, db *gorm.DB, store *models.Store, name, category string, price string, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		StoreID:  store.ID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		IsActive: active,
	}
	if category != "" {
		product.Category = &category
	}
	require.NoError(t, db.Create(product).Error)
	if !active {
		// GORM substitutes the tagged default (true) for the zero value on
		// create, so an inactive seed must be forced after the insert.
		require.NoError(t, db.Model(product).UpdateColumn("is_active", false).Error)
	}
	return product
}

func seedReview(t *testing.T, db *gorm.DB, store *models.Store, rating int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Review{ID: uuid.New(), StoreID: store.ID, Rating: rating}).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, store *models.Store) {
	t.Helper()
	require.NoError(t, db.Create(&models.Order{ID: uuid.New(), StoreID: store.ID}).Error)
}

func seedPromotion(t *testing.T, db *gorm.DB, product *models.Product, price, startsOn, endsOn string) *models.ProductPromotion {
	t.Helper()

	starts, err := time.Parse("2006-01-02", startsOn)
	require.NoError(t, err)
	ends, err := time.Parse("2006-01-02", endsOn)
	require.NoError(t, err)
	promo := &models.ProductPromotion{
		ID:        uuid.New(),
		ProductID: product.ID,
		Price:     decimal.RequireFromString(price),
		StartsOn:  starts,
		EndsOn:    ends,
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func TestRepositoryListStoreCandidates_aggregates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	padaria := seedStore(t, db, "Padaria Estrela", "Curitiba", &geo.Point{Lat: -25.43, Lng: -49.27}, true)
	seedProduct(t, db, padaria, "Pao Frances", "padaria", "1.50", true)
	seedProduct(t, db, padaria, "Bolo de Fuba", "padaria", "18.00", true)
	seedProduct(t, db, padaria, "Torta Antiga", "padaria", "25.00", false)
	seedReview(t, db, padaria, 5)
	seedReview(t, db, padaria, 4)
	seedOrder(t, db, padaria)
	seedOrder(t, db, padaria)
	seedOrder(t, db, padaria)

	seedStore(t, db, "Mercearia Oculta", "Curitiba", nil, false)

	candidates, err := repo.ListStoreCandidates(context.Background(), StoreFilters{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	got := candidates[0]
	assert.Equal(t, padaria.ID, got.ID)
	assert.InDelta(t, 4.5, got.RatingAvg, 1e-9)
	assert.Equal(t, 2, got.RatingCount)
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, 2, got.ProductCount, "inactive products are not counted")
}

func TestRepositoryListStoreCandidates_textFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	padaria := seedStore(t, db, "Padaria Estrela", "Curitiba", nil, true)
	mercado := seedStore(t, db, "Mercado Central", "Londrina", nil, true)
	seedProduct(t, db, padaria, "Pao Frances", "padaria", "1.50", true)
	seedProduct(t, db, mercado, "Arroz", "mercearia", "22.90", true)

	byName, err := repo.ListStoreCandidates(context.Background(), StoreFilters{Name: "estrela"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, padaria.ID, byName[0].ID)

	byAddress, err := repo.ListStoreCandidates(context.Background(), StoreFilters{Address: "londrina"})
	require.NoError(t, err)
	require.Len(t, byAddress, 1)
	assert.Equal(t, mercado.ID, byAddress[0].ID)

	byCategory, err := repo.ListStoreCandidates(context.Background(), StoreFilters{Category: "mercearia"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, mercado.ID, byCategory[0].ID)

	none, err := repo.ListStoreCandidates(context.Background(), StoreFilters{Name: "inexistente"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryListStoreCandidates_boundingBox(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	inside := seedStore(t, db, "Perto", "Curitiba", &geo.Point{Lat: -25.43, Lng: -49.27}, true)
	seedStore(t, db, "Longe", "Sao Paulo", &geo.Point{Lat: -23.55, Lng: -46.63}, true)
	seedStore(t, db, "Sem Coordenada", "Curitiba", nil, true)

	box := geo.BoxAround(geo.Point{Lat: -25.43, Lng: -49.27}, 10)
	boxed, err := repo.ListStoreCandidates(context.Background(), StoreFilters{Box: &box})
	require.NoError(t, err)
	require.Len(t, boxed, 1)
	assert.Equal(t, inside.ID, boxed[0].ID)

	all, err := repo.ListStoreCandidates(context.Background(), StoreFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "without a box, stores lacking coordinates remain candidates")
}

func TestRepositoryListProducts_filtersAndPreloads(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	padaria := seedStore(t, db, "Padaria Estrela", "Curitiba", nil, true)
	mercado := seedStore(t, db, "Mercado Central", "Londrina", nil, true)

	pao := seedProduct(t, db, padaria, "Pao Frances", "padaria", "1.50", true)
	seedProduct(t, db, padaria, "Bolo de Fuba", "confeitaria", "18.00", true)
	seedProduct(t, db, mercado, "Arroz Integral", "mercearia", "22.90", false)

	require.NoError(t, db.Create(&models.ProductImage{ID: uuid.New(), ProductID: pao.ID, URL: "https://cdn.example.com/pao-2.jpg", Position: 1}).Error)
	require.NoError(t, db.Create(&models.ProductImage{ID: uuid.New(), ProductID: pao.ID, URL: "https://cdn.example.com/pao-1.jpg", Position: 0}).Error)
	seedPromotion(t, db, pao, "0.99", "2025-06-01", "2025-06-30")

	params := pagination.Params{Page: 1, Limit: 20}

	byText, err := repo.ListProducts(context.Background(), ProductFilters{Search: "pao"}, params)
	require.NoError(t, err)
	require.Len(t, byText, 1)
	require.Len(t, byText[0].Images, 2)
	assert.Equal(t, "https://cdn.example.com/pao-1.jpg", byText[0].Images[0].URL, "images come back in gallery order")
	require.Len(t, byText[0].Promotions, 1)

	byStore, err := repo.ListProducts(context.Background(), ProductFilters{StoreID: &padaria.ID}, params)
	require.NoError(t, err)
	assert.Len(t, byStore, 2)

	inactive := false
	byActive, err := repo.ListProducts(context.Background(), ProductFilters{Active: &inactive}, params)
	require.NoError(t, err)
	require.Len(t, byActive, 1)
	assert.Equal(t, "Arroz Integral", byActive[0].Name)

	all, err := repo.ListProducts(context.Background(), ProductFilters{}, params)
	require.NoError(t, err)
	assert.Len(t, all, 3, "nil tri-state imposes no active constraint")
}

func TestRepositoryListProducts_pagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	store := seedStore(t, db, "Padaria Estrela", "Curitiba", nil, true)
	for i := 0; i < 5; i++ {
		seedProduct(t, db, store, fmt.Sprintf("Produto %02d", i), "padaria", "10.00", true)
	}

	first, err := repo.ListProducts(context.Background(), ProductFilters{}, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Produto 00", first[0].Name)

	third, err := repo.ListProducts(context.Background(), ProductFilters{}, pagination.Params{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, "Produto 04", third[0].Name)

	past, err := repo.ListProducts(context.Background(), ProductFilters{}, pagination.Params{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestRepositoryListCategories(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	padaria := seedStore(t, db, "Padaria Estrela", "Curitiba", nil, true)
	fechada := seedStore(t, db, "Loja Fechada", "Curitiba", nil, false)

	seedProduct(t, db, padaria, "Pao Frances", "padaria", "1.50", true)
	seedProduct(t, db, padaria, "Bolo de Fuba", "confeitaria", "18.00", true)
	seedProduct(t, db, padaria, "Doce Repetido", "confeitaria", "5.00", true)
	seedProduct(t, db, padaria, "Sem Categoria", "", "3.00", true)
	seedProduct(t, db, padaria, "Produto Inativo", "bebidas", "8.00", false)
	seedProduct(t, db, fechada, "Suco", "sucos", "7.00", true)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"confeitaria", "padaria"}, categories)
}

func TestRepositoryListActivePromotions(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	padaria := seedStore(t, db, "Padaria Estrela", "Curitiba", nil, true)
	pao := seedProduct(t, db, padaria, "Pao Frances", "padaria", "1.50", true)
	bolo := seedProduct(t, db, padaria, "Bolo de Fuba", "confeitaria", "18.00", true)
	inativo := seedProduct(t, db, padaria, "Torta Antiga", "confeitaria", "25.00", false)

	require.NoError(t, db.Create(&models.ProductImage{ID: uuid.New(), ProductID: pao.ID, URL: "https://cdn.example.com/pao.jpg", Position: 0}).Error)

	current := seedPromotion(t, db, pao, "0.99", "2025-06-01", "2025-06-30")
	seedPromotion(t, db, bolo, "15.00", "2025-06-15", "2025-06-15")
	seedPromotion(t, db, pao, "1.20", "2025-05-01", "2025-05-31")
	seedPromotion(t, db, inativo, "9.99", "2025-06-01", "2025-06-30")

	asOf := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	candidates, err := repo.ListActivePromotions(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "expired windows and inactive products are excluded")

	byProduct := map[uuid.UUID]PromotionCandidate{}
	for _, c := range candidates {
		byProduct[c.ProductID] = c
	}

	gotPao, ok := byProduct[pao.ID]
	require.True(t, ok)
	assert.Equal(t, current.ID, gotPao.PromotionID)
	assert.True(t, gotPao.PromoPrice.Equal(decimal.RequireFromString("0.99")))
	assert.True(t, gotPao.BasePrice.Equal(decimal.RequireFromString("1.50")))
	require.NotNil(t, gotPao.CoverImage)
	assert.Equal(t, "https://cdn.example.com/pao.jpg", *gotPao.CoverImage)

	gotBolo, ok := byProduct[bolo.ID]
	require.True(t, ok)
	assert.Nil(t, gotBolo.CoverImage)
}
