package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"grocery-delivery-service/internal/domain/catalog"
)

func TestProductRepoPG_CreateKeepsInactiveFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id := seedProduct(t, db, catalog.Product{Name: "Hidden Gin", Price: 30, Active: false, IsAlcohol: true})

	p, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.Active)
	assert.True(t, p.IsAlcohol)
	require.NotNil(t, p.Category)
	assert.Equal(t, "General", p.Category.Name)
}

func TestProductRepoPG_ListFiltersAndSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	seedProduct(t, db, catalog.Product{Name: "Red Wine", Brand: "Chateau", Price: 20, Stock: 3, IsAlcohol: true, Active: true})
	seedProduct(t, db, catalog.Product{Name: "White Wine", Brand: "Chateau", Price: 18, Stock: 0, IsAlcohol: true, Active: true})
	seedProduct(t, db, catalog.Product{Name: "Whole Milk", Brand: "Farm", Description: "fresh red barn milk", Price: 2, Stock: 40, Active: true})

	_, total, err := repo.List(ctx, catalog.ProductFilter{Query: "wine"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.List(ctx, catalog.ProductFilter{Query: "red"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "name and description both searched")

	_, total, err = repo.List(ctx, catalog.ProductFilter{Query: "red chateau"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, catalog.ProductFilter{Query: "wine", InStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	notAlcohol := false
	items, total, err := repo.List(ctx, catalog.ProductFilter{IsAlcohol: &notAlcohol})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Whole Milk", items[0].Name)

	low, err := repo.ListLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "White Wine", low[0].Name)
}

func TestProductRepoPG_StockAndPrice(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id := seedProduct(t, db, catalog.Product{Name: "Bread", Price: 3, Stock: 5, Active: true})
	require.NoError(t, repo.UpdateStock(ctx, id, 0))
	require.NoError(t, repo.UpdatePrice(ctx, id, 3.75))
	require.NoError(t, repo.UpdateImage(ctx, id, "/uploads/products/x.png"))

	p, err := repo.GetByIDForUpdate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stock)
	assert.Equal(t, 3.75, p.Price)
	assert.Equal(t, "/uploads/products/x.png", p.ImageURL)
}

func TestCategoryRepoPG(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepoPG(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, &catalog.Category{Name: "Spirits", Active: false})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &catalog.Category{Name: "Bakery", Active: true})
	require.NoError(t, err)

	c, err := repo.GetByName(ctx, "spirits")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.False(t, c.Active)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "Bakery", all[0].Name)

	seedProduct(t, db, catalog.Product{CategoryID: id, Name: "Rum", Price: 10, Active: true})
	n, err := repo.CountProducts(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
