package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/common"
)

// CategoryRepoPG implements category persistence using PostgreSQL and GORM.
type CategoryRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCategoryRepoPG creates a new instance of CategoryRepoPG.
func NewCategoryRepoPG(db *gorm.DB, log *zap.Logger) *CategoryRepoPG {
	return &CategoryRepoPG{db: db, log: log}
}

func toCategory(m *CategorySchema) *catalog.Category {
	return &catalog.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create inserts a new category.
func (r *CategoryRepoPG) Create(ctx context.Context, c *catalog.Category) (int64, error) {
	model := CategorySchema{Name: c.Name, Description: c.Description, ImageURL: c.ImageURL, Active: c.Active}
	if err := conn(ctx, r.db).Create(&model).Error; err != nil {
		r.log.Error("failed to create category", zap.Error(err), zap.String("name", c.Name))
		return 0, translate(err, "category")
	}
	return model.ID, nil
}

// Update saves all editable fields of a category.
func (r *CategoryRepoPG) Update(ctx context.Context, c *catalog.Category) error {
	res := conn(ctx, r.db).Model(&CategorySchema{ID: c.ID}).Updates(map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"active":      c.Active,
	})
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	return nil
}

// UpdateImage stores the image URL of a category.
func (r *CategoryRepoPG) UpdateImage(ctx context.Context, id int64, url string) error {
	res := conn(ctx, r.db).Model(&CategorySchema{ID: id}).Update("image_url", url)
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	return nil
}

// Delete removes a category by ID.
func (r *CategoryRepoPG) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&CategorySchema{}, id)
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	r.log.Info("category deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepoPG) GetByID(ctx context.Context, id int64) (*catalog.Category, error) {
	var model CategorySchema
	if err := conn(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return toCategory(&model), nil
}

// GetByName retrieves a category by name. It returns nil, nil when none matches.
func (r *CategoryRepoPG) GetByName(ctx context.Context, name string) (*catalog.Category, error) {
	var model CategorySchema
	err := conn(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return toCategory(&model), nil
}

// List returns categories ordered by name.
func (r *CategoryRepoPG) List(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	q := conn(ctx, r.db).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var models []CategorySchema
	if err := q.Find(&models).Error; err != nil {
		r.log.Error("failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]catalog.Category, len(models))
	for i := range models {
		categories[i] = *toCategory(&models[i])
	}
	return categories, nil
}

// CountProducts returns the number of products in a category.
func (r *CategoryRepoPG) CountProducts(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&ProductSchema{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// ProductRepoPG implements product persistence using PostgreSQL and GORM.
type ProductRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProductRepoPG creates a new instance of ProductRepoPG.
func NewProductRepoPG(db *gorm.DB, log *zap.Logger) *ProductRepoPG {
	return &ProductRepoPG{db: db, log: log}
}

func toProduct(m *ProductSchema) *catalog.Product {
	p := &catalog.Product{
		ID:              m.ID,
		CategoryID:      m.CategoryID,
		Name:            m.Name,
		Description:     m.Description,
		Brand:           m.Brand,
		Unit:            m.Unit,
		ImageURL:        m.ImageURL,
		Price:           m.Price,
		DiscountPercent: m.DiscountPercent,
		Stock:           m.Stock,
		IsAlcohol:       m.IsAlcohol,
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Category != nil {
		p.Category = toCategory(m.Category)
	}
	return p
}

// Create inserts a new product.
func (r *ProductRepoPG) Create(ctx context.Context, p *catalog.Product) (int64, error) {
	model := ProductSchema{
		CategoryID:      p.CategoryID,
		Name:            p.Name,
		Description:     p.Description,
		Brand:           p.Brand,
		Unit:            p.Unit,
		ImageURL:        p.ImageURL,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		Stock:           p.Stock,
		IsAlcohol:       p.IsAlcohol,
		Active:          p.Active,
	}
	if err := conn(ctx, r.db).Omit("Category").Create(&model).Error; err != nil {
		r.log.Error("failed to create product", zap.Error(err), zap.String("name", p.Name))
		return 0, translate(err, "product")
	}
	r.log.Info("product created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// Update saves the descriptive fields of a product. Price, stock and image have dedicated setters.
func (r *ProductRepoPG) Update(ctx context.Context, p *catalog.Product) error {
	return r.updates(ctx, p.ID, map[string]any{
		"category_id":      p.CategoryID,
		"name":             p.Name,
		"description":      p.Description,
		"brand":            p.Brand,
		"unit":             p.Unit,
		"discount_percent": p.DiscountPercent,
		"is_alcohol":       p.IsAlcohol,
		"active":           p.Active,
	})
}

// UpdatePrice sets the list price of a product.
func (r *ProductRepoPG) UpdatePrice(ctx context.Context, id int64, price float64) error {
	return r.updates(ctx, id, map[string]any{"price": price})
}

// UpdateStock sets the stock level of a product.
func (r *ProductRepoPG) UpdateStock(ctx context.Context, id int64, stock int64) error {
	return r.updates(ctx, id, map[string]any{"stock": stock})
}

// UpdateImage stores the image URL of a product.
func (r *ProductRepoPG) UpdateImage(ctx context.Context, id int64, url string) error {
	return r.updates(ctx, id, map[string]any{"image_url": url})
}

func (r *ProductRepoPG) updates(ctx context.Context, id int64, fields map[string]any) error {
	res := conn(ctx, r.db).Model(&ProductSchema{ID: id}).Updates(fields)
	if res.Error != nil {
		r.log.Error("failed to update product", zap.Error(res.Error), zap.Int64("id", id))
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product")
	}
	return nil
}

// Delete removes a product by ID.
func (r *ProductRepoPG) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Delete(&ProductSchema{}, id)
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product")
	}
	r.log.Info("product deleted in db", zap.Int64("id", id))
	return nil
}

// GetByID retrieves a product with its category.
func (r *ProductRepoPG) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model ProductSchema
	if err := conn(ctx, r.db).Preload("Category").First(&model, id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return toProduct(&model), nil
}

// GetByIDForUpdate retrieves a product and locks the row until the surrounding transaction ends.
func (r *ProductRepoPG) GetByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var model ProductSchema
	if err := forUpdate(conn(ctx, r.db)).First(&model, id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return toProduct(&model), nil
}

// List retrieves products with filters and token search over name, brand and description.
func (r *ProductRepoPG) List(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, int64, error) {
	page, limit := common.NormalizePage(f.Page, f.Limit)

	q, err := applySearch(conn(ctx, r.db).Model(&ProductSchema{}), f.Query, "name", "brand", "description")
	if err != nil {
		return nil, 0, err
	}
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.IsAlcohol != nil {
		q = q.Where("is_alcohol = ?", *f.IsAlcohol)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.InStock {
		q = q.Where("stock > 0")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var models []ProductSchema
	if err := q.Preload("Category").Order("id DESC").Offset(common.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list products", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]catalog.Product, len(models))
	for i := range models {
		products[i] = *toProduct(&models[i])
	}
	return products, total, nil
}

// ListLowStock returns active products with stock at or below threshold, lowest first.
func (r *ProductRepoPG) ListLowStock(ctx context.Context, threshold int64) ([]catalog.Product, error) {
	var models []ProductSchema
	err := conn(ctx, r.db).
		Where("active = ? AND stock <= ?", true, threshold).
		Order("stock ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	products := make([]catalog.Product, len(models))
	for i := range models {
		products[i] = *toProduct(&models[i])
	}
	return products, nil
}
