package catalog

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/domain/common"
	"grocery-delivery-service/internal/usecase/shared"
	pkgerrors "grocery-delivery-service/pkg/errors"
	"grocery-delivery-service/pkg/security"
)

// Usecase implements category and product management.
type Usecase struct {
	categories CategoryRepository
	products   ProductRepository
	tx         shared.Transactor
	log        *zap.Logger
	validate   *validator.Validate
}

// New creates a new catalog usecase.
func New(categories CategoryRepository, products ProductRepository, tx shared.Transactor, log *zap.Logger) *Usecase {
	return &Usecase{
		categories: categories,
		products:   products,
		tx:         tx,
		log:        log,
		validate:   shared.NewValidator(),
	}
}

// ==================== CATEGORIES ====================

// CreateCategory adds a category with a unique name.
func (uc *Usecase) CreateCategory(ctx context.Context, in CreateCategoryRequest) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}
	if err := uc.ensureCategoryNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	c := &domain.Category{Name: in.Name, Description: in.Description, Active: boolOr(in.Active, true)}
	id, err := uc.categories.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	uc.log.Info("category created", zap.Int64("id", id), zap.String("name", c.Name))
	return c, nil
}

// UpdateCategory edits a category.
func (uc *Usecase) UpdateCategory(ctx context.Context, in UpdateCategoryRequest) (*domain.Category, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	c, err := uc.categories.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && !strings.EqualFold(*in.Name, c.Name) {
		if err := uc.ensureCategoryNameFree(ctx, *in.Name, c.ID); err != nil {
			return nil, err
		}
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	if err := uc.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *Usecase) ensureCategoryNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		return pkgerrors.NewInternalError("failed to validate category name", err)
	}
	if existing != nil && existing.ID != selfID {
		return pkgerrors.NewAlreadyExistsError("category", "category name already exists")
	}
	return nil
}

// GetCategory retrieves a category. Inactive categories are hidden unless includeInactive is set.
func (uc *Usecase) GetCategory(ctx context.Context, id int64, includeInactive bool) (*domain.Category, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Active && !includeInactive {
		return nil, pkgerrors.NewNotFoundError("category", "category not found")
	}
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (uc *Usecase) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	return uc.categories.List(ctx, activeOnly)
}

// DeleteCategory removes a category that holds no products.
func (uc *Usecase) DeleteCategory(ctx context.Context, id int64) error {
	n, err := uc.categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return pkgerrors.NewConflictError("category still has products")
	}
	if err := uc.categories.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("category deleted", zap.Int64("id", id))
	return nil
}

// SetCategoryImage stores the uploaded image URL on a category.
func (uc *Usecase) SetCategoryImage(ctx context.Context, id int64, url string) (*domain.Category, error) {
	if err := uc.categories.UpdateImage(ctx, id, url); err != nil {
		return nil, err
	}
	return uc.categories.GetByID(ctx, id)
}

// ==================== PRODUCTS ====================

// CreateProduct adds a product to an existing category.
func (uc *Usecase) CreateProduct(ctx context.Context, in CreateProductRequest) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	uc.log.Info("creating product", zap.String("name", in.Name), zap.Int64("category_id", in.CategoryID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, shared.FormatValidationError(err)
	}
	if !common.IsFinite(in.Price) {
		return nil, pkgerrors.NewValidationError("price", "must be a finite number")
	}
	if err := domain.ValidateDiscount(in.DiscountPercent); err != nil {
		return nil, err
	}

	category, err := uc.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	p := &domain.Product{
		CategoryID:      in.CategoryID,
		Category:        category,
		Name:            in.Name,
		Description:     in.Description,
		Brand:           in.Brand,
		Unit:            in.Unit,
		Price:           common.Round2(in.Price),
		DiscountPercent: in.DiscountPercent,
		Stock:           in.Stock,
		IsAlcohol:       in.IsAlcohol,
		Active:          boolOr(in.Active, true),
	}
	id, err := uc.products.Create(ctx, p)
	if err != nil {
		uc.log.Error("failed to create product", zap.Error(err))
		return nil, err
	}
	p.ID = id
	return p, nil
}

func (uc *Usecase) requireCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewValidationError("category_id", "category does not exist")
		}
		return nil, err
	}
	return c, nil
}

// UpdateProduct edits the descriptive fields of a product.
func (uc *Usecase) UpdateProduct(ctx context.Context, in UpdateProductRequest) (*domain.Product, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}
	if in.DiscountPercent != nil {
		if err := domain.ValidateDiscount(*in.DiscountPercent); err != nil {
			return nil, err
		}
	}

	p, err := uc.products.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID != p.CategoryID {
		category, err := uc.requireCategory(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		p.CategoryID, p.Category = category.ID, category
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.DiscountPercent != nil {
		p.DiscountPercent = *in.DiscountPercent
	}
	if in.IsAlcohol != nil {
		p.IsAlcohol = *in.IsAlcohol
	}
	if in.Active != nil {
		p.Active = *in.Active
	}

	if err := uc.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct retrieves a product. Inactive products are hidden unless includeInactive is set.
func (uc *Usecase) GetProduct(ctx context.Context, id int64, includeInactive bool) (*domain.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active && !includeInactive {
		return nil, pkgerrors.NewNotFoundError("product", "product not found")
	}
	return p, nil
}

// ListProducts returns a page of products matching the filter and search query.
func (uc *Usecase) ListProducts(ctx context.Context, in ListProductsRequest) (*ListProductsResponse, error) {
	page, limit := common.NormalizePage(in.Page, in.Limit)

	if in.Query != "" {
		if _, err := security.ValidateSearchQuery(in.Query); err != nil {
			return nil, pkgerrors.NewValidationError("query", err.Error())
		}
	}

	f := domain.ProductFilter{
		Query:      in.Query,
		CategoryID: in.CategoryID,
		IsAlcohol:  in.IsAlcohol,
		Active:     in.Active,
		InStock:    in.InStock,
		Page:       page,
		Limit:      limit,
	}
	if in.Public {
		active := true
		f.Active = &active
	}

	products, total, err := uc.products.List(ctx, f)
	if err != nil {
		uc.log.Error("failed to list products", zap.String("query", in.Query), zap.Error(err))
		return nil, err
	}
	return &ListProductsResponse{Products: products, Pagination: common.NewPagination(total, page, limit)}, nil
}

// DeleteProduct removes a product that was never ordered.
func (uc *Usecase) DeleteProduct(ctx context.Context, id int64) error {
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("product deleted", zap.Int64("id", id))
	return nil
}

// AdjustPrice applies a price operation to a product.
func (uc *Usecase) AdjustPrice(ctx context.Context, in AdjustPriceRequest) (*domain.Product, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := uc.products.GetByIDForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		next, err := domain.ValidatePriceOperation(p.Price, in.Amount, in.Operation)
		if err != nil {
			return err
		}
		if err := uc.products.UpdatePrice(ctx, p.ID, next); err != nil {
			return err
		}
		uc.log.Info("product price adjusted",
			zap.Int64("id", p.ID),
			zap.String("operation", string(in.Operation)),
			zap.Float64("from", p.Price),
			zap.Float64("to", next))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.products.GetByID(ctx, in.ID)
}

// AdjustStock applies a stock operation to a product.
func (uc *Usecase) AdjustStock(ctx context.Context, in AdjustStockRequest) (*domain.Product, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, shared.FormatValidationError(err)
	}

	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := uc.products.GetByIDForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		next, err := domain.ValidateStockOperation(p.Stock, in.Quantity, in.Operation)
		if err != nil {
			return err
		}
		if err := uc.products.UpdateStock(ctx, p.ID, next); err != nil {
			return err
		}
		uc.log.Info("product stock adjusted",
			zap.Int64("id", p.ID),
			zap.String("operation", string(in.Operation)),
			zap.Int64("from", p.Stock),
			zap.Int64("to", next))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.products.GetByID(ctx, in.ID)
}

// SetProductImage stores the uploaded image URL on a product.
func (uc *Usecase) SetProductImage(ctx context.Context, id int64, url string) (*domain.Product, error) {
	if err := uc.products.UpdateImage(ctx, id, url); err != nil {
		return nil, err
	}
	return uc.products.GetByID(ctx, id)
}

// LowStock lists active products at or below threshold.
func (uc *Usecase) LowStock(ctx context.Context, threshold int64) ([]domain.Product, error) {
	return uc.products.ListLowStock(ctx, threshold)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
