package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/adapter/storage"
	domain "grocery-delivery-service/internal/domain/catalog"
	"grocery-delivery-service/internal/usecase/catalog"
)

// CatalogUsecase is what CatalogHandler needs from the catalog usecase.
type CatalogUsecase interface {
	CreateCategory(ctx context.Context, in catalog.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, in catalog.UpdateCategoryRequest) (*domain.Category, error)
	GetCategory(ctx context.Context, id int64, includeInactive bool) (*domain.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	SetCategoryImage(ctx context.Context, id int64, url string) (*domain.Category, error)

	CreateProduct(ctx context.Context, in catalog.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, in catalog.UpdateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64, includeInactive bool) (*domain.Product, error)
	ListProducts(ctx context.Context, in catalog.ListProductsRequest) (*catalog.ListProductsResponse, error)
	DeleteProduct(ctx context.Context, id int64) error
	AdjustPrice(ctx context.Context, in catalog.AdjustPriceRequest) (*domain.Product, error)
	AdjustStock(ctx context.Context, in catalog.AdjustStockRequest) (*domain.Product, error)
	SetProductImage(ctx context.Context, id int64, url string) (*domain.Product, error)
}

// CatalogHandler serves the public catalog and its admin management.
type CatalogHandler struct {
	uc     CatalogUsecase
	images ImageStore
	log    *zap.Logger
}

func NewCatalogHandler(uc CatalogUsecase, images ImageStore, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, images: images, log: log}
}

func toCategoryResponses(cs []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cs))
	for i := range cs {
		out[i] = toCategoryResponse(&cs[i])
	}
	return out
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cs, err := h.uc.ListCategories(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toCategoryResponses(cs))
}

// AdminListCategories handles GET /api/admin/categories
func (h *CatalogHandler) AdminListCategories(c *gin.Context) {
	cs, err := h.uc.ListCategories(c.Request.Context(), false)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toCategoryResponses(cs))
}

// GetCategory handles GET /api/categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) { h.getCategory(c, false) }

// AdminGetCategory handles GET /api/admin/categories/:id
func (h *CatalogHandler) AdminGetCategory(c *gin.Context) { h.getCategory(c, true) }

func (h *CatalogHandler) getCategory(c *gin.Context, includeInactive bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, err := h.uc.GetCategory(c.Request.Context(), id, includeInactive)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toCategoryResponse(cat))
}

// CreateCategory handles POST /api/admin/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalog.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.uc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "category created", toCategoryResponse(cat))
}

// UpdateCategory handles PUT /api/admin/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = id

	cat, err := h.uc.UpdateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "category updated", toCategoryResponse(cat))
}

// DeleteCategory handles DELETE /api/admin/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.uc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "category deleted", nil)
}

// UploadCategoryImage handles POST /api/admin/categories/:id/image
func (h *CatalogHandler) UploadCategoryImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	uploadImage(c, h.images, storage.KindCategory, h.log, func(ctx context.Context, url string) (any, string, error) {
		old, err := h.uc.GetCategory(ctx, id, true)
		if err != nil {
			return nil, "", err
		}
		cat, err := h.uc.SetCategoryImage(ctx, id, url)
		if err != nil {
			return nil, "", err
		}
		return toCategoryResponse(cat), old.ImageURL, nil
	})
}

// ListProducts handles GET /api/products. Only active products are visible.
func (h *CatalogHandler) ListProducts(c *gin.Context) { h.listProducts(c, true) }

// AdminListProducts handles GET /api/admin/products
func (h *CatalogHandler) AdminListProducts(c *gin.Context) { h.listProducts(c, false) }

func (h *CatalogHandler) listProducts(c *gin.Context, public bool) {
	page, limit := pageParams(c)
	req := catalog.ListProductsRequest{
		Query:      c.Query("q"),
		CategoryID: cast.ToInt64(c.Query("category_id")),
		IsAlcohol:  queryBool(c, "is_alcohol"),
		InStock:    cast.ToBool(c.Query("in_stock")),
		Page:       page,
		Limit:      limit,
		Public:     public,
	}
	if !public {
		req.Active = queryBool(c, "active")
	}

	resp, err := h.uc.ListProducts(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]ProductResponse, len(resp.Products))
	for i := range resp.Products {
		out[i] = toProductResponse(&resp.Products[i])
	}
	respondPage(c, out, resp.Pagination)
}

// GetProduct handles GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) { h.getProduct(c, false) }

// AdminGetProduct handles GET /api/admin/products/:id
func (h *CatalogHandler) AdminGetProduct(c *gin.Context) { h.getProduct(c, true) }

func (h *CatalogHandler) getProduct(c *gin.Context, includeInactive bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.uc.GetProduct(c.Request.Context(), id, includeInactive)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toProductResponse(p))
}

// CreateProduct handles POST /api/admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req catalog.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.uc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "product created", toProductResponse(p))
}

// UpdateProduct handles PUT /api/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = id

	p, err := h.uc.UpdateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "product updated", toProductResponse(p))
}

// DeleteProduct handles DELETE /api/admin/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.uc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "product deleted", nil)
}

// AdjustPrice handles PATCH /api/admin/products/:id/price
func (h *CatalogHandler) AdjustPrice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.AdjustPriceRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = id

	p, err := h.uc.AdjustPrice(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "price updated", toProductResponse(p))
}

// AdjustStock handles PATCH /api/admin/products/:id/stock
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req catalog.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = id

	p, err := h.uc.AdjustStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "stock updated", toProductResponse(p))
}

// UploadProductImage handles POST /api/admin/products/:id/image
func (h *CatalogHandler) UploadProductImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	uploadImage(c, h.images, storage.KindProduct, h.log, func(ctx context.Context, url string) (any, string, error) {
		old, err := h.uc.GetProduct(ctx, id, true)
		if err != nil {
			return nil, "", err
		}
		p, err := h.uc.SetProductImage(ctx, id, url)
		if err != nil {
			return nil, "", err
		}
		return toProductResponse(p), old.ImageURL, nil
	})
}
