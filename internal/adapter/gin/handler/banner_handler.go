package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/adapter/storage"
	domain "grocery-delivery-service/internal/domain/banner"
	"grocery-delivery-service/internal/usecase/banner"
)

// BannerUsecase is what BannerHandler needs from the banner usecase.
type BannerUsecase interface {
	CreateBanner(ctx context.Context, in banner.CreateBannerRequest) (*domain.Banner, error)
	UpdateBanner(ctx context.Context, in banner.UpdateBannerRequest) (*domain.Banner, error)
	GetBanner(ctx context.Context, id int64, includeInactive bool) (*domain.Banner, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error)
	DeleteBanner(ctx context.Context, id int64) error
	SetBannerImage(ctx context.Context, id int64, url string) (*domain.Banner, error)
}

type BannerHandler struct {
	uc     BannerUsecase
	images ImageStore
	log    *zap.Logger
}

func NewBannerHandler(uc BannerUsecase, images ImageStore, log *zap.Logger) *BannerHandler {
	return &BannerHandler{uc: uc, images: images, log: log}
}

// List handles GET /api/banners
func (h *BannerHandler) List(c *gin.Context) { h.list(c, true) }

// AdminList handles GET /api/admin/banners
func (h *BannerHandler) AdminList(c *gin.Context) { h.list(c, false) }

func (h *BannerHandler) list(c *gin.Context, activeOnly bool) {
	bs, err := h.uc.ListBanners(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]BannerResponse, len(bs))
	for i := range bs {
		out[i] = toBannerResponse(&bs[i])
	}
	respond(c, http.StatusOK, "", out)
}

// Get handles GET /api/admin/banners/:id
func (h *BannerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.uc.GetBanner(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toBannerResponse(b))
}

// Create handles POST /api/admin/banners
func (h *BannerHandler) Create(c *gin.Context) {
	var req banner.CreateBannerRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.uc.CreateBanner(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "banner created", toBannerResponse(b))
}

// Update handles PUT /api/admin/banners/:id
func (h *BannerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req banner.UpdateBannerRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ID = id

	b, err := h.uc.UpdateBanner(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "banner updated", toBannerResponse(b))
}

// Delete handles DELETE /api/admin/banners/:id
func (h *BannerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.uc.DeleteBanner(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "banner deleted", nil)
}

// UploadImage handles POST /api/admin/banners/:id/image
func (h *BannerHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	uploadImage(c, h.images, storage.KindBanner, h.log, func(ctx context.Context, url string) (any, string, error) {
		old, err := h.uc.GetBanner(ctx, id, true)
		if err != nil {
			return nil, "", err
		}
		b, err := h.uc.SetBannerImage(ctx, id, url)
		if err != nil {
			return nil, "", err
		}
		return toBannerResponse(b), old.ImageURL, nil
	})
}
