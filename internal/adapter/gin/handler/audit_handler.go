package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/domain/audit"
	"grocery-delivery-service/internal/domain/common"
)

// AuditLister reads the admin audit trail.
type AuditLister interface {
	List(ctx context.Context, f audit.Filter) ([]audit.Entry, int64, error)
}

type AuditHandler struct {
	store AuditLister
	log   *zap.Logger
}

func NewAuditHandler(store AuditLister, log *zap.Logger) *AuditHandler {
	return &AuditHandler{store: store, log: log}
}

// List handles GET /api/admin/audit
func (h *AuditHandler) List(c *gin.Context) {
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	f := audit.Filter{From: from, To: to, Page: page, Limit: limit}
	if v, ok := c.GetQuery("actor_id"); ok {
		if f.ActorID, ok = parseID(c, "actor_id", v); !ok {
			return
		}
	}

	entries, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		out[i] = toAuditEntryResponse(&entries[i])
	}
	respondPage(c, out, common.NewPagination(total, page, limit))
}
