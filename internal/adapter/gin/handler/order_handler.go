package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "grocery-delivery-service/internal/domain/order"
	"grocery-delivery-service/internal/usecase/order"
	"grocery-delivery-service/internal/usecase/shared"
)

// OrderUsecase is what OrderHandler needs from the order usecase.
type OrderUsecase interface {
	PlaceOrder(ctx context.Context, in order.PlaceOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, actor shared.Actor, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, actor shared.Actor, in order.CancelOrderRequest) (*domain.Order, error)
	AssignDriver(ctx context.Context, orderID, driverID int64) (*domain.Order, error)
	PickUp(ctx context.Context, driverID, orderID int64) (*domain.Order, error)
	Deliver(ctx context.Context, driverID, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, in order.ListOrdersRequest) (*order.ListOrdersResponse, error)
	ListUserOrders(ctx context.Context, userID int64, in order.ListOrdersRequest) (*order.ListOrdersResponse, error)
	ListDriverOrders(ctx context.Context, driverID int64, in order.ListOrdersRequest) (*order.ListOrdersResponse, error)
}

// OrderHandler serves checkout, order tracking, dispatch and delivery progress.
type OrderHandler struct {
	uc  OrderUsecase
	log *zap.Logger
}

func NewOrderHandler(uc OrderUsecase, log *zap.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// AssignDriverRequest is the body of the assign endpoint.
type AssignDriverRequest struct {
	DriverID int64 `json:"driver_id" binding:"required,gt=0"`
}

// Place handles POST /api/orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req order.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserID = actor(c).ID

	o, err := h.uc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, "order placed", toOrderResponse(o))
}

// Get handles GET /api/orders/:id and GET /api/admin/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.uc.GetOrder(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "", toOrderResponse(o))
}

// Cancel handles POST /api/orders/:id/cancel and POST /api/admin/orders/:id/cancel.
// Who may cancel what is decided by the usecase from the caller's role.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req order.CancelOrderRequest
	// the reason is optional
	if !bindOptionalJSON(c, &req) {
		return
	}
	req.OrderID = id

	o, err := h.uc.CancelOrder(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "order cancelled", toOrderResponse(o))
}

// Assign handles POST /api/admin/orders/:id/assign
func (h *OrderHandler) Assign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AssignDriverRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.uc.AssignDriver(c.Request.Context(), id, req.DriverID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "driver assigned", toOrderResponse(o))
}

// PickUp handles POST /api/drivers/me/orders/:id/pickup
func (h *OrderHandler) PickUp(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.uc.PickUp(c.Request.Context(), actor(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "order picked up", toOrderResponse(o))
}

// Deliver handles POST /api/drivers/me/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.uc.Deliver(c.Request.Context(), actor(c).ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "order delivered", toOrderResponse(o))
}

func (h *OrderHandler) listRequest(c *gin.Context) (order.ListOrdersRequest, bool) {
	from, to, ok := queryRange(c)
	if !ok {
		return order.ListOrdersRequest{}, false
	}
	page, limit := pageParams(c)
	return order.ListOrdersRequest{
		Status: c.Query("status"),
		From:   from,
		To:     to,
		Page:   page,
		Limit:  limit,
	}, true
}

// List handles GET /api/admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	req, ok := h.listRequest(c)
	if !ok {
		return
	}
	if v, ok := c.GetQuery("user_id"); ok {
		if req.UserID, ok = parseID(c, "user_id", v); !ok {
			return
		}
	}
	if v, ok := c.GetQuery("driver_id"); ok {
		if req.DriverID, ok = parseID(c, "driver_id", v); !ok {
			return
		}
	}
	h.page(c, func(ctx context.Context) (*order.ListOrdersResponse, error) {
		return h.uc.ListOrders(ctx, req)
	})
}

// ListMine handles GET /api/users/me/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	req, ok := h.listRequest(c)
	if !ok {
		return
	}
	h.page(c, func(ctx context.Context) (*order.ListOrdersResponse, error) {
		return h.uc.ListUserOrders(ctx, actor(c).ID, req)
	})
}

// ListAssigned handles GET /api/drivers/me/orders
func (h *OrderHandler) ListAssigned(c *gin.Context) {
	req, ok := h.listRequest(c)
	if !ok {
		return
	}
	h.page(c, func(ctx context.Context) (*order.ListOrdersResponse, error) {
		return h.uc.ListDriverOrders(ctx, actor(c).ID, req)
	})
}

func (h *OrderHandler) page(c *gin.Context, list func(ctx context.Context) (*order.ListOrdersResponse, error)) {
	resp, err := list(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondPage(c, toOrderResponses(resp.Orders), resp.Pagination)
}
