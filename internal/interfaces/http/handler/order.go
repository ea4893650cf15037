package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfulfillment "github.com/printshop/backend/internal/application/fulfillment"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/interfaces/http/dto"
)

// OrderHandler handles local order read endpoints
type OrderHandler struct {
	BaseHandler
	service *appfulfillment.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *appfulfillment.Service) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the /orders route subtree
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
	}
}

// OrderResponse represents a local order in API responses
// @Description Local order with its fulfillment linkage, if any
type OrderResponse struct {
	ID                 string           `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email              string           `json:"email" example:"customer@example.com"`
	Currency           string           `json:"currency" example:"USD"`
	ShippingAddress    *order.Address   `json:"shipping_address,omitempty"`
	BillingAddress     *order.Address   `json:"billing_address,omitempty"`
	Items              []order.LineItem `json:"items"`
	Metadata           order.Metadata   `json:"metadata"`
	FulfillmentOrderID string           `json:"fulfillment_order_id,omitempty" example:"4242"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID.String(),
		Email:           o.Email,
		Currency:        o.Currency,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		Items:           o.Items,
		Metadata:        o.Metadata,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if remoteID, ok := o.FulfillmentOrderID(); ok {
		resp.FulfillmentOrderID = remoteID
	}
	return resp
}

// List godoc
//
//	@ID			listOrders
//	@Summary	List local orders
//	@Tags		orders
//	@Produce	json
//	@Router		/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), order.ListFilter{
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	h.SuccessWithMeta(c, responses, total, req.Offset, req.Limit)
}

// Get godoc
//
//	@ID			getOrder
//	@Summary	Get a local order by ID
//	@Tags		orders
//	@Produce	json
//	@Router		/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	o, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(o))
}
