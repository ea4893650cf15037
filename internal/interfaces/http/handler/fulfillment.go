package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appfulfillment "github.com/printshop/backend/internal/application/fulfillment"
	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/interfaces/http/dto"
)

// FulfillmentHandler handles the Printful admin API endpoints
type FulfillmentHandler struct {
	BaseHandler
	service *appfulfillment.Service
	// confirmDefault applies when a fulfill request omits the confirm flag
	confirmDefault bool
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(service *appfulfillment.Service, confirmByDefault bool) *FulfillmentHandler {
	return &FulfillmentHandler{
		service:        service,
		confirmDefault: confirmByDefault,
	}
}

// RegisterRoutes registers the /printful route subtree
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	printful := rg.Group("/printful")
	{
		printful.POST("/fulfill", h.Fulfill)
		printful.DELETE("/fulfill/:id", h.CancelFulfillment)
		printful.GET("/orders", h.ListRemoteOrders)
		printful.GET("/orders/:id", h.GetRemoteOrder)
		printful.DELETE("/orders/:id", h.CancelRemoteOrder)
		printful.POST("/orders/:id/confirm", h.ConfirmRemoteOrder)
		printful.GET("/status", h.Status)
		printful.GET("/sync/products", h.ListSyncProducts)
		printful.GET("/sync/products/:id", h.GetSyncVariants)
		printful.GET("/products", h.ListCatalogProducts)
		printful.GET("/products/:id", h.GetCatalogVariants)
		printful.POST("/shipping/rates", h.ShippingRates)
	}
}

// FulfillRequest represents a request to submit a local order for fulfillment
// @Description Request body for submitting an order to Printful
type FulfillRequest struct {
	OrderID string `json:"order_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Confirm overrides the configured confirm-on-create default when present
	Confirm *bool `json:"confirm,omitempty" example:"false"`
}

// Fulfill godoc
//
//	@ID			fulfillOrder
//	@Summary	Submit a local order for fulfillment
//	@Tags		printful
//	@Accept		json
//	@Produce	json
//	@Router		/printful/fulfill [post]
func (h *FulfillmentHandler) Fulfill(c *gin.Context) {
	var req FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	confirm := h.confirmDefault
	if req.Confirm != nil {
		confirm = *req.Confirm
	}

	result, err := h.service.FulfillOrder(c.Request.Context(), appfulfillment.FulfillOrderCommand{
		OrderID: orderID,
		Confirm: confirm,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.AlreadyLinked {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// CancelFulfillment godoc
//
//	@ID			cancelFulfillment
//	@Summary	Cancel fulfillment for a local order and remove its linkage
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/fulfill/{id} [delete]
func (h *FulfillmentHandler) CancelFulfillment(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.service.CancelFulfillment(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListRemoteOrders godoc
//
//	@ID			listPrintfulOrders
//	@Summary	List orders on the Printful store
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/orders [get]
func (h *FulfillmentHandler) ListRemoteOrders(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	status := fulfillment.OrderStatus(req.Status)
	if req.Status != "" && !status.IsValid() {
		h.BadRequest(c, "Unknown order status: "+req.Status)
		return
	}

	orders, paging, err := h.service.ListRemoteOrders(c.Request.Context(), fulfillment.ListOrdersRequest{
		Status: status,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if paging != nil {
		h.SuccessWithMeta(c, orders, paging.Total, paging.Offset, paging.Limit)
		return
	}
	h.Success(c, orders)
}

// GetRemoteOrder godoc
//
//	@ID			getPrintfulOrder
//	@Summary	Get a single order from the Printful store
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/orders/{id} [get]
func (h *FulfillmentHandler) GetRemoteOrder(c *gin.Context) {
	id, ok := h.remoteID(c)
	if !ok {
		return
	}

	remote, err := h.service.GetRemoteOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, remote)
}

// CancelRemoteOrder godoc
//
//	@ID			cancelPrintfulOrder
//	@Summary	Cancel an order on the Printful store
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/orders/{id} [delete]
func (h *FulfillmentHandler) CancelRemoteOrder(c *gin.Context) {
	id, ok := h.remoteID(c)
	if !ok {
		return
	}

	if err := h.service.CancelRemoteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConfirmRemoteOrder godoc
//
//	@ID			confirmPrintfulOrder
//	@Summary	Confirm a draft order for production
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/orders/{id}/confirm [post]
func (h *FulfillmentHandler) ConfirmRemoteOrder(c *gin.Context) {
	id, ok := h.remoteID(c)
	if !ok {
		return
	}

	remote, err := h.service.ConfirmRemoteOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, remote)
}

// Status godoc
//
//	@ID			getPrintfulStatus
//	@Summary	Check connectivity to the Printful API
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/status [get]
func (h *FulfillmentHandler) Status(c *gin.Context) {
	h.Success(c, h.service.TestConnection(c.Request.Context()))
}

// ListSyncProducts godoc
//
//	@ID			listSyncProducts
//	@Summary	List products synced to the Printful store
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/sync/products [get]
func (h *FulfillmentHandler) ListSyncProducts(c *gin.Context) {
	products, err := h.service.GetSyncProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetSyncVariants godoc
//
//	@ID			getSyncVariants
//	@Summary	List variants of a synced product
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/sync/products/{id} [get]
func (h *FulfillmentHandler) GetSyncVariants(c *gin.Context) {
	id, ok := h.remoteID(c)
	if !ok {
		return
	}

	variants, err := h.service.GetSyncVariants(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

// ListCatalogProducts godoc
//
//	@ID			listCatalogProducts
//	@Summary	List the Printful product catalog
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/products [get]
func (h *FulfillmentHandler) ListCatalogProducts(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.BadRequest(c, "Invalid category ID")
			return
		}
		categoryID = parsed
	}

	products, err := h.service.GetCatalogProducts(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetCatalogVariants godoc
//
//	@ID			getCatalogVariants
//	@Summary	List variants of a catalog product
//	@Tags		printful
//	@Produce	json
//	@Router		/printful/products/{id} [get]
func (h *FulfillmentHandler) GetCatalogVariants(c *gin.Context) {
	id, ok := h.remoteID(c)
	if !ok {
		return
	}

	variants, err := h.service.GetCatalogVariants(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

// ShippingRates godoc
//
//	@ID			getShippingRates
//	@Summary	Quote shipping rates for a cart
//	@Tags		printful
//	@Accept		json
//	@Produce	json
//	@Router		/printful/shipping/rates [post]
func (h *FulfillmentHandler) ShippingRates(c *gin.Context) {
	var req fulfillment.ShippingRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rates, err := h.service.GetShippingRates(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// remoteID parses the numeric provider-side ID from the :id path parameter
func (h *FulfillmentHandler) remoteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid numeric ID")
		return 0, false
	}
	return id, true
}
