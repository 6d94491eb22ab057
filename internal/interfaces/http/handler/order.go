package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tourapp "github.com/tourops/backend/internal/application/tour"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tourapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tourapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create godoc
// @Summary      Create a new order
// @Description  Create an order under an OPEN tour, optionally with initial member rows
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tourapp.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=tourapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tourapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, o)
}

// GetByID godoc
// @Summary      Get order by ID
// @Description  Retrieve an order with its member rows and derived payment fields
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tourapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	o, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, o)
}

// List godoc
// @Summary      List orders
// @Description  Retrieve a paginated list of orders with optional filtering
// @Tags         orders
// @Produce      json
// @Param        search query string false "Search term (order number, contact name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tourapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter tourapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByTour godoc
// @Summary      List orders of a tour
// @Description  Retrieve all orders belonging to a tour
// @Tags         orders
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]tourapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{id}/orders [get]
func (h *OrderHandler) ListByTour(c *gin.Context) {
	tourID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tour ID format")
		return
	}

	orders, err := h.orderService.ListOrdersByTour(c.Request.Context(), tourID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// AddMember godoc
// @Summary      Add a member to an order
// @Description  Add a member row to an order; the payable amount may be negative for discount rows
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tourapp.AddMemberRequest true "Member creation request"
// @Success      200 {object} dto.Response{data=tourapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/members [post]
func (h *OrderHandler) AddMember(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req tourapp.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.orderService.AddMember(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, o)
}

// RemoveMember godoc
// @Summary      Remove a member from an order
// @Description  Remove a member row; the order's totals and the tour's aggregates are recomputed
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        member_id path string true "Member ID" format(uuid)
// @Success      200 {object} dto.Response{data=tourapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id}/members/{member_id} [delete]
func (h *OrderHandler) RemoveMember(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	o, err := h.orderService.RemoveMember(c.Request.Context(), orderID, memberID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, o)
}
