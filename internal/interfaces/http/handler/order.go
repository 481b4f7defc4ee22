package handler

import (
	workflowapp "github.com/elints/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order lifecycle API endpoints
type OrderHandler struct {
	BaseHandler
	orders  *workflowapp.OrderService
	summary *workflowapp.SummaryService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *workflowapp.OrderService, summary *workflowapp.SummaryService) *OrderHandler {
	return &OrderHandler{orders: orders, summary: summary}
}

// Create godoc
// @Summary      Create a new order
// @Description  Create a new order in the New stage with its line items
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body workflowapp.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=workflowapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req workflowapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.summary.InvalidateFlowCounts(c.Request.Context())
	h.Created(c, order)
}

// List godoc
// @Summary      List orders
// @Description  List orders with filtering and pagination. Deleted orders are never listed.
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Filter by stage"
// @Param        party_id query string false "Filter by customer"
// @Param        employee_id query string false "Filter by accounts assignee"
// @Success      200 {object} dto.Response{data=[]workflowapp.OrderListItemResponse}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter workflowapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workflowapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @Summary      Advance an order to its next stage
// @Description  Move an order along the stage chain. The requested status must be exactly the next stage; skipping or moving backwards is rejected.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workflowapp.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=workflowapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req workflowapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.summary.InvalidateFlowCounts(c.Request.Context())
	h.Success(c, order)
}

// AssignAccountEmployee godoc
// @Summary      Set the order-level accounts assignee
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body AssignAccountEmployeeRequest true "Assignee"
// @Success      200 {object} dto.Response{data=workflowapp.OrderResponse}
// @Security     BearerAuth
// @Router       /orders/{id}/account-employee [put]
func (h *OrderHandler) AssignAccountEmployee(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req AssignAccountEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.AssignAccountEmployee(c.Request.Context(), orderID, req.EmployeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.summary.InvalidateFlowCounts(c.Request.Context())
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order (administrative)
// @Description  Mark an order Deleted. The record and its status history are kept; the order disappears from lists and dashboard projections. Admin only.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workflowapp.DeleteOrderRequest false "Deletion note"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req workflowapp.DeleteOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	if err := h.orders.Delete(c.Request.Context(), orderID, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.summary.InvalidateFlowCounts(c.Request.Context())
	h.NoContent(c)
}

// AssignAccountEmployeeRequest sets the order-level accounts assignee
// @Description Request body for assigning the accounts employee
type AssignAccountEmployeeRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
}
