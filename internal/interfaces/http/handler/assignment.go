package handler

import (
	workflowapp "github.com/elints/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentHandler handles job-number assignment API endpoints
type AssignmentHandler struct {
	BaseHandler
	assignments *workflowapp.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(assignments *workflowapp.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Assign godoc
// @Summary      Assign job numbers to order items
// @Description  Assign explicit job numbers and employees to items of an order. The batch is all-or-nothing: one invalid entry rejects the whole request. Re-assigning a pair overwrites its previous mapping.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workflowapp.AssignJobNumbersRequest true "Assignments"
// @Success      200 {object} dto.Response{data=workflowapp.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req workflowapp.AssignJobNumbersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.assignments.AssignJobNumbers(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Generate godoc
// @Summary      Generate job numbers for order items
// @Description  Draw fresh job numbers from the sequencer for the items selected by index. All indexes are validated before any number is drawn.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body workflowapp.GenerateAssignmentsRequest true "Item indexes and employees"
// @Success      200 {object} dto.Response{data=workflowapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/assignments/generate [post]
func (h *AssignmentHandler) Generate(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req workflowapp.GenerateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.assignments.GenerateAssignments(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// OrderMappings godoc
// @Summary      List job-number mappings of an order
// @Tags         assignments
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]workflowapp.MappingResponse}
// @Security     BearerAuth
// @Router       /orders/{id}/mappings [get]
func (h *AssignmentHandler) OrderMappings(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	mappings, err := h.assignments.OrderMappings(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, mappings)
}

// AllGrouped godoc
// @Summary      List all mappings grouped by order
// @Tags         assignments
// @Produce      json
// @Success      200 {object} dto.Response{data=[]workflowapp.OrderMappingsGroup}
// @Security     BearerAuth
// @Router       /assignments [get]
func (h *AssignmentHandler) AllGrouped(c *gin.Context) {
	groups, err := h.assignments.AllGrouped(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, groups)
}

// EmployeeWork godoc
// @Summary      List an employee's assigned work grouped by order
// @Tags         assignments
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]workflowapp.OrderMappingsGroup}
// @Security     BearerAuth
// @Router       /employees/{id}/work [get]
func (h *AssignmentHandler) EmployeeWork(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	groups, err := h.assignments.EmployeeWork(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, groups)
}

// StartItem godoc
// @Summary      Mark an assigned item as started
// @Description  The authenticated employee marks their assigned item in progress.
// @Tags         assignments
// @Produce      json
// @Param        itemId path string true "Order item ID" format(uuid)
// @Success      200 {object} dto.Response{data=workflowapp.MappingResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work/items/{itemId}/start [post]
func (h *AssignmentHandler) StartItem(c *gin.Context) {
	employeeID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderItemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	mapping, err := h.assignments.StartItem(c.Request.Context(), employeeID, orderItemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, mapping)
}

// UpdateItemProgress godoc
// @Summary      Update progress of an assigned item
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        itemId path string true "Order item ID" format(uuid)
// @Param        request body workflowapp.UpdateItemProgressRequest true "Progress"
// @Success      200 {object} dto.Response{data=workflowapp.MappingResponse}
// @Security     BearerAuth
// @Router       /work/items/{itemId}/progress [patch]
func (h *AssignmentHandler) UpdateItemProgress(c *gin.Context) {
	employeeID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderItemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req workflowapp.UpdateItemProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mapping, err := h.assignments.UpdateItemProgress(c.Request.Context(), employeeID, orderItemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, mapping)
}
