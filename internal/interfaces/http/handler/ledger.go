package handler

import (
	workforceapp "github.com/elints/backend/internal/application/workforce"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles per-employee work ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledger *workforceapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *workforceapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// TrackItemRequest identifies the order item to start tracking
// @Description Request body for tracking an order item in the work ledger
type TrackItemRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
}

// TrackItem godoc
// @Summary      Start tracking an order item
// @Description  Materialize the item's step tree in the authenticated employee's work ledger. Tracking an already-tracked item returns the existing tree unchanged.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body TrackItemRequest true "Item to track"
// @Success      200 {object} dto.Response{data=workforce.ItemTracking}
// @Security     BearerAuth
// @Router       /work/track [post]
func (h *LedgerHandler) TrackItem(c *gin.Context) {
	employeeID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req TrackItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tracking, err := h.ledger.TrackItem(c.Request.Context(), employeeID, req.OrderID, req.OrderItemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tracking)
}

// CompleteSubStep godoc
// @Summary      Complete a sub-step
// @Description  Mark one sub-step done. Completion cascades upward: a step whose sub-steps are all done becomes done, an item whose steps are all done becomes done, and likewise the order node.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body workforceapp.CompleteSubStepRequest true "Sub-step to complete"
// @Success      200 {object} dto.Response{data=workforceapp.CompleteSubStepResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /work/complete [post]
func (h *LedgerHandler) CompleteSubStep(c *gin.Context) {
	employeeID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req workforceapp.CompleteSubStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledger.CompleteSubStep(c.Request.Context(), employeeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Statistics godoc
// @Summary      Get the authenticated employee's ledger counters
// @Tags         ledger
// @Produce      json
// @Success      200 {object} dto.Response{data=workforceapp.StatisticsResponse}
// @Security     BearerAuth
// @Router       /work/statistics [get]
func (h *LedgerHandler) Statistics(c *gin.Context) {
	employeeID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.ledger.Statistics(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// WorkTree godoc
// @Summary      Get the authenticated employee's full work tree
// @Tags         ledger
// @Produce      json
// @Success      200 {object} dto.Response{data=workforceapp.WorkTreeResponse}
// @Security     BearerAuth
// @Router       /work/tree [get]
func (h *LedgerHandler) WorkTree(c *gin.Context) {
	employeeID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tree, err := h.ledger.WorkTree(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tree)
}
