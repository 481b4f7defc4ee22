package handler

import (
	"time"

	workflowapp "github.com/elints/backend/internal/application/workflow"
	"github.com/elints/backend/internal/domain/sequence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler handles dashboard projection and numbering API endpoints
type DashboardHandler struct {
	BaseHandler
	summary   *workflowapp.SummaryService
	sequencer sequence.Sequencer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(summary *workflowapp.SummaryService, sequencer sequence.Sequencer) *DashboardHandler {
	return &DashboardHandler{summary: summary, sequencer: sequencer}
}

// OrdersSummary godoc
// @Summary      Order totals for the dashboard
// @Description  Totals of active orders, assigned orders, and their difference. Deleted orders are excluded.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=workflowapp.OrdersSummaryResponse}
// @Security     BearerAuth
// @Router       /dashboard/orders-summary [get]
func (h *DashboardHandler) OrdersSummary(c *gin.Context) {
	summary, err := h.summary.OrdersSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// EmployeeStats godoc
// @Summary      Per-employee work statistics
// @Tags         dashboard
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=workflowapp.EmployeeStatsResponse}
// @Security     BearerAuth
// @Router       /dashboard/employee-stats/{id} [get]
func (h *DashboardHandler) EmployeeStats(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	stats, err := h.summary.EmployeeStats(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// FlowCounts godoc
// @Summary      Order counts per workflow stage
// @Description  Counts of non-deleted orders in every stage. Stages with no orders are reported with a zero count.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=workflowapp.FlowCountsResponse}
// @Security     BearerAuth
// @Router       /dashboard/flow-counts [get]
func (h *DashboardHandler) FlowCounts(c *gin.Context) {
	counts, err := h.summary.FlowCounts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, counts)
}

// InvoiceNumberResponse carries a freshly drawn invoice number
type InvoiceNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	Sequence      int64  `json:"sequence"`
}

// NextInvoiceNumber godoc
// @Summary      Draw the next sale invoice number
// @Description  Atomically increments the sale invoice counter and returns a year-prefixed invoice number. Numbers are never reused, even if the caller discards the draft.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=InvoiceNumberResponse}
// @Security     BearerAuth
// @Router       /invoices/next-number [post]
func (h *DashboardHandler) NextInvoiceNumber(c *gin.Context) {
	seq, err := h.sequencer.Next(c.Request.Context(), sequence.CounterSaleInvoice)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, InvoiceNumberResponse{
		InvoiceNumber: sequence.FormatInvoiceNumber("INV", time.Now().Year(), seq),
		Sequence:      seq,
	})
}
