package workflow

import (
	"context"

	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// FlowCountsCache caches the stage-count projection, which is read on every
// dashboard load but only changes when an order moves. A nil cache disables
// caching; a miss or cache failure falls through to the database.
type FlowCountsCache interface {
	GetFlowCounts(ctx context.Context) (map[string]int64, bool)
	SetFlowCounts(ctx context.Context, counts map[string]int64)
	InvalidateFlowCounts(ctx context.Context)
}

// SummaryService computes the dashboard projections. All projections exclude
// Deleted orders.
type SummaryService struct {
	orders workflow.OrderRepository
	cache  FlowCountsCache
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(orders workflow.OrderRepository, cache FlowCountsCache) *SummaryService {
	return &SummaryService{orders: orders, cache: cache}
}

// OrdersSummary returns the order totals split by accounts assignment
func (s *SummaryService) OrdersSummary(ctx context.Context) (*OrdersSummaryResponse, error) {
	total, err := s.orders.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	mapped, err := s.orders.CountAssigned(ctx)
	if err != nil {
		return nil, err
	}
	notMapped, err := s.orders.CountUnassigned(ctx)
	if err != nil {
		return nil, err
	}

	return &OrdersSummaryResponse{
		TotalOrders:     total,
		MappedOrders:    mapped,
		NotMappedOrders: notMapped,
	}, nil
}

// EmployeeStats returns the per-employee order totals. Pending is always
// derived from the other two counts, never stored.
func (s *SummaryService) EmployeeStats(ctx context.Context, employeeID uuid.UUID) (*EmployeeStatsResponse, error) {
	total, err := s.orders.CountByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	completed, err := s.orders.CountByEmployeeAndStatus(ctx, employeeID, workflow.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}

	pending := total - completed
	if pending < 0 {
		pending = 0
	}

	return &EmployeeStatsResponse{
		EmployeeID:     employeeID,
		TotalAssigned:  total,
		CompletedCount: completed,
		PendingCount:   pending,
	}, nil
}

// FlowCounts returns the order count per stage. Every stage of the chain is
// present in the result, zero-valued when no order sits in it; Deleted is
// never reported.
func (s *SummaryService) FlowCounts(ctx context.Context) (*FlowCountsResponse, error) {
	if s.cache != nil {
		if counts, ok := s.cache.GetFlowCounts(ctx); ok {
			return &FlowCountsResponse{Counts: counts}, nil
		}
	}

	grouped, err := s.orders.CountGroupedByStatus(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(workflow.StageChain))
	for _, stage := range workflow.StageChain {
		counts[string(stage)] = grouped[stage]
	}

	if s.cache != nil {
		s.cache.SetFlowCounts(ctx, counts)
	}

	return &FlowCountsResponse{Counts: counts}, nil
}

// InvalidateFlowCounts drops the cached stage counts after an order moves
func (s *SummaryService) InvalidateFlowCounts(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateFlowCounts(ctx)
	}
}
