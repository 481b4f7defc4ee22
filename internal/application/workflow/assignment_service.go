package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/elints/backend/internal/domain/sequence"
	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// AssignmentService handles job-number assignment of order items to
// manufacturing employees, and the progress reporting on those assignments
type AssignmentService struct {
	orders    workflow.OrderRepository
	mappings  workflow.MappingRepository
	sequencer sequence.Sequencer
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(orders workflow.OrderRepository, mappings workflow.MappingRepository, sequencer sequence.Sequencer) *AssignmentService {
	return &AssignmentService{
		orders:    orders,
		mappings:  mappings,
		sequencer: sequencer,
	}
}

// AssignJobNumbers assigns a batch of order items to one employee under
// caller-supplied job numbers. The whole batch is validated before anything
// is written: every job number must match the EJB-NNNNN format and must not
// be held by any other (order, item) pair, including pairs inside the same
// batch. On success each pair's mapping is created or overwritten, the items
// are marked assigned, and the order is persisted once.
func (s *AssignmentService) AssignJobNumbers(ctx context.Context, orderID uuid.UUID, req AssignJobNumbersRequest) (*OrderResponse, error) {
	if req.EmployeeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Employee reference cannot be empty")
	}

	// format check and intra-batch duplicate checks: a job number may not be
	// requested for two items, and an item may not appear twice
	requested := make(map[string]uuid.UUID, len(req.Assignments))
	batchItems := make(map[uuid.UUID]bool, len(req.Assignments))
	for _, a := range req.Assignments {
		if !sequence.ValidJobNumber(a.JobNumber) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Job number %q must match the EJB-NNNNN format", a.JobNumber))
		}
		if holder, seen := requested[a.JobNumber]; seen && holder != a.OrderItemID {
			return nil, shared.NewDomainError("DUPLICATE_JOB_NUMBER", fmt.Sprintf("Job number %s requested for more than one item", a.JobNumber))
		}
		if batchItems[a.OrderItemID] {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Item %s appears more than once in the batch", a.OrderItemID))
		}
		batchItems[a.OrderItemID] = true
		requested[a.JobNumber] = a.OrderItemID
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeleted() {
		return nil, shared.ErrNotFound
	}

	// cross-batch uniqueness pre-check: a number already held by a different
	// pair rejects the whole batch, even when the holder is in this order
	jobNumbers := make([]string, 0, len(requested))
	for number := range requested {
		jobNumbers = append(jobNumbers, number)
	}
	existing, err := s.mappings.FindByJobNumbers(ctx, jobNumbers)
	if err != nil {
		return nil, err
	}
	var conflicts []string
	for i := range existing {
		m := &existing[i]
		target, ok := requested[m.JobNumber]
		if !ok {
			continue
		}
		if m.OrderID != orderID || m.OrderItemID != target {
			conflicts = append(conflicts, m.JobNumber)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, shared.NewDomainError("DUPLICATE_JOB_NUMBER", fmt.Sprintf("Job numbers already in use: %s", strings.Join(conflicts, ", ")))
	}

	// assignments whose item is not part of the order are skipped
	batch := make([]*workflow.Mapping, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		item := order.ItemByID(a.OrderItemID)
		if item == nil {
			continue
		}

		mapping, err := workflow.NewMapping(order.ID, item.ID, item.ItemID, req.EmployeeID, a.JobNumber)
		if err != nil {
			return nil, err
		}
		batch = append(batch, mapping)

		if err := order.AssignItem(item.ID, req.EmployeeID); err != nil {
			return nil, err
		}
	}
	if len(batch) == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "No assignment matched an order item")
	}

	order.AssignAccountEmployee(req.EmployeeID)

	if err := s.mappings.UpsertBatch(ctx, batch); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GenerateAssignments assigns order items addressed by position, drawing a
// fresh job number from the sequencer for each assigned item. Every index is
// bounds-checked before any counter is consumed or any state changes. A nil
// employee clears the item's assignment instead.
func (s *AssignmentService) GenerateAssignments(ctx context.Context, orderID uuid.UUID, req GenerateAssignmentsRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeleted() {
		return nil, shared.ErrNotFound
	}

	seenIndexes := make(map[int]bool, len(req.Assignments))
	for _, a := range req.Assignments {
		if _, err := order.ItemAt(a.ItemIndex); err != nil {
			return nil, err
		}
		if seenIndexes[a.ItemIndex] {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Item index %d appears more than once in the batch", a.ItemIndex))
		}
		seenIndexes[a.ItemIndex] = true
	}

	creates := make([]*workflow.Mapping, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		item, err := order.ItemAt(a.ItemIndex)
		if err != nil {
			return nil, err
		}

		if a.EmployeeID == nil {
			if err := order.ClearItemAssignment(a.ItemIndex); err != nil {
				return nil, err
			}
			continue
		}

		seq, err := s.sequencer.Next(ctx, sequence.CounterJobNumber)
		if err != nil {
			return nil, err
		}
		mapping, err := workflow.NewMapping(order.ID, item.ID, item.ItemID, *a.EmployeeID, sequence.FormatJobNumber(seq))
		if err != nil {
			return nil, err
		}
		creates = append(creates, mapping)

		if err := order.AssignItem(item.ID, *a.EmployeeID); err != nil {
			return nil, err
		}
	}

	if len(creates) > 0 {
		if err := s.mappings.CreateBatch(ctx, creates); err != nil {
			return nil, err
		}
	}
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// StartItem moves an employee's pending assignment to in-progress
func (s *AssignmentService) StartItem(ctx context.Context, employeeID, orderItemID uuid.UUID) (*MappingResponse, error) {
	mapping, err := s.mappings.FindByEmployeeAndItem(ctx, employeeID, orderItemID)
	if err != nil {
		return nil, err
	}

	if err := mapping.Start(); err != nil {
		return nil, err
	}

	if err := s.mappings.Save(ctx, mapping); err != nil {
		return nil, err
	}

	response := ToMappingResponse(mapping)
	return &response, nil
}

// UpdateItemProgress reports manufacturing progress on an employee's
// assignment. Partial progress starts the item, full progress completes it.
func (s *AssignmentService) UpdateItemProgress(ctx context.Context, employeeID, orderItemID uuid.UUID, req UpdateItemProgressRequest) (*MappingResponse, error) {
	mapping, err := s.mappings.FindByEmployeeAndItem(ctx, employeeID, orderItemID)
	if err != nil {
		return nil, err
	}

	if err := mapping.UpdateProgress(req.ProgressPercentage, req.Notes); err != nil {
		return nil, err
	}

	if err := s.mappings.Save(ctx, mapping); err != nil {
		return nil, err
	}

	response := ToMappingResponse(mapping)
	return &response, nil
}

// OrderMappings lists the mappings of one order
func (s *AssignmentService) OrderMappings(ctx context.Context, orderID uuid.UUID) ([]MappingResponse, error) {
	mappings, err := s.mappings.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToMappingResponses(mappings), nil
}

// EmployeeWork lists an employee's assignments grouped by order, skipping
// orders that were deleted after assignment
func (s *AssignmentService) EmployeeWork(ctx context.Context, employeeID uuid.UUID) ([]OrderMappingsGroup, error) {
	mappings, err := s.mappings.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.groupByOrder(ctx, mappings)
}

// AllGrouped lists every mapping in the system grouped by order
func (s *AssignmentService) AllGrouped(ctx context.Context) ([]OrderMappingsGroup, error) {
	grouped, err := s.mappings.GroupedByOrder(ctx)
	if err != nil {
		return nil, err
	}

	flat := make([]workflow.Mapping, 0)
	for _, ms := range grouped {
		flat = append(flat, ms...)
	}
	groups, err := s.groupByOrder(ctx, flat)
	if err != nil {
		return nil, err
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].PONumber < groups[j].PONumber })
	return groups, nil
}

func (s *AssignmentService) groupByOrder(ctx context.Context, mappings []workflow.Mapping) ([]OrderMappingsGroup, error) {
	groups := make([]OrderMappingsGroup, 0)
	index := make(map[uuid.UUID]int)

	for i := range mappings {
		m := &mappings[i]
		pos, ok := index[m.OrderID]
		if !ok {
			order, err := s.orders.FindByID(ctx, m.OrderID)
			if err != nil {
				return nil, err
			}
			if order.IsDeleted() {
				index[m.OrderID] = -1
				continue
			}
			groups = append(groups, OrderMappingsGroup{
				OrderID:     order.ID,
				PONumber:    order.PONumber,
				OrderStatus: string(order.Status),
			})
			pos = len(groups) - 1
			index[m.OrderID] = pos
		}
		if pos < 0 {
			continue
		}
		groups[pos].Mappings = append(groups[pos].Mappings, ToMappingResponse(m))
	}

	return groups, nil
}
