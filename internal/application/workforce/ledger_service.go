package workforce

import (
	"context"
	"errors"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workforce"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
)

// OrderStore is the slice of the order repository the ledger service needs
type OrderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*workflow.Order, error)
	SaveWithLock(ctx context.Context, order *workflow.Order) error
}

// MappingStore is the slice of the mapping repository the ledger service needs
type MappingStore interface {
	FindByPair(ctx context.Context, orderID, orderItemID uuid.UUID) (*workflow.Mapping, error)
	Save(ctx context.Context, mapping *workflow.Mapping) error
}

// LedgerService drives the per-employee work tracking tree. Completions are
// serialized per employee through the repository lock, and item or order
// completions are mirrored back onto the order and its mapping.
type LedgerService struct {
	ledgers  workforce.LedgerRepository
	orders   OrderStore
	mappings MappingStore
	steps    workforce.StepProvider
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgers workforce.LedgerRepository, orders OrderStore, mappings MappingStore, steps workforce.StepProvider) *LedgerService {
	return &LedgerService{
		ledgers:  ledgers,
		orders:   orders,
		mappings: mappings,
		steps:    steps,
	}
}

// TrackItem materializes the tracking nodes for an order item in the
// employee's ledger and returns the item node, so the caller learns the step
// and sub-step identifiers it will later complete. Re-tracking an item never
// resets its progress.
func (s *LedgerService) TrackItem(ctx context.Context, employeeID, orderID, orderItemID uuid.UUID) (*workforce.ItemTracking, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	item := order.ItemByID(orderItemID)
	if item == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Order item not found")
	}

	mapping, err := s.mappings.FindByPair(ctx, order.ID, item.ID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	jobNumber := ""
	if mapping != nil {
		jobNumber = mapping.JobNumber
	}

	stepDefs, err := s.steps.ProcessSteps(ctx, item.ItemID)
	if err != nil {
		return nil, err
	}

	var node workforce.ItemTracking
	err = s.ledgers.WithEmployeeLock(ctx, employeeID, func(ledger *workforce.EmployeeWorkLedger) error {
		ledger.TrackOrder(order.ID, order.PONumber)
		tracked, err := ledger.TrackItem(order.ID, item.ID, item.ItemID, item.Name, jobNumber, stepDefs)
		if err != nil {
			return err
		}
		node = *tracked
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &node, nil
}

// CompleteSubStep marks one sub-step of the employee's tracking tree done
// and propagates the completion upward. The tracking nodes for the order and
// item are materialized on first touch from the order and the item's process
// steps. When the cascade completes the item, the order item and its mapping
// are marked completed; when it completes the order, the order itself moves
// to Completed.
func (s *LedgerService) CompleteSubStep(ctx context.Context, employeeID uuid.UUID, req CompleteSubStepRequest) (*CompleteSubStepResponse, error) {
	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsDeleted() {
		return nil, shared.ErrNotFound
	}
	item := order.ItemByID(req.OrderItemID)
	if item == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Order item not found")
	}

	mapping, err := s.mappings.FindByPair(ctx, order.ID, item.ID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	jobNumber := ""
	if mapping != nil {
		jobNumber = mapping.JobNumber
	}

	stepDefs, err := s.steps.ProcessSteps(ctx, item.ItemID)
	if err != nil {
		return nil, err
	}

	var result workforce.CascadeResult
	err = s.ledgers.WithEmployeeLock(ctx, employeeID, func(ledger *workforce.EmployeeWorkLedger) error {
		ledger.TrackOrder(order.ID, order.PONumber)
		if _, err := ledger.TrackItem(order.ID, item.ID, item.ItemID, item.Name, jobNumber, stepDefs); err != nil {
			return err
		}
		result, err = ledger.CompleteSubStep(req.OrderID, req.OrderItemID, req.StepID, req.SubStepID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.ItemCompleted {
		if err := order.MarkItemCompleted(item.ID); err != nil {
			return nil, err
		}
		if mapping != nil && !mapping.IsCompleted() {
			mapping.Complete()
			if err := s.mappings.Save(ctx, mapping); err != nil {
				return nil, err
			}
		}
	}
	if result.OrderCompleted {
		order.ForceComplete("")
	}
	if result.ItemCompleted || result.OrderCompleted {
		if err := s.orders.SaveWithLock(ctx, order); err != nil {
			return nil, err
		}
	}

	return &CompleteSubStepResponse{
		AlreadyCompleted: result.AlreadyCompleted,
		StepCompleted:    result.StepCompleted,
		ItemCompleted:    result.ItemCompleted,
		OrderCompleted:   result.OrderCompleted,
		OrderStatus:      string(order.Status),
	}, nil
}

// Statistics returns the employee's work rollup. An employee with no ledger
// yet gets zero statistics; nothing is materialized on a read.
func (s *LedgerService) Statistics(ctx context.Context, employeeID uuid.UUID) (*StatisticsResponse, error) {
	ledger, err := s.ledgers.FindByEmployee(ctx, employeeID)
	if err != nil {
		if isNotFound(err) {
			response := ToStatisticsResponse(employeeID, workforce.Statistics{})
			return &response, nil
		}
		return nil, err
	}

	response := ToStatisticsResponse(employeeID, ledger.Stats())
	return &response, nil
}

// WorkTree returns the employee's full tracking tree
func (s *LedgerService) WorkTree(ctx context.Context, employeeID uuid.UUID) (*WorkTreeResponse, error) {
	ledger, err := s.ledgers.FindByEmployee(ctx, employeeID)
	if err != nil {
		if isNotFound(err) {
			return &WorkTreeResponse{
				EmployeeID: employeeID,
				Orders:     []workforce.OrderTracking{},
			}, nil
		}
		return nil, err
	}

	return &WorkTreeResponse{
		EmployeeID:   ledger.EmployeeID,
		Orders:       ledger.OrdersAssigned,
		LastActiveAt: ledger.LastActiveAt,
	}, nil
}

func isNotFound(err error) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == "NOT_FOUND"
}
