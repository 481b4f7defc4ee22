package workforce

import (
	"math"
	"time"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrackingStatus is the completion state of a tracking node
type TrackingStatus string

const (
	TrackingPending    TrackingStatus = "pending"
	TrackingAssigned   TrackingStatus = "assigned"
	TrackingInProgress TrackingStatus = "in-progress"
	TrackingCompleted  TrackingStatus = "completed"
)

// SubStepTracking is the leaf of the tracking tree
type SubStepTracking struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Status      TrackingStatus `json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// StepTracking is completed iff all of its sub-steps are completed
type StepTracking struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Status      TrackingStatus    `json:"status"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	SubSteps    []SubStepTracking `json:"sub_steps"`
}

// ItemTracking is completed iff all of its steps are completed
type ItemTracking struct {
	OrderItemID uuid.UUID      `json:"order_item_id"`
	ItemID      uuid.UUID      `json:"item_id"`
	Name        string         `json:"name"`
	JobNumber   string         `json:"job_number"`
	Status      TrackingStatus `json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Steps       []StepTracking `json:"steps"`
}

// OrderTracking is completed iff all of its items are completed
type OrderTracking struct {
	OrderID     uuid.UUID      `json:"order_id"`
	PONumber    string         `json:"po_number"`
	Status      TrackingStatus `json:"status"`
	AssignedAt  time.Time      `json:"assigned_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Items       []ItemTracking `json:"items"`
}

// ProcessStep is a step definition used to seed the tracking tree when an
// item is first touched for an employee. Definitions come from the catalog
// item's manufacturing process.
type ProcessStep struct {
	Name     string   `json:"name"`
	SubSteps []string `json:"sub_steps"`
}

// CascadeResult reports what a sub-step completion propagated to
type CascadeResult struct {
	AlreadyCompleted bool `json:"already_completed"`
	StepCompleted    bool `json:"step_completed"`
	ItemCompleted    bool `json:"item_completed"`
	OrderCompleted   bool `json:"order_completed"`
}

// Statistics is the per-employee rollup derived from the tracking tree
type Statistics struct {
	TotalOrdersAssigned    int `json:"total_orders_assigned"`
	TotalOrdersCompleted   int `json:"total_orders_completed"`
	TotalItemsAssigned     int `json:"total_items_assigned"`
	TotalItemsCompleted    int `json:"total_items_completed"`
	TotalStepsAssigned     int `json:"total_steps_assigned"`
	TotalStepsCompleted    int `json:"total_steps_completed"`
	TotalSubStepsAssigned  int `json:"total_sub_steps_assigned"`
	TotalSubStepsCompleted int `json:"total_sub_steps_completed"`
	CompletionRate         int `json:"completion_rate"`
}

// EmployeeWorkLedger is the per-employee record of assigned orders and the
// nested completion tree. The aggregate counters are always recomputed from
// the tree, never mutated independently.
type EmployeeWorkLedger struct {
	shared.BaseAggregateRoot
	EmployeeID             uuid.UUID       `json:"employee_id" gorm:"type:uuid;not null;uniqueIndex"`
	OrdersAssigned         []OrderTracking `json:"orders_assigned" gorm:"serializer:json;type:jsonb"`
	TotalOrdersCompleted   int             `json:"total_orders_completed" gorm:"not null;default:0"`
	TotalItemsCompleted    int             `json:"total_items_completed" gorm:"not null;default:0"`
	TotalStepsCompleted    int             `json:"total_steps_completed" gorm:"not null;default:0"`
	TotalSubStepsCompleted int             `json:"total_sub_steps_completed" gorm:"not null;default:0"`
	LastActiveAt           time.Time       `json:"last_active_at"`
}

// TableName returns the database table name for employee work ledgers
func (EmployeeWorkLedger) TableName() string {
	return "employee_work_ledgers"
}

// NewEmployeeWorkLedger creates an empty ledger for an employee. Ledgers are
// materialized lazily on the first interaction for a given employee.
func NewEmployeeWorkLedger(employeeID uuid.UUID) (*EmployeeWorkLedger, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Employee reference cannot be empty")
	}
	return &EmployeeWorkLedger{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		OrdersAssigned:    make([]OrderTracking, 0),
		LastActiveAt:      time.Now(),
	}, nil
}

// OrderTrackingFor returns the tracking node for an order, or nil
func (l *EmployeeWorkLedger) OrderTrackingFor(orderID uuid.UUID) *OrderTracking {
	for i := range l.OrdersAssigned {
		if l.OrdersAssigned[i].OrderID == orderID {
			return &l.OrdersAssigned[i]
		}
	}
	return nil
}

// TrackOrder appends an order tracking node if none exists yet and returns it
func (l *EmployeeWorkLedger) TrackOrder(orderID uuid.UUID, poNumber string) *OrderTracking {
	if existing := l.OrderTrackingFor(orderID); existing != nil {
		return existing
	}
	l.OrdersAssigned = append(l.OrdersAssigned, OrderTracking{
		OrderID:    orderID,
		PONumber:   poNumber,
		Status:     TrackingAssigned,
		AssignedAt: time.Now(),
		Items:      make([]ItemTracking, 0),
	})
	l.touch()
	return &l.OrdersAssigned[len(l.OrdersAssigned)-1]
}

// TrackItem seeds an item tracking node under an order from the item's
// process-step definitions. Existing nodes are returned untouched so a
// re-touch never resets progress.
func (l *EmployeeWorkLedger) TrackItem(orderID, orderItemID, itemID uuid.UUID, name, jobNumber string, steps []ProcessStep) (*ItemTracking, error) {
	ot := l.OrderTrackingFor(orderID)
	if ot == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Order is not tracked for this employee")
	}
	for i := range ot.Items {
		if ot.Items[i].OrderItemID == orderItemID {
			return &ot.Items[i], nil
		}
	}

	item := ItemTracking{
		OrderItemID: orderItemID,
		ItemID:      itemID,
		Name:        name,
		JobNumber:   jobNumber,
		Status:      TrackingPending,
		Steps:       make([]StepTracking, 0, len(steps)),
	}
	for _, def := range steps {
		st := StepTracking{
			ID:       uuid.New(),
			Name:     def.Name,
			Status:   TrackingPending,
			SubSteps: make([]SubStepTracking, 0, len(def.SubSteps)),
		}
		for _, sub := range def.SubSteps {
			st.SubSteps = append(st.SubSteps, SubStepTracking{
				ID:     uuid.New(),
				Name:   sub,
				Status: TrackingPending,
			})
		}
		item.Steps = append(item.Steps, st)
	}
	ot.Items = append(ot.Items, item)
	l.touch()
	return &ot.Items[len(ot.Items)-1], nil
}

// CompleteSubStep marks the target sub-step completed and re-evaluates the
// cascade bottom-up. Completing an already-completed sub-step is a no-op
// reported through the result, and the aggregate counters are recomputed
// over the whole ledger so they can never double-count.
func (l *EmployeeWorkLedger) CompleteSubStep(orderID, orderItemID, stepID, subStepID uuid.UUID) (CascadeResult, error) {
	var result CascadeResult

	ot := l.OrderTrackingFor(orderID)
	if ot == nil {
		return result, shared.NewDomainError("NOT_FOUND", "Order is not tracked for this employee")
	}

	var item *ItemTracking
	for i := range ot.Items {
		if ot.Items[i].OrderItemID == orderItemID {
			item = &ot.Items[i]
			break
		}
	}
	if item == nil {
		return result, shared.NewDomainError("NOT_FOUND", "Item is not tracked for this employee")
	}

	var step *StepTracking
	for i := range item.Steps {
		if item.Steps[i].ID == stepID {
			step = &item.Steps[i]
			break
		}
	}
	if step == nil {
		return result, shared.NewDomainError("NOT_FOUND", "Step not found in item tracking")
	}

	var sub *SubStepTracking
	for i := range step.SubSteps {
		if step.SubSteps[i].ID == subStepID {
			sub = &step.SubSteps[i]
			break
		}
	}
	if sub == nil {
		return result, shared.NewDomainError("NOT_FOUND", "Sub-step not found in step tracking")
	}

	if sub.Status == TrackingCompleted {
		result.AlreadyCompleted = true
		result.StepCompleted = step.Status == TrackingCompleted
		result.ItemCompleted = item.Status == TrackingCompleted
		result.OrderCompleted = ot.Status == TrackingCompleted
		return result, nil
	}

	now := time.Now()
	sub.Status = TrackingCompleted
	sub.CompletedAt = &now

	stepWas := step.Status
	itemWas := item.Status
	orderWas := ot.Status

	l.Recalculate()

	result.StepCompleted = step.Status == TrackingCompleted && stepWas != TrackingCompleted
	result.ItemCompleted = item.Status == TrackingCompleted && itemWas != TrackingCompleted
	result.OrderCompleted = ot.Status == TrackingCompleted && orderWas != TrackingCompleted
	l.touch()

	return result, nil
}

// Recalculate recomputes every cascade status bottom-up and the four
// aggregate counters across the whole tree. Statuses are derived from leaf
// state rather than trusted, so stale flags can never drift.
func (l *EmployeeWorkLedger) Recalculate() {
	ordersDone, itemsDone, stepsDone, subsDone := 0, 0, 0, 0
	now := time.Now()

	for oi := range l.OrdersAssigned {
		ot := &l.OrdersAssigned[oi]
		orderComplete := len(ot.Items) > 0

		for ii := range ot.Items {
			item := &ot.Items[ii]
			itemComplete := len(item.Steps) > 0
			itemStarted := false

			for si := range item.Steps {
				step := &item.Steps[si]
				stepComplete := len(step.SubSteps) > 0

				for bi := range step.SubSteps {
					if step.SubSteps[bi].Status == TrackingCompleted {
						subsDone++
						itemStarted = true
					} else {
						stepComplete = false
					}
				}

				if stepComplete {
					if step.Status != TrackingCompleted {
						step.Status = TrackingCompleted
						step.CompletedAt = &now
					}
					stepsDone++
				} else {
					step.Status = TrackingPending
					step.CompletedAt = nil
					itemComplete = false
				}
			}

			switch {
			case itemComplete:
				if item.Status != TrackingCompleted {
					item.Status = TrackingCompleted
					item.CompletedAt = &now
				}
				itemsDone++
			case itemStarted:
				item.Status = TrackingInProgress
				item.CompletedAt = nil
				orderComplete = false
			default:
				item.Status = TrackingPending
				item.CompletedAt = nil
				orderComplete = false
			}
		}

		if orderComplete {
			if ot.Status != TrackingCompleted {
				ot.Status = TrackingCompleted
				ot.CompletedAt = &now
			}
			ordersDone++
		} else if ot.Status == TrackingCompleted {
			ot.Status = TrackingInProgress
			ot.CompletedAt = nil
		}
	}

	l.TotalOrdersCompleted = ordersDone
	l.TotalItemsCompleted = itemsDone
	l.TotalStepsCompleted = stepsDone
	l.TotalSubStepsCompleted = subsDone
}

// Stats derives the full statistics rollup from the tracking tree
func (l *EmployeeWorkLedger) Stats() Statistics {
	stats := Statistics{
		TotalOrdersAssigned:    len(l.OrdersAssigned),
		TotalOrdersCompleted:   l.TotalOrdersCompleted,
		TotalItemsCompleted:    l.TotalItemsCompleted,
		TotalStepsCompleted:    l.TotalStepsCompleted,
		TotalSubStepsCompleted: l.TotalSubStepsCompleted,
	}
	for oi := range l.OrdersAssigned {
		stats.TotalItemsAssigned += len(l.OrdersAssigned[oi].Items)
		for ii := range l.OrdersAssigned[oi].Items {
			stats.TotalStepsAssigned += len(l.OrdersAssigned[oi].Items[ii].Steps)
			for si := range l.OrdersAssigned[oi].Items[ii].Steps {
				stats.TotalSubStepsAssigned += len(l.OrdersAssigned[oi].Items[ii].Steps[si].SubSteps)
			}
		}
	}
	if stats.TotalSubStepsAssigned > 0 {
		rate := float64(stats.TotalSubStepsCompleted) / float64(stats.TotalSubStepsAssigned) * 100
		stats.CompletionRate = int(math.Round(rate))
	}
	return stats
}

func (l *EmployeeWorkLedger) touch() {
	l.LastActiveAt = time.Now()
	l.UpdatedAt = l.LastActiveAt
}
