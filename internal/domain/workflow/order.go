package workflow

import (
	"fmt"
	"time"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the stage of an order in the manufacturing flow
type OrderStatus string

const (
	OrderStatusNew           OrderStatus = "New"
	OrderStatusVerified      OrderStatus = "Verified"
	OrderStatusManufacturing OrderStatus = "Manufacturing"
	OrderStatusQualityCheck  OrderStatus = "Quality_Check"
	OrderStatusDocumentation OrderStatus = "Documentation"
	OrderStatusDispatch      OrderStatus = "Dispatch"
	OrderStatusCompleted     OrderStatus = "Completed"
	OrderStatusDeleted       OrderStatus = "Deleted"
)

// StageChain is the fixed ordered sequence of non-terminal order stages.
// Deleted is not part of the chain; it is only reachable through the
// administrative deletion path.
var StageChain = []OrderStatus{
	OrderStatusNew,
	OrderStatusVerified,
	OrderStatusManufacturing,
	OrderStatusQualityCheck,
	OrderStatusDocumentation,
	OrderStatusDispatch,
	OrderStatusCompleted,
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	if s == OrderStatusDeleted {
		return true
	}
	for _, stage := range StageChain {
		if s == stage {
			return true
		}
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// NextStage returns the stage immediately following s in the chain.
// The second return is false when s is Completed, Deleted, or unknown.
func (s OrderStatus) NextStage() (OrderStatus, bool) {
	for i, stage := range StageChain {
		if s == stage {
			if i+1 < len(StageChain) {
				return StageChain[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// IsTerminal reports whether no further stage transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusDeleted
}

// ItemPriority is a per-item priority flag
type ItemPriority string

const (
	PriorityNormal ItemPriority = "Normal"
	PriorityHigh   ItemPriority = "High"
)

// IsValid checks if the priority is a known value
func (p ItemPriority) IsValid() bool {
	return p == PriorityNormal || p == PriorityHigh
}

// StatusEntry is one append-only record in an order's status history
type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderItem is a line item embedded in an order. Items are exclusively owned
// by their order; the ID is the stable sub-identifier used to correlate
// mappings, since the referenced catalog item is not unique within an order.
type OrderItem struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	AssignedTo   *uuid.UUID      `json:"assigned_to,omitempty"`
	Completed    bool            `json:"completed"`
	Priority     ItemPriority    `json:"priority"`
}

// NewOrderItem creates a new order line item. Amount is derived from
// quantity and rate; priority defaults to Normal when unset.
func NewOrderItem(itemID uuid.UUID, name string, quantity decimal.Decimal, unit string, rate decimal.Decimal, deliveryDate *time.Time, priority ItemPriority) (*OrderItem, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item reference cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Rate cannot be negative")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown priority %q", priority))
	}

	return &OrderItem{
		ID:           uuid.New(),
		ItemID:       itemID,
		Name:         name,
		Quantity:     quantity,
		Unit:         unit,
		Rate:         rate,
		Amount:       quantity.Mul(rate),
		DeliveryDate: deliveryDate,
		Priority:     priority,
	}, nil
}

// Order is the order aggregate root. It owns its item list, status and
// status history, and enforces the stage state machine.
type Order struct {
	shared.BaseAggregateRoot
	PartyID                 uuid.UUID     `json:"party_id" gorm:"type:uuid;not null;index"`
	PONumber                string        `json:"po_number" gorm:"size:100"`
	PODate                  time.Time     `json:"po_date"`
	EstimatedDeliveryDate   *time.Time    `json:"estimated_delivery_date,omitempty"`
	Status                  OrderStatus   `json:"status" gorm:"size:32;not null;index"`
	AssignedAccountEmployee *uuid.UUID    `json:"assigned_account_employee,omitempty" gorm:"type:uuid;index"`
	StatusHistory           []StatusEntry `json:"status_history" gorm:"serializer:json;type:jsonb"`
	Items                   []OrderItem   `json:"items" gorm:"serializer:json;type:jsonb"`
	TotalAmount             decimal.Decimal `json:"total_amount" gorm:"type:numeric(14,2)"`
	Notes                   string          `json:"notes"`
}

// TableName returns the database table name for orders
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the New stage. The status history is
// seeded with a creation entry so it is never empty. The total amount is
// always derived from the item amounts; caller-supplied totals are ignored.
func NewOrder(partyID uuid.UUID, poNumber string, items []OrderItem) (*Order, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party reference cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartyID:           partyID,
		PONumber:          poNumber,
		PODate:            time.Now(),
		Status:            OrderStatusNew,
		StatusHistory: []StatusEntry{{
			Status:    OrderStatusNew,
			Note:      "Order Created",
			Timestamp: time.Now(),
		}},
		Items:       make([]OrderItem, 0, len(items)),
		TotalAmount: decimal.Zero,
	}

	for i := range items {
		item := items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		if item.Priority == "" {
			item.Priority = PriorityNormal
		}
		if item.Amount.IsZero() {
			item.Amount = item.Quantity.Mul(item.Rate)
		}
		order.Items = append(order.Items, item)
	}
	order.recalculateTotal()

	return order, nil
}

// Advance moves the order to the requested status, which must be exactly the
// next stage in the chain. Any other request fails with INVALID_TRANSITION.
// Deleted can never be reached through Advance.
func (o *Order) Advance(requested OrderStatus, note string) error {
	if !requested.IsValid() || requested == OrderStatusDeleted {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Invalid status value %q", requested))
	}

	allowedNext, ok := o.Status.NextStage()
	if !ok {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Order in %q cannot be advanced further", o.Status))
	}
	if requested != allowedNext {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Invalid transition. Next allowed status is %q", allowedNext))
	}

	if note == "" {
		note = fmt.Sprintf("Moved to %s", requested)
	}
	o.setStatus(requested, note)

	return nil
}

// MarkDeleted sets the terminal Deleted status through the administrative
// deletion path, bypassing the single-step stage validator.
func (o *Order) MarkDeleted(note string) error {
	if o.Status == OrderStatusDeleted {
		return shared.NewDomainError("INVALID_STATE", "Order is already deleted")
	}
	if note == "" {
		note = "Order deleted"
	}
	o.setStatus(OrderStatusDeleted, note)
	return nil
}

// ForceComplete sets the Completed status directly. Used by the work-ledger
// cascade when every item in the order has been manufactured; the regular
// stage chain still applies to all caller-driven transitions.
func (o *Order) ForceComplete(note string) {
	if o.Status == OrderStatusCompleted || o.Status == OrderStatusDeleted {
		return
	}
	if note == "" {
		note = "All items completed"
	}
	o.setStatus(OrderStatusCompleted, note)
}

func (o *Order) setStatus(status OrderStatus, note string) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    status,
		Note:      note,
		Timestamp: time.Now(),
	})
	o.UpdatedAt = time.Now()
}

// IsDeleted reports whether the order has been administratively deleted
func (o *Order) IsDeleted() bool {
	return o.Status == OrderStatusDeleted
}

// ItemByID returns the item with the given sub-identifier, or nil
func (o *Order) ItemByID(orderItemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == orderItemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ItemAt returns the item at the given position, failing with INVALID_INDEX
// when the index is out of range
func (o *Order) ItemAt(index int) (*OrderItem, error) {
	if index < 0 || index >= len(o.Items) {
		return nil, shared.NewDomainError("INVALID_INDEX", fmt.Sprintf("Item index %d out of range [0, %d)", index, len(o.Items)))
	}
	return &o.Items[index], nil
}

// AssignItem sets the assignee of the item with the given sub-identifier
func (o *Order) AssignItem(orderItemID, employeeID uuid.UUID) error {
	item := o.ItemByID(orderItemID)
	if item == nil {
		return shared.NewDomainError("NOT_FOUND", "Order item not found")
	}
	item.AssignedTo = &employeeID
	o.UpdatedAt = time.Now()
	return nil
}

// ClearItemAssignment removes the assignee of the item at the given position
func (o *Order) ClearItemAssignment(index int) error {
	item, err := o.ItemAt(index)
	if err != nil {
		return err
	}
	item.AssignedTo = nil
	o.UpdatedAt = time.Now()
	return nil
}

// AssignAccountEmployee sets the order-level accounts assignee
func (o *Order) AssignAccountEmployee(employeeID uuid.UUID) {
	o.AssignedAccountEmployee = &employeeID
	o.UpdatedAt = time.Now()
}

// MarkItemCompleted mirrors a completed manufacturing item onto the order
func (o *Order) MarkItemCompleted(orderItemID uuid.UUID) error {
	item := o.ItemByID(orderItemID)
	if item == nil {
		return shared.NewDomainError("NOT_FOUND", "Order item not found")
	}
	item.Completed = true
	o.UpdatedAt = time.Now()
	return nil
}

// AllItemsCompleted reports whether every item has been manufactured
func (o *Order) AllItemsCompleted() bool {
	if len(o.Items) == 0 {
		return false
	}
	for i := range o.Items {
		if !o.Items[i].Completed {
			return false
		}
	}
	return true
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Amount)
	}
	o.TotalAmount = total
}
