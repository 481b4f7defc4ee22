package workflow

import (
	"time"

	"github.com/elints/backend/internal/domain/sequence"
	"github.com/elints/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MappingStatus is the manufacturing status of an assigned item
type MappingStatus string

const (
	MappingStatusPending    MappingStatus = "pending"
	MappingStatusInProgress MappingStatus = "in-progress"
	MappingStatusCompleted  MappingStatus = "completed"
)

// IsValid checks if the status is a known MappingStatus
func (s MappingStatus) IsValid() bool {
	switch s {
	case MappingStatusPending, MappingStatusInProgress, MappingStatusCompleted:
		return true
	}
	return false
}

// Mapping is the denormalized (order, item) → (employee, job number)
// association. At most one mapping exists per (OrderID, OrderItemID) pair;
// re-assignment overwrites the prior employee and job number. The job
// number is unique across the whole system, enforced both by a batch
// pre-check and by the storage layer's unique index.
type Mapping struct {
	shared.BaseEntity
	OrderID            uuid.UUID     `json:"order_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_mappings_order_item"`
	OrderItemID        uuid.UUID     `json:"order_item_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_mappings_order_item"`
	ItemID             uuid.UUID     `json:"item_id" gorm:"type:uuid;not null;index"`
	AssignedEmployeeID uuid.UUID     `json:"assigned_employee_id" gorm:"type:uuid;not null;index"`
	JobNumber          string        `json:"job_number" gorm:"size:20;not null;uniqueIndex:idx_mappings_job_number"`
	Status             MappingStatus `json:"status" gorm:"size:20;not null;default:pending"`
	ProgressPercentage int           `json:"progress_percentage" gorm:"not null;default:0"`
	StartedAt          *time.Time    `json:"started_at,omitempty"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	Notes              string        `json:"notes"`
}

// TableName returns the database table name for mappings
func (Mapping) TableName() string {
	return "mappings"
}

// NewMapping creates a pending mapping for an order item
func NewMapping(orderID, orderItemID, itemID, employeeID uuid.UUID, jobNumber string) (*Mapping, error) {
	if orderID == uuid.Nil || orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order and item references are required")
	}
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Assigned employee is required")
	}
	if !sequence.ValidJobNumber(jobNumber) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Job number must match the EJB-NNNNN format")
	}

	return &Mapping{
		BaseEntity:         shared.NewBaseEntity(),
		OrderID:            orderID,
		OrderItemID:        orderItemID,
		ItemID:             itemID,
		AssignedEmployeeID: employeeID,
		JobNumber:          jobNumber,
		Status:             MappingStatusPending,
	}, nil
}

// Reassign overwrites the employee and job number of an existing mapping,
// resetting progress. Used by the upsert path when a pair is re-assigned.
func (m *Mapping) Reassign(employeeID uuid.UUID, jobNumber string) error {
	if employeeID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Assigned employee is required")
	}
	if !sequence.ValidJobNumber(jobNumber) {
		return shared.NewDomainError("VALIDATION_ERROR", "Job number must match the EJB-NNNNN format")
	}
	m.AssignedEmployeeID = employeeID
	m.JobNumber = jobNumber
	m.Status = MappingStatusPending
	m.ProgressPercentage = 0
	m.StartedAt = nil
	m.CompletedAt = nil
	m.UpdatedAt = time.Now()
	return nil
}

// Start moves a pending mapping to in-progress
func (m *Mapping) Start() error {
	if m.Status != MappingStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Item already started")
	}
	now := time.Now()
	m.Status = MappingStatusInProgress
	m.StartedAt = &now
	m.UpdatedAt = now
	return nil
}

// UpdateProgress sets the progress percentage, transitioning status the way
// the manufacturing floor expects: any progress starts the item, 100%
// completes it. StartedAt is set once and never moved.
func (m *Mapping) UpdateProgress(percentage int, notes string) error {
	if percentage < 0 || percentage > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Progress percentage must be between 0 and 100")
	}

	now := time.Now()
	m.ProgressPercentage = percentage
	if notes != "" {
		m.Notes = notes
	}

	switch {
	case percentage == 100 && m.Status != MappingStatusCompleted:
		m.Status = MappingStatusCompleted
		m.CompletedAt = &now
		if m.StartedAt == nil {
			m.StartedAt = &now
		}
	case percentage > 0 && percentage < 100:
		m.Status = MappingStatusInProgress
		if m.StartedAt == nil {
			m.StartedAt = &now
		}
	}
	m.UpdatedAt = now
	return nil
}

// Complete marks the mapping as completed
func (m *Mapping) Complete() {
	now := time.Now()
	m.Status = MappingStatusCompleted
	m.ProgressPercentage = 100
	m.CompletedAt = &now
	if m.StartedAt == nil {
		m.StartedAt = &now
	}
	m.UpdatedAt = now
}

// IsCompleted reports whether manufacturing finished for this mapping
func (m *Mapping) IsCompleted() bool {
	return m.Status == MappingStatusCompleted
}
