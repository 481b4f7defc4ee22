package workflow

import (
	"context"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	// SaveWithLock persists the order under an optimistic version check,
	// failing with CONCURRENCY_CONFLICT when the stored version has moved.
	SaveWithLock(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Dashboard projections. All exclude Deleted orders.
	CountActive(ctx context.Context) (int64, error)
	CountAssigned(ctx context.Context) (int64, error)
	CountUnassigned(ctx context.Context) (int64, error)
	CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error)
	CountByEmployeeAndStatus(ctx context.Context, employeeID uuid.UUID, status OrderStatus) (int64, error)
	CountGroupedByStatus(ctx context.Context) (map[OrderStatus]int64, error)
}

// MappingRepository defines persistence operations for item mappings.
// Implementations must enforce job-number uniqueness at write time and
// surface violations as DUPLICATE_JOB_NUMBER.
type MappingRepository interface {
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Mapping, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Mapping, error)
	FindByPair(ctx context.Context, orderID, orderItemID uuid.UUID) (*Mapping, error)
	FindByEmployeeAndItem(ctx context.Context, employeeID, orderItemID uuid.UUID) (*Mapping, error)
	// FindByJobNumbers returns existing mappings holding any of the given
	// job numbers, for the batch duplicate pre-check.
	FindByJobNumbers(ctx context.Context, jobNumbers []string) ([]Mapping, error)
	// UpsertBatch writes all mappings in one transaction, overwriting any
	// prior mapping for the same (orderID, orderItemID) pair. No partial
	// application: a duplicate job number fails the whole batch.
	UpsertBatch(ctx context.Context, mappings []*Mapping) error
	// CreateBatch inserts all mappings in one transaction without
	// overwriting existing pairs.
	CreateBatch(ctx context.Context, mappings []*Mapping) error
	Save(ctx context.Context, mapping *Mapping) error
	Delete(ctx context.Context, id uuid.UUID) error
	GroupedByOrder(ctx context.Context) (map[uuid.UUID][]Mapping, error)
}
