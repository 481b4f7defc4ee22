package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements workflow.OrderRepository using GORM. All
// list and count queries exclude Deleted orders; FindByID returns them so
// the caller can distinguish deleted from missing.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Order, error) {
	var order workflow.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders with filtering and pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]workflow.Order, error) {
	var orders []workflow.Order
	query := r.applyFilter(r.active(ctx), filter, true)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.active(ctx), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *workflow.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *workflow.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		res := tx.Model(&workflow.Order{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion)
		if res.Error != nil {
			return res.Error
		}
		// Scan reports no rows via RowsAffected, not ErrRecordNotFound
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != order.Version {
			return shared.ErrConcurrencyConflict
		}

		order.Version++
		order.UpdatedAt = time.Now()

		result := tx.Model(&workflow.Order{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Select("party_id", "po_number", "po_date", "estimated_delivery_date",
				"status", "assigned_account_employee", "status_history", "items",
				"total_amount", "notes", "version", "updated_at").
			Updates(order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Delete removes an order row entirely. The administrative deletion path
// normally keeps the row with a Deleted status; this is for cleanup jobs.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&workflow.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActive counts all non-deleted orders
func (r *GormOrderRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.active(ctx).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAssigned counts non-deleted orders with an accounts assignee
func (r *GormOrderRepository) CountAssigned(ctx context.Context) (int64, error) {
	var count int64
	if err := r.active(ctx).
		Where("assigned_account_employee IS NOT NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnassigned counts non-deleted orders without an accounts assignee
func (r *GormOrderRepository) CountUnassigned(ctx context.Context) (int64, error) {
	var count int64
	if err := r.active(ctx).
		Where("assigned_account_employee IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByEmployee counts non-deleted orders assigned to an employee
func (r *GormOrderRepository) CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.active(ctx).
		Where("assigned_account_employee = ?", employeeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByEmployeeAndStatus counts an employee's orders in a given stage
func (r *GormOrderRepository) CountByEmployeeAndStatus(ctx context.Context, employeeID uuid.UUID, status workflow.OrderStatus) (int64, error) {
	var count int64
	if err := r.active(ctx).
		Where("assigned_account_employee = ? AND status = ?", employeeID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountGroupedByStatus counts non-deleted orders per stage
func (r *GormOrderRepository) CountGroupedByStatus(ctx context.Context) (map[workflow.OrderStatus]int64, error) {
	var rows []struct {
		Status workflow.OrderStatus
		Total  int64
	}
	if err := r.active(ctx).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[workflow.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *GormOrderRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&workflow.Order{}).
		Where("status <> ?", workflow.OrderStatusDeleted)
}

var orderSortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"po_date":      true,
	"po_number":    true,
	"status":       true,
	"total_amount": true,
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("po_number ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if partyID, ok := filter.Filters["party_id"]; ok {
		query = query.Where("party_id = ?", partyID)
	}
	if employeeID, ok := filter.Filters["assigned_account_employee"]; ok {
		query = query.Where("assigned_account_employee = ?", employeeID)
	}

	if !paginate {
		return query
	}

	orderBy := filter.OrderBy
	if !orderSortColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	query = query.Order(orderBy + " " + dir)

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}
