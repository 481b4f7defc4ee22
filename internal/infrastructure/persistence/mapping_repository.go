package persistence

import (
	"context"
	"errors"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMappingRepository implements workflow.MappingRepository using GORM.
// Job-number uniqueness is backed by the idx_mappings_job_number unique
// index; violations surface as DUPLICATE_JOB_NUMBER regardless of how a
// write slipped past the application-level pre-check.
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// FindByOrder finds all mappings of an order
func (r *GormMappingRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]workflow.Mapping, error) {
	var mappings []workflow.Mapping
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// FindByEmployee finds all mappings assigned to an employee
func (r *GormMappingRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]workflow.Mapping, error) {
	var mappings []workflow.Mapping
	if err := r.db.WithContext(ctx).
		Where("assigned_employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// FindByPair finds the mapping of one (order, item) pair
func (r *GormMappingRepository) FindByPair(ctx context.Context, orderID, orderItemID uuid.UUID) (*workflow.Mapping, error) {
	var mapping workflow.Mapping
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND order_item_id = ?", orderID, orderItemID).
		First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// FindByEmployeeAndItem finds an employee's mapping for an order item
func (r *GormMappingRepository) FindByEmployeeAndItem(ctx context.Context, employeeID, orderItemID uuid.UUID) (*workflow.Mapping, error) {
	var mapping workflow.Mapping
	if err := r.db.WithContext(ctx).
		Where("assigned_employee_id = ? AND order_item_id = ?", employeeID, orderItemID).
		First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// FindByJobNumbers finds existing mappings holding any of the given job numbers
func (r *GormMappingRepository) FindByJobNumbers(ctx context.Context, jobNumbers []string) ([]workflow.Mapping, error) {
	if len(jobNumbers) == 0 {
		return nil, nil
	}
	var mappings []workflow.Mapping
	if err := r.db.WithContext(ctx).
		Where("job_number IN ?", jobNumbers).
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// UpsertBatch writes all mappings in one transaction. A mapping for an
// existing (order_id, order_item_id) pair overwrites the assignment and
// resets progress; a job number held elsewhere fails the whole batch.
func (r *GormMappingRepository) UpsertBatch(ctx context.Context, mappings []*workflow.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}, {Name: "order_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"assigned_employee_id", "job_number", "status",
				"progress_percentage", "started_at", "completed_at",
				"notes", "updated_at",
			}),
		}).Create(&mappings).Error
	})
	return translateMappingError(err)
}

// CreateBatch inserts all mappings in one transaction without overwriting
// existing pairs
func (r *GormMappingRepository) CreateBatch(ctx context.Context, mappings []*workflow.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&mappings).Error
	})
	return translateMappingError(err)
}

// Save creates or updates a mapping
func (r *GormMappingRepository) Save(ctx context.Context, mapping *workflow.Mapping) error {
	return translateMappingError(r.db.WithContext(ctx).Save(mapping).Error)
}

// Delete removes a mapping
func (r *GormMappingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&workflow.Mapping{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GroupedByOrder returns every mapping keyed by its order
func (r *GormMappingRepository) GroupedByOrder(ctx context.Context) (map[uuid.UUID][]workflow.Mapping, error) {
	var mappings []workflow.Mapping
	if err := r.db.WithContext(ctx).
		Order("order_id, created_at ASC").
		Find(&mappings).Error; err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]workflow.Mapping)
	for _, m := range mappings {
		grouped[m.OrderID] = append(grouped[m.OrderID], m)
	}
	return grouped, nil
}

func translateMappingError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError("DUPLICATE_JOB_NUMBER", "Job number already in use")
	}
	return err
}
