package persistence

import (
	"context"
	"errors"

	"github.com/elints/backend/internal/domain/shared"
	"github.com/elints/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements workforce.LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByEmployee finds an employee's work ledger
func (r *GormLedgerRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*workforce.EmployeeWorkLedger, error) {
	var ledger workforce.EmployeeWorkLedger
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&ledger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// Save creates or updates a work ledger
func (r *GormLedgerRepository) Save(ctx context.Context, ledger *workforce.EmployeeWorkLedger) error {
	return r.db.WithContext(ctx).Save(ledger).Error
}

// WithEmployeeLock runs fn against the employee's ledger under a row-level
// lock, creating the ledger on first touch. Concurrent completions for the
// same employee serialize on the lock, so the cascade recomputation always
// runs against the latest tree.
func (r *GormLedgerRepository) WithEmployeeLock(ctx context.Context, employeeID uuid.UUID, fn func(ledger *workforce.EmployeeWorkLedger) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ledger workforce.EmployeeWorkLedger
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("employee_id = ?", employeeID).
			First(&ledger).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, cerr := workforce.NewEmployeeWorkLedger(employeeID)
			if cerr != nil {
				return cerr
			}
			if cerr := tx.Create(created).Error; cerr != nil {
				// another transaction created the ledger first; lock theirs
				if !errors.Is(cerr, gorm.ErrDuplicatedKey) {
					return cerr
				}
				if lerr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					Where("employee_id = ?", employeeID).
					First(&ledger).Error; lerr != nil {
					return lerr
				}
			} else {
				ledger = *created
			}
		} else if err != nil {
			return err
		}

		if err := fn(&ledger); err != nil {
			return err
		}

		return tx.Save(&ledger).Error
	})
}
