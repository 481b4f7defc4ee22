package workforce

import (
	"context"

	"github.com/google/uuid"
)

// LedgerRepository defines persistence operations for employee work ledgers
type LedgerRepository interface {
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*EmployeeWorkLedger, error)
	Save(ctx context.Context, ledger *EmployeeWorkLedger) error
	// WithEmployeeLock runs fn against the employee's ledger while holding a
	// row-level lock, creating the ledger on first touch. Concurrent cascade
	// recomputations for the same employee are serialized through this lock.
	WithEmployeeLock(ctx context.Context, employeeID uuid.UUID, fn func(ledger *EmployeeWorkLedger) error) error
}

// StepProvider resolves the manufacturing process-step definitions of a
// catalog item. Implementations sit in front of the item directory, which
// this system reads but never owns.
type StepProvider interface {
	ProcessSteps(ctx context.Context, itemID uuid.UUID) ([]ProcessStep, error)
}
