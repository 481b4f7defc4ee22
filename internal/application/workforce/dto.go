package workforce

import (
	"time"

	"github.com/elints/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

// CompleteSubStepRequest identifies the sub-step being completed within the
// employee's tracking tree
type CompleteSubStepRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	StepID      uuid.UUID `json:"step_id" binding:"required"`
	SubStepID   uuid.UUID `json:"sub_step_id" binding:"required"`
}

// CompleteSubStepResponse reports how far the completion cascaded
type CompleteSubStepResponse struct {
	AlreadyCompleted bool   `json:"already_completed"`
	StepCompleted    bool   `json:"step_completed"`
	ItemCompleted    bool   `json:"item_completed"`
	OrderCompleted   bool   `json:"order_completed"`
	OrderStatus      string `json:"order_status"`
}

// StatisticsResponse is the per-employee work rollup
type StatisticsResponse struct {
	EmployeeID             uuid.UUID `json:"employee_id"`
	TotalOrdersAssigned    int       `json:"total_orders_assigned"`
	TotalOrdersCompleted   int       `json:"total_orders_completed"`
	TotalItemsAssigned     int       `json:"total_items_assigned"`
	TotalItemsCompleted    int       `json:"total_items_completed"`
	TotalStepsAssigned     int       `json:"total_steps_assigned"`
	TotalStepsCompleted    int       `json:"total_steps_completed"`
	TotalSubStepsAssigned  int       `json:"total_sub_steps_assigned"`
	TotalSubStepsCompleted int       `json:"total_sub_steps_completed"`
	CompletionRate         int       `json:"completion_rate"`
}

// WorkTreeResponse is the employee's full tracking tree
type WorkTreeResponse struct {
	EmployeeID   uuid.UUID                 `json:"employee_id"`
	Orders       []workforce.OrderTracking `json:"orders"`
	LastActiveAt time.Time                 `json:"last_active_at"`
}

// ToStatisticsResponse converts domain statistics to a response DTO
func ToStatisticsResponse(employeeID uuid.UUID, stats workforce.Statistics) StatisticsResponse {
	return StatisticsResponse{
		EmployeeID:             employeeID,
		TotalOrdersAssigned:    stats.TotalOrdersAssigned,
		TotalOrdersCompleted:   stats.TotalOrdersCompleted,
		TotalItemsAssigned:     stats.TotalItemsAssigned,
		TotalItemsCompleted:    stats.TotalItemsCompleted,
		TotalStepsAssigned:     stats.TotalStepsAssigned,
		TotalStepsCompleted:    stats.TotalStepsCompleted,
		TotalSubStepsAssigned:  stats.TotalSubStepsAssigned,
		TotalSubStepsCompleted: stats.TotalSubStepsCompleted,
		CompletionRate:         stats.CompletionRate,
	}
}
