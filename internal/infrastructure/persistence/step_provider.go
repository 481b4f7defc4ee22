package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/elints/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessDefinition stores the manufacturing step definitions of a catalog
// item. Items without a definition fall back to the standard process.
type ProcessDefinition struct {
	ItemID    uuid.UUID               `gorm:"type:uuid;primaryKey"`
	Steps     []workforce.ProcessStep `gorm:"serializer:json;type:jsonb"`
	UpdatedAt time.Time
}

// TableName returns the database table name for process definitions
func (ProcessDefinition) TableName() string {
	return "process_definitions"
}

// defaultProcessSteps is the standard fabrication flow applied to items
// without their own definition
var defaultProcessSteps = []workforce.ProcessStep{
	{Name: "Material Preparation", SubSteps: []string{"Material Inspection", "Cutting"}},
	{Name: "Fabrication", SubSteps: []string{"Forming", "Welding", "Finishing"}},
	{Name: "Quality Check", SubSteps: []string{"Dimensional Check", "Final Inspection"}},
}

// GormStepProvider implements workforce.StepProvider over the catalog's
// process definitions
type GormStepProvider struct {
	db *gorm.DB
}

// NewGormStepProvider creates a new GormStepProvider
func NewGormStepProvider(db *gorm.DB) *GormStepProvider {
	return &GormStepProvider{db: db}
}

// ProcessSteps returns the step definitions of a catalog item, falling back
// to the standard process when the item has none
func (p *GormStepProvider) ProcessSteps(ctx context.Context, itemID uuid.UUID) ([]workforce.ProcessStep, error) {
	var def ProcessDefinition
	if err := p.db.WithContext(ctx).First(&def, "item_id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultProcessSteps, nil
		}
		return nil, err
	}
	if len(def.Steps) == 0 {
		return defaultProcessSteps, nil
	}
	return def.Steps, nil
}
