package persistence

import (
	"context"

	"gorm.io/gorm"
)

// GormSequencer implements sequence.Sequencer on a counters table. The
// increment is a single upsert statement, so concurrent callers serialize on
// the row and can never observe the same value twice.
type GormSequencer struct {
	db *gorm.DB
}

// NewGormSequencer creates a new GormSequencer
func NewGormSequencer(db *gorm.DB) *GormSequencer {
	return &GormSequencer{db: db}
}

// Next atomically increments the named counter and returns the new value.
// A counter that does not exist yet starts at 1.
func (r *GormSequencer) Next(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, seq) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		 RETURNING seq`,
		name,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
