package sequence

import (
	"context"
	"fmt"
	"regexp"
)

// Counter is a named monotonic sequence. It is the sole source of truth for
// the numeric suffixes of generated identifiers (job numbers, invoice
// numbers). Counters are never decremented.
type Counter struct {
	Name string `gorm:"primaryKey;size:64"`
	Seq  int64  `gorm:"not null;default:0"`
}

// TableName returns the database table name for counters
func (Counter) TableName() string {
	return "counters"
}

// Well-known counter names
const (
	CounterJobNumber   = "jobNumber"
	CounterSaleInvoice = "saleInvoice"
	CounterPurchase    = "purchaseBill"
)

// Sequencer atomically increments a named counter and returns the new value.
// The counter is created at zero on first use, so the first value returned
// for any name is 1. Implementations must perform the increment as a single
// atomic read-modify-write so concurrent callers never observe duplicates.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// JobNumberPrefix is the prefix of manufacturing job numbers
const JobNumberPrefix = "EJB"

var jobNumberPattern = regexp.MustCompile(`^EJB-\d{5}$`)

// FormatJobNumber renders a sequence value as a job number (EJB-00001)
func FormatJobNumber(seq int64) string {
	return fmt.Sprintf("%s-%05d", JobNumberPrefix, seq)
}

// ValidJobNumber reports whether s matches the EJB-NNNNN job number format
func ValidJobNumber(s string) bool {
	return jobNumberPattern.MatchString(s)
}

// FormatInvoiceNumber renders a sequence value as a year-prefixed invoice
// number (INV-2025-00001)
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}
