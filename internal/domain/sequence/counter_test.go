package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatJobNumber(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "EJB-00001"},
		{42, "EJB-00042"},
		{99999, "EJB-99999"},
		{100000, "EJB-100000"}, // padding grows past five digits
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatJobNumber(tt.seq))
	}
}

func TestValidJobNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"EJB-00001", true},
		{"EJB-99999", true},
		{"EJB-1", false},
		{"EJB-000001", false},
		{"ejb-00001", false},
		{"INV-00001", false},
		{"EJB00001", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidJobNumber(tt.input))
		})
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-00007", FormatInvoiceNumber("INV", 2025, 7))
	assert.Equal(t, "BILL-2026-12345", FormatInvoiceNumber("BILL", 2026, 12345))
}
