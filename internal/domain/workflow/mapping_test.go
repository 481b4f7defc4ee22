package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapping(t *testing.T) *Mapping {
	t.Helper()
	m, err := NewMapping(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "EJB-00001")
	require.NoError(t, err)
	return m
}

func TestNewMapping_Validation(t *testing.T) {
	orderID, itemID, catalogID, empID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	_, err := NewMapping(uuid.Nil, itemID, catalogID, empID, "EJB-00001")
	assert.Error(t, err)

	_, err = NewMapping(orderID, itemID, catalogID, uuid.Nil, "EJB-00001")
	assert.Error(t, err)

	_, err = NewMapping(orderID, itemID, catalogID, empID, "JOB-1")
	assert.Error(t, err)

	m, err := NewMapping(orderID, itemID, catalogID, empID, "EJB-00042")
	require.NoError(t, err)
	assert.Equal(t, MappingStatusPending, m.Status)
	assert.Equal(t, 0, m.ProgressPercentage)
}

func TestMapping_Start(t *testing.T) {
	m := testMapping(t)

	require.NoError(t, m.Start())
	assert.Equal(t, MappingStatusInProgress, m.Status)
	assert.NotNil(t, m.StartedAt)

	assert.Error(t, m.Start(), "starting twice should fail")
}

func TestMapping_UpdateProgress(t *testing.T) {
	tests := []struct {
		name       string
		pct        int
		wantStatus MappingStatus
		wantErr    bool
	}{
		{"zero keeps pending", 0, MappingStatusPending, false},
		{"partial starts item", 40, MappingStatusInProgress, false},
		{"full completes item", 100, MappingStatusCompleted, false},
		{"negative rejected", -1, "", true},
		{"over 100 rejected", 101, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMapping(t)
			err := m.UpdateProgress(tt.pct, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, m.Status)
		})
	}
}

func TestMapping_UpdateProgress_StartedAtSetOnce(t *testing.T) {
	m := testMapping(t)
	require.NoError(t, m.UpdateProgress(10, ""))
	first := m.StartedAt
	require.NotNil(t, first)

	require.NoError(t, m.UpdateProgress(60, "halfway"))
	assert.Equal(t, first, m.StartedAt)
	assert.Equal(t, "halfway", m.Notes)
}

func TestMapping_Complete(t *testing.T) {
	m := testMapping(t)
	m.Complete()
	assert.True(t, m.IsCompleted())
	assert.Equal(t, 100, m.ProgressPercentage)
	assert.NotNil(t, m.CompletedAt)
	assert.NotNil(t, m.StartedAt)
}

func TestMapping_Reassign(t *testing.T) {
	m := testMapping(t)
	require.NoError(t, m.UpdateProgress(50, "half done"))

	newEmployee := uuid.New()
	require.NoError(t, m.Reassign(newEmployee, "EJB-00099"))
	assert.Equal(t, newEmployee, m.AssignedEmployeeID)
	assert.Equal(t, "EJB-00099", m.JobNumber)
	assert.Equal(t, MappingStatusPending, m.Status)
	assert.Equal(t, 0, m.ProgressPercentage)
	assert.Nil(t, m.StartedAt)

	assert.Error(t, m.Reassign(uuid.Nil, "EJB-00100"))
	assert.Error(t, m.Reassign(uuid.New(), "bad-number"))
}
