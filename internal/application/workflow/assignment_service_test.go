package workflow

import (
	"context"
	"testing"

	"github.com/elints/backend/internal/domain/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type assignmentFixture struct {
	service   *AssignmentService
	orderRepo *MockOrderRepository
	mapRepo   *MockMappingRepository
	sequencer *MockSequencer
	order     *workflow.Order
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	mapRepo := new(MockMappingRepository)
	sequencer := new(MockSequencer)
	return &assignmentFixture{
		service:   NewAssignmentService(orderRepo, mapRepo, sequencer),
		orderRepo: orderRepo,
		mapRepo:   mapRepo,
		sequencer: sequencer,
		order:     newTestOrder(t, 2),
	}
}

func TestAssignJobNumbers_Success(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
	f.mapRepo.On("FindByJobNumbers", mock.Anything, mock.Anything).Return([]workflow.Mapping{}, nil)
	f.mapRepo.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(batch []*workflow.Mapping) bool {
		return len(batch) == 2
	})).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, f.order).Return(nil)

	resp, err := f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: employeeID,
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: f.order.Items[0].ID, JobNumber: "EJB-00001"},
			{OrderItemID: f.order.Items[1].ID, JobNumber: "EJB-00002"},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.AssignedAccountEmployee)
	assert.Equal(t, employeeID, *resp.AssignedAccountEmployee)
	require.NotNil(t, f.order.Items[0].AssignedTo)
	assert.Equal(t, employeeID, *f.order.Items[0].AssignedTo)
	require.NotNil(t, f.order.Items[1].AssignedTo)
	f.mapRepo.AssertExpectations(t)
	f.orderRepo.AssertExpectations(t)
}

func TestAssignJobNumbers_BadFormat(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: uuid.New(),
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: f.order.Items[0].ID, JobNumber: "JOB-1"},
		},
	})

	assert.Equal(t, "VALIDATION_ERROR", domainCode(t, err))
	f.orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAssignJobNumbers_IntraBatchDuplicate(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: uuid.New(),
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: f.order.Items[0].ID, JobNumber: "EJB-00001"},
			{OrderItemID: f.order.Items[1].ID, JobNumber: "EJB-00001"},
		},
	})

	assert.Equal(t, "DUPLICATE_JOB_NUMBER", domainCode(t, err))
}

func TestAssignJobNumbers_ItemRepeatedInBatch(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: uuid.New(),
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: f.order.Items[0].ID, JobNumber: "EJB-00001"},
			{OrderItemID: f.order.Items[0].ID, JobNumber: "EJB-00002"},
		},
	})

	assert.Equal(t, "VALIDATION_ERROR", domainCode(t, err))
	assert.Contains(t, err.Error(), "more than once")
	f.mapRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestAssignJobNumbers_NumberHeldByOtherPair(t *testing.T) {
	f := newAssignmentFixture(t)

	held, err := workflow.NewMapping(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "EJB-00001")
	require.NoError(t, err)

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
	f.mapRepo.On("FindByJobNumbers", mock.Anything, mock.Anything).Return([]workflow.Mapping{*held}, nil)

	_, err = f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: uuid.New(),
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: f.order.Items[0].ID, JobNumber: "EJB-00001"},
		},
	})

	assert.Equal(t, "DUPLICATE_JOB_NUMBER", domainCode(t, err))
	assert.Contains(t, err.Error(), "EJB-00001")
	f.mapRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestAssignJobNumbers_SamePairKeepsOwnNumber(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()

	// the number is already held by the very pair being re-assigned
	held, err := workflow.NewMapping(f.order.ID, f.order.Items[0].ID, f.order.Items[0].ItemID, uuid.New(), "EJB-00001")
	require.NoError(t, err)

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
	f.mapRepo.On("FindByJobNumbers", mock.Anything, mock.Anything).Return([]workflow.Mapping{*held}, nil)
	f.mapRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, f.order).Return(nil)

	_, err = f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: employeeID,
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: f.order.Items[0].ID, JobNumber: "EJB-00001"},
		},
	})

	require.NoError(t, err)
	f.mapRepo.AssertExpectations(t)
}

func TestAssignJobNumbers_NoMatchingItems(t *testing.T) {
	f := newAssignmentFixture(t)

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
	f.mapRepo.On("FindByJobNumbers", mock.Anything, mock.Anything).Return([]workflow.Mapping{}, nil)

	_, err := f.service.AssignJobNumbers(context.Background(), f.order.ID, AssignJobNumbersRequest{
		EmployeeID: uuid.New(),
		Assignments: []ItemJobAssignmentInput{
			{OrderItemID: uuid.New(), JobNumber: "EJB-00001"},
		},
	})

	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	f.mapRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestGenerateAssignments_Success(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
	f.sequencer.On("Next", mock.Anything, "jobNumber").Return(int64(1), nil).Once()
	f.sequencer.On("Next", mock.Anything, "jobNumber").Return(int64(2), nil).Once()
	f.mapRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []*workflow.Mapping) bool {
		return len(batch) == 2 && batch[0].JobNumber == "EJB-00001" && batch[1].JobNumber == "EJB-00002"
	})).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, f.order).Return(nil)

	resp, err := f.service.GenerateAssignments(context.Background(), f.order.ID, GenerateAssignmentsRequest{
		Assignments: []IndexedAssignmentInput{
			{ItemIndex: 0, EmployeeID: &employeeID},
			{ItemIndex: 1, EmployeeID: &employeeID},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Items[0].AssignedTo)
	assert.Equal(t, employeeID, *resp.Items[0].AssignedTo)
	f.sequencer.AssertExpectations(t)
	f.mapRepo.AssertExpectations(t)
}

func TestGenerateAssignments_IndexOutOfRange(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)

	_, err := f.service.GenerateAssignments(context.Background(), f.order.ID, GenerateAssignmentsRequest{
		Assignments: []IndexedAssignmentInput{
			{ItemIndex: 0, EmployeeID: &employeeID},
			{ItemIndex: 5, EmployeeID: &employeeID},
		},
	})

	assert.Equal(t, "INVALID_INDEX", domainCode(t, err))
	// no counter may be consumed before the whole batch passes bounds checks
	f.sequencer.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	f.mapRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestGenerateAssignments_IndexRepeatedInBatch(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)

	_, err := f.service.GenerateAssignments(context.Background(), f.order.ID, GenerateAssignmentsRequest{
		Assignments: []IndexedAssignmentInput{
			{ItemIndex: 0, EmployeeID: &employeeID},
			{ItemIndex: 0, EmployeeID: &employeeID},
		},
	})

	assert.Equal(t, "VALIDATION_ERROR", domainCode(t, err))
	f.sequencer.AssertNotCalled(t, "Next", mock.Anything, mock.Anything)
	f.mapRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestGenerateAssignments_NilEmployeeClears(t *testing.T) {
	f := newAssignmentFixture(t)
	previous := uuid.New()
	require.NoError(t, f.order.AssignItem(f.order.Items[0].ID, previous))

	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, f.order).Return(nil)

	_, err := f.service.GenerateAssignments(context.Background(), f.order.ID, GenerateAssignmentsRequest{
		Assignments: []IndexedAssignmentInput{
			{ItemIndex: 0, EmployeeID: nil},
		},
	})

	require.NoError(t, err)
	assert.Nil(t, f.order.Items[0].AssignedTo)
	f.mapRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestStartItem(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()
	mapping, err := workflow.NewMapping(f.order.ID, f.order.Items[0].ID, f.order.Items[0].ItemID, employeeID, "EJB-00001")
	require.NoError(t, err)

	f.mapRepo.On("FindByEmployeeAndItem", mock.Anything, employeeID, mapping.OrderItemID).Return(mapping, nil)
	f.mapRepo.On("Save", mock.Anything, mapping).Return(nil)

	resp, err := f.service.StartItem(context.Background(), employeeID, mapping.OrderItemID)

	require.NoError(t, err)
	assert.Equal(t, string(workflow.MappingStatusInProgress), resp.Status)

	_, err = f.service.StartItem(context.Background(), employeeID, mapping.OrderItemID)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
}

func TestUpdateItemProgress_CompletesAtFull(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()
	mapping, err := workflow.NewMapping(f.order.ID, f.order.Items[0].ID, f.order.Items[0].ItemID, employeeID, "EJB-00001")
	require.NoError(t, err)

	f.mapRepo.On("FindByEmployeeAndItem", mock.Anything, employeeID, mapping.OrderItemID).Return(mapping, nil)
	f.mapRepo.On("Save", mock.Anything, mapping).Return(nil)

	resp, err := f.service.UpdateItemProgress(context.Background(), employeeID, mapping.OrderItemID, UpdateItemProgressRequest{
		ProgressPercentage: 100,
		Notes:              "done",
	})

	require.NoError(t, err)
	assert.Equal(t, string(workflow.MappingStatusCompleted), resp.Status)
	assert.NotNil(t, resp.CompletedAt)
}

func TestEmployeeWork_GroupsByOrderSkippingDeleted(t *testing.T) {
	f := newAssignmentFixture(t)
	employeeID := uuid.New()

	deleted := newTestOrder(t, 1)
	require.NoError(t, deleted.MarkDeleted(""))

	m1, err := workflow.NewMapping(f.order.ID, f.order.Items[0].ID, f.order.Items[0].ItemID, employeeID, "EJB-00001")
	require.NoError(t, err)
	m2, err := workflow.NewMapping(f.order.ID, f.order.Items[1].ID, f.order.Items[1].ItemID, employeeID, "EJB-00002")
	require.NoError(t, err)
	m3, err := workflow.NewMapping(deleted.ID, deleted.Items[0].ID, deleted.Items[0].ItemID, employeeID, "EJB-00003")
	require.NoError(t, err)

	f.mapRepo.On("FindByEmployee", mock.Anything, employeeID).Return([]workflow.Mapping{*m1, *m2, *m3}, nil)
	f.orderRepo.On("FindByID", mock.Anything, f.order.ID).Return(f.order, nil).Once()
	f.orderRepo.On("FindByID", mock.Anything, deleted.ID).Return(deleted, nil).Once()

	groups, err := f.service.EmployeeWork(context.Background(), employeeID)

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, f.order.ID, groups[0].OrderID)
	assert.Equal(t, "PO-1001", groups[0].PONumber)
	assert.Len(t, groups[0].Mappings, 2)
	f.orderRepo.AssertExpectations(t)
}
