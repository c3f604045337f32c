package occupancy

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, occupancy *ClassroomOccupancy) error {
	args := m.Called(ctx, occupancy)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*ClassroomOccupancy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClassroomOccupancy), args.Error(1)
}

func (m *MockRepository) ListByClassroom(ctx context.Context, classroomID uuid.UUID, from, to time.Time) ([]ClassroomOccupancy, error) {
	args := m.Called(ctx, classroomID, from, to)
	return args.Get(0).([]ClassroomOccupancy), args.Error(1)
}

func (m *MockRepository) HasOverlap(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error) {
	args := m.Called(ctx, classroomID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Create(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo)
	ctx := context.Background()

	classroomID := uuid.New()
	adminID := uuid.New()
	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*occupancy.ClassroomOccupancy")).Return(nil).Once()

	occupancy, err := svc.Create(ctx, adminID.String(), CreateOccupancyRequest{
		ClassroomID: classroomID.String(),
		Title:       "Linear Algebra Lecture",
		Type:        string(TypeCourse),
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusScheduled, occupancy.Status)
	assert.Equal(t, TypeCourse, occupancy.Type)
	assert.Equal(t, adminID, occupancy.CreatedBy)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo)
	ctx := context.Background()

	classroomID := uuid.New().String()
	adminID := uuid.New().String()
	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, adminID, CreateOccupancyRequest{
		ClassroomID: classroomID,
		Title:       "Backwards window",
		Type:        string(TypeMeeting),
		StartTime:   start,
		EndTime:     start,
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Create(ctx, adminID, CreateOccupancyRequest{
		ClassroomID: classroomID,
		Title:       "Unknown type",
		Type:        "PARTY",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidType)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_Cancel_AlreadyEnded(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo)
	ctx := context.Background()

	id := uuid.New()
	mockRepo.On("GetByID", ctx, id).Return(&ClassroomOccupancy{ID: id, Status: StatusCancelled}, nil).Once()
	// The guarded update touches nothing when the row is already cancelled
	mockRepo.On("Cancel", ctx, id).Return(int64(0), nil).Once()

	err := svc.Cancel(ctx, id.String())
	assert.ErrorIs(t, err, ErrAlreadyEnded)
}

func TestService_IsClassroomBlocked(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo)
	ctx := context.Background()

	classroomID := uuid.New()
	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mockRepo.On("HasOverlap", ctx, classroomID, start, end).Return(true, nil).Once()

	blocked, err := svc.IsClassroomBlocked(ctx, classroomID, start, end)
	assert.NoError(t, err)
	assert.True(t, blocked)
}
