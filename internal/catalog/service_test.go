package catalog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kkkhs/study-room-booking/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBuilding(ctx context.Context, building *Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockRepository) GetBuildingByID(ctx context.Context, id uuid.UUID) (*Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Building), args.Error(1)
}

func (m *MockRepository) GetBuildingByName(ctx context.Context, name string) (*Building, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Building), args.Error(1)
}

func (m *MockRepository) GetBuildings(ctx context.Context) ([]Building, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Building), args.Error(1)
}

func (m *MockRepository) UpdateBuilding(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateClassroom(ctx context.Context, classroom *Classroom) error {
	args := m.Called(ctx, classroom)
	return args.Error(0)
}

func (m *MockRepository) GetClassroomByID(ctx context.Context, id uuid.UUID) (*Classroom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Classroom), args.Error(1)
}

func (m *MockRepository) GetClassroomsByBuilding(ctx context.Context, buildingID uuid.UUID) ([]Classroom, error) {
	args := m.Called(ctx, buildingID)
	return args.Get(0).([]Classroom), args.Error(1)
}

func (m *MockRepository) UpdateClassroom(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteClassroom(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateSeats(ctx context.Context, seats []Seat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *MockRepository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Seat), args.Error(1)
}

func (m *MockRepository) GetSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) ([]Seat, error) {
	args := m.Called(ctx, classroomID)
	return args.Get(0).([]Seat), args.Error(1)
}

func (m *MockRepository) CountSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) (int64, error) {
	args := m.Called(ctx, classroomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdateSeat(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockRepository) DeleteSeatsByClassroom(ctx context.Context, classroomID uuid.UUID) error {
	args := m.Called(ctx, classroomID)
	return args.Error(0)
}

// stubCache runs fetchers straight through without touching Redis
type stubCache struct{}

func (stubCache) Get(ctx context.Context, key string, dest interface{}) error { return cache.ErrCacheMiss }
func (stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (stubCache) Delete(ctx context.Context, key string) error            { return nil }
func (stubCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (stubCache) Exists(ctx context.Context, key string) bool             { return false }
func (stubCache) Ping(ctx context.Context) error                          { return nil }

func (stubCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, err := fetcher()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func TestService_CreateClassroom_SeatGrid(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo, stubCache{})
	ctx := context.Background()

	buildingID := uuid.New()
	mockRepo.On("GetBuildingByID", ctx, buildingID).Return(&Building{ID: buildingID, Name: "Main Library"}, nil).Once()
	mockRepo.On("CreateClassroom", ctx, mock.AnythingOfType("*catalog.Classroom")).Return(nil).Once()

	var created []Seat
	mockRepo.On("CreateSeats", ctx, mock.AnythingOfType("[]catalog.Seat")).Run(func(args mock.Arguments) {
		created = args.Get(1).([]Seat)
	}).Return(nil).Once()

	classroom, err := svc.CreateClassroom(ctx, CreateClassroomRequest{
		BuildingID: buildingID.String(),
		Name:       "201 Quiet Study",
		Floor:      2,
	})

	assert.NoError(t, err)
	// Dimensions default to a 10x10 grid
	assert.Equal(t, 10, classroom.Rows)
	assert.Equal(t, 10, classroom.SeatsPerRow)
	assert.Len(t, created, 100)

	// Rows are lettered, columns zero-padded
	assert.Equal(t, "A01", created[0].SeatNumber)
	assert.Equal(t, 1, created[0].Row)
	assert.Equal(t, 1, created[0].Column)
	assert.Equal(t, "A10", created[9].SeatNumber)
	assert.Equal(t, "B01", created[10].SeatNumber)
	assert.Equal(t, "J10", created[99].SeatNumber)
	assert.Equal(t, 10, created[99].Row)

	// Seat numbers are unique within the classroom and every seat starts available
	seen := make(map[string]bool, len(created))
	for _, seat := range created {
		assert.False(t, seen[seat.SeatNumber], "duplicate seat number %s", seat.SeatNumber)
		seen[seat.SeatNumber] = true
		assert.Equal(t, classroom.ID, seat.ClassroomID)
		assert.Equal(t, SeatAvailable, seat.Status)
	}

	mockRepo.AssertExpectations(t)
}

func TestService_CreateClassroom_CustomDimensions(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo, stubCache{})
	ctx := context.Background()

	buildingID := uuid.New()
	mockRepo.On("GetBuildingByID", ctx, buildingID).Return(&Building{ID: buildingID}, nil).Once()
	mockRepo.On("CreateClassroom", ctx, mock.Anything).Return(nil).Once()

	var created []Seat
	mockRepo.On("CreateSeats", ctx, mock.AnythingOfType("[]catalog.Seat")).Run(func(args mock.Arguments) {
		created = args.Get(1).([]Seat)
	}).Return(nil).Once()

	classroom, err := svc.CreateClassroom(ctx, CreateClassroomRequest{
		BuildingID:  buildingID.String(),
		Name:        "305 Group Study",
		Rows:        3,
		SeatsPerRow: 8,
	})

	assert.NoError(t, err)
	assert.Len(t, created, 24)
	assert.Equal(t, "C08", created[23].SeatNumber)
	assert.Equal(t, ClassroomOpen, classroom.Status)
}

func TestService_CreateClassroom_UnknownBuilding(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo, stubCache{})
	ctx := context.Background()

	buildingID := uuid.New()
	mockRepo.On("GetBuildingByID", ctx, buildingID).Return(nil, ErrNotFound).Once()

	_, err := svc.CreateClassroom(ctx, CreateClassroomRequest{
		BuildingID: buildingID.String(),
		Name:       "Ghost Room",
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateClassroom")
	mockRepo.AssertNotCalled(t, "CreateSeats")
}

func TestService_CreateBuilding_NameTaken(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo, stubCache{})
	ctx := context.Background()

	mockRepo.On("GetBuildingByName", ctx, "Main Library").Return(&Building{ID: uuid.New(), Name: "Main Library"}, nil).Once()

	_, err := svc.CreateBuilding(ctx, CreateBuildingRequest{Name: "Main Library"})

	assert.ErrorIs(t, err, ErrNameTaken)
	mockRepo.AssertNotCalled(t, "CreateBuilding")
}

func TestService_GetClassroomByID_IncludesSeatCount(t *testing.T) {
	mockRepo := &MockRepository{}
	svc := NewService(mockRepo, stubCache{})
	ctx := context.Background()

	classroomID := uuid.New()
	mockRepo.On("GetClassroomByID", ctx, classroomID).Return(&Classroom{ID: classroomID, Name: "201", Status: ClassroomOpen}, nil).Once()
	mockRepo.On("CountSeatsByClassroom", ctx, classroomID).Return(int64(100), nil).Once()

	resp, err := svc.GetClassroomByID(ctx, classroomID.String())

	assert.NoError(t, err)
	assert.Equal(t, 100, resp.TotalSeats)
	assert.True(t, resp.IsOpen())
}
