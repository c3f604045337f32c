package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kkkhs/study-room-booking/internal/shared/constants"
	"github.com/kkkhs/study-room-booking/pkg/cache"
	"github.com/kkkhs/study-room-booking/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrNameTaken = errors.New("name already in use")
)

type Service interface {
	// Buildings
	CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*Building, error)
	GetBuildings(ctx context.Context) ([]Building, error)
	GetBuildingByID(ctx context.Context, id string) (*Building, error)
	UpdateBuilding(ctx context.Context, id string, req UpdateBuildingRequest) (*Building, error)
	DeleteBuilding(ctx context.Context, id string) error

	// Classrooms
	CreateClassroom(ctx context.Context, req CreateClassroomRequest) (*Classroom, error)
	GetClassroomByID(ctx context.Context, id string) (*ClassroomResponse, error)
	GetClassroomsByBuilding(ctx context.Context, buildingID string) ([]Classroom, error)
	UpdateClassroom(ctx context.Context, id string, req UpdateClassroomRequest) (*Classroom, error)
	DeleteClassroom(ctx context.Context, id string) error

	// Seats
	GetSeat(ctx context.Context, id string) (*Seat, error)
	GetSeatsByClassroom(ctx context.Context, classroomID string) ([]Seat, error)
	UpdateSeat(ctx context.Context, id string, req UpdateSeatRequest) (*Seat, error)
}

type service struct {
	repo   Repository
	cache  cache.Service
	logger *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		logger: logger.GetDefault(),
	}
}

//  BUILDINGS

func (s *service) CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*Building, error) {
	existing, err := s.repo.GetBuildingByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check building name: %w", err)
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	building := &Building{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.CreateBuilding(ctx, building); err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return building, nil
}

func (s *service) GetBuildings(ctx context.Context) ([]Building, error) {
	var buildings []Building
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_BUILDINGS, constants.TTL_CATALOG, func() (interface{}, error) {
		return s.repo.GetBuildings(ctx)
	}, &buildings)
	if err != nil {
		return nil, err
	}
	return buildings, nil
}

func (s *service) GetBuildingByID(ctx context.Context, id string) (*Building, error) {
	buildingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid building ID: %w", err)
	}

	building, err := s.repo.GetBuildingByID(ctx, buildingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get building: %w", err)
	}
	return building, nil
}

func (s *service) UpdateBuilding(ctx context.Context, id string, req UpdateBuildingRequest) (*Building, error) {
	buildingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid building ID: %w", err)
	}

	existing, err := s.repo.GetBuildingByID(ctx, buildingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get building: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != existing.Name {
		taken, err := s.repo.GetBuildingByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check building name: %w", err)
		}
		if taken != nil {
			return nil, ErrNameTaken
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateBuilding(ctx, buildingID, updates); err != nil {
			return nil, fmt.Errorf("failed to update building: %w", err)
		}
		s.invalidateCatalogCache(ctx)
	}

	return s.repo.GetBuildingByID(ctx, buildingID)
}

func (s *service) DeleteBuilding(ctx context.Context, id string) error {
	buildingID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid building ID: %w", err)
	}

	if _, err := s.repo.GetBuildingByID(ctx, buildingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get building: %w", err)
	}

	if err := s.repo.DeleteBuilding(ctx, buildingID); err != nil {
		return fmt.Errorf("failed to delete building: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

//  CLASSROOMS

func (s *service) CreateClassroom(ctx context.Context, req CreateClassroomRequest) (*Classroom, error) {
	buildingID, err := uuid.Parse(req.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("invalid building ID: %w", err)
	}

	if _, err := s.repo.GetBuildingByID(ctx, buildingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to validate building: %w", err)
	}

	rows := req.Rows
	if rows == 0 {
		rows = 10
	}
	seatsPerRow := req.SeatsPerRow
	if seatsPerRow == 0 {
		seatsPerRow = 10
	}

	classroom := &Classroom{
		ID:          uuid.New(),
		BuildingID:  buildingID,
		Name:        req.Name,
		Floor:       req.Floor,
		Rows:        rows,
		SeatsPerRow: seatsPerRow,
		Status:      ClassroomOpen,
	}
	if req.OpenTime != "" {
		classroom.OpenTime = req.OpenTime
	}
	if req.CloseTime != "" {
		classroom.CloseTime = req.CloseTime
	}

	if err := s.repo.CreateClassroom(ctx, classroom); err != nil {
		return nil, fmt.Errorf("failed to create classroom: %w", err)
	}

	if err := s.initClassroomSeats(ctx, classroom); err != nil {
		return nil, fmt.Errorf("failed to initialize seats: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return classroom, nil
}

func (s *service) GetClassroomByID(ctx context.Context, id string) (*ClassroomResponse, error) {
	classroomID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom ID: %w", err)
	}

	classroom, err := s.repo.GetClassroomByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	total, err := s.repo.CountSeatsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to count seats: %w", err)
	}

	return &ClassroomResponse{
		Classroom:  *classroom,
		TotalSeats: int(total),
	}, nil
}

func (s *service) GetClassroomsByBuilding(ctx context.Context, buildingID string) ([]Classroom, error) {
	id, err := uuid.Parse(buildingID)
	if err != nil {
		return nil, fmt.Errorf("invalid building ID: %w", err)
	}

	var classrooms []Classroom
	cacheKey := constants.ClassroomsKey(buildingID)
	err = s.cache.GetOrSet(ctx, cacheKey, constants.TTL_CATALOG, func() (interface{}, error) {
		return s.repo.GetClassroomsByBuilding(ctx, id)
	}, &classrooms)
	if err != nil {
		return nil, err
	}
	return classrooms, nil
}

func (s *service) UpdateClassroom(ctx context.Context, id string, req UpdateClassroomRequest) (*Classroom, error) {
	classroomID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom ID: %w", err)
	}

	if _, err := s.repo.GetClassroomByID(ctx, classroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.OpenTime != nil {
		updates["open_time"] = *req.OpenTime
	}
	if req.CloseTime != nil {
		updates["close_time"] = *req.CloseTime
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateClassroom(ctx, classroomID, updates); err != nil {
			return nil, fmt.Errorf("failed to update classroom: %w", err)
		}
		s.invalidateCatalogCache(ctx)
	}

	return s.repo.GetClassroomByID(ctx, classroomID)
}

func (s *service) DeleteClassroom(ctx context.Context, id string) error {
	classroomID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid classroom ID: %w", err)
	}

	if _, err := s.repo.GetClassroomByID(ctx, classroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := s.repo.DeleteSeatsByClassroom(ctx, classroomID); err != nil {
		return fmt.Errorf("failed to delete seats: %w", err)
	}
	if err := s.repo.DeleteClassroom(ctx, classroomID); err != nil {
		return fmt.Errorf("failed to delete classroom: %w", err)
	}

	s.invalidateCatalogCache(ctx)
	return nil
}

//  SEATS

func (s *service) GetSeat(ctx context.Context, id string) (*Seat, error) {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	seat, err := s.repo.GetSeatByID(ctx, seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return seat, nil
}

func (s *service) GetSeatsByClassroom(ctx context.Context, classroomID string) ([]Seat, error) {
	id, err := uuid.Parse(classroomID)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom ID: %w", err)
	}
	return s.repo.GetSeatsByClassroom(ctx, id)
}

func (s *service) UpdateSeat(ctx context.Context, id string, req UpdateSeatRequest) (*Seat, error) {
	seatID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	if _, err := s.repo.GetSeatByID(ctx, seatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.HasOutlet != nil {
		updates["has_outlet"] = *req.HasOutlet
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateSeat(ctx, seatID, updates); err != nil {
			return nil, fmt.Errorf("failed to update seat: %w", err)
		}
	}

	return s.repo.GetSeatByID(ctx, seatID)
}

//  HELPERS

// initClassroomSeats generates the seat grid for a new classroom.
// Rows are lettered A.. and seats numbered 01.. within each row, e.g. "A01".
func (s *service) initClassroomSeats(ctx context.Context, classroom *Classroom) error {
	seats := make([]Seat, 0, classroom.Rows*classroom.SeatsPerRow)
	for row := 0; row < classroom.Rows; row++ {
		for col := 1; col <= classroom.SeatsPerRow; col++ {
			seats = append(seats, Seat{
				ID:          uuid.New(),
				ClassroomID: classroom.ID,
				SeatNumber:  fmt.Sprintf("%c%02d", 'A'+row, col),
				Row:         row + 1,
				Column:      col,
				Status:      SeatAvailable,
			})
		}
	}
	return s.repo.CreateSeats(ctx, seats)
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	// Delete with a short deadline so cache trouble never blocks writes
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.cache.DeletePattern(cctx, constants.CACHE_KEY_BUILDINGS+"*"); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate buildings cache")
	}
	if err := s.cache.DeletePattern(cctx, constants.CACHE_KEY_CLASSROOMS+"*"); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate classrooms cache")
	}
}
