package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kkkhs/study-room-booking/internal/catalog"
	"github.com/kkkhs/study-room-booking/internal/occupancy"
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/database"
	"github.com/kkkhs/study-room-booking/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Study Room Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reservations",
		"classroom_occupancies",
		"blacklist_entries",
		"seats",
		"classrooms",
		"buildings",
		"app_users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	buildingIDs, err := s.SeedBuildings()
	if err != nil {
		return fmt.Errorf("failed to seed buildings: %w", err)
	}

	classroomIDs, err := s.SeedClassrooms(buildingIDs)
	if err != nil {
		return fmt.Errorf("failed to seed classrooms: %w", err)
	}

	if err := s.SeedOccupancies(classroomIDs, userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed occupancies: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin and 2 regular student accounts
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// All seeded accounts share the password "qwerty"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		username  string
		realName  string
		studentID string
		email     string
		role      users.Role
	}{
		{"admin", "admin", "Administrator", "A0000001", "admin@studyroom.edu", users.RoleAdmin},
		{"user1", "alice", "Alice Chen", "S2023001", "alice@studyroom.edu", users.RoleUser},
		{"user2", "bob", "Bob Lin", "S2023002", "bob@studyroom.edu", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			Username:  userData.username,
			Password:  string(hashedPassword),
			RealName:  userData.realName,
			StudentID: userData.studentID,
			Email:     userData.email,
			Role:      userData.role,
			Status:    users.StatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.username, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Username, user.Role)
	}

	return userIDs, nil
}

// SeedBuildings creates the campus library buildings
func (s *Seeder) SeedBuildings() (map[string]uuid.UUID, error) {
	fmt.Println("  🏢 Seeding buildings...")

	buildingIDs := make(map[string]uuid.UUID)

	buildingsData := []struct {
		key         string
		name        string
		description string
	}{
		{"main", "Main Library", "Central campus library with general study floors"},
		{"science", "Science Building", "Study rooms attached to the science faculty"},
	}

	for _, buildingData := range buildingsData {
		building := catalog.Building{
			ID:          uuid.New(),
			Name:        buildingData.name,
			Description: buildingData.description,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&building).Error; err != nil {
			return nil, fmt.Errorf("failed to create building %s: %w", building.Name, err)
		}

		buildingIDs[buildingData.key] = building.ID
		fmt.Printf("    ✅ Created building: %s\n", building.Name)
	}

	return buildingIDs, nil
}

// SeedClassrooms creates classrooms with their full seat grids
func (s *Seeder) SeedClassrooms(buildingIDs map[string]uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🏫 Seeding classrooms...")

	var classroomIDs []uuid.UUID

	classroomsData := []struct {
		buildingKey string
		name        string
		floor       int
		rows        int
		seatsPerRow int
		openTime    string
		closeTime   string
	}{
		{"main", "201 Quiet Study", 2, 10, 10, "08:00", "22:00"},
		{"main", "305 Group Study", 3, 6, 8, "08:00", "22:00"},
		{"science", "B1 Reading Room", 1, 10, 10, "09:00", "21:00"},
	}

	for _, classroomData := range classroomsData {
		classroom := catalog.Classroom{
			ID:          uuid.New(),
			BuildingID:  buildingIDs[classroomData.buildingKey],
			Name:        classroomData.name,
			Floor:       classroomData.floor,
			Rows:        classroomData.rows,
			SeatsPerRow: classroomData.seatsPerRow,
			Status:      catalog.ClassroomOpen,
			OpenTime:    classroomData.openTime,
			CloseTime:   classroomData.closeTime,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&classroom).Error; err != nil {
			return nil, fmt.Errorf("failed to create classroom %s: %w", classroom.Name, err)
		}

		if err := s.createSeatsForClassroom(classroom.ID, classroom.Rows, classroom.SeatsPerRow); err != nil {
			return nil, fmt.Errorf("failed to create seats for %s: %w", classroom.Name, err)
		}

		classroomIDs = append(classroomIDs, classroom.ID)
		fmt.Printf("    ✅ Created classroom: %s (%d seats)\n", classroom.Name, classroom.Rows*classroom.SeatsPerRow)
	}

	return classroomIDs, nil
}

// createSeatsForClassroom creates the row/column seat grid. Seat numbers
// follow the "A01".."J10" convention; window-column seats get outlets.
func (s *Seeder) createSeatsForClassroom(classroomID uuid.UUID, rows, seatsPerRow int) error {
	seats := make([]catalog.Seat, 0, rows*seatsPerRow)

	for row := 0; row < rows; row++ {
		for col := 1; col <= seatsPerRow; col++ {
			seats = append(seats, catalog.Seat{
				ID:          uuid.New(),
				ClassroomID: classroomID,
				SeatNumber:  fmt.Sprintf("%c%02d", 'A'+row, col),
				Row:         row + 1,
				Column:      col,
				HasOutlet:   col == 1 || col == seatsPerRow,
				Status:      catalog.SeatAvailable,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			})
		}
	}

	if err := s.db.PostgreSQL.CreateInBatches(seats, 100).Error; err != nil {
		return fmt.Errorf("failed to create seat grid: %w", err)
	}

	return nil
}

// SeedOccupancies blocks one classroom for an upcoming maintenance window
func (s *Seeder) SeedOccupancies(classroomIDs []uuid.UUID, adminID uuid.UUID) error {
	fmt.Println("  📅 Seeding classroom occupancies...")

	if len(classroomIDs) == 0 {
		return nil
	}

	start := time.Now().AddDate(0, 0, 3).Truncate(time.Hour)
	block := occupancy.ClassroomOccupancy{
		ID:          uuid.New(),
		ClassroomID: classroomIDs[0],
		Title:       "HVAC maintenance",
		Type:        occupancy.TypeMaintenance,
		StartTime:   start,
		EndTime:     start.Add(4 * time.Hour),
		Status:      occupancy.StatusScheduled,
		CreatedBy:   adminID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.PostgreSQL.Create(&block).Error; err != nil {
		return fmt.Errorf("failed to create occupancy: %w", err)
	}

	fmt.Printf("    ✅ Created occupancy: %s (%s)\n", block.Title, block.Type)
	return nil
}
