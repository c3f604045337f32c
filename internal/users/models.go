package users

import (
	"time"

	"github.com/kkkhs/study-room-booking/internal/shared/constants"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = constants.RoleUser
	RoleAdmin Role = constants.RoleAdmin
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

type User struct {
	ID             uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Username       string     `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Password       string     `json:"-" gorm:"not null"` // hide in json
	RealName       string     `json:"name" gorm:"not null;size:50"`
	StudentID      string     `json:"student_id" gorm:"uniqueIndex;size:50"`
	Phone          string     `json:"phone" gorm:"size:20"`
	Email          string     `json:"email" gorm:"size:50"`
	Role           Role       `json:"role" gorm:"not null;default:'USER'"`
	Status         Status     `json:"status" gorm:"not null;default:'ACTIVE'"`
	ViolationCount int        `json:"violation_count" gorm:"not null;default:0;check:violation_count >= 0"`
	LastLoginTime  *time.Time `json:"last_login_time,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "app_users"
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// IsActive reports whether the account may log in and book seats
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
