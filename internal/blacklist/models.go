package blacklist

import (
	"time"

	"github.com/google/uuid"
)

// Entry is an explicit admin ban. Presence of a row blocks new reservations;
// removing the row restores access immediately. The per-user violation
// counter is tracked separately and never blocks on its own.
type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Reason    string    `gorm:"not null" json:"reason"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string {
	return "blacklist_entries"
}

type AddEntryRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Reason string `json:"reason" binding:"required,min=2,max=500"`
}
