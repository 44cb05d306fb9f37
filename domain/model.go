package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model holds the columns every stored record has. IDs are uuid strings,
// generated on insert unless the caller already set one.
type Model struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// BeforeCreate is a gorm hook that assigns a fresh uuid to new records.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Owned is implemented by every content item that belongs to a user.
// Only its owner may change or delete it.
type Owned interface {
	OwnerKey() string
}
