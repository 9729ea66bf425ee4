package specification

import (
	"time"

	"workalone-be/internal/entity"

	"gorm.io/gorm"
)

type ByDirection struct {
	Direction entity.Direction
}

func (s ByDirection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("direction = ?", string(s.Direction))
}

type ByContact struct {
	ContactID uint
}

func (s ByContact) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("contact_id = ?", s.ContactID)
}

type LoggedAfter struct {
	After time.Time
}

func (s LoggedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("timestamp >= ?", s.After)
}

type LoggedBefore struct {
	Before time.Time
}

func (s LoggedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("timestamp <= ?", s.Before)
}
