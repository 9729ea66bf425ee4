package specification

import (
	"workalone-be/internal/entity"

	"gorm.io/gorm"
)

type ByStatus struct {
	Status entity.SessionStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// OpenOnly keeps sessions that still hold a deadline or an alert.
type OpenOnly struct{}

func (s OpenOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", []string{
		string(entity.SessionStatusActive),
		string(entity.SessionStatusAlert),
	})
}

type ResolvedByContact struct {
	ContactID uint
}

func (s ResolvedByContact) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("checked_in_by_contact_id = ?", s.ContactID)
}
