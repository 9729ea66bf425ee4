package specification

import "gorm.io/gorm"

type ByPhoneNumber struct {
	PhoneNumber string
}

func (s ByPhoneNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("phone_number = ?", s.PhoneNumber)
}

type OwnedBy struct {
	UserID uint
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ContactOf filters escalation contacts by the user they guard.
type ContactOf struct {
	UserID uint
}

func (s ContactOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("contact_of = ?", s.UserID)
}
