package model

import "time"

type EscalationContact struct {
	Id        uint   `gorm:"primaryKey"`
	ContactOf uint   `gorm:"not null;index"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100)"`
	// Not unique: one person may guard several users.
	PhoneNumber string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (EscalationContact) TableName() string {
	return "escalation_contacts"
}
