package model

import "time"

type User struct {
	Id          uint   `gorm:"primaryKey"`
	PhoneNumber string `gorm:"type:varchar(20);uniqueIndex;not null"`
	FirstName   string `gorm:"type:varchar(100);not null"`
	LastName    string `gorm:"type:varchar(100)"`
	// Whole minutes between required check-ins.
	DelayInterval int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Contacts []EscalationContact `gorm:"foreignKey:ContactOf;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
