package model

import "time"

type Session struct {
	Id                   uint               `gorm:"primaryKey"`
	UserId               uint               `gorm:"not null;index"`
	User                 *User              `gorm:"foreignKey:UserId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	StartedAt            time.Time          `gorm:"not null"`
	EndedAt              *time.Time
	LastCheckInAt        time.Time          `gorm:"not null"`
	Status               string             `gorm:"type:varchar(10);not null;index;check:status IN ('active','inactive','alert')"`
	CheckedInByContactId *uint              `gorm:"index"`
	CheckedInByContact   *EscalationContact `gorm:"foreignKey:CheckedInByContactId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt            time.Time          `gorm:"autoCreateTime"`
	UpdatedAt            time.Time          `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
