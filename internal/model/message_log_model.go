package model

import "time"

// MessageLog is append-only. Nullable FKs with SET NULL keep the audit trail
// intact when a user or contact is removed.
type MessageLog struct {
	Id          uint               `gorm:"primaryKey"`
	UserId      *uint              `gorm:"index"`
	User        *User              `gorm:"foreignKey:UserId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	ContactId   *uint              `gorm:"index"`
	Contact     *EscalationContact `gorm:"foreignKey:ContactId;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Timestamp   time.Time          `gorm:"not null;index"`
	MessageText string             `gorm:"type:text;not null"`
	Direction   string             `gorm:"type:varchar(10);not null;check:direction IN ('incoming','outgoing')"`
}

func (MessageLog) TableName() string {
	return "message_logs"
}
