package model

import (
	"time"

	"gorm.io/datatypes"
)

type DeliveryReceipt struct {
	Id           uint           `gorm:"primaryKey"`
	MessageLogId uint           `gorm:"not null;index"`
	MessageLog   *MessageLog    `gorm:"foreignKey:MessageLogId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ProviderSid  string         `gorm:"type:varchar(64);index"`
	Status       string         `gorm:"type:varchar(10);not null;check:status IN ('queued','sent','failed')"`
	ErrorMessage *string        `gorm:"type:text"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (DeliveryReceipt) TableName() string {
	return "delivery_receipts"
}
