// FILE: internal/entity/message_entity.go
package entity

import "time"

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

type DeliveryStatus string

const (
	DeliveryStatusQueued DeliveryStatus = "queued"
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// MessageLog is one row of the append-only message audit trail. UserId and
// ContactId are nullable: unknown senders produce rows with both unset, and
// deleting a user or contact anonymizes rather than erases history.
type MessageLog struct {
	Id          uint
	UserId      *uint
	ContactId   *uint
	Timestamp   time.Time
	MessageText string
	Direction   Direction
}

// DeliveryReceipt records one gateway delivery attempt for an outgoing row,
// keeping the provider SID and the raw provider response.
type DeliveryReceipt struct {
	Id           uint
	MessageLogId uint
	ProviderSid  string
	Status       DeliveryStatus
	ErrorMessage *string
	Payload      []byte
	CreatedAt    time.Time
}

// InboundMessage is a message as handed over by the gateway webhook.
type InboundMessage struct {
	FromPhoneNumber string
	Text            string
	ReceivedAt      time.Time
	ProviderSid     string
}
