// FILE: internal/dto/webhook_dto.go
package dto

import "time"

// InboundSmsRequest is the Twilio webhook form payload. Field names match
// Twilio's capitalized form keys.
type InboundSmsRequest struct {
	MessageSid string `form:"MessageSid" validate:"required"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From" validate:"required,e164"`
	To         string `form:"To"`
	Body       string `form:"Body" validate:"required"`
	NumMedia   string `form:"NumMedia"`
}

// --- Pipeline Payloads ---

// ProcessInboundMessage rides engine.inbound from the webhook to the
// command router.
type ProcessInboundMessage struct {
	From        string    `json:"from"`
	Body        string    `json:"body"`
	ReceivedAt  time.Time `json:"received_at"`
	ProviderSid string    `json:"provider_sid"`
}

// EscalateDeadlineMessage rides engine.deadline from a timer fire to the
// scheduler.
type EscalateDeadlineMessage struct {
	SessionId uint `json:"session_id"`
}
