// FILE: internal/service/notifier_service.go
package service

import (
	"context"

	"workalone-be/internal/constant"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/pkg/mailer"
	"workalone-be/pkg/events"
	pktNats "workalone-be/pkg/nats"
)

// NotifierService turns engine failure events into on-call email. It only
// consumes the bus; the live dashboard feed is pushed by the event
// publisher directly and does not pass through here.
type NotifierService struct {
	subscriber *pktNats.Subscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotifierService(sub *pktNats.Subscriber, emailService mailer.IEmailService, log logger.ILogger) *NotifierService {
	return &NotifierService{
		subscriber: sub,
		mailer:     emailService,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer, so
// failure events raised while the notifier was down are still delivered.
func (s *NotifierService) Start() {
	err := s.subscriber.Subscribe("events.>", "workalone-notifier", s.handleEvent)
	if err != nil {
		s.logger.Error("NOTIFIER", "Failed to start notifier subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NOTIFIER", "Notifier started, listening to events.>", nil)
}

func (s *NotifierService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case constant.EventStoreRetriesExhausted:
		op, _ := payload["op"].(string)
		reason, _ := payload["reason"].(string)
		if err := s.mailer.SendStoreFailureAlert(op, payloadUint(payload, "session_id"), reason); err != nil {
			// Mail is best effort. A redelivery loop against a dead SMTP
			// server helps nobody; the error log is the fallback signal.
			s.logger.Error("NOTIFIER", "Failed to send store failure alert", map[string]interface{}{
				"session_id": payload["session_id"],
				"error":      err.Error(),
			})
		}

	case constant.EventEscalationSendFailed:
		fullName, _ := payload["full_name"].(string)
		phoneNumber, _ := payload["phone_number"].(string)
		reason, _ := payload["reason"].(string)
		if err := s.mailer.SendDeliveryFailureAlert(fullName, phoneNumber, reason); err != nil {
			s.logger.Error("NOTIFIER", "Failed to send delivery failure alert", map[string]interface{}{
				"session_id": payload["session_id"],
				"error":      err.Error(),
			})
		}
	}

	return nil
}

// payloadUint reads a numeric payload field. JSON round-trips numbers as
// float64, so both forms show up depending on whether the event crossed the
// bus.
func payloadUint(payload map[string]interface{}, key string) uint {
	switch v := payload[key].(type) {
	case float64:
		return uint(v)
	case uint:
		return v
	case int:
		return uint(v)
	}
	return 0
}
