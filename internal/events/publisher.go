package events

import (
	"context"
	"fmt"
	"time"

	"workalone-be/internal/constant"
	"workalone-be/internal/pkg/logger"
	pkgEvents "workalone-be/pkg/events"
	pktNats "workalone-be/pkg/nats"
)

// EventDelivery pushes events to connected ops dashboards.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	BroadcastEvent(event pkgEvents.Event)
}

// Publisher abstracts event publishing for the check-in engine.
type Publisher interface {
	PublishSessionStarted(ctx context.Context, userId, sessionId uint, fullName string, deadline time.Time)
	PublishCheckInRecorded(ctx context.Context, userId, sessionId uint, byContactId *uint, deadline time.Time)
	PublishSessionAlerted(ctx context.Context, userId, sessionId uint, fullName string, contactsNotified, deliveryFailures int)
	PublishAlertResolved(ctx context.Context, userId, sessionId, contactId uint, contactName string)
	PublishSessionStopped(ctx context.Context, userId, sessionId uint)
	PublishMessageReceived(ctx context.Context, from, senderKind, command string)
	PublishEscalationSendFailed(ctx context.Context, userId, sessionId, contactId uint, fullName, phoneNumber, reason string)
	PublishStoreRetriesExhausted(ctx context.Context, op string, sessionId uint, reason string)
}

// NatsPublisher implements Publisher using NATS, mirroring every event to
// the ops dashboard feed. Both legs are optional so the engine keeps
// working when NATS or the hub is disabled.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	delivery  EventDelivery
	logger    logger.ILogger
}

// NewNatsPublisher creates a new NATS-based event publisher.
func NewNatsPublisher(publisher *pktNats.Publisher, delivery EventDelivery, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		delivery:  delivery,
		logger:    logger,
	}
}

func (p *NatsPublisher) emit(ctx context.Context, evt pkgEvents.BaseEvent) {
	if p.delivery != nil {
		p.delivery.BroadcastEvent(evt)
	}

	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", fmt.Sprintf("Failed to publish %s event", evt.Type), map[string]interface{}{"error": err.Error()})
	}
}

// PublishSessionStarted emits SESSION_STARTED when a user begins monitoring.
func (p *NatsPublisher) PublishSessionStarted(ctx context.Context, userId, sessionId uint, fullName string, deadline time.Time) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventSessionStarted,
		Data: map[string]interface{}{
			"user_id":     userId,
			"session_id":  sessionId,
			"full_name":   fullName,
			"deadline":    deadline.Format(time.RFC3339),
			"entity_type": "session",
			"entity_id":   fmt.Sprint(sessionId),
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}

// PublishCheckInRecorded emits CHECK_IN_RECORDED for both user check-ins and
// contact confirmations. byContactId is nil when the user checked in.
func (p *NatsPublisher) PublishCheckInRecorded(ctx context.Context, userId, sessionId uint, byContactId *uint, deadline time.Time) {
	now := time.Now()
	data := map[string]interface{}{
		"user_id":     userId,
		"session_id":  sessionId,
		"deadline":    deadline.Format(time.RFC3339),
		"entity_type": "session",
		"entity_id":   fmt.Sprint(sessionId),
		"occurred_at": now.Format(time.RFC3339Nano),
	}
	if byContactId != nil {
		data["contact_id"] = *byContactId
	}
	p.emit(ctx, pkgEvents.BaseEvent{
		Type:       constant.EventCheckInRecorded,
		Data:       data,
		OccurredAt: now,
	})
}

// PublishSessionAlerted emits SESSION_ALERTED after a missed deadline has
// been committed and the contact fan-out attempted.
func (p *NatsPublisher) PublishSessionAlerted(ctx context.Context, userId, sessionId uint, fullName string, contactsNotified, deliveryFailures int) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventSessionAlerted,
		Data: map[string]interface{}{
			"user_id":           userId,
			"session_id":        sessionId,
			"full_name":         fullName,
			"contacts_notified": contactsNotified,
			"delivery_failures": deliveryFailures,
			"entity_type":       "session",
			"entity_id":         fmt.Sprint(sessionId),
			"occurred_at":       now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}

// PublishAlertResolved emits ALERT_RESOLVED when a contact closes an alert.
func (p *NatsPublisher) PublishAlertResolved(ctx context.Context, userId, sessionId, contactId uint, contactName string) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventAlertResolved,
		Data: map[string]interface{}{
			"user_id":      userId,
			"session_id":   sessionId,
			"contact_id":   contactId,
			"contact_name": contactName,
			"entity_type":  "session",
			"entity_id":    fmt.Sprint(sessionId),
			"occurred_at":  now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}

// PublishSessionStopped emits SESSION_STOPPED when a user ends monitoring.
func (p *NatsPublisher) PublishSessionStopped(ctx context.Context, userId, sessionId uint) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventSessionStopped,
		Data: map[string]interface{}{
			"user_id":     userId,
			"session_id":  sessionId,
			"entity_type": "session",
			"entity_id":   fmt.Sprint(sessionId),
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}

// PublishMessageReceived emits MESSAGE_RECEIVED for every classified
// inbound text. Feeds the ops live view.
func (p *NatsPublisher) PublishMessageReceived(ctx context.Context, from, senderKind, command string) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventMessageReceived,
		Data: map[string]interface{}{
			"from":        from,
			"sender_kind": senderKind,
			"command":     command,
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}

// PublishEscalationSendFailed emits ESCALATION_SEND_FAILED when the alert to
// one contact could not be delivered. Other contacts are unaffected.
func (p *NatsPublisher) PublishEscalationSendFailed(ctx context.Context, userId, sessionId, contactId uint, fullName, phoneNumber, reason string) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventEscalationSendFailed,
		Data: map[string]interface{}{
			"user_id":      userId,
			"session_id":   sessionId,
			"contact_id":   contactId,
			"full_name":    fullName,
			"phone_number": phoneNumber,
			"reason":       reason,
			"entity_type":  "session",
			"entity_id":    fmt.Sprint(sessionId),
			"occurred_at":  now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}

// PublishStoreRetriesExhausted emits STORE_RETRIES_EXHAUSTED when a state
// write kept failing after the retry budget. Operators must investigate.
func (p *NatsPublisher) PublishStoreRetriesExhausted(ctx context.Context, op string, sessionId uint, reason string) {
	now := time.Now()
	p.emit(ctx, pkgEvents.BaseEvent{
		Type: constant.EventStoreRetriesExhausted,
		Data: map[string]interface{}{
			"op":          op,
			"session_id":  sessionId,
			"reason":      reason,
			"entity_type": "session",
			"entity_id":   fmt.Sprint(sessionId),
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	})
}
