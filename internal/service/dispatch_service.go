// FILE: internal/service/dispatch_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"workalone-be/internal/dto"
	"workalone-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IDispatchService drains the in-process pipeline: inbound webhook payloads
// go to the command router, fired deadlines go to the escalation engine.
type IDispatchService interface {
	Start(ctx context.Context) error
}

type dispatchService struct {
	pubSub        *gochannel.GoChannel
	inboundTopic  string
	deadlineTopic string
	command       ICommandService
	escalation    IEscalationService
	workerCount   int
}

func NewDispatchService(
	pubSub *gochannel.GoChannel,
	inboundTopic string,
	deadlineTopic string,
	command ICommandService,
	escalation IEscalationService,
	workerCount int,
) IDispatchService {
	if workerCount <= 0 {
		workerCount = 4
	}
	return &dispatchService{
		pubSub:        pubSub,
		inboundTopic:  inboundTopic,
		deadlineTopic: deadlineTopic,
		command:       command,
		escalation:    escalation,
		workerCount:   workerCount,
	}
}

// Start subscribes both topics and spawns the worker pool. Workers compete
// for messages; per-user ordering is enforced by the escalation engine's
// locks, not here.
func (ds *dispatchService) Start(ctx context.Context) error {
	inbound, err := ds.pubSub.Subscribe(ctx, ds.inboundTopic)
	if err != nil {
		return err
	}
	deadlines, err := ds.pubSub.Subscribe(ctx, ds.deadlineTopic)
	if err != nil {
		return err
	}

	for i := 0; i < ds.workerCount; i++ {
		go func() {
			for msg := range inbound {
				ds.processInbound(ctx, msg)
			}
		}()
		go func() {
			for msg := range deadlines {
				ds.processDeadline(ctx, msg)
			}
		}()
	}
	return nil
}

// processInbound always acks. The command router writes exactly one audit
// row per inbound message, and a redelivery would write a second one;
// failures go to the operator logs instead of the retry loop.
func (ds *dispatchService) processInbound(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.ProcessInboundMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal inbound message: %v", err)
		return
	}

	log.Printf("[INFO] Dispatching inbound message from %s", payload.From)

	err := ds.command.HandleInbound(ctx, entity.InboundMessage{
		FromPhoneNumber: payload.From,
		Text:            payload.Body,
		ReceivedAt:      payload.ReceivedAt,
		ProviderSid:     payload.ProviderSid,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to handle inbound message from %s: %v", payload.From, err)
		return
	}

	log.Printf("[SUCCESS] Inbound message from %s handled", payload.From)
}

// processDeadline always acks too: HandleDeadline re-arms its own retry
// timer when the store is down, so the deadline cannot be lost.
func (ds *dispatchService) processDeadline(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.EscalateDeadlineMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal deadline message: %v", err)
		return
	}

	log.Printf("[INFO] Dispatching deadline for session %d", payload.SessionId)
	ds.escalation.HandleDeadline(ctx, payload.SessionId)
}
