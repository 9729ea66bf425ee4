// FILE: internal/service/outbound_service.go
package service

import (
	"context"
	"time"

	"workalone-be/internal/entity"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/pkg/clock"
	"workalone-be/pkg/gateway"
)

// IOutboundService is the single path for system-originated texts. Every
// send gets an outgoing MessageLog row before the delivery attempt and a
// DeliveryReceipt after it, success or not.
type IOutboundService interface {
	Send(ctx context.Context, to, text string, userId, contactId *uint) (*entity.MessageLog, error)
}

type outboundService struct {
	uowFactory       unitofwork.RepositoryFactory
	gateway          gateway.Gateway
	clock            clock.Clock
	logger           logger.ILogger
	sendTimeout      time.Duration
	maxStoreAttempts uint
}

func NewOutboundService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.Gateway,
	clk clock.Clock,
	log logger.ILogger,
	sendTimeout time.Duration,
	maxStoreAttempts uint,
) IOutboundService {
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}
	return &outboundService{
		uowFactory:       uowFactory,
		gateway:          gw,
		clock:            clk,
		logger:           log,
		sendTimeout:      sendTimeout,
		maxStoreAttempts: maxStoreAttempts,
	}
}

func (s *outboundService) Send(ctx context.Context, to, text string, userId, contactId *uint) (*entity.MessageLog, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. The outgoing row exists before any delivery attempt.
	msgLog := &entity.MessageLog{
		UserId:      userId,
		ContactId:   contactId,
		Timestamp:   s.clock.Now(),
		MessageText: text,
		Direction:   entity.DirectionOutgoing,
	}
	if err := retryStore(ctx, "create outgoing message log", s.maxStoreAttempts, func() error {
		return uow.MessageLogRepository().Create(ctx, msgLog)
	}); err != nil {
		return nil, err
	}

	// 2. Deliver under a bounded timeout.
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	result, sendErr := s.gateway.Send(sendCtx, to, text)

	// 3. Receipt the attempt.
	receipt := &entity.DeliveryReceipt{
		MessageLogId: msgLog.Id,
		CreatedAt:    s.clock.Now(),
	}
	if sendErr != nil {
		errMsg := sendErr.Error()
		receipt.Status = entity.DeliveryStatusFailed
		receipt.ErrorMessage = &errMsg
	} else {
		receipt.Status = entity.DeliveryStatusSent
		receipt.ProviderSid = result.ProviderSid
		receipt.Payload = result.RawResponse
	}
	if err := retryStore(ctx, "create delivery receipt", s.maxStoreAttempts, func() error {
		return uow.DeliveryReceiptRepository().Create(ctx, receipt)
	}); err != nil {
		// The text may already be out; a lost receipt is an audit gap, not
		// a delivery failure.
		s.logger.Error("OUTBOUND", "Failed to record delivery receipt", map[string]interface{}{
			"message_log_id": msgLog.Id,
			"error":          err.Error(),
		})
	}

	if sendErr != nil {
		s.logger.Warn("OUTBOUND", "Gateway send failed", map[string]interface{}{
			"to":    to,
			"error": sendErr.Error(),
		})
		return msgLog, &entity.GatewayError{To: to, Err: sendErr}
	}

	s.logger.Info("OUTBOUND", "Message delivered", map[string]interface{}{
		"to":           to,
		"provider_sid": result.ProviderSid,
	})
	return msgLog, nil
}
