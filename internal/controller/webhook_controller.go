package controller

import (
	"encoding/json"
	"time"

	"workalone-be/internal/dto"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/pkg/serverutils"
	"workalone-be/internal/repository/memory"
	"workalone-be/internal/service"
	"workalone-be/pkg/gateway"

	"github.com/gofiber/fiber/v2"
)

// Twilio retries the webhook until it gets a 2xx, and the reply never
// carries a message: processing is asynchronous, replies go out through the
// gateway.
const emptyTwiml = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleInboundSms(ctx *fiber.Ctx) error
}

type webhookController struct {
	publisher         service.IPublisherService
	dedupe            *memory.InboundDedupeRepository
	logger            logger.ILogger
	authToken         string
	webhookURL        string
	validateSignature bool
}

// NewWebhookController wires the inbound SMS endpoint. webhookURL overrides
// the reconstructed request URL for signature checks behind proxies that
// rewrite Host or terminate TLS; empty means reconstruct.
func NewWebhookController(
	publisher service.IPublisherService,
	dedupe *memory.InboundDedupeRepository,
	log logger.ILogger,
	authToken string,
	webhookURL string,
	validateSignature bool,
) IWebhookController {
	return &webhookController{
		publisher:         publisher,
		dedupe:            dedupe,
		logger:            log,
		authToken:         authToken,
		webhookURL:        webhookURL,
		validateSignature: validateSignature,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook")
	h.Post("/sms", c.HandleInboundSms)
}

func (c *webhookController) HandleInboundSms(ctx *fiber.Ctx) error {
	if c.validateSignature && !c.signatureValid(ctx) {
		c.logger.Warn("WEBHOOK", "Rejected request with bad signature", map[string]interface{}{
			"ip": ctx.IP(),
		})
		return fiber.NewError(fiber.StatusForbidden, "invalid signature")
	}

	var req dto.InboundSmsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if c.dedupe.Seen(req.MessageSid) {
		c.logger.Info("WEBHOOK", "Duplicate webhook dropped", map[string]interface{}{
			"message_sid": req.MessageSid,
		})
		return replyTwiml(ctx)
	}

	payload, err := json.Marshal(dto.ProcessInboundMessage{
		From:        req.From,
		Body:        req.Body,
		ReceivedAt:  time.Now().UTC(),
		ProviderSid: req.MessageSid,
	})
	if err != nil {
		c.dedupe.Forget(req.MessageSid)
		return err
	}
	if err := c.publisher.Publish(ctx.Context(), payload); err != nil {
		// Non-2xx makes Twilio redeliver; forget the SID so that retry is
		// not swallowed by the dedupe cache.
		c.dedupe.Forget(req.MessageSid)
		c.logger.Error("WEBHOOK", "Failed to enqueue inbound message", map[string]interface{}{
			"message_sid": req.MessageSid,
			"error":       err.Error(),
		})
		return fiber.NewError(fiber.StatusInternalServerError, "failed to enqueue message")
	}

	return replyTwiml(ctx)
}

func (c *webhookController) signatureValid(ctx *fiber.Ctx) bool {
	signature := ctx.Get("X-Twilio-Signature")
	if signature == "" {
		return false
	}

	url := c.webhookURL
	if url == "" {
		url = ctx.BaseURL() + ctx.OriginalURL()
	}

	params := make(map[string]string)
	ctx.Request().PostArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})

	return gateway.ValidateTwilioSignature(c.authToken, url, params, signature)
}

func replyTwiml(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, "application/xml")
	return ctx.SendString(emptyTwiml)
}
