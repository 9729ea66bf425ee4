package controller

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"workalone-be/internal/dto"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/pkg/serverutils"
	"workalone-be/internal/repository/memory"
)

type discardLogger struct{}

func (discardLogger) Debug(module, message string, details map[string]interface{}) {}
func (discardLogger) Info(module, message string, details map[string]interface{})  {}
func (discardLogger) Warn(module, message string, details map[string]interface{})  {}
func (discardLogger) Error(module, message string, details map[string]interface{}) {}
func (discardLogger) Sync() error                                                  { return nil }
func (discardLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (discardLogger) GetLogById(id string) (*logger.LogEntry, error) {
	return nil, errors.New("log not found")
}

// capturePublisher stands in for the watermill topic. Set fail to script a
// broker outage.
type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     error
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

func (p *capturePublisher) last(t *testing.T) dto.ProcessInboundMessage {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.payloads) == 0 {
		t.Fatal("no payload was published")
	}
	var msg dto.ProcessInboundMessage
	if err := json.Unmarshal(p.payloads[len(p.payloads)-1], &msg); err != nil {
		t.Fatalf("failed to unmarshal published payload: %v", err)
	}
	return msg
}

func newWebhookApp(pub *capturePublisher, authToken, webhookURL string, validate bool) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	c := NewWebhookController(pub, memory.NewInboundDedupeRepository(10*time.Minute), discardLogger{}, authToken, webhookURL, validate)
	c.RegisterRoutes(api)
	return app
}

func smsForm(sid, from, body string) url.Values {
	form := url.Values{}
	form.Set("MessageSid", sid)
	form.Set("AccountSid", "AC0d6f2b1c9e8a4f5b8c7d6e5f4a3b2c1d")
	form.Set("From", from)
	form.Set("To", "+15550000000")
	form.Set("Body", body)
	form.Set("NumMedia", "0")
	return form
}

func postSms(t *testing.T, app *fiber.App, form url.Values, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// twilioSign mirrors Twilio's request signing: HMAC-SHA1 over the URL
// followed by the sorted form keys and values, base64 encoded.
func twilioSign(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(requestURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}
	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookAcceptsAndPublishes(t *testing.T) {
	pub := &capturePublisher{}
	app := newWebhookApp(pub, "", "", false)

	resp := postSms(t, app, smsForm("SM100", "+15550100001", "start"), nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, emptyTwiml, string(raw))

	assert.Equal(t, 1, pub.count())
	msg := pub.last(t)
	assert.Equal(t, "+15550100001", msg.From)
	assert.Equal(t, "start", msg.Body)
	assert.Equal(t, "SM100", msg.ProviderSid)
	assert.False(t, msg.ReceivedAt.IsZero())
}

func TestWebhookDropsDuplicateSid(t *testing.T) {
	pub := &capturePublisher{}
	app := newWebhookApp(pub, "", "", false)

	first := postSms(t, app, smsForm("SM200", "+15550100001", "ok"), nil)
	second := postSms(t, app, smsForm("SM200", "+15550100001", "ok"), nil)

	// The retry still gets a clean TwiML ack so the provider stops resending.
	assert.Equal(t, fiber.StatusOK, first.StatusCode)
	assert.Equal(t, fiber.StatusOK, second.StatusCode)
	assert.Equal(t, 1, pub.count())
}

func TestWebhookRejectsInvalidPayload(t *testing.T) {
	pub := &capturePublisher{}
	app := newWebhookApp(pub, "", "", false)

	t.Run("Missing From", func(t *testing.T) {
		form := smsForm("SM300", "+15550100001", "start")
		form.Del("From")
		resp := postSms(t, app, form, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing Body", func(t *testing.T) {
		form := smsForm("SM301", "+15550100001", "start")
		form.Del("Body")
		resp := postSms(t, app, form, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("From is not E.164", func(t *testing.T) {
		resp := postSms(t, app, smsForm("SM302", "5550100001", "start"), nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	assert.Equal(t, 0, pub.count())
}

func TestWebhookPublishFailureForgetsSid(t *testing.T) {
	pub := &capturePublisher{fail: errors.New("broker down")}
	app := newWebhookApp(pub, "", "", false)

	resp := postSms(t, app, smsForm("SM400", "+15550100001", "start"), nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	// The SID must not be stuck in the dedupe cache, or the provider's
	// redelivery would be dropped and the message lost for good.
	pub.mu.Lock()
	pub.fail = nil
	pub.mu.Unlock()

	retry := postSms(t, app, smsForm("SM400", "+15550100001", "start"), nil)
	assert.Equal(t, fiber.StatusOK, retry.StatusCode)
	assert.Equal(t, 1, pub.count())
}

func TestWebhookSignatureValidation(t *testing.T) {
	const authToken = "test-auth-token"
	const hookURL = "https://hooks.example.com/api/webhook/sms"

	pub := &capturePublisher{}
	app := newWebhookApp(pub, authToken, hookURL, true)

	form := smsForm("SM500", "+15550100001", "start")

	t.Run("Missing signature is rejected", func(t *testing.T) {
		resp := postSms(t, app, form, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Wrong signature is rejected", func(t *testing.T) {
		resp := postSms(t, app, form, map[string]string{
			"X-Twilio-Signature": twilioSign("some-other-token", hookURL, form),
		})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Valid signature is accepted", func(t *testing.T) {
		resp := postSms(t, app, form, map[string]string{
			"X-Twilio-Signature": twilioSign(authToken, hookURL, form),
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Tampered body is rejected", func(t *testing.T) {
		sig := twilioSign(authToken, hookURL, form)
		tampered := smsForm("SM500", "+15550100001", "stop")
		resp := postSms(t, app, tampered, map[string]string{"X-Twilio-Signature": sig})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	assert.Equal(t, 1, pub.count())
}

func TestWebhookSignatureWithReconstructedUrl(t *testing.T) {
	const authToken = "test-auth-token"

	pub := &capturePublisher{}
	// No configured webhook URL: the controller signs against the URL it
	// reconstructs from the request itself.
	app := newWebhookApp(pub, authToken, "", true)

	form := smsForm("SM600", "+15550100001", "start")
	resp := postSms(t, app, form, map[string]string{
		"X-Twilio-Signature": twilioSign(authToken, "http://example.com/api/webhook/sms", form),
	})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, pub.count())
}
