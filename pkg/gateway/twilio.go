package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioGateway sends SMS through the Twilio Messages API.
type TwilioGateway struct {
	accountSid string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

type twilioMessageResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

type twilioErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// NewTwilioGateway builds a gateway for the given account. baseURL is
// overridable so tests and local twins can stand in for the real API.
func NewTwilioGateway(accountSid, authToken, fromNumber, baseURL string, timeout time.Duration) *TwilioGateway {
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TwilioGateway{
		accountSid: accountSid,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
	}
}

func (g *TwilioGateway) Name() string {
	return "twilio"
}

func (g *TwilioGateway) Send(ctx context.Context, to string, body string) (*SendResult, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", g.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", g.baseURL, g.accountSid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.accountSid, g.authToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr twilioErrorResponse
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("twilio rejected message (status %d, code %d): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("twilio returned unexpected status %d", resp.StatusCode)
	}

	var msg twilioMessageResponse
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode twilio response: %w", err)
	}
	if msg.Sid == "" {
		return nil, fmt.Errorf("twilio response missing message sid")
	}

	return &SendResult{ProviderSid: msg.Sid, RawResponse: raw}, nil
}
