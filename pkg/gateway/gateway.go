package gateway

import "context"

// SendResult is what the provider acknowledged for one delivery attempt.
type SendResult struct {
	ProviderSid string
	RawResponse []byte
}

// Gateway delivers outbound texts. Implementations must be safe for
// concurrent use; the engine fans out escalations from multiple workers.
type Gateway interface {
	Send(ctx context.Context, to string, body string) (*SendResult, error)
	Name() string
}
