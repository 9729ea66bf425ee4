package gateway

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SentMessage is one delivery recorded by the in-memory gateway.
type SentMessage struct {
	Sid         string
	To          string
	Body        string
	DeliveredAt time.Time
}

// MemoryGateway records sends instead of delivering them. It is used by
// tests and the simulation binary. Failures can be scripted per number.
type MemoryGateway struct {
	mu       sync.Mutex
	sent     []SentMessage
	failures map[string]error
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		failures: make(map[string]error),
	}
}

func (g *MemoryGateway) Name() string {
	return "memory"
}

func (g *MemoryGateway) Send(ctx context.Context, to string, body string) (*SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err, ok := g.failures[to]; ok {
		return nil, err
	}

	sid := "SM" + strings.ReplaceAll(uuid.NewString(), "-", "")
	msg := SentMessage{
		Sid:         sid,
		To:          to,
		Body:        body,
		DeliveredAt: time.Now(),
	}
	g.sent = append(g.sent, msg)

	raw, _ := json.Marshal(map[string]string{"sid": sid, "status": "sent"})
	return &SendResult{ProviderSid: sid, RawResponse: raw}, nil
}

// FailFor makes every send to the given number return err until cleared.
func (g *MemoryGateway) FailFor(to string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[to] = err
}

func (g *MemoryGateway) ClearFailure(to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, to)
}

// Sent returns a copy of everything delivered so far.
func (g *MemoryGateway) Sent() []SentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SentMessage, len(g.sent))
	copy(out, g.sent)
	return out
}

// SentTo filters recorded deliveries by destination number.
func (g *MemoryGateway) SentTo(to string) []SentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []SentMessage
	for _, m := range g.sent {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

func (g *MemoryGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = nil
	g.failures = make(map[string]error)
}
