package constant

import "time"

// Dispatch pipeline topics.
const (
	TopicInbound  = "engine.inbound"
	TopicDeadline = "engine.deadline"
)

const (
	// Fallback check-in interval for seeded users.
	DefaultDelayIntervalMinutes = 30

	// How long a provider message SID is remembered for webhook dedupe.
	InboundDedupeTTL = 10 * time.Minute

	// Timer re-arm delay after a deadline transition exhausts its store
	// retries. Short on purpose: the deadline must not be lost.
	StoreRetryInterval = 30 * time.Second
)
