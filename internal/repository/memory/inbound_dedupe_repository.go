package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// InboundDedupeRepository remembers provider message SIDs so a redelivered
// webhook (Twilio retries on slow acks) is dropped instead of producing a
// second incoming log row.
type InboundDedupeRepository struct {
	cache *cache.Cache
}

func NewInboundDedupeRepository(ttl time.Duration) *InboundDedupeRepository {
	// Purge at half the TTL; entries only need to outlive the provider's
	// retry window.
	purge := ttl / 2
	if purge < time.Minute {
		purge = time.Minute
	}
	return &InboundDedupeRepository{
		cache: cache.New(ttl, purge),
	}
}

// Seen marks the SID and reports whether it was already present.
func (r *InboundDedupeRepository) Seen(providerSid string) bool {
	if providerSid == "" {
		return false
	}
	if err := r.cache.Add(providerSid, struct{}{}, cache.DefaultExpiration); err != nil {
		return true
	}
	return false
}

// Forget unmarks a SID. Used when enqueueing the message failed after the
// mark, so the provider's redelivery is not dropped as a duplicate.
func (r *InboundDedupeRepository) Forget(providerSid string) {
	r.cache.Delete(providerSid)
}
