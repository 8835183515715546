package output

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/patrickmn/go-cache"
	"iridium-decode/ida"
)

// DedupeCache suppresses ACARS records that repeat within a TTL window —
// uplinked messages are frequently retransmitted identically — the same
// recently-seen check the teacher applies to ICAO addresses via
// mode_s.Decoder.icao_cache, here keyed on message content instead of
// address identity.
type DedupeCache struct {
	c *cache.Cache
}

// NewDedupeCache builds a cache with the given TTL and a cleanup interval of
// twice the TTL.
func NewDedupeCache(ttl time.Duration) *DedupeCache {
	return &DedupeCache{c: cache.New(ttl, ttl*2)}
}

// Seen reports whether an equivalent record has already passed through
// within the TTL window, and records this one if not.
func (d *DedupeCache) Seen(rec ida.ACARSRecord) bool {
	key := dedupeKey(rec)
	if _, found := d.c.Get(key); found {
		return true
	}
	d.c.SetDefault(key, struct{}{})
	return false
}

func dedupeKey(rec ida.ACARSRecord) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%c|%s|%c|%s|%c|%s|%s|%s",
		rec.Direction, rec.Mode, rec.Registration, rec.Ack, rec.Label,
		rec.BlockID, rec.Sequence, rec.FlightNo, rec.Text)
	return fmt.Sprintf("%x", h.Sum64())
}
