package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"iridium-decode/ida"
)

func TestDedupeCacheSeenSuppressesRepeat(t *testing.T) {
	d := NewDedupeCache(50 * time.Millisecond)
	rec := ida.ACARSRecord{Direction: ida.DirectionDownlink, Mode: '2', Registration: "N12345", Label: "H1", Text: "HELLO"}

	assert.False(t, d.Seen(rec))
	assert.True(t, d.Seen(rec))
}

func TestDedupeCacheDistinguishesText(t *testing.T) {
	d := NewDedupeCache(time.Second)
	a := ida.ACARSRecord{Direction: ida.DirectionDownlink, Text: "HELLO"}
	b := ida.ACARSRecord{Direction: ida.DirectionDownlink, Text: "GOODBYE"}

	assert.False(t, d.Seen(a))
	assert.False(t, d.Seen(b))
}

func TestDedupeCacheExpiresAfterTTL(t *testing.T) {
	d := NewDedupeCache(20 * time.Millisecond)
	rec := ida.ACARSRecord{Direction: ida.DirectionUplink, Text: "PING"}

	assert.False(t, d.Seen(rec))
	time.Sleep(60 * time.Millisecond)
	assert.False(t, d.Seen(rec))
}
