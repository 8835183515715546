package ida

import "sync"

const (
	sbdSlotCount    = 8
	sbdMaxSize      = 1024
	sbdTimeoutNs    = int64(5 * 1_000_000_000) // 5s
)

// DetectSBD reports whether a reassembled ida message carries an SBD
// envelope, per the marker bytes in spec §4.7.
func DetectSBD(data []byte, dir Direction) bool {
	if len(data) < 3 {
		return false
	}
	if data[0] == 0x76 && data[1] != 0x05 {
		if dir == DirectionDownlink && data[1] >= 0x08 && data[1] <= 0x0B {
			return true
		}
		if dir == DirectionUplink && data[1] >= 0x0C && data[1] <= 0x0E {
			return true
		}
		return false
	}
	if data[0] == 0x06 && data[1] == 0x00 {
		switch data[2] {
		case 0x00, 0x10, 0x20, 0x40, 0x50, 0x70:
			return true
		}
	}
	return false
}

// ExtractSBD strips the SBD type marker and variant-specific pre-header,
// returning the inner message payload along with its msgno/msgcnt fields
// (spec §4.7). msgcnt is -1 when the variant carries no count (the
// generic "other 0x76xx" case).
func ExtractSBD(data []byte, dir Direction) (payload []byte, msgno, msgcnt int, ok bool) {
	if !DetectSBD(data, dir) {
		return nil, 0, 0, false
	}
	typ0, typ1 := data[0], data[1]
	body := data[2:]

	switch {
	case typ0 == 0x06 && typ1 == 0x00:
		if len(body) <= 29 || body[0] != 0x20 {
			return nil, 0, 0, false
		}
		msgcnt = int(body[15])
		if msgcnt != 0 {
			msgno = 1
		}
		return body[29:], msgno, msgcnt, true

	case typ0 == 0x76 && typ1 == 0x08 && dir == DirectionDownlink:
		preheader := 7
		if len(body) > 0 && body[0] == 0x20 {
			preheader = 5
		}
		if len(body) < preheader+1 {
			return nil, 0, 0, false
		}
		msgcnt = int(body[3])
		return extractSBDDataHeader(body[preheader:], msgcnt)

	default:
		rest := body
		if dir == DirectionUplink && len(rest) > 0 && (rest[0] == 0x50 || rest[0] == 0x51) {
			if len(rest) < 3 {
				return nil, 0, 0, false
			}
			rest = rest[3:]
		}
		return extractSBDDataHeader(rest, -1)
	}
}

// extractSBDDataHeader peels the generic "0x10 len msgno" data header
// (spec §4.7) when present; otherwise the remainder is the payload as-is
// and msgno stays 0 (single-fragment variants, e.g. Hello/SBD, set msgno
// from msgcnt directly and never reach here with a 0x10 header).
func extractSBDDataHeader(rest []byte, msgcnt int) (payload []byte, msgno, mc int, ok bool) {
	if len(rest) >= 3 && rest[0] == 0x10 {
		l := int(rest[1])
		msgno = int(rest[2])
		if len(rest) < 3+l {
			return nil, 0, 0, false
		}
		return rest[3 : 3+l], msgno, msgcnt, true
	}
	return rest, 0, msgcnt, true
}

type sbdSlot struct {
	active        bool
	direction     Direction
	msgcnt        int
	expectedNext  int
	lastTimestamp int64
	frequency     float64
	magnitude     float64
	data          []byte
}

// SBDReassembler is the 8-slot SBD fragment reassembler (spec §4.7), keyed
// by (direction, msgno chain) rather than IDA's frequency+ctr scheme.
type SBDReassembler struct {
	mu    sync.Mutex
	slots [sbdSlotCount]sbdSlot
}

func NewSBDReassembler() *SBDReassembler {
	return &SBDReassembler{}
}

// Accept feeds one extracted SBD fragment into the reassembler, returning
// the completed payload when the chain closes or the fragment is itself a
// complete message.
func (r *SBDReassembler) Accept(payload []byte, msgno, msgcnt int, dir Direction, freq, mag float64, timestamp int64) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushLocked(timestamp)

	if msgno == 0 {
		return append([]byte{}, payload...)
	}
	if msgcnt == 1 && msgno == 1 {
		return append([]byte{}, payload...)
	}

	if msgno == 1 && msgcnt > 1 {
		idx := r.findSlotLocked()
		r.slots[idx] = sbdSlot{
			active:        true,
			direction:     dir,
			msgcnt:        msgcnt,
			expectedNext:  2,
			lastTimestamp: timestamp,
			frequency:     freq,
			magnitude:     mag,
			data:          append([]byte{}, payload...),
		}
		return nil
	}

	for i := range r.slots {
		s := &r.slots[i]
		if !s.active || s.direction != dir || s.expectedNext != msgno {
			continue
		}
		n := len(payload)
		if room := sbdMaxSize - len(s.data); n > room {
			n = room
		}
		s.data = append(s.data, payload[:n]...)
		s.lastTimestamp = timestamp
		s.expectedNext = msgno + 1

		if msgno >= s.msgcnt {
			out := append([]byte{}, s.data...)
			s.active = false
			s.data = nil
			return out
		}
		return nil
	}

	return nil
}

func (r *SBDReassembler) findSlotLocked() int {
	for i := range r.slots {
		if !r.slots[i].active {
			return i
		}
	}
	lru := 0
	for i := 1; i < sbdSlotCount; i++ {
		if r.slots[i].lastTimestamp < r.slots[lru].lastTimestamp {
			lru = i
		}
	}
	return lru
}

func (r *SBDReassembler) flushLocked(now int64) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.active && now-s.lastTimestamp > sbdTimeoutNs {
			s.active = false
			s.data = nil
		}
	}
}

// Flush evicts slots idle for more than 5s relative to now.
func (r *SBDReassembler) Flush(now int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked(now)
}

// ActiveSlots reports how many SBD reassembly chains are currently open.
func (r *SBDReassembler) ActiveSlots() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.slots {
		if s.active {
			n++
		}
	}
	return n
}
