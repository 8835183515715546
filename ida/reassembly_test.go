package ida

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burstFor(ctr, cont int, payload []byte, ts int64) IDABurst {
	var p [20]byte
	copy(p[:], payload)
	return IDABurst{
		Timestamp: ts,
		Frequency: 1621e6,
		Direction: DirectionDownlink,
		DaCtr:     ctr,
		DaLen:     len(payload),
		Cont:      cont,
		Payload:   p,
		CRCOK:     true,
	}
}

func TestReassemblerSingleBurst(t *testing.T) {
	r := NewReassembler()
	msg := r.Accept(burstFor(0, 0, []byte{1, 2, 3}, 0))
	require.NotNil(t, msg)
	assert.Equal(t, []byte{1, 2, 3}, msg.Data)
	assert.Equal(t, 0, r.ActiveSlots())
}

func TestReassemblerMultiFragmentChain(t *testing.T) {
	r := NewReassembler()

	msg := r.Accept(burstFor(0, 1, []byte{1, 2}, 0))
	assert.Nil(t, msg)
	assert.Equal(t, 1, r.ActiveSlots())

	msg = r.Accept(burstFor(1, 1, []byte{3, 4}, 50_000_000))
	assert.Nil(t, msg)

	msg = r.Accept(burstFor(2, 0, []byte{5, 6}, 100_000_000))
	require.NotNil(t, msg)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, msg.Data)
	assert.Equal(t, 0, r.ActiveSlots())
}

func TestReassemblerRejectsOutOfOrderCtr(t *testing.T) {
	r := NewReassembler()
	r.Accept(burstFor(0, 1, []byte{1}, 0))

	// da_ctr=2 is not (0+1) mod 8 == 1, so this can't continue the chain
	// and isn't itself a valid chain start (da_ctr != 0); it's an orphan.
	msg := r.Accept(burstFor(2, 0, []byte{9}, 10_000_000))
	assert.Nil(t, msg)
	assert.Equal(t, 1, r.ActiveSlots())
}

func TestReassemblerDropsFragmentOutsideTimeWindow(t *testing.T) {
	r := NewReassembler()
	r.Accept(burstFor(0, 1, []byte{1}, 0))

	// 300ms later: beyond the 280ms continuation window, so the slot has
	// already been flushed and da_ctr=1 now looks like an orphan.
	msg := r.Accept(burstFor(1, 0, []byte{2}, 300_000_000))
	assert.Nil(t, msg)
	assert.Equal(t, 0, r.ActiveSlots())
}

func TestReassemblerEvictsLRUWhenFull(t *testing.T) {
	r := NewReassembler()
	for i := 0; i < idaSlotCount; i++ {
		r.Accept(burstFor(0, 1, []byte{byte(i)}, int64(i)*1000))
	}
	assert.Equal(t, idaSlotCount, r.ActiveSlots())

	// One more chain-start must evict the oldest (slot for i=0) rather
	// than grow past the fixed table size.
	r.Accept(burstFor(0, 1, []byte{99}, 1_000_000))
	assert.Equal(t, idaSlotCount, r.ActiveSlots())
}

func TestReassemblerIgnoresBadCRC(t *testing.T) {
	r := NewReassembler()
	b := burstFor(0, 0, []byte{1}, 0)
	b.CRCOK = false
	msg := r.Accept(b)
	assert.Nil(t, msg)
	assert.Equal(t, 0, r.ActiveSlots())
}
