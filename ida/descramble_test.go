package ida

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeBCHChunkForTest builds a valid systematic BCH(31,20) codeword
// (zero syndrome) for the given 20-bit data value.
func encodeBCHChunkForTest(data uint32) []byte {
	codeword := (data << 11) | gf2Remainder(idaPayloadPoly, data<<11)
	out := make([]byte, 31)
	uintToBits(codeword, out, 31)
	return out
}

// interleaveBlockForTest is the exact inverse of deinterleaveSymbols for a
// full 62-symbol (124-bit) block, letting tests construct wire bits from
// the two half-streams the decoder expects to recover.
func interleaveBlockForTest(h1, h2 []byte) []byte {
	bits := make([]byte, 124)
	for k := 0; k < 31; k++ {
		idx := 61 - 2*k
		bits[2*idx] = h1[2*k]
		bits[2*idx+1] = h1[2*k+1]
	}
	for k := 0; k < 31; k++ {
		idx := 60 - 2*k
		bits[2*idx] = h2[2*k]
		bits[2*idx+1] = h2[2*k+1]
	}
	return bits
}

// interleaveBlockLLRForTest is interleaveBlockForTest's float64 twin, used
// to keep a test's injected LLR values aligned with the bit positions they
// describe after interleaving.
func interleaveBlockLLRForTest(h1, h2 []float64) []float64 {
	llr := make([]float64, 124)
	for k := 0; k < 31; k++ {
		idx := 61 - 2*k
		llr[2*idx] = h1[2*k]
		llr[2*idx+1] = h1[2*k+1]
	}
	for k := 0; k < 31; k++ {
		idx := 60 - 2*k
		llr[2*idx] = h2[2*k]
		llr[2*idx+1] = h2[2*k+1]
	}
	return llr
}

// buildBlockForTest produces 124 wire bits that will decode, in order, to
// the four 20-bit data words in out.
func buildBlockForTest(out [4]uint32) []byte {
	var chunks [4][]byte
	for j, ci := range chunkReorder {
		chunks[ci] = encodeBCHChunkForTest(out[j])
	}
	h1 := append(append([]byte{}, chunks[0]...), chunks[1]...)
	h2 := append(append([]byte{}, chunks[2]...), chunks[3]...)
	return interleaveBlockForTest(h1, h2)
}

func TestDescramblePayloadSingleCleanBlock(t *testing.T) {
	tables := NewTables()
	block := buildBlockForTest([4]uint32{0x1, 0x2, 0x3, 0x4})

	stream, fixed, _ := DescramblePayload(tables, block, nil)

	require.Len(t, stream, 80)
	assert.Equal(t, 0, fixed)
	assert.Equal(t, uint32(0x1), bitsToUint(stream[0:20], 20))
	assert.Equal(t, uint32(0x2), bitsToUint(stream[20:40], 20))
	assert.Equal(t, uint32(0x3), bitsToUint(stream[40:60], 20))
	assert.Equal(t, uint32(0x4), bitsToUint(stream[60:80], 20))
}

func TestDescramblePayloadStopsAtFirstBadChunk(t *testing.T) {
	tables := NewTables()
	block := buildBlockForTest([4]uint32{0x1, 0x2, 0x3, 0x4})

	// Smash over half the wire bits: however they map onto the four
	// chunks, at least one chunk ends up past any 2-bit/Chase-5 repair
	// budget (no LLRs supplied, so Chase-5 doesn't even run).
	for i := 0; i < 70; i++ {
		block[i] ^= 1
	}

	stream, _, _ := DescramblePayload(tables, block, nil)
	assert.Less(t, len(stream), 80)
}

func TestDescramblePayloadRecoversViaChase5(t *testing.T) {
	tables := NewTables()
	data := [4]uint32{0x5, 0x6, 0x7, 0x8}

	var chunks [4][]byte
	for j, ci := range chunkReorder {
		chunks[ci] = encodeBCHChunkForTest(data[j])
	}

	// chunks[0] carries data[3] (0x8) and decodes last; corrupt it with 3
	// bit errors, beyond the table's 2-bit hard-decode limit.
	corrupt := []int{2, 5, 9}
	for _, p := range corrupt {
		chunks[0][p] ^= 1
	}

	h1 := append(append([]byte{}, chunks[0]...), chunks[1]...)
	h2 := append(append([]byte{}, chunks[2]...), chunks[3]...)
	block := interleaveBlockForTest(h1, h2)

	h1llr := make([]float64, 62)
	h2llr := make([]float64, 62)
	for i := range h1llr {
		h1llr[i] = 10
	}
	for i := range h2llr {
		h2llr[i] = 10
	}
	for _, p := range corrupt {
		h1llr[p] = 0.1 // chunks[0] occupies h1[0:31] directly
	}
	blockLLR := interleaveBlockLLRForTest(h1llr, h2llr)

	stream, fixed, _ := DescramblePayload(tables, block, blockLLR)
	require.Len(t, stream, 80)
	assert.GreaterOrEqual(t, fixed, 1)
	assert.Equal(t, data[3], bitsToUint(stream[60:80], 20))
}
