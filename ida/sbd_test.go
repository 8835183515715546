package ida

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSBDMarkers(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		dir  Direction
		want bool
	}{
		{"downlink 0x76 data", []byte{0x76, 0x09, 0x00}, DirectionDownlink, true},
		{"downlink 0x76 out of range", []byte{0x76, 0x0F, 0x00}, DirectionDownlink, false},
		{"uplink 0x76 ack range", []byte{0x76, 0x0D, 0x00}, DirectionUplink, true},
		{"uplink 0x76 wrong direction range", []byte{0x76, 0x09, 0x00}, DirectionUplink, false},
		{"hello marker", []byte{0x06, 0x00, 0x20}, DirectionDownlink, true},
		{"hello marker unrecognized subtype", []byte{0x06, 0x00, 0x99}, DirectionDownlink, false},
		{"too short", []byte{0x06, 0x00}, DirectionDownlink, false},
		{"unrelated", []byte{0x01, 0x02, 0x03}, DirectionDownlink, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DetectSBD(c.data, c.dir))
		})
	}
}

func TestExtractSBDHelloVariant(t *testing.T) {
	data := make([]byte, 40)
	data[0] = 0x06
	data[1] = 0x00
	data[2] = 0x20
	body := data[2:]
	body[0] = 0x20
	body[15] = 3 // msgcnt
	for i := 29; i < len(body); i++ {
		body[i] = byte(i)
	}

	payload, msgno, msgcnt, ok := ExtractSBD(data, DirectionDownlink)
	require.True(t, ok)
	assert.Equal(t, 1, msgno)
	assert.Equal(t, 3, msgcnt)
	assert.Equal(t, body[29:], payload)
}

func TestExtractSBDGenericDataHeader(t *testing.T) {
	// typ1=0x09 is a detectable downlink marker but not the 0x08
	// pre-header variant, so it falls to the generic "other 0x76xx" path.
	data := []byte{0x76, 0x09, 0x10, 0x03, 7, 0xAA, 0xBB, 0xCC}
	payload, msgno, msgcnt, ok := ExtractSBD(data, DirectionDownlink)
	require.True(t, ok)
	assert.Equal(t, 7, msgno)
	assert.Equal(t, -1, msgcnt)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, payload)
}

func TestSBDReassemblerSingleFragment(t *testing.T) {
	r := NewSBDReassembler()
	out := r.Accept([]byte{1, 2, 3}, 1, 1, DirectionDownlink, 1621e6, 0.5, 0)
	assert.Equal(t, []byte{1, 2, 3}, out)
	assert.Equal(t, 0, r.ActiveSlots())
}

func TestSBDReassemblerMultiFragment(t *testing.T) {
	r := NewSBDReassembler()

	out := r.Accept([]byte{1, 2}, 1, 3, DirectionDownlink, 1621e6, 0.5, 0)
	assert.Nil(t, out)
	assert.Equal(t, 1, r.ActiveSlots())

	out = r.Accept([]byte{3, 4}, 2, 3, DirectionDownlink, 1621e6, 0.5, 1_000_000_000)
	assert.Nil(t, out)

	out = r.Accept([]byte{5, 6}, 3, 3, DirectionDownlink, 1621e6, 0.5, 2_000_000_000)
	require.NotNil(t, out)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out)
	assert.Equal(t, 0, r.ActiveSlots())
}

func TestSBDReassemblerTimeout(t *testing.T) {
	r := NewSBDReassembler()
	r.Accept([]byte{1}, 1, 2, DirectionDownlink, 1621e6, 0.5, 0)
	assert.Equal(t, 1, r.ActiveSlots())

	r.Flush(6_000_000_000) // 6s later, past the 5s timeout
	assert.Equal(t, 0, r.ActiveSlots())
}
