package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"iridium-decode/ida"
)

func TestFormatIDAOkCRC(t *testing.T) {
	burst := ida.IDABurst{
		Timestamp: 99,
		Frequency: 1621e6,
		Direction: ida.DirectionDownlink,
		LCWHeader: "LCW(2,T:maint,C:sync[status:0,dtoa:0,dfoa:0])",
		DaCtr:     3,
		DaLen:     5,
		Cont:      0,
		FixedErrs: 1,
		CRCOK:     true,
		Level:     1.0,
	}
	copy(burst.Payload[:], []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01})
	burst.PayloadLen = 5

	line := FormatIDA(burst)
	assert.True(t, strings.HasPrefix(line, "IDA: "))
	assert.Contains(t, line, "CRC:OK")
	assert.Contains(t, line, "de.ad.be.ef.01")
	assert.Contains(t, line, "T:3")
	assert.Contains(t, line, "L:05")
	assert.Contains(t, line, "DL")
}

func TestFormatIDAErrCRCIncludesStoredAndComputed(t *testing.T) {
	burst := ida.IDABurst{CRCOK: false, CRCStored: 0xBEEF, CRCComputed: 0xCAFE}
	line := FormatIDA(burst)
	assert.Contains(t, line, "CRC:ERR(BEEF!=CAFE)")
}

func TestFormatIDAZeroLevelFloorsAtMinus99(t *testing.T) {
	burst := ida.IDABurst{Level: 0}
	line := FormatIDA(burst)
	assert.Contains(t, line, "-99.99")
}

func TestIdaHexFieldPadsToSixtyAndMarksTrailingGarbage(t *testing.T) {
	var payload [20]byte
	payload[0] = 0xAB
	payload[5] = 0x01 // nonzero past a da_len of 2

	field := idaHexField(payload, 2)
	assert.Len(t, field, 60)
	assert.Contains(t, field, "!")
}

func TestIdaHexFieldNoMarkerWhenTrailingIsZero(t *testing.T) {
	var payload [20]byte
	payload[0] = 0xAB

	field := idaHexField(payload, 2)
	assert.Len(t, field, 60)
	assert.NotContains(t, field, "!")
}

func TestSbdPreviewSubstitutesNonPrintable(t *testing.T) {
	var payload [20]byte
	copy(payload[:], []byte{'H', 'I', 0x01, 0x02})

	preview := sbdPreview(payload, 4)
	assert.Len(t, preview, 20)
	assert.True(t, strings.HasPrefix(preview, "HI.."))
}
