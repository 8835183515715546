package output

import (
	"fmt"
	"math"
	"strings"

	"iridium-decode/ida"
)

// leveldb converts a linear level measurement to dB per §6: 20*log10 of the
// level, floored at 1e-5 to avoid -Inf, or the fixed floor value -99.99
// when the level is non-positive.
func leveldb(level float64) float64 {
	if level <= 0 {
		return -99.99
	}
	return 20 * math.Log10(math.Max(level, 1e-5))
}

// idaHexField renders the 20-byte payload buffer as `.`-separated hex byte
// pairs, padded to exactly 60 characters, with a `!` marker spliced in at
// the da_len byte boundary whenever a byte past the declared payload
// length is nonzero (leftover BCH-decoded garbage past the true message).
func idaHexField(payload [20]byte, daLen int) string {
	parts := make([]string, len(payload))
	for i, b := range payload {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	field := strings.Join(parts, ".")

	trailingNonzero := false
	for i := daLen; i < len(payload); i++ {
		if payload[i] != 0 {
			trailingNonzero = true
			break
		}
	}
	if trailingNonzero && daLen >= 0 && daLen < len(payload) {
		pos := daLen * 3 // "xx." per byte
		if pos <= len(field) {
			field = field[:pos] + "!" + field[pos:]
		}
	}

	if len(field) < 60 {
		field += strings.Repeat(".", 60-len(field))
	} else if len(field) > 60 {
		field = field[:60]
	}
	return field
}

// sbdPreview renders the first 20 bytes of the payload as ASCII text,
// substituting `.` for any non-printable byte, padded to exactly 20 chars.
func sbdPreview(payload [20]byte, n int) string {
	if n > len(payload) {
		n = len(payload)
	}
	b := make([]byte, 20)
	for i := 0; i < 20; i++ {
		if i >= n {
			b[i] = '.'
			continue
		}
		c := payload[i]
		if c >= 0x20 && c < 0x7F {
			b[i] = c
		} else {
			b[i] = '.'
		}
	}
	return string(b)
}

// FormatIDA renders a decoded IDA burst as the fixed-width parsed line
// (spec §4.10/§6 "IDA parsed line"). fileInfoPlaceholder stands in for the
// caller-supplied `{parsed_info}` token, matching FormatRAW's treatment of
// `{file_info}`.
func FormatIDA(burst ida.IDABurst) string {
	tsMs := float64(burst.Timestamp) / 1e6

	crcSection := "CRC:OK "
	if !burst.CRCOK {
		crcSection = fmt.Sprintf("CRC:ERR(%04X!=%04X) ", burst.CRCStored, burst.CRCComputed)
	}

	bchFields := fmt.Sprintf("0:0 C:%d T:%d L:%02d ", burst.Cont, burst.DaCtr, burst.DaLen)
	trailing := fmt.Sprintf("TB:%d ", burst.TrailingBits)

	return fmt.Sprintf("IDA: %s %014.4f %010d %3d%% %06.2f|%+07.2f|%05.2f %3d %s %s%s%s%s%s%s",
		fileInfoPlaceholder, tsMs, int64(burst.Frequency), burst.Confidence,
		leveldb(burst.Level), burst.Noise, leveldb(burst.Level)-burst.Noise,
		burst.NPayloadSymbols, burst.Direction.String(),
		burst.LCWHeader, bchFields, idaHexField(burst.Payload, burst.DaLen),
		crcSection, trailing, sbdPreview(burst.Payload, burst.PayloadLen))
}
