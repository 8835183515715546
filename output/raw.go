// Package output implements the serializers and sinks named in spec §4.10
// and §6: fixed-width text lines for RAW/IDA records, text and JSON forms
// for ACARS records, a dedupe cache, and a publish-subscribe sink.
package output

import (
	"fmt"
	"strings"

	"iridium-decode/ida"
)

// fileInfoPlaceholder stands in for the spec's {file_info}/{parsed_info}
// tokens: a caller-supplied label identifying the capture source (a file
// path, a device name). The core has no such label to offer on its own, so
// the serializer emits a fixed placeholder; an embedding caller is free to
// build its own line prefix instead of using these serializers.
const fileInfoPlaceholder = "-"

// bitstring renders a demod_frame's 0/1-valued bit bytes as a literal
// string of '0'/'1' characters, in reception order.
func bitstring(bits []byte) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, v := range bits {
		if v != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// FormatRAW renders a demod_frame as the RAW diagnostic line (spec §4.10,
// §6): `RAW: {file_info} {ts_ms:.4f} {freq_hz:010d} N:{mag:05.2f}{noise:+06.2f}
// I:{id:011d} {conf:3d}% {level:.5f} {n_syms:3d} {bitstring}`.
func FormatRAW(frame ida.DemodFrame) string {
	tsMs := float64(frame.Timestamp) / 1e6
	return fmt.Sprintf("RAW: %s %.4f %010d N:%05.2f%+06.2f I:%011d %3d%% %.5f %3d %s",
		fileInfoPlaceholder, tsMs, int64(frame.CenterFrequency),
		frame.Magnitude, frame.Noise, frame.ID, frame.Confidence,
		frame.Level, frame.NPayloadSymbols, bitstring(frame.Bits))
}
