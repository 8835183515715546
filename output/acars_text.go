package output

import (
	"fmt"
	"strings"

	"iridium-decode/ida"
)

// FormatACARSText renders an ACARS record as a fixed-width human-readable
// line (spec §4.10, "--acars" mode), in the teacher's Sprintf-table style
// (main.go update()'s aircraft row). Unlike the JSON sink, text mode is
// lenient: records with Errors > 0 are still emitted, flagged with an
// ERRORS marker, rather than suppressed.
func FormatACARSText(rec ida.ACARSRecord) string {
	ack := formatACARSAck(rec.Ack)
	if ack == "" {
		ack = " "
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ACARS %12d %12.1f %-2s [%c] %-7s %s %-2s %c",
		rec.Timestamp, rec.Frequency, rec.Direction.String(),
		rec.Mode, rec.Registration, ack, rec.Label, rec.BlockID)
	if rec.HasSequence {
		fmt.Fprintf(&b, " seq=%-4s flt=%-6s", rec.Sequence, rec.FlightNo)
	}
	if rec.Errors > 0 {
		fmt.Fprintf(&b, " ERRORS(%d)", rec.Errors)
	}
	fmt.Fprintf(&b, " %q", rec.Text)
	return b.String()
}
