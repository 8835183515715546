package ida

import (
	"math/bits"
	"strings"
)

// ParseACARS decodes an ACARS frame out of a reassembled ida/SBD payload
// (spec §4.8). dir distinguishes uplink frames, which may carry a
// sequence/flight-number pair ahead of the text, from downlink frames,
// which are text-only. ok is false only when the frame lacks the leading
// 0x01 marker or is too short to contain the fixed
// mode/registration/ack/label/block_id header; anything
// past that point degrades into Errors rather than outright rejection,
// mirroring the teacher's "decode what you can, flag the rest" posture in
// mode_s/decoder.go.
func ParseACARS(raw []byte, dir Direction) (ACARSRecord, bool) {
	if len(raw) < 1 || raw[0] != 0x01 {
		return ACARSRecord{}, false
	}
	body := raw[1:]
	if len(body) <= 2 {
		return ACARSRecord{}, false
	}

	hasCRC := false
	var crcBytes []byte
	if len(body) >= 3 && body[len(body)-3] == 0x7F {
		hasCRC = true
		crcBytes = append([]byte{}, body[len(body)-2:]...)
		body = body[:len(body)-3]
	}

	rec := ACARSRecord{Direction: dir}
	if len(body) >= 9 && body[0] == 0x03 {
		rec.Header = append([]byte{}, body[1:9]...)
		rec.HasHeader = true
		body = body[9:]
	}

	errs := 0
	stripped := make([]byte, len(body))
	for i, b := range body {
		if bits.OnesCount8(b)%2 == 0 {
			errs++
		}
		stripped[i] = b & 0x7F
	}

	if hasCRC {
		check := append(append([]byte{}, stripped...), crcBytes...)
		if crc16Kermit(check) != 0 {
			errs++
		}
	} else {
		errs++ // absent CRC is treated as a checksum failure, not an exemption
	}
	rec.Errors = errs

	if len(stripped) < 13 {
		return ACARSRecord{}, false
	}

	rec.Mode = stripped[0]
	rec.Registration = strings.TrimLeft(string(stripped[1:8]), ".")
	rec.Ack = stripped[8]
	rec.Label = formatACARSLabel(stripped[9:11])
	rec.BlockID = stripped[11]

	rest := stripped[12:]

	if n := len(rest); n > 0 && (rest[n-1] == 0x03 || rest[n-1] == 0x17) {
		rec.Continuation = rest[n-1] == 0x17
		rest = rest[:n-1]
	}

	if len(rest) > 0 && rest[0] == 0x02 {
		rest = rest[1:]
		if dir == DirectionUplink && len(rest) >= 10 {
			rec.HasSequence = true
			rec.Sequence = string(rest[0:4])
			rec.FlightNo = strings.TrimRight(string(rest[4:10]), " ")
			rec.Text = string(rest[10:])
		} else {
			rec.Text = string(rest)
		}
	} else {
		rec.Text = string(rest)
	}

	return rec, true
}

// formatACARSLabel applies the `_`+DEL remap (spec §4.8 step 7): some
// labels use 0x7F as a second character to mean a lowercase variant of the
// first, rendered here as the literal two characters "_d".
func formatACARSLabel(label []byte) string {
	if len(label) == 2 && label[0] == '_' && label[1] == 0x7F {
		return "_d"
	}
	return string(label)
}
