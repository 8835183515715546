package output

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"iridium-decode/ida"
)

// appWire is the fixed `app` identification block (spec §6).
type appWire struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// sourceWire is the fixed `source` block (spec §6): the decode core never
// sees a transport/protocol label of its own, so these are fixed constants
// describing this program rather than per-message data.
type sourceWire struct {
	Transport string `json:"transport"`
	Protocol  string `json:"protocol"`
}

// acarsInnerWire is the nested `acars` object (spec §6).
type acarsInnerWire struct {
	Timestamp     string `json:"timestamp"`
	Errors        int    `json:"errors"`
	LinkDirection string `json:"link_direction"`
	BlockEnd      bool   `json:"block_end"`
	Mode          string `json:"mode"`
	Tail          string `json:"tail"`
	Ack           string `json:"ack,omitempty"`
	Label         string `json:"label"`
	BlockID       string `json:"block_id"`
	MessageNumber string `json:"message_number,omitempty"`
	Flight        string `json:"flight,omitempty"`
	Text          string `json:"text,omitempty"`
}

// acarsJSONWire is the full JSON record (spec §6): an `app`/`source`
// envelope wrapping the ACARS fields proper, plus the shared
// frequency/level/header fields every decoded record carries.
type acarsJSONWire struct {
	App    appWire        `json:"app"`
	Source sourceWire     `json:"source"`
	ACARS  acarsInnerWire `json:"acars"`
	Freq   float64        `json:"freq"`
	Level  float64        `json:"level"`
	Header string         `json:"header"`
}

const (
	appName    = "iridium-decode"
	appVersion = "1"
)

// JSONEncoder renders ACARSRecord values as the wire JSON object, anchoring
// each record's monotonic-nanosecond Timestamp to a wall-clock RFC3339
// instant. The anchor is set from the first record it ever sees; every
// later record is projected from that anchor by its nanosecond delta, so a
// whole run's worth of records carries a single, internally consistent
// wall-clock timeline even though Timestamp itself is monotonic and has no
// absolute meaning on its own.
type JSONEncoder struct {
	anchored   bool
	anchorMono int64
	anchorWall time.Time
}

// NewJSONEncoder returns an encoder with no anchor set yet.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

// Encode renders rec as a wire JSON object, anchoring the timestamp on the
// first call.
func (e *JSONEncoder) Encode(rec ida.ACARSRecord) ([]byte, error) {
	if !e.anchored {
		e.anchorMono = rec.Timestamp
		e.anchorWall = time.Now().UTC()
		e.anchored = true
	}
	delta := time.Duration(rec.Timestamp-e.anchorMono) * time.Nanosecond
	wallTime := e.anchorWall.Add(delta)

	w := acarsJSONWire{
		App:    appWire{Name: appName, Version: appVersion},
		Source: sourceWire{Transport: "iridium-l-band", Protocol: "acars"},
		ACARS: acarsInnerWire{
			Timestamp:     wallTime.Format(time.RFC3339),
			Errors:        rec.Errors,
			LinkDirection: rec.Direction.String(),
			BlockEnd:      !rec.Continuation,
			Mode:          string(rec.Mode),
			Tail:          rec.Registration,
			Ack:           formatACARSAck(rec.Ack),
			Label:         rec.Label,
			BlockID:       string(rec.BlockID),
			Text:          rec.Text,
		},
		Freq:   rec.Frequency,
		Level:  rec.Level,
		Header: hex.EncodeToString(rec.Header),
	}
	if rec.HasSequence {
		w.ACARS.MessageNumber = rec.Sequence
		w.ACARS.Flight = rec.FlightNo
	}
	return json.Marshal(w)
}

// formatACARSAck renders an ACARS ack byte: 0x15 (NAK) is displayed as "!"
// per the teacher's convention for non-printable protocol control bytes, a
// zero byte (no ack present) renders as empty so the omitempty tag drops
// it, and any other byte renders literally.
func formatACARSAck(ack byte) string {
	switch ack {
	case 0:
		return ""
	case 0x15:
		return "!"
	default:
		return string(ack)
	}
}

// MarshalACARSJSON renders rec with a fresh, unanchored encoder: the
// timestamp anchors to the moment of the call, which only matters for a
// single record emitted in isolation. A long-running process should hold
// one JSONEncoder and call Encode on it for every record instead, so the
// whole stream shares one wall-clock anchor.
func MarshalACARSJSON(rec ida.ACARSRecord) ([]byte, error) {
	return NewJSONEncoder().Encode(rec)
}
