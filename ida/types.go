// Package ida implements the Iridium IDA/LCW/SBD/ACARS decode core: LCW
// classification, BCH(31,20)+Chase-5 payload descrambling, CRC-gated burst
// assembly, multi-burst and multi-fragment reassembly, and ACARS parsing.
//
// The package consumes already-isolated demodulated bursts (DemodFrame) and
// produces structured application records. It never interprets raw I/Q
// samples and never blocks on I/O; every exported entry point is a pure or
// bounded-state transformation over its input.
package ida

// Direction classifies which half of the Iridium link a burst was observed
// on, as determined by the front-end's access-code match.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionUplink
	DirectionDownlink
)

func (d Direction) String() string {
	switch d {
	case DirectionUplink:
		return "UL"
	case DirectionDownlink:
		return "DL"
	default:
		return "??"
	}
}

// DemodFrame is a single demodulated burst delivered by the QPSK front-end.
// Bits are 0/1 valued bytes in reception order; LLR, when present, is
// aligned 1:1 with Bits and carries confidence (larger magnitude == more
// reliable, sign agrees with the hard bit value already folded into Bits).
type DemodFrame struct {
	Timestamp        int64 // monotonic nanoseconds
	CenterFrequency  float64
	Direction        Direction
	Magnitude        float64
	Noise            float64
	Level            float64
	Confidence       int // 0..100
	Bits             []byte
	LLR              []float64 // optional, len(LLR) == len(Bits) when present
	ID               uint64
	NPayloadSymbols  int
}

// LCW is a decoded Link Control Word (spec §3, §4.2).
type LCW struct {
	FT      int // 0..7; only FT==2 advances to IDA
	LcwFT   int // 0..3
	LcwCode int // 0..15
	Lcw3Val uint32
	EcLcw   int // number of the 3 BCH components that had a nonzero syndrome
	OK      bool
}

// IDABurst is a CRC-checked, BCH-corrected IDA burst (spec §3, §4.5).
type IDABurst struct {
	Timestamp  int64
	Frequency  float64
	Direction  Direction
	Magnitude  float64
	Noise      float64
	Level      float64
	Confidence int

	DaCtr      int
	DaLen      int
	Cont       int
	Payload    [20]byte
	PayloadLen int

	CRCOK       bool
	CRCStored   uint16
	CRCComputed uint16

	FixedErrs       int
	BCHStream       []byte
	NPayloadSymbols int // carried through from the originating demod_frame, for display
	TrailingBits    int // payload bits left over after the last decodable chunk

	LCW       LCW
	LCWHeader string
}

// ida.Message is a fully reassembled IDA payload (spec §3, "ida_message").
type Message struct {
	Data      []byte
	Timestamp int64
	Frequency float64
	Direction Direction
	Magnitude float64
	Level     float64
}

// ACARSRecord is a parsed ACARS message (spec §3, §4.8).
type ACARSRecord struct {
	Mode         byte
	Registration string
	Ack          byte
	Label        string
	BlockID      byte
	HasSequence  bool
	Sequence     string
	FlightNo     string
	Text         string
	Continuation bool
	Errors       int

	Timestamp int64
	Frequency float64
	Magnitude float64
	Level     float64
	Direction Direction

	Header    []byte // optional opaque 8-byte header
	HasHeader bool
}
