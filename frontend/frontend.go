// Package frontend defines the boundary between the decode core in ida
// and the external signal-acquisition stack named in spec §6 (the QPSK
// demodulator, SDR backends, and sample-rate front end). None of that is
// implemented here — those stay external collaborators — but the wire
// shape they hand off to the core is.
package frontend

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os/exec"

	"iridium-decode/ida"
)

// SampleBuf names the raw I/Q buffer format the SDR backend interface in
// spec §6 would hand a demodulator. The core never touches this type; it
// exists so the interface contract has a concrete shape to compile against.
type SampleBuf struct {
	SampleRate int
	Format     string // e.g. "cf32", "cs16"
	Data       []byte
}

// demodFrameWire is the JSON-lines wire record produced by an external
// front-end process. Field names follow the spec's demod_frame vocabulary
// directly rather than Go naming, since this struct's only job is to
// decode that exact wire format.
type demodFrameWire struct {
	Timestamp       int64     `json:"timestamp"`
	CenterFrequency float64   `json:"center_frequency"`
	Direction       string    `json:"direction"`
	Magnitude       float64   `json:"magnitude"`
	Noise           float64   `json:"noise"`
	Level           float64   `json:"level"`
	Confidence      int       `json:"confidence"`
	Bits            []byte    `json:"bits"`
	LLR             []float64 `json:"llr,omitempty"`
	ID              uint64    `json:"id"`
}

func (w demodFrameWire) toFrame() ida.DemodFrame {
	dir := ida.DirectionUnknown
	switch w.Direction {
	case "UL":
		dir = ida.DirectionUplink
	case "DL":
		dir = ida.DirectionDownlink
	}
	return ida.DemodFrame{
		Timestamp:       w.Timestamp,
		CenterFrequency: w.CenterFrequency,
		Direction:       dir,
		Magnitude:       w.Magnitude,
		Noise:           w.Noise,
		Level:           w.Level,
		Confidence:      w.Confidence,
		Bits:            w.Bits,
		LLR:             w.LLR,
		ID:              w.ID,
		NPayloadSymbols: (len(w.Bits) - 70) / 2,
	}
}

// FrameHandler receives one decoded demod_frame at a time.
type FrameHandler func(ida.DemodFrame)

// StartReceive launches an external front-end process and feeds its
// newline-delimited JSON demod_frame records to handler as they arrive, in
// the same spawn-scan-callback shape as rtl_adsb.StartReceive, generalized
// from a fixed-width hex line to a structured JSON-lines record.
func StartReceive(execPath string, args []string, handler FrameHandler) (stop func(), err error) {
	cmd := exec.Command(execPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("frontend: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("frontend: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1<<20)
		for scanner.Scan() {
			var w demodFrameWire
			if err := json.Unmarshal(scanner.Bytes(), &w); err != nil {
				continue
			}
			handler(w.toFrame())
		}
		cmd.Wait()
	}()

	return func() { cmd.Process.Kill() }, nil
}
