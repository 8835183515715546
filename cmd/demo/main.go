// Command demo is a small example binary replacing the teacher's
// example/main.go: it feeds a synthetic handful of demod_frame records
// through the decode pipeline and prints whatever RAW/IDA/ACARS lines
// result, without requiring a live front-end process.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"iridium-decode/ida"
	"iridium-decode/output"
)

func main() {
	log := logrus.NewEntry(logrus.New())
	pipeline := ida.NewPipeline(log)

	for _, frame := range sampleFrames() {
		out := pipeline.Process(frame)
		fmt.Println(output.FormatRAW(out.Frame))
		if out.Burst != nil {
			fmt.Println(output.FormatIDA(*out.Burst))
		}
		if out.ACARS != nil {
			fmt.Println(output.FormatACARSText(*out.ACARS))
		}
	}
}

// sampleFrames returns a handful of zero-bit demod_frames of the right
// shape. They will not decode to anything (an all-zero LCW has no reason
// to land on frame_type 2), so each one stops at the LCW frame-type check
// and only its RAW line is printed; no external input is needed.
func sampleFrames() []ida.DemodFrame {
	bits := make([]byte, 70+248)
	frames := make([]ida.DemodFrame, 0, 3)
	for i := 0; i < 3; i++ {
		frames = append(frames, ida.DemodFrame{
			Timestamp:       int64(i) * 1_000_000,
			CenterFrequency: 1621e6,
			Direction:       ida.DirectionDownlink,
			Magnitude:       0.8,
			Noise:           0.05,
			Level:           0.75,
			Confidence:      90,
			Bits:            bits,
			ID:              uint64(i),
		})
	}
	return frames
}
