package ida

import "github.com/sirupsen/logrus"

// Output bundles everything a single demod_frame can yield as it moves
// through the pipeline: the frame always exists, the burst exists once the
// LCW/BCH stages succeed, and the ACARS record exists only once an IDA
// (or SBD-wrapped) message fully reassembles and parses (spec §9 "pull one
// record at a time, zero or one per input frame").
type Output struct {
	Frame DemodFrame
	Burst *IDABurst
	ACARS *ACARSRecord
}

// Pipeline is the stateful control plane tying the stateless decode stages
// (LCW, descramble, CRC) to the stateful reassembly stages (IDA, SBD). One
// Pipeline corresponds to one receiver/frequency of the teacher's Sky
// equivalent: a single mutable home for everything downstream of the radio.
type Pipeline struct {
	tables *Tables
	ida    *Reassembler
	sbd    *SBDReassembler
	log    *logrus.Entry
}

// NewPipeline builds the BCH syndrome tables once and wires up empty
// reassembly state. Table construction is pure CPU work with no I/O, so it
// runs eagerly here rather than behind a sync.Once guard.
func NewPipeline(log *logrus.Entry) *Pipeline {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pipeline{
		tables: NewTables(),
		ida:    NewReassembler(),
		sbd:    NewSBDReassembler(),
		log:    log,
	}
}

// Process runs one demod_frame through every stage of the pipeline (spec
// §4.1-§4.8). It never blocks and never returns an error: malformed or
// undecodable input simply yields a bare Output{Frame: frame}.
func (p *Pipeline) Process(frame DemodFrame) Output {
	out := Output{Frame: frame}

	burst, ok := p.decodeFrame(frame)
	if !ok {
		return out
	}
	out.Burst = &burst

	msg := p.ida.Accept(burst)
	if msg == nil {
		return out
	}

	rec, ok := p.extractACARS(*msg)
	if !ok {
		return out
	}
	out.ACARS = &rec
	return out
}

// decodeFrame runs the LCW classification and BCH(31,20)+Chase-5 descramble
// stages (spec §4.2-§4.5). Only frame_type 2 (IDA) bursts carry payload; any
// other LCW frame_type, or an LCW that fails to resolve, yields nothing.
func (p *Pipeline) decodeFrame(frame DemodFrame) (IDABurst, bool) {
	if len(frame.Bits) < 70 {
		return IDABurst{}, false
	}

	lcw, ok := DecodeLCW(p.tables, frame.Bits[24:70])
	if !ok {
		p.log.WithField("ts", frame.Timestamp).Debug("lcw rejected")
		return IDABurst{}, false
	}
	if lcw.FT != 2 {
		return IDABurst{}, false
	}

	payloadBits := frame.Bits[70:]
	var payloadLLR []float64
	if len(frame.LLR) == len(frame.Bits) {
		payloadLLR = frame.LLR[70:]
	}

	bchStream, fixedErrs, trailingBits := DescramblePayload(p.tables, payloadBits, payloadLLR)
	burst, ok := BuildIDABurst(frame, lcw, FormatLCW(lcw), bchStream, fixedErrs, trailingBits)
	if !ok {
		p.log.WithField("ts", frame.Timestamp).Debug("ida burst rejected")
		return IDABurst{}, false
	}
	if !burst.CRCOK {
		p.log.WithField("ts", frame.Timestamp).Debug("ida burst crc mismatch")
	}
	return burst, true
}

// extractACARS optionally unwraps an SBD envelope, then parses the
// resulting bytes as ACARS (spec §4.7-§4.8).
func (p *Pipeline) extractACARS(msg Message) (ACARSRecord, bool) {
	data := msg.Data

	if DetectSBD(data, msg.Direction) {
		payload, msgno, msgcnt, ok := ExtractSBD(data, msg.Direction)
		if !ok {
			p.log.WithField("ts", msg.Timestamp).Debug("sbd extraction failed")
			return ACARSRecord{}, false
		}
		complete := p.sbd.Accept(payload, msgno, msgcnt, msg.Direction, msg.Frequency, msg.Magnitude, msg.Timestamp)
		if complete == nil {
			return ACARSRecord{}, false
		}
		data = complete
	}

	rec, ok := ParseACARS(data, msg.Direction)
	if !ok {
		p.log.WithField("ts", msg.Timestamp).Debug("acars parse failed")
		return ACARSRecord{}, false
	}
	rec.Timestamp = msg.Timestamp
	rec.Frequency = msg.Frequency
	rec.Magnitude = msg.Magnitude
	rec.Level = msg.Level
	rec.Direction = msg.Direction
	return rec, true
}

// Flush drives the periodic timeout sweep for both reassemblers (spec §5),
// using sample time rather than the wall clock.
func (p *Pipeline) Flush(now int64) {
	p.ida.Flush(now)
	p.sbd.Flush(now)
}

// Stats reports the reassembler occupancy for diagnostic display.
func (p *Pipeline) Stats() (idaSlots, sbdSlots int) {
	return p.ida.ActiveSlots(), p.sbd.ActiveSlots()
}
