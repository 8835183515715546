package ida

// BuildIDABurst assembles an IDABurst from a descrambled bch_stream and the
// originating frame's metadata (spec §4.5). ok is false when the burst is
// structurally malformed (too short, reserved field nonzero, da_len out of
// range) and must be silently discarded per spec §7 case 1.
func BuildIDABurst(frame DemodFrame, lcw LCW, lcwHeader string, bchStream []byte, fixedErrs, trailingBits int) (IDABurst, bool) {
	if len(bchStream) < 196 {
		return IDABurst{}, false
	}

	cont := int(bchStream[3])
	daCtr := int(bitsToUint(bchStream[5:8], 3))
	daLen := int(bitsToUint(bchStream[11:16], 5))
	zero1 := bitsToUint(bchStream[17:20], 3)

	if zero1 != 0 {
		return IDABurst{}, false
	}
	if daLen > 20 {
		return IDABurst{}, false
	}

	burst := IDABurst{
		Timestamp:  frame.Timestamp,
		Frequency:  frame.CenterFrequency,
		Direction:  frame.Direction,
		Magnitude:  frame.Magnitude,
		Noise:      frame.Noise,
		Level:      frame.Level,
		Confidence: frame.Confidence,
		DaCtr:           daCtr,
		DaLen:           daLen,
		Cont:            cont,
		FixedErrs:       fixedErrs,
		BCHStream:       bchStream,
		NPayloadSymbols: frame.NPayloadSymbols,
		TrailingBits:    trailingBits,
		LCW:             lcw,
		LCWHeader:       lcwHeader,
	}

	for i := 0; i < 20; i++ {
		burst.Payload[i] = byte(bitsToUint(bchStream[20+8*i:28+8*i], 8))
	}
	burst.PayloadLen = daLen

	if daLen > 0 {
		crcBits := make([]byte, 0, 32+len(bchStream)-36)
		crcBits = append(crcBits, bchStream[0:20]...)
		crcBits = append(crcBits, make([]byte, 12)...)
		crcBits = append(crcBits, bchStream[20:len(bchStream)-16]...)
		if pad := len(crcBits) % 8; pad != 0 {
			crcBits = append(crcBits, make([]byte, 8-pad)...)
		}

		burst.CRCComputed = crcCCITTFalse(crcBits)
		burst.CRCStored = uint16(bitsToUint(bchStream[len(bchStream)-16:], 16))
		burst.CRCOK = burst.CRCComputed == burst.CRCStored
	}

	return burst, true
}
