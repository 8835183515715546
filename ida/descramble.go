package ida

import "sort"

// deinterleaveSymbols implements the 2-way de-interleave rule common to
// both the full 124-bit block and the trailing partial block (spec §4.3):
// starting from the highest symbol index and walking down in steps of 2,
// emit both bits of that symbol into h1; repeat starting from the
// next-highest symbol into h2. LLRs, when present, follow the identical
// permutation.
func deinterleaveSymbols(bits []byte, llr []float64, symbols int) (h1, h2 []byte, l1, l2 []float64) {
	h1 = make([]byte, 0, symbols*2)
	h2 = make([]byte, 0, symbols*2)
	hasLLR := llr != nil
	if hasLLR {
		l1 = make([]float64, 0, symbols*2)
		l2 = make([]float64, 0, symbols*2)
	}

	for idx := symbols - 1; idx >= 0; idx -= 2 {
		h1 = append(h1, bits[2*idx], bits[2*idx+1])
		if hasLLR {
			l1 = append(l1, llr[2*idx], llr[2*idx+1])
		}
	}
	for idx := symbols - 2; idx >= 0; idx -= 2 {
		h2 = append(h2, bits[2*idx], bits[2*idx+1])
		if hasLLR {
			l2 = append(l2, llr[2*idx], llr[2*idx+1])
		}
	}
	return
}

// chunkReorder is the fixed wire-format reorder of the four linear 31-bit
// chunks produced from a full 124-bit de-interleaved block (spec §4.3
// step 2).
var chunkReorder = [4]int{3, 1, 2, 0}

// decodeChunk runs the standard BCH(31,20) decode on a 31-bit chunk and, on
// failure, Chase-5 soft-decision augmentation using the aligned LLRs (spec
// §4.4). It returns the 20 decoded data bits, whether any correction was
// applied, and whether decoding succeeded at all.
func decodeChunk(tables *Tables, chunk []byte, llr []float64) (data []byte, corrected bool, ok bool) {
	value := bitsToUint(chunk, 31)

	if corr, errs, found := tables.idaPayload.decode(value); found {
		data = make([]byte, 20)
		uintToBits(corr>>11, data, 20)
		return data, errs > 0, true
	}

	if len(llr) < 31 {
		return nil, false, false
	}

	type ranked struct {
		pos int
		llr float64
	}
	order := make([]ranked, 31)
	for i := 0; i < 31; i++ {
		order[i] = ranked{i, llr[i]}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].llr < order[j].llr })

	var worst [5]int
	for i := 0; i < 5; i++ {
		worst[i] = order[i].pos
	}

	for mask := 1; mask < 32; mask++ {
		var flip uint32
		for b := 0; b < 5; b++ {
			if mask&(1<<uint(b)) != 0 {
				flip |= 1 << uint(30-worst[b])
			}
		}
		candidate := value ^ flip
		if corr, _, found := tables.idaPayload.decode(candidate); found {
			data = make([]byte, 20)
			uintToBits(corr>>11, data, 20)
			return data, true, true
		}
	}

	return nil, false, false
}

// DescramblePayload de-interleaves and BCH-decodes the bits following a
// burst's 46-bit LCW, producing the concatenated 20-bit-per-chunk bch_stream
// (spec §4.3). Decoding stops at the first chunk that cannot be resolved,
// keeping whatever bch_stream was already assembled. trailingBits counts
// payload bits that were never folded into a decoded chunk, either because
// decoding stopped early or because too few bits remained to form one,
// for display in the IDA text line's trailing-bits field.
func DescramblePayload(tables *Tables, bits []byte, llr []float64) (bchStream []byte, fixedErrs int, trailingBits int) {
	hasLLR := len(llr) == len(bits) && len(llr) > 0
	pos := 0

	for len(bits)-pos >= 124 {
		block := bits[pos : pos+124]
		var blockLLR []float64
		if hasLLR {
			blockLLR = llr[pos : pos+124]
		}

		h1, h2, l1, l2 := deinterleaveSymbols(block, blockLLR, 62)
		linear := append(append([]byte{}, h1...), h2...)
		var linearLLR []float64
		if hasLLR {
			linearLLR = append(append([]float64{}, l1...), l2...)
		}

		chunks := make([][]byte, 4)
		chunkLLRs := make([][]float64, 4)
		for i := 0; i < 4; i++ {
			chunks[i] = linear[i*31 : (i+1)*31]
			if hasLLR {
				chunkLLRs[i] = linearLLR[i*31 : (i+1)*31]
			}
		}

		ok := true
		for _, ci := range chunkReorder {
			data, corrected, good := decodeChunk(tables, chunks[ci], chunkLLRs[ci])
			if !good {
				ok = false
				break
			}
			bchStream = append(bchStream, data...)
			if corrected {
				fixedErrs++
			}
		}
		if !ok {
			return bchStream, fixedErrs, len(bits) - pos
		}

		pos += 124
	}

	remain := len(bits) - pos
	if remain < 4 {
		return bchStream, fixedErrs, remain
	}

	symbols := remain / 2
	var partialLLR []float64
	if hasLLR {
		partialLLR = llr[pos:]
	}
	h1, h2, l1, l2 := deinterleaveSymbols(bits[pos:], partialLLR, symbols)
	if len(h1) < 1 || len(h2) < 1 {
		return bchStream, fixedErrs, remain
	}

	linear := append(append([]byte{}, h2[1:]...), h1[1:]...)
	var linearLLR []float64
	if hasLLR {
		linearLLR = append(append([]float64{}, l2[1:]...), l1[1:]...)
	}

	off := 0
	for ; off+31 <= len(linear); off += 31 {
		chunk := linear[off : off+31]
		var chunkLLR []float64
		if hasLLR {
			chunkLLR = linearLLR[off : off+31]
		}
		data, corrected, good := decodeChunk(tables, chunk, chunkLLR)
		if !good {
			break
		}
		bchStream = append(bchStream, data...)
		if corrected {
			fixedErrs++
		}
	}

	return bchStream, fixedErrs, len(linear) - off
}
