package ida

import "fmt"

// lcwInterleaveTable is the fixed 46-element LCW de-interleave permutation
// (spec §4.2 step 2): lcwBits[i] = pairSwapped[lcwInterleaveTable[i]]. The
// entries are the bijection (7*i+3) mod 46, written out as a flat constant
// table in the same style as the teacher's modesChecksumTable.
var lcwInterleaveTable = [46]int{
	3, 10, 17, 24, 31, 38, 45, 6, 13, 20,
	27, 34, 41, 2, 9, 16, 23, 30, 37, 44,
	5, 12, 19, 26, 33, 40, 1, 8, 15, 22,
	29, 36, 43, 4, 11, 18, 25, 32, 39, 0,
	7, 14, 21, 28, 35, 42,
}

// DecodeLCW applies the pair-swap and de-interleave, decodes the three
// embedded BCH codewords, and extracts the LCW fields (spec §4.2). bits must
// have length 46. ok is false when any of the three components fails to
// resolve, per spec's "reject the whole LCW" rule.
func DecodeLCW(tables *Tables, bits []byte) (LCW, bool) {
	if len(bits) != 46 {
		return LCW{}, false
	}

	swapped := make([]byte, 46)
	copy(swapped, bits)
	for i := 0; i < 46; i += 2 {
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
	}

	deint := make([]byte, 46)
	for i, src := range lcwInterleaveTable {
		deint[i] = swapped[src]
	}

	lcw1Raw := bitsToUint(deint[0:7], 7)
	corrLcw1, _, ok1 := tables.lcw1.decode(lcw1Raw)
	if !ok1 {
		return LCW{}, false
	}

	lcw2Raw := bitsToUint(deint[7:20], 13) << 1
	corrLcw2, _, ok2 := tables.lcw2.decode(lcw2Raw)
	if !ok2 {
		return LCW{}, false
	}

	lcw3Raw := bitsToUint(deint[20:46], 26)
	corrLcw3, _, ok3 := tables.lcw3.decode(lcw3Raw)
	if !ok3 {
		return LCW{}, false
	}

	ec := 0
	if gf2Remainder(lcw1Poly, lcw1Raw) != 0 {
		ec++
	}
	if gf2Remainder(lcw2Poly, lcw2Raw) != 0 {
		ec++
	}
	if gf2Remainder(lcw3Poly, lcw3Raw) != 0 {
		ec++
	}

	ft := int(corrLcw1>>4) & 7
	lcw2Data := int(corrLcw2>>8) & 0x3F
	lcwFT := (lcw2Data >> 4) & 3
	lcwCode := lcw2Data & 0xF
	lcw3Val := corrLcw3 >> 5

	return LCW{
		FT:      ft,
		LcwFT:   lcwFT,
		LcwCode: lcwCode,
		Lcw3Val: lcw3Val,
		EcLcw:   ec,
		OK:      true,
	}, true
}

// splitFields splits an n-bit value into field widths summing to n, MSB-first,
// returning each field's integer value.
func splitFields(val uint32, totalBits int, widths ...int) []uint32 {
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != totalBits {
		panic("ida: splitFields widths do not sum to totalBits")
	}
	out := make([]uint32, len(widths))
	shift := totalBits
	for i, w := range widths {
		shift -= w
		out[i] = (val >> uint(shift)) & ((1 << uint(w)) - 1)
	}
	return out
}

// FormatLCW renders the decoded LCW as the canonical 111-character text
// header used by the IDA output line (spec §4.9). The rendered content is
// padded on the right with spaces to 110 characters plus a trailing
// separator space.
func FormatLCW(l LCW) string {
	var body string

	switch l.LcwFT {
	case 0:
		body = "T:maint," + formatMaintSubcode(l.LcwCode, l.Lcw3Val)
	case 1:
		body = "T:acchl," + formatAcchlSubcode(l.LcwCode, l.Lcw3Val)
	case 2:
		body = "T:hndof," + formatHndofSubcode(l.LcwCode, l.Lcw3Val)
	default:
		body = fmt.Sprintf("T:rsrvd<%d>", l.LcwFT)
	}

	content := fmt.Sprintf("LCW(%d,%s)", l.FT, body)
	if len(content) > 110 {
		content = content[:110]
	}
	return fmt.Sprintf("%-110s ", content)
}

func formatMaintSubcode(code int, v uint32) string {
	switch code {
	case 0:
		f := splitFields(v, 21, 7, 7, 7)
		return fmt.Sprintf("C:sync[status:%d,dtoa:%d,dfoa:%d]", f[0], f[1], f[2])
	case 1:
		f := splitFields(v, 21, 10, 11)
		return fmt.Sprintf("C:switch[dtoa:%d,dfoa:%d]", f[0], f[1])
	case 3:
		f := splitFields(v, 21, 6, 6, 4, 5)
		return fmt.Sprintf("C:maint[2][lqi:%d,power:%d,f_dtoa:%d,f_dfoa:%d]", f[0], f[1], f[2], f[3])
	case 6:
		return fmt.Sprintf("C:geoloc[%d]", v)
	case 12:
		f := splitFields(v, 21, 10, 11)
		return fmt.Sprintf("C:maint[1][lqi:%d,power:%d]", f[0], f[1])
	case 15:
		return "C:<silent>"
	default:
		return fmt.Sprintf("C:rsrvd(%d)", code)
	}
}

func formatAcchlSubcode(code int, v uint32) string {
	switch code {
	case 1:
		f := splitFields(v, 21, 5, 4, 6, 6)
		return fmt.Sprintf("C:acchl[msg_type:%d,bloc_num:%d,sapi_code:%d,segm_list:%d]", f[0], f[1], f[2], f[3])
	default:
		return fmt.Sprintf("C:rsrvd(%d)", code)
	}
}

func formatHndofSubcode(code int, v uint32) string {
	switch code {
	case 3:
		f := splitFields(v, 21, 7, 7, 7)
		return fmt.Sprintf("C:handoff_resp[%d,%d,%d]", f[0], f[1], f[2])
	case 12:
		return fmt.Sprintf("C:handoff_cand[%d]", v)
	case 15:
		return "C:<silent>"
	default:
		return fmt.Sprintf("C:rsrvd(%d)", code)
	}
}
