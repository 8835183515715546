package ida

// The four BCH polynomials used by the system (spec §4.1).
const (
	idaPayloadPoly uint32 = 3545 // BCH(31,20), t=2
	lcw1Poly       uint32 = 29
	lcw2Poly       uint32 = 465
	lcw3Poly       uint32 = 41
)

// Codeword widths, fixed by the wire format (spec §4.2, §4.3).
const (
	idaPayloadBits = 31
	lcw1Bits       = 7
	lcw2Bits       = 14 // includes the artificial <<1 padding bit, see DecodeLCW
	lcw3Bits       = 26
)

// errorLocator is one entry of a syndrome table: how many bits were in
// error, and their combined locator mask (codeword ^ locator == corrected).
// The zero value means "no correction found for this syndrome".
type errorLocator struct {
	errs    int
	locator uint32
}

// syndromeTable maps a syndrome (gf2Remainder(poly, codeword)) to the
// locator that corrects it. Index 0 always means "no error" and is never
// populated (spec §4.1 step 3).
type syndromeTable struct {
	poly  uint32
	nbits int
	table []errorLocator
}

// buildSyndromeTable enumerates every single-bit error, then (if
// maxErrors>=2) every two-bit error, storing the first (lowest-weight)
// correction found for each syndrome. Built once at init time and read-only
// thereafter (spec §4.1).
func buildSyndromeTable(poly uint32, nbits, maxErrors int) *syndromeTable {
	deg := polyDegree(poly)
	size := 1 << uint(deg)
	t := &syndromeTable{poly: poly, nbits: nbits, table: make([]errorLocator, size)}

	for b := 0; b < nbits; b++ {
		e := uint32(1) << uint(b)
		s := gf2Remainder(poly, e)
		if s != 0 && t.table[s].errs == 0 {
			t.table[s] = errorLocator{errs: 1, locator: e}
		}
	}

	if maxErrors >= 2 {
		for b1 := 0; b1 < nbits; b1++ {
			for b2 := b1 + 1; b2 < nbits; b2++ {
				e := (uint32(1) << uint(b1)) | (uint32(1) << uint(b2))
				s := gf2Remainder(poly, e)
				if s != 0 && t.table[s].errs == 0 {
					t.table[s] = errorLocator{errs: 2, locator: e}
				}
			}
		}
	}

	return t
}

// decode runs the standard (non-Chase) BCH decode: syndrome lookup, then
// table-driven correction. ok is false when the syndrome is nonzero and
// absent from the table.
func (t *syndromeTable) decode(codeword uint32) (corrected uint32, errs int, ok bool) {
	s := gf2Remainder(t.poly, codeword)
	if s == 0 {
		return codeword, 0, true
	}
	if int(s) >= len(t.table) {
		return 0, 0, false
	}
	loc := t.table[s]
	if loc.errs == 0 {
		return 0, 0, false
	}
	return codeword ^ loc.locator, loc.errs, true
}

// Tables bundles the four syndrome tables, which are read-only once built.
// NewTables builds a set; NewPipeline builds one for each Pipeline and
// shares it across that Pipeline's LCW and IDA payload stages.
type Tables struct {
	idaPayload *syndromeTable
	lcw1       *syndromeTable
	lcw2       *syndromeTable
	lcw3       *syndromeTable
}

// NewTables builds the full table set. It does real work (enumerating up to
// C(31,2)=465 two-bit patterns for the IDA payload table); every call builds
// a fresh set, and nothing caches the result across calls.
func NewTables() *Tables {
	return &Tables{
		idaPayload: buildSyndromeTable(idaPayloadPoly, idaPayloadBits, 2),
		lcw1:       buildSyndromeTable(lcw1Poly, lcw1Bits, 1),
		lcw2:       buildSyndromeTable(lcw2Poly, lcw2Bits, 1),
		lcw3:       buildSyndromeTable(lcw3Poly, lcw3Bits, 1),
	}
}
