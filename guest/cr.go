package guest

// CRField is one of the eight 4-bit condition register fields.
type CRField struct {
	LT bool
	GT bool
	EQ bool
	SO bool
}

// XER holds the auxiliary exception register flags.
type XER struct {
	SO bool
	OV bool
	CA bool
}

// CompareS32 sets lt/gt/eq from a signed 32-bit comparison and mirrors
// xer.so into so.
func (c *CRField) CompareS32(a, b int32, xer *XER) {
	c.LT = a < b
	c.GT = a > b
	c.EQ = a == b
	c.SO = xer.SO
}

// CompareS64 sets lt/gt/eq from a signed 64-bit comparison.
func (c *CRField) CompareS64(a, b int64, xer *XER) {
	c.LT = a < b
	c.GT = a > b
	c.EQ = a == b
	c.SO = xer.SO
}

// CompareU32 sets lt/gt/eq from an unsigned 32-bit comparison.
func (c *CRField) CompareU32(a, b uint32, xer *XER) {
	c.LT = a < b
	c.GT = a > b
	c.EQ = a == b
	c.SO = xer.SO
}

// CompareU64 sets lt/gt/eq from an unsigned 64-bit comparison.
func (c *CRField) CompareU64(a, b uint64, xer *XER) {
	c.LT = a < b
	c.GT = a > b
	c.EQ = a == b
	c.SO = xer.SO
}

// Bit returns flag i, with the PPC field bit order lt=0 gt=1 eq=2 so=3.
func (c *CRField) Bit(i int) bool {
	switch i & 3 {
	case 0:
		return c.LT
	case 1:
		return c.GT
	case 2:
		return c.EQ
	default:
		return c.SO
	}
}

// SetBit writes flag i using the same bit order as Bit.
func (c *CRField) SetBit(i int, v bool) {
	switch i & 3 {
	case 0:
		c.LT = v
	case 1:
		c.GT = v
	case 2:
		c.EQ = v
	default:
		c.SO = v
	}
}

// Raw packs the field as a 4-bit value, lt in the high bit per the PPC
// packed CR layout.
func (c *CRField) Raw() uint32 {
	var r uint32
	if c.LT {
		r |= 8
	}
	if c.GT {
		r |= 4
	}
	if c.EQ {
		r |= 2
	}
	if c.SO {
		r |= 1
	}
	return r
}

// SetRaw unpacks a 4-bit value written by Raw.
func (c *CRField) SetRaw(r uint32) {
	c.LT = r&8 != 0
	c.GT = r&4 != 0
	c.EQ = r&2 != 0
	c.SO = r&1 != 0
}

// FPSCR models the floating point status and control register. Only the
// pieces the runtime touches are represented: the raw csr word and the
// non-IEEE flush-to-zero mode toggled around VMX code.
type FPSCR struct {
	CSR       uint32
	FlushMode bool
}

// InitHost resets the register the way thread startup does, with all FP
// exceptions masked and flush mode off.
func (f *FPSCR) InitHost() {
	f.CSR = 0
	f.FlushMode = false
}

// EnableFlushMode enters flush-to-zero mode (VMX state).
func (f *FPSCR) EnableFlushMode() { f.FlushMode = true }

// DisableFlushMode leaves flush-to-zero mode (FPU state).
func (f *FPSCR) DisableFlushMode() { f.FlushMode = false }
