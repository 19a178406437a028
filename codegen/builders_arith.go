package codegen

func buildAdd(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 + %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildAddc(c *BuilderContext) bool {
	c.Println("\t%s.ca = %s.u32 + %s.u32 < %s.u32;",
		c.Xer(), c.R(c.Op(1)), c.R(c.Op(2)), c.R(c.Op(1)))
	c.Println("\t%s.u64 = %s.u64 + %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildAdde(c *BuilderContext) bool {
	// Carry out of the 32-bit sum including the incoming carry.
	c.Println("\t%s.u8 = (%s.u32 + %s.u32 < %s.u32) | (%s.u32 + %s.u32 + %s.ca < %s.ca);",
		c.Temp(), c.R(c.Op(1)), c.R(c.Op(2)), c.R(c.Op(1)),
		c.R(c.Op(1)), c.R(c.Op(2)), c.Xer(), c.Xer())
	c.Println("\t%s.u64 = %s.u64 + %s.u64 + %s.ca;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)), c.Xer())
	c.Println("\t%s.ca = %s.u8;", c.Xer(), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildAddi(c *BuilderContext) bool {
	c.Print("\t%s.s64 = ", c.R(c.Op(0)))
	if c.Op(1) != 0 {
		c.Print("%s.s64 + ", c.R(c.Op(1)))
	}
	c.Println("%d;", c.SOp(2))
	return true
}

func buildAddic(c *BuilderContext) bool {
	c.Println("\t%s.ca = %s.u32 > %d;",
		c.Xer(), c.R(c.Op(1)), ^c.Op(2))
	c.Println("\t%s.s64 = %s.s64 + %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.SOp(2))
	emitRecordFormCompare(c)
	return true
}

func buildAddis(c *BuilderContext) bool {
	c.Print("\t%s.s64 = ", c.R(c.Op(0)))
	if c.Op(1) != 0 {
		c.Print("%s.s64 + ", c.R(c.Op(1)))
	}
	c.Println("%d;", int32(c.Op(2)<<16))
	return true
}

func buildAddme(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s64 + %s.ca - 1;",
		c.Temp(), c.R(c.Op(1)), c.Xer())
	c.Println("\t%s.ca = (%s.u32 != 0) | %s.ca;",
		c.Xer(), c.R(c.Op(1)), c.Xer())
	c.Println("\t%s.s64 = %s.s64;", c.R(c.Op(0)), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildAddze(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s64 + %s.ca;",
		c.Temp(), c.R(c.Op(1)), c.Xer())
	c.Println("\t%s.ca = %s.u32 < %s.u32;",
		c.Xer(), c.Temp(), c.R(c.Op(1)))
	c.Println("\t%s.s64 = %s.s64;", c.R(c.Op(0)), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildDivd(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s64 / %s.s64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildDivdu(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 / %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildDivw(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s32 / %s.s32;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildDivwu(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u32 / %s.u32;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildMulhd(c *BuilderContext) bool {
	// Record form intentionally emits no CR0 update; documented exception.
	c.Println("\t%s.s64 = __mulh(%s.s64, %s.s64);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	return true
}

func buildMulhdu(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __umulh(%s.u64, %s.u64);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	return true
}

func buildMulhw(c *BuilderContext) bool {
	c.Println("\t%s.s64 = (int64_t(%s.s32) * int64_t(%s.s32)) >> 32;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildMulhwu(c *BuilderContext) bool {
	c.Println("\t%s.u64 = (uint64_t(%s.u32) * uint64_t(%s.u32)) >> 32;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildMulld(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s64 * %s.s64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildMulli(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s64 * %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.SOp(2))
	return true
}

func buildMullw(c *BuilderContext) bool {
	c.Println("\t%s.s64 = int64_t(%s.s32) * int64_t(%s.s32);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildNeg(c *BuilderContext) bool {
	c.Println("\t%s.s64 = -%s.s64;", c.R(c.Op(0)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildSubf(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s64 - %s.s64;",
		c.R(c.Op(0)), c.R(c.Op(2)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildSubfc(c *BuilderContext) bool {
	c.Println("\t%s.ca = %s.u32 >= %s.u32;",
		c.Xer(), c.R(c.Op(2)), c.R(c.Op(1)))
	c.Println("\t%s.s64 = %s.s64 - %s.s64;",
		c.R(c.Op(0)), c.R(c.Op(2)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildSubfe(c *BuilderContext) bool {
	// d = ~a + b + ca with the carry out of the 32-bit sum.
	c.Println("\t%s.u8 = (~%s.u32 + %s.u32 < ~%s.u32) | (~%s.u32 + %s.u32 + %s.ca < %s.ca);",
		c.Temp(), c.R(c.Op(1)), c.R(c.Op(2)), c.R(c.Op(1)),
		c.R(c.Op(1)), c.R(c.Op(2)), c.Xer(), c.Xer())
	c.Println("\t%s.u64 = ~%s.u64 + %s.u64 + %s.ca;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)), c.Xer())
	c.Println("\t%s.ca = %s.u8;", c.Xer(), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildSubfic(c *BuilderContext) bool {
	c.Println("\t%s.ca = %s.u32 <= %d;",
		c.Xer(), c.R(c.Op(1)), c.Op(2))
	c.Println("\t%s.s64 = %d - %s.s64;",
		c.R(c.Op(0)), c.SOp(2), c.R(c.Op(1)))
	return true
}

func buildSubfme(c *BuilderContext) bool {
	c.Println("\t%s.s64 = ~%s.s64 + %s.ca - 1;",
		c.Temp(), c.R(c.Op(1)), c.Xer())
	c.Println("\t%s.ca = (%s.u32 != 0xFFFFFFFF) | %s.ca;",
		c.Xer(), c.R(c.Op(1)), c.Xer())
	c.Println("\t%s.s64 = %s.s64;", c.R(c.Op(0)), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildSubfze(c *BuilderContext) bool {
	c.Println("\t%s.s64 = ~%s.s64 + %s.ca;",
		c.Temp(), c.R(c.Op(1)), c.Xer())
	c.Println("\t%s.ca = %s.u32 < ~%s.u32;",
		c.Xer(), c.Temp(), c.R(c.Op(1)))
	c.Println("\t%s.s64 = %s.s64;", c.R(c.Op(0)), c.Temp())
	emitRecordFormCompare(c)
	return true
}
