package codegen

func buildAnd(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 & %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildAndc(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 & ~%s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildAndi(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 & %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))
	// andi. always sets CR0
	c.Println("\t%s.compare<int32_t>(%s.s32, 0, %s);",
		c.Cr(0), c.R(c.Op(0)), c.Xer())
	return true
}

func buildAndis(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 & %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2)<<16)
	// andis. always sets CR0
	c.Println("\t%s.compare<int32_t>(%s.s32, 0, %s);",
		c.Cr(0), c.R(c.Op(0)), c.Xer())
	return true
}

func buildNand(c *BuilderContext) bool {
	c.Println("\t%s.u64 = ~(%s.u64 & %s.u64);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildNor(c *BuilderContext) bool {
	c.Println("\t%s.u64 = ~(%s.u64 | %s.u64);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildNot(c *BuilderContext) bool {
	c.Println("\t%s.u64 = ~%s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildOr(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 | %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)

	// Propagate the MMIO base flag when either source carries it. Covers
	// mr rD,rS which assembles as or rD,rS,rS.
	locals := c.Locals()
	if locals.IsMMIOBase(c.Op(1)) || locals.IsMMIOBase(c.Op(2)) {
		locals.SetMMIOBase(c.Op(0))
	} else {
		locals.ClearMMIOBase(c.Op(0))
	}
	return true
}

func buildOrc(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 | ~%s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildOri(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 | %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))

	// ori only sets low bits; the MMIO base survives from the source.
	locals := c.Locals()
	if locals.IsMMIOBase(c.Op(1)) {
		locals.SetMMIOBase(c.Op(0))
	} else {
		locals.ClearMMIOBase(c.Op(0))
	}
	return true
}

func buildOris(c *BuilderContext) bool {
	imm := c.Op(2)
	dest := c.Op(0)

	c.Println("\t%s.u64 = %s.u64 | %d;",
		c.R(dest), c.R(c.Op(1)), imm<<16)

	if IsMMIOUpperBits(imm) {
		c.Locals().SetMMIOBase(dest)
	}
	// oris may also preserve an MMIO base from the source, so no clear here.
	return true
}

func buildXor(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 ^ %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	c.Locals().ClearMMIOBase(c.Op(0))
	return true
}

func buildXori(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 ^ %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))
	c.Locals().ClearMMIOBase(c.Op(0))
	return true
}

func buildXoris(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 ^ %d;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2)<<16)
	c.Locals().ClearMMIOBase(c.Op(0))
	return true
}

func buildEqv(c *BuilderContext) bool {
	c.Println("\t%s.u64 = ~(%s.u64 ^ %s.u64);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildCntlzd(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 == 0 ? 64 : __builtin_clzll(%s.u64);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(1)))
	return true
}

func buildCntlzw(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u32 == 0 ? 32 : __builtin_clz(%s.u32);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(1)))
	return true
}

func buildExtsb(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s8;", c.R(c.Op(0)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildExtsh(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s16;", c.R(c.Op(0)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildExtsw(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %s.s32;", c.R(c.Op(0)), c.R(c.Op(1)))
	emitRecordFormCompare(c)
	return true
}

func buildClrlwi(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u32 & 0x%X;",
		c.R(c.Op(0)), c.R(c.Op(1)), (uint64(1)<<(32-c.Op(2)))-1)
	emitRecordFormCompare(c)
	return true
}

func buildClrldi(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 & 0x%X;",
		c.R(c.Op(0)), c.R(c.Op(1)), (^uint64(0))>>c.Op(2))
	emitRecordFormCompare(c)
	return true
}

func buildRldicl(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __builtin_rotateleft64(%s.u64, %d) & 0x%X;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2), ComputeMask(c.Op(3), 63))
	return true
}

func buildRldicr(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __builtin_rotateleft64(%s.u64, %d) & 0x%X;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2), ComputeMask(0, c.Op(3)))
	return true
}

func buildRldimi(c *BuilderContext) bool {
	mask := ComputeMask(c.Op(3), ^c.Op(2))
	c.Println("\t%s.u64 = (__builtin_rotateleft64(%s.u64, %d) & 0x%X) | (%s.u64 & 0x%X);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2), mask, c.R(c.Op(0)), ^mask)
	return true
}

func buildRotldi(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __builtin_rotateleft64(%s.u64, %d);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))
	return true
}

func buildRlwimi(c *BuilderContext) bool {
	mask := ComputeMask(c.Op(3)+32, c.Op(4)+32)
	c.Println("\t%s.u64 = (__builtin_rotateleft32(%s.u32, %d) & 0x%X) | (%s.u64 & 0x%X);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2), mask, c.R(c.Op(0)), ^mask)
	return true
}

func buildRlwinm(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __builtin_rotateleft64(%s.u32 | (%s.u64 << 32), %d) & 0x%X;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(1)), c.Op(2),
		ComputeMask(c.Op(3)+32, c.Op(4)+32))
	emitRecordFormCompare(c)
	return true
}

func buildRlwnm(c *BuilderContext) bool {
	// Like rlwinm but the shift amount comes from a register.
	c.Println("\t%s.u64 = __builtin_rotateleft64(%s.u32 | (%s.u64 << 32), %s.u8 & 0x1F) & 0x%X;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(1)), c.R(c.Op(2)),
		ComputeMask(c.Op(3)+32, c.Op(4)+32))
	emitRecordFormCompare(c)
	return true
}

func buildRotlw(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __builtin_rotateleft32(%s.u32, %s.u8 & 0x1F);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)))
	return true
}

func buildRotlwi(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __builtin_rotateleft32(%s.u32, %d);",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))
	emitRecordFormCompare(c)
	return true
}

func buildSld(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u8 & 0x40 ? 0 : (%s.u64 << (%s.u8 & 0x7F));",
		c.R(c.Op(0)), c.R(c.Op(2)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildSlw(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u8 & 0x20 ? 0 : (%s.u32 << (%s.u8 & 0x3F));",
		c.R(c.Op(0)), c.R(c.Op(2)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildSrad(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64 & 0x7F;", c.Temp(), c.R(c.Op(2)))
	c.Println("\tif (%s.u64 > 0x3F) %s.u64 = 0x3F;", c.Temp(), c.Temp())
	c.Println("\t%s.ca = (%s.s64 < 0) & (((%s.s64 >> %s.u64) << %s.u64) != %s.s64);",
		c.Xer(), c.R(c.Op(1)), c.R(c.Op(1)), c.Temp(), c.Temp(), c.R(c.Op(1)))
	c.Println("\t%s.s64 = %s.s64 >> %s.u64;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildSradi(c *BuilderContext) bool {
	if c.Op(2) != 0 {
		c.Println("\t%s.ca = (%s.s64 < 0) & ((%s.u64 & 0x%X) != 0);",
			c.Xer(), c.R(c.Op(1)), c.R(c.Op(1)), ComputeMask(64-c.Op(2), 63))
		c.Println("\t%s.s64 = %s.s64 >> %d;",
			c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))
	} else {
		c.Println("\t%s.ca = 0;", c.Xer())
		c.Println("\t%s.s64 = %s.s64;", c.R(c.Op(0)), c.R(c.Op(1)))
	}
	emitRecordFormCompare(c)
	return true
}

func buildSraw(c *BuilderContext) bool {
	c.Println("\t%s.u32 = %s.u32 & 0x3F;", c.Temp(), c.R(c.Op(2)))
	c.Println("\tif (%s.u32 > 0x1F) %s.u32 = 0x1F;", c.Temp(), c.Temp())
	c.Println("\t%s.ca = (%s.s32 < 0) & (((%s.s32 >> %s.u32) << %s.u32) != %s.s32);",
		c.Xer(), c.R(c.Op(1)), c.R(c.Op(1)), c.Temp(), c.Temp(), c.R(c.Op(1)))
	c.Println("\t%s.s64 = %s.s32 >> %s.u32;",
		c.R(c.Op(0)), c.R(c.Op(1)), c.Temp())
	emitRecordFormCompare(c)
	return true
}

func buildSrawi(c *BuilderContext) bool {
	if c.Op(2) != 0 {
		c.Println("\t%s.ca = (%s.s32 < 0) & ((%s.u32 & 0x%X) != 0);",
			c.Xer(), c.R(c.Op(1)), c.R(c.Op(1)), uint32(ComputeMask(64-c.Op(2), 63)))
		c.Println("\t%s.s64 = %s.s32 >> %d;",
			c.R(c.Op(0)), c.R(c.Op(1)), c.Op(2))
	} else {
		c.Println("\t%s.ca = 0;", c.Xer())
		c.Println("\t%s.s64 = %s.s32;", c.R(c.Op(0)), c.R(c.Op(1)))
	}
	emitRecordFormCompare(c)
	return true
}

func buildSrd(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u8 & 0x40 ? 0 : (%s.u64 >> (%s.u8 & 0x7F));",
		c.R(c.Op(0)), c.R(c.Op(2)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildSrw(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u8 & 0x20 ? 0 : (%s.u32 >> (%s.u8 & 0x3F));",
		c.R(c.Op(0)), c.R(c.Op(2)), c.R(c.Op(1)), c.R(c.Op(2)))
	emitRecordFormCompare(c)
	return true
}

func buildCrand(c *BuilderContext) bool {
	emitCRBitOp(c, "&", false, false, false)
	return true
}

func buildCrandc(c *BuilderContext) bool {
	emitCRBitOp(c, "&", false, true, false)
	return true
}

func buildCreqv(c *BuilderContext) bool {
	// crD = ~(crA ^ crB)
	emitCRBitOp(c, "==", false, false, false)
	return true
}

func buildCrnand(c *BuilderContext) bool {
	emitCRBitOp(c, "&", false, false, true)
	return true
}

func buildCrnor(c *BuilderContext) bool {
	emitCRBitOp(c, "|", false, false, true)
	return true
}

func buildCror(c *BuilderContext) bool {
	emitCRBitOp(c, "|", false, false, false)
	return true
}

func buildCrorc(c *BuilderContext) bool {
	emitCRBitOp(c, "|", false, true, false)
	return true
}
