package codegen

func buildLi(c *BuilderContext) bool {
	c.Println("\t%s.s64 = %d;", c.R(c.Op(0)), c.SOp(1))
	return true
}

func buildLis(c *BuilderContext) bool {
	imm := c.Op(1)
	dest := c.Op(0)

	c.Println("\t%s.s64 = %d;", c.R(dest), int32(imm<<16))

	if IsMMIOUpperBits(imm) {
		c.Locals().SetMMIOBase(dest)
	} else {
		c.Locals().ClearMMIOBase(dest)
	}
	return true
}

func buildLbz(c *BuilderContext) bool {
	c.EmitLoadDForm("PPC_LOAD_U8", "u64")
	return true
}

func buildLbzu(c *BuilderContext) bool {
	emitLoadWithUpdate(c, "PPC_LOAD_U8")
	return true
}

func buildLbzx(c *BuilderContext) bool {
	c.EmitLoadXForm("PPC_LOAD_U8", "u64")
	return true
}

func buildLbzux(c *BuilderContext) bool {
	emitLoadWithUpdateIndexed(c, "PPC_LOAD_U8")
	return true
}

func buildLha(c *BuilderContext) bool {
	emitSignExtendLoadDForm(c, "int16_t", "PPC_LOAD_U16")
	return true
}

func buildLhau(c *BuilderContext) bool {
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\t%s.s64 = int16_t(PPC_LOAD_U16(%s));", c.R(c.Op(0)), c.Ea())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
	return true
}

func buildLhax(c *BuilderContext) bool {
	emitSignExtendLoadXForm(c, "int16_t", "PPC_LOAD_U16")
	return true
}

func buildLhbrx(c *BuilderContext) bool {
	c.Print("\t%s.u64 = __builtin_bswap16(PPC_LOAD_U16(", c.R(c.Op(0)))
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32));", c.R(c.Op(2)))
	return true
}

func buildLhz(c *BuilderContext) bool {
	c.EmitLoadDForm("PPC_LOAD_U16", "u64")
	return true
}

func buildLhzu(c *BuilderContext) bool {
	emitLoadWithUpdate(c, "PPC_LOAD_U16")
	return true
}

func buildLhzux(c *BuilderContext) bool {
	emitLoadWithUpdateIndexed(c, "PPC_LOAD_U16")
	return true
}

func buildLhzx(c *BuilderContext) bool {
	c.EmitLoadXForm("PPC_LOAD_U16", "u64")
	return true
}

func buildLwa(c *BuilderContext) bool {
	emitSignExtendLoadDForm(c, "int32_t", "PPC_LOAD_U32")
	return true
}

func buildLwax(c *BuilderContext) bool {
	emitSignExtendLoadXForm(c, "int32_t", "PPC_LOAD_U32")
	return true
}

func buildLwbrx(c *BuilderContext) bool {
	c.Print("\t%s.u64 = __builtin_bswap32(PPC_LOAD_U32(", c.R(c.Op(0)))
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32));", c.R(c.Op(2)))
	return true
}

func buildLwz(c *BuilderContext) bool {
	c.EmitLoadDForm("PPC_LOAD_U32", "u64")
	return true
}

func buildLwzu(c *BuilderContext) bool {
	emitLoadWithUpdate(c, "PPC_LOAD_U32")
	return true
}

func buildLwzux(c *BuilderContext) bool {
	emitLoadWithUpdateIndexed(c, "PPC_LOAD_U32")
	return true
}

func buildLwzx(c *BuilderContext) bool {
	c.EmitLoadXForm("PPC_LOAD_U32", "u64")
	return true
}

func buildLd(c *BuilderContext) bool {
	c.EmitLoadDForm("PPC_LOAD_U64", "u64")
	return true
}

func buildLdu(c *BuilderContext) bool {
	emitLoadWithUpdate(c, "PPC_LOAD_U64")
	return true
}

func buildLdux(c *BuilderContext) bool {
	emitLoadWithUpdateIndexed(c, "PPC_LOAD_U64")
	return true
}

func buildLdx(c *BuilderContext) bool {
	c.EmitLoadXForm("PPC_LOAD_U64", "u64")
	return true
}

func buildLwarx(c *BuilderContext) bool {
	// Load through the raw host address, keeping the pre-swap value in the
	// reservation register for the following stwcx.
	c.Print("\t%s = ", c.Ea())
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32;", c.R(c.Op(2)))
	c.Println("\t%s.u32 = *(uint32_t*)PPC_RAW_ADDR(%s);", c.Reserved(), c.Ea())
	c.Println("\t%s.u64 = __builtin_bswap32(%s.u32);", c.R(c.Op(0)), c.Reserved())
	return true
}

func buildLdarx(c *BuilderContext) bool {
	c.Print("\t%s = ", c.Ea())
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32;", c.R(c.Op(2)))
	c.Println("\t%s.u64 = *(uint64_t*)PPC_RAW_ADDR(%s);", c.Reserved(), c.Ea())
	c.Println("\t%s.u64 = __builtin_bswap64(%s.u64);", c.R(c.Op(0)), c.Reserved())
	return true
}

func buildLfd(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Print("\t%s.u64 = PPC_LOAD_U64(", c.Fr(c.Op(0)))
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d);", c.SOp(1))
	return true
}

func buildLfdu(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\t%s.u64 = PPC_LOAD_U64(%s);", c.Fr(c.Op(0)), c.Ea())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
	return true
}

func buildLfdux(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %s.u32 + %s.u32;", c.Ea(), c.R(c.Op(1)), c.R(c.Op(2)))
	c.Println("\t%s.u64 = PPC_LOAD_U64(%s);", c.Fr(c.Op(0)), c.Ea())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(1)), c.Ea())
	return true
}

func buildLfdx(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Print("\t%s.u64 = PPC_LOAD_U64(", c.Fr(c.Op(0)))
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32);", c.R(c.Op(2)))
	return true
}

func buildLfs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Print("\t%s.u32 = PPC_LOAD_U32(", c.Temp())
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d);", c.SOp(1))
	c.Println("\t%s.f64 = double(%s.f32);", c.Fr(c.Op(0)), c.Temp())
	return true
}

func buildLfsu(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\t%s.u32 = PPC_LOAD_U32(%s);", c.Temp(), c.Ea())
	c.Println("\t%s.f64 = double(%s.f32);", c.Fr(c.Op(0)), c.Temp())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
	return true
}

func buildLfsux(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %s.u32 + %s.u32;", c.Ea(), c.R(c.Op(1)), c.R(c.Op(2)))
	c.Println("\t%s.u32 = PPC_LOAD_U32(%s);", c.Temp(), c.Ea())
	c.Println("\t%s.f64 = double(%s.f32);", c.Fr(c.Op(0)), c.Temp())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(1)), c.Ea())
	return true
}

func buildLfsx(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Print("\t%s.u32 = PPC_LOAD_U32(", c.Temp())
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32);", c.R(c.Op(2)))
	c.Println("\t%s.f64 = double(%s.f32);", c.Fr(c.Op(0)), c.Temp())
	return true
}

func buildStb(c *BuilderContext) bool {
	c.EmitStoreDForm("PPC_STORE_U8", "PPC_MM_STORE_U8", "u8")
	return true
}

func buildStbu(c *BuilderContext) bool {
	emitStoreWithUpdate(c, "PPC_STORE_U8", "u8")
	return true
}

func buildStbux(c *BuilderContext) bool {
	emitStoreWithUpdateIndexed(c, "PPC_STORE_U8", "u8")
	return true
}

func buildStbx(c *BuilderContext) bool {
	c.EmitStoreXForm("PPC_STORE_U8", "PPC_MM_STORE_U8", "u8")
	return true
}

func buildSth(c *BuilderContext) bool {
	c.EmitStoreDForm("PPC_STORE_U16", "PPC_MM_STORE_U16", "u16")
	return true
}

func buildSthbrx(c *BuilderContext) bool {
	if c.MMIOCheckXForm() {
		c.Print("\tPPC_MM_STORE_U16(")
	} else {
		c.Print("\tPPC_STORE_U16(")
	}
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32, __builtin_bswap16(%s.u16));", c.R(c.Op(2)), c.R(c.Op(0)))
	return true
}

func buildSthu(c *BuilderContext) bool {
	emitStoreWithUpdate(c, "PPC_STORE_U16", "u16")
	return true
}

func buildSthux(c *BuilderContext) bool {
	emitStoreWithUpdateIndexed(c, "PPC_STORE_U16", "u16")
	return true
}

func buildSthx(c *BuilderContext) bool {
	c.EmitStoreXForm("PPC_STORE_U16", "PPC_MM_STORE_U16", "u16")
	return true
}

func buildStw(c *BuilderContext) bool {
	c.EmitStoreDForm("PPC_STORE_U32", "PPC_MM_STORE_U32", "u32")
	return true
}

func buildStwbrx(c *BuilderContext) bool {
	if c.MMIOCheckXForm() {
		c.Print("\tPPC_MM_STORE_U32(")
	} else {
		c.Print("\tPPC_STORE_U32(")
	}
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32, __builtin_bswap32(%s.u32));", c.R(c.Op(2)), c.R(c.Op(0)))
	return true
}

func buildStwu(c *BuilderContext) bool {
	emitStoreWithUpdate(c, "PPC_STORE_U32", "u32")
	return true
}

func buildStwux(c *BuilderContext) bool {
	emitStoreWithUpdateIndexed(c, "PPC_STORE_U32", "u32")
	return true
}

func buildStwx(c *BuilderContext) bool {
	c.EmitStoreXForm("PPC_STORE_U32", "PPC_MM_STORE_U32", "u32")
	return true
}

func buildStwcx(c *BuilderContext) bool {
	c.Print("\t%s = ", c.Ea())
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32;", c.R(c.Op(2)))
	c.Println("\t%s.lt = 0;", c.Cr(0))
	c.Println("\t%s.gt = 0;", c.Cr(0))
	c.Println("\t%s.eq = __sync_bool_compare_and_swap(reinterpret_cast<uint32_t*>(PPC_RAW_ADDR(%s)), %s.s32, __builtin_bswap32(%s.s32));",
		c.Cr(0), c.Ea(), c.Reserved(), c.R(c.Op(0)))
	c.Println("\t%s.so = %s.so;", c.Cr(0), c.Xer())
	return true
}

func buildStdcx(c *BuilderContext) bool {
	c.Print("\t%s = ", c.Ea())
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32;", c.R(c.Op(2)))
	c.Println("\t%s.lt = 0;", c.Cr(0))
	c.Println("\t%s.gt = 0;", c.Cr(0))
	c.Println("\t%s.eq = __sync_bool_compare_and_swap(reinterpret_cast<uint64_t*>(PPC_RAW_ADDR(%s)), %s.s64, __builtin_bswap64(%s.s64));",
		c.Cr(0), c.Ea(), c.Reserved(), c.R(c.Op(0)))
	c.Println("\t%s.so = %s.so;", c.Cr(0), c.Xer())
	return true
}

func buildStd(c *BuilderContext) bool {
	c.EmitStoreDForm("PPC_STORE_U64", "PPC_MM_STORE_U64", "u64")
	return true
}

func buildStdu(c *BuilderContext) bool {
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\tPPC_STORE_U64(%s, %s.u64);", c.Ea(), c.R(c.Op(0)))
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
	return true
}

func buildStdux(c *BuilderContext) bool {
	emitStoreWithUpdateIndexed(c, "PPC_STORE_U64", "u64")
	return true
}

func buildStdx(c *BuilderContext) bool {
	c.EmitStoreXForm("PPC_STORE_U64", "PPC_MM_STORE_U64", "u64")
	return true
}

func buildStfd(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	if c.MMIOCheckDForm() {
		c.Print("\tPPC_MM_STORE_U64(")
	} else {
		c.Print("\tPPC_STORE_U64(")
	}
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d, %s.u64);", c.SOp(1), c.Fr(c.Op(0)))
	return true
}

func buildStfdu(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\tPPC_STORE_U64(%s, %s.u64);", c.Ea(), c.Fr(c.Op(0)))
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
	return true
}

func buildStfdx(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	if c.MMIOCheckXForm() {
		c.Print("\tPPC_MM_STORE_U64(")
	} else {
		c.Print("\tPPC_STORE_U64(")
	}
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32, %s.u64);", c.R(c.Op(2)), c.Fr(c.Op(0)))
	return true
}

func buildStfiwx(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	if c.MMIOCheckXForm() {
		c.Print("\tPPC_MM_STORE_U32(")
	} else {
		c.Print("\tPPC_STORE_U32(")
	}
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32, %s.u32);", c.R(c.Op(2)), c.Fr(c.Op(0)))
	return true
}

func buildStfs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f32 = float(%s.f64);", c.Temp(), c.Fr(c.Op(0)))
	if c.MMIOCheckDForm() {
		c.Print("\tPPC_MM_STORE_U32(")
	} else {
		c.Print("\tPPC_STORE_U32(")
	}
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d, %s.u32);", c.SOp(1), c.Temp())
	return true
}

func buildStfsu(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\t%s.f32 = float(%s.f64);", c.Temp(), c.Fr(c.Op(0)))
	c.Println("\tPPC_STORE_U32(%s, %s.u32);", c.Ea(), c.Temp())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
	return true
}

func buildStfsux(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s = %s.u32 + %s.u32;", c.Ea(), c.R(c.Op(1)), c.R(c.Op(2)))
	c.Println("\t%s.f32 = float(%s.f64);", c.Temp(), c.Fr(c.Op(0)))
	c.Println("\tPPC_STORE_U32(%s, %s.u32);", c.Ea(), c.Temp())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(1)), c.Ea())
	return true
}

func buildStfsx(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f32 = float(%s.f64);", c.Temp(), c.Fr(c.Op(0)))
	if c.MMIOCheckXForm() {
		c.Print("\tPPC_MM_STORE_U32(")
	} else {
		c.Print("\tPPC_STORE_U32(")
	}
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32, %s.u32);", c.R(c.Op(2)), c.Temp())
	return true
}
