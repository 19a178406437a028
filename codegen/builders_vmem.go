package codegen

// Vector memory builders. For endian handling the whole 16-byte vector is
// reversed instead of individual elements; every vector builder accounts
// for this (e.g. dp3 sums yzw instead of xyz).

func buildLvx(c *BuilderContext) bool {
	emitVectorEA(c, "0xF")
	c.Println("\tsimde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)PPC_RAW_ADDR(%s)), simde_mm_load_si128((simde__m128i*)VectorMaskL)));",
		c.Vr(c.Op(0)), c.Ea())
	return true
}

func buildLvlx(c *BuilderContext) bool {
	emitVectorTempEA(c)
	c.Println("\tsimde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)PPC_RAW_ADDR(%s.u32 & ~0xF)), simde_mm_load_si128((simde__m128i*)&VectorMaskL[(%s.u32 & 0xF) * 16])));",
		c.Vr(c.Op(0)), c.Temp(), c.Temp())
	return true
}

func buildLvrx(c *BuilderContext) bool {
	emitVectorTempEA(c)
	c.Println("\tsimde_mm_store_si128((simde__m128i*)%s.u8, %s.u32 & 0xF ? simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)PPC_RAW_ADDR(%s.u32 & ~0xF)), simde_mm_load_si128((simde__m128i*)&VectorMaskR[(%s.u32 & 0xF) * 16])) : simde_mm_setzero_si128());",
		c.Vr(c.Op(0)), c.Temp(), c.Temp(), c.Temp())
	return true
}

func buildLvsl(c *BuilderContext) bool {
	emitVectorTempEA(c)
	c.Println("\tsimde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_load_si128((simde__m128i*)&VectorShiftTableL[(%s.u32 & 0xF) * 16]));",
		c.Vr(c.Op(0)), c.Temp())
	return true
}

func buildLvsr(c *BuilderContext) bool {
	emitVectorTempEA(c)
	c.Println("\tsimde_mm_store_si128((simde__m128i*)%s.u8, simde_mm_load_si128((simde__m128i*)&VectorShiftTableR[(%s.u32 & 0xF) * 16]));",
		c.Vr(c.Op(0)), c.Temp())
	return true
}

func buildStvehx(c *BuilderContext) bool {
	// Element store indexes the reversed lane.
	emitVectorEA(c, "0x1")
	c.Println("\tPPC_STORE_U16(ea, %s.u16[7 - ((%s & 0xF) >> 1)]);",
		c.Vr(c.Op(0)), c.Ea())
	return true
}

func buildStvewx(c *BuilderContext) bool {
	emitVectorEA(c, "0x3")
	c.Println("\tPPC_STORE_U32(ea, %s.u32[3 - ((%s & 0xF) >> 2)]);",
		c.Vr(c.Op(0)), c.Ea())
	return true
}

func buildStvlx(c *BuilderContext) bool {
	emitVectorEA(c, "")
	c.Println("\tfor (size_t i = 0; i < (16 - (%s & 0xF)); i++)", c.Ea())
	c.Println("\t\tPPC_STORE_U8(%s + i, %s.u8[15 - i]);", c.Ea(), c.Vr(c.Op(0)))
	return true
}

func buildStvrx(c *BuilderContext) bool {
	emitVectorEA(c, "")
	c.Println("\tfor (size_t i = 0; i < (%s & 0xF); i++)", c.Ea())
	c.Println("\t\tPPC_STORE_U8(%s - i - 1, %s.u8[i]);", c.Ea(), c.Vr(c.Op(0)))
	return true
}

func buildStvx(c *BuilderContext) bool {
	emitVectorEA(c, "0xF")
	c.Println("\tsimde_mm_store_si128((simde__m128i*)PPC_RAW_ADDR(%s), simde_mm_shuffle_epi8(simde_mm_load_si128((simde__m128i*)%s.u8), simde_mm_load_si128((simde__m128i*)VectorMaskL)));",
		c.Ea(), c.Vr(c.Op(0)))
	return true
}
