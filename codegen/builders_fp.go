package codegen

func buildFabs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.u64 = %s.u64 & ~0x8000000000000000;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFnabs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.u64 = %s.u64 | 0x8000000000000000;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFneg(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.u64 = %s.u64 ^ 0x8000000000000000;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFmr(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64;", c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFcfid(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(%s.s64);", c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFctid(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.s64 = (%s.f64 > double(LLONG_MAX)) ? LLONG_MAX : simde_mm_cvtsd_si64(simde_mm_load_sd(&%s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(1)))
	return true
}

func buildFctidz(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.s64 = (%s.f64 > double(LLONG_MAX)) ? LLONG_MAX : simde_mm_cvttsd_si64(simde_mm_load_sd(&%s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(1)))
	return true
}

func buildFctiwz(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.s64 = (%s.f64 > double(INT_MAX)) ? INT_MAX : simde_mm_cvttsd_si32(simde_mm_load_sd(&%s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(1)))
	return true
}

func buildFrsp(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64));", c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFcmpu(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.compare(%s.f64, %s.f64);",
		c.Cr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFcmpo(c *BuilderContext) bool {
	// Ordered compare matches the unordered one; invalid-operation traps
	// are not modelled.
	return buildFcmpu(c)
}

func buildFadd(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 + %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFadds(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64 + %s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFsub(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 - %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFsubs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64 - %s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFmul(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 * %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFmuls(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64 * %s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFdiv(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 / %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

func buildFdivs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64 / %s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)))
	return true
}

// FMA forms take frA, frC, frB in disassembler order: d = a*c ± b.

func buildFmadd(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 * %s.f64 + %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFmadds(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64 * %s.f64 + %s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFmsub(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 * %s.f64 - %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFmsubs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(%s.f64 * %s.f64 - %s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFnmadd(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = -(%s.f64 * %s.f64 + %s.f64);",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFnmadds(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(-(%s.f64 * %s.f64 + %s.f64)));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFnmsub(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = -(%s.f64 * %s.f64 - %s.f64);",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFnmsubs(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(-(%s.f64 * %s.f64 - %s.f64)));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}

func buildFres(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(1.0f / float(%s.f64));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFrsqrte(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = 1.0 / sqrt(%s.f64);",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFsqrt(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = sqrt(%s.f64);", c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFsqrts(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = double(float(sqrt(%s.f64)));",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)))
	return true
}

func buildFsel(c *BuilderContext) bool {
	c.EmitSetFlushMode(false)
	c.Println("\t%s.f64 = %s.f64 >= 0.0 ? %s.f64 : %s.f64;",
		c.Fr(c.Op(0)), c.Fr(c.Op(1)), c.Fr(c.Op(2)), c.Fr(c.Op(3)))
	return true
}
