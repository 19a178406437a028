package codegen

import "fmt"

func buildNop(c *BuilderContext) bool {
	return true
}

func buildAttn(c *BuilderContext) bool {
	c.Println("\t__builtin_debugtrap();")
	return true
}

// sync/lwsync/eieio lower to nothing: emitted code relies on the host
// memory model, and MMIO ordering is handled by the store-macro routing.

func buildSync(c *BuilderContext) bool {
	return true
}

func buildLwsync(c *BuilderContext) bool {
	return true
}

func buildEieio(c *BuilderContext) bool {
	return true
}

func buildDb16cyc(c *BuilderContext) bool {
	return true
}

func buildCctpl(c *BuilderContext) bool {
	return true
}

func buildCctpm(c *BuilderContext) bool {
	return true
}

func buildTwi(c *BuilderContext) bool {
	to := c.Op(0)
	a := c.R(c.Op(1))
	imm := c.SOp(2)
	emitTrap(c, to,
		fmt.Sprintf("%s.s32", a), fmt.Sprintf("%s.u32", a),
		fmt.Sprintf("%d", imm), fmt.Sprintf("%du", uint32(imm)))
	return true
}

func buildTdi(c *BuilderContext) bool {
	to := c.Op(0)
	a := c.R(c.Op(1))
	imm := c.SOp(2)
	emitTrap(c, to,
		fmt.Sprintf("%s.s64", a), fmt.Sprintf("%s.u64", a),
		fmt.Sprintf("%d", imm), fmt.Sprintf("%dull", uint64(int64(imm))))
	return true
}

func buildTw(c *BuilderContext) bool {
	to := c.Op(0)
	a := c.R(c.Op(1))
	b := c.R(c.Op(2))
	emitTrap(c, to,
		fmt.Sprintf("%s.s32", a), fmt.Sprintf("%s.u32", a),
		fmt.Sprintf("%s.s32", b), fmt.Sprintf("%s.u32", b))
	return true
}

func buildTd(c *BuilderContext) bool {
	to := c.Op(0)
	a := c.R(c.Op(1))
	b := c.R(c.Op(2))
	emitTrap(c, to,
		fmt.Sprintf("%s.s64", a), fmt.Sprintf("%s.u64", a),
		fmt.Sprintf("%s.s64", b), fmt.Sprintf("%s.u64", b))
	return true
}

// Cache touch hints have no host effect.

func buildDcbf(c *BuilderContext) bool {
	return true
}

func buildDcbst(c *BuilderContext) bool {
	return true
}

func buildDcbt(c *BuilderContext) bool {
	return true
}

func buildDcbtst(c *BuilderContext) bool {
	return true
}

func buildDcbz(c *BuilderContext) bool {
	c.Print("\t%s = ", c.Ea())
	if c.Op(0) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(0)))
	}
	c.Println("%s.u32;", c.R(c.Op(1)))
	c.Println("\tmemset(PPC_RAW_ADDR(%s & ~31), 0, 32);", c.Ea())
	return true
}

func buildDcbzl(c *BuilderContext) bool {
	c.Print("\t%s = ", c.Ea())
	if c.Op(0) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(0)))
	}
	c.Println("%s.u32;", c.R(c.Op(1)))
	c.Println("\tmemset(PPC_RAW_ADDR(%s & ~127), 0, 128);", c.Ea())
	return true
}

func buildMr(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64;", c.R(c.Op(0)), c.R(c.Op(1)))
	emitRecordFormCompare(c)

	locals := c.Locals()
	if locals.IsMMIOBase(c.Op(1)) {
		locals.SetMMIOBase(c.Op(0))
	} else {
		locals.ClearMMIOBase(c.Op(0))
	}
	return true
}

func buildMfcr(c *BuilderContext) bool {
	for i := uint32(0); i < 8; i++ {
		op := "|="
		if i == 0 {
			op = "="
		}
		c.Println("\t%s.u64 %s (uint64_t(%s.lt) << %d) | (uint64_t(%s.gt) << %d) | (uint64_t(%s.eq) << %d) | (uint64_t(%s.so) << %d);",
			c.R(c.Op(0)), op,
			c.Cr(i), 31-i*4,
			c.Cr(i), 30-i*4,
			c.Cr(i), 29-i*4,
			c.Cr(i), 28-i*4)
	}
	return true
}

func buildMfocrf(c *BuilderContext) bool {
	return buildMfcr(c)
}

func buildMtcr(c *BuilderContext) bool {
	for i := uint32(0); i < 8; i++ {
		c.Println("\t%s.lt = (%s.u32 >> %d) & 1;", c.Cr(i), c.R(c.Op(0)), 31-i*4)
		c.Println("\t%s.gt = (%s.u32 >> %d) & 1;", c.Cr(i), c.R(c.Op(0)), 30-i*4)
		c.Println("\t%s.eq = (%s.u32 >> %d) & 1;", c.Cr(i), c.R(c.Op(0)), 29-i*4)
		c.Println("\t%s.so = (%s.u32 >> %d) & 1;", c.Cr(i), c.R(c.Op(0)), 28-i*4)
	}
	return true
}

func buildMflr(c *BuilderContext) bool {
	if !c.Config().SkipLr {
		c.Println("\t%s.u64 = ctx.lr;", c.R(c.Op(0)))
	}
	return true
}

func buildMtlr(c *BuilderContext) bool {
	if !c.Config().SkipLr {
		c.Println("\tctx.lr = %s.u64;", c.R(c.Op(0)))
	}
	return true
}

func buildMfmsr(c *BuilderContext) bool {
	if !c.Config().SkipMsr {
		c.Println("\t%s.u64 = ctx.msr;", c.R(c.Op(0)))
	}
	return true
}

func buildMtmsrd(c *BuilderContext) bool {
	if !c.Config().SkipMsr {
		c.Println("\tctx.msr = (%s.u32 & 0x8000) ? (ctx.msr | 0x8000) : (ctx.msr & ~0x8000);",
			c.R(c.Op(0)))
	}
	return true
}

func buildMffs(c *BuilderContext) bool {
	c.Println("\t%s.u64 = ctx.fpscr.loadFromHost();", c.Fr(c.Op(0)))
	return true
}

func buildMtfsf(c *BuilderContext) bool {
	c.Println("\tctx.fpscr.storeFromGuest(%s.u32);", c.Fr(c.Op(1)))
	return true
}

func buildMftb(c *BuilderContext) bool {
	c.Println("\t%s.u64 = __rdtsc();", c.R(c.Op(0)))
	return true
}

func buildMtctr(c *BuilderContext) bool {
	c.Println("\t%s.u64 = %s.u64;", c.Ctr(), c.R(c.Op(0)))
	return true
}

func buildMtxer(c *BuilderContext) bool {
	c.Println("\t%s.so = (%s.u64 & 0x80000000) != 0;", c.Xer(), c.R(c.Op(0)))
	c.Println("\t%s.ov = (%s.u64 & 0x40000000) != 0;", c.Xer(), c.R(c.Op(0)))
	c.Println("\t%s.ca = (%s.u64 & 0x20000000) != 0;", c.Xer(), c.R(c.Op(0)))
	return true
}
