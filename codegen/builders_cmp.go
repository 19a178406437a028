package codegen

// Builder emits host text for one decoded instruction. It returns false
// only when the instruction truly has no mapping.
type Builder func(*BuilderContext) bool

func buildCmpd(c *BuilderContext) bool {
	c.Println("\t%s.compare<int64_t>(%s.s64, %s.s64, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)), c.Xer())
	return true
}

func buildCmpdi(c *BuilderContext) bool {
	c.Println("\t%s.compare<int64_t>(%s.s64, %d, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.SOp(2), c.Xer())
	return true
}

func buildCmpld(c *BuilderContext) bool {
	c.Println("\t%s.compare<uint64_t>(%s.u64, %s.u64, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)), c.Xer())
	return true
}

func buildCmpldi(c *BuilderContext) bool {
	c.Println("\t%s.compare<uint64_t>(%s.u64, %d, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.Op(2), c.Xer())
	return true
}

func buildCmplw(c *BuilderContext) bool {
	c.Println("\t%s.compare<uint32_t>(%s.u32, %s.u32, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)), c.Xer())
	return true
}

func buildCmplwi(c *BuilderContext) bool {
	c.Println("\t%s.compare<uint32_t>(%s.u32, %d, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.Op(2), c.Xer())
	return true
}

func buildCmpw(c *BuilderContext) bool {
	c.Println("\t%s.compare<int32_t>(%s.s32, %s.s32, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.R(c.Op(2)), c.Xer())
	return true
}

func buildCmpwi(c *BuilderContext) bool {
	c.Println("\t%s.compare<int32_t>(%s.s32, %d, %s);",
		c.Cr(c.Op(0)), c.R(c.Op(1)), c.SOp(2), c.Xer())
	return true
}
