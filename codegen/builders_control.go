package codegen

import "fmt"

func buildB(c *BuilderContext) bool {
	target := c.Op(0)

	// Classify through the graph; handles thunks branching into nearby
	// functions. A branch to the own entry is a loop back, not a call.
	switch c.Graph().ClassifyTarget(target, c.Addr, false) {
	case TargetInternalLabel:
		c.Println("\tgoto loc_%X;", target)

	case TargetFunction, TargetImport:
		// Tail call.
		c.EmitFunctionCall(target)
		c.Println("\treturn;")

	case TargetUnknown:
		if c.fn.Contains(target) {
			c.Println("\tgoto loc_%X;", target)
		} else {
			logcg.Warn("Unresolved b target 0x%08X from 0x%08X", target, c.Addr)
			c.EmitFunctionCall(target)
			c.Println("\treturn;")
		}
	}
	return true
}

func buildBl(c *BuilderContext) bool {
	target := c.Op(0)

	if !c.Config().SkipLr {
		c.Println("\tctx.lr = 0x%X;", c.Addr+4)
	}

	switch c.Graph().ClassifyTarget(target, c.Addr, true) {
	case TargetInternalLabel:
		// PIC pattern: bl only to capture the PC into LR. LR is already
		// set, so this reduces to a local jump.
		c.Println("\tgoto loc_%X;", target)

	case TargetFunction, TargetImport:
		c.EmitFunctionCall(target)
		c.SetCSRState(CSRUnknown) // the call could change it

	case TargetUnknown:
		logcg.Error("Unresolved bl target 0x%08X from 0x%08X", target, c.Addr)
		c.Println("\t// ERROR: unresolved bl target 0x%08X", target)
		c.Println("\tREX_FATAL(\"Unresolved call from 0x%08X to 0x%08X\");", c.Addr, target)
		c.rec.validationFailed = true
	}
	return true
}

func buildBlr(c *BuilderContext) bool {
	c.Println("\treturn;")
	return true
}

func buildBlrl(c *BuilderContext) bool {
	// Never observed in practice; leave a debug trap until a test corpus
	// demonstrates intent.
	c.Println("\t__builtin_debugtrap();")
	return true
}

func buildBctr(c *BuilderContext) bool {
	// Configured switch tables take precedence over auto-detected ones.
	jt := c.SwitchTable()
	if jt == nil {
		for i := range c.fn.JumpTables() {
			if c.fn.JumpTables()[i].BctrAddress == c.Addr {
				jt = &c.fn.JumpTables()[i]
				break
			}
		}
	}

	if jt != nil {
		c.Println("\tswitch (%s.u32) {", c.R(jt.IndexRegister))

		for i, label := range jt.Targets {
			c.Println("\tcase %d:", i)
			if !c.fn.Contains(label) {
				logcg.Error("Jump target 0x%08X outside function bounds at bctr 0x%08X", label, c.Addr)
				c.Println("\t\t// ERROR: jump target 0x%08X outside function bounds", label)
				c.Println("\t\treturn;")
				c.rec.validationFailed = true
			} else {
				c.Println("\t\tgoto loc_%X;", label)
			}
		}

		c.Println("\tdefault:")
		c.Println("\t\t__builtin_trap(); // Switch case out of range")
		c.Println("\t}")

		c.ResetSwitchTable()
		return true
	}

	// No switch table: assume a tail call through CTR.
	c.Println("\tPPC_CALL_INDIRECT_FUNC(%s.u32);", c.Ctr())
	c.Println("\treturn;")
	return true
}

func buildBctrl(c *BuilderContext) bool {
	if !c.Config().SkipLr {
		c.Println("\tctx.lr = 0x%X;", c.Addr+4)
	}
	c.Println("\tPPC_CALL_INDIRECT_FUNC(%s.u32);", c.Ctr())
	c.SetCSRState(CSRUnknown) // the call could change it
	return true
}

func buildBnectr(c *BuilderContext) bool {
	c.Println("\tif (!%s.eq) {", c.Cr(c.Op(0)))
	c.Println("\t\tPPC_CALL_INDIRECT_FUNC(%s.u32);", c.Ctr())
	c.Println("\t\treturn;")
	c.Println("\t}")
	return true
}

func buildBdz(c *BuilderContext) bool {
	c.Println("\t--%s.u64;", c.Ctr())
	emitBranchWithBoundsCheck(c, c.Op(0),
		fmt.Sprintf("%s.u32 == 0", c.Ctr()), "bdz")
	return true
}

func buildBdzlr(c *BuilderContext) bool {
	c.Println("\t--%s.u64;", c.Ctr())
	c.Println("\tif (%s.u32 == 0) return;", c.Ctr())
	return true
}

func buildBdnz(c *BuilderContext) bool {
	c.Println("\t--%s.u64;", c.Ctr())
	emitBranchWithBoundsCheck(c, c.Op(0),
		fmt.Sprintf("%s.u32 != 0", c.Ctr()), "bdnz")
	return true
}

func buildBdnzf(c *BuilderContext) bool {
	bit := CRBitName(c.Op(0))
	c.Println("\t--%s.u64;", c.Ctr())
	emitBranchWithBoundsCheck(c, c.Op(1),
		fmt.Sprintf("%s.u32 != 0 && !%s.%s", c.Ctr(), c.Cr(c.Op(0)/4), bit), "bdnzf")
	return true
}

func buildBdnzt(c *BuilderContext) bool {
	bit := CRBitName(c.Op(0))
	c.Println("\t--%s.u64;", c.Ctr())
	emitBranchWithBoundsCheck(c, c.Op(1),
		fmt.Sprintf("%s.u32 != 0 && %s.%s", c.Ctr(), c.Cr(c.Op(0)/4), bit), "bdnzt")
	return true
}

func buildBdzf(c *BuilderContext) bool {
	bit := CRBitName(c.Op(0))
	c.Println("\t--%s.u64;", c.Ctr())
	emitBranchWithBoundsCheck(c, c.Op(1),
		fmt.Sprintf("%s.u32 == 0 && !%s.%s", c.Ctr(), c.Cr(c.Op(0)/4), bit), "bdzf")
	return true
}

func buildBeq(c *BuilderContext) bool {
	c.EmitConditionalBranch(false, "eq")
	return true
}

func buildBeqlr(c *BuilderContext) bool {
	c.Println("\tif (%s.eq) return;", c.Cr(c.Op(0)))
	return true
}

func buildBne(c *BuilderContext) bool {
	c.EmitConditionalBranch(true, "eq")
	return true
}

func buildBnelr(c *BuilderContext) bool {
	c.Println("\tif (!%s.eq) return;", c.Cr(c.Op(0)))
	return true
}

func buildBlt(c *BuilderContext) bool {
	c.EmitConditionalBranch(false, "lt")
	return true
}

func buildBltlr(c *BuilderContext) bool {
	c.Println("\tif (%s.lt) return;", c.Cr(c.Op(0)))
	return true
}

func buildBge(c *BuilderContext) bool {
	c.EmitConditionalBranch(true, "lt")
	return true
}

func buildBgelr(c *BuilderContext) bool {
	c.Println("\tif (!%s.lt) return;", c.Cr(c.Op(0)))
	return true
}

func buildBgt(c *BuilderContext) bool {
	c.EmitConditionalBranch(false, "gt")
	return true
}

func buildBgtlr(c *BuilderContext) bool {
	c.Println("\tif (%s.gt) return;", c.Cr(c.Op(0)))
	return true
}

func buildBle(c *BuilderContext) bool {
	c.EmitConditionalBranch(true, "gt")
	return true
}

func buildBlelr(c *BuilderContext) bool {
	c.Println("\tif (!%s.gt) return;", c.Cr(c.Op(0)))
	return true
}

func buildBso(c *BuilderContext) bool {
	c.EmitConditionalBranch(false, "so")
	return true
}

func buildBsolr(c *BuilderContext) bool {
	c.Println("\tif (%s.so) return;", c.Cr(c.Op(0)))
	return true
}

func buildBns(c *BuilderContext) bool {
	c.EmitConditionalBranch(true, "so")
	return true
}

func buildBnslr(c *BuilderContext) bool {
	c.Println("\tif (!%s.so) return;", c.Cr(c.Op(0)))
	return true
}
