package codegen

import (
	"fmt"
	"strings"

	"github.com/rexlab/rexglue/log"
)

var logcg = log.New("codegen")

// ComputeMask returns the 64-bit mask for PPC rotate/mask instructions.
// Bits [mstart..mstop] are set when mstart <= mstop; otherwise the mask
// wraps and is the complement of bits (mstop..mstart).
func ComputeMask(mstart, mstop uint32) uint64 {
	mstart &= 0x3F
	mstop &= 0x3F
	var high uint64
	if mstop < 63 {
		high = ^uint64(0) >> (mstop + 1)
	}
	value := (^uint64(0) >> mstart) ^ high
	if mstart <= mstop {
		return value
	}
	return ^value
}

// CRBitName maps a BI field bit index (0-3) to the CR field member name.
func CRBitName(bi uint32) string {
	names := [4]string{"lt", "gt", "eq", "so"}
	return names[bi&3]
}

// IsMMIOUpperBits reports whether an upper-16-bit immediate materialises a
// known MMIO base: GPU registers 0x7FC8xxxx-0x7FCFxxxx and the XMA/APU
// block 0x7FEAxxxx.
func IsMMIOUpperBits(imm uint32) bool {
	return (imm >= 0x7FC8 && imm <= 0x7FCF) || imm == 0x7FEA
}

// emitRecordFormCompare emits the CR0 update for record-form instructions:
// lt/gt/eq from the signed 32-bit result, so from xer.so.
func emitRecordFormCompare(c *BuilderContext) {
	if c.insn.IsRecordForm() {
		c.Println("\t%s.compare<int32_t>(%s.s32, 0, %s);",
			c.Cr(0), c.R(c.Op(0)), c.Xer())
	}
}

// emitCRBitOp emits an individual-bit CR operation crD = crA <op> crB,
// mapping global bit indices to field/bit pairs.
func emitCRBitOp(c *BuilderContext, op string, invertA, invertB, invertResult bool) {
	crD := c.Op(0)
	crA := c.Op(1)
	crB := c.Op(2)

	aExpr := fmt.Sprintf("%s.%s", c.Cr(crA/4), CRBitName(crA%4))
	bExpr := fmt.Sprintf("%s.%s", c.Cr(crB/4), CRBitName(crB%4))
	if invertA {
		aExpr = "!(" + aExpr + ")"
	}
	if invertB {
		bExpr = "!(" + bExpr + ")"
	}

	expr := fmt.Sprintf("%s %s %s", aExpr, op, bExpr)
	if invertResult {
		expr = "!(" + expr + ")"
	}

	c.Println("\t%s.%s = %s;", c.Cr(crD/4), CRBitName(crD%4), expr)
}

// emitLoadWithUpdate emits a D-form load with update:
// EA = rA + d; rD = MEM[EA]; rA = EA.
func emitLoadWithUpdate(c *BuilderContext, loadMacro string) {
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\t%s.u64 = %s(%s);", c.R(c.Op(0)), loadMacro, c.Ea())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
}

// emitLoadWithUpdateIndexed emits an X-form load with update:
// EA = rA + rB; rD = MEM[EA]; rA = EA.
func emitLoadWithUpdateIndexed(c *BuilderContext, loadMacro string) {
	c.Println("\t%s = %s.u32 + %s.u32;", c.Ea(), c.R(c.Op(1)), c.R(c.Op(2)))
	c.Println("\t%s.u64 = %s(%s);", c.R(c.Op(0)), loadMacro, c.Ea())
	c.Println("\t%s.u32 = %s;", c.R(c.Op(1)), c.Ea())
}

// emitStoreWithUpdate emits a D-form store with update:
// EA = rA + d; MEM[EA] = rS; rA = EA.
func emitStoreWithUpdate(c *BuilderContext, storeMacro, field string) {
	c.Println("\t%s = %d + %s.u32;", c.Ea(), c.SOp(1), c.R(c.Op(2)))
	c.Println("\t%s(%s, %s.%s);", storeMacro, c.Ea(), c.R(c.Op(0)), field)
	c.Println("\t%s.u32 = %s;", c.R(c.Op(2)), c.Ea())
}

// emitStoreWithUpdateIndexed emits an X-form store with update.
func emitStoreWithUpdateIndexed(c *BuilderContext, storeMacro, field string) {
	c.Println("\t%s = %s.u32 + %s.u32;", c.Ea(), c.R(c.Op(1)), c.R(c.Op(2)))
	c.Println("\t%s(%s, %s.%s);", storeMacro, c.Ea(), c.R(c.Op(0)), field)
	c.Println("\t%s.u32 = %s;", c.R(c.Op(1)), c.Ea())
}

// emitSignExtendLoadDForm emits rD = sign_extend(MACRO(rA + d)).
func emitSignExtendLoadDForm(c *BuilderContext, castType, loadMacro string) {
	c.Print("\t%s.s64 = %s(%s(", c.R(c.Op(0)), castType, loadMacro)
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d));", c.SOp(1))
}

// emitSignExtendLoadXForm emits rD = sign_extend(MACRO(rA + rB)).
func emitSignExtendLoadXForm(c *BuilderContext, castType, loadMacro string) {
	c.Print("\t%s.s64 = %s(%s(", c.R(c.Op(0)), castType, loadMacro)
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32));", c.R(c.Op(2)))
}

// emitBranchWithBoundsCheck emits a predicated goto when the target is
// inside the function, or a warning and a predicated return when it is not.
func emitBranchWithBoundsCheck(c *BuilderContext, target uint32, condition, instrName string) {
	if !c.fn.Contains(target) {
		logcg.Warn("%s at %X branches outside function to %X", instrName, c.Addr, target)
		c.Println("\tif (%s) { /* branch to 0x%X outside function */ return; }", condition, target)
		return
	}
	c.Println("\tif (%s) goto loc_%X;", condition, target)
}

// emitVectorEA emits the aligned or element-aligned vector effective
// address: ea = (opt_rA + rB) & ~alignMask. An empty mask emits no
// alignment.
func emitVectorEA(c *BuilderContext, alignMask string) {
	if alignMask != "" {
		c.Print("\t%s = (", c.Ea())
	} else {
		c.Print("\t%s = ", c.Ea())
	}
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	if alignMask != "" {
		c.Println("%s.u32) & ~%s;", c.R(c.Op(2)), alignMask)
	} else {
		c.Println("%s.u32;", c.R(c.Op(2)))
	}
}

// emitVectorTempEA emits the unaligned vector EA into temp.
func emitVectorTempEA(c *BuilderContext) {
	c.Print("\t%s.u32 = ", c.Temp())
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32;", c.R(c.Op(2)))
}

// emitTrap emits the conditional trap selected by the 5-bit TO field.
// TO=0 is a no-op and TO=0x1F traps unconditionally.
func emitTrap(c *BuilderContext, to uint32, aSigned, aUnsigned, bSigned, bUnsigned string) {
	if to == 0 {
		return
	}
	if to == 0x1F {
		c.Println("\tppc_trap(ctx, base, 0);")
		return
	}

	var conds []string
	if to&0x10 != 0 {
		conds = append(conds, fmt.Sprintf("%s < %s", aSigned, bSigned))
	}
	if to&0x08 != 0 {
		conds = append(conds, fmt.Sprintf("%s > %s", aSigned, bSigned))
	}
	if to&0x04 != 0 {
		conds = append(conds, fmt.Sprintf("%s == %s", aSigned, bSigned))
	}
	if to&0x02 != 0 {
		conds = append(conds, fmt.Sprintf("%s < %s", aUnsigned, bUnsigned))
	}
	if to&0x01 != 0 {
		conds = append(conds, fmt.Sprintf("%s > %s", aUnsigned, bUnsigned))
	}

	c.Println("\tif (%s) ppc_trap(ctx, base, 0);", strings.Join(conds, " || "))
}

// vLoad formats a 128-bit integer load of a vector register.
func vLoad(name string) string {
	return fmt.Sprintf("simde_mm_load_si128((simde__m128i*)%s.u8)", name)
}

// vStore formats a 128-bit integer store into a vector register.
func (c *BuilderContext) vStore(name, expr string) {
	c.Println("\tsimde_mm_store_si128((simde__m128i*)%s.u8, %s);", name, expr)
}

// vLoadF formats a 4-float load of a vector register.
func vLoadF(name string) string {
	return fmt.Sprintf("simde_mm_load_ps(%s.f32)", name)
}

// vStoreF formats a 4-float store into a vector register.
func (c *BuilderContext) vStoreF(name, expr string) {
	c.Println("\tsimde_mm_store_ps(%s.f32, %s);", name, expr)
}
