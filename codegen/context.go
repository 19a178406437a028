package codegen

import (
	"fmt"

	"github.com/rexlab/rexglue/ppc"
)

// CSRState tracks which floating point CSR mode the emitted code is known
// to be in at the current point of the function body.
type CSRState uint8

// CSR states.
const (
	CSRUnknown CSRState = iota
	CSRFPU
	CSRVMX
)

// emitState is the per-function mutable state shared by every builder
// invocation inside one function body.
type emitState struct {
	csr         CSRState
	switchTable *JumpTable
	locals      LocalVariables
}

// BuilderContext is the per-instruction scratchpad handed to builders. Its
// lifetime is a single instruction.
type BuilderContext struct {
	rec  *Recompiler
	fn   *FunctionNode
	insn ppc.Instruction

	// Addr is the guest address of the instruction being built.
	Addr uint32

	// words holds the raw instruction words of the enclosing block, with
	// index selecting the current instruction. Used for eieio lookahead and
	// the late jump-table back-scan.
	words []uint32
	index int

	state *emitState
}

// Insn returns the decoded instruction.
func (c *BuilderContext) Insn() *ppc.Instruction { return &c.insn }

// Op returns operand i as an unsigned value.
func (c *BuilderContext) Op(i int) uint32 { return c.insn.Operands[i] }

// SOp returns operand i reinterpreted as a signed 32-bit immediate.
func (c *BuilderContext) SOp(i int) int32 { return int32(c.insn.Operands[i]) }

// Fn returns the enclosing function node.
func (c *BuilderContext) Fn() *FunctionNode { return c.fn }

// Graph returns the function graph.
func (c *BuilderContext) Graph() *FunctionGraph { return c.rec.graph }

// Config returns the active configuration.
func (c *BuilderContext) Config() *Config { return c.rec.cfg }

// Locals returns the per-function local variable state.
func (c *BuilderContext) Locals() *LocalVariables { return &c.state.locals }

// SwitchTable returns the active jump-table binding, or nil.
func (c *BuilderContext) SwitchTable() *JumpTable { return c.state.switchTable }

// ResetSwitchTable drops the active jump-table binding after a bctr
// consumed it.
func (c *BuilderContext) ResetSwitchTable() { c.state.switchTable = nil }

// SetCSRState overrides the tracked CSR mode, used after calls which may
// have changed it.
func (c *BuilderContext) SetCSRState(s CSRState) { c.state.csr = s }

// Print appends formatted text to the output buffer.
func (c *BuilderContext) Print(format string, args ...any) {
	fmt.Fprintf(&c.rec.out, format, args...)
}

// Println appends a formatted line to the output buffer.
func (c *BuilderContext) Println(format string, args ...any) {
	fmt.Fprintf(&c.rec.out, format, args...)
	c.rec.out.WriteByte('\n')
}

// R names GPR i, promoting it to a local when configured.
func (c *BuilderContext) R(i uint32) string {
	cfg := c.rec.cfg
	if (cfg.NonArgumentRegistersAsLocalVariables && (i == 0 || i == 2 || i == 11 || i == 12)) ||
		(cfg.NonVolatileRegistersAsLocalVariables && i >= 14) {
		c.state.locals.R[i] = true
		return fmt.Sprintf("r%d", i)
	}
	return fmt.Sprintf("ctx.r%d", i)
}

// Fr names FPR i, promoting it to a local when configured.
func (c *BuilderContext) Fr(i uint32) string {
	cfg := c.rec.cfg
	if (cfg.NonArgumentRegistersAsLocalVariables && i == 0) ||
		(cfg.NonVolatileRegistersAsLocalVariables && i >= 14) {
		c.state.locals.F[i] = true
		return fmt.Sprintf("f%d", i)
	}
	return fmt.Sprintf("ctx.f%d", i)
}

// Vr names VR i, promoting it to a local when configured.
func (c *BuilderContext) Vr(i uint32) string {
	cfg := c.rec.cfg
	if (cfg.NonArgumentRegistersAsLocalVariables && i >= 32 && i <= 63) ||
		(cfg.NonVolatileRegistersAsLocalVariables && ((i >= 14 && i <= 31) || (i >= 64 && i <= 127))) {
		c.state.locals.V[i] = true
		return fmt.Sprintf("v%d", i)
	}
	return fmt.Sprintf("ctx.v%d", i)
}

// Cr names CR field i, promoting it to a local when configured.
func (c *BuilderContext) Cr(i uint32) string {
	if c.rec.cfg.CrRegistersAsLocalVariables {
		c.state.locals.CR[i] = true
		return fmt.Sprintf("cr%d", i)
	}
	return fmt.Sprintf("ctx.cr%d", i)
}

// Ctr names the count register.
func (c *BuilderContext) Ctr() string {
	if c.rec.cfg.CtrAsLocalVariable {
		c.state.locals.Ctr = true
		return "ctr"
	}
	return "ctx.ctr"
}

// Xer names the XER register.
func (c *BuilderContext) Xer() string {
	if c.rec.cfg.XerAsLocalVariable {
		c.state.locals.Xer = true
		return "xer"
	}
	return "ctx.xer"
}

// Reserved names the atomic reservation register.
func (c *BuilderContext) Reserved() string {
	if c.rec.cfg.ReservedRegisterAsLocalVariable {
		c.state.locals.Reserved = true
		return "reserved"
	}
	return "ctx.reserved"
}

// Temp names the scratch register local.
func (c *BuilderContext) Temp() string {
	c.state.locals.Temp = true
	return "temp"
}

// VTemp names the vector scratch local.
func (c *BuilderContext) VTemp() string {
	c.state.locals.VTemp = true
	return "vTemp"
}

// Env names the setjmp context save local.
func (c *BuilderContext) Env() string {
	c.state.locals.Env = true
	return "env"
}

// Ea names the effective address local.
func (c *BuilderContext) Ea() string {
	c.state.locals.Ea = true
	return "ea"
}

// NextWordIsEieio reports whether the instruction following this one is an
// eieio, which forces the MMIO store variant for the current access.
func (c *BuilderContext) NextWordIsEieio() bool {
	if c.Addr+4 >= c.fn.End() {
		return false
	}
	if c.index+1 >= len(c.words) {
		return false
	}
	return c.words[c.index+1] == ppc.WordEieio
}

// MMIOCheckDForm reports whether a D-form access (base register in operand
// 2) must use the MMIO store variant.
func (c *BuilderContext) MMIOCheckDForm() bool {
	return c.state.locals.IsMMIOBase(c.Op(2)) || c.NextWordIsEieio()
}

// MMIOCheckXForm reports whether an X-form access (base register in operand
// 1) must use the MMIO store variant.
func (c *BuilderContext) MMIOCheckXForm() bool {
	return c.state.locals.IsMMIOBase(c.Op(1)) || c.NextWordIsEieio()
}

// EmitSetFlushMode emits a CSR mode switch when the tracked state differs
// from the required one. enable selects VMX (flush-to-zero on), otherwise
// FPU.
func (c *BuilderContext) EmitSetFlushMode(enable bool) {
	newState := CSRFPU
	prefix := "disable"
	if enable {
		newState = CSRVMX
		prefix = "enable"
	}
	if c.state.csr == newState {
		return
	}
	suffix := ""
	if c.state.csr != CSRUnknown {
		suffix = "Unconditional"
	}
	c.Println("\tctx.fpscr.%sFlushMode%s();", prefix, suffix)
	c.state.csr = newState
}

// EmitFunctionCall emits a host call to the function at address, lowering
// the configured setjmp/longjmp thunks to the native routines and eliding
// the __save/__rest register helpers when non-volatile registers live in
// locals.
func (c *BuilderContext) EmitFunctionCall(address uint32) {
	cfg := c.rec.cfg
	switch {
	case address == cfg.LongJmpAddress && address != 0:
		c.Println("\tlongjmp(*reinterpret_cast<jmp_buf*>(base + %s.u32), %s.s32);", c.R(3), c.R(4))
	case address == cfg.SetJmpAddress && address != 0:
		c.Println("\t%s = ctx;", c.Env())
		c.Println("\t%s.s64 = setjmp(*reinterpret_cast<jmp_buf*>(base + %s.u32));", c.Temp(), c.R(3))
		c.Println("\tif (%s.s64 != 0) ctx = %s;", c.Temp(), c.Env())
		c.Println("\t%s = %s;", c.R(3), c.Temp())
	default:
		target := c.rec.graph.Get(address)
		if target == nil {
			logcg.Error("Unresolved function 0x%08X from 0x%08X", address, c.Addr)
			c.Println("\t// ERROR: unresolved function 0x%08X", address)
			c.rec.validationFailed = true
			return
		}
		name := c.rec.graph.FunctionName(target)
		if cfg.NonVolatileRegistersAsLocalVariables &&
			(hasPrefix(name, "__rest") || hasPrefix(name, "__save")) {
			// Handled entirely by local variable promotion.
			return
		}
		c.Println("\t%s(ctx, base);", name)
	}
}

// EmitConditionalBranch emits a CR-bit-predicated branch. The target in
// operand 1 becomes a local goto when inside the function, or a call plus
// return when outside.
func (c *BuilderContext) EmitConditionalBranch(negate bool, cond string) {
	not := ""
	if negate {
		not = "!"
	}
	target := c.Op(1)
	if !c.fn.Contains(target) {
		c.Println("\tif (%s%s.%s) {", not, c.Cr(c.Op(0)), cond)
		c.Print("\t")
		c.EmitFunctionCall(target)
		c.Println("\t\treturn;")
		c.Println("\t}")
		return
	}
	c.Println("\tif (%s%s.%s) goto loc_%X;", not, c.Cr(c.Op(0)), cond, target)
}

// EmitLoadDForm emits a D-form load: rD = MACRO(rA + disp), with the null
// base omitted when rA is r0.
func (c *BuilderContext) EmitLoadDForm(macro, field string) {
	c.Print("\t%s.%s = %s(", c.R(c.Op(0)), field, macro)
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d);", c.SOp(1))
}

// EmitLoadXForm emits an X-form load: rD = MACRO(rA + rB).
func (c *BuilderContext) EmitLoadXForm(macro, field string) {
	c.Print("\t%s.%s = %s(", c.R(c.Op(0)), field, macro)
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32);", c.R(c.Op(2)))
}

// EmitStoreDForm emits a D-form store, routing through the MMIO variant
// when the base register is a flagged MMIO base.
func (c *BuilderContext) EmitStoreDForm(macro, mmioMacro, field string) {
	m := macro
	if c.MMIOCheckDForm() {
		m = mmioMacro
	}
	c.Print("\t%s(", m)
	if c.Op(2) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(2)))
	}
	c.Println("%d, %s.%s);", c.SOp(1), c.R(c.Op(0)), field)
}

// EmitStoreXForm emits an X-form store with the MMIO check.
func (c *BuilderContext) EmitStoreXForm(macro, mmioMacro, field string) {
	m := macro
	if c.MMIOCheckXForm() {
		m = mmioMacro
	}
	c.Print("\t%s(", m)
	if c.Op(1) != 0 {
		c.Print("%s.u32 + ", c.R(c.Op(1)))
	}
	c.Println("%s.u32, %s.%s);", c.R(c.Op(2)), c.R(c.Op(0)), field)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
