package codegen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rexlab/rexglue/ppc"
)

// Output batching constants.
const (
	functionsPerOutputFile = 500
)

// Recompiler drives code generation for a whole function graph.
type Recompiler struct {
	cfg    *Config
	graph  *FunctionGraph
	binary Binary
	dis    ppc.Disassembler

	out    bytes.Buffer
	writer OutputWriter

	cppFileIndex     int
	validationFailed bool
}

// NewRecompiler creates a recompiler over the given configuration, graph,
// image and disassembler.
func NewRecompiler(cfg *Config, graph *FunctionGraph, bin Binary, dis ppc.Disassembler) *Recompiler {
	return &Recompiler{cfg: cfg, graph: graph, binary: bin, dis: dis}
}

// ValidationFailed reports whether any unresolved control flow or
// out-of-bounds jump table was seen.
func (r *Recompiler) ValidationFailed() bool { return r.validationFailed }

// SetValidationFailed marks the run as validation-failed, used by the
// analysis front end before codegen starts.
func (r *Recompiler) SetValidationFailed() { r.validationFailed = true }

// Writer exposes the content-addressed output writer.
func (r *Recompiler) Writer() *OutputWriter { return &r.writer }

// Output returns the text accumulated since the last save. Test hook.
func (r *Recompiler) Output() string { return r.out.String() }

func (r *Recompiler) print(format string, args ...any) {
	fmt.Fprintf(&r.out, format, args...)
}

func (r *Recompiler) println(format string, args ...any) {
	fmt.Fprintf(&r.out, format, args...)
	r.out.WriteByte('\n')
}

// blockWords reads the raw big-endian instruction words of a block.
func (r *Recompiler) blockWords(block Block) []uint32 {
	data := r.binary.Translate(block.Base)
	if data == nil || uint32(len(data)) < block.Size {
		return nil
	}
	words := make([]uint32, block.Size/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[i*4:])
	}
	return words
}

// recompileInstruction translates one decoded instruction into the output
// buffer. It returns false when the instruction could not be handled.
func (r *Recompiler) recompileInstruction(fn *FunctionNode, addr uint32, insn ppc.Instruction,
	words []uint32, index int, st *emitState) bool {

	r.println("\t// %s %s", insn.Name, insn.OpStr)

	hook := r.cfg.MidAsmHooks[addr]

	ctx := &BuilderContext{
		rec:   r,
		fn:    fn,
		insn:  insn,
		Addr:  addr,
		words: words,
		index: index,
		state: st,
	}

	if hook != nil && !hook.AfterInstruction {
		r.emitMidAsmHookCall(ctx, hook)
	}

	id := insn.Op

	// Patch up encodings the disassembler reports incorrectly.
	if id == ppc.OpVupkhsb128 && insn.Operands[2] == 0x60 {
		id = ppc.OpVupkhsh128
	} else if id == ppc.OpVupklsb128 && insn.Operands[2] == 0x60 {
		id = ppc.OpVupklsh128
	}

	before := r.out.Len()
	if !DispatchInstruction(id, ctx) {
		return false
	}

	// Record-form instructions must have produced a condition register
	// update. mulhd./mulhdu. are documented exceptions.
	if insn.IsRecordForm() && insn.Name != "mulhd." && insn.Name != "mulhdu." {
		emitted := r.out.String()[before:]
		if !strings.Contains(emitted, "cr0") && !strings.Contains(emitted, "cr6") {
			logcg.Warn("%s at %X has RC bit enabled but no comparison was generated", insn.Name, addr)
		}
	}

	if hook != nil && hook.AfterInstruction {
		r.emitMidAsmHookCall(ctx, hook)
	}
	return true
}

// emitMidAsmHookCall emits the configured host hook invocation.
func (r *Recompiler) emitMidAsmHookCall(c *BuilderContext, hook *MidAsmHook) {
	returnsBool := hook.returnsBool()

	c.Print("\t")
	if returnsBool {
		c.Print("if (")
	}
	c.Print("%s(", hook.Name)
	for i, reg := range hook.Registers {
		if i > 0 {
			c.Print(", ")
		}
		c.Print("%s", r.hookRegisterExpr(c, reg))
	}
	if returnsBool {
		c.Println(")) {")
		if hook.ReturnOnTrue {
			c.Println("\t\treturn;")
		} else if hook.JumpAddressOnTrue != 0 {
			c.Println("\t\tgoto loc_%X;", hook.JumpAddressOnTrue)
		}
		c.Println("\t}")
		c.Println("\telse {")
		if hook.ReturnOnFalse {
			c.Println("\t\treturn;")
		} else if hook.JumpAddressOnFalse != 0 {
			c.Println("\t\tgoto loc_%X;", hook.JumpAddressOnFalse)
		}
		c.Println("\t}")
	} else {
		c.Println(");")
		if hook.Ret {
			c.Println("\treturn;")
		} else if hook.JumpAddress != 0 {
			c.Println("\tgoto loc_%X;", hook.JumpAddress)
		}
	}
}

// hookRegisterExpr resolves a hook register dependency name to the emitted
// argument expression.
func (r *Recompiler) hookRegisterExpr(c *BuilderContext, reg string) string {
	switch {
	case reg == "ctr":
		return c.Ctr()
	case reg == "xer":
		return c.Xer()
	case reg == "reserved":
		return c.Reserved()
	case reg == "fpscr":
		return "ctx.fpscr"
	case strings.HasPrefix(reg, "cr"):
		return c.Cr(parseRegIndex(reg[2:]))
	case reg[0] == 'r':
		return c.R(parseRegIndex(reg[1:]))
	case reg[0] == 'f':
		return c.Fr(parseRegIndex(reg[1:]))
	case reg[0] == 'v':
		return c.Vr(parseRegIndex(reg[1:]))
	}
	return reg
}

// hookRegisterParam resolves a hook register dependency name to its extern
// declaration parameter.
func hookRegisterParam(reg string) string {
	switch {
	case reg == "ctr":
		return "PPCRegister& ctr"
	case reg == "xer":
		return "PPCXERRegister& xer"
	case reg == "reserved":
		return "PPCRegister& reserved"
	case reg == "fpscr":
		return "PPCFPSCRRegister& fpscr"
	case strings.HasPrefix(reg, "cr"):
		return fmt.Sprintf("PPCCRRegister& %s", reg)
	case reg[0] == 'v':
		return fmt.Sprintf("PPCVRegister& %s", reg)
	default:
		return fmt.Sprintf("PPCRegister& %s", reg)
	}
}

func parseRegIndex(s string) uint32 {
	var n uint32
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n = n*10 + uint32(s[i]-'0')
	}
	return n
}

// RecompileFunction emits one function into the output buffer. It returns
// false when any instruction failed to translate.
func (r *Recompiler) RecompileFunction(fn *FunctionNode) bool {
	name := r.graph.FunctionName(fn)

	// Functions with no discovered blocks (e.g. exception handler data)
	// get an empty stub.
	if len(fn.Blocks()) == 0 {
		logcg.Warn("Function 0x%08X has no blocks - generating stub", fn.Base())
		r.println("// STUB: Function at 0x%08X has no discovered code blocks", fn.Base())
		r.println("__attribute__((alias(\"__imp__%s\"))) PPC_WEAK_FUNC(%s);", name, name)
		r.println("PPC_FUNC_IMPL(__imp__%s) {", name)
		r.println("\tPPC_FUNC_PROLOGUE();")
		r.println("}")
		r.println("")
		return true
	}

	var sehInfo *SehInfo
	if fn.ExceptionInfo() != nil && len(fn.ExceptionInfo().Scopes) > 0 {
		sehInfo = fn.ExceptionInfo()
		logcg.Trace("Function 0x%08X has %d SEH scopes", fn.Base(), len(sehInfo.Scopes))
	}

	// First pass: collect branch targets, switch-table targets and
	// mid-asm hook targets as labels.
	labels := make(map[uint32]struct{})
	for _, block := range fn.Blocks() {
		words := r.blockWords(block)
		if words == nil {
			continue
		}
		for i, word := range words {
			addr := block.Base + uint32(i*4)
			if !ppc.IsLink(word) {
				switch ppc.PrimaryOp(word) {
				case ppc.PrimaryOpB:
					labels[addr+uint32(ppc.BranchDisp(word))] = struct{}{}
				case ppc.PrimaryOpBC:
					labels[addr+uint32(ppc.BranchCondDisp(word))] = struct{}{}
				}
			}

			if st := r.cfg.SwitchTables[addr]; st != nil {
				for _, label := range st.Targets {
					labels[label] = struct{}{}
				}
			}

			if hook := r.cfg.MidAsmHooks[addr]; hook != nil {
				r.emitMidAsmHookExtern(hook)
				if hook.JumpAddress != 0 {
					labels[hook.JumpAddress] = struct{}{}
				}
				if hook.JumpAddressOnTrue != 0 {
					labels[hook.JumpAddressOnTrue] = struct{}{}
				}
				if hook.JumpAddressOnFalse != 0 {
					labels[hook.JumpAddressOnFalse] = struct{}{}
				}
			}
		}
	}
	for _, jt := range fn.JumpTables() {
		for _, label := range jt.Targets {
			labels[label] = struct{}{}
		}
	}

	// Weak/alias pattern: overriding `name` at link time takes precedence
	// over the recompiled __imp__ body without touching other units.
	r.println("__attribute__((alias(\"__imp__%s\"))) PPC_WEAK_FUNC(%s);", name, name)
	r.println("PPC_FUNC_IMPL(__imp__%s) {", name)
	r.println("\tPPC_FUNC_PROLOGUE();")

	st := &emitState{csr: CSRUnknown}
	allRecompiled := true

	// The body goes into a temporary buffer so local variable declarations
	// can be prepended afterwards.
	saved := r.out
	r.out = bytes.Buffer{}

	emittedLabels := make(map[uint32]struct{})

	for _, block := range fn.Blocks() {
		words := r.blockWords(block)
		if words == nil {
			logcg.Warn("Block 0x%08X in function 0x%08X has no mapped data - skipping",
				block.Base, fn.Base())
			continue
		}

		for i, word := range words {
			addr := block.Base + uint32(i*4)

			if _, isLabel := labels[addr]; isLabel {
				if _, done := emittedLabels[addr]; !done {
					emittedLabels[addr] = struct{}{}
					r.println("loc_%X:", addr)
					// Anyone could jump here, so the CSR state is unknown.
					st.csr = CSRUnknown
				}
			}

			if st.switchTable == nil {
				st.switchTable = r.cfg.SwitchTables[addr]
			}

			insn, ok := r.dis.Disassemble(word, addr)
			if !ok {
				r.println("\t// %s", insn.OpStr)
				if word != 0 {
					logcg.Warn("Unable to decode instruction %X at %X", word, addr)
				}
				continue
			}

			// A bctr with no bound switch table may be a jump table the
			// analysis missed; re-run detection when the preceding mtctr
			// pattern matches.
			if insn.Op == ppc.OpBctr && st.switchTable == nil && !r.bctrHasAutoTable(fn, addr) {
				if r.isSwitchPattern(words, i) {
					if jt, ok := DetectJumpTable(r.binary, fn, words, block.Base, addr); ok {
						r.cfg.SwitchTables[addr] = jt
						st.switchTable = jt
						for _, label := range jt.Targets {
							labels[label] = struct{}{}
						}
						logcg.Info("Late-detected jump table at 0x%08X with %d entries",
							addr, len(jt.Targets))
					}
				}
			}

			if !r.recompileInstruction(fn, addr, insn, words, i, st) {
				logcg.Warn("Unrecognized instruction at 0x%X: %s", addr, insn.Name)
				allRecompiled = false
			}
		}
	}

	generateSeh := sehInfo != nil && r.cfg.GenerateExceptionHandlers
	if generateSeh {
		r.println("\t\t} SEH_CATCH_ALL {")
		r.println("\t\t\tREXLOG_WARN(\"SEH exception caught in sub_%08X\");", fn.Base())

		// r12 = establisher frame; __finally handlers derive their frame
		// pointer from it.
		if sehInfo.FrameSize > 0 {
			r.println("\t\t\tctx.r12.s64 = ctx.r31.s64 + %d;", sehInfo.FrameSize)
		}

		// Finally handlers run in reverse scope order.
		for i := len(sehInfo.Scopes) - 1; i >= 0; i-- {
			scope := sehInfo.Scopes[i]
			if scope.Filter == 0 && scope.Handler != 0 {
				r.println("\t\t\tsub_%08X(ctx, base);", scope.Handler)
			}
		}

		if sehInfo.RestoreHelper != 0 {
			if restoreFn := r.graph.Get(sehInfo.RestoreHelper); restoreFn != nil {
				r.println("\t\t\t%s(ctx, base);", r.graph.FunctionName(restoreFn))
			}
		}

		r.println("\t\t\tSEH_RETHROW;")
		r.println("\t\t} SEH_END")
		r.println("\t}")
	} else {
		r.println("}")
	}
	r.println("")

	body := r.out
	r.out = saved

	r.emitLocalDeclarations(&st.locals)

	if generateSeh {
		r.println("\tSEH_TRY {")
		// Indent the body one extra level inside the try block.
		text := body.String()
		var indented strings.Builder
		indented.Grow(len(text) + len(text)/20)
		for i := 0; i < len(text); i++ {
			indented.WriteByte(text[i])
			if text[i] == '\n' && i+1 < len(text) && text[i+1] == '\t' {
				indented.WriteByte('\t')
			}
		}
		r.out.WriteString(indented.String())
	} else {
		r.out.Write(body.Bytes())
	}

	return allRecompiled
}

// bctrHasAutoTable reports whether the function analysis already attached a
// jump table at the bctr address; the late detection pass must not rerun
// in that case.
func (r *Recompiler) bctrHasAutoTable(fn *FunctionNode, addr uint32) bool {
	for _, jt := range fn.JumpTables() {
		if jt.BctrAddress == addr {
			return true
		}
	}
	return false
}

// isSwitchPattern checks for an mtctr within three instructions before the
// bctr, separated only by nops.
func (r *Recompiler) isSwitchPattern(words []uint32, index int) bool {
	for i := 1; i <= 3; i++ {
		if index-i < 0 {
			return false
		}
		prev := words[index-i]
		if ppc.IsMtctr(prev) {
			for j := 1; j < i; j++ {
				if words[index-j] != ppc.WordNop {
					return false
				}
			}
			return true
		}
		if prev != ppc.WordNop {
			return false
		}
	}
	return false
}

// emitMidAsmHookExtern emits the extern declaration of a hook with its
// parameter list derived from the declared register dependencies.
func (r *Recompiler) emitMidAsmHookExtern(hook *MidAsmHook) {
	if hook.returnsBool() {
		r.print("extern bool ")
	} else {
		r.print("extern void ")
	}
	r.print("%s(", hook.Name)
	for i, reg := range hook.Registers {
		if i > 0 {
			r.print(", ")
		}
		r.print("%s", hookRegisterParam(reg))
	}
	r.println(");")
	r.println("")
}

// emitLocalDeclarations writes zero-initialised declarations for every
// register the builders promoted to locals.
func (r *Recompiler) emitLocalDeclarations(locals *LocalVariables) {
	if locals.Ctr {
		r.println("\tPPCRegister ctr{};")
	}
	if locals.Xer {
		r.println("\tPPCXERRegister xer{};")
	}
	if locals.Reserved {
		r.println("\tPPCRegister reserved{};")
	}
	for i := 0; i < 8; i++ {
		if locals.CR[i] {
			r.println("\tPPCCRRegister cr%d{};", i)
		}
	}
	for i := 0; i < 32; i++ {
		if locals.R[i] {
			r.println("\tPPCRegister r%d{};", i)
		}
	}
	for i := 0; i < 32; i++ {
		if locals.F[i] {
			r.println("\tPPCRegister f%d{};", i)
		}
	}
	for i := 0; i < 128; i++ {
		if locals.V[i] {
			r.println("\tPPCVRegister v%d{};", i)
		}
	}
	if locals.Env {
		r.println("\tPPCContext env{};")
	}
	if locals.Temp {
		r.println("\tPPCRegister temp{};")
	}
	if locals.VTemp {
		r.println("\tPPCVRegister vTemp{};")
	}
	if locals.Ea {
		r.println("\tuint32_t ea{};")
	}
}

// Recompile generates all output files for the graph. When validation
// failed, generation is blocked unless force is set.
func (r *Recompiler) Recompile(force bool) error {
	if r.validationFailed && !force {
		return fmt.Errorf("code generation blocked: validation errors detected (use --force to override)")
	}

	logcg.Trace("Recompile: starting")

	functions := r.graph.Sorted()
	projectName := r.cfg.ProjectName

	r.emitConfigHeader(projectName)
	r.emitInitHeader(projectName, functions)
	r.emitInitSource(projectName, functions)

	// Only local functions get bodies.
	local := functions[:0]
	for _, fn := range functions {
		if fn.Authority() != AuthorityImport {
			local = append(local, fn)
		}
	}

	logcg.Info("Recompiling %d functions...", len(local))
	for i, fn := range local {
		if i%functionsPerOutputFile == 0 {
			r.saveCurrentOut("")
			r.println("#include \"%s_init.h\"", projectName)
			r.println("")
		}
		r.RecompileFunction(fn)
	}
	r.saveCurrentOut("")
	logcg.Info("Recompilation complete.")

	r.emitSourcesCmake(projectName)

	return r.writer.Flush(r.cfg.OutDirectoryPath)
}

func (r *Recompiler) emitConfigHeader(projectName string) {
	logcg.Trace("Recompile: generating %s_config.h", projectName)

	r.println("#pragma once")
	r.println("#ifndef PPC_CONFIG_H_INCLUDED")
	r.println("#define PPC_CONFIG_H_INCLUDED")
	r.println("")

	if r.cfg.SkipLr {
		r.println("#define PPC_CONFIG_SKIP_LR")
	}
	if r.cfg.CtrAsLocalVariable {
		r.println("#define PPC_CONFIG_CTR_AS_LOCAL")
	}
	if r.cfg.XerAsLocalVariable {
		r.println("#define PPC_CONFIG_XER_AS_LOCAL")
	}
	if r.cfg.ReservedRegisterAsLocalVariable {
		r.println("#define PPC_CONFIG_RESERVED_AS_LOCAL")
	}
	if r.cfg.SkipMsr {
		r.println("#define PPC_CONFIG_SKIP_MSR")
	}
	if r.cfg.CrRegistersAsLocalVariables {
		r.println("#define PPC_CONFIG_CR_AS_LOCAL")
	}
	if r.cfg.NonArgumentRegistersAsLocalVariables {
		r.println("#define PPC_CONFIG_NON_ARGUMENT_AS_LOCAL")
	}
	if r.cfg.NonVolatileRegistersAsLocalVariables {
		r.println("#define PPC_CONFIG_NON_VOLATILE_AS_LOCAL")
	}
	r.println("")

	r.println("#define PPC_IMAGE_BASE 0x%Xull", r.binary.BaseAddress())
	r.println("#define PPC_IMAGE_SIZE 0x%Xull", r.binary.ImageSize())

	codeMin, codeMax := r.codeBounds()
	r.println("#define PPC_CODE_BASE 0x%Xull", codeMin)
	r.println("#define PPC_CODE_SIZE 0x%Xull", codeMax-codeMin)
	r.println("")
	r.println("#endif")

	r.saveCurrentOut(fmt.Sprintf("%s_config.h", projectName))
}

func (r *Recompiler) codeBounds() (uint32, uint32) {
	codeMin := ^uint32(0)
	codeMax := uint32(0)
	for _, section := range r.binary.Sections() {
		if !section.Executable {
			continue
		}
		if section.BaseAddress < codeMin {
			codeMin = section.BaseAddress
		}
		if section.BaseAddress+section.Size > codeMax {
			codeMax = section.BaseAddress + section.Size
		}
	}
	return codeMin, codeMax
}

func (r *Recompiler) emitInitHeader(projectName string, functions []*FunctionNode) {
	logcg.Trace("Recompile: generating %s_init.h", projectName)

	r.println("#pragma once")
	r.println("")
	r.println("#include \"%s_config.h\"", projectName)
	r.println("#include <rex/runtime/guest.h>")
	r.println("")

	for _, fn := range functions {
		if fn.Authority() == AuthorityImport {
			continue
		}
		r.println("PPC_EXTERN_IMPORT(%s);", r.graph.FunctionName(fn))
	}

	r.println("")
	r.println("// Import function declarations")
	for _, fn := range functions {
		if fn.Authority() != AuthorityImport {
			continue
		}
		r.println("PPC_EXTERN_IMPORT(%s);", fn.Name())
	}

	r.println("")
	r.println("// Function mapping table - iterate to register functions with processor")

	r.saveCurrentOut(fmt.Sprintf("%s_init.h", projectName))
}

func (r *Recompiler) emitInitSource(projectName string, functions []*FunctionNode) {
	logcg.Trace("Recompile: generating %s_init.cpp (function mapping table)", projectName)

	r.println("#include \"%s_init.h\"", projectName)
	r.println("")

	codeMin, _ := r.codeBounds()

	r.println("PPCFuncMapping PPCFuncMappings[] = {")
	for _, fn := range functions {
		if fn.Authority() == AuthorityImport {
			continue
		}
		if fn.Base() < codeMin {
			continue
		}
		r.println("\t{ 0x%X, %s },", fn.Base(), r.graph.FunctionName(fn))
	}
	// Import thunks join the table for indirect call support.
	for _, fn := range functions {
		if fn.Authority() != AuthorityImport {
			continue
		}
		r.println("\t{ 0x%X, %s },", fn.Base(), fn.Name())
	}
	r.println("\t{ 0, nullptr }")
	r.println("};")

	r.saveCurrentOut(fmt.Sprintf("%s_init.cpp", projectName))
}

func (r *Recompiler) emitSourcesCmake(projectName string) {
	logcg.Trace("Recompile: generating sources.cmake")

	r.println("# Auto-generated by rexglue codegen - DO NOT EDIT")
	r.println("#")
	r.println("# IMPORTANT: For SEH (Structured Exception Handling) support on Windows,")
	r.println("# add /EHa to your compile options:")
	r.println("#   target_compile_options(your_target PRIVATE $<$<CXX_COMPILER_ID:MSVC>:/EHa>)")
	r.println("#")
	r.println("set(GENERATED_SOURCES")
	r.println("    ${CMAKE_CURRENT_LIST_DIR}/%s_init.cpp", projectName)
	for i := 0; i < r.cppFileIndex; i++ {
		r.println("    ${CMAKE_CURRENT_LIST_DIR}/%s_recomp.%d.cpp", projectName, i)
	}
	r.println(")")

	r.saveCurrentOut("sources.cmake")
}

// saveCurrentOut moves the accumulated output into the pending write set.
// An empty name allocates the next numbered translation unit.
func (r *Recompiler) saveCurrentOut(name string) {
	if r.out.Len() == 0 {
		return
	}
	if name == "" {
		name = fmt.Sprintf("%s_recomp.%d.cpp", r.cfg.ProjectName, r.cppFileIndex)
		r.cppFileIndex++
	}
	content := make([]byte, r.out.Len())
	copy(content, r.out.Bytes())
	r.writer.Add(name, content)
	r.out.Reset()
}
