package codegen_test

import (
	"encoding/binary"
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rexlab/rexglue/codegen"
	"github.com/rexlab/rexglue/ppc"
)

const fnBase = uint32(0x82000100)

// scriptDis is a scripted disassembler: each address maps to a fixed
// decode result. Unmapped addresses fail to decode.
type scriptDis map[uint32]ppc.Instruction

func (d scriptDis) Disassemble(word uint32, addr uint32) (ppc.Instruction, bool) {
	insn, ok := d[addr]
	return insn, ok
}

// program builds a one-function graph over the given scripted
// instructions. Raw words default to nop; branch label collection reads
// real words, so callers override them where it matters.
type program struct {
	insns scriptDis
	words []uint32
	extra []byte // appended image data (e.g. jump tables)

	cfg   *codegen.Config
	graph *codegen.FunctionGraph
	fn    *codegen.FunctionNode
}

func newProgram(count int) *program {
	p := &program{
		insns: make(scriptDis),
		words: make([]uint32, count),
		cfg:   codegen.NewConfig(),
	}
	for i := range p.words {
		p.words[i] = ppc.WordNop
	}
	p.graph = codegen.NewFunctionGraph(0)
	p.fn = codegen.NewFunctionNode(fnBase, uint32(count*4), "", codegen.AuthorityLocal)
	p.fn.SetBlocks([]codegen.Block{{Base: fnBase, Size: uint32(count * 4)}})
	p.graph.Add(p.fn)
	return p
}

func (p *program) at(index int, insn ppc.Instruction) {
	p.insns[fnBase+uint32(index*4)] = insn
}

func (p *program) word(index int, w uint32) {
	p.words[index] = w
}

func (p *program) emit() string {
	image := make([]byte, len(p.words)*4+len(p.extra))
	for i, w := range p.words {
		binary.BigEndian.PutUint32(image[i*4:], w)
	}
	copy(image[len(p.words)*4:], p.extra)

	bin := codegen.NewImageBinary(fnBase, image)
	rec := codegen.NewRecompiler(p.cfg, p.graph, bin, p.insns)
	rec.RecompileFunction(p.fn)
	return rec.Output()
}

func insn(op ppc.Op, name string, operands ...uint32) ppc.Instruction {
	i := ppc.Instruction{Op: op, Name: name}
	copy(i.Operands[:], operands)
	return i
}

var _ = Describe("Instruction builders", func() {
	It("should emit a signed 64-bit write for li", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpLi, "li", 3, 0xFFFFFFFF))
		Expect(p.emit()).To(ContainSubstring("\tctx.r3.s64 = -1;\n"))
	})

	It("should emit a shifted signed write for lis", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpLis, "lis", 4, 0x1234))
		Expect(p.emit()).To(ContainSubstring("\tctx.r4.s64 = 305397760;\n"))
	})

	It("should route stores through the MMIO variant after a lis of an MMIO base", func() {
		p := newProgram(2)
		p.at(0, insn(ppc.OpLis, "lis", 4, 0x7FC8))
		p.at(1, insn(ppc.OpStw, "stw", 5, 0, 4))
		out := p.emit()
		Expect(out).To(ContainSubstring("PPC_MM_STORE_U32(ctx.r4.u32 + 0, ctx.r5.u32);"))
	})

	It("should keep normal stores for non-MMIO bases", func() {
		p := newProgram(2)
		p.at(0, insn(ppc.OpLis, "lis", 4, 0x1000))
		p.at(1, insn(ppc.OpStw, "stw", 5, 0, 4))
		out := p.emit()
		Expect(out).To(ContainSubstring("PPC_STORE_U32(ctx.r4.u32 + 0, ctx.r5.u32);"))
		Expect(out).NotTo(ContainSubstring("PPC_MM_STORE_U32"))
	})

	It("should carry the MMIO flag through ori but clear it on xori", func() {
		p := newProgram(3)
		p.at(0, insn(ppc.OpLis, "lis", 4, 0x7FC8))
		p.at(1, insn(ppc.OpOri, "ori", 4, 4, 0x10))
		p.at(2, insn(ppc.OpStw, "stw", 5, 0, 4))
		Expect(p.emit()).To(ContainSubstring("PPC_MM_STORE_U32"))

		p = newProgram(3)
		p.at(0, insn(ppc.OpLis, "lis", 4, 0x7FC8))
		p.at(1, insn(ppc.OpXori, "xori", 4, 4, 0x10))
		p.at(2, insn(ppc.OpStw, "stw", 5, 0, 4))
		Expect(p.emit()).NotTo(ContainSubstring("PPC_MM_STORE_U32"))
	})

	It("should route stores through the MMIO variant before an eieio", func() {
		p := newProgram(2)
		p.at(0, insn(ppc.OpStw, "stw", 5, 0, 4))
		p.at(1, insn(ppc.OpEieio, "eieio"))
		p.word(1, ppc.WordEieio)
		Expect(p.emit()).To(ContainSubstring("PPC_MM_STORE_U32"))
	})

	It("should emit a signed 32-bit compare for cmpwi", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpCmpwi, "cmpwi", 0, 3, 5))
		Expect(p.emit()).To(ContainSubstring(
			"\tctx.cr0.compare<int32_t>(ctx.r3.s32, 5, ctx.xer);\n"))
	})

	It("should rotate and mask for rlwinm", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpRlwinm, "rlwinm", 3, 4, 8, 16, 23))
		out := p.emit()
		Expect(out).To(ContainSubstring(
			"ctx.r3.u64 = __builtin_rotateleft64(ctx.r4.u32 | (ctx.r4.u64 << 32), 8) & 0xFF00;"))
	})

	It("should emit the record-form CR0 compare for dotted mnemonics", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpAdd, "add.", 3, 4, 5))
		out := p.emit()
		Expect(out).To(ContainSubstring("ctx.r3.u64 = ctx.r4.u64 + ctx.r5.u64;"))
		Expect(out).To(ContainSubstring("ctx.cr0.compare<int32_t>(ctx.r3.s32, 0, ctx.xer);"))
	})

	It("should always compare for andi.", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpAndi, "andi.", 3, 4, 0xFF))
		Expect(p.emit()).To(ContainSubstring("ctx.cr0.compare<int32_t>(ctx.r3.s32, 0, ctx.xer);"))
	})

	It("should omit the base register when rA is r0", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpLwz, "lwz", 3, 16, 0))
		Expect(p.emit()).To(ContainSubstring("\tctx.r3.u64 = PPC_LOAD_U32(16);\n"))
	})

	It("should write the EA back for update forms", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpLwzu, "lwzu", 3, 8, 4))
		out := p.emit()
		Expect(out).To(ContainSubstring("ea = 8 + ctx.r4.u32;"))
		Expect(out).To(ContainSubstring("ctx.r3.u64 = PPC_LOAD_U32(ea);"))
		Expect(out).To(ContainSubstring("ctx.r4.u32 = ea;"))
	})

	It("should byte-swap endian-reversed loads", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpLwbrx, "lwbrx", 3, 0, 4))
		Expect(p.emit()).To(ContainSubstring(
			"ctx.r3.u64 = __builtin_bswap32(PPC_LOAD_U32(ctx.r4.u32));"))
	})

	It("should capture the reservation for lwarx and CAS it back for stwcx.", func() {
		p := newProgram(2)
		p.at(0, insn(ppc.OpLwarx, "lwarx", 3, 0, 4))
		p.at(1, insn(ppc.OpStwcx, "stwcx.", 3, 0, 4))
		out := p.emit()
		Expect(out).To(ContainSubstring("ctx.reserved.u32 = *(uint32_t*)PPC_RAW_ADDR(ea);"))
		Expect(out).To(ContainSubstring("ctx.cr0.eq = __sync_bool_compare_and_swap"))
		Expect(out).To(ContainSubstring("ctx.cr0.lt = 0;"))
		Expect(out).To(ContainSubstring("ctx.cr0.so = ctx.xer.so;"))
	})

	It("should emit a trap stub for unimplemented opcodes", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.Op(0x7FFF), "vmsub3fp128", 0, 1, 2))
		out := p.emit()
		Expect(out).To(ContainSubstring("// UNIMPLEMENTED: vmsub3fp128"))
		Expect(out).To(ContainSubstring("PPC_UNIMPLEMENTED(0x82000100, \"vmsub3fp128\");"))
	})

	It("should emit a comment only for undecodable non-zero words", func() {
		p := newProgram(1)
		p.word(0, 0x12345678)
		// No scripted decode for the address.
		out := p.emit()
		Expect(out).NotTo(ContainSubstring("PPC_UNIMPLEMENTED"))
	})

	Describe("traps", func() {
		It("should trap unconditionally for TO=0x1F", func() {
			p := newProgram(1)
			p.at(0, insn(ppc.OpTw, "trap", 0x1F, 3, 4))
			Expect(p.emit()).To(ContainSubstring("\tppc_trap(ctx, base, 0);\n"))
		})

		It("should emit nothing for TO=0", func() {
			p := newProgram(1)
			p.at(0, insn(ppc.OpTw, "tw", 0, 3, 4))
			Expect(p.emit()).NotTo(ContainSubstring("ppc_trap"))
		})

		It("should combine the selected comparisons", func() {
			p := newProgram(1)
			p.at(0, insn(ppc.OpTwi, "twlti", 0x10, 3, 10))
			Expect(p.emit()).To(ContainSubstring("if (ctx.r3.s32 < 10) ppc_trap(ctx, base, 0);"))
		})
	})

	Describe("CR bit operations", func() {
		It("should map global bit indices to field and bit", func() {
			p := newProgram(1)
			// crorc 8, 9, 10 -> cr2.lt = cr2.gt | !(cr2.eq)
			p.at(0, insn(ppc.OpCrorc, "crorc", 8, 9, 10))
			Expect(p.emit()).To(ContainSubstring("ctx.cr2.lt = ctx.cr2.gt | !(ctx.cr2.eq);"))
		})
	})

	Describe("flush mode tracking", func() {
		It("should switch modes once and elide redundant switches", func() {
			p := newProgram(3)
			p.at(0, insn(ppc.OpFadd, "fadd", 1, 2, 3))
			p.at(1, insn(ppc.OpFsub, "fsub", 4, 5, 6))
			p.at(2, insn(ppc.OpVaddfp, "vaddfp", 0, 1, 2))
			out := p.emit()
			Expect(strings.Count(out, "ctx.fpscr.disableFlushMode();")).To(Equal(1))
			Expect(strings.Count(out, "ctx.fpscr.enableFlushModeUnconditional();")).To(Equal(1))
		})

		It("should reset to unknown at labels", func() {
			p := newProgram(3)
			p.at(0, insn(ppc.OpFadd, "fadd", 1, 2, 3))
			// b .+4 creates a label on the next instruction.
			p.at(1, insn(ppc.OpB, "b", fnBase+8))
			p.word(1, 0x48000004)
			p.at(2, insn(ppc.OpFadd, "fadd", 1, 2, 3))
			out := p.emit()
			Expect(strings.Count(out, "ctx.fpscr.disableFlushMode();")).To(Equal(2))
		})
	})
})

var _ = Describe("Branches", func() {
	It("should emit a goto for in-function targets", func() {
		p := newProgram(3)
		p.at(0, insn(ppc.OpB, "b", fnBase+8))
		p.word(0, 0x48000008)
		out := p.emit()
		Expect(out).To(ContainSubstring("goto loc_82000108;"))
		Expect(out).To(ContainSubstring("loc_82000108:"))
	})

	It("should emit a tail call for targets in other functions", func() {
		p := newProgram(1)
		callee := codegen.NewFunctionNode(0x82000200, 4, "helper", codegen.AuthorityLocal)
		p.graph.Add(callee)
		p.at(0, insn(ppc.OpB, "b", 0x82000200))
		out := p.emit()
		Expect(out).To(ContainSubstring("helper(ctx, base);"))
		Expect(out).To(ContainSubstring("\treturn;"))
	})

	It("should set LR before a bl call", func() {
		p := newProgram(1)
		callee := codegen.NewFunctionNode(0x82000200, 4, "helper", codegen.AuthorityLocal)
		p.graph.Add(callee)
		p.at(0, insn(ppc.OpBl, "bl", 0x82000200))
		out := p.emit()
		Expect(out).To(ContainSubstring("ctx.lr = 0x82000104;"))
		Expect(out).To(ContainSubstring("helper(ctx, base);"))
	})

	It("should skip the LR write when configured", func() {
		p := newProgram(1)
		p.cfg.SkipLr = true
		callee := codegen.NewFunctionNode(0x82000200, 4, "helper", codegen.AuthorityLocal)
		p.graph.Add(callee)
		p.at(0, insn(ppc.OpBl, "bl", 0x82000200))
		Expect(p.emit()).NotTo(ContainSubstring("ctx.lr ="))
	})

	It("should classify a branch to the own entry as a loop", func() {
		p := newProgram(2)
		p.at(1, insn(ppc.OpB, "b", fnBase))
		p.word(1, 0x4BFFFFFC)
		out := p.emit()
		Expect(out).To(ContainSubstring("goto loc_82000100;"))
	})

	It("should emit call-plus-return for conditional branches leaving the function", func() {
		p := newProgram(1)
		callee := codegen.NewFunctionNode(0x82000300, 4, "outside", codegen.AuthorityLocal)
		p.graph.Add(callee)
		p.at(0, insn(ppc.OpBeq, "beq", 0, 0x82000300))
		out := p.emit()
		Expect(out).To(ContainSubstring("if (ctx.cr0.eq) {"))
		Expect(out).To(ContainSubstring("outside(ctx, base);"))
		Expect(out).To(ContainSubstring("return;"))
	})

	It("should decrement CTR and bounds-check bdnz", func() {
		p := newProgram(2)
		p.at(1, insn(ppc.OpBdnz, "bdnz", fnBase))
		p.word(1, 0x4200FFFC)
		out := p.emit()
		Expect(out).To(ContainSubstring("--ctx.ctr.u64;"))
		Expect(out).To(ContainSubstring("if (ctx.ctr.u32 != 0) goto loc_82000100;"))
	})

	It("should emit a return comment for out-of-function bdnz", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpBdnz, "bdnz", 0x82001000))
		out := p.emit()
		Expect(out).To(ContainSubstring("/* branch to 0x82001000 outside function */ return;"))
	})

	It("should return on conditional lr branches", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpBnelr, "bnelr", 6))
		Expect(p.emit()).To(ContainSubstring("if (!ctx.cr6.eq) return;"))
	})
})

var _ = Describe("bctr switch lowering", func() {
	targets := []uint32{fnBase + 8, fnBase + 12, fnBase + 16}

	It("should emit a switch over the configured jump table", func() {
		p := newProgram(5)
		p.cfg.SwitchTables[fnBase] = &codegen.JumpTable{
			BctrAddress:   fnBase,
			IndexRegister: 3,
			Targets:       targets,
		}
		p.at(0, insn(ppc.OpBctr, "bctr"))
		out := p.emit()
		Expect(out).To(ContainSubstring("switch (ctx.r3.u32) {"))
		Expect(out).To(ContainSubstring("case 1:\n\t\tgoto loc_8200010C;"))
		Expect(out).To(ContainSubstring("default:\n\t\t__builtin_trap();"))
	})

	It("should use the auto-detected table when no configured one exists", func() {
		p := newProgram(5)
		p.fn.AddJumpTable(codegen.JumpTable{
			BctrAddress:   fnBase,
			IndexRegister: 11,
			Targets:       targets,
		})
		p.at(0, insn(ppc.OpBctr, "bctr"))
		Expect(p.emit()).To(ContainSubstring("switch (ctx.r11.u32) {"))
	})

	It("should fall back to an indirect tail call without a table", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpBctr, "bctr"))
		out := p.emit()
		Expect(out).To(ContainSubstring("PPC_CALL_INDIRECT_FUNC(ctx.ctr.u32);"))
		Expect(out).To(ContainSubstring("return;"))
	})

	It("should late-detect a jump table behind an mtctr pattern", func() {
		// cmplwi r11, 2; lis r10; addi r10; mtctr r12; bctr; case bodies;
		// table data beyond the function.
		p := newProgram(9)
		tableVA := fnBase + 9*4
		caseTargets := []uint32{fnBase + 5*4, fnBase + 6*4, fnBase + 7*4}

		p.word(0, 10<<26|11<<16|2)                                  // cmplwi cr0, r11, 2
		p.word(1, 15<<26|10<<21|uint32(uint16(int16(tableVA>>16)))) // lis r10, hi
		p.word(2, 14<<26|10<<21|10<<16|(tableVA&0xFFFF))            // addi r10, r10, lo
		p.word(3, 0x7D8903A6)                                       // mtctr r12
		p.word(4, 0x4E800420)                                       // bctr
		for _, t := range caseTargets {
			p.extra = binary.BigEndian.AppendUint32(p.extra, t)
		}

		p.at(0, insn(ppc.OpCmplwi, "cmplwi", 0, 11, 2))
		p.at(1, insn(ppc.OpLis, "lis", 10, tableVA>>16))
		p.at(2, insn(ppc.OpAddi, "addi", 10, 10, tableVA&0xFFFF))
		p.at(3, insn(ppc.OpMtctr, "mtctr", 12))
		p.at(4, insn(ppc.OpBctr, "bctr"))
		for i := 5; i <= 8; i++ {
			p.at(i, insn(ppc.OpNop, "nop"))
		}

		out := p.emit()
		Expect(out).To(ContainSubstring("switch (ctx.r11.u32) {"))
		Expect(out).To(ContainSubstring("goto loc_82000114;"))
		Expect(out).To(ContainSubstring("loc_82000114:"))
		Expect(out).NotTo(ContainSubstring("PPC_CALL_INDIRECT_FUNC"))
	})
})

var _ = Describe("Emitted label invariants", func() {
	It("should declare every goto target exactly once", func() {
		p := newProgram(6)
		p.at(0, insn(ppc.OpB, "b", fnBase+16))
		p.word(0, 0x48000010)
		p.at(2, insn(ppc.OpB, "b", fnBase+16))
		p.word(2, 0x48000008)
		out := p.emit()

		gotoRe := regexp.MustCompile(`goto (loc_[0-9A-F]+);`)
		declRe := regexp.MustCompile(`(?m)^(loc_[0-9A-F]+):`)

		decls := map[string]int{}
		for _, m := range declRe.FindAllStringSubmatch(out, -1) {
			decls[m[1]]++
		}
		for label, n := range decls {
			Expect(n).To(Equal(1), "label %s declared %d times", label, n)
		}
		for _, m := range gotoRe.FindAllStringSubmatch(out, -1) {
			Expect(decls).To(HaveKey(m[1]))
		}
	})
})

var _ = Describe("Local variable promotion", func() {
	It("should declare promoted non-volatile registers at the top", func() {
		p := newProgram(1)
		p.cfg.NonVolatileRegistersAsLocalVariables = true
		p.at(0, insn(ppc.OpAdd, "add", 14, 15, 16))
		out := p.emit()
		Expect(out).To(ContainSubstring("\tPPCRegister r14{};"))
		Expect(out).To(ContainSubstring("\tr14.u64 = r15.u64 + r16.u64;"))
	})

	It("should keep argument registers in the context", func() {
		p := newProgram(1)
		p.cfg.NonVolatileRegistersAsLocalVariables = true
		p.at(0, insn(ppc.OpAdd, "add", 3, 4, 5))
		out := p.emit()
		Expect(out).To(ContainSubstring("ctx.r3.u64 = ctx.r4.u64 + ctx.r5.u64;"))
		Expect(out).NotTo(ContainSubstring("PPCRegister r3{};"))
	})
})

var _ = Describe("Vector builders", func() {
	It("should store vectors with the full-reversal shuffle", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpLvx, "lvx", 0, 0, 4))
		out := p.emit()
		Expect(out).To(ContainSubstring("VectorMaskL"))
		Expect(out).To(ContainSubstring("& ~0xF;"))
	})

	It("should index the reversed lane for element stores", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpStvewx, "stvewx", 0, 0, 4))
		Expect(p.emit()).To(ContainSubstring("ctx.v0.u32[3 - ((ea & 0xF) >> 2)]"))
	})

	It("should set cr6 for record-form vector compares", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpVcmpequw, "vcmpequw.", 0, 1, 2))
		Expect(p.emit()).To(ContainSubstring("ctx.cr6.setFromMask"))
	})

	It("should swap operands for merges under the reversal convention", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpVmrghw, "vmrghw", 0, 1, 2))
		Expect(p.emit()).To(ContainSubstring(
			"simde_mm_unpackhi_epi32(simde_mm_load_si128((simde__m128i*)ctx.v2.u8), simde_mm_load_si128((simde__m128i*)ctx.v1.u8))"))
	})
})
