package codegen_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rexlab/rexglue/codegen"
	"github.com/rexlab/rexglue/ppc"
)

// fullRun assembles a small two-function graph and drives a complete
// Recompile into dir.
func fullRun(dir string) (*codegen.Recompiler, *codegen.Config) {
	dis := make(scriptDis)
	cfg := codegen.NewConfig()
	cfg.ProjectName = "demo"
	cfg.OutDirectoryPath = dir

	words := make([]uint32, 4)
	for i := range words {
		words[i] = ppc.WordNop
	}
	image := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(image[i*4:], w)
	}
	bin := codegen.NewImageBinary(fnBase, image)

	graph := codegen.NewFunctionGraph(fnBase)

	entry := codegen.NewFunctionNode(fnBase, 8, "", codegen.AuthorityLocal)
	entry.SetBlocks([]codegen.Block{{Base: fnBase, Size: 8}})
	dis[fnBase] = insn(ppc.OpLi, "li", 3, 0)
	dis[fnBase+4] = insn(ppc.OpBlr, "blr")
	graph.Add(entry)

	helper := codegen.NewFunctionNode(fnBase+8, 8, "do_work", codegen.AuthorityLocal)
	helper.SetBlocks([]codegen.Block{{Base: fnBase + 8, Size: 8}})
	dis[fnBase+8] = insn(ppc.OpAddi, "addi", 3, 3, 1)
	dis[fnBase+12] = insn(ppc.OpBlr, "blr")
	graph.Add(helper)

	imp := codegen.NewFunctionNode(0x90000000, 4, "NtClose", codegen.AuthorityImport)
	graph.Add(imp)

	rec := codegen.NewRecompiler(cfg, graph, bin, dis)
	return rec, cfg
}

var _ = Describe("Recompiler", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should generate the full output set", func() {
		rec, _ := fullRun(dir)
		Expect(rec.Recompile(false)).To(Succeed())

		for _, name := range []string{
			"demo_config.h", "demo_init.h", "demo_init.cpp",
			"demo_recomp.0.cpp", "sources.cmake",
		} {
			_, err := os.Stat(filepath.Join(dir, name))
			Expect(err).NotTo(HaveOccurred(), name)
		}
	})

	It("should write config defines with image and code bounds", func() {
		rec, _ := fullRun(dir)
		Expect(rec.Recompile(false)).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, "demo_config.h"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("#define PPC_IMAGE_BASE 0x82000100ull"))
		Expect(string(data)).To(ContainSubstring("#define PPC_CODE_BASE 0x82000100ull"))
	})

	It("should name the entry point xstart and emit the weak alias pattern", func() {
		rec, _ := fullRun(dir)
		Expect(rec.Recompile(false)).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, "demo_recomp.0.cpp"))
		Expect(err).NotTo(HaveOccurred())
		out := string(data)
		Expect(out).To(ContainSubstring("__attribute__((alias(\"__imp__xstart\"))) PPC_WEAK_FUNC(xstart);"))
		Expect(out).To(ContainSubstring("PPC_FUNC_IMPL(__imp__do_work) {"))
		Expect(out).To(ContainSubstring("PPC_FUNC_PROLOGUE();"))
	})

	It("should emit a terminated function mapping table including imports", func() {
		rec, _ := fullRun(dir)
		Expect(rec.Recompile(false)).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, "demo_init.cpp"))
		Expect(err).NotTo(HaveOccurred())
		out := string(data)
		Expect(out).To(ContainSubstring("{ 0x82000100, xstart },"))
		Expect(out).To(ContainSubstring("{ 0x82000108, do_work },"))
		Expect(out).To(ContainSubstring("{ 0x90000000, NtClose },"))
		Expect(out).To(ContainSubstring("{ 0, nullptr }"))
	})

	It("should not rewrite unchanged outputs on a second run", func() {
		rec, _ := fullRun(dir)
		Expect(rec.Recompile(false)).To(Succeed())
		Expect(rec.Writer().Written()).To(BeNumerically(">", 0))

		rec2, _ := fullRun(dir)
		Expect(rec2.Recompile(false)).To(Succeed())
		Expect(rec2.Writer().Written()).To(Equal(0))
		Expect(rec2.Writer().Skipped()).To(BeNumerically(">", 0))
	})

	It("should block generation after validation failure unless forced", func() {
		rec, _ := fullRun(dir)
		rec.SetValidationFailed()
		Expect(rec.Recompile(false)).NotTo(Succeed())
		Expect(rec.Recompile(true)).To(Succeed())
	})

	It("should emit a stub for functions without blocks", func() {
		p := newProgram(1)
		stub := codegen.NewFunctionNode(0x82000400, 4, "", codegen.AuthorityLocal)
		p.graph.Add(stub)

		bin := codegen.NewImageBinary(fnBase, make([]byte, 4))
		rec := codegen.NewRecompiler(p.cfg, p.graph, bin, p.insns)
		Expect(rec.RecompileFunction(stub)).To(BeTrue())
		out := rec.Output()
		Expect(out).To(ContainSubstring("// STUB: Function at 0x82000400 has no discovered code blocks"))
		Expect(out).To(ContainSubstring("PPC_FUNC_IMPL(__imp__sub_82000400) {"))
	})
})

var _ = Describe("SEH framing", func() {
	It("should wrap the body and run finally handlers in reverse order", func() {
		p := newProgram(1)
		p.cfg.GenerateExceptionHandlers = true
		p.at(0, insn(ppc.OpBlr, "blr"))
		p.fn.SetExceptionInfo(&codegen.SehInfo{
			Scopes: []codegen.SehScope{
				{Filter: 0, Handler: 0x82000200, TryStart: fnBase, TryEnd: fnBase + 4},
				{Filter: 0, Handler: 0x82000300, TryStart: fnBase, TryEnd: fnBase + 4},
			},
			RestoreHelper: 0,
			FrameSize:     0x50,
		})
		out := p.emit()
		Expect(out).To(ContainSubstring("SEH_TRY {"))
		Expect(out).To(ContainSubstring("SEH_CATCH_ALL {"))
		Expect(out).To(ContainSubstring("ctx.r12.s64 = ctx.r31.s64 + 80;"))
		Expect(out).To(ContainSubstring("SEH_RETHROW;"))
		Expect(out).To(ContainSubstring("SEH_END"))

		// Reverse scope order: the 0x82000300 handler runs first.
		first := indexOf(out, "sub_82000300(ctx, base);")
		second := indexOf(out, "sub_82000200(ctx, base);")
		Expect(first).To(BeNumerically(">=", 0))
		Expect(second).To(BeNumerically(">", first))
	})

	It("should not frame when exception handlers are disabled", func() {
		p := newProgram(1)
		p.at(0, insn(ppc.OpBlr, "blr"))
		p.fn.SetExceptionInfo(&codegen.SehInfo{
			Scopes: []codegen.SehScope{{Handler: 0x82000200}},
		})
		Expect(p.emit()).NotTo(ContainSubstring("SEH_TRY"))
	})
})

var _ = Describe("Mid-asm hooks", func() {
	It("should declare the extern with register-derived parameters", func() {
		p := newProgram(1)
		p.cfg.MidAsmHooks[fnBase] = &codegen.MidAsmHook{
			Name:      "MyHook",
			Registers: []string{"r3", "f1", "cr6", "ctr"},
		}
		p.at(0, insn(ppc.OpNop, "nop"))
		out := p.emit()
		Expect(out).To(ContainSubstring(
			"extern void MyHook(PPCRegister& r3, PPCRegister& f1, PPCCRRegister& cr6, PPCRegister& ctr);"))
		Expect(out).To(ContainSubstring("MyHook(ctx.r3, ctx.f1, ctx.cr6, ctx.ctr);"))
	})

	It("should branch on boolean hooks", func() {
		p := newProgram(2)
		p.cfg.MidAsmHooks[fnBase] = &codegen.MidAsmHook{
			Name:              "Decide",
			Registers:         []string{"r3"},
			ReturnOnTrue:      true,
			JumpAddressOnFalse: fnBase + 4,
		}
		p.at(0, insn(ppc.OpNop, "nop"))
		p.at(1, insn(ppc.OpNop, "nop"))
		out := p.emit()
		Expect(out).To(ContainSubstring("extern bool Decide(PPCRegister& r3);"))
		Expect(out).To(ContainSubstring("if (Decide(ctx.r3)) {"))
		Expect(out).To(ContainSubstring("goto loc_82000104;"))
		Expect(out).To(ContainSubstring("loc_82000104:"))
	})
})

var _ = Describe("setjmp/longjmp thunks", func() {
	It("should lower calls to the configured thunk addresses", func() {
		p := newProgram(2)
		p.cfg.SetJmpAddress = 0x82000200
		p.cfg.LongJmpAddress = 0x82000300
		p.at(0, insn(ppc.OpBl, "bl", 0x82000200))
		p.at(1, insn(ppc.OpBl, "bl", 0x82000300))
		// The thunks also exist as functions so classification works.
		p.graph.Add(codegen.NewFunctionNode(0x82000200, 4, "setjmp_thunk", codegen.AuthorityLocal))
		p.graph.Add(codegen.NewFunctionNode(0x82000300, 4, "longjmp_thunk", codegen.AuthorityLocal))
		out := p.emit()
		Expect(out).To(ContainSubstring("setjmp(*reinterpret_cast<jmp_buf*>(base + ctx.r3.u32));"))
		Expect(out).To(ContainSubstring("longjmp(*reinterpret_cast<jmp_buf*>(base + ctx.r3.u32), ctx.r4.s32);"))
		Expect(out).To(ContainSubstring("env = ctx;"))
		Expect(out).To(ContainSubstring("\tPPCContext env{};"))
	})
})

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
