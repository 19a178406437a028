package ppc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rexlab/rexglue/ppc"
)

var _ = Describe("Raw word helpers", func() {
	It("should extract the primary opcode", func() {
		Expect(ppc.PrimaryOp(0x48000010)).To(Equal(uint32(ppc.PrimaryOpB)))
		Expect(ppc.PrimaryOp(0x41820008)).To(Equal(uint32(ppc.PrimaryOpBC)))
	})

	It("should detect the link bit", func() {
		Expect(ppc.IsLink(0x48000011)).To(BeTrue()) // bl
		Expect(ppc.IsLink(0x48000010)).To(BeFalse())
	})

	It("should sign-extend b displacements", func() {
		// b .+0x10
		Expect(ppc.BranchDisp(0x48000010)).To(Equal(int32(0x10)))
		// b .-4 (0x4BFFFFFC)
		Expect(ppc.BranchDisp(0x4BFFFFFC)).To(Equal(int32(-4)))
	})

	It("should sign-extend bc displacements", func() {
		// beq .+8
		Expect(ppc.BranchCondDisp(0x41820008)).To(Equal(int32(8)))
		// bne .-8
		Expect(ppc.BranchCondDisp(0x4082FFF8)).To(Equal(int32(-8)))
	})

	It("should recognise mtctr in any source register", func() {
		Expect(ppc.IsMtctr(0x7C0903A6)).To(BeTrue()) // mtctr r0
		Expect(ppc.IsMtctr(0x7D8903A6)).To(BeTrue()) // mtctr r12
		Expect(ppc.IsMtctr(0x60000000)).To(BeFalse())
	})
})

var _ = Describe("Instruction", func() {
	It("should detect record forms from the mnemonic", func() {
		add := ppc.Instruction{Name: "add."}
		Expect(add.IsRecordForm()).To(BeTrue())
		plain := ppc.Instruction{Name: "add"}
		Expect(plain.IsRecordForm()).To(BeFalse())
	})
})
