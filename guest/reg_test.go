package guest_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rexlab/rexglue/guest"
)

var _ = Describe("Reg", func() {
	It("should sign-extend signed 64-bit writes across all views", func() {
		var r guest.Reg
		r.SetS64(-1)
		Expect(r.U64()).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		Expect(r.S32()).To(Equal(int32(-1)))
		Expect(r.U32()).To(Equal(uint32(0xFFFFFFFF)))
		Expect(r.U8()).To(Equal(uint8(0xFF)))
	})

	It("should zero-extend unsigned 32-bit writes", func() {
		var r guest.Reg
		r.SetU64(0xDEADBEEFCAFEF00D)
		r.SetU32(0x1234)
		Expect(r.U64()).To(Equal(uint64(0x1234)))
	})

	It("should sign-extend signed 32-bit writes", func() {
		var r guest.Reg
		r.SetS32(-2)
		Expect(r.U64()).To(Equal(uint64(0xFFFFFFFFFFFFFFFE)))
		Expect(r.S64()).To(Equal(int64(-2)))
	})

	It("should expose the low sub-lanes", func() {
		var r guest.Reg
		r.SetU64(0xAABBCCDD11223344)
		Expect(r.U32()).To(Equal(uint32(0x11223344)))
		Expect(r.U16()).To(Equal(uint16(0x3344)))
		Expect(r.U8()).To(Equal(uint8(0x44)))
		Expect(r.S8()).To(Equal(int8(0x44)))
	})
})

var _ = Describe("FPReg", func() {
	It("should round-trip doubles through the bit view", func() {
		var f guest.FPReg
		f.SetF64(1.5)
		Expect(f.U64()).To(Equal(uint64(0x3FF8000000000000)))
		f.SetU64(0x4000000000000000)
		Expect(f.F64()).To(Equal(2.0))
	})
})

var _ = Describe("VReg", func() {
	It("should overlay lanes on the same backing bytes", func() {
		var v guest.VReg
		v.SetU32(0, 0xAABBCCDD)
		Expect(v.U8(0)).To(Equal(uint8(0xDD)))
		Expect(v.U8(3)).To(Equal(uint8(0xAA)))
		Expect(v.U16(0)).To(Equal(uint16(0xCCDD)))
	})

	It("should round-trip float lanes", func() {
		var v guest.VReg
		v.SetF32(2, 3.25)
		Expect(v.F32(2)).To(Equal(float32(3.25)))
	})
})

var _ = Describe("CRField", func() {
	It("should set lt/gt/eq from a signed comparison and mirror xer.so", func() {
		var cr guest.CRField
		xer := guest.XER{SO: true}

		cr.CompareS32(7, 5, &xer)
		Expect(cr.LT).To(BeFalse())
		Expect(cr.GT).To(BeTrue())
		Expect(cr.EQ).To(BeFalse())
		Expect(cr.SO).To(BeTrue())

		cr.CompareS32(5, 5, &guest.XER{})
		Expect(cr.EQ).To(BeTrue())
		Expect(cr.SO).To(BeFalse())
	})

	It("should compare unsigned values as unsigned", func() {
		var cr guest.CRField
		var xer guest.XER
		cr.CompareU32(0xFFFFFFFF, 1, &xer)
		Expect(cr.GT).To(BeTrue())
		cr.CompareS32(-1, 1, &xer)
		Expect(cr.LT).To(BeTrue())
	})

	It("should pack and unpack the 4-bit raw form", func() {
		var cr guest.CRField
		cr.SetRaw(0xA)
		Expect(cr.LT).To(BeTrue())
		Expect(cr.GT).To(BeFalse())
		Expect(cr.EQ).To(BeTrue())
		Expect(cr.SO).To(BeFalse())
		Expect(cr.Raw()).To(Equal(uint32(0xA)))
	})

	It("should index bits as lt/gt/eq/so", func() {
		var cr guest.CRField
		cr.SetBit(0, true)
		cr.SetBit(3, true)
		Expect(cr.LT).To(BeTrue())
		Expect(cr.SO).To(BeTrue())
		Expect(cr.Bit(1)).To(BeFalse())
	})
})
