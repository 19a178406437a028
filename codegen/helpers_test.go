package codegen_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rexlab/rexglue/codegen"
)

// referenceMask is the PPC rotate-mask specification: bits [a..b] set when
// a <= b (bit 0 is the most significant), otherwise the complement of bits
// (b..a).
func referenceMask(a, b uint32) uint64 {
	var mask uint64
	set := func(bit uint32) {
		mask |= uint64(1) << (63 - bit)
	}
	if a <= b {
		for i := a; i <= b; i++ {
			set(i)
		}
		return mask
	}
	for i := uint32(0); i < 64; i++ {
		if i <= b || i >= a {
			set(i)
		}
	}
	return mask
}

var _ = Describe("ComputeMask", func() {
	It("should match the PPC specification for every 6-bit pair", func() {
		for a := uint32(0); a < 64; a++ {
			for b := uint32(0); b < 64; b++ {
				Expect(codegen.ComputeMask(a, b)).To(Equal(referenceMask(a, b)),
					"mask(%d, %d)", a, b)
			}
		}
	})

	It("should produce the rlwinm word mask", func() {
		// rlwinm mb=16 me=23 maps to compute_mask(48, 55).
		Expect(codegen.ComputeMask(16+32, 23+32)).To(Equal(uint64(0xFF00)))
	})

	It("should wrap when mstart exceeds mstop", func() {
		Expect(codegen.ComputeMask(63, 0)).To(Equal(uint64(0x8000000000000001)))
	})
})

var _ = Describe("CRBitName", func() {
	It("should map bit indices to lt/gt/eq/so cyclically", func() {
		names := []string{"lt", "gt", "eq", "so"}
		for i := uint32(0); i < 32; i++ {
			Expect(codegen.CRBitName(i)).To(Equal(names[i&3]))
		}
	})
})

var _ = Describe("IsMMIOUpperBits", func() {
	It("should accept the GPU and XMA ranges only", func() {
		Expect(codegen.IsMMIOUpperBits(0x7FC8)).To(BeTrue())
		Expect(codegen.IsMMIOUpperBits(0x7FCF)).To(BeTrue())
		Expect(codegen.IsMMIOUpperBits(0x7FEA)).To(BeTrue())
		Expect(codegen.IsMMIOUpperBits(0x7FC7)).To(BeFalse())
		Expect(codegen.IsMMIOUpperBits(0x7FD0)).To(BeFalse())
		Expect(codegen.IsMMIOUpperBits(0x8000)).To(BeFalse())
	})
})
