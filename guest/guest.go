// Package guest provides the guest register file and the host-function
// shape shared by the recompiled code ABI and the kernel thread core.
//
// The register file is a fixed-shape aggregate with no heap allocation.
// Every recompiled function receives it by pointer together with the guest
// virtual membase:
//
//	func(ctx *guest.Context, base []byte)
//
// GPRs are 64-bit; 32-bit operations update the low half and sign- or
// zero-extend per the instruction. PPC is big-endian: loads and stores swap
// bytes at the memory boundary, never in-register.
package guest
