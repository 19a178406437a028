package guest

// Context is the guest register file. One Context belongs to exactly one
// guest thread; it is passed by pointer to every recompiled function and is
// never shared between threads.
type Context struct {
	R  [32]Reg
	F  [32]FPReg
	V  [128]VReg
	CR [8]CRField

	XER   XER
	CTR   Reg
	LR    uint64
	FPSCR FPSCR

	// Reserved holds the pre-swap value captured by lwarx/ldarx for the
	// following stwcx./stdcx. compare-and-swap. Reservation is tracked
	// per-thread, a documented deviation from real PPC.
	Reserved Reg

	// VSCRSat mirrors the VSCR saturation sticky bit.
	VSCRSat uint8

	// KernelState points back at the owning kernel, used by kernel import
	// calls from recompiled code. Opaque to this package.
	KernelState any
}

// Func is the ABI of a recompiled or import function: the register file by
// reference plus the guest virtual membase.
type Func func(ctx *Context, base []byte)

// FuncMapping associates a guest address with its host function. A zero
// guest address terminates a mapping table.
type FuncMapping struct {
	Guest uint32
	Host  Func
}

// Zero clears the whole register file.
func (c *Context) Zero() {
	*c = Context{KernelState: c.KernelState}
}
