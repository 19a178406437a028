package kernel

// XAPC is the guest-memory asynchronous procedure call node. The layout is
// the KAPC block games link through; the embedded LIST_ENTRY sits at +8.
//
//	+0x00 type / processor mode / enqueued flag
//	+0x04 thread_ptr
//	+0x08 flink
//	+0x0C blink
//	+0x10 kernel_routine
//	+0x14 rundown_routine
//	+0x18 normal_routine
//	+0x1C normal_context
//	+0x20 arg1
//	+0x24 arg2
const (
	APCSize = 0x28

	// APCListEntryOffset is where the LIST_ENTRY sits inside the APC.
	APCListEntryOffset = 8

	apcEnqueuedOffset       = 0x03
	apcThreadPtrOffset      = 0x04
	apcKernelRoutineOffset  = 0x10
	apcRundownRoutineOffset = 0x14
	apcNormalRoutineOffset  = 0x18
	apcNormalContextOffset  = 0x1C
	apcArg1Offset           = 0x20
	apcArg2Offset           = 0x24
)

// Dummy routine sentinels. An APC whose kernel routine is the dummy is
// kernel-owned ("sticky") and freed after delivery.
const (
	APCDummyKernelRoutine  = 0xF00DFF00
	APCDummyRundownRoutine = 0xF00DFF01
)

// apcView reads and writes one APC node in guest memory.
type apcView struct {
	mem  *Memory
	addr uint32
}

func (a apcView) initialize() {
	a.mem.Fill(a.addr, APCSize, 0)
}

func (a apcView) setEnqueued(v uint8)   { a.mem.StoreU8(a.addr+apcEnqueuedOffset, v) }
func (a apcView) enqueued() uint8       { return a.mem.LoadU8(a.addr + apcEnqueuedOffset) }
func (a apcView) setThreadPtr(v uint32) { a.mem.StoreU32(a.addr+apcThreadPtrOffset, v) }

func (a apcView) kernelRoutine() uint32  { return a.mem.LoadU32(a.addr + apcKernelRoutineOffset) }
func (a apcView) rundownRoutine() uint32 { return a.mem.LoadU32(a.addr + apcRundownRoutineOffset) }
func (a apcView) normalRoutine() uint32  { return a.mem.LoadU32(a.addr + apcNormalRoutineOffset) }
func (a apcView) normalContext() uint32  { return a.mem.LoadU32(a.addr + apcNormalContextOffset) }
func (a apcView) arg1() uint32           { return a.mem.LoadU32(a.addr + apcArg1Offset) }
func (a apcView) arg2() uint32           { return a.mem.LoadU32(a.addr + apcArg2Offset) }

func (a apcView) setKernelRoutine(v uint32)  { a.mem.StoreU32(a.addr+apcKernelRoutineOffset, v) }
func (a apcView) setRundownRoutine(v uint32) { a.mem.StoreU32(a.addr+apcRundownRoutineOffset, v) }
func (a apcView) setNormalRoutine(v uint32)  { a.mem.StoreU32(a.addr+apcNormalRoutineOffset, v) }
func (a apcView) setNormalContext(v uint32)  { a.mem.StoreU32(a.addr+apcNormalContextOffset, v) }
func (a apcView) setArg1(v uint32)           { a.mem.StoreU32(a.addr+apcArg1Offset, v) }
func (a apcView) setArg2(v uint32)           { a.mem.StoreU32(a.addr+apcArg2Offset, v) }
