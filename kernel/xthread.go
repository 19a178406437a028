package kernel

import (
	"fmt"
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rexlab/rexglue/chrono"
	"github.com/rexlab/rexglue/fiber"
	"github.com/rexlab/rexglue/guest"
)

// KTHREAD field offsets. The APC list sentinel and the pointer chains are
// at the documented guest offsets; fields games never address directly sit
// in otherwise unused space.
const (
	kthreadSize = 0x1B0

	kthreadHeaderTypeOffset  = 0x000
	kthreadSignalStateOffset = 0x004
	kthreadApcListOffset     = 0x010
	kthreadStackBaseOffset   = 0x05C
	kthreadStackLimitOffset  = 0x060
	kthreadTlsAddressOffset  = 0x068
	kthreadApcDisableOffset  = 0x0A4
	kthreadSuspendOffset     = 0x0A8
	kthreadCurrentCpuOffset  = 0x0AC
	kthreadCreateTimeOffset  = 0x130
	kthreadThreadIDOffset    = 0x14C
	kthreadStartOffset       = 0x150
	kthreadLastErrorOffset   = 0x160
	kthreadFlagsOffset       = 0x16C
	kthreadExitStatusOffset  = 0x170
)

// KPCR field offsets; r13 points at this block.
const (
	kpcrSize = 0x2D8

	kpcrTlsPtrOffset        = 0x000
	kpcrPcrPtrOffset        = 0x004
	kpcrCurrentThreadOffset = 0x008
	kpcrStackBaseOffset     = 0x070
	kpcrStackEndOffset      = 0x074
	kpcrCurrentCpuOffset    = 0x10C
	kpcrDpcActiveOffset     = 0x150
)

const (
	defaultTLSSlotCount = 1024
	minimumStackSize    = 16 * 1024
)

var nextThreadID atomic.Uint32

// CreationParams carries the guest-specified thread parameters.
type CreationParams struct {
	StackSize         uint32
	XapiThreadStartup uint32
	StartAddress      uint32
	StartContext      uint32
	CreationFlags     uint32
}

// TLSInfo describes the executable's static TLS demands.
type TLSInfo struct {
	SlotCount      uint32
	DataSize       uint32
	RawDataAddress uint32
	RawDataSize    uint32
}

// XThread is one guest thread: its stack, TLS, PCR and KTHREAD blocks,
// register file, APC list and host execution vehicle.
type XThread struct {
	XObject

	threadID    uint32
	guestThread bool
	mainThread  bool
	name        string

	params CreationParams
	tls    TLSInfo

	stackAllocBase uint32
	stackAllocSize uint32
	stackBase      uint32
	stackLimit     uint32

	scratchAddress uint32
	scratchSize    uint32

	tlsStaticAddress  uint32
	tlsDynamicAddress uint32
	tlsTotalSize      uint32

	pcrAddress uint32

	ctx     *guest.Context
	apcList *NativeList

	host      *hostThread
	mainFiber *fiber.Fiber

	irql     atomic.Uint32
	priority int32
	running  atomic.Bool

	// One-slot wake signal for alertable delays; sent after the global
	// critical region is released, so it needs no lock.
	alerted chan struct{}

	mu sync.Mutex
}

// currentThreads maps a register file back to its owning thread; Go has no
// thread-local storage, so kernel imports resolve the current thread from
// the context they were handed.
var currentThreads sync.Map // *guest.Context -> *XThread

// CurrentThread resolves the thread executing with the given register
// file, or nil outside guest code.
func CurrentThread(ctx *guest.Context) *XThread {
	if v, ok := currentThreads.Load(ctx); ok {
		return v.(*XThread)
	}
	return nil
}

// NewXThread builds a guest thread object. Create must be called before
// the thread can run.
func NewXThread(ks *KernelState, params CreationParams, tls TLSInfo, guestThread, mainThread bool) *XThread {
	t := &XThread{
		XObject:     newXObject(ks, ObjectTypeThread),
		threadID:    nextThreadID.Add(1),
		guestThread: guestThread,
		mainThread:  mainThread,
		params:      params,
		tls:         tls,
		alerted:     make(chan struct{}, 1),
	}
	if t.params.StackSize < minimumStackSize {
		t.params.StackSize = minimumStackSize
	}
	ks.RegisterThread(t)
	return t
}

// ThreadID returns the kernel thread id.
func (t *XThread) ThreadID() uint32 { return t.threadID }

// IsGuestThread reports whether the thread runs guest code.
func (t *XThread) IsGuestThread() bool { return t.guestThread }

// IsRunning reports whether the thread is between Execute and Exit.
func (t *XThread) IsRunning() bool { return t.running.Load() }

// Context returns the thread's register file.
func (t *XThread) Context() *guest.Context { return t.ctx }

// StackBase returns the high stack address seeded into r1.
func (t *XThread) StackBase() uint32 { return t.stackBase }

// StackLimit returns the low usable stack address.
func (t *XThread) StackLimit() uint32 { return t.stackLimit }

// PCRAddress returns the guest PCR block address seeded into r13.
func (t *XThread) PCRAddress() uint32 { return t.pcrAddress }

// Name returns the display name.
func (t *XThread) Name() string { return t.name }

// SetName sets the display name.
func (t *XThread) SetName(name string) {
	t.name = fmt.Sprintf("%s (%08X)", name, t.Handle())
}

func (t *XThread) kthread() uint32 { return t.GuestObject() }

// LastError returns the guest last-error slot.
func (t *XThread) LastError() uint32 {
	return t.Kernel().Memory().LoadU32(t.kthread() + kthreadLastErrorOffset)
}

// SetLastError writes the guest last-error slot.
func (t *XThread) SetLastError(code uint32) {
	t.Kernel().Memory().StoreU32(t.kthread()+kthreadLastErrorOffset, code)
}

var nextFakeCpu atomic.Uint32

// fakeCpuNumber maps a logical-processor mask to a single CPU index via
// the leading-zero count, rotating through the six guest CPUs when no
// mask is given.
func fakeCpuNumber(procMask uint8) uint8 {
	if procMask == 0 {
		return uint8(nextFakeCpu.Add(1) % 6)
	}
	cpu := uint8(7 - bits.LeadingZeros8(procMask))
	if cpu > 5 {
		cpu = 5
	}
	return cpu
}

// Create allocates all guest-side thread state and starts the host thread
// unless the creation flags say start-suspended.
func (t *XThread) Create() XStatus {
	ks := t.Kernel()
	mem := ks.Memory()

	// Thread kernel object.
	if !t.createGuestObject(kthreadSize) {
		logk.Warn("Unable to allocate thread object")
		return XStatusNoMemory
	}
	ks.ObjectTable().Insert(t, &t.XObject)

	// Stack with guard pages on both sides.
	allocBase, allocSize, err := mem.AllocStack(t.params.StackSize)
	if err != nil {
		return XStatusNoMemory
	}
	t.stackAllocBase = allocBase
	t.stackAllocSize = allocSize
	t.stackLimit = allocBase + PageSize
	t.stackBase = t.stackLimit + (allocSize - 2*PageSize)

	// Scratch block for APC round trips.
	t.scratchSize = 4 * 16
	t.scratchAddress = mem.SystemHeapAlloc(t.scratchSize)

	// TLS: the game's static slot count plus any extended data. Extended
	// data is accessed directly through 0(r13).
	tlsSlots := t.tls.SlotCount
	if tlsSlots == 0 {
		tlsSlots = defaultTLSSlotCount
	}
	tlsExtendedSize := t.tls.DataSize
	t.tlsTotalSize = tlsSlots*4 + tlsExtendedSize
	t.tlsStaticAddress = mem.SystemHeapAlloc(t.tlsTotalSize)
	if t.tlsStaticAddress == 0 {
		logk.Warn("Unable to allocate thread local storage block")
		return XStatusNoMemory
	}
	t.tlsDynamicAddress = t.tlsStaticAddress + tlsExtendedSize
	mem.Fill(t.tlsStaticAddress, t.tlsTotalSize, 0)
	if tlsExtendedSize != 0 && t.tls.RawDataAddress != 0 {
		mem.Copy(t.tlsStaticAddress, t.tls.RawDataAddress, t.tls.RawDataSize)
	}

	// PCR block, exposed at r13.
	t.pcrAddress = mem.SystemHeapAlloc(kpcrSize)
	if t.pcrAddress == 0 {
		logk.Warn("Unable to allocate thread state block")
		return XStatusNoMemory
	}

	t.ctx = &guest.Context{KernelState: ks}

	// The APC list sentinel lives inside the KTHREAD block.
	t.apcList = NewNativeListAt(mem, t.kthread()+kthreadApcListOffset)

	logk.Debug("XThread%08X (%X) Stack: %08X-%08X", t.Handle(), t.threadID,
		t.stackLimit, t.stackBase)

	cpuIndex := fakeCpuNumber(uint8(t.params.CreationFlags >> 24))

	t.initializeGuestObject()

	pcr := t.pcrAddress
	mem.StoreU32(pcr+kpcrTlsPtrOffset, t.tlsStaticAddress)
	mem.StoreU32(pcr+kpcrPcrPtrOffset, t.pcrAddress)
	mem.StoreU32(pcr+kpcrCurrentThreadOffset, t.kthread())
	mem.StoreU32(pcr+kpcrStackBaseOffset, t.stackBase)
	mem.StoreU32(pcr+kpcrStackEndOffset, t.stackLimit)
	mem.StoreU32(pcr+kpcrDpcActiveOffset, 0)

	// The thread owns itself until exit.
	t.RetainHandle()

	suspended := t.params.CreationFlags&XCreateSuspended != 0
	t.host = newHostThread(t.name, suspended, func() {
		currentThreads.Store(t.ctx, t)
		t.running.Store(true)
		t.Execute()
		t.running.Store(false)
		currentThreads.Delete(t.ctx)
		t.ReleaseHandle()
	})

	if t.name == "" {
		t.SetName(fmt.Sprintf("XThread%04X", t.threadID))
	}

	t.SetActiveCpu(cpuIndex)

	t.host.start()
	return XStatusSuccess
}

// initializeGuestObject fills in the KTHREAD block.
func (t *XThread) initializeGuestObject() {
	mem := t.Kernel().Memory()
	kt := t.kthread()

	mem.StoreU8(kt+kthreadHeaderTypeOffset, 6)
	suspend := uint32(0)
	if t.params.CreationFlags&XCreateSuspended != 0 {
		suspend = 1
	}
	mem.StoreU32(kt+kthreadSuspendOffset, suspend)
	mem.StoreU32(kt+kthreadApcDisableOffset, 0)

	mem.StoreU32(kt+0x040, kt+0x018+8)
	mem.StoreU32(kt+0x044, kt+0x018+8)
	mem.StoreU32(kt+0x048, kt)
	mem.StoreU32(kt+0x04C, kt+0x018)

	mem.StoreU16(kt+0x054, 0x102)
	mem.StoreU16(kt+0x056, 1)
	mem.StoreU32(kt+kthreadStackBaseOffset, t.stackBase)
	mem.StoreU32(kt+kthreadStackLimitOffset, t.stackLimit)
	mem.StoreU32(kt+kthreadTlsAddressOffset, t.tlsStaticAddress)
	mem.StoreU8(kt+0x06C, 0)
	mem.StoreU32(kt+0x074, kt+0x074)
	mem.StoreU32(kt+0x078, kt+0x074)
	mem.StoreU32(kt+0x07C, kt+0x07C)
	mem.StoreU32(kt+0x080, kt+0x07C)
	mem.StoreU32(kt+0x084, t.Kernel().ProcessInfoBlockAddress())
	mem.StoreU8(kt+0x08B, 1)
	mem.StoreU32(kt+0x09C, 0xFDFFD7FF)
	mem.StoreU32(kt+0x0D0, t.stackBase)
	mem.StoreU64(kt+kthreadCreateTimeOffset, chrono.QueryGuestSystemTime())
	mem.StoreU32(kt+0x144, kt+0x144)
	mem.StoreU32(kt+0x148, kt+0x144)
	mem.StoreU32(kt+kthreadThreadIDOffset, t.threadID)
	mem.StoreU32(kt+kthreadStartOffset, t.params.StartAddress)
	mem.StoreU32(kt+0x154, kt+0x154)
	mem.StoreU32(kt+0x158, kt+0x154)
	mem.StoreU32(kt+kthreadLastErrorOffset, 0)
	mem.StoreU32(kt+kthreadFlagsOffset, t.params.CreationFlags)
	mem.StoreU32(kt+0x17C, 1)
}

// Execute stages the register file and dispatches into the registered
// host function for the guest entry address.
func (t *XThread) Execute() {
	ks := t.Kernel()
	logk.Debug("Execute thid %d (handle=%08X, '%s')", t.threadID, t.Handle(), t.name)

	ks.OnThreadExecute(t)

	// A mandatory nap: some titles assume thread creation is slow enough
	// to finish initialising shared structures after CreateThread.
	time.Sleep(10 * time.Millisecond)

	// Deliver APCs queued before the thread started.
	t.DeliverAPCs()

	var address uint32
	var args []uint64
	wantExitCode := true

	// A XAPI thunk acts as a trampoline around the raw entry.
	if t.params.XapiThreadStartup != 0 {
		address = t.params.XapiThreadStartup
		args = []uint64{uint64(t.params.StartAddress), uint64(t.params.StartContext)}
		wantExitCode = false
	} else {
		address = t.params.StartAddress
		args = []uint64{uint64(t.params.StartContext)}
	}

	fn := ks.Processor().GetFunction(address)
	if fn == nil {
		logk.Error("XThread.Execute - no function registered at %08X", address)
		return
	}

	ctx := t.ctx
	ctx.R[1].SetU64(uint64(t.stackBase))
	ctx.R[13].SetU64(uint64(t.pcrAddress))
	for i, arg := range args {
		if i > 7 {
			break
		}
		ctx.R[3+i].SetU64(arg)
	}
	ctx.FPSCR.InitHost()

	// Convert to a fiber so kernel waits can switch away mid-function and
	// come back.
	t.mainFiber = fiber.ConvertCurrentThread()

	logk.Debug("XThread.Execute - calling function at %08X", address)
	fn(ctx, ks.Memory().Membase())

	exitCode := 0
	if wantExitCode {
		exitCode = int(int32(ctx.R[3].U32()))
	}
	t.Exit(exitCode)
}

// MainFiber returns the fiber representing the thread's original context.
func (t *XThread) MainFiber() *fiber.Fiber { return t.mainFiber }

// Exit terminates the calling thread: rundown the APC queue, publish the
// exit status, release the self-retain. It does not return control to
// guest code.
func (t *XThread) Exit(exitCode int) XStatus {
	t.RundownAPCs()

	mem := t.Kernel().Memory()
	mem.StoreU32(t.kthread()+kthreadSignalStateOffset, 1)
	mem.StoreU32(t.kthread()+kthreadExitStatusOffset, uint32(exitCode))

	t.Kernel().OnThreadExit(t)

	t.running.Store(false)
	currentThreads.Delete(t.ctx)
	t.ReleaseHandle()
	runtime.Goexit()
	return XStatusSuccess
}

// Terminate ends the thread, possibly from another thread. APC rundown is
// bypassed when initiated externally.
func (t *XThread) Terminate(exitCode int) XStatus {
	mem := t.Kernel().Memory()
	mem.StoreU32(t.kthread()+kthreadSignalStateOffset, 1)
	mem.StoreU32(t.kthread()+kthreadExitStatusOffset, uint32(exitCode))

	t.running.Store(false)
	if t.host != nil {
		t.host.terminate()
	}
	t.ReleaseHandle()
	return XStatusSuccess
}

// EnterCriticalRegion blocks APC delivery for the thread.
func (t *XThread) EnterCriticalRegion() {
	mem := t.Kernel().Memory()
	mem.StoreU32(t.kthread()+kthreadApcDisableOffset,
		mem.LoadU32(t.kthread()+kthreadApcDisableOffset)-1)
}

// LeaveCriticalRegion re-enables APC delivery and drains the queue when
// the disable count returns to zero.
func (t *XThread) LeaveCriticalRegion() {
	mem := t.Kernel().Memory()
	count := mem.LoadU32(t.kthread()+kthreadApcDisableOffset) + 1
	mem.StoreU32(t.kthread()+kthreadApcDisableOffset, count)
	if count == 0 {
		t.DeliverAPCs()
	}
}

// RaiseIrql swaps in a new IRQL and returns the previous one.
func (t *XThread) RaiseIrql(newIrql uint32) uint32 {
	return t.irql.Swap(newIrql)
}

// LowerIrql sets the IRQL.
func (t *XThread) LowerIrql(newIrql uint32) {
	t.irql.Store(newIrql)
}

func (t *XThread) apcDisableCount() uint32 {
	return t.Kernel().Memory().LoadU32(t.kthread() + kthreadApcDisableOffset)
}

// EnqueueApc queues a kernel-owned APC for FIFO delivery on this thread.
func (t *XThread) EnqueueApc(normalRoutine, normalContext, arg1, arg2 uint32) {
	ks := t.Kernel()
	ks.LockGlobal()

	apcPtr := ks.Memory().SystemHeapAlloc(APCSize)
	apc := apcView{mem: ks.Memory(), addr: apcPtr}
	apc.initialize()
	apc.setThreadPtr(t.kthread())
	apc.setKernelRoutine(APCDummyKernelRoutine)
	apc.setRundownRoutine(APCDummyRundownRoutine)
	apc.setNormalRoutine(normalRoutine)
	apc.setNormalContext(normalContext)
	apc.setArg1(arg1)
	apc.setArg2(arg2)
	apc.setEnqueued(1)

	t.apcList.Insert(apcPtr + APCListEntryOffset)

	hasPending := t.apcList.HasPending()
	ks.UnlockGlobal()

	if hasPending {
		t.alert()
	}
}

// alert wakes an alertable sleep.
func (t *XThread) alert() {
	select {
	case t.alerted <- struct{}{}:
	default:
	}
}

// DeliverAPCs drains the pending APC queue in FIFO order while the
// disable count is zero. The critical region is dropped around the normal
// routine so it may enqueue further APCs.
func (t *XThread) DeliverAPCs() {
	ks := t.Kernel()
	mem := ks.Memory()

	ks.LockGlobal()
	for t.apcList.HasPending() && t.apcDisableCount() == 0 {
		apcPtr := t.apcList.Shift() - APCListEntryOffset
		apc := apcView{mem: mem, addr: apcPtr}
		needsFreeing := apc.kernelRoutine() == APCDummyKernelRoutine

		logk.Debug("Delivering APC to %08X", apc.normalRoutine())

		// Mark dequeued so the routine can re-enqueue it.
		apc.setEnqueued(0)

		// The kernel routine may rewrite all four parameters, so they
		// round-trip through the thread scratch block as guest pointers.
		scratch := t.scratchAddress
		mem.StoreU32(scratch+0, apc.normalRoutine())
		mem.StoreU32(scratch+4, apc.normalContext())
		mem.StoreU32(scratch+8, apc.arg1())
		mem.StoreU32(scratch+12, apc.arg2())
		if kr := apc.kernelRoutine(); kr != APCDummyKernelRoutine {
			if fn := ks.Processor().GetFunction(kr); fn != nil {
				ctx := t.ctx
				ctx.R[3].SetU64(uint64(apcPtr))
				ctx.R[4].SetU64(uint64(scratch + 0))
				ctx.R[5].SetU64(uint64(scratch + 4))
				ctx.R[6].SetU64(uint64(scratch + 8))
				ctx.R[7].SetU64(uint64(scratch + 12))
				fn(ctx, mem.Membase())
			} else {
				logk.Warn("DeliverAPCs: kernel_routine %08X not found", kr)
			}
		}
		normalRoutine := mem.LoadU32(scratch + 0)
		normalContext := mem.LoadU32(scratch + 4)
		arg1 := mem.LoadU32(scratch + 8)
		arg2 := mem.LoadU32(scratch + 12)

		// The normal routine runs outside the critical region so it can
		// re-enter the APC queue; it may also have been killed by the
		// kernel routine.
		if normalRoutine != 0 {
			ks.UnlockGlobal()
			if fn := ks.Processor().GetFunction(normalRoutine); fn != nil {
				ctx := t.ctx
				ctx.R[3].SetU64(uint64(normalContext))
				ctx.R[4].SetU64(uint64(arg1))
				ctx.R[5].SetU64(uint64(arg2))
				fn(ctx, mem.Membase())
			} else {
				logk.Warn("DeliverAPCs: normal_routine %08X not found", normalRoutine)
			}
			ks.LockGlobal()
		}

		logk.Debug("Completed delivery of APC to %08X (%08X, %08X, %08X)",
			normalRoutine, normalContext, arg1, arg2)

		if needsFreeing {
			mem.SystemHeapFree(apcPtr)
		}
	}
	ks.UnlockGlobal()
}

// RundownAPCs drains the queue at thread exit, invoking rundown routines
// instead of delivery.
func (t *XThread) RundownAPCs() {
	ks := t.Kernel()
	mem := ks.Memory()

	ks.LockGlobal()
	for t.apcList.HasPending() {
		apcPtr := t.apcList.Shift() - APCListEntryOffset
		apc := apcView{mem: mem, addr: apcPtr}
		needsFreeing := apc.kernelRoutine() == APCDummyKernelRoutine

		apc.setEnqueued(0)

		if rr := apc.rundownRoutine(); rr != 0 && rr != APCDummyRundownRoutine {
			if fn := ks.Processor().GetFunction(rr); fn != nil {
				ctx := t.ctx
				ctx.R[3].SetU64(uint64(apcPtr))
				fn(ctx, mem.Membase())
			} else {
				logk.Warn("RundownAPCs: rundown_routine %08X not found", rr)
			}
		}

		if needsFreeing {
			mem.SystemHeapFree(apcPtr)
		}
	}
	ks.UnlockGlobal()
}

// QueryPriority returns the stored guest priority increment.
func (t *XThread) QueryPriority() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.priority
}

// SetPriority maps the guest increment onto one of five host bands.
func (t *XThread) SetPriority(increment int32) {
	t.mu.Lock()
	t.priority = increment
	t.mu.Unlock()

	var target ThreadPriority
	switch {
	case increment > 0x22:
		target = ThreadPriorityHighest
	case increment > 0x11:
		target = ThreadPriorityAboveNormal
	case increment < -0x22:
		target = ThreadPriorityLowest
	case increment < -0x11:
		target = ThreadPriorityBelowNormal
	default:
		target = ThreadPriorityNormal
	}
	if !t.Kernel().opts.IgnoreThreadPriorities {
		applyHostPriority(target)
	}
}

// SetAffinity maps the affinity mask to a single CPU index.
func (t *XThread) SetAffinity(affinity uint32) {
	t.SetActiveCpu(fakeCpuNumber(uint8(affinity)))
}

// ActiveCpu returns the CPU index recorded in the PCR.
func (t *XThread) ActiveCpu() uint8 {
	return t.Kernel().Memory().LoadU8(t.pcrAddress + kpcrCurrentCpuOffset)
}

// SetActiveCpu updates the PCR and KTHREAD CPU fields and applies the
// affinity to the host when enough logical processors exist.
func (t *XThread) SetActiveCpu(cpuIndex uint8) {
	if cpuIndex > 5 {
		cpuIndex = 5
	}
	mem := t.Kernel().Memory()
	mem.StoreU8(t.pcrAddress+kpcrCurrentCpuOffset, cpuIndex)
	if t.guestThread {
		mem.StoreU8(t.kthread()+kthreadCurrentCpuOffset, cpuIndex)
	}

	if hostLogicalProcessorCount() >= 6 {
		if !t.Kernel().opts.IgnoreThreadAffinities {
			applyHostAffinity(cpuIndex)
		}
	} else {
		logk.Warn("Too few processor cores - scheduling will be wonky")
	}
}

// GetTLSValue reads a 32-bit dynamic TLS slot.
func (t *XThread) GetTLSValue(slot uint32) (uint32, bool) {
	if slot*4 >= t.tlsTotalSize {
		return 0, false
	}
	return t.Kernel().Memory().LoadU32(t.tlsDynamicAddress + slot*4), true
}

// SetTLSValue writes a 32-bit dynamic TLS slot.
func (t *XThread) SetTLSValue(slot uint32, value uint32) bool {
	if slot*4 >= t.tlsTotalSize {
		return false
	}
	t.Kernel().Memory().StoreU32(t.tlsDynamicAddress+slot*4, value)
	return true
}

// SuspendCount returns the KTHREAD suspend count.
func (t *XThread) SuspendCount() uint32 {
	return t.Kernel().Memory().LoadU32(t.kthread() + kthreadSuspendOffset)
}

// Resume decrements the suspend count and releases the host gate.
func (t *XThread) Resume() (uint32, XStatus) {
	mem := t.Kernel().Memory()
	count := mem.LoadU32(t.kthread()+kthreadSuspendOffset) - 1
	mem.StoreU32(t.kthread()+kthreadSuspendOffset, count)
	prev := t.host.resume()
	return uint32(prev), XStatusSuccess
}

// Suspend increments the suspend count. Self-suspension releases the
// global critical region first.
func (t *XThread) Suspend() (uint32, XStatus) {
	ks := t.Kernel()
	ks.LockGlobal()

	mem := ks.Memory()
	count := mem.LoadU32(t.kthread()+kthreadSuspendOffset) + 1
	mem.StoreU32(t.kthread()+kthreadSuspendOffset, count)

	self := CurrentThread(t.ctx) == t && t.IsRunning()
	prev := t.host.suspend()
	ks.UnlockGlobal()

	if self {
		t.host.checkpoint()
	}
	return uint32(prev), XStatusSuccess
}

// Delay sleeps for a relative (negative, 100-ns ticks) or absolute
// interval, scaled by the guest clock. Alertable sleeps report APC
// interruption with XStatusUserAPC.
func (t *XThread) Delay(processorMode, alertable uint32, interval int64) XStatus {
	var timeoutMs uint32
	if interval > 0 {
		// Absolute time on the guest clock.
		due := chrono.GuestTime(interval).ToHost()
		now := chrono.HostNow()
		if due > now {
			timeoutMs = uint32((due - now) / 10_000)
		}
	} else if interval < 0 {
		timeoutMs = chrono.ScaleGuestDurationMillis(uint32(-interval / 10_000))
	}

	t.host.checkpoint()

	if alertable != 0 {
		select {
		case <-t.alerted:
			t.DeliverAPCs()
			return XStatusUserAPC
		case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
			return XStatusSuccess
		}
	}
	time.Sleep(time.Duration(timeoutMs) * time.Millisecond)
	return XStatusSuccess
}

// Join blocks until the host thread finished. Test hook.
func (t *XThread) Join() {
	if t.host != nil {
		t.host.wait()
	}
}
