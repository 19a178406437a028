package kernel_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlab/rexglue/guest"
	"github.com/rexlab/rexglue/kernel"
	"github.com/rexlab/rexglue/stream"
)

func newTestKernel(t *testing.T) *kernel.KernelState {
	t.Helper()
	mem := newTestMemory(t)
	proc := kernel.NewProcessor()
	return kernel.NewKernelState(mem, proc, kernel.Options{
		IgnoreThreadPriorities: true,
		IgnoreThreadAffinities: true,
	})
}

func newSuspendedThread(t *testing.T, ks *kernel.KernelState, entry uint32) *kernel.XThread {
	t.Helper()
	th := kernel.NewXThread(ks, kernel.CreationParams{
		StackSize:     16 * 1024,
		StartAddress:  entry,
		CreationFlags: kernel.XCreateSuspended,
	}, kernel.TLSInfo{}, true, false)
	require.Equal(t, kernel.XStatusSuccess, th.Create())
	return th
}

func TestThreadCreateAllocatesStackAndBlocks(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	// stack_limit <= stack_base with guard pages either side.
	assert.Less(t, th.StackLimit(), th.StackBase())
	mem := ks.Memory()
	assert.Equal(t, uint8(kernel.ProtectNoAccess), mem.Protection(th.StackLimit()-kernel.PageSize))
	assert.Equal(t, uint8(kernel.ProtectNoAccess), mem.Protection(th.StackBase()))

	// The PCR points back at TLS, itself and the KTHREAD.
	pcr := th.PCRAddress()
	require.NotZero(t, pcr)
	assert.Equal(t, pcr, mem.LoadU32(pcr+0x004))
	assert.Equal(t, th.GuestObject(), mem.LoadU32(pcr+0x008))

	// Created suspended mirrors into the KTHREAD suspend count.
	assert.Equal(t, uint32(1), th.SuspendCount())

	assert.Same(t, th, ks.GetThreadByID(th.ThreadID()))
}

func TestThreadExecuteSeedsRegistersAndExitCode(t *testing.T) {
	ks := newTestKernel(t)

	var (
		mu      sync.Mutex
		gotR1   uint64
		gotR13  uint64
		gotR3   uint64
		entered bool
	)
	entry := uint32(0x82000010)
	ks.Processor().SetFunction(entry, func(ctx *guest.Context, base []byte) {
		mu.Lock()
		defer mu.Unlock()
		entered = true
		gotR1 = ctx.R[1].U64()
		gotR13 = ctx.R[13].U64()
		gotR3 = ctx.R[3].U64()
		ctx.R[3].SetU64(42) // exit code
	})

	th := kernel.NewXThread(ks, kernel.CreationParams{
		StackSize:    16 * 1024,
		StartAddress: entry,
		StartContext: 0x1234,
	}, kernel.TLSInfo{}, true, false)
	require.Equal(t, kernel.XStatusSuccess, th.Create())
	th.Join()

	mu.Lock()
	defer mu.Unlock()
	require.True(t, entered)
	assert.Equal(t, uint64(th.StackBase()), gotR1)
	assert.Equal(t, uint64(th.PCRAddress()), gotR13)
	assert.Equal(t, uint64(0x1234), gotR3)

	// Exit published signal state and the r3 exit code.
	mem := ks.Memory()
	assert.Equal(t, uint32(1), mem.LoadU32(th.GuestObject()+0x004))
	assert.Equal(t, uint32(42), mem.LoadU32(th.GuestObject()+0x170))
	assert.False(t, th.IsRunning())
}

func TestXapiThunkReceivesEntryAndContext(t *testing.T) {
	ks := newTestKernel(t)

	thunk := uint32(0x82000020)
	var r3, r4 uint64
	done := make(chan struct{})
	ks.Processor().SetFunction(thunk, func(ctx *guest.Context, base []byte) {
		r3 = ctx.R[3].U64()
		r4 = ctx.R[4].U64()
		close(done)
	})

	th := kernel.NewXThread(ks, kernel.CreationParams{
		StackSize:         16 * 1024,
		XapiThreadStartup: thunk,
		StartAddress:      0x82001000,
		StartContext:      0xCAFE,
	}, kernel.TLSInfo{}, true, false)
	require.Equal(t, kernel.XStatusSuccess, th.Create())
	th.Join()

	<-done
	assert.Equal(t, uint64(0x82001000), r3)
	assert.Equal(t, uint64(0xCAFE), r4)
}

func TestTLSSlotReadWriteWithBounds(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	require.True(t, th.SetTLSValue(3, 0xABCD))
	v, ok := th.GetTLSValue(3)
	require.True(t, ok)
	assert.Equal(t, uint32(0xABCD), v)

	assert.False(t, th.SetTLSValue(1<<20, 1))
	_, ok = th.GetTLSValue(1 << 21)
	assert.False(t, ok)
}

func TestLastError(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	assert.Zero(t, th.LastError())
	th.SetLastError(0x57)
	assert.Equal(t, uint32(0x57), th.LastError())
}

func TestAPCDeliveryFIFO(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	var order []uint32
	routine := func(tag uint32) uint32 {
		addr := 0x82100000 + tag*0x10
		ks.Processor().SetFunction(addr, func(ctx *guest.Context, base []byte) {
			order = append(order, tag)
		})
		return addr
	}

	th.EnqueueApc(routine(1), 0, 0, 0)
	th.EnqueueApc(routine(2), 0, 0, 0)
	th.EnqueueApc(routine(3), 0, 0, 0)
	th.DeliverAPCs()

	assert.Equal(t, []uint32{1, 2, 3}, order)
}

func TestAPCDeliveryGatedByDisableCount(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	delivered := false
	addr := uint32(0x82100000)
	ks.Processor().SetFunction(addr, func(ctx *guest.Context, base []byte) {
		delivered = true
	})

	th.EnterCriticalRegion()
	th.EnqueueApc(addr, 0, 0, 0)
	th.DeliverAPCs()
	assert.False(t, delivered)

	// Leaving the critical region drains the queue.
	th.LeaveCriticalRegion()
	assert.True(t, delivered)
}

func TestAPCNormalRoutineMayReenqueue(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	var order []string
	second := uint32(0x82100020)
	ks.Processor().SetFunction(second, func(ctx *guest.Context, base []byte) {
		order = append(order, "second")
	})
	first := uint32(0x82100010)
	ks.Processor().SetFunction(first, func(ctx *guest.Context, base []byte) {
		order = append(order, "first")
		th.EnqueueApc(second, 0, 0, 0)
	})

	th.EnqueueApc(first, 0, 0, 0)
	th.DeliverAPCs()

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestAPCNormalRoutineReceivesArguments(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	var r3, r4, r5 uint64
	addr := uint32(0x82100030)
	ks.Processor().SetFunction(addr, func(ctx *guest.Context, base []byte) {
		r3 = ctx.R[3].U64()
		r4 = ctx.R[4].U64()
		r5 = ctx.R[5].U64()
	})

	th.EnqueueApc(addr, 0x11, 0x22, 0x33)
	th.DeliverAPCs()

	assert.Equal(t, uint64(0x11), r3)
	assert.Equal(t, uint64(0x22), r4)
	assert.Equal(t, uint64(0x33), r5)
}

func TestRundownSkipsNormalRoutines(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	delivered := false
	addr := uint32(0x82100040)
	ks.Processor().SetFunction(addr, func(ctx *guest.Context, base []byte) {
		delivered = true
	})

	th.EnqueueApc(addr, 0, 0, 0)
	th.RundownAPCs()

	assert.False(t, delivered)
	// The queue is empty afterwards.
	th.DeliverAPCs()
	assert.False(t, delivered)
}

func TestSuspendResumeCounts(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	require.Equal(t, uint32(1), th.SuspendCount())

	prev, status := th.Suspend()
	assert.Equal(t, kernel.XStatusSuccess, status)
	assert.Equal(t, uint32(1), prev)
	assert.Equal(t, uint32(2), th.SuspendCount())

	_, status = th.Resume()
	assert.Equal(t, kernel.XStatusSuccess, status)
	assert.Equal(t, uint32(1), th.SuspendCount())
}

func TestPriorityBandsStored(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	th.SetPriority(0x30)
	assert.Equal(t, int32(0x30), th.QueryPriority())
	th.SetPriority(-0x30)
	assert.Equal(t, int32(-0x30), th.QueryPriority())
}

func TestActiveCpuFromAffinityMask(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	th.SetAffinity(0x08) // bit 3 -> cpu 3 via leading-zero count
	assert.Equal(t, uint8(3), th.ActiveCpu())

	th.SetActiveCpu(9) // clamped to the guest CPU range
	assert.LessOrEqual(t, th.ActiveCpu(), uint8(5))
}

func TestDelayRelativeSleeps(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)
	th.Resume()

	start := time.Now()
	// Relative 20 ms in 100-ns ticks.
	status := th.Delay(0, 0, -20*10_000)
	assert.Equal(t, kernel.XStatusSuccess, status)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestAlertableDelayReportsAPC(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)
	th.Resume()

	addr := uint32(0x82100050)
	ks.Processor().SetFunction(addr, func(ctx *guest.Context, base []byte) {})

	go func() {
		time.Sleep(10 * time.Millisecond)
		th.EnqueueApc(addr, 0, 0, 0)
	}()

	status := th.Delay(0, 1, -500*10_000)
	assert.Equal(t, kernel.XStatusUserAPC, status)
}

func TestTerminatePublishesExitStatus(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	th.Terminate(7)
	mem := ks.Memory()
	assert.Equal(t, uint32(1), mem.LoadU32(th.GuestObject()+0x004))
	assert.Equal(t, uint32(7), mem.LoadU32(th.GuestObject()+0x170))
}

func TestSaveRefusesRunningThread(t *testing.T) {
	ks := newTestKernel(t)

	block := make(chan struct{})
	started := make(chan struct{})
	entry := uint32(0x82000060)
	ks.Processor().SetFunction(entry, func(ctx *guest.Context, base []byte) {
		close(started)
		<-block
	})

	th := kernel.NewXThread(ks, kernel.CreationParams{
		StackSize:    16 * 1024,
		StartAddress: entry,
	}, kernel.TLSInfo{}, true, false)
	require.Equal(t, kernel.XStatusSuccess, th.Create())
	<-started

	s := stream.New(nil)
	assert.False(t, th.Save(s))

	close(block)
	th.Join()
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	ks := newTestKernel(t)
	th := newSuspendedThread(t, ks, 0x82000000)

	// Stage some register state while the thread is quiescent.
	th.Context().R[14].SetU64(0x1122334455667788)
	th.Context().F[2].SetF64(2.5)
	th.Context().V[5].SetU32(0, 0xAABBCCDD)
	th.Context().CR[6].SetRaw(0xA)
	th.Context().LR = 0x82000444
	th.Context().XER.CA = true
	th.SetName("worker")

	s := stream.New(nil)
	require.True(t, th.Save(s))

	ks2 := newTestKernel(t)
	restored := kernel.RestoreThread(ks2, s)
	require.NotNil(t, restored)

	assert.Equal(t, th.ThreadID(), restored.ThreadID())
	assert.Equal(t, th.StackBase(), restored.StackBase())
	assert.Equal(t, th.PCRAddress(), restored.PCRAddress())
	assert.Equal(t, uint64(0x1122334455667788), restored.Context().R[14].U64())
	assert.Equal(t, 2.5, restored.Context().F[2].F64())
	assert.Equal(t, uint32(0xAABBCCDD), restored.Context().V[5].U32(0))
	assert.Equal(t, uint32(0xA), restored.Context().CR[6].Raw())
	assert.Equal(t, uint64(0x82000444), restored.Context().LR)
	assert.True(t, restored.Context().XER.CA)
	assert.False(t, restored.IsRunning())
}

func TestHostThreadRunsHostFunction(t *testing.T) {
	ks := newTestKernel(t)

	ran := make(chan int, 1)
	th := kernel.NewXHostThread(ks, 16*1024, 0, func() int {
		ran <- 99
		return 99
	})
	require.Equal(t, kernel.XStatusSuccess, th.Create())
	th.Join()

	assert.Equal(t, 99, <-ran)
	assert.False(t, th.IsGuestThread())
}
