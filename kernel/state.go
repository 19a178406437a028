package kernel

import (
	"sync"

	"github.com/rexlab/rexglue/fiber"
	"github.com/rexlab/rexglue/log"
	"github.com/rexlab/rexglue/stream"
)

var logk = log.New("kernel")

// KernelSaveSignature tags thread snapshots in the save stream.
var KernelSaveSignature = stream.MakeFourCC('K', 'R', 'N', 'L')

// Options toggle kernel-wide behaviour.
type Options struct {
	// IgnoreThreadPriorities drops game-specified thread priorities.
	IgnoreThreadPriorities bool

	// IgnoreThreadAffinities drops game-specified thread affinities.
	IgnoreThreadAffinities bool
}

// KernelState owns the process-wide kernel structures: the object table,
// the thread map, the fiber map, notify listeners and the dispatch queue.
// The thread map, fiber map and listeners share one mutex, the dispatch
// queue has its own and the object table locks itself; none of them takes
// the global critical region.
type KernelState struct {
	memory    *Memory
	processor *Processor
	opts      Options

	// globalCritical is the global critical region. The thread APC lists
	// share it.
	globalCritical sync.Mutex

	objectTable *ObjectTable

	mu            sync.Mutex
	threadsByID   map[uint32]*XThread
	fiberMap      map[uint32]*fiber.Fiber
	notifyTargets []func(id, data uint32)

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	processInfoBlockAddress uint32
}

// NewKernelState creates a kernel over the given memory and processor.
func NewKernelState(mem *Memory, proc *Processor, opts Options) *KernelState {
	ks := &KernelState{
		memory:      mem,
		processor:   proc,
		opts:        opts,
		objectTable: NewObjectTable(),
		threadsByID: make(map[uint32]*XThread),
		fiberMap:    make(map[uint32]*fiber.Fiber),
	}
	ks.processInfoBlockAddress = mem.SystemHeapAlloc(0x60)
	return ks
}

// Memory returns the guest memory view.
func (ks *KernelState) Memory() *Memory { return ks.memory }

// Processor returns the recompiled-function table.
func (ks *KernelState) Processor() *Processor { return ks.processor }

// ObjectTable returns the handle table. The table locks itself; callers
// do not hold the global critical region for it.
func (ks *KernelState) ObjectTable() *ObjectTable { return ks.objectTable }

// ProcessInfoBlockAddress returns the guest process info block.
func (ks *KernelState) ProcessInfoBlockAddress() uint32 {
	return ks.processInfoBlockAddress
}

// LockGlobal enters the global critical region.
func (ks *KernelState) LockGlobal() { ks.globalCritical.Lock() }

// UnlockGlobal leaves the global critical region.
func (ks *KernelState) UnlockGlobal() { ks.globalCritical.Unlock() }

// RegisterThread adds a thread to the id map.
func (ks *KernelState) RegisterThread(t *XThread) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.threadsByID[t.ThreadID()] = t
}

// UnregisterThread removes a thread from the id map.
func (ks *KernelState) UnregisterThread(t *XThread) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	delete(ks.threadsByID, t.ThreadID())
}

// GetThreadByID resolves a thread id, or nil.
func (ks *KernelState) GetThreadByID(id uint32) *XThread {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.threadsByID[id]
}

// OnThreadExecute is invoked as a guest thread starts running.
func (ks *KernelState) OnThreadExecute(t *XThread) {
	logk.Debug("thread %08X executing", t.Handle())
}

// OnThreadExit is invoked as a guest thread exits.
func (ks *KernelState) OnThreadExit(t *XThread) {
	logk.Debug("thread %08X exited", t.Handle())
}

// LookupFiber resolves a registered guest fiber address.
func (ks *KernelState) LookupFiber(guestAddr uint32) *fiber.Fiber {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	return ks.fiberMap[guestAddr]
}

// RegisterFiber associates a fiber with a guest address.
func (ks *KernelState) RegisterFiber(guestAddr uint32, f *fiber.Fiber) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.fiberMap[guestAddr] = f
}

// UnregisterFiber drops a fiber registration.
func (ks *KernelState) UnregisterFiber(guestAddr uint32) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	delete(ks.fiberMap, guestAddr)
}

// RegisterNotifyListener adds a notification listener.
func (ks *KernelState) RegisterNotifyListener(fn func(id, data uint32)) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.notifyTargets = append(ks.notifyTargets, fn)
}

// BroadcastNotification delivers a notification to all listeners.
func (ks *KernelState) BroadcastNotification(id, data uint32) {
	ks.mu.Lock()
	listeners := append([]func(id, data uint32){}, ks.notifyTargets...)
	ks.mu.Unlock()
	for _, fn := range listeners {
		fn(id, data)
	}
}

// QueueDispatch enqueues work for the kernel dispatch thread.
func (ks *KernelState) QueueDispatch(fn func()) {
	ks.dispatchMu.Lock()
	defer ks.dispatchMu.Unlock()
	ks.dispatchQueue = append(ks.dispatchQueue, fn)
}

// DrainDispatch runs all queued dispatch work.
func (ks *KernelState) DrainDispatch() {
	ks.dispatchMu.Lock()
	queue := ks.dispatchQueue
	ks.dispatchQueue = nil
	ks.dispatchMu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

// Save writes the guest-thread count followed by every guest thread; the
// object table is not serialised. Threads that are currently executing
// guest code refuse to save.
func (ks *KernelState) Save(s *stream.ByteStream) bool {
	ks.LockGlobal()
	defer ks.UnlockGlobal()

	ks.mu.Lock()
	threads := make([]*XThread, 0, len(ks.threadsByID))
	for _, t := range ks.threadsByID {
		if t.IsGuestThread() {
			threads = append(threads, t)
		}
	}
	ks.mu.Unlock()

	s.WriteU32(uint32(len(threads)))
	for _, t := range threads {
		if !t.Save(s) {
			return false
		}
	}
	return true
}

// Restore recreates saved threads into this kernel.
func (ks *KernelState) Restore(s *stream.ByteStream) bool {
	count, err := s.ReadU32()
	if err != nil {
		return false
	}
	for i := uint32(0); i < count; i++ {
		if RestoreThread(ks, s) == nil {
			return false
		}
	}
	return true
}
