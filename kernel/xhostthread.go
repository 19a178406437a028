package kernel

import "github.com/rexlab/rexglue/guest"

// XHostThread is a kernel thread backed by a host function instead of
// guest code. The kernel dispatcher and driver-side workers run on these.
type XHostThread struct {
	XThread

	hostFn func() int
}

// NewXHostThread creates a host-backed thread.
func NewXHostThread(ks *KernelState, stackSize, creationFlags uint32, hostFn func() int) *XHostThread {
	t := &XHostThread{hostFn: hostFn}
	t.XObject = newXObject(ks, ObjectTypeThread)
	t.threadID = nextThreadID.Add(1)
	t.guestThread = false
	t.params = CreationParams{StackSize: stackSize, CreationFlags: creationFlags}
	t.alerted = make(chan struct{}, 1)
	ks.RegisterThread(&t.XThread)
	return t
}

// Create allocates the kernel object and starts the host function.
func (t *XHostThread) Create() XStatus {
	ks := t.Kernel()

	if !t.createGuestObject(kthreadSize) {
		logk.Warn("Unable to allocate thread object")
		return XStatusNoMemory
	}
	ks.ObjectTable().Insert(t, &t.XObject)

	t.ctx = &guest.Context{KernelState: ks}
	t.apcList = NewNativeListAt(ks.Memory(), t.kthread()+kthreadApcListOffset)

	t.RetainHandle()
	suspended := t.params.CreationFlags&XCreateSuspended != 0
	t.host = newHostThread(t.name, suspended, func() {
		logk.Info("XThread.Execute thid %d (handle=%08X, '%s', <host>)",
			t.threadID, t.Handle(), t.name)
		ks.OnThreadExecute(&t.XThread)
		t.running.Store(true)
		ret := t.hostFn()
		t.running.Store(false)
		t.Exit(ret)
		t.ReleaseHandle()
	})
	t.host.start()
	return XStatusSuccess
}
