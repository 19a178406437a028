package kernel

import (
	"github.com/rexlab/rexglue/fiber"
	"github.com/rexlab/rexglue/guest"
	"github.com/rexlab/rexglue/stream"
)

// threadSavedState is the fixed-shape thread snapshot. Field order is the
// wire layout; the register file block is only present when the snapshot
// was taken while the thread was quiescent.
type threadSavedState struct {
	threadID     uint32
	isMainThread bool
	isRunning    bool

	apcHead           uint32
	tlsStaticAddress  uint32
	tlsDynamicAddress uint32
	tlsTotalSize      uint32
	pcrAddress        uint32
	stackBase         uint32
	stackLimit        uint32
	stackAllocBase    uint32
	stackAllocSize    uint32
}

func (st *threadSavedState) write(s *stream.ByteStream) {
	s.WriteU32(st.threadID)
	s.WriteBool(st.isMainThread)
	s.WriteBool(st.isRunning)
	s.WriteU32(st.apcHead)
	s.WriteU32(st.tlsStaticAddress)
	s.WriteU32(st.tlsDynamicAddress)
	s.WriteU32(st.tlsTotalSize)
	s.WriteU32(st.pcrAddress)
	s.WriteU32(st.stackBase)
	s.WriteU32(st.stackLimit)
	s.WriteU32(st.stackAllocBase)
	s.WriteU32(st.stackAllocSize)
}

func (st *threadSavedState) read(s *stream.ByteStream) error {
	var err error
	read32 := func(dst *uint32) {
		if err == nil {
			*dst, err = s.ReadU32()
		}
	}
	readBool := func(dst *bool) {
		if err == nil {
			*dst, err = s.ReadBool()
		}
	}
	read32(&st.threadID)
	readBool(&st.isMainThread)
	readBool(&st.isRunning)
	read32(&st.apcHead)
	read32(&st.tlsStaticAddress)
	read32(&st.tlsDynamicAddress)
	read32(&st.tlsTotalSize)
	read32(&st.pcrAddress)
	read32(&st.stackBase)
	read32(&st.stackLimit)
	read32(&st.stackAllocBase)
	read32(&st.stackAllocSize)
	return err
}

// saveContext serialises the full register file in wire order: LR, CTR,
// GPRs, FPRs, VRs, CR fields, FPSCR, XER flags, vscr_sat, saved PC.
func saveContext(s *stream.ByteStream, ctx *guest.Context, pc uint32) {
	s.WriteU64(ctx.LR)
	s.WriteU64(ctx.CTR.U64())
	for i := range ctx.R {
		s.WriteU64(ctx.R[i].U64())
	}
	for i := range ctx.F {
		s.WriteU64(ctx.F[i].U64())
	}
	for i := range ctx.V {
		b := ctx.V[i].Bytes()
		s.WriteBytes(b[:])
	}
	for i := range ctx.CR {
		s.WriteU32(ctx.CR[i].Raw())
	}
	s.WriteU32(ctx.FPSCR.CSR)
	s.WriteBool(ctx.XER.CA)
	s.WriteBool(ctx.XER.OV)
	s.WriteBool(ctx.XER.SO)
	s.WriteU8(ctx.VSCRSat)
	s.WriteU32(pc)
}

// loadContext restores a register file written by saveContext and returns
// the saved PC.
func loadContext(s *stream.ByteStream, ctx *guest.Context) (uint32, error) {
	var firstErr error
	u64 := func() uint64 {
		v, err := s.ReadU64()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}
	u32 := func() uint32 {
		v, err := s.ReadU32()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}
	rbool := func() bool {
		v, err := s.ReadBool()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}

	ctx.LR = u64()
	ctx.CTR.SetU64(u64())
	for i := range ctx.R {
		ctx.R[i].SetU64(u64())
	}
	for i := range ctx.F {
		ctx.F[i].SetU64(u64())
	}
	for i := range ctx.V {
		b, err := s.ReadBytes(16)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}
		var raw [16]byte
		copy(raw[:], b)
		ctx.V[i].SetBytes(raw)
	}
	for i := range ctx.CR {
		ctx.CR[i].SetRaw(u32())
	}
	ctx.FPSCR.CSR = u32()
	ctx.XER.CA = rbool()
	ctx.XER.OV = rbool()
	ctx.XER.SO = rbool()
	sat, err := s.ReadU8()
	if err != nil && firstErr == nil {
		firstErr = err
	}
	ctx.VSCRSat = sat
	pc := u32()
	return pc, firstErr
}

// Save serialises the thread. It refuses while the thread is executing
// guest code; host threads are expected to recreate themselves.
func (t *XThread) Save(s *stream.ByteStream) bool {
	if !t.guestThread {
		return false
	}

	logk.Debug("XThread %08X serializing...", t.Handle())

	if t.running.Load() {
		logk.Warn("XThread %08X cannot be saved while executing guest code", t.Handle())
		return false
	}

	s.WriteU32(KernelSaveSignature)
	s.WriteString(t.name)

	st := threadSavedState{
		threadID:          t.threadID,
		isMainThread:      t.mainThread,
		isRunning:         t.running.Load(),
		apcHead:           t.apcList.Head(),
		tlsStaticAddress:  t.tlsStaticAddress,
		tlsDynamicAddress: t.tlsDynamicAddress,
		tlsTotalSize:      t.tlsTotalSize,
		pcrAddress:        t.pcrAddress,
		stackBase:         t.stackBase,
		stackLimit:        t.stackLimit,
		stackAllocBase:    t.stackAllocBase,
		stackAllocSize:    t.stackAllocSize,
	}
	st.write(s)

	// Quiescent threads carry their full register file.
	saveContext(s, t.ctx, 0)
	return true
}

// RestoreThread recreates a thread from a snapshot. A snapshot claiming to
// run while holding guest-code state it could not have saved is refused.
func RestoreThread(ks *KernelState, s *stream.ByteStream) *XThread {
	sig, err := s.ReadU32()
	if err != nil || sig != KernelSaveSignature {
		logk.Error("Could not restore XThread - invalid magic!")
		return nil
	}

	name, err := s.ReadString()
	if err != nil {
		return nil
	}

	var st threadSavedState
	if err := st.read(s); err != nil {
		return nil
	}

	t := &XThread{
		XObject:     newXObject(ks, ObjectTypeThread),
		threadID:    st.threadID,
		guestThread: true,
		mainThread:  st.isMainThread,
		name:        name,
		alerted:     make(chan struct{}, 1),

		tlsStaticAddress:  st.tlsStaticAddress,
		tlsDynamicAddress: st.tlsDynamicAddress,
		tlsTotalSize:      st.tlsTotalSize,
		pcrAddress:        st.pcrAddress,
		stackBase:         st.stackBase,
		stackLimit:        st.stackLimit,
		stackAllocBase:    st.stackAllocBase,
		stackAllocSize:    st.stackAllocSize,
	}

	logk.Debug("XThread %08X restored", t.Handle())

	mem := ks.Memory()
	t.apcList = &NativeList{}
	t.apcList.SetMemory(mem)
	t.apcList.SetHead(st.apcHead)

	ks.RegisterThread(t)
	ks.ObjectTable().Insert(t, &t.XObject)

	t.ctx = &guest.Context{KernelState: ks}
	pc, err := loadContext(s, t.ctx)
	if err != nil {
		return nil
	}

	if st.isRunning {
		// A thread executing guest code refuses to save, so a snapshot
		// claiming to run cannot hold a valid mid-execution context.
		logk.Error("XThread %08X snapshot claims to be running; refusing restore", t.Handle())
		return nil
	}

	// Quiescent snapshot: the host vehicle is recreated suspended, holding
	// the restored context and PC until something resumes it.
	t.RetainHandle()
	t.host = newHostThread(t.name, true, func() {
		currentThreads.Store(t.ctx, t)
		t.running.Store(true)
		t.mainFiber = fiber.ConvertCurrentThread()
		ks.OnThreadExecute(t)
		if fn := ks.Processor().GetFunction(pc); pc != 0 && fn != nil {
			fn(t.ctx, ks.Memory().Membase())
		}
		t.running.Store(false)
		currentThreads.Delete(t.ctx)
		t.ReleaseHandle()
	})
	t.host.start()

	return t
}
