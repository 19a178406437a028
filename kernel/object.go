package kernel

import (
	"sync"
	"sync/atomic"
)

// ObjectType identifies a kernel object class.
type ObjectType uint8

// Object types.
const (
	ObjectTypeThread ObjectType = iota
	ObjectTypeTimer
)

// XObject is the base of every kernel object: a handle, a reference count
// and an optional guest-memory block.
type XObject struct {
	kernel *KernelState

	handle      uint32
	objType     ObjectType
	guestObject uint32
	refCount    atomic.Int32
	hostObject  bool
}

func newXObject(ks *KernelState, t ObjectType) XObject {
	o := XObject{kernel: ks, objType: t}
	o.refCount.Store(1)
	return o
}

// Handle returns the object's handle, assigned at table insertion.
func (o *XObject) Handle() uint32 { return o.handle }

// Type returns the object's class.
func (o *XObject) Type() ObjectType { return o.objType }

// GuestObject returns the guest address of the object's kernel block.
func (o *XObject) GuestObject() uint32 { return o.guestObject }

// Kernel returns the owning kernel state.
func (o *XObject) Kernel() *KernelState { return o.kernel }

// RetainHandle adds a reference.
func (o *XObject) RetainHandle() { o.refCount.Add(1) }

// ReleaseHandle drops a reference and reports whether the object died.
func (o *XObject) ReleaseHandle() bool {
	return o.refCount.Add(-1) == 0
}

// createGuestObject allocates the object's guest kernel block.
func (o *XObject) createGuestObject(size uint32) bool {
	addr := o.kernel.Memory().SystemHeapAlloc(size)
	if addr == 0 {
		return false
	}
	o.guestObject = addr
	return true
}

// ObjectTable maps handles to kernel objects. Every method takes the
// table's own mutex; the kernel's global critical region is not used.
type ObjectTable struct {
	mu         sync.Mutex
	nextHandle uint32
	objects    map[uint32]any
}

// NewObjectTable creates an empty table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{nextHandle: 0xF8000000, objects: make(map[uint32]any)}
}

// Insert registers obj and returns its handle.
func (t *ObjectTable) Insert(obj any, xo *XObject) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextHandle += 4
	handle := t.nextHandle
	t.objects[handle] = obj
	xo.handle = handle
	return handle
}

// Lookup resolves a handle, or nil.
func (t *ObjectTable) Lookup(handle uint32) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.objects[handle]
}

// Remove drops a handle.
func (t *ObjectTable) Remove(handle uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.objects, handle)
}

// Count returns the number of live objects.
func (t *ObjectTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.objects)
}
