package kernel

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Page protection flags.
const (
	ProtectNoAccess  = 0
	ProtectRead      = 1 << 0
	ProtectWrite     = 1 << 1
	ProtectReadWrite = ProtectRead | ProtectWrite
)

// Guest address space layout.
const (
	PageSize = 0x1000

	systemHeapBase = 0x20000000
	systemHeapEnd  = 0x30000000

	stackRangeBegin = 0x70000000
	stackRangeEnd   = 0x7F000000
)

// Memory is the guest virtual memory view: a flat membase indexed by the
// 32-bit guest address, a system heap for kernel allocations, and the
// guest stack range with page protection tracking.
type Memory struct {
	mu       sync.Mutex
	membase  []byte
	heapNext uint32
	heapSize map[uint32]uint32

	stackNext uint32
	protect   map[uint32]uint8 // page base -> protection
}

// NewMemory creates a guest address space of the given size. Size must
// cover the stack range for thread creation to succeed.
func NewMemory(size uint32) *Memory {
	return &Memory{
		membase:   make([]byte, size),
		heapNext:  systemHeapBase,
		heapSize:  make(map[uint32]uint32),
		stackNext: stackRangeBegin,
		protect:   make(map[uint32]uint8),
	}
}

// Membase returns the backing store; emitted code receives this as base.
func (m *Memory) Membase() []byte { return m.membase }

// TranslateVirtual returns the bytes backing addr, or nil when out of
// range.
func (m *Memory) TranslateVirtual(addr uint32) []byte {
	if uint64(addr) >= uint64(len(m.membase)) {
		return nil
	}
	return m.membase[addr:]
}

// SystemHeapAlloc allocates zeroed kernel heap memory, 16-byte aligned.
// Returns 0 when the heap is exhausted.
func (m *Memory) SystemHeapAlloc(size uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	size = (size + 15) &^ 15
	if m.heapNext+size > systemHeapEnd || uint64(m.heapNext+size) > uint64(len(m.membase)) {
		return 0
	}
	addr := m.heapNext
	m.heapNext += size
	m.heapSize[addr] = size
	m.fill(addr, size, 0)
	return addr
}

// SystemHeapFree releases a heap allocation. The bump allocator does not
// recycle; freeing only drops the size record, and double frees are not
// detected.
func (m *Memory) SystemHeapFree(addr uint32) {
	if addr == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.heapSize, addr)
}

// AllocStack reserves a stack of the given usable size plus one guard page
// on either side. It returns the allocation base (the low guard page) or
// an error when the range is exhausted.
func (m *Memory) AllocStack(size uint32) (allocBase, allocSize uint32, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	size = (size + PageSize - 1) &^ (PageSize - 1)
	total := size + 2*PageSize
	if m.stackNext+total > stackRangeEnd || uint64(m.stackNext+total) > uint64(len(m.membase)) {
		return 0, 0, fmt.Errorf("stack range exhausted")
	}

	base := m.stackNext
	m.stackNext += total

	// Fill with junk so uninitialised reads are obvious.
	m.fill(base, total, 0xBE)

	m.setProtect(base, PageSize, ProtectNoAccess)
	m.setProtect(base+PageSize, size, ProtectReadWrite)
	m.setProtect(base+PageSize+size, PageSize, ProtectNoAccess)
	return base, total, nil
}

// ReleaseStack returns a stack allocation's pages to the unmapped state.
func (m *Memory) ReleaseStack(allocBase, allocSize uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for page := allocBase; page < allocBase+allocSize; page += PageSize {
		delete(m.protect, page)
	}
}

// Protect overrides the protection of a page range.
func (m *Memory) Protect(addr, size uint32, prot uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setProtect(addr, size, prot)
}

func (m *Memory) setProtect(addr, size uint32, prot uint8) {
	for page := addr &^ (PageSize - 1); page < addr+size; page += PageSize {
		m.protect[page] = prot
	}
}

// Protection returns the tracked protection of the page containing addr.
func (m *Memory) Protection(addr uint32) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prot, ok := m.protect[addr&^(PageSize-1)]; ok {
		return prot
	}
	return ProtectReadWrite
}

// Fill sets size bytes at addr to val.
func (m *Memory) Fill(addr, size uint32, val byte) {
	m.fill(addr, size, val)
}

func (m *Memory) fill(addr, size uint32, val byte) {
	end := uint64(addr) + uint64(size)
	if end > uint64(len(m.membase)) {
		end = uint64(len(m.membase))
	}
	for i := uint64(addr); i < end; i++ {
		m.membase[i] = val
	}
}

// Copy copies size bytes from src to dst inside guest memory.
func (m *Memory) Copy(dst, src, size uint32) {
	copy(m.membase[dst:dst+size], m.membase[src:src+size])
}

// Guest memory is big-endian; every scalar access swaps at the boundary.

// LoadU8 reads a byte.
func (m *Memory) LoadU8(addr uint32) uint8 { return m.membase[addr] }

// StoreU8 writes a byte.
func (m *Memory) StoreU8(addr uint32, v uint8) { m.membase[addr] = v }

// LoadU16 reads a big-endian halfword.
func (m *Memory) LoadU16(addr uint32) uint16 {
	return binary.BigEndian.Uint16(m.membase[addr:])
}

// StoreU16 writes a big-endian halfword.
func (m *Memory) StoreU16(addr uint32, v uint16) {
	binary.BigEndian.PutUint16(m.membase[addr:], v)
}

// LoadU32 reads a big-endian word.
func (m *Memory) LoadU32(addr uint32) uint32 {
	return binary.BigEndian.Uint32(m.membase[addr:])
}

// StoreU32 writes a big-endian word.
func (m *Memory) StoreU32(addr uint32, v uint32) {
	binary.BigEndian.PutUint32(m.membase[addr:], v)
}

// LoadU64 reads a big-endian doubleword.
func (m *Memory) LoadU64(addr uint32) uint64 {
	return binary.BigEndian.Uint64(m.membase[addr:])
}

// StoreU64 writes a big-endian doubleword.
func (m *Memory) StoreU64(addr uint32, v uint64) {
	binary.BigEndian.PutUint64(m.membase[addr:], v)
}
