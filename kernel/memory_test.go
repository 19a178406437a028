package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlab/rexglue/kernel"
)

func newTestMemory(t *testing.T) *kernel.Memory {
	t.Helper()
	// Covers the heap and the start of the stack range; the backing slice
	// is virtual until touched.
	return kernel.NewMemory(0x70400000)
}

func TestSystemHeapAllocAlignedAndZeroed(t *testing.T) {
	mem := newTestMemory(t)

	a := mem.SystemHeapAlloc(20)
	b := mem.SystemHeapAlloc(4)
	require.NotZero(t, a)
	require.NotZero(t, b)
	assert.Zero(t, a%16)
	assert.Zero(t, b%16)
	assert.GreaterOrEqual(t, b, a+32)

	for i := uint32(0); i < 20; i++ {
		assert.Zero(t, mem.LoadU8(a+i))
	}
}

func TestStackAllocationGuardPages(t *testing.T) {
	mem := newTestMemory(t)

	base, size, err := mem.AllocStack(16 * 1024)
	require.NoError(t, err)
	assert.Equal(t, uint32(16*1024+2*kernel.PageSize), size)

	// Guard pages on both sides are inaccessible.
	assert.Equal(t, uint8(kernel.ProtectNoAccess), mem.Protection(base))
	assert.Equal(t, uint8(kernel.ProtectNoAccess), mem.Protection(base+size-kernel.PageSize))
	assert.Equal(t, uint8(kernel.ProtectReadWrite), mem.Protection(base+kernel.PageSize))

	// The usable range is filled with junk.
	assert.Equal(t, uint8(0xBE), mem.LoadU8(base+kernel.PageSize))
}

func TestBigEndianAccessors(t *testing.T) {
	mem := newTestMemory(t)
	addr := mem.SystemHeapAlloc(16)

	mem.StoreU32(addr, 0x11223344)
	assert.Equal(t, uint8(0x11), mem.LoadU8(addr))
	assert.Equal(t, uint8(0x44), mem.LoadU8(addr+3))
	assert.Equal(t, uint16(0x1122), mem.LoadU16(addr))
	assert.Equal(t, uint32(0x11223344), mem.LoadU32(addr))

	mem.StoreU64(addr, 0x0102030405060708)
	assert.Equal(t, uint8(0x01), mem.LoadU8(addr))
	assert.Equal(t, uint64(0x0102030405060708), mem.LoadU64(addr))
}

func TestNativeListFIFO(t *testing.T) {
	mem := newTestMemory(t)
	list := kernel.NewNativeList(mem)

	assert.False(t, list.HasPending())
	assert.Zero(t, list.Shift())

	a := mem.SystemHeapAlloc(8)
	b := mem.SystemHeapAlloc(8)
	c := mem.SystemHeapAlloc(8)
	list.Insert(a)
	list.Insert(b)
	list.Insert(c)

	assert.True(t, list.HasPending())
	assert.Equal(t, a, list.Shift())
	assert.Equal(t, b, list.Shift())
	assert.Equal(t, c, list.Shift())
	assert.False(t, list.HasPending())
}
