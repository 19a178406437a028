package guest

import (
	"encoding/binary"
	"math"
)

// Reg is a 64-bit general purpose register exposing the integer sub-lane
// views the recompiled code uses.
type Reg struct {
	val uint64
}

// U64 returns the full 64-bit value.
func (r *Reg) U64() uint64 { return r.val }

// SetU64 replaces the full 64-bit value.
func (r *Reg) SetU64(v uint64) { r.val = v }

// S64 returns the value as a signed 64-bit integer.
func (r *Reg) S64() int64 { return int64(r.val) }

// SetS64 replaces the register with a sign-preserving 64-bit write.
func (r *Reg) SetS64(v int64) { r.val = uint64(v) }

// U32 returns the low 32 bits.
func (r *Reg) U32() uint32 { return uint32(r.val) }

// SetU32 writes the low 32 bits and clears the high half.
func (r *Reg) SetU32(v uint32) { r.val = uint64(v) }

// S32 returns the low 32 bits as a signed integer.
func (r *Reg) S32() int32 { return int32(uint32(r.val)) }

// SetS32 writes a signed 32-bit value, sign-extending into the high half.
func (r *Reg) SetS32(v int32) { r.val = uint64(int64(v)) }

// U16 returns the low 16 bits.
func (r *Reg) U16() uint16 { return uint16(r.val) }

// S16 returns the low 16 bits as a signed integer.
func (r *Reg) S16() int16 { return int16(uint16(r.val)) }

// U8 returns the low 8 bits.
func (r *Reg) U8() uint8 { return uint8(r.val) }

// S8 returns the low 8 bits as a signed integer.
func (r *Reg) S8() int8 { return int8(uint8(r.val)) }

// FPReg is a floating point register. It is double-backed with a 32-bit
// reinterpret view for single-precision stores.
type FPReg struct {
	bits uint64
}

// F64 returns the register as a double.
func (f *FPReg) F64() float64 { return math.Float64frombits(f.bits) }

// SetF64 stores a double.
func (f *FPReg) SetF64(v float64) { f.bits = math.Float64bits(v) }

// U64 returns the raw bit pattern.
func (f *FPReg) U64() uint64 { return f.bits }

// SetU64 stores a raw bit pattern.
func (f *FPReg) SetU64(v uint64) { f.bits = v }

// U32 reinterprets the low 32 bits.
func (f *FPReg) U32() uint32 { return uint32(f.bits) }

// SetU32 stores into the low 32 bits, clearing the high half.
func (f *FPReg) SetU32(v uint32) { f.bits = uint64(v) }

// VReg is a 128-bit vector register. Lane order follows the full-reversal
// convention: the 16 bytes are held in the reverse of the guest byte order,
// so lane 0 of U32 is the last guest word.
type VReg struct {
	bytes [16]byte
}

// U8 returns byte lane i.
func (v *VReg) U8(i int) uint8 { return v.bytes[i] }

// SetU8 writes byte lane i.
func (v *VReg) SetU8(i int, b uint8) { v.bytes[i] = b }

// U16 returns halfword lane i (8 lanes).
func (v *VReg) U16(i int) uint16 {
	return binary.LittleEndian.Uint16(v.bytes[i*2:])
}

// SetU16 writes halfword lane i.
func (v *VReg) SetU16(i int, x uint16) {
	binary.LittleEndian.PutUint16(v.bytes[i*2:], x)
}

// U32 returns word lane i (4 lanes).
func (v *VReg) U32(i int) uint32 {
	return binary.LittleEndian.Uint32(v.bytes[i*4:])
}

// SetU32 writes word lane i.
func (v *VReg) SetU32(i int, x uint32) {
	binary.LittleEndian.PutUint32(v.bytes[i*4:], x)
}

// F32 returns float lane i.
func (v *VReg) F32(i int) float32 {
	return math.Float32frombits(v.U32(i))
}

// SetF32 writes float lane i.
func (v *VReg) SetF32(i int, x float32) {
	v.SetU32(i, math.Float32bits(x))
}

// Bytes returns the raw 16-byte backing store.
func (v *VReg) Bytes() [16]byte { return v.bytes }

// SetBytes replaces the raw 16-byte backing store.
func (v *VReg) SetBytes(b [16]byte) { v.bytes = b }
