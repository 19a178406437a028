package codegen

import "encoding/binary"

// Section describes one mapped section of the guest image.
type Section struct {
	BaseAddress uint32
	Size        uint32
	Executable  bool
}

// Binary is the view of the loaded guest image the recompiler consumes.
// The actual loading (XEX parsing, decompression) happens outside this
// module.
type Binary interface {
	// Translate returns the image bytes backing the guest virtual address,
	// or nil when the address is unmapped.
	Translate(addr uint32) []byte

	BaseAddress() uint32
	ImageSize() uint32
	Sections() []Section
}

// ImageBinary is a flat in-memory Binary backed by a single byte slice.
type ImageBinary struct {
	base     uint32
	data     []byte
	sections []Section
}

// NewImageBinary wraps data mapped at base. When no sections are given the
// whole image is treated as one executable section.
func NewImageBinary(base uint32, data []byte, sections ...Section) *ImageBinary {
	if len(sections) == 0 {
		sections = []Section{{BaseAddress: base, Size: uint32(len(data)), Executable: true}}
	}
	return &ImageBinary{base: base, data: data, sections: sections}
}

// Translate implements Binary.
func (b *ImageBinary) Translate(addr uint32) []byte {
	if addr < b.base || addr >= b.base+uint32(len(b.data)) {
		return nil
	}
	return b.data[addr-b.base:]
}

// BaseAddress implements Binary.
func (b *ImageBinary) BaseAddress() uint32 { return b.base }

// ImageSize implements Binary.
func (b *ImageBinary) ImageSize() uint32 { return uint32(len(b.data)) }

// Sections implements Binary.
func (b *ImageBinary) Sections() []Section { return b.sections }

// WordAt reads the big-endian instruction word at addr through a Binary.
// ok is false when the address is unmapped or truncated.
func WordAt(bin Binary, addr uint32) (uint32, bool) {
	data := bin.Translate(addr)
	if len(data) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(data), true
}
