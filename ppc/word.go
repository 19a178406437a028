package ppc

// Raw-word helpers used by the recompiler's label-collection pass. These
// operate on the undecoded big-endian instruction word; full decoding stays
// with the external disassembler.

// Primary opcode field values used for branch displacement extraction.
const (
	PrimaryOpBC = 16 // conditional branch (bc, bdnz, beq, ...)
	PrimaryOpB  = 18 // unconditional branch (b, bl)
)

// Well-known encodings.
const (
	WordNop   = 0x60000000 // ori r0, r0, 0
	WordEieio = 0x7C0006AC

	mtctrMask   = 0xFC1FFFFF
	mtctrOpcode = 0x7C0903A6 // mtspr CTR with the RS field masked out
)

// PrimaryOp extracts the 6-bit primary opcode from a raw word.
func PrimaryOp(word uint32) uint32 {
	return word >> 26
}

// IsLink reports whether the branch word has the LK bit set.
func IsLink(word uint32) bool {
	return word&1 != 0
}

// BranchDisp extracts the sign-extended 26-bit displacement of a b/bl word.
func BranchDisp(word uint32) int32 {
	d := int32(word<<6) >> 6
	return d &^ 3
}

// BranchCondDisp extracts the sign-extended 16-bit displacement of a bc word.
func BranchCondDisp(word uint32) int32 {
	d := int32(int16(word))
	return d &^ 3
}

// IsMtctr reports whether the raw word moves a GPR into CTR.
func IsMtctr(word uint32) bool {
	return word&mtctrMask == mtctrOpcode
}
