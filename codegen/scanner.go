package codegen

import "encoding/binary"

// DetectJumpTable re-runs the jump-table heuristic at emission time for a
// bctr the analysis left unbound. It scans backwards from the bctr for the
// compiler's switch idiom:
//
//	cmplwi crN, rI, count
//	...
//	lis   rT, table@ha
//	addi  rT, rT, table@l
//	...
//	mtctr rX
//	bctr
//
// and reads count+1 big-endian targets from the materialised table
// address. Detection fails when the idiom is incomplete or any target
// leaves the function bounds.
func DetectJumpTable(bin Binary, fn *FunctionNode, words []uint32, blockBase, bctrAddr uint32) (*JumpTable, bool) {
	index := int(bctrAddr-blockBase) / 4
	if index <= 0 || index >= len(words) {
		return nil, false
	}

	const maxBackscan = 16

	var (
		haveCount bool
		count     uint32
		indexReg  uint32

		haveHi bool
		liReg  uint32
		hi     int32
		haveLo bool
		loReg  uint32
		lo     int32
	)

	for back := 1; back <= maxBackscan && index-back >= 0; back++ {
		word := words[index-back]
		primary := word >> 26
		rd := (word >> 21) & 31
		ra := (word >> 16) & 31
		imm := word & 0xFFFF

		switch primary {
		case 10: // cmpli
			if !haveCount {
				haveCount = true
				count = imm
				indexReg = ra
			}
		case 15: // addis; lis when rA == 0
			if ra == 0 && !haveHi {
				haveHi = true
				liReg = rd
				hi = int32(int16(imm)) << 16
			}
		case 14: // addi rT, rT, table@l
			if !haveLo && rd == ra {
				haveLo = true
				loReg = rd
				lo = int32(int16(imm))
			}
		}

		if haveCount && haveHi && haveLo {
			break
		}
	}

	if !haveCount || !haveHi || !haveLo || liReg != loReg {
		return nil, false
	}
	tableVA := uint32(hi + lo)

	data := bin.Translate(tableVA)
	entries := int(count) + 1
	if data == nil || len(data) < entries*4 {
		return nil, false
	}

	targets := make([]uint32, 0, entries)
	for i := 0; i < entries; i++ {
		target := binary.BigEndian.Uint32(data[i*4:])
		if !fn.Contains(target) {
			return nil, false
		}
		targets = append(targets, target)
	}

	return &JumpTable{
		BctrAddress:   bctrAddr,
		IndexRegister: indexReg,
		Targets:       targets,
	}, true
}
