package ppc

// Op identifies a PPC instruction as reported by the disassembler.
type Op uint16

// Instruction identifiers. The numbering is internal to this package; the
// external disassembler maps its own opcode table onto these.
const (
	OpInvalid Op = iota

	// Comparison
	OpCmpd
	OpCmpdi
	OpCmpld
	OpCmpldi
	OpCmplw
	OpCmplwi
	OpCmpw
	OpCmpwi

	// Arithmetic
	OpAdd
	OpAddc
	OpAdde
	OpAddi
	OpAddic
	OpAddis
	OpAddme
	OpAddze
	OpDivd
	OpDivdu
	OpDivw
	OpDivwu
	OpMulhd
	OpMulhdu
	OpMulhw
	OpMulhwu
	OpMulld
	OpMulli
	OpMullw
	OpNeg
	OpSubf
	OpSubfc
	OpSubfe
	OpSubfic
	OpSubfme
	OpSubfze

	// Logical
	OpAnd
	OpAndc
	OpAndi
	OpAndis
	OpNand
	OpNor
	OpNot
	OpOr
	OpOrc
	OpOri
	OpOris
	OpXor
	OpXori
	OpXoris
	OpEqv
	OpCntlzd
	OpCntlzw
	OpExtsb
	OpExtsh
	OpExtsw
	OpClrlwi
	OpClrldi
	OpRldicl
	OpRldicr
	OpRldimi
	OpRotldi
	OpRlwimi
	OpRlwinm
	OpRlwnm
	OpRotlw
	OpRotlwi
	OpSld
	OpSlw
	OpSrad
	OpSradi
	OpSraw
	OpSrawi
	OpSrd
	OpSrw

	// Condition register
	OpCrand
	OpCrandc
	OpCreqv
	OpCrnand
	OpCrnor
	OpCror
	OpCrorc

	// Control flow
	OpB
	OpBl
	OpBlr
	OpBlrl
	OpBctr
	OpBctrl
	OpBnectr
	OpBdz
	OpBdzf
	OpBdzlr
	OpBdnz
	OpBdnzf
	OpBdnzt
	OpBeq
	OpBeqlr
	OpBne
	OpBnelr
	OpBlt
	OpBltlr
	OpBge
	OpBgelr
	OpBgt
	OpBgtlr
	OpBle
	OpBlelr
	OpBso
	OpBsolr
	OpBns
	OpBnslr

	// Floating point
	OpFabs
	OpFnabs
	OpFneg
	OpFmr
	OpFcfid
	OpFctid
	OpFctidz
	OpFctiwz
	OpFrsp
	OpFcmpu
	OpFcmpo
	OpFadd
	OpFadds
	OpFsub
	OpFsubs
	OpFmul
	OpFmuls
	OpFdiv
	OpFdivs
	OpFmadd
	OpFmadds
	OpFmsub
	OpFmsubs
	OpFnmadd
	OpFnmadds
	OpFnmsub
	OpFnmsubs
	OpFres
	OpFrsqrte
	OpFsqrt
	OpFsqrts
	OpFsel

	// Load immediate
	OpLi
	OpLis

	// Loads
	OpLbz
	OpLbzu
	OpLbzux
	OpLbzx
	OpLha
	OpLhau
	OpLhax
	OpLhbrx
	OpLhz
	OpLhzu
	OpLhzux
	OpLhzx
	OpLwa
	OpLwax
	OpLwbrx
	OpLwz
	OpLwzu
	OpLwzux
	OpLwzx
	OpLd
	OpLdu
	OpLdux
	OpLdx
	OpLwarx
	OpLdarx
	OpLfd
	OpLfdu
	OpLfdux
	OpLfdx
	OpLfs
	OpLfsu
	OpLfsux
	OpLfsx

	// Stores
	OpStb
	OpStbu
	OpStbux
	OpStbx
	OpSth
	OpSthbrx
	OpSthu
	OpSthux
	OpSthx
	OpStw
	OpStwbrx
	OpStwu
	OpStwux
	OpStwx
	OpStwcx
	OpStdcx
	OpStd
	OpStdu
	OpStdux
	OpStdx
	OpStfd
	OpStfdu
	OpStfdx
	OpStfiwx
	OpStfs
	OpStfsu
	OpStfsux
	OpStfsx

	// Vector loads
	OpLvx
	OpLvx128
	OpLvxl128
	OpLvlx
	OpLvlx128
	OpLvrx
	OpLvrx128
	OpLvsl
	OpLvsr
	OpLvebx
	OpLvehx
	OpLvewx
	OpLvewx128

	// Vector stores
	OpStvehx
	OpStvewx
	OpStvewx128
	OpStvlx
	OpStvlx128
	OpStvlxl128
	OpStvrx
	OpStvrx128
	OpStvx
	OpStvx128

	// System
	OpNop
	OpAttn
	OpSync
	OpLwsync
	OpEieio
	OpDb16cyc
	OpCctpl
	OpCctpm
	OpTwi
	OpTdi
	OpTw
	OpTd
	OpDcbf
	OpDcbst
	OpDcbt
	OpDcbtst
	OpDcbz
	OpDcbzl
	OpMr
	OpMfcr
	OpMfocrf
	OpMflr
	OpMfmsr
	OpMffs
	OpMftb
	OpMtcr
	OpMtctr
	OpMtlr
	OpMtmsrd
	OpMtfsf
	OpMtxer

	// Vector floating point
	OpVaddfp
	OpVaddfp128
	OpVsubfp
	OpVsubfp128
	OpVmulfp128
	OpVmaddfp
	OpVmaddfp128
	OpVmaddcfp128
	OpVnmsubfp
	OpVnmsubfp128
	OpVmaxfp
	OpVmaxfp128
	OpVminfp
	OpVminfp128
	OpVrefp
	OpVrefp128
	OpVrsqrtefp
	OpVrsqrtefp128
	OpVexptefp
	OpVexptefp128
	OpVlogefp
	OpVlogefp128
	OpVmsum3fp128
	OpVmsum4fp128
	OpVrfim
	OpVrfim128
	OpVrfin
	OpVrfin128
	OpVrfip
	OpVrfip128
	OpVrfiz
	OpVrfiz128

	// Vector integer
	OpVaddsbs
	OpVaddshs
	OpVaddsws
	OpVaddubm
	OpVaddubs
	OpVadduhm
	OpVadduwm
	OpVadduws
	OpVsubsbs
	OpVsubshs
	OpVsubsws
	OpVsububm
	OpVsububs
	OpVsubuhm
	OpVsubuhs
	OpVsubuwm
	OpVsubuws
	OpVmaxsh
	OpVmaxsw
	OpVmaxuh
	OpVminsh
	OpVminsw
	OpVminuh
	OpVavgsb
	OpVavgsh
	OpVavgub
	OpVavguh

	// Vector logical
	OpVand
	OpVand128
	OpVandc
	OpVandc128
	OpVor
	OpVor128
	OpVxor
	OpVxor128
	OpVnor
	OpVnor128
	OpVsel
	OpVsel128

	// Vector compare
	OpVcmpbfp
	OpVcmpbfp128
	OpVcmpeqfp
	OpVcmpeqfp128
	OpVcmpequb
	OpVcmpequh
	OpVcmpequw
	OpVcmpequw128
	OpVcmpgefp
	OpVcmpgefp128
	OpVcmpgtfp
	OpVcmpgtfp128
	OpVcmpgtub
	OpVcmpgtuh
	OpVcmpgtsh
	OpVcmpgtsw

	// Vector conversion
	OpVctsxs
	OpVcfpsxws128
	OpVctuxs
	OpVcfpuxws128
	OpVcfsx
	OpVcsxwfp128
	OpVcfux
	OpVcuxwfp128

	// Vector merge
	OpVmrghb
	OpVmrghh
	OpVmrghw
	OpVmrghw128
	OpVmrglb
	OpVmrglh
	OpVmrglw
	OpVmrglw128

	// Vector permute
	OpVperm
	OpVperm128
	OpVpermwi128
	OpVrlimi128

	// Vector shift
	OpVsl
	OpVslb
	OpVslh
	OpVsldoi
	OpVsldoi128
	OpVslw
	OpVslw128
	OpVslo
	OpVslo128
	OpVsr
	OpVsrh
	OpVsrab
	OpVsrah
	OpVsraw
	OpVsraw128
	OpVsrw
	OpVsrw128
	OpVsro
	OpVsro128
	OpVrlh

	// Vector splat
	OpVspltb
	OpVsplth
	OpVspltisb
	OpVspltish
	OpVspltisw
	OpVspltisw128
	OpVspltw
	OpVspltw128

	// Vector pack
	OpVpkuhum
	OpVpkuhum128
	OpVpkuhus
	OpVpkuhus128
	OpVpkuwum
	OpVpkuwum128
	OpVpkuwus
	OpVpkuwus128
	OpVpkshss
	OpVpkshss128
	OpVpkshus
	OpVpkshus128
	OpVpkswss
	OpVpkswss128
	OpVpkswus
	OpVpkswus128
	OpVpkd3d128

	// Vector unpack
	OpVupkd3d128
	OpVupkhsb
	OpVupkhsb128
	OpVupkhsh
	OpVupkhsh128
	OpVupklsb
	OpVupklsb128
	OpVupklsh
	OpVupklsh128

	opCount
)

// Instruction is a single decoded PPC instruction as produced by the
// external disassembler.
type Instruction struct {
	// Op is the instruction identifier, or OpInvalid when the word did not
	// decode.
	Op Op

	// Name is the full mnemonic including any record-form '.' suffix
	// (e.g. "add.", "stwcx.").
	Name string

	// OpStr is the disassembler's operand string, used only for emitted
	// comments.
	OpStr string

	// Operands holds the numeric operands in disassembler order. Register
	// operands are register indices; immediates and branch targets are
	// stored as their unsigned 32-bit representation.
	Operands [6]uint32
}

// IsRecordForm reports whether the mnemonic carries the record-form '.'
// suffix, meaning the instruction updates CR0 (or CR6 for vector compares).
func (i *Instruction) IsRecordForm() bool {
	for j := 0; j < len(i.Name); j++ {
		if i.Name[j] == '.' {
			return true
		}
	}
	return false
}

// Disassembler decodes raw big-endian instruction words. Implementations
// live outside this module; the recompiler only consumes the interface.
type Disassembler interface {
	// Disassemble decodes the word at the given guest address. It returns
	// ok=false when the word has no known encoding.
	Disassemble(word uint32, addr uint32) (Instruction, bool)
}
