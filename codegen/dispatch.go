package codegen

import "github.com/rexlab/rexglue/ppc"

// dispatchTable maps every supported opcode to its builder. VMX-128
// variants bind to the same builder as their base opcode.
var dispatchTable = map[ppc.Op]Builder{
	// Comparison
	ppc.OpCmpd:   buildCmpd,
	ppc.OpCmpdi:  buildCmpdi,
	ppc.OpCmpld:  buildCmpld,
	ppc.OpCmpldi: buildCmpldi,
	ppc.OpCmplw:  buildCmplw,
	ppc.OpCmplwi: buildCmplwi,
	ppc.OpCmpw:   buildCmpw,
	ppc.OpCmpwi:  buildCmpwi,

	// Arithmetic
	ppc.OpAdd:    buildAdd,
	ppc.OpAddc:   buildAddc,
	ppc.OpAdde:   buildAdde,
	ppc.OpAddi:   buildAddi,
	ppc.OpAddic:  buildAddic,
	ppc.OpAddis:  buildAddis,
	ppc.OpAddme:  buildAddme,
	ppc.OpAddze:  buildAddze,
	ppc.OpDivd:   buildDivd,
	ppc.OpDivdu:  buildDivdu,
	ppc.OpDivw:   buildDivw,
	ppc.OpDivwu:  buildDivwu,
	ppc.OpMulhd:  buildMulhd,
	ppc.OpMulhdu: buildMulhdu,
	ppc.OpMulhw:  buildMulhw,
	ppc.OpMulhwu: buildMulhwu,
	ppc.OpMulld:  buildMulld,
	ppc.OpMulli:  buildMulli,
	ppc.OpMullw:  buildMullw,
	ppc.OpNeg:    buildNeg,
	ppc.OpSubf:   buildSubf,
	ppc.OpSubfc:  buildSubfc,
	ppc.OpSubfe:  buildSubfe,
	ppc.OpSubfic: buildSubfic,
	ppc.OpSubfme: buildSubfme,
	ppc.OpSubfze: buildSubfze,

	// Logical
	ppc.OpAnd:    buildAnd,
	ppc.OpAndc:   buildAndc,
	ppc.OpAndi:   buildAndi,
	ppc.OpAndis:  buildAndis,
	ppc.OpNand:   buildNand,
	ppc.OpNor:    buildNor,
	ppc.OpNot:    buildNot,
	ppc.OpOr:     buildOr,
	ppc.OpOrc:    buildOrc,
	ppc.OpOri:    buildOri,
	ppc.OpOris:   buildOris,
	ppc.OpXor:    buildXor,
	ppc.OpXori:   buildXori,
	ppc.OpXoris:  buildXoris,
	ppc.OpEqv:    buildEqv,
	ppc.OpCntlzd: buildCntlzd,
	ppc.OpCntlzw: buildCntlzw,
	ppc.OpExtsb:  buildExtsb,
	ppc.OpExtsh:  buildExtsh,
	ppc.OpExtsw:  buildExtsw,
	ppc.OpClrlwi: buildClrlwi,
	ppc.OpClrldi: buildClrldi,
	ppc.OpRldicl: buildRldicl,
	ppc.OpRldicr: buildRldicr,
	ppc.OpRldimi: buildRldimi,
	ppc.OpRotldi: buildRotldi,
	ppc.OpRlwimi: buildRlwimi,
	ppc.OpRlwinm: buildRlwinm,
	ppc.OpRlwnm:  buildRlwnm,
	ppc.OpRotlw:  buildRotlw,
	ppc.OpRotlwi: buildRotlwi,
	ppc.OpSld:    buildSld,
	ppc.OpSlw:    buildSlw,
	ppc.OpSrad:   buildSrad,
	ppc.OpSradi:  buildSradi,
	ppc.OpSraw:   buildSraw,
	ppc.OpSrawi:  buildSrawi,
	ppc.OpSrd:    buildSrd,
	ppc.OpSrw:    buildSrw,

	// Condition register
	ppc.OpCrand:  buildCrand,
	ppc.OpCrandc: buildCrandc,
	ppc.OpCreqv:  buildCreqv,
	ppc.OpCrnand: buildCrnand,
	ppc.OpCrnor:  buildCrnor,
	ppc.OpCror:   buildCror,
	ppc.OpCrorc:  buildCrorc,

	// Control flow
	ppc.OpB:      buildB,
	ppc.OpBl:     buildBl,
	ppc.OpBlr:    buildBlr,
	ppc.OpBlrl:   buildBlrl,
	ppc.OpBctr:   buildBctr,
	ppc.OpBctrl:  buildBctrl,
	ppc.OpBnectr: buildBnectr,
	ppc.OpBdz:    buildBdz,
	ppc.OpBdzf:   buildBdzf,
	ppc.OpBdzlr:  buildBdzlr,
	ppc.OpBdnz:   buildBdnz,
	ppc.OpBdnzf:  buildBdnzf,
	ppc.OpBdnzt:  buildBdnzt,
	ppc.OpBeq:    buildBeq,
	ppc.OpBeqlr:  buildBeqlr,
	ppc.OpBne:    buildBne,
	ppc.OpBnelr:  buildBnelr,
	ppc.OpBlt:    buildBlt,
	ppc.OpBltlr:  buildBltlr,
	ppc.OpBge:    buildBge,
	ppc.OpBgelr:  buildBgelr,
	ppc.OpBgt:    buildBgt,
	ppc.OpBgtlr:  buildBgtlr,
	ppc.OpBle:    buildBle,
	ppc.OpBlelr:  buildBlelr,
	ppc.OpBso:    buildBso,
	ppc.OpBsolr:  buildBsolr,
	ppc.OpBns:    buildBns,
	ppc.OpBnslr:  buildBnslr,

	// Floating point
	ppc.OpFabs:    buildFabs,
	ppc.OpFnabs:   buildFnabs,
	ppc.OpFneg:    buildFneg,
	ppc.OpFmr:     buildFmr,
	ppc.OpFcfid:   buildFcfid,
	ppc.OpFctid:   buildFctid,
	ppc.OpFctidz:  buildFctidz,
	ppc.OpFctiwz:  buildFctiwz,
	ppc.OpFrsp:    buildFrsp,
	ppc.OpFcmpu:   buildFcmpu,
	ppc.OpFcmpo:   buildFcmpo,
	ppc.OpFadd:    buildFadd,
	ppc.OpFadds:   buildFadds,
	ppc.OpFsub:    buildFsub,
	ppc.OpFsubs:   buildFsubs,
	ppc.OpFmul:    buildFmul,
	ppc.OpFmuls:   buildFmuls,
	ppc.OpFdiv:    buildFdiv,
	ppc.OpFdivs:   buildFdivs,
	ppc.OpFmadd:   buildFmadd,
	ppc.OpFmadds:  buildFmadds,
	ppc.OpFmsub:   buildFmsub,
	ppc.OpFmsubs:  buildFmsubs,
	ppc.OpFnmadd:  buildFnmadd,
	ppc.OpFnmadds: buildFnmadds,
	ppc.OpFnmsub:  buildFnmsub,
	ppc.OpFnmsubs: buildFnmsubs,
	ppc.OpFres:    buildFres,
	ppc.OpFrsqrte: buildFrsqrte,
	ppc.OpFsqrt:   buildFsqrt,
	ppc.OpFsqrts:  buildFsqrts,
	ppc.OpFsel:    buildFsel,

	// Load immediate
	ppc.OpLi:  buildLi,
	ppc.OpLis: buildLis,

	// Loads
	ppc.OpLbz:   buildLbz,
	ppc.OpLbzu:  buildLbzu,
	ppc.OpLbzux: buildLbzux,
	ppc.OpLbzx:  buildLbzx,
	ppc.OpLha:   buildLha,
	ppc.OpLhau:  buildLhau,
	ppc.OpLhax:  buildLhax,
	ppc.OpLhbrx: buildLhbrx,
	ppc.OpLhz:   buildLhz,
	ppc.OpLhzu:  buildLhzu,
	ppc.OpLhzux: buildLhzux,
	ppc.OpLhzx:  buildLhzx,
	ppc.OpLwa:   buildLwa,
	ppc.OpLwax:  buildLwax,
	ppc.OpLwbrx: buildLwbrx,
	ppc.OpLwz:   buildLwz,
	ppc.OpLwzu:  buildLwzu,
	ppc.OpLwzux: buildLwzux,
	ppc.OpLwzx:  buildLwzx,
	ppc.OpLd:    buildLd,
	ppc.OpLdu:   buildLdu,
	ppc.OpLdux:  buildLdux,
	ppc.OpLdx:   buildLdx,
	ppc.OpLwarx: buildLwarx,
	ppc.OpLdarx: buildLdarx,
	ppc.OpLfd:   buildLfd,
	ppc.OpLfdu:  buildLfdu,
	ppc.OpLfdux: buildLfdux,
	ppc.OpLfdx:  buildLfdx,
	ppc.OpLfs:   buildLfs,
	ppc.OpLfsu:  buildLfsu,
	ppc.OpLfsux: buildLfsux,
	ppc.OpLfsx:  buildLfsx,

	// Stores
	ppc.OpStb:    buildStb,
	ppc.OpStbu:   buildStbu,
	ppc.OpStbux:  buildStbux,
	ppc.OpStbx:   buildStbx,
	ppc.OpSth:    buildSth,
	ppc.OpSthbrx: buildSthbrx,
	ppc.OpSthu:   buildSthu,
	ppc.OpSthux:  buildSthux,
	ppc.OpSthx:   buildSthx,
	ppc.OpStw:    buildStw,
	ppc.OpStwbrx: buildStwbrx,
	ppc.OpStwu:   buildStwu,
	ppc.OpStwux:  buildStwux,
	ppc.OpStwx:   buildStwx,
	ppc.OpStwcx:  buildStwcx,
	ppc.OpStdcx:  buildStdcx,
	ppc.OpStd:    buildStd,
	ppc.OpStdu:   buildStdu,
	ppc.OpStdux:  buildStdux,
	ppc.OpStdx:   buildStdx,
	ppc.OpStfd:   buildStfd,
	ppc.OpStfdu:  buildStfdu,
	ppc.OpStfdx:  buildStfdx,
	ppc.OpStfiwx: buildStfiwx,
	ppc.OpStfs:   buildStfs,
	ppc.OpStfsu:  buildStfsu,
	ppc.OpStfsux: buildStfsux,
	ppc.OpStfsx:  buildStfsx,

	// Vector loads
	ppc.OpLvx:      buildLvx,
	ppc.OpLvx128:   buildLvx,
	ppc.OpLvxl128:  buildLvx,
	ppc.OpLvlx:     buildLvlx,
	ppc.OpLvlx128:  buildLvlx,
	ppc.OpLvrx:     buildLvrx,
	ppc.OpLvrx128:  buildLvrx,
	ppc.OpLvsl:     buildLvsl,
	ppc.OpLvsr:     buildLvsr,
	ppc.OpLvebx:    buildLvx,
	ppc.OpLvehx:    buildLvx,
	ppc.OpLvewx:    buildLvx,
	ppc.OpLvewx128: buildLvx,

	// Vector stores
	ppc.OpStvehx:    buildStvehx,
	ppc.OpStvewx:    buildStvewx,
	ppc.OpStvewx128: buildStvewx,
	ppc.OpStvlx:     buildStvlx,
	ppc.OpStvlx128:  buildStvlx,
	ppc.OpStvlxl128: buildStvlx,
	ppc.OpStvrx:     buildStvrx,
	ppc.OpStvrx128:  buildStvrx,
	ppc.OpStvx:      buildStvx,
	ppc.OpStvx128:   buildStvx,

	// System
	ppc.OpNop:     buildNop,
	ppc.OpAttn:    buildAttn,
	ppc.OpSync:    buildSync,
	ppc.OpLwsync:  buildLwsync,
	ppc.OpEieio:   buildEieio,
	ppc.OpDb16cyc: buildDb16cyc,
	ppc.OpCctpl:   buildCctpl,
	ppc.OpCctpm:   buildCctpm,
	ppc.OpTwi:     buildTwi,
	ppc.OpTdi:     buildTdi,
	ppc.OpTw:      buildTw,
	ppc.OpTd:      buildTd,
	ppc.OpDcbf:    buildDcbf,
	ppc.OpDcbst:   buildDcbst,
	ppc.OpDcbt:    buildDcbt,
	ppc.OpDcbtst:  buildDcbtst,
	ppc.OpDcbz:    buildDcbz,
	ppc.OpDcbzl:   buildDcbzl,
	ppc.OpMr:      buildMr,
	ppc.OpMfcr:    buildMfcr,
	ppc.OpMfocrf:  buildMfocrf,
	ppc.OpMflr:    buildMflr,
	ppc.OpMfmsr:   buildMfmsr,
	ppc.OpMffs:    buildMffs,
	ppc.OpMftb:    buildMftb,
	ppc.OpMtcr:    buildMtcr,
	ppc.OpMtctr:   buildMtctr,
	ppc.OpMtlr:    buildMtlr,
	ppc.OpMtmsrd:  buildMtmsrd,
	ppc.OpMtfsf:   buildMtfsf,
	ppc.OpMtxer:   buildMtxer,

	// Vector floating point
	ppc.OpVaddfp:       buildVaddfp,
	ppc.OpVaddfp128:    buildVaddfp,
	ppc.OpVsubfp:       buildVsubfp,
	ppc.OpVsubfp128:    buildVsubfp,
	ppc.OpVmulfp128:    buildVmulfp128,
	ppc.OpVmaddfp:      buildVmaddfp,
	ppc.OpVmaddfp128:   buildVmaddfp,
	ppc.OpVmaddcfp128:  buildVmaddfp,
	ppc.OpVnmsubfp:     buildVnmsubfp,
	ppc.OpVnmsubfp128:  buildVnmsubfp,
	ppc.OpVmaxfp:       buildVmaxfp,
	ppc.OpVmaxfp128:    buildVmaxfp,
	ppc.OpVminfp:       buildVminfp,
	ppc.OpVminfp128:    buildVminfp,
	ppc.OpVrefp:        buildVrefp,
	ppc.OpVrefp128:     buildVrefp,
	ppc.OpVrsqrtefp:    buildVrsqrtefp,
	ppc.OpVrsqrtefp128: buildVrsqrtefp,
	ppc.OpVexptefp:     buildVexptefp,
	ppc.OpVexptefp128:  buildVexptefp,
	ppc.OpVlogefp:      buildVlogefp,
	ppc.OpVlogefp128:   buildVlogefp,
	ppc.OpVmsum3fp128:  buildVmsum3fp128,
	ppc.OpVmsum4fp128:  buildVmsum4fp128,
	ppc.OpVrfim:        buildVrfim,
	ppc.OpVrfim128:     buildVrfim,
	ppc.OpVrfin:        buildVrfin,
	ppc.OpVrfin128:     buildVrfin,
	ppc.OpVrfip:        buildVrfip,
	ppc.OpVrfip128:     buildVrfip,
	ppc.OpVrfiz:        buildVrfiz,
	ppc.OpVrfiz128:     buildVrfiz,

	// Vector integer
	ppc.OpVaddsbs: buildVaddsbs,
	ppc.OpVaddshs: buildVaddshs,
	ppc.OpVaddsws: buildVaddsws,
	ppc.OpVaddubm: buildVaddubm,
	ppc.OpVaddubs: buildVaddubs,
	ppc.OpVadduhm: buildVadduhm,
	ppc.OpVadduwm: buildVadduwm,
	ppc.OpVadduws: buildVadduws,
	ppc.OpVsubsbs: buildVsubsbs,
	ppc.OpVsubshs: buildVsubshs,
	ppc.OpVsubsws: buildVsubsws,
	ppc.OpVsububm: buildVsububm,
	ppc.OpVsububs: buildVsububs,
	ppc.OpVsubuhm: buildVsubuhm,
	ppc.OpVsubuhs: buildVsubuhs,
	ppc.OpVsubuwm: buildVsubuwm,
	ppc.OpVsubuws: buildVsubuws,
	ppc.OpVmaxsh:  buildVmaxsh,
	ppc.OpVmaxsw:  buildVmaxsw,
	ppc.OpVmaxuh:  buildVmaxuh,
	ppc.OpVminsh:  buildVminsh,
	ppc.OpVminsw:  buildVminsw,
	ppc.OpVminuh:  buildVminuh,
	ppc.OpVavgsb:  buildVavgsb,
	ppc.OpVavgsh:  buildVavgsh,
	ppc.OpVavgub:  buildVavgub,
	ppc.OpVavguh:  buildVavguh,

	// Vector logical
	ppc.OpVand:     buildVand,
	ppc.OpVand128:  buildVand,
	ppc.OpVandc:    buildVandc,
	ppc.OpVandc128: buildVandc,
	ppc.OpVor:      buildVor,
	ppc.OpVor128:   buildVor,
	ppc.OpVxor:     buildVxor,
	ppc.OpVxor128:  buildVxor,
	ppc.OpVnor:     buildVnor,
	ppc.OpVnor128:  buildVnor,
	ppc.OpVsel:     buildVsel,
	ppc.OpVsel128:  buildVsel,

	// Vector compare
	ppc.OpVcmpbfp:     buildVcmpbfp,
	ppc.OpVcmpbfp128:  buildVcmpbfp,
	ppc.OpVcmpeqfp:    buildVcmpeqfp,
	ppc.OpVcmpeqfp128: buildVcmpeqfp,
	ppc.OpVcmpequb:    buildVcmpequb,
	ppc.OpVcmpequh:    buildVcmpequh,
	ppc.OpVcmpequw:    buildVcmpequw,
	ppc.OpVcmpequw128: buildVcmpequw,
	ppc.OpVcmpgefp:    buildVcmpgefp,
	ppc.OpVcmpgefp128: buildVcmpgefp,
	ppc.OpVcmpgtfp:    buildVcmpgtfp,
	ppc.OpVcmpgtfp128: buildVcmpgtfp,
	ppc.OpVcmpgtub:    buildVcmpgtub,
	ppc.OpVcmpgtuh:    buildVcmpgtuh,
	ppc.OpVcmpgtsh:    buildVcmpgtsh,
	ppc.OpVcmpgtsw:    buildVcmpgtsw,

	// Vector conversion
	ppc.OpVctsxs:      buildVctsxs,
	ppc.OpVcfpsxws128: buildVctsxs,
	ppc.OpVctuxs:      buildVctuxs,
	ppc.OpVcfpuxws128: buildVctuxs,
	ppc.OpVcfsx:       buildVcfsx,
	ppc.OpVcsxwfp128:  buildVcfsx,
	ppc.OpVcfux:       buildVcfux,
	ppc.OpVcuxwfp128:  buildVcfux,

	// Vector merge
	ppc.OpVmrghb:    buildVmrghb,
	ppc.OpVmrghh:    buildVmrghh,
	ppc.OpVmrghw:    buildVmrghw,
	ppc.OpVmrghw128: buildVmrghw,
	ppc.OpVmrglb:    buildVmrglb,
	ppc.OpVmrglh:    buildVmrglh,
	ppc.OpVmrglw:    buildVmrglw,
	ppc.OpVmrglw128: buildVmrglw,

	// Vector permute
	ppc.OpVperm:      buildVperm,
	ppc.OpVperm128:   buildVperm,
	ppc.OpVpermwi128: buildVpermwi128,
	ppc.OpVrlimi128:  buildVrlimi128,

	// Vector shift
	ppc.OpVsl:        buildVsl,
	ppc.OpVslb:       buildVslb,
	ppc.OpVslh:       buildVslh,
	ppc.OpVsldoi:     buildVsldoi,
	ppc.OpVsldoi128:  buildVsldoi,
	ppc.OpVslw:       buildVslw,
	ppc.OpVslw128:    buildVslw,
	ppc.OpVslo:       buildVslo,
	ppc.OpVslo128:    buildVslo,
	ppc.OpVsr:        buildVsr,
	ppc.OpVsrh:       buildVsrh,
	ppc.OpVsrab:      buildVsrab,
	ppc.OpVsrah:      buildVsrah,
	ppc.OpVsraw:      buildVsraw,
	ppc.OpVsraw128:   buildVsraw,
	ppc.OpVsrw:       buildVsrw,
	ppc.OpVsrw128:    buildVsrw,
	ppc.OpVsro:       buildVsro,
	ppc.OpVsro128:    buildVsro,
	ppc.OpVrlh:       buildVrlh,

	// Vector splat
	ppc.OpVspltb:      buildVspltb,
	ppc.OpVsplth:      buildVsplth,
	ppc.OpVspltisb:    buildVspltisb,
	ppc.OpVspltish:    buildVspltish,
	ppc.OpVspltisw:    buildVspltisw,
	ppc.OpVspltisw128: buildVspltisw,
	ppc.OpVspltw:      buildVspltw,
	ppc.OpVspltw128:   buildVspltw,

	// Vector pack
	ppc.OpVpkuhum:    buildVpkuhum,
	ppc.OpVpkuhum128: buildVpkuhum,
	ppc.OpVpkuhus:    buildVpkuhus,
	ppc.OpVpkuhus128: buildVpkuhus,
	ppc.OpVpkuwum:    buildVpkuwum,
	ppc.OpVpkuwum128: buildVpkuwum,
	ppc.OpVpkuwus:    buildVpkuwus,
	ppc.OpVpkuwus128: buildVpkuwus,
	ppc.OpVpkshss:    buildVpkshss,
	ppc.OpVpkshss128: buildVpkshss,
	ppc.OpVpkshus:    buildVpkshus,
	ppc.OpVpkshus128: buildVpkshus,
	ppc.OpVpkswss:    buildVpkswss,
	ppc.OpVpkswss128: buildVpkswss,
	ppc.OpVpkswus:    buildVpkswus,
	ppc.OpVpkswus128: buildVpkswus,
	ppc.OpVpkd3d128:  buildVpkd3d128,

	// Vector unpack
	ppc.OpVupkd3d128: buildVupkd3d128,
	ppc.OpVupkhsb:    buildVupkhsb,
	ppc.OpVupkhsb128: buildVupkhsb,
	ppc.OpVupkhsh:    buildVupkhsh,
	ppc.OpVupkhsh128: buildVupkhsh,
	ppc.OpVupklsb:    buildVupklsb,
	ppc.OpVupklsb128: buildVupklsb,
	ppc.OpVupklsh:    buildVupklsh,
	ppc.OpVupklsh128: buildVupklsh,
}

// DispatchInstruction routes the decoded instruction in the context to its
// builder. Opcodes with no mapping emit a runtime trap stub so the
// generated tests can exercise the function and fail at runtime rather
// than silently dropping the instruction.
func DispatchInstruction(id ppc.Op, c *BuilderContext) bool {
	if builder, ok := dispatchTable[id]; ok {
		return builder(c)
	}

	logcg.Warn("Unimplemented: %s at 0x%08X", c.insn.Name, c.Addr)
	c.Println("\t// UNIMPLEMENTED: %s", c.insn.Name)
	c.Println("\tPPC_UNIMPLEMENTED(0x%X, \"%s\");", c.Addr, c.insn.Name)
	return true
}
