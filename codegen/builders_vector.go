package codegen

import "fmt"

// Vector builders. Registers hold the 16 bytes in the reverse of the guest
// byte order, so lane indices and merge/pack directions are mirrored
// throughout.

func emitVInt3(c *BuilderContext, intrinsic string) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_%s(%s, %s)", intrinsic, vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(2)))))
	return true
}

func emitVFloat3(c *BuilderContext, intrinsic string) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_%s(%s, %s)", intrinsic, vLoadF(c.Vr(c.Op(1))), vLoadF(c.Vr(c.Op(2)))))
	return true
}

func buildVaddfp(c *BuilderContext) bool { return emitVFloat3(c, "add_ps") }
func buildVsubfp(c *BuilderContext) bool { return emitVFloat3(c, "sub_ps") }
func buildVmaxfp(c *BuilderContext) bool { return emitVFloat3(c, "max_ps") }
func buildVminfp(c *BuilderContext) bool { return emitVFloat3(c, "min_ps") }

func buildVmulfp128(c *BuilderContext) bool { return emitVFloat3(c, "mul_ps") }

func buildVmaddfp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_add_ps(simde_mm_mul_ps(%s, %s), %s)",
			vLoadF(c.Vr(c.Op(1))), vLoadF(c.Vr(c.Op(2))), vLoadF(c.Vr(c.Op(3)))))
	return true
}

func buildVnmsubfp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_xor_ps(simde_mm_sub_ps(simde_mm_mul_ps(%s, %s), %s), simde_mm_castsi128_ps(simde_mm_set1_epi32(int(0x80000000))))",
			vLoadF(c.Vr(c.Op(1))), vLoadF(c.Vr(c.Op(2))), vLoadF(c.Vr(c.Op(3)))))
	return true
}

func buildVrefp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)), fmt.Sprintf("simde_mm_rcp_ps(%s)", vLoadF(c.Vr(c.Op(1)))))
	return true
}

func buildVrsqrtefp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)), fmt.Sprintf("simde_mm_rsqrt_ps(%s)", vLoadF(c.Vr(c.Op(1)))))
	return true
}

func buildVexptefp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.f32[i] = exp2f(%s.f32[i]);", c.Vr(c.Op(0)), c.Vr(c.Op(1)))
	return true
}

func buildVlogefp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.f32[i] = log2f(%s.f32[i]);", c.Vr(c.Op(0)), c.Vr(c.Op(1)))
	return true
}

func buildVmsum3fp128(c *BuilderContext) bool {
	// Dot product over the three high guest lanes; with the register
	// reversal that is lanes yzw of the stored vector.
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_dp_ps(%s, %s, 0xEF)", vLoadF(c.Vr(c.Op(1))), vLoadF(c.Vr(c.Op(2)))))
	return true
}

func buildVmsum4fp128(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_dp_ps(%s, %s, 0xFF)", vLoadF(c.Vr(c.Op(1))), vLoadF(c.Vr(c.Op(2)))))
	return true
}

func emitVRound(c *BuilderContext, mode string) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_round_ps(%s, %s | SIMDE_MM_FROUND_NO_EXC)", vLoadF(c.Vr(c.Op(1))), mode))
	return true
}

func buildVrfim(c *BuilderContext) bool { return emitVRound(c, "SIMDE_MM_FROUND_TO_NEG_INF") }
func buildVrfin(c *BuilderContext) bool { return emitVRound(c, "SIMDE_MM_FROUND_TO_NEAREST_INT") }
func buildVrfip(c *BuilderContext) bool { return emitVRound(c, "SIMDE_MM_FROUND_TO_POS_INF") }
func buildVrfiz(c *BuilderContext) bool { return emitVRound(c, "SIMDE_MM_FROUND_TO_ZERO") }

func buildVaddubm(c *BuilderContext) bool { return emitVInt3(c, "add_epi8") }
func buildVadduhm(c *BuilderContext) bool { return emitVInt3(c, "add_epi16") }
func buildVadduwm(c *BuilderContext) bool { return emitVInt3(c, "add_epi32") }
func buildVaddubs(c *BuilderContext) bool { return emitVInt3(c, "adds_epu8") }
func buildVaddsbs(c *BuilderContext) bool { return emitVInt3(c, "adds_epi8") }
func buildVaddshs(c *BuilderContext) bool { return emitVInt3(c, "adds_epi16") }

func buildVaddsws(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\tint64_t s = int64_t(%s.s32[i]) + %s.s32[i];", c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	c.Println("\t\t%s.s32[i] = s > INT_MAX ? INT_MAX : (s < INT_MIN ? INT_MIN : int32_t(s));", c.Vr(c.Op(0)))
	c.Println("\t}")
	return true
}

func buildVadduws(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\tuint64_t s = uint64_t(%s.u32[i]) + %s.u32[i];", c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	c.Println("\t\t%s.u32[i] = s > UINT_MAX ? UINT_MAX : uint32_t(s);", c.Vr(c.Op(0)))
	c.Println("\t}")
	return true
}

func buildVsububm(c *BuilderContext) bool { return emitVInt3(c, "sub_epi8") }
func buildVsubuhm(c *BuilderContext) bool { return emitVInt3(c, "sub_epi16") }
func buildVsubuwm(c *BuilderContext) bool { return emitVInt3(c, "sub_epi32") }
func buildVsububs(c *BuilderContext) bool { return emitVInt3(c, "subs_epu8") }
func buildVsubuhs(c *BuilderContext) bool { return emitVInt3(c, "subs_epu16") }
func buildVsubsbs(c *BuilderContext) bool { return emitVInt3(c, "subs_epi8") }
func buildVsubshs(c *BuilderContext) bool { return emitVInt3(c, "subs_epi16") }

func buildVsubsws(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\tint64_t s = int64_t(%s.s32[i]) - %s.s32[i];", c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	c.Println("\t\t%s.s32[i] = s > INT_MAX ? INT_MAX : (s < INT_MIN ? INT_MIN : int32_t(s));", c.Vr(c.Op(0)))
	c.Println("\t}")
	return true
}

func buildVsubuws(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.u32[i] = %s.u32[i] < %s.u32[i] ? 0 : %s.u32[i] - %s.u32[i];",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVmaxsh(c *BuilderContext) bool { return emitVInt3(c, "max_epi16") }
func buildVmaxsw(c *BuilderContext) bool { return emitVInt3(c, "max_epi32") }
func buildVmaxuh(c *BuilderContext) bool { return emitVInt3(c, "max_epu16") }
func buildVminsh(c *BuilderContext) bool { return emitVInt3(c, "min_epi16") }
func buildVminsw(c *BuilderContext) bool { return emitVInt3(c, "min_epi32") }
func buildVminuh(c *BuilderContext) bool { return emitVInt3(c, "min_epu16") }

func buildVavgub(c *BuilderContext) bool { return emitVInt3(c, "avg_epu8") }
func buildVavguh(c *BuilderContext) bool { return emitVInt3(c, "avg_epu16") }

func buildVavgsb(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 16; i++)")
	c.Println("\t\t%s.s8[i] = (int16_t(%s.s8[i]) + %s.s8[i] + 1) >> 1;",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVavgsh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++)")
	c.Println("\t\t%s.s16[i] = (int32_t(%s.s16[i]) + %s.s16[i] + 1) >> 1;",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVand(c *BuilderContext) bool { return emitVInt3(c, "and_si128") }
func buildVor(c *BuilderContext) bool  { return emitVInt3(c, "or_si128") }
func buildVxor(c *BuilderContext) bool { return emitVInt3(c, "xor_si128") }

func buildVandc(c *BuilderContext) bool {
	// d = a & ~b; andnot negates its first operand.
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_andnot_si128(%s, %s)", vLoad(c.Vr(c.Op(2))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVnor(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_xor_si128(simde_mm_or_si128(%s, %s), simde_mm_set1_epi32(-1))",
			vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(2)))))
	return true
}

func buildVsel(c *BuilderContext) bool {
	// d = (a & ~m) | (b & m)
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_or_si128(simde_mm_and_si128(%s, %s), simde_mm_andnot_si128(%s, %s))",
			vLoad(c.Vr(c.Op(3))), vLoad(c.Vr(c.Op(2))),
			vLoad(c.Vr(c.Op(3))), vLoad(c.Vr(c.Op(1)))))
	return true
}

// emitVCmpRecord emits the CR6 update for record-form vector compares.
func emitVCmpRecord(c *BuilderContext) {
	if c.insn.IsRecordForm() {
		c.Println("\t%s.setFromMask(%s, 0xFFFF);", c.Cr(6), vLoad(c.Vr(c.Op(0))))
	}
}

func emitVCmpInt(c *BuilderContext, intrinsic string) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_%s(%s, %s)", intrinsic, vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(2)))))
	emitVCmpRecord(c)
	return true
}

func buildVcmpequb(c *BuilderContext) bool { return emitVCmpInt(c, "cmpeq_epi8") }
func buildVcmpequh(c *BuilderContext) bool { return emitVCmpInt(c, "cmpeq_epi16") }
func buildVcmpequw(c *BuilderContext) bool { return emitVCmpInt(c, "cmpeq_epi32") }
func buildVcmpgtsh(c *BuilderContext) bool { return emitVCmpInt(c, "cmpgt_epi16") }
func buildVcmpgtsw(c *BuilderContext) bool { return emitVCmpInt(c, "cmpgt_epi32") }

func emitVCmpFloat(c *BuilderContext, intrinsic string) bool {
	c.EmitSetFlushMode(true)
	c.vStoreF(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_%s(%s, %s)", intrinsic, vLoadF(c.Vr(c.Op(1))), vLoadF(c.Vr(c.Op(2)))))
	emitVCmpRecord(c)
	return true
}

func buildVcmpeqfp(c *BuilderContext) bool { return emitVCmpFloat(c, "cmpeq_ps") }
func buildVcmpgefp(c *BuilderContext) bool { return emitVCmpFloat(c, "cmpge_ps") }
func buildVcmpgtfp(c *BuilderContext) bool { return emitVCmpFloat(c, "cmpgt_ps") }

func buildVcmpgtub(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_cmpgt_epi8(simde_mm_xor_si128(%s, simde_mm_set1_epi8(char(0x80))), simde_mm_xor_si128(%s, simde_mm_set1_epi8(char(0x80))))",
			vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(2)))))
	emitVCmpRecord(c)
	return true
}

func buildVcmpgtuh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_cmpgt_epi16(simde_mm_xor_si128(%s, simde_mm_set1_epi16(short(0x8000))), simde_mm_xor_si128(%s, simde_mm_set1_epi16(short(0x8000))))",
			vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(2)))))
	emitVCmpRecord(c)
	return true
}

func buildVcmpbfp(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\tuint32_t r = 0;")
	c.Println("\t\tif (!(%s.f32[i] <= %s.f32[i])) r |= 0x80000000;", c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	c.Println("\t\tif (!(%s.f32[i] >= -%s.f32[i])) r |= 0x40000000;", c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	c.Println("\t\t%s.u32[i] = r;", c.Vr(c.Op(0)))
	c.Println("\t}")
	emitVCmpRecord(c)
	return true
}

func buildVctsxs(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	scale := uint64(1) << c.Op(2)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\tdouble x = double(%s.f32[i]) * %d;", c.Vr(c.Op(1)), scale)
	c.Println("\t\t%s.s32[i] = x > INT_MAX ? INT_MAX : (x < INT_MIN ? INT_MIN : int32_t(x));", c.Vr(c.Op(0)))
	c.Println("\t}")
	return true
}

func buildVctuxs(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	scale := uint64(1) << c.Op(2)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\tdouble x = double(%s.f32[i]) * %d;", c.Vr(c.Op(1)), scale)
	c.Println("\t\t%s.u32[i] = x > UINT_MAX ? UINT_MAX : (x < 0 ? 0 : uint32_t(x));", c.Vr(c.Op(0)))
	c.Println("\t}")
	return true
}

func buildVcfsx(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	scale := uint64(1) << c.Op(2)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.f32[i] = float(double(%s.s32[i]) / %d);", c.Vr(c.Op(0)), c.Vr(c.Op(1)), scale)
	return true
}

func buildVcfux(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	scale := uint64(1) << c.Op(2)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.f32[i] = float(double(%s.u32[i]) / %d);", c.Vr(c.Op(0)), c.Vr(c.Op(1)), scale)
	return true
}

// Merges interleave from the mirrored ends of the stored lanes, so guest
// "high" maps to unpackhi with the operands swapped.

func emitVMerge(c *BuilderContext, intrinsic string) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_%s(%s, %s)", intrinsic, vLoad(c.Vr(c.Op(2))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVmrghb(c *BuilderContext) bool { return emitVMerge(c, "unpackhi_epi8") }
func buildVmrghh(c *BuilderContext) bool { return emitVMerge(c, "unpackhi_epi16") }
func buildVmrghw(c *BuilderContext) bool { return emitVMerge(c, "unpackhi_epi32") }
func buildVmrglb(c *BuilderContext) bool { return emitVMerge(c, "unpacklo_epi8") }
func buildVmrglh(c *BuilderContext) bool { return emitVMerge(c, "unpacklo_epi16") }
func buildVmrglw(c *BuilderContext) bool { return emitVMerge(c, "unpacklo_epi32") }

func buildVperm(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 16; i++) {")
	c.Println("\t\tuint8_t sel = %s.u8[15 - i];", c.Vr(c.Op(3)))
	c.Println("\t\t%s.u8[15 - i] = sel & 0x10 ? %s.u8[15 - (sel & 0xF)] : %s.u8[15 - (sel & 0xF)];",
		c.VTemp(), c.Vr(c.Op(2)), c.Vr(c.Op(1)))
	c.Println("\t}")
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVpermwi128(c *BuilderContext) bool {
	// The 2-bit word selectors mirror under the register reversal, which is
	// a bitwise complement of the shuffle immediate.
	c.EmitSetFlushMode(true)
	imm := ^c.Op(2) & 0xFF
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_shuffle_epi32(%s, 0x%X)", vLoad(c.Vr(c.Op(1))), imm))
	return true
}

func buildVrlimi128(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	mask := c.Op(2) & 0xF
	z := c.Op(3) & 3
	var shuffle uint32
	for j := uint32(0); j < 4; j++ {
		shuffle |= ((j - z) & 3) << (2 * j)
	}
	c.Println("\tsimde_mm_store_ps(%s.f32, simde_mm_blend_ps(simde_mm_load_ps(%s.f32), simde_mm_castsi128_ps(simde_mm_shuffle_epi32(%s, 0x%X)), 0x%X));",
		c.Vr(c.Op(0)), c.Vr(c.Op(0)), vLoad(c.Vr(c.Op(1))), shuffle, mask)
	return true
}

func buildVsl(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\t%s.u8 = %s.u8[0] & 7;", c.Temp(), c.Vr(c.Op(2)))
	c.Println("\t%s.u64[1] = (%s.u64[1] << %s.u8) | (%s.u8 ? %s.u64[0] >> (64 - %s.u8) : 0);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Temp(), c.Temp(), c.Vr(c.Op(1)), c.Temp())
	c.Println("\t%s.u64[0] = %s.u64[0] << %s.u8;", c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Temp())
	return true
}

func buildVsr(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\t%s.u8 = %s.u8[0] & 7;", c.Temp(), c.Vr(c.Op(2)))
	c.Println("\t%s.u64[0] = (%s.u64[0] >> %s.u8) | (%s.u8 ? %s.u64[1] << (64 - %s.u8) : 0);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Temp(), c.Temp(), c.Vr(c.Op(1)), c.Temp())
	c.Println("\t%s.u64[1] = %s.u64[1] >> %s.u8;", c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Temp())
	return true
}

func buildVslb(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 16; i++)")
	c.Println("\t\t%s.u8[i] = %s.u8[i] << (%s.u8[i] & 7);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVslh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++)")
	c.Println("\t\t%s.u16[i] = %s.u16[i] << (%s.u16[i] & 0xF);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVslw(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.u32[i] = %s.u32[i] << (%s.u32[i] & 0x1F);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVsrh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++)")
	c.Println("\t\t%s.u16[i] = %s.u16[i] >> (%s.u16[i] & 0xF);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVsrw(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.u32[i] = %s.u32[i] >> (%s.u32[i] & 0x1F);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVsrab(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 16; i++)")
	c.Println("\t\t%s.s8[i] = %s.s8[i] >> (%s.u8[i] & 7);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVsrah(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++)")
	c.Println("\t\t%s.s16[i] = %s.s16[i] >> (%s.u16[i] & 0xF);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVsraw(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++)")
	c.Println("\t\t%s.s32[i] = %s.s32[i] >> (%s.u32[i] & 0x1F);",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVslo(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\t%s.u8 = (%s.u8[0] >> 3) & 0xF;", c.Temp(), c.Vr(c.Op(2)))
	c.Println("\tfor (size_t i = 0; i < 16; i++)")
	c.Println("\t\t%s.u8[i] = i >= %s.u8 ? %s.u8[i - %s.u8] : 0;",
		c.VTemp(), c.Temp(), c.Vr(c.Op(1)), c.Temp())
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVsro(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\t%s.u8 = (%s.u8[0] >> 3) & 0xF;", c.Temp(), c.Vr(c.Op(2)))
	c.Println("\tfor (size_t i = 0; i < 16; i++)")
	c.Println("\t\t%s.u8[i] = i + %s.u8 < 16 ? %s.u8[i + %s.u8] : 0;",
		c.VTemp(), c.Temp(), c.Vr(c.Op(1)), c.Temp())
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVsldoi(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_alignr_epi8(%s, %s, %d)",
			vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(2))), 16-c.Op(3)))
	return true
}

func buildVrlh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++)")
	c.Println("\t\t%s.u16[i] = (%s.u16[i] << (%s.u16[i] & 0xF)) | (%s.u16[i] >> ((16 - (%s.u16[i] & 0xF)) & 0xF));",
		c.Vr(c.Op(0)), c.Vr(c.Op(1)), c.Vr(c.Op(2)), c.Vr(c.Op(1)), c.Vr(c.Op(2)))
	return true
}

func buildVspltb(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_set1_epi8(%s.u8[%d])", c.Vr(c.Op(1)), 15-c.Op(2)))
	return true
}

func buildVsplth(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_set1_epi16(%s.u16[%d])", c.Vr(c.Op(1)), 7-c.Op(2)))
	return true
}

func buildVspltw(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_set1_epi32(%s.u32[%d])", c.Vr(c.Op(1)), 3-c.Op(2)))
	return true
}

func buildVspltisb(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)), fmt.Sprintf("simde_mm_set1_epi8(%d)", c.SOp(1)))
	return true
}

func buildVspltish(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)), fmt.Sprintf("simde_mm_set1_epi16(%d)", c.SOp(1)))
	return true
}

func buildVspltisw(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)), fmt.Sprintf("simde_mm_set1_epi32(%d)", c.SOp(1)))
	return true
}

// Packs narrow b into the stored low half and a into the stored high half,
// mirroring the guest order.

func buildVpkshss(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_packs_epi16(%s, %s)", vLoad(c.Vr(c.Op(2))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVpkshus(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_packus_epi16(%s, %s)", vLoad(c.Vr(c.Op(2))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVpkswss(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_packs_epi32(%s, %s)", vLoad(c.Vr(c.Op(2))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVpkswus(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_packus_epi32(%s, %s)", vLoad(c.Vr(c.Op(2))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVpkuhum(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++) {")
	c.Println("\t\t%s.u8[i] = uint8_t(%s.u16[i]);", c.VTemp(), c.Vr(c.Op(2)))
	c.Println("\t\t%s.u8[i + 8] = uint8_t(%s.u16[i]);", c.VTemp(), c.Vr(c.Op(1)))
	c.Println("\t}")
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVpkuhus(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 8; i++) {")
	c.Println("\t\t%s.u8[i] = %s.u16[i] > 0xFF ? 0xFF : uint8_t(%s.u16[i]);",
		c.VTemp(), c.Vr(c.Op(2)), c.Vr(c.Op(2)))
	c.Println("\t\t%s.u8[i + 8] = %s.u16[i] > 0xFF ? 0xFF : uint8_t(%s.u16[i]);",
		c.VTemp(), c.Vr(c.Op(1)), c.Vr(c.Op(1)))
	c.Println("\t}")
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVpkuwum(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\t%s.u16[i] = uint16_t(%s.u32[i]);", c.VTemp(), c.Vr(c.Op(2)))
	c.Println("\t\t%s.u16[i + 4] = uint16_t(%s.u32[i]);", c.VTemp(), c.Vr(c.Op(1)))
	c.Println("\t}")
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVpkuwus(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.Println("\tfor (size_t i = 0; i < 4; i++) {")
	c.Println("\t\t%s.u16[i] = %s.u32[i] > 0xFFFF ? 0xFFFF : uint16_t(%s.u32[i]);",
		c.VTemp(), c.Vr(c.Op(2)), c.Vr(c.Op(2)))
	c.Println("\t\t%s.u16[i + 4] = %s.u32[i] > 0xFFFF ? 0xFFFF : uint16_t(%s.u32[i]);",
		c.VTemp(), c.Vr(c.Op(1)), c.Vr(c.Op(1)))
	c.Println("\t}")
	c.vStore(c.Vr(c.Op(0)), vLoad(c.VTemp()))
	return true
}

func buildVpkd3d128(c *BuilderContext) bool {
	// Packed Direct3D formats are untranslated; fail at runtime so the
	// generated tests flag the function.
	c.Println("\tPPC_UNIMPLEMENTED(0x%X, \"%s\");", c.Addr, c.insn.Name)
	return true
}

func buildVupkd3d128(c *BuilderContext) bool {
	c.Println("\tPPC_UNIMPLEMENTED(0x%X, \"%s\");", c.Addr, c.insn.Name)
	return true
}

func buildVupkhsb(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_cvtepi8_epi16(simde_mm_unpackhi_epi64(%s, %s))",
			vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVupklsb(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_cvtepi8_epi16(%s)", vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVupkhsh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_cvtepi16_epi32(simde_mm_unpackhi_epi64(%s, %s))",
			vLoad(c.Vr(c.Op(1))), vLoad(c.Vr(c.Op(1)))))
	return true
}

func buildVupklsh(c *BuilderContext) bool {
	c.EmitSetFlushMode(true)
	c.vStore(c.Vr(c.Op(0)),
		fmt.Sprintf("simde_mm_cvtepi16_epi32(%s)", vLoad(c.Vr(c.Op(1)))))
	return true
}
