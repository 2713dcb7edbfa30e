package x86

import "github.com/colorfulnotion/x86jit/cpu"

var (
	opVbroadcastss = simdOp{name: "vbroadcastss", pp: simd66, esc: esc0F38, opcode: 0x18, shape: shapeRM, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input32, flags: fRegAVX2}
	opVbroadcastsd = simdOp{name: "vbroadcastsd", pp: simd66, esc: esc0F38, opcode: 0x19, shape: shapeRM, w: true, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input64, flags: fRegAVX2 | fWReverted}
	opVpbroadcastb = simdOp{name: "vpbroadcastb", pp: simd66, esc: esc0F38, opcode: 0x78, shape: shapeRM, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512BW, tuple: TupleT1S, input: Input8}
	opVpbroadcastw = simdOp{name: "vpbroadcastw", pp: simd66, esc: esc0F38, opcode: 0x79, shape: shapeRM, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512BW, tuple: TupleT1S, input: Input16}
	opVpbroadcastd = simdOp{name: "vpbroadcastd", pp: simd66, esc: esc0F38, opcode: 0x58, shape: shapeRM, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleT1S, input: Input32}
	opVpbroadcastq = simdOp{name: "vpbroadcastq", pp: simd66, esc: esc0F38, opcode: 0x59, shape: shapeRM, w: true, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleT1S, input: Input64, flags: fWReverted}

	// 128-bit lane inserts/extracts; under EVEX these are the 32x4 forms.
	opVinserti128  = simdOp{name: "vinserti128", pp: simd66, esc: esc0F3A, opcode: 0x38, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleT4, input: Input32, flags: fImm}
	opVinsertf128  = simdOp{name: "vinsertf128", pp: simd66, esc: esc0F3A, opcode: 0x18, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT4, input: Input32, flags: fImm}
	opVextracti128 = simdOp{name: "vextracti128", pp: simd66, esc: esc0F3A, opcode: 0x39, shape: shapeMR, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleT4, input: Input32, flags: fImm}
	opVextractf128 = simdOp{name: "vextractf128", pp: simd66, esc: esc0F3A, opcode: 0x19, shape: shapeMR, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT4, input: Input32, flags: fImm}

	opVperm2i128 = simdOp{name: "vperm2i128", pp: simd66, esc: esc0F3A, opcode: 0x46, avx256: cpu.AVX2, flags: fImm}
	opVperm2f128 = simdOp{name: "vperm2f128", pp: simd66, esc: esc0F3A, opcode: 0x06, avx256: cpu.AVX, flags: fImm}
	opVpermq     = simdOp{name: "vpermq", pp: simd66, esc: esc0F3A, opcode: 0x00, shape: shapeRM, w: true, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fImm | fBcst}
	opVpermd     = simdOp{name: "vpermd", pp: simd66, esc: esc0F38, opcode: 0x36, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}

	opVpsllvd = simdOp{name: "vpsllvd", pp: simd66, esc: esc0F38, opcode: 0x47, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}
	opVpsllvq = simdOp{name: "vpsllvq", pp: simd66, esc: esc0F38, opcode: 0x47, w: true, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}
	opVpsrlvd = simdOp{name: "vpsrlvd", pp: simd66, esc: esc0F38, opcode: 0x45, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}
	opVpsrlvq = simdOp{name: "vpsrlvq", pp: simd66, esc: esc0F38, opcode: 0x45, w: true, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}
	opVpsravd = simdOp{name: "vpsravd", pp: simd66, esc: esc0F38, opcode: 0x46, avx: cpu.AVX2, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}

	opVblendvps = simdOp{name: "vblendvps", pp: simd66, esc: esc0F3A, opcode: 0x4A, shape: shapeRVMR, avx: cpu.AVX, avx256: cpu.AVX}
	opVblendvpd = simdOp{name: "vblendvpd", pp: simd66, esc: esc0F3A, opcode: 0x4B, shape: shapeRVMR, avx: cpu.AVX, avx256: cpu.AVX}
	opVpblendd  = simdOp{name: "vpblendd", pp: simd66, esc: esc0F3A, opcode: 0x02, avx: cpu.AVX2, avx256: cpu.AVX2, flags: fImm}
)

// fma builds one FMA3 row; the 231 forms compute dst = nds*src + dst.
func fma(name string, opcode byte, w, scalar bool) simdOp {
	op := simdOp{name: name, pp: simd66, esc: esc0F38, opcode: opcode, w: w, avx: cpu.FMA, avx256: cpu.FMA, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst | fRound}
	if scalar {
		op.avx256 = cpu.NoFeature
		op.tuple = TupleT1S
		op.flags = fScalar | fRound
	}
	return op
}

var (
	opVfmadd231ps  = fma("vfmadd231ps", 0xB8, false, false)
	opVfmadd231pd  = fma("vfmadd231pd", 0xB8, true, false)
	opVfmadd231ss  = fma("vfmadd231ss", 0xB9, false, true)
	opVfmadd231sd  = fma("vfmadd231sd", 0xB9, true, true)
	opVfmsub231ps  = fma("vfmsub231ps", 0xBA, false, false)
	opVfmsub231pd  = fma("vfmsub231pd", 0xBA, true, false)
	opVfmsub231ss  = fma("vfmsub231ss", 0xBB, false, true)
	opVfmsub231sd  = fma("vfmsub231sd", 0xBB, true, true)
	opVfnmadd231ps = fma("vfnmadd231ps", 0xBC, false, false)
	opVfnmadd231pd = fma("vfnmadd231pd", 0xBC, true, false)
	opVfnmadd231ss = fma("vfnmadd231ss", 0xBD, false, true)
	opVfnmadd231sd = fma("vfnmadd231sd", 0xBD, true, true)
)

func (a *Assembler) Vbroadcastss(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opVbroadcastss, dst, src, vlen)
}

// Vbroadcastsd has no 128-bit form.
func (a *Assembler) Vbroadcastsd(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opVbroadcastsd, dst, src, vlen)
}

func (a *Assembler) Vpbroadcastb(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opVpbroadcastb, dst, src, vlen)
}

func (a *Assembler) Vpbroadcastw(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opVpbroadcastw, dst, src, vlen)
}

func (a *Assembler) Vpbroadcastd(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opVpbroadcastd, dst, src, vlen)
}

func (a *Assembler) Vpbroadcastq(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opVpbroadcastq, dst, src, vlen)
}

// Vinserti128 replaces the 128-bit lane selected by imm8 bit 0.
func (a *Assembler) Vinserti128(dst, nds XMMRegister, src Operand, lane Imm) {
	a.vImm(&opVinserti128, dst, nds, src, lane, AVX256)
}

func (a *Assembler) Vinsertf128(dst, nds XMMRegister, src Operand, lane Imm) {
	a.vImm(&opVinsertf128, dst, nds, src, lane, AVX256)
}

func (a *Assembler) Vextracti128(dst Operand, src XMMRegister, lane Imm) {
	a.simd(&opVextracti128, simdArgs{reg: src, rm: dst, imm: lane, vlen: AVX256})
}

func (a *Assembler) Vextractf128(dst Operand, src XMMRegister, lane Imm) {
	a.simd(&opVextractf128, simdArgs{reg: src, rm: dst, imm: lane, vlen: AVX256})
}

func (a *Assembler) Vperm2i128(dst, nds XMMRegister, src Operand, sel Imm) {
	a.vImm(&opVperm2i128, dst, nds, src, sel, AVX256)
}

func (a *Assembler) Vperm2f128(dst, nds XMMRegister, src Operand, sel Imm) {
	a.vImm(&opVperm2f128, dst, nds, src, sel, AVX256)
}

// Vpermq permutes qwords across the whole vector; there is no 128-bit form.
func (a *Assembler) Vpermq(dst XMMRegister, src Operand, sel Imm, vlen AvxVectorLen) {
	if vlen == AVX128 {
		a.emit(func() error { return operandError("vpermq has no 128-bit form") })
		return
	}
	a.v2Imm(&opVpermq, dst, src, sel, vlen)
}

// Vpermd permutes dwords of src by the indices in nds.
func (a *Assembler) Vpermd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	if vlen == AVX128 {
		a.emit(func() error { return operandError("vpermd has no 128-bit form") })
		return
	}
	a.v(&opVpermd, dst, nds, src, vlen)
}

// Vzeroupper clears the upper halves of all ymm registers.
func (a *Assembler) Vzeroupper() {
	a.simpleGated("vzeroupper", cpu.AVX, X86_VEX_2BYTE, 0xF8, 0x77)
}

func (a *Assembler) Vpsllvd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVpsllvd, dst, nds, src, vlen)
}

func (a *Assembler) Vpsllvq(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVpsllvq, dst, nds, src, vlen)
}

func (a *Assembler) Vpsrlvd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVpsrlvd, dst, nds, src, vlen)
}

func (a *Assembler) Vpsrlvq(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVpsrlvq, dst, nds, src, vlen)
}

func (a *Assembler) Vpsravd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVpsravd, dst, nds, src, vlen)
}

// Vblendvps picks lanes of src where the sign bit of mask is set.
func (a *Assembler) Vblendvps(dst, nds XMMRegister, src Operand, mask XMMRegister, vlen AvxVectorLen) {
	a.simd(&opVblendvps, simdArgs{reg: dst, nds: nds, rm: src, is4: mask, vlen: vlen})
}

func (a *Assembler) Vblendvpd(dst, nds XMMRegister, src Operand, mask XMMRegister, vlen AvxVectorLen) {
	a.simd(&opVblendvpd, simdArgs{reg: dst, nds: nds, rm: src, is4: mask, vlen: vlen})
}

func (a *Assembler) Vpblendd(dst, nds XMMRegister, src Operand, sel Imm, vlen AvxVectorLen) {
	a.vImm(&opVpblendd, dst, nds, src, sel, vlen)
}

func (a *Assembler) Vfmadd231ps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVfmadd231ps, dst, nds, src, vlen)
}

func (a *Assembler) Vfmadd231pd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVfmadd231pd, dst, nds, src, vlen)
}

func (a *Assembler) Vfmadd231ss(dst, nds XMMRegister, src Operand) {
	a.v(&opVfmadd231ss, dst, nds, src, AVX128)
}

func (a *Assembler) Vfmadd231sd(dst, nds XMMRegister, src Operand) {
	a.v(&opVfmadd231sd, dst, nds, src, AVX128)
}

func (a *Assembler) Vfmsub231ps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVfmsub231ps, dst, nds, src, vlen)
}

func (a *Assembler) Vfmsub231pd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVfmsub231pd, dst, nds, src, vlen)
}

func (a *Assembler) Vfmsub231ss(dst, nds XMMRegister, src Operand) {
	a.v(&opVfmsub231ss, dst, nds, src, AVX128)
}

func (a *Assembler) Vfmsub231sd(dst, nds XMMRegister, src Operand) {
	a.v(&opVfmsub231sd, dst, nds, src, AVX128)
}

func (a *Assembler) Vfnmadd231ps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVfnmadd231ps, dst, nds, src, vlen)
}

func (a *Assembler) Vfnmadd231pd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opVfnmadd231pd, dst, nds, src, vlen)
}

func (a *Assembler) Vfnmadd231ss(dst, nds XMMRegister, src Operand) {
	a.v(&opVfnmadd231ss, dst, nds, src, AVX128)
}

func (a *Assembler) Vfnmadd231sd(dst, nds XMMRegister, src Operand) {
	a.v(&opVfnmadd231sd, dst, nds, src, AVX128)
}
