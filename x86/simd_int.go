package x86

import "github.com/colorfulnotion/x86jit/cpu"

// pi builds a 66-prefixed integer SIMD row: AVX at 128 bits, AVX2 at 256.
func pi(name string, esc opEscape, opcode byte, sse, evex cpu.Feature, w bool, tuple TupleType, flags simdFlags) simdOp {
	return simdOp{name: name, pp: simd66, esc: esc, opcode: opcode, w: w, sse: sse, avx: cpu.AVX, avx256: cpu.AVX2, evex: evex, tuple: tuple, flags: flags}
}

// Element width helpers: byte and word rows need AVX512BW under EVEX and have
// no broadcast; dword and qword rows are AVX512F with {1toN}.
func piB(name string, esc opEscape, opcode byte, sse cpu.Feature) simdOp {
	return pi(name, esc, opcode, sse, cpu.AVX512BW, false, TupleFVM, 0)
}

func piD(name string, esc opEscape, opcode byte, sse cpu.Feature) simdOp {
	return pi(name, esc, opcode, sse, cpu.AVX512F, false, TupleFV, fBcst)
}

func piQ(name string, esc opEscape, opcode byte, sse cpu.Feature) simdOp {
	return pi(name, esc, opcode, sse, cpu.AVX512F, true, TupleFV, fBcst|fWReverted)
}

// piV is a VEX-only row (the EVEX forms write opmask registers).
func piV(name string, esc opEscape, opcode byte, sse cpu.Feature) simdOp {
	return pi(name, esc, opcode, sse, cpu.NoFeature, false, TupleNone, 0)
}

var (
	opPaddb = piB("paddb", esc0F, 0xFC, cpu.SSE2)
	opPaddw = piB("paddw", esc0F, 0xFD, cpu.SSE2)
	opPaddd = piD("paddd", esc0F, 0xFE, cpu.SSE2)
	opPaddq = piQ("paddq", esc0F, 0xD4, cpu.SSE2)
	opPsubb = piB("psubb", esc0F, 0xF8, cpu.SSE2)
	opPsubw = piB("psubw", esc0F, 0xF9, cpu.SSE2)
	opPsubd = piD("psubd", esc0F, 0xFA, cpu.SSE2)
	opPsubq = piQ("psubq", esc0F, 0xFB, cpu.SSE2)

	opPmullw  = piB("pmullw", esc0F, 0xD5, cpu.SSE2)
	opPmulld  = piD("pmulld", esc0F38, 0x40, cpu.SSE41)
	opPmuludq = piQ("pmuludq", esc0F, 0xF4, cpu.SSE2)

	opPand  = piD("pand", esc0F, 0xDB, cpu.SSE2)
	opPandn = piD("pandn", esc0F, 0xDF, cpu.SSE2)
	opPor   = piD("por", esc0F, 0xEB, cpu.SSE2)
	opPxor  = piD("pxor", esc0F, 0xEF, cpu.SSE2)

	opPcmpeqb = piV("pcmpeqb", esc0F, 0x74, cpu.SSE2)
	opPcmpeqw = piV("pcmpeqw", esc0F, 0x75, cpu.SSE2)
	opPcmpeqd = piV("pcmpeqd", esc0F, 0x76, cpu.SSE2)
	opPcmpeqq = piV("pcmpeqq", esc0F38, 0x29, cpu.SSE41)
	opPcmpgtb = piV("pcmpgtb", esc0F, 0x64, cpu.SSE2)
	opPcmpgtw = piV("pcmpgtw", esc0F, 0x65, cpu.SSE2)
	opPcmpgtd = piV("pcmpgtd", esc0F, 0x66, cpu.SSE2)
	opPcmpgtq = piV("pcmpgtq", esc0F38, 0x37, cpu.SSE42)

	opPminsb = piB("pminsb", esc0F38, 0x38, cpu.SSE41)
	opPminsw = piB("pminsw", esc0F, 0xEA, cpu.SSE2)
	opPminsd = piD("pminsd", esc0F38, 0x39, cpu.SSE41)
	opPminub = piB("pminub", esc0F, 0xDA, cpu.SSE2)
	opPminuw = piB("pminuw", esc0F38, 0x3A, cpu.SSE41)
	opPminud = piD("pminud", esc0F38, 0x3B, cpu.SSE41)
	opPmaxsb = piB("pmaxsb", esc0F38, 0x3C, cpu.SSE41)
	opPmaxsw = piB("pmaxsw", esc0F, 0xEE, cpu.SSE2)
	opPmaxsd = piD("pmaxsd", esc0F38, 0x3D, cpu.SSE41)
	opPmaxub = piB("pmaxub", esc0F, 0xDE, cpu.SSE2)
	opPmaxuw = piB("pmaxuw", esc0F38, 0x3E, cpu.SSE41)
	opPmaxud = piD("pmaxud", esc0F38, 0x3F, cpu.SSE41)

	opPshufb   = piB("pshufb", esc0F38, 0x00, cpu.SSSE3)
	opPalignr  = pi("palignr", esc0F3A, 0x0F, cpu.SSSE3, cpu.AVX512BW, false, TupleFVM, fImm)
	opPblendvb = simdOp{name: "pblendvb", pp: simd66, esc: esc0F38, opcode: 0x10, sse: cpu.SSE41}
	opVpblendvb = simdOp{name: "vpblendvb", pp: simd66, esc: esc0F3A, opcode: 0x4C, shape: shapeRVMR, avx: cpu.AVX, avx256: cpu.AVX2}
	opPtest    = simdOp{name: "ptest", pp: simd66, esc: esc0F38, opcode: 0x17, shape: shapeRM, sse: cpu.SSE41, avx: cpu.AVX, avx256: cpu.AVX}
	opPmovmskb = simdOp{name: "pmovmskb", pp: simd66, esc: esc0F, opcode: 0xD7, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX2, reg: clsGPR, flags: fNoMem}

	opPunpcklbw  = piB("punpcklbw", esc0F, 0x60, cpu.SSE2)
	opPunpcklwd  = piB("punpcklwd", esc0F, 0x61, cpu.SSE2)
	opPunpckldq  = piD("punpckldq", esc0F, 0x62, cpu.SSE2)
	opPunpcklqdq = piQ("punpcklqdq", esc0F, 0x6C, cpu.SSE2)
	opPunpckhbw  = piB("punpckhbw", esc0F, 0x68, cpu.SSE2)
	opPunpckhwd  = piB("punpckhwd", esc0F, 0x69, cpu.SSE2)
	opPunpckhdq  = piD("punpckhdq", esc0F, 0x6A, cpu.SSE2)
	opPunpckhqdq = piQ("punpckhqdq", esc0F, 0x6D, cpu.SSE2)
)

// Shuffles with an immediate control byte.
var (
	opPshufd  = simdOp{name: "pshufd", pp: simd66, esc: esc0F, opcode: 0x70, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX2, evex: cpu.AVX512F, tuple: TupleFV, flags: fImm | fBcst}
	opPshuflw = simdOp{name: "pshuflw", pp: simdF2, esc: esc0F, opcode: 0x70, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX2, evex: cpu.AVX512BW, tuple: TupleFVM, flags: fImm}
	opPshufhw = simdOp{name: "pshufhw", pp: simdF3, esc: esc0F, opcode: 0x70, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX2, evex: cpu.AVX512BW, tuple: TupleFVM, flags: fImm}
)

// Shifts by the low quadword of an xmm register or m128.
func piShift(name string, opcode byte, evex cpu.Feature, w bool) simdOp {
	return pi(name, esc0F, opcode, cpu.SSE2, evex, w, TupleM128, wig(w))
}

// wig marks a W1 row as W-ignored outside EVEX.
func wig(w bool) simdFlags {
	if w {
		return fWReverted
	}
	return 0
}

// Shifts by an immediate: the destination travels in vvvv.
func piShiftImm(name string, opcode, ext byte, evex cpu.Feature, w bool, tuple TupleType, flags simdFlags) simdOp {
	op := pi(name, esc0F, opcode, cpu.SSE2, evex, w, tuple, flags|fImm|wig(w))
	op.shape = shapeVMI
	op.ext = ext
	return op
}

var (
	opPsllw = piShift("psllw", 0xF1, cpu.AVX512BW, false)
	opPslld = piShift("pslld", 0xF2, cpu.AVX512F, false)
	opPsllq = piShift("psllq", 0xF3, cpu.AVX512F, true)
	opPsrlw = piShift("psrlw", 0xD1, cpu.AVX512BW, false)
	opPsrld = piShift("psrld", 0xD2, cpu.AVX512F, false)
	opPsrlq = piShift("psrlq", 0xD3, cpu.AVX512F, true)
	opPsraw = piShift("psraw", 0xE1, cpu.AVX512BW, false)
	opPsrad = piShift("psrad", 0xE2, cpu.AVX512F, false)

	opPsllwImm  = piShiftImm("psllw", 0x71, 6, cpu.AVX512BW, false, TupleFVM, 0)
	opPslldImm  = piShiftImm("pslld", 0x72, 6, cpu.AVX512F, false, TupleFV, fBcst)
	opPsllqImm  = piShiftImm("psllq", 0x73, 6, cpu.AVX512F, true, TupleFV, fBcst)
	opPsrlwImm  = piShiftImm("psrlw", 0x71, 2, cpu.AVX512BW, false, TupleFVM, 0)
	opPsrldImm  = piShiftImm("psrld", 0x72, 2, cpu.AVX512F, false, TupleFV, fBcst)
	opPsrlqImm  = piShiftImm("psrlq", 0x73, 2, cpu.AVX512F, true, TupleFV, fBcst)
	opPsrawImm  = piShiftImm("psraw", 0x71, 4, cpu.AVX512BW, false, TupleFVM, 0)
	opPsradImm  = piShiftImm("psrad", 0x72, 4, cpu.AVX512F, false, TupleFV, fBcst)
	opPslldqImm = piShiftImm("pslldq", 0x73, 7, cpu.AVX512BW, false, TupleFVM, 0)
	opPsrldqImm = piShiftImm("psrldq", 0x73, 3, cpu.AVX512BW, false, TupleFVM, 0)
)

// Lane inserts and extracts between xmm and GPR or memory.
var (
	opPinsrb = simdOp{name: "pinsrb", pp: simd66, esc: esc0F3A, opcode: 0x20, sse: cpu.SSE41, avx: cpu.AVX, evex: cpu.AVX512BW, tuple: TupleT1S, input: Input8, rm: clsGPR, flags: fScalar | fNoMask | fImm}
	opPinsrw = simdOp{name: "pinsrw", pp: simd66, esc: esc0F, opcode: 0xC4, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512BW, tuple: TupleT1S, input: Input16, rm: clsGPR, flags: fScalar | fNoMask | fImm}
	opPinsrd = simdOp{name: "pinsrd", pp: simd66, esc: esc0F3A, opcode: 0x22, sse: cpu.SSE41, avx: cpu.AVX, evex: cpu.AVX512DQ, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask | fImm}
	opPinsrq = simdOp{name: "pinsrq", pp: simd66, esc: esc0F3A, opcode: 0x22, w: true, sse: cpu.SSE41, avx: cpu.AVX, evex: cpu.AVX512DQ, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask | fImm}
	opPextrb = simdOp{name: "pextrb", pp: simd66, esc: esc0F3A, opcode: 0x14, shape: shapeMR, sse: cpu.SSE41, avx: cpu.AVX, evex: cpu.AVX512BW, tuple: TupleT1S, input: Input8, rm: clsGPR, flags: fScalar | fNoMask | fImm}
	opPextrw = simdOp{name: "pextrw", pp: simd66, esc: esc0F, opcode: 0xC5, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512BW, reg: clsGPR, flags: fScalar | fNoMask | fImm | fNoMem}
	opPextrd = simdOp{name: "pextrd", pp: simd66, esc: esc0F3A, opcode: 0x16, shape: shapeMR, sse: cpu.SSE41, avx: cpu.AVX, evex: cpu.AVX512DQ, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask | fImm}
	opPextrq = simdOp{name: "pextrq", pp: simd66, esc: esc0F3A, opcode: 0x16, shape: shapeMR, w: true, sse: cpu.SSE41, avx: cpu.AVX, evex: cpu.AVX512DQ, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask | fImm}
)

func (a *Assembler) Paddb(dst XMMRegister, src Operand) { a.sse(&opPaddb, dst, src) }
func (a *Assembler) Paddw(dst XMMRegister, src Operand) { a.sse(&opPaddw, dst, src) }
func (a *Assembler) Paddd(dst XMMRegister, src Operand) { a.sse(&opPaddd, dst, src) }
func (a *Assembler) Paddq(dst XMMRegister, src Operand) { a.sse(&opPaddq, dst, src) }
func (a *Assembler) Psubb(dst XMMRegister, src Operand) { a.sse(&opPsubb, dst, src) }
func (a *Assembler) Psubw(dst XMMRegister, src Operand) { a.sse(&opPsubw, dst, src) }
func (a *Assembler) Psubd(dst XMMRegister, src Operand) { a.sse(&opPsubd, dst, src) }
func (a *Assembler) Psubq(dst XMMRegister, src Operand) { a.sse(&opPsubq, dst, src) }

func (a *Assembler) Pmullw(dst XMMRegister, src Operand)  { a.sse(&opPmullw, dst, src) }
func (a *Assembler) Pmulld(dst XMMRegister, src Operand)  { a.sse(&opPmulld, dst, src) }
func (a *Assembler) Pmuludq(dst XMMRegister, src Operand) { a.sse(&opPmuludq, dst, src) }
func (a *Assembler) Pand(dst XMMRegister, src Operand)    { a.sse(&opPand, dst, src) }
func (a *Assembler) Pandn(dst XMMRegister, src Operand)   { a.sse(&opPandn, dst, src) }
func (a *Assembler) Por(dst XMMRegister, src Operand)     { a.sse(&opPor, dst, src) }
func (a *Assembler) Pxor(dst XMMRegister, src Operand)    { a.sse(&opPxor, dst, src) }

func (a *Assembler) Pcmpeqb(dst XMMRegister, src Operand) { a.sse(&opPcmpeqb, dst, src) }
func (a *Assembler) Pcmpeqw(dst XMMRegister, src Operand) { a.sse(&opPcmpeqw, dst, src) }
func (a *Assembler) Pcmpeqd(dst XMMRegister, src Operand) { a.sse(&opPcmpeqd, dst, src) }
func (a *Assembler) Pcmpeqq(dst XMMRegister, src Operand) { a.sse(&opPcmpeqq, dst, src) }
func (a *Assembler) Pcmpgtb(dst XMMRegister, src Operand) { a.sse(&opPcmpgtb, dst, src) }
func (a *Assembler) Pcmpgtw(dst XMMRegister, src Operand) { a.sse(&opPcmpgtw, dst, src) }
func (a *Assembler) Pcmpgtd(dst XMMRegister, src Operand) { a.sse(&opPcmpgtd, dst, src) }
func (a *Assembler) Pcmpgtq(dst XMMRegister, src Operand) { a.sse(&opPcmpgtq, dst, src) }

func (a *Assembler) Pminsb(dst XMMRegister, src Operand) { a.sse(&opPminsb, dst, src) }
func (a *Assembler) Pminsw(dst XMMRegister, src Operand) { a.sse(&opPminsw, dst, src) }
func (a *Assembler) Pminsd(dst XMMRegister, src Operand) { a.sse(&opPminsd, dst, src) }
func (a *Assembler) Pminub(dst XMMRegister, src Operand) { a.sse(&opPminub, dst, src) }
func (a *Assembler) Pminuw(dst XMMRegister, src Operand) { a.sse(&opPminuw, dst, src) }
func (a *Assembler) Pminud(dst XMMRegister, src Operand) { a.sse(&opPminud, dst, src) }
func (a *Assembler) Pmaxsb(dst XMMRegister, src Operand) { a.sse(&opPmaxsb, dst, src) }
func (a *Assembler) Pmaxsw(dst XMMRegister, src Operand) { a.sse(&opPmaxsw, dst, src) }
func (a *Assembler) Pmaxsd(dst XMMRegister, src Operand) { a.sse(&opPmaxsd, dst, src) }
func (a *Assembler) Pmaxub(dst XMMRegister, src Operand) { a.sse(&opPmaxub, dst, src) }
func (a *Assembler) Pmaxuw(dst XMMRegister, src Operand) { a.sse(&opPmaxuw, dst, src) }
func (a *Assembler) Pmaxud(dst XMMRegister, src Operand) { a.sse(&opPmaxud, dst, src) }

func (a *Assembler) Psllw(dst XMMRegister, count Operand) { a.sse(&opPsllw, dst, count) }
func (a *Assembler) Pslld(dst XMMRegister, count Operand) { a.sse(&opPslld, dst, count) }
func (a *Assembler) Psllq(dst XMMRegister, count Operand) { a.sse(&opPsllq, dst, count) }
func (a *Assembler) Psrlw(dst XMMRegister, count Operand) { a.sse(&opPsrlw, dst, count) }
func (a *Assembler) Psrld(dst XMMRegister, count Operand) { a.sse(&opPsrld, dst, count) }
func (a *Assembler) Psrlq(dst XMMRegister, count Operand) { a.sse(&opPsrlq, dst, count) }
func (a *Assembler) Psraw(dst XMMRegister, count Operand) { a.sse(&opPsraw, dst, count) }
func (a *Assembler) Psrad(dst XMMRegister, count Operand) { a.sse(&opPsrad, dst, count) }

func (a *Assembler) PsllwImm(dst XMMRegister, count Imm) { a.sseImm(&opPsllwImm, dst, dst, count) }
func (a *Assembler) PslldImm(dst XMMRegister, count Imm) { a.sseImm(&opPslldImm, dst, dst, count) }
func (a *Assembler) PsllqImm(dst XMMRegister, count Imm) { a.sseImm(&opPsllqImm, dst, dst, count) }
func (a *Assembler) PsrlwImm(dst XMMRegister, count Imm) { a.sseImm(&opPsrlwImm, dst, dst, count) }
func (a *Assembler) PsrldImm(dst XMMRegister, count Imm) { a.sseImm(&opPsrldImm, dst, dst, count) }
func (a *Assembler) PsrlqImm(dst XMMRegister, count Imm) { a.sseImm(&opPsrlqImm, dst, dst, count) }
func (a *Assembler) PsrawImm(dst XMMRegister, count Imm) { a.sseImm(&opPsrawImm, dst, dst, count) }
func (a *Assembler) PsradImm(dst XMMRegister, count Imm) { a.sseImm(&opPsradImm, dst, dst, count) }
func (a *Assembler) Pslldq(dst XMMRegister, count Imm)   { a.sseImm(&opPslldqImm, dst, dst, count) }
func (a *Assembler) Psrldq(dst XMMRegister, count Imm)   { a.sseImm(&opPsrldqImm, dst, dst, count) }

func (a *Assembler) Pshufb(dst XMMRegister, src Operand) { a.sse(&opPshufb, dst, src) }

func (a *Assembler) Palignr(dst XMMRegister, src Operand, shift Imm) {
	a.sseImm(&opPalignr, dst, src, shift)
}

func (a *Assembler) Pshufd(dst XMMRegister, src Operand, mode Imm)  { a.sseImm(&opPshufd, dst, src, mode) }
func (a *Assembler) Pshuflw(dst XMMRegister, src Operand, mode Imm) { a.sseImm(&opPshuflw, dst, src, mode) }
func (a *Assembler) Pshufhw(dst XMMRegister, src Operand, mode Imm) { a.sseImm(&opPshufhw, dst, src, mode) }

// Pblendvb selects bytes of src where the implicit xmm0 mask has the top bit
// set. It has only the legacy encoding; Vpblendvb names its mask.
func (a *Assembler) Pblendvb(dst XMMRegister, src Operand) { a.sse(&opPblendvb, dst, src) }

func (a *Assembler) Vpblendvb(dst, nds XMMRegister, src Operand, mask XMMRegister, vlen AvxVectorLen) {
	a.simd(&opVpblendvb, simdArgs{reg: dst, nds: nds, rm: src, is4: mask, vlen: vlen})
}

func (a *Assembler) Ptest(dst XMMRegister, src Operand) { a.sse(&opPtest, dst, src) }

func (a *Assembler) Vptest(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opPtest, dst, src, vlen)
}

func (a *Assembler) Pmovmskb(dst Register, src XMMRegister) { a.sse(&opPmovmskb, dst, src) }

func (a *Assembler) Vpmovmskb(dst Register, src XMMRegister, vlen AvxVectorLen) {
	a.v2(&opPmovmskb, dst, src, vlen)
}

func (a *Assembler) Punpcklbw(dst XMMRegister, src Operand)  { a.sse(&opPunpcklbw, dst, src) }
func (a *Assembler) Punpcklwd(dst XMMRegister, src Operand)  { a.sse(&opPunpcklwd, dst, src) }
func (a *Assembler) Punpckldq(dst XMMRegister, src Operand)  { a.sse(&opPunpckldq, dst, src) }
func (a *Assembler) Punpcklqdq(dst XMMRegister, src Operand) { a.sse(&opPunpcklqdq, dst, src) }
func (a *Assembler) Punpckhbw(dst XMMRegister, src Operand)  { a.sse(&opPunpckhbw, dst, src) }
func (a *Assembler) Punpckhwd(dst XMMRegister, src Operand)  { a.sse(&opPunpckhwd, dst, src) }
func (a *Assembler) Punpckhdq(dst XMMRegister, src Operand)  { a.sse(&opPunpckhdq, dst, src) }
func (a *Assembler) Punpckhqdq(dst XMMRegister, src Operand) { a.sse(&opPunpckhqdq, dst, src) }

func (a *Assembler) Pinsrb(dst XMMRegister, src Operand, lane Imm) { a.sseImm(&opPinsrb, dst, src, lane) }
func (a *Assembler) Pinsrw(dst XMMRegister, src Operand, lane Imm) { a.sseImm(&opPinsrw, dst, src, lane) }
func (a *Assembler) Pinsrd(dst XMMRegister, src Operand, lane Imm) { a.sseImm(&opPinsrd, dst, src, lane) }
func (a *Assembler) Pinsrq(dst XMMRegister, src Operand, lane Imm) { a.sseImm(&opPinsrq, dst, src, lane) }
func (a *Assembler) Pextrb(dst Operand, src XMMRegister, lane Imm) { a.sseImm(&opPextrb, dst, src, lane) }
func (a *Assembler) Pextrw(dst Register, src XMMRegister, lane Imm) {
	a.sseImm(&opPextrw, dst, src, lane)
}
func (a *Assembler) Pextrd(dst Operand, src XMMRegister, lane Imm) { a.sseImm(&opPextrd, dst, src, lane) }
func (a *Assembler) Pextrq(dst Operand, src XMMRegister, lane Imm) { a.sseImm(&opPextrq, dst, src, lane) }

// Three-operand VEX/EVEX forms.

func (a *Assembler) Vpaddb(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPaddb, dst, nds, src, vlen)
}

func (a *Assembler) Vpaddw(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPaddw, dst, nds, src, vlen)
}

func (a *Assembler) Vpaddd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPaddd, dst, nds, src, vlen)
}

func (a *Assembler) Vpaddq(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPaddq, dst, nds, src, vlen)
}

func (a *Assembler) Vpsubd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPsubd, dst, nds, src, vlen)
}

func (a *Assembler) Vpsubq(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPsubq, dst, nds, src, vlen)
}

func (a *Assembler) Vpmulld(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPmulld, dst, nds, src, vlen)
}

func (a *Assembler) Vpand(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPand, dst, nds, src, vlen)
}

func (a *Assembler) Vpor(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPor, dst, nds, src, vlen)
}

func (a *Assembler) Vpxor(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPxor, dst, nds, src, vlen)
}

func (a *Assembler) Vpcmpeqb(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPcmpeqb, dst, nds, src, vlen)
}

func (a *Assembler) Vpcmpeqd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPcmpeqd, dst, nds, src, vlen)
}

func (a *Assembler) Vpcmpgtd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPcmpgtd, dst, nds, src, vlen)
}

func (a *Assembler) Vpminsd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPminsd, dst, nds, src, vlen)
}

func (a *Assembler) Vpmaxsd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPmaxsd, dst, nds, src, vlen)
}

func (a *Assembler) Vpshufb(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opPshufb, dst, nds, src, vlen)
}

func (a *Assembler) Vpalignr(dst, nds XMMRegister, src Operand, shift Imm, vlen AvxVectorLen) {
	a.vImm(&opPalignr, dst, nds, src, shift, vlen)
}

func (a *Assembler) Vpshufd(dst XMMRegister, src Operand, mode Imm, vlen AvxVectorLen) {
	a.v2Imm(&opPshufd, dst, src, mode, vlen)
}

func (a *Assembler) Vpslld(dst, src XMMRegister, count Operand, vlen AvxVectorLen) {
	a.v(&opPslld, dst, src, count, vlen)
}

// VpslldImm and friends shift src into dst by an immediate.
func (a *Assembler) VpslldImm(dst, src XMMRegister, count Imm, vlen AvxVectorLen) {
	a.simd(&opPslldImm, simdArgs{nds: dst, rm: src, imm: count, vlen: vlen})
}

func (a *Assembler) VpsllqImm(dst, src XMMRegister, count Imm, vlen AvxVectorLen) {
	a.simd(&opPsllqImm, simdArgs{nds: dst, rm: src, imm: count, vlen: vlen})
}

func (a *Assembler) VpsrldImm(dst, src XMMRegister, count Imm, vlen AvxVectorLen) {
	a.simd(&opPsrldImm, simdArgs{nds: dst, rm: src, imm: count, vlen: vlen})
}

func (a *Assembler) VpsrlqImm(dst, src XMMRegister, count Imm, vlen AvxVectorLen) {
	a.simd(&opPsrlqImm, simdArgs{nds: dst, rm: src, imm: count, vlen: vlen})
}

func (a *Assembler) VpsradImm(dst, src XMMRegister, count Imm, vlen AvxVectorLen) {
	a.simd(&opPsradImm, simdArgs{nds: dst, rm: src, imm: count, vlen: vlen})
}

// Masked EVEX integer forms.

func (a *Assembler) Evpaddd(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opPaddd, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpaddq(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opPaddq, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpaddb(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opPaddb, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpminsd(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opPminsd, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpmaxsd(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opPmaxsd, dst, mask, nds, src, merge, vlen)
}
