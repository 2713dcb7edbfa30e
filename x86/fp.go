package x86

import "github.com/colorfulnotion/x86jit/cpu"

// fpFamily is one floating point operation in its four precisions.
type fpFamily struct {
	ps, pd, ss, sd simdOp
}

func fpArith(name string, opcode byte, extra simdFlags) fpFamily {
	packed := fBcst | extra
	return fpFamily{
		ps: simdOp{name: name + "ps", esc: esc0F, opcode: opcode, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: packed},
		pd: simdOp{name: name + "pd", pp: simd66, esc: esc0F, opcode: opcode, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: packed | fWReverted},
		ss: simdOp{name: name + "ss", pp: simdF3, esc: esc0F, opcode: opcode, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | extra},
		sd: simdOp{name: name + "sd", pp: simdF2, esc: esc0F, opcode: opcode, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fWReverted | extra},
	}
}

var (
	fpAdd = fpArith("add", 0x58, fRound)
	fpMul = fpArith("mul", 0x59, fRound)
	fpSub = fpArith("sub", 0x5C, fRound)
	fpMin = fpArith("min", 0x5D, 0)
	fpDiv = fpArith("div", 0x5E, fRound)
	fpMax = fpArith("max", 0x5F, 0)
)

// sqrt is two-operand when packed; the scalar forms merge the upper lanes
// from vvvv.
var fpSqrt = func() fpFamily {
	f := fpArith("sqrt", 0x51, fRound)
	f.ps.shape, f.pd.shape = shapeRM, shapeRM
	return f
}()

func fpLogic(name string, opcode byte) (ps, pd simdOp) {
	ps = simdOp{name: name + "ps", esc: esc0F, opcode: opcode, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512DQ, tuple: TupleFV, flags: fBcst}
	pd = simdOp{name: name + "pd", pp: simd66, esc: esc0F, opcode: opcode, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512DQ, tuple: TupleFV, flags: fBcst | fWReverted}
	return
}

var (
	opAndps, opAndpd   = fpLogic("and", 0x54)
	opAndnps, opAndnpd = fpLogic("andn", 0x55)
	opOrps, opOrpd     = fpLogic("or", 0x56)
	opXorps, opXorpd   = fpLogic("xor", 0x57)
)

// Scalar compares set EFLAGS.
var (
	opUcomiss = simdOp{name: "ucomiss", esc: esc0F, opcode: 0x2E, shape: shapeRM, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMask}
	opUcomisd = simdOp{name: "ucomisd", pp: simd66, esc: esc0F, opcode: 0x2E, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMask | fWReverted}
	opComiss  = simdOp{name: "comiss", esc: esc0F, opcode: 0x2F, shape: shapeRM, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMask}
	opComisd  = simdOp{name: "comisd", pp: simd66, esc: esc0F, opcode: 0x2F, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMask | fWReverted}
)

// Moves. Loads are shapeRM, stores shapeMR with the store opcode.
var (
	opMovapsLoad  = simdOp{name: "movaps", esc: esc0F, opcode: 0x28, shape: shapeRM, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM}
	opMovapsStore = simdOp{name: "movaps", esc: esc0F, opcode: 0x29, shape: shapeMR, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM}
	opMovupsLoad  = simdOp{name: "movups", esc: esc0F, opcode: 0x10, shape: shapeRM, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM}
	opMovupsStore = simdOp{name: "movups", esc: esc0F, opcode: 0x11, shape: shapeMR, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM}
	opMovapdLoad  = simdOp{name: "movapd", pp: simd66, esc: esc0F, opcode: 0x28, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM, flags: fWReverted}
	opMovapdStore = simdOp{name: "movapd", pp: simd66, esc: esc0F, opcode: 0x29, shape: shapeMR, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM, flags: fWReverted}
	opMovupdLoad  = simdOp{name: "movupd", pp: simd66, esc: esc0F, opcode: 0x10, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM, flags: fWReverted}
	opMovupdStore = simdOp{name: "movupd", pp: simd66, esc: esc0F, opcode: 0x11, shape: shapeMR, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFVM, flags: fWReverted}

	// movss/movsd between registers merge into dst; from memory they zero
	// the upper lanes.
	opMovssRR    = simdOp{name: "movss", pp: simdF3, esc: esc0F, opcode: 0x10, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMem}
	opMovssLoad  = simdOp{name: "movss", pp: simdF3, esc: esc0F, opcode: 0x10, shape: shapeRM, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fMemOnly}
	opMovssStore = simdOp{name: "movss", pp: simdF3, esc: esc0F, opcode: 0x11, shape: shapeMR, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fMemOnly}
	opMovsdRR    = simdOp{name: "movsd", pp: simdF2, esc: esc0F, opcode: 0x10, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMem | fWReverted}
	opMovsdLoad  = simdOp{name: "movsd", pp: simdF2, esc: esc0F, opcode: 0x10, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fMemOnly | fWReverted}
	opMovsdStore = simdOp{name: "movsd", pp: simdF2, esc: esc0F, opcode: 0x11, shape: shapeMR, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fMemOnly | fWReverted}

	// movdqa/movdqu are VEX only; EVEX register files go through Evmovdqu*.
	opMovdqaLoad  = simdOp{name: "movdqa", pp: simd66, esc: esc0F, opcode: 0x6F, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX}
	opMovdqaStore = simdOp{name: "movdqa", pp: simd66, esc: esc0F, opcode: 0x7F, shape: shapeMR, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX}
	opMovdquLoad  = simdOp{name: "movdqu", pp: simdF3, esc: esc0F, opcode: 0x6F, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX}
	opMovdquStore = simdOp{name: "movdqu", pp: simdF3, esc: esc0F, opcode: 0x7F, shape: shapeMR, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX}

	opMovdToXMM   = simdOp{name: "movd", pp: simd66, esc: esc0F, opcode: 0x6E, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opMovdFromXMM = simdOp{name: "movd", pp: simd66, esc: esc0F, opcode: 0x7E, shape: shapeMR, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opMovqToXMM   = simdOp{name: "movq", pp: simd66, esc: esc0F, opcode: 0x6E, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opMovqFromXMM = simdOp{name: "movq", pp: simd66, esc: esc0F, opcode: 0x7E, shape: shapeMR, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opMovqXMM     = simdOp{name: "movq", pp: simdF3, esc: esc0F, opcode: 0x7E, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMask | fWReverted}
	opMovqStore   = simdOp{name: "movq", pp: simd66, esc: esc0F, opcode: 0xD6, shape: shapeMR, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fNoMask | fMemOnly | fWReverted}
)

// Conversions.
var (
	opCvtsi2ssl  = simdOp{name: "cvtsi2ss", pp: simdF3, esc: esc0F, opcode: 0x2A, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opCvtsi2ssq  = simdOp{name: "cvtsi2ss", pp: simdF3, esc: esc0F, opcode: 0x2A, w: true, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opCvtsi2sdl  = simdOp{name: "cvtsi2sd", pp: simdF2, esc: esc0F, opcode: 0x2A, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opCvtsi2sdq  = simdOp{name: "cvtsi2sd", pp: simdF2, esc: esc0F, opcode: 0x2A, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, rm: clsGPR, flags: fScalar | fNoMask}
	opCvttss2sil = simdOp{name: "cvttss2si", pp: simdF3, esc: esc0F, opcode: 0x2C, shape: shapeRM, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input32, reg: clsGPR, flags: fScalar | fNoMask}
	opCvttss2siq = simdOp{name: "cvttss2si", pp: simdF3, esc: esc0F, opcode: 0x2C, shape: shapeRM, w: true, sse: cpu.SSE, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input32, reg: clsGPR, flags: fScalar | fNoMask}
	opCvttsd2sil = simdOp{name: "cvttsd2si", pp: simdF2, esc: esc0F, opcode: 0x2C, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input64, reg: clsGPR, flags: fScalar | fNoMask}
	opCvttsd2siq = simdOp{name: "cvttsd2si", pp: simdF2, esc: esc0F, opcode: 0x2C, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input64, reg: clsGPR, flags: fScalar | fNoMask}
	opCvtss2sd   = simdOp{name: "cvtss2sd", pp: simdF3, esc: esc0F, opcode: 0x5A, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, input: Input32, flags: fScalar}
	opCvtsd2ss   = simdOp{name: "cvtsd2ss", pp: simdF2, esc: esc0F, opcode: 0x5A, w: true, sse: cpu.SSE2, avx: cpu.AVX, evex: cpu.AVX512F, tuple: TupleT1S, flags: fScalar | fWReverted | fRound}
	opCvtdq2ps   = simdOp{name: "cvtdq2ps", esc: esc0F, opcode: 0x5B, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst | fRound}
	opCvttps2dq  = simdOp{name: "cvttps2dq", pp: simdF3, esc: esc0F, opcode: 0x5B, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst}
	opCvtps2dq   = simdOp{name: "cvtps2dq", pp: simd66, esc: esc0F, opcode: 0x5B, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst | fRound}
	opCvtdq2pd   = simdOp{name: "cvtdq2pd", pp: simdF3, esc: esc0F, opcode: 0xE6, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleHV, input: Input32, flags: fBcst}
	opCvttpd2dq  = simdOp{name: "cvttpd2dq", pp: simd66, esc: esc0F, opcode: 0xE6, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst | fWReverted}
	opCvtps2pd   = simdOp{name: "cvtps2pd", esc: esc0F, opcode: 0x5A, shape: shapeRM, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleHV, input: Input32, flags: fBcst}
	opCvtpd2ps   = simdOp{name: "cvtpd2ps", pp: simd66, esc: esc0F, opcode: 0x5A, shape: shapeRM, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fBcst | fWReverted | fRound}
)

// SSERounding is the imm8 of roundss/roundsd.
type SSERounding uint8

const (
	RoundToNearestEven SSERounding = 0
	RoundToNegInf      SSERounding = 1
	RoundToPosInf      SSERounding = 2
	RoundToZero        SSERounding = 3
	RoundCurrent       SSERounding = 4 // MXCSR.RC
	RoundNoPrecision   SSERounding = 8 // suppress the precision exception
)

// Valid reports whether m uses only the four defined imm8 bits.
func (m SSERounding) Valid() bool { return m <= 0x0F }

// ComparisonPredicate is the imm8 of cmpps/cmppd. Values above 7 need VEX.
type ComparisonPredicate uint8

const (
	CmpEQ_OQ ComparisonPredicate = iota
	CmpLT_OS
	CmpLE_OS
	CmpUNORD_Q
	CmpNEQ_UQ
	CmpNLT_US
	CmpNLE_US
	CmpORD_Q
	CmpEQ_UQ
	CmpNGE_US
	CmpNGT_US
	CmpFALSE_OQ
	CmpNEQ_OQ
	CmpGE_OS
	CmpGT_OS
	CmpTRUE_UQ
)

// Valid reports whether p is one of the 32 VEX predicates.
func (p ComparisonPredicate) Valid() bool { return p <= 31 }

var (
	opRoundss = simdOp{name: "roundss", pp: simd66, esc: esc0F3A, opcode: 0x0A, sse: cpu.SSE41, avx: cpu.AVX, tuple: TupleT1S, flags: fScalar | fImm}
	opRoundsd = simdOp{name: "roundsd", pp: simd66, esc: esc0F3A, opcode: 0x0B, sse: cpu.SSE41, avx: cpu.AVX, tuple: TupleT1S, flags: fScalar | fImm}
	opRoundps = simdOp{name: "roundps", pp: simd66, esc: esc0F3A, opcode: 0x08, shape: shapeRM, sse: cpu.SSE41, avx: cpu.AVX, avx256: cpu.AVX, flags: fImm}
	opRoundpd = simdOp{name: "roundpd", pp: simd66, esc: esc0F3A, opcode: 0x09, shape: shapeRM, sse: cpu.SSE41, avx: cpu.AVX, avx256: cpu.AVX, flags: fImm}
	opCmpps   = simdOp{name: "cmpps", esc: esc0F, opcode: 0xC2, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, flags: fImm}
	opCmppd   = simdOp{name: "cmppd", pp: simd66, esc: esc0F, opcode: 0xC2, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, flags: fImm}
	opShufps  = simdOp{name: "shufps", esc: esc0F, opcode: 0xC6, sse: cpu.SSE, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fImm | fBcst}
	opShufpd  = simdOp{name: "shufpd", pp: simd66, esc: esc0F, opcode: 0xC6, w: true, sse: cpu.SSE2, avx: cpu.AVX, avx256: cpu.AVX, evex: cpu.AVX512F, tuple: TupleFV, flags: fImm | fBcst | fWReverted}
)

func (a *Assembler) Addps(dst XMMRegister, src Operand) { a.sse(&fpAdd.ps, dst, src) }
func (a *Assembler) Addpd(dst XMMRegister, src Operand) { a.sse(&fpAdd.pd, dst, src) }
func (a *Assembler) Addss(dst XMMRegister, src Operand) { a.sse(&fpAdd.ss, dst, src) }
func (a *Assembler) Addsd(dst XMMRegister, src Operand) { a.sse(&fpAdd.sd, dst, src) }
func (a *Assembler) Subps(dst XMMRegister, src Operand) { a.sse(&fpSub.ps, dst, src) }
func (a *Assembler) Subpd(dst XMMRegister, src Operand) { a.sse(&fpSub.pd, dst, src) }
func (a *Assembler) Subss(dst XMMRegister, src Operand) { a.sse(&fpSub.ss, dst, src) }
func (a *Assembler) Subsd(dst XMMRegister, src Operand) { a.sse(&fpSub.sd, dst, src) }
func (a *Assembler) Mulps(dst XMMRegister, src Operand) { a.sse(&fpMul.ps, dst, src) }
func (a *Assembler) Mulpd(dst XMMRegister, src Operand) { a.sse(&fpMul.pd, dst, src) }
func (a *Assembler) Mulss(dst XMMRegister, src Operand) { a.sse(&fpMul.ss, dst, src) }
func (a *Assembler) Mulsd(dst XMMRegister, src Operand) { a.sse(&fpMul.sd, dst, src) }
func (a *Assembler) Divps(dst XMMRegister, src Operand) { a.sse(&fpDiv.ps, dst, src) }
func (a *Assembler) Divpd(dst XMMRegister, src Operand) { a.sse(&fpDiv.pd, dst, src) }
func (a *Assembler) Divss(dst XMMRegister, src Operand) { a.sse(&fpDiv.ss, dst, src) }
func (a *Assembler) Divsd(dst XMMRegister, src Operand) { a.sse(&fpDiv.sd, dst, src) }
func (a *Assembler) Minps(dst XMMRegister, src Operand) { a.sse(&fpMin.ps, dst, src) }
func (a *Assembler) Minpd(dst XMMRegister, src Operand) { a.sse(&fpMin.pd, dst, src) }
func (a *Assembler) Minss(dst XMMRegister, src Operand) { a.sse(&fpMin.ss, dst, src) }
func (a *Assembler) Minsd(dst XMMRegister, src Operand) { a.sse(&fpMin.sd, dst, src) }
func (a *Assembler) Maxps(dst XMMRegister, src Operand) { a.sse(&fpMax.ps, dst, src) }
func (a *Assembler) Maxpd(dst XMMRegister, src Operand) { a.sse(&fpMax.pd, dst, src) }
func (a *Assembler) Maxss(dst XMMRegister, src Operand) { a.sse(&fpMax.ss, dst, src) }
func (a *Assembler) Maxsd(dst XMMRegister, src Operand) { a.sse(&fpMax.sd, dst, src) }

func (a *Assembler) Sqrtps(dst XMMRegister, src Operand) { a.sse(&fpSqrt.ps, dst, src) }
func (a *Assembler) Sqrtpd(dst XMMRegister, src Operand) { a.sse(&fpSqrt.pd, dst, src) }
func (a *Assembler) Sqrtss(dst XMMRegister, src Operand) { a.sse(&fpSqrt.ss, dst, src) }
func (a *Assembler) Sqrtsd(dst XMMRegister, src Operand) { a.sse(&fpSqrt.sd, dst, src) }

func (a *Assembler) Vaddps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpAdd.ps, dst, nds, src, vlen)
}

func (a *Assembler) Vaddpd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpAdd.pd, dst, nds, src, vlen)
}

func (a *Assembler) Vaddss(dst, nds XMMRegister, src Operand) { a.v(&fpAdd.ss, dst, nds, src, AVX128) }
func (a *Assembler) Vaddsd(dst, nds XMMRegister, src Operand) { a.v(&fpAdd.sd, dst, nds, src, AVX128) }

func (a *Assembler) Vsubps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpSub.ps, dst, nds, src, vlen)
}

func (a *Assembler) Vsubpd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpSub.pd, dst, nds, src, vlen)
}

func (a *Assembler) Vmulps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpMul.ps, dst, nds, src, vlen)
}

func (a *Assembler) Vmulpd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpMul.pd, dst, nds, src, vlen)
}

func (a *Assembler) Vdivps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpDiv.ps, dst, nds, src, vlen)
}

func (a *Assembler) Vdivpd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpDiv.pd, dst, nds, src, vlen)
}

func (a *Assembler) Vminps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpMin.ps, dst, nds, src, vlen)
}

func (a *Assembler) Vmaxps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&fpMax.ps, dst, nds, src, vlen)
}

func (a *Assembler) Vsqrtps(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&fpSqrt.ps, dst, src, vlen)
}

func (a *Assembler) Vsqrtpd(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&fpSqrt.pd, dst, src, vlen)
}

// Evaddps and Evaddpd are the masked forms.
func (a *Assembler) Evaddps(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&fpAdd.ps, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evaddpd(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&fpAdd.pd, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evmulps(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&fpMul.ps, dst, mask, nds, src, merge, vlen)
}

// VaddpsRound and VaddpdRound add 512-bit registers with a static rounding
// mode (EVEX.b on a register form).
func (a *Assembler) VaddpsRound(dst, nds, src XMMRegister, rc RoundingMode) {
	a.simd(&fpAdd.ps, simdArgs{reg: dst, nds: nds, rm: src, vlen: AVX512, round: true, rc: rc})
}

func (a *Assembler) VaddpdRound(dst, nds, src XMMRegister, rc RoundingMode) {
	a.simd(&fpAdd.pd, simdArgs{reg: dst, nds: nds, rm: src, vlen: AVX512, round: true, rc: rc})
}

func (a *Assembler) VaddsdRound(dst, nds, src XMMRegister, rc RoundingMode) {
	a.simd(&fpAdd.sd, simdArgs{reg: dst, nds: nds, rm: src, vlen: AVX128, round: true, rc: rc})
}

func (a *Assembler) Andps(dst XMMRegister, src Operand)  { a.sse(&opAndps, dst, src) }
func (a *Assembler) Andpd(dst XMMRegister, src Operand)  { a.sse(&opAndpd, dst, src) }
func (a *Assembler) Andnps(dst XMMRegister, src Operand) { a.sse(&opAndnps, dst, src) }
func (a *Assembler) Andnpd(dst XMMRegister, src Operand) { a.sse(&opAndnpd, dst, src) }
func (a *Assembler) Orps(dst XMMRegister, src Operand)   { a.sse(&opOrps, dst, src) }
func (a *Assembler) Orpd(dst XMMRegister, src Operand)   { a.sse(&opOrpd, dst, src) }
func (a *Assembler) Xorps(dst XMMRegister, src Operand)  { a.sse(&opXorps, dst, src) }
func (a *Assembler) Xorpd(dst XMMRegister, src Operand)  { a.sse(&opXorpd, dst, src) }

func (a *Assembler) Vandps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opAndps, dst, nds, src, vlen)
}

func (a *Assembler) Vxorps(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opXorps, dst, nds, src, vlen)
}

func (a *Assembler) Vxorpd(dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v(&opXorpd, dst, nds, src, vlen)
}

func (a *Assembler) Ucomiss(dst XMMRegister, src Operand) { a.sse(&opUcomiss, dst, src) }
func (a *Assembler) Ucomisd(dst XMMRegister, src Operand) { a.sse(&opUcomisd, dst, src) }
func (a *Assembler) Comiss(dst XMMRegister, src Operand)  { a.sse(&opComiss, dst, src) }
func (a *Assembler) Comisd(dst XMMRegister, src Operand)  { a.sse(&opComisd, dst, src) }

// movePair dispatches a load/store pair on which side is memory.
func (a *Assembler) movePair(load, store *simdOp, dst, src Operand) {
	if _, ok := dst.(Address); ok {
		a.sse(store, dst, src)
		return
	}
	a.sse(load, dst, src)
}

func (a *Assembler) Movaps(dst, src Operand) { a.movePair(&opMovapsLoad, &opMovapsStore, dst, src) }
func (a *Assembler) Movups(dst, src Operand) { a.movePair(&opMovupsLoad, &opMovupsStore, dst, src) }
func (a *Assembler) Movapd(dst, src Operand) { a.movePair(&opMovapdLoad, &opMovapdStore, dst, src) }
func (a *Assembler) Movupd(dst, src Operand) { a.movePair(&opMovupdLoad, &opMovupdStore, dst, src) }
func (a *Assembler) Movdqa(dst, src Operand) { a.movePair(&opMovdqaLoad, &opMovdqaStore, dst, src) }
func (a *Assembler) Movdqu(dst, src Operand) { a.movePair(&opMovdquLoad, &opMovdquStore, dst, src) }

func (a *Assembler) Movss(dst, src Operand) {
	switch {
	case isAddress(dst):
		a.sse(&opMovssStore, dst, src)
	case isAddress(src):
		a.sse(&opMovssLoad, dst, src)
	default:
		a.sse(&opMovssRR, dst, src)
	}
}

func (a *Assembler) Movsd(dst, src Operand) {
	switch {
	case isAddress(dst):
		a.sse(&opMovsdStore, dst, src)
	case isAddress(src):
		a.sse(&opMovsdLoad, dst, src)
	default:
		a.sse(&opMovsdRR, dst, src)
	}
}

func isAddress(o Operand) bool {
	_, ok := o.(Address)
	return ok
}

// Vmovdqu moves 128 or 256 bits with VEX.
func (a *Assembler) Vmovdqu(dst, src Operand, vlen AvxVectorLen) {
	if isAddress(dst) {
		a.store(&opMovdquStore, dst, KNoMask, src, true, vlen)
		return
	}
	a.v2(&opMovdquLoad, dst, src, vlen)
}

func (a *Assembler) Vmovups(dst, src Operand, vlen AvxVectorLen) {
	if isAddress(dst) {
		a.store(&opMovupsStore, dst, KNoMask, src, true, vlen)
		return
	}
	a.v2(&opMovupsLoad, dst, src, vlen)
}

// Movd moves 32 bits between an xmm register and a GPR or memory.
func (a *Assembler) Movd(dst, src Operand) {
	if _, ok := dst.(XMMRegister); ok {
		a.sse(&opMovdToXMM, dst, src)
		return
	}
	a.sse(&opMovdFromXMM, dst, src)
}

// MovqXMM moves 64 bits: xmm<-GPR, GPR<-xmm, xmm<-xmm/m64 and m64<-xmm.
func (a *Assembler) MovqXMM(dst, src Operand) {
	_, srcGPR := src.(Register)
	_, dstGPR := dst.(Register)
	switch {
	case srcGPR:
		a.sse(&opMovqToXMM, dst, src)
	case dstGPR:
		a.sse(&opMovqFromXMM, dst, src)
	case isAddress(dst):
		a.sse(&opMovqStore, dst, src)
	default:
		a.sse(&opMovqXMM, dst, src)
	}
}

func (a *Assembler) Cvtsi2ssl(dst XMMRegister, src Operand) { a.sse(&opCvtsi2ssl, dst, src) }
func (a *Assembler) Cvtsi2ssq(dst XMMRegister, src Operand) { a.sse(&opCvtsi2ssq, dst, src) }
func (a *Assembler) Cvtsi2sdl(dst XMMRegister, src Operand) { a.sse(&opCvtsi2sdl, dst, src) }
func (a *Assembler) Cvtsi2sdq(dst XMMRegister, src Operand) { a.sse(&opCvtsi2sdq, dst, src) }
func (a *Assembler) Cvttss2sil(dst Register, src Operand)   { a.sse(&opCvttss2sil, dst, src) }
func (a *Assembler) Cvttss2siq(dst Register, src Operand)   { a.sse(&opCvttss2siq, dst, src) }
func (a *Assembler) Cvttsd2sil(dst Register, src Operand)   { a.sse(&opCvttsd2sil, dst, src) }
func (a *Assembler) Cvttsd2siq(dst Register, src Operand)   { a.sse(&opCvttsd2siq, dst, src) }
func (a *Assembler) Cvtss2sd(dst XMMRegister, src Operand)  { a.sse(&opCvtss2sd, dst, src) }
func (a *Assembler) Cvtsd2ss(dst XMMRegister, src Operand)  { a.sse(&opCvtsd2ss, dst, src) }
func (a *Assembler) Cvtdq2ps(dst XMMRegister, src Operand)  { a.sse(&opCvtdq2ps, dst, src) }
func (a *Assembler) Cvttps2dq(dst XMMRegister, src Operand) { a.sse(&opCvttps2dq, dst, src) }
func (a *Assembler) Cvtps2dq(dst XMMRegister, src Operand)  { a.sse(&opCvtps2dq, dst, src) }
func (a *Assembler) Cvtdq2pd(dst XMMRegister, src Operand)  { a.sse(&opCvtdq2pd, dst, src) }
func (a *Assembler) Cvttpd2dq(dst XMMRegister, src Operand) { a.sse(&opCvttpd2dq, dst, src) }
func (a *Assembler) Cvtps2pd(dst XMMRegister, src Operand)  { a.sse(&opCvtps2pd, dst, src) }
func (a *Assembler) Cvtpd2ps(dst XMMRegister, src Operand)  { a.sse(&opCvtpd2ps, dst, src) }

func (a *Assembler) Vcvtdq2ps(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opCvtdq2ps, dst, src, vlen)
}

func (a *Assembler) Vcvttps2dq(dst XMMRegister, src Operand, vlen AvxVectorLen) {
	a.v2(&opCvttps2dq, dst, src, vlen)
}

func (a *Assembler) Roundss(dst XMMRegister, src Operand, mode SSERounding) {
	if a.checkRounding(&opRoundss, mode) {
		a.sseImm(&opRoundss, dst, src, Imm(mode))
	}
}

func (a *Assembler) Roundsd(dst XMMRegister, src Operand, mode SSERounding) {
	if a.checkRounding(&opRoundsd, mode) {
		a.sseImm(&opRoundsd, dst, src, Imm(mode))
	}
}

func (a *Assembler) Vroundps(dst XMMRegister, src Operand, mode SSERounding, vlen AvxVectorLen) {
	if a.checkRounding(&opRoundps, mode) {
		a.v2Imm(&opRoundps, dst, src, Imm(mode), vlen)
	}
}

func (a *Assembler) Vroundpd(dst XMMRegister, src Operand, mode SSERounding, vlen AvxVectorLen) {
	if a.checkRounding(&opRoundpd, mode) {
		a.v2Imm(&opRoundpd, dst, src, Imm(mode), vlen)
	}
}

func (a *Assembler) checkRounding(op *simdOp, mode SSERounding) bool {
	if !mode.Valid() {
		a.reject(immRangeError("%s: rounding mode 0x%x out of range 0..15", op.name, uint8(mode)))
		return false
	}
	return true
}

func (a *Assembler) checkPredicate(op *simdOp, pred ComparisonPredicate) bool {
	if !pred.Valid() {
		a.reject(immRangeError("%s: predicate %d out of range 0..31", op.name, uint8(pred)))
		return false
	}
	return true
}

// Cmpps compares with one of the eight legacy predicates.
func (a *Assembler) Cmpps(dst XMMRegister, src Operand, pred ComparisonPredicate) {
	a.emitPredicate(&opCmpps, dst, src, pred)
}

func (a *Assembler) Cmppd(dst XMMRegister, src Operand, pred ComparisonPredicate) {
	a.emitPredicate(&opCmppd, dst, src, pred)
}

func (a *Assembler) emitPredicate(op *simdOp, dst XMMRegister, src Operand, pred ComparisonPredicate) {
	if !a.checkPredicate(op, pred) {
		return
	}
	if pred > CmpORD_Q && !a.supports(cpu.AVX) {
		a.reject(featureError("%s predicate %d needs AVX", op.name, pred))
		return
	}
	a.sseImm(op, dst, src, Imm(pred))
}

// Vcmpps accepts all 32 VEX predicates.
func (a *Assembler) Vcmpps(dst, nds XMMRegister, src Operand, pred ComparisonPredicate, vlen AvxVectorLen) {
	if a.checkPredicate(&opCmpps, pred) {
		a.vImm(&opCmpps, dst, nds, src, Imm(pred), vlen)
	}
}

func (a *Assembler) Vcmppd(dst, nds XMMRegister, src Operand, pred ComparisonPredicate, vlen AvxVectorLen) {
	if a.checkPredicate(&opCmppd, pred) {
		a.vImm(&opCmppd, dst, nds, src, Imm(pred), vlen)
	}
}

func (a *Assembler) Shufps(dst XMMRegister, src Operand, imm Imm) { a.sseImm(&opShufps, dst, src, imm) }
func (a *Assembler) Shufpd(dst XMMRegister, src Operand, imm Imm) { a.sseImm(&opShufpd, dst, src, imm) }

func (a *Assembler) Vshufps(dst, nds XMMRegister, src Operand, imm Imm, vlen AvxVectorLen) {
	a.vImm(&opShufps, dst, nds, src, imm, vlen)
}
