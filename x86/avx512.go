package x86

import "github.com/colorfulnotion/x86jit/cpu"

// evOp builds an EVEX-only row.
func evOp(name string, pp simdPrefix, esc opEscape, opcode byte, w bool, f cpu.Feature, shape simdShape, tuple TupleType, flags simdFlags) simdOp {
	return simdOp{name: name, pp: pp, esc: esc, opcode: opcode, shape: shape, w: w, evex: f, tuple: tuple, flags: flags | fEvexOnly}
}

// IntPredicate is the imm8 of vpcmp[u]{b,w,d,q}.
type IntPredicate uint8

const (
	IntEQ IntPredicate = iota
	IntLT
	IntLE
	IntFalse
	IntNEQ
	IntNLT
	IntNLE
	IntTrue
)

// Valid reports whether p fits the three predicate bits.
func (p IntPredicate) Valid() bool { return p <= IntTrue }

var (
	opEvmovdqubLoad  = evOp("vmovdqu8", simdF2, esc0F, 0x6F, false, cpu.AVX512BW, shapeRM, TupleFVM, 0)
	opEvmovdqubStore = evOp("vmovdqu8", simdF2, esc0F, 0x7F, false, cpu.AVX512BW, shapeMR, TupleFVM, 0)
	opEvmovdquwLoad  = evOp("vmovdqu16", simdF2, esc0F, 0x6F, true, cpu.AVX512BW, shapeRM, TupleFVM, 0)
	opEvmovdquwStore = evOp("vmovdqu16", simdF2, esc0F, 0x7F, true, cpu.AVX512BW, shapeMR, TupleFVM, 0)
	opEvmovdqulLoad  = evOp("vmovdqu32", simdF3, esc0F, 0x6F, false, cpu.AVX512F, shapeRM, TupleFVM, 0)
	opEvmovdqulStore = evOp("vmovdqu32", simdF3, esc0F, 0x7F, false, cpu.AVX512F, shapeMR, TupleFVM, 0)
	opEvmovdquqLoad  = evOp("vmovdqu64", simdF3, esc0F, 0x6F, true, cpu.AVX512F, shapeRM, TupleFVM, 0)
	opEvmovdquqStore = evOp("vmovdqu64", simdF3, esc0F, 0x7F, true, cpu.AVX512F, shapeMR, TupleFVM, 0)
)

// Compares into an opmask register.
func evCmp(name string, esc opEscape, opcode byte, w bool, f cpu.Feature, tuple TupleType, flags simdFlags) simdOp {
	op := evOp(name, simd66, esc, opcode, w, f, shapeRVM, tuple, flags)
	op.reg = clsK
	return op
}

var (
	opEvpcmpb   = evCmp("vpcmpb", esc0F3A, 0x3F, false, cpu.AVX512BW, TupleFVM, fImm)
	opEvpcmpw   = evCmp("vpcmpw", esc0F3A, 0x3F, true, cpu.AVX512BW, TupleFVM, fImm)
	opEvpcmpd   = evCmp("vpcmpd", esc0F3A, 0x1F, false, cpu.AVX512F, TupleFV, fImm|fBcst)
	opEvpcmpq   = evCmp("vpcmpq", esc0F3A, 0x1F, true, cpu.AVX512F, TupleFV, fImm|fBcst)
	opEvpcmpub  = evCmp("vpcmpub", esc0F3A, 0x3E, false, cpu.AVX512BW, TupleFVM, fImm)
	opEvpcmpuw  = evCmp("vpcmpuw", esc0F3A, 0x3E, true, cpu.AVX512BW, TupleFVM, fImm)
	opEvpcmpud  = evCmp("vpcmpud", esc0F3A, 0x1E, false, cpu.AVX512F, TupleFV, fImm|fBcst)
	opEvpcmpuq  = evCmp("vpcmpuq", esc0F3A, 0x1E, true, cpu.AVX512F, TupleFV, fImm|fBcst)
	opEvpcmpeqb = evCmp("vpcmpeqb", esc0F, 0x74, false, cpu.AVX512BW, TupleFVM, 0)
	opEvpcmpeqw = evCmp("vpcmpeqw", esc0F, 0x75, false, cpu.AVX512BW, TupleFVM, 0)
	opEvpcmpeqd = evCmp("vpcmpeqd", esc0F, 0x76, false, cpu.AVX512F, TupleFV, fBcst)
	opEvpcmpeqq = evCmp("vpcmpeqq", esc0F38, 0x29, true, cpu.AVX512F, TupleFV, fBcst)
)

var (
	opVpternlogd = evOp("vpternlogd", simd66, esc0F3A, 0x25, false, cpu.AVX512F, shapeRVM, TupleFV, fImm|fBcst)
	opVpternlogq = evOp("vpternlogq", simd66, esc0F3A, 0x25, true, cpu.AVX512F, shapeRVM, TupleFV, fImm|fBcst)

	opEvpbroadcastbGPR = evGPR("vpbroadcastb", 0x7A, false, cpu.AVX512BW, Input8)
	opEvpbroadcastwGPR = evGPR("vpbroadcastw", 0x7B, false, cpu.AVX512BW, Input16)
	opEvpbroadcastdGPR = evGPR("vpbroadcastd", 0x7C, false, cpu.AVX512F, Input32)
	opEvpbroadcastqGPR = evGPR("vpbroadcastq", 0x7C, true, cpu.AVX512F, Input64)

	opEvpermi2b  = evOp("vpermi2b", simd66, esc0F38, 0x75, false, cpu.AVX512VBMI, shapeRVM, TupleFVM, 0)
	opEvpermi2w  = evOp("vpermi2w", simd66, esc0F38, 0x75, true, cpu.AVX512BW, shapeRVM, TupleFVM, 0)
	opEvpermi2d  = evOp("vpermi2d", simd66, esc0F38, 0x76, false, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpermi2q  = evOp("vpermi2q", simd66, esc0F38, 0x76, true, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpermi2ps = evOp("vpermi2ps", simd66, esc0F38, 0x77, false, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpermi2pd = evOp("vpermi2pd", simd66, esc0F38, 0x77, true, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpermt2b  = evOp("vpermt2b", simd66, esc0F38, 0x7D, false, cpu.AVX512VBMI, shapeRVM, TupleFVM, 0)
	opEvpermt2w  = evOp("vpermt2w", simd66, esc0F38, 0x7D, true, cpu.AVX512BW, shapeRVM, TupleFVM, 0)
	opEvpermt2d  = evOp("vpermt2d", simd66, esc0F38, 0x7E, false, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpermt2q  = evOp("vpermt2q", simd66, esc0F38, 0x7E, true, cpu.AVX512F, shapeRVM, TupleFV, fBcst)

	opEvpcompressd = evOp("vpcompressd", simd66, esc0F38, 0x8B, false, cpu.AVX512F, shapeMR, TupleT1S, 0)
	opEvpcompressq = evOp("vpcompressq", simd66, esc0F38, 0x8B, true, cpu.AVX512F, shapeMR, TupleT1S, 0)
	opEvpexpandd   = evOp("vpexpandd", simd66, esc0F38, 0x89, false, cpu.AVX512F, shapeRM, TupleT1S, 0)
	opEvpexpandq   = evOp("vpexpandq", simd66, esc0F38, 0x89, true, cpu.AVX512F, shapeRM, TupleT1S, 0)

	opEvpabsq   = evOp("vpabsq", simd66, esc0F38, 0x1F, true, cpu.AVX512F, shapeRM, TupleFV, fBcst)
	opEvpopcntd = evOp("vpopcntd", simd66, esc0F38, 0x55, false, cpu.AVX512VPOPCNTDQ, shapeRM, TupleFV, fBcst)
	opEvpopcntq = evOp("vpopcntq", simd66, esc0F38, 0x55, true, cpu.AVX512VPOPCNTDQ, shapeRM, TupleFV, fBcst)
	opEvplzcntd = evOp("vplzcntd", simd66, esc0F38, 0x44, false, cpu.AVX512CD, shapeRM, TupleFV, fBcst)
	opEvplzcntq = evOp("vplzcntq", simd66, esc0F38, 0x44, true, cpu.AVX512CD, shapeRM, TupleFV, fBcst)

	// Truncating down-conversions store the narrow result in r/m.
	opEvpmovqd = evOp("vpmovqd", simdF3, esc0F38, 0x35, false, cpu.AVX512F, shapeMR, TupleHVM, 0)
	opEvpmovqw = evOp("vpmovqw", simdF3, esc0F38, 0x34, false, cpu.AVX512F, shapeMR, TupleQVM, 0)
	opEvpmovqb = evOp("vpmovqb", simdF3, esc0F38, 0x32, false, cpu.AVX512F, shapeMR, TupleOVM, 0)
	opEvpmovdw = evOp("vpmovdw", simdF3, esc0F38, 0x33, false, cpu.AVX512F, shapeMR, TupleHVM, 0)
	opEvpmovdb = evOp("vpmovdb", simdF3, esc0F38, 0x31, false, cpu.AVX512F, shapeMR, TupleQVM, 0)
	opEvpmovwb = evOp("vpmovwb", simdF3, esc0F38, 0x30, false, cpu.AVX512BW, shapeMR, TupleHVM, 0)

	opEvpxord = evOp("vpxord", simd66, esc0F, 0xEF, false, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpxorq = evOp("vpxorq", simd66, esc0F, 0xEF, true, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpandd = evOp("vpandd", simd66, esc0F, 0xDB, false, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpandq = evOp("vpandq", simd66, esc0F, 0xDB, true, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvpord  = evOp("vpord", simd66, esc0F, 0xEB, false, cpu.AVX512F, shapeRVM, TupleFV, fBcst)
	opEvporq  = evOp("vporq", simd66, esc0F, 0xEB, true, cpu.AVX512F, shapeRVM, TupleFV, fBcst)

	opValignd = evOp("valignd", simd66, esc0F3A, 0x03, false, cpu.AVX512F, shapeRVM, TupleFV, fImm|fBcst)
	opValignq = evOp("valignq", simd66, esc0F3A, 0x03, true, cpu.AVX512F, shapeRVM, TupleFV, fImm|fBcst)

	opEvpsraq    = evOp("vpsraq", simd66, esc0F, 0xE2, true, cpu.AVX512F, shapeRVM, TupleM128, 0)
	opEvpsraqImm = func() simdOp {
		op := evOp("vpsraq", simd66, esc0F, 0x72, true, cpu.AVX512F, shapeVMI, TupleFV, fImm|fBcst)
		op.ext = 4
		return op
	}()
	opEvpmullq = evOp("vpmullq", simd66, esc0F38, 0x40, true, cpu.AVX512DQ, shapeRVM, TupleFV, fBcst)
)

// Moves between vector lanes and opmask bits.
var (
	opVpmovm2b = evMask("vpmovm2b", 0x28, false, cpu.AVX512BW, clsXMM, clsK)
	opVpmovm2w = evMask("vpmovm2w", 0x28, true, cpu.AVX512BW, clsXMM, clsK)
	opVpmovm2d = evMask("vpmovm2d", 0x38, false, cpu.AVX512DQ, clsXMM, clsK)
	opVpmovm2q = evMask("vpmovm2q", 0x38, true, cpu.AVX512DQ, clsXMM, clsK)
	opVpmovb2m = evMask("vpmovb2m", 0x29, false, cpu.AVX512BW, clsK, clsXMM)
	opVpmovw2m = evMask("vpmovw2m", 0x29, true, cpu.AVX512BW, clsK, clsXMM)
	opVpmovd2m = evMask("vpmovd2m", 0x39, false, cpu.AVX512DQ, clsK, clsXMM)
	opVpmovq2m = evMask("vpmovq2m", 0x39, true, cpu.AVX512DQ, clsK, clsXMM)
)

func evGPR(name string, opcode byte, w bool, f cpu.Feature, input InputSize) simdOp {
	op := evOp(name, simd66, esc0F38, opcode, w, f, shapeRM, TupleT1S, fNoMem)
	op.input = input
	op.rm = clsGPR
	return op
}

func evMask(name string, opcode byte, w bool, f cpu.Feature, reg, rm opClass) simdOp {
	op := evOp(name, simdF3, esc0F38, opcode, w, f, shapeRM, TupleNone, fNoMask|fNoMem)
	op.reg, op.rm = reg, rm
	return op
}

// evMove dispatches an EVEX load/store pair. Zeroing applies to loads only.
func (a *Assembler) evMove(load, store *simdOp, dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	if isAddress(dst) {
		a.store(store, dst, mask, src, merge, vlen)
		return
	}
	a.ev2(load, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evmovdqub(dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.evMove(&opEvmovdqubLoad, &opEvmovdqubStore, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evmovdquw(dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.evMove(&opEvmovdquwLoad, &opEvmovdquwStore, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evmovdqul(dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.evMove(&opEvmovdqulLoad, &opEvmovdqulStore, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evmovdquq(dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.evMove(&opEvmovdquqLoad, &opEvmovdquqStore, dst, mask, src, merge, vlen)
}

// evCompare writes a predicate result into kdst; mask gates which lanes are
// compared and the result never zeroes.
func (a *Assembler) evCompare(op *simdOp, kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	if !pred.Valid() {
		a.reject(immRangeError("%s: predicate %d out of range 0..7", op.name, uint8(pred)))
		return
	}
	a.simd(op, simdArgs{reg: kdst, nds: nds, rm: src, mask: mask, merge: true, imm: Imm(pred), vlen: vlen})
}

func (a *Assembler) Evpcmpb(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpb, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpw(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpw, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpd(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpd, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpq(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpq, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpub(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpub, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpuw(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpuw, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpud(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpud, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpuq(kdst, mask KRegister, nds XMMRegister, src Operand, pred IntPredicate, vlen AvxVectorLen) {
	a.evCompare(&opEvpcmpuq, kdst, mask, nds, src, pred, vlen)
}

func (a *Assembler) Evpcmpeqb(kdst, mask KRegister, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.ev(&opEvpcmpeqb, kdst, mask, nds, src, true, vlen)
}

func (a *Assembler) Evpcmpeqw(kdst, mask KRegister, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.ev(&opEvpcmpeqw, kdst, mask, nds, src, true, vlen)
}

func (a *Assembler) Evpcmpeqd(kdst, mask KRegister, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.ev(&opEvpcmpeqd, kdst, mask, nds, src, true, vlen)
}

func (a *Assembler) Evpcmpeqq(kdst, mask KRegister, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.ev(&opEvpcmpeqq, kdst, mask, nds, src, true, vlen)
}

// Vpternlogd applies the three-input truth table fn bitwise to dst, nds and src.
func (a *Assembler) Vpternlogd(dst, nds XMMRegister, src Operand, fn Imm, vlen AvxVectorLen) {
	a.vImm(&opVpternlogd, dst, nds, src, fn, vlen)
}

func (a *Assembler) Vpternlogq(dst, nds XMMRegister, src Operand, fn Imm, vlen AvxVectorLen) {
	a.vImm(&opVpternlogq, dst, nds, src, fn, vlen)
}

func (a *Assembler) Evpbroadcastb(dst XMMRegister, mask KRegister, src Register, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpbroadcastbGPR, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpbroadcastw(dst XMMRegister, mask KRegister, src Register, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpbroadcastwGPR, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpbroadcastd(dst XMMRegister, mask KRegister, src Register, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpbroadcastdGPR, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpbroadcastq(dst XMMRegister, mask KRegister, src Register, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpbroadcastqGPR, dst, mask, src, merge, vlen)
}

// Evpermi2* overwrite the index operand (dst); Evpermt2* overwrite the first
// table operand.
func (a *Assembler) Evpermi2b(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermi2b, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermi2w(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermi2w, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermi2d(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermi2d, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermi2q(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermi2q, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermi2ps(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermi2ps, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermi2pd(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermi2pd, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermt2b(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermt2b, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermt2w(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermt2w, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermt2d(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermt2d, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpermt2q(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpermt2q, dst, mask, nds, src, merge, vlen)
}

// Evpcompressd packs the lanes selected by mask contiguously into dst.
func (a *Assembler) Evpcompressd(dst Operand, mask KRegister, src XMMRegister, merge bool, vlen AvxVectorLen) {
	a.store(&opEvpcompressd, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpcompressq(dst Operand, mask KRegister, src XMMRegister, merge bool, vlen AvxVectorLen) {
	a.store(&opEvpcompressq, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpexpandd(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpexpandd, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpexpandq(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpexpandq, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpabsq(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpabsq, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpopcntd(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpopcntd, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evpopcntq(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvpopcntq, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evplzcntd(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvplzcntd, dst, mask, src, merge, vlen)
}

func (a *Assembler) Evplzcntq(dst XMMRegister, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev2(&opEvplzcntq, dst, mask, src, merge, vlen)
}

// The down-conversions take the source vector length; dst is narrower.
func (a *Assembler) Evpmovqd(dst Operand, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.store(&opEvpmovqd, dst, mask, src, true, vlen)
}

func (a *Assembler) Evpmovqw(dst Operand, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.store(&opEvpmovqw, dst, mask, src, true, vlen)
}

func (a *Assembler) Evpmovqb(dst Operand, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.store(&opEvpmovqb, dst, mask, src, true, vlen)
}

func (a *Assembler) Evpmovdw(dst Operand, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.store(&opEvpmovdw, dst, mask, src, true, vlen)
}

func (a *Assembler) Evpmovdb(dst Operand, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.store(&opEvpmovdb, dst, mask, src, true, vlen)
}

func (a *Assembler) Evpmovwb(dst Operand, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.store(&opEvpmovwb, dst, mask, src, true, vlen)
}

func (a *Assembler) Evpxord(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpxord, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpxorq(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpxorq, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpandd(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpandd, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpandq(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpandq, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evpord(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpord, dst, mask, nds, src, merge, vlen)
}

func (a *Assembler) Evporq(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvporq, dst, mask, nds, src, merge, vlen)
}

// Valignd shifts the concatenation nds:src right by shift dwords.
func (a *Assembler) Valignd(dst, nds XMMRegister, src Operand, shift Imm, vlen AvxVectorLen) {
	a.vImm(&opValignd, dst, nds, src, shift, vlen)
}

func (a *Assembler) Valignq(dst, nds XMMRegister, src Operand, shift Imm, vlen AvxVectorLen) {
	a.vImm(&opValignq, dst, nds, src, shift, vlen)
}

func (a *Assembler) Vpmovm2b(dst XMMRegister, src KRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovm2b, dst, src, vlen)
}

func (a *Assembler) Vpmovm2w(dst XMMRegister, src KRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovm2w, dst, src, vlen)
}

func (a *Assembler) Vpmovm2d(dst XMMRegister, src KRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovm2d, dst, src, vlen)
}

func (a *Assembler) Vpmovm2q(dst XMMRegister, src KRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovm2q, dst, src, vlen)
}

func (a *Assembler) Vpmovb2m(dst KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovb2m, dst, src, vlen)
}

func (a *Assembler) Vpmovw2m(dst KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovw2m, dst, src, vlen)
}

func (a *Assembler) Vpmovd2m(dst KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovd2m, dst, src, vlen)
}

func (a *Assembler) Vpmovq2m(dst KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.v2(&opVpmovq2m, dst, src, vlen)
}

// Evpsraq is the 64-bit arithmetic right shift that only EVEX has.
func (a *Assembler) Evpsraq(dst XMMRegister, mask KRegister, nds XMMRegister, count Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpsraq, dst, mask, nds, count, merge, vlen)
}

func (a *Assembler) EvpsraqImm(dst XMMRegister, mask KRegister, src Operand, shift Imm, merge bool, vlen AvxVectorLen) {
	a.simd(&opEvpsraqImm, simdArgs{nds: dst, rm: src, mask: mask, merge: merge, imm: shift, vlen: vlen})
}

func (a *Assembler) Evpmullq(dst XMMRegister, mask KRegister, nds XMMRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.ev(&opEvpmullq, dst, mask, nds, src, merge, vlen)
}
