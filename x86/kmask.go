package x86

import "github.com/colorfulnotion/x86jit/cpu"

// Opmask instructions are VEX encoded. The width suffix selects pp and W:
// b is 66.W0, w is NP.W0, d is 66.W1, q is NP.W1.

type kWidth uint8

const (
	kB kWidth = iota
	kW
	kD
	kQ
)

var kWidthSuffix = [...]string{"b", "w", "d", "q"}

func (k kWidth) pp() simdPrefix {
	if k == kB || k == kD {
		return simd66
	}
	return simdNone
}

func (k kWidth) w() bool { return k == kD || k == kQ }

// feature is the usual gate: w needs AVX512F, b needs DQ, d and q need BW.
func (k kWidth) feature() cpu.Feature {
	switch k {
	case kB:
		return cpu.AVX512DQ
	case kW:
		return cpu.AVX512F
	}
	return cpu.AVX512BW
}

func kOp(name string, pp simdPrefix, esc opEscape, opcode byte, w bool, f cpu.Feature, shape simdShape, reg, rm opClass, flags simdFlags) simdOp {
	return simdOp{name: name, pp: pp, esc: esc, opcode: opcode, shape: shape, w: w, avx: f, avx256: f, reg: reg, rm: rm, flags: flags | fNoMask}
}

// kFamily builds the four widths of a K,K[,K] instruction. wordFeature
// overrides the gate of the w form (ktestw and kaddw need DQ).
func kFamily(name string, opcode byte, shape simdShape, wordFeature cpu.Feature) [4]simdOp {
	var ops [4]simdOp
	for i := range ops {
		k := kWidth(i)
		f := k.feature()
		if k == kW && wordFeature != cpu.NoFeature {
			f = wordFeature
		}
		ops[i] = kOp(name+kWidthSuffix[k], k.pp(), esc0F, opcode, k.w(), f, shape, clsK, clsK, fNoMem)
	}
	return ops
}

var (
	opKand    = kFamily("kand", 0x41, shapeRVM, cpu.NoFeature)
	opKandn   = kFamily("kandn", 0x42, shapeRVM, cpu.NoFeature)
	opKor     = kFamily("kor", 0x45, shapeRVM, cpu.NoFeature)
	opKxnor   = kFamily("kxnor", 0x46, shapeRVM, cpu.NoFeature)
	opKxor    = kFamily("kxor", 0x47, shapeRVM, cpu.NoFeature)
	opKadd    = kFamily("kadd", 0x4A, shapeRVM, cpu.AVX512DQ)
	opKnot    = kFamily("knot", 0x44, shapeRM, cpu.NoFeature)
	opKortest = kFamily("kortest", 0x98, shapeRM, cpu.NoFeature)
	opKtest   = kFamily("ktest", 0x99, shapeRM, cpu.AVX512DQ)
)

// kmov forms: K <- K/m64, m <- K, K <- GPR, GPR <- K.
var opKmov = func() (ops [4][4]simdOp) {
	for i := range ops {
		k := kWidth(i)
		name := "kmov" + kWidthSuffix[k]
		f := k.feature()
		ops[i][0] = kOp(name, k.pp(), esc0F, 0x90, k.w(), f, shapeRM, clsK, clsK, 0)
		ops[i][1] = kOp(name, k.pp(), esc0F, 0x91, k.w(), f, shapeMR, clsK, clsK, fMemOnly)
		// GPR transfers: b is 66.W0, w is NP.W0, d is F2.W0, q is F2.W1.
		pp, w := k.pp(), false
		switch k {
		case kD:
			pp = simdF2
		case kQ:
			pp, w = simdF2, true
		}
		ops[i][2] = kOp(name, pp, esc0F, 0x92, w, f, shapeRM, clsK, clsGPR, fNoMem)
		ops[i][3] = kOp(name, pp, esc0F, 0x93, w, f, shapeRM, clsGPR, clsK, fNoMem)
	}
	return ops
}()

// kshift rows: the low bit of the opcode picks the wider pair.
var opKshiftl, opKshiftr = kShifts(0x32), kShifts(0x30)

func kShifts(base byte) [4]simdOp {
	var ops [4]simdOp
	dir := "kshiftl"
	if base == 0x30 {
		dir = "kshiftr"
	}
	for i := range ops {
		k := kWidth(i)
		opcode, w := base, false
		switch k {
		case kW:
			w = true
		case kD:
			opcode = base + 1
		case kQ:
			opcode, w = base+1, true
		}
		ops[i] = kOp(dir+kWidthSuffix[k], simd66, esc0F3A, opcode, w, k.feature(), shapeRM, clsK, clsK, fNoMem|fImm)
	}
	return ops
}

func (a *Assembler) kmov(k kWidth, dst, src Operand) {
	ops := &opKmov[k]
	switch d := dst.(type) {
	case KRegister:
		if _, ok := src.(Register); ok {
			a.v2(&ops[2], d, src, AVX128)
			return
		}
		a.v2(&ops[0], d, src, AVX128)
	case Register:
		a.v2(&ops[3], d, src, AVX128)
	case Address:
		a.store(&ops[1], d, KNoMask, src, true, AVX128)
	default:
		a.emit(func() error { return badOperands(ops[0].name, dst, src) })
	}
}

func (a *Assembler) Kmovb(dst, src Operand) { a.kmov(kB, dst, src) }
func (a *Assembler) Kmovw(dst, src Operand) { a.kmov(kW, dst, src) }
func (a *Assembler) Kmovd(dst, src Operand) { a.kmov(kD, dst, src) }
func (a *Assembler) Kmovq(dst, src Operand) { a.kmov(kQ, dst, src) }

// Two-source forms encode L1.
func (a *Assembler) k3(op *simdOp, dst, src1, src2 KRegister) {
	a.simd(op, simdArgs{reg: dst, nds: src1, rm: src2, vlen: AVX256})
}

func (a *Assembler) Kandb(dst, src1, src2 KRegister)  { a.k3(&opKand[kB], dst, src1, src2) }
func (a *Assembler) Kandw(dst, src1, src2 KRegister)  { a.k3(&opKand[kW], dst, src1, src2) }
func (a *Assembler) Kandd(dst, src1, src2 KRegister)  { a.k3(&opKand[kD], dst, src1, src2) }
func (a *Assembler) Kandq(dst, src1, src2 KRegister)  { a.k3(&opKand[kQ], dst, src1, src2) }
func (a *Assembler) Kandnb(dst, src1, src2 KRegister) { a.k3(&opKandn[kB], dst, src1, src2) }
func (a *Assembler) Kandnw(dst, src1, src2 KRegister) { a.k3(&opKandn[kW], dst, src1, src2) }
func (a *Assembler) Kandnd(dst, src1, src2 KRegister) { a.k3(&opKandn[kD], dst, src1, src2) }
func (a *Assembler) Kandnq(dst, src1, src2 KRegister) { a.k3(&opKandn[kQ], dst, src1, src2) }
func (a *Assembler) Korb(dst, src1, src2 KRegister)   { a.k3(&opKor[kB], dst, src1, src2) }
func (a *Assembler) Korw(dst, src1, src2 KRegister)   { a.k3(&opKor[kW], dst, src1, src2) }
func (a *Assembler) Kord(dst, src1, src2 KRegister)   { a.k3(&opKor[kD], dst, src1, src2) }
func (a *Assembler) Korq(dst, src1, src2 KRegister)   { a.k3(&opKor[kQ], dst, src1, src2) }
func (a *Assembler) Kxorb(dst, src1, src2 KRegister)  { a.k3(&opKxor[kB], dst, src1, src2) }
func (a *Assembler) Kxorw(dst, src1, src2 KRegister)  { a.k3(&opKxor[kW], dst, src1, src2) }
func (a *Assembler) Kxord(dst, src1, src2 KRegister)  { a.k3(&opKxor[kD], dst, src1, src2) }
func (a *Assembler) Kxorq(dst, src1, src2 KRegister)  { a.k3(&opKxor[kQ], dst, src1, src2) }
func (a *Assembler) Kxnorb(dst, src1, src2 KRegister) { a.k3(&opKxnor[kB], dst, src1, src2) }
func (a *Assembler) Kxnorw(dst, src1, src2 KRegister) { a.k3(&opKxnor[kW], dst, src1, src2) }
func (a *Assembler) Kxnord(dst, src1, src2 KRegister) { a.k3(&opKxnor[kD], dst, src1, src2) }
func (a *Assembler) Kxnorq(dst, src1, src2 KRegister) { a.k3(&opKxnor[kQ], dst, src1, src2) }
func (a *Assembler) Kaddb(dst, src1, src2 KRegister)  { a.k3(&opKadd[kB], dst, src1, src2) }
func (a *Assembler) Kaddw(dst, src1, src2 KRegister)  { a.k3(&opKadd[kW], dst, src1, src2) }
func (a *Assembler) Kaddd(dst, src1, src2 KRegister)  { a.k3(&opKadd[kD], dst, src1, src2) }
func (a *Assembler) Kaddq(dst, src1, src2 KRegister)  { a.k3(&opKadd[kQ], dst, src1, src2) }

func (a *Assembler) Knotb(dst, src KRegister) { a.v2(&opKnot[kB], dst, src, AVX128) }
func (a *Assembler) Knotw(dst, src KRegister) { a.v2(&opKnot[kW], dst, src, AVX128) }
func (a *Assembler) Knotd(dst, src KRegister) { a.v2(&opKnot[kD], dst, src, AVX128) }
func (a *Assembler) Knotq(dst, src KRegister) { a.v2(&opKnot[kQ], dst, src, AVX128) }

// Kortest sets ZF when src1|src2 is all zeros and CF when it is all ones.
func (a *Assembler) Kortestb(src1, src2 KRegister) { a.v2(&opKortest[kB], src1, src2, AVX128) }
func (a *Assembler) Kortestw(src1, src2 KRegister) { a.v2(&opKortest[kW], src1, src2, AVX128) }
func (a *Assembler) Kortestd(src1, src2 KRegister) { a.v2(&opKortest[kD], src1, src2, AVX128) }
func (a *Assembler) Kortestq(src1, src2 KRegister) { a.v2(&opKortest[kQ], src1, src2, AVX128) }

func (a *Assembler) Ktestb(src1, src2 KRegister) { a.v2(&opKtest[kB], src1, src2, AVX128) }
func (a *Assembler) Ktestw(src1, src2 KRegister) { a.v2(&opKtest[kW], src1, src2, AVX128) }
func (a *Assembler) Ktestd(src1, src2 KRegister) { a.v2(&opKtest[kD], src1, src2, AVX128) }
func (a *Assembler) Ktestq(src1, src2 KRegister) { a.v2(&opKtest[kQ], src1, src2, AVX128) }

// kshift takes an unsigned count; counts past the register width clear it.
func (a *Assembler) kshift(op *simdOp, dst, src KRegister, count Imm) {
	if !isUint8(count) {
		a.emit(func() error {
			return immRangeError("%s: shift count %d outside 0..255", op.name, int64(count))
		})
		return
	}
	a.v2Imm(op, dst, src, count, AVX128)
}

func (a *Assembler) Kshiftlb(dst, src KRegister, count Imm) { a.kshift(&opKshiftl[kB], dst, src, count) }
func (a *Assembler) Kshiftlw(dst, src KRegister, count Imm) { a.kshift(&opKshiftl[kW], dst, src, count) }
func (a *Assembler) Kshiftld(dst, src KRegister, count Imm) { a.kshift(&opKshiftl[kD], dst, src, count) }
func (a *Assembler) Kshiftlq(dst, src KRegister, count Imm) { a.kshift(&opKshiftl[kQ], dst, src, count) }
func (a *Assembler) Kshiftrb(dst, src KRegister, count Imm) { a.kshift(&opKshiftr[kB], dst, src, count) }
func (a *Assembler) Kshiftrw(dst, src KRegister, count Imm) { a.kshift(&opKshiftr[kW], dst, src, count) }
func (a *Assembler) Kshiftrd(dst, src KRegister, count Imm) { a.kshift(&opKshiftr[kD], dst, src, count) }
func (a *Assembler) Kshiftrq(dst, src KRegister, count Imm) { a.kshift(&opKshiftr[kQ], dst, src, count) }
