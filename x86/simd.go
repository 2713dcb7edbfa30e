package x86

import "github.com/colorfulnotion/x86jit/cpu"

// simdShape says where the operands of a table entry land.
type simdShape uint8

const (
	shapeRVM  simdShape = iota // reg = dst, vvvv = src1, r/m = src2
	shapeRM                    // reg = dst, r/m = src, vvvv unused
	shapeMR                    // r/m = dst, reg = src (stores, extracts, down-converts)
	shapeVMI                   // vvvv = dst, reg = opcode extension, r/m = src (shift by imm)
	shapeRVMR                  // shapeRVM plus a fourth register in imm8[7:4]
)

// opClass is the register file an operand slot draws from.
type opClass uint8

const (
	clsXMM opClass = iota
	clsGPR
	clsK
)

type simdFlags uint16

const (
	fNoMask    simdFlags = 1 << iota // cannot take an EVEX opmask
	fEvexOnly                        // exists only as EVEX
	fWReverted                       // W1 under EVEX, WIG under VEX and legacy
	fBcst                            // memory source may be {1toN}
	fRound                           // register form may take embedded rounding
	fScalar                          // vector length ignored
	fNoVL                            // legal at every EVEX vector length without AVX512VL
	fRegAVX2                         // register source needs AVX2 even though memory needs AVX
	fNoMem                           // r/m must be a register
	fMemOnly                         // r/m must be memory
	fImm                             // trailing imm8
)

// simdOp is one row of the SIMD opcode tables. A NoFeature in sse, avx or
// evex means the encoding family has no form of the instruction.
type simdOp struct {
	name   string
	pp     simdPrefix
	esc    opEscape
	opcode byte
	ext    byte // ModRM.reg for shapeVMI
	shape  simdShape
	w      bool
	sse    cpu.Feature
	avx    cpu.Feature // VEX 128
	avx256 cpu.Feature // VEX 256
	evex   cpu.Feature
	tuple  TupleType
	input  InputSize
	reg    opClass
	rm     opClass
	flags  simdFlags
}

func (op *simdOp) has(f simdFlags) bool { return op.flags&f != 0 }

// inputSize defaults the element size of full-vector and scalar tuples to
// the W bit.
func (op *simdOp) inputSize() InputSize {
	if op.input != InputNone {
		return op.input
	}
	switch op.tuple {
	case TupleFV, TupleHV, TupleT1S:
		if op.w {
			return Input64
		}
		return Input32
	}
	return InputNone
}

func (op *simdOp) vexFeature(vlen AvxVectorLen) cpu.Feature {
	if vlen == AVX256 {
		return op.avx256
	}
	return op.avx
}

// simdArgs are the operands of one SIMD instruction.
type simdArgs struct {
	reg    Operand
	nds    Operand // nil leaves vvvv at 1111
	rm     Operand
	is4    XMMRegister
	vlen   AvxVectorLen
	mask   KRegister
	merge  bool
	imm    Imm
	round  bool
	rc     RoundingMode
	legacy bool // SSE-named entry point: legacy encoding unless AVX is enabled
}

func (a *Assembler) simd(op *simdOp, x simdArgs) {
	a.emit(func() error { return a.encodeSimd(op, x) })
}

func regNumber(name string, cls opClass, o Operand) (int, error) {
	switch r := o.(type) {
	case XMMRegister:
		if cls == clsXMM && r.IsValid() {
			return int(r), nil
		}
	case Register:
		if cls == clsGPR && r.IsValid() {
			return int(r), nil
		}
	case KRegister:
		if cls == clsK && r.IsValid() {
			return int(r), nil
		}
	}
	return 0, badOperands(name, o)
}

func (a *Assembler) encodeSimd(op *simdOp, x simdArgs) error {
	if op.has(fImm) && !(isUint8(x.imm) || isInt8(x.imm)) {
		return immRangeError("%s: immediate %d does not fit 8 bits", op.name, int64(x.imm))
	}
	if x.round && !x.rc.Valid() {
		return immRangeError("%s: rounding control %d out of range 0..3", op.name, uint8(x.rc))
	}

	var reg, nds int
	var err error
	if op.shape == shapeVMI {
		reg = int(op.ext)
	} else if reg, err = regNumber(op.name, op.reg, x.reg); err != nil {
		return err
	}
	if x.nds != nil {
		cls := clsXMM
		if op.reg == clsK && op.rm == clsK {
			cls = clsK
		}
		if nds, err = regNumber(op.name, cls, x.nds); err != nil {
			return err
		}
	}

	rm := -1
	var adr *Address
	switch m := x.rm.(type) {
	case Address:
		if op.has(fNoMem) {
			return badOperands(op.name, x.reg, x.rm)
		}
		if m.isVSIB() {
			return operandError("%s cannot take a vector-indexed operand", op.name)
		}
		adr = &m
	default:
		if op.has(fMemOnly) {
			return badOperands(op.name, x.reg, x.rm)
		}
		if rm, err = regNumber(op.name, op.rm, x.rm); err != nil {
			return err
		}
		if op.has(fRegAVX2) && !x.legacy {
			if err := a.requireFeatures(op.name, cpu.AVX2); err != nil {
				return err
			}
		}
	}

	if x.legacy && (!a.supports(cpu.AVX) || op.avx == cpu.NoFeature && op.evex == cpu.NoFeature) {
		return a.encodeLegacySimd(op, reg, rm, adr, x)
	}

	vlen := x.vlen
	if op.has(fScalar) {
		vlen = AVX128
	}
	at := NewInstructionAttr(vlen, op.w, op.evex == cpu.NoFeature, op.has(fNoMask), !op.has(fScalar) && !op.has(fNoVL))
	if op.has(fEvexOnly) {
		at.SetIsEvexInstruction()
	}
	if op.has(fWReverted) {
		at.SetRexVexWReverted()
	}
	if x.mask != KNoMask {
		if !x.mask.IsValid() {
			return badOperands(op.name, x.mask)
		}
		if op.has(fNoMask) {
			return operandError("%s cannot be masked", op.name)
		}
		at.SetEmbeddedOpmask(x.mask)
		if !x.merge {
			if adr != nil && op.shape == shapeMR {
				return operandError("%s: zeroing-masking is not allowed for a memory destination", op.name)
			}
			at.SetClearContext()
		}
	}
	if adr != nil {
		if adr.broadcast {
			if !op.has(fBcst) {
				return operandError("%s has no embedded broadcast form", op.name)
			}
			at.SetEmbeddedBroadcast()
		}
		at.SetAddressAttributes(op.tuple, op.inputSize())
	}
	if x.round {
		if !op.has(fRound) {
			return operandError("%s has no embedded rounding form", op.name)
		}
		if adr != nil {
			return operandError("%s: embedded rounding needs register operands", op.name)
		}
		if !op.has(fScalar) && vlen != AVX512 {
			return operandError("%s: embedded rounding needs 512-bit vectors", op.name)
		}
		at.SetEmbeddedRounding(x.rc)
	}

	f := vexFields{reg: reg, nds: nds, rm: rm, adr: adr}
	if at.needsEvex(f) {
		if op.evex != cpu.NoFeature {
			if err := a.requireFeatures(op.name, cpu.AVX512F, op.evex); err != nil {
				return err
			}
		}
	} else if need := op.vexFeature(vlen); need == cpu.NoFeature {
		return featureError("%s has no %s-bit VEX form", op.name, vlen)
	} else if err := a.requireFeatures(op.name, need); err != nil {
		return err
	}
	if op.shape == shapeRVMR && !at.needsEvex(f) && x.is4.needsEvex() {
		return operandError("%s: %s cannot be encoded in imm8", op.name, x.is4)
	}

	if err := a.vexPrefix(at, op.pp, op.esc, f); err != nil {
		return err
	}
	a.emitInt8(op.opcode)
	if adr != nil {
		if err := a.emitOperand(reg, *adr, at); err != nil {
			return err
		}
	} else {
		a.emitModRMReg(reg, rm)
	}
	return a.simdImm(op, x)
}

func (a *Assembler) simdImm(op *simdOp, x simdArgs) error {
	switch {
	case op.shape == shapeRVMR:
		if !x.is4.IsValid() {
			return badOperands(op.name, x.is4)
		}
		a.emitInt8(byte(x.is4&15) << 4)
	case op.has(fImm):
		a.emitInt8(byte(x.imm))
	}
	return nil
}

// encodeLegacySimd writes the pre-VEX form: mandatory prefix, REX, escape,
// opcode. The destination doubles as the first source.
func (a *Assembler) encodeLegacySimd(op *simdOp, reg, rm int, adr *Address, x simdArgs) error {
	if op.sse == cpu.NoFeature {
		return featureError("%s has no legacy SSE form and AVX is disabled (use_avx=%d)", op.name, a.opts.UseAVX)
	}
	if err := a.requireFeatures(op.name, op.sse); err != nil {
		return err
	}
	if x.mask != KNoMask || x.round || (adr != nil && adr.broadcast) {
		return featureError("%s: EVEX features need AVX-512", op.name)
	}
	if op.reg == clsXMM && reg >= 16 || op.rm == clsXMM && rm >= 16 {
		return featureError("%s: xmm16-xmm31 need AVX-512", op.name)
	}
	w := op.w && !op.has(fWReverted)
	if adr != nil {
		a.legacySimdRM(op.pp, op.esc, w, reg, *adr)
		a.emitInt8(op.opcode)
		if err := a.emitOperand(reg, *adr, nil); err != nil {
			return err
		}
	} else {
		a.legacySimdRR(op.pp, op.esc, w, reg, rm)
		a.emitInt8(op.opcode)
		a.emitModRMReg(reg, rm)
	}
	return a.simdImm(op, x)
}

// --- entry point shapes ---

// sse is the two-operand SSE-named form: dst = dst op src. Stores and
// extracts (shapeMR) take the memory or GPR destination first as well.
func (a *Assembler) sse(op *simdOp, dst, src Operand) {
	a.simd(op, a.sseArgs(op, dst, src, 0))
}

func (a *Assembler) sseImm(op *simdOp, dst, src Operand, imm Imm) {
	a.simd(op, a.sseArgs(op, dst, src, imm))
}

func (a *Assembler) sseArgs(op *simdOp, dst, src Operand, imm Imm) simdArgs {
	x := simdArgs{reg: dst, rm: src, vlen: AVX128, imm: imm, legacy: true}
	switch op.shape {
	case shapeRVM, shapeRVMR, shapeVMI:
		x.nds = dst
	case shapeMR:
		x.reg, x.rm = src, dst
	}
	return x
}

// v is the three-operand VEX/EVEX form without masking.
func (a *Assembler) v(op *simdOp, dst, nds XMMRegister, src Operand, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, nds: nds, rm: src, vlen: vlen})
}

func (a *Assembler) vImm(op *simdOp, dst, nds XMMRegister, src Operand, imm Imm, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, nds: nds, rm: src, imm: imm, vlen: vlen})
}

// v2 is the two-operand VEX/EVEX form (vvvv unused).
func (a *Assembler) v2(op *simdOp, dst Operand, src Operand, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, rm: src, vlen: vlen})
}

func (a *Assembler) v2Imm(op *simdOp, dst Operand, src Operand, imm Imm, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, rm: src, imm: imm, vlen: vlen})
}

// ev is the masked EVEX form; merge false selects zeroing.
func (a *Assembler) ev(op *simdOp, dst Operand, mask KRegister, nds Operand, src Operand, merge bool, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, nds: nds, rm: src, mask: mask, merge: merge, vlen: vlen})
}

func (a *Assembler) evImm(op *simdOp, dst Operand, mask KRegister, nds Operand, src Operand, imm Imm, merge bool, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, nds: nds, rm: src, mask: mask, merge: merge, imm: imm, vlen: vlen})
}

// ev2 is the masked two-operand EVEX form.
func (a *Assembler) ev2(op *simdOp, dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: dst, rm: src, mask: mask, merge: merge, vlen: vlen})
}

// store is the shapeMR form: r/m receives reg.
func (a *Assembler) store(op *simdOp, dst Operand, mask KRegister, src Operand, merge bool, vlen AvxVectorLen) {
	a.simd(op, simdArgs{reg: src, rm: dst, mask: mask, merge: merge, vlen: vlen})
}
