package asmtext

import (
	"fmt"

	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/x86"
)

type (
	xmmFn       = func(*x86.Assembler, x86.XMMRegister, x86.Operand)
	xmmImmFn    = func(*x86.Assembler, x86.XMMRegister, x86.Operand, x86.Imm)
	xmmCountFn  = func(*x86.Assembler, x86.XMMRegister, x86.Imm)
	vex2Fn      = func(*x86.Assembler, x86.XMMRegister, x86.Operand, x86.AvxVectorLen)
	vex2ImmFn   = func(*x86.Assembler, x86.XMMRegister, x86.Operand, x86.Imm, x86.AvxVectorLen)
	vex3Fn      = func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand, x86.AvxVectorLen)
	vex3ImmFn   = func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand, x86.Imm, x86.AvxVectorLen)
	scalar3Fn   = func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand)
	lane3Fn     = func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand, x86.Imm)
	roundFn     = func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.XMMRegister, x86.RoundingMode)
	evex2Fn     = func(*x86.Assembler, x86.XMMRegister, x86.KRegister, x86.Operand, bool, x86.AvxVectorLen)
	evex3Fn     = func(*x86.Assembler, x86.XMMRegister, x86.KRegister, x86.XMMRegister, x86.Operand, bool, x86.AvxVectorLen)
	evexCmpFn   = func(*x86.Assembler, x86.KRegister, x86.KRegister, x86.XMMRegister, x86.Operand, x86.IntPredicate, x86.AvxVectorLen)
	evexEqFn    = func(*x86.Assembler, x86.KRegister, x86.KRegister, x86.XMMRegister, x86.Operand, x86.AvxVectorLen)
	evexStoreFn = func(*x86.Assembler, x86.Operand, x86.KRegister, x86.XMMRegister, bool, x86.AvxVectorLen)
	evexDownFn  = func(*x86.Assembler, x86.Operand, x86.KRegister, x86.XMMRegister, x86.AvxVectorLen)
	evexMoveFn  = func(*x86.Assembler, x86.Operand, x86.KRegister, x86.Operand, bool, x86.AvxVectorLen)
	blendFn     = func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand, x86.XMMRegister, x86.AvxVectorLen)
	k3Fn        = func(*x86.Assembler, x86.KRegister, x86.KRegister, x86.KRegister)
	k2Fn        = func(*x86.Assembler, x86.KRegister, x86.KRegister)
	kShiftFn    = func(*x86.Assembler, x86.KRegister, x86.KRegister, x86.Imm)
	vexGatherFn = func(*x86.Assembler, x86.XMMRegister, x86.Address, x86.XMMRegister, x86.AvxVectorLen)
	evGatherFn  = func(*x86.Assembler, x86.XMMRegister, x86.KRegister, x86.Address, x86.AvxVectorLen)
	scatterFn   = func(*x86.Assembler, x86.Address, x86.KRegister, x86.XMMRegister, x86.AvxVectorLen)
)

func broadcast(o operand) bool { return o.kind == kindMem && o.mem.IsBroadcast() }

// sse2 is the two operand legacy form: xmm, xmm/m.
func sse2(f xmmFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "xm") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].value())
		return nil
	}
}

func sseImm(f xmmImmFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "xrm", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].value(), x86.Imm(ops[2].imm))
		return nil
	}
}

// sseShift picks the immediate or the xmm/m count form.
func sseShift(count xmmFn, imm xmmCountFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		switch {
		case shape(ops, "x", "i") && imm != nil:
			imm(p.asm, ops[0].xmm, x86.Imm(ops[1].imm))
		case shape(ops, "x", "xm") && count != nil:
			count(p.asm, ops[0].xmm, ops[1].value())
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

// sseMove takes either direction; the emitter validates the pair.
func sseMove(f opOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "xm", "xm") || (ops[0].kind == kindMem && ops[1].kind == kindMem) {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].value(), ops[1].value())
		return nil
	}
}

// movd moves 32 bits between an xmm and a GPR or memory.
func movd(p *Program, mn string, ops []operand) error {
	if !shape(ops, "xrm", "xrm") || (letter(ops[0]) != 'x' && letter(ops[1]) != 'x') {
		return shapeError(mn, ops)
	}
	p.asm.Movd(ops[0].value(), ops[1].value())
	return nil
}

// movq is the GPR mov unless an xmm register is involved.
func movq(p *Program, mn string, ops []operand) error {
	if len(ops) == 2 && (ops[0].kind == kindXMM || ops[1].kind == kindXMM) {
		p.asm.MovqXMM(ops[0].value(), ops[1].value())
		return nil
	}
	return binary(map[int]opOpFn{64: (*x86.Assembler).Movq})(p, mn, ops)
}

// cvtFromGPR handles cvtsi2ss/cvtsi2sd; the source width picks l or q.
func cvtFromGPR(fs map[int]xmmFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "rm") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops[1])
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].xmm, ops[1].value())
		return nil
	}
}

func cvtToGPR(fs map[int]regOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "r", "xm") {
			return shapeError(mn, ops)
		}
		f, err := byWidth(mn, fs, ops[0].bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].gpr, ops[1].value())
		return nil
	}
}

func sseRound(f func(*x86.Assembler, x86.XMMRegister, x86.Operand, x86.SSERounding)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "xm", "i") || ops[2].imm < 0 || ops[2].imm > 0xFF {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].value(), x86.SSERounding(ops[2].imm))
		return nil
	}
}

func sseCmp(f func(*x86.Assembler, x86.XMMRegister, x86.Operand, x86.ComparisonPredicate)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "xm", "i") || ops[2].imm < 0 || ops[2].imm > 0x1F {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].value(), x86.ComparisonPredicate(ops[2].imm))
		return nil
	}
}

func pextr(f func(*x86.Assembler, x86.Operand, x86.XMMRegister, x86.Imm)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "rm", "x", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].value(), ops[1].xmm, x86.Imm(ops[2].imm))
		return nil
	}
}

func pextrw(p *Program, mn string, ops []operand) error {
	if !shape(ops, "r", "x", "i") {
		return shapeError(mn, ops)
	}
	p.asm.Pextrw(ops[0].gpr, ops[1].xmm, x86.Imm(ops[2].imm))
	return nil
}

func movemask(p *Program, mn string, ops []operand) error {
	if !shape(ops, "r", "x") {
		return shapeError(mn, ops)
	}
	if mn == "pmovmskb" {
		p.asm.Pmovmskb(ops[0].gpr, ops[1].xmm)
	} else {
		p.asm.Vpmovmskb(ops[0].gpr, ops[1].xmm, ops[1].vlen)
	}
	return nil
}

// vecBinary is a three operand AVX instruction that may also have a masked
// EVEX spelling and a register-only rounding form.
type vecBinary struct {
	vex    vex3Fn
	scalar scalar3Fn
	evex   evex3Fn
	round  roundFn
}

func (v vecBinary) handle(p *Program, mn string, ops []operand) error {
	if len(ops) == 4 {
		if v.round == nil || !shape(ops, "x", "x", "x", "c") || ops[0].masked() {
			return shapeError(mn, ops)
		}
		v.round(p.asm, ops[0].xmm, ops[1].xmm, ops[2].xmm, ops[3].rc)
		return nil
	}
	if !shape(ops, "x", "x", "xm") {
		return shapeError(mn, ops)
	}
	dst := ops[0]
	useEvex := dst.masked() || broadcast(ops[2])
	switch {
	case useEvex && v.evex == nil:
		return fmt.Errorf("%w: %s has no masked or broadcast form", encerrors.ErrPOperandShape, mn)
	case useEvex || (v.vex == nil && v.scalar == nil):
		v.evex(p.asm, dst.xmm, dst.mask, ops[1].xmm, ops[2].value(), !dst.zero, dst.vlen)
	case v.scalar != nil:
		v.scalar(p.asm, dst.xmm, ops[1].xmm, ops[2].value())
	default:
		v.vex(p.asm, dst.xmm, ops[1].xmm, ops[2].value(), dst.vlen)
	}
	return nil
}

// vecUnary is xmm, xmm/m with a vector length and an optional masked form.
type vecUnary struct {
	vex  vex2Fn
	evex evex2Fn
}

func (v vecUnary) handle(p *Program, mn string, ops []operand) error {
	if !shape(ops, "x", "xm") {
		return shapeError(mn, ops)
	}
	dst := ops[0]
	if dst.masked() || broadcast(ops[1]) || v.vex == nil {
		if v.evex == nil {
			return fmt.Errorf("%w: %s has no masked form", encerrors.ErrPOperandShape, mn)
		}
		v.evex(p.asm, dst.xmm, dst.mask, ops[1].value(), !dst.zero, dst.vlen)
		return nil
	}
	v.vex(p.asm, dst.xmm, ops[1].value(), dst.vlen)
	return nil
}

func vecImm(f vex2ImmFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "xm", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].value(), x86.Imm(ops[2].imm), ops[0].vlen)
		return nil
	}
}

func vec3Imm(f vex3ImmFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "x", "xm", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].xmm, ops[2].value(), x86.Imm(ops[3].imm), ops[0].vlen)
		return nil
	}
}

func lane3(f lane3Fn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "x", "xm", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].xmm, ops[2].value(), x86.Imm(ops[3].imm))
		return nil
	}
}

func extract128(f func(*x86.Assembler, x86.Operand, x86.XMMRegister, x86.Imm)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "xm", "x", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].value(), ops[1].xmm, x86.Imm(ops[2].imm))
		return nil
	}
}

func vecRound(f func(*x86.Assembler, x86.XMMRegister, x86.Operand, x86.SSERounding, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "xm", "i") || ops[2].imm < 0 || ops[2].imm > 0xFF {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].value(), x86.SSERounding(ops[2].imm), ops[0].vlen)
		return nil
	}
}

func vecCmp(f func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand, x86.ComparisonPredicate, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "x", "xm", "i") || ops[3].imm < 0 || ops[3].imm > 0x1F {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].xmm, ops[2].value(), x86.ComparisonPredicate(ops[3].imm), ops[0].vlen)
		return nil
	}
}

func blendv(f blendFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "x", "xm", "x") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].xmm, ops[2].value(), ops[3].xmm, ops[0].vlen)
		return nil
	}
}

// vecShift handles vpslld and friends: an immediate count or an xmm/m count.
func vecShift(count func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Operand, x86.AvxVectorLen),
	imm func(*x86.Assembler, x86.XMMRegister, x86.XMMRegister, x86.Imm, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		switch {
		case shape(ops, "x", "x", "i") && imm != nil:
			imm(p.asm, ops[0].xmm, ops[1].xmm, x86.Imm(ops[2].imm), ops[0].vlen)
		case shape(ops, "x", "x", "xm") && count != nil:
			count(p.asm, ops[0].xmm, ops[1].xmm, ops[2].value(), ops[0].vlen)
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func vpsraq(p *Program, mn string, ops []operand) error {
	if len(ops) != 3 {
		return shapeError(mn, ops)
	}
	d := ops[0]
	switch {
	case shape(ops, "x", "xm", "i"):
		p.asm.EvpsraqImm(d.xmm, d.mask, ops[1].value(), x86.Imm(ops[2].imm), !d.zero, d.vlen)
	case shape(ops, "x", "x", "xm"):
		p.asm.Evpsraq(d.xmm, d.mask, ops[1].xmm, ops[2].value(), !d.zero, d.vlen)
	default:
		return shapeError(mn, ops)
	}
	return nil
}

// vmov handles the unmasked VEX moves vmovdqu and vmovups.
func vmov(f func(*x86.Assembler, x86.Operand, x86.Operand, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "xm", "xm") || (ops[0].kind == kindMem && ops[1].kind == kindMem) {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].value(), ops[1].value(), vectorLen(ops...))
		return nil
	}
}

// evmov handles vmovdqu8/16/32/64, masked on either side.
func evmov(f evexMoveFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "xm", "xm") || (ops[0].kind == kindMem && ops[1].kind == kindMem) {
			return shapeError(mn, ops)
		}
		d := ops[0]
		f(p.asm, d.value(), d.mask, ops[1].value(), !d.zero, vectorLen(ops...))
		return nil
	}
}

// vectorLen is the width of the first vector register among ops.
func vectorLen(ops ...operand) x86.AvxVectorLen {
	for _, o := range ops {
		if o.kind == kindXMM {
			return o.vlen
		}
	}
	return x86.AVX128
}

// vpbroadcast routes a GPR source to the EVEX form.
func vpbroadcast(vex vex2Fn, gpr func(*x86.Assembler, x86.XMMRegister, x86.KRegister, x86.Register, bool, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		switch {
		case shape(ops, "x", "r"):
			d := ops[0]
			gpr(p.asm, d.xmm, d.mask, ops[1].gpr, !d.zero, d.vlen)
		case shape(ops, "x", "xm") && !ops[0].masked():
			vex(p.asm, ops[0].xmm, ops[1].value(), ops[0].vlen)
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func evpcmp(f evexCmpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "k", "x", "xm", "i") || ops[3].imm < 0 || ops[3].imm > 7 || ops[0].zero {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].k, ops[0].mask, ops[1].xmm, ops[2].value(), x86.IntPredicate(ops[3].imm), ops[1].vlen)
		return nil
	}
}

// pcmpeq picks the mask destination EVEX form or the vector VEX form.
func pcmpeq(vex vex3Fn, evex evexEqFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		switch {
		case shape(ops, "k", "x", "xm"):
			evex(p.asm, ops[0].k, ops[0].mask, ops[1].xmm, ops[2].value(), ops[1].vlen)
		case shape(ops, "x", "x", "xm") && vex != nil && !ops[0].masked():
			vex(p.asm, ops[0].xmm, ops[1].xmm, ops[2].value(), ops[0].vlen)
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func compress(f evexStoreFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "xm", "x") {
			return shapeError(mn, ops)
		}
		d := ops[0]
		f(p.asm, d.value(), d.mask, ops[1].xmm, !d.zero, ops[1].vlen)
		return nil
	}
}

func downConvert(f evexDownFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "xm", "x") || ops[0].zero {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].value(), ops[0].mask, ops[1].xmm, ops[1].vlen)
		return nil
	}
}

func maskToVec(f func(*x86.Assembler, x86.XMMRegister, x86.KRegister, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "x", "k") || ops[0].masked() {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].xmm, ops[1].k, ops[0].vlen)
		return nil
	}
}

func vecToMask(f func(*x86.Assembler, x86.KRegister, x86.XMMRegister, x86.AvxVectorLen)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "k", "x") || ops[0].masked() {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].k, ops[1].xmm, ops[1].vlen)
		return nil
	}
}

func kmov(f opOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "krm", "krm") || (ops[0].kind != kindK && ops[1].kind != kindK) {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].value(), ops[1].value())
		return nil
	}
}

func k3(f k3Fn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "k", "k", "k") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].k, ops[1].k, ops[2].k)
		return nil
	}
}

func k2(f k2Fn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "k", "k") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].k, ops[1].k)
		return nil
	}
}

func kshift(f kShiftFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "k", "k", "i") {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].k, ops[1].k, x86.Imm(ops[2].imm))
		return nil
	}
}

// gather takes the AVX2 form "dst, [vsib], mask" or the AVX-512 form
// "dst{k}, [vsib]". The encoded length is the wider of data and index.
func gather(vex vexGatherFn, evex evGatherFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		switch {
		case shape(ops, "x", "m", "x") && ops[1].vsib && !ops[0].masked():
			vlen := max(ops[0].vlen, ops[1].vsibLen, ops[2].vlen)
			vex(p.asm, ops[0].xmm, ops[1].mem, ops[2].xmm, vlen)
		case shape(ops, "x", "m") && ops[1].vsib:
			if ops[0].zero {
				return fmt.Errorf("%w: %s does not zero", encerrors.ErrPOperandShape, mn)
			}
			vlen := max(ops[0].vlen, ops[1].vsibLen)
			evex(p.asm, ops[0].xmm, ops[0].mask, ops[1].mem, vlen)
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func scatter(f scatterFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "m", "x") || !ops[0].vsib {
			return shapeError(mn, ops)
		}
		vlen := max(ops[1].vlen, ops[0].vsibLen)
		f(p.asm, ops[0].mem, ops[0].mask, ops[1].xmm, vlen)
		return nil
	}
}
