package asmtext

import (
	"fmt"
	"math"
	"strings"

	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/x86"
)

type handler func(p *Program, mn string, ops []operand) error

// Emitter shapes, spelled as method expressions on *x86.Assembler.
type (
	opFn       = func(*x86.Assembler, x86.Operand)
	opOpFn     = func(*x86.Assembler, x86.Operand, x86.Operand)
	opImmFn    = func(*x86.Assembler, x86.Operand, x86.Imm)
	opRegFn    = func(*x86.Assembler, x86.Operand, x86.Register)
	opRegImmFn = func(*x86.Assembler, x86.Operand, x86.Register, x86.Imm)
	regOpFn    = func(*x86.Assembler, x86.Register, x86.Operand)
	regRegOpFn = func(*x86.Assembler, x86.Register, x86.Register, x86.Operand)
	regOpRegFn = func(*x86.Assembler, x86.Register, x86.Operand, x86.Register)
	regOpImmFn = func(*x86.Assembler, x86.Register, x86.Operand, x86.Imm)
	addrFn     = func(*x86.Assembler, x86.Address)
)

func letter(o operand) rune {
	switch o.kind {
	case kindGPR:
		return 'r'
	case kindXMM:
		return 'x'
	case kindK:
		return 'k'
	case kindMem:
		return 'm'
	case kindImm:
		return 'i'
	case kindLabel:
		return 'l'
	case kindRound:
		return 'c'
	}
	return '?'
}

// shape matches operands position by position against letter sets:
// r gpr, x vector, k mask, m memory, i immediate, l label, c rounding.
func shape(ops []operand, pats ...string) bool {
	if len(ops) != len(pats) {
		return false
	}
	for i, pat := range pats {
		if !strings.ContainsRune(pat, letter(ops[i])) {
			return false
		}
	}
	return true
}

func shapeError(mn string, ops []operand) error {
	kinds := make([]string, len(ops))
	for i, o := range ops {
		kinds[i] = o.kind.String()
	}
	return fmt.Errorf("%w: %s %s", encerrors.ErrPOperandShape, mn, strings.Join(kinds, ", "))
}

// sized returns the common width of the register and sized memory operands.
func sized(mn string, ops ...operand) (int, error) {
	bits := 0
	for _, o := range ops {
		if o.kind != kindGPR && (o.kind != kindMem || o.bits == 0) {
			continue
		}
		if bits != 0 && bits != o.bits {
			return 0, fmt.Errorf("%w: %s: operand size mismatch (%d vs %d)", encerrors.ErrPOperandShape, mn, bits, o.bits)
		}
		bits = o.bits
	}
	if bits == 0 {
		return 0, fmt.Errorf("%w: %s: operand size not specified", encerrors.ErrPOperandShape, mn)
	}
	return bits, nil
}

func byWidth[F any](mn string, fs map[int]F, bits int) (F, error) {
	f, ok := fs[bits]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s has no %d-bit form", encerrors.ErrPOperandShape, mn, bits)
	}
	return f, nil
}

// binary covers dst r/m, src r/m/imm families (add, mov, test, bt...).
func binary(fs map[int]opOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "rm", "rmi") || (ops[0].kind == kindMem && ops[1].kind == kindMem) {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].value(), ops[1].value())
		return nil
	}
}

func unary(fs map[int]opFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "rm") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].value())
		return nil
	}
}

// regRM covers dst register, src r/m families (bsf, popcnt, adcx...).
func regRM(fs map[int]regOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "r", "rm") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].gpr, ops[1].value())
		return nil
	}
}

// rmReg covers dst r/m, src register families (xadd, cmpxchg).
func rmReg(fs map[int]opRegFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "rm", "r") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].value(), ops[1].gpr)
		return nil
	}
}

// regRegRM covers the VEX encoded GPR forms andn, pdep, pext and mulx.
func regRegRM(fs map[int]regRegOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "r", "r", "rm") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].gpr, ops[1].gpr, ops[2].value())
		return nil
	}
}

// regRMReg covers bextr, bzhi and the BMI2 shifts.
func regRMReg(fs map[int]regOpRegFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "r", "rm", "r") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, fs, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].gpr, ops[1].value(), ops[2].gpr)
		return nil
	}
}

type shiftForms struct {
	imm map[int]opImmFn
	cl  map[int]opFn
}

// shift accepts "op dst", "op dst, imm" and "op dst, cl".
func shift(f shiftForms) handler {
	return func(p *Program, mn string, ops []operand) error {
		if len(ops) == 0 || !ops[0].isRM() {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops[0])
		if err != nil {
			return err
		}
		switch {
		case len(ops) == 1:
			fn, err := byWidth(mn, f.imm, bits)
			if err != nil {
				return err
			}
			fn(p.asm, ops[0].value(), 1)
		case shape(ops, "rm", "i"):
			fn, err := byWidth(mn, f.imm, bits)
			if err != nil {
				return err
			}
			fn(p.asm, ops[0].value(), x86.Imm(ops[1].imm))
		case shape(ops, "rm", "r") && ops[1].gpr == x86.ImplicitShiftCount && ops[1].bits == 8:
			fn, err := byWidth(mn, f.cl, bits)
			if err != nil {
				return err
			}
			fn(p.asm, ops[0].value())
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

type doubleShiftForms struct {
	imm map[int]opRegImmFn
	cl  map[int]opRegFn
}

func doubleShift(f doubleShiftForms) handler {
	return func(p *Program, mn string, ops []operand) error {
		if len(ops) != 3 || !shape(ops[:2], "rm", "r") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops[:2]...)
		if err != nil {
			return err
		}
		switch {
		case ops[2].kind == kindImm:
			fn, err := byWidth(mn, f.imm, bits)
			if err != nil {
				return err
			}
			fn(p.asm, ops[0].value(), ops[1].gpr, x86.Imm(ops[2].imm))
		case ops[2].kind == kindGPR && ops[2].gpr == x86.ImplicitShiftCount && ops[2].bits == 8:
			fn, err := byWidth(mn, f.cl, bits)
			if err != nil {
				return err
			}
			fn(p.asm, ops[0].value(), ops[1].gpr)
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func imul(p *Program, mn string, ops []operand) error {
	switch {
	case shape(ops, "rm"):
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		if bits != 64 {
			return fmt.Errorf("%w: one operand imul is 64-bit only", encerrors.ErrPOperandShape)
		}
		p.asm.ImulqRDXRAX(ops[0].value())
	case shape(ops, "r", "rm"):
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, map[int]regOpFn{32: (*x86.Assembler).Imull, 64: (*x86.Assembler).Imulq}, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].gpr, ops[1].value())
	case shape(ops, "r", "rm", "i"):
		bits, err := sized(mn, ops[:2]...)
		if err != nil {
			return err
		}
		f, err := byWidth(mn, map[int]regOpImmFn{32: (*x86.Assembler).ImullImm, 64: (*x86.Assembler).ImulqImm}, bits)
		if err != nil {
			return err
		}
		f(p.asm, ops[0].gpr, ops[1].value(), x86.Imm(ops[2].imm))
	default:
		return shapeError(mn, ops)
	}
	return nil
}

// extend handles movzx and movsx; the source width picks the emitter.
func extend(forms map[[2]int]regOpFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "r", "rm") {
			return shapeError(mn, ops)
		}
		if ops[1].bits == 0 {
			return fmt.Errorf("%w: %s: source size not specified", encerrors.ErrPOperandShape, mn)
		}
		f, ok := forms[[2]int{ops[0].bits, ops[1].bits}]
		if !ok {
			return fmt.Errorf("%w: %s has no %d <- %d form", encerrors.ErrPOperandShape, mn, ops[0].bits, ops[1].bits)
		}
		f(p.asm, ops[0].gpr, ops[1].value())
		return nil
	}
}

func lea(p *Program, mn string, ops []operand) error {
	if !shape(ops, "r", "m") || ops[1].vsib {
		return shapeError(mn, ops)
	}
	dst := ops[0]
	if ops[1].ripLabel != "" {
		if dst.bits != 64 {
			return fmt.Errorf("%w: lea of a label needs a 64-bit destination", encerrors.ErrPOperandShape)
		}
		p.asm.LeaLabel(dst.gpr, p.Label(ops[1].ripLabel))
		return nil
	}
	switch dst.bits {
	case 64:
		p.asm.Leaq(dst.gpr, ops[1].mem)
	case 32:
		p.asm.Leal(dst.gpr, ops[1].mem)
	default:
		return fmt.Errorf("%w: lea has no %d-bit form", encerrors.ErrPOperandShape, dst.bits)
	}
	return nil
}

func movabs(p *Program, mn string, ops []operand) error {
	if !shape(ops, "r", "i") || ops[0].bits != 64 {
		return shapeError(mn, ops)
	}
	p.asm.Movabs(ops[0].gpr, uint64(ops[1].imm))
	return nil
}

// xchg is symmetric: the register operand goes first.
func xchg(p *Program, mn string, ops []operand) error {
	if shape(ops, "m", "r") {
		ops = []operand{ops[1], ops[0]}
	}
	return regRM(map[int]regOpFn{
		8:  (*x86.Assembler).Xchgb,
		32: (*x86.Assembler).Xchgl,
		64: (*x86.Assembler).Xchgq,
	})(p, mn, ops)
}

func movnti(p *Program, mn string, ops []operand) error {
	if !shape(ops, "m", "r") {
		return shapeError(mn, ops)
	}
	switch ops[1].bits {
	case 64:
		p.asm.Movntiq(ops[0].mem, ops[1].gpr)
	case 32:
		p.asm.Movntil(ops[0].mem, ops[1].gpr)
	default:
		return shapeError(mn, ops)
	}
	return nil
}

func bswap(p *Program, mn string, ops []operand) error {
	if !shape(ops, "r") {
		return shapeError(mn, ops)
	}
	switch ops[0].bits {
	case 64:
		p.asm.Bswapq(ops[0].gpr)
	case 32:
		p.asm.Bswapl(ops[0].gpr)
	default:
		return shapeError(mn, ops)
	}
	return nil
}

func rorx(p *Program, mn string, ops []operand) error {
	if !shape(ops, "r", "rm", "i") {
		return shapeError(mn, ops)
	}
	bits, err := sized(mn, ops[:2]...)
	if err != nil {
		return err
	}
	f, err := byWidth(mn, map[int]regOpImmFn{32: (*x86.Assembler).Rorxl, 64: (*x86.Assembler).Rorxq}, bits)
	if err != nil {
		return err
	}
	f(p.asm, ops[0].gpr, ops[1].value(), x86.Imm(ops[2].imm))
	return nil
}

func stack(push bool) handler {
	return func(p *Program, mn string, ops []operand) error {
		if len(ops) != 1 {
			return shapeError(mn, ops)
		}
		o := ops[0]
		switch {
		case o.kind == kindGPR && o.bits != 64:
			return fmt.Errorf("%w: %s needs a 64-bit register", encerrors.ErrPOperandShape, mn)
		case push && (o.isRM() || o.kind == kindImm):
			p.asm.Push(o.value())
		case !push && o.isRM():
			p.asm.Pop(o.value())
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func cmovcc(cc x86.Condition) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "r", "rm") {
			return shapeError(mn, ops)
		}
		bits, err := sized(mn, ops...)
		if err != nil {
			return err
		}
		switch bits {
		case 64:
			p.asm.Cmovq(cc, ops[0].gpr, ops[1].value())
		case 32:
			p.asm.Cmovl(cc, ops[0].gpr, ops[1].value())
		default:
			return fmt.Errorf("%w: %s has no %d-bit form", encerrors.ErrPOperandShape, mn, bits)
		}
		return nil
	}
}

func setcc(cc x86.Condition) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "rm") {
			return shapeError(mn, ops)
		}
		if ops[0].bits != 8 && !(ops[0].kind == kindMem && ops[0].bits == 0) {
			return fmt.Errorf("%w: %s writes a byte", encerrors.ErrPOperandShape, mn)
		}
		p.asm.Setb(cc, ops[0].value())
		return nil
	}
}

func jcc(cc x86.Condition) handler {
	return func(p *Program, mn string, ops []operand) error {
		switch {
		case shape(ops, "l"):
			l := p.Label(ops[0].label)
			if ops[0].short {
				p.asm.JccShort(cc, l)
			} else {
				p.asm.Jcc(cc, l, true)
			}
		case shape(ops, "i"):
			p.asm.JccAbs(cc, uint64(ops[0].imm), x86.RelocRuntimeCall)
		default:
			return shapeError(mn, ops)
		}
		return nil
	}
}

func jmp(p *Program, mn string, ops []operand) error {
	switch {
	case shape(ops, "l"):
		l := p.Label(ops[0].label)
		if ops[0].short {
			p.asm.JmpShort(l)
		} else {
			p.asm.Jmp(l, true)
		}
	case shape(ops, "i"):
		p.asm.JmpAbs(uint64(ops[0].imm), x86.RelocRuntimeCall)
	case shape(ops, "rm"):
		p.asm.JmpIndirect(ops[0].value())
	default:
		return shapeError(mn, ops)
	}
	return nil
}

func call(p *Program, mn string, ops []operand) error {
	switch {
	case shape(ops, "l"):
		p.asm.Call(p.Label(ops[0].label))
	case shape(ops, "i"):
		p.asm.CallAbs(uint64(ops[0].imm), x86.RelocRuntimeCall)
	case shape(ops, "rm"):
		p.asm.CallIndirect(ops[0].value())
	default:
		return shapeError(mn, ops)
	}
	return nil
}

func ret(p *Program, mn string, ops []operand) error {
	switch {
	case len(ops) == 0:
		p.asm.Ret()
	case shape(ops, "i"):
		if ops[0].imm < 0 || ops[0].imm > math.MaxUint16 {
			return fmt.Errorf("%w: ret %d", encerrors.ErrEInvalidImmediateRange, ops[0].imm)
		}
		p.asm.RetImm(uint16(ops[0].imm))
	default:
		return shapeError(mn, ops)
	}
	return nil
}

// bare wraps an emitter without operands.
func bare(f func(*x86.Assembler)) handler {
	return func(p *Program, mn string, ops []operand) error {
		if len(ops) != 0 {
			return shapeError(mn, ops)
		}
		f(p.asm)
		return nil
	}
}

func memOnly(f addrFn) handler {
	return func(p *Program, mn string, ops []operand) error {
		if !shape(ops, "m") || ops[0].vsib {
			return shapeError(mn, ops)
		}
		f(p.asm, ops[0].mem)
		return nil
	}
}

func prefetch(hint x86.PrefetchHint) handler {
	return memOnly(func(a *x86.Assembler, adr x86.Address) { a.Prefetch(hint, adr) })
}

func nop(p *Program, mn string, ops []operand) error {
	switch {
	case len(ops) == 0:
		p.asm.Nop(1)
	case shape(ops, "i"):
		p.asm.Nop(int(ops[0].imm))
	default:
		return shapeError(mn, ops)
	}
	return nil
}

func align(p *Program, mn string, ops []operand) error {
	switch {
	case shape(ops, "i"):
		p.asm.Align(int(ops[0].imm))
	case shape(ops, "i", "i"):
		p.asm.AlignWithOffset(int(ops[0].imm), int(ops[1].imm))
	default:
		return shapeError(mn, ops)
	}
	return nil
}

// data emits db, dd and dq items; dq also takes labels as absolute addresses.
func data(bits int) handler {
	return func(p *Program, mn string, ops []operand) error {
		if len(ops) == 0 {
			return shapeError(mn, ops)
		}
		for _, o := range ops {
			switch {
			case o.kind == kindLabel && bits == 64:
				p.asm.EmitLabelAddress(p.Label(o.label))
			case o.kind != kindImm:
				return shapeError(mn, ops)
			case bits == 8:
				if o.imm < math.MinInt8 || o.imm > math.MaxUint8 {
					return fmt.Errorf("%w: db %d", encerrors.ErrEInvalidImmediateRange, o.imm)
				}
				p.asm.Data8(byte(o.imm))
			case bits == 32:
				if o.imm < math.MinInt32 || o.imm > math.MaxUint32 {
					return fmt.Errorf("%w: dd %d", encerrors.ErrEInvalidImmediateRange, o.imm)
				}
				p.asm.Data32(int32(o.imm))
			default:
				p.asm.Data64(uint64(o.imm))
			}
		}
		return nil
	}
}
