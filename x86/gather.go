package x86

import "github.com/colorfulnotion/x86jit/cpu"

// gatherOp is a gather or scatter row. All live in 66 0F38 and take a VSIB
// memory operand in r/m.
type gatherOp struct {
	name    string
	opcode  byte
	w       bool
	elem    InputSize
	scatter bool
}

var (
	opVpgatherdd = gatherOp{name: "vpgatherdd", opcode: 0x90, elem: Input32}
	opVpgatherdq = gatherOp{name: "vpgatherdq", opcode: 0x90, w: true, elem: Input64}
	opVpgatherqd = gatherOp{name: "vpgatherqd", opcode: 0x91, elem: Input32}
	opVpgatherqq = gatherOp{name: "vpgatherqq", opcode: 0x91, w: true, elem: Input64}
	opVgatherdps = gatherOp{name: "vgatherdps", opcode: 0x92, elem: Input32}
	opVgatherdpd = gatherOp{name: "vgatherdpd", opcode: 0x92, w: true, elem: Input64}
	opVgatherqps = gatherOp{name: "vgatherqps", opcode: 0x93, elem: Input32}
	opVgatherqpd = gatherOp{name: "vgatherqpd", opcode: 0x93, w: true, elem: Input64}

	opVpscatterdd = gatherOp{name: "vpscatterdd", opcode: 0xA0, elem: Input32, scatter: true}
	opVpscatterdq = gatherOp{name: "vpscatterdq", opcode: 0xA0, w: true, elem: Input64, scatter: true}
	opVpscatterqd = gatherOp{name: "vpscatterqd", opcode: 0xA1, elem: Input32, scatter: true}
	opVpscatterqq = gatherOp{name: "vpscatterqq", opcode: 0xA1, w: true, elem: Input64, scatter: true}
	opVscatterdps = gatherOp{name: "vscatterdps", opcode: 0xA2, elem: Input32, scatter: true}
	opVscatterdpd = gatherOp{name: "vscatterdpd", opcode: 0xA2, w: true, elem: Input64, scatter: true}
	opVscatterqps = gatherOp{name: "vscatterqps", opcode: 0xA3, elem: Input32, scatter: true}
	opVscatterqpd = gatherOp{name: "vscatterqpd", opcode: 0xA3, w: true, elem: Input64, scatter: true}
)

func checkVSIB(name string, adr Address) error {
	if !adr.isVSIB() {
		return operandError("%s needs a vector-indexed memory operand, got %s", name, adr)
	}
	if !adr.base.IsValid() {
		return operandError("%s: vector-indexed operand %s needs a base register", name, adr)
	}
	return nil
}

// vexGather is the AVX2 form: dst and the vector mask are both updated by the
// instruction, so neither may alias the other or the index.
func (a *Assembler) vexGather(op *gatherOp, dst XMMRegister, adr Address, mask XMMRegister, vlen AvxVectorLen) {
	a.emit(func() error {
		if err := checkVSIB(op.name, adr); err != nil {
			return err
		}
		if !dst.IsValid() || !mask.IsValid() {
			return badOperands(op.name, dst, adr, mask)
		}
		if dst == mask || dst == adr.vindex || mask == adr.vindex {
			return operandError("%s: destination %s, index %s and mask %s must be distinct", op.name, dst, adr.vindex, mask)
		}
		if vlen != AVX128 && vlen != AVX256 {
			return operandError("%s has no %s-bit VEX form", op.name, vlen)
		}
		if err := a.requireFeatures(op.name, cpu.AVX2); err != nil {
			return err
		}
		at := NewInstructionAttr(vlen, op.w, true, true, false)
		f := vexFields{reg: int(dst), nds: int(mask), rm: -1, adr: &adr}
		if err := a.vexPrefix(at, simd66, esc0F38, f); err != nil {
			return err
		}
		a.emitInt8(op.opcode)
		return a.emitOperand(int(dst), adr, at)
	})
}

// evexGather covers the AVX-512 gathers and scatters. The opmask is both
// predicate and completion mask, so K0 is rejected; merging is implied.
func (a *Assembler) evexGather(op *gatherOp, reg XMMRegister, mask KRegister, adr Address, vlen AvxVectorLen) {
	a.emit(func() error {
		if err := checkVSIB(op.name, adr); err != nil {
			return err
		}
		if !reg.IsValid() || !mask.IsValid() {
			return badOperands(op.name, reg, mask, adr)
		}
		if mask == KNoMask {
			return operandError("%s needs an opmask other than k0", op.name)
		}
		if !op.scatter && reg == adr.vindex {
			return operandError("%s: destination %s must differ from index %s", op.name, reg, adr.vindex)
		}
		if adr.broadcast {
			return operandError("%s has no embedded broadcast form", op.name)
		}
		at := NewInstructionAttr(vlen, op.w, false, false, true)
		at.SetIsEvexInstruction()
		at.SetEmbeddedOpmask(mask)
		at.SetAddressAttributes(TupleT1S, op.elem)
		if err := a.requireFeatures(op.name, cpu.AVX512F); err != nil {
			return err
		}
		f := vexFields{reg: int(reg), rm: -1, adr: &adr}
		if err := a.vexPrefix(at, simd66, esc0F38, f); err != nil {
			return err
		}
		a.emitInt8(op.opcode)
		return a.emitOperand(int(reg), adr, at)
	})
}

// The AVX2 gathers take the instruction vector length: for qd and qps forms
// that is the index width, for dq and dpd forms the destination width.

func (a *Assembler) Vpgatherdd(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVpgatherdd, dst, src, mask, vlen)
}

func (a *Assembler) Vpgatherdq(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVpgatherdq, dst, src, mask, vlen)
}

func (a *Assembler) Vpgatherqd(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVpgatherqd, dst, src, mask, vlen)
}

func (a *Assembler) Vpgatherqq(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVpgatherqq, dst, src, mask, vlen)
}

func (a *Assembler) Vgatherdps(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVgatherdps, dst, src, mask, vlen)
}

func (a *Assembler) Vgatherdpd(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVgatherdpd, dst, src, mask, vlen)
}

func (a *Assembler) Vgatherqps(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVgatherqps, dst, src, mask, vlen)
}

func (a *Assembler) Vgatherqpd(dst XMMRegister, src Address, mask XMMRegister, vlen AvxVectorLen) {
	a.vexGather(&opVgatherqpd, dst, src, mask, vlen)
}

func (a *Assembler) Evpgatherdd(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVpgatherdd, dst, mask, src, vlen)
}

func (a *Assembler) Evpgatherdq(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVpgatherdq, dst, mask, src, vlen)
}

func (a *Assembler) Evpgatherqd(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVpgatherqd, dst, mask, src, vlen)
}

func (a *Assembler) Evpgatherqq(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVpgatherqq, dst, mask, src, vlen)
}

func (a *Assembler) Evgatherdps(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVgatherdps, dst, mask, src, vlen)
}

func (a *Assembler) Evgatherdpd(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVgatherdpd, dst, mask, src, vlen)
}

func (a *Assembler) Evgatherqps(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVgatherqps, dst, mask, src, vlen)
}

func (a *Assembler) Evgatherqpd(dst XMMRegister, mask KRegister, src Address, vlen AvxVectorLen) {
	a.evexGather(&opVgatherqpd, dst, mask, src, vlen)
}

func (a *Assembler) Evpscatterdd(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVpscatterdd, src, mask, dst, vlen)
}

func (a *Assembler) Evpscatterdq(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVpscatterdq, src, mask, dst, vlen)
}

func (a *Assembler) Evpscatterqd(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVpscatterqd, src, mask, dst, vlen)
}

func (a *Assembler) Evpscatterqq(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVpscatterqq, src, mask, dst, vlen)
}

func (a *Assembler) Evscatterdps(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVscatterdps, src, mask, dst, vlen)
}

func (a *Assembler) Evscatterdpd(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVscatterdpd, src, mask, dst, vlen)
}

func (a *Assembler) Evscatterqps(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVscatterqps, src, mask, dst, vlen)
}

func (a *Assembler) Evscatterqpd(dst Address, mask KRegister, src XMMRegister, vlen AvxVectorLen) {
	a.evexGather(&opVscatterqpd, src, mask, dst, vlen)
}
