package x86

import "github.com/colorfulnotion/x86jit/cpu"

type bitTest struct {
	name   string
	opcode byte // r/m, r form
	digit  int  // 0F BA /digit ib form
}

var (
	btBT  = bitTest{"bt", X86_OP2_BT, X86_REG_BT}
	btBTS = bitTest{"bts", X86_OP2_BTS, X86_REG_BTS}
	btBTR = bitTest{"btr", X86_OP2_BTR, X86_REG_BTR}
	btBTC = bitTest{"btc", X86_OP2_BTC, X86_REG_BTC}
)

func (a *Assembler) bitTest(op bitTest, size opSize, dst, bit Operand) {
	a.emit(func() error {
		switch b := bit.(type) {
		case Register:
			reg, err := gpReg(op.name, b)
			if err != nil {
				return err
			}
			e := gpEnc{name: op.name, size: size, opcode: []byte{X86_PREFIX_0F, op.opcode}}
			return e.op(a, reg, dst)
		case Imm:
			if !inRange(int64(b), 0, int64(size.bits()-1)) {
				return immRangeError("%s: bit index %d outside 0..%d", op.name, int64(b), size.bits()-1)
			}
			e := gpEnc{name: op.name, size: size, opcode: []byte{X86_PREFIX_0F, X86_OP2_BT_IMM}}
			if err := e.op(a, op.digit, dst); err != nil {
				return err
			}
			a.emitInt8(byte(b))
			return nil
		}
		return badOperands(op.name, dst, bit)
	})
}

func (a *Assembler) Btq(dst, bit Operand)  { a.bitTest(btBT, size64, dst, bit) }
func (a *Assembler) Btl(dst, bit Operand)  { a.bitTest(btBT, size32, dst, bit) }
func (a *Assembler) Btsq(dst, bit Operand) { a.bitTest(btBTS, size64, dst, bit) }
func (a *Assembler) Btsl(dst, bit Operand) { a.bitTest(btBTS, size32, dst, bit) }
func (a *Assembler) Btrq(dst, bit Operand) { a.bitTest(btBTR, size64, dst, bit) }
func (a *Assembler) Btrl(dst, bit Operand) { a.bitTest(btBTR, size32, dst, bit) }
func (a *Assembler) Btcq(dst, bit Operand) { a.bitTest(btBTC, size64, dst, bit) }
func (a *Assembler) Btcl(dst, bit Operand) { a.bitTest(btBTC, size32, dst, bit) }

// bitScan covers bsf/bsr and their F3-prefixed counting relatives.
func (a *Assembler) bitScan(name string, feature cpu.Feature, pfx, opcode byte, size opSize, dst Register, src Operand) {
	a.emit(func() error {
		if feature != cpu.NoFeature {
			if err := a.requireFeatures(name, feature); err != nil {
				return err
			}
		}
		reg, err := gpReg(name, dst)
		if err != nil {
			return err
		}
		e := gpEnc{name: name, size: size, pfx: pfx, opcode: []byte{X86_PREFIX_0F, opcode}}
		return e.op(a, reg, src)
	})
}

func (a *Assembler) Bsfq(dst Register, src Operand) {
	a.bitScan("bsf", cpu.NoFeature, 0, X86_OP2_BSF, size64, dst, src)
}

func (a *Assembler) Bsfl(dst Register, src Operand) {
	a.bitScan("bsf", cpu.NoFeature, 0, X86_OP2_BSF, size32, dst, src)
}

func (a *Assembler) Bsrq(dst Register, src Operand) {
	a.bitScan("bsr", cpu.NoFeature, 0, X86_OP2_BSR, size64, dst, src)
}

func (a *Assembler) Bsrl(dst Register, src Operand) {
	a.bitScan("bsr", cpu.NoFeature, 0, X86_OP2_BSR, size32, dst, src)
}

func (a *Assembler) Popcntq(dst Register, src Operand) {
	a.bitScan("popcnt", cpu.POPCNT, X86_PREFIX_REP, X86_OP2_POPCNT, size64, dst, src)
}

func (a *Assembler) Popcntl(dst Register, src Operand) {
	a.bitScan("popcnt", cpu.POPCNT, X86_PREFIX_REP, X86_OP2_POPCNT, size32, dst, src)
}

// Lzcnt decodes as bsr on processors without LZCNT, so it is gated.
func (a *Assembler) Lzcntq(dst Register, src Operand) {
	a.bitScan("lzcnt", cpu.LZCNT, X86_PREFIX_REP, X86_OP2_BSR, size64, dst, src)
}

func (a *Assembler) Lzcntl(dst Register, src Operand) {
	a.bitScan("lzcnt", cpu.LZCNT, X86_PREFIX_REP, X86_OP2_BSR, size32, dst, src)
}

func (a *Assembler) Tzcntq(dst Register, src Operand) {
	a.bitScan("tzcnt", cpu.BMI1, X86_PREFIX_REP, X86_OP2_BSF, size64, dst, src)
}

func (a *Assembler) Tzcntl(dst Register, src Operand) {
	a.bitScan("tzcnt", cpu.BMI1, X86_PREFIX_REP, X86_OP2_BSF, size32, dst, src)
}

// vexGP encodes a VEX-prefixed general purpose instruction (BMI1/BMI2).
// These never take EVEX, so the attribute is always legacy mode.
func (a *Assembler) vexGP(name string, feature cpu.Feature, pp simdPrefix, esc opEscape, opcode byte, w bool, reg, nds int, rm Operand) error {
	if err := a.requireFeatures(name, feature); err != nil {
		return err
	}
	at := NewInstructionAttr(AVX128, w, true, true, false)
	switch r := rm.(type) {
	case Register:
		if !r.IsValid() {
			return badOperands(name, r)
		}
		if err := a.vexPrefix(at, pp, esc, vexFields{reg: reg, nds: nds, rm: int(r)}); err != nil {
			return err
		}
		a.emitInt8(opcode)
		a.emitModRMReg(reg, int(r))
		return nil
	case Address:
		if r.isVSIB() {
			return badOperands(name, r)
		}
		if err := a.vexPrefix(at, pp, esc, vexFields{reg: reg, nds: nds, rm: -1, adr: &r}); err != nil {
			return err
		}
		a.emitInt8(opcode)
		return a.emitOperand(reg, r, at)
	}
	return badOperands(name, rm)
}

// bmiRVM is the reg, vvvv, r/m shape (andn, pdep, pext, mulx).
func (a *Assembler) bmiRVM(name string, feature cpu.Feature, pp simdPrefix, opcode byte, size opSize, dst, src1 Register, src2 Operand) {
	a.emit(func() error {
		reg, err := gpReg(name, dst)
		if err != nil {
			return err
		}
		nds, err := gpReg(name, src1)
		if err != nil {
			return err
		}
		return a.vexGP(name, feature, pp, esc0F38, opcode, size == size64, reg, nds, src2)
	})
}

// bmiRMV is the reg, r/m, vvvv shape (bextr, bzhi, sarx, shlx, shrx).
func (a *Assembler) bmiRMV(name string, feature cpu.Feature, pp simdPrefix, opcode byte, size opSize, dst Register, src1 Operand, src2 Register) {
	a.emit(func() error {
		reg, err := gpReg(name, dst)
		if err != nil {
			return err
		}
		nds, err := gpReg(name, src2)
		if err != nil {
			return err
		}
		return a.vexGP(name, feature, pp, esc0F38, opcode, size == size64, reg, nds, src1)
	})
}

// bmiVM is the vvvv, r/m shape with an opcode extension (blsi, blsmsk, blsr).
func (a *Assembler) bmiVM(name string, digit int, size opSize, dst Register, src Operand) {
	a.emit(func() error {
		nds, err := gpReg(name, dst)
		if err != nil {
			return err
		}
		return a.vexGP(name, cpu.BMI1, simdNone, esc0F38, 0xF3, size == size64, digit, nds, src)
	})
}

func (a *Assembler) Andnq(dst, src1 Register, src2 Operand) {
	a.bmiRVM("andn", cpu.BMI1, simdNone, 0xF2, size64, dst, src1, src2)
}

func (a *Assembler) Andnl(dst, src1 Register, src2 Operand) {
	a.bmiRVM("andn", cpu.BMI1, simdNone, 0xF2, size32, dst, src1, src2)
}

// Bextrq extracts bits of src selected by the start/length control register.
func (a *Assembler) Bextrq(dst Register, src Operand, control Register) {
	a.bmiRMV("bextr", cpu.BMI1, simdNone, 0xF7, size64, dst, src, control)
}

func (a *Assembler) Bextrl(dst Register, src Operand, control Register) {
	a.bmiRMV("bextr", cpu.BMI1, simdNone, 0xF7, size32, dst, src, control)
}

func (a *Assembler) Blsiq(dst Register, src Operand)   { a.bmiVM("blsi", 3, size64, dst, src) }
func (a *Assembler) Blsil(dst Register, src Operand)   { a.bmiVM("blsi", 3, size32, dst, src) }
func (a *Assembler) Blsmskq(dst Register, src Operand) { a.bmiVM("blsmsk", 2, size64, dst, src) }
func (a *Assembler) Blsmskl(dst Register, src Operand) { a.bmiVM("blsmsk", 2, size32, dst, src) }
func (a *Assembler) Blsrq(dst Register, src Operand)   { a.bmiVM("blsr", 1, size64, dst, src) }
func (a *Assembler) Blsrl(dst Register, src Operand)   { a.bmiVM("blsr", 1, size32, dst, src) }

func (a *Assembler) Bzhiq(dst Register, src Operand, index Register) {
	a.bmiRMV("bzhi", cpu.BMI2, simdNone, 0xF5, size64, dst, src, index)
}

func (a *Assembler) Bzhil(dst Register, src Operand, index Register) {
	a.bmiRMV("bzhi", cpu.BMI2, simdNone, 0xF5, size32, dst, src, index)
}

// Mulxq multiplies ImplicitHigh by src: hi gets the high half, lo the low half.
func (a *Assembler) Mulxq(hi, lo Register, src Operand) {
	a.bmiRVM("mulx", cpu.BMI2, simdF2, 0xF6, size64, hi, lo, src)
}

func (a *Assembler) Mulxl(hi, lo Register, src Operand) {
	a.bmiRVM("mulx", cpu.BMI2, simdF2, 0xF6, size32, hi, lo, src)
}

func (a *Assembler) Pdepq(dst, src Register, mask Operand) {
	a.bmiRVM("pdep", cpu.BMI2, simdF2, 0xF5, size64, dst, src, mask)
}

func (a *Assembler) Pdepl(dst, src Register, mask Operand) {
	a.bmiRVM("pdep", cpu.BMI2, simdF2, 0xF5, size32, dst, src, mask)
}

func (a *Assembler) Pextq(dst, src Register, mask Operand) {
	a.bmiRVM("pext", cpu.BMI2, simdF3, 0xF5, size64, dst, src, mask)
}

func (a *Assembler) Pextl(dst, src Register, mask Operand) {
	a.bmiRVM("pext", cpu.BMI2, simdF3, 0xF5, size32, dst, src, mask)
}

func (a *Assembler) Sarxq(dst Register, src Operand, count Register) {
	a.bmiRMV("sarx", cpu.BMI2, simdF3, 0xF7, size64, dst, src, count)
}

func (a *Assembler) Sarxl(dst Register, src Operand, count Register) {
	a.bmiRMV("sarx", cpu.BMI2, simdF3, 0xF7, size32, dst, src, count)
}

func (a *Assembler) Shlxq(dst Register, src Operand, count Register) {
	a.bmiRMV("shlx", cpu.BMI2, simd66, 0xF7, size64, dst, src, count)
}

func (a *Assembler) Shlxl(dst Register, src Operand, count Register) {
	a.bmiRMV("shlx", cpu.BMI2, simd66, 0xF7, size32, dst, src, count)
}

func (a *Assembler) Shrxq(dst Register, src Operand, count Register) {
	a.bmiRMV("shrx", cpu.BMI2, simdF2, 0xF7, size64, dst, src, count)
}

func (a *Assembler) Shrxl(dst Register, src Operand, count Register) {
	a.bmiRMV("shrx", cpu.BMI2, simdF2, 0xF7, size32, dst, src, count)
}

// rorx rotates right by an immediate without touching flags.
func (a *Assembler) rorx(size opSize, dst Register, src Operand, count Imm) {
	a.emit(func() error {
		reg, err := gpReg("rorx", dst)
		if err != nil {
			return err
		}
		if !inRange(int64(count), 0, shiftMask(size)) {
			return immRangeError("rorx: rotate count %d outside 0..%d", int64(count), shiftMask(size))
		}
		if err := a.vexGP("rorx", cpu.BMI2, simdF2, esc0F3A, 0xF0, size == size64, reg, 0, src); err != nil {
			return err
		}
		a.emitInt8(byte(count))
		return nil
	})
}

func (a *Assembler) Rorxq(dst Register, src Operand, count Imm) { a.rorx(size64, dst, src, count) }
func (a *Assembler) Rorxl(dst Register, src Operand, count Imm) { a.rorx(size32, dst, src, count) }

// adx emits adcx (66) and adox (F3); the mandatory prefix follows 0x66
// operand-size rules, so it sits before REX.
func (a *Assembler) adx(name string, pfx byte, size opSize, dst Register, src Operand) {
	a.emit(func() error {
		if err := a.requireFeatures(name, cpu.ADX); err != nil {
			return err
		}
		reg, err := gpReg(name, dst)
		if err != nil {
			return err
		}
		e := gpEnc{name: name, size: size, pfx: pfx, opcode: []byte{X86_PREFIX_0F, X86_ESCAPE_38, X86_OP3_ADX}}
		return e.op(a, reg, src)
	})
}

func (a *Assembler) Adcxq(dst Register, src Operand) { a.adx("adcx", X86_PREFIX_66, size64, dst, src) }
func (a *Assembler) Adcxl(dst Register, src Operand) { a.adx("adcx", X86_PREFIX_66, size32, dst, src) }
func (a *Assembler) Adoxq(dst Register, src Operand) { a.adx("adox", X86_PREFIX_REP, size64, dst, src) }
func (a *Assembler) Adoxl(dst Register, src Operand) { a.adx("adox", X86_PREFIX_REP, size32, dst, src) }
