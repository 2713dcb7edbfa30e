package x86

type shiftOp struct {
	name  string
	digit int
}

var (
	shROL = shiftOp{"rol", X86_REG_ROL}
	shROR = shiftOp{"ror", X86_REG_ROR}
	shRCL = shiftOp{"rcl", X86_REG_RCL}
	shRCR = shiftOp{"rcr", X86_REG_RCR}
	shSHL = shiftOp{"shl", X86_REG_SHL}
	shSHR = shiftOp{"shr", X86_REG_SHR}
	shSAR = shiftOp{"sar", X86_REG_SAR}
)

func shiftMask(size opSize) int64 {
	if size == size64 {
		return X86_SHIFT_MASK_64
	}
	return X86_SHIFT_MASK_32
}

// shift emits the by-one, by-imm8 or by-CL (count == nil) form.
func (a *Assembler) shift(op shiftOp, size opSize, dst Operand, count *Imm) {
	a.emit(func() error {
		br := digitFlags(size)
		if count == nil {
			e := gpEnc{name: op.name, size: size, opcode: []byte{pick(size, X86_OP_GROUP2_RM8_CL, X86_OP_GROUP2_RM_CL)}, br: br}
			return e.op(a, op.digit, dst)
		}
		n := int64(*count)
		if !inRange(n, 0, shiftMask(size)) {
			return immRangeError("%s: shift count %d outside 0..%d", op.name, n, shiftMask(size))
		}
		if n == 1 {
			e := gpEnc{name: op.name, size: size, opcode: []byte{pick(size, X86_OP_GROUP2_RM8_1, X86_OP_GROUP2_RM_1)}, br: br}
			return e.op(a, op.digit, dst)
		}
		e := gpEnc{name: op.name, size: size, opcode: []byte{pick(size, X86_OP_GROUP2_RM8_IMM, X86_OP_GROUP2_RM_IMM8)}, br: br}
		if err := e.op(a, op.digit, dst); err != nil {
			return err
		}
		a.emitInt8(byte(n))
		return nil
	})
}

func (a *Assembler) Rolq(dst Operand, count Imm) { a.shift(shROL, size64, dst, &count) }
func (a *Assembler) Roll(dst Operand, count Imm) { a.shift(shROL, size32, dst, &count) }
func (a *Assembler) Rorq(dst Operand, count Imm) { a.shift(shROR, size64, dst, &count) }
func (a *Assembler) Rorl(dst Operand, count Imm) { a.shift(shROR, size32, dst, &count) }
func (a *Assembler) Rclq(dst Operand, count Imm) { a.shift(shRCL, size64, dst, &count) }
func (a *Assembler) Rcll(dst Operand, count Imm) { a.shift(shRCL, size32, dst, &count) }
func (a *Assembler) Rcrq(dst Operand, count Imm) { a.shift(shRCR, size64, dst, &count) }
func (a *Assembler) Rcrl(dst Operand, count Imm) { a.shift(shRCR, size32, dst, &count) }
func (a *Assembler) Shlq(dst Operand, count Imm) { a.shift(shSHL, size64, dst, &count) }
func (a *Assembler) Shll(dst Operand, count Imm) { a.shift(shSHL, size32, dst, &count) }
func (a *Assembler) Shlw(dst Operand, count Imm) { a.shift(shSHL, size16, dst, &count) }
func (a *Assembler) Shlb(dst Operand, count Imm) { a.shift(shSHL, size8, dst, &count) }
func (a *Assembler) Shrq(dst Operand, count Imm) { a.shift(shSHR, size64, dst, &count) }
func (a *Assembler) Shrl(dst Operand, count Imm) { a.shift(shSHR, size32, dst, &count) }
func (a *Assembler) Shrw(dst Operand, count Imm) { a.shift(shSHR, size16, dst, &count) }
func (a *Assembler) Shrb(dst Operand, count Imm) { a.shift(shSHR, size8, dst, &count) }
func (a *Assembler) Sarq(dst Operand, count Imm) { a.shift(shSAR, size64, dst, &count) }
func (a *Assembler) Sarl(dst Operand, count Imm) { a.shift(shSAR, size32, dst, &count) }
func (a *Assembler) Sarw(dst Operand, count Imm) { a.shift(shSAR, size16, dst, &count) }
func (a *Assembler) Sarb(dst Operand, count Imm) { a.shift(shSAR, size8, dst, &count) }

// The CL forms shift by the low bits of ImplicitShiftCount.
func (a *Assembler) RolqCL(dst Operand) { a.shift(shROL, size64, dst, nil) }
func (a *Assembler) RollCL(dst Operand) { a.shift(shROL, size32, dst, nil) }
func (a *Assembler) RorqCL(dst Operand) { a.shift(shROR, size64, dst, nil) }
func (a *Assembler) RorlCL(dst Operand) { a.shift(shROR, size32, dst, nil) }
func (a *Assembler) RclqCL(dst Operand) { a.shift(shRCL, size64, dst, nil) }
func (a *Assembler) RcrqCL(dst Operand) { a.shift(shRCR, size64, dst, nil) }
func (a *Assembler) ShlqCL(dst Operand) { a.shift(shSHL, size64, dst, nil) }
func (a *Assembler) ShllCL(dst Operand) { a.shift(shSHL, size32, dst, nil) }
func (a *Assembler) ShrqCL(dst Operand) { a.shift(shSHR, size64, dst, nil) }
func (a *Assembler) ShrlCL(dst Operand) { a.shift(shSHR, size32, dst, nil) }
func (a *Assembler) SarqCL(dst Operand) { a.shift(shSAR, size64, dst, nil) }
func (a *Assembler) SarlCL(dst Operand) { a.shift(shSAR, size32, dst, nil) }

// doubleShift emits shld/shrd; src is shifted into dst.
func (a *Assembler) doubleShift(name string, opImm, opCL byte, size opSize, dst Operand, src Register, count *Imm) {
	a.emit(func() error {
		reg, err := gpReg(name, src)
		if err != nil {
			return err
		}
		if count == nil {
			e := gpEnc{name: name, size: size, opcode: []byte{X86_PREFIX_0F, opCL}}
			return e.op(a, reg, dst)
		}
		n := int64(*count)
		if !inRange(n, 0, shiftMask(size)) {
			return immRangeError("%s: shift count %d outside 0..%d", name, n, shiftMask(size))
		}
		e := gpEnc{name: name, size: size, opcode: []byte{X86_PREFIX_0F, opImm}}
		if err := e.op(a, reg, dst); err != nil {
			return err
		}
		a.emitInt8(byte(n))
		return nil
	})
}

func (a *Assembler) Shldq(dst Operand, src Register, count Imm) {
	a.doubleShift("shld", X86_OP2_SHLD, X86_OP2_SHLD_CL, size64, dst, src, &count)
}

func (a *Assembler) Shldl(dst Operand, src Register, count Imm) {
	a.doubleShift("shld", X86_OP2_SHLD, X86_OP2_SHLD_CL, size32, dst, src, &count)
}

func (a *Assembler) Shrdq(dst Operand, src Register, count Imm) {
	a.doubleShift("shrd", X86_OP2_SHRD, X86_OP2_SHRD_CL, size64, dst, src, &count)
}

func (a *Assembler) Shrdl(dst Operand, src Register, count Imm) {
	a.doubleShift("shrd", X86_OP2_SHRD, X86_OP2_SHRD_CL, size32, dst, src, &count)
}

func (a *Assembler) ShldqCL(dst Operand, src Register) {
	a.doubleShift("shld", X86_OP2_SHLD, X86_OP2_SHLD_CL, size64, dst, src, nil)
}

func (a *Assembler) ShrdqCL(dst Operand, src Register) {
	a.doubleShift("shrd", X86_OP2_SHRD, X86_OP2_SHRD_CL, size64, dst, src, nil)
}
