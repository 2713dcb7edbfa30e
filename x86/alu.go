package x86

// aluOp is one of the eight classic binary operations sharing the
// 00..3F opcode block and the 80/81/83 immediate group.
type aluOp struct {
	name  string
	digit byte
}

var (
	aluADD = aluOp{"add", X86_REG_ADD}
	aluOR  = aluOp{"or", X86_REG_OR}
	aluADC = aluOp{"adc", X86_REG_ADC}
	aluSBB = aluOp{"sbb", X86_REG_SBB}
	aluAND = aluOp{"and", X86_REG_AND}
	aluSUB = aluOp{"sub", X86_REG_SUB}
	aluXOR = aluOp{"xor", X86_REG_XOR}
	aluCMP = aluOp{"cmp", X86_REG_CMP}
)

// alu dispatches on operand shape:
//
//	reg, reg   op r, r/m   (base+3, reg field = dst)
//	reg, mem   op r, r/m   (base+3)
//	mem, reg   op r/m, r   (base+1)
//	reg, imm   83 /digit ib, short accumulator form, or 81 /digit id
//	mem, imm   83 /digit ib or 81 /digit id
func (a *Assembler) alu(op aluOp, size opSize, dst, src Operand, forceImm32 bool) {
	a.emit(func() error {
		base := op.digit << 3
		load := gpEnc{name: op.name, size: size, opcode: []byte{pick(size, base+2, base+3)}, br: byteFlags(size)}
		store := gpEnc{name: op.name, size: size, opcode: []byte{pick(size, base, base+1)}, br: byteFlags(size)}
		switch d := dst.(type) {
		case Register:
			reg, err := gpReg(op.name, d)
			if err != nil {
				return err
			}
			switch s := src.(type) {
			case Register, Address:
				return load.op(a, reg, s)
			case Imm:
				return a.aluImm(op, size, d, s, forceImm32)
			}
		case Address:
			switch s := src.(type) {
			case Register:
				reg, err := gpReg(op.name, s)
				if err != nil {
					return err
				}
				return store.rm(a, reg, d)
			case Imm:
				return a.aluImm(op, size, d, s, forceImm32)
			}
		}
		return badOperands(op.name, dst, src)
	})
}

func (a *Assembler) aluImm(op aluOp, size opSize, dst Operand, imm Imm, forceImm32 bool) error {
	v, err := sizedImm(op.name, size, imm)
	if err != nil {
		return err
	}
	if size == size8 {
		if r, ok := dst.(Register); ok && r == ImplicitAccumulator {
			a.emitBytes(op.digit<<3+4, byte(v))
			return nil
		}
		e := gpEnc{name: op.name, size: size, opcode: []byte{X86_OP_GROUP1_RM8_IMM}, br: rmIsByte}
		if err := e.op(a, int(op.digit), dst); err != nil {
			return err
		}
		a.emitInt8(byte(v))
		return nil
	}
	if isInt8(v) && !forceImm32 {
		e := gpEnc{name: op.name, size: size, opcode: []byte{X86_OP_GROUP1_RM_IMM8}}
		if err := e.op(a, int(op.digit), dst); err != nil {
			return err
		}
		a.emitInt8(byte(v))
		return nil
	}
	if r, ok := dst.(Register); ok && r == ImplicitAccumulator && !forceImm32 {
		if size == size16 {
			a.emitInt8(X86_PREFIX_66)
		}
		a.rexRR(size == size64, 0, 0, 0)
		a.emitInt8(op.digit<<3 + 5)
		a.emitImm(size, v)
		return nil
	}
	e := gpEnc{name: op.name, size: size, opcode: []byte{X86_OP_GROUP1_RM_IMM}}
	if err := e.op(a, int(op.digit), dst); err != nil {
		return err
	}
	a.emitImm(size, v)
	return nil
}

func (a *Assembler) Addq(dst, src Operand) { a.alu(aluADD, size64, dst, src, false) }
func (a *Assembler) Addl(dst, src Operand) { a.alu(aluADD, size32, dst, src, false) }
func (a *Assembler) Addw(dst, src Operand) { a.alu(aluADD, size16, dst, src, false) }
func (a *Assembler) Addb(dst, src Operand) { a.alu(aluADD, size8, dst, src, false) }
func (a *Assembler) Orq(dst, src Operand)  { a.alu(aluOR, size64, dst, src, false) }
func (a *Assembler) Orl(dst, src Operand)  { a.alu(aluOR, size32, dst, src, false) }
func (a *Assembler) Orw(dst, src Operand)  { a.alu(aluOR, size16, dst, src, false) }
func (a *Assembler) Orb(dst, src Operand)  { a.alu(aluOR, size8, dst, src, false) }
func (a *Assembler) Adcq(dst, src Operand) { a.alu(aluADC, size64, dst, src, false) }
func (a *Assembler) Adcl(dst, src Operand) { a.alu(aluADC, size32, dst, src, false) }
func (a *Assembler) Sbbq(dst, src Operand) { a.alu(aluSBB, size64, dst, src, false) }
func (a *Assembler) Sbbl(dst, src Operand) { a.alu(aluSBB, size32, dst, src, false) }
func (a *Assembler) Andq(dst, src Operand) { a.alu(aluAND, size64, dst, src, false) }
func (a *Assembler) Andl(dst, src Operand) { a.alu(aluAND, size32, dst, src, false) }
func (a *Assembler) Andw(dst, src Operand) { a.alu(aluAND, size16, dst, src, false) }
func (a *Assembler) Andb(dst, src Operand) { a.alu(aluAND, size8, dst, src, false) }
func (a *Assembler) Subq(dst, src Operand) { a.alu(aluSUB, size64, dst, src, false) }
func (a *Assembler) Subl(dst, src Operand) { a.alu(aluSUB, size32, dst, src, false) }
func (a *Assembler) Subw(dst, src Operand) { a.alu(aluSUB, size16, dst, src, false) }
func (a *Assembler) Subb(dst, src Operand) { a.alu(aluSUB, size8, dst, src, false) }
func (a *Assembler) Xorq(dst, src Operand) { a.alu(aluXOR, size64, dst, src, false) }
func (a *Assembler) Xorl(dst, src Operand) { a.alu(aluXOR, size32, dst, src, false) }
func (a *Assembler) Xorw(dst, src Operand) { a.alu(aluXOR, size16, dst, src, false) }
func (a *Assembler) Xorb(dst, src Operand) { a.alu(aluXOR, size8, dst, src, false) }
func (a *Assembler) Cmpq(dst, src Operand) { a.alu(aluCMP, size64, dst, src, false) }
func (a *Assembler) Cmpl(dst, src Operand) { a.alu(aluCMP, size32, dst, src, false) }
func (a *Assembler) Cmpw(dst, src Operand) { a.alu(aluCMP, size16, dst, src, false) }
func (a *Assembler) Cmpb(dst, src Operand) { a.alu(aluCMP, size8, dst, src, false) }

// The Imm32 variants always use the 81 /digit id form so the immediate can be
// patched in place.
func (a *Assembler) AddqImm32(dst Operand, imm int32) { a.alu(aluADD, size64, dst, Imm(imm), true) }
func (a *Assembler) AddlImm32(dst Operand, imm int32) { a.alu(aluADD, size32, dst, Imm(imm), true) }
func (a *Assembler) SubqImm32(dst Operand, imm int32) { a.alu(aluSUB, size64, dst, Imm(imm), true) }
func (a *Assembler) SublImm32(dst Operand, imm int32) { a.alu(aluSUB, size32, dst, Imm(imm), true) }
func (a *Assembler) CmpqImm32(dst Operand, imm int32) { a.alu(aluCMP, size64, dst, Imm(imm), true) }
func (a *Assembler) CmplImm32(dst Operand, imm int32) { a.alu(aluCMP, size32, dst, Imm(imm), true) }

// test has no sign-extended imm8 form: F6/F7 /0 with a full-size immediate,
// A8/A9 for the accumulator.
func (a *Assembler) test(size opSize, dst, src Operand) {
	a.emit(func() error {
		if imm, ok := src.(Imm); ok {
			v, err := sizedImm("test", size, imm)
			if err != nil {
				return err
			}
			if r, ok := dst.(Register); ok && r == ImplicitAccumulator {
				if size == size16 {
					a.emitInt8(X86_PREFIX_66)
				}
				a.rexRR(size == size64, 0, 0, 0)
				a.emitInt8(pick(size, X86_OP_TEST_AL_IMM8, X86_OP_TEST_AX_IMM))
				a.emitImm(size, v)
				return nil
			}
			e := gpEnc{name: "test", size: size, opcode: []byte{pick(size, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM)}, br: digitFlags(size)}
			if err := e.op(a, X86_REG_TEST, dst); err != nil {
				return err
			}
			a.emitImm(size, v)
			return nil
		}
		e := gpEnc{name: "test", size: size, opcode: []byte{pick(size, X86_OP_TEST_RM8_R8, X86_OP_TEST_RM_R)}, br: byteFlags(size)}
		// test is symmetric; the register goes in the reg field.
		reg, rmOp := dst, src
		if _, ok := dst.(Address); ok {
			reg, rmOp = src, dst
		}
		r, ok := reg.(Register)
		if !ok {
			return badOperands("test", dst, src)
		}
		enc, err := gpReg("test", r)
		if err != nil {
			return err
		}
		return e.op(a, enc, rmOp)
	})
}

func (a *Assembler) Testq(dst, src Operand) { a.test(size64, dst, src) }
func (a *Assembler) Testl(dst, src Operand) { a.test(size32, dst, src) }
func (a *Assembler) Testw(dst, src Operand) { a.test(size16, dst, src) }
func (a *Assembler) Testb(dst, src Operand) { a.test(size8, dst, src) }

// unary emits the F6/F7 (group 3) and FE/FF (group 4/5) one-operand forms.
func (a *Assembler) unary(name string, size opSize, op8, op byte, digit int, dst Operand) {
	a.emit(func() error {
		e := gpEnc{name: name, size: size, opcode: []byte{pick(size, op8, op)}, br: digitFlags(size)}
		return e.op(a, digit, dst)
	})
}

func (a *Assembler) Notq(dst Operand) { a.unary("not", size64, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_NOT, dst) }
func (a *Assembler) Notl(dst Operand) { a.unary("not", size32, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_NOT, dst) }
func (a *Assembler) Negq(dst Operand) { a.unary("neg", size64, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_NEG, dst) }
func (a *Assembler) Negl(dst Operand) { a.unary("neg", size32, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_NEG, dst) }

// Mul, Imul, Div and Idiv implicitly use RDX:RAX.
func (a *Assembler) Mulq(src Operand) { a.unary("mul", size64, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_MUL, src) }
func (a *Assembler) Mull(src Operand) { a.unary("mul", size32, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_MUL, src) }
func (a *Assembler) ImulqRDXRAX(src Operand) {
	a.unary("imul", size64, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_IMUL, src)
}
func (a *Assembler) Divq(src Operand)  { a.unary("div", size64, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_DIV, src) }
func (a *Assembler) Divl(src Operand)  { a.unary("div", size32, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_DIV, src) }
func (a *Assembler) Idivq(src Operand) { a.unary("idiv", size64, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_IDIV, src) }
func (a *Assembler) Idivl(src Operand) { a.unary("idiv", size32, X86_OP_GROUP3_RM8, X86_OP_GROUP3_RM, X86_REG_IDIV, src) }
func (a *Assembler) Incq(dst Operand)  { a.unary("inc", size64, X86_OP_GROUP4_RM8, X86_OP_GROUP5_RM, X86_REG_INC, dst) }
func (a *Assembler) Incl(dst Operand)  { a.unary("inc", size32, X86_OP_GROUP4_RM8, X86_OP_GROUP5_RM, X86_REG_INC, dst) }
func (a *Assembler) Decq(dst Operand)  { a.unary("dec", size64, X86_OP_GROUP4_RM8, X86_OP_GROUP5_RM, X86_REG_DEC, dst) }
func (a *Assembler) Decl(dst Operand)  { a.unary("dec", size32, X86_OP_GROUP4_RM8, X86_OP_GROUP5_RM, X86_REG_DEC, dst) }

// imul emits the two-operand 0F AF form, or the three-operand 6B/69 form
// when an immediate is given.
func (a *Assembler) imul(size opSize, dst Register, src Operand, imm *Imm) {
	a.emit(func() error {
		reg, err := gpReg("imul", dst)
		if err != nil {
			return err
		}
		if imm == nil {
			e := gpEnc{name: "imul", size: size, opcode: []byte{X86_PREFIX_0F, X86_OP2_IMUL_R_RM}}
			return e.op(a, reg, src)
		}
		v, err := sizedImm("imul", size, *imm)
		if err != nil {
			return err
		}
		if isInt8(v) {
			e := gpEnc{name: "imul", size: size, opcode: []byte{X86_OP_IMUL_R_RM_IMM8}}
			if err := e.op(a, reg, src); err != nil {
				return err
			}
			a.emitInt8(byte(v))
			return nil
		}
		e := gpEnc{name: "imul", size: size, opcode: []byte{X86_OP_IMUL_R_RM_IMM}}
		if err := e.op(a, reg, src); err != nil {
			return err
		}
		a.emitImm(size, v)
		return nil
	})
}

func (a *Assembler) Imulq(dst Register, src Operand) { a.imul(size64, dst, src, nil) }
func (a *Assembler) Imull(dst Register, src Operand) { a.imul(size32, dst, src, nil) }

func (a *Assembler) ImulqImm(dst Register, src Operand, imm Imm) { a.imul(size64, dst, src, &imm) }
func (a *Assembler) ImullImm(dst Register, src Operand, imm Imm) { a.imul(size32, dst, src, &imm) }
