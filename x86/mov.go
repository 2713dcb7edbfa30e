package x86

import "github.com/colorfulnotion/x86jit/cpu"

// mov handles the rr, rm, mr and mi shapes; register-immediate goes through
// movImm for its width-specific short forms.
func (a *Assembler) mov(size opSize, dst, src Operand) {
	a.emit(func() error {
		load := gpEnc{name: "mov", size: size, opcode: []byte{pick(size, X86_OP_MOV_R8_RM8, X86_OP_MOV_R_RM)}, br: byteFlags(size)}
		store := gpEnc{name: "mov", size: size, opcode: []byte{pick(size, X86_OP_MOV_RM8_R8, X86_OP_MOV_RM_R)}, br: byteFlags(size)}
		switch d := dst.(type) {
		case Register:
			reg, err := gpReg("mov", d)
			if err != nil {
				return err
			}
			switch s := src.(type) {
			case Register, Address:
				return load.op(a, reg, s)
			case Imm:
				return a.movImm(size, d, s)
			}
		case Address:
			switch s := src.(type) {
			case Register:
				reg, err := gpReg("mov", s)
				if err != nil {
					return err
				}
				return store.rm(a, reg, d)
			case Imm:
				v, err := sizedImm("mov", size, s)
				if err != nil {
					return err
				}
				e := gpEnc{name: "mov", size: size, opcode: []byte{pick(size, X86_OP_MOV_RM8_IMM8, X86_OP_MOV_RM_IMM)}}
				if err := e.rm(a, 0, d); err != nil {
					return err
				}
				a.emitImm(size, v)
				return nil
			}
		}
		return badOperands("mov", dst, src)
	})
}

// movImm picks the shortest register load: mov r32, imm32 zero-extends, so a
// 64-bit value that fits uint32 never needs REX.W; C7 /0 sign-extends a
// simm32; everything else is movabs.
func (a *Assembler) movImm(size opSize, dst Register, imm Imm) error {
	enc := int(dst)
	switch size {
	case size64:
		switch {
		case isUint32(imm):
			a.rexOpcodeReg(false, enc, false)
			a.emitInt8(X86_OP_MOV_R_IMM + byte(enc&7))
			a.emitInt32(int32(uint32(imm)))
		case isInt32(imm):
			a.rexRR(true, 0, enc, 0)
			a.emitInt8(X86_OP_MOV_RM_IMM)
			a.emitModRMReg(0, enc)
			a.emitInt32(int32(imm))
		default:
			a.rexOpcodeReg(true, enc, false)
			a.emitInt8(X86_OP_MOV_R_IMM + byte(enc&7))
			a.emitInt64(uint64(imm))
		}
		return nil
	case size8:
		v, err := sizedImm("mov", size, imm)
		if err != nil {
			return err
		}
		a.rexOpcodeReg(false, enc, true)
		a.emitInt8(X86_OP_MOV_R8_IMM + byte(enc&7))
		a.emitInt8(byte(v))
		return nil
	}
	v, err := sizedImm("mov", size, imm)
	if err != nil {
		return err
	}
	if size == size16 {
		a.emitInt8(X86_PREFIX_66)
	}
	a.rexOpcodeReg(false, enc, false)
	a.emitInt8(X86_OP_MOV_R_IMM + byte(enc&7))
	a.emitImm(size, v)
	return nil
}

func (a *Assembler) Movq(dst, src Operand) { a.mov(size64, dst, src) }
func (a *Assembler) Movl(dst, src Operand) { a.mov(size32, dst, src) }
func (a *Assembler) Movw(dst, src Operand) { a.mov(size16, dst, src) }
func (a *Assembler) Movb(dst, src Operand) { a.mov(size8, dst, src) }

// Movabs always uses the 10-byte REX.W B8+r imm64 form.
func (a *Assembler) Movabs(dst Register, imm uint64) {
	a.emit(func() error {
		enc, err := gpReg("movabs", dst)
		if err != nil {
			return err
		}
		a.rexOpcodeReg(true, enc, false)
		a.emitInt8(X86_OP_MOV_R_IMM + byte(enc&7))
		a.emitInt64(imm)
		return nil
	})
}

// MovabsReloc loads an embedded pointer and records an imm64 relocation for it.
func (a *Assembler) MovabsReloc(dst Register, target uint64, kind RelocKind) {
	a.emit(func() error {
		enc, err := gpReg("movabs", dst)
		if err != nil {
			return err
		}
		a.rexOpcodeReg(true, enc, false)
		a.emitInt8(X86_OP_MOV_R_IMM + byte(enc&7))
		a.relocs = append(a.relocs, Relocation{Offset: len(a.inst), Kind: kind, Format: FormatImm64, Addend: target})
		a.emitInt64(target)
		return nil
	})
}

// MovNarrowReloc stores a 32-bit compressed pointer into dst with a
// narrow-oop relocation on the immediate.
func (a *Assembler) MovNarrowReloc(dst Operand, narrow uint32, kind RelocKind) {
	a.emit(func() error {
		e := gpEnc{name: "mov", size: size32, opcode: []byte{X86_OP_MOV_RM_IMM}}
		if err := e.op(a, 0, dst); err != nil {
			return err
		}
		a.relocs = append(a.relocs, Relocation{Offset: len(a.inst), Kind: kind, Format: FormatNarrowOop, Addend: uint64(narrow)})
		a.emitInt32(int32(narrow))
		return nil
	})
}

// extend covers movzx/movsx/movsxd. srcByte marks a byte-register source.
func (a *Assembler) extend(name string, size opSize, opcode []byte, srcByte bool, dst Register, src Operand) {
	a.emit(func() error {
		reg, err := gpReg(name, dst)
		if err != nil {
			return err
		}
		var br byteRegs
		if srcByte {
			br = rmIsByte
		}
		e := gpEnc{name: name, size: size, opcode: opcode, br: br}
		return e.op(a, reg, src)
	})
}

func (a *Assembler) Movzbl(dst Register, src Operand) {
	a.extend("movzx", size32, []byte{X86_PREFIX_0F, X86_OP2_MOVZX_RM8}, true, dst, src)
}

func (a *Assembler) Movzbq(dst Register, src Operand) {
	a.extend("movzx", size64, []byte{X86_PREFIX_0F, X86_OP2_MOVZX_RM8}, true, dst, src)
}

func (a *Assembler) Movzwl(dst Register, src Operand) {
	a.extend("movzx", size32, []byte{X86_PREFIX_0F, X86_OP2_MOVZX_RM16}, false, dst, src)
}

func (a *Assembler) Movzwq(dst Register, src Operand) {
	a.extend("movzx", size64, []byte{X86_PREFIX_0F, X86_OP2_MOVZX_RM16}, false, dst, src)
}

func (a *Assembler) Movsbl(dst Register, src Operand) {
	a.extend("movsx", size32, []byte{X86_PREFIX_0F, X86_OP2_MOVSX_RM8}, true, dst, src)
}

func (a *Assembler) Movsbq(dst Register, src Operand) {
	a.extend("movsx", size64, []byte{X86_PREFIX_0F, X86_OP2_MOVSX_RM8}, true, dst, src)
}

func (a *Assembler) Movswl(dst Register, src Operand) {
	a.extend("movsx", size32, []byte{X86_PREFIX_0F, X86_OP2_MOVSX_RM16}, false, dst, src)
}

func (a *Assembler) Movswq(dst Register, src Operand) {
	a.extend("movsx", size64, []byte{X86_PREFIX_0F, X86_OP2_MOVSX_RM16}, false, dst, src)
}

// Movslq is movsxd r64, r/m32.
func (a *Assembler) Movslq(dst Register, src Operand) {
	a.extend("movsxd", size64, []byte{X86_OP_MOVSXD}, false, dst, src)
}

func (a *Assembler) lea(size opSize, dst Register, adr Address) {
	a.emit(func() error {
		reg, err := gpReg("lea", dst)
		if err != nil {
			return err
		}
		e := gpEnc{name: "lea", size: size, opcode: []byte{X86_OP_LEA}}
		return e.rm(a, reg, adr)
	})
}

func (a *Assembler) Leaq(dst Register, adr Address) { a.lea(size64, dst, adr) }
func (a *Assembler) Leal(dst Register, adr Address) { a.lea(size32, dst, adr) }

// LeaLabel loads the address of l with a RIP-relative lea.
func (a *Assembler) LeaLabel(dst Register, l *Label) { a.lea(size64, dst, RIPLabel(l)) }

func (a *Assembler) xchg(size opSize, dst Register, src Operand) {
	a.emit(func() error {
		reg, err := gpReg("xchg", dst)
		if err != nil {
			return err
		}
		e := gpEnc{name: "xchg", size: size, opcode: []byte{pick(size, X86_OP_XCHG_RM8_R8, X86_OP_XCHG_RM_R)}, br: byteFlags(size)}
		return e.op(a, reg, src)
	})
}

func (a *Assembler) Xchgq(dst Register, src Operand) { a.xchg(size64, dst, src) }
func (a *Assembler) Xchgl(dst Register, src Operand) { a.xchg(size32, dst, src) }
func (a *Assembler) Xchgb(dst Register, src Operand) { a.xchg(size8, dst, src) }

func (a *Assembler) cmov(size opSize, cc Condition, dst Register, src Operand) {
	a.emit(func() error {
		if cc > Greater {
			return operandError("cmov: bad condition %d", cc)
		}
		reg, err := gpReg("cmov", dst)
		if err != nil {
			return err
		}
		e := gpEnc{name: "cmov", size: size, opcode: []byte{X86_PREFIX_0F, X86_OP2_CMOVCC + byte(cc)}}
		return e.op(a, reg, src)
	})
}

func (a *Assembler) Cmovq(cc Condition, dst Register, src Operand) { a.cmov(size64, cc, dst, src) }
func (a *Assembler) Cmovl(cc Condition, dst Register, src Operand) { a.cmov(size32, cc, dst, src) }

// Setb writes 0 or 1 to a byte register or memory byte.
func (a *Assembler) Setb(cc Condition, dst Operand) {
	a.emit(func() error {
		if cc > Greater {
			return operandError("set: bad condition %d", cc)
		}
		e := gpEnc{name: "set", size: size32, opcode: []byte{X86_PREFIX_0F, X86_OP2_SETCC + byte(cc)}, br: rmIsByte}
		return e.op(a, 0, dst)
	})
}

// movbe has a load form (reg <- mem) and a store form (mem <- reg); there is
// no register-register encoding.
func (a *Assembler) movbe(size opSize, dst, src Operand) {
	a.emit(func() error {
		if err := a.requireFeatures("movbe", cpu.MOVBE); err != nil {
			return err
		}
		switch d := dst.(type) {
		case Register:
			if m, ok := src.(Address); ok {
				reg, err := gpReg("movbe", d)
				if err != nil {
					return err
				}
				e := gpEnc{name: "movbe", size: size, opcode: []byte{X86_PREFIX_0F, X86_ESCAPE_38, X86_OP3_MOVBE_LOAD}}
				return e.rm(a, reg, m)
			}
		case Address:
			if r, ok := src.(Register); ok {
				reg, err := gpReg("movbe", r)
				if err != nil {
					return err
				}
				e := gpEnc{name: "movbe", size: size, opcode: []byte{X86_PREFIX_0F, X86_ESCAPE_38, X86_OP3_MOVBE_STORE}}
				return e.rm(a, reg, d)
			}
		}
		return badOperands("movbe", dst, src)
	})
}

func (a *Assembler) Movbeq(dst, src Operand) { a.movbe(size64, dst, src) }
func (a *Assembler) Movbel(dst, src Operand) { a.movbe(size32, dst, src) }

// Movntiq and Movntil are non-temporal stores.
func (a *Assembler) Movntiq(dst Address, src Register) { a.movnti(size64, dst, src) }
func (a *Assembler) Movntil(dst Address, src Register) { a.movnti(size32, dst, src) }

func (a *Assembler) movnti(size opSize, dst Address, src Register) {
	a.emit(func() error {
		if err := a.requireFeatures("movnti", cpu.SSE2); err != nil {
			return err
		}
		reg, err := gpReg("movnti", src)
		if err != nil {
			return err
		}
		e := gpEnc{name: "movnti", size: size, opcode: []byte{X86_PREFIX_0F, X86_OP2_MOVNTI}}
		return e.rm(a, reg, dst)
	})
}

func (a *Assembler) bswap(size opSize, r Register) {
	a.emit(func() error {
		enc, err := gpReg("bswap", r)
		if err != nil {
			return err
		}
		a.rexOpcodeReg(size == size64, enc, false)
		a.emitBytes(X86_PREFIX_0F, X86_OP2_BSWAP+byte(enc&7))
		return nil
	})
}

func (a *Assembler) Bswapq(r Register) { a.bswap(size64, r) }
func (a *Assembler) Bswapl(r Register) { a.bswap(size32, r) }
