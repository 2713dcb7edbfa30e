package x86

import "github.com/colorfulnotion/x86jit/cpu"

const (
	jmpShortSize = 2
	jccShortSize = 2
)

// Push accepts a register (50+r), an immediate (6A ib / 68 id, sign-extended
// to 64 bits) or memory (FF /6).
func (a *Assembler) Push(src Operand) {
	a.emit(func() error {
		switch s := src.(type) {
		case Register:
			enc, err := gpReg("push", s)
			if err != nil {
				return err
			}
			a.rexOpcodeReg(false, enc, false)
			a.emitInt8(X86_OP_PUSH_R + byte(enc&7))
			return nil
		case Imm:
			if isInt8(s) {
				a.emitBytes(X86_OP_PUSH_IMM8, byte(s))
				return nil
			}
			if !isInt32(s) {
				return immRangeError("push: immediate %d does not fit 32 bits", int64(s))
			}
			a.emitInt8(X86_OP_PUSH_IMM32)
			a.emitInt32(int32(s))
			return nil
		case Address:
			e := gpEnc{name: "push", size: size32, opcode: []byte{X86_OP_GROUP5_RM}}
			return e.rm(a, X86_REG_PUSH_RM, s)
		}
		return badOperands("push", src)
	})
}

// Pop accepts a register (58+r) or memory (8F /0).
func (a *Assembler) Pop(dst Operand) {
	a.emit(func() error {
		switch d := dst.(type) {
		case Register:
			enc, err := gpReg("pop", d)
			if err != nil {
				return err
			}
			a.rexOpcodeReg(false, enc, false)
			a.emitInt8(X86_OP_POP_R + byte(enc&7))
			return nil
		case Address:
			e := gpEnc{name: "pop", size: size32, opcode: []byte{X86_OP_POP_RM}}
			return e.rm(a, 0, d)
		}
		return badOperands("pop", dst)
	})
}

// Call emits call rel32 to l.
func (a *Assembler) Call(l *Label) {
	a.emit(func() error {
		a.emitInt8(X86_OP_CALL_REL32)
		return a.addLabelRef(l, 4, SiteBranch)
	})
}

// CallAbs calls an absolute target outside the buffer; a relocation of the
// given kind is recorded on the rel32 field.
func (a *Assembler) CallAbs(target uint64, kind RelocKind) {
	a.emit(func() error {
		a.emitInt8(X86_OP_CALL_REL32)
		a.addExternalRef(target, kind)
		return nil
	})
}

// CallIndirect calls through a register or memory operand (FF /2).
func (a *Assembler) CallIndirect(target Operand) {
	a.emit(func() error {
		e := gpEnc{name: "call", size: size32, opcode: []byte{X86_OP_GROUP5_RM}}
		return e.op(a, X86_REG_CALL_RM, target)
	})
}

// shortFits reports whether a bound label is reachable with rel8 from an
// instruction of size n starting at the current position.
func (a *Assembler) shortFits(l *Label, n int) bool {
	return l.bound && isInt8(l.pos-(a.code.Position()+n))
}

// Jmp jumps to l. With maybeShort, a bound label within rel8 reach gets the
// 2-byte form; everything else is rel32.
func (a *Assembler) Jmp(l *Label, maybeShort bool) {
	a.emit(func() error {
		if err := a.adopt(l); err != nil {
			return err
		}
		if maybeShort && a.shortFits(l, jmpShortSize) {
			a.emitInt8(X86_OP_JMP_REL8)
			return a.addLabelRef(l, 1, SiteBranch)
		}
		a.emitInt8(X86_OP_JMP_REL32)
		return a.addLabelRef(l, 4, SiteBranch)
	})
}

// JmpShort always emits jmp rel8. A target out of reach is an
// EncodingOverflow, now if l is bound or at Bind otherwise.
func (a *Assembler) JmpShort(l *Label) {
	a.emit(func() error {
		a.emitInt8(X86_OP_JMP_REL8)
		return a.addLabelRef(l, 1, SiteBranch)
	})
}

func (a *Assembler) JmpAbs(target uint64, kind RelocKind) {
	a.emit(func() error {
		a.emitInt8(X86_OP_JMP_REL32)
		a.addExternalRef(target, kind)
		return nil
	})
}

// JmpIndirect jumps through a register or memory operand (FF /4).
func (a *Assembler) JmpIndirect(target Operand) {
	a.emit(func() error {
		e := gpEnc{name: "jmp", size: size32, opcode: []byte{X86_OP_GROUP5_RM}}
		return e.op(a, X86_REG_JMP_RM, target)
	})
}

func (a *Assembler) Jcc(cc Condition, l *Label, maybeShort bool) {
	a.emit(func() error {
		if cc > Greater {
			return operandError("jcc: bad condition %d", cc)
		}
		if err := a.adopt(l); err != nil {
			return err
		}
		if maybeShort && a.shortFits(l, jccShortSize) {
			a.emitInt8(X86_OP_JCC_REL8 + byte(cc))
			return a.addLabelRef(l, 1, SiteBranch)
		}
		a.emitBytes(X86_PREFIX_0F, X86_OP2_JCC_REL32+byte(cc))
		return a.addLabelRef(l, 4, SiteBranch)
	})
}

// JccShort is the rel8-only conditional branch; see JmpShort.
func (a *Assembler) JccShort(cc Condition, l *Label) {
	a.emit(func() error {
		if cc > Greater {
			return operandError("jcc: bad condition %d", cc)
		}
		a.emitInt8(X86_OP_JCC_REL8 + byte(cc))
		return a.addLabelRef(l, 1, SiteBranch)
	})
}

func (a *Assembler) JccAbs(cc Condition, target uint64, kind RelocKind) {
	a.emit(func() error {
		if cc > Greater {
			return operandError("jcc: bad condition %d", cc)
		}
		a.emitBytes(X86_PREFIX_0F, X86_OP2_JCC_REL32+byte(cc))
		a.addExternalRef(target, kind)
		return nil
	})
}

// simple emits a fixed byte sequence.
func (a *Assembler) simple(b ...byte) {
	a.emit(func() error {
		a.emitBytes(b...)
		return nil
	})
}

func (a *Assembler) simpleGated(name string, f cpu.Feature, b ...byte) {
	a.emit(func() error {
		if err := a.requireFeatures(name, f); err != nil {
			return err
		}
		a.emitBytes(b...)
		return nil
	})
}

func (a *Assembler) Ret() { a.simple(X86_OP_RET) }

// RetImm pops n extra bytes after the return address.
func (a *Assembler) RetImm(n uint16) {
	if n == 0 {
		a.Ret()
		return
	}
	a.emit(func() error {
		a.emitInt8(X86_OP_RET_IMM16)
		a.emitInt16(n)
		return nil
	})
}

func (a *Assembler) Leave()  { a.simple(X86_OP_LEAVE) }
func (a *Assembler) Int3()   { a.simple(X86_OP_INT3) }
func (a *Assembler) Hlt()    { a.simple(X86_OP_HLT) }
func (a *Assembler) Ud2()    { a.simple(X86_PREFIX_0F, X86_OP2_UD2) }
func (a *Assembler) Cpuid()  { a.simple(X86_PREFIX_0F, X86_OP2_CPUID) }
func (a *Assembler) Rdtsc()  { a.simple(X86_PREFIX_0F, X86_OP2_RDTSC) }
func (a *Assembler) Rdtscp() { a.simple(X86_PREFIX_0F, 0x01, 0xF9) }
func (a *Assembler) Pause()  { a.simple(X86_PREFIX_REP, X86_OP_NOP) }

func (a *Assembler) Lfence() { a.simpleGated("lfence", cpu.SSE2, X86_PREFIX_0F, X86_OP2_FENCE, X86_MODRM_LFENCE) }
func (a *Assembler) Mfence() { a.simpleGated("mfence", cpu.SSE2, X86_PREFIX_0F, X86_OP2_FENCE, X86_MODRM_MFENCE) }
func (a *Assembler) Sfence() { a.simpleGated("sfence", cpu.SSE, X86_PREFIX_0F, X86_OP2_FENCE, X86_MODRM_SFENCE) }

// Sign extension of the accumulator into ImplicitHigh (cdq, cqo) or within
// ImplicitAccumulator (cwde, cdqe).
func (a *Assembler) Cdql() { a.simple(X86_OP_CDQ) }
func (a *Assembler) Cqo()  { a.simple(X86_REX_BASE|X86_REX_W, X86_OP_CDQ) }
func (a *Assembler) Cwde() { a.simple(X86_OP_CWDE) }
func (a *Assembler) Cdqe() { a.simple(X86_REX_BASE|X86_REX_W, X86_OP_CWDE) }

// Lock prefixes the next instruction. The prefix is committed or dropped
// together with that instruction.
func (a *Assembler) Lock() {
	if a.err == nil {
		a.lock = true
	}
}

// DropLock discards a Lock no instruction has consumed yet.
func (a *Assembler) DropLock() { a.lock = false }

func (a *Assembler) rmReg(name string, size opSize, opcode []byte, dst Operand, src Register) {
	a.emit(func() error {
		reg, err := gpReg(name, src)
		if err != nil {
			return err
		}
		e := gpEnc{name: name, size: size, opcode: opcode, br: byteFlags(size)}
		return e.op(a, reg, dst)
	})
}

func (a *Assembler) Xaddq(dst Operand, src Register) {
	a.rmReg("xadd", size64, []byte{X86_PREFIX_0F, X86_OP2_XADD}, dst, src)
}

func (a *Assembler) Xaddl(dst Operand, src Register) {
	a.rmReg("xadd", size32, []byte{X86_PREFIX_0F, X86_OP2_XADD}, dst, src)
}

func (a *Assembler) Xaddb(dst Operand, src Register) {
	a.rmReg("xadd", size8, []byte{X86_PREFIX_0F, X86_OP2_XADD8}, dst, src)
}

// Cmpxchgq compares ImplicitAccumulator with dst and stores src on equality.
func (a *Assembler) Cmpxchgq(dst Operand, src Register) {
	a.rmReg("cmpxchg", size64, []byte{X86_PREFIX_0F, X86_OP2_CMPXCHG}, dst, src)
}

func (a *Assembler) Cmpxchgl(dst Operand, src Register) {
	a.rmReg("cmpxchg", size32, []byte{X86_PREFIX_0F, X86_OP2_CMPXCHG}, dst, src)
}

func (a *Assembler) Cmpxchgb(dst Operand, src Register) {
	a.rmReg("cmpxchg", size8, []byte{X86_PREFIX_0F, X86_OP2_CMPXCHG8}, dst, src)
}

// Cmpxchg8b compares EDX:EAX with the 8 bytes at adr.
func (a *Assembler) Cmpxchg8b(adr Address) {
	a.emit(func() error {
		e := gpEnc{name: "cmpxchg8b", size: size32, opcode: []byte{X86_PREFIX_0F, X86_OP2_CMPXCHGB}}
		return e.rm(a, 1, adr)
	})
}

// Cmpxchg16b compares RDX:RAX with the 16 bytes at adr, which must be
// 16-byte aligned at run time.
func (a *Assembler) Cmpxchg16b(adr Address) {
	a.emit(func() error {
		if err := a.requireFeatures("cmpxchg16b", cpu.CX16); err != nil {
			return err
		}
		e := gpEnc{name: "cmpxchg16b", size: size64, opcode: []byte{X86_PREFIX_0F, X86_OP2_CMPXCHGB}}
		return e.rm(a, 1, adr)
	})
}

// String moves and stores use RSI/RDI/RCX implicitly.
func (a *Assembler) RepMovsb() { a.simple(X86_PREFIX_REP, X86_OP_MOVS_B) }
func (a *Assembler) RepMovsq() { a.simple(X86_PREFIX_REP, X86_REX_BASE|X86_REX_W, X86_OP_MOVS) }
func (a *Assembler) RepStosb() { a.simple(X86_PREFIX_REP, X86_OP_STOS_B) }
func (a *Assembler) RepStosq() { a.simple(X86_PREFIX_REP, X86_REX_BASE|X86_REX_W, X86_OP_STOS) }

func (a *Assembler) cacheOp(name string, f cpu.Feature, pfx byte, digit int, adr Address) {
	a.emit(func() error {
		if f != cpu.NoFeature {
			if err := a.requireFeatures(name, f); err != nil {
				return err
			}
		}
		e := gpEnc{name: name, size: size32, pfx: pfx, opcode: []byte{X86_PREFIX_0F, X86_OP2_FENCE}}
		return e.rm(a, digit, adr)
	})
}

func (a *Assembler) Clflush(adr Address) {
	a.cacheOp("clflush", cpu.SSE2, 0, X86_REG_CLFLUSH, adr)
}

func (a *Assembler) Clflushopt(adr Address) {
	a.cacheOp("clflushopt", cpu.CLFLUSHOPT, X86_PREFIX_66, X86_REG_CLFLUSH, adr)
}

func (a *Assembler) Clwb(adr Address) {
	a.cacheOp("clwb", cpu.CLWB, X86_PREFIX_66, X86_REG_CLWB, adr)
}

// PrefetchHint selects the 0F 18 /digit variant.
type PrefetchHint uint8

const (
	PrefetchNTA PrefetchHint = iota
	PrefetchT0
	PrefetchT1
	PrefetchT2
)

func (a *Assembler) Prefetch(hint PrefetchHint, adr Address) {
	a.emit(func() error {
		if hint > PrefetchT2 {
			return operandError("prefetch: bad hint %d", hint)
		}
		e := gpEnc{name: "prefetch", size: size32, opcode: []byte{X86_PREFIX_0F, X86_OP2_PREFETCH}}
		return e.rm(a, int(hint), adr)
	})
}
