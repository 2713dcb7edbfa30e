package x86

func modRM(mod, reg, rm byte) byte { return mod<<6 | (reg&7)<<3 | rm&7 }

func sib(scale ScaleFactor, index, base byte) byte { return byte(scale)<<6 | (index&7)<<3 | base&7 }

// emitModRMReg encodes a register-direct operand.
func (a *Assembler) emitModRMReg(reg, rm int) {
	a.emitInt8(modRM(X86_MOD_REGISTER, byte(reg), byte(rm)))
}

// dispFits8 returns the disp8 to emit, applying EVEX disp8*N compression
// when the attribute selected EVEX.
func dispFits8(disp int32, at *InstructionAttr) (int8, bool) {
	if at != nil && at.evex {
		if n := int32(at.memDispFactor()); n > 1 {
			if disp%n != 0 || !isInt8(disp/n) {
				return 0, false
			}
			return int8(disp / n), true
		}
	}
	if isInt8(disp) {
		return int8(disp), true
	}
	return 0, false
}

// emitOperand encodes ModRM, SIB and displacement for a memory operand. reg is
// the ModRM.reg value (a register or an opcode extension). Trailing
// immediates are written by the caller; RIP-relative displacements are
// resolved against the final instruction end at commit.
func (a *Assembler) emitOperand(reg int, adr Address, at *InstructionAttr) error {
	r := byte(reg)
	switch adr.mode {
	case addrRIPOffset:
		a.emitInt8(modRM(X86_MOD_INDIRECT, r, X86_RM_RIP))
		a.addOffsetRef(adr.target)
		return nil
	case addrRIPLabel:
		a.emitInt8(modRM(X86_MOD_INDIRECT, r, X86_RM_RIP))
		return a.addLabelRef(adr.label, 4, SiteRIP)
	case addrRIPExternal:
		a.emitInt8(modRM(X86_MOD_INDIRECT, r, X86_RM_RIP))
		a.addExternalRef(adr.ext, adr.reloc)
		return nil
	}

	var index byte
	hasIndex := false
	if adr.mode == addrVSIB {
		if !adr.vindex.IsValid() {
			return operandError("vector index missing in %s", adr)
		}
		index, hasIndex = byte(adr.vindex), true
	} else if adr.index.IsValid() {
		if adr.index == RSP {
			return operandError("rsp cannot be an index register in %s", adr)
		}
		index, hasIndex = byte(adr.index), true
	}
	if adr.base != NoReg && !adr.base.IsValid() {
		return operandError("invalid base register in %s", adr)
	}

	if !adr.base.IsValid() {
		// [index*scale + disp32] or [disp32]: SIB with no base.
		a.emitInt8(modRM(X86_MOD_INDIRECT, r, X86_SIB_INDICATOR))
		if hasIndex {
			a.emitInt8(sib(adr.scale, index, X86_SIB_NO_BASE))
		} else {
			a.emitInt8(sib(Times1, X86_SIB_NO_INDEX, X86_SIB_NO_BASE))
		}
		a.emitInt32(adr.disp)
		return nil
	}

	base := byte(adr.base)
	var mod byte
	disp8, short := dispFits8(adr.disp, at)
	switch {
	case adr.disp == 0 && base&7 != X86_RBP_REGBITS:
		mod = X86_MOD_INDIRECT
	case short:
		mod = X86_MOD_INDIRECT_DISP8
	default:
		mod = X86_MOD_INDIRECT_DISP32
	}

	switch {
	case hasIndex:
		a.emitInt8(modRM(mod, r, X86_SIB_INDICATOR))
		a.emitInt8(sib(adr.scale, index, base))
	case base&7 == X86_RSP_REGBITS:
		a.emitInt8(modRM(mod, r, X86_SIB_INDICATOR))
		a.emitInt8(sib(Times1, X86_SIB_NO_INDEX, base))
	default:
		a.emitInt8(modRM(mod, r, base))
	}

	switch mod {
	case X86_MOD_INDIRECT_DISP8:
		a.emitInt8(byte(disp8))
	case X86_MOD_INDIRECT_DISP32:
		a.emitInt32(adr.disp)
	}
	return nil
}
