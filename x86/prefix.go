package x86

import "github.com/colorfulnotion/x86jit/cpu"

// simdPrefix is the mandatory prefix of an SSE opcode, also the VEX/EVEX pp field.
type simdPrefix uint8

const (
	simdNone simdPrefix = iota
	simd66
	simdF3
	simdF2
)

var simdPrefixByte = [...]byte{0, X86_PREFIX_66, X86_PREFIX_REP, X86_PREFIX_REPNE}

// opEscape is the opcode map, also the VEX mmmmm / EVEX mm field.
type opEscape uint8

const (
	escNone opEscape = iota
	esc0F
	esc0F38
	esc0F3A
)

func (a *Assembler) emitEscape(esc opEscape) {
	switch esc {
	case esc0F:
		a.emitInt8(X86_PREFIX_0F)
	case esc0F38:
		a.emitBytes(X86_PREFIX_0F, X86_ESCAPE_38)
	case esc0F3A:
		a.emitBytes(X86_PREFIX_0F, X86_ESCAPE_3A)
	}
}

// byteRegs marks which ModRM fields name 8-bit registers.
type byteRegs uint8

const (
	regIsByte byteRegs = 1 << iota
	rmIsByte
)

func rexBits(w bool, r, x, b bool) byte {
	var rex byte
	if w {
		rex |= X86_REX_W
	}
	if r {
		rex |= X86_REX_R
	}
	if x {
		rex |= X86_REX_X
	}
	if b {
		rex |= X86_REX_B
	}
	return rex
}

func needsByteREX(enc int) bool { return enc >= 4 && enc <= 7 }

// rexRR emits REX for a register-direct form when W, an extended register, or
// SPL/BPL/SIL/DIL requires it.
func (a *Assembler) rexRR(w bool, reg, rm int, br byteRegs) {
	rex := rexBits(w, reg&8 != 0, false, rm&8 != 0)
	force := (br&regIsByte != 0 && needsByteREX(reg)) || (br&rmIsByte != 0 && needsByteREX(rm))
	if rex != 0 || force {
		a.emitInt8(X86_REX_BASE | rex)
	}
}

// rexRM emits REX for a memory form.
func (a *Assembler) rexRM(w bool, reg int, adr Address, br byteRegs) {
	rex := rexBits(w, reg&8 != 0, adr.rexX(), adr.rexB())
	force := br&regIsByte != 0 && needsByteREX(reg)
	if rex != 0 || force {
		a.emitInt8(X86_REX_BASE | rex)
	}
}

// rexOpcodeReg emits REX for opcodes that carry the register in their low
// three bits (push, pop, bswap, mov imm).
func (a *Assembler) rexOpcodeReg(w bool, enc int, isByte bool) {
	rex := rexBits(w, false, false, enc&8 != 0)
	if rex != 0 || (isByte && needsByteREX(enc)) {
		a.emitInt8(X86_REX_BASE | rex)
	}
}

// legacySimdRR writes mandatory prefix, REX and escape of an SSE register form.
func (a *Assembler) legacySimdRR(pp simdPrefix, esc opEscape, w bool, reg, rm int) {
	if pp != simdNone {
		a.emitInt8(simdPrefixByte[pp])
	}
	a.rexRR(w, reg, rm, 0)
	a.emitEscape(esc)
}

func (a *Assembler) legacySimdRM(pp simdPrefix, esc opEscape, w bool, reg int, adr Address) {
	if pp != simdNone {
		a.emitInt8(simdPrefixByte[pp])
	}
	a.rexRM(w, reg, adr, 0)
	a.emitEscape(esc)
}

// vexFields are the register numbers placed in a VEX/EVEX instruction.
// rm is -1 for memory forms.
type vexFields struct {
	reg int
	nds int
	rm  int
	adr *Address
}

func (f vexFields) highRegister() bool {
	if f.reg >= 16 || f.nds >= 16 || f.rm >= 16 {
		return true
	}
	return f.adr != nil && f.adr.isVSIB() && f.adr.vindex.needsEvex()
}

// needsEvex reports whether only EVEX can express the instruction.
func (at *InstructionAttr) needsEvex(f vexFields) bool {
	return at.isEvexInstruction ||
		at.vectorLen == AVX512 ||
		at.embeddedOpmask != KNoMask ||
		at.embeddedBroadcast ||
		at.embeddedRounding ||
		f.highRegister()
}

func (a *Assembler) chooseEvex(at *InstructionAttr, f vexFields) (bool, error) {
	if !at.needsEvex(f) {
		return false, nil
	}
	if at.legacyMode {
		return false, featureError("instruction needs EVEX encoding, which is not available for it here")
	}
	if !a.supports(cpu.AVX512F) {
		return false, featureError("EVEX encoding requires %s (use_avx=%d)", cpu.AVX512F, a.opts.UseAVX)
	}
	if at.usesVL && at.vectorLen != AVX512 && at.vectorLen != AVXNoVec && !a.supports(cpu.AVX512VL) {
		return false, featureError("%s-bit EVEX form requires %s", at.vectorLen, cpu.AVX512VL)
	}
	return true, nil
}

// vexPrefix picks VEX or EVEX for the fields and attribute, writes the prefix
// and freezes the attribute. Nothing is written on error.
func (a *Assembler) vexPrefix(at *InstructionAttr, pp simdPrefix, esc opEscape, f vexFields) error {
	useEvex, err := a.chooseEvex(at, f)
	if err != nil {
		return err
	}
	if !useEvex && at.vectorLen == AVX512 {
		return operandError("512-bit vector length needs EVEX")
	}
	at.evex = useEvex
	at.frozen = true

	r := f.reg&8 != 0
	var x, b bool
	if f.adr != nil {
		x = f.adr.rexX()
		b = f.adr.rexB()
	} else {
		b = f.rm&8 != 0
		x = f.rm&16 != 0 && useEvex
	}
	if !useEvex {
		a.emitVex(at, pp, esc, r, x, b, f.nds)
		return nil
	}
	rp := f.reg&16 != 0
	vp := f.nds&16 != 0
	if f.adr != nil && f.adr.isVSIB() && f.adr.vindex&16 != 0 {
		vp = true
	}
	a.emitEvex(at, pp, esc, r, x, b, rp, vp, f.nds)
	return nil
}

func (a *Assembler) emitVex(at *InstructionAttr, pp simdPrefix, esc opEscape, r, x, b bool, nds int) {
	w := at.RexVexW()
	vvvv := byte(^nds) & 0x0F
	tail := vvvv<<3 | at.vectorLen.lBits()<<2 | byte(pp)
	if !x && !b && !w && esc == esc0F {
		byte1 := tail
		if !r {
			byte1 |= X86_VEX_R
		}
		a.emitBytes(X86_VEX_2BYTE, byte1)
		return
	}
	byte1 := byte(esc)
	if !r {
		byte1 |= X86_VEX_R
	}
	if !x {
		byte1 |= X86_VEX_X
	}
	if !b {
		byte1 |= X86_VEX_B
	}
	if w {
		tail |= X86_VEX_W
	}
	a.emitBytes(X86_VEX_3BYTE, byte1, tail)
}

func (a *Assembler) emitEvex(at *InstructionAttr, pp simdPrefix, esc opEscape, r, x, b, rp, vp bool, nds int) {
	p0 := byte(esc) & 0x03
	if !r {
		p0 |= X86_VEX_R
	}
	if !x {
		p0 |= X86_VEX_X
	}
	if !b {
		p0 |= X86_VEX_B
	}
	if !rp {
		p0 |= X86_EVEX_RP
	}
	p1 := (byte(^nds)&0x0F)<<3 | 0x04 | byte(pp)
	if at.RexVexW() {
		p1 |= X86_VEX_W
	}
	p2 := byte(at.embeddedOpmask) & 0x07
	if !vp {
		p2 |= X86_EVEX_VP
	}
	if at.embeddedRounding {
		p2 |= X86_EVEX_B | byte(at.roundingMode)<<5
	} else {
		p2 |= at.vectorLen.lBits() << 5
		if at.embeddedBroadcast {
			p2 |= X86_EVEX_B
		}
	}
	if at.zeroing() {
		p2 |= X86_EVEX_Z
	}
	a.emitBytes(X86_EVEX, p0, p1, p2)
}
