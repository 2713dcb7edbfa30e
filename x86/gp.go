package x86

// opSize is the operand width of a general purpose instruction.
type opSize uint8

const (
	size8 opSize = iota
	size16
	size32
	size64
)

func (s opSize) bits() int { return 8 << s }

// gpEnc is a general purpose opcode in table form.
type gpEnc struct {
	name   string
	size   opSize
	pfx    byte   // mandatory prefix written after 0x66, before REX
	opcode []byte // escape bytes included
	br     byteRegs
}

func (e gpEnc) prefix(a *Assembler) {
	if e.size == size16 {
		a.emitInt8(X86_PREFIX_66)
	}
	if e.pfx != 0 {
		a.emitInt8(e.pfx)
	}
}

func (e gpEnc) rr(a *Assembler, reg, rm int) {
	e.prefix(a)
	a.rexRR(e.size == size64, reg, rm, e.br)
	a.emitBytes(e.opcode...)
	a.emitModRMReg(reg, rm)
}

func (e gpEnc) rm(a *Assembler, reg int, adr Address) error {
	if adr.isVSIB() {
		return operandError("%s cannot take a vector-indexed operand", e.name)
	}
	e.prefix(a)
	a.rexRM(e.size == size64, reg, adr, e.br)
	a.emitBytes(e.opcode...)
	return a.emitOperand(reg, adr, nil)
}

// op encodes reg against a register or memory r/m operand.
func (e gpEnc) op(a *Assembler, reg int, rmOp Operand) error {
	switch r := rmOp.(type) {
	case Register:
		if !r.IsValid() {
			return badOperands(e.name, r)
		}
		e.rr(a, reg, int(r))
		return nil
	case Address:
		return e.rm(a, reg, r)
	}
	return badOperands(e.name, rmOp)
}

// byteFlags are the byte-register markers of a plain (reg, r/m) form.
func byteFlags(size opSize) byteRegs {
	if size == size8 {
		return regIsByte | rmIsByte
	}
	return 0
}

// digitFlags are the markers of a /digit form where only r/m is a register.
func digitFlags(size opSize) byteRegs {
	if size == size8 {
		return rmIsByte
	}
	return 0
}

func gpReg(name string, r Register) (int, error) {
	if !r.IsValid() {
		return 0, operandError("%s: invalid register %d", name, int(r))
	}
	return int(r), nil
}

// pick returns the byte-sized opcode for size8 and the full-size one otherwise.
func pick(size opSize, op8, op byte) byte {
	if size == size8 {
		return op8
	}
	return op
}
