// Package x86 encodes x86-64 machine code for a JIT compiler.
package x86

import "fmt"

// X86Reg describes how a register number lands in an instruction.
type X86Reg struct {
	Name    string
	RegBits byte // 3-bit code for ModRM/SIB
	REXBit  byte // 1 if register index >= 8
	EVEXBit byte // 1 if register index >= 16
}

// Register is a general purpose register. The operand width is chosen by the
// emitter (Addq, Addl, Addw, Addb).
type Register int8

// NoReg marks an absent base or index register.
const NoReg Register = -1

const (
	RAX Register = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var (
	gpNames64 = [16]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi", "r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
	gpNames32 = [16]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi", "r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d"}
	gpNames16 = [16]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di", "r8w", "r9w", "r10w", "r11w", "r12w", "r13w", "r14w", "r15w"}
	gpNames8  = [16]string{"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil", "r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b"}
)

func (r Register) IsValid() bool { return r >= RAX && r <= R15 }

func (r Register) Encoding() int { return int(r) }

func (r Register) String() string {
	if !r.IsValid() {
		return "noreg"
	}
	return gpNames64[r]
}

// Name returns the register name at the given width in bits.
func (r Register) Name(bits int) string {
	if !r.IsValid() {
		return "noreg"
	}
	switch bits {
	case 8:
		return gpNames8[r]
	case 16:
		return gpNames16[r]
	case 32:
		return gpNames32[r]
	default:
		return gpNames64[r]
	}
}

func (r Register) Info() X86Reg {
	return X86Reg{Name: r.String(), RegBits: byte(r) & 7, REXBit: byte(r) >> 3 & 1}
}

// needsByteREX reports SPL/BPL/SIL/DIL, which are only addressable with a REX prefix.
func (r Register) needsByteREX() bool { return r >= RSP && r <= RDI }

// Implicit operands fixed by the instruction set.
const (
	ImplicitAccumulator = RAX // mul/div low half, cmpxchg comparand, short imm forms
	ImplicitHigh        = RDX // mul/div high half, cqo, mulx multiplicand
	ImplicitShiftCount  = RCX // shift/rotate count (CL), rep count
	ImplicitStringSrc   = RSI
	ImplicitStringDst   = RDI
	StackPointer        = RSP
)

// XMMRegister is a vector register; its width comes from the vector length of
// the instruction. X16..X31 need EVEX.
type XMMRegister int8

const XNoReg XMMRegister = -1

const (
	X0 XMMRegister = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	X30
	X31
)

func (x XMMRegister) IsValid() bool { return x >= X0 && x <= X31 }

func (x XMMRegister) Encoding() int { return int(x) }

func (x XMMRegister) String() string {
	if !x.IsValid() {
		return "xnoreg"
	}
	return fmt.Sprintf("xmm%d", int(x))
}

// Name returns the xmm/ymm/zmm spelling for a vector length.
func (x XMMRegister) Name(vlen AvxVectorLen) string {
	if !x.IsValid() {
		return "xnoreg"
	}
	switch vlen {
	case AVX256:
		return fmt.Sprintf("ymm%d", int(x))
	case AVX512:
		return fmt.Sprintf("zmm%d", int(x))
	default:
		return x.String()
	}
}

func (x XMMRegister) Info() X86Reg {
	return X86Reg{Name: x.String(), RegBits: byte(x) & 7, REXBit: byte(x) >> 3 & 1, EVEXBit: byte(x) >> 4 & 1}
}

// needsEvex reports registers outside the VEX-addressable range.
func (x XMMRegister) needsEvex() bool { return x >= X16 }

// KRegister is an AVX-512 opmask register. K0 in a mask position means "no mask".
type KRegister int8

const (
	K0 KRegister = iota
	K1
	K2
	K3
	K4
	K5
	K6
	K7
)

const KNoMask = K0

func (k KRegister) IsValid() bool { return k >= K0 && k <= K7 }

func (k KRegister) Encoding() int { return int(k) }

func (k KRegister) String() string {
	if !k.IsValid() {
		return "knoreg"
	}
	return fmt.Sprintf("k%d", int(k))
}
