package x86

import (
	"fmt"
	"strings"
)

// Operand is anything an emitter accepts in a source or destination slot:
// Register, XMMRegister, KRegister, Address or Imm.
type Operand interface {
	isOperand()
}

// Imm is an immediate operand. Each emitter checks it against the width it
// encodes.
type Imm int64

func (Register) isOperand() {}
func (XMMRegister) isOperand() {}
func (KRegister) isOperand() {}
func (Address) isOperand() {}
func (Imm) isOperand() {}

// ScaleFactor is the SIB scale field.
type ScaleFactor uint8

const (
	Times1 ScaleFactor = iota
	Times2
	Times4
	Times8
)

// ScaleOf maps 1, 2, 4 or 8 to a ScaleFactor.
func ScaleOf(n int) (ScaleFactor, bool) {
	switch n {
	case 1:
		return Times1, true
	case 2:
		return Times2, true
	case 4:
		return Times4, true
	case 8:
		return Times8, true
	}
	return Times1, false
}

func (s ScaleFactor) Multiplier() int { return 1 << s }

type addrMode uint8

const (
	addrBaseIndex addrMode = iota // [base + index*scale + disp], either part optional
	addrRIPOffset                 // [rip + (offset - end)]
	addrRIPLabel                  // [rip + (label - end)]
	addrRIPExternal               // [rip + (target - end)], relocated
	addrVSIB                      // [base + vindex*scale + disp]
)

// Address is a memory operand.
type Address struct {
	mode   addrMode
	base   Register
	index  Register
	vindex XMMRegister
	scale  ScaleFactor
	disp   int32

	target int    // buffer offset for addrRIPOffset
	label  *Label // addrRIPLabel
	ext    uint64 // absolute target for addrRIPExternal
	reloc  RelocKind

	broadcast bool
}

// Mem is [base + disp].
func Mem(base Register, disp int32) Address {
	return Address{base: base, index: NoReg, vindex: XNoReg, disp: disp}
}

// MemIndex is [base + index*scale + disp]; base may be NoReg.
func MemIndex(base, index Register, scale ScaleFactor, disp int32) Address {
	return Address{base: base, index: index, vindex: XNoReg, scale: scale, disp: disp}
}

// MemAbs is an absolute 32-bit address, encoded with a SIB byte and no base.
func MemAbs(disp int32) Address {
	return Address{base: NoReg, index: NoReg, vindex: XNoReg, disp: disp}
}

// RIPRel addresses a byte offset inside the same code buffer.
func RIPRel(target int) Address {
	return Address{mode: addrRIPOffset, base: NoReg, index: NoReg, vindex: XNoReg, target: target}
}

// RIPLabel addresses a label; unbound labels are patched on Bind.
func RIPLabel(l *Label) Address {
	return Address{mode: addrRIPLabel, base: NoReg, index: NoReg, vindex: XNoReg, label: l}
}

// RIPExternal addresses an absolute target outside the buffer. A relocation
// of the given kind is always recorded.
func RIPExternal(kind RelocKind, target uint64) Address {
	return Address{mode: addrRIPExternal, base: NoReg, index: NoReg, vindex: XNoReg, ext: target, reloc: kind}
}

// VSIB is a gather/scatter operand with a vector index.
func VSIB(base Register, vindex XMMRegister, scale ScaleFactor, disp int32) Address {
	return Address{mode: addrVSIB, base: base, index: NoReg, vindex: vindex, scale: scale, disp: disp}
}

// Bcst marks the operand as an EVEX embedded broadcast ({1toN}) source.
func (a Address) Bcst() Address {
	a.broadcast = true
	return a
}

func (a Address) Base() Register           { return a.base }
func (a Address) Index() Register          { return a.index }
func (a Address) Scale() ScaleFactor       { return a.scale }
func (a Address) Disp() int32              { return a.disp }
func (a Address) IsBroadcast() bool        { return a.broadcast }
func (a Address) VectorIndex() XMMRegister { return a.vindex }

func (a Address) IsRIPRelative() bool {
	return a.mode == addrRIPOffset || a.mode == addrRIPLabel || a.mode == addrRIPExternal
}

func (a Address) isVSIB() bool { return a.mode == addrVSIB }

// rexX and rexB return the high bits of index and base.
func (a Address) rexX() bool {
	if a.mode == addrVSIB {
		return a.vindex.IsValid() && a.vindex&8 != 0
	}
	return a.index.IsValid() && a.index >= R8
}

func (a Address) rexB() bool {
	return a.base.IsValid() && a.base >= R8
}

func (a Address) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	switch a.mode {
	case addrRIPOffset:
		fmt.Fprintf(&sb, "rip -> 0x%x", a.target)
	case addrRIPLabel:
		name := "?"
		if a.label != nil {
			name = a.label.String()
		}
		fmt.Fprintf(&sb, "rip -> %s", name)
	case addrRIPExternal:
		fmt.Fprintf(&sb, "rip -> 0x%x (%s)", a.ext, a.reloc)
	default:
		parts := 0
		if a.base.IsValid() {
			sb.WriteString(a.base.String())
			parts++
		}
		idx := ""
		if a.mode == addrVSIB {
			idx = a.vindex.String()
		} else if a.index.IsValid() {
			idx = a.index.String()
		}
		if idx != "" {
			if parts > 0 {
				sb.WriteByte('+')
			}
			fmt.Fprintf(&sb, "%s*%d", idx, a.scale.Multiplier())
			parts++
		}
		if a.disp != 0 || parts == 0 {
			if parts > 0 && a.disp >= 0 {
				sb.WriteByte('+')
			}
			fmt.Fprintf(&sb, "%d", a.disp)
		}
	}
	sb.WriteByte(']')
	if a.broadcast {
		sb.WriteString("{1toN}")
	}
	return sb.String()
}

// Condition is the 4-bit condition code of Jcc, SETcc and CMOVcc.
type Condition uint8

const (
	Overflow     Condition = 0x0
	NoOverflow   Condition = 0x1
	Below        Condition = 0x2
	AboveEqual   Condition = 0x3
	Equal        Condition = 0x4
	NotEqual     Condition = 0x5
	BelowEqual   Condition = 0x6
	Above        Condition = 0x7
	Negative     Condition = 0x8
	Positive     Condition = 0x9
	Parity       Condition = 0xA
	NoParity     Condition = 0xB
	Less         Condition = 0xC
	GreaterEqual Condition = 0xD
	LessEqual    Condition = 0xE
	Greater      Condition = 0xF

	Zero       = Equal
	NotZero    = NotEqual
	CarrySet   = Below
	CarryClear = AboveEqual
)

var conditionNames = [16]string{"o", "no", "b", "ae", "e", "ne", "be", "a", "s", "ns", "p", "np", "l", "ge", "le", "g"}

func (c Condition) String() string {
	if c > Greater {
		return fmt.Sprintf("cc(%d)", uint8(c))
	}
	return conditionNames[c]
}

// Negate flips the condition (e <-> ne, l <-> ge, ...).
func (c Condition) Negate() Condition { return c ^ 1 }

// ParseCondition accepts the suffixes used by jcc/setcc/cmovcc mnemonics.
func ParseCondition(s string) (Condition, bool) {
	for i, n := range conditionNames {
		if n == s {
			return Condition(i), true
		}
	}
	switch s {
	case "z":
		return Zero, true
	case "nz":
		return NotZero, true
	case "c", "nae":
		return Below, true
	case "nc", "nb":
		return AboveEqual, true
	case "na":
		return BelowEqual, true
	case "nbe":
		return Above, true
	case "pe":
		return Parity, true
	case "po":
		return NoParity, true
	case "nge":
		return Less, true
	case "nl":
		return GreaterEqual, true
	case "ng":
		return LessEqual, true
	case "nle":
		return Greater, true
	}
	return 0, false
}
