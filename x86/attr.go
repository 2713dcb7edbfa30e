package x86

import "fmt"

// AvxVectorLen is the operand width of a vector instruction.
type AvxVectorLen int8

const (
	AVX128   AvxVectorLen = 0
	AVX256   AvxVectorLen = 1
	AVX512   AvxVectorLen = 2
	AVXNoVec AvxVectorLen = 4 // scalar; encoded as L=0
)

// Bytes is the vector width in bytes (16 for scalar forms).
func (v AvxVectorLen) Bytes() int {
	switch v {
	case AVX256:
		return 32
	case AVX512:
		return 64
	default:
		return 16
	}
}

func (v AvxVectorLen) String() string {
	switch v {
	case AVX128:
		return "128"
	case AVX256:
		return "256"
	case AVX512:
		return "512"
	default:
		return "scalar"
	}
}

// lBits is the VEX.L / EVEX.L'L value.
func (v AvxVectorLen) lBits() byte {
	if v == AVXNoVec {
		return 0
	}
	return byte(v)
}

// TupleType drives EVEX disp8*N compression.
type TupleType uint8

const (
	TupleNone TupleType = iota
	TupleFV             // full vector
	TupleHV             // half vector
	TupleFVM            // full vector memory
	TupleT1S            // tuple1 scalar
	TupleT1F            // tuple1 fixed
	TupleT2
	TupleT4
	TupleT8
	TupleHVM // half vector memory
	TupleQVM // quarter vector memory
	TupleOVM // eighth vector memory
	TupleM128
	TupleDUP
)

// InputSize is the element size used by the tuple tables.
type InputSize uint8

const (
	InputNone InputSize = iota
	Input8
	Input16
	Input32
	Input64
)

func (s InputSize) Bytes() int {
	switch s {
	case Input8:
		return 1
	case Input16:
		return 2
	case Input32:
		return 4
	case Input64:
		return 8
	}
	return 0
}

// RoundingMode is the EVEX static rounding control carried in L'L.
type RoundingMode uint8

const (
	RoundNearest RoundingMode = iota // {rn-sae}
	RoundDown                        // {rd-sae}
	RoundUp                          // {ru-sae}
	RoundZero                        // {rz-sae}
)

func (r RoundingMode) String() string {
	switch r {
	case RoundNearest:
		return "rn-sae"
	case RoundDown:
		return "rd-sae"
	case RoundUp:
		return "ru-sae"
	case RoundZero:
		return "rz-sae"
	}
	return fmt.Sprintf("rc(%d)", uint8(r))
}

// Valid reports whether r fits the two-bit rounding control field.
func (r RoundingMode) Valid() bool { return r <= RoundZero }

// InstructionAttr carries the per-instruction facts the prefix and operand
// encoders need. It is built by the emitter, passed down explicitly and frozen
// once the prefix is written.
type InstructionAttr struct {
	vectorLen         AvxVectorLen
	rexVexW           bool
	rexVexWReverted   bool
	legacyMode        bool
	noRegMask         bool
	usesVL            bool
	isEvexInstruction bool
	embeddedOpmask    KRegister
	clearContext      bool
	tupleType         TupleType
	inputSize         InputSize
	embeddedBroadcast bool
	embeddedRounding  bool
	roundingMode      RoundingMode

	evex   bool
	frozen bool
}

// NewInstructionAttr mirrors the usual constructor shape: legacyMode means the
// EVEX form is not available for this instruction on this processor.
func NewInstructionAttr(vectorLen AvxVectorLen, rexVexW, legacyMode, noRegMask, usesVL bool) *InstructionAttr {
	return &InstructionAttr{
		vectorLen:      vectorLen,
		rexVexW:        rexVexW,
		legacyMode:     legacyMode,
		noRegMask:      noRegMask,
		usesVL:         usesVL,
		embeddedOpmask: KNoMask,
	}
}

func (at *InstructionAttr) mustBeOpen(setter string) {
	if at.frozen {
		panic(fmt.Sprintf("x86: InstructionAttr.%s after the prefix was emitted", setter))
	}
}

// Read-only views of the attribute state, for emitters and tests.
func (at *InstructionAttr) VectorLen() AvxVectorLen   { return at.vectorLen }
func (at *InstructionAttr) RexVexWReverted() bool     { return at.rexVexWReverted }
func (at *InstructionAttr) LegacyMode() bool          { return at.legacyMode }
func (at *InstructionAttr) NoRegMask() bool           { return at.noRegMask }
func (at *InstructionAttr) UsesVL() bool              { return at.usesVL }
func (at *InstructionAttr) IsEvexInstruction() bool   { return at.isEvexInstruction }
func (at *InstructionAttr) EmbeddedOpmask() KRegister { return at.embeddedOpmask }
func (at *InstructionAttr) ClearContext() bool        { return at.clearContext }
func (at *InstructionAttr) TupleType() TupleType      { return at.tupleType }
func (at *InstructionAttr) InputSize() InputSize      { return at.inputSize }
func (at *InstructionAttr) EmbeddedBroadcast() bool   { return at.embeddedBroadcast }
func (at *InstructionAttr) EmbeddedRounding() bool    { return at.embeddedRounding }

// RexVexW is the W bit that will be encoded. A reverted W only survives in
// EVEX encodings.
func (at *InstructionAttr) RexVexW() bool {
	if at.rexVexWReverted && !at.evex {
		return false
	}
	return at.rexVexW
}

// Evex reports whether the prefix encoder chose EVEX. Valid once frozen.
func (at *InstructionAttr) Evex() bool { return at.evex }

func (at *InstructionAttr) SetVectorLen(v AvxVectorLen) {
	at.mustBeOpen("SetVectorLen")
	at.vectorLen = v
}

func (at *InstructionAttr) SetRexVexW(w bool) {
	at.mustBeOpen("SetRexVexW")
	at.rexVexW = w
}

// SetRexVexWReverted drops W when the instruction ends up VEX encoded; used by
// opcodes that are W1 in EVEX and WIG in VEX.
func (at *InstructionAttr) SetRexVexWReverted() {
	at.mustBeOpen("SetRexVexWReverted")
	at.rexVexWReverted = true
}

func (at *InstructionAttr) SetIsEvexInstruction() {
	at.mustBeOpen("SetIsEvexInstruction")
	at.isEvexInstruction = true
}

func (at *InstructionAttr) SetEmbeddedOpmask(k KRegister) {
	at.mustBeOpen("SetEmbeddedOpmask")
	at.embeddedOpmask = k
}

// SetClearContext selects zeroing masking; ResetClearContext selects merging.
func (at *InstructionAttr) SetClearContext() {
	at.mustBeOpen("SetClearContext")
	at.clearContext = true
}

func (at *InstructionAttr) ResetClearContext() {
	at.mustBeOpen("ResetClearContext")
	at.clearContext = false
}

func (at *InstructionAttr) SetAddressAttributes(tuple TupleType, input InputSize) {
	at.mustBeOpen("SetAddressAttributes")
	at.tupleType = tuple
	at.inputSize = input
}

func (at *InstructionAttr) SetEmbeddedBroadcast() {
	at.mustBeOpen("SetEmbeddedBroadcast")
	at.embeddedBroadcast = true
}

func (at *InstructionAttr) SetEmbeddedRounding(rc RoundingMode) {
	at.mustBeOpen("SetEmbeddedRounding")
	at.embeddedRounding = true
	at.roundingMode = rc
}

// zeroing is the EVEX.z bit: K0 never zeroes.
func (at *InstructionAttr) zeroing() bool {
	return at.clearContext && at.embeddedOpmask != KNoMask
}

// memDispFactor returns N for disp8*N compression of an EVEX memory operand.
func (at *InstructionAttr) memDispFactor() int {
	vb := at.vectorLen.Bytes()
	elem := at.inputSize.Bytes()
	switch at.tupleType {
	case TupleFV:
		if at.embeddedBroadcast {
			return elem
		}
		return vb
	case TupleHV:
		if at.embeddedBroadcast {
			return elem
		}
		return vb / 2
	case TupleFVM:
		return vb
	case TupleT1S, TupleT1F:
		if elem == 0 {
			return 1
		}
		return elem
	case TupleT2:
		return 2 * elem
	case TupleT4:
		return 4 * elem
	case TupleT8:
		return 32
	case TupleHVM:
		return vb / 2
	case TupleQVM:
		return vb / 4
	case TupleOVM:
		return vb / 8
	case TupleM128:
		return 16
	case TupleDUP:
		if at.vectorLen == AVX128 || at.vectorLen == AVXNoVec {
			return 8
		}
		return vb
	}
	return 1
}
