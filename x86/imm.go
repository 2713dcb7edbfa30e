package x86

import (
	"fmt"

	"github.com/colorfulnotion/x86jit/encerrors"
	"golang.org/x/exp/constraints"
)

func isInt8[T constraints.Signed](v T) bool  { return int64(v) >= -128 && int64(v) <= 127 }
func isInt16[T constraints.Signed](v T) bool { return int64(v) >= -32768 && int64(v) <= 32767 }
func isInt32[T constraints.Signed](v T) bool {
	return int64(v) >= -(1<<31) && int64(v) <= (1<<31)-1
}

func isUint8[T constraints.Signed](v T) bool  { return v >= 0 && int64(v) <= 0xFF }
func isUint16[T constraints.Signed](v T) bool { return v >= 0 && int64(v) <= 0xFFFF }
func isUint32[T constraints.Signed](v T) bool { return v >= 0 && int64(v) <= 0xFFFFFFFF }

// inRange reports lo <= v <= hi.
func inRange[T constraints.Integer](v, lo, hi T) bool { return v >= lo && v <= hi }

// sizedImm validates an immediate for an operand of the given size and returns
// it truncated to that size, sign-extended back to int64. Values may be given
// signed or unsigned (0xFFFFFFFF and -1 are the same 32-bit immediate); 64-bit
// operations only take sign-extended 32-bit immediates.
func sizedImm(name string, size opSize, v Imm) (int64, error) {
	switch size {
	case size8:
		if isInt8(v) || isUint8(v) {
			return int64(int8(v)), nil
		}
	case size16:
		if isInt16(v) || isUint16(v) {
			return int64(int16(v)), nil
		}
	case size32:
		if isInt32(v) || isUint32(v) {
			return int64(int32(v)), nil
		}
	case size64:
		if isInt32(v) {
			return int64(v), nil
		}
	}
	return 0, immRangeError("%s: immediate %d does not fit %d bits", name, int64(v), size.bits())
}

func (a *Assembler) emitImm(size opSize, v int64) {
	switch size {
	case size8:
		a.emitInt8(byte(v))
	case size16:
		a.emitInt16(uint16(v))
	default:
		a.emitInt32(int32(v))
	}
}

func immRangeError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{encerrors.ErrEInvalidImmediateRange}, args...)...)
}

func overflowError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{encerrors.ErrEEncodingOverflow}, args...)...)
}

func operandError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{encerrors.ErrEInvalidOperandCombination}, args...)...)
}

func featureError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{encerrors.ErrEUnsupportedFeature}, args...)...)
}

// badOperands reports an operand shape the emitter has no form for.
func badOperands(name string, ops ...Operand) error {
	desc := ""
	for i, op := range ops {
		if i > 0 {
			desc += ", "
		}
		desc += operandKind(op)
	}
	return operandError("%s does not accept (%s)", name, desc)
}

func operandKind(op Operand) string {
	switch o := op.(type) {
	case Register:
		if !o.IsValid() {
			return "noreg"
		}
		return "reg"
	case XMMRegister:
		return "xmm"
	case KRegister:
		return "k"
	case Address:
		return "mem"
	case Imm:
		return "imm"
	case nil:
		return "none"
	}
	return fmt.Sprintf("%T", op)
}
