package encerrors

import (
	"errors"
	"strings"
)

// Encoding (E) Errors
var (
	ErrEUnsupportedFeature        = errors.New("E1|UnsupportedFeature: The instruction or operand form needs a CPU feature the query does not report.")
	ErrEEncodingOverflow          = errors.New("E2|EncodingOverflow: A displacement or branch distance does not fit the selected field width.")
	ErrEInvalidOperandCombination = errors.New("E3|InvalidOperandCombination: The operand shapes or registers are not encodable for this instruction.")
	ErrEInvalidImmediateRange     = errors.New("E4|InvalidImmediateRange: The immediate value is outside the range accepted by the instruction.")
	ErrECapacityExhausted         = errors.New("E5|CapacityExhausted: The code buffer has no room for the instruction.")
)

// Label (L) Errors
var (
	ErrLLabelAlreadyBound = errors.New("L1|LabelAlreadyBound: The label was bound twice.")
	ErrLUnboundLabel      = errors.New("L2|UnboundLabel: The position of an unbound label was requested.")
	ErrLUnresolvedLabel   = errors.New("L3|UnresolvedLabel: The code was finalized while a label still had pending patch sites.")
)

// Parse (P) Errors
var (
	ErrPSyntax          = errors.New("P1|SyntaxError: The assembly line could not be tokenized.")
	ErrPUnknownMnemonic = errors.New("P2|UnknownMnemonic: The mnemonic has no emitter.")
	ErrPOperandShape    = errors.New("P3|OperandShape: The operands do not match any form of the mnemonic.")
)

// All lists every sentinel in code order.
var All = []error{
	ErrEUnsupportedFeature,
	ErrEEncodingOverflow,
	ErrEInvalidOperandCombination,
	ErrEInvalidImmediateRange,
	ErrECapacityExhausted,
	ErrLLabelAlreadyBound,
	ErrLUnboundLabel,
	ErrLUnresolvedLabel,
	ErrPSyntax,
	ErrPUnknownMnemonic,
	ErrPOperandShape,
}

// Sentinel returns the sentinel that err wraps, or nil.
func Sentinel(err error) error {
	for _, s := range All {
		if errors.Is(err, s) {
			return s
		}
	}
	return nil
}

// GetErrorName extracts the error name from the sentinel wrapped by err.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	if s := Sentinel(err); s != nil {
		err = s
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	_, nameDesc, _ := strings.Cut(errStr, "|")
	name, _, _ := strings.Cut(nameDesc, ":")
	return strings.TrimSpace(name)
}

func GetErrorNames(errs []error) []string {
	names := make([]string, len(errs))
	for i, err := range errs {
		names[i] = GetErrorName(err)
	}
	return names
}

// GetErrorCode extracts the error code ("E1", "L2", ...).
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if s := Sentinel(err); s != nil {
		err = s
	}
	code, _, found := strings.Cut(err.Error(), "|")
	if !found {
		return ""
	}
	return strings.TrimSpace(code)
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the sentinel description.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	if s := Sentinel(err); s != nil {
		err = s
	}
	_, desc, found := strings.Cut(err.Error(), ":")
	if !found {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(desc)
}
