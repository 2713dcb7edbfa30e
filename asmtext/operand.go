package asmtext

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/x86"
)

type kind uint8

const (
	kindGPR kind = iota + 1
	kindXMM
	kindK
	kindMem
	kindImm
	kindLabel
	kindRound
)

var kindNames = [...]string{"?", "gpr", "xmm", "k", "mem", "imm", "label", "rounding"}

func (k kind) String() string { return kindNames[k] }

// operand is one parsed source operand plus its AVX-512 decorators.
type operand struct {
	kind kind
	text string

	gpr  x86.Register
	bits int // register width, or memory size from a size keyword; 0 when unsized

	xmm  x86.XMMRegister
	vlen x86.AvxVectorLen
	k    x86.KRegister

	mem      x86.Address
	vsib     bool
	vsibLen  x86.AvxVectorLen
	ripLabel string

	imm   int64
	label string
	short bool
	rc    x86.RoundingMode

	mask x86.KRegister
	zero bool
}

// value converts the operand to what the emitters take.
func (o operand) value() x86.Operand {
	switch o.kind {
	case kindGPR:
		return o.gpr
	case kindXMM:
		return o.xmm
	case kindK:
		return o.k
	case kindMem:
		return o.mem
	case kindImm:
		return x86.Imm(o.imm)
	}
	return nil
}

func (o operand) isRM() bool { return o.kind == kindGPR || o.kind == kindMem }

func (o operand) isVecRM() bool { return o.kind == kindXMM || o.kind == kindMem }

func (o operand) masked() bool { return o.mask != x86.KNoMask || o.zero }

type gprName struct {
	reg  x86.Register
	bits int
}

var (
	gprNames = map[string]gprName{}

	memSizes = map[string]int{
		"byte":    8,
		"word":    16,
		"dword":   32,
		"qword":   64,
		"xmmword": 128,
		"ymmword": 256,
		"zmmword": 512,
	}

	roundingNames = map[string]x86.RoundingMode{
		"rn-sae": x86.RoundNearest,
		"rd-sae": x86.RoundDown,
		"ru-sae": x86.RoundUp,
		"rz-sae": x86.RoundZero,
	}
)

func init() {
	for r := x86.RAX; r <= x86.R15; r++ {
		for _, bits := range []int{8, 16, 32, 64} {
			gprNames[r.Name(bits)] = gprName{reg: r, bits: bits}
		}
	}
}

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{encerrors.ErrPSyntax}, args...)...)
}

// vectorRegister parses xmmN, ymmN and zmmN.
func vectorRegister(s string) (x86.XMMRegister, x86.AvxVectorLen, bool) {
	if len(s) < 4 {
		return x86.XNoReg, 0, false
	}
	var vlen x86.AvxVectorLen
	switch s[:3] {
	case "xmm":
		vlen = x86.AVX128
	case "ymm":
		vlen = x86.AVX256
	case "zmm":
		vlen = x86.AVX512
	default:
		return x86.XNoReg, 0, false
	}
	n, err := strconv.Atoi(s[3:])
	if err != nil || n < 0 || n > 31 {
		return x86.XNoReg, 0, false
	}
	return x86.XMMRegister(n), vlen, true
}

func maskRegister(s string) (x86.KRegister, bool) {
	if len(s) != 2 || s[0] != 'k' || s[1] < '0' || s[1] > '7' {
		return 0, false
	}
	return x86.KRegister(s[1] - '0'), true
}

// parseNumber accepts decimal, 0x, 0o and 0b literals with an optional sign.
// Hex literals up to 64 bits wrap into int64.
func parseNumber(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, true
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return int64(u), true
	}
	return 0, false
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || c == '.' || c == '$' || c == '@':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// splitDecorators peels trailing {..} groups off an operand.
func splitDecorators(s string) (string, []string, error) {
	var decos []string
	for strings.HasSuffix(s, "}") {
		open := strings.LastIndexByte(s, '{')
		if open < 0 {
			return "", nil, syntaxError("unbalanced decorator in %q", s)
		}
		decos = append([]string{strings.TrimSpace(s[open+1 : len(s)-1])}, decos...)
		s = strings.TrimSpace(s[:open])
	}
	return s, decos, nil
}

// labelFunc returns the label for a name, creating it on first use.
type labelFunc func(name string) *x86.Label

// parseOperand turns one comma separated field into an operand. Bare
// identifiers that are not registers become label references.
func parseOperand(text string, labels labelFunc) (operand, error) {
	s := strings.TrimSpace(text)
	op := operand{text: s, gpr: x86.NoReg, xmm: x86.XNoReg, mask: x86.KNoMask}
	if s == "" {
		return op, syntaxError("empty operand")
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		rc, ok := roundingNames[strings.ToLower(s[1:len(s)-1])]
		if !ok {
			return op, syntaxError("unknown rounding control %s", s)
		}
		op.kind = kindRound
		op.rc = rc
		return op, nil
	}

	body, decos, err := splitDecorators(s)
	if err != nil {
		return op, err
	}
	lower := strings.ToLower(body)

	if rest, ok := strings.CutPrefix(lower, "short "); ok {
		op.short = true
		lower = strings.TrimSpace(rest)
		body = strings.TrimSpace(body[len(body)-len(rest):])
	}
	if fields := strings.Fields(lower); len(fields) > 1 {
		if bits, ok := memSizes[fields[0]]; ok {
			op.bits = bits
			lower = strings.TrimSpace(strings.TrimPrefix(lower, fields[0]))
			lower = strings.TrimSpace(strings.TrimPrefix(lower, "ptr"))
			body = body[len(body)-len(lower):]
		}
	}

	switch {
	case strings.HasPrefix(lower, "[") && strings.HasSuffix(lower, "]"):
		if err := op.parseMemory(body[1:len(body)-1], labels); err != nil {
			return op, err
		}
	case op.bits != 0:
		return op, syntaxError("size keyword needs a memory operand in %q", s)
	default:
		if g, ok := gprNames[lower]; ok {
			op.kind, op.gpr, op.bits = kindGPR, g.reg, g.bits
		} else if x, vlen, ok := vectorRegister(lower); ok {
			op.kind, op.xmm, op.vlen = kindXMM, x, vlen
		} else if k, ok := maskRegister(lower); ok {
			op.kind, op.k = kindK, k
		} else if v, ok := parseNumber(lower); ok {
			op.kind, op.imm = kindImm, v
		} else if isIdent(body) {
			op.kind, op.label = kindLabel, body
		} else {
			return op, syntaxError("cannot parse operand %q", s)
		}
	}

	for _, d := range decos {
		if err := op.decorate(strings.ToLower(d)); err != nil {
			return op, err
		}
	}
	return op, nil
}

func (op *operand) decorate(d string) error {
	switch {
	case d == "z":
		if op.kind != kindXMM {
			return syntaxError("{z} needs a vector register, got %q", op.text)
		}
		op.zero = true
	case strings.HasPrefix(d, "1to"):
		if op.kind != kindMem {
			return syntaxError("broadcast needs a memory operand, got %q", op.text)
		}
		op.mem = op.mem.Bcst()
	default:
		k, ok := maskRegister(d)
		if !ok || k == x86.K0 {
			return syntaxError("bad decorator {%s}", d)
		}
		if op.kind != kindXMM && op.kind != kindK && op.kind != kindMem {
			return syntaxError("mask decorator on %q", op.text)
		}
		op.mask = k
	}
	return nil
}

// parseMemory handles base + index*scale + disp, rip + label and vector
// indexed forms.
func (op *operand) parseMemory(body string, labels labelFunc) error {
	op.kind = kindMem
	base, index := x86.NoReg, x86.NoReg
	vindex := x86.XNoReg
	scale := x86.Times1
	var disp int64
	rip := false
	label := ""

	terms, err := splitTerms(body)
	if err != nil {
		return err
	}
	for _, t := range terms {
		lower := strings.ToLower(t.text)
		if reg, sc, ok := strings.Cut(lower, "*"); ok {
			reg, sc = strings.TrimSpace(reg), strings.TrimSpace(sc)
			if _, isNum := parseNumber(reg); isNum {
				reg, sc = sc, reg
			}
			n, _ := parseNumber(sc)
			f, ok := x86.ScaleOf(int(n))
			if !ok || t.neg {
				return syntaxError("bad scaled index %q", t.text)
			}
			if g, isGPR := gprNames[reg]; isGPR && g.bits == 64 && index == x86.NoReg && vindex == x86.XNoReg {
				index, scale = g.reg, f
				continue
			}
			if x, vlen, isVec := vectorRegister(reg); isVec && index == x86.NoReg && vindex == x86.XNoReg {
				vindex, scale, op.vsibLen = x, f, vlen
				continue
			}
			return syntaxError("bad scaled index %q", t.text)
		}
		if g, ok := gprNames[lower]; ok {
			if g.bits != 64 || t.neg {
				return syntaxError("address register %q must be a positive 64-bit register", t.text)
			}
			switch {
			case base == x86.NoReg:
				base = g.reg
			case index == x86.NoReg && vindex == x86.XNoReg:
				index = g.reg
			default:
				return syntaxError("too many registers in [%s]", body)
			}
			continue
		}
		if x, vlen, ok := vectorRegister(lower); ok {
			if vindex != x86.XNoReg || index != x86.NoReg || t.neg {
				return syntaxError("bad vector index in [%s]", body)
			}
			vindex, op.vsibLen = x, vlen
			continue
		}
		if lower == "rip" {
			rip = true
			continue
		}
		if v, ok := parseNumber(lower); ok {
			if t.neg {
				v = -v
			}
			disp += v
			continue
		}
		if isIdent(t.text) && !t.neg && label == "" {
			label = t.text
			continue
		}
		return syntaxError("cannot parse address term %q", t.text)
	}
	if disp < math.MinInt32 || disp > math.MaxInt32 {
		return syntaxError("displacement %d does not fit in 32 bits", disp)
	}

	switch {
	case rip || label != "":
		if label == "" || base != x86.NoReg || index != x86.NoReg || vindex != x86.XNoReg || disp != 0 {
			return syntaxError("rip-relative operand must be [rip + label], got [%s]", body)
		}
		op.ripLabel = label
		op.mem = x86.RIPLabel(labels(label))
	case vindex != x86.XNoReg:
		op.vsib = true
		op.mem = x86.VSIB(base, vindex, scale, int32(disp))
	case base == x86.NoReg && index == x86.NoReg:
		op.mem = x86.MemAbs(int32(disp))
	default:
		op.mem = x86.MemIndex(base, index, scale, int32(disp))
	}
	return nil
}

type term struct {
	text string
	neg  bool
}

func splitTerms(body string) ([]term, error) {
	var terms []term
	neg := false
	start := 0
	flush := func(end int) error {
		t := strings.TrimSpace(body[start:end])
		if t == "" {
			return syntaxError("empty term in [%s]", body)
		}
		terms = append(terms, term{text: t, neg: neg})
		return nil
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '+' && c != '-' {
			continue
		}
		if strings.TrimSpace(body[start:i]) == "" {
			// leading sign
			if len(terms) > 0 || c == '+' {
				return nil, syntaxError("misplaced %q in [%s]", c, body)
			}
			neg = c == '-'
			start = i + 1
			continue
		}
		if err := flush(i); err != nil {
			return nil, err
		}
		neg = c == '-'
		start = i + 1
	}
	if err := flush(len(body)); err != nil {
		return nil, err
	}
	return terms, nil
}

// splitOperands splits on commas outside brackets and braces.
func splitOperands(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" || len(out) > 0 {
		out = append(out, s[start:])
	}
	return out
}
