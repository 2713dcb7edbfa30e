// Package asmtext assembles Intel syntax source lines by driving the
// x86.Assembler emitters. It is a front end for tooling and tests, not a full
// assembler: one instruction, label or directive per line, no expressions or
// macros.
package asmtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/log"
	"github.com/colorfulnotion/x86jit/x86"
)

// Error reports a line that failed to parse or encode.
type Error struct {
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Text, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsParseError reports whether err comes from the text front end rather than
// the encoder.
func IsParseError(err error) bool {
	return errors.Is(err, encerrors.ErrPSyntax) ||
		errors.Is(err, encerrors.ErrPUnknownMnemonic) ||
		errors.Is(err, encerrors.ErrPOperandShape)
}

// Program feeds source lines into one Assembler. Labels are created on first
// reference and bound when their definition line is reached.
type Program struct {
	asm    *x86.Assembler
	labels map[string]*x86.Label
	names  []string
	line   int
}

func New(asm *x86.Assembler) *Program {
	return &Program{asm: asm, labels: make(map[string]*x86.Label)}
}

func (p *Program) Assembler() *x86.Assembler { return p.asm }

// Label returns the named label, creating it on first use.
func (p *Program) Label(name string) *x86.Label {
	if l, ok := p.labels[name]; ok {
		return l
	}
	l := p.asm.NewLabel(name)
	p.labels[name] = l
	p.names = append(p.names, name)
	return l
}

// Labels lists label names in first-reference order.
func (p *Program) Labels() []string { return p.names }

// Undefined lists labels referenced but never bound.
func (p *Program) Undefined() []string {
	var out []string
	for _, name := range p.names {
		if !p.labels[name].IsBound() {
			out = append(out, name)
		}
	}
	return out
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, ";#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Line assembles one source line. Parse failures are returned without
// touching the assembler; encoder failures surface through the assembler's
// sticky error and are returned as well.
func (p *Program) Line(text string) error {
	p.line++
	src := stripComment(text)
	if src == "" {
		return nil
	}
	wrap := func(err error) error {
		if err == nil {
			return nil
		}
		return &Error{Line: p.line, Text: strings.TrimSpace(text), Err: err}
	}

	for {
		head, rest, found := strings.Cut(src, ":")
		if !found || !isIdent(strings.TrimSpace(head)) || strings.ContainsAny(head, " \t[") {
			break
		}
		name := strings.TrimSpace(head)
		p.asm.Bind(p.Label(name))
		log.Trace(log.ParserMonitoring, "label", "name", name, "line", p.line)
		src = strings.TrimSpace(rest)
		if src == "" {
			return wrap(p.asm.Err())
		}
	}

	before := p.asm.Err()
	if err := p.instruction(src); err != nil {
		log.Debug(log.ParserMonitoring, "parse error", "line", p.line, "text", src, "err", err)
		return wrap(err)
	}
	if err := p.asm.Err(); err != nil && before == nil {
		return wrap(err)
	}
	return nil
}

func (p *Program) instruction(src string) error {
	mnemonic, rest := src, ""
	if i := strings.IndexAny(src, " \t"); i >= 0 {
		mnemonic, rest = src[:i], strings.TrimSpace(src[i+1:])
	}
	mnemonic = strings.ToLower(mnemonic)

	switch mnemonic {
	case "lock":
		if rest == "" {
			return syntaxError("lock needs an instruction")
		}
		p.asm.Lock()
		err := p.instruction(rest)
		if err != nil {
			p.asm.DropLock()
		}
		return err
	case "rep":
		mnemonic, rest = "rep "+strings.ToLower(rest), ""
	}

	var ops []operand
	for _, field := range splitOperands(rest) {
		op, err := parseOperand(field, p.Label)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}
	h, err := lookup(mnemonic)
	if err != nil {
		return err
	}
	if !decorated[mnemonic] {
		for _, op := range ops {
			if op.masked() || broadcast(op) {
				return fmt.Errorf("%w: %s takes no AVX-512 decorators", encerrors.ErrPOperandShape, mnemonic)
			}
		}
	}
	return h(p, mnemonic, ops)
}

// Source assembles every line of r and stops at the first error.
func (p *Program) Source(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := p.Line(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Assemble builds and finalizes a complete source text.
func Assemble(src string, features cpu.Query, opts x86.Options) (*x86.Code, error) {
	p := New(x86.NewAssembler(features, opts))
	if err := p.Source(strings.NewReader(src)); err != nil {
		return nil, err
	}
	if undef := p.Undefined(); len(undef) > 0 {
		return nil, fmt.Errorf("%w: %s", encerrors.ErrLUnresolvedLabel, strings.Join(undef, ", "))
	}
	return p.asm.Finalize()
}
