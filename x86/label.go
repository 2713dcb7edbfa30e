package x86

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/colorfulnotion/x86jit/encerrors"
)

// SiteKind describes what a patch site holds.
type SiteKind uint8

const (
	SiteBranch   SiteKind = iota // rel8/rel32 of jmp, jcc, call
	SiteRIP                      // disp32 of a RIP-relative operand
	SiteAbsolute                 // 64-bit absolute address data word
)

func (k SiteKind) String() string {
	switch k {
	case SiteBranch:
		return "branch"
	case SiteRIP:
		return "rip"
	case SiteAbsolute:
		return "absolute"
	}
	return "unknown"
}

type patchSite struct {
	offset  int // first byte of the field
	width   int // 1, 4 or 8
	instEnd int // displacement origin
	kind    SiteKind
	file    string
	line    int
}

// Label is a code position that may be referenced before it is known. It
// moves from unbound to bound exactly once.
type Label struct {
	name  string
	pos   int
	bound bool
	owner *Assembler
	sites []patchSite
}

func NewLabel(name string) *Label {
	return &Label{name: name}
}

func (l *Label) Name() string { return l.name }

func (l *Label) String() string {
	if l.name == "" {
		return fmt.Sprintf("L%p", l)
	}
	return l.name
}

func (l *Label) IsBound() bool { return l.bound }

// Position is the bound offset; asking an unbound label is an error.
func (l *Label) Position() (int, error) {
	if !l.bound {
		return 0, fmt.Errorf("%w: %s", encerrors.ErrLUnboundLabel, l)
	}
	return l.pos, nil
}

// PendingSites counts references waiting for Bind.
func (l *Label) PendingSites() int { return len(l.sites) }

// callerLocation finds the first frame outside the assembler, for patch-site
// diagnostics.
func callerLocation() (string, int) {
	pcs := make([]uintptr, 24)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.Contains(f.Function, "x86.(*Assembler)") && !strings.Contains(f.Function, "x86.(*Label)") {
			return filepath.Base(f.File), f.Line
		}
		if !more {
			break
		}
	}
	return "?", 0
}
