package x86

import (
	"encoding/binary"
	"fmt"

	"github.com/colorfulnotion/x86jit/encerrors"
)

// RelocKind tells the runtime what a relocated field refers to.
type RelocKind uint8

const (
	RelocNone RelocKind = iota
	RelocRuntimeCall
	RelocExternalWord
	RelocInternalWord
	RelocSection
	RelocOop
	RelocMetadata
	RelocPoll
)

var relocKindNames = [...]string{"none", "runtime_call", "external_word", "internal_word", "section", "oop", "metadata", "poll"}

func (k RelocKind) String() string {
	if int(k) < len(relocKindNames) {
		return relocKindNames[k]
	}
	return fmt.Sprintf("reloc(%d)", uint8(k))
}

func (k RelocKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// RelocFormat is the shape of the relocated field.
type RelocFormat uint8

const (
	FormatDisp32    RelocFormat = iota // rel32 / RIP disp32
	FormatImm64                        // 64-bit absolute immediate or data word
	FormatNarrowOop                    // 32-bit compressed pointer immediate
)

func (f RelocFormat) String() string {
	switch f {
	case FormatDisp32:
		return "disp32"
	case FormatImm64:
		return "imm64"
	case FormatNarrowOop:
		return "narrow_oop"
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

func (f RelocFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Relocation records a field the runtime must fix up when the code moves.
type Relocation struct {
	Offset    int         `json:"offset"`     // first byte of the field
	InstStart int         `json:"inst_start"` // first byte of the instruction
	Kind      RelocKind   `json:"kind"`
	Format    RelocFormat `json:"format"`
	Addend    uint64      `json:"addend"` // target address or buffer offset
}

// CodeBuffer is an append-only arena. Offsets are stable: bytes are only
// appended or patched in place.
type CodeBuffer struct {
	data   []byte
	limit  int
	relocs []Relocation
}

// NewCodeBuffer creates a buffer; limit 0 means unbounded.
func NewCodeBuffer(limit int) *CodeBuffer {
	capHint := limit
	if capHint == 0 || capHint > 1<<16 {
		capHint = 1 << 12
	}
	return &CodeBuffer{data: make([]byte, 0, capHint), limit: limit}
}

func (cb *CodeBuffer) Position() int { return len(cb.data) }

func (cb *CodeBuffer) Len() int { return len(cb.data) }

// Bytes returns the live slice; callers must not append to it.
func (cb *CodeBuffer) Bytes() []byte { return cb.data }

func (cb *CodeBuffer) Limit() int { return cb.limit }

// Remaining is -1 for unbounded buffers.
func (cb *CodeBuffer) Remaining() int {
	if cb.limit == 0 {
		return -1
	}
	return cb.limit - len(cb.data)
}

// Reserve checks that n more bytes fit.
func (cb *CodeBuffer) Reserve(n int) error {
	if cb.limit != 0 && len(cb.data)+n > cb.limit {
		return fmt.Errorf("%w: need %d bytes at offset %d, limit %d", encerrors.ErrECapacityExhausted, n, len(cb.data), cb.limit)
	}
	return nil
}

func (cb *CodeBuffer) append(b []byte) {
	cb.data = append(cb.data, b...)
}

func (cb *CodeBuffer) addRelocation(r Relocation) {
	cb.relocs = append(cb.relocs, r)
}

func (cb *CodeBuffer) Relocations() []Relocation { return cb.relocs }

func (cb *CodeBuffer) checkPatch(off, width int) {
	if off < 0 || off+width > len(cb.data) {
		panic(fmt.Sprintf("x86: patch of %d bytes at %d outside buffer of %d", width, off, len(cb.data)))
	}
}

func (cb *CodeBuffer) PatchInt8At(off int, v int8) {
	cb.checkPatch(off, 1)
	cb.data[off] = byte(v)
}

func (cb *CodeBuffer) PatchInt32At(off int, v int32) {
	cb.checkPatch(off, 4)
	binary.LittleEndian.PutUint32(cb.data[off:], uint32(v))
}

func (cb *CodeBuffer) PatchInt64At(off int, v uint64) {
	cb.checkPatch(off, 8)
	binary.LittleEndian.PutUint64(cb.data[off:], v)
}

func (cb *CodeBuffer) Int32At(off int) int32 {
	return int32(binary.LittleEndian.Uint32(cb.data[off:]))
}

// LabelPosition is a bound label in the finalized code.
type LabelPosition struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

// Code is the finished product of an Assembler.
type Code struct {
	Bytes       []byte          `json:"-"`
	Hex         string          `json:"hex"`
	Relocations []Relocation    `json:"relocations"`
	Labels      []LabelPosition `json:"labels"`
}

// Label returns the offset of a named label.
func (c *Code) Label(name string) (int, bool) {
	for _, l := range c.Labels {
		if l.Name == name {
			return l.Offset, true
		}
	}
	return 0, false
}
