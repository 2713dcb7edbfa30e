package x86

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/colorfulnotion/x86jit/config"
	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/log"
)

// Options are the encoder switches that do not depend on the processor.
type Options struct {
	// UseAVX caps the AVX generation: 0 legacy SSE, 1 AVX, 2 AVX2, 3 AVX-512.
	UseAVX int
	// Production selects vendor tuned multi-byte NOPs for padding.
	Production bool
	// UseAddressNop allows the 0F 1F forms in production padding.
	UseAddressNop bool
	// PanicOnError turns the first recorded error into a panic.
	PanicOnError bool
	// Capacity limits the code buffer; 0 is unbounded.
	Capacity int
	// CodeBase is the final load address when known. It is used for
	// reachability checks of external targets and for absolute label words.
	CodeBase uint64
}

func DefaultOptions() Options {
	return Options{UseAVX: 3, UseAddressNop: true}
}

// OptionsFromConfig maps the file/env configuration onto encoder options.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.UseAVX = cfg.UseAVX
	opts.Production = cfg.Production
	opts.PanicOnError = cfg.PanicOnError
	opts.Capacity = cfg.Capacity
	return opts
}

type refKind uint8

const (
	refLabel refKind = iota
	refOffset
	refExternal
)

// pendingRef is a displacement inside the instruction being encoded whose
// value depends on the instruction end.
type pendingRef struct {
	at     int // offset of the field inside the scratch instruction
	width  int
	kind   refKind
	site   SiteKind
	label  *Label
	target int
	ext    uint64
	reloc  RelocKind
}

type labelReloc struct {
	index int
	label *Label
}

// Assembler emits instructions into a CodeBuffer. It is not safe for
// concurrent use.
//
// Errors are sticky: the first failed precondition is recorded, nothing of
// the failing instruction reaches the buffer, and every later call is a no-op.
// Err and Finalize report it.
type Assembler struct {
	code     *CodeBuffer
	features cpu.Query
	opts     Options
	err      error

	inst   []byte
	mark   int
	refs   []pendingRef
	relocs []Relocation
	lock   bool // LOCK waiting for the next instruction

	labels      []*Label
	labelRelocs []labelReloc
}

func NewAssembler(features cpu.Query, opts Options) *Assembler {
	if opts.UseAVX < 0 {
		opts.UseAVX = 0
	}
	if opts.UseAVX > 3 {
		opts.UseAVX = 3
	}
	return &Assembler{
		code:     NewCodeBuffer(opts.Capacity),
		features: features,
		opts:     opts,
		inst:     make([]byte, 0, 16),
	}
}

func (a *Assembler) Err() error { return a.err }

func (a *Assembler) Position() int { return a.code.Position() }

func (a *Assembler) Buffer() *CodeBuffer { return a.code }

func (a *Assembler) Options() Options { return a.opts }

func (a *Assembler) Features() cpu.Query { return a.features }

// supports applies the UseAVX cap on top of the feature query. The query is
// consulted on every call.
func (a *Assembler) supports(f cpu.Feature) bool {
	switch f {
	case cpu.AVX, cpu.FMA, cpu.F16C:
		if a.opts.UseAVX < 1 {
			return false
		}
	case cpu.AVX2:
		if a.opts.UseAVX < 2 {
			return false
		}
	case cpu.AVX512F, cpu.AVX512VL, cpu.AVX512BW, cpu.AVX512DQ, cpu.AVX512CD,
		cpu.AVX512VPOPCNTDQ, cpu.AVX512VBMI, cpu.AVX512VBMI2:
		if a.opts.UseAVX < 3 {
			return false
		}
	}
	return a.features.Supports(f)
}

// Supports reports whether emitters gated on f will succeed.
func (a *Assembler) Supports(f cpu.Feature) bool { return a.supports(f) }

func (a *Assembler) requireFeatures(name string, fs ...cpu.Feature) error {
	for _, f := range fs {
		if !a.supports(f) {
			return featureError("%s requires %s (use_avx=%d)", name, f, a.opts.UseAVX)
		}
	}
	return nil
}

func (a *Assembler) fail(err error) {
	if a.err != nil {
		return
	}
	a.err = err
	log.Error(log.EncoderMonitoring, "encoding failed", "offset", a.code.Position(), "code", encerrors.GetErrorCode(err), "err", err)
	if a.opts.PanicOnError {
		panic(err)
	}
}

// emit runs one instruction encoder against the scratch buffer and commits
// the result as a unit.
func (a *Assembler) emit(encode func() error) {
	if a.err != nil {
		return
	}
	a.inst = a.inst[:0]
	a.refs = a.refs[:0]
	a.relocs = a.relocs[:0]
	a.mark = a.code.Position()
	if a.lock {
		a.lock = false
		a.inst = append(a.inst, X86_PREFIX_LOCK)
	}
	if err := encode(); err != nil {
		a.fail(err)
		return
	}
	if err := a.commit(); err != nil {
		a.fail(err)
	}
}

// reject fails the next instruction with err before anything is encoded.
func (a *Assembler) reject(err error) {
	a.emit(func() error { return err })
}

func (a *Assembler) commit() error {
	if len(a.inst) == 0 {
		return nil
	}
	if err := a.code.Reserve(len(a.inst)); err != nil {
		return err
	}
	end := a.mark + len(a.inst)
	var pending []pendingRef
	for _, ref := range a.refs {
		resolved, err := a.resolveRef(ref, end)
		if err != nil {
			return err
		}
		if !resolved {
			pending = append(pending, ref)
		}
	}

	a.code.append(a.inst)
	for _, r := range a.relocs {
		r.Offset += a.mark
		r.InstStart = a.mark
		a.code.addRelocation(r)
	}
	if len(pending) > 0 {
		file, line := callerLocation()
		for _, ref := range pending {
			ref.label.sites = append(ref.label.sites, patchSite{
				offset:  a.mark + ref.at,
				width:   ref.width,
				instEnd: end,
				kind:    ref.site,
				file:    file,
				line:    line,
			})
		}
	}
	return nil
}

// resolveRef writes the field into the scratch instruction when its target is
// known; false means the label is still unbound.
func (a *Assembler) resolveRef(ref pendingRef, end int) (bool, error) {
	var v int64
	switch ref.kind {
	case refLabel:
		if !ref.label.bound {
			return false, nil
		}
		if ref.width == 8 {
			binary.LittleEndian.PutUint64(a.inst[ref.at:], a.opts.CodeBase+uint64(ref.label.pos))
			return true, nil
		}
		v = int64(ref.label.pos - end)
	case refOffset:
		v = int64(ref.target - end)
	case refExternal:
		a.relocs = append(a.relocs, Relocation{Offset: ref.at, Kind: ref.reloc, Format: FormatDisp32, Addend: ref.ext})
		if a.opts.CodeBase == 0 {
			return true, nil
		}
		v = int64(ref.ext) - int64(a.opts.CodeBase+uint64(end))
		if !isInt32(v) {
			return false, overflowError("external target 0x%x is out of rel32 reach from 0x%x", ref.ext, a.opts.CodeBase+uint64(end))
		}
	}
	switch ref.width {
	case 1:
		if !isInt8(v) {
			return false, overflowError("short displacement %d to %s does not fit 8 bits", v, a.refTarget(ref))
		}
		a.inst[ref.at] = byte(int8(v))
	case 4:
		if !isInt32(v) {
			return false, overflowError("displacement %d to %s does not fit 32 bits", v, a.refTarget(ref))
		}
		binary.LittleEndian.PutUint32(a.inst[ref.at:], uint32(int32(v)))
	}
	return true, nil
}

func (a *Assembler) refTarget(ref pendingRef) string {
	switch ref.kind {
	case refLabel:
		return ref.label.String()
	case refOffset:
		return fmt.Sprintf("offset %d", ref.target)
	}
	return fmt.Sprintf("0x%x", ref.ext)
}

// --- scratch writers ---

func (a *Assembler) emitInt8(b byte) { a.inst = append(a.inst, b) }

func (a *Assembler) emitBytes(b ...byte) { a.inst = append(a.inst, b...) }

func (a *Assembler) emitInt16(v uint16) { a.inst = binary.LittleEndian.AppendUint16(a.inst, v) }

func (a *Assembler) emitInt32(v int32) { a.inst = binary.LittleEndian.AppendUint32(a.inst, uint32(v)) }

func (a *Assembler) emitInt64(v uint64) { a.inst = binary.LittleEndian.AppendUint64(a.inst, v) }

// adopt ties a label to this assembler on first use.
func (a *Assembler) adopt(l *Label) error {
	if l == nil {
		return operandError("nil label")
	}
	if l.owner == nil {
		l.owner = a
		a.labels = append(a.labels, l)
		return nil
	}
	if l.owner != a {
		return operandError("label %s belongs to another assembler", l)
	}
	return nil
}

// addLabelRef reserves a zeroed field of width bytes that will hold the
// distance (or address, for width 8) of l.
func (a *Assembler) addLabelRef(l *Label, width int, site SiteKind) error {
	if err := a.adopt(l); err != nil {
		return err
	}
	a.refs = append(a.refs, pendingRef{at: len(a.inst), width: width, kind: refLabel, site: site, label: l})
	a.inst = append(a.inst, make([]byte, width)...)
	return nil
}

func (a *Assembler) addOffsetRef(target int) {
	a.refs = append(a.refs, pendingRef{at: len(a.inst), width: 4, kind: refOffset, target: target})
	a.emitInt32(0)
}

func (a *Assembler) addExternalRef(target uint64, kind RelocKind) {
	a.refs = append(a.refs, pendingRef{at: len(a.inst), width: 4, kind: refExternal, ext: target, reloc: kind})
	a.emitInt32(0)
}

// NewLabel creates a label owned by this assembler.
func (a *Assembler) NewLabel(name string) *Label {
	l := NewLabel(name)
	if a.err == nil {
		_ = a.adopt(l)
	}
	return l
}

// Bind fixes l at the current position and patches every pending reference.
func (a *Assembler) Bind(l *Label) {
	if a.err != nil {
		return
	}
	if err := a.adopt(l); err != nil {
		a.fail(err)
		return
	}
	if l.bound {
		a.fail(fmt.Errorf("%w: %s already bound at %d", encerrors.ErrLLabelAlreadyBound, l, l.pos))
		return
	}
	l.pos = a.code.Position()
	l.bound = true
	for _, s := range l.sites {
		if err := a.patchSite(l, s); err != nil {
			a.fail(err)
			return
		}
	}
	log.Debug(log.LabelMonitoring, "label bound", "label", l.String(), "pos", l.pos, "sites", len(l.sites))
	l.sites = nil
}

func (a *Assembler) patchSite(l *Label, s patchSite) error {
	d := l.pos - s.instEnd
	switch s.width {
	case 1:
		if !isInt8(d) {
			return overflowError("short %s to %s needs displacement %d (emitted at %s:%d)", s.kind, l, d, s.file, s.line)
		}
		a.code.PatchInt8At(s.offset, int8(d))
	case 4:
		if !isInt32(d) {
			return overflowError("%s to %s needs displacement %d (emitted at %s:%d)", s.kind, l, d, s.file, s.line)
		}
		a.code.PatchInt32At(s.offset, int32(d))
	case 8:
		a.code.PatchInt64At(s.offset, a.opts.CodeBase+uint64(l.pos))
	}
	log.Trace(log.LabelMonitoring, "patched", "label", l.String(), "site", s.offset, "width", s.width, "disp", d)
	return nil
}

// Finalize checks that every referenced label is bound and returns the code.
func (a *Assembler) Finalize() (*Code, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.lock {
		a.fail(operandError("lock prefix without an instruction"))
		return nil, a.err
	}
	for _, l := range a.labels {
		if !l.bound && len(l.sites) > 0 {
			s := l.sites[0]
			a.fail(fmt.Errorf("%w: %s has %d pending references, first at %s:%d", encerrors.ErrLUnresolvedLabel, l, len(l.sites), s.file, s.line))
			return nil, a.err
		}
	}
	relocs := append([]Relocation(nil), a.code.Relocations()...)
	for _, lr := range a.labelRelocs {
		relocs[lr.index].Addend = uint64(lr.label.pos)
	}
	code := &Code{
		Bytes:       append([]byte(nil), a.code.Bytes()...),
		Relocations: relocs,
		Labels:      []LabelPosition{},
	}
	code.Hex = hex.EncodeToString(code.Bytes)
	for _, l := range a.labels {
		if l.bound && l.name != "" {
			code.Labels = append(code.Labels, LabelPosition{Name: l.name, Offset: l.pos})
		}
	}
	sort.SliceStable(code.Labels, func(i, j int) bool { return code.Labels[i].Offset < code.Labels[j].Offset })
	if code.Relocations == nil {
		code.Relocations = []Relocation{}
	}
	return code, nil
}

// --- raw data ---

// Data8, Data32 and Data64 place literal words in the instruction stream.
func (a *Assembler) Data8(v byte) {
	a.emit(func() error {
		a.emitInt8(v)
		return nil
	})
}

func (a *Assembler) Data32(v int32) {
	a.emit(func() error {
		a.emitInt32(v)
		return nil
	})
}

func (a *Assembler) Data64(v uint64) {
	a.emit(func() error {
		a.emitInt64(v)
		return nil
	})
}

// EmitLabelAddress places the 64-bit absolute address of l (CodeBase plus its
// offset) as data, with an internal-word relocation. Used for jump tables.
func (a *Assembler) EmitLabelAddress(l *Label) {
	a.emit(func() error {
		if err := a.addLabelRef(l, 8, SiteAbsolute); err != nil {
			return err
		}
		a.relocs = append(a.relocs, Relocation{Offset: 0, Kind: RelocInternalWord, Format: FormatImm64})
		a.labelRelocs = append(a.labelRelocs, labelReloc{index: len(a.code.Relocations()), label: l})
		return nil
	})
}
