package x86

import (
	"errors"
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

func allFeatures() cpu.Query { return cpu.AllSet(cpu.VendorIntel) }

// assemble runs f on a fresh assembler with every feature and returns the code.
func assemble(t *testing.T, f func(a *Assembler)) []byte {
	t.Helper()
	return assembleWith(t, allFeatures(), DefaultOptions(), f)
}

func assembleWith(t *testing.T, q cpu.Query, opts Options, f func(a *Assembler)) []byte {
	t.Helper()
	a := NewAssembler(q, opts)
	f(a)
	code, err := a.Finalize()
	require.NoError(t, err)
	return code.Bytes
}

// assembleErr expects f to leave a sticky error wrapping want.
func assembleErr(t *testing.T, q cpu.Query, opts Options, want error, f func(a *Assembler)) error {
	t.Helper()
	a := NewAssembler(q, opts)
	f(a)
	_, err := a.Finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, want), "got %v, want %v", err, want)
	return err
}

func TestAddRegisterForms(t *testing.T) {
	assert.Equal(t, []byte{0x03, 0xC1}, assemble(t, func(a *Assembler) { a.Addl(RAX, RCX) }))
	assert.Equal(t, []byte{0x41, 0x03, 0xC1}, assemble(t, func(a *Assembler) { a.Addl(RAX, R9) }))
	assert.Equal(t, []byte{0x48, 0x03, 0xC1}, assemble(t, func(a *Assembler) { a.Addq(RAX, RCX) }))
	assert.Equal(t, []byte{0x4C, 0x03, 0xC0}, assemble(t, func(a *Assembler) { a.Addq(R8, RAX) }))
}

func TestAddRoundTripAllPairs(t *testing.T) {
	for d := RAX; d <= R15; d++ {
		for s := RAX; s <= R15; s++ {
			code := assemble(t, func(a *Assembler) {
				a.Addq(d, s)
				a.Addl(d, s)
			})
			insts := DisassembleInstructions(code)
			require.Len(t, insts, 2, "%s, %s", d, s)

			q := insts[0].Inst
			require.NoError(t, insts[0].Err)
			assert.Equal(t, x86asm.ADD, q.Op)
			assert.Equal(t, x86asm.RAX+x86asm.Reg(d), q.Args[0], "addq dst %s", d)
			assert.Equal(t, x86asm.RAX+x86asm.Reg(s), q.Args[1], "addq src %s", s)

			l := insts[1].Inst
			require.NoError(t, insts[1].Err)
			assert.Equal(t, x86asm.ADD, l.Op)
			assert.Equal(t, x86asm.EAX+x86asm.Reg(d), l.Args[0], "addl dst %s", d)
			assert.Equal(t, x86asm.EAX+x86asm.Reg(s), l.Args[1], "addl src %s", s)
			if d < R8 && s < R8 {
				assert.Len(t, insts[1].Bytes, 2, "no REX below r8")
			}
		}
	}
}

func TestAluImmediates(t *testing.T) {
	cases := []struct {
		name string
		emit func(a *Assembler)
		want []byte
	}{
		{"imm8", func(a *Assembler) { a.Addq(RAX, Imm(1)) }, []byte{0x48, 0x83, 0xC0, 0x01}},
		{"accumulator", func(a *Assembler) { a.Addq(RAX, Imm(0x1000)) }, []byte{0x48, 0x05, 0x00, 0x10, 0x00, 0x00}},
		{"imm32", func(a *Assembler) { a.Addq(RCX, Imm(0x1000)) }, []byte{0x48, 0x81, 0xC1, 0x00, 0x10, 0x00, 0x00}},
		{"forced imm32", func(a *Assembler) { a.AddqImm32(RAX, 1) }, []byte{0x48, 0x81, 0xC0, 0x01, 0x00, 0x00, 0x00}},
		{"byte accumulator", func(a *Assembler) { a.Addb(RAX, Imm(1)) }, []byte{0x04, 0x01}},
		{"cmp mem", func(a *Assembler) { a.Cmpl(Mem(RBX, 8), Imm(-1)) }, []byte{0x83, 0x7B, 0x08, 0xFF}},
		{"sub 32", func(a *Assembler) { a.Subl(RDX, Imm(0xFFFFFFFF)) }, []byte{0x83, 0xEA, 0xFF}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, assemble(t, tc.emit))
		})
	}

	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidImmediateRange, func(a *Assembler) {
		a.Addq(RAX, Imm(1<<40))
	})
	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidImmediateRange, func(a *Assembler) {
		a.Addb(RCX, Imm(300))
	})
}

func TestMovForms(t *testing.T) {
	cases := []struct {
		name string
		emit func(a *Assembler)
		want []byte
	}{
		{"zero-extended imm", func(a *Assembler) { a.Movq(RAX, Imm(1)) }, []byte{0xB8, 0x01, 0x00, 0x00, 0x00}},
		{"sign-extended imm", func(a *Assembler) { a.Movq(RAX, Imm(-1)) }, []byte{0x48, 0xC7, 0xC0, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"movabs", func(a *Assembler) { a.Movabs(RAX, 0x1122334455667788) },
			[]byte{0x48, 0xB8, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}},
		{"r9d imm", func(a *Assembler) { a.Movl(R9, Imm(7)) }, []byte{0x41, 0xB9, 0x07, 0x00, 0x00, 0x00}},
		{"store rsp", func(a *Assembler) { a.Movq(Mem(RSP, 8), RAX) }, []byte{0x48, 0x89, 0x44, 0x24, 0x08}},
		{"load rbp", func(a *Assembler) { a.Movq(RAX, Mem(RBP, 0)) }, []byte{0x48, 0x8B, 0x45, 0x00}},
		{"load r13", func(a *Assembler) { a.Movq(RAX, Mem(R13, 0)) }, []byte{0x49, 0x8B, 0x45, 0x00}},
		{"load r12", func(a *Assembler) { a.Movq(RAX, Mem(R12, 0)) }, []byte{0x49, 0x8B, 0x04, 0x24}},
		{"sib", func(a *Assembler) { a.Movq(RAX, MemIndex(RBX, RCX, Times8, 16)) }, []byte{0x48, 0x8B, 0x44, 0xCB, 0x10}},
		{"absolute", func(a *Assembler) { a.Movq(RAX, MemAbs(0x1000)) }, []byte{0x48, 0x8B, 0x04, 0x25, 0x00, 0x10, 0x00, 0x00}},
		{"byte rex", func(a *Assembler) { a.Movb(Mem(RAX, 0), RSI) }, []byte{0x40, 0x88, 0x30}},
		{"store imm", func(a *Assembler) { a.Movl(Mem(RAX, 0), Imm(5)) }, []byte{0xC7, 0x00, 0x05, 0x00, 0x00, 0x00}},
		{"movzx", func(a *Assembler) { a.Movzbl(RAX, RSI) }, []byte{0x40, 0x0F, 0xB6, 0xC6}},
		{"movsxd", func(a *Assembler) { a.Movslq(RAX, RCX) }, []byte{0x48, 0x63, 0xC1}},
		{"lea", func(a *Assembler) { a.Leaq(RAX, MemIndex(RDI, RSI, Times2, -4)) }, []byte{0x48, 0x8D, 0x44, 0x77, 0xFC}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, assemble(t, tc.emit))
		})
	}
}

func TestDisplacementWidth(t *testing.T) {
	cases := []struct {
		disp  int32
		width int
	}{
		{0, 0}, {1, 1}, {-1, 1}, {127, 1}, {-128, 1},
		{128, 4}, {-129, 4}, {1 << 20, 4}, {-(1 << 31), 4},
	}
	for _, tc := range cases {
		code := assemble(t, func(a *Assembler) { a.Movq(RAX, Mem(RCX, tc.disp)) })
		assert.Len(t, code, 3+tc.width, "disp %d", tc.disp)

		insts := DisassembleInstructions(code)
		require.Len(t, insts, 1)
		mem, ok := insts[0].Inst.Args[1].(x86asm.Mem)
		require.True(t, ok)
		assert.Equal(t, int64(tc.disp), mem.Disp)
		assert.Equal(t, x86asm.RCX, mem.Base)
	}
	// rbp and r13 have no disp-less form
	assert.Len(t, assemble(t, func(a *Assembler) { a.Movq(RAX, Mem(RBP, 0)) }), 4)
	assert.Len(t, assemble(t, func(a *Assembler) { a.Movq(RAX, Mem(R13, 0)) }), 4)
}

func TestShifts(t *testing.T) {
	assert.Equal(t, []byte{0x48, 0xD1, 0xE0}, assemble(t, func(a *Assembler) { a.Shlq(RAX, 1) }))
	assert.Equal(t, []byte{0x48, 0xC1, 0xE0, 0x03}, assemble(t, func(a *Assembler) { a.Shlq(RAX, 3) }))
	assert.Equal(t, []byte{0xC1, 0xE8, 0x1F}, assemble(t, func(a *Assembler) { a.Shrl(RAX, 31) }))
	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidImmediateRange, func(a *Assembler) { a.Shlq(RAX, 64) })
	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidImmediateRange, func(a *Assembler) { a.Shll(RAX, 32) })
}

func TestControlFlow(t *testing.T) {
	assert.Equal(t, []byte{0x53, 0x41, 0x54, 0x58}, assemble(t, func(a *Assembler) {
		a.Push(RBX)
		a.Push(R12)
		a.Pop(RAX)
	}))
	assert.Equal(t, []byte{0xC3, 0xC3, 0xC2, 0x08, 0x00}, assemble(t, func(a *Assembler) {
		a.Ret()
		a.RetImm(0)
		a.RetImm(8)
	}))
	assert.Equal(t, []byte{0x41, 0xFF, 0xD3}, assemble(t, func(a *Assembler) { a.CallIndirect(R11) }))
	assert.Equal(t, []byte{0xFF, 0x20}, assemble(t, func(a *Assembler) { a.JmpIndirect(Mem(RAX, 0)) }))
	assert.Equal(t, []byte{0x0F, 0xAE, 0xE8}, assemble(t, func(a *Assembler) { a.Lfence() }))
	assert.Equal(t, []byte{0x48, 0x99}, assemble(t, func(a *Assembler) { a.Cqo() }))
}

func TestJccPatchedOnBind(t *testing.T) {
	a := NewAssembler(allFeatures(), DefaultOptions())
	l := a.NewLabel("target")
	a.Jcc(Equal, l, false)
	require.Equal(t, 6, a.Position())
	assert.Equal(t, 1, l.PendingSites())
	a.Nop(4)
	a.Bind(l)
	require.NoError(t, a.Err())
	assert.Equal(t, 0, l.PendingSites())

	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0F, 0x84, 0x04, 0x00, 0x00, 0x00}, code.Bytes[:6])
	pos, ok := code.Label("target")
	require.True(t, ok)
	assert.Equal(t, 10, pos)
}

func TestBackwardBranches(t *testing.T) {
	code := assemble(t, func(a *Assembler) {
		l := a.NewLabel("loop")
		a.Bind(l)
		a.Decl(RCX)
		a.Jcc(NotZero, l, true)
		a.Jmp(l, true)
		a.Jmp(l, false)
	})
	assert.Equal(t, []byte{
		0xFF, 0xC9, // dec ecx
		0x75, 0xFC, // jne -4
		0xEB, 0xFA, // jmp -6
		0xE9, 0xF5, 0xFF, 0xFF, 0xFF, // jmp rel32 -11
	}, code)
}

func TestCallForwardAndMultipleSites(t *testing.T) {
	code := assemble(t, func(a *Assembler) {
		l := a.NewLabel("fn")
		a.Call(l)
		a.Jmp(l, true) // unbound: rel32 even with maybeShort
		a.Bind(l)
		a.Ret()
	})
	assert.Equal(t, []byte{
		0xE8, 0x05, 0x00, 0x00, 0x00,
		0xE9, 0x00, 0x00, 0x00, 0x00,
		0xC3,
	}, code)
}

func TestShortBranchOverflow(t *testing.T) {
	t.Run("bound", func(t *testing.T) {
		assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEEncodingOverflow, func(a *Assembler) {
			l := a.NewLabel("far")
			a.Bind(l)
			a.Nop(200)
			a.JmpShort(l)
		})
	})
	t.Run("at bind", func(t *testing.T) {
		err := assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEEncodingOverflow, func(a *Assembler) {
			l := a.NewLabel("far")
			a.JccShort(Less, l)
			a.Nop(200)
			a.Bind(l)
		})
		assert.Contains(t, err.Error(), "assembler_test.go")
	})
	t.Run("in reach", func(t *testing.T) {
		code := assemble(t, func(a *Assembler) {
			l := a.NewLabel("near")
			a.JccShort(Less, l)
			a.Nop(127)
			a.Bind(l)
		})
		assert.Equal(t, []byte{0x7C, 0x7F}, code[:2])
	})
	t.Run("panic", func(t *testing.T) {
		opts := DefaultOptions()
		opts.PanicOnError = true
		a := NewAssembler(allFeatures(), opts)
		l := a.NewLabel("far")
		a.Bind(l)
		a.Nop(130)
		assert.Panics(t, func() { a.JmpShort(l) })
	})
}

func TestLabelErrors(t *testing.T) {
	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrLLabelAlreadyBound, func(a *Assembler) {
		l := a.NewLabel("twice")
		a.Bind(l)
		a.Bind(l)
	})
	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrLUnresolvedLabel, func(a *Assembler) {
		a.Jmp(a.NewLabel("nowhere"), false)
	})

	l := NewLabel("free")
	_, err := l.Position()
	assert.True(t, errors.Is(err, encerrors.ErrLUnboundLabel))

	a := NewAssembler(allFeatures(), DefaultOptions())
	b := NewAssembler(allFeatures(), DefaultOptions())
	other := b.NewLabel("other")
	a.Jmp(other, false)
	assert.True(t, errors.Is(a.Err(), encerrors.ErrEInvalidOperandCombination))
}

func TestRIPRelative(t *testing.T) {
	// disp32 is measured from the end of the instruction, after the immediate.
	assert.Equal(t, []byte{0x48, 0x8B, 0x05, 0xF9, 0xFF, 0xFF, 0xFF}, assemble(t, func(a *Assembler) {
		a.Movq(RAX, RIPRel(0))
	}))
	assert.Equal(t, []byte{0xC7, 0x05, 0xF6, 0xFF, 0xFF, 0xFF, 0x01, 0x00, 0x00, 0x00}, assemble(t, func(a *Assembler) {
		a.Movl(RIPRel(0), Imm(1))
	}))

	code := assemble(t, func(a *Assembler) {
		l := a.NewLabel("const")
		a.LeaLabel(RAX, l)
		a.Ret()
		a.Bind(l)
		a.Data64(42)
	})
	assert.Equal(t, []byte{0x48, 0x8D, 0x05, 0x01, 0x00, 0x00, 0x00, 0xC3}, code[:8])
}

func TestExternalRelocations(t *testing.T) {
	a := NewAssembler(allFeatures(), DefaultOptions())
	a.Nop(1)
	a.CallAbs(0xdeadbeef, RelocRuntimeCall)
	a.MovabsReloc(RAX, 0x1122334455667788, RelocMetadata)
	code, err := a.Finalize()
	require.NoError(t, err)
	require.Len(t, code.Relocations, 2)
	assert.Equal(t, Relocation{Offset: 2, InstStart: 1, Kind: RelocRuntimeCall, Format: FormatDisp32, Addend: 0xdeadbeef}, code.Relocations[0])
	assert.Equal(t, RelocMetadata, code.Relocations[1].Kind)
	assert.Equal(t, FormatImm64, code.Relocations[1].Format)
	assert.Equal(t, 8, code.Relocations[1].Offset)

	opts := DefaultOptions()
	opts.CodeBase = 0x7f0000000000
	assembleErr(t, allFeatures(), opts, encerrors.ErrEEncodingOverflow, func(a *Assembler) {
		a.CallAbs(0x1000, RelocRuntimeCall)
	})
}

func TestEmitLabelAddress(t *testing.T) {
	opts := DefaultOptions()
	opts.CodeBase = 0x10000
	a := NewAssembler(allFeatures(), opts)
	l := a.NewLabel("case0")
	a.EmitLabelAddress(l)
	a.Bind(l)
	a.Ret()
	code, err := a.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC3}, code.Bytes)
	require.Len(t, code.Relocations, 1)
	assert.Equal(t, RelocInternalWord, code.Relocations[0].Kind)
	assert.Equal(t, uint64(8), code.Relocations[0].Addend)
}

func TestStickyError(t *testing.T) {
	a := NewAssembler(allFeatures(), DefaultOptions())
	a.Addq(RAX, RCX)
	a.Shlq(RAX, 99)
	require.Error(t, a.Err())
	first := a.Err()
	a.Ret()
	a.Movq(RAX, Imm(1<<40))
	assert.Equal(t, 3, a.Position(), "nothing after the failure is written")
	assert.Equal(t, first, a.Err())
	_, err := a.Finalize()
	assert.Equal(t, first, err)
	assert.Equal(t, "E4", encerrors.GetErrorCode(err))
}

func TestCapacity(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity = 4
	a := NewAssembler(allFeatures(), opts)
	a.Addq(RAX, RCX)
	require.NoError(t, a.Err())
	a.Addq(RAX, RCX)
	assert.True(t, errors.Is(a.Err(), encerrors.ErrECapacityExhausted))
	assert.Equal(t, 3, a.Buffer().Len(), "failed instruction leaves no partial bytes")
	assert.Equal(t, 1, a.Buffer().Remaining())
}

func TestFeatureGating(t *testing.T) {
	base := cpu.Baseline(cpu.VendorIntel)
	assembleErr(t, base, DefaultOptions(), encerrors.ErrEUnsupportedFeature, func(a *Assembler) { a.Popcntq(RAX, RCX) })
	assembleErr(t, base, DefaultOptions(), encerrors.ErrEUnsupportedFeature, func(a *Assembler) { a.Andnq(RAX, RCX, RDX) })
	assert.Equal(t, []byte{0xF3, 0x48, 0x0F, 0xB8, 0xC1}, assembleWith(t, cpu.NewSet(cpu.VendorIntel, cpu.POPCNT), DefaultOptions(), func(a *Assembler) {
		a.Popcntq(RAX, RCX)
	}))

	a := NewAssembler(base, DefaultOptions())
	assert.False(t, a.Supports(cpu.AVX))
	opts := DefaultOptions()
	opts.UseAVX = 1
	a = NewAssembler(allFeatures(), opts)
	assert.True(t, a.Supports(cpu.AVX))
	assert.False(t, a.Supports(cpu.AVX2))
	assert.False(t, a.Supports(cpu.AVX512F))
}

func TestLockPrefix(t *testing.T) {
	assert.Equal(t, []byte{0xF0, 0x48, 0x0F, 0xC1, 0x07}, assemble(t, func(a *Assembler) {
		a.Lock()
		a.Xaddq(Mem(RDI, 0), RAX)
	}))

	a := NewAssembler(allFeatures(), DefaultOptions())
	a.Lock()
	assert.Equal(t, 0, a.Position(), "prefix waits for its instruction")
	a.Xaddq(Mem(RAX, 0), Register(99))
	assert.True(t, errors.Is(a.Err(), encerrors.ErrEInvalidOperandCombination))
	assert.Equal(t, 0, a.Position(), "prefix is dropped with the failed instruction")

	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidOperandCombination, func(a *Assembler) {
		a.Ret()
		a.Lock()
	})

	assert.Equal(t, []byte{0x48, 0x0F, 0xC1, 0x07}, assemble(t, func(a *Assembler) {
		a.Lock()
		a.DropLock()
		a.Xaddq(Mem(RDI, 0), RAX)
	}))
}
