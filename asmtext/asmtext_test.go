package asmtext

import (
	"errors"
	"strings"
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/x86"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleText(t *testing.T, src string) []byte {
	t.Helper()
	code, err := Assemble(src, cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions())
	require.NoError(t, err)
	return code.Bytes
}

func TestInstructionLines(t *testing.T) {
	cases := []struct {
		src  string
		want []byte
	}{
		{"add rax, rcx", []byte{0x48, 0x03, 0xC1}},
		{"add eax, r9d", []byte{0x41, 0x03, 0xC1}},
		{"ADD EAX, ECX ; comment", []byte{0x03, 0xC1}},
		{"mov qword [rbx+rcx*8+16], 5", []byte{0x48, 0xC7, 0x44, 0xCB, 0x10, 0x05, 0x00, 0x00, 0x00}},
		{"mov qword ptr [rbx + 8*rcx + 0x10], 5", []byte{0x48, 0xC7, 0x44, 0xCB, 0x10, 0x05, 0x00, 0x00, 0x00}},
		{"dec rcx", []byte{0x48, 0xFF, 0xC9}},
		{"shl rax, 3", []byte{0x48, 0xC1, 0xE0, 0x03}},
		{"shl rax", []byte{0x48, 0xD1, 0xE0}},
		{"shl rax, cl", []byte{0x48, 0xD3, 0xE0}},
		{"ret", []byte{0xC3}},
		{"push rbp", []byte{0x55}},
		{"pop r12", []byte{0x41, 0x5C}},
		{"movzx eax, byte [rdi]", []byte{0x0F, 0xB6, 0x07}},
		{"sete al", []byte{0x0F, 0x94, 0xC0}},
		{"cmovne rax, rcx", []byte{0x48, 0x0F, 0x45, 0xC1}},
		{"lock xadd qword [rdi], rax", []byte{0xF0, 0x48, 0x0F, 0xC1, 0x07}},
		{"vpaddd ymm0, ymm1, ymm2", []byte{0xC5, 0xF5, 0xFE, 0xC2}},
		{"vmovdqu64 zmm1{k2}{z}, [rax]", []byte{0x62, 0xF1, 0xFE, 0xCA, 0x6F, 0x08}},
		{"vaddps zmm0, zmm1, zmm2, {rz-sae}", []byte{0x62, 0xF1, 0x74, 0x78, 0x58, 0xC2}},
		{"kmovw k1, eax", []byte{0xC5, 0xF8, 0x92, 0xC8}},
		{"vpgatherdd ymm0, [rax+ymm1*4], ymm2", []byte{0xC4, 0xE2, 0x6D, 0x90, 0x04, 0x88}},
		{"vpgatherdd zmm0{k1}, [rax+zmm1*4]", []byte{0x62, 0xF2, 0x7D, 0x49, 0x90, 0x04, 0x88}},
		{"nop 3", []byte{0x90, 0x90, 0x90}},
		{"db 1, 0xff", []byte{0x01, 0xFF}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			assert.Equal(t, tc.want, assembleText(t, tc.src))
		})
	}
}

func TestLabelsAndBranches(t *testing.T) {
	src := `
loop:
	dec rcx
	jne loop
	jmp short done
	int3
done: ret
`
	code := assembleText(t, src)
	assert.Equal(t, []byte{
		0x48, 0xFF, 0xC9, // dec rcx
		0x75, 0xFB, // jne loop
		0xEB, 0x01, // jmp short done
		0xCC,
		0xC3,
	}, code)
}

func TestForwardBranchIsPatched(t *testing.T) {
	code, err := Assemble("je out\nnop 10\nout:", cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, code.Bytes, 16)
	assert.Equal(t, []byte{0x0F, 0x84, 0x0A, 0x00, 0x00, 0x00}, code.Bytes[:6])
	off, ok := code.Label("out")
	require.True(t, ok)
	assert.Equal(t, 16, off)
}

func TestRIPLabelAndJumpTable(t *testing.T) {
	src := `
	lea rax, [rip + table]
	ret
table:
	dq table
`
	opts := x86.DefaultOptions()
	opts.CodeBase = 0x10000
	code, err := Assemble(src, cpu.AllSet(cpu.VendorIntel), opts)
	require.NoError(t, err)
	// lea is 7 bytes, ret 1, so the table sits at 8 and disp32 = 8 - 7.
	assert.Equal(t, []byte{0x48, 0x8D, 0x05, 0x01, 0x00, 0x00, 0x00, 0xC3}, code.Bytes[:8])
	assert.Equal(t, []byte{0x08, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}, code.Bytes[8:])
	require.NotEmpty(t, code.Relocations)
	assert.Equal(t, x86.RelocInternalWord, code.Relocations[len(code.Relocations)-1].Kind)
}

func TestAlignDirective(t *testing.T) {
	code := assembleText(t, "ret\nalign 8\nret")
	require.Len(t, code, 9)
	assert.Equal(t, byte(0xC3), code[8])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want error
	}{
		{"frob rax", encerrors.ErrPUnknownMnemonic},
		{"jzz out", encerrors.ErrPUnknownMnemonic},
		{"add rax", encerrors.ErrPOperandShape},
		{"add rax, ecx", encerrors.ErrPOperandShape},
		{"mov [rax], 5", encerrors.ErrPOperandShape},
		{"movzx eax, [rdi]", encerrors.ErrPOperandShape},
		{"add rax, [rbx+", encerrors.ErrPSyntax},
		{"mov rax, [rbx*3]", encerrors.ErrPSyntax},
		{"mov rax, [eax]", encerrors.ErrPSyntax},
		{"add rax{k1}, rcx", encerrors.ErrPSyntax},
		{"add eax{z}, ecx", encerrors.ErrPSyntax},
		{"paddd xmm0{k1}, xmm1", encerrors.ErrPOperandShape},
		{"vsubps zmm0{k1}, zmm1, zmm2", encerrors.ErrPOperandShape},
		{"vaddps zmm0, zmm1, zmm2, {up}", encerrors.ErrPSyntax},
		{"lock frob [rdi], rax", encerrors.ErrPUnknownMnemonic},
		{"lock xadd qword [rdi+, rax", encerrors.ErrPSyntax},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			p := New(x86.NewAssembler(cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions()))
			err := p.Line(tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, IsParseError(err))
			assert.NoError(t, p.Assembler().Err(), "parse errors must not reach the encoder")
			assert.Zero(t, p.Assembler().Position())

			var lineErr *Error
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, 1, lineErr.Line)
		})
	}
}

func TestEncoderErrorsPassThrough(t *testing.T) {
	p := New(x86.NewAssembler(cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions()))
	require.NoError(t, p.Line("add rax, rcx"))
	err := p.Line("shl rax, 64")
	require.Error(t, err)
	assert.True(t, errors.Is(err, encerrors.ErrEInvalidImmediateRange))
	assert.False(t, IsParseError(err))
	assert.Equal(t, 3, p.Assembler().Position())
}

func TestLockDroppedWithFailedLine(t *testing.T) {
	p := New(x86.NewAssembler(cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions()))
	require.True(t, IsParseError(p.Line("lock frob [rdi], rax")))
	require.NoError(t, p.Line("xadd qword [rdi], rax"))
	assert.Equal(t, []byte{0x48, 0x0F, 0xC1, 0x07}, p.Assembler().Buffer().Bytes())
}

func TestFeatureErrorFromText(t *testing.T) {
	_, err := Assemble("vpaddd zmm0, zmm1, zmm2", cpu.Baseline(cpu.VendorIntel), x86.DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, encerrors.ErrEUnsupportedFeature))
}

func TestUndefinedLabel(t *testing.T) {
	_, err := Assemble("jmp nowhere", cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, encerrors.ErrLUnresolvedLabel))
	assert.Contains(t, err.Error(), "nowhere")
}

func TestSourceReportsLine(t *testing.T) {
	p := New(x86.NewAssembler(cpu.AllSet(cpu.VendorIntel), x86.DefaultOptions()))
	err := p.Source(strings.NewReader("ret\n\n; only a comment\nbogus\n"))
	var lineErr *Error
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 4, lineErr.Line)
	assert.Equal(t, "bogus", lineErr.Text)
}

func TestParseOperand(t *testing.T) {
	noLabels := func(string) *x86.Label { t.Fatal("unexpected label"); return nil }

	op, err := parseOperand("dword [rsp - 8]", noLabels)
	require.NoError(t, err)
	assert.Equal(t, kindMem, op.kind)
	assert.Equal(t, 32, op.bits)
	assert.Equal(t, x86.RSP, op.mem.Base())
	assert.Equal(t, int32(-8), op.mem.Disp())

	op, err = parseOperand("[0x1000]", noLabels)
	require.NoError(t, err)
	assert.Equal(t, x86.NoReg, op.mem.Base())
	assert.Equal(t, int32(0x1000), op.mem.Disp())

	op, err = parseOperand("[rdi+zmm3*8]{k5}", noLabels)
	require.NoError(t, err)
	assert.True(t, op.vsib)
	assert.Equal(t, x86.AVX512, op.vsibLen)
	assert.Equal(t, x86.K5, op.mask)
	assert.Equal(t, x86.X3, op.mem.VectorIndex())

	op, err = parseOperand("[rax]{1to16}", noLabels)
	require.NoError(t, err)
	assert.True(t, op.mem.IsBroadcast())

	op, err = parseOperand("ymm17", noLabels)
	require.NoError(t, err)
	assert.Equal(t, x86.X17, op.xmm)
	assert.Equal(t, x86.AVX256, op.vlen)

	op, err = parseOperand("-0x80", noLabels)
	require.NoError(t, err)
	assert.Equal(t, int64(-128), op.imm)

	op, err = parseOperand("0xffffffffffffffff", noLabels)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), op.imm)

	op, err = parseOperand("short .Lloop", noLabels)
	require.NoError(t, err)
	assert.Equal(t, kindLabel, op.kind)
	assert.True(t, op.short)
	assert.Equal(t, ".Lloop", op.label)

	for _, bad := range []string{"[rax+rbx+rcx]", "[rax*2*2]", "{k1}", "byte rax", "[rip]", "[rax]{k0}"} {
		_, err := parseOperand(bad, noLabels)
		assert.Error(t, err, bad)
	}
}

func TestSplitOperands(t *testing.T) {
	assert.Equal(t, []string{"zmm1{k2}{z}", " [rax+rbx*8]"}, splitOperands("zmm1{k2}{z}, [rax+rbx*8]"))
	assert.Nil(t, splitOperands(""))
	assert.Equal(t, []string{"a", " b", " c"}, splitOperands("a, b, c"))
}

func TestEveryMnemonicResolves(t *testing.T) {
	for _, name := range Mnemonics() {
		_, err := lookup(name)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"jae", "jnz", "setl", "cmovge", "jo"} {
		_, err := lookup(name)
		assert.NoError(t, err, name)
	}
}
