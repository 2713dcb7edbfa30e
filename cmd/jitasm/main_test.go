package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/colorfulnotion/x86jit/asmtext"
	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/x86"
	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--features", "all", "--vendor", "intel", "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeJSON(t *testing.T) {
	out, err := runCLI(t, "encode", "--json", "lea rax, [rip + table]", "ret", "table:", "dq table")
	require.NoError(t, err)

	want := `{
		"hex": "488d0501000000c30800000000000000",
		"relocations": [
			{"offset": 8, "inst_start": 8, "kind": "internal_word", "format": "imm64", "addend": 8}
		],
		"labels": [{"name": "table", "offset": 8}]
	}`
	opts := jsondiff.DefaultConsoleOptions()
	diff, explain := jsondiff.Compare([]byte(want), []byte(out), &opts)
	assert.Equal(t, jsondiff.FullMatch, diff, explain)
}

func TestEncodeListing(t *testing.T) {
	out, err := runCLI(t, "encode", "loop:", "dec rcx", "jne loop")
	require.NoError(t, err)
	assert.Contains(t, out, "5 bytes: 48ffc975fb")
	assert.Contains(t, out, "loop:")
	assert.Contains(t, out, "labels")

	out, err = runCLI(t, "encode", "--hex", "add rax, rcx")
	require.NoError(t, err)
	assert.Equal(t, "4803c1\n", out)
}

func TestEncodeErrors(t *testing.T) {
	_, err := runCLI(t, "encode", "frob rax")
	require.Error(t, err)
	assert.True(t, asmtext.IsParseError(err))

	_, err = runCLI(t, "encode")
	assert.Error(t, err)

	_, err = runCLI(t, "encode", "--use-avx", "7", "ret")
	assert.Error(t, err)
}

func TestPad(t *testing.T) {
	out, err := runCLI(t, "pad", "6", "--production")
	require.NoError(t, err)
	assert.Contains(t, out, "vendor intel, production true")
	assert.Contains(t, out, "6 bytes: 660f1f440000")

	out, err = runCLI(t, "pad", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "3 bytes: 909090")

	_, err = runCLI(t, "pad", "x")
	assert.Error(t, err)
}

func TestFeatures(t *testing.T) {
	out, err := runCLI(t, "features")
	require.NoError(t, err)
	assert.Contains(t, out, "vendor: intel")
	assert.Contains(t, out, "avx512f")
}

func TestReplRecoversFromEncoderError(t *testing.T) {
	var out bytes.Buffer
	sess := &session{features: cpu.AllSet(cpu.VendorIntel), opts: x86.DefaultOptions()}
	r := newRepl(sess, &out)

	assert.False(t, r.eval("top:"))
	assert.False(t, r.eval("add rax, rcx"))
	assert.False(t, r.eval("shl rax, 99"))
	assert.False(t, r.eval("bogus"))
	assert.False(t, r.eval("jmp top"))
	assert.True(t, r.eval(".quit"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "0000: ", lines[0])
	assert.Equal(t, "0000: 4803c1", lines[1])
	assert.Contains(t, lines[2], "error:")
	assert.Contains(t, lines[3], "error:")
	assert.Equal(t, "0003: ebfb", lines[4])
	assert.Equal(t, []string{"top:", "add rax, rcx", "jmp top"}, r.history)

	out.Reset()
	r.eval(".code")
	assert.Contains(t, out.String(), "5 bytes: 4803c1ebfb")

	out.Reset()
	r.eval(".reset")
	assert.Empty(t, r.history)
	assert.Zero(t, r.prog.Assembler().Position())
}

func TestReplLockLineWithParseError(t *testing.T) {
	var out bytes.Buffer
	sess := &session{features: cpu.AllSet(cpu.VendorIntel), opts: x86.DefaultOptions()}
	r := newRepl(sess, &out)

	assert.False(t, r.eval("lock frob [rdi], rax"))
	assert.False(t, r.eval("xadd qword [rdi], rax"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "error:")
	assert.Equal(t, "0000: 480fc107", lines[1])
	assert.Equal(t, []string{"xadd qword [rdi], rax"}, r.history)
}
