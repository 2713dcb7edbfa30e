package x86

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	out := Disassemble([]byte{0x48, 0x03, 0xC1, 0xC3})
	assert.Contains(t, out, "0x0000: 48 03 c1         ")
	assert.Contains(t, out, "ADD RAX, RCX\n")
	assert.Contains(t, out, "0x0003: c3               RET\n")

	// 0x06 is not valid in 64-bit mode
	out = Disassemble([]byte{0x06, 0xC3})
	assert.Contains(t, out, "0x0000: db 0x06\n")
	assert.Contains(t, out, "0x0001: c3")
}

func TestDisassembleCodeLabels(t *testing.T) {
	a := NewAssembler(allFeatures(), DefaultOptions())
	entry := a.NewLabel("entry")
	done := a.NewLabel("done")
	a.Bind(entry)
	a.Testq(RDI, RDI)
	a.Jcc(Equal, done, false)
	a.Addq(RAX, RDI)
	a.Bind(done)
	a.Ret()
	code, err := a.Finalize()
	require.NoError(t, err)

	out := DisassembleCode(code)
	assert.Contains(t, out, "entry:\n0x0000: ")
	assert.Contains(t, out, "done:\n0x000c: c3")
	insts := DisassembleInstructions(code.Bytes)
	require.Len(t, insts, 4)
	assert.Equal(t, 12, insts[3].Offset)
}
