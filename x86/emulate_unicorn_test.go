//go:build unicorn
// +build unicorn

package x86

import (
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/stretchr/testify/require"
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"
)

const (
	emuCodeBase  = 0x100000
	emuStackBase = 0x200000
	emuStackSize = 0x10000
)

// runEmulated maps code at emuCodeBase, seeds registers and runs to the end
// of the code.
func runEmulated(t *testing.T, code []byte, regs map[int]uint64) uc.Unicorn {
	t.Helper()
	mu, err := uc.NewUnicorn(uc.ARCH_X86, uc.MODE_64)
	require.NoError(t, err)
	t.Cleanup(func() { mu.Close() })

	require.NoError(t, mu.MemMap(emuCodeBase, 0x10000))
	require.NoError(t, mu.MemMap(emuStackBase, emuStackSize))
	require.NoError(t, mu.MemWrite(emuCodeBase, code))
	require.NoError(t, mu.RegWrite(uc.X86_REG_RSP, emuStackBase+emuStackSize-0x100))
	for reg, v := range regs {
		require.NoError(t, mu.RegWrite(reg, v))
	}
	require.NoError(t, mu.Start(emuCodeBase, emuCodeBase+uint64(len(code))))
	return mu
}

func emulatedAssembler() *Assembler {
	opts := DefaultOptions()
	opts.CodeBase = emuCodeBase
	opts.Production = true
	opts.UseAVX = 0
	return NewAssembler(cpu.AllSet(cpu.VendorIntel), opts)
}

func regValue(t *testing.T, mu uc.Unicorn, reg int) uint64 {
	t.Helper()
	v, err := mu.RegRead(reg)
	require.NoError(t, err)
	return v
}

func TestEmulatedLoop(t *testing.T) {
	a := emulatedAssembler()
	loop := a.NewLabel("loop")
	a.Xorl(RAX, RAX)
	a.Align(16)
	a.Bind(loop)
	a.Addq(RAX, RCX)
	a.Decq(RCX)
	a.Jcc(NotZero, loop, true)
	code, err := a.Finalize()
	require.NoError(t, err)

	mu := runEmulated(t, code.Bytes, map[int]uint64{uc.X86_REG_RCX: 10})
	require.Equal(t, uint64(55), regValue(t, mu, uc.X86_REG_RAX))
}

func TestEmulatedForwardBranchAndPadding(t *testing.T) {
	a := emulatedAssembler()
	skip := a.NewLabel("skip")
	a.Movq(RAX, Imm(1))
	a.Cmpq(RDI, Imm(0))
	a.Jcc(Equal, skip, false)
	a.Movq(RAX, Imm(2))
	a.Nop(37)
	a.Bind(skip)
	a.Shlq(RAX, 4)
	code, err := a.Finalize()
	require.NoError(t, err)

	mu := runEmulated(t, code.Bytes, map[int]uint64{uc.X86_REG_RDI: 0})
	require.Equal(t, uint64(16), regValue(t, mu, uc.X86_REG_RAX))
	mu = runEmulated(t, code.Bytes, map[int]uint64{uc.X86_REG_RDI: 1})
	require.Equal(t, uint64(32), regValue(t, mu, uc.X86_REG_RAX))
}

func TestEmulatedMemoryAndExtendedRegisters(t *testing.T) {
	a := emulatedAssembler()
	a.Movabs(R12, 0x0102030405060708)
	a.Push(R12)
	a.Movq(R13, Mem(RSP, 0))
	a.Bswapq(R13)
	a.Movzbl(R14, Mem(RSP, 1))
	a.ImulqImm(R15, R14, 3)
	a.Pop(RBX)
	code, err := a.Finalize()
	require.NoError(t, err)

	mu := runEmulated(t, code.Bytes, nil)
	require.Equal(t, uint64(0x0807060504030201), regValue(t, mu, uc.X86_REG_R13))
	require.Equal(t, uint64(0x07), regValue(t, mu, uc.X86_REG_R14))
	require.Equal(t, uint64(0x15), regValue(t, mu, uc.X86_REG_R15))
	require.Equal(t, uint64(0x0102030405060708), regValue(t, mu, uc.X86_REG_RBX))
}

func TestEmulatedJumpTable(t *testing.T) {
	a := emulatedAssembler()
	table := a.NewLabel("table")
	case0 := a.NewLabel("case0")
	case1 := a.NewLabel("case1")
	done := a.NewLabel("done")

	a.LeaLabel(RDX, table)
	a.JmpIndirect(MemIndex(RDX, RDI, Times8, 0))
	a.Align(8)
	a.Bind(table)
	a.EmitLabelAddress(case0)
	a.EmitLabelAddress(case1)
	a.Bind(case0)
	a.Movl(RAX, Imm(100))
	a.Jmp(done, false)
	a.Bind(case1)
	a.Movl(RAX, Imm(200))
	a.Bind(done)
	code, err := a.Finalize()
	require.NoError(t, err)

	mu := runEmulated(t, code.Bytes, map[int]uint64{uc.X86_REG_RDI: 1})
	require.Equal(t, uint64(200), regValue(t, mu, uc.X86_REG_RAX))
	mu = runEmulated(t, code.Bytes, map[int]uint64{uc.X86_REG_RDI: 0})
	require.Equal(t, uint64(100), regValue(t, mu, uc.X86_REG_RAX))
}

func TestEmulatedSSE(t *testing.T) {
	a := emulatedAssembler()
	a.Movq(RAX, Imm(3))
	a.Movd(X0, RAX)
	a.Pshufd(X0, X0, 0)
	a.Paddd(X0, X0)
	a.Movd(RBX, X0)
	code, err := a.Finalize()
	require.NoError(t, err)

	mu := runEmulated(t, code.Bytes, nil)
	require.Equal(t, uint64(6), regValue(t, mu, uc.X86_REG_RBX))
}
