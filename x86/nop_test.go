package x86

import (
	"fmt"
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

func padWith(t *testing.T, vendor cpu.Vendor, production, addrNop bool, n int) []byte {
	t.Helper()
	opts := DefaultOptions()
	opts.Production = production
	opts.UseAddressNop = addrNop
	return assembleWith(t, cpu.AllSet(vendor), opts, func(a *Assembler) { a.Nop(n) })
}

func TestPaddingExactAndValid(t *testing.T) {
	vendors := []cpu.Vendor{cpu.VendorIntel, cpu.VendorAMD, cpu.VendorHygon, cpu.VendorZhaoxin, cpu.VendorUnknown}
	for _, v := range vendors {
		for _, production := range []bool{false, true} {
			for _, addrNop := range []bool{false, true} {
				name := fmt.Sprintf("%s/production=%v/addrnop=%v", v, production, addrNop)
				t.Run(name, func(t *testing.T) {
					for n := 0; n <= 200; n++ {
						code := padWith(t, v, production, addrNop, n)
						require.Len(t, code, n, "n=%d", n)
						for _, d := range DisassembleInstructions(code) {
							require.NoError(t, d.Err, "n=%d at %d: % x", n, d.Offset, code)
							require.Equal(t, x86asm.NOP, d.Inst.Op, "n=%d at %d: %s", n, d.Offset, d.Inst)
						}
					}
				})
			}
		}
	}
}

func TestPaddingSequences(t *testing.T) {
	cases := []struct {
		name       string
		vendor     cpu.Vendor
		production bool
		n          int
		want       []byte
	}{
		{"debug", cpu.VendorIntel, false, 3, []byte{0x90, 0x90, 0x90}},
		{"intel 3", cpu.VendorIntel, true, 3, []byte{0x66, 0x66, 0x90}},
		{"intel 6", cpu.VendorIntel, true, 6, []byte{0x66, 0x0F, 0x1F, 0x44, 0x00, 0x00}},
		{"intel 15", cpu.VendorIntel, true, 15, []byte{
			0x66, 0x66, 0x66, 0x0F, 0x1F, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00, 0x66, 0x66, 0x66, 0x90}},
		{"zhaoxin 12", cpu.VendorZhaoxin, true, 12, []byte{
			0x0F, 0x1F, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00, 0x66, 0x66, 0x66, 0x90}},
		{"amd 12", cpu.VendorAMD, true, 12, []byte{
			0x66, 0x0F, 0x1F, 0x44, 0x00, 0x00, 0x66, 0x0F, 0x1F, 0x44, 0x00, 0x00}},
		{"amd 14", cpu.VendorAMD, true, 14, []byte{
			0x0F, 0x1F, 0x80, 0x00, 0x00, 0x00, 0x00, 0x0F, 0x1F, 0x80, 0x00, 0x00, 0x00, 0x00}},
		{"generic 5", cpu.VendorUnknown, true, 5, []byte{0x66, 0x66, 0x90, 0x66, 0x90}},
		{"generic 10", cpu.VendorUnknown, true, 10, []byte{0x66, 0x66, 0x66, 0x90, 0x66, 0x66, 0x90, 0x66, 0x66, 0x90}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, padWith(t, tc.vendor, tc.production, true, tc.n))
		})
	}
}

func TestAlign(t *testing.T) {
	a := NewAssembler(allFeatures(), DefaultOptions())
	a.Ret()
	a.Align(16)
	assert.Equal(t, 16, a.Position())
	a.Align(16)
	assert.Equal(t, 16, a.Position(), "already aligned")
	a.Ret()
	a.AlignWithOffset(8, 3)
	assert.Equal(t, 21, a.Position(), "21+3 is a multiple of 8")
	require.NoError(t, a.Err())

	a.Align(0)
	assert.Error(t, a.Err())
}
