package x86

import (
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prefixOf runs the prefix encoder alone for xmm0, xmm1, xmm2 in map 0F with pp=66.
func prefixOf(t *testing.T, features cpu.Query, at *InstructionAttr) []byte {
	t.Helper()
	a := NewAssembler(features, DefaultOptions())
	require.NoError(t, a.vexPrefix(at, simd66, esc0F, vexFields{reg: 0, nds: 1, rm: 2}))
	return append([]byte(nil), a.inst...)
}

func TestAttrFrozenAfterPrefix(t *testing.T) {
	at := NewInstructionAttr(AVX128, false, false, true, true)
	prefixOf(t, allFeatures(), at)
	assert.Panics(t, func() { at.SetEmbeddedOpmask(K1) })
	assert.Panics(t, func() { at.SetVectorLen(AVX256) })
	assert.False(t, at.Evex())
}

func TestAttrWRevertedOnlyInVex(t *testing.T) {
	vex := NewInstructionAttr(AVX128, true, false, true, true)
	vex.SetRexVexWReverted()
	assert.Equal(t, []byte{0xC5, 0xF1}, prefixOf(t, allFeatures(), vex))
	assert.False(t, vex.RexVexW())
	assert.True(t, vex.RexVexWReverted())

	evex := NewInstructionAttr(AVX512, true, false, true, true)
	evex.SetRexVexWReverted()
	assert.Equal(t, []byte{0x62, 0xF1, 0xF5, 0x48}, prefixOf(t, allFeatures(), evex))
	assert.True(t, evex.RexVexW())
	assert.True(t, evex.Evex())
}

func TestAttrZeroingNeedsMask(t *testing.T) {
	noMask := NewInstructionAttr(AVX512, true, false, false, true)
	noMask.SetClearContext()
	assert.Equal(t, []byte{0x62, 0xF1, 0xF5, 0x48}, prefixOf(t, allFeatures(), noMask))

	masked := NewInstructionAttr(AVX512, true, false, false, true)
	masked.SetEmbeddedOpmask(K1)
	masked.SetClearContext()
	assert.Equal(t, []byte{0x62, 0xF1, 0xF5, 0xC9}, prefixOf(t, allFeatures(), masked))

	merge := NewInstructionAttr(AVX512, true, false, false, true)
	merge.SetEmbeddedOpmask(K1)
	merge.SetClearContext()
	merge.ResetClearContext()
	assert.Equal(t, []byte{0x62, 0xF1, 0xF5, 0x49}, prefixOf(t, allFeatures(), merge))
}

func TestAttrEvexGuards(t *testing.T) {
	a := NewAssembler(cpu.Baseline(cpu.VendorIntel), DefaultOptions())
	at := NewInstructionAttr(AVX512, false, false, true, true)
	err := a.vexPrefix(at, simd66, esc0F, vexFields{reg: 0, nds: 1, rm: 2})
	assert.ErrorIs(t, err, encerrors.ErrEUnsupportedFeature)
	assert.Empty(t, a.inst)

	legacy := NewInstructionAttr(AVX128, false, true, true, true)
	err = NewAssembler(allFeatures(), DefaultOptions()).vexPrefix(legacy, simd66, esc0F, vexFields{reg: 17, nds: 1, rm: 2})
	assert.ErrorIs(t, err, encerrors.ErrEUnsupportedFeature)
}

func TestMemDispFactor(t *testing.T) {
	cases := []struct {
		name  string
		vlen  AvxVectorLen
		tuple TupleType
		input InputSize
		bcst  bool
		want  int
	}{
		{"fv 512", AVX512, TupleFV, Input32, false, 64},
		{"fv 512 broadcast", AVX512, TupleFV, Input32, true, 4},
		{"hv 256", AVX256, TupleHV, Input32, false, 16},
		{"t1s qword", AVX128, TupleT1S, Input64, false, 8},
		{"qvm 512", AVX512, TupleQVM, InputNone, false, 16},
		{"dup 128", AVX128, TupleDUP, InputNone, false, 8},
		{"none", AVX512, TupleNone, InputNone, false, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at := NewInstructionAttr(tc.vlen, false, false, true, true)
			at.SetAddressAttributes(tc.tuple, tc.input)
			if tc.bcst {
				at.SetEmbeddedBroadcast()
			}
			assert.Equal(t, tc.want, at.memDispFactor())
		})
	}
}
