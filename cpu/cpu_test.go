package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetImplications(t *testing.T) {
	s := NewSet(VendorIntel, AVX512BW)
	for _, f := range []Feature{AVX512BW, AVX512F, AVX2, AVX, SSE42, SSE2, SSE, FMA} {
		assert.True(t, s.Supports(f), f.String())
	}
	assert.False(t, s.Supports(AVX512VL))
	assert.False(t, s.Supports(BMI2))
	assert.True(t, s.Supports(NoFeature))
	assert.Equal(t, VendorIntel, s.Vendor())

	s.Remove(AVX512F)
	assert.False(t, s.Supports(AVX512F))
	assert.True(t, s.Supports(AVX512BW), "remove does not cascade")
}

func TestBaseline(t *testing.T) {
	s := Baseline(VendorUnknown)
	assert.Equal(t, []string{"sse", "sse2"}, Names(s))
}

func TestParseFeature(t *testing.T) {
	for _, f := range AllFeatures() {
		got, err := ParseFeature(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := ParseFeature(" SSE4_1 ")
	require.NoError(t, err)
	assert.Equal(t, SSE41, got)
	got, err = ParseFeature("sse42")
	require.NoError(t, err)
	assert.Equal(t, SSE42, got)
	_, err = ParseFeature("mmx2")
	assert.Error(t, err)
}

func TestParseVendor(t *testing.T) {
	cases := map[string]Vendor{
		"intel": VendorIntel, "AuthenticAMD": VendorAMD, "hygon": VendorHygon,
		"zhaoxin": VendorZhaoxin, "": VendorUnknown,
	}
	for in, want := range cases {
		got, err := ParseVendor(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseVendor("cyrix")
	assert.Error(t, err)
	assert.True(t, VendorHygon.IsAMDFamily())
	assert.False(t, VendorIntel.IsAMDFamily())
}

func TestSnapshotHost(t *testing.T) {
	h := Host(VendorAMD)
	s := Snapshot(h, LZCNT)
	assert.Equal(t, VendorAMD, s.Vendor())
	assert.True(t, s.Supports(LZCNT))
	for _, f := range AllFeatures() {
		if f == LZCNT {
			continue
		}
		assert.Equal(t, h.Supports(f), s.Supports(f), f.String())
	}
}
