package x86

import (
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/stretchr/testify/assert"
)

type encodingCase struct {
	name string
	emit func(a *Assembler)
	want []byte
}

func runEncodingCases(t *testing.T, q cpu.Query, opts Options, cases []encodingCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, assembleWith(t, q, opts, tc.emit))
		})
	}
}

func TestLegacySSE(t *testing.T) {
	opts := DefaultOptions()
	opts.UseAVX = 0
	runEncodingCases(t, allFeatures(), opts, []encodingCase{
		{"addps", func(a *Assembler) { a.Addps(X1, X2) }, []byte{0x0F, 0x58, 0xCA}},
		{"paddd high", func(a *Assembler) { a.Paddd(X8, X1) }, []byte{0x66, 0x44, 0x0F, 0xFE, 0xC1}},
		{"paddd mem", func(a *Assembler) { a.Paddd(X0, Mem(RAX, 16)) }, []byte{0x66, 0x0F, 0xFE, 0x40, 0x10}},
	})
	assembleErr(t, allFeatures(), opts, encerrors.ErrEUnsupportedFeature, func(a *Assembler) {
		a.Vpaddd(X0, X1, X2, AVX128)
	})
	assembleErr(t, allFeatures(), opts, encerrors.ErrEUnsupportedFeature, func(a *Assembler) {
		a.Paddd(X16, X1)
	})
}

func TestVEX(t *testing.T) {
	runEncodingCases(t, allFeatures(), DefaultOptions(), []encodingCase{
		{"sse name under avx", func(a *Assembler) { a.Addps(X1, X2) }, []byte{0xC5, 0xF0, 0x58, 0xCA}},
		{"vpaddd 128", func(a *Assembler) { a.Vpaddd(X0, X1, X2, AVX128) }, []byte{0xC5, 0xF1, 0xFE, 0xC2}},
		{"vpaddd 256", func(a *Assembler) { a.Vpaddd(X0, X1, X2, AVX256) }, []byte{0xC5, 0xF5, 0xFE, 0xC2}},
		{"vpaddq wig", func(a *Assembler) { a.Vpaddq(X0, X1, X2, AVX128) }, []byte{0xC5, 0xF1, 0xD4, 0xC2}},
		{"vaddps mem no compression", func(a *Assembler) { a.Vaddps(X0, X1, Mem(RAX, 64), AVX256) },
			[]byte{0xC5, 0xF4, 0x58, 0x40, 0x40}},
		{"three byte for rm high", func(a *Assembler) { a.Vpaddd(X0, X1, X10, AVX128) },
			[]byte{0xC4, 0xC1, 0x71, 0xFE, 0xC2}},
		{"shift imm", func(a *Assembler) { a.VpsllqImm(X1, X2, 3, AVX128) }, []byte{0xC5, 0xF1, 0x73, 0xF2, 0x03}},
		{"vzeroupper", func(a *Assembler) { a.Vzeroupper() }, []byte{0xC5, 0xF8, 0x77}},
	})

	avxOnly := cpu.NewSet(cpu.VendorIntel, cpu.AVX)
	assembleErr(t, avxOnly, DefaultOptions(), encerrors.ErrEUnsupportedFeature, func(a *Assembler) {
		a.Vpaddd(X0, X1, X2, AVX256)
	})
	assembleWith(t, avxOnly, DefaultOptions(), func(a *Assembler) { a.Vpaddd(X0, X1, X2, AVX128) })
}

func TestEVEX(t *testing.T) {
	runEncodingCases(t, allFeatures(), DefaultOptions(), []encodingCase{
		{"high register", func(a *Assembler) { a.Vpaddd(X16, X1, X2, AVX128) },
			[]byte{0x62, 0xE1, 0x75, 0x08, 0xFE, 0xC2}},
		{"masked zeroing load", func(a *Assembler) { a.Evmovdquq(X1, K2, Mem(RAX, 0), false, AVX512) },
			[]byte{0x62, 0xF1, 0xFE, 0xCA, 0x6F, 0x08}},
		{"disp8*N", func(a *Assembler) { a.Evmovdquq(X1, KNoMask, Mem(RAX, 64), true, AVX512) },
			[]byte{0x62, 0xF1, 0xFE, 0x48, 0x6F, 0x48, 0x01}},
		{"disp8*N miss", func(a *Assembler) { a.Evmovdquq(X1, KNoMask, Mem(RAX, 32), true, AVX512) },
			[]byte{0x62, 0xF1, 0xFE, 0x48, 0x6F, 0x88, 0x20, 0x00, 0x00, 0x00}},
		{"broadcast", func(a *Assembler) { a.Evpaddd(X0, KNoMask, X1, Mem(RAX, 8).Bcst(), true, AVX512) },
			[]byte{0x62, 0xF1, 0x75, 0x58, 0xFE, 0x40, 0x02}},
		{"rounding", func(a *Assembler) { a.VaddpsRound(X0, X1, X2, RoundZero) },
			[]byte{0x62, 0xF1, 0x74, 0x78, 0x58, 0xC2}},
		{"compare into k", func(a *Assembler) { a.Evpcmpd(K1, KNoMask, X2, X3, IntLT, AVX512) },
			[]byte{0x62, 0xF3, 0x6D, 0x48, 0x1F, 0xCB, 0x01}},
	})

	noVL := cpu.NewSet(cpu.VendorIntel, cpu.AVX512F)
	assembleErr(t, noVL, DefaultOptions(), encerrors.ErrEUnsupportedFeature, func(a *Assembler) {
		a.Vpaddd(X16, X1, X2, AVX128)
	})
	assembleWith(t, noVL, DefaultOptions(), func(a *Assembler) { a.Vpaddd(X16, X1, X2, AVX512) })

	opts := DefaultOptions()
	opts.UseAVX = 2
	assembleErr(t, allFeatures(), opts, encerrors.ErrEUnsupportedFeature, func(a *Assembler) {
		a.Vpaddd(X0, X1, X2, AVX512)
	})
}

func TestEVEXOperandChecks(t *testing.T) {
	cases := map[string]func(a *Assembler){
		"zeroing store":      func(a *Assembler) { a.Evmovdquq(Mem(RAX, 0), K1, X1, false, AVX512) },
		"broadcast on bytes": func(a *Assembler) { a.Evpaddb(X0, KNoMask, X1, Mem(RAX, 0).Bcst(), true, AVX512) },
		"rounding 256":       func(a *Assembler) { a.simd(&fpAdd.ps, simdArgs{reg: X0, nds: X1, rm: X2, vlen: AVX256, round: true}) },
		"masked vex-only":    func(a *Assembler) { a.ev(&opVperm2i128, X0, K1, X1, X2, true, AVX256) },
		"k as xmm":           func(a *Assembler) { a.Vpaddd(X0, X1, K1, AVX128) },
		"vsib in plain op":   func(a *Assembler) { a.Vpaddd(X0, X1, VSIB(RAX, X2, Times1, 0), AVX128) },
		"imm out of range":   func(a *Assembler) { a.Vpternlogd(X0, X1, X2, 0x1FF, AVX512) },
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			a := NewAssembler(allFeatures(), DefaultOptions())
			f(a)
			assert.Error(t, a.Err())
			assert.Equal(t, 0, a.Position())
		})
	}
}

func TestOpmask(t *testing.T) {
	runEncodingCases(t, allFeatures(), DefaultOptions(), []encodingCase{
		{"kmovw from gpr", func(a *Assembler) { a.Kmovw(K1, RAX) }, []byte{0xC5, 0xF8, 0x92, 0xC8}},
		{"kmovq from gpr", func(a *Assembler) { a.Kmovq(K1, RAX) }, []byte{0xC4, 0xE1, 0xFB, 0x92, 0xC8}},
		{"kmovw to gpr", func(a *Assembler) { a.Kmovw(RAX, K1) }, []byte{0xC5, 0xF8, 0x93, 0xC1}},
		{"kmovw k", func(a *Assembler) { a.Kmovw(K1, K2) }, []byte{0xC5, 0xF8, 0x90, 0xCA}},
		{"kmovw store", func(a *Assembler) { a.Kmovw(Mem(RAX, 0), K1) }, []byte{0xC5, 0xF8, 0x91, 0x08}},
		{"kandw", func(a *Assembler) { a.Kandw(K1, K2, K3) }, []byte{0xC5, 0xEC, 0x41, 0xCB}},
		{"kortestw", func(a *Assembler) { a.Kortestw(K1, K2) }, []byte{0xC5, 0xF8, 0x98, 0xCA}},
		{"kshiftlw", func(a *Assembler) { a.Kshiftlw(K1, K2, 3) }, []byte{0xC4, 0xE3, 0xF9, 0x32, 0xCA, 0x03}},
	})
	assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidImmediateRange, func(a *Assembler) {
		a.Kshiftrq(K1, K2, -1)
	})
	f := cpu.NewSet(cpu.VendorIntel, cpu.AVX512F)
	assembleWith(t, f, DefaultOptions(), func(a *Assembler) { a.Kandw(K1, K2, K3) })
	assembleErr(t, f, DefaultOptions(), encerrors.ErrEUnsupportedFeature, func(a *Assembler) { a.Kandb(K1, K2, K3) })
	assembleErr(t, f, DefaultOptions(), encerrors.ErrEUnsupportedFeature, func(a *Assembler) { a.Kandq(K1, K2, K3) })
}

func TestGather(t *testing.T) {
	runEncodingCases(t, allFeatures(), DefaultOptions(), []encodingCase{
		{"vex", func(a *Assembler) { a.Vpgatherdd(X0, VSIB(RAX, X1, Times4, 0), X2, AVX256) },
			[]byte{0xC4, 0xE2, 0x6D, 0x90, 0x04, 0x88}},
		{"evex", func(a *Assembler) { a.Evpgatherdd(X0, K1, VSIB(RAX, X1, Times4, 0), AVX512) },
			[]byte{0x62, 0xF2, 0x7D, 0x49, 0x90, 0x04, 0x88}},
		{"evex disp8*4", func(a *Assembler) { a.Evpgatherdd(X0, K1, VSIB(RAX, X1, Times4, 8), AVX512) },
			[]byte{0x62, 0xF2, 0x7D, 0x49, 0x90, 0x44, 0x88, 0x02}},
	})

	bad := map[string]func(a *Assembler){
		"dst is index":       func(a *Assembler) { a.Vpgatherdd(X1, VSIB(RAX, X1, Times4, 0), X2, AVX256) },
		"mask is index":      func(a *Assembler) { a.Vpgatherdd(X0, VSIB(RAX, X1, Times4, 0), X1, AVX256) },
		"dst is mask":        func(a *Assembler) { a.Vgatherdps(X2, VSIB(RAX, X1, Times4, 0), X2, AVX128) },
		"evex dst index":     func(a *Assembler) { a.Evpgatherqq(X3, K1, VSIB(RAX, X3, Times8, 0), AVX512) },
		"k0":                 func(a *Assembler) { a.Evpscatterdd(VSIB(RAX, X1, Times4, 0), K0, X2, AVX512) },
		"no base":            func(a *Assembler) { a.Vpgatherdd(X0, VSIB(NoReg, X1, Times4, 0), X2, AVX256) },
		"plain address":      func(a *Assembler) { a.Vpgatherdd(X0, Mem(RAX, 0), X2, AVX256) },
	}
	for name, f := range bad {
		t.Run(name, func(t *testing.T) {
			assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidOperandCombination, f)
		})
	}
}

func TestImmediateEnumRange(t *testing.T) {
	for name, f := range map[string]func(a *Assembler){
		"vcmpps predicate":   func(a *Assembler) { a.Vcmpps(X0, X1, X2, ComparisonPredicate(200), AVX128) },
		"vcmppd predicate":   func(a *Assembler) { a.Vcmppd(X0, X1, X2, ComparisonPredicate(32), AVX256) },
		"cmpps predicate":    func(a *Assembler) { a.Cmpps(X0, X1, ComparisonPredicate(40)) },
		"evpcmpd predicate":  func(a *Assembler) { a.Evpcmpd(K1, KNoMask, X1, X2, IntPredicate(9), AVX512) },
		"evpcmpuq predicate": func(a *Assembler) { a.Evpcmpuq(K1, K2, X1, X2, IntPredicate(8), AVX512) },
		"roundss mode":       func(a *Assembler) { a.Roundss(X0, X1, SSERounding(0x40)) },
		"roundsd mode":       func(a *Assembler) { a.Roundsd(X0, X1, SSERounding(0x10)) },
		"vroundps mode":      func(a *Assembler) { a.Vroundps(X0, X1, SSERounding(0xFF), AVX256) },
		"vroundpd mode":      func(a *Assembler) { a.Vroundpd(X0, X1, SSERounding(0x20), AVX128) },
		"vaddps rounding":    func(a *Assembler) { a.VaddpsRound(X0, X1, X2, RoundingMode(5)) },
		"vaddsd rounding":    func(a *Assembler) { a.VaddsdRound(X0, X1, X2, RoundingMode(4)) },
	} {
		t.Run(name, func(t *testing.T) {
			assembleErr(t, allFeatures(), DefaultOptions(), encerrors.ErrEInvalidImmediateRange, f)
		})
	}

	a := NewAssembler(allFeatures(), DefaultOptions())
	a.Addq(RAX, RCX)
	a.VaddpsRound(X0, X1, X2, RoundingMode(5))
	assert.Equal(t, 3, a.Position(), "rejected instruction writes nothing")

	// The top of each range still encodes.
	assert.Equal(t, []byte{0xC5, 0xF0, 0xC2, 0xC2, 0x1F}, assemble(t, func(a *Assembler) { a.Vcmpps(X0, X1, X2, ComparisonPredicate(31), AVX128) }))
	assert.Equal(t, []byte{0x62, 0xF1, 0x74, 0x78, 0x58, 0xC2}, assemble(t, func(a *Assembler) { a.VaddpsRound(X0, X1, X2, RoundZero) }))
	assert.True(t, SSERounding(15).Valid())
	assert.True(t, IntTrue.Valid())
}
