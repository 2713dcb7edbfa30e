package cpu

// Set is a fixed feature set. The zero value supports nothing.
type Set struct {
	bits   uint64
	vendor Vendor
}

var _ Query = (*Set)(nil)

// NewSet builds a set; implied features (AVX2 implies AVX, ...) are added.
func NewSet(vendor Vendor, features ...Feature) *Set {
	s := &Set{vendor: vendor}
	for _, f := range features {
		s.Add(f)
	}
	return s
}

// AllSet supports every known feature.
func AllSet(vendor Vendor) *Set {
	return NewSet(vendor, AllFeatures()...)
}

// Baseline is the x86-64 baseline (SSE and SSE2) only.
func Baseline(vendor Vendor) *Set {
	return NewSet(vendor, SSE2)
}

func (s *Set) Add(f Feature) {
	if f == NoFeature || f >= featureCount {
		return
	}
	s.bits |= 1 << f
	for _, dep := range implied[f] {
		s.Add(dep)
	}
}

func (s *Set) Remove(f Feature) {
	s.bits &^= 1 << f
}

func (s *Set) Supports(f Feature) bool {
	if f == NoFeature {
		return true
	}
	return s.bits&(1<<f) != 0
}

func (s *Set) Vendor() Vendor {
	return s.vendor
}

func (s *Set) SetVendor(v Vendor) {
	s.vendor = v
}

var implied = map[Feature][]Feature{
	SSE2:            {SSE},
	SSE3:            {SSE2},
	SSSE3:           {SSE3},
	SSE41:           {SSSE3},
	SSE42:           {SSE41},
	AVX:             {SSE42},
	AVX2:            {AVX},
	FMA:             {AVX},
	F16C:            {AVX},
	AVX512F:         {AVX2, FMA},
	AVX512VL:        {AVX512F},
	AVX512BW:        {AVX512F},
	AVX512DQ:        {AVX512F},
	AVX512CD:        {AVX512F},
	AVX512VPOPCNTDQ: {AVX512F},
	AVX512VBMI:      {AVX512BW},
	AVX512VBMI2:     {AVX512BW},
}
