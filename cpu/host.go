package cpu

import (
	xcpu "golang.org/x/sys/cpu"
)

// hostQuery reads golang.org/x/sys/cpu on every call.
type hostQuery struct {
	vendor Vendor
}

// Host returns a Query backed by the running processor. x/sys/cpu does not
// report the vendor string, so the caller supplies it.
func Host(vendor Vendor) Query {
	return hostQuery{vendor: vendor}
}

func (h hostQuery) Vendor() Vendor {
	return h.vendor
}

func (h hostQuery) Supports(f Feature) bool {
	x := &xcpu.X86
	switch f {
	case NoFeature:
		return true
	case SSE, SSE2:
		return x.HasSSE2
	case SSE3:
		return x.HasSSE3
	case SSSE3:
		return x.HasSSSE3
	case SSE41:
		return x.HasSSE41
	case SSE42:
		return x.HasSSE42
	case POPCNT:
		return x.HasPOPCNT
	case BMI1:
		return x.HasBMI1
	case BMI2:
		return x.HasBMI2
	case ADX:
		return x.HasADX
	case CX16:
		return x.HasCX16
	case AVX:
		return x.HasAVX && x.HasOSXSAVE
	case AVX2:
		return x.HasAVX2 && x.HasOSXSAVE
	case FMA:
		return x.HasFMA && x.HasOSXSAVE
	case AVX512F:
		return x.HasAVX512F
	case AVX512VL:
		return x.HasAVX512VL
	case AVX512BW:
		return x.HasAVX512BW
	case AVX512DQ:
		return x.HasAVX512DQ
	case AVX512CD:
		return x.HasAVX512CD
	case AVX512VPOPCNTDQ:
		return x.HasAVX512VPOPCNTDQ
	case AVX512VBMI:
		return x.HasAVX512VBMI
	case AVX512VBMI2:
		return x.HasAVX512VBMI2
	}
	// LZCNT, MOVBE, CLFLUSHOPT, CLWB and F16C have no x/sys/cpu bit.
	return false
}

// Snapshot copies the host answers into a Set, optionally adding features the
// host query cannot detect.
func Snapshot(q Query, extra ...Feature) *Set {
	s := NewSet(q.Vendor())
	for _, f := range AllFeatures() {
		if q.Supports(f) {
			s.bits |= 1 << f
		}
	}
	for _, f := range extra {
		s.Add(f)
	}
	return s
}
