package cpu

import (
	"fmt"
	"sort"
	"strings"
)

// Feature is an instruction set extension an emitter may depend on.
type Feature uint8

const (
	NoFeature Feature = iota
	SSE
	SSE2
	SSE3
	SSSE3
	SSE41
	SSE42
	POPCNT
	LZCNT
	BMI1
	BMI2
	ADX
	MOVBE
	CX16
	CLFLUSHOPT
	CLWB
	AVX
	AVX2
	FMA
	F16C
	AVX512F
	AVX512VL
	AVX512BW
	AVX512DQ
	AVX512CD
	AVX512VPOPCNTDQ
	AVX512VBMI
	AVX512VBMI2
	featureCount
)

var featureNames = [featureCount]string{
	NoFeature:       "none",
	SSE:             "sse",
	SSE2:            "sse2",
	SSE3:            "sse3",
	SSSE3:           "ssse3",
	SSE41:           "sse4.1",
	SSE42:           "sse4.2",
	POPCNT:          "popcnt",
	LZCNT:           "lzcnt",
	BMI1:            "bmi1",
	BMI2:            "bmi2",
	ADX:             "adx",
	MOVBE:           "movbe",
	CX16:            "cx16",
	CLFLUSHOPT:      "clflushopt",
	CLWB:            "clwb",
	AVX:             "avx",
	AVX2:            "avx2",
	FMA:             "fma",
	F16C:            "f16c",
	AVX512F:         "avx512f",
	AVX512VL:        "avx512vl",
	AVX512BW:        "avx512bw",
	AVX512DQ:        "avx512dq",
	AVX512CD:        "avx512cd",
	AVX512VPOPCNTDQ: "avx512vpopcntdq",
	AVX512VBMI:      "avx512vbmi",
	AVX512VBMI2:     "avx512vbmi2",
}

func (f Feature) String() string {
	if f < featureCount {
		return featureNames[f]
	}
	return fmt.Sprintf("feature(%d)", uint8(f))
}

// AllFeatures returns every known feature except NoFeature.
func AllFeatures() []Feature {
	out := make([]Feature, 0, featureCount-1)
	for f := NoFeature + 1; f < featureCount; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFeature maps a name such as "avx512bw" or "sse4_1" to a Feature.
func ParseFeature(name string) (Feature, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", ".")
	for f := NoFeature + 1; f < featureCount; f++ {
		if featureNames[f] == n || strings.ReplaceAll(featureNames[f], ".", "") == n {
			return f, nil
		}
	}
	return NoFeature, fmt.Errorf("unknown cpu feature %q", name)
}

// Vendor selects vendor specific code shapes such as NOP padding.
type Vendor uint8

const (
	VendorUnknown Vendor = iota
	VendorIntel
	VendorAMD
	VendorHygon
	VendorZhaoxin
)

func (v Vendor) String() string {
	switch v {
	case VendorIntel:
		return "intel"
	case VendorAMD:
		return "amd"
	case VendorHygon:
		return "hygon"
	case VendorZhaoxin:
		return "zhaoxin"
	default:
		return "unknown"
	}
}

// IsAMDFamily reports AMD and Hygon parts, which share padding guidance.
func (v Vendor) IsAMDFamily() bool {
	return v == VendorAMD || v == VendorHygon
}

func ParseVendor(name string) (Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unknown", "generic":
		return VendorUnknown, nil
	case "intel", "genuineintel":
		return VendorIntel, nil
	case "amd", "authenticamd":
		return VendorAMD, nil
	case "hygon", "hygongenuine":
		return VendorHygon, nil
	case "zhaoxin", "centaurhauls", "shanghai":
		return VendorZhaoxin, nil
	}
	return VendorUnknown, fmt.Errorf("unknown cpu vendor %q", name)
}

// Query answers feature questions for the encoder. Implementations must be
// cheap: the encoder asks on every gated emission.
type Query interface {
	Supports(f Feature) bool
	Vendor() Vendor
}

// Names lists the supported features of q in sorted order.
func Names(q Query) []string {
	var out []string
	for _, f := range AllFeatures() {
		if q.Supports(f) {
			out = append(out, f.String())
		}
	}
	sort.Strings(out)
	return out
}
