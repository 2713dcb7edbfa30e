package x86

import (
	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/log"
)

// Address NOPs: 0F 1F /0 with a zero displacement of growing width.
var (
	addrNop4 = []byte{0x0F, 0x1F, 0x40, 0x00}
	addrNop5 = []byte{0x0F, 0x1F, 0x44, 0x00, 0x00}
	addrNop7 = []byte{0x0F, 0x1F, 0x80, 0x00, 0x00, 0x00, 0x00}
	addrNop8 = []byte{0x0F, 0x1F, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00}
)

const opsizePrefix = X86_PREFIX_66

type padStyle uint8

const (
	padSingle  padStyle = iota // n x 90
	padIntel                   // address nops, never two in a row
	padAMD                     // address nops, back to back
	padPrefix                  // 66 .. 90 runs
)

var padStyleNames = [...]string{"single", "intel", "amd", "prefix"}

func (s padStyle) String() string { return padStyleNames[s] }

func (a *Assembler) padStyle() padStyle {
	if !a.opts.Production {
		return padSingle
	}
	if !a.opts.UseAddressNop {
		return padPrefix
	}
	switch a.features.Vendor() {
	case cpu.VendorIntel, cpu.VendorZhaoxin:
		return padIntel
	case cpu.VendorAMD, cpu.VendorHygon:
		return padAMD
	}
	return padPrefix
}

// Nop emits exactly n bytes of no-op instructions.
func (a *Assembler) Nop(n int) {
	a.emit(func() error {
		if n < 0 {
			return immRangeError("nop: negative length %d", n)
		}
		style := a.padStyle()
		a.inst = appendPadding(a.inst, style, n)
		log.Debug(log.PaddingMonitoring, "nop padding", "offset", a.mark, "n", n, "style", style.String())
		return nil
	})
}

// Align pads with no-ops until the position is a multiple of modulus.
func (a *Assembler) Align(modulus int) {
	a.AlignWithOffset(modulus, 0)
}

// AlignWithOffset pads until position+offset is a multiple of modulus, so
// that the byte offset bytes ahead lands on the boundary.
func (a *Assembler) AlignWithOffset(modulus, offset int) {
	if a.err != nil {
		return
	}
	if modulus <= 0 {
		a.emit(func() error { return immRangeError("align: modulus %d must be positive", modulus) })
		return
	}
	if r := (a.Position() + offset) % modulus; r != 0 {
		if r < 0 {
			r += modulus
		}
		a.Nop(modulus - r)
	}
}

func appendPadding(b []byte, style padStyle, n int) []byte {
	switch style {
	case padIntel:
		return appendIntelPadding(b, n)
	case padAMD:
		return appendAMDPadding(b, n)
	case padPrefix:
		return appendPrefixPadding(b, n)
	}
	for ; n > 0; n-- {
		b = append(b, X86_OP_NOP)
	}
	return b
}

func prefixes(b []byte, k int) []byte {
	for ; k > 0; k-- {
		b = append(b, opsizePrefix)
	}
	return b
}

// appendSmallNop covers 0..11 bytes with one instruction. Three bytes use
// 66 66 90 rather than 0F 1F 00 so the site stays patchable.
func appendSmallNop(b []byte, n int) []byte {
	switch {
	case n >= 8:
		return append(prefixes(b, n-8), addrNop8...)
	case n == 7:
		return append(b, addrNop7...)
	case n >= 5:
		return append(prefixes(b, n-5), addrNop5...)
	case n == 4:
		return append(b, addrNop4...)
	case n >= 1:
		return append(prefixes(b, n-1), X86_OP_NOP)
	}
	return b
}

// Intel: 15-byte blocks of 66x3 nop8 66x3 90, then a tail of 12..14 as
// nop8 plus a 4-byte prefix nop, else one small nop.
func appendIntelPadding(b []byte, n int) []byte {
	for n >= 15 {
		n -= 15
		b = prefixes(b, 3)
		b = append(b, addrNop8...)
		b = append(prefixes(b, 3), X86_OP_NOP)
	}
	if n >= 12 {
		b = prefixes(b, n-12)
		b = append(b, addrNop8...)
		return append(prefixes(b, 3), X86_OP_NOP)
	}
	return appendSmallNop(b, n)
}

// AMD: 11-byte address nops while 22 or more remain, one 6..11 byte nop
// while 12..21 remain, then one small nop.
func appendAMDPadding(b []byte, n int) []byte {
	for n >= 22 {
		n -= 11
		b = prefixes(b, 3)
		b = append(b, addrNop8...)
	}
	switch {
	case n >= 15:
		k := (n - 15) / 2
		b = append(prefixes(b, k), addrNop8...)
		n -= 8 + k
	case n >= 13:
		b = append(b, addrNop7...)
		n -= 7
	case n == 12:
		b = append(prefixes(b, 1), addrNop5...)
		n -= 6
	}
	return appendSmallNop(b, n)
}

// appendPrefixPadding uses only 66-prefixed 90s, at most four bytes each.
func appendPrefixPadding(b []byte, n int) []byte {
	for n > 12 {
		n -= 4
		b = append(prefixes(b, 3), X86_OP_NOP)
	}
	if n > 8 {
		if n > 9 {
			n--
			b = prefixes(b, 1)
		}
		n -= 3
		b = append(prefixes(b, 2), X86_OP_NOP)
	}
	if n > 4 {
		if n > 6 {
			n--
			b = prefixes(b, 1)
		}
		n -= 3
		b = append(prefixes(b, 2), X86_OP_NOP)
	}
	if n > 0 {
		b = append(prefixes(b, n-1), X86_OP_NOP)
	}
	return b
}
