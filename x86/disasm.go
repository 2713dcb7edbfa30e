package x86

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// DecodedInst is one instruction of a debug listing.
type DecodedInst struct {
	Offset int
	Bytes  []byte
	Inst   x86asm.Inst
	Err    error
}

// DisassembleInstructions decodes code in 64-bit mode. Undecodable bytes
// come back one at a time with Err set.
func DisassembleInstructions(code []byte) []DecodedInst {
	var out []DecodedInst
	offset := 0
	for offset < len(code) {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			out = append(out, DecodedInst{Offset: offset, Bytes: code[offset : offset+1], Err: err})
			offset++
			continue
		}
		out = append(out, DecodedInst{Offset: offset, Bytes: code[offset : offset+inst.Len], Inst: inst})
		offset += inst.Len
	}
	return out
}

// Disassemble renders an offset/bytes/instruction listing of code.
func Disassemble(code []byte) string {
	return disassemble(code, nil)
}

// DisassembleCode is Disassemble with the bound label names of c shown
// above the instructions they mark.
func DisassembleCode(c *Code) string {
	labels := make(map[int][]string)
	for _, l := range c.Labels {
		labels[l.Offset] = append(labels[l.Offset], l.Name)
	}
	return disassemble(c.Bytes, labels)
}

func disassemble(code []byte, labels map[int][]string) string {
	var sb strings.Builder
	for _, d := range DisassembleInstructions(code) {
		for _, name := range labels[d.Offset] {
			sb.WriteString(fmt.Sprintf("%s:\n", name))
		}
		if d.Err != nil {
			sb.WriteString(fmt.Sprintf("0x%04x: db 0x%02x\n", d.Offset, d.Bytes[0]))
			continue
		}
		var hexBytes []string
		for _, b := range d.Bytes {
			hexBytes = append(hexBytes, fmt.Sprintf("%02x", b))
		}
		sb.WriteString(fmt.Sprintf(
			"0x%04x: %-16s %s\n",
			d.Offset,
			strings.Join(hexBytes, " "),
			d.Inst.String(),
		))
	}
	// labels bound at the very end
	for _, name := range labels[len(code)] {
		sb.WriteString(fmt.Sprintf("%s:\n", name))
	}
	return sb.String()
}
