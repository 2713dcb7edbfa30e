package asmtext

import (
	"fmt"
	"strings"

	"github.com/colorfulnotion/x86jit/encerrors"
	"github.com/colorfulnotion/x86jit/x86"
)

type asm = x86.Assembler

var (
	mnemonics = map[string]handler{}
	// decorated lists mnemonics that accept {kN}, {z} and {1toN}.
	decorated = map[string]bool{}
)

func def(name string, h handler) {
	if _, dup := mnemonics[name]; dup {
		panic("asmtext: duplicate mnemonic " + name)
	}
	mnemonics[name] = h
}

func defEvex(name string, h handler) {
	def(name, h)
	decorated[name] = true
}

// lookup resolves a mnemonic, including the jcc, setcc and cmovcc families.
func lookup(mn string) (handler, error) {
	if h, ok := mnemonics[mn]; ok {
		return h, nil
	}
	families := []struct {
		prefix string
		build  func(x86.Condition) handler
	}{
		{"cmov", cmovcc},
		{"set", setcc},
		{"j", jcc},
	}
	for _, fam := range families {
		if rest, ok := strings.CutPrefix(mn, fam.prefix); ok {
			if cc, ok := x86.ParseCondition(rest); ok {
				return fam.build(cc), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", encerrors.ErrPUnknownMnemonic, mn)
}

// Mnemonics lists every directly registered mnemonic.
func Mnemonics() []string {
	out := make([]string, 0, len(mnemonics))
	for name := range mnemonics {
		out = append(out, name)
	}
	return out
}

func init() {
	initGeneral()
	initSSE()
	initAVX()
	initAVX512()
}

func initGeneral() {
	for name, fs := range map[string]map[int]opOpFn{
		"add":   {8: (*asm).Addb, 16: (*asm).Addw, 32: (*asm).Addl, 64: (*asm).Addq},
		"or":    {8: (*asm).Orb, 16: (*asm).Orw, 32: (*asm).Orl, 64: (*asm).Orq},
		"adc":   {32: (*asm).Adcl, 64: (*asm).Adcq},
		"sbb":   {32: (*asm).Sbbl, 64: (*asm).Sbbq},
		"and":   {8: (*asm).Andb, 16: (*asm).Andw, 32: (*asm).Andl, 64: (*asm).Andq},
		"sub":   {8: (*asm).Subb, 16: (*asm).Subw, 32: (*asm).Subl, 64: (*asm).Subq},
		"xor":   {8: (*asm).Xorb, 16: (*asm).Xorw, 32: (*asm).Xorl, 64: (*asm).Xorq},
		"cmp":   {8: (*asm).Cmpb, 16: (*asm).Cmpw, 32: (*asm).Cmpl, 64: (*asm).Cmpq},
		"test":  {8: (*asm).Testb, 16: (*asm).Testw, 32: (*asm).Testl, 64: (*asm).Testq},
		"mov":   {8: (*asm).Movb, 16: (*asm).Movw, 32: (*asm).Movl, 64: (*asm).Movq},
		"movbe": {32: (*asm).Movbel, 64: (*asm).Movbeq},
		"bt":    {32: (*asm).Btl, 64: (*asm).Btq},
		"bts":   {32: (*asm).Btsl, 64: (*asm).Btsq},
		"btr":   {32: (*asm).Btrl, 64: (*asm).Btrq},
		"btc":   {32: (*asm).Btcl, 64: (*asm).Btcq},
	} {
		def(name, binary(fs))
	}

	for name, fs := range map[string]map[int]opFn{
		"not":  {32: (*asm).Notl, 64: (*asm).Notq},
		"neg":  {32: (*asm).Negl, 64: (*asm).Negq},
		"mul":  {32: (*asm).Mull, 64: (*asm).Mulq},
		"div":  {32: (*asm).Divl, 64: (*asm).Divq},
		"idiv": {32: (*asm).Idivl, 64: (*asm).Idivq},
		"inc":  {32: (*asm).Incl, 64: (*asm).Incq},
		"dec":  {32: (*asm).Decl, 64: (*asm).Decq},
	} {
		def(name, unary(fs))
	}

	for name, fs := range map[string]map[int]regOpFn{
		"bsf":    {32: (*asm).Bsfl, 64: (*asm).Bsfq},
		"bsr":    {32: (*asm).Bsrl, 64: (*asm).Bsrq},
		"popcnt": {32: (*asm).Popcntl, 64: (*asm).Popcntq},
		"lzcnt":  {32: (*asm).Lzcntl, 64: (*asm).Lzcntq},
		"tzcnt":  {32: (*asm).Tzcntl, 64: (*asm).Tzcntq},
		"blsi":   {32: (*asm).Blsil, 64: (*asm).Blsiq},
		"blsmsk": {32: (*asm).Blsmskl, 64: (*asm).Blsmskq},
		"blsr":   {32: (*asm).Blsrl, 64: (*asm).Blsrq},
		"adcx":   {32: (*asm).Adcxl, 64: (*asm).Adcxq},
		"adox":   {32: (*asm).Adoxl, 64: (*asm).Adoxq},
	} {
		def(name, regRM(fs))
	}

	for name, fs := range map[string]map[int]opRegFn{
		"xadd":    {8: (*asm).Xaddb, 32: (*asm).Xaddl, 64: (*asm).Xaddq},
		"cmpxchg": {8: (*asm).Cmpxchgb, 32: (*asm).Cmpxchgl, 64: (*asm).Cmpxchgq},
	} {
		def(name, rmReg(fs))
	}

	for name, fs := range map[string]map[int]regRegOpFn{
		"andn": {32: (*asm).Andnl, 64: (*asm).Andnq},
		"pdep": {32: (*asm).Pdepl, 64: (*asm).Pdepq},
		"pext": {32: (*asm).Pextl, 64: (*asm).Pextq},
		"mulx": {32: (*asm).Mulxl, 64: (*asm).Mulxq},
	} {
		def(name, regRegRM(fs))
	}

	for name, fs := range map[string]map[int]regOpRegFn{
		"bextr": {32: (*asm).Bextrl, 64: (*asm).Bextrq},
		"bzhi":  {32: (*asm).Bzhil, 64: (*asm).Bzhiq},
		"sarx":  {32: (*asm).Sarxl, 64: (*asm).Sarxq},
		"shlx":  {32: (*asm).Shlxl, 64: (*asm).Shlxq},
		"shrx":  {32: (*asm).Shrxl, 64: (*asm).Shrxq},
	} {
		def(name, regRMReg(fs))
	}

	shl := shiftForms{
		imm: map[int]opImmFn{8: (*asm).Shlb, 16: (*asm).Shlw, 32: (*asm).Shll, 64: (*asm).Shlq},
		cl:  map[int]opFn{32: (*asm).ShllCL, 64: (*asm).ShlqCL},
	}
	def("shl", shift(shl))
	def("sal", shift(shl))
	def("shr", shift(shiftForms{
		imm: map[int]opImmFn{8: (*asm).Shrb, 16: (*asm).Shrw, 32: (*asm).Shrl, 64: (*asm).Shrq},
		cl:  map[int]opFn{32: (*asm).ShrlCL, 64: (*asm).ShrqCL},
	}))
	def("sar", shift(shiftForms{
		imm: map[int]opImmFn{8: (*asm).Sarb, 16: (*asm).Sarw, 32: (*asm).Sarl, 64: (*asm).Sarq},
		cl:  map[int]opFn{32: (*asm).SarlCL, 64: (*asm).SarqCL},
	}))
	def("rol", shift(shiftForms{
		imm: map[int]opImmFn{32: (*asm).Roll, 64: (*asm).Rolq},
		cl:  map[int]opFn{32: (*asm).RollCL, 64: (*asm).RolqCL},
	}))
	def("ror", shift(shiftForms{
		imm: map[int]opImmFn{32: (*asm).Rorl, 64: (*asm).Rorq},
		cl:  map[int]opFn{32: (*asm).RorlCL, 64: (*asm).RorqCL},
	}))
	def("rcl", shift(shiftForms{
		imm: map[int]opImmFn{32: (*asm).Rcll, 64: (*asm).Rclq},
		cl:  map[int]opFn{64: (*asm).RclqCL},
	}))
	def("rcr", shift(shiftForms{
		imm: map[int]opImmFn{32: (*asm).Rcrl, 64: (*asm).Rcrq},
		cl:  map[int]opFn{64: (*asm).RcrqCL},
	}))
	def("shld", doubleShift(doubleShiftForms{
		imm: map[int]opRegImmFn{32: (*asm).Shldl, 64: (*asm).Shldq},
		cl:  map[int]opRegFn{64: (*asm).ShldqCL},
	}))
	def("shrd", doubleShift(doubleShiftForms{
		imm: map[int]opRegImmFn{32: (*asm).Shrdl, 64: (*asm).Shrdq},
		cl:  map[int]opRegFn{64: (*asm).ShrdqCL},
	}))

	def("imul", imul)
	def("lea", lea)
	def("movabs", movabs)
	def("xchg", xchg)
	def("movnti", movnti)
	def("bswap", bswap)
	def("rorx", rorx)
	def("movzx", extend(map[[2]int]regOpFn{
		{32, 8}:  (*asm).Movzbl, {64, 8}: (*asm).Movzbq,
		{32, 16}: (*asm).Movzwl, {64, 16}: (*asm).Movzwq,
	}))
	def("movsx", extend(map[[2]int]regOpFn{
		{32, 8}:  (*asm).Movsbl, {64, 8}: (*asm).Movsbq,
		{32, 16}: (*asm).Movswl, {64, 16}: (*asm).Movswq,
	}))
	def("movsxd", extend(map[[2]int]regOpFn{{64, 32}: (*asm).Movslq}))

	def("push", stack(true))
	def("pop", stack(false))
	def("jmp", jmp)
	def("call", call)
	def("ret", ret)

	for name, f := range map[string]func(*asm){
		"leave":      (*asm).Leave,
		"int3":       (*asm).Int3,
		"hlt":        (*asm).Hlt,
		"ud2":        (*asm).Ud2,
		"cpuid":      (*asm).Cpuid,
		"rdtsc":      (*asm).Rdtsc,
		"rdtscp":     (*asm).Rdtscp,
		"pause":      (*asm).Pause,
		"lfence":     (*asm).Lfence,
		"mfence":     (*asm).Mfence,
		"sfence":     (*asm).Sfence,
		"cdq":        (*asm).Cdql,
		"cqo":        (*asm).Cqo,
		"cwde":       (*asm).Cwde,
		"cdqe":       (*asm).Cdqe,
		"vzeroupper": (*asm).Vzeroupper,
		"rep movsb":  (*asm).RepMovsb,
		"rep movsq":  (*asm).RepMovsq,
		"rep stosb":  (*asm).RepStosb,
		"rep stosq":  (*asm).RepStosq,
	} {
		def(name, bare(f))
	}

	for name, f := range map[string]addrFn{
		"cmpxchg8b":  (*asm).Cmpxchg8b,
		"cmpxchg16b": (*asm).Cmpxchg16b,
		"clflush":    (*asm).Clflush,
		"clflushopt": (*asm).Clflushopt,
		"clwb":       (*asm).Clwb,
	} {
		def(name, memOnly(f))
	}
	def("prefetchnta", prefetch(x86.PrefetchNTA))
	def("prefetcht0", prefetch(x86.PrefetchT0))
	def("prefetcht1", prefetch(x86.PrefetchT1))
	def("prefetcht2", prefetch(x86.PrefetchT2))

	def("nop", nop)
	def("align", align)
	def("db", data(8))
	def("dd", data(32))
	def("dq", data(64))
}

func initSSE() {
	for name, f := range map[string]xmmFn{
		"addps":     (*asm).Addps, "addpd": (*asm).Addpd, "addss": (*asm).Addss, "addsd": (*asm).Addsd,
		"subps":     (*asm).Subps, "subpd": (*asm).Subpd, "subss": (*asm).Subss, "subsd": (*asm).Subsd,
		"mulps":     (*asm).Mulps, "mulpd": (*asm).Mulpd, "mulss": (*asm).Mulss, "mulsd": (*asm).Mulsd,
		"divps":     (*asm).Divps, "divpd": (*asm).Divpd, "divss": (*asm).Divss, "divsd": (*asm).Divsd,
		"minps":     (*asm).Minps, "minpd": (*asm).Minpd, "minss": (*asm).Minss, "minsd": (*asm).Minsd,
		"maxps":     (*asm).Maxps, "maxpd": (*asm).Maxpd, "maxss": (*asm).Maxss, "maxsd": (*asm).Maxsd,
		"sqrtps":    (*asm).Sqrtps, "sqrtpd": (*asm).Sqrtpd, "sqrtss": (*asm).Sqrtss, "sqrtsd": (*asm).Sqrtsd,
		"andps":     (*asm).Andps, "andpd": (*asm).Andpd, "andnps": (*asm).Andnps, "andnpd": (*asm).Andnpd,
		"orps":      (*asm).Orps, "orpd": (*asm).Orpd, "xorps": (*asm).Xorps, "xorpd": (*asm).Xorpd,
		"ucomiss":   (*asm).Ucomiss, "ucomisd": (*asm).Ucomisd, "comiss": (*asm).Comiss, "comisd": (*asm).Comisd,
		"cvtss2sd":  (*asm).Cvtss2sd, "cvtsd2ss": (*asm).Cvtsd2ss,
		"cvtdq2ps":  (*asm).Cvtdq2ps, "cvttps2dq": (*asm).Cvttps2dq, "cvtps2dq": (*asm).Cvtps2dq,
		"cvtdq2pd":  (*asm).Cvtdq2pd, "cvttpd2dq": (*asm).Cvttpd2dq,
		"cvtps2pd":  (*asm).Cvtps2pd, "cvtpd2ps": (*asm).Cvtpd2ps,
		"paddb":     (*asm).Paddb, "paddw": (*asm).Paddw, "paddd": (*asm).Paddd, "paddq": (*asm).Paddq,
		"psubb":     (*asm).Psubb, "psubw": (*asm).Psubw, "psubd": (*asm).Psubd, "psubq": (*asm).Psubq,
		"pmullw":    (*asm).Pmullw, "pmulld": (*asm).Pmulld, "pmuludq": (*asm).Pmuludq,
		"pand":      (*asm).Pand, "pandn": (*asm).Pandn, "por": (*asm).Por, "pxor": (*asm).Pxor,
		"pcmpeqb":   (*asm).Pcmpeqb, "pcmpeqw": (*asm).Pcmpeqw, "pcmpeqd": (*asm).Pcmpeqd, "pcmpeqq": (*asm).Pcmpeqq,
		"pcmpgtb":   (*asm).Pcmpgtb, "pcmpgtw": (*asm).Pcmpgtw, "pcmpgtd": (*asm).Pcmpgtd, "pcmpgtq": (*asm).Pcmpgtq,
		"pminsb":    (*asm).Pminsb, "pminsw": (*asm).Pminsw, "pminsd": (*asm).Pminsd,
		"pminub":    (*asm).Pminub, "pminuw": (*asm).Pminuw, "pminud": (*asm).Pminud,
		"pmaxsb":    (*asm).Pmaxsb, "pmaxsw": (*asm).Pmaxsw, "pmaxsd": (*asm).Pmaxsd,
		"pmaxub":    (*asm).Pmaxub, "pmaxuw": (*asm).Pmaxuw, "pmaxud": (*asm).Pmaxud,
		"pshufb":    (*asm).Pshufb, "pblendvb": (*asm).Pblendvb, "ptest": (*asm).Ptest,
		"punpcklbw": (*asm).Punpcklbw, "punpcklwd": (*asm).Punpcklwd,
		"punpckldq": (*asm).Punpckldq, "punpcklqdq": (*asm).Punpcklqdq,
		"punpckhbw": (*asm).Punpckhbw, "punpckhwd": (*asm).Punpckhwd,
		"punpckhdq": (*asm).Punpckhdq, "punpckhqdq": (*asm).Punpckhqdq,
	} {
		def(name, sse2(f))
	}

	for name, f := range map[string]xmmImmFn{
		"pshufd":  (*asm).Pshufd, "pshuflw": (*asm).Pshuflw, "pshufhw": (*asm).Pshufhw,
		"palignr": (*asm).Palignr, "shufps": (*asm).Shufps, "shufpd": (*asm).Shufpd,
		"pinsrb":  (*asm).Pinsrb, "pinsrw": (*asm).Pinsrw, "pinsrd": (*asm).Pinsrd, "pinsrq": (*asm).Pinsrq,
	} {
		def(name, sseImm(f))
	}

	def("psllw", sseShift((*asm).Psllw, (*asm).PsllwImm))
	def("pslld", sseShift((*asm).Pslld, (*asm).PslldImm))
	def("psllq", sseShift((*asm).Psllq, (*asm).PsllqImm))
	def("psrlw", sseShift((*asm).Psrlw, (*asm).PsrlwImm))
	def("psrld", sseShift((*asm).Psrld, (*asm).PsrldImm))
	def("psrlq", sseShift((*asm).Psrlq, (*asm).PsrlqImm))
	def("psraw", sseShift((*asm).Psraw, (*asm).PsrawImm))
	def("psrad", sseShift((*asm).Psrad, (*asm).PsradImm))
	def("pslldq", sseShift(nil, (*asm).Pslldq))
	def("psrldq", sseShift(nil, (*asm).Psrldq))

	for name, f := range map[string]opOpFn{
		"movaps": (*asm).Movaps, "movups": (*asm).Movups, "movapd": (*asm).Movapd, "movupd": (*asm).Movupd,
		"movdqa": (*asm).Movdqa, "movdqu": (*asm).Movdqu, "movss": (*asm).Movss, "movsd": (*asm).Movsd,
	} {
		def(name, sseMove(f))
	}
	def("movd", movd)
	def("movq", movq)

	def("cvtsi2ss", cvtFromGPR(map[int]xmmFn{32: (*asm).Cvtsi2ssl, 64: (*asm).Cvtsi2ssq}))
	def("cvtsi2sd", cvtFromGPR(map[int]xmmFn{32: (*asm).Cvtsi2sdl, 64: (*asm).Cvtsi2sdq}))
	def("cvttss2si", cvtToGPR(map[int]regOpFn{32: (*asm).Cvttss2sil, 64: (*asm).Cvttss2siq}))
	def("cvttsd2si", cvtToGPR(map[int]regOpFn{32: (*asm).Cvttsd2sil, 64: (*asm).Cvttsd2siq}))

	def("roundss", sseRound((*asm).Roundss))
	def("roundsd", sseRound((*asm).Roundsd))
	def("cmpps", sseCmp((*asm).Cmpps))
	def("cmppd", sseCmp((*asm).Cmppd))
	def("pextrb", pextr((*asm).Pextrb))
	def("pextrd", pextr((*asm).Pextrd))
	def("pextrq", pextr((*asm).Pextrq))
	def("pextrw", pextrw)
	def("pmovmskb", movemask)
}

func initAVX() {
	for name, f := range map[string]vex3Fn{
		"vsubps":       (*asm).Vsubps, "vsubpd": (*asm).Vsubpd, "vmulpd": (*asm).Vmulpd,
		"vdivps":       (*asm).Vdivps, "vdivpd": (*asm).Vdivpd, "vminps": (*asm).Vminps, "vmaxps": (*asm).Vmaxps,
		"vandps":       (*asm).Vandps, "vxorps": (*asm).Vxorps, "vxorpd": (*asm).Vxorpd,
		"vpaddw":       (*asm).Vpaddw, "vpsubd": (*asm).Vpsubd, "vpsubq": (*asm).Vpsubq, "vpmulld": (*asm).Vpmulld,
		"vpand":        (*asm).Vpand, "vpor": (*asm).Vpor, "vpxor": (*asm).Vpxor, "vpcmpgtd": (*asm).Vpcmpgtd,
		"vpshufb":      (*asm).Vpshufb, "vpermd": (*asm).Vpermd,
		"vpsllvd":      (*asm).Vpsllvd, "vpsllvq": (*asm).Vpsllvq, "vpsrlvd": (*asm).Vpsrlvd,
		"vpsrlvq":      (*asm).Vpsrlvq, "vpsravd": (*asm).Vpsravd,
		"vfmadd231ps":  (*asm).Vfmadd231ps, "vfmadd231pd": (*asm).Vfmadd231pd,
		"vfmsub231ps":  (*asm).Vfmsub231ps, "vfmsub231pd": (*asm).Vfmsub231pd,
		"vfnmadd231ps": (*asm).Vfnmadd231ps, "vfnmadd231pd": (*asm).Vfnmadd231pd,
	} {
		def(name, vecBinary{vex: f}.handle)
	}
	for name, f := range map[string]scalar3Fn{
		"vaddss":       (*asm).Vaddss,
		"vfmadd231ss":  (*asm).Vfmadd231ss,
		"vfmadd231sd":  (*asm).Vfmadd231sd,
		"vfmsub231ss":  (*asm).Vfmsub231ss,
		"vfmsub231sd":  (*asm).Vfmsub231sd,
		"vfnmadd231ss": (*asm).Vfnmadd231ss,
		"vfnmadd231sd": (*asm).Vfnmadd231sd,
	} {
		def(name, vecBinary{scalar: f}.handle)
	}
	def("vaddsd", vecBinary{scalar: (*asm).Vaddsd, round: (*asm).VaddsdRound}.handle)

	for name, f := range map[string]vex2Fn{
		"vsqrtps":   (*asm).Vsqrtps, "vsqrtpd": (*asm).Vsqrtpd,
		"vcvtdq2ps": (*asm).Vcvtdq2ps, "vcvttps2dq": (*asm).Vcvttps2dq,
		"vptest":    (*asm).Vptest, "vbroadcastss": (*asm).Vbroadcastss, "vbroadcastsd": (*asm).Vbroadcastsd,
	} {
		def(name, vecUnary{vex: f}.handle)
	}
	def("vpbroadcastb", vpbroadcast((*asm).Vpbroadcastb, (*asm).Evpbroadcastb))
	def("vpbroadcastw", vpbroadcast((*asm).Vpbroadcastw, (*asm).Evpbroadcastw))
	def("vpbroadcastd", vpbroadcast((*asm).Vpbroadcastd, (*asm).Evpbroadcastd))
	def("vpbroadcastq", vpbroadcast((*asm).Vpbroadcastq, (*asm).Evpbroadcastq))
	for _, name := range []string{"vpbroadcastb", "vpbroadcastw", "vpbroadcastd", "vpbroadcastq"} {
		decorated[name] = true
	}

	def("vpshufd", vecImm((*asm).Vpshufd))
	def("vpermq", vecImm((*asm).Vpermq))
	for name, f := range map[string]vex3ImmFn{
		"vpalignr":   (*asm).Vpalignr, "vpblendd": (*asm).Vpblendd, "vshufps": (*asm).Vshufps,
		"valignd":    (*asm).Valignd, "valignq": (*asm).Valignq,
		"vpternlogd": (*asm).Vpternlogd, "vpternlogq": (*asm).Vpternlogq,
	} {
		def(name, vec3Imm(f))
	}
	for name, f := range map[string]lane3Fn{
		"vinserti128": (*asm).Vinserti128, "vinsertf128": (*asm).Vinsertf128,
		"vperm2i128":  (*asm).Vperm2i128, "vperm2f128": (*asm).Vperm2f128,
	} {
		def(name, lane3(f))
	}
	def("vextracti128", extract128((*asm).Vextracti128))
	def("vextractf128", extract128((*asm).Vextractf128))
	def("vroundps", vecRound((*asm).Vroundps))
	def("vroundpd", vecRound((*asm).Vroundpd))
	def("vcmpps", vecCmp((*asm).Vcmpps))
	def("vcmppd", vecCmp((*asm).Vcmppd))
	def("vblendvps", blendv((*asm).Vblendvps))
	def("vblendvpd", blendv((*asm).Vblendvpd))
	def("vpblendvb", blendv((*asm).Vpblendvb))
	def("vpmovmskb", movemask)

	def("vpslld", vecShift((*asm).Vpslld, (*asm).VpslldImm))
	def("vpsllq", vecShift(nil, (*asm).VpsllqImm))
	def("vpsrld", vecShift(nil, (*asm).VpsrldImm))
	def("vpsrlq", vecShift(nil, (*asm).VpsrlqImm))
	def("vpsrad", vecShift(nil, (*asm).VpsradImm))

	def("vmovdqu", vmov((*asm).Vmovdqu))
	def("vmovups", vmov((*asm).Vmovups))

	gathers := map[string]struct {
		vex  vexGatherFn
		evex evGatherFn
	}{
		"vpgatherdd": {(*asm).Vpgatherdd, (*asm).Evpgatherdd},
		"vpgatherdq": {(*asm).Vpgatherdq, (*asm).Evpgatherdq},
		"vpgatherqd": {(*asm).Vpgatherqd, (*asm).Evpgatherqd},
		"vpgatherqq": {(*asm).Vpgatherqq, (*asm).Evpgatherqq},
		"vgatherdps": {(*asm).Vgatherdps, (*asm).Evgatherdps},
		"vgatherdpd": {(*asm).Vgatherdpd, (*asm).Evgatherdpd},
		"vgatherqps": {(*asm).Vgatherqps, (*asm).Evgatherqps},
		"vgatherqpd": {(*asm).Vgatherqpd, (*asm).Evgatherqpd},
	}
	for name, g := range gathers {
		defEvex(name, gather(g.vex, g.evex))
	}
}

func initAVX512() {
	// Mnemonics with both a VEX and a masked EVEX form.
	for name, v := range map[string]vecBinary{
		"vaddps":  {vex: (*asm).Vaddps, evex: (*asm).Evaddps, round: (*asm).VaddpsRound},
		"vaddpd":  {vex: (*asm).Vaddpd, evex: (*asm).Evaddpd, round: (*asm).VaddpdRound},
		"vmulps":  {vex: (*asm).Vmulps, evex: (*asm).Evmulps},
		"vpaddb":  {vex: (*asm).Vpaddb, evex: (*asm).Evpaddb},
		"vpaddd":  {vex: (*asm).Vpaddd, evex: (*asm).Evpaddd},
		"vpaddq":  {vex: (*asm).Vpaddq, evex: (*asm).Evpaddq},
		"vpminsd": {vex: (*asm).Vpminsd, evex: (*asm).Evpminsd},
		"vpmaxsd": {vex: (*asm).Vpmaxsd, evex: (*asm).Evpmaxsd},
	} {
		defEvex(name, v.handle)
	}
	for name, f := range map[string]evex3Fn{
		"vpermi2b": (*asm).Evpermi2b, "vpermi2w": (*asm).Evpermi2w, "vpermi2d": (*asm).Evpermi2d,
		"vpermi2q": (*asm).Evpermi2q, "vpermi2ps": (*asm).Evpermi2ps, "vpermi2pd": (*asm).Evpermi2pd,
		"vpermt2b": (*asm).Evpermt2b, "vpermt2w": (*asm).Evpermt2w,
		"vpermt2d": (*asm).Evpermt2d, "vpermt2q": (*asm).Evpermt2q,
		"vpxord":   (*asm).Evpxord, "vpxorq": (*asm).Evpxorq, "vpandd": (*asm).Evpandd,
		"vpandq":   (*asm).Evpandq, "vpord": (*asm).Evpord, "vporq": (*asm).Evporq,
		"vpmullq":  (*asm).Evpmullq,
	} {
		defEvex(name, vecBinary{evex: f}.handle)
	}
	for name, f := range map[string]evex2Fn{
		"vpexpandd": (*asm).Evpexpandd, "vpexpandq": (*asm).Evpexpandq, "vpabsq": (*asm).Evpabsq,
		"vpopcntd":  (*asm).Evpopcntd, "vpopcntq": (*asm).Evpopcntq,
		"vplzcntd":  (*asm).Evplzcntd, "vplzcntq": (*asm).Evplzcntq,
	} {
		defEvex(name, vecUnary{evex: f}.handle)
	}
	defEvex("vpsraq", vpsraq)

	for name, f := range map[string]evexMoveFn{
		"vmovdqu8":  (*asm).Evmovdqub,
		"vmovdqu16": (*asm).Evmovdquw,
		"vmovdqu32": (*asm).Evmovdqul,
		"vmovdqu64": (*asm).Evmovdquq,
	} {
		defEvex(name, evmov(f))
	}

	for name, f := range map[string]evexCmpFn{
		"vpcmpb":  (*asm).Evpcmpb, "vpcmpw": (*asm).Evpcmpw, "vpcmpd": (*asm).Evpcmpd, "vpcmpq": (*asm).Evpcmpq,
		"vpcmpub": (*asm).Evpcmpub, "vpcmpuw": (*asm).Evpcmpuw, "vpcmpud": (*asm).Evpcmpud, "vpcmpuq": (*asm).Evpcmpuq,
	} {
		defEvex(name, evpcmp(f))
	}
	defEvex("vpcmpeqb", pcmpeq((*asm).Vpcmpeqb, (*asm).Evpcmpeqb))
	defEvex("vpcmpeqw", pcmpeq(nil, (*asm).Evpcmpeqw))
	defEvex("vpcmpeqd", pcmpeq((*asm).Vpcmpeqd, (*asm).Evpcmpeqd))
	defEvex("vpcmpeqq", pcmpeq(nil, (*asm).Evpcmpeqq))

	defEvex("vpcompressd", compress((*asm).Evpcompressd))
	defEvex("vpcompressq", compress((*asm).Evpcompressq))
	for name, f := range map[string]evexDownFn{
		"vpmovqd": (*asm).Evpmovqd, "vpmovqw": (*asm).Evpmovqw, "vpmovqb": (*asm).Evpmovqb,
		"vpmovdw": (*asm).Evpmovdw, "vpmovdb": (*asm).Evpmovdb, "vpmovwb": (*asm).Evpmovwb,
	} {
		defEvex(name, downConvert(f))
	}
	def("vpmovm2b", maskToVec((*asm).Vpmovm2b))
	def("vpmovm2w", maskToVec((*asm).Vpmovm2w))
	def("vpmovm2d", maskToVec((*asm).Vpmovm2d))
	def("vpmovm2q", maskToVec((*asm).Vpmovm2q))
	def("vpmovb2m", vecToMask((*asm).Vpmovb2m))
	def("vpmovw2m", vecToMask((*asm).Vpmovw2m))
	def("vpmovd2m", vecToMask((*asm).Vpmovd2m))
	def("vpmovq2m", vecToMask((*asm).Vpmovq2m))

	scatters := map[string]scatterFn{
		"vpscatterdd": (*asm).Evpscatterdd, "vpscatterdq": (*asm).Evpscatterdq,
		"vpscatterqd": (*asm).Evpscatterqd, "vpscatterqq": (*asm).Evpscatterqq,
		"vscatterdps": (*asm).Evscatterdps, "vscatterdpd": (*asm).Evscatterdpd,
		"vscatterqps": (*asm).Evscatterqps, "vscatterqpd": (*asm).Evscatterqpd,
	}
	for name, f := range scatters {
		defEvex(name, scatter(f))
	}

	for _, w := range []struct {
		suffix                        string
		mov                           opOpFn
		and, andn, or, xor, xnor, add k3Fn
		not, ortest, test             k2Fn
		shiftl, shiftr                kShiftFn
	}{
		{"b", (*asm).Kmovb, (*asm).Kandb, (*asm).Kandnb, (*asm).Korb, (*asm).Kxorb, (*asm).Kxnorb, (*asm).Kaddb,
			(*asm).Knotb, (*asm).Kortestb, (*asm).Ktestb, (*asm).Kshiftlb, (*asm).Kshiftrb},
		{"w", (*asm).Kmovw, (*asm).Kandw, (*asm).Kandnw, (*asm).Korw, (*asm).Kxorw, (*asm).Kxnorw, (*asm).Kaddw,
			(*asm).Knotw, (*asm).Kortestw, (*asm).Ktestw, (*asm).Kshiftlw, (*asm).Kshiftrw},
		{"d", (*asm).Kmovd, (*asm).Kandd, (*asm).Kandnd, (*asm).Kord, (*asm).Kxord, (*asm).Kxnord, (*asm).Kaddd,
			(*asm).Knotd, (*asm).Kortestd, (*asm).Ktestd, (*asm).Kshiftld, (*asm).Kshiftrd},
		{"q", (*asm).Kmovq, (*asm).Kandq, (*asm).Kandnq, (*asm).Korq, (*asm).Kxorq, (*asm).Kxnorq, (*asm).Kaddq,
			(*asm).Knotq, (*asm).Kortestq, (*asm).Ktestq, (*asm).Kshiftlq, (*asm).Kshiftrq},
	} {
		def("kmov"+w.suffix, kmov(w.mov))
		def("kand"+w.suffix, k3(w.and))
		def("kandn"+w.suffix, k3(w.andn))
		def("kor"+w.suffix, k3(w.or))
		def("kxor"+w.suffix, k3(w.xor))
		def("kxnor"+w.suffix, k3(w.xnor))
		def("kadd"+w.suffix, k3(w.add))
		def("knot"+w.suffix, k2(w.not))
		def("kortest"+w.suffix, k2(w.ortest))
		def("ktest"+w.suffix, k2(w.test))
		def("kshiftl"+w.suffix, kshift(w.shiftl))
		def("kshiftr"+w.suffix, kshift(w.shiftr))
	}
}
