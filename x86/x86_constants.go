package x86

// ================================================================================================
// X86 Instruction Constants
// ================================================================================================

// REX Prefix Constants
const (
	X86_REX_BASE = 0x40 // Base value for REX prefix
	X86_REX_W    = 0x08 // REX.W - 64-bit operand size
	X86_REX_R    = 0x04 // REX.R - Extension of ModRM reg field
	X86_REX_X    = 0x02 // REX.X - Extension of SIB index field
	X86_REX_B    = 0x01 // REX.B - Extension of ModRM r/m, SIB base, or opcode reg field
)

// ModRM Mode Constants
const (
	X86_MOD_INDIRECT        = 0x00 // [reg] or [disp32]
	X86_MOD_INDIRECT_DISP8  = 0x01 // [reg + disp8]
	X86_MOD_INDIRECT_DISP32 = 0x02 // [reg + disp32]
	X86_MOD_REGISTER        = 0x03 // reg
)

// SIB (Scale-Index-Base) Constants
const (
	X86_SIB_NO_INDEX  = 0x04 // No index register (ESP/RSP encoding)
	X86_SIB_INDICATOR = 0x04 // rm=4 indicates SIB byte follows
	X86_RM_RIP        = 0x05 // mod=00 rm=5 is RIP-relative
	X86_SIB_NO_BASE   = 0x05 // mod=00 base=5 is disp32 without base
)

// Prefixes
const (
	X86_PREFIX_LOCK  = 0xF0 // LOCK prefix
	X86_PREFIX_REPNE = 0xF2 // REPNE/REPNZ prefix
	X86_PREFIX_REP   = 0xF3 // REP/REPE/REPZ prefix
	X86_PREFIX_0F    = 0x0F // Two-byte opcode prefix
	X86_PREFIX_66    = 0x66 // Operand-size override prefix
	X86_ESCAPE_38    = 0x38 // Three-byte opcode map 0F 38
	X86_ESCAPE_3A    = 0x3A // Three-byte opcode map 0F 3A
)

// VEX/EVEX Prefix Constants
const (
	X86_VEX_2BYTE = 0xC5
	X86_VEX_3BYTE = 0xC4
	X86_EVEX      = 0x62

	X86_VEX_R = 0x80 // inverted in the encoding
	X86_VEX_X = 0x40
	X86_VEX_B = 0x20
	X86_VEX_W = 0x80
	X86_VEX_L = 0x04

	X86_EVEX_RP = 0x10 // R' in P0, inverted
	X86_EVEX_Z  = 0x80 // zeroing in P2
	X86_EVEX_B  = 0x10 // broadcast / rounding in P2
	X86_EVEX_VP = 0x08 // V' in P2, inverted
)

// Primary Opcodes
const (
	X86_OP_PUSH_R         = 0x50 // PUSH r64 (+ reg)
	X86_OP_POP_R          = 0x58 // POP r64 (+ reg)
	X86_OP_MOVSXD         = 0x63 // MOVSXD r64, r/m32
	X86_OP_PUSH_IMM32     = 0x68 // PUSH imm32
	X86_OP_IMUL_R_RM_IMM  = 0x69 // IMUL r, r/m, imm32
	X86_OP_PUSH_IMM8      = 0x6A // PUSH imm8
	X86_OP_IMUL_R_RM_IMM8 = 0x6B // IMUL r, r/m, imm8
	X86_OP_JCC_REL8       = 0x70 // Jcc rel8 (+ cc)
	X86_OP_GROUP1_RM8_IMM = 0x80 // Group 1 r/m8, imm8
	X86_OP_GROUP1_RM_IMM  = 0x81 // Group 1 r/m, imm32
	X86_OP_GROUP1_RM_IMM8 = 0x83 // Group 1 r/m, imm8 sign-extended
	X86_OP_TEST_RM8_R8    = 0x84 // TEST r/m8, r8
	X86_OP_TEST_RM_R      = 0x85 // TEST r/m, r
	X86_OP_XCHG_RM8_R8    = 0x86 // XCHG r/m8, r8
	X86_OP_XCHG_RM_R      = 0x87 // XCHG r/m, r
	X86_OP_MOV_RM8_R8     = 0x88 // MOV r/m8, r8
	X86_OP_MOV_RM_R       = 0x89 // MOV r/m, r
	X86_OP_MOV_R8_RM8     = 0x8A // MOV r8, r/m8
	X86_OP_MOV_R_RM       = 0x8B // MOV r, r/m
	X86_OP_LEA            = 0x8D // LEA r, m
	X86_OP_POP_RM         = 0x8F // POP r/m64
	X86_OP_NOP            = 0x90 // NOP
	X86_OP_CWDE           = 0x98 // CWDE / CDQE with REX.W
	X86_OP_CDQ            = 0x99 // CDQ / CQO with REX.W
	X86_OP_MOVS_B         = 0xA4 // MOVSB
	X86_OP_MOVS           = 0xA5 // MOVSD / MOVSQ
	X86_OP_TEST_AL_IMM8   = 0xA8 // TEST AL, imm8
	X86_OP_TEST_AX_IMM    = 0xA9 // TEST eAX, imm32
	X86_OP_STOS_B         = 0xAA // STOSB
	X86_OP_STOS           = 0xAB // STOSD / STOSQ
	X86_OP_MOV_R8_IMM     = 0xB0 // MOV r8, imm8 (+ reg)
	X86_OP_MOV_R_IMM      = 0xB8 // MOV r, imm (+ reg)
	X86_OP_GROUP2_RM8_IMM = 0xC0 // Group 2 r/m8, imm8
	X86_OP_GROUP2_RM_IMM8 = 0xC1 // Group 2 shift operations with imm8
	X86_OP_RET_IMM16      = 0xC2 // RET imm16
	X86_OP_RET            = 0xC3 // RET
	X86_OP_MOV_RM8_IMM8   = 0xC6 // MOV r/m8, imm8
	X86_OP_MOV_RM_IMM     = 0xC7 // MOV r/m, imm32
	X86_OP_LEAVE          = 0xC9 // LEAVE
	X86_OP_INT3           = 0xCC // INT3
	X86_OP_GROUP2_RM8_1   = 0xD0 // Group 2 r/m8 by 1
	X86_OP_GROUP2_RM_1    = 0xD1 // Group 2 shift operations by 1
	X86_OP_GROUP2_RM8_CL  = 0xD2 // Group 2 r/m8 by CL
	X86_OP_GROUP2_RM_CL   = 0xD3 // Group 2 shift operations by CL
	X86_OP_CALL_REL32     = 0xE8 // CALL rel32
	X86_OP_JMP_REL32      = 0xE9 // JMP rel32
	X86_OP_JMP_REL8       = 0xEB // JMP rel8
	X86_OP_HLT            = 0xF4 // HLT
	X86_OP_GROUP3_RM8     = 0xF6 // Group 3 unary operations on r/m8
	X86_OP_GROUP3_RM      = 0xF7 // Group 3 unary operations
	X86_OP_GROUP4_RM8     = 0xFE // INC/DEC r/m8
	X86_OP_GROUP5_RM      = 0xFF // Group 5 operations (INC, DEC, CALL, JMP, PUSH)
)

// Two-byte Opcodes (0x0F prefix)
const (
	X86_OP2_UD2        = 0x0B // UD2
	X86_OP2_PREFETCH   = 0x18 // PREFETCHh m8
	X86_OP2_NOP_RM     = 0x1F // NOP r/m (multi-byte nop)
	X86_OP2_RDTSC      = 0x31 // RDTSC
	X86_OP2_CMOVCC     = 0x40 // CMOVcc r, r/m (+ cc)
	X86_OP2_JCC_REL32  = 0x80 // Jcc rel32 (+ cc)
	X86_OP2_SETCC      = 0x90 // SETcc r/m8 (+ cc)
	X86_OP2_CPUID      = 0xA2 // CPUID
	X86_OP2_BT         = 0xA3 // BT r/m, r
	X86_OP2_SHLD       = 0xA4 // SHLD r/m, r, imm8
	X86_OP2_SHLD_CL    = 0xA5 // SHLD r/m, r, CL
	X86_OP2_BTS        = 0xAB // BTS r/m, r
	X86_OP2_SHRD       = 0xAC // SHRD r/m, r, imm8
	X86_OP2_SHRD_CL    = 0xAD // SHRD r/m, r, CL
	X86_OP2_FENCE      = 0xAE // LFENCE/MFENCE/SFENCE/CLFLUSH group
	X86_OP2_IMUL_R_RM  = 0xAF // IMUL r, r/m
	X86_OP2_CMPXCHG8   = 0xB0 // CMPXCHG r/m8, r8
	X86_OP2_CMPXCHG    = 0xB1 // CMPXCHG r/m, r
	X86_OP2_BTR        = 0xB3 // BTR r/m, r
	X86_OP2_MOVZX_RM8  = 0xB6 // MOVZX r, r/m8
	X86_OP2_MOVZX_RM16 = 0xB7 // MOVZX r, r/m16
	X86_OP2_POPCNT     = 0xB8 // POPCNT r, r/m (F3)
	X86_OP2_BT_IMM     = 0xBA // BT/BTS/BTR/BTC r/m, imm8
	X86_OP2_BTC        = 0xBB // BTC r/m, r
	X86_OP2_BSF        = 0xBC // BSF r, r/m (TZCNT with F3)
	X86_OP2_BSR        = 0xBD // BSR r, r/m (LZCNT with F3)
	X86_OP2_MOVSX_RM8  = 0xBE // MOVSX r, r/m8
	X86_OP2_MOVSX_RM16 = 0xBF // MOVSX r, r/m16
	X86_OP2_XADD8      = 0xC0 // XADD r/m8, r8
	X86_OP2_XADD       = 0xC1 // XADD r/m, r
	X86_OP2_MOVNTI     = 0xC3 // MOVNTI m, r
	X86_OP2_CMPXCHGB   = 0xC7 // CMPXCHG8B/16B m (/1)
	X86_OP2_BSWAP      = 0xC8 // BSWAP r32/r64 (+ reg)
)

// Three-byte Opcodes
const (
	X86_OP3_MOVBE_LOAD  = 0xF0 // MOVBE r, m (0F 38)
	X86_OP3_MOVBE_STORE = 0xF1 // MOVBE m, r (0F 38)
	X86_OP3_ADX         = 0xF6 // ADCX (66) / ADOX (F3) (0F 38)
)

// ModRM reg field constants for opcodes with sub-operations
const (
	X86_REG_ADD = 0 // ADD (for 0x83 opcode)
	X86_REG_OR  = 1 // OR  (for 0x83 opcode)
	X86_REG_ADC = 2 // ADC (for 0x83 opcode)
	X86_REG_SBB = 3 // SBB (for 0x83 opcode)
	X86_REG_AND = 4 // AND (for 0x83 opcode)
	X86_REG_SUB = 5 // SUB (for 0x83 opcode)
	X86_REG_XOR = 6 // XOR (for 0x83 opcode)
	X86_REG_CMP = 7 // CMP (for 0x83 opcode)
)

// Unary operation reg field constants (for 0xF7 opcode)
const (
	X86_REG_TEST = 0 // TEST (for 0xF7 opcode)
	X86_REG_NOT  = 2 // NOT  (for 0xF7 opcode)
	X86_REG_NEG  = 3 // NEG  (for 0xF7 opcode)
	X86_REG_MUL  = 4 // MUL  (for 0xF7 opcode)
	X86_REG_IMUL = 5 // IMUL (for 0xF7 opcode)
	X86_REG_DIV  = 6 // DIV  (for 0xF7 opcode)
	X86_REG_IDIV = 7 // IDIV (for 0xF7 opcode)
)

// Shift operation reg field constants (for 0xC1/0xD1/0xD3 opcodes)
const (
	X86_REG_ROL = 0 // ROL
	X86_REG_ROR = 1 // ROR
	X86_REG_RCL = 2 // RCL
	X86_REG_RCR = 3 // RCR
	X86_REG_SHL = 4 // SHL/SAL
	X86_REG_SHR = 5 // SHR
	X86_REG_SAR = 7 // SAR
)

// Group 5 reg field constants (for 0xFF opcode)
const (
	X86_REG_INC     = 0 // INC r/m
	X86_REG_DEC     = 1 // DEC r/m
	X86_REG_CALL_RM = 2 // CALL r/m
	X86_REG_JMP_RM  = 4 // JMP r/m
	X86_REG_PUSH_RM = 6 // PUSH r/m
)

// Bit test reg field constants (for 0x0F 0xBA opcode)
const (
	X86_REG_BT  = 4
	X86_REG_BTS = 5
	X86_REG_BTR = 6
	X86_REG_BTC = 7
)

// 0x0F 0xAE group
const (
	X86_REG_CLWB     = 6 // CLWB m8 (66)
	X86_REG_CLFLUSH  = 7 // CLFLUSH / CLFLUSHOPT (66)
	X86_MODRM_LFENCE = 0xE8
	X86_MODRM_MFENCE = 0xF0
	X86_MODRM_SFENCE = 0xF8
)

// Special immediate values
const (
	X86_SHIFT_MASK_32 = 0x1F // 32-bit shift count range
	X86_SHIFT_MASK_64 = 0x3F // 64-bit shift count range
)

// Common register combinations
const (
	X86_RSP_REGBITS = 0x04 // RSP/ESP/R12 low register bits
	X86_RBP_REGBITS = 0x05 // RBP/EBP/R13 low register bits
)
