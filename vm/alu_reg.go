package vm

import "github.com/rv64emu/rv64emu/trap"

// execOp dispatches the OP opcode (0x33): the register-register integer ALU
// plus the M-extension multiply/divide family, distinguished by funct7. A
// funct7 of 0000001 selects M-extension semantics (MUL/DIVU/...); 0000000
// (or 0100000 for SUB/SRA) selects the base integer ops.
func execOp(c *CPU, d Decoded) {
	rs1, rs2 := c.X[d.Rs1], c.X[d.Rs2]

	if d.Funct7 == 0b0000001 {
		execMulDiv(c, d, rs1, rs2)
		return
	}

	var result uint64
	switch d.Funct3 {
	case 0b000:
		if d.Funct7 == 0b0100000 {
			result = rs1 - rs2 // SUB
		} else {
			result = rs1 + rs2 // ADD
		}
	case 0b001: // SLL
		result = rs1 << (rs2 & 0x3f)
	case 0b010: // SLT
		result = boolToWord(AsInt64(rs1) < AsInt64(rs2))
	case 0b011: // SLTU
		result = boolToWord(rs1 < rs2)
	case 0b100: // XOR
		result = rs1 ^ rs2
	case 0b101:
		if d.Funct7 == 0b0100000 {
			result = AsUint64(AsInt64(rs1) >> (rs2 & 0x3f)) // SRA
		} else {
			result = rs1 >> (rs2 & 0x3f) // SRL
		}
	case 0b110: // OR
		result = rs1 | rs2
	case 0b111: // AND
		result = rs1 & rs2
	}
	c.X[d.Rd] = result
}

// execMulDiv implements the RV64M register-register ops: MUL, MULH, MULHSU,
// MULHU, DIV, DIVU, REM, REMU. Division and remainder by zero do not trap;
// they follow the RISC-V convention (quotient all-ones, remainder = dividend).
func execMulDiv(c *CPU, d Decoded, rs1, rs2 uint64) {
	var result uint64
	switch d.Funct3 {
	case 0b000: // MUL
		result = rs1 * rs2
	case 0b001: // MULH
		result = uint64(mulHighSigned(AsInt64(rs1), AsInt64(rs2)))
	case 0b010: // MULHSU
		result = uint64(mulHighSignedUnsigned(AsInt64(rs1), rs2))
	case 0b011: // MULHU
		result = mulHighUnsigned(rs1, rs2)
	case 0b100: // DIV
		if rs2 == 0 {
			result = ^uint64(0)
		} else if AsInt64(rs1) == -1<<63 && AsInt64(rs2) == -1 {
			result = rs1
		} else {
			result = AsUint64(AsInt64(rs1) / AsInt64(rs2))
		}
	case 0b101: // DIVU
		if rs2 == 0 {
			result = ^uint64(0)
		} else {
			result = rs1 / rs2
		}
	case 0b110: // REM
		if rs2 == 0 {
			result = rs1
		} else if AsInt64(rs1) == -1<<63 && AsInt64(rs2) == -1 {
			result = 0
		} else {
			result = AsUint64(AsInt64(rs1) % AsInt64(rs2))
		}
	case 0b111: // REMU
		if rs2 == 0 {
			result = rs1
		} else {
			result = rs1 % rs2
		}
	}
	c.X[d.Rd] = result
}

// execOp32 dispatches the OP-32 opcode (0x3B): the word-width base ops
// (ADDW/SUBW/SLLW/SRLW/SRAW) and the word-width M-extension ops (MULW,
// DIVW, DIVUW, REMW, REMUW), operating on the low 32 bits of each operand
// and sign-extending the 32-bit result. An unhandled funct3 raises
// IllegalInstruction rather than committing a zero result.
func execOp32(c *CPU, d Decoded) *trap.Exception {
	rs1, rs2 := uint32(c.X[d.Rs1]), uint32(c.X[d.Rs2])

	if d.Funct7 == 0b0000001 {
		var result uint32
		switch d.Funct3 {
		case 0b000: // MULW
			result = rs1 * rs2
		case 0b100: // DIVW
			if rs2 == 0 {
				result = ^uint32(0)
			} else if int32(rs1) == -1<<31 && int32(rs2) == -1 {
				result = rs1
			} else {
				result = uint32(int32(rs1) / int32(rs2))
			}
		case 0b101: // DIVUW
			if rs2 == 0 {
				result = ^uint32(0)
			} else {
				result = rs1 / rs2
			}
		case 0b110: // REMW
			if rs2 == 0 {
				result = rs1
			} else if int32(rs1) == -1<<31 && int32(rs2) == -1 {
				result = 0
			} else {
				result = uint32(int32(rs1) % int32(rs2))
			}
		case 0b111: // REMUW
			if rs2 == 0 {
				result = rs1
			} else {
				result = rs1 % rs2
			}
		default:
			return excPtr(trap.IllegalInstruction)
		}
		c.X[d.Rd] = SignExtend32(uint64(result))
		return nil
	}

	var result uint32
	switch d.Funct3 {
	case 0b000:
		if d.Funct7 == 0b0100000 {
			result = rs1 - rs2 // SUBW
		} else {
			result = rs1 + rs2 // ADDW
		}
	case 0b001: // SLLW
		result = rs1 << (rs2 & 0x1f)
	case 0b101:
		if d.Funct7 == 0b0100000 {
			result = uint32(int32(rs1) >> (rs2 & 0x1f)) // SRAW
		} else {
			result = rs1 >> (rs2 & 0x1f) // SRLW
		}
	default:
		return excPtr(trap.IllegalInstruction)
	}
	c.X[d.Rd] = SignExtend32(uint64(result))
	return nil
}

func mulHighSigned(a, b int64) int64 {
	hi, _ := bitsMulSigned(a, b)
	return hi
}

func mulHighSignedUnsigned(a int64, b uint64) int64 {
	neg := a < 0
	ua := uint64(a)
	if neg {
		ua = -ua
	}
	hi, lo := bitsMulUnsigned(ua, b)
	if neg {
		hi = ^hi
		if lo == 0 {
			hi++
		}
	}
	return int64(hi)
}

func mulHighUnsigned(a, b uint64) uint64 {
	hi, _ := bitsMulUnsigned(a, b)
	return hi
}

// bitsMulUnsigned computes the full 128-bit product of two uint64 operands
// using 32-bit partial products, returning (high, low) 64-bit halves.
func bitsMulUnsigned(a, b uint64) (hi, lo uint64) {
	const mask32 = 0xffff_ffff
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t0 := aLo * bLo
	t1 := aHi*bLo + t0>>32
	t2 := aLo*bHi + t1&mask32
	loResult := (t2 << 32) | (t0 & mask32)
	hiResult := aHi*bHi + t1>>32 + t2>>32
	return hiResult, loResult
}

func bitsMulSigned(a, b int64) (hi, lo int64) {
	ua, ub := uint64(a), uint64(b)
	uhi, ulo := bitsMulUnsigned(ua, ub)
	if a < 0 {
		uhi -= ub
	}
	if b < 0 {
		uhi -= ua
	}
	return int64(uhi), int64(ulo)
}
