package vm

import "github.com/rv64emu/rv64emu/trap"

// execOpImm dispatches the OP-IMM opcode (0x13): ADDI, SLTI, SLTIU, XORI,
// ORI, ANDI, SLLI, SRLI, SRAI. The shift amount is the low 6 bits of the
// immediate field (RV64 shifts by up to 63); SRLI and SRAI share funct3=101
// and are distinguished by bit 30 of the instruction (here, funct7>>5&1).
func execOpImm(c *CPU, d Decoded) {
	rs1 := c.X[d.Rs1]
	imm := d.immI()

	var result uint64
	switch d.Funct3 {
	case 0b000: // ADDI
		result = rs1 + imm
	case 0b010: // SLTI
		result = boolToWord(AsInt64(rs1) < AsInt64(imm))
	case 0b011: // SLTIU
		result = boolToWord(rs1 < imm)
	case 0b100: // XORI
		result = rs1 ^ imm
	case 0b110: // ORI
		result = rs1 | imm
	case 0b111: // ANDI
		result = rs1 & imm
	case 0b001: // SLLI
		result = rs1 << d.shamt6()
	case 0b101:
		if (d.Funct7>>5)&1 == 1 { // SRAI
			result = AsUint64(AsInt64(rs1) >> d.shamt6())
		} else { // SRLI
			result = rs1 >> d.shamt6()
		}
	}
	c.X[d.Rd] = result
}

// execOpImm32 dispatches the OP-IMM-32 opcode (0x1B): ADDIW, SLLIW, SRLIW,
// SRAIW. These operate on the low 32 bits of rs1 and always sign-extend
// their 32-bit result into the full register. An unhandled funct3 raises
// IllegalInstruction rather than committing a zero result.
func execOpImm32(c *CPU, d Decoded) *trap.Exception {
	rs1 := uint32(c.X[d.Rs1])
	imm := uint32(d.immI())
	shamt := uint32(d.shamt5())

	var result uint32
	switch d.Funct3 {
	case 0b000: // ADDIW
		result = rs1 + imm
	case 0b001: // SLLIW
		result = rs1 << shamt
	case 0b101:
		if (d.Funct7>>5)&1 == 1 { // SRAIW
			result = uint32(int32(rs1) >> shamt)
		} else { // SRLIW
			result = rs1 >> shamt
		}
	default:
		return excPtr(trap.IllegalInstruction)
	}
	c.X[d.Rd] = SignExtend32(uint64(result))
	return nil
}

func boolToWord(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
