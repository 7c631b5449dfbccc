package vm

import "github.com/rv64emu/rv64emu/trap"

// execLUI implements LUI (opcode 0x37): load the U-immediate into rd,
// already sign-extended by immU from bit 31 of the 32-bit result.
func execLUI(c *CPU, d Decoded) {
	c.X[d.Rd] = d.immU()
}

// execAUIPC implements AUIPC (opcode 0x17): rd = PC-of-this-instruction +
// the U-immediate. c.PC has already been advanced past this instruction by
// the fetch step, so the base is c.PC-4.
func execAUIPC(c *CPU, d Decoded) {
	c.X[d.Rd] = (c.PC - 4) + d.immU()
}

// execJAL implements JAL (opcode 0x6F): rd = return address, PC += the
// J-immediate (relative to the instruction's own address).
func execJAL(c *CPU, d Decoded) {
	target := (c.PC - 4) + d.immJ()
	c.X[d.Rd] = c.PC
	c.PC = target
}

// execJALR implements JALR (opcode 0x67): rd = return address, PC = (rs1 +
// I-immediate) with its low bit cleared. The return address is captured
// before PC is redirected so rd == rs1 still yields the right link value.
func execJALR(c *CPU, d Decoded) {
	target := (c.X[d.Rs1] + d.immI()) &^ 1
	ret := c.PC
	c.PC = target
	c.X[d.Rd] = ret
}

// execBranch dispatches the BRANCH opcode (0x63): BEQ, BNE, BLT, BGE, BLTU,
// BGEU. Taken branches jump relative to the branch instruction's own
// address; not-taken branches fall through (PC is left as the fetch step
// already advanced it).
func execBranch(c *CPU, d Decoded) *trap.Exception {
	rs1, rs2 := c.X[d.Rs1], c.X[d.Rs2]

	var taken bool
	switch d.Funct3 {
	case 0b000: // BEQ
		taken = rs1 == rs2
	case 0b001: // BNE
		taken = rs1 != rs2
	case 0b100: // BLT
		taken = AsInt64(rs1) < AsInt64(rs2)
	case 0b101: // BGE
		taken = AsInt64(rs1) >= AsInt64(rs2)
	case 0b110: // BLTU
		taken = rs1 < rs2
	case 0b111: // BGEU
		taken = rs1 >= rs2
	default:
		return excPtr(trap.IllegalInstruction)
	}

	if taken {
		c.PC = (c.PC - 4) + d.immB()
	}
	return nil
}
