package vm

import "github.com/rv64emu/rv64emu/trap"

// execSystem dispatches the SYSTEM opcode (0x73): ECALL, EBREAK, SRET, MRET,
// and the six Zicsr instructions. funct3 == 0 selects the privileged
// environment-call/return family (further split by the immediate field);
// any other funct3 is a CSR instruction.
func execSystem(c *CPU, d Decoded) *trap.Exception {
	if d.Funct3 == 0 {
		return execPrivileged(c, d)
	}
	return execCSR(c, d)
}

// execPrivileged handles ECALL, EBREAK, SRET, and MRET, distinguished by the
// I-immediate field (inst[31:20]) the way the base ISA defines them.
func execPrivileged(c *CPU, d Decoded) *trap.Exception {
	imm := d.Raw >> 20
	switch imm {
	case 0x000: // ECALL
		switch c.Mode {
		case User:
			return excPtr(trap.EnvironmentCallFromUMode)
		case Supervisor:
			return excPtr(trap.EnvironmentCallFromSMode)
		default:
			return excPtr(trap.EnvironmentCallFromMMode)
		}
	case 0x001: // EBREAK
		return excPtr(trap.Breakpoint)
	case 0x102: // SRET
		c.execSRET()
		return nil
	case 0x302: // MRET
		c.execMRET()
		return nil
	default:
		return excPtr(trap.IllegalInstruction)
	}
}

// execSRET returns from a Supervisor-mode trap handler: PC <- SEPC, SIE <-
// SPIE, SPIE <- 1, mode <- SPP, SPP <- U. This mirrors DeliverTrap's S-mode
// path in reverse.
func (c *CPU) execSRET() {
	c.PC = c.CSR.LoadCSR(SEPC)
	spp := c.CSR.sstatusSPP()

	c.CSR.setSstatusSIE(c.CSR.sstatusSPIE())
	c.CSR.setSstatusSPIE(true)
	c.CSR.setSstatusSPP(false)

	if spp {
		c.Mode = Supervisor
	} else {
		c.Mode = User
	}
}

// execMRET returns from a Machine-mode trap handler: PC <- MEPC, MIE <-
// MPIE, MPIE <- 1, mode <- MPP, MPP <- U.
func (c *CPU) execMRET() {
	c.PC = c.CSR.LoadCSR(MEPC)
	mpp := c.CSR.mstatusMPP()

	c.CSR.setMstatusMIE(c.CSR.mstatusMPIE())
	c.CSR.setMstatusMPIE(true)
	c.CSR.setMstatusMPP(User)

	c.Mode = mpp
}

// execCSR dispatches the six Zicsr instructions: CSRRW, CSRRS, CSRRC,
// CSRRWI, CSRRSI, CSRRCI. Every variant reads the old value into rd before
// applying its update; the immediate forms take the update operand from the
// zero-extended rs1 field instead of a register.
func execCSR(c *CPU, d Decoded) *trap.Exception {
	csr := d.Raw >> 20
	old := c.CSR.LoadCSR(csr)

	var operand uint64
	immediate := d.Funct3&0b100 != 0
	if immediate {
		operand = d.Rs1
	} else {
		operand = c.X[d.Rs1]
	}

	switch d.Funct3 & 0b011 {
	case 0b01: // CSRRW / CSRRWI
		c.CSR.StoreCSR(csr, operand)
	case 0b10: // CSRRS / CSRRSI: a zero operand (rs1=x0, or uimm=0) skips the write
		if operand != 0 {
			c.CSR.StoreCSR(csr, old|operand)
		}
	case 0b11: // CSRRC / CSRRCI: same no-write rule as CSRRS/CSRRSI
		if operand != 0 {
			c.CSR.StoreCSR(csr, old&^operand)
		}
	default:
		return excPtr(trap.IllegalInstruction)
	}

	c.X[d.Rd] = old
	return nil
}
