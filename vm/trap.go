package vm

import "github.com/rv64emu/rv64emu/trap"

// DeliverTrap vectors the CPU to the appropriate trap handler for exc, which
// was raised while executing the instruction at PC-4 (PC has already been
// advanced by the fetch/execute loop). Delegation to Supervisor mode applies
// when the current mode is at or below Supervisor and MEDELEG delegates this
// exception number; otherwise the trap is delivered to Machine mode.
func (c *CPU) DeliverTrap(exc trap.Exception) {
	faultPC := (c.PC - 4) &^ 1
	num := exc.Number()

	delegate := c.Mode <= Supervisor && (c.CSR.LoadCSR(MEDELEG)>>num)&1 != 0
	if delegate {
		c.CSR.StoreCSR(SEPC, faultPC)
		c.CSR.StoreCSR(SCAUSE, num)
		c.CSR.StoreCSR(STVAL, 0)
		c.PC = c.CSR.LoadCSR(STVEC) &^ 1

		c.CSR.setSstatusSPIE(c.CSR.sstatusSIE())
		c.CSR.setSstatusSIE(false)
		c.CSR.setSstatusSPP(c.Mode == Supervisor)

		c.Mode = Supervisor
		return
	}

	c.CSR.StoreCSR(MEPC, faultPC)
	c.CSR.StoreCSR(MCAUSE, num)
	c.CSR.StoreCSR(MTVAL, 0)
	c.PC = c.CSR.LoadCSR(MTVEC) &^ 1

	c.CSR.setMstatusMPIE(c.CSR.mstatusMIE())
	c.CSR.setMstatusMIE(false)
	c.CSR.setMstatusMPP(c.Mode)

	c.Mode = Machine
}
