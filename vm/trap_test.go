package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rv64emu/rv64emu/bus"
	"github.com/rv64emu/rv64emu/trap"
)

func newTestCPU(t *testing.T) *CPU {
	t.Helper()
	b, err := bus.New(nil)
	require.NoError(t, err)
	return New(b)
}

func TestTrapDeliveredToMachineByDefault(t *testing.T) {
	c := newTestCPU(t)
	c.CSR.StoreCSR(MTVEC, 0x8000_0100)
	c.PC = 0x8000_0004 + 4 // as if fetch already advanced past the faulting instruction

	c.DeliverTrap(trap.IllegalInstruction)

	require.Equal(t, Machine, c.Mode)
	require.Equal(t, uint64(0x8000_0004), c.CSR.LoadCSR(MEPC))
	require.Equal(t, trap.IllegalInstruction.Number(), c.CSR.LoadCSR(MCAUSE))
	require.Equal(t, uint64(0x8000_0100), c.PC)
}

func TestTrapDelegatedToSupervisorWhenMedelegSet(t *testing.T) {
	c := newTestCPU(t)
	c.Mode = User
	c.CSR.StoreCSR(MEDELEG, 1<<trap.IllegalInstruction.Number())
	c.CSR.StoreCSR(STVEC, 0x8000_0200)
	c.PC = 0x8000_0008 + 4

	c.DeliverTrap(trap.IllegalInstruction)

	require.Equal(t, Supervisor, c.Mode)
	require.Equal(t, uint64(0x8000_0008), c.CSR.LoadCSR(SEPC))
	require.Equal(t, uint64(0x8000_0200), c.PC)
}

func TestTrapNotDelegatedAboveSupervisor(t *testing.T) {
	c := newTestCPU(t)
	c.Mode = Machine
	c.CSR.StoreCSR(MEDELEG, 1<<trap.IllegalInstruction.Number())
	c.CSR.StoreCSR(MTVEC, 0x8000_0300)
	c.PC = 4

	c.DeliverTrap(trap.IllegalInstruction)

	require.Equal(t, Machine, c.Mode, "mode must stay Machine even though MEDELEG delegates this cause")
}

// TestMretRestoresModeAndPC: MRET after a machine-mode trap must restore
// the mode recorded in MPP and the PC recorded in MEPC.
func TestMretRestoresModeAndPC(t *testing.T) {
	c := newTestCPU(t)
	c.Mode = Supervisor
	c.PC = 0x8000_0010 + 4
	c.CSR.StoreCSR(MTVEC, 0x8000_0400)

	c.DeliverTrap(trap.Breakpoint)
	require.Equal(t, Machine, c.Mode)

	c.execMRET()

	require.Equal(t, Supervisor, c.Mode, "MRET must restore the mode saved in MPP")
	require.Equal(t, uint64(0x8000_0010), c.PC, "MRET must restore PC from MEPC")
}
