package vm

import "github.com/rv64emu/rv64emu/trap"

// Opcode values this core dispatches on. Each is the low 7 bits of a 32-bit
// instruction word.
const (
	opLoad   = 0x03
	opImm    = 0x13
	opAUIPC  = 0x17
	opImm32  = 0x1B
	opStore  = 0x23
	opAMO    = 0x2F
	opOp     = 0x33
	opLUI    = 0x37
	opOp32   = 0x3B
	opBranch = 0x63
	opJALR   = 0x67
	opJAL    = 0x6F
	opSystem = 0x73
)

// StopReason explains why Run stopped looping.
type StopReason int

const (
	// StopZeroPC means the program counter reached 0 after an instruction
	// committed, the convention this core uses for a clean halt.
	StopZeroPC StopReason = iota
	// StopFatalException means a fatal exception (one outside the trap
	// taxonomy's recoverable kinds) terminated the run.
	StopFatalException
	// StopMaxCycles means the configured cycle budget was exhausted.
	StopMaxCycles
	// StopUntrapped means --no-trap is set and an exception occurred; the
	// run stops instead of vectoring to a handler.
	StopUntrapped
)

// RunResult reports how Run concluded.
type RunResult struct {
	Reason    StopReason
	Exception *trap.Exception
}

// Step fetches, decodes, and executes exactly one instruction, committing
// its register-file side effects and vectoring to a trap handler if it
// raised an exception that is neither fatal nor suppressed by NoTrap. It
// reports the exception (if any) so Run can decide whether to stop.
func (c *CPU) Step() *trap.Exception {
	raw, err := c.Bus.Load(c.PC, 32)
	if err != nil {
		exc := excPtr(trap.InstructionAccessFault)
		c.PC += 4
		if !exc.IsFatal() && !c.NoTrap {
			c.DeliverTrap(*exc)
		}
		return exc
	}

	c.PC += 4
	d := decode(raw)

	exc := c.execute(d)
	c.commit()

	if exc != nil {
		if !exc.IsFatal() && !c.NoTrap {
			c.DeliverTrap(*exc)
		}
		return exc
	}
	c.Cycles++
	return nil
}

// execute runs the decoded instruction's opcode handler. Handlers that
// never report an exception are called directly; the rest return the
// pointer sentinel described in load_store.go.
func (c *CPU) execute(d Decoded) *trap.Exception {
	switch d.Opcode {
	case opImm:
		execOpImm(c, d)
	case opImm32:
		return execOpImm32(c, d)
	case opOp:
		execOp(c, d)
	case opOp32:
		return execOp32(c, d)
	case opLUI:
		execLUI(c, d)
	case opAUIPC:
		execAUIPC(c, d)
	case opLoad:
		return execLoad(c, d)
	case opStore:
		return execStore(c, d)
	case opJAL:
		execJAL(c, d)
	case opJALR:
		execJALR(c, d)
	case opBranch:
		return execBranch(c, d)
	case opAMO:
		return execAMO(c, d)
	case opSystem:
		return execSystem(c, d)
	default:
		return excPtr(trap.IllegalInstruction)
	}
	return nil
}

// Run steps the CPU until it halts: PC reaches 0 after a commit, a fatal
// exception occurs, the cycle budget (if nonzero) is exhausted, or noTrap is
// set and any exception occurs.
func (c *CPU) Run(maxCycles uint64, noTrap bool) RunResult {
	c.NoTrap = noTrap
	for {
		exc := c.Step()

		if exc != nil {
			if exc.IsFatal() {
				return RunResult{Reason: StopFatalException, Exception: exc}
			}
			if noTrap {
				return RunResult{Reason: StopUntrapped, Exception: exc}
			}
		}

		if c.PC == 0 {
			return RunResult{Reason: StopZeroPC}
		}
		if maxCycles != 0 && c.Cycles >= maxCycles {
			return RunResult{Reason: StopMaxCycles}
		}
	}
}
