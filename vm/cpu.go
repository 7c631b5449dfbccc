// Package vm implements the RV64I/M/A/Zicsr processor core: the integer
// register file, the CSR file, the privilege-mode state machine, the
// fetch/decode/execute loop, and trap delivery. It is the hard part of this
// emulator: everything else (the bus, DRAM, devices, the loader, the CLI)
// exists to feed this package a binary image and observe its state.
package vm

import (
	"github.com/rv64emu/rv64emu/bus"
	"github.com/rv64emu/rv64emu/dram"
)

// Register aliases for the stack pointer, matching the ABI name used in the
// register dump.
const (
	RegZero = 0
	RegSP   = 2
)

// CPU holds all architectural state: the 32 integer registers, the program
// counter, the CSR file, the current privilege mode, and the bus it issues
// loads and stores against.
type CPU struct {
	X    [32]uint64
	PC   uint64
	CSR  CSRFile
	Mode Mode
	Bus  *bus.Bus

	// NoTrap suppresses trap delivery: when set, Step reports exceptions to
	// its caller without vectoring the CPU, so the first exception halts the
	// run with architectural state untouched.
	NoTrap bool

	// Cycles counts committed instructions. This core makes no cycle-accuracy
	// claim; the counter exists for statistics and trace sequencing only.
	Cycles uint64
}

// New creates a CPU wired to bus in its reset state: x2 (sp) holds the top
// of DRAM, PC starts at DRAM_BASE, and the processor begins in Machine mode.
func New(b *bus.Bus) *CPU {
	c := &CPU{
		Bus:  b,
		PC:   dram.Base,
		Mode: Machine,
	}
	c.X[RegSP] = dram.Base + dram.Size
	return c
}

// commit enforces the x0-hardwired-to-zero invariant. Called at the end of
// every instruction; x0 is zeroed unconditionally rather than special-casing
// every writer.
func (c *CPU) commit() {
	c.X[RegZero] = 0
}
