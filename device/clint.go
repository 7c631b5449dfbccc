// Package device implements the core-local interruptor (CLINT) and the
// platform-level interrupt controller (PLIC) as pure memory-mapped register
// bags: this emulator models register-level read/write only, with no
// interrupt delivery timing and no mtime advance.
package device

import "github.com/rv64emu/rv64emu/trap"

const (
	// ClintBase is the physical base address of the CLINT register window.
	ClintBase uint64 = 0x0200_0000
	// ClintSize is the size of the CLINT address window.
	ClintSize uint64 = 0x0001_0000

	mtimecmpAddr = ClintBase + 0x4000
	mtimeAddr    = ClintBase + 0xbff8
)

// CLINT holds the machine-timer-compare and current-time registers. It does
// not advance mtime on its own; this core has no timer-interrupt delivery.
type CLINT struct {
	mtime    uint64
	mtimecmp uint64
}

// NewCLINT returns a CLINT with both registers zeroed.
func NewCLINT() *CLINT {
	return &CLINT{}
}

// Load reads the named register at addr. CLINT accepts only 64-bit accesses;
// any other size is an access fault. Unrecognized in-range addresses read as
// zero.
func (c *CLINT) Load(addr uint64, size uint64) (uint64, error) {
	if size != 64 {
		return 0, trap.LoadAccessFault
	}
	switch addr {
	case mtimecmpAddr:
		return c.mtimecmp, nil
	case mtimeAddr:
		return c.mtime, nil
	default:
		return 0, nil
	}
}

// Store writes the named register at addr. CLINT accepts only 64-bit
// accesses; any other size is an access fault. Unrecognized in-range
// addresses accept the write as a no-op.
func (c *CLINT) Store(addr uint64, size uint64, value uint64) error {
	if size != 64 {
		return trap.StoreAMOAccessFault
	}
	switch addr {
	case mtimecmpAddr:
		c.mtimecmp = value
	case mtimeAddr:
		c.mtime = value
	}
	return nil
}
