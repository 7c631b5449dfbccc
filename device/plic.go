package device

import "github.com/rv64emu/rv64emu/trap"

const (
	// PlicBase is the physical base address of the PLIC address window.
	PlicBase uint64 = 0x0c00_0000
	// PlicSize is the size of the PLIC address window.
	PlicSize uint64 = 0x0400_0000

	pendingAddr   = PlicBase + 0x1000
	senableAddr   = PlicBase + 0x2080
	spriorityAddr = PlicBase + 0x20_1000
	sclaimAddr    = PlicBase + 0x20_1004
)

// PLIC holds the supervisor-context interrupt-enable, pending, priority, and
// claim/complete registers. No interrupt is ever posted by this core; the
// registers are pure storage for software that probes them.
type PLIC struct {
	pending   uint32
	senable   uint32
	spriority uint32
	sclaim    uint32
}

// NewPLIC returns a PLIC with all registers zeroed.
func NewPLIC() *PLIC {
	return &PLIC{}
}

// Load reads the named register at addr. PLIC accepts only 32-bit accesses;
// any other size is an access fault. Unrecognized in-range addresses read as
// zero.
func (p *PLIC) Load(addr uint64, size uint64) (uint64, error) {
	if size != 32 {
		return 0, trap.LoadAccessFault
	}
	switch addr {
	case pendingAddr:
		return uint64(p.pending), nil
	case senableAddr:
		return uint64(p.senable), nil
	case spriorityAddr:
		return uint64(p.spriority), nil
	case sclaimAddr:
		return uint64(p.sclaim), nil
	default:
		return 0, nil
	}
}

// Store writes the named register at addr. PLIC accepts only 32-bit
// accesses; any other size is an access fault. Unrecognized in-range
// addresses accept the write as a no-op.
func (p *PLIC) Store(addr uint64, size uint64, value uint64) error {
	if size != 32 {
		return trap.StoreAMOAccessFault
	}
	switch addr {
	case pendingAddr:
		p.pending = uint32(value)
	case senableAddr:
		p.senable = uint32(value)
	case spriorityAddr:
		p.spriority = uint32(value)
	case sclaimAddr:
		p.sclaim = uint32(value)
	}
	return nil
}
