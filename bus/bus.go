// Package bus implements the address decoder the CPU talks to for every
// memory access: it routes each load/store to DRAM or to one of the two
// memory-mapped devices by address range, and is the only entity that knows
// about all three.
package bus

import (
	"github.com/rv64emu/rv64emu/device"
	"github.com/rv64emu/rv64emu/dram"
	"github.com/rv64emu/rv64emu/trap"
)

// Bus multiplexes CPU loads and stores between DRAM and the CLINT/PLIC
// devices by address range. The device set is closed and known at build
// time, so dispatch is a plain address-range switch rather than a
// registered-interface list.
type Bus struct {
	DRAM  *dram.DRAM
	CLINT *device.CLINT
	PLIC  *device.PLIC
}

// New creates a Bus with a freshly constructed DRAM (loaded with binary) and
// zeroed CLINT/PLIC devices.
func New(binary []byte) (*Bus, error) {
	d, err := dram.New(binary)
	if err != nil {
		return nil, err
	}
	return &Bus{
		DRAM:  d,
		CLINT: device.NewCLINT(),
		PLIC:  device.NewPLIC(),
	}, nil
}

// Load routes a read of size bits at addr to the owning device or DRAM, in
// address-decode order: CLINT, then PLIC, then DRAM, else a load access
// fault.
func (b *Bus) Load(addr uint64, size uint64) (uint64, error) {
	switch {
	case addr >= device.ClintBase && addr < device.ClintBase+device.ClintSize:
		return b.CLINT.Load(addr, size)
	case addr >= device.PlicBase && addr < device.PlicBase+device.PlicSize:
		return b.PLIC.Load(addr, size)
	case addr >= dram.Base:
		return b.DRAM.Load(addr, size)
	default:
		return 0, trap.LoadAccessFault
	}
}

// Store routes a write of size bits and value at addr to the owning device
// or DRAM, in the same address-decode order as Load, else a store/AMO
// access fault.
func (b *Bus) Store(addr uint64, size uint64, value uint64) error {
	switch {
	case addr >= device.ClintBase && addr < device.ClintBase+device.ClintSize:
		return b.CLINT.Store(addr, size, value)
	case addr >= device.PlicBase && addr < device.PlicBase+device.PlicSize:
		return b.PLIC.Store(addr, size, value)
	case addr >= dram.Base:
		return b.DRAM.Store(addr, size, value)
	default:
		return trap.StoreAMOAccessFault
	}
}
