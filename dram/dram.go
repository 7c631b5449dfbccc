// Package dram implements the emulator's byte-addressable main memory: a
// fixed-size little-endian store based at DRAM_BASE, backing every load and
// store that the bus does not route to a memory-mapped device.
package dram

import (
	"fmt"

	"github.com/rv64emu/rv64emu/trap"
)

const (
	// Base is the physical address of the first byte of DRAM.
	Base uint64 = 0x8000_0000
	// Size is the total number of bytes backing the DRAM, 128 MiB.
	Size uint64 = 1024 * 1024 * 128
)

// DRAM is a contiguous byte vector addressed by physical address - Base.
type DRAM struct {
	mem []byte
}

// New creates a DRAM of Size bytes with the given binary image copied in
// starting at address Base. The image must not exceed Size.
func New(binary []byte) (*DRAM, error) {
	if uint64(len(binary)) > Size {
		return nil, fmt.Errorf("dram: binary image of %d bytes exceeds DRAM size %d", len(binary), Size)
	}
	mem := make([]byte, Size)
	copy(mem, binary)
	return &DRAM{mem: mem}, nil
}

// inBounds reports whether [addr, addr+nbytes) lies entirely within DRAM.
func (d *DRAM) inBounds(addr uint64, nbytes uint64) bool {
	if addr < Base {
		return false
	}
	offset := addr - Base
	if offset > Size {
		return false
	}
	return Size-offset >= nbytes
}

// Load reads size bits (8, 16, 32, or 64) little-endian starting at addr.
func (d *DRAM) Load(addr uint64, size uint64) (uint64, error) {
	nbytes := size / 8
	switch size {
	case 8, 16, 32, 64:
	default:
		return 0, trap.LoadAccessFault
	}
	if !d.inBounds(addr, nbytes) {
		return 0, trap.LoadAccessFault
	}
	index := addr - Base
	var value uint64
	for i := uint64(0); i < nbytes; i++ {
		value |= uint64(d.mem[index+i]) << (8 * i)
	}
	return value, nil
}

// Store writes the low size bits of value little-endian starting at addr.
func (d *DRAM) Store(addr uint64, size uint64, value uint64) error {
	nbytes := size / 8
	switch size {
	case 8, 16, 32, 64:
	default:
		return trap.StoreAMOAccessFault
	}
	if !d.inBounds(addr, nbytes) {
		return trap.StoreAMOAccessFault
	}
	index := addr - Base
	for i := uint64(0); i < nbytes; i++ {
		d.mem[index+i] = byte(value >> (8 * i))
	}
	return nil
}
