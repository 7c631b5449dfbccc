package vm

import "github.com/rv64emu/rv64emu/trap"

// execLoad dispatches the LOAD opcode (0x03): LB, LH, LW, LD, LBU, LHU, LWU.
// The signed forms sign-extend the loaded value into the full 64-bit
// register; the unsigned forms (LBU, LHU, LWU) zero-extend.
func execLoad(c *CPU, d Decoded) *trap.Exception {
	addr := c.X[d.Rs1] + d.immI()

	var size uint64
	switch d.Funct3 {
	case 0b000, 0b100: // LB, LBU
		size = 8
	case 0b001, 0b101: // LH, LHU
		size = 16
	case 0b010, 0b110: // LW, LWU
		size = 32
	case 0b011: // LD
		size = 64
	default:
		return excPtr(trap.IllegalInstruction)
	}

	value, err := c.Bus.Load(addr, size)
	if err != nil {
		return excFromErr(err, trap.LoadAccessFault)
	}

	switch d.Funct3 {
	case 0b000:
		value = SignExtend8(value)
	case 0b001:
		value = SignExtend16(value)
	case 0b010:
		value = SignExtend32(value)
	}

	c.X[d.Rd] = value
	return nil
}

// execStore dispatches the STORE opcode (0x23): SB, SH, SW, SD.
func execStore(c *CPU, d Decoded) *trap.Exception {
	addr := c.X[d.Rs1] + d.immS()

	var size uint64
	switch d.Funct3 {
	case 0b000:
		size = 8
	case 0b001:
		size = 16
	case 0b010:
		size = 32
	case 0b011:
		size = 64
	default:
		return excPtr(trap.IllegalInstruction)
	}

	if err := c.Bus.Store(addr, size, c.X[d.Rs2]); err != nil {
		return excFromErr(err, trap.StoreAMOAccessFault)
	}
	return nil
}

// excPtr and excFromErr convert to the pointer-sentinel convention execute
// functions use to report "no trap" (nil) versus a specific exception.
func excPtr(e trap.Exception) *trap.Exception {
	return &e
}

func excFromErr(err error, fallback trap.Exception) *trap.Exception {
	if exc, ok := err.(trap.Exception); ok {
		return &exc
	}
	return excPtr(fallback)
}
