package vm

// SignExtend8, SignExtend16, and SignExtend32 widen a narrow two's-complement
// value (already held in the low bits of v) to a full 64-bit value. These
// back the narrow loads (LB/LH/LW) and the word-form ALU results (ADDW and
// friends), which must sign-extend their 32-bit result into the 64-bit
// register file.
func SignExtend8(v uint64) uint64 {
	return uint64(int64(int8(v)))
}

func SignExtend16(v uint64) uint64 {
	return uint64(int64(int16(v)))
}

func SignExtend32(v uint64) uint64 {
	return uint64(int64(int32(v)))
}

// AsInt64 reinterprets v's bit pattern as signed, used by the signed
// comparison and division/remainder operations (SLT, DIV, REM, ...).
func AsInt64(v uint64) int64 {
	return int64(v)
}

// AsUint64 reinterprets a signed value back to its raw bit pattern, the
// inverse of AsInt64.
func AsUint64(v int64) uint64 {
	return uint64(v)
}
