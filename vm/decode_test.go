package vm

import "testing"

func TestDecodeFields(t *testing.T) {
	// ADDI x1, x2, -1  -> imm=0xfff, rs1=2, funct3=0, rd=1, opcode=0x13
	inst := uint64(0xfff10093)
	d := decode(inst)

	if d.Opcode != 0x13 {
		t.Fatalf("opcode = %#x, want 0x13", d.Opcode)
	}
	if d.Rd != 1 {
		t.Fatalf("rd = %d, want 1", d.Rd)
	}
	if d.Rs1 != 2 {
		t.Fatalf("rs1 = %d, want 2", d.Rs1)
	}
	if d.Funct3 != 0 {
		t.Fatalf("funct3 = %d, want 0", d.Funct3)
	}
	if got := int64(d.immI()); got != -1 {
		t.Fatalf("immI = %d, want -1", got)
	}
}

func TestImmBHasImplicitTrailingZero(t *testing.T) {
	// BEQ x0, x0, -4 as raw bits: every encoded branch-immediate bit set
	// except imm[1], with the implicit bit 0 supplying the trailing zero.
	inst := uint64(0xfe000ee3)
	d := decode(inst)
	if got := int64(d.immB()); got != -4 {
		t.Fatalf("immB = %d, want -4", got)
	}
}

func TestImmUMasksLow12Bits(t *testing.T) {
	// LUI x1, 0x12345 -> inst[31:12] = 0x12345
	inst := uint64(0x123450b7)
	d := decode(inst)
	want := uint64(0x12345000)
	if got := d.immU(); got != want {
		t.Fatalf("immU = %#x, want %#x", got, want)
	}
}

func TestSignExtendRoundTrips(t *testing.T) {
	if got := int64(signExtend(0xfff, 12)); got != -1 {
		t.Fatalf("signExtend(0xfff, 12) = %d, want -1", got)
	}
	if got := int64(signExtend(0x7ff, 12)); got != 0x7ff {
		t.Fatalf("signExtend(0x7ff, 12) = %d, want 2047", got)
	}
}
