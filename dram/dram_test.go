package dram_test

import (
	"testing"

	"github.com/rv64emu/rv64emu/dram"
)

func TestNewCopiesImage(t *testing.T) {
	d, err := dram.New([]byte{0xde, 0xad, 0xbe, 0xef})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v, err := d.Load(dram.Base, 32)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v != 0xefbeadde {
		t.Errorf("got 0x%x, want 0xefbeadde", v)
	}
}

func TestNewRejectsOversizedImage(t *testing.T) {
	_, err := dram.New(make([]byte, dram.Size+1))
	if err == nil {
		t.Fatal("expected error for oversized image")
	}
}

func TestRoundTripAllWidths(t *testing.T) {
	d, err := dram.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	widths := []uint64{8, 16, 32, 64}
	for _, w := range widths {
		mask := uint64(1)<<w - 1
		if w == 64 {
			mask = ^uint64(0)
		}
		want := uint64(0x0123_4567_89ab_cdef) & mask
		if err := d.Store(dram.Base+0x100, w, want); err != nil {
			t.Fatalf("Store width %d: %v", w, err)
		}
		got, err := d.Load(dram.Base+0x100, w)
		if err != nil {
			t.Fatalf("Load width %d: %v", w, err)
		}
		if got != want {
			t.Errorf("width %d: got 0x%x, want 0x%x", w, got, want)
		}
	}
}

func TestLastValidAddress(t *testing.T) {
	d, err := dram.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	last := dram.Base + dram.Size - 8
	if err := d.Store(last, 64, 0x0123456789abcdef); err != nil {
		t.Fatalf("store at last valid address: %v", err)
	}
	got, err := d.Load(last, 64)
	if err != nil || got != 0x0123456789abcdef {
		t.Fatalf("load at last valid address: got 0x%x, err %v", got, err)
	}
}

func TestOneByteBeyondIsAccessFault(t *testing.T) {
	d, err := dram.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Load(dram.Base+dram.Size-7, 64); err == nil {
		t.Fatal("expected access fault one byte beyond DRAM")
	}
	if err := d.Store(dram.Base+dram.Size, 8, 1); err == nil {
		t.Fatal("expected access fault storing at DRAM_BASE+DRAM_SIZE")
	}
}

func TestInvalidSize(t *testing.T) {
	d, err := dram.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Load(dram.Base, 24); err == nil {
		t.Fatal("expected error for invalid load size")
	}
	if err := d.Store(dram.Base, 24, 0); err == nil {
		t.Fatal("expected error for invalid store size")
	}
}

func TestBelowBaseIsOutOfRange(t *testing.T) {
	d, err := dram.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Load(dram.Base-8, 64); err == nil {
		t.Fatal("expected error for address below DRAM base")
	}
}
