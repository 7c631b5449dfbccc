package bus_test

import (
	"testing"

	"github.com/rv64emu/rv64emu/bus"
	"github.com/rv64emu/rv64emu/device"
	"github.com/rv64emu/rv64emu/dram"
)

func TestRoutesToClint(t *testing.T) {
	b, err := bus.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Store(device.ClintBase+0x4000, 64, 7); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, err := b.Load(device.ClintBase+0x4000, 64)
	if err != nil || got != 7 {
		t.Fatalf("load: got %d, err %v", got, err)
	}
}

func TestRoutesToPlic(t *testing.T) {
	b, err := bus.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Store(device.PlicBase+0x1000, 32, 9); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, err := b.Load(device.PlicBase+0x1000, 32)
	if err != nil || got != 9 {
		t.Fatalf("load: got %d, err %v", got, err)
	}
}

func TestRoutesToDram(t *testing.T) {
	b, err := bus.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Store(dram.Base, 64, 0x1122334455667788); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, err := b.Load(dram.Base, 64)
	if err != nil || got != 0x1122334455667788 {
		t.Fatalf("load: got 0x%x, err %v", got, err)
	}
}

func TestBelowEverythingIsAccessFault(t *testing.T) {
	b, err := bus.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := b.Load(0x1000, 64); err == nil {
		t.Fatal("expected load access fault below DRAM_BASE and outside device ranges")
	}
	if err := b.Store(0x1000, 64, 1); err == nil {
		t.Fatal("expected store access fault below DRAM_BASE and outside device ranges")
	}
}
