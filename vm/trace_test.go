package vm

import (
	"bytes"
	"strings"
	"testing"
)

func TestTraceRecordsChangedRegisters(t *testing.T) {
	c := writeProgram(t, []uint64{addi(10, RegZero, 7)}) // a0 = 7
	tr := NewTrace(&bytes.Buffer{})

	pc := c.PC
	raw, err := c.Bus.Load(pc, 32)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if exc := c.Step(); exc != nil {
		t.Fatalf("unexpected exception %v", exc)
	}
	tr.Record(c, pc, raw)

	entries := tr.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].PC != pc {
		t.Fatalf("entry PC = %#x, want %#x", entries[0].PC, pc)
	}
	if got := entries[0].Changed["a0"]; got != 7 {
		t.Fatalf("a0 = %d, want 7", got)
	}
}

func TestTraceFilterRestrictsRegisters(t *testing.T) {
	c := writeProgram(t, []uint64{
		addi(10, RegZero, 1), // a0
		addi(11, RegZero, 2), // a1
	})
	tr := NewTrace(&bytes.Buffer{})
	tr.SetFilterRegisters([]string{"a1"})

	for i := 0; i < 2; i++ {
		pc := c.PC
		raw, err := c.Bus.Load(pc, 32)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if exc := c.Step(); exc != nil {
			t.Fatalf("step %d: %v", i, exc)
		}
		tr.Record(c, pc, raw)
	}

	for _, e := range tr.Entries() {
		if _, ok := e.Changed["a0"]; ok {
			t.Fatal("a0 recorded despite filter restricting the trace to a1")
		}
	}
	if got := tr.Entries()[1].Changed["a1"]; got != 2 {
		t.Fatalf("a1 = %d, want 2", got)
	}
}

func TestTraceFlushWritesOneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	c := writeProgram(t, []uint64{addi(10, RegZero, 7)})
	tr := NewTrace(&buf)

	pc := c.PC
	raw, _ := c.Bus.Load(pc, 32)
	if exc := c.Step(); exc != nil {
		t.Fatalf("unexpected exception %v", exc)
	}
	tr.Record(c, pc, raw)

	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("want exactly one trace line, got %q", out)
	}
	if !strings.Contains(out, "a0=0x7") {
		t.Fatalf("trace line %q missing a0 change", out)
	}
}
