package vm

import (
	"fmt"
	"io"
	"strings"
)

// regNames gives the ABI name for each of the 32 integer registers, used by
// Trace's output and register filter.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// TraceEntry is one recorded instruction: its sequence number, the address
// it executed from, the raw instruction word, and the registers it changed.
type TraceEntry struct {
	Sequence uint64
	PC       uint64
	Raw      uint64
	Changed  map[string]uint64
}

// Trace records a bounded log of executed instructions, optionally
// restricted to a subset of registers. There is no symbol table to annotate
// entries with; a flat binary carries no labels.
type Trace struct {
	Writer     io.Writer
	FilterRegs map[string]bool
	MaxEntries int

	entries []TraceEntry
	prev    [32]uint64
}

// NewTrace creates a trace writing to w with no register filter and a
// default entry cap.
func NewTrace(w io.Writer) *Trace {
	return &Trace{
		Writer:     w,
		FilterRegs: make(map[string]bool),
		MaxEntries: 100_000,
	}
}

// SetFilterRegisters restricts recorded register changes to the named
// registers (ABI names, e.g. "a0", "sp"). An empty list tracks all of them.
func (t *Trace) SetFilterRegisters(names []string) {
	t.FilterRegs = make(map[string]bool, len(names))
	for _, n := range names {
		t.FilterRegs[strings.ToLower(n)] = true
	}
}

// Record appends one entry for the instruction that just executed at pc,
// diffing c.X against the previous snapshot to find what changed.
func (t *Trace) Record(c *CPU, pc uint64, raw uint64) {
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}

	changed := make(map[string]uint64)
	for i := 0; i < 32; i++ {
		if c.X[i] == t.prev[i] {
			continue
		}
		name := regNames[i]
		if len(t.FilterRegs) > 0 && !t.FilterRegs[name] {
			continue
		}
		changed[name] = c.X[i]
	}
	t.prev = c.X

	t.entries = append(t.entries, TraceEntry{
		Sequence: c.Cycles,
		PC:       pc,
		Raw:      raw,
		Changed:  changed,
	})
}

// Flush writes every recorded entry to Writer, one line each.
func (t *Trace) Flush() error {
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(t.Writer, "%d pc=%#x inst=%#08x", e.Sequence, e.PC, e.Raw); err != nil {
			return err
		}
		for name, val := range e.Changed {
			if _, err := fmt.Fprintf(t.Writer, " %s=%#x", name, val); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(t.Writer); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the entries recorded so far.
func (t *Trace) Entries() []TraceEntry {
	return t.entries
}
