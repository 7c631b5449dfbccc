package vm

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rv64emu/rv64emu/trap"
)

// Statistics accumulates simple run-level counters: instructions retired
// and how many times each exception number fired. Counts only - there are
// no hot-path or call-graph notions in a core with no symbol table.
type Statistics struct {
	InstructionsRetired uint64
	ExceptionCounts     map[uint64]uint64
}

// NewStatistics returns an empty counter set.
func NewStatistics() *Statistics {
	return &Statistics{ExceptionCounts: make(map[uint64]uint64)}
}

// RecordStep updates the counters for one Step result.
func (s *Statistics) RecordStep(exc *trap.Exception) {
	if exc == nil {
		s.InstructionsRetired++
		return
	}
	s.ExceptionCounts[exc.Number()]++
}

// statisticsJSON is the wire shape for ExportJSON; exception counts are keyed
// by the exception's name (e.g. "breakpoint") rather than its number.
type statisticsJSON struct {
	InstructionsRetired uint64            `json:"instructions_retired"`
	ExceptionCounts     map[string]uint64 `json:"exception_counts"`
}

// ExportJSON writes the counters as JSON.
func (s *Statistics) ExportJSON(w io.Writer) error {
	out := statisticsJSON{
		InstructionsRetired: s.InstructionsRetired,
		ExceptionCounts:     make(map[string]uint64, len(s.ExceptionCounts)),
	}
	for num, count := range s.ExceptionCounts {
		out.ExceptionCounts[trap.Exception(num).String()] = count
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ExportText writes the counters as a short human-readable summary.
func (s *Statistics) ExportText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "instructions retired: %d\n", s.InstructionsRetired); err != nil {
		return err
	}
	for num, count := range s.ExceptionCounts {
		if _, err := fmt.Fprintf(w, "%s: %d\n", trap.Exception(num).String(), count); err != nil {
			return err
		}
	}
	return nil
}
