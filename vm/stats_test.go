package vm

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rv64emu/rv64emu/trap"
)

func TestStatisticsCountsRetiredAndExceptions(t *testing.T) {
	s := NewStatistics()
	s.RecordStep(nil)
	s.RecordStep(nil)
	exc := trap.IllegalInstruction
	s.RecordStep(&exc)

	if s.InstructionsRetired != 2 {
		t.Fatalf("retired = %d, want 2", s.InstructionsRetired)
	}
	if got := s.ExceptionCounts[trap.IllegalInstruction.Number()]; got != 1 {
		t.Fatalf("illegal-instruction count = %d, want 1", got)
	}
}

func TestStatisticsExportJSON(t *testing.T) {
	s := NewStatistics()
	s.RecordStep(nil)
	exc := trap.Breakpoint
	s.RecordStep(&exc)

	var buf bytes.Buffer
	if err := s.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var out struct {
		InstructionsRetired uint64            `json:"instructions_retired"`
		ExceptionCounts     map[string]uint64 `json:"exception_counts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.InstructionsRetired != 1 {
		t.Fatalf("retired = %d, want 1", out.InstructionsRetired)
	}
	if out.ExceptionCounts["breakpoint"] != 1 {
		t.Fatalf("breakpoint count = %d, want 1", out.ExceptionCounts["breakpoint"])
	}
}

func TestStatisticsExportText(t *testing.T) {
	s := NewStatistics()
	s.RecordStep(nil)

	var buf bytes.Buffer
	if err := s.ExportText(&buf); err != nil {
		t.Fatalf("ExportText: %v", err)
	}
	if !strings.Contains(buf.String(), "instructions retired: 1") {
		t.Fatalf("text export %q missing retired count", buf.String())
	}
}
