package csv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 4)
	if err != nil {
		t.Fatalf("NewWriter() error: %v", err)
	}

	entry := &enumerate.SequenceEntry{
		Units:        []string{"Hex", "Pent"},
		Formula:      core.Composition{"C": 11, "H": 18, "O": 9},
		FinalFormula: core.Composition{"C": 29, "H": 40, "N": 2, "O": 15},
		Mass:         656.2428686259,
		MZ:           657.2501450928,
	}
	if err := w.WriteEntry(entry); err != nil {
		t.Fatalf("WriteEntry() error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if w.Rows() != 1 {
		t.Errorf("Rows() = %d, want 1", w.Rows())
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output has %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if lines[0] != strings.Join(ExportHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Hex-Pent,C11H18O9,C29H40N2O15,656.2429,657.2501" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriterDecimals(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 1)
	if err != nil {
		t.Fatalf("NewWriter() error: %v", err)
	}

	entry := &enumerate.SequenceEntry{
		Units:        []string{"Hex"},
		Formula:      core.Composition{"C": 6, "H": 12, "O": 6},
		FinalFormula: core.Composition{"C": 6, "H": 12, "O": 6},
		Mass:         180.0633881178,
		MZ:           181.0706645847,
	}
	if err := w.WriteEntry(entry); err != nil {
		t.Fatalf("WriteEntry() error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if !strings.Contains(buf.String(), "180.1,181.1") {
		t.Errorf("expected one-decimal masses, got:\n%s", buf.String())
	}
}
