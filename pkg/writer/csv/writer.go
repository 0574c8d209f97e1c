// Package csv provides CSV export for enumerated sequence results
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
)

// ExportHeader matches the column layout of the original desktop
// application's workbook export.
var ExportHeader = []string{
	"Predicted compound",
	"Pre-derivatization molecular formula",
	"Post-derivatization molecular formula",
	"Calculated mass",
	"Theoretical m/z",
}

// Writer streams sequence entries as CSV rows.
type Writer struct {
	csv      *csv.Writer
	decimals int
	rows     int
}

// NewWriter creates a CSV writer and emits the header row. Masses are
// rendered with the given number of decimal places.
func NewWriter(w io.Writer, decimals int) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{csv: cw, decimals: decimals}, nil
}

// WriteEntry writes a single sequence entry as a row.
func (w *Writer) WriteEntry(entry *enumerate.SequenceEntry) error {
	row := []string{
		entry.Name(),
		entry.Formula.Hill(),
		entry.FinalFormula.Hill(),
		fmt.Sprintf("%.*f", w.decimals, entry.Mass),
		fmt.Sprintf("%.*f", w.decimals, entry.MZ),
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of entry rows written, excluding the header.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes any buffered rows to the underlying stream.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
