// Package sqlite provides SQLite database writing for enumerated sequences
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
	_ "github.com/mattn/go-sqlite3"
)

// Date format for HeaderTable (ISO 8601)
const headerDateFormat = "2006-01-02"

// RunInfo records the parameters a result set was generated with.
type RunInfo struct {
	MassModel string
	Adduct    string
	Modifier  string
	MinLength int
	MaxLength int
	Decimals  int
}

// Writer handles writing sequence entries to a SQLite database file
type Writer struct {
	db         *sql.DB
	outputPath string
	entryStmt  *sql.Stmt
	sequenceID int
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		sequenceID: 1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS SequenceTable (
		SequenceId INTEGER PRIMARY KEY,
		Sequence TEXT NOT NULL,
		Length INTEGER NOT NULL,
		Formula TEXT,
		FinalFormula TEXT,
		Mass DOUBLE,
		MZ DOUBLE
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		CreationDate TEXT,
		MassModel TEXT,
		Adduct TEXT,
		Modifier TEXT,
		MinLength INTEGER,
		MaxLength INTEGER,
		Decimals INTEGER,
		RowCount INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.entryStmt, err = w.db.Prepare(`
		INSERT INTO SequenceTable (
			SequenceId, Sequence, Length, Formula, FinalFormula, Mass, MZ
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare sequence statement: %w", err)
	}

	return nil
}

// WriteEntry writes a single sequence entry to the database
func (w *Writer) WriteEntry(entry *enumerate.SequenceEntry) error {
	_, err := w.entryStmt.Exec(
		w.sequenceID,
		entry.Name(),
		len(entry.Units),
		entry.Formula.Hill(),
		entry.FinalFormula.Hill(),
		entry.Mass,
		entry.MZ,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sequence: %w", err)
	}

	w.sequenceID++
	return nil
}

// Rows returns the number of entries written so far.
func (w *Writer) Rows() int {
	return w.sequenceID - 1
}

// Finalize writes the header table and closes the database
func (w *Writer) Finalize(info RunInfo) error {
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (CreationDate, MassModel, Adduct, Modifier, MinLength, MaxLength, Decimals, RowCount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, time.Now().Format(headerDateFormat), info.MassModel, info.Adduct, info.Modifier,
		info.MinLength, info.MaxLength, info.Decimals, w.Rows())
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	if w.entryStmt != nil {
		w.entryStmt.Close()
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database without writing the header table.
func (w *Writer) Close() error {
	if w.entryStmt != nil {
		w.entryStmt.Close()
	}
	return w.db.Close()
}
