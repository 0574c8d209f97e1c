// Package summary generates the full reference result set: every sequence
// arrangement over the unit catalog for a range of total lengths, streamed
// into chunked CSV files with a JSON manifest.
package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
	csvwriter "github.com/ChrisMcGann/glycoenum/pkg/writer/csv"
)

// DefaultRowsPerFile matches the original workbook chunking limit, one row
// below the spreadsheet row maximum to leave room for the header.
const DefaultRowsPerFile = 1_048_575

// DefaultBasename is the stem used for chunk files and the manifest.
const DefaultBasename = "Oligosaccharide_prediction_summary"

// Options configures a summary run.
type Options struct {
	// Units is the catalog to enumerate over; every unit is available
	// without limit within each total length.
	Units []enumerate.UnitDefinition
	// Modifier is applied once per sequence (empty formula = none).
	Modifier *enumerate.Modifier
	// Model supplies atomic masses.
	Model *core.MassModel
	// Adduct is applied to every mass ("" = neutral).
	Adduct string
	// MinTotal and MaxTotal bound the total units per sequence, inclusive.
	MinTotal int
	MaxTotal int
	// Decimals is the mass precision in exported rows.
	Decimals int
	// RowsPerFile caps entry rows per chunk file; 0 uses DefaultRowsPerFile.
	RowsPerFile int
	// OutputDir receives the chunk files and manifest.
	OutputDir string
	// Basename overrides DefaultBasename when non-empty.
	Basename string
}

// Manifest describes a completed summary run.
type Manifest struct {
	Files       []string `json:"files"`
	TotalRows   int      `json:"total_rows"`
	RowsPerFile int      `json:"rows_per_file"`
	UnitRange   [2]int   `json:"unit_range"`
	MassModel   string   `json:"mass_model"`
	Adduct      string   `json:"adduct"`
	Decimals    int      `json:"decimals"`
}

// Generate enumerates the full composition space and writes chunked CSV
// files plus a manifest into opts.OutputDir. It returns the manifest.
func Generate(opts Options) (*Manifest, error) {
	if opts.Model == nil {
		return nil, &core.ConfigurationError{Message: "a mass model is required"}
	}
	if opts.MinTotal < 1 || opts.MaxTotal < opts.MinTotal {
		return nil, &core.ConfigurationError{Message: fmt.Sprintf("invalid total range [%d, %d]", opts.MinTotal, opts.MaxTotal)}
	}
	if len(opts.Units) == 0 {
		return nil, &core.ConfigurationError{Message: "summary requires at least one unit"}
	}

	rowsPerFile := opts.RowsPerFile
	if rowsPerFile <= 0 {
		rowsPerFile = DefaultRowsPerFile
	}
	basename := opts.Basename
	if basename == "" {
		basename = DefaultBasename
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := make([]string, len(opts.Units))
	for i, u := range opts.Units {
		names[i] = u.Name
	}
	sort.Strings(names)

	chunks := &chunkedWriter{
		dir:         opts.OutputDir,
		basename:    basename,
		rowsPerFile: rowsPerFile,
		decimals:    opts.Decimals,
	}

	for total := opts.MinTotal; total <= opts.MaxTotal; total++ {
		err := forEachCountVector(total, len(names), func(vector []int) error {
			counts := make(map[string]int, len(names))
			for i, count := range vector {
				if count > 0 {
					counts[names[i]] = count
				}
			}
			if len(counts) == 0 {
				return nil
			}
			return streamComposition(counts, total, opts, chunks)
		})
		if err != nil {
			chunks.abort()
			return nil, err
		}
	}

	files, totalRows, err := chunks.finish()
	if err != nil {
		return nil, err
	}
	if totalRows == 0 {
		return nil, &core.ConfigurationError{Message: "no summary data was generated"}
	}

	manifest := &Manifest{
		Files:       files,
		TotalRows:   totalRows,
		RowsPerFile: rowsPerFile,
		UnitRange:   [2]int{opts.MinTotal, opts.MaxTotal},
		MassModel:   opts.Model.Name(),
		Adduct:      opts.Adduct,
		Decimals:    opts.Decimals,
	}
	if err := writeManifest(opts.OutputDir, basename, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// streamComposition emits every arrangement of one count vector.
func streamComposition(counts map[string]int, total int, opts Options, chunks *chunkedWriter) error {
	en, err := enumerate.NewEnumerator(enumerate.Request{
		Units:     opts.Units,
		Counts:    counts,
		MinLength: total,
		MaxLength: total,
		Modifier:  opts.Modifier,
		Model:     opts.Model,
		Adduct:    opts.Adduct,
	})
	if err != nil {
		return err
	}
	for en.Next() {
		if err := chunks.write(en.Entry()); err != nil {
			return err
		}
	}
	return en.Err()
}

// forEachCountVector calls fn with every non-negative integer vector of the
// given dimension summing to total.
func forEachCountVector(total, dimension int, fn func([]int) error) error {
	vector := make([]int, dimension)

	var backtrack func(index, remaining int) error
	backtrack = func(index, remaining int) error {
		if index == dimension-1 {
			vector[index] = remaining
			return fn(vector)
		}
		for value := 0; value <= remaining; value++ {
			vector[index] = value
			if err := backtrack(index+1, remaining-value); err != nil {
				return err
			}
		}
		return nil
	}
	return backtrack(0, total)
}

// chunkedWriter rotates CSV files once a chunk reaches its row limit.
type chunkedWriter struct {
	dir         string
	basename    string
	rowsPerFile int
	decimals    int

	files     []string
	totalRows int

	file    *os.File
	writer  *csvwriter.Writer
	current int // rows in the open chunk
}

// chunkName follows the original naming: first chunk bare, later chunks
// suffixed with _partN.
func (c *chunkedWriter) chunkName(index int) string {
	if index <= 1 {
		return c.basename + ".csv"
	}
	return fmt.Sprintf("%s_part%d.csv", c.basename, index)
}

func (c *chunkedWriter) write(entry *enumerate.SequenceEntry) error {
	if c.writer == nil || c.current >= c.rowsPerFile {
		if err := c.rotate(); err != nil {
			return err
		}
	}
	if err := c.writer.WriteEntry(entry); err != nil {
		return err
	}
	c.current++
	c.totalRows++
	return nil
}

func (c *chunkedWriter) rotate() error {
	if err := c.closeCurrent(); err != nil {
		return err
	}

	name := c.chunkName(len(c.files) + 1)
	file, err := os.Create(filepath.Join(c.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create chunk %s: %w", name, err)
	}
	writer, err := csvwriter.NewWriter(file, c.decimals)
	if err != nil {
		file.Close()
		return err
	}

	c.file = file
	c.writer = writer
	c.current = 0
	c.files = append(c.files, name)
	return nil
}

func (c *chunkedWriter) closeCurrent() error {
	if c.file == nil {
		return nil
	}
	if err := c.writer.Flush(); err != nil {
		c.file.Close()
		return err
	}
	err := c.file.Close()
	c.file = nil
	c.writer = nil
	return err
}

func (c *chunkedWriter) finish() ([]string, int, error) {
	if err := c.closeCurrent(); err != nil {
		return nil, 0, err
	}
	return c.files, c.totalRows, nil
}

func (c *chunkedWriter) abort() {
	if c.file != nil {
		c.file.Close()
	}
}

func writeManifest(dir, basename string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, basename+"_manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
