package summary

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
	csvwriter "github.com/ChrisMcGann/glycoenum/pkg/writer/csv"
)

func testOptions(t *testing.T, dir string) Options {
	t.Helper()
	model, err := core.ResolveMassModel("monoisotopic", nil)
	require.NoError(t, err)
	return Options{
		Units: []enumerate.UnitDefinition{
			{Name: "Hex", Formula: "C6H12O6"},
			{Name: "Pent", Formula: "C5H10O5"},
		},
		Modifier:  &enumerate.Modifier{Formula: "C18H22N2O6"},
		Model:     model,
		Adduct:    "neutral",
		MinTotal:  1,
		MaxTotal:  2,
		Decimals:  4,
		OutputDir: dir,
		Basename:  "summary",
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	manifest, err := Generate(testOptions(t, dir))
	require.NoError(t, err)

	// Two kinds: 2 sequences of length 1 plus 4 of length 2.
	assert.Equal(t, 6, manifest.TotalRows)
	assert.Equal(t, []string{"summary.csv"}, manifest.Files)
	assert.Equal(t, [2]int{1, 2}, manifest.UnitRange)
	assert.Equal(t, "monoisotopic", manifest.MassModel)

	rows := readRows(t, filepath.Join(dir, "summary.csv"))
	require.Len(t, rows, 7)
	assert.Equal(t, csvwriter.ExportHeader, rows[0])

	names := map[string]bool{}
	for _, row := range rows[1:] {
		require.Len(t, row, 5)
		names[row[0]] = true
	}
	for _, want := range []string{"Hex", "Pent", "Hex-Hex", "Hex-Pent", "Pent-Hex", "Pent-Pent"} {
		assert.True(t, names[want], "missing sequence %q", want)
	}

	// Manifest file round-trips.
	data, err := os.ReadFile(filepath.Join(dir, "summary_manifest.json"))
	require.NoError(t, err)
	var onDisk Manifest
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, *manifest, onDisk)
}

func TestGenerateChunking(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(t, dir)
	opts.RowsPerFile = 4

	manifest, err := Generate(opts)
	require.NoError(t, err)

	assert.Equal(t, 6, manifest.TotalRows)
	assert.Equal(t, []string{"summary.csv", "summary_part2.csv"}, manifest.Files)

	first := readRows(t, filepath.Join(dir, "summary.csv"))
	second := readRows(t, filepath.Join(dir, "summary_part2.csv"))
	assert.Len(t, first, 5)  // header + 4 rows
	assert.Len(t, second, 3) // header + 2 rows
	assert.Equal(t, csvwriter.ExportHeader, second[0])
}

func TestGenerateValidation(t *testing.T) {
	dir := t.TempDir()

	opts := testOptions(t, dir)
	opts.Model = nil
	_, err := Generate(opts)
	var confErr *core.ConfigurationError
	require.ErrorAs(t, err, &confErr)

	opts = testOptions(t, dir)
	opts.MinTotal = 3
	opts.MaxTotal = 2
	_, err = Generate(opts)
	require.ErrorAs(t, err, &confErr)

	opts = testOptions(t, dir)
	opts.Units = nil
	_, err = Generate(opts)
	require.ErrorAs(t, err, &confErr)
}

func TestForEachCountVector(t *testing.T) {
	var vectors [][]int
	err := forEachCountVector(2, 3, func(v []int) error {
		vectors = append(vectors, append([]int(nil), v...))
		return nil
	})
	require.NoError(t, err)

	// C(2+3-1, 3-1) = 6 weak compositions of 2 into 3 parts.
	assert.Len(t, vectors, 6)
	for _, v := range vectors {
		sum := 0
		for _, x := range v {
			sum += x
		}
		assert.Equal(t, 2, sum, "vector %v", v)
	}
}
