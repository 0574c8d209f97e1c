package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/glycoenum/pkg/config"
	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
	"github.com/ChrisMcGann/glycoenum/pkg/filter"
	"github.com/ChrisMcGann/glycoenum/pkg/reader/units"
	csvwriter "github.com/ChrisMcGann/glycoenum/pkg/writer/csv"
	"github.com/ChrisMcGann/glycoenum/pkg/writer/sqlite"
)

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Enumerate unique sequence arrangements with formulas and masses",
	Long: `Enumerate every distinct order-sensitive arrangement of the supplied unit
multiset, compute condensed and derivatized molecular formulas, and report
theoretical masses.

Examples:
  # All arrangements of two Hex and one pent, CSV to stdout
  glycoenum enumerate --units Hex=2,pent=1

  # Derivatized, protonated, written to SQLite
  glycoenum enumerate --units Hex=2,HexNAc=1 --modifier C20H18N4O --adduct [M+H]+ --out results.db

  # Length range over unlimited units with a row cap
  glycoenum enumerate --units Hex=*,pent=* --min-length 2 --max-length 4 --row-cap 1000 --out results.csv`,
	RunE: runEnumerate,
}

// entryWriter is the surface shared by the CSV and SQLite writers.
type entryWriter interface {
	WriteEntry(*enumerate.SequenceEntry) error
	Rows() int
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	catalog, err := buildCatalog(settings)
	if err != nil {
		return err
	}

	counts := settings.UnitCounts()
	if unitSpec != "" {
		counts, err = units.ParseCountSpec(unitSpec)
		if err != nil {
			return err
		}
	}
	if len(counts) == 0 {
		return fmt.Errorf("no units selected: pass --units or configure counts in the settings file")
	}

	nmin, nmax, err := resolveLengths(settings, counts)
	if err != nil {
		return err
	}

	model, err := core.ResolveMassModel(settings.MassModel, settings.Overrides)
	if err != nil {
		return err
	}

	var mod *enumerate.Modifier
	if settings.Modifier != "" {
		mod = &enumerate.Modifier{Formula: settings.Modifier}
	}

	en, err := enumerate.NewEnumerator(enumerate.Request{
		Units:     catalog.Definitions(),
		Counts:    counts,
		MinLength: nmin,
		MaxLength: nmax,
		Modifier:  mod,
		Model:     model,
		Adduct:    settings.Adduct,
		Filters:   settings.Filters,
		RowCap:    settings.RowCap,
	})
	if err != nil {
		return err
	}

	postFilter := &filter.Config{MinMass: minMass, MaxMass: maxMass}

	// Progress goes to stdout only when results go to a file, so piped CSV
	// output stays clean.
	if outputFile != "" {
		fmt.Printf("Enumerating to %s...\n", outputFile)
		fmt.Printf("Mass model: %s\n", settings.MassModel)
		fmt.Printf("Adduct: %s\n", displayAdduct(settings.Adduct))
		if settings.Modifier != "" {
			fmt.Printf("Modifier: %s\n", settings.Modifier)
		}
		fmt.Printf("Length range: %d-%d\n", nmin, nmax)
		fmt.Printf("Possible arrangements: %s\n", enumerate.TotalCount(counts, nmin, nmax))
	}

	format, err := resolveFormat(outputFile)
	if err != nil {
		return err
	}

	switch format {
	case "sqlite":
		if outputFile == "" {
			return fmt.Errorf("sqlite output requires --out")
		}
		return writeSQLite(en, postFilter, settings, nmin, nmax)
	default:
		return writeCSV(en, postFilter, settings)
	}
}

// loadSettings reads the optional settings file and layers changed flags on
// top.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := config.Load(configFile)
	if err != nil {
		return settings, err
	}

	if cmd.Flags().Changed("mass-model") || settings.MassModel == "" {
		settings.MassModel = massModel
	}
	if cmd.Flags().Changed("adduct") || settings.Adduct == "" {
		settings.Adduct = adduct
	}
	if cmd.Flags().Changed("modifier") {
		settings.Modifier = modifier
	}
	if cmd.Flags().Changed("decimals") {
		settings.Decimals = decimals
	}
	if cmd.Flags().Changed("min-length") {
		settings.MinLength = minLength
	}
	if cmd.Flags().Changed("max-length") {
		settings.MaxLength = maxLength
	}
	if cmd.Flags().Changed("filter") {
		settings.Filters = filters
	}
	if cmd.Flags().Changed("row-cap") {
		settings.RowCap = rowCap
	}

	if len(overrides) > 0 {
		if settings.Overrides == nil {
			settings.Overrides = make(map[string]float64, len(overrides))
		}
		for _, pair := range overrides {
			symbol, value, found := strings.Cut(pair, "=")
			if !found {
				return settings, fmt.Errorf("invalid override %q, expected Symbol=mass", pair)
			}
			mass, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return settings, fmt.Errorf("invalid override mass in %q: %w", pair, err)
			}
			settings.Overrides[config.CanonicalSymbol(strings.TrimSpace(symbol))] = mass
		}
	}

	return settings, settings.Validate()
}

// buildCatalog starts from the built-in monosaccharide catalog and layers
// CSV and settings-file definitions on top.
func buildCatalog(settings config.Settings) (*units.Catalog, error) {
	catalog := units.DefaultCatalog()

	if unitsCSV != "" {
		f, err := os.Open(unitsCSV)
		if err != nil {
			return nil, fmt.Errorf("failed to open units CSV: %w", err)
		}
		defer f.Close()
		if err := catalog.LoadFromCSV(f); err != nil {
			return nil, err
		}
	}

	for _, u := range settings.Units {
		if err := catalog.Add(u.Name, u.Formula); err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Name, err)
		}
	}

	return catalog, nil
}

// resolveLengths fills unset length bounds from the total available units,
// the original application's behavior of consuming the whole multiset.
func resolveLengths(settings config.Settings, counts map[string]int) (int, int, error) {
	nmin, nmax := settings.MinLength, settings.MaxLength
	if nmin > 0 && nmax > 0 {
		return nmin, nmax, nil
	}

	total := 0
	for _, count := range counts {
		if count == enumerate.Unlimited {
			return 0, 0, fmt.Errorf("unlimited unit counts require an explicit --min-length and --max-length")
		}
		total += count
	}
	if nmin == 0 {
		nmin = total
	}
	if nmax == 0 {
		nmax = total
	}
	return nmin, nmax, nil
}

// resolveFormat picks the output format from the flag or the file extension.
func resolveFormat(path string) (string, error) {
	if outputFmt != "" {
		format := strings.ToLower(outputFmt)
		if format != "csv" && format != "sqlite" {
			return "", fmt.Errorf("invalid output format %q, must be csv or sqlite", outputFmt)
		}
		return format, nil
	}
	if path == "" {
		return "csv", nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv", nil
	case ".db", ".sqlite":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("cannot auto-detect format from extension %q, please specify --format", filepath.Ext(path))
	}
}

func displayAdduct(adduct string) string {
	if strings.TrimSpace(adduct) == "" {
		return "neutral"
	}
	return adduct
}

func writeCSV(en *enumerate.Enumerator, postFilter *filter.Config, settings config.Settings) error {
	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := csvwriter.NewWriter(out, settings.Decimals)
	if err != nil {
		return err
	}
	if err := drainTo(en, w, postFilter); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if outputFile != "" {
		fmt.Printf("Wrote %d rows to %s\n", w.Rows(), outputFile)
	}
	return nil
}

func writeSQLite(en *enumerate.Enumerator, postFilter *filter.Config, settings config.Settings, nmin, nmax int) error {
	w, err := sqlite.NewWriter(outputFile)
	if err != nil {
		return err
	}
	if err := drainTo(en, w, postFilter); err != nil {
		w.Close()
		return err
	}

	rows := w.Rows()
	if err := w.Finalize(sqlite.RunInfo{
		MassModel: settings.MassModel,
		Adduct:    settings.Adduct,
		Modifier:  settings.Modifier,
		MinLength: nmin,
		MaxLength: nmax,
		Decimals:  settings.Decimals,
	}); err != nil {
		return err
	}

	fmt.Printf("Wrote %d rows to %s\n", rows, outputFile)
	return nil
}

func drainTo(en *enumerate.Enumerator, w entryWriter, postFilter *filter.Config) error {
	for en.Next() {
		entry := en.Entry()
		if !postFilter.Keep(entry) {
			continue
		}
		if err := w.WriteEntry(entry); err != nil {
			return err
		}
	}
	return en.Err()
}
