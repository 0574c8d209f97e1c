// Package cmd provides CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Flags shared by the enumerate and summary commands
	configFile string
	unitsCSV   string
	massModel  string
	overrides  []string
	adduct     string
	modifier   string
	decimals   int

	// Flags for the enumerate command
	unitSpec   string
	minLength  int
	maxLength  int
	filters    []string
	rowCap     int
	outputFile string
	outputFmt  string
	minMass    float64
	maxMass    float64

	// Flags for the summary command
	summaryDir  string
	summaryMin  int
	summaryMax  int
	rowsPerFile int
)

var rootCmd = &cobra.Command{
	Use:   "glycoenum",
	Short: "glycoenum - Oligosaccharide sequence prediction tool",
	Long: `glycoenum enumerates every unique order-sensitive arrangement of a set of
monosaccharide units, applies condensation and terminal derivatization
chemistry, and reports canonical molecular formulas and theoretical masses.

Fast, streaming enumeration with support for:
- Custom unit catalogs (CSV or TOML settings file)
- Monoisotopic and average mass models with per-element overrides
- Ionization adducts ([M+H]+, [M+Na]+, [M-H]-)
- Sequence name filters, mass windows, and row caps
- CSV and SQLite export`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(enumerateCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(unitsCmd)

	for _, c := range []*cobra.Command{enumerateCmd, summaryCmd} {
		c.Flags().StringVarP(&configFile, "config", "c", "", "TOML settings file")
		c.Flags().StringVar(&unitsCSV, "units-csv", "", "CSV file of unit definitions (name,formula)")
		c.Flags().StringVar(&massModel, "mass-model", "monoisotopic", "Mass model: monoisotopic or average")
		c.Flags().StringSliceVar(&overrides, "override", nil, "Atomic mass override as Symbol=mass (repeatable)")
		c.Flags().StringVar(&adduct, "adduct", "neutral", "Ionization adduct: neutral, [M+H]+, [M+Na]+, [M-H]-")
		c.Flags().StringVar(&modifier, "modifier", "", "Terminal modifier formula applied once per sequence")
		c.Flags().IntVar(&decimals, "decimals", 4, "Decimal places for exported masses")
	}

	enumerateCmd.Flags().StringVarP(&unitSpec, "units", "u", "", "Unit multiset, e.g. 'Hex=2,pent=1' or 'Hex=*' for unlimited")
	enumerateCmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum total units per sequence (default: sum of counts)")
	enumerateCmd.Flags().IntVar(&maxLength, "max-length", 0, "Maximum total units per sequence (default: sum of counts)")
	enumerateCmd.Flags().StringSliceVar(&filters, "filter", nil, "Keep only sequences whose name contains this substring (repeatable, ANDed)")
	enumerateCmd.Flags().IntVar(&rowCap, "row-cap", 0, "Stop after this many emitted rows (0 = no cap)")
	enumerateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (.csv or .db; stdout CSV if omitted)")
	enumerateCmd.Flags().StringVarP(&outputFmt, "format", "f", "", "Output format: csv or sqlite (auto-detect from extension if not specified)")
	enumerateCmd.Flags().Float64Var(&minMass, "min-mass", 0, "Keep only sequences at or above this mass")
	enumerateCmd.Flags().Float64Var(&maxMass, "max-mass", 0, "Keep only sequences at or below this mass")

	summaryCmd.Flags().StringVarP(&summaryDir, "out-dir", "d", ".", "Directory for summary chunk files and manifest")
	summaryCmd.Flags().IntVar(&summaryMin, "min-total", 2, "Minimum total units")
	summaryCmd.Flags().IntVar(&summaryMax, "max-total", 10, "Maximum total units")
	summaryCmd.Flags().IntVar(&rowsPerFile, "rows-per-file", 0, "Rows per chunk file (default: spreadsheet row limit)")
}
