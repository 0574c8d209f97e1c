package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
	"github.com/ChrisMcGann/glycoenum/pkg/reader/units"
	"github.com/ChrisMcGann/glycoenum/pkg/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate the full reference result set as chunked CSV files",
	Long: `Generate every sequence arrangement over the unit catalog for each total
length in the configured range, streaming rows into chunked CSV files with a
JSON manifest. This reproduces the original reference workbook output and may
take a long time and produce large files for wide ranges.

Examples:
  # Default catalog, 2-10 total units, derivatized
  glycoenum summary --out-dir ./reference --modifier C20H18N4O

  # Smaller range with custom chunking
  glycoenum summary --out-dir ./reference --min-total 2 --max-total 5 --rows-per-file 100000`,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	catalog, err := buildCatalog(settings)
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

	fmt.Printf("Generating summary for %d-%d total units over %d unit kinds...\n",
		summaryMin, summaryMax, catalog.Len())

	manifest, err := summary.Generate(summary.Options{
		Units:       catalog.Definitions(),
		Modifier:    mod,
		Model:       model,
		Adduct:      settings.Adduct,
		MinTotal:    summaryMin,
		MaxTotal:    summaryMax,
		Decimals:    settings.Decimals,
		RowsPerFile: rowsPerFile,
		OutputDir:   summaryDir,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %d file(s) with %d total rows in %s\n",
		len(manifest.Files), manifest.TotalRows, summaryDir)
	return nil
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the active unit catalog",
	Long:  `Print every unit in the active catalog with its formula, monoisotopic unit mass, and in-chain residue mass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := units.DefaultCatalog()

		model, err := core.ResolveMassModel("monoisotopic", nil)
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %-14s %14s %14s\n", "Unit", "Formula", "Mass", "Residue")
		for _, unit := range catalog.Definitions() {
			comp, err := core.ParseFormula(unit.Formula)
			if err != nil {
				return err
			}
			mass, err := model.CompositionMass(comp)
			if err != nil {
				return err
			}
			residue, err := catalog.ResidueMass(unit.Name, model)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s %-14s %14.6f %14.6f\n", unit.Name, unit.Formula, mass, residue)
		}
		return nil
	},
}
