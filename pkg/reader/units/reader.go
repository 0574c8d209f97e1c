// Package units provides unit-definition catalogs and loaders
package units

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
)

// Catalog stores unit definitions keyed by name.
type Catalog struct {
	units map[string]enumerate.UnitDefinition
}

// NewCatalog creates an empty unit catalog
func NewCatalog() *Catalog {
	return &Catalog{
		units: make(map[string]enumerate.UnitDefinition),
	}
}

// Add adds or replaces a unit definition. The formula must parse.
func (c *Catalog) Add(name, formula string) error {
	if _, err := core.ParseFormula(formula); err != nil {
		return err
	}
	c.units[name] = enumerate.UnitDefinition{Name: name, Formula: formula}
	return nil
}

// Get returns the definition for a unit name.
func (c *Catalog) Get(name string) (enumerate.UnitDefinition, bool) {
	unit, ok := c.units[name]
	return unit, ok
}

// Len returns the number of units in the catalog.
func (c *Catalog) Len() int {
	return len(c.units)
}

// Definitions returns all definitions sorted by name.
func (c *Catalog) Definitions() []enumerate.UnitDefinition {
	names := make([]string, 0, len(c.units))
	for name := range c.units {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]enumerate.UnitDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, c.units[name])
	}
	return defs
}

// LoadFromCSV loads unit definitions from a CSV stream (format:
// name,formula with a header line). Later rows replace earlier ones.
func (c *Catalog) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	if scanner.Scan() {
		// header line
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		name := strings.TrimSpace(parts[0])
		formula := strings.TrimSpace(parts[1])
		if name == "" {
			return fmt.Errorf("line %d: unit name is empty", lineNum)
		}

		if err := c.Add(name, formula); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// ResidueMass returns the monoisotopic-style residue mass of a unit under
// the given model: the unit mass minus one water, the contribution the unit
// makes inside a chain.
func (c *Catalog) ResidueMass(name string, model *core.MassModel) (float64, error) {
	unit, ok := c.units[name]
	if !ok {
		return 0, &core.ConfigurationError{Message: fmt.Sprintf("unknown unit %q", name)}
	}
	comp, err := core.ParseFormula(unit.Formula)
	if err != nil {
		return 0, err
	}
	mass, err := model.CompositionMass(comp)
	if err != nil {
		return 0, err
	}
	water, err := model.CompositionMass(core.Composition{"H": 2, "O": 1})
	if err != nil {
		return 0, err
	}
	return mass - water, nil
}

// DefaultModifier is the terminal derivatization tag the original desktop
// application applied to every sequence.
const DefaultModifier = "C20H18N4O"

// DefaultCatalog returns a Catalog pre-loaded with the six standard
// monosaccharide units.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Add("Hex", "C6H12O6")
	c.Add("deoxyhex", "C6H12O5")
	c.Add("pent", "C5H10O5")
	c.Add("HexN", "C6H13NO5")
	c.Add("UA", "C6H10O7")
	c.Add("HexNAc", "C8H15NO6")

	return c
}

// ParseCountSpec parses a command-line multiset spec like "Hex=2,pent=1"
// into a count map. A bare name means count 1; "name=*" means unlimited.
func ParseCountSpec(spec string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, found := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid unit spec %q: empty unit name", part)
		}
		if !found {
			counts[name]++
			continue
		}

		value = strings.TrimSpace(value)
		if value == "*" {
			counts[name] = enumerate.Unlimited
			continue
		}
		count, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid count %q for unit %q: %w", value, name, err)
		}
		if count < 0 {
			return nil, fmt.Errorf("unit %q has negative count %d", name, count)
		}
		if count > 0 {
			counts[name] = count
		}
	}
	return counts, nil
}
