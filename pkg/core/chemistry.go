package core

import (
	"fmt"
	"math"
	"strings"
)

// Proton mass for m/z calculations
const ProtonMass = 1.00727646688

// monoisotopicMasses is the built-in monoisotopic atomic mass table.
var monoisotopicMasses = map[string]float64{
	"C":  12.0000000000,
	"H":  1.0078250321,
	"N":  14.0030740052,
	"O":  15.9949146221,
	"S":  31.9720706900,
	"P":  30.9737615100,
	"Na": 22.9897692820,
}

// averageMasses is the built-in average atomic mass table.
var averageMasses = map[string]float64{
	"C":  12.0107,
	"H":  1.00794,
	"N":  14.0067,
	"O":  15.9994,
	"S":  32.065,
	"P":  30.973762,
	"Na": 22.98976928,
}

// MassModel is a named atomic mass table. It is immutable after resolution;
// ResolveMassModel copies the built-in table before applying overrides, so
// independent enumerations never observe each other's overrides.
type MassModel struct {
	name   string
	masses map[string]float64
}

// ResolveMassModel looks up a built-in mass table ("monoisotopic" or
// "average", case-insensitive) and merges per-element overrides on top.
// Overrides replace entries rather than summing with them.
func ResolveMassModel(name string, overrides map[string]float64) (*MassModel, error) {
	var builtin map[string]float64
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monoisotopic":
		builtin = monoisotopicMasses
	case "average":
		builtin = averageMasses
	default:
		return nil, &ConfigurationError{Message: fmt.Sprintf("unknown mass model %q", name)}
	}

	masses := make(map[string]float64, len(builtin)+len(overrides))
	for symbol, mass := range builtin {
		masses[symbol] = mass
	}
	for symbol, mass := range overrides {
		if !validSymbol(symbol) {
			return nil, &ConfigurationError{Message: fmt.Sprintf("override %q is not a valid element symbol", symbol)}
		}
		if mass <= 0 {
			return nil, &ConfigurationError{Message: fmt.Sprintf("override mass for '%s' must be positive, got %g", symbol, mass)}
		}
		masses[symbol] = mass
	}

	return &MassModel{name: name, masses: masses}, nil
}

// Name returns the model name the table was resolved from.
func (m *MassModel) Name() string {
	return m.name
}

// Mass returns the atomic mass for an element symbol.
func (m *MassModel) Mass(symbol string) (float64, bool) {
	mass, ok := m.masses[symbol]
	return mass, ok
}

// CompositionMass computes the molecular mass of a composition under this
// model. An element missing from the table fails the whole computation; a
// partial mass is never returned.
func (m *MassModel) CompositionMass(c Composition) (float64, error) {
	total := 0.0
	for symbol, count := range c {
		mass, ok := m.masses[symbol]
		if !ok {
			return 0, &MissingMassError{Symbol: symbol, Model: m.name}
		}
		total += mass * float64(count)
	}
	return total, nil
}

// ApplyAdduct applies an ionization adduct expression to a neutral mass.
// Supported forms are the neutral passthrough ("" or "neutral") and
// single-charge [M+Fragment]+ / [M-Fragment]- expressions where Fragment is
// a molecular formula weighed against this model, covering [M+H]+, [M+Na]+
// and [M-H]-. Multi-charge suffixes are rejected.
func (m *MassModel) ApplyAdduct(base float64, adduct string) (float64, error) {
	text := strings.TrimSpace(adduct)
	if text == "" || strings.EqualFold(text, "neutral") {
		return base, nil
	}

	if len(text) < 6 || text[0] != '[' || (text[1] != 'M' && text[1] != 'm') {
		return 0, &FormatError{Input: adduct, Message: "unsupported adduct expression"}
	}
	closing := strings.IndexByte(text, ']')
	if closing < 0 || closing != len(text)-2 {
		return 0, &FormatError{Input: adduct, Message: "unsupported adduct expression"}
	}
	charge := text[len(text)-1]
	if charge != '+' && charge != '-' {
		return 0, &FormatError{Input: adduct, Message: "adduct charge must be '+' or '-'"}
	}

	sign := text[2]
	if sign != '+' && sign != '-' {
		return 0, &FormatError{Input: adduct, Message: "adduct must add or remove a fragment"}
	}
	fragmentText := text[3:closing]
	if fragmentText == "" {
		return 0, &FormatError{Input: adduct, Message: "adduct fragment is empty"}
	}

	fragment, err := ParseFormula(fragmentText)
	if err != nil {
		return 0, &FormatError{Input: adduct, Message: fmt.Sprintf("invalid adduct fragment %q", fragmentText)}
	}
	fragmentMass, err := m.CompositionMass(fragment)
	if err != nil {
		return 0, err
	}

	if sign == '+' {
		return base + fragmentMass, nil
	}
	return base - fragmentMass, nil
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
