// Package config is for run settings unmarshalled from Viper (see: /cmd)
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
)

// UnitSetting is one unit definition in the settings file, with an optional
// available count for enumeration.
type UnitSetting struct {
	// the unit name, e.g. "Hex"
	Name string `mapstructure:"name"`

	// the unit molecular formula, e.g. "C6H12O6"
	Formula string `mapstructure:"formula"`

	// available count; 0 omits the unit, -1 means unlimited
	Count int `mapstructure:"count"`
}

// Settings is the root-level settings struct and is a mix of settings
// available in a TOML settings file and those available from the command
// line.
type Settings struct {
	// the atomic mass table to use: monoisotopic or average
	MassModel string `mapstructure:"mass-model"`

	// per-element atomic mass overrides
	Overrides map[string]float64 `mapstructure:"overrides"`

	// ionization adduct expression, e.g. "[M+H]+"; empty means neutral
	Adduct string `mapstructure:"adduct"`

	// terminal modifier formula added once per sequence
	Modifier string `mapstructure:"modifier"`

	// inclusive bounds on total units per sequence; 0 means "use the total
	// available unit count", matching the original application which always
	// consumed the full multiset
	MinLength int `mapstructure:"min-length"`
	MaxLength int `mapstructure:"max-length"`

	// substring filters on the rendered sequence name, ANDed
	Filters []string `mapstructure:"filters"`

	// hard cap on emitted rows; 0 means no cap
	RowCap int `mapstructure:"row-cap"`

	// decimal places for exported masses
	Decimals int `mapstructure:"decimals"`

	// unit definitions with available counts
	Units []UnitSetting `mapstructure:"unit"`
}

// DefaultSettings mirrors the defaults of the original desktop application:
// monoisotopic masses, neutral adduct, four decimal places, and sequences
// consuming the full unit multiset.
func DefaultSettings() Settings {
	return Settings{
		MassModel: "monoisotopic",
		Adduct:    "neutral",
		Decimals:  4,
	}
}

// Load reads a TOML settings file into Settings layered over the defaults.
// An empty path returns the defaults untouched.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return s, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings file: %w", err)
	}

	// Viper lowercases map keys, so element symbols arrive as "na" or "c".
	// Restore canonical symbol casing before they reach the mass model.
	if len(s.Overrides) > 0 {
		fixed := make(map[string]float64, len(s.Overrides))
		for symbol, mass := range s.Overrides {
			fixed[CanonicalSymbol(symbol)] = mass
		}
		s.Overrides = fixed
	}

	return s, nil
}

// CanonicalSymbol restores element symbol casing: first letter upper, rest
// lower.
func CanonicalSymbol(symbol string) string {
	if symbol == "" {
		return symbol
	}
	return strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:])
}

// UnitDefinitions converts the configured units to enumerator definitions.
func (s Settings) UnitDefinitions() []enumerate.UnitDefinition {
	defs := make([]enumerate.UnitDefinition, 0, len(s.Units))
	for _, u := range s.Units {
		defs = append(defs, enumerate.UnitDefinition{Name: u.Name, Formula: u.Formula})
	}
	return defs
}

// UnitCounts converts the configured units to the enumerator's multiset,
// dropping zero counts.
func (s Settings) UnitCounts() map[string]int {
	counts := make(map[string]int, len(s.Units))
	for _, u := range s.Units {
		if u.Count != 0 {
			counts[u.Name] = u.Count
		}
	}
	return counts
}

// Validate checks the settings that the core packages do not check
// themselves.
func (s Settings) Validate() error {
	if s.Decimals < 0 {
		return &core.ConfigurationError{Message: fmt.Sprintf("decimals must be non-negative, got %d", s.Decimals)}
	}
	if s.RowCap < 0 {
		return &core.ConfigurationError{Message: fmt.Sprintf("row cap must be non-negative, got %d", s.RowCap)}
	}
	for _, u := range s.Units {
		if u.Name == "" {
			return &core.ConfigurationError{Message: "unit with empty name in settings"}
		}
		if u.Formula == "" {
			return &core.ConfigurationError{Message: fmt.Sprintf("unit %q has no formula", u.Name)}
		}
	}
	return nil
}
