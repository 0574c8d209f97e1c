// Package filter provides post-enumeration result filtering
package filter

import (
	"strings"

	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
)

// Config holds filtering configuration applied to enumerated sequences
// before they reach a writer. Substring filters and the row cap belong to
// the enumerator itself; this layer covers the export-side conditions.
type Config struct {
	MinMass         float64  // Keep only entries at or above this mass (0 = no bound)
	MaxMass         float64  // Keep only entries at or below this mass (0 = no bound)
	FormulaContains []string // Keep only entries whose final formula contains all substrings
}

// Keep reports whether an entry passes every configured condition.
func (c *Config) Keep(entry *enumerate.SequenceEntry) bool {
	if c.MinMass > 0 && entry.Mass < c.MinMass {
		return false
	}
	if c.MaxMass > 0 && entry.Mass > c.MaxMass {
		return false
	}
	if len(c.FormulaContains) > 0 {
		formula := entry.FinalFormula.Hill()
		for _, want := range c.FormulaContains {
			if !strings.Contains(formula, want) {
				return false
			}
		}
	}
	return true
}

// Empty reports whether the config filters nothing.
func (c *Config) Empty() bool {
	return c.MinMass == 0 && c.MaxMass == 0 && len(c.FormulaContains) == 0
}
