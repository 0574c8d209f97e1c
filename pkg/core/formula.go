// Package core provides molecular formula arithmetic and mass calculations
// for oligosaccharide sequence prediction.
package core

import (
	"fmt"
	"sort"
	"strings"
)

// Composition maps element symbols to atom counts. Entries are always
// positive; operations that would produce a zero count prune the entry, and
// operations that would produce a negative count fail. Every operation
// returns a fresh map and never mutates its inputs.
type Composition map[string]int

// validSymbol reports whether s matches the element symbol grammar:
// one uppercase letter followed by any number of lowercase letters.
func validSymbol(s string) bool {
	if len(s) == 0 || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// ParseFormula parses a molecular formula string into a Composition.
// Tokens are an element symbol ([A-Z][a-z]*) followed by an optional count
// ([0-9]+, count 1 implied if absent). Repeated symbols sum their counts.
// Whitespace is ignored. An empty string parses to the empty Composition.
func ParseFormula(text string) (Composition, error) {
	cleaned := strings.Join(strings.Fields(text), "")
	counts := Composition{}

	i := 0
	for i < len(cleaned) {
		if cleaned[i] < 'A' || cleaned[i] > 'Z' {
			return nil, &FormatError{
				Input:   text,
				Message: fmt.Sprintf("invalid token %q at position %d", snippet(cleaned, i), i),
			}
		}

		start := i
		i++
		for i < len(cleaned) && cleaned[i] >= 'a' && cleaned[i] <= 'z' {
			i++
		}
		symbol := cleaned[start:i]

		count := 1
		if i < len(cleaned) && cleaned[i] >= '0' && cleaned[i] <= '9' {
			digitStart := i
			for i < len(cleaned) && cleaned[i] >= '0' && cleaned[i] <= '9' {
				i++
			}
			count = 0
			for _, d := range cleaned[digitStart:i] {
				count = count*10 + int(d-'0')
			}
			if count == 0 {
				return nil, &FormatError{
					Input:   text,
					Message: fmt.Sprintf("element '%s' has a zero count", symbol),
				}
			}
		}

		counts[symbol] += count
	}

	return counts, nil
}

// snippet returns the next few characters of s starting at pos, for error
// messages.
func snippet(s string, pos int) string {
	end := pos + 5
	if end > len(s) {
		end = len(s)
	}
	return s[pos:end]
}

// SumFormulas parses each formula string and adds the results atom-wise.
// An empty input yields the empty Composition.
func SumFormulas(formulas []string) (Composition, error) {
	total := Composition{}
	for _, f := range formulas {
		parsed, err := ParseFormula(f)
		if err != nil {
			return nil, err
		}
		total = total.Add(parsed)
	}
	return total, nil
}

// Add returns a new Composition with the counts of both compositions summed.
func (c Composition) Add(other Composition) Composition {
	result := make(Composition, len(c)+len(other))
	for symbol, count := range c {
		result[symbol] = count
	}
	for symbol, count := range other {
		result[symbol] += count
		if result[symbol] == 0 {
			delete(result, symbol)
		}
	}
	return result
}

// Scale returns a new Composition with all counts multiplied by factor.
// A zero factor yields the empty Composition.
func (c Composition) Scale(factor int) (Composition, error) {
	if factor < 0 {
		return nil, &ChemistryError{Message: fmt.Sprintf("scale factor must be non-negative, got %d", factor)}
	}
	result := make(Composition, len(c))
	if factor == 0 {
		return result, nil
	}
	for symbol, count := range c {
		result[symbol] = count * factor
	}
	return result, nil
}

// Dehydrate returns a new Composition with n water equivalents (n×2 H,
// n×1 O) removed. It fails if the composition lacks the hydrogen or oxygen
// to support the requested number of condensation events.
func Dehydrate(c Composition, n int) (Composition, error) {
	if n < 0 {
		return nil, &ChemistryError{Message: fmt.Sprintf("dehydration count must be non-negative, got %d", n)}
	}

	result := make(Composition, len(c))
	for symbol, count := range c {
		result[symbol] = count
	}
	if n == 0 {
		return result, nil
	}

	result["H"] -= 2 * n
	result["O"] -= n

	for _, symbol := range []string{"H", "O"} {
		if result[symbol] < 0 {
			return nil, &ChemistryError{
				Message: fmt.Sprintf("removing %d H2O leaves %s=%d", n, symbol, result[symbol]),
			}
		}
		if result[symbol] == 0 {
			delete(result, symbol)
		}
	}

	return result, nil
}

// AddModifier parses the modifier formula and adds it atom-wise. The caller
// applies a modifier exactly once per sequence regardless of length.
func AddModifier(c Composition, modifier string) (Composition, error) {
	parsed, err := ParseFormula(modifier)
	if err != nil {
		return nil, err
	}
	return c.Add(parsed), nil
}

// Hill serializes the composition in Hill notation: carbon first, then
// hydrogen, then all remaining elements alphabetically. A count of 1 is
// omitted. The empty Composition renders as the empty string, so every
// rendered formula round-trips through ParseFormula.
func (c Composition) Hill() string {
	symbols := make([]string, 0, len(c))
	for symbol, count := range c {
		if count != 0 {
			symbols = append(symbols, symbol)
		}
	}

	rank := func(symbol string) int {
		switch symbol {
		case "C":
			return 0
		case "H":
			return 1
		default:
			return 2
		}
	}
	sort.Slice(symbols, func(i, j int) bool {
		ri, rj := rank(symbols[i]), rank(symbols[j])
		if ri != rj {
			return ri < rj
		}
		return symbols[i] < symbols[j]
	})

	var b strings.Builder
	for _, symbol := range symbols {
		b.WriteString(symbol)
		if count := c[symbol]; count != 1 {
			fmt.Fprintf(&b, "%d", count)
		}
	}
	return b.String()
}

// Equal reports whether two compositions have identical atom counts,
// ignoring zero entries.
func (c Composition) Equal(other Composition) bool {
	for symbol, count := range c {
		if count != 0 && other[symbol] != count {
			return false
		}
	}
	for symbol, count := range other {
		if count != 0 && c[symbol] != count {
			return false
		}
	}
	return true
}
