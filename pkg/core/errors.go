package core

import "fmt"

// FormatError indicates a malformed formula or adduct string. The offending
// input is reported verbatim.
type FormatError struct {
	Input   string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error in %q: %s", e.Input, e.Message)
}

// ChemistryError indicates an operation that would produce a chemically
// impossible composition, such as removing more water than the available
// hydrogen and oxygen support.
type ChemistryError struct {
	Message string
}

func (e *ChemistryError) Error() string {
	return fmt.Sprintf("chemistry error: %s", e.Message)
}

// ConfigurationError indicates an invalid mass model name, override, or
// enumeration request.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// MissingMassError indicates a composition referencing an element the
// resolved mass model has no entry for.
type MissingMassError struct {
	Symbol string
	Model  string
}

func (e *MissingMassError) Error() string {
	return fmt.Sprintf("mass model %q has no mass for element '%s'", e.Model, e.Symbol)
}
