package core

import (
	"errors"
	"math"
	"testing"
)

func TestCompositionMass(t *testing.T) {
	tests := []struct {
		name      string
		formula   string
		model     string
		wantMass  float64
		tolerance float64
	}{
		{
			name:      "water monoisotopic",
			formula:   "H2O",
			model:     "monoisotopic",
			wantMass:  18.0105646863,
			tolerance: 1e-9,
		},
		{
			name:      "hexose monoisotopic",
			formula:   "C6H12O6",
			model:     "monoisotopic",
			wantMass:  180.0633881178,
			tolerance: 1e-9,
		},
		{
			name:      "water average",
			formula:   "H2O",
			model:     "average",
			wantMass:  18.01528,
			tolerance: 1e-4,
		},
		{
			name:      "empty composition",
			formula:   "",
			model:     "monoisotopic",
			wantMass:  0,
			tolerance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := ResolveMassModel(tt.model, nil)
			if err != nil {
				t.Fatalf("ResolveMassModel() error: %v", err)
			}
			comp, err := ParseFormula(tt.formula)
			if err != nil {
				t.Fatalf("ParseFormula() error: %v", err)
			}
			got, err := model.CompositionMass(comp)
			if err != nil {
				t.Fatalf("CompositionMass() error: %v", err)
			}
			if math.Abs(got-tt.wantMass) > tt.tolerance {
				t.Errorf("CompositionMass() = %.10f, want %.10f (within %g)", got, tt.wantMass, tt.tolerance)
			}
		})
	}
}

func TestCompositionMassMissingElement(t *testing.T) {
	model, err := ResolveMassModel("monoisotopic", nil)
	if err != nil {
		t.Fatalf("ResolveMassModel() error: %v", err)
	}

	_, err = model.CompositionMass(Composition{"C": 2, "Xe": 1})
	var missing *MissingMassError
	if !errors.As(err, &missing) {
		t.Fatalf("CompositionMass() error = %v, want MissingMassError", err)
	}
	if missing.Symbol != "Xe" {
		t.Errorf("MissingMassError.Symbol = %q, want %q", missing.Symbol, "Xe")
	}
}

func TestResolveMassModel(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		overrides map[string]float64
		wantErr   bool
	}{
		{"monoisotopic", "monoisotopic", nil, false},
		{"average", "average", nil, false},
		{"case insensitive", "Monoisotopic", nil, false},
		{"unknown model", "exact", nil, true},
		{"valid override", "monoisotopic", map[string]float64{"C": 13.0033548378}, false},
		{"new element override", "monoisotopic", map[string]float64{"Cl": 34.96885268}, false},
		{"bad override symbol", "monoisotopic", map[string]float64{"na": 22.99}, true},
		{"non-positive override", "monoisotopic", map[string]float64{"C": 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := ResolveMassModel(tt.model, tt.overrides)
			if tt.wantErr {
				var confErr *ConfigurationError
				if !errors.As(err, &confErr) {
					t.Fatalf("ResolveMassModel() error = %v, want ConfigurationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMassModel() error: %v", err)
			}
			for symbol, want := range tt.overrides {
				got, ok := model.Mass(symbol)
				if !ok || got != want {
					t.Errorf("Mass(%q) = %v, %v; want %v, true", symbol, got, ok, want)
				}
			}
		})
	}
}

func TestResolveMassModelCopiesBuiltins(t *testing.T) {
	overridden, err := ResolveMassModel("monoisotopic", map[string]float64{"C": 13.5})
	if err != nil {
		t.Fatalf("ResolveMassModel() error: %v", err)
	}
	pristine, err := ResolveMassModel("monoisotopic", nil)
	if err != nil {
		t.Fatalf("ResolveMassModel() error: %v", err)
	}

	if got, _ := overridden.Mass("C"); got != 13.5 {
		t.Errorf("overridden Mass(C) = %v, want 13.5", got)
	}
	if got, _ := pristine.Mass("C"); got != 12.0 {
		t.Errorf("pristine Mass(C) = %v, want 12.0 (override leaked into built-in table)", got)
	}
}

func TestApplyAdduct(t *testing.T) {
	model, err := ResolveMassModel("monoisotopic", nil)
	if err != nil {
		t.Fatalf("ResolveMassModel() error: %v", err)
	}

	const base = 656.2428686259
	hMass, _ := model.Mass("H")
	naMass, _ := model.Mass("Na")

	tests := []struct {
		name      string
		adduct    string
		wantMass  float64
		wantErr   bool
		tolerance float64
	}{
		{"empty is neutral", "", base, false, 0},
		{"neutral passthrough", "neutral", base, false, 0},
		{"neutral mixed case", "Neutral", base, false, 0},
		{"protonated", "[M+H]+", base + hMass, false, 1e-9},
		{"sodiated", "[M+Na]+", base + naMass, false, 1e-9},
		{"deprotonated", "[M-H]-", base - hMass, false, 1e-9},
		{"unknown expression", "[M+2H]2+", 0, true, 0},
		{"bare fragment", "M+H", 0, true, 0},
		{"missing charge sign", "[M+H]", 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ApplyAdduct(base, tt.adduct)
			if tt.wantErr {
				var formatErr *FormatError
				if !errors.As(err, &formatErr) {
					t.Fatalf("ApplyAdduct(%q) error = %v, want FormatError", tt.adduct, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyAdduct(%q) error: %v", tt.adduct, err)
			}
			if math.Abs(got-tt.wantMass) > tt.tolerance {
				t.Errorf("ApplyAdduct(%q) = %.10f, want %.10f", tt.adduct, got, tt.wantMass)
			}
		})
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		name      string
		val       float64
		precision int
		want      float64
	}{
		{"round to 2 decimals", 3.14159, 2, 3.14},
		{"round to 4 decimals", 3.14159, 4, 3.1416},
		{"round to 0 decimals", 3.6, 0, 4.0},
		{"round negative", -3.14159, 2, -3.14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundFloat(tt.val, tt.precision)
			if got != tt.want {
				t.Errorf("RoundFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}
