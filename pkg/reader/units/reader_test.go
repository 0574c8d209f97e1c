package units

import (
	"math"
	"strings"
	"testing"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
	"github.com/ChrisMcGann/glycoenum/pkg/enumerate"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if c.Len() != 6 {
		t.Fatalf("DefaultCatalog() has %d units, want 6", c.Len())
	}

	hex, ok := c.Get("Hex")
	if !ok {
		t.Fatal("DefaultCatalog() missing Hex")
	}
	if hex.Formula != "C6H12O6" {
		t.Errorf("Hex formula = %q, want C6H12O6", hex.Formula)
	}

	defs := c.Definitions()
	for i := 1; i < len(defs); i++ {
		if defs[i-1].Name >= defs[i].Name {
			t.Errorf("Definitions() not sorted: %q before %q", defs[i-1].Name, defs[i].Name)
		}
	}
}

func TestLoadFromCSV(t *testing.T) {
	csv := `name,formula
Hex,C6H12O6
Fuc,C6H12O5

Neu5Ac,C11H19NO9
`
	c := NewCatalog()
	if err := c.LoadFromCSV(strings.NewReader(csv)); err != nil {
		t.Fatalf("LoadFromCSV() error: %v", err)
	}

	if c.Len() != 3 {
		t.Errorf("catalog has %d units, want 3", c.Len())
	}
	fuc, ok := c.Get("Fuc")
	if !ok || fuc.Formula != "C6H12O5" {
		t.Errorf("Get(Fuc) = %+v, %v", fuc, ok)
	}
}

func TestLoadFromCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing formula column", "name,formula\nHex\n"},
		{"bad formula", "name,formula\nHex,notaformula!\n"},
		{"empty name", "name,formula\n,C6H12O6\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			if err := c.LoadFromCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("LoadFromCSV() expected error, got nil")
			}
		})
	}
}

func TestResidueMass(t *testing.T) {
	model, err := core.ResolveMassModel("monoisotopic", nil)
	if err != nil {
		t.Fatalf("ResolveMassModel() error: %v", err)
	}

	c := DefaultCatalog()
	got, err := c.ResidueMass("Hex", model)
	if err != nil {
		t.Fatalf("ResidueMass() error: %v", err)
	}

	// Hexose residue: C6H12O6 minus H2O = 162.052824 (the Unimod Hex delta).
	if math.Abs(got-162.052824) > 1e-5 {
		t.Errorf("ResidueMass(Hex) = %.6f, want 162.052824", got)
	}

	if _, err := c.ResidueMass("Fuc", model); err == nil {
		t.Error("ResidueMass() for unknown unit expected error")
	}
}

func TestParseCountSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    map[string]int
		wantErr bool
	}{
		{"explicit counts", "Hex=2,pent=1", map[string]int{"Hex": 2, "pent": 1}, false},
		{"bare names accumulate", "Hex,Hex,pent", map[string]int{"Hex": 2, "pent": 1}, false},
		{"unlimited", "Hex=*", map[string]int{"Hex": enumerate.Unlimited}, false},
		{"zero count dropped", "Hex=0,pent=1", map[string]int{"pent": 1}, false},
		{"spaces tolerated", " Hex = 2 , pent = 1 ", map[string]int{"Hex": 2, "pent": 1}, false},
		{"empty spec", "", map[string]int{}, false},
		{"bad count", "Hex=two", nil, true},
		{"negative count", "Hex=-1", nil, true},
		{"missing name", "=2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCountSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseCountSpec() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCountSpec() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseCountSpec() = %v, want %v", got, tt.want)
			}
			for name, count := range tt.want {
				if got[name] != count {
					t.Errorf("count[%q] = %d, want %d", name, got[name], count)
				}
			}
		})
	}
}
