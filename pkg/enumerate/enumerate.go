// Package enumerate streams every distinct order-sensitive arrangement of a
// multiset of monomer units, computing condensed formulas and masses lazily.
package enumerate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ChrisMcGann/glycoenum/pkg/core"
)

// Unlimited marks a unit kind as available without a per-kind count limit.
const Unlimited = -1

// UnitDefinition names a monomer unit and its molecular formula. Metadata is
// carried through to results untouched.
type UnitDefinition struct {
	Name     string
	Formula  string
	Metadata map[string]string
}

// Modifier is a one-time terminal chemical addition applied to every fully
// condensed sequence regardless of its length.
type Modifier struct {
	Label   string
	Formula string
}

// SequenceEntry is one enumerated arrangement with its derived chemistry.
// Entries are never mutated after creation; the consumer owns each entry it
// receives.
type SequenceEntry struct {
	// Units is the ordered tuple of unit names forming the sequence.
	Units []string
	// Formula is the condensed composition before the modifier.
	Formula core.Composition
	// FinalFormula is the composition after the modifier.
	FinalFormula core.Composition
	// Mass is the adduct-adjusted mass of FinalFormula.
	Mass float64
	// MZ is Mass plus one proton.
	MZ float64
	// Metadata is free-form and ignored by the enumerator.
	Metadata map[string]string
}

// Name renders the sequence as its unit names joined with '-'.
func (e *SequenceEntry) Name() string {
	return strings.Join(e.Units, "-")
}

// Request configures an enumeration run.
type Request struct {
	// Units defines the known unit kinds.
	Units []UnitDefinition
	// Counts is the available multiset: unit name to available count.
	// A count of Unlimited removes the per-kind limit.
	Counts map[string]int
	// MinLength and MaxLength bound the total units per sequence, inclusive.
	MinLength int
	MaxLength int
	// Modifier, if non-nil, is added once to every condensed composition.
	Modifier *Modifier
	// Model supplies atomic masses.
	Model *core.MassModel
	// Adduct is an ionization expression applied to every mass ("" = neutral).
	Adduct string
	// Filters are substrings that must all appear in the rendered sequence
	// name for an entry to be emitted.
	Filters []string
	// RowCap, if positive, is a hard cap on emitted entries.
	RowCap int
}

// kind is one distinct unit available to the generator.
type kind struct {
	name        string
	composition core.Composition
	available   int
	unlimited   bool
}

// Enumerator is a lazy, one-shot producer of sequence arrangements. It
// follows the streaming reader idiom:
//
//	en, err := enumerate.NewEnumerator(req)
//	for en.Next() {
//	    entry := en.Entry()
//	    ...
//	}
//	if err := en.Err(); err != nil {
//	    ...
//	}
//
// Arrangements are generated by count-based backtracking over unit kinds in
// lexicographic order, so duplicates are never produced and never need to be
// suppressed after the fact. Any formula or mass error aborts the run.
type Enumerator struct {
	kinds    []kind
	modifier *Modifier
	model    *core.MassModel
	adduct   string
	filters  []string
	rowCap   int

	length    int // current target sequence length
	maxLength int
	depth     int
	choice    []int // kind index placed at each depth
	nextTry   []int // next kind index to attempt at each depth
	remaining []int

	entry   *SequenceEntry
	emitted int
	err     error
	done    bool
}

// NewEnumerator validates the request and prepares a generator positioned
// before the first arrangement. Unit formulas are parsed eagerly so a
// malformed definition fails here rather than mid-stream.
func NewEnumerator(req Request) (*Enumerator, error) {
	if req.MinLength < 1 {
		return nil, &core.ConfigurationError{Message: fmt.Sprintf("minimum length must be at least 1, got %d", req.MinLength)}
	}
	if req.MaxLength < req.MinLength {
		return nil, &core.ConfigurationError{Message: fmt.Sprintf("length range [%d, %d] is inverted", req.MinLength, req.MaxLength)}
	}
	if req.Model == nil {
		return nil, &core.ConfigurationError{Message: "a mass model is required"}
	}

	defs := make(map[string]UnitDefinition, len(req.Units))
	for _, unit := range req.Units {
		defs[unit.Name] = unit
	}

	names := make([]string, 0, len(req.Counts))
	for name, count := range req.Counts {
		if _, ok := defs[name]; !ok {
			return nil, &core.ConfigurationError{Message: fmt.Sprintf("unknown unit %q in counts", name)}
		}
		if count == 0 {
			continue
		}
		if count < 0 && count != Unlimited {
			return nil, &core.ConfigurationError{Message: fmt.Sprintf("unit %q has negative count %d", name, count)}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	kinds := make([]kind, 0, len(names))
	for _, name := range names {
		comp, err := core.ParseFormula(defs[name].Formula)
		if err != nil {
			return nil, err
		}
		count := req.Counts[name]
		kinds = append(kinds, kind{
			name:        name,
			composition: comp,
			available:   count,
			unlimited:   count == Unlimited,
		})
	}

	if req.Modifier != nil {
		if _, err := core.ParseFormula(req.Modifier.Formula); err != nil {
			return nil, err
		}
	}

	e := &Enumerator{
		kinds:     kinds,
		modifier:  req.Modifier,
		model:     req.Model,
		adduct:    req.Adduct,
		filters:   req.Filters,
		rowCap:    req.RowCap,
		length:    req.MinLength,
		maxLength: req.MaxLength,
		choice:    make([]int, req.MaxLength),
		nextTry:   make([]int, req.MaxLength+1),
		remaining: make([]int, len(kinds)),
	}
	for i, k := range kinds {
		e.remaining[i] = k.available
	}
	if len(kinds) == 0 {
		e.done = true
	}
	return e, nil
}

// Next advances to the next emitted arrangement. It returns false when the
// stream is exhausted, the row cap is reached, or an error occurred; the
// caller distinguishes the last case via Err.
func (e *Enumerator) Next() bool {
	e.entry = nil
	if e.done || e.err != nil {
		return false
	}

	for {
		if e.depth == e.length {
			arrangement := e.choice[:e.length]
			entry, err := e.buildEntry(arrangement)
			e.backtrack()
			if err != nil {
				e.err = err
				e.done = true
				return false
			}
			if !e.matchesFilters(entry) {
				continue
			}
			e.entry = entry
			e.emitted++
			if e.rowCap > 0 && e.emitted >= e.rowCap {
				e.done = true
			}
			return true
		}

		placed := -1
		for i := e.nextTry[e.depth]; i < len(e.kinds); i++ {
			if e.remaining[i] != 0 {
				placed = i
				break
			}
		}
		if placed < 0 {
			if e.depth == 0 {
				if !e.advanceLength() {
					return false
				}
				continue
			}
			e.backtrack()
			continue
		}

		e.nextTry[e.depth] = placed + 1
		e.choice[e.depth] = placed
		if !e.kinds[placed].unlimited {
			e.remaining[placed]--
		}
		e.depth++
		e.nextTry[e.depth] = 0
	}
}

// backtrack undoes the most recent placement.
func (e *Enumerator) backtrack() {
	e.depth--
	placed := e.choice[e.depth]
	if !e.kinds[placed].unlimited {
		e.remaining[placed]++
	}
}

// advanceLength moves to the next target length, or finishes the stream.
func (e *Enumerator) advanceLength() bool {
	e.length++
	if e.length > e.maxLength {
		e.done = true
		return false
	}
	e.nextTry[0] = 0
	return true
}

// buildEntry computes the chemistry for one arrangement of kind indices.
func (e *Enumerator) buildEntry(arrangement []int) (*SequenceEntry, error) {
	composition := core.Composition{}
	units := make([]string, len(arrangement))
	for i, idx := range arrangement {
		units[i] = e.kinds[idx].name
		composition = composition.Add(e.kinds[idx].composition)
	}

	composition, err := core.Dehydrate(composition, len(arrangement)-1)
	if err != nil {
		return nil, err
	}

	final := composition
	if e.modifier != nil {
		final, err = core.AddModifier(composition, e.modifier.Formula)
		if err != nil {
			return nil, err
		}
	}

	mass, err := e.model.CompositionMass(final)
	if err != nil {
		return nil, err
	}
	mass, err = e.model.ApplyAdduct(mass, e.adduct)
	if err != nil {
		return nil, err
	}

	return &SequenceEntry{
		Units:        units,
		Formula:      composition,
		FinalFormula: final,
		Mass:         mass,
		MZ:           mass + core.ProtonMass,
	}, nil
}

// matchesFilters reports whether every configured substring appears in the
// rendered sequence name. Filters are ANDed.
func (e *Enumerator) matchesFilters(entry *SequenceEntry) bool {
	if len(e.filters) == 0 {
		return true
	}
	name := entry.Name()
	for _, f := range e.filters {
		if !strings.Contains(name, f) {
			return false
		}
	}
	return true
}

// Entry returns the current arrangement. It is valid until the next call to
// Next and owned by the caller afterwards.
func (e *Enumerator) Entry() *SequenceEntry {
	return e.entry
}

// Err returns the error that aborted enumeration, if any.
func (e *Enumerator) Err() error {
	return e.err
}
