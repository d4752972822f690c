package domain

import (
	"fmt"
	"sort"
)

// Site is one atom in a crystal structure, positioned in fractional (lattice)
// coordinates.
type Site struct {
	Symbol   string     `json:"symbol" yaml:"symbol"`
	Position [3]float64 `json:"position" yaml:"position"`
}

// Structure is the crystal geometry a calculation runs on: lattice vectors in
// Ångström rows and the atomic sites they contain.
type Structure struct {
	// Name is an optional human label carried through to logs
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Lattice holds the three lattice vectors as rows, in Ångström
	Lattice [3][3]float64 `json:"lattice" yaml:"lattice"`

	// Sites lists the atoms in fractional coordinates
	Sites []Site `json:"sites" yaml:"sites"`
}

// Validate checks the structure is usable for input generation: at least one
// site, every site with a symbol, and no zero lattice vector.
func (s *Structure) Validate() error {
	if len(s.Sites) == 0 {
		return fmt.Errorf("%w: structure has no sites", ErrValidation)
	}
	for i, site := range s.Sites {
		if NormalizeSymbol(site.Symbol) == "" {
			return fmt.Errorf("%w: site %d has no chemical symbol", ErrValidation, i)
		}
	}
	for i, vec := range s.Lattice {
		if vec[0] == 0 && vec[1] == 0 && vec[2] == 0 {
			return fmt.Errorf("%w: lattice vector %d is zero", ErrValidation, i)
		}
	}
	return nil
}

// SymbolSet returns the distinct element symbols appearing in the structure,
// normalized and sorted.
func (s *Structure) SymbolSet() []string {
	seen := make(map[string]bool)
	for _, site := range s.Sites {
		seen[NormalizeSymbol(site.Symbol)] = true
	}
	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// SitesFor returns the sites occupied by the given element, preserving input
// order.
func (s *Structure) SitesFor(symbol string) []Site {
	want := NormalizeSymbol(symbol)
	var sites []Site
	for _, site := range s.Sites {
		if NormalizeSymbol(site.Symbol) == want {
			sites = append(sites, site)
		}
	}
	return sites
}
