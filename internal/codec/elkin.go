package codec

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"elkbridge/internal/domain"
)

// angstromToBohr is the scale factor written into elk.in so lattice vectors
// can stay in Ångström.
const angstromToBohr = 1.8897261246

// WriteElkIn writes the elk.in control file for one calculation: the task
// selection, the species path, the lattice, one atoms entry per species file
// and the caller's extra run parameter blocks. Species are emitted in sorted
// symbol order and parameters in sorted block order so output is
// deterministic.
//
// Every element in the structure must have an entry in species; the resolve
// step guarantees that before this is called.
func WriteElkIn(w io.Writer, st *domain.Structure, species map[string]domain.SpeciesFile, params domain.RunParams) error {
	if err := st.Validate(); err != nil {
		return err
	}

	symbols := st.SymbolSet()
	for _, sym := range symbols {
		if _, ok := species[sym]; !ok {
			return fmt.Errorf("%w: no species file resolved for element %s", domain.ErrValidation, sym)
		}
	}

	var b strings.Builder

	tasks := "0"
	if t, ok := params["tasks"]; ok {
		tasks = t
	}
	writeBlock(&b, "tasks", tasks)
	writeBlock(&b, "sppath", fmt.Sprintf("'./%s/'", domain.SpeciesSubfolder))
	writeBlock(&b, "scale", fmt.Sprintf("%.10f", angstromToBohr))

	b.WriteString("avec\n")
	for _, vec := range st.Lattice {
		fmt.Fprintf(&b, "  %14.10f %14.10f %14.10f\n", vec[0], vec[1], vec[2])
	}
	b.WriteString("\n")

	b.WriteString("atoms\n")
	fmt.Fprintf(&b, "  %d\n", len(symbols))
	for _, sym := range symbols {
		sites := st.SitesFor(sym)
		fmt.Fprintf(&b, "  '%s'\n", species[sym].Filename)
		fmt.Fprintf(&b, "  %d\n", len(sites))
		for _, site := range sites {
			fmt.Fprintf(&b, "  %12.8f %12.8f %12.8f\n", site.Position[0], site.Position[1], site.Position[2])
		}
	}
	b.WriteString("\n")

	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "tasks" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeBlock(&b, k, params[k])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeBlock emits one elk.in block: the block name, its body lines indented
// two spaces, and a blank separator.
func writeBlock(b *strings.Builder, name, body string) {
	b.WriteString(name)
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
