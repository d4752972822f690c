package domain

import "time"

// FamilyKind tags the namespace a family record belongs to. Families created
// by unrelated subsystems may share a display name; lookups are always scoped
// by (name, kind), never by name alone.
type FamilyKind string

// LapwBasisFamily is the kind tag for LAPW species basis-set families.
const LapwBasisFamily FamilyKind = "data.lapwbasis.family"

// Family is a named, user-owned collection of species file references.
// Membership is a set: order is irrelevant and a file appears at most once.
// Only the owning user may add members or change the description.
type Family struct {
	// ID is the record identifier assigned at creation (UUID)
	ID string `json:"id"`

	// Name identifies the family within its kind namespace
	Name string `json:"name"`

	// Kind is the namespace discriminator
	Kind FamilyKind `json:"kind"`

	// Description is free text, overwritten on every re-upload
	Description string `json:"description,omitempty"`

	// OwnerEmail identifies the user who created the family
	OwnerEmail string `json:"owner_email"`

	// Members holds the species files associated with this family, in
	// upload order. Only species-file records count as members; other
	// record kinds sharing the underlying group are filtered out by the
	// store.
	Members []SpeciesFile `json:"members,omitempty"`

	// CreatedAt is when the family was first stored
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when membership or description last changed
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberHashes returns the content hashes of all current members, the dedup
// set consulted before adding new files.
func (f *Family) MemberHashes() map[string]bool {
	hashes := make(map[string]bool, len(f.Members))
	for _, m := range f.Members {
		hashes[m.MD5] = true
	}
	return hashes
}

// SpeciesFor returns the members describing the given element, in upload
// order. Symbols are compared after normalization.
func (f *Family) SpeciesFor(symbol string) []SpeciesFile {
	want := NormalizeSymbol(symbol)
	var matches []SpeciesFile
	for _, m := range f.Members {
		if NormalizeSymbol(m.ChemicalSymbol) == want {
			matches = append(matches, m)
		}
	}
	return matches
}

// CoversElements reports whether the family holds at least one member for
// every requested element symbol.
func (f *Family) CoversElements(symbols []string) bool {
	for _, s := range symbols {
		if len(f.SpeciesFor(s)) == 0 {
			return false
		}
	}
	return true
}
