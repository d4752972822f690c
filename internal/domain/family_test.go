package domain

import "testing"

func testFamily() *Family {
	return &Family{
		Name: "test-basis",
		Kind: LapwBasisFamily,
		Members: []SpeciesFile{
			{ID: "1", MD5: "aaa", ChemicalSymbol: "H", Filename: "H.in"},
			{ID: "2", MD5: "bbb", ChemicalSymbol: "O", Filename: "O.in"},
			{ID: "3", MD5: "ccc", ChemicalSymbol: "O", Filename: "O_soft.in"},
		},
	}
}

func TestMemberHashes(t *testing.T) {
	f := testFamily()
	hashes := f.MemberHashes()

	if len(hashes) != 3 {
		t.Fatalf("expected 3 hashes, got %d", len(hashes))
	}
	for _, h := range []string{"aaa", "bbb", "ccc"} {
		if !hashes[h] {
			t.Errorf("missing hash %s", h)
		}
	}
}

func TestSpeciesFor(t *testing.T) {
	f := testFamily()

	h := f.SpeciesFor("H")
	if len(h) != 1 || h[0].Filename != "H.in" {
		t.Errorf("SpeciesFor(H) = %v, want [H.in]", h)
	}

	// Same-symbol duplicates coexist, upload order preserved
	o := f.SpeciesFor("O")
	if len(o) != 2 || o[0].Filename != "O.in" || o[1].Filename != "O_soft.in" {
		t.Errorf("SpeciesFor(O) = %v, want [O.in O_soft.in]", o)
	}

	// Lookup normalizes capitalization
	if got := f.SpeciesFor("o"); len(got) != 2 {
		t.Errorf("SpeciesFor(o) found %d members, want 2", len(got))
	}

	if got := f.SpeciesFor("C"); len(got) != 0 {
		t.Errorf("SpeciesFor(C) = %v, want none", got)
	}
}

func TestCoversElements(t *testing.T) {
	f := testFamily()

	tests := []struct {
		symbols []string
		want    bool
	}{
		{[]string{"H"}, true},
		{[]string{"H", "O"}, true},
		{[]string{"h", "o"}, true},
		{[]string{"H", "C"}, false},
		{nil, true},
	}

	for _, tt := range tests {
		if got := f.CoversElements(tt.symbols); got != tt.want {
			t.Errorf("CoversElements(%v) = %v, want %v", tt.symbols, got, tt.want)
		}
	}
}
