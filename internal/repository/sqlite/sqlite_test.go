package sqlite

import (
	"context"
	"errors"
	"testing"

	"elkbridge/internal/domain"
	"elkbridge/internal/repository"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestStore creates an in-memory SQLite store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func speciesFixture(symbol, filename, payload string) *domain.SpeciesFile {
	content := []byte("'" + symbol + "'" + "      \n" + payload)
	sf, _ := domain.NewSpeciesFile(filename, content)
	return sf
}

func familyFixture(name, owner string) *domain.Family {
	return &domain.Family{
		Name:       name,
		Kind:       domain.LapwBasisFamily,
		OwnerEmail: owner,
	}
}

// ============================================================================
// Species File Tests
// ============================================================================

func TestCreateAndQuerySpeciesFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sf := speciesFixture("Fe", "Fe.in", "iron data")
	assertNoError(t, store.CreateSpeciesFile(ctx, sf))

	if sf.ID == "" {
		t.Fatal("expected an ID to be assigned on create")
	}

	found, err := store.SpeciesFilesByMD5(ctx, sf.MD5)
	assertNoError(t, err)
	if len(found) != 1 {
		t.Fatalf("expected 1 record, got %d", len(found))
	}
	if found[0].ChemicalSymbol != "Fe" || found[0].Filename != "Fe.in" {
		t.Errorf("round-trip mismatch: %+v", found[0])
	}
	if string(found[0].Content) != string(sf.Content) {
		t.Errorf("content mismatch after round-trip")
	}
}

func TestSpeciesFileHashUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sf := speciesFixture("Fe", "Fe.in", "iron data")
	assertNoError(t, store.CreateSpeciesFile(ctx, sf))

	// Same content under a different name hits the UNIQUE hash index
	dup := speciesFixture("Fe", "Fe_copy.in", "iron data")
	if err := store.CreateSpeciesFile(ctx, dup); err == nil {
		t.Fatal("expected duplicate hash insert to fail")
	}
}

func TestSpeciesFilesByMD5Miss(t *testing.T) {
	store := newTestStore(t)

	found, err := store.SpeciesFilesByMD5(context.Background(), "no-such-hash")
	assertNoError(t, err)
	if len(found) != 0 {
		t.Fatalf("expected no records, got %d", len(found))
	}
}

// ============================================================================
// Family Tests
// ============================================================================

func TestGetFamilyMiss(t *testing.T) {
	store := newTestStore(t)

	f, err := store.GetFamily(context.Background(), "absent", domain.LapwBasisFamily)
	assertNoError(t, err)
	if f != nil {
		t.Fatalf("expected nil for missing family, got %+v", f)
	}
}

func TestFamilyKindNamespace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assertNoError(t, store.CreateFamily(ctx, familyFixture("shared-name", "a@lab.org")))

	// Same display name under a different kind is a different family
	f, err := store.GetFamily(ctx, "shared-name", domain.FamilyKind("data.other.family"))
	assertNoError(t, err)
	if f != nil {
		t.Fatalf("kind namespace leaked: %+v", f)
	}
}

func TestListFamiliesOrderAndOwnerFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assertNoError(t, store.CreateFamily(ctx, familyFixture("zinc", "a@lab.org")))
	assertNoError(t, store.CreateFamily(ctx, familyFixture("argon", "b@lab.org")))
	assertNoError(t, store.CreateFamily(ctx, familyFixture("boron", "a@lab.org")))

	all, err := store.ListFamilies(ctx, domain.LapwBasisFamily, "")
	assertNoError(t, err)
	if len(all) != 3 {
		t.Fatalf("expected 3 families, got %d", len(all))
	}
	for i, want := range []string{"argon", "boron", "zinc"} {
		if all[i].Name != want {
			t.Errorf("position %d: got %s, want %s", i, all[i].Name, want)
		}
	}

	mine, err := store.ListFamilies(ctx, domain.LapwBasisFamily, "a@lab.org")
	assertNoError(t, err)
	if len(mine) != 2 {
		t.Fatalf("owner filter: expected 2 families, got %d", len(mine))
	}
}

func TestUpdateFamilyDescription(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := familyFixture("iron-basis", "a@lab.org")
	assertNoError(t, store.CreateFamily(ctx, f))
	assertNoError(t, store.UpdateFamilyDescription(ctx, f.ID, "updated text"))

	got, err := store.GetFamily(ctx, "iron-basis", domain.LapwBasisFamily)
	assertNoError(t, err)
	if got.Description != "updated text" {
		t.Errorf("Description = %q, want %q", got.Description, "updated text")
	}
}

// ============================================================================
// Membership Tests
// ============================================================================

func TestAddMembersPreservesUploadOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := familyFixture("order-basis", "a@lab.org")
	assertNoError(t, store.CreateFamily(ctx, f))

	first := speciesFixture("O", "O.in", "batch one")
	assertNoError(t, store.CreateSpeciesFile(ctx, first))
	assertNoError(t, store.AddMembers(ctx, f.ID, []string{first.ID}))

	second := speciesFixture("O", "O_soft.in", "batch two")
	third := speciesFixture("H", "H.in", "batch two")
	assertNoError(t, store.CreateSpeciesFile(ctx, second))
	assertNoError(t, store.CreateSpeciesFile(ctx, third))
	assertNoError(t, store.AddMembers(ctx, f.ID, []string{second.ID, third.ID}))

	got, err := store.GetFamily(ctx, "order-basis", domain.LapwBasisFamily)
	assertNoError(t, err)
	if len(got.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(got.Members))
	}
	for i, want := range []string{"O.in", "O_soft.in", "H.in"} {
		if got.Members[i].Filename != want {
			t.Errorf("member %d: got %s, want %s", i, got.Members[i].Filename, want)
		}
	}
}

func TestAddMembersEmptyBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := familyFixture("empty-basis", "a@lab.org")
	assertNoError(t, store.CreateFamily(ctx, f))
	assertNoError(t, store.AddMembers(ctx, f.ID, nil))
}

// ============================================================================
// Transaction Tests
// ============================================================================

func TestUploadFamilyTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := store.UploadFamilyTx(ctx, func(tx repository.Store) error {
		f := familyFixture("doomed", "a@lab.org")
		if err := tx.CreateFamily(ctx, f); err != nil {
			return err
		}
		sf := speciesFixture("H", "H.in", "doomed data")
		if err := tx.CreateSpeciesFile(ctx, sf); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	f, err := store.GetFamily(ctx, "doomed", domain.LapwBasisFamily)
	assertNoError(t, err)
	if f != nil {
		t.Errorf("family survived rollback: %+v", f)
	}

	sf := speciesFixture("H", "H.in", "doomed data")
	found, err := store.SpeciesFilesByMD5(ctx, sf.MD5)
	assertNoError(t, err)
	if len(found) != 0 {
		t.Errorf("species file survived rollback")
	}
}

func TestUploadFamilyTxCommits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UploadFamilyTx(ctx, func(tx repository.Store) error {
		f := familyFixture("kept", "a@lab.org")
		if err := tx.CreateFamily(ctx, f); err != nil {
			return err
		}
		sf := speciesFixture("O", "O.in", "kept data")
		if err := tx.CreateSpeciesFile(ctx, sf); err != nil {
			return err
		}
		return tx.AddMembers(ctx, f.ID, []string{sf.ID})
	})
	assertNoError(t, err)

	f, err := store.GetFamily(ctx, "kept", domain.LapwBasisFamily)
	assertNoError(t, err)
	if f == nil || len(f.Members) != 1 {
		t.Fatalf("expected committed family with 1 member, got %+v", f)
	}
}
