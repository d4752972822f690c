package repository

import (
	"context"

	"elkbridge/internal/domain"
)

// Store defines the record-store interface the family repository depends on.
// It stands in for the workflow engine's provenance database: typed records,
// attribute-equality queries, and group membership association. Services
// receive a Store and an explicit caller identity instead of reading ambient
// global state.
type Store interface {
	// Species file records (content-addressed)
	CreateSpeciesFile(ctx context.Context, sf *domain.SpeciesFile) error
	SpeciesFilesByMD5(ctx context.Context, md5 string) ([]domain.SpeciesFile, error)

	// Family records, scoped by (name, kind)
	CreateFamily(ctx context.Context, f *domain.Family) error
	GetFamily(ctx context.Context, name string, kind domain.FamilyKind) (*domain.Family, error)
	ListFamilies(ctx context.Context, kind domain.FamilyKind, ownerEmail string) ([]domain.Family, error)
	UpdateFamilyDescription(ctx context.Context, familyID, description string) error

	// AddMembers associates species files with a family as one batch; the
	// whole association is applied atomically or not at all.
	AddMembers(ctx context.Context, familyID string, fileIDs []string) error

	// UploadFamilyTx runs fn inside a single transaction exposing the same
	// Store operations; any error rolls back every write made within fn.
	UploadFamilyTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases resources
	Close() error
}
