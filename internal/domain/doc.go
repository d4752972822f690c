// Package domain defines the core domain types for the elkbridge calculation
// adapter.
//
// This package contains the entities and value objects shared by the family
// repository, the job staging service, and the output parser.
//
// # Core Types
//
// SpeciesFile represents one chemical species' LAPW basis definition. Files
// are content-addressed: the MD5 of the file bytes is the identity key, and
// the store holds at most one record per hash.
//
// Family represents a named, user-owned collection of species files. Lookups
// are scoped by a kind discriminator so families created by unrelated
// subsystems never collide on display name alone.
//
// Structure represents the crystal geometry a calculation runs on; it is the
// source of the element set a family must cover.
//
// StagingManifest and Results are the two halves of the engine contract:
// what to copy into a job directory before ELK runs, and the structured
// record parsed from what comes back.
//
// # Errors
//
// Failures are classified by sentinel errors (ErrValidation, ErrPermission,
// ErrConsistency, ErrNotFound, ErrMissingOutput) wrapped with context and
// matched via errors.Is.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
