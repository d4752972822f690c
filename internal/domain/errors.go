package domain

import "errors"

// Sentinel errors classifying every failure this adapter can surface.
// Callers match with errors.Is; the concrete message carries the detail.
var (
	// ErrValidation indicates bad caller input (missing directory, empty
	// family name, structure without sites).
	ErrValidation = errors.New("validation failed")

	// ErrPermission indicates an attempt to mutate a family owned by a
	// different user.
	ErrPermission = errors.New("permission denied")

	// ErrConsistency indicates a violated store invariant, e.g. more than
	// one species record sharing a content hash under strict dedup.
	ErrConsistency = errors.New("store consistency violated")

	// ErrNotFound indicates a family or record lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrMissingOutput indicates the retrieved calculation directory lacks
	// files from the retrieve list.
	ErrMissingOutput = errors.New("missing output files")
)
