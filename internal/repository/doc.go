// Package repository defines the data access interfaces for elkbridge.
//
// This package provides the repository abstraction over the record store the
// adapter persists into. The actual implementation is in the sqlite
// subpackage.
//
// # Store Interface
//
// The Store interface defines the operations the family repository needs:
// content-addressed species file records, family records scoped by a kind
// discriminator, batch membership association, and a transactional wrapper
// for the upload path.
//
// # SQLite Implementation
//
// The sqlite implementation provides a complete store using SQLite with WAL
// mode. It handles:
//
// - Content-addressed species records with a UNIQUE hash index
// - Family records unique per (name, kind)
// - Membership via a join table, inserted as one batch
// - All-or-nothing upload transactions
//
// # Testing
//
// The sqlite store is tested with in-memory databases to verify the
// content-addressing and ownership invariants.
package repository
