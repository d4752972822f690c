package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"elkbridge/internal/domain"
)

// ============================================================================
// Column Lists
// ============================================================================

// speciesColumns is the SELECT column list for species file queries.
// Scan order in scanSpeciesFiles must match exactly.
const speciesColumns = `id, md5, chemical_symbol, filename, content, created_at`

// prefixedSpeciesColumns qualifies speciesColumns for joined queries
const prefixedSpeciesColumns = `sf.id, sf.md5, sf.chemical_symbol, sf.filename, sf.content, sf.created_at`

// familyColumns is the SELECT column list for family queries.
// Scan order in scanFamily/scanFamilyRows must match exactly.
const familyColumns = `id, name, kind, description, owner_email, created_at, updated_at`

// ============================================================================
// Row Scanners
// ============================================================================

// scanSpeciesFiles drains rows into species file records
func scanSpeciesFiles(rows *sql.Rows) ([]domain.SpeciesFile, error) {
	var files []domain.SpeciesFile
	for rows.Next() {
		var (
			sf        domain.SpeciesFile
			createdAt time.Time
		)
		if err := rows.Scan(&sf.ID, &sf.MD5, &sf.ChemicalSymbol, &sf.Filename, &sf.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan species file: %w", err)
		}
		sf.CreatedAt = createdAt
		files = append(files, sf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating species files: %w", err)
	}
	return files, nil
}

// scanFamily scans a single family row (no members)
func scanFamily(row *sql.Row) (*domain.Family, error) {
	var (
		f    domain.Family
		kind string
		desc sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &kind, &desc, &f.OwnerEmail, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Kind = domain.FamilyKind(kind)
	f.Description = nullToString(desc)
	return &f, nil
}

// scanFamilyRows scans the current row of a multi-family query (no members)
func scanFamilyRows(rows *sql.Rows) (*domain.Family, error) {
	var (
		f    domain.Family
		kind string
		desc sql.NullString
	)
	if err := rows.Scan(&f.ID, &f.Name, &kind, &desc, &f.OwnerEmail, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Kind = domain.FamilyKind(kind)
	f.Description = nullToString(desc)
	return &f, nil
}

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
