package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"elkbridge/internal/domain"
	"elkbridge/internal/repository"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store implements repository.Store using SQLite
type Store struct {
	db *sql.DB
	q  querier
}

// querier abstracts *sql.DB and *sql.Tx so the same query code serves both
// the plain store and its transactional view.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc's in-memory databases are per-connection; a single pooled
	// connection keeps every query on the same database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, q: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	PRAGMA journal_mode = WAL;
	PRAGMA busy_timeout = 5000;
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS species_files (
		id TEXT PRIMARY KEY,
		md5 TEXT NOT NULL UNIQUE,
		chemical_symbol TEXT NOT NULL,
		filename TEXT NOT NULL,
		content BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner_email TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (name, kind)
	);

	CREATE TABLE IF NOT EXISTS family_members (
		family_id TEXT NOT NULL,
		file_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (family_id, file_id),
		FOREIGN KEY (family_id) REFERENCES families(id) ON DELETE CASCADE,
		FOREIGN KEY (file_id) REFERENCES species_files(id)
	);

	CREATE INDEX IF NOT EXISTS idx_species_files_symbol ON species_files(chemical_symbol);
	CREATE INDEX IF NOT EXISTS idx_family_members_family ON family_members(family_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateSpeciesFile persists a new content-addressed species record. The
// caller is expected to have checked the hash first; a duplicate hash hits
// the UNIQUE index and fails.
func (s *Store) CreateSpeciesFile(ctx context.Context, sf *domain.SpeciesFile) error {
	if sf.ID == "" {
		sf.ID = uuid.NewString()
	}
	if sf.CreatedAt.IsZero() {
		sf.CreatedAt = time.Now().UTC()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO species_files (id, md5, chemical_symbol, filename, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sf.ID, sf.MD5, sf.ChemicalSymbol, sf.Filename, sf.Content, sf.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert species file %s: %w", sf.Filename, err)
	}
	return nil
}

// SpeciesFilesByMD5 returns every stored species record with the given
// content hash. Under the UNIQUE index this is zero or one record; the slice
// shape lets callers detect invariant violations.
func (s *Store) SpeciesFilesByMD5(ctx context.Context, md5 string) ([]domain.SpeciesFile, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+speciesColumns+`
		FROM species_files WHERE md5 = ?
		ORDER BY created_at, id
	`, md5)
	if err != nil {
		return nil, fmt.Errorf("failed to query species files: %w", err)
	}
	defer rows.Close()

	return scanSpeciesFiles(rows)
}

// CreateFamily persists a new family record
func (s *Store) CreateFamily(ctx context.Context, f *domain.Family) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO families (id, name, kind, description, owner_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Name, string(f.Kind), f.Description, f.OwnerEmail, f.CreatedAt, f.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert family %s: %w", f.Name, err)
	}
	return nil
}

// GetFamily retrieves a family by (name, kind) with its members loaded in
// upload order. Returns nil, nil when no such family exists.
func (s *Store) GetFamily(ctx context.Context, name string, kind domain.FamilyKind) (*domain.Family, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+familyColumns+`
		FROM families WHERE name = ? AND kind = ?
	`, name, string(kind))

	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query family: %w", err)
	}

	if err := s.loadMembers(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFamilies returns all families of the given kind, optionally restricted
// to one owner, ordered by name ascending, members loaded.
func (s *Store) ListFamilies(ctx context.Context, kind domain.FamilyKind, ownerEmail string) ([]domain.Family, error) {
	query := `
		SELECT ` + familyColumns + `
		FROM families WHERE kind = ?`
	args := []any{string(kind)}

	if ownerEmail != "" {
		query += ` AND owner_email = ?`
		args = append(args, ownerEmail)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []domain.Family
	for rows.Next() {
		f, err := scanFamilyRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating families: %w", err)
	}

	for i := range families {
		if err := s.loadMembers(ctx, &families[i]); err != nil {
			return nil, err
		}
	}
	return families, nil
}

// UpdateFamilyDescription overwrites a family's description
func (s *Store) UpdateFamilyDescription(ctx context.Context, familyID, description string) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE families SET description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, description, familyID)

	if err != nil {
		return fmt.Errorf("failed to update family description: %w", err)
	}
	return nil
}

// AddMembers associates species files with a family as one batch, appending
// after the family's current members so upload order is preserved.
func (s *Store) AddMembers(ctx context.Context, familyID string, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}

	var next int
	err := s.q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) + 1 FROM family_members WHERE family_id = ?
	`, familyID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to query member positions: %w", err)
	}

	for i, fileID := range fileIDs {
		if _, err := s.q.ExecContext(ctx, `
			INSERT INTO family_members (family_id, file_id, position) VALUES (?, ?, ?)
		`, familyID, fileID, next+i); err != nil {
			return fmt.Errorf("failed to add member %s: %w", fileID, err)
		}
	}

	_, err = s.q.ExecContext(ctx, `
		UPDATE families SET updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, familyID)
	if err != nil {
		return fmt.Errorf("failed to touch family: %w", err)
	}
	return nil
}

// UploadFamilyTx runs fn against a transactional view of the store. Any
// error from fn rolls back every write made within it.
func (s *Store) UploadFamilyTx(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	txStore := &Store{db: s.db, q: tx}
	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadMembers fills f.Members with the species files associated to the
// family, in upload order. Only species-file records exist in the join
// table, so the kind filter is structural here.
func (s *Store) loadMembers(ctx context.Context, f *domain.Family) error {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+prefixedSpeciesColumns+`
		FROM species_files sf
		JOIN family_members fm ON fm.file_id = sf.id
		WHERE fm.family_id = ?
		ORDER BY fm.position ASC
	`, f.ID)
	if err != nil {
		return fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	members, err := scanSpeciesFiles(rows)
	if err != nil {
		return err
	}
	f.Members = members
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
