package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elkbridge/internal/domain"
	"elkbridge/internal/repository"

	"go.uber.org/zap"
)

// speciesExt is the extension species file candidates must carry,
// case-sensitive.
const speciesExt = ".in"

// FamilyService provides business logic for LAPW basis family operations
type FamilyService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewFamilyService creates a new family service
func NewFamilyService(store repository.Store, logger *zap.Logger) *FamilyService {
	return &FamilyService{
		store:  store,
		logger: logger,
	}
}

// UploadResult reports what one upload call did: how many candidate files
// the directory held, and how many species records were newly created.
// Reused (already stored) files do not count as uploaded.
type UploadResult struct {
	FilesFound    int
	FilesUploaded int
}

// Upload stages every .in file under dir into the named family, creating the
// family on first use. Files already stored anywhere (matched by content
// hash) are reused rather than duplicated; files already in the family are
// skipped. The family description is always overwritten.
//
// With stopIfExisting set, finding more than one stored record for a single
// content hash is treated as a store invariant violation instead of picking
// the first match.
//
// All writes happen in one transaction: a failure partway leaves the store
// untouched.
func (s *FamilyService) Upload(ctx context.Context, dir, name, description, ownerEmail string, stopIfExisting bool) (UploadResult, error) {
	var res UploadResult

	if strings.TrimSpace(name) == "" {
		return res, fmt.Errorf("%w: family name must not be empty", domain.ErrValidation)
	}

	candidates, err := collectSpeciesFiles(dir)
	if err != nil {
		return res, err
	}
	res.FilesFound = len(candidates)

	s.logger.Info("uploading species files",
		zap.String("family", name),
		zap.String("dir", dir),
		zap.Int("candidates", len(candidates)))

	err = s.store.UploadFamilyTx(ctx, func(tx repository.Store) error {
		family, err := tx.GetFamily(ctx, name, domain.LapwBasisFamily)
		if err != nil {
			return err
		}

		created := family == nil
		if created {
			family = &domain.Family{
				Name:        name,
				Kind:        domain.LapwBasisFamily,
				Description: description,
				OwnerEmail:  ownerEmail,
			}
		} else if family.OwnerEmail != ownerEmail {
			return fmt.Errorf("%w: family %q belongs to user %s",
				domain.ErrPermission, name, family.OwnerEmail)
		}

		// Hashes already in the family; candidates matching these are
		// skipped, not double-counted.
		seen := family.MemberHashes()

		var (
			memberIDs []string
			uploaded  int
		)
		for _, path := range candidates {
			sf, newRecord, err := s.getOrCreate(ctx, tx, path, !stopIfExisting)
			if err != nil {
				return err
			}
			if seen[sf.MD5] {
				continue
			}
			seen[sf.MD5] = true

			if newRecord {
				if err := tx.CreateSpeciesFile(ctx, sf); err != nil {
					return err
				}
				uploaded++
			}
			memberIDs = append(memberIDs, sf.ID)
		}

		if created {
			if err := tx.CreateFamily(ctx, family); err != nil {
				return err
			}
		} else if err := tx.UpdateFamilyDescription(ctx, family.ID, description); err != nil {
			return err
		}

		if err := tx.AddMembers(ctx, family.ID, memberIDs); err != nil {
			return err
		}

		res.FilesUploaded = uploaded
		return nil
	})
	if err != nil {
		return UploadResult{FilesFound: res.FilesFound}, err
	}

	s.logger.Info("upload complete",
		zap.String("family", name),
		zap.Int("found", res.FilesFound),
		zap.Int("uploaded", res.FilesUploaded))

	return res, nil
}

// getOrCreate returns the stored species file matching path's content hash,
// or an unstored new record when the hash is unknown. The second return
// reports which case applied. With useFirst unset, multiple stored records
// for one hash fail instead of picking the first.
func (s *FamilyService) getOrCreate(ctx context.Context, tx repository.Store, path string, useFirst bool) (*domain.SpeciesFile, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %v", domain.ErrValidation, path, err)
	}

	md5 := domain.HashContent(content)
	existing, err := tx.SpeciesFilesByMD5(ctx, md5)
	if err != nil {
		return nil, false, err
	}

	switch {
	case len(existing) == 0:
		sf, err := domain.NewSpeciesFile(filepath.Base(path), content)
		if err != nil {
			return nil, false, err
		}
		return sf, true, nil
	case len(existing) == 1 || useFirst:
		return &existing[0], false, nil
	default:
		return nil, false, fmt.Errorf("%w: %d species files share hash %s",
			domain.ErrConsistency, len(existing), md5)
	}
}

// List returns the families of this subsystem's kind, ordered by name.
// With filterElements set, only families holding at least one species for
// every requested element are returned; symbols are case-normalized first.
// With ownerEmail set, only that user's families are returned.
func (s *FamilyService) List(ctx context.Context, filterElements []string, ownerEmail string) ([]domain.Family, error) {
	families, err := s.store.ListFamilies(ctx, domain.LapwBasisFamily, ownerEmail)
	if err != nil {
		return nil, err
	}

	if len(filterElements) == 0 {
		return families, nil
	}

	wanted := make([]string, 0, len(filterElements))
	for _, e := range filterElements {
		wanted = append(wanted, domain.NormalizeSymbol(e))
	}

	var matched []domain.Family
	for _, f := range families {
		if f.CoversElements(wanted) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// TieBreak selects how ResolveSpecies handles several species files for the
// same element within one family.
type TieBreak int

const (
	// PickFirst resolves same-symbol collisions to the earliest-uploaded
	// member, deterministically.
	PickFirst TieBreak = iota

	// FailOnAmbiguity treats same-symbol collisions as an error.
	FailOnAmbiguity
)

// ResolveSpecies maps each requested element symbol to the species file the
// named family provides for it. Symbols with no match are simply absent from
// the result; whether that is fatal is the caller's decision.
func (s *FamilyService) ResolveSpecies(ctx context.Context, familyName string, symbols []string, policy TieBreak) (map[string]domain.SpeciesFile, error) {
	family, err := s.store.GetFamily(ctx, familyName, domain.LapwBasisFamily)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, fmt.Errorf("%w: family %q", domain.ErrNotFound, familyName)
	}

	resolved := make(map[string]domain.SpeciesFile)
	for _, symbol := range symbols {
		symbol = domain.NormalizeSymbol(symbol)
		matches := family.SpeciesFor(symbol)
		switch {
		case len(matches) == 0:
			continue
		case len(matches) > 1 && policy == FailOnAmbiguity:
			return nil, fmt.Errorf("%w: family %q has %d species files for element %s",
				domain.ErrConsistency, familyName, len(matches), symbol)
		default:
			resolved[symbol] = matches[0]
		}
	}
	return resolved, nil
}

// collectSpeciesFiles enumerates the .in candidate files in dir, resolving
// symlinks to their real paths. Non-regular entries and other extensions are
// ignored.
func collectSpeciesFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrValidation, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrValidation, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), speciesExt) {
			continue
		}
		path, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}
