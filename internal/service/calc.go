package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elkbridge/internal/codec"
	"elkbridge/internal/domain"

	"go.uber.org/zap"
)

// CalcService prepares ELK calculation jobs for the workflow engine and
// parses what comes back. It owns no persistence of its own; species files
// come from the family repository.
type CalcService struct {
	families *FamilyService
	logger   *zap.Logger
}

// NewCalcService creates a new calculation service
func NewCalcService(families *FamilyService, logger *zap.Logger) *CalcService {
	return &CalcService{
		families: families,
		logger:   logger,
	}
}

// Prepare stages one calculation: it resolves the structure's elements
// against the named family, writes elk.in into workdir, and returns the
// manifest the engine needs to copy species files in and retrieve outputs
// afterwards.
//
// A structure element the family cannot supply fails here with a validation
// error rather than producing a job that cannot run.
func (s *CalcService) Prepare(ctx context.Context, st *domain.Structure, familyName string, params domain.RunParams, workdir string) (*domain.StagingManifest, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}

	symbols := st.SymbolSet()
	resolved, err := s.families.ResolveSpecies(ctx, familyName, symbols, PickFirst)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, sym := range symbols {
		if _, ok := resolved[sym]; !ok {
			missing = append(missing, sym)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: family %q has no species file for: %s",
			domain.ErrValidation, familyName, strings.Join(missing, ", "))
	}

	inputPath := filepath.Join(workdir, domain.DefaultInputFilename)
	f, err := os.Create(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", domain.ErrValidation, inputPath, err)
	}
	defer f.Close()

	if err := codec.WriteElkIn(f, st, resolved, params); err != nil {
		return nil, err
	}

	manifest := &domain.StagingManifest{
		InputFilename:  domain.DefaultInputFilename,
		OutputFilename: domain.DefaultOutputFilename,
		RetrieveList:   append([]string{domain.DefaultOutputFilename}, domain.StandardOutputs...),
	}
	for _, sym := range symbols {
		sf := resolved[sym]
		manifest.LocalCopies = append(manifest.LocalCopies, domain.LocalCopy{
			RecordID:       sf.ID,
			SourceFilename: sf.Filename,
			DestRelPath:    filepath.Join(domain.SpeciesSubfolder, sf.Filename),
		})
	}

	s.logger.Info("prepared calculation",
		zap.String("family", familyName),
		zap.Strings("elements", symbols),
		zap.String("workdir", workdir))

	return manifest, nil
}

// ParseOutputs reads a retrieved calculation directory into a structured
// result record. Every file on the retrieve list must be present; missing
// files fail with ErrMissingOutput naming them all.
func (s *CalcService) ParseOutputs(ctx context.Context, dir string) (*domain.Results, error) {
	expected := append([]string{domain.DefaultOutputFilename}, domain.StandardOutputs...)

	var missing []string
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingOutput, strings.Join(missing, ", "))
	}

	res := &domain.Results{}

	energies, err := s.readSeries(dir, "TOTENERGY.OUT")
	if err != nil {
		return nil, err
	}
	if len(energies) > 0 {
		res.TotalEnergyHistory = energies
		res.TotalEnergy = energies[len(energies)-1]
	}

	if res.FermiEnergy, err = s.readScalar(dir, "EFERMI.OUT"); err != nil {
		return nil, err
	}
	if res.FermiDOS, err = s.readScalar(dir, "FERMIDOS.OUT"); err != nil {
		return nil, err
	}
	if res.Gap, err = s.readScalar(dir, "GAP.OUT"); err != nil {
		return nil, err
	}
	if res.RMSLog, err = s.readSeries(dir, "RMSDVS.OUT"); err != nil {
		return nil, err
	}

	if err := s.withFile(dir, "INFO.OUT", func(f *os.File) error {
		converged, err := codec.ReadConverged(f)
		res.Converged = converged
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.withFile(dir, "KPOINTS.OUT", func(f *os.File) error {
		nkpt, err := codec.ReadCountHeader(f)
		res.KPoints = nkpt
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.withFile(dir, "EIGVAL.OUT", func(f *os.File) error {
		_, nstsv, err := codec.ReadEigvalHeader(f)
		res.States = nstsv
		return err
	}); err != nil {
		return nil, err
	}

	s.logger.Info("parsed calculation outputs",
		zap.String("dir", dir),
		zap.Float64("total_energy", res.TotalEnergy),
		zap.Bool("converged", res.Converged))

	return res, nil
}

func (s *CalcService) readSeries(dir, name string) ([]float64, error) {
	var values []float64
	err := s.withFile(dir, name, func(f *os.File) error {
		var err error
		values, err = codec.ReadFloatSeries(f)
		return err
	})
	return values, err
}

func (s *CalcService) readScalar(dir, name string) (float64, error) {
	var value float64
	err := s.withFile(dir, name, func(f *os.File) error {
		var err error
		value, err = codec.ReadScalar(f)
		return err
	})
	return value, err
}

func (s *CalcService) withFile(dir, name string, fn func(*os.File) error) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
