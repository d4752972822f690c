package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"elkbridge/internal/domain"
	"elkbridge/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCalcService(t *testing.T) (*FamilyService, *CalcService) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	families := NewFamilyService(store, zap.NewNop())
	return families, NewCalcService(families, zap.NewNop())
}

func bccIron() *domain.Structure {
	return &domain.Structure{
		Name: "bcc-Fe",
		Lattice: [3][3]float64{
			{2.87, 0, 0},
			{0, 2.87, 0},
			{0, 0, 2.87},
		},
		Sites: []domain.Site{
			{Symbol: "Fe", Position: [3]float64{0, 0, 0}},
			{Symbol: "Fe", Position: [3]float64{0.5, 0.5, 0.5}},
		},
	}
}

func TestPrepare(t *testing.T) {
	families, calcs := newTestCalcService(t)
	ctx := context.Background()

	basisDir := t.TempDir()
	writeSpecies(t, basisDir, "Fe.in", "Fe", "iron lapw basis")
	_, err := families.Upload(ctx, basisDir, "iron-basis", "", "alice@lab.org", false)
	require.NoError(t, err)

	workdir := t.TempDir()
	manifest, err := calcs.Prepare(ctx, bccIron(), "iron-basis", domain.RunParams{"ngridk": "4 4 4"}, workdir)
	require.NoError(t, err)

	assert.Equal(t, "elk.in", manifest.InputFilename)
	assert.Equal(t, "elk.out", manifest.OutputFilename)

	require.Len(t, manifest.LocalCopies, 1)
	assert.Equal(t, "Fe.in", manifest.LocalCopies[0].SourceFilename)
	assert.Equal(t, filepath.Join("species", "Fe.in"), manifest.LocalCopies[0].DestRelPath)
	assert.NotEmpty(t, manifest.LocalCopies[0].RecordID)

	// elk.out plus the fixed .OUT set
	assert.Len(t, manifest.RetrieveList, 1+len(domain.StandardOutputs))
	assert.Equal(t, "elk.out", manifest.RetrieveList[0])
	assert.Contains(t, manifest.RetrieveList, "TOTENERGY.OUT")
	assert.Contains(t, manifest.RetrieveList, "INFO.OUT")

	// The control file landed in the working directory
	data, err := os.ReadFile(filepath.Join(workdir, "elk.in"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "tasks")
	assert.Contains(t, content, "'Fe.in'")
	assert.Contains(t, content, "ngridk")
	assert.Contains(t, content, "'./species/'")
}

func TestPrepareMissingSpecies(t *testing.T) {
	families, calcs := newTestCalcService(t)
	ctx := context.Background()

	basisDir := t.TempDir()
	writeSpecies(t, basisDir, "H.in", "H", "hydrogen lapw basis")
	_, err := families.Upload(ctx, basisDir, "hydrogen-only", "", "alice@lab.org", false)
	require.NoError(t, err)

	_, err = calcs.Prepare(ctx, bccIron(), "hydrogen-only", nil, t.TempDir())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Fe")
}

func TestPrepareUnknownFamily(t *testing.T) {
	_, calcs := newTestCalcService(t)

	_, err := calcs.Prepare(context.Background(), bccIron(), "absent", nil, t.TempDir())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// writeOutputs fabricates a retrieved calculation directory with every
// expected file present.
func writeOutputs(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	defaults := map[string]string{
		"elk.out":        "Elk code version 8.8.26 started\n",
		"TOTENERGY.OUT":  "  -1230.1\n  -1240.5\n  -1241.3012345678\n",
		"DTOTENERGY.OUT": "  10.4\n  0.8\n",
		"EFERMI.OUT":     "  0.4295\n",
		"FERMIDOS.OUT":   "  12.5\n",
		"GAP.OUT":        "  0.0000000000       : direct band gap\n  0.0000000000       : indirect band gap\n",
		"RMSDVS.OUT":     "  0.1\n  0.01\n  0.0001\n",
		"INFO.OUT":       "Self-consistent loop started\n\nConvergence targets achieved\n\nElk code stopped\n",
		"KPOINTS.OUT":    "     8 : nkpt; k-point, vkl, wkpt, nmat below\n",
		"EIGVAL.OUT":     "     8 : nkpt\n    18 : nstsv\n",
	}
	for name, body := range overrides {
		defaults[name] = body
	}

	expected := append([]string{"elk.out"}, domain.StandardOutputs...)
	for _, name := range expected {
		body, ok := defaults[name]
		if !ok {
			body = name + " placeholder\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func TestParseOutputs(t *testing.T) {
	_, calcs := newTestCalcService(t)

	res, err := calcs.ParseOutputs(context.Background(), writeOutputs(t, nil))
	require.NoError(t, err)

	assert.InDelta(t, -1241.3012345678, res.TotalEnergy, 1e-9)
	assert.Len(t, res.TotalEnergyHistory, 3)
	assert.InDelta(t, 0.4295, res.FermiEnergy, 1e-9)
	assert.InDelta(t, 12.5, res.FermiDOS, 1e-9)
	assert.InDelta(t, 0.0, res.Gap, 1e-9)
	assert.Len(t, res.RMSLog, 3)
	assert.True(t, res.Converged)
	assert.Equal(t, 8, res.KPoints)
	assert.Equal(t, 18, res.States)
}

func TestParseOutputsNotConverged(t *testing.T) {
	_, calcs := newTestCalcService(t)

	dir := writeOutputs(t, map[string]string{
		"INFO.OUT": "Self-consistent loop started\nreached maximum iterations\n",
	})
	res, err := calcs.ParseOutputs(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, res.Converged)
}

func TestParseOutputsMissingFiles(t *testing.T) {
	_, calcs := newTestCalcService(t)

	dir := writeOutputs(t, nil)
	require.NoError(t, os.Remove(filepath.Join(dir, "GAP.OUT")))
	require.NoError(t, os.Remove(filepath.Join(dir, "EFERMI.OUT")))

	_, err := calcs.ParseOutputs(context.Background(), dir)
	require.ErrorIs(t, err, domain.ErrMissingOutput)
	assert.Contains(t, err.Error(), "GAP.OUT")
	assert.Contains(t, err.Error(), "EFERMI.OUT")
}

func TestParseOutputsEmptyDir(t *testing.T) {
	_, calcs := newTestCalcService(t)

	_, err := calcs.ParseOutputs(context.Background(), t.TempDir())
	require.ErrorIs(t, err, domain.ErrMissingOutput)
	// Every expected name is reported
	for _, name := range []string{"elk.out", "TOTENERGY.OUT", "SYMSITE.OUT"} {
		assert.True(t, strings.Contains(err.Error(), name), "missing list should name %s", name)
	}
}
