package domain

// Default control and log filenames for an ELK run.
const (
	DefaultInputFilename  = "elk.in"
	DefaultOutputFilename = "elk.out"

	// SpeciesSubfolder is the job-relative directory species files are
	// staged into; elk.in points its species path here.
	SpeciesSubfolder = "species"
)

// StandardOutputs lists the fixed .OUT files ELK writes for a ground-state
// run. Every name is retrieved after execution and required by the parser.
var StandardOutputs = []string{
	"DTOTENERGY.OUT",
	"EFERMI.OUT",
	"EIGVAL.OUT",
	"EQATOMS.OUT",
	"EVALCORE.OUT",
	"EVALFV.OUT",
	"EVALSV.OUT",
	"FERMIDOS.OUT",
	"GAP.OUT",
	"GEOMETRY.OUT",
	"IADIST.OUT",
	"INFO.OUT",
	"KPOINTS.OUT",
	"LATTICE.OUT",
	"LINENGY.OUT",
	"OCCSV.OUT",
	"RMSDVS.OUT",
	"SYMCRYS.OUT",
	"SYMLAT.OUT",
	"SYMSITE.OUT",
	"TOTENERGY.OUT",
}

// LocalCopy tells the workflow engine to materialize one stored file into the
// job working directory before execution.
type LocalCopy struct {
	// RecordID is the stored species file to copy from
	RecordID string `json:"record_id" yaml:"record_id"`

	// SourceFilename is the filename within the record
	SourceFilename string `json:"source_filename" yaml:"source_filename"`

	// DestRelPath is the job-relative destination path
	DestRelPath string `json:"dest_rel_path" yaml:"dest_rel_path"`
}

// StagingManifest is what the engine needs to run one calculation: which
// stored files to copy in beforehand and which output files to bring back
// afterwards. The elk.in control file is written directly into the working
// directory and is not part of the copy list.
type StagingManifest struct {
	InputFilename  string      `json:"input_filename" yaml:"input_filename"`
	OutputFilename string      `json:"output_filename" yaml:"output_filename"`
	LocalCopies    []LocalCopy `json:"local_copies" yaml:"local_copies"`
	RetrieveList   []string    `json:"retrieve_list" yaml:"retrieve_list"`
}

// RunParams are caller-supplied ELK input parameters appended to the
// generated control file. Keys are elk.in block names (ngridk, rgkmax, ...);
// values are written verbatim under the block header.
type RunParams map[string]string

// Results holds the structured record parsed from a retrieved calculation.
type Results struct {
	// TotalEnergy is the final total energy in Hartree
	TotalEnergy float64 `json:"total_energy" yaml:"total_energy"`

	// TotalEnergyHistory is the per-iteration total energy series
	TotalEnergyHistory []float64 `json:"total_energy_history,omitempty" yaml:"total_energy_history,omitempty"`

	// FermiEnergy is the final Fermi energy in Hartree
	FermiEnergy float64 `json:"fermi_energy" yaml:"fermi_energy"`

	// FermiDOS is the density of states at the Fermi energy
	FermiDOS float64 `json:"fermi_dos" yaml:"fermi_dos"`

	// Gap is the estimated band gap in Hartree
	Gap float64 `json:"gap" yaml:"gap"`

	// RMSLog is the per-iteration RMS change of the effective potential
	RMSLog []float64 `json:"rms_log,omitempty" yaml:"rms_log,omitempty"`

	// Converged reports whether INFO.OUT declares self-consistency reached
	Converged bool `json:"converged" yaml:"converged"`

	// KPoints is the number of k-points in the run
	KPoints int `json:"k_points,omitempty" yaml:"k_points,omitempty"`

	// States is the number of second-variational states per k-point
	States int `json:"states,omitempty" yaml:"states,omitempty"`
}
