// Package pypeit reads and writes the text files PypeIt is driven by: the
// .pypeit reduction files, flux calibration and coadd parameter files.
package pypeit

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/template"
)

//go:embed templates
var templatesFS embed.FS

// templateFiles returns the template directory. SPECRED_TEMPLATES_DIR
// points at a directory on disk to use instead of the built-in set.
func templateFiles() (fs.FS, error) {
	if dir := os.Getenv("SPECRED_TEMPLATES_DIR"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}
	return fs.Sub(templatesFS, "templates")
}

func render(w io.Writer, name string, data interface{}) error {
	files, err := templateFiles()
	if err != nil {
		return err
	}
	t, err := template.New(name).ParseFS(files, "*.tmpl")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

// Row is one line of the ALFOSC data table, already formatted
type Row struct {
	Filename  string
	FrameType string
	RA        string
	Dec       string
	Target    string
	Dispname  string
	Decker    string
	Binning   string
	MJD       string
	Airmass   string
	Exptime   string
}

// LRISRow extends Row with the extra LRIS setup columns
type LRISRow struct {
	Row
	Dichroic  string
	Amp       string
	DispAngle string
	CenWave   string
	Hatch     string
	LampStat  string
	DateObs   string
}

// Dataset is everything an ALFOSC .pypeit file needs
type Dataset struct {
	Spectrograph string
	SciDir       string
	QADir        string
	CalibsDir    string
	RawDir       string
	Grism        string
	Slit         string
	Rows         []Row
}

// LRISDataset is everything an LRIS .pypeit file needs
type LRISDataset struct {
	Spectrograph string
	SciDir       string
	QADir        string
	CalibsDir    string
	RawDir       string
	Disperser    string
	Dichroic     string
	Slit         string
	Amp          string
	Binning      string
	DispAngle    string
	CenWave      string
	Rows         []LRISRow
}

// FluxEntry pairs a spec1d file with the sensitivity function to apply
type FluxEntry struct {
	Frame    string
	SensFile string
}

// CoaddEntry names the trace to take from one spectrum
type CoaddEntry struct {
	Spectrum string
	ObjID    string
}

// Coadd is the content of a coadd1d parameter file
type Coadd struct {
	Output  string
	Entries []CoaddEntry
}

// WriteDataset renders an ALFOSC reduction file
func WriteDataset(w io.Writer, d Dataset) error {
	return render(w, "alfosc.pypeit.tmpl", d)
}

// WriteLRISDataset renders an LRIS reduction file
func WriteLRISDataset(w io.Writer, d LRISDataset) error {
	return render(w, "lris.pypeit.tmpl", d)
}

// WriteTable renders an ALFOSC data table with its header line
func WriteTable(w io.Writer, rows []Row) error {
	return render(w, "alfosc-table", rows)
}

// WriteLRISTable renders an LRIS data table with its header line
func WriteLRISTable(w io.Writer, rows []LRISRow) error {
	return render(w, "lris-table", rows)
}

// WriteFluxCalib renders a pypeit_flux_calib parameter file
func WriteFluxCalib(w io.Writer, entries []FluxEntry) error {
	return render(w, "fluxcal.para.tmpl", entries)
}

// WriteCoadd renders a pypeit_coadd_1dspec parameter file
func WriteCoadd(w io.Writer, c Coadd) error {
	if len(c.Entries) < 2 {
		return fmt.Errorf("coadding needs at least two spectra, got %d", len(c.Entries))
	}
	return render(w, "coadd1d.par.tmpl", c)
}

// Paths are the per-dataset locations used in a reduction file
type Paths struct {
	File      string
	CalibsDir string
	SciDir    string
	QADir     string
}

// DatasetPaths names the reduction file and output directories of one
// dataset, e.g. datasets/20190930-SN2019abc.pypeit
func DatasetPaths(datasets, calibs, sci, qa, day, target string) Paths {
	name := day + "-" + target
	return Paths{
		File:      fmt.Sprintf("%s/%s.pypeit", datasets, name),
		CalibsDir: fmt.Sprintf("%s/%s", calibs, name),
		SciDir:    fmt.Sprintf("%s/%s", sci, name),
		QADir:     fmt.Sprintf("%s/%s", qa, name),
	}
}
