package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"

	"github.com/specred/specred/internal/fitsfile/fitstest"
	"github.com/specred/specred/internal/sidecar"
	"github.com/specred/specred/pkg/config"
)

func TestOutputNames(t *testing.T) {
	tests := []struct {
		fname string
		cut   float64
		ascii string
		plot  string
	}{
		{"sci/20190930-SN2019abc/spec1d_ALDh100040-SN2019abc_ALFOSC_20190930T211406.fits", 3500,
			"spec1d_ALDh100040-SN2019abc_ALFOSC_20190930T211406_3500.ascii",
			"spec1d_ALDh100040-SN2019abc_ALFOSC_20190930T211406.pdf"},
		{"coadd.fits", 4000, "coadd_4000.ascii", "coadd.pdf"},
		{"coadd.fits", 3850.7, "coadd_3850.ascii", "coadd.pdf"},
	}
	for _, tt := range tests {
		if got := asciiName(tt.fname, tt.cut); got != tt.ascii {
			t.Errorf("asciiName(%s, %v) = %s, expected %s", tt.fname, tt.cut, got, tt.ascii)
		}
		if got := plotName(tt.fname); got != tt.plot {
			t.Errorf("plotName(%s) = %s, expected %s", tt.fname, got, tt.plot)
		}
	}
}

const (
	spec1dName = "sci/spec1d_ALDh100040-SN2019abc_ALFOSC_20190930T211406.fits"
	traceName  = "SPAT0250-SLIT0250-DET01"
)

const reductionLog = `# Auto-generated PypeIt input file
[rdx]
    spectrograph = not_alfosc
    scidir = sci

data read
 path raw/20190930
| filename        | frametype | target    | decker   | dispname | mjd         | exptime |
| ALDh100030.fits | bias      | bias      | Open     | Open     | 58756.61000 |     0.0 |
| ALDh100040.fits | science   | SN2019abc | Slit_1.0 | Grism_4  | 58756.88340 |   900.0 |
data end
`

// reduction lays out a reduced night below a fresh working directory
func reduction(t *testing.T, catalog string) {
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })

	for _, d := range []string{"raw/20190930", "sci"} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	rawCards := append(fitstest.History("ALFOSC FASU", "readout fast"),
		fitsio.Card{Name: "OBJECT", Value: "SN2019abc"},
		fitsio.Card{Name: "OBJRA", Value: 350.125},
		fitsio.Card{Name: "OBJDEC", Value: -12.5},
		fitsio.Card{Name: "OBJEQUIN", Value: 2000.0},
		fitsio.Card{Name: "RADECSYS", Value: "FK5"},
		fitsio.Card{Name: "OBJPMRA", Value: 0.0},
		fitsio.Card{Name: "OBJPMDEC", Value: 0.0},
		fitsio.Card{Name: "OBSERVAT", Value: "ORM"},
		fitsio.Card{Name: "DETNAME", Value: "CCD14"},
		fitsio.Card{Name: "CHIPID", Value: "E2V-CCD231-42"},
		fitsio.Card{Name: "DETWIN1", Value: "[1:2148, 1:2102]"},
		fitsio.Card{Name: "PROPID", Value: "60-023"},
		fitsio.Card{Name: "PROPTITL", Value: "Transient follow-up"},
		fitsio.Card{Name: "OBSERVER", Value: "Night Observer"},
		fitsio.Card{Name: "GROUPID", Value: 4711},
		fitsio.Card{Name: "BLOCKID", Value: 2},
	)
	fitstest.Write(t, "raw/20190930/ALDh100040.fits", fitstest.HDU{Cards: rawCards})

	primary := []fitsio.Card{
		{Name: "LON-OBS", Value: -17.885},
		{Name: "LAT-OBS", Value: 28.7567},
		{Name: "ALT-OBS", Value: 2382.0},
		{Name: "BINNING", Value: "1,1"},
		{Name: "AIRMASS", Value: 1.23},
		{Name: "COMMENT", Comment: "written by PypeIt"},
	}
	primary = append(primary, fitstest.History("pypeit_setup -s not_alfosc", "run_pypeit SN2019abc.pypeit")...)
	primary = append(primary,
		fitsio.Card{Name: "VERSPYP", Value: "1.16.0"},
		fitsio.Card{Name: "EXT0000", Value: traceName},
	)
	fitstest.Write(t, spec1dName,
		fitstest.HDU{Cards: primary},
		fitstest.HDU{
			Name: traceName,
			Cards: []fitsio.Card{
				{Name: "WAVE_RMS", Value: 0.041},
				{Name: "FWHM", Value: 3.4},
			},
			Columns: []fitstest.Column{
				{Name: "OPT_WAVE", Values: []float64{3300, 3100, 4200, 3600}},
				{Name: "OPT_FLAM", Values: []float64{1.5, 1.25, 2.5, 2}},
				{Name: "OPT_FLAM_IVAR", Values: []float64{4, 4, 4, 4}},
			},
		},
	)

	if err := os.WriteFile("sci/spec1d_ALDh100040-SN2019abc_ALFOSC_20190930T211406.txt", []byte(catalog), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("SN2019abc.pypeit", []byte(reductionLog), 0644); err != nil {
		t.Fatal(err)
	}
}

func dataLines(t *testing.T, path string) (comments, data []string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if strings.HasPrefix(l, "# ") {
			comments = append(comments, strings.TrimPrefix(l, "# "))
		} else {
			data = append(data, l)
		}
	}
	return comments, data
}

func TestRun(t *testing.T) {
	reduction(t, "| slit |                    name | spat_pixpos |\n|  250 | "+traceName+" |       250.2 |\n")

	cfg := config.Default()
	cfg.Output.Sidecar = "json"
	cfg.People.Observer = "Jane Doe"
	if err := run(cfg, spec1dName, "SN2019abc.pypeit", "", 4000); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	base := "spec1d_ALDh100040-SN2019abc_ALFOSC_20190930T211406"
	for _, name := range []string{"_3000.ascii", "_3250.ascii", "_3500.ascii", "_3850.ascii", "_4000.ascii", ".pdf", ".json"} {
		if _, err := os.Stat(base + name); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}

	comments, data := dataLines(t, base+"_4000.ascii")
	for _, expected := range []string{
		"HEADER: START",
		"OBJECT: SN2019abc",
		"RA: 350.125",
		"NOT_OBSERVER: Night Observer",
		"HOME_OBSERVER: Jesper Sollerman, Jane Doe",
		"PIPELINE: PypeIt v1.16.0",
		"EXTENSION: " + traceName,
		"HISTORY 0: pypeit_setup -s not_alfosc",
		"HISTORY 1: run_pypeit SN2019abc.pypeit",
		"HEADER: END",
		"COLUMNS: WAVE FLUX FLUX_ERR",
	} {
		found := false
		for _, c := range comments {
			if c == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("header line %q not written", expected)
		}
	}
	if len(data) != 1 || data[0] != "4200.0 2.5 0.5" {
		t.Errorf("4000 A table = %q, expected one pixel", data)
	}

	_, data = dataLines(t, base+"_3000.ascii")
	expected := []string{"3100.0 1.25 0.5", "3300.0 1.5 0.5", "3600.0 2.0 0.5", "4200.0 2.5 0.5"}
	if strings.Join(data, "|") != strings.Join(expected, "|") {
		t.Errorf("3000 A table = %q, expected %q", data, expected)
	}

	f, err := os.Open(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	format, err := sidecar.ParseFormat("json")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := sidecar.Read(f, format)
	if err != nil {
		t.Fatalf("sidecar.Read() error: %v", err)
	}
	if doc.Extension != traceName {
		t.Errorf("sidecar Extension = %s, expected %s", doc.Extension, traceName)
	}
	if len(doc.Tables) != 5 || doc.Tables[4].Pixels != 1 || doc.Tables[0].Pixels != 4 {
		t.Errorf("sidecar Tables = %+v", doc.Tables)
	}
}

func TestRunUnknownTrace(t *testing.T) {
	reduction(t, "| slit |                    name | spat_pixpos |\n"+
		"|  250 | SPAT0118-SLIT0250-DET01 |       118.4 |\n"+
		"|  250 | "+traceName+" |       250.2 |\n")

	err := run(config.Default(), spec1dName, "SN2019abc.pypeit", "SPAT0999-SLIT0250-DET01", 4000)
	if err == nil {
		t.Fatal("run() succeeded for a trace missing from the catalog")
	}
	matches, _ := filepath.Glob("*.ascii")
	if len(matches) != 0 {
		t.Errorf("wrote %v before failing", matches)
	}
}
