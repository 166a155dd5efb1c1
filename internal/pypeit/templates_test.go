package pypeit

import (
	"strings"
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{Filename: "ALDh100090.fits", FrameType: "bias", RA: "350.1", Dec: "-12.5", Target: "bias", Dispname: "Grism_4", Decker: "Slit_1.0", Binning: "1,1", MJD: "58756.7", Airmass: "1.0", Exptime: "0.0"},
		{Filename: "ALDh100100.fits", FrameType: "science", RA: "350.1", Dec: "-12.5", Target: "SN2019abc", Dispname: "Grism_4", Decker: "Slit_1.0", Binning: "1,1", MJD: "58756.75", Airmass: "1.23", Exptime: "900.0"},
	}
}

func TestWriteDataset(t *testing.T) {
	var sb strings.Builder
	err := WriteDataset(&sb, Dataset{
		Spectrograph: "not_alfosc",
		SciDir:       "sci/20190930-SN2019abc",
		QADir:        "QA/20190930-SN2019abc",
		CalibsDir:    "calibs/20190930-SN2019abc",
		RawDir:       "raw/20190930",
		Grism:        "Grism_4",
		Slit:         "Slit_1.0",
		Rows:         sampleRows(),
	})
	if err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"spectrograph = not_alfosc\n",
		"scidir = sci/20190930-SN2019abc\n",
		"calib_dir = calibs/20190930-SN2019abc\n",
		"       name: Grism_4\n",
		"       decker: Slit_1.0\n",
		"data read\n path raw/20190930\n|        filename | frametype |",
		"| ALDh100100.fits | science | 350.1 | -12.5 | SN2019abc | Grism_4 | Slit_1.0 | 1,1 | 58756.75 | 1.23 | 900.0 |\ndata end\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dataset output missing %q\n%s", want, out)
		}
	}

	// The written file must read back through the parser
	pf, err := ParseFile(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if pf.SciDir != "sci/20190930-SN2019abc" {
		t.Errorf("SciDir = %q", pf.SciDir)
	}
	if len(pf.Rows) != 2 {
		t.Errorf("got %d rows, expected 2", len(pf.Rows))
	}
}

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	if err := WriteTable(&sb, sampleRows()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected 3:\n%s", len(lines), sb.String())
	}
	if !strings.HasPrefix(lines[0], "|        filename |") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "| ALDh100090.fits | bias |") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestWriteLRIS(t *testing.T) {
	rows := []LRISRow{{
		Row:      Row{Filename: "r190930_0042.fits", FrameType: "science", Target: "SN2019abc", Binning: "2,2"},
		Dichroic: "560",
		LampStat: "HgI NeI",
		DateObs:  "2019-09-30",
	}}

	var sb strings.Builder
	if err := WriteLRISTable(&sb, rows); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "| r190930_0042.fits | science |") || !strings.Contains(sb.String(), "| HgI NeI | 2019-09-30 |") {
		t.Errorf("LRIS table = %q", sb.String())
	}

	sb.Reset()
	err := WriteLRISDataset(&sb, LRISDataset{Spectrograph: "keck_lris_red", Dichroic: "560", Rows: rows})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "spectrograph = keck_lris_red\n") || !strings.Contains(sb.String(), "snr_thresh = 5") {
		t.Errorf("LRIS dataset = %q", sb.String())
	}
}

func TestWriteFluxCalib(t *testing.T) {
	var sb strings.Builder
	err := WriteFluxCalib(&sb, []FluxEntry{
		{Frame: "sci/a/spec1d_a.fits", SensFile: "sens/58756.7500.fits"},
		{Frame: "sci/b/spec1d_b.fits", SensFile: "sens/58757.7500.fits"},
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := "[fluxcalib]\n" +
		"extinct_correct=True\n" +
		"extrap_sens=False\n" +
		"flux read\n" +
		"\tfilename | sensfile\n" +
		"\tsci/a/spec1d_a.fits | sens/58756.7500.fits\n" +
		"\tsci/b/spec1d_b.fits | sens/58757.7500.fits\n" +
		"flux end\n"
	if sb.String() != expected {
		t.Errorf("WriteFluxCalib() = %q, expected %q", sb.String(), expected)
	}
}

func TestWriteCoadd(t *testing.T) {
	var sb strings.Builder
	err := WriteCoadd(&sb, Coadd{
		Output: "SN2019abc_coadd.fits",
		Entries: []CoaddEntry{
			{Spectrum: "spec1d_a.fits", ObjID: "SPAT0250-SLIT0250-DET01"},
			{Spectrum: "spec1d_b.fits", ObjID: "SPAT0251-SLIT0250-DET01"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := "[coadd1d]\n" +
		"coaddfile=SN2019abc_coadd.fits\n" +
		"\n" +
		"coadd1d read\n" +
		"filename | obj_id\n" +
		"  spec1d_a.fits | SPAT0250-SLIT0250-DET01\n" +
		"  spec1d_b.fits | SPAT0251-SLIT0250-DET01\n" +
		"coadd1d end\n"
	if sb.String() != expected {
		t.Errorf("WriteCoadd() = %q, expected %q", sb.String(), expected)
	}

	err = WriteCoadd(&sb, Coadd{Output: "x.fits", Entries: []CoaddEntry{{Spectrum: "a", ObjID: "b"}}})
	if err == nil {
		t.Error("expected error for a single spectrum")
	}
}

func TestDatasetPaths(t *testing.T) {
	p := DatasetPaths("datasets", "calibs", "sci", "QA", "20190930", "STD-BD+28")
	expected := Paths{
		File:      "datasets/20190930-STD-BD+28.pypeit",
		CalibsDir: "calibs/20190930-STD-BD+28",
		SciDir:    "sci/20190930-STD-BD+28",
		QADir:     "QA/20190930-STD-BD+28",
	}
	if p != expected {
		t.Errorf("DatasetPaths() = %+v, expected %+v", p, expected)
	}
}
