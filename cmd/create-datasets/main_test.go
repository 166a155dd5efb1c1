package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"

	"github.com/specred/specred/internal/fitsfile/fitstest"
	"github.com/specred/specred/internal/pypeit"
	"github.com/specred/specred/pkg/config"
)

const day = "20190930"

type rawFrame struct {
	file      string
	imageType string
	imageCat  string
	object    string
	ra        float64
}

func writeNight(t *testing.T, rawDir string, fs []rawFrame) {
	t.Helper()
	dir := filepath.Join(rawDir, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i, f := range fs {
		cards := []fitsio.Card{
			{Name: "DATE-OBS", Value: "2019-09-30T18:00:00.000"},
			{Name: "RA", Value: f.ra},
			{Name: "DEC", Value: 20.0},
			{Name: "IMAGETYP", Value: f.imageType},
			{Name: "IMAGECAT", Value: f.imageCat},
			{Name: "OBJECT", Value: f.object},
			{Name: "EXPTIME", Value: float64(10 * i)},
			{Name: "ALGRNM", Value: "Grism_#4"},
			{Name: "ALAPRTNM", Value: "Slit_1.0"},
			{Name: "DETWIN1", Value: "[1:2148,1:2102]"},
			{Name: "AIRMASS", Value: 1.1},
		}
		fitstest.Write(t, filepath.Join(dir, f.file), fitstest.HDU{Cards: cards})
	}
}

func testConfig(t *testing.T) *config.ConfigData {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Raw = filepath.Join(dir, "raw")
	cfg.Paths.Datasets = filepath.Join(dir, "datasets")
	cfg.Paths.Calibs = filepath.Join(dir, "calibs")
	cfg.Paths.Sci = filepath.Join(dir, "sci")
	cfg.Paths.QA = filepath.Join(dir, "QA")
	return cfg
}

func frameTypes(t *testing.T, path string) map[string]string {
	t.Helper()
	pf, err := pypeit.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	out := make(map[string]string)
	for _, r := range pf.Rows {
		out[r["filename"]] = r["frametype"]
	}
	return out
}

func TestAlfosc(t *testing.T) {
	cfg := testConfig(t)
	writeNight(t, cfg.Paths.Raw, []rawFrame{
		{"ALDh100001.fits", "BIAS", "CALIB", "bias", 0},
		{"ALDh100010.fits", "WAVE,LAMP", "CALIB", "HeNe", 10.1},
		{"ALDh100011.fits", "FLAT,LAMP", "CALIB", "Halogen", 10.1},
		{"ALDh100012.fits", "FLAT,LAMP", "CALIB", "Halogen", 200},
		{"ALDh100020.fits", "STD", "CALIB", "SP2209+178", 10.2},
		{"ALDh100040.fits", "OBJECT", "SCIENCE", "SN2019abc", 10.0},
		{"ALDh100041.fits", "OBJECT", "SCIENCE", "SN2019abc", 10.0},
	})

	if err := alfosc(cfg, day, false); err != nil {
		t.Fatalf("alfosc() error = %v", err)
	}

	sci := frameTypes(t, filepath.Join(cfg.Paths.Datasets, day+"-SN2019abc.pypeit"))
	expected := map[string]string{
		"ALDh100001.fits": "bias",
		"ALDh100010.fits": "tilt,arc",
		"ALDh100011.fits": "trace,illumflat,pixelflat",
		"ALDh100040.fits": "science",
		"ALDh100041.fits": "science",
	}
	if len(sci) != len(expected) {
		t.Errorf("science dataset rows = %v", sci)
	}
	for file, ft := range expected {
		if sci[file] != ft {
			t.Errorf("%s frametype = %q, expected %q", file, sci[file], ft)
		}
	}
	if _, ok := sci["ALDh100012.fits"]; ok {
		t.Error("flat taken far from the target included")
	}

	std := frameTypes(t, filepath.Join(cfg.Paths.Datasets, day+"-STD-SP2209+178.pypeit"))
	if std["ALDh100020.fits"] != "science" {
		t.Errorf("standard dataset rows = %v", std)
	}
}

func TestAlfoscSkipsExistingDatasets(t *testing.T) {
	cfg := testConfig(t)
	writeNight(t, cfg.Paths.Raw, []rawFrame{
		{"ALDh100001.fits", "BIAS", "CALIB", "bias", 0},
		{"ALDh100040.fits", "OBJECT", "SCIENCE", "SN2019abc", 10.0},
	})
	path := filepath.Join(cfg.Paths.Datasets, day+"-SN2019abc.pypeit")
	if err := os.MkdirAll(cfg.Paths.Datasets, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("edited by hand\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := alfosc(cfg, day, false); err != nil {
		t.Fatalf("alfosc() error = %v", err)
	}
	if body, _ := os.ReadFile(path); string(body) != "edited by hand\n" {
		t.Errorf("existing dataset overwritten without -overwrite: %q", body)
	}

	if err := alfosc(cfg, day, true); err != nil {
		t.Fatalf("alfosc(overwrite) error = %v", err)
	}
	if got := frameTypes(t, path); got["ALDh100040.fits"] != "science" {
		t.Errorf("dataset not rewritten: %v", got)
	}
}

func TestLrisRejectsUnknownArm(t *testing.T) {
	if err := lris(testConfig(t), day, "green", false); err == nil {
		t.Error("lris() expected error for an unknown arm")
	}
}
