// create-datasets writes one PypeIt reduction file per science target and
// standard star observed in a night.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/frames"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/outfile"
	"github.com/specred/specred/internal/pypeit"
	"github.com/specred/specred/pkg/config"
)

// similarityThreshold is the Jaro-Winkler score above which two object
// names are reported as a probable typo
const similarityThreshold = 0.9

func main() {
	common := cli.Flags("[flags] DAY")
	overwrite := flag.Bool("overwrite", false, "Overwrite existing reduction files")
	instrument := flag.String("instrument", "alfosc", "Instrument of the night: alfosc or lris")
	arm := flag.String("arm", "red", "LRIS arm (blue or red)")
	cfg := common.Start(1)
	defer log.Sync()

	day := flag.Arg(0)

	var err error
	switch strings.ToLower(*instrument) {
	case "alfosc":
		err = alfosc(cfg, day, *overwrite)
	case "lris":
		err = lris(cfg, day, strings.ToLower(*arm), *overwrite)
	default:
		err = fmt.Errorf("unknown instrument %q, expected alfosc or lris", *instrument)
	}
	if err != nil {
		cli.Exit(err)
	}
}

func alfosc(cfg *config.ConfigData, day string, overwrite bool) error {
	log.Infof("producing datasets for %s", day)

	rawDir := filepath.Join(cfg.Paths.Raw, day)
	all, err := frames.Load(rawDir)
	if err != nil {
		return err
	}
	log.Infof("found %d frames in %s", len(all), rawDir)
	for _, f := range all {
		if len(f.Missing) > 0 {
			log.Debugf("%s lacks %v", f.Name(), f.Missing)
		}
	}

	groups := frames.Groups(all)
	var names []string
	for _, g := range groups {
		names = append(names, g.Frames[0].Object)
	}
	for _, p := range frames.SimilarTargets(names, similarityThreshold) {
		log.Warnf("object names %q and %q are %.0f%% similar, check for a typo", p.A, p.B, 100*p.Similarity)
	}

	for _, g := range groups {
		log.Infof("dataset %s: %d frames", g.Name, len(g.Frames))
		entries, err := frames.BuildDataset(all, g.Frames)
		if err != nil {
			return fmt.Errorf("dataset %s: %w", g.Name, err)
		}

		paths := pypeit.DatasetPaths(cfg.Paths.Datasets, cfg.Paths.Calibs, cfg.Paths.Sci, cfg.Paths.QA, day, g.Name)
		last := g.Frames[len(g.Frames)-1]
		d := pypeit.Dataset{
			Spectrograph: cfg.Pipeline.Spectrograph,
			SciDir:       paths.SciDir,
			QADir:        paths.QADir,
			CalibsDir:    paths.CalibsDir,
			RawDir:       rawDir,
			Grism:        frames.GrismName(last.Grism),
			Slit:         last.Slit,
			Rows:         frames.Rows(entries),
		}
		if err := write(paths.File, overwrite, func(f *os.File) error {
			return pypeit.WriteDataset(f, d)
		}); err != nil {
			return err
		}
	}
	return nil
}

func lris(cfg *config.ConfigData, day, arm string, overwrite bool) error {
	if arm != "blue" && arm != "red" {
		return fmt.Errorf("unknown LRIS arm %q, expected blue or red", arm)
	}
	rawDir := filepath.Join(cfg.Paths.Raw, day, arm)
	paths, err := frames.Paths(rawDir)
	if err != nil {
		return err
	}
	log.Infof("found %d frames in %s", len(paths), rawDir)
	if len(paths) == 0 {
		return fmt.Errorf("no frames in %s", rawDir)
	}

	rows := make([]pypeit.LRISRow, 0, len(paths))
	for _, p := range paths {
		h, err := fitsfile.ReadHeader(p, fitsfile.Index(0))
		if err != nil {
			return err
		}
		row, err := frames.LRISRow(p, h, arm)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		rows = append(rows, row)
	}

	if err := pypeit.WriteLRISTable(os.Stdout, rows); err != nil {
		return err
	}

	target := "lris-" + arm
	dp := pypeit.DatasetPaths(cfg.Paths.Datasets, cfg.Paths.Calibs, cfg.Paths.Sci, cfg.Paths.QA, day, target)
	last := rows[len(rows)-1]
	d := pypeit.LRISDataset{
		Spectrograph: "keck_lris_" + arm,
		SciDir:       dp.SciDir,
		QADir:        dp.QADir,
		CalibsDir:    dp.CalibsDir,
		RawDir:       rawDir,
		Disperser:    last.Dispname,
		Dichroic:     last.Dichroic,
		Slit:         last.Decker,
		Amp:          last.Amp,
		Binning:      last.Binning,
		DispAngle:    last.DispAngle,
		CenWave:      last.CenWave,
		Rows:         rows,
	}
	return write(dp.File, overwrite, func(f *os.File) error {
		return pypeit.WriteLRISDataset(f, d)
	})
}

// write creates path with fn unless it exists and overwrite is false, in
// which case the file is skipped with a log line
func write(path string, overwrite bool, fn func(*os.File) error) error {
	exists, err := outfile.Check(path, overwrite)
	if errors.Is(err, outfile.ErrDestinationExists) {
		log.Infof("%s already exists, skipping", path)
		return nil
	}
	if err != nil {
		return err
	}
	if exists {
		log.Infof("overwriting %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Infof("generated %s", path)
	return f.Close()
}
