// create-sensfunc runs pypeit_sensfunc on every reduced standard star of a
// night and stores the results in the sensitivity library, named by MJD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/specred/specred/internal/calib"
	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/outfile"
	"github.com/specred/specred/internal/runner"
	"github.com/specred/specred/pkg/config"
)

func main() {
	common := cli.Flags("[flags] DAY | -path DIR")
	overwrite := flag.Bool("overwrite", false, "Overwrite existing sensitivity functions")
	dir := flag.String("path", "", "Directory holding the standard star spec1d files instead of a night")
	dryRun := flag.Bool("dry-run", false, "Log the pipeline commands without running them")
	cfg := common.Start(0)
	defer log.Sync()

	if *dir == "" && flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	pattern := filepath.Join(*dir, "spec1d*.fits")
	if *dir == "" {
		day := flag.Arg(0)
		log.Infof("searching for standard star frames of %s", day)
		pattern = filepath.Join(cfg.Paths.Sci, day+"-STD-*", "spec1d*.fits")
	} else {
		log.Infof("searching for standard star frames in %s", *dir)
	}

	spec1d, err := filepath.Glob(pattern)
	if err != nil {
		cli.Exit(err)
	}
	sort.Strings(spec1d)
	if len(spec1d) == 0 {
		log.Warnf("no files match %s", pattern)
		return
	}

	var r runner.Runner = runner.Exec{}
	if *dryRun {
		r = runner.DryRun{}
	}
	if err := run(context.Background(), r, cfg, spec1d, primaryMJD, *overwrite); err != nil {
		cli.Exit(err)
	}
}

func primaryMJD(path string) (float64, error) {
	h, err := fitsfile.ReadHeader(path, fitsfile.Index(0))
	if err != nil {
		return 0, err
	}
	return h.Float("MJD")
}

// run creates one sensitivity function per spec1d file. The destination is
// checked before each pipeline call so an existing file stops the run.
func run(ctx context.Context, r runner.Runner, cfg *config.ConfigData, spec1d []string,
	mjdOf func(string) (float64, error), overwrite bool) error {
	for _, frame := range spec1d {
		mjd, err := mjdOf(frame)
		if err != nil {
			return fmt.Errorf("%s: %w", frame, err)
		}
		dest := calib.SensPath(cfg.Paths.Sens, mjd)
		log.Infof("%s -> %s", frame, dest)

		exists, err := outfile.Check(dest, overwrite)
		if err != nil {
			return err
		}
		if exists {
			log.Warnf("%s already exists and will be overwritten", dest)
		}

		if err := r.Run(ctx, cfg.Pipeline.Sensfunc, "-s", cfg.Paths.SensfuncPar, frame, "-o", dest, "--debug"); err != nil {
			return err
		}
	}
	return nil
}
