// apply-fluxcal pairs every spec1d frame with the sensitivity function
// observed closest in time and runs pypeit_flux_calib on the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/specred/specred/internal/calib"
	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/outfile"
	"github.com/specred/specred/internal/pypeit"
	"github.com/specred/specred/internal/runner"
	"github.com/specred/specred/pkg/config"
)

// paraPattern numbers the parameter files so earlier runs are kept
const paraPattern = "fluxcal.%d.para"

func main() {
	common := cli.Flags("[flags] SPEC1D_FILE...")
	dryRun := flag.Bool("dry-run", false, "Write the parameter file but only log the pipeline command")
	cfg := common.Start(1)
	defer log.Sync()

	var r runner.Runner = runner.Exec{}
	if *dryRun {
		r = runner.DryRun{}
	}
	if _, err := run(context.Background(), r, cfg, flag.Args(), primaryMJD); err != nil {
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

// run writes the next free parameter file and hands it to the pipeline. It
// returns the parameter file path.
func run(ctx context.Context, r runner.Runner, cfg *config.ConfigData, spec1d []string,
	mjdOf func(string) (float64, error)) (string, error) {
	lib, err := calib.LoadLibrary(cfg.Paths.Sens)
	if err != nil {
		return "", err
	}
	for _, s := range lib.Skipped {
		log.Warnf("ignoring %s: file name is not an MJD", s)
	}
	log.Infof("loaded %d sensitivity functions from %s", len(lib.Entries), cfg.Paths.Sens)

	mjds := make([]float64, len(spec1d))
	for i, f := range spec1d {
		if mjds[i], err = mjdOf(f); err != nil {
			return "", fmt.Errorf("%s: %w", f, err)
		}
	}

	assignments, err := lib.Assign(spec1d, mjds)
	if err != nil {
		return "", err
	}

	entries := make([]pypeit.FluxEntry, len(assignments))
	for i, a := range assignments {
		log.Infow("selected sensitivity function", "frame", a.Frame, "sensfile", a.SensFile,
			"frame_mjd", a.FrameMJD, "sens_mjd", a.SensMJD)
		entries[i] = pypeit.FluxEntry{Frame: a.Frame, SensFile: a.SensFile}
	}

	para := outfile.NextFree(paraPattern)
	out, err := os.Create(para)
	if err != nil {
		return "", err
	}
	if err := pypeit.WriteFluxCalib(out, entries); err != nil {
		out.Close()
		return "", fmt.Errorf("writing %s: %w", para, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	fmt.Printf("\ngenerated %s\nRun this command to fluxcal:\n\t%s\n\n", para, runner.CommandLine(cfg.Pipeline.FluxCalib, para))
	return para, r.Run(ctx, cfg.Pipeline.FluxCalib, para)
}
