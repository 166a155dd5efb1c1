// combine-spectra co-adds extracted spectra with pypeit_coadd_1dspec,
// picking one trace from each input.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/outfile"
	"github.com/specred/specred/internal/pypeit"
	"github.com/specred/specred/internal/runner"
	"github.com/specred/specred/internal/trace"
	"github.com/specred/specred/pkg/config"
)

// parFile is the coadd parameter file handed to the pipeline
const parFile = "combine.par"

func main() {
	common := cli.Flags("-o OUTPUT [flags] SPEC1D_FILE...")
	output := flag.String("o", "", "Coadded output file (required)")
	objid := flag.String("objid", "", "Trace to take from every spectrum, as catalog index or name")
	overwrite := flag.Bool("overwrite", false, "Overwrite the output file")
	dryRun := flag.Bool("dry-run", false, "Write the parameter file but only log the pipeline command")
	cfg := common.Start(0)
	defer log.Sync()

	if *output == "" {
		flag.Usage()
		os.Exit(1)
	}

	var r runner.Runner = runner.Exec{}
	if *dryRun {
		r = runner.DryRun{}
	}
	if err := run(context.Background(), r, cfg, flag.Args(), *output, *objid, *overwrite); err != nil {
		cli.Exit(err)
	}
}

func run(ctx context.Context, r runner.Runner, cfg *config.ConfigData, spectra []string,
	output, objid string, overwrite bool) error {
	if len(spectra) < 2 {
		return fmt.Errorf("need at least two input spectra, got %d", len(spectra))
	}

	exists, err := outfile.Check(output, overwrite)
	if err != nil {
		return err
	}
	if exists {
		log.Warnf("%s already exists and will be overwritten", output)
	}

	coadd := pypeit.Coadd{Output: output}
	for _, spec := range spectra {
		name, err := pick(spec, objid, cfg.Extraction.ReferencePixel)
		if err != nil {
			return err
		}
		coadd.Entries = append(coadd.Entries, pypeit.CoaddEntry{Spectrum: spec, ObjID: name})
	}

	out, err := os.Create(parFile)
	if err != nil {
		return err
	}
	if err := pypeit.WriteCoadd(out, coadd); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", parFile, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.Infof("wrote %s", parFile)

	return r.Run(ctx, cfg.Pipeline.Coadd, parFile)
}

// pick prints the catalog of spec and returns the name of the chosen trace
func pick(spec, objid string, reference float64) (string, error) {
	path := trace.CatalogPath(spec)
	catalog, err := trace.ReadCatalog(path)
	if err != nil {
		return "", err
	}
	if err := trace.PrintCatalog(os.Stdout, catalog); err != nil {
		return "", err
	}

	sel, err := trace.Select(catalog, objid, reference)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if sel.Outcome == trace.Nearest {
		log.Warnf("%s holds %d traces, using %s closest to pixel %.0f; pass -objid to choose another",
			path, len(catalog), sel.Record.Name, reference)
	}
	log.Debugf("%s: %s selected %s", spec, sel.Outcome, sel.Record.Name)
	return sel.Record.Name, nil
}
