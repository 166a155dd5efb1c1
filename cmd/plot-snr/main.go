// plot-snr plots the signal-to-noise ratio of one trace of a spec1d file.
package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/plots"
	"github.com/specred/specred/internal/spectrum"
)

type options struct {
	wlenMin     float64
	ivar        bool
	noiseColumn string
	fluxColumn  string
	waveColumn  string
	objid       int
	output      string
}

func main() {
	common := cli.Flags("[flags] SPEC1D_FILE")
	var o options
	flag.Float64Var(&o.wlenMin, "wlen-min", 4000, "Plot only wavelengths above this, in Angstrom")
	flag.BoolVar(&o.ivar, "ivar", false, "The noise column holds inverse variances")
	flag.StringVar(&o.noiseColumn, "noise-column", "OPT_FLAM_SIG", "Noise column")
	flag.StringVar(&o.fluxColumn, "flux-column", "OPT_FLAM", "Flux column")
	flag.StringVar(&o.waveColumn, "wave-column", "OPT_WAVE", "Wavelength column")
	flag.IntVar(&o.objid, "objid", 1, "HDU of the trace to plot")
	flag.StringVar(&o.output, "o", "", "Output image (default <input>_snr.png)")
	common.Start(1)
	defer log.Sync()

	fname := flag.Arg(0)
	if o.output == "" {
		o.output = defaultOutput(fname)
	}
	if err := run(fname, o); err != nil {
		cli.Exit(err)
	}
}

func defaultOutput(fname string) string {
	base := filepath.Base(fname)
	return base[:len(base)-len(filepath.Ext(base))] + "_snr.png"
}

func run(fname string, o options) error {
	names, err := fitsfile.ExtensionNames(fname)
	if err != nil {
		return err
	}
	if len(names) > 1 {
		log.Warnf("%s holds %d traces %v; choose one with -objid (default 1)", fname, len(names), names)
	}

	tbl, err := fitsfile.ReadTable(fname, fitsfile.Index(o.objid))
	if err != nil {
		return err
	}
	wave, _, err := spectrum.Pick(tbl, o.waveColumn)
	if err != nil {
		return err
	}
	flux, _, err := spectrum.Pick(tbl, o.fluxColumn)
	if err != nil {
		return err
	}
	noise, _, err := spectrum.Pick(tbl, o.noiseColumn)
	if err != nil {
		return err
	}

	x, snr := spectrum.Above(wave, spectrum.SNR(flux, noise, o.ivar), o.wlenMin)
	if len(x) == 0 {
		return fmt.Errorf("no pixels above %.0f A", o.wlenMin)
	}

	if sum, err := spectrum.Summarize(snr); err == nil {
		log.Infow("signal-to-noise", "pixels", sum.Pixels, "median", sum.Median, "p90", sum.P90, "max", sum.Max)
	} else {
		log.Warnf("no finite signal-to-noise values: %v", err)
	}

	if err := plots.SNR(x, snr, filepath.Base(fname), o.output); err != nil {
		return err
	}
	log.Infof("wrote %s", o.output)
	return nil
}
