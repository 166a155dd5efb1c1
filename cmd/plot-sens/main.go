// plot-sens plots the zeropoint of a sensitivity function.
package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/plots"
	"github.com/specred/specred/internal/spectrum"
)

func main() {
	common := cli.Flags("[flags] SENS_FILE")
	wlenMin := flag.Float64("wlen-min", 3000, "Plot only wavelengths above this, in Angstrom")
	output := flag.String("o", "", "Output image (default <input>_sens.png)")
	common.Start(1)
	defer log.Sync()

	fname := flag.Arg(0)
	if *output == "" {
		*output = strings.TrimSuffix(filepath.Base(fname), ".fits") + "_sens.png"
	}
	if err := run(fname, *wlenMin, *output); err != nil {
		cli.Exit(err)
	}
}

func run(fname string, wlenMin float64, output string) error {
	tbl, err := fitsfile.ReadTable(fname, fitsfile.Index(1))
	if err != nil {
		return err
	}
	wave, _, err := spectrum.Pick(tbl, "SENS_WAVE")
	if err != nil {
		return err
	}
	zp, _, err := spectrum.Pick(tbl, "SENS_ZEROPOINT")
	if err != nil {
		return err
	}

	x, y := spectrum.Above(wave, zp, wlenMin)
	if len(x) == 0 {
		return fmt.Errorf("%s: no pixels above %.0f A", fname, wlenMin)
	}
	if err := plots.Sens(x, y, filepath.Base(fname), output); err != nil {
		return err
	}
	log.Infof("wrote %s", output)
	return nil
}
