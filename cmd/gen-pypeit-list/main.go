// gen-pypeit-list prints the PypeIt data table rows of the given raw frames.
package main

import (
	"flag"
	"os"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/frames"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/pypeit"
)

func main() {
	common := cli.Flags("[flags] FITS_FILE...")
	common.Start(1)
	defer log.Sync()

	rows, err := tableRows(flag.Args())
	if err != nil {
		cli.Exit(err)
	}
	if err := pypeit.WriteTable(os.Stdout, rows); err != nil {
		cli.Exit(err)
	}
}

func tableRows(paths []string) ([]pypeit.Row, error) {
	rows := make([]pypeit.Row, 0, len(paths))
	for _, p := range paths {
		h, err := fitsfile.ReadHeader(p, fitsfile.Index(0))
		if err != nil {
			return nil, err
		}
		f := frames.FromHeader(p, h)
		if len(f.Missing) > 0 {
			log.Warnf("%s lacks %v", f.Name(), f.Missing)
		}

		frameType, ok := frames.FrameType(f.ImageType)
		if !ok {
			log.Warnf("%s: IMAGETYP %q has no frame type", f.Name(), f.ImageType)
			frameType = "None"
		}
		rows = append(rows, frames.Row(f, frameType))
	}
	return rows, nil
}
