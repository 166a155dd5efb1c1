// trim-image crops the image extension of raw frames in place.
package main

import (
	"flag"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/log"
)

func main() {
	common := cli.Flags("[flags] IMAGE...")
	rowsFlag := flag.String("rows", "0:1800", "Row range to keep, start:end")
	colsFlag := flag.String("cols", "600:1700", "Column range to keep, start:end")
	hdu := flag.Int("hdu", 1, "Image HDU to crop")
	common.Start(1)
	defer log.Sync()

	if err := run(flag.Args(), *hdu, *rowsFlag, *colsFlag); err != nil {
		cli.Exit(err)
	}
}

func run(images []string, hdu int, rowsSpec, colsSpec string) error {
	rows, err := fitsfile.ParseRange(rowsSpec)
	if err != nil {
		return err
	}
	cols, err := fitsfile.ParseRange(colsSpec)
	if err != nil {
		return err
	}

	for _, image := range images {
		if err := fitsfile.CropImage(image, hdu, rows, cols); err != nil {
			return err
		}
		log.Infof("cropped %s to rows %s, columns %s", image, rows, cols)
	}
	return nil
}
