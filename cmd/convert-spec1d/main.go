// convert-spec1d turns one extracted PypeIt spectrum into ASCII tables with a
// metadata header, a diagnostic plot and optionally a header sidecar.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/plots"
	"github.com/specred/specred/internal/sidecar"
	"github.com/specred/specred/internal/spectrum"
	"github.com/specred/specred/internal/trace"
	"github.com/specred/specred/pkg/config"
)

func main() {
	common := cli.Flags("[flags] SPEC1D_FILE PYPEIT_FILE")
	objid := flag.String("objid", "", "Trace to convert, as catalog index or name")
	obsName := flag.String("obs-name", "", "Observer name (default from config)")
	redName := flag.String("red-name", "", "Reducer name (default from config)")
	wlenMin := flag.Float64("wlen-min", 4000, "Extra blue cut-off wavelength in Angstrom")
	format := flag.String("sidecar", "", "Also write the header as json or msgpack (default from config)")
	cfg := common.Start(2)
	defer log.Sync()

	if *obsName != "" {
		cfg.People.Observer = *obsName
	}
	if *redName != "" {
		cfg.People.Reducer = *redName
	}
	if *format != "" {
		cfg.Output.Sidecar = *format
	}

	if err := run(cfg, flag.Arg(0), flag.Arg(1), *objid, *wlenMin); err != nil {
		cli.Exit(err)
	}
}

func run(cfg *config.ConfigData, fname, paramFile, objid string, wlenMin float64) error {
	var sidecarFormat sidecar.Format
	if cfg.Output.Sidecar != "" {
		var err error
		if sidecarFormat, err = sidecar.ParseFormat(cfg.Output.Sidecar); err != nil {
			return err
		}
	}

	tbl, err := readTrace(fname, objid, cfg.Extraction.ReferencePixel)
	if err != nil {
		return err
	}
	spec, err := spectrum.FromTable(tbl)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	spec.Sort()

	hdr, err := buildHeader(cfg, paramFile)
	if err != nil {
		return err
	}
	comments := hdr.Comments()

	cuts := append(append([]float64(nil), cfg.Output.WaveCuts...), wlenMin)
	var tables []sidecar.Table
	for _, cut := range cuts {
		path := asciiName(fname, cut)
		part := spec.Cut(cut)
		if err := writeASCII(path, part, comments); err != nil {
			return err
		}
		log.Infof("wrote %s (%d pixels above %.0f A)", path, part.Len(), cut)
		tables = append(tables, sidecar.Table{Path: path, MinWave: cut, Pixels: part.Len()})
	}

	if peak, ok := spec.MaxFlux(plots.FluxScaleFrom); ok {
		log.Debugf("peak flux above %.0f A: %g", plots.FluxScaleFrom, peak)
	}
	plotPath := plotName(fname)
	var title string
	if v, ok := hdr.Get("OBJECT"); ok {
		title = header.FormatValue(v)
	}
	if err := plots.Flux(spec.Wave, spec.Flux, cuts, title, plotPath); err != nil {
		return fmt.Errorf("plotting %s: %w", plotPath, err)
	}
	log.Infof("wrote %s", plotPath)

	if sidecarFormat == "" {
		return nil
	}
	doc := sidecar.Document{
		Source:    fname,
		Extension: tbl.Name,
		Tables:    tables,
		Header:    sidecar.FromHeader(hdr),
	}
	path, err := sidecar.WriteFile(stem(fname), sidecarFormat, doc)
	if err != nil {
		return err
	}
	log.Infof("wrote %s", path)
	return nil
}

// readTrace reads the spectrum table of the selected trace. Coadded files
// come without a catalog and hold their spectrum in the first extension.
func readTrace(fname, objid string, reference float64) (*fitsfile.Table, error) {
	catalogPath := trace.CatalogPath(fname)
	catalog, err := trace.ReadCatalog(catalogPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("no catalog %s, reading the coadded spectrum from HDU 1", catalogPath)
		return fitsfile.ReadTable(fname, fitsfile.Index(1))
	}
	if err != nil {
		return nil, err
	}

	if err := trace.PrintCatalog(os.Stdout, catalog); err != nil {
		return nil, err
	}
	sel, err := trace.Select(catalog, objid, reference)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", catalogPath, err)
	}
	if sel.Outcome == trace.Nearest {
		log.Warnf("PypeIt extracted %d traces, using %s closest to pixel %.0f; pass -objid to choose another",
			len(catalog), sel.Record.Name, reference)
	}
	return fitsfile.ReadTable(fname, fitsfile.Named(sel.Record.Name))
}

func writeASCII(path string, s *spectrum.Spectrum, comments []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteASCII(out, comments); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

// stem is the output base name: the input file name without directory and
// .fits suffix
func stem(fname string) string {
	return strings.TrimSuffix(filepath.Base(fname), ".fits")
}

// asciiName names the table cut at wavelength cut, e.g.
// spec1d_ALDh100040_3500.ascii
func asciiName(fname string, cut float64) string {
	return fmt.Sprintf("%s_%d.ascii", stem(fname), int(cut))
}

func plotName(fname string) string {
	return stem(fname) + ".pdf"
}
