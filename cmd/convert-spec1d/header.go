package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/internal/pypeit"
	"github.com/specred/specred/pkg/config"
)

// buildHeader collects the reduction log, the raw header of the first
// reduced exposure and the headers of the first spec1d file, then builds the
// output header from them
func buildHeader(cfg *config.ConfigData, paramFile string) (*header.Header, error) {
	pf, err := pypeit.ReadFile(paramFile)
	if err != nil {
		return nil, err
	}
	rows, err := pf.Science()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paramFile, err)
	}
	if err := pypeit.CheckSingleSetup(rows); err != nil {
		return nil, err
	}

	spec1d, err := filepath.Glob(filepath.Join(pf.SciDir, "spec1d*fits"))
	if err != nil {
		return nil, err
	}
	sort.Strings(spec1d)
	if len(spec1d) == 0 {
		return nil, fmt.Errorf("no spec1d files in %s", pf.SciDir)
	}

	rows = pypeit.MatchReduced(rows, spec1d)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no science frame matches the files in %s: %w", paramFile, pf.SciDir, header.ErrEmptyLog)
	}
	log.Infof("%d science exposures reduced into %s", len(rows), pf.SciDir)

	raw, err := rawHeader(cfg.Paths.Raw, rows[0].Filename)
	if err != nil {
		return nil, err
	}
	reduced, err := fitsfile.ReadHeader(spec1d[0], fitsfile.Index(0))
	if err != nil {
		return nil, err
	}
	ext, err := fitsfile.ReadHeader(spec1d[0], fitsfile.Index(1))
	if err != nil {
		return nil, err
	}

	return header.Build(header.Inputs{
		Log:       rows,
		Raw:       raw,
		Reduced:   reduced,
		Extension: ext,
		History:   reduced.Values("HISTORY"),
		Observer:  cfg.People.Observer,
		Reducer:   cfg.People.Reducer,
		Site:      cli.Site(cfg),
	})
}

// rawHeader finds the raw frame below any night directory of rawDir
func rawHeader(rawDir, filename string) (*fitsfile.Header, error) {
	matches, err := filepath.Glob(filepath.Join(rawDir, "*", filename))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("raw frame %s not found below %s", filename, rawDir)
	}
	sort.Strings(matches)
	return fitsfile.ReadHeader(matches[0], fitsfile.Index(0))
}
