package pypeit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/specred/specred/internal/header"
)

// File is the part of a .pypeit file the conversion tools need
type File struct {
	SciDir  string
	Columns []string
	Rows    []map[string]string
}

// ReadFile parses the .pypeit file at path
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := ParseFile(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pf, nil
}

// ParseFile reads the scidir setting and the data table. Spaces are removed
// from every table cell.
func ParseFile(r io.Reader) (*File, error) {
	out := &File{}
	var table [][]string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "|"):
			cells := strings.Split(strings.ReplaceAll(line, " ", ""), "|")
			if len(cells) < 2 {
				continue
			}
			table = append(table, cells[1:len(cells)-1])
		case strings.Contains(line, "scidir"):
			if i := strings.Index(line, "="); i >= 0 {
				out.SciDir = strings.TrimSpace(line[i+1:])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("no data table found")
	}
	out.Columns = table[0]
	for n, cells := range table[1:] {
		if len(cells) != len(out.Columns) {
			return nil, fmt.Errorf("data row %d has %d cells, expected %d", n+1, len(cells), len(out.Columns))
		}
		row := make(map[string]string, len(cells))
		for i, c := range cells {
			row[out.Columns[i]] = c
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Science returns the science exposures sorted by filename
func (f *File) Science() ([]header.LogRow, error) {
	var rows []header.LogRow
	for i, r := range f.Rows {
		if r["frametype"] != "science" {
			continue
		}
		mjd, err := strconv.ParseFloat(r["mjd"], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad mjd %q", i+1, r["mjd"])
		}
		exptime, err := strconv.ParseFloat(r["exptime"], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad exptime %q", i+1, r["exptime"])
		}
		rows = append(rows, header.LogRow{
			Filename: r["filename"],
			Target:   r["target"],
			Decker:   r["decker"],
			Dispname: r["dispname"],
			MJD:      mjd,
			Exptime:  exptime,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Filename < rows[j].Filename })
	return rows, nil
}

// SetupError is returned when a reduction mixes objects or instrument modes
type SetupError struct {
	Targets   []string
	Deckers   []string
	Dispnames []string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("dataset contains observations of multiple objects or observing modes: targets %v, deckers %v, dispnames %v",
		e.Targets, e.Deckers, e.Dispnames)
}

// CheckSingleSetup requires one target observed in one setup
func CheckSingleSetup(rows []header.LogRow) error {
	targets := header.Unique(rows, func(r header.LogRow) string { return r.Target })
	deckers := header.Unique(rows, func(r header.LogRow) string { return r.Decker })
	dispnames := header.Unique(rows, func(r header.LogRow) string { return r.Dispname })
	if len(targets) != 1 || len(deckers) != 1 || len(dispnames) != 1 {
		return &SetupError{Targets: targets, Deckers: deckers, Dispnames: dispnames}
	}
	return nil
}

// MatchReduced keeps the rows whose raw file stem appears in one of the
// spec1d file names
func MatchReduced(rows []header.LogRow, spec1d []string) []header.LogRow {
	var out []header.LogRow
	for _, r := range rows {
		stem := r.Filename
		if i := strings.Index(stem, "."); i >= 0 {
			stem = stem[:i]
		}
		for _, s := range spec1d {
			if strings.Contains(s, stem) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
