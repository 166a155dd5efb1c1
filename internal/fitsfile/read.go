package fitsfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/astrogo/fitsio"
)

// Selector picks an HDU by position or by EXTNAME
type Selector struct {
	Index int
	Name  string
}

// Index selects the HDU at position i
func Index(i int) Selector {
	return Selector{Index: i}
}

// Named selects the HDU whose EXTNAME is name
func Named(name string) Selector {
	return Selector{Index: -1, Name: name}
}

func (s Selector) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", s.Index)
}

func (s Selector) pick(f *fitsio.File) (fitsio.HDU, error) {
	hdus := f.HDUs()
	if s.Name != "" {
		for _, h := range hdus {
			if strings.EqualFold(strings.TrimSpace(h.Name()), s.Name) {
				return h, nil
			}
		}
		return nil, fmt.Errorf("no HDU named %s", s.Name)
	}
	if s.Index < 0 || s.Index >= len(hdus) {
		return nil, fmt.Errorf("HDU %d out of range, file has %d", s.Index, len(hdus))
	}
	return hdus[s.Index], nil
}

func withFile(path string, fn func(*fitsio.File) error) error {
	r, err := os.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return fmt.Errorf("could not read FITS file %s: %w", path, err)
	}
	defer f.Close()

	return fn(f)
}

// ReadHeader returns the header of one HDU
func ReadHeader(path string, sel Selector) (*Header, error) {
	var out *Header
	err := withFile(path, func(f *fitsio.File) error {
		hdu, err := sel.pick(f)
		if err != nil {
			return err
		}
		out = fromFITS(hdu.Header())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading header %s of %s: %w", sel, path, err)
	}
	return out, nil
}

// ReadHeaders returns the headers of every HDU in file order
func ReadHeaders(path string) ([]*Header, error) {
	var out []*Header
	err := withFile(path, func(f *fitsio.File) error {
		for _, hdu := range f.HDUs() {
			out = append(out, fromFITS(hdu.Header()))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading headers of %s: %w", path, err)
	}
	return out, nil
}

// ExtensionNames lists the EXTNAME of every HDU after the primary
func ExtensionNames(path string) ([]string, error) {
	var names []string
	err := withFile(path, func(f *fitsio.File) error {
		for i, hdu := range f.HDUs() {
			if i == 0 {
				continue
			}
			names = append(names, strings.TrimSpace(hdu.Name()))
		}
		return nil
	})
	return names, err
}

// Table is a binary table read into float columns
type Table struct {
	Name    string
	Columns []string
	data    map[string][]float64
}

// Column returns the values of a column
func (t *Table) Column(name string) ([]float64, bool) {
	v, ok := t.data[name]
	return v, ok
}

// Has reports whether the table carries column name
func (t *Table) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

// NewTable builds a table from columns, mostly for tests
func NewTable(name string, columns map[string][]float64) *Table {
	t := &Table{Name: name, data: columns}
	for k := range columns {
		t.Columns = append(t.Columns, k)
	}
	sort.Strings(t.Columns)
	return t
}

// ReadTable reads the numeric columns of a binary table HDU. Array cells
// are flattened row after row; string columns are skipped.
func ReadTable(path string, sel Selector) (*Table, error) {
	var out *Table
	err := withFile(path, func(f *fitsio.File) error {
		hdu, err := sel.pick(f)
		if err != nil {
			return err
		}
		tbl, ok := hdu.(*fitsio.Table)
		if !ok {
			return fmt.Errorf("HDU %s is not a table", sel)
		}
		out, err = readColumns(tbl)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading table %s of %s: %w", sel, path, err)
	}
	return out, nil
}

func readColumns(tbl *fitsio.Table) (*Table, error) {
	out := &Table{Name: strings.TrimSpace(tbl.Name()), data: make(map[string][]float64)}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.Scan(&row); err != nil {
			return nil, err
		}
		for name, v := range row {
			vals, ok := toFloats(v)
			if !ok {
				continue
			}
			out.data[name] = append(out.data[name], vals...)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, col := range tbl.Cols() {
		if _, ok := out.data[col.Name]; ok {
			out.Columns = append(out.Columns, col.Name)
		}
	}
	return out, nil
}

func toFloats(v interface{}) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case []float32:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, true
	case []int16:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, true
	case []int32:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, true
	case []int64:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, true
	case string, bool:
		return nil, false
	}
	f, err := toFloat(v)
	if err != nil {
		return nil, false
	}
	return []float64{f}, true
}
