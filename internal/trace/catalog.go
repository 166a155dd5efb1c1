package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Record is one extracted trace listed in a spec1d catalog
type Record struct {
	Index       int // 0-based position in the catalog
	Slit        string
	Name        string
	SpatPixPos  float64
	SpatFracPos float64
	BoxWidth    float64
	OptFWHM     float64
	S2N         float64
	Extra       map[string]string // columns not used for selection
}

// CatalogPath returns the catalog written by the pipeline next to a spec1d file
func CatalogPath(spec1d string) string {
	return strings.TrimSuffix(spec1d, ".fits") + ".txt"
}

// ReadCatalog parses the catalog file at path
func ReadCatalog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ParseCatalog reads a '|' delimited fixed-width table whose first row holds
// the column names. Comment lines and separator rows are ignored.
func ParseCatalog(r io.Reader) ([]Record, error) {
	var names []string
	var recs []Record

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cells := splitRow(text)
		if isSeparator(cells) {
			continue
		}

		if names == nil {
			names = make([]string, len(cells))
			for i, c := range cells {
				names[i] = strings.ToLower(c)
			}
			if err := requireColumns(names, "name", "spat_pixpos"); err != nil {
				return nil, err
			}
			continue
		}

		if len(cells) != len(names) {
			return nil, fmt.Errorf("line %d: got %d columns, header has %d", line, len(cells), len(names))
		}

		rec, err := newRecord(len(recs), names, cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if names == nil {
		return nil, fmt.Errorf("catalog has no header row")
	}

	return recs, nil
}

func splitRow(text string) []string {
	text = strings.TrimPrefix(text, "|")
	text = strings.TrimSuffix(text, "|")
	cells := strings.Split(text, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, "-=") != "" {
			return false
		}
	}
	return true
}

func requireColumns(names []string, required ...string) error {
	for _, req := range required {
		found := false
		for _, n := range names {
			if n == req {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("catalog is missing column %q", req)
		}
	}
	return nil
}

func newRecord(index int, names, cells []string) (Record, error) {
	rec := Record{Index: index, Extra: map[string]string{}}

	for i, n := range names {
		v := cells[i]
		var err error
		switch n {
		case "slit":
			rec.Slit = v
		case "name":
			rec.Name = v
		case "spat_pixpos":
			rec.SpatPixPos, err = strconv.ParseFloat(v, 64)
		case "spat_fracpos":
			rec.SpatFracPos, err = parseOptional(v)
		case "box_width":
			rec.BoxWidth, err = parseOptional(v)
		case "opt_fwhm":
			rec.OptFWHM, err = parseOptional(v)
		case "s2n":
			rec.S2N, err = parseOptional(v)
		default:
			rec.Extra[n] = v
		}
		if err != nil {
			return Record{}, fmt.Errorf("column %s: %w", n, err)
		}
	}
	return rec, nil
}

// parseOptional accepts the blank and masked cells the pipeline writes for
// values it could not measure
func parseOptional(v string) (float64, error) {
	switch strings.ToLower(v) {
	case "", "--", "nan", "none":
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// PrintCatalog writes the columns users look at when choosing a trace
func PrintCatalog(w io.Writer, recs []Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "objid\tslit\tname\tspat_pixpos\tspat_fracpos\tbox_width\topt_fwhm\ts2n\t")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%.3f\t%.2f\t%.3f\t%.2f\t\n",
			r.Index, r.Slit, r.Name, r.SpatPixPos, r.SpatFracPos, r.BoxWidth, r.OptFWHM, r.S2N)
	}
	return tw.Flush()
}
