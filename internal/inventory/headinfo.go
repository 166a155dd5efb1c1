package inventory

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specred/specred/internal/frames"
	"github.com/specred/specred/internal/header"
)

// HeadInfoKeys are the keywords listed in a night's head.info
var HeadInfoKeys = []string{
	"OBJECT", "DATE-OBS", "OBS_MODE", "IMAGETYP", "FAFLTNM", "FBFLTNM",
	"EXPTIME", "ALFLTNM", "STFLTNM", "AIRMASS", "PROPID", "ALAPRTNM",
	"ALGRNM", "NAXIS1", "NAXIS2",
}

// WriteHeadInfo writes one line per frame with the file name and the
// requested keywords, aligned in columns
func WriteHeadInfo(w io.Writer, fs []frames.Frame, keys []string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)

	fmt.Fprintf(tw, "FILE\t%s\t\n", strings.Join(keys, "\t"))
	for _, f := range fs {
		cells := make([]string, len(keys))
		for i, k := range keys {
			if f.Header == nil {
				continue
			}
			if v, ok := f.Header.Lookup(k); ok {
				cells[i] = strings.TrimSpace(header.FormatValue(v))
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", f.File, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
