package trace

import (
	"bytes"
	"strings"
	"testing"
)

const spec1dCatalog = `| slit |                    name | maskdef_id | objname | objra | objdec | spat_pixpos | spat_fracpos | box_width | opt_fwhm |   s2n | maskdef_extract | manual_extract | wv_rms |
|  250 | SPAT0118-SLIT0250-DET01 |         -- |      -- |    -- |     -- |       118.4 |        0.236 |      3.00 |    1.210 |  4.81 |           False |          False |  0.041 |
|  250 | SPAT0252-SLIT0250-DET01 |         -- |      -- |    -- |     -- |       252.1 |        0.503 |      3.00 |    0.954 | 38.20 |           False |          False |  0.041 |
`

func TestParseCatalog(t *testing.T) {
	recs, err := ParseCatalog(strings.NewReader(spec1dCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, expected 2", len(recs))
	}

	r := recs[1]
	if r.Index != 1 {
		t.Errorf("Index = %d, expected 1", r.Index)
	}
	if r.Name != "SPAT0252-SLIT0250-DET01" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.SpatPixPos != 252.1 {
		t.Errorf("SpatPixPos = %v, expected 252.1", r.SpatPixPos)
	}
	if r.S2N != 38.20 {
		t.Errorf("S2N = %v, expected 38.2", r.S2N)
	}
	if r.Extra["wv_rms"] != "0.041" {
		t.Errorf("Extra[wv_rms] = %q, expected 0.041", r.Extra["wv_rms"])
	}

	sel, err := Select(recs, "", DefaultReferencePixel)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if sel.Record.Name != "SPAT0252-SLIT0250-DET01" {
		t.Errorf("selected %s, expected the trace near pixel 250", sel.Record.Name)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing spat_pixpos", input: "| slit | name |\n| 250 | SPAT |\n"},
		{name: "ragged row", input: "| name | spat_pixpos |\n| SPAT | 1 | 2 |\n"},
		{name: "bad position", input: "| name | spat_pixpos |\n| SPAT | abc |\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCatalogPath(t *testing.T) {
	got := CatalogPath("sci/2019-09-30-SN2019abc/spec1d_ALDh300123-SN2019abc_ALFOSC.fits")
	want := "sci/2019-09-30-SN2019abc/spec1d_ALDh300123-SN2019abc_ALFOSC.txt"
	if got != want {
		t.Errorf("CatalogPath() = %q, expected %q", got, want)
	}
}

func TestPrintCatalog(t *testing.T) {
	recs, err := ParseCatalog(strings.NewReader(spec1dCatalog))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PrintCatalog(&buf, recs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "SPAT0118-SLIT0250-DET01") || !strings.Contains(out, "objid") {
		t.Errorf("PrintCatalog output missing expected content:\n%s", out)
	}
}
