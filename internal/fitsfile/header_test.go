package fitsfile

import (
	"errors"
	"reflect"
	"testing"
)

func sampleHeader() *Header {
	return NewHeader(
		Card{Name: "OBJECT", Value: "SN2019abc   "},
		Card{Name: "EXPTIME", Value: 900.0},
		Card{Name: "NAXIS1", Value: 2148},
		Card{Name: "MJD", Value: "58756.75"},
		Card{Name: "HISTORY", Value: "first step"},
		Card{Name: "HISTORY", Value: "second step"},
	)
}

func TestHeaderGetters(t *testing.T) {
	h := sampleHeader()

	if s, err := h.String("OBJECT"); err != nil || s != "SN2019abc" {
		t.Errorf("String(OBJECT) = %q, %v", s, err)
	}
	if f, err := h.Float("EXPTIME"); err != nil || f != 900 {
		t.Errorf("Float(EXPTIME) = %v, %v", f, err)
	}
	if f, err := h.Float("MJD"); err != nil || f != 58756.75 {
		t.Errorf("Float(MJD) = %v, %v", f, err)
	}
	if n, err := h.Int("NAXIS1"); err != nil || n != 2148 {
		t.Errorf("Int(NAXIS1) = %v, %v", n, err)
	}
	if _, err := h.Float("OBJECT"); err == nil {
		t.Error("Float(OBJECT) expected error")
	}

	_, err := h.String("AIRMASS")
	var mk *MissingKeyError
	if !errors.As(err, &mk) || mk.Key != "AIRMASS" {
		t.Errorf("String(AIRMASS) error = %v, expected MissingKeyError", err)
	}
}

func TestHeaderValues(t *testing.T) {
	h := sampleHeader()
	got := h.Values("HISTORY")
	expected := []string{"first step", "second step"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Values(HISTORY) = %v, expected %v", got, expected)
	}
	if h.Values("COMMENT") != nil {
		t.Error("Values(COMMENT) expected nil")
	}
}

func TestTableColumns(t *testing.T) {
	tbl := NewTable("SPAT0250", map[string][]float64{
		"OPT_WAVE": {4000, 4001},
		"OPT_FLAM": {1, 2},
	})
	if !reflect.DeepEqual(tbl.Columns, []string{"OPT_FLAM", "OPT_WAVE"}) {
		t.Errorf("Columns = %v", tbl.Columns)
	}
	if v, ok := tbl.Column("OPT_WAVE"); !ok || v[1] != 4001 {
		t.Errorf("Column(OPT_WAVE) = %v, %v", v, ok)
	}
	if tbl.Has("wave") {
		t.Error("Has(wave) = true")
	}
}

func TestMerge(t *testing.T) {
	primary := NewHeader(
		Card{Name: "OBJECT", Value: "SN2019abc"},
		Card{Name: "NAXIS", Value: 0},
		Card{Name: "HISTORY", Value: "primary"},
	)
	ext := NewHeader(
		Card{Name: "NAXIS", Value: 2},
		Card{Name: "NAXIS1", Value: 2148},
		Card{Name: "OBJECT", Value: "other"},
		Card{Name: "HISTORY", Value: "extension"},
	)

	got := Merge(primary, nil, ext)

	var names []string
	for _, c := range got.Cards {
		names = append(names, c.Name)
	}
	expected := []string{"OBJECT", "NAXIS", "HISTORY", "NAXIS1", "HISTORY"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Merge() names = %v, expected %v", names, expected)
	}
	if v, _ := got.Lookup("NAXIS"); v != 0 {
		t.Errorf("NAXIS = %v, expected primary value 0", v)
	}
	if n, _ := got.Int("NAXIS1"); n != 2148 {
		t.Errorf("NAXIS1 = %v, expected 2148", n)
	}
	if h := got.Values("HISTORY"); len(h) != 2 {
		t.Errorf("HISTORY = %v", h)
	}
}
