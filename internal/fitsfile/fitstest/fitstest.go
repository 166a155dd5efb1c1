// Package fitstest writes small FITS files for tests.
package fitstest

import (
	"os"
	"testing"

	"github.com/astrogo/fitsio"
)

// Column is a float64 binary table column
type Column struct {
	Name   string
	Values []float64
}

// HDU describes one header-data unit. An HDU with Columns is written as a
// binary table, anything else as an image of Width x Height float32 pixels,
// or without data when Pix is nil. Name becomes EXTNAME.
type HDU struct {
	Name    string
	Cards   []fitsio.Card
	Width   int
	Height  int
	Pix     []float32
	Columns []Column
}

// History returns one HISTORY card per line
func History(lines ...string) []fitsio.Card {
	cards := make([]fitsio.Card, len(lines))
	for i, l := range lines {
		cards[i] = fitsio.Card{Name: "HISTORY", Comment: l}
	}
	return cards
}

// Write creates path holding hdus. The first HDU must be an image.
func Write(t testing.TB, path string, hdus ...HDU) {
	t.Helper()

	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	f, err := fitsio.Create(w)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for i, h := range hdus {
		if len(h.Columns) > 0 {
			err = writeTable(f, h)
		} else {
			err = writeImage(f, h)
		}
		if err != nil {
			t.Fatalf("writing HDU %d of %s: %v", i, path, err)
		}
	}
}

func writeImage(f *fitsio.File, h HDU) error {
	bitpix, axes := 8, []int(nil)
	if h.Pix != nil {
		bitpix, axes = -32, []int{h.Width, h.Height}
	}

	img := fitsio.NewImage(bitpix, axes)
	defer img.Close()

	cards := h.Cards
	if h.Name != "" {
		cards = append([]fitsio.Card{{Name: "EXTNAME", Value: h.Name}}, cards...)
	}
	if err := img.Header().Append(cards...); err != nil {
		return err
	}
	if h.Pix != nil {
		if err := img.Write(h.Pix); err != nil {
			return err
		}
	}
	return f.Write(img)
}

func writeTable(f *fitsio.File, h HDU) error {
	cols := make([]fitsio.Column, len(h.Columns))
	for i, c := range h.Columns {
		cols[i] = fitsio.Column{Name: c.Name, Format: "D"}
	}

	tbl, err := fitsio.NewTable(h.Name, cols, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()

	if err := tbl.Header().Append(h.Cards...); err != nil {
		return err
	}
	for row := range h.Columns[0].Values {
		args := make([]interface{}, len(h.Columns))
		for i, c := range h.Columns {
			v := c.Values[row]
			args[i] = &v
		}
		if err := tbl.Write(args...); err != nil {
			return err
		}
	}
	return f.Write(tbl)
}
