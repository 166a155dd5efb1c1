package fitsfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
)

// Range is a half-open pixel interval [Start, End)
type Range struct {
	Start int
	End   int
}

// ParseRange parses "start:end". Either side may be empty.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("range %q is not start:end", s)
	}
	r := Range{Start: 0, End: -1}
	var err error
	if p := strings.TrimSpace(parts[0]); p != "" {
		if r.Start, err = strconv.Atoi(p); err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
	}
	if p := strings.TrimSpace(parts[1]); p != "" {
		if r.End, err = strconv.Atoi(p); err != nil {
			return Range{}, fmt.Errorf("range %q: %w", s, err)
		}
	}
	if r.Start < 0 || (r.End >= 0 && r.End <= r.Start) {
		return Range{}, fmt.Errorf("range %q is empty or negative", s)
	}
	return r, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// clamp bounds the range to an axis of length n. An End of -1 means n.
func (r Range) clamp(n int) (int, int) {
	start, end := r.Start, r.End
	if end < 0 || end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}

// cropRaw cuts rows x cols out of a row-major pixel buffer whose rows are
// width pixels long
func cropRaw(raw []byte, pixSize, width, height int, rows, cols Range) ([]byte, int, int) {
	r0, r1 := rows.clamp(height)
	c0, c1 := cols.clamp(width)
	w := c1 - c0
	h := r1 - r0

	out := make([]byte, 0, w*h*pixSize)
	for r := r0; r < r1; r++ {
		start := (r*width + c0) * pixSize
		out = append(out, raw[start:start+w*pixSize]...)
	}
	return out, w, h
}

// decodeRaw turns big-endian pixel bytes into the typed slice fitsio writes
func decodeRaw(raw []byte, bitpix int) (interface{}, error) {
	n := len(raw) / (abs(bitpix) / 8)
	var dst interface{}
	switch bitpix {
	case 8:
		return append([]byte(nil), raw...), nil
	case 16:
		dst = make([]int16, n)
	case 32:
		dst = make([]int32, n)
	case 64:
		dst = make([]int64, n)
	case -32:
		dst = make([]float32, n)
	case -64:
		dst = make([]float64, n)
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
	if err := binary.Read(bytes.NewReader(raw), binary.BigEndian, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// structural keywords are regenerated by fitsio when an image is written
var structural = map[string]bool{
	"SIMPLE": true, "XTENSION": true, "BITPIX": true, "NAXIS": true,
	"EXTEND": true, "PCOUNT": true, "GCOUNT": true, "END": true,
}

// userCards returns the cards of h that are not regenerated on write,
// commentary cards included
func userCards(h *fitsio.Header) []fitsio.Card {
	var out []fitsio.Card
	for _, c := range cards(h) {
		if structural[c.Name] || strings.HasPrefix(c.Name, "NAXIS") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CropImage crops image HDU hdu of path to rows x cols, leaving the other
// HDUs untouched. The file is rewritten through a temporary file in the
// same directory.
func CropImage(path string, hdu int, rows, cols Range) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".trim-*.fits")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = withFile(path, func(in *fitsio.File) error {
		out, err := fitsio.Create(tmp)
		if err != nil {
			return err
		}
		defer out.Close()

		hdus := in.HDUs()
		if hdu < 0 || hdu >= len(hdus) {
			return fmt.Errorf("HDU %d out of range, file has %d", hdu, len(hdus))
		}
		for i, h := range hdus {
			img, ok := h.(fitsio.Image)
			if !ok {
				return fmt.Errorf("HDU %d is not an image", i)
			}
			if err := copyImage(out, img, i == hdu, rows, cols); err != nil {
				return fmt.Errorf("HDU %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		tmp.Close()
		return fmt.Errorf("cropping %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func copyImage(out *fitsio.File, img fitsio.Image, crop bool, rows, cols Range) error {
	hdr := img.Header()
	bitpix := hdr.Bitpix()
	axes := hdr.Axes()
	raw := img.Raw()

	if crop {
		if len(axes) != 2 {
			return fmt.Errorf("cannot crop a %d-axis image", len(axes))
		}
		var w, h int
		raw, w, h = cropRaw(raw, abs(bitpix)/8, axes[0], axes[1], rows, cols)
		axes = []int{w, h}
	}

	dst := fitsio.NewImage(bitpix, axes)
	defer dst.Close()
	if err := dst.Header().Append(userCards(hdr)...); err != nil {
		return err
	}
	if len(axes) > 0 {
		pix, err := decodeRaw(raw, bitpix)
		if err != nil {
			return err
		}
		if err := dst.Write(pix); err != nil {
			return err
		}
	}
	return out.Write(dst)
}
