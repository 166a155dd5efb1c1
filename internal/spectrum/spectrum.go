// Package spectrum handles extracted 1D spectra: column lookup, wavelength
// cuts, error conversion and the ASCII tables handed to collaborators.
package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/header"
)

// Column name candidates, first match wins. PypeIt renames the optimal
// extraction columns in coadded spectra.
var (
	WaveColumns = []string{"OPT_WAVE", "wave"}
	FluxColumns = []string{"OPT_FLAM", "flux"}
	IvarColumns = []string{"OPT_FLAM_IVAR", "ivar"}
)

// Spectrum is a flux-calibrated spectrum with inverse variances
type Spectrum struct {
	Wave []float64
	Flux []float64
	Ivar []float64
}

// ColumnError reports that none of the candidate columns exist
type ColumnError struct {
	Candidates []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("table has none of the columns %v", e.Candidates)
}

// Pick returns the first candidate column present in t
func Pick(t *fitsfile.Table, candidates ...string) ([]float64, string, error) {
	for _, c := range candidates {
		if v, ok := t.Column(c); ok {
			return v, c, nil
		}
	}
	return nil, "", &ColumnError{Candidates: candidates}
}

// FromTable builds a spectrum from a PypeIt spec1d or coadd table
func FromTable(t *fitsfile.Table) (*Spectrum, error) {
	wave, _, err := Pick(t, WaveColumns...)
	if err != nil {
		return nil, err
	}
	flux, _, err := Pick(t, FluxColumns...)
	if err != nil {
		return nil, err
	}
	ivar, _, err := Pick(t, IvarColumns...)
	if err != nil {
		return nil, err
	}
	if len(flux) != len(wave) || len(ivar) != len(wave) {
		return nil, fmt.Errorf("column lengths differ: wave %d, flux %d, ivar %d", len(wave), len(flux), len(ivar))
	}
	return &Spectrum{Wave: wave, Flux: flux, Ivar: ivar}, nil
}

// Len returns the number of pixels
func (s *Spectrum) Len() int {
	return len(s.Wave)
}

// Sort orders the pixels by increasing wavelength
func (s *Spectrum) Sort() {
	wave := append([]float64(nil), s.Wave...)
	inds := make([]int, len(wave))
	floats.ArgsortStable(wave, inds)

	flux := make([]float64, len(inds))
	ivar := make([]float64, len(inds))
	for i, j := range inds {
		flux[i] = s.Flux[j]
		ivar[i] = s.Ivar[j]
	}
	s.Wave, s.Flux, s.Ivar = wave, flux, ivar
}

// Cut returns the pixels with wavelength at or above min
func (s *Spectrum) Cut(min float64) *Spectrum {
	out := &Spectrum{}
	for i, w := range s.Wave {
		if w >= min {
			out.Wave = append(out.Wave, w)
			out.Flux = append(out.Flux, s.Flux[i])
			out.Ivar = append(out.Ivar, s.Ivar[i])
		}
	}
	return out
}

// Sigma converts inverse variances to 1-sigma errors. Pixels without
// weight get +Inf.
func (s *Spectrum) Sigma() []float64 {
	out := make([]float64, len(s.Ivar))
	for i, iv := range s.Ivar {
		if iv <= 0 {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = 1 / math.Sqrt(iv)
	}
	return out
}

// MaxFlux returns the largest finite flux redward of min
func (s *Spectrum) MaxFlux(min float64) (float64, bool) {
	best, found := math.Inf(-1), false
	for i, w := range s.Wave {
		f := s.Flux[i]
		if w > min && !math.IsNaN(f) && !math.IsInf(f, 0) && f > best {
			best, found = f, true
		}
	}
	return best, found
}

// WriteASCII writes the comment block followed by wave, flux and error
// columns
func (s *Spectrum) WriteASCII(w io.Writer, comments []string) error {
	bw := bufio.NewWriter(w)
	for _, c := range comments {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	fmt.Fprintln(bw, "# COLUMNS: WAVE FLUX FLUX_ERR")

	sigma := s.Sigma()
	for i := range s.Wave {
		fmt.Fprintf(bw, "%s %s %s\n",
			header.FormatValue(s.Wave[i]),
			header.FormatValue(s.Flux[i]),
			header.FormatValue(sigma[i]))
	}
	return bw.Flush()
}
