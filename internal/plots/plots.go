// Package plots draws the diagnostic figures of the reduction tools. The
// output format follows the file extension (png, pdf, svg, ...).
package plots

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Page size: 9 inch high, landscape A-series aspect ratio
var (
	Height = 9 * vg.Inch
	Width  = vg.Length(9*math.Sqrt2) * vg.Inch
)

// WavelengthLabel is the x-axis label shared by every figure
const WavelengthLabel = "Wavelength (vacuum, Å)"

// FluxLabel is the y-axis label of flux-calibrated spectra
const FluxLabel = "F_λ (10^-17 erg cm^-2 s^-1 Å^-1)"

var (
	lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	cutColor  = color.Black
)

// ErrNoData is returned when nothing finite is left to draw
var ErrNoData = errors.New("no finite data points to plot")

// points pairs x and y, dropping non-finite samples
func points(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if finite(x[i]) && finite(y[i]) {
			xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return xys
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func curve(x, y []float64, width vg.Length) (*plotter.Line, error) {
	xys := points(x, y)
	if len(xys) == 0 {
		return nil, ErrNoData
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = lineColor
	l.LineStyle.Width = width
	return l, nil
}

func vertical(x, ymin, ymax float64, width vg.Length) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: ymin}, {X: x, Y: ymax}})
	if err != nil {
		return nil, err
	}
	l.LineStyle.Color = cutColor
	l.LineStyle.Width = width
	return l, nil
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}

// FluxRange is the wavelength window of the flux overview plot
var FluxRange = [2]float64{2950, 10000}

// FluxScaleFrom is the wavelength above which the y range is scaled
const FluxScaleFrom = 4000.0

// Flux draws a spectrum with a vertical marker at every cut wavelength
func Flux(wave, flux []float64, cuts []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = WavelengthLabel
	p.Y.Label.Text = FluxLabel

	l, err := curve(wave, flux, vg.Points(1))
	if err != nil {
		return err
	}
	p.Add(l)

	ymax := math.Inf(-1)
	for i, w := range wave {
		if w > FluxScaleFrom && finite(flux[i]) && flux[i] > ymax {
			ymax = flux[i]
		}
	}
	if math.IsInf(ymax, -1) || ymax <= 0 {
		ymax = 1
	}
	ymax *= 1.05

	for i, c := range cuts {
		v, err := vertical(c, 0, ymax, vg.Points(float64(2+i)))
		if err != nil {
			return err
		}
		p.Add(v)
	}

	p.X.Min, p.X.Max = FluxRange[0], FluxRange[1]
	p.Y.Min, p.Y.Max = 0, ymax
	return save(p, path)
}

// SNR draws a signal-to-noise curve
func SNR(wave, snr []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = WavelengthLabel
	p.Y.Label.Text = "Signal-to-noise ratio"

	l, err := curve(wave, snr, vg.Points(2))
	if err != nil {
		return err
	}
	p.Add(l)
	return save(p, path)
}

// Sens draws a sensitivity function zeropoint curve
func Sens(wave, zeropoint []float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = WavelengthLabel
	p.Y.Label.Text = "Sensitivity function"

	l, err := curve(wave, zeropoint, vg.Points(2))
	if err != nil {
		return err
	}
	p.Add(l)
	return save(p, path)
}
