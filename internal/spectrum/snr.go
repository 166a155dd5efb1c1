package spectrum

import (
	"math"

	"github.com/montanaflynn/stats"
)

// SNR returns flux over noise per pixel. With noiseIsIvar the noise column
// holds inverse variances.
func SNR(flux, noise []float64, noiseIsIvar bool) []float64 {
	out := make([]float64, len(flux))
	for i := range flux {
		n := noise[i]
		if noiseIsIvar {
			if n <= 0 {
				out[i] = math.NaN()
				continue
			}
			n = 1 / math.Sqrt(n)
		}
		out[i] = flux[i] / n
	}
	return out
}

// Summary describes a signal-to-noise curve
type Summary struct {
	Pixels int
	Median float64
	P90    float64
	Max    float64
}

// Summarize computes SNR statistics over the finite values of snr
func Summarize(snr []float64) (Summary, error) {
	var finite stats.Float64Data
	for _, v := range snr {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	var s Summary
	var err error
	s.Pixels = len(finite)
	if s.Median, err = stats.Median(finite); err != nil {
		return Summary{}, err
	}
	if s.P90, err = stats.Percentile(finite, 90); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(finite); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Above returns the x and y values where x is strictly greater than min
func Above(x, y []float64, min float64) ([]float64, []float64) {
	var ox, oy []float64
	for i, v := range x {
		if v > min {
			ox = append(ox, v)
			oy = append(oy, y[i])
		}
	}
	return ox, oy
}
