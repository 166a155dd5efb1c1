// Package calib associates science frames with calibration products by
// observation time. Timestamps are modified Julian dates held in fixed point
// (MJD * Scale) so that values parsed from "%.4f" file names compare exactly.
package calib

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Scale is the fixed-point factor applied to MJD timestamps
const Scale = 10000

// MaxMJD bounds the magnitude of a timestamp so that scaled values and the
// distance between any two of them fit in an int64
const MaxMJD = math.MaxInt64 / Scale / 2

var (
	// ErrEmptyInput is returned when there are no candidates to select from
	ErrEmptyInput = errors.New("no calibration candidates to select from")
	// ErrBadMJD is returned for timestamps that are not finite or out of range
	ErrBadMJD = errors.New("MJD out of range")
)

// CalibrationEntry is one calibration file tagged with its timestamp
type CalibrationEntry struct {
	Timestamp int64 // MJD * Scale
	Path      string
}

// MJD returns the entry timestamp as a floating-point MJD
func (e CalibrationEntry) MJD() float64 {
	return float64(e.Timestamp) / Scale
}

// CheckMJD rejects timestamps ScaleMJD cannot represent
func CheckMJD(mjd float64) error {
	if math.IsNaN(mjd) || math.IsInf(mjd, 0) || math.Abs(mjd) > MaxMJD {
		return fmt.Errorf("%w: %v", ErrBadMJD, mjd)
	}
	return nil
}

// ScaleMJD converts an MJD to the fixed-point representation. mjd must pass
// CheckMJD.
func ScaleMJD(mjd float64) int64 {
	return int64(math.Round(mjd * Scale))
}

// SelectNearest returns the candidate whose timestamp is closest to target.
// On equal distances the first candidate in input order wins.
func SelectNearest(candidates []CalibrationEntry, target int64) (CalibrationEntry, error) {
	if len(candidates) == 0 {
		return CalibrationEntry{}, ErrEmptyInput
	}

	best := 0
	bestDiff := absDiff(candidates[0].Timestamp, target)
	for i := 1; i < len(candidates); i++ {
		d := absDiff(candidates[i].Timestamp, target)
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return candidates[best], nil
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// SensPath returns the library path of the sensitivity function for a
// standard star observed at mjd
func SensPath(dir string, mjd float64) string {
	return filepath.Join(dir, fmt.Sprintf("%.4f.fits", mjd))
}

// ParseSensName extracts the timestamp from a sensitivity function file
// name of the form <mjd>.fits
func ParseSensName(path string) (int64, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, ".fits")
	mjd, err := strconv.ParseFloat(stem, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: file name is not an MJD: %w", base, err)
	}
	if err := CheckMJD(mjd); err != nil {
		return 0, fmt.Errorf("%s: %w", base, err)
	}
	return ScaleMJD(mjd), nil
}

// Library is the set of sensitivity functions found in a directory
type Library struct {
	Entries []CalibrationEntry
	Skipped []string // files whose names could not be parsed
}

// LoadLibrary reads every <mjd>.fits file in dir. Files whose name is not an
// MJD are reported in Skipped instead of failing the load.
func LoadLibrary(dir string) (*Library, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("sensitivity library %s: %w", dir, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.fits"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	lib := &Library{}
	for _, f := range files {
		ts, err := ParseSensName(f)
		if err != nil {
			lib.Skipped = append(lib.Skipped, f)
			continue
		}
		lib.Entries = append(lib.Entries, CalibrationEntry{Timestamp: ts, Path: f})
	}
	return lib, nil
}

// Assignment pairs a science frame with the calibration chosen for it
type Assignment struct {
	Frame    string
	SensFile string
	FrameMJD float64
	SensMJD  float64
}

// Assign selects the nearest library entry for each frame MJD, in frame order
func (l *Library) Assign(frames []string, mjds []float64) ([]Assignment, error) {
	if len(frames) != len(mjds) {
		return nil, fmt.Errorf("got %d frames but %d timestamps", len(frames), len(mjds))
	}

	out := make([]Assignment, 0, len(frames))
	for i, f := range frames {
		if err := CheckMJD(mjds[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		e, err := SelectNearest(l.Entries, ScaleMJD(mjds[i]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out = append(out, Assignment{
			Frame:    f,
			SensFile: e.Path,
			FrameMJD: mjds[i],
			SensMJD:  e.MJD(),
		})
	}
	return out, nil
}
