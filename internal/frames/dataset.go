package frames

import (
	"errors"
	"fmt"
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/internal/pypeit"
	"github.com/specred/specred/internal/sky"
)

// CalibrationRadius is how close, in degrees, arcs and flats must have been
// taken to the science pointing
const CalibrationRadius = 1.0

// ErrNoScience is returned for a dataset without science frames
var ErrNoScience = errors.New("dataset has no science frames")

// DetectorWindowError is returned when the science frames of one target
// were read out with different detector windows
type DetectorWindowError struct {
	Windows []string
}

func (e *DetectorWindowError) Error() string {
	return fmt.Sprintf("science frames use %d detector windows %v, expected one", len(e.Windows), e.Windows)
}

// Entry is a frame with the PypeIt type it takes in a dataset
type Entry struct {
	Frame     Frame
	FrameType string
}

// Group is a set of science or standard-star frames of one object
type Group struct {
	Name   string
	Frames []Frame
}

// IsStandard reports whether a frame is a standard-star calibration
func IsStandard(f Frame) bool {
	return f.ImageType == "STD" && f.ImageCat == "CALIB"
}

// IsScience reports whether a frame is a science exposure
func IsScience(f Frame) bool {
	return f.ImageCat == "SCIENCE"
}

// Groups splits frames by OBJECT, standard stars first and named
// STD-<object>, then science targets. Both are sorted by name.
func Groups(all []Frame) []Group {
	std := groupBy(all, IsStandard, "STD-")
	sci := groupBy(all, IsScience, "")
	return append(std, sci...)
}

func groupBy(all []Frame, keep func(Frame) bool, prefix string) []Group {
	byObject := make(map[string][]Frame)
	var names []string
	for _, f := range all {
		if !keep(f) {
			continue
		}
		if _, ok := byObject[f.Object]; !ok {
			names = append(names, f.Object)
		}
		byObject[f.Object] = append(byObject[f.Object], f)
	}
	sort.Strings(names)

	out := make([]Group, 0, len(names))
	for _, n := range names {
		out = append(out, Group{Name: prefix + n, Frames: byObject[n]})
	}
	return out
}

// BuildDataset collects the frames reducing science needs: biases with the
// same detector window, arcs and flats taken near the science pointing and
// the science frames themselves.
func BuildDataset(all []Frame, science []Frame) ([]Entry, error) {
	if len(science) == 0 {
		return nil, ErrNoScience
	}

	windows := detectorWindows(science)
	if len(windows) != 1 {
		return nil, &DetectorWindowError{Windows: windows}
	}
	detwin := windows[0]
	ra, dec := science[0].RA, science[0].Dec

	var entries []Entry
	for _, f := range all {
		if f.ImageType == "BIAS" && f.DetWin1 == detwin {
			entries = append(entries, Entry{Frame: f, FrameType: "bias"})
		}
	}
	near := func(f Frame) bool {
		return sky.Within(ra, dec, f.RA, f.Dec, CalibrationRadius)
	}
	for _, f := range all {
		if f.ImageType == "WAVE,LAMP" && near(f) {
			entries = append(entries, Entry{Frame: f, FrameType: "tilt,arc"})
		}
	}
	for _, f := range all {
		if f.ImageType == "FLAT,LAMP" && near(f) {
			entries = append(entries, Entry{Frame: f, FrameType: "trace,illumflat,pixelflat"})
		}
	}
	for _, f := range science {
		entries = append(entries, Entry{Frame: f, FrameType: "science"})
	}
	return entries, nil
}

func detectorWindows(fs []Frame) []string {
	var names []string
	for _, f := range fs {
		names = append(names, f.DetWin1)
	}
	uniq := strutil.UniqueSlice(names)
	sort.Strings(uniq)
	return uniq
}

// Row formats a frame as a line of the ALFOSC data table
func Row(f Frame, frameType string) pypeit.Row {
	return pypeit.Row{
		Filename:  f.Name(),
		FrameType: frameType,
		RA:        header.FormatValue(f.RA),
		Dec:       header.FormatValue(f.Dec),
		Target:    f.Object,
		Dispname:  GrismName(f.Grism),
		Decker:    f.Slit,
		Binning:   "1,1",
		MJD:       header.FormatValue(f.MJD),
		Airmass:   header.FormatValue(f.Airmass),
		Exptime:   header.FormatValue(f.Exptime),
	}
}

// Rows formats dataset entries as data table lines
func Rows(entries []Entry) []pypeit.Row {
	rows := make([]pypeit.Row, len(entries))
	for i, e := range entries {
		rows[i] = Row(e.Frame, e.FrameType)
	}
	return rows
}

// SimilarPair is two object names that are probably the same target
type SimilarPair struct {
	A, B       string
	Similarity float64
}

// SimilarTargets returns the pairs of distinct names whose Jaro-Winkler
// similarity is at least threshold
func SimilarTargets(names []string, threshold float64) []SimilarPair {
	uniq := strutil.UniqueSlice(names)
	sort.Strings(uniq)

	metric := metrics.NewJaroWinkler()
	metric.CaseSensitive = false

	var out []SimilarPair
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			s := strutil.Similarity(uniq[i], uniq[j], metric)
			if s >= threshold {
				out = append(out, SimilarPair{A: uniq[i], B: uniq[j], Similarity: s})
			}
		}
	}
	return out
}
