package header

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/specred/specred/internal/astrotime"
)

var (
	// ErrEmptyLog is returned when the reduction log holds no science rows
	ErrEmptyLog = errors.New("reduction log has no science frames")
	// ErrMissingField matches every *MissingFieldError
	ErrMissingField = errors.New("missing header field")
)

// MissingFieldError names the header and keyword that could not be found
type MissingFieldError struct {
	Source string
	Key    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s header has no %s keyword", e.Source, e.Key)
}

// Is lets errors.Is match ErrMissingField
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Source is anything keywords can be looked up in
type Source interface {
	Lookup(key string) (interface{}, bool)
}

// MapSource is a Source backed by a plain map
type MapSource map[string]interface{}

// Lookup implements Source
func (m MapSource) Lookup(key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

// LogRow is one science exposure from the reduction log
type LogRow struct {
	Filename string
	Target   string
	Decker   string
	Dispname string
	MJD      float64
	Exptime  float64
}

// Site holds the fixed facility and pipeline values
type Site struct {
	Telescope        string
	Instrument       string
	HomePI           string
	WavelengthSystem string
	FluxFactor       string
}

// DefaultSite returns the values used for NOT/ALFOSC reductions
func DefaultSite() Site {
	return Site{
		Telescope:        "NOT",
		Instrument:       "ALFOSC",
		HomePI:           "Jesper Sollerman",
		WavelengthSystem: "vacuum",
		FluxFactor:       "1e-17",
	}
}

// Inputs bundles everything Build reads
type Inputs struct {
	Log       []LogRow
	Raw       Source
	Reduced   Source
	Extension Source
	History   []string
	Observer  string
	Reducer   string
	Site      Site
}

// Source names used in MissingFieldError
const (
	SourceRaw       = "raw"
	SourceReduced   = "reduced"
	SourceExtension = "extension"
)

type builder struct {
	h   *Header
	err error
}

func (b *builder) add(key string, value interface{}) {
	if b.err != nil {
		return
	}
	b.h.Add(key, value)
}

func (b *builder) copy(src Source, name, from, to string) {
	if b.err != nil {
		return
	}
	v, ok := lookup(src, from)
	if !ok {
		b.err = &MissingFieldError{Source: name, Key: from}
		return
	}
	b.h.Add(to, v)
}

func (b *builder) value(src Source, name, key string) interface{} {
	if b.err != nil {
		return nil
	}
	v, ok := lookup(src, key)
	if !ok {
		b.err = &MissingFieldError{Source: name, Key: key}
		return nil
	}
	return v
}

func lookup(src Source, key string) (interface{}, bool) {
	if src == nil {
		return nil, false
	}
	return src.Lookup(key)
}

// Build assembles the output header. The first absent keyword aborts the
// build and no partial header is returned.
func Build(in Inputs) (*Header, error) {
	if len(in.Log) == 0 {
		return nil, ErrEmptyLog
	}

	b := &builder{h: New()}
	raw, red, ext := in.Raw, in.Reduced, in.Extension

	b.add("HEADER", "START")
	b.add("OBJECT", in.Log[0].Target)

	b.copy(raw, SourceRaw, "OBJRA", "RA")
	b.copy(raw, SourceRaw, "OBJDEC", "DEC")
	b.copy(raw, SourceRaw, "OBJEQUIN", "EQUINOX")
	b.copy(raw, SourceRaw, "RADECSYS", "RADECSYS")
	b.copy(raw, SourceRaw, "OBJPMRA", "OBJPMRA")
	b.copy(raw, SourceRaw, "OBJPMDEC", "OBJPMDEC")

	b.copy(raw, SourceRaw, "OBSERVAT", "OBSERVATORY")
	b.add("TELESCOPE", in.Site.Telescope)
	b.copy(red, SourceReduced, "LON-OBS", "LON-OBS")
	b.copy(red, SourceReduced, "LAT-OBS", "LAT-OBS")
	b.copy(red, SourceReduced, "ALT-OBS", "ALT-OBS")
	b.add("INSTRUMENT", in.Site.Instrument)
	b.copy(raw, SourceRaw, "DETNAME", "DETECTOR")
	b.copy(raw, SourceRaw, "CHIPID", "CHIPID")

	start := minMJD(in.Log)
	b.add("DATE-OBS", astrotime.ISOT(start))
	b.add("JD", astrotime.Round(astrotime.MJDToJD(start), 5))
	b.add("MJD", astrotime.Round(start, 5))
	b.add("EXPTIME", totalExptime(in.Log))
	b.add("NCOMBINE", len(in.Log))
	b.add("INTTIME", in.Log[0].Exptime)
	b.add("SLIT", firstUnique(in.Log, func(r LogRow) string { return r.Decker }))
	b.add("DISERPER", firstUnique(in.Log, func(r LogRow) string { return r.Dispname }))
	b.copy(red, SourceReduced, "BINNING", "BINNING")
	b.copy(red, SourceReduced, "AIRMASS", "AIRMASS_START")
	b.copy(raw, SourceRaw, "DETWIN1", "DETWIN1")

	b.copy(raw, SourceRaw, "PROPID", "PROPID")
	b.copy(raw, SourceRaw, "PROPTITL", "PROPTITL")
	b.copy(raw, SourceRaw, "OBSERVER", "NOT_OBSERVER")
	b.add("HOME_OBSERVER", fmt.Sprintf("%s, %s", in.Site.HomePI, in.Observer))
	b.add("REDUCER", in.Reducer)
	b.copy(raw, SourceRaw, "GROUPID", "GROUPID")
	b.copy(raw, SourceRaw, "BLOCKID", "BLOCKID")

	if v := b.value(red, SourceReduced, "VERSPYP"); b.err == nil {
		b.add("PIPELINE", "PypeIt v"+FormatValue(v))
	}
	b.add("WLENSYSTEM", in.Site.WavelengthSystem)
	b.add("FLUX_FACTOR", in.Site.FluxFactor)
	b.copy(red, SourceReduced, "EXT0000", "EXTENSION")
	b.copy(ext, SourceExtension, "WAVE_RMS", "WAVE_RMS_PX")
	b.copy(ext, SourceExtension, "FWHM", "PSF_FWHM_PX")

	for i, line := range in.History {
		b.add(fmt.Sprintf("HISTORY %d", i), line)
	}
	b.add("HEADER", "END")

	if b.err != nil {
		return nil, b.err
	}
	return b.h, nil
}

func minMJD(rows []LogRow) float64 {
	m := math.Inf(1)
	for _, r := range rows {
		if r.MJD < m {
			m = r.MJD
		}
	}
	return m
}

func totalExptime(rows []LogRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Exptime
	}
	return sum
}

// firstUnique returns the lexically smallest distinct value
func firstUnique(rows []LogRow, field func(LogRow) string) string {
	values := Unique(rows, field)
	return values[0]
}

// Unique returns the sorted distinct values of field across rows
func Unique(rows []LogRow, field func(LogRow) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := field(r)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
