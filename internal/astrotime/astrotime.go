// Package astrotime converts between the time scales found in FITS headers:
// ISO DATE-OBS strings, Julian dates and modified Julian dates.
package astrotime

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// MJDOffset is the Julian date of MJD 0
const MJDOffset = 2400000.5

// ISOTLayout formats timestamps the way the reduction headers carry them
const ISOTLayout = "2006-01-02T15:04:05.000"

var dateObsLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseDateObs parses a FITS DATE-OBS value, always as UTC
func ParseDateObs(s string) (time.Time, error) {
	v := strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range dateObsLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised DATE-OBS %q", s)
}

// JD returns the Julian date of t
func JD(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// MJD returns the modified Julian date of t
func MJD(t time.Time) float64 {
	return JD(t) - MJDOffset
}

// FromMJD returns the UTC time of a modified Julian date
func FromMJD(mjd float64) time.Time {
	return julian.JDToTime(mjd + MJDOffset).UTC()
}

// MJDToJD shifts a modified Julian date to a Julian date
func MJDToJD(mjd float64) float64 {
	return mjd + MJDOffset
}

// ISOT formats a modified Julian date as an ISO timestamp with millisecond
// precision
func ISOT(mjd float64) string {
	return FromMJD(mjd).Round(time.Millisecond).Format(ISOTLayout)
}

// DateObsToMJD parses a DATE-OBS value and converts it to MJD
func DateObsToMJD(s string) (float64, error) {
	t, err := ParseDateObs(s)
	if err != nil {
		return 0, err
	}
	return MJD(t), nil
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
