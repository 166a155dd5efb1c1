// Package frames summarises raw telescope frames and groups them into the
// datasets PypeIt reduces.
package frames

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specred/specred/internal/astrotime"
	"github.com/specred/specred/internal/fitsfile"
)

// ALFOSCKeywords are the header keywords the dataset builder reads
var ALFOSCKeywords = []string{
	"DATE-OBS", "RA", "DEC", "IMAGETYP", "IMAGECAT", "OBJECT", "EXPTIME",
	"ALGRNM", "ALAPRTNM", "DETWIN1", "AIRMASS",
}

// Frame is the header summary of one raw frame
type Frame struct {
	File      string
	DateObs   string
	MJD       float64
	RA        float64
	Dec       float64
	ImageType string
	ImageCat  string
	Object    string
	Exptime   float64
	Grism     string
	Slit      string
	DetWin1   string
	Airmass   float64

	// Missing lists the keywords absent from the header
	Missing []string
	Header  *fitsfile.Header
}

// Name returns the file name without its directory
func (f Frame) Name() string {
	return filepath.Base(f.File)
}

// FromHeader summarises a primary header. Absent keywords leave zero values
// and are recorded in Missing.
func FromHeader(path string, h *fitsfile.Header) Frame {
	f := Frame{File: path, Header: h}

	str := func(key string) string {
		v, err := h.String(key)
		if err != nil {
			f.Missing = append(f.Missing, key)
		}
		return v
	}
	num := func(key string) float64 {
		v, err := h.Float(key)
		if err != nil {
			f.Missing = append(f.Missing, key)
		}
		return v
	}

	f.DateObs = str("DATE-OBS")
	f.RA = num("RA")
	f.Dec = num("DEC")
	f.ImageType = str("IMAGETYP")
	f.ImageCat = str("IMAGECAT")
	f.Object = str("OBJECT")
	f.Exptime = num("EXPTIME")
	f.Grism = str("ALGRNM")
	f.Slit = str("ALAPRTNM")
	f.DetWin1 = str("DETWIN1")
	f.Airmass = num("AIRMASS")

	if f.DateObs != "" {
		if mjd, err := astrotime.DateObsToMJD(f.DateObs); err == nil {
			f.MJD = mjd
		} else {
			f.Missing = append(f.Missing, "DATE-OBS")
		}
	}
	return f
}

// Paths returns the sorted *.fits files of dir
func Paths(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.fits"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads the primary header of every *.fits file in dir
func Load(dir string) ([]Frame, error) {
	paths, err := Paths(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Frame, 0, len(paths))
	for _, p := range paths {
		h, err := fitsfile.ReadHeader(p, fitsfile.Index(0))
		if err != nil {
			return nil, err
		}
		out = append(out, FromHeader(p, h))
	}
	return out, nil
}

// LoadMerged reads every *.fits file in dir with all of its HDU headers
// merged, so keywords that only the image extension carries (NAXIS1,
// NAXIS2) are visible
func LoadMerged(dir string) ([]Frame, error) {
	paths, err := Paths(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Frame, 0, len(paths))
	for _, p := range paths {
		hs, err := fitsfile.ReadHeaders(p)
		if err != nil {
			return nil, err
		}
		out = append(out, FromHeader(p, fitsfile.Merge(hs...)))
	}
	return out, nil
}

// FrameType maps an ALFOSC IMAGETYP to a PypeIt frame type
func FrameType(imageType string) (string, bool) {
	switch strings.TrimSpace(imageType) {
	case "BIAS":
		return "bias", true
	case "OBJECT":
		return "science", true
	case "WAVE,LAMP":
		return "tilt,arc", true
	case "FLAT,LAMP":
		return "trace,illumflat,pixelflat", true
	default:
		return "", false
	}
}

// GrismName strips the '#' ALFOSC puts in grism names
func GrismName(s string) string {
	return strings.ReplaceAll(s, "#", "")
}

func (f Frame) String() string {
	return fmt.Sprintf("%s %s %s %s", f.Name(), f.ImageType, f.ImageCat, f.Object)
}
