package frames

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/specred/specred/internal/astrotime"
	"github.com/specred/specred/internal/fitsfile"
	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/internal/pypeit"
)

// LRISKeywords are the LRIS header keywords shown in the summary table
var LRISKeywords = []string{
	"DATE-OBS", "UTC", "RA", "DEC", "OBJECT", "GRISNAME", "GRANAME",
	"SLITNAME", "BINNING", "AIRMASS", "ELAPTIME", "DICHNAME", "NUMAMPS",
	"TRAPDOOR", "WAVELEN", "MERCURY", "NEON", "ARGON", "CADMIUM", "ZINC",
	"HALOGEN", "KRYPTON", "XENON", "FEARGON", "DEUTERI",
}

// lamp status keywords and the PypeIt names of the lamps, in LAMPS order
var (
	lampKeys  = []string{"MERCURY", "NEON", "ARGON", "CADMIUM", "ZINC", "HALOGEN", "KRYPTON", "XENON", "FEARGON", "DEUTERI"}
	lampNames = []string{"HgI", "NeI", "ArI", "CdI", "ZnI", "Halogen", "KrI", "XeI", "FeAr", "2H"}
)

// LampsOff is the lamp status of a frame with every lamp off
const LampsOff = "off"

// LampStatus lists the lamps that were on, space separated. Older headers
// carry a LAMPS keyword of comma separated 0/1 flags, newer ones one on/off
// keyword per lamp.
func LampStatus(h header.Source) (string, error) {
	var on []string
	if v, ok := h.Lookup("LAMPS"); ok {
		flags := strings.Split(header.FormatValue(v), ",")
		for i, flag := range flags {
			n, err := strconv.Atoi(strings.TrimSpace(flag))
			if err != nil {
				return "", fmt.Errorf("bad LAMPS value %q", header.FormatValue(v))
			}
			if n != 0 && i < len(lampNames) {
				on = append(on, lampNames[i])
			}
		}
	} else {
		for i, key := range lampKeys {
			if v, ok := h.Lookup(key); ok && strings.TrimSpace(header.FormatValue(v)) == "on" {
				on = append(on, lampNames[i])
			}
		}
	}
	if len(on) == 0 {
		return LampsOff, nil
	}
	return strings.Join(on, " "), nil
}

// LRISFrameType guesses the PypeIt frame type of an LRIS exposure from its
// lamps and exposure time
func LRISFrameType(lamps string, exptime float64) string {
	switch {
	case strings.Contains(lamps, "Halogen"):
		return "pixelflat,illumflat,trace"
	case lamps != LampsOff:
		return "arc,tilt"
	case exptime < 1:
		return "bias"
	default:
		return "science"
	}
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// LRISRow formats an LRIS header as a line of the LRIS data table. The blue
// arm disperser is the grism, the red arm one the grating.
func LRISRow(path string, h *fitsfile.Header, arm string) (pypeit.LRISRow, error) {
	get := func(key string) string {
		v, ok := h.Lookup(key)
		if !ok {
			return "None"
		}
		return strings.TrimSpace(header.FormatValue(v))
	}

	lamps, err := LampStatus(h)
	if err != nil {
		return pypeit.LRISRow{}, err
	}

	mjd := "None"
	if v, err := h.String("DATE-BEG"); err == nil {
		m, err := astrotime.DateObsToMJD(v)
		if err != nil {
			return pypeit.LRISRow{}, err
		}
		mjd = header.FormatValue(m)
	}

	disperser := get("GRANAME")
	if strings.EqualFold(arm, "blue") {
		disperser = get("GRISNAME")
	}

	// Telling bias from science needs the exposure time; without it a dark
	// frame stays untyped.
	frameType := "None"
	exptime, err := h.Float("ELAPTIME")
	if err == nil || lamps != LampsOff {
		frameType = LRISFrameType(lamps, exptime)
	}

	return pypeit.LRISRow{
		Row: pypeit.Row{
			Filename:  fileName(path),
			FrameType: frameType,
			RA:        get("RA"),
			Dec:       get("DEC"),
			Target:    get("OBJECT"),
			Dispname:  disperser,
			Decker:    get("SLITNAME"),
			Binning:   reverse(get("BINNING")),
			MJD:       mjd,
			Airmass:   get("AIRMASS"),
			Exptime:   get("ELAPTIME"),
		},
		Dichroic:  get("DICHNAME"),
		Amp:       get("NUMAMPS"),
		DispAngle: get("GRANGLE"),
		CenWave:   get("WAVELEN"),
		Hatch:     get("TRAPDOOR"),
		LampStat:  lamps,
		DateObs:   get("DATE-OBS"),
	}, nil
}

func fileName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}
