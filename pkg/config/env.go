package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultFile is read when no configuration file is named explicitly
const DefaultFile = "specred.yaml"

// EnvPrefix prefixes every environment override
const EnvPrefix = "SPECRED_"

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

type stringVar struct {
	name string
	dst  func(c *ConfigData) *string
}

var stringVars = []stringVar{
	{"RAW_DIR", func(c *ConfigData) *string { return &c.Paths.Raw }},
	{"DATASETS_DIR", func(c *ConfigData) *string { return &c.Paths.Datasets }},
	{"CALIBS_DIR", func(c *ConfigData) *string { return &c.Paths.Calibs }},
	{"SCI_DIR", func(c *ConfigData) *string { return &c.Paths.Sci }},
	{"QA_DIR", func(c *ConfigData) *string { return &c.Paths.QA }},
	{"SENS_DIR", func(c *ConfigData) *string { return &c.Paths.Sens }},
	{"SENSFUNC_PAR", func(c *ConfigData) *string { return &c.Paths.SensfuncPar }},
	{"INVENTORY", func(c *ConfigData) *string { return &c.Paths.Inventory }},
	{"SPECTROGRAPH", func(c *ConfigData) *string { return &c.Pipeline.Spectrograph }},
	{"SENSFUNC", func(c *ConfigData) *string { return &c.Pipeline.Sensfunc }},
	{"FLUX_CALIB", func(c *ConfigData) *string { return &c.Pipeline.FluxCalib }},
	{"COADD", func(c *ConfigData) *string { return &c.Pipeline.Coadd }},
	{"TELESCOPE", func(c *ConfigData) *string { return &c.Site.Telescope }},
	{"INSTRUMENT", func(c *ConfigData) *string { return &c.Site.Instrument }},
	{"HOME_PI", func(c *ConfigData) *string { return &c.Site.HomePI }},
	{"OBSERVER", func(c *ConfigData) *string { return &c.People.Observer }},
	{"REDUCER", func(c *ConfigData) *string { return &c.People.Reducer }},
	{"FLUX_FACTOR", func(c *ConfigData) *string { return &c.Output.FluxFactor }},
	{"WAVELENGTH_SYSTEM", func(c *ConfigData) *string { return &c.Output.WavelengthSystem }},
	{"SIDECAR", func(c *ConfigData) *string { return &c.Output.Sidecar }},
}

// ApplyEnv overrides c with SPECRED_* variables found through lookup
func ApplyEnv(c *ConfigData, lookup LookupFunc) error {
	for _, v := range stringVars {
		if s, ok := lookup(EnvPrefix + v.name); ok && s != "" {
			*v.dst(c) = s
		}
	}

	if s, ok := lookup(EnvPrefix + "REFERENCE_PIXEL"); ok && s != "" {
		px, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%sREFERENCE_PIXEL: %w", EnvPrefix, err)
		}
		c.Extraction.ReferencePixel = px
	}

	if s, ok := lookup(EnvPrefix + "WAVE_CUTS"); ok && s != "" {
		cuts, err := parseCuts(s)
		if err != nil {
			return fmt.Errorf("%sWAVE_CUTS: %w", EnvPrefix, err)
		}
		c.Output.WaveCuts = cuts
	}
	return nil
}

func parseCuts(s string) ([]float64, error) {
	var cuts []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, v)
	}
	return cuts, nil
}

// Load resolves the configuration: defaults, then the YAML file (filename,
// or DefaultFile when filename is empty and it exists), then a .env file and
// the environment.
func Load(filename string) (*ConfigData, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if filename == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			filename = DefaultFile
		}
	}

	cfg := Default()
	if filename != "" {
		var err error
		cfg, err = NewYAMLProvider(filename).LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", filename, err)
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no tool can work with
func (c *ConfigData) Validate() error {
	if c.Extraction.ReferencePixel < 0 {
		return fmt.Errorf("reference-pixel must not be negative, got %v", c.Extraction.ReferencePixel)
	}
	if c.Output.Sidecar != "" && c.Output.Sidecar != "json" && c.Output.Sidecar != "msgpack" {
		return fmt.Errorf("sidecar must be json or msgpack, got %q", c.Output.Sidecar)
	}
	if c.Paths.Sens == "" {
		return errors.New("sens path must not be empty")
	}
	return nil
}
