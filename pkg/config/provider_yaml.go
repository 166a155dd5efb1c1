package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
// Keys absent from the file keep their Default() values.
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, err
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	yamlConfig := toYAML(Default())
	if err := yaml.UnmarshalStrict(data, &yamlConfig); err != nil {
		return nil, err
	}
	return yamlConfig.data(), nil
}

// GetPaths returns the directory layout
func (y *YAMLProvider) GetPaths() (*PathsData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Paths, nil
}

// GetPipeline returns the pipeline binaries
func (y *YAMLProvider) GetPipeline() (*PipelineData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Pipeline, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with hyphenated keys
type ConfigYAML struct {
	Paths      PathsYAML      `yaml:"paths,omitempty"`
	Pipeline   PipelineYAML   `yaml:"pipeline,omitempty"`
	Site       SiteYAML       `yaml:"site,omitempty"`
	People     PeopleYAML     `yaml:"people,omitempty"`
	Extraction ExtractionYAML `yaml:"extraction,omitempty"`
	Output     OutputYAML     `yaml:"output,omitempty"`
}

type PathsYAML struct {
	Raw         string `yaml:"raw,omitempty"`
	Datasets    string `yaml:"datasets,omitempty"`
	Calibs      string `yaml:"calibs,omitempty"`
	Sci         string `yaml:"sci,omitempty"`
	QA          string `yaml:"qa,omitempty"`
	Sens        string `yaml:"sens,omitempty"`
	SensfuncPar string `yaml:"sensfunc-par,omitempty"`
	Inventory   string `yaml:"inventory,omitempty"`
}

type PipelineYAML struct {
	Spectrograph string `yaml:"spectrograph,omitempty"`
	Sensfunc     string `yaml:"sensfunc,omitempty"`
	FluxCalib    string `yaml:"flux-calib,omitempty"`
	Coadd        string `yaml:"coadd,omitempty"`
}

type SiteYAML struct {
	Telescope  string `yaml:"telescope,omitempty"`
	Instrument string `yaml:"instrument,omitempty"`
	HomePI     string `yaml:"home-pi,omitempty"`
}

type PeopleYAML struct {
	Observer string `yaml:"observer,omitempty"`
	Reducer  string `yaml:"reducer,omitempty"`
}

type ExtractionYAML struct {
	ReferencePixel float64 `yaml:"reference-pixel,omitempty"`
}

type OutputYAML struct {
	WaveCuts         []float64 `yaml:"wave-cuts,omitempty"`
	FluxFactor       string    `yaml:"flux-factor,omitempty"`
	WavelengthSystem string    `yaml:"wavelength-system,omitempty"`
	Sidecar          string    `yaml:"sidecar,omitempty"`
}

func toYAML(c *ConfigData) ConfigYAML {
	return ConfigYAML{
		Paths: PathsYAML{
			Raw:         c.Paths.Raw,
			Datasets:    c.Paths.Datasets,
			Calibs:      c.Paths.Calibs,
			Sci:         c.Paths.Sci,
			QA:          c.Paths.QA,
			Sens:        c.Paths.Sens,
			SensfuncPar: c.Paths.SensfuncPar,
			Inventory:   c.Paths.Inventory,
		},
		Pipeline: PipelineYAML{
			Spectrograph: c.Pipeline.Spectrograph,
			Sensfunc:     c.Pipeline.Sensfunc,
			FluxCalib:    c.Pipeline.FluxCalib,
			Coadd:        c.Pipeline.Coadd,
		},
		Site: SiteYAML{
			Telescope:  c.Site.Telescope,
			Instrument: c.Site.Instrument,
			HomePI:     c.Site.HomePI,
		},
		People: PeopleYAML{
			Observer: c.People.Observer,
			Reducer:  c.People.Reducer,
		},
		Extraction: ExtractionYAML{
			ReferencePixel: c.Extraction.ReferencePixel,
		},
		Output: OutputYAML{
			WaveCuts:         append([]float64(nil), c.Output.WaveCuts...),
			FluxFactor:       c.Output.FluxFactor,
			WavelengthSystem: c.Output.WavelengthSystem,
			Sidecar:          c.Output.Sidecar,
		},
	}
}

func (y ConfigYAML) data() *ConfigData {
	return &ConfigData{
		Paths: PathsData{
			Raw:         y.Paths.Raw,
			Datasets:    y.Paths.Datasets,
			Calibs:      y.Paths.Calibs,
			Sci:         y.Paths.Sci,
			QA:          y.Paths.QA,
			Sens:        y.Paths.Sens,
			SensfuncPar: y.Paths.SensfuncPar,
			Inventory:   y.Paths.Inventory,
		},
		Pipeline: PipelineData{
			Spectrograph: y.Pipeline.Spectrograph,
			Sensfunc:     y.Pipeline.Sensfunc,
			FluxCalib:    y.Pipeline.FluxCalib,
			Coadd:        y.Pipeline.Coadd,
		},
		Site: SiteData{
			Telescope:  y.Site.Telescope,
			Instrument: y.Site.Instrument,
			HomePI:     y.Site.HomePI,
		},
		People: PeopleData{
			Observer: y.People.Observer,
			Reducer:  y.People.Reducer,
		},
		Extraction: ExtractionData{
			ReferencePixel: y.Extraction.ReferencePixel,
		},
		Output: OutputData{
			WaveCuts:         y.Output.WaveCuts,
			FluxFactor:       y.Output.FluxFactor,
			WavelengthSystem: y.Output.WavelengthSystem,
			Sidecar:          y.Output.Sidecar,
		},
	}
}

// MarshalYAML renders c in the configuration file format
func MarshalYAML(c *ConfigData) ([]byte, error) {
	return yaml.Marshal(toYAML(c))
}
