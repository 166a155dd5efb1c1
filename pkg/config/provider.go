package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetPaths() (*PathsData, error)
	GetPipeline() (*PipelineData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Paths      PathsData      `json:"paths"`
	Pipeline   PipelineData   `json:"pipeline"`
	Site       SiteData       `json:"site"`
	People     PeopleData     `json:"people"`
	Extraction ExtractionData `json:"extraction"`
	Output     OutputData     `json:"output"`
}

// PathsData holds the working directory layout of a reduction
type PathsData struct {
	Raw         string `json:"raw"`
	Datasets    string `json:"datasets"`
	Calibs      string `json:"calibs"`
	Sci         string `json:"sci"`
	QA          string `json:"qa"`
	Sens        string `json:"sens"`
	SensfuncPar string `json:"sensfunc_par"`
	Inventory   string `json:"inventory,omitempty"`
}

// PipelineData names the spectrograph and the external binaries
type PipelineData struct {
	Spectrograph string `json:"spectrograph"`
	Sensfunc     string `json:"sensfunc"`
	FluxCalib    string `json:"flux_calib"`
	Coadd        string `json:"coadd"`
}

// SiteData holds the facility values written to converted spectra
type SiteData struct {
	Telescope  string `json:"telescope"`
	Instrument string `json:"instrument"`
	HomePI     string `json:"home_pi"`
}

// PeopleData names the observer and reducer
type PeopleData struct {
	Observer string `json:"observer,omitempty"`
	Reducer  string `json:"reducer,omitempty"`
}

// ExtractionData controls trace selection
type ExtractionData struct {
	ReferencePixel float64 `json:"reference_pixel"`
}

// OutputData controls converted spectrum output
type OutputData struct {
	WaveCuts         []float64 `json:"wave_cuts"`
	FluxFactor       string    `json:"flux_factor"`
	WavelengthSystem string    `json:"wavelength_system"`
	Sidecar          string    `json:"sidecar,omitempty"`
}

// Default returns the configuration used when nothing is overridden
func Default() *ConfigData {
	return &ConfigData{
		Paths: PathsData{
			Raw:         "raw",
			Datasets:    "datasets",
			Calibs:      "calibs",
			Sci:         "sci",
			QA:          "QA",
			Sens:        "sens",
			SensfuncPar: "etc/sensfunc.par",
		},
		Pipeline: PipelineData{
			Spectrograph: "not_alfosc",
			Sensfunc:     "pypeit_sensfunc",
			FluxCalib:    "pypeit_flux_calib",
			Coadd:        "pypeit_coadd_1dspec",
		},
		Site: SiteData{
			Telescope:  "NOT",
			Instrument: "ALFOSC",
			HomePI:     "Jesper Sollerman",
		},
		Extraction: ExtractionData{
			ReferencePixel: 250,
		},
		Output: OutputData{
			WaveCuts:         []float64{3000, 3250, 3500, 3850},
			FluxFactor:       "1e-17",
			WavelengthSystem: "vacuum",
		},
	}
}
