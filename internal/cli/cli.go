// Package cli holds the start-up steps every specred tool shares.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/pkg/config"
)

// Common are the flags every tool accepts
type Common struct {
	Debug  *bool
	Config *string
}

// Flags registers the common flags on the default flag set and sets a usage
// line naming the positional arguments
func Flags(usage string) *Common {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s %s\n\nFlags:\n", os.Args[0], usage)
		flag.PrintDefaults()
	}
	return &Common{
		Debug:  flag.Bool("debug", false, "Turn on debugging output"),
		Config: flag.String("config", "", "Path to YAML configuration file (default "+config.DefaultFile+" if present)"),
	}
}

// Start parses the command line, initialises logging and loads the
// configuration. It exits when any of that fails or when fewer than minArgs
// positional arguments are given.
func (c *Common) Start(minArgs int) *config.ConfigData {
	flag.Parse()

	if err := log.Init(*c.Debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() < minArgs {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*c.Config)
	if err != nil {
		Exit(fmt.Errorf("failed to load configuration: %w", err))
	}
	log.Debugf("configuration: %+v", *cfg)
	return cfg
}

// Exit logs err and terminates with status 1
func Exit(err error) {
	log.Errorf("%v", err)
	log.Sync()
	os.Exit(1)
}

// Site converts the configured facility values for the header builder
func Site(cfg *config.ConfigData) header.Site {
	return header.Site{
		Telescope:        cfg.Site.Telescope,
		Instrument:       cfg.Site.Instrument,
		HomePI:           cfg.Site.HomePI,
		WavelengthSystem: cfg.Output.WavelengthSystem,
		FluxFactor:       cfg.Output.FluxFactor,
	}
}
