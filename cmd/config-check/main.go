// config-check prints the configuration the tools resolve from defaults, the
// YAML file and the environment.
package main

import (
	"fmt"
	"os"

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/pkg/config"
)

func main() {
	common := cli.Flags("[flags]")
	cfg := common.Start(0)
	defer log.Sync()

	out, err := config.MarshalYAML(cfg)
	if err != nil {
		cli.Exit(err)
	}

	fmt.Println("# resolved specred configuration")
	os.Stdout.Write(out)

	for _, dir := range []string{cfg.Paths.Raw, cfg.Paths.Sens, cfg.Paths.SensfuncPar} {
		if _, err := os.Stat(dir); err != nil {
			log.Warnf("%s: %v", dir, err)
		}
	}
}
