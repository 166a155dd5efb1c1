// prepare-dataset unpacks the archive of one ALFOSC night, flattens its
// frame directories and writes the head.info overview.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specred/specred/internal/archive"
	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/frames"
	"github.com/specred/specred/internal/inventory"
	"github.com/specred/specred/internal/log"
)

func main() {
	common := cli.Flags("[flags] DATE")
	cleanup := flag.Bool("cleanup", false, "Remove the instrument folders and the original archive")
	dbPath := flag.String("inventory", "", "SQLite frame inventory to record the night in (default from config)")
	cfg := common.Start(1)
	defer log.Sync()

	night := archive.Night{RawDir: cfg.Paths.Raw, Date: flag.Arg(0)}
	if *dbPath == "" {
		*dbPath = cfg.Paths.Inventory
	}

	if err := run(night, *cleanup, *dbPath); err != nil {
		cli.Exit(err)
	}
}

func run(night archive.Night, cleanup bool, dbPath string) error {
	n, err := archive.Unpack(night.Zip(), night.RawDir)
	if err != nil {
		return err
	}
	log.Infof("extracted %d files from %s", n, night.Zip())

	moved, err := archive.Flatten(night)
	if err != nil {
		return err
	}
	log.Infof("moved %d frames into %s", len(moved), night.Dir())

	if cleanup {
		if err := archive.Cleanup(night); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		log.Infof("removed %s and %s", night.InstrumentDir(), night.Zip())
	}

	all, err := frames.LoadMerged(night.Dir())
	if err != nil {
		return err
	}

	infoPath := filepath.Join(night.Dir(), "head.info")
	if err := writeHeadInfo(infoPath, all); err != nil {
		return err
	}
	log.Infof("wrote %s (%d frames)", infoPath, len(all))

	if dbPath == "" {
		return nil
	}
	inv, err := inventory.Open(dbPath)
	if err != nil {
		return err
	}
	defer inv.Close()

	runID, err := inv.Ingest(context.Background(), night.Date, all)
	if err != nil {
		return err
	}
	log.Infow("recorded night in inventory", "db", dbPath, "night", night.Date, "run", runID.String())
	return nil
}

func writeHeadInfo(path string, all []frames.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := inventory.WriteHeadInfo(out, all, inventory.HeadInfoKeys); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}
