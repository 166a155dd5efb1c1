package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/specred/specred/internal/cli"
	"github.com/specred/specred/internal/inventory"
	"github.com/specred/specred/internal/log"
	"github.com/specred/specred/pkg/migrate"
)

func main() {
	common := cli.Flags("[flags]")
	var (
		dbDSN          = flag.String("dsn", "", "Inventory database path (default from config)")
		migrationDir   = flag.String("dir", "", "Migration directory (default: the built-in inventory schema)")
		migrationTable = flag.String("table", migrate.DefaultTable, "Migration table name")
		command        = flag.String("command", "up", "Migration command: up, down, to, version, status")
		targetVersion  = flag.String("target", "", "Target version for down/to commands")
	)
	cfg := common.Start(0)
	defer log.Sync()

	if *dbDSN == "" {
		*dbDSN = cfg.Paths.Inventory
	}
	if *dbDSN == "" {
		fmt.Fprintf(os.Stderr, "Error: -dsn flag is required when no inventory is configured\n")
		flag.Usage()
		os.Exit(1)
	}

	// Open database connection
	db, err := sql.Open("sqlite", *dbDSN)
	if err != nil {
		cli.Exit(fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		cli.Exit(fmt.Errorf("failed to ping database: %w", err))
	}

	provider := migrate.NewFSProvider(inventory.Migrations(), *migrationTable)
	if *migrationDir != "" {
		provider = migrate.NewFileProvider(*migrationDir, *migrationTable)
	}
	migrator := migrate.NewMigrator(db, provider)

	switch *command {
	case "up":
		err = migrator.MigrateUp()
	case "down", "to":
		var target int
		target, err = parseTarget(*command, *targetVersion)
		if err != nil {
			break
		}
		if *command == "down" {
			err = migrator.MigrateDown(target)
		} else {
			err = migrator.MigrateTo(target)
		}
	case "version":
		version, err := migrator.GetCurrentVersion()
		if err != nil {
			cli.Exit(fmt.Errorf("failed to get current version: %w", err))
		}
		fmt.Printf("Current version: %d\n", version)
		return
	case "status":
		err = showStatus(migrator)
		if err == nil {
			return
		}
	default:
		err = fmt.Errorf("unknown command: %s", *command)
	}

	if err != nil {
		cli.Exit(fmt.Errorf("migration command failed: %w", err))
	}

	fmt.Println("Migration completed successfully")
}

func parseTarget(command, target string) (int, error) {
	if target == "" {
		return 0, fmt.Errorf("-target flag is required for %s command", command)
	}
	v, err := strconv.Atoi(target)
	if err != nil {
		return 0, fmt.Errorf("invalid target version: %w", err)
	}
	return v, nil
}

func showStatus(migrator *migrate.Migrator) error {
	st, err := migrator.Status()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	fmt.Printf("Current version: %d\n", st.Current)
	fmt.Printf("Latest version: %d\n", st.Latest)
	fmt.Printf("Pending migrations: %d\n", len(st.Pending))

	if len(st.Pending) > 0 {
		fmt.Println("\nPending migrations:")
		for _, migration := range st.Pending {
			fmt.Printf("  %d: %s\n", migration.Version, migration.Name)
		}
	}

	return nil
}
