// Package inventory keeps a SQLite record of the raw frames of every
// prepared night, so nights can be searched without rereading FITS headers.
package inventory

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/specred/specred/internal/frames"
	"github.com/specred/specred/internal/header"
	"github.com/specred/specred/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the schema migrations
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic("failed to create migrations sub-filesystem: " + err.Error())
	}
	return sub
}

// Inventory is an open frame database
type Inventory struct {
	db *sql.DB
}

// Record is one stored frame
type Record struct {
	Night     string
	Filename  string
	RunID     string
	DateObs   string
	MJD       float64
	Object    string
	ImageType string
	ImageCat  string
	Exptime   float64
	RA        float64
	Dec       float64
	Grism     string
	Slit      string
	DetWin1   string
	Airmass   float64
}

// Open opens or creates the database at path and brings its schema up to
// date
func Open(path string) (*Inventory, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	m := migrate.NewMigrator(db, migrate.NewFSProvider(Migrations(), migrate.DefaultTable))
	if err := m.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate inventory: %w", err)
	}
	return &Inventory{db: db}, nil
}

// DB exposes the underlying connection
func (inv *Inventory) DB() *sql.DB {
	return inv.db
}

// Close closes the database
func (inv *Inventory) Close() error {
	return inv.db.Close()
}

// Ingest stores the frames of a night under a new run ID, replacing any
// earlier record of the same files
func (inv *Inventory) Ingest(ctx context.Context, night string, fs []frames.Frame) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := inv.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO ingest_runs (id, night, frame_count) VALUES (?, ?, ?)",
		runID.String(), night, len(fs)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record run: %w", err)
	}

	for _, f := range fs {
		if err := insertFrame(ctx, tx, night, runID, f); err != nil {
			return uuid.Nil, fmt.Errorf("failed to store %s: %w", f.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit ingest: %w", err)
	}
	return runID, nil
}

func insertFrame(ctx context.Context, tx *sql.Tx, night string, runID uuid.UUID, f frames.Frame) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM frames WHERE night = ? AND filename = ?", night, f.Name()); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO frames (night, filename, run_id, date_obs, mjd, object, imagetyp, imagecat,
			exptime, ra, dec, grism, slit, detwin1, airmass)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		night, f.Name(), runID.String(), f.DateObs, f.MJD, f.Object, f.ImageType, f.ImageCat,
		f.Exptime, f.RA, f.Dec, f.Grism, f.Slit, f.DetWin1, f.Airmass)
	if err != nil {
		return err
	}

	if f.Header == nil {
		return nil
	}
	for i, c := range f.Header.Cards {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO frame_cards (night, filename, position, key, value) VALUES (?, ?, ?, ?, ?)",
			night, f.Name(), i, c.Name, header.FormatValue(c.Value)); err != nil {
			return err
		}
	}
	return nil
}

// Frames returns the stored frames of a night ordered by file name
func (inv *Inventory) Frames(ctx context.Context, night string) ([]Record, error) {
	rows, err := inv.db.QueryContext(ctx, `
		SELECT night, filename, run_id, date_obs, mjd, object, imagetyp, imagecat,
			exptime, ra, dec, grism, slit, detwin1, airmass
		FROM frames WHERE night = ? ORDER BY filename`, night)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Night, &r.Filename, &r.RunID, &r.DateObs, &r.MJD, &r.Object,
			&r.ImageType, &r.ImageCat, &r.Exptime, &r.RA, &r.Dec, &r.Grism, &r.Slit,
			&r.DetWin1, &r.Airmass); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Objects returns the nights on which object was observed
func (inv *Inventory) Objects(ctx context.Context, object string) ([]string, error) {
	rows, err := inv.db.QueryContext(ctx,
		"SELECT DISTINCT night FROM frames WHERE object = ? ORDER BY night", object)
	if err != nil {
		return nil, fmt.Errorf("failed to query nights: %w", err)
	}
	defer rows.Close()

	var nights []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		nights = append(nights, n)
	}
	return nights, rows.Err()
}

// Card returns a stored header value
func (inv *Inventory) Card(ctx context.Context, night, filename, key string) (string, bool, error) {
	var v sql.NullString
	err := inv.db.QueryRowContext(ctx,
		"SELECT value FROM frame_cards WHERE night = ? AND filename = ? AND key = ? ORDER BY position LIMIT 1",
		night, filename, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v.String, true, nil
}
