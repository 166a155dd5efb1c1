package migrate

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/specred/specred/internal/log"
)

// Migration is one versioned schema change with its inverse.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// DB is satisfied by both *sql.DB and *sql.Tx.
type DB interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// MigrationProvider loads migrations and tracks the applied version.
type MigrationProvider interface {
	GetMigrations() ([]Migration, error)
	GetCurrentVersion(db *sql.DB) (int, error)
	SetVersion(db DB, version int) error
	CreateMigrationTable(db *sql.DB) error
}

// Migrator applies a provider's migrations to a database.
type Migrator struct {
	db       *sql.DB
	provider MigrationProvider

	// Logf reports each applied migration
	Logf func(template string, args ...interface{})
}

type direction bool

const (
	up   direction = true
	down direction = false
)

func (d direction) String() string {
	if d == up {
		return "up"
	}
	return "down"
}

func NewMigrator(db *sql.DB, provider MigrationProvider) *Migrator {
	return &Migrator{
		db:       db,
		provider: provider,
		Logf:     log.Infof,
	}
}

// MigrateUp applies every pending migration.
func (m *Migrator) MigrateUp() error {
	return m.MigrateTo(-1)
}

// MigrateDown reverts migrations, newest first, until target is the
// applied version. target must be below the current version.
func (m *Migrator) MigrateDown(target int) error {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return err
	}
	if target >= current {
		return fmt.Errorf("target version %d is not below current version %d", target, current)
	}

	ms, err := m.sorted()
	if err != nil {
		return err
	}
	for i := len(ms) - 1; i >= 0; i-- {
		mg := ms[i]
		if mg.Version <= target || mg.Version > current {
			continue
		}
		if err := m.apply(mg, down); err != nil {
			return fmt.Errorf("reverting migration %d: %w", mg.Version, err)
		}
	}
	return nil
}

// MigrateTo moves the schema up or down to target. -1 means the latest
// known migration.
func (m *Migrator) MigrateTo(target int) error {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return err
	}
	ms, err := m.sorted()
	if err != nil {
		return err
	}
	if target == -1 {
		if len(ms) == 0 {
			return nil
		}
		target = ms[len(ms)-1].Version
	}
	if target < current {
		return m.MigrateDown(target)
	}

	for _, mg := range ms {
		if mg.Version <= current || mg.Version > target {
			continue
		}
		if err := m.apply(mg, up); err != nil {
			return fmt.Errorf("applying migration %d: %w", mg.Version, err)
		}
	}
	return nil
}

// GetCurrentVersion returns the applied version, creating the version
// table on first use.
func (m *Migrator) GetCurrentVersion() (int, error) {
	if err := m.provider.CreateMigrationTable(m.db); err != nil {
		return 0, fmt.Errorf("creating migration table: %w", err)
	}
	v, err := m.provider.GetCurrentVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("reading current version: %w", err)
	}
	return v, nil
}

// GetPendingMigrations returns the migrations above the applied version in
// ascending order.
func (m *Migrator) GetPendingMigrations() ([]Migration, error) {
	current, err := m.GetCurrentVersion()
	if err != nil {
		return nil, err
	}
	ms, err := m.sorted()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mg := range ms {
		if mg.Version > current {
			pending = append(pending, mg)
		}
	}
	return pending, nil
}

// Status summarises the applied and pending migrations.
type Status struct {
	Current int
	Latest  int
	Pending []Migration
}

func (m *Migrator) Status() (Status, error) {
	pending, err := m.GetPendingMigrations()
	if err != nil {
		return Status{}, err
	}
	current, err := m.GetCurrentVersion()
	if err != nil {
		return Status{}, err
	}

	st := Status{Current: current, Latest: current, Pending: pending}
	if len(pending) > 0 {
		st.Latest = pending[len(pending)-1].Version
	}
	return st, nil
}

func (m *Migrator) sorted() ([]Migration, error) {
	ms, err := m.provider.GetMigrations()
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].Version < ms[j].Version })
	return ms, nil
}

// apply runs one migration in a transaction together with the version bump.
func (m *Migrator) apply(mg Migration, d direction) error {
	stmt, version := mg.Up, mg.Version
	if d == down {
		stmt, version = mg.Down, mg.Version-1
	}
	if stmt == "" {
		return fmt.Errorf("migration %d has no %s SQL", mg.Version, d)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("executing %s SQL: %w", d, err)
	}
	if err := m.provider.SetVersion(tx, version); err != nil {
		return fmt.Errorf("setting version %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	if m.Logf != nil {
		m.Logf("migration %d (%s) %s", mg.Version, mg.Name, d)
	}
	return nil
}
