package migrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"001_create_nights.up.sql":   {Data: []byte("CREATE TABLE nights (date TEXT PRIMARY KEY);")},
		"001_create_nights.down.sql": {Data: []byte("DROP TABLE nights;")},
		"002_add_notes.up.sql":       {Data: []byte("ALTER TABLE nights ADD COLUMN notes TEXT;")},
		"002_add_notes.down.sql":     {Data: []byte("ALTER TABLE nights DROP COLUMN notes;")},
		"README.md":                  {Data: []byte("not a migration")},
	}
}

func openDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMigrations(t *testing.T) {
	ms, err := NewFSProvider(testFS(), "").GetMigrations()
	if err != nil {
		t.Fatalf("GetMigrations() error = %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("got %d migrations, expected 2", len(ms))
	}
	if ms[0].Version != 1 || ms[0].Name != "create nights" || ms[0].Up == "" || ms[0].Down == "" {
		t.Errorf("migration 1 = %+v", ms[0])
	}
	if ms[1].Version != 2 {
		t.Errorf("migration order = %d, %d", ms[0].Version, ms[1].Version)
	}
}

func TestMigrateUpDown(t *testing.T) {
	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(testFS(), DefaultTable))
	var applied []int
	m.Logf = func(string, ...interface{}) { applied = append(applied, 0) }

	if err := m.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	st, err := m.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.Current != 2 || st.Latest != 2 || len(st.Pending) != 0 {
		t.Errorf("Status() = %+v after MigrateUp", st)
	}
	if len(applied) != 2 {
		t.Errorf("logged %d migrations, expected 2", len(applied))
	}
	if _, err := db.Exec("INSERT INTO nights (date, notes) VALUES ('20190930', 'clear')"); err != nil {
		t.Errorf("schema not applied: %v", err)
	}

	if err := m.MigrateDown(1); err != nil {
		t.Fatalf("MigrateDown(1) error = %v", err)
	}
	v, err := m.GetCurrentVersion()
	if err != nil || v != 1 {
		t.Errorf("GetCurrentVersion() = %d, %v, expected 1", v, err)
	}
	pending, err := m.GetPendingMigrations()
	if err != nil || len(pending) != 1 || pending[0].Version != 2 {
		t.Errorf("GetPendingMigrations() = %+v, %v", pending, err)
	}

	if err := m.MigrateTo(0); err != nil {
		t.Fatalf("MigrateTo(0) error = %v", err)
	}
	if v, _ := m.GetCurrentVersion(); v != 0 {
		t.Errorf("version after MigrateTo(0) = %d", v)
	}
	if err := m.MigrateDown(0); err == nil {
		t.Error("MigrateDown to the current version should fail")
	}
}
