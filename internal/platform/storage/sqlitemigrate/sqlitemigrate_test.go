package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsCreatesTablesAndLedger(t *testing.T) {
	t.Parallel()
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_catalog.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE catalog_items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE catalog_items;"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if !tableExists(t, db, "catalog_items") {
		t.Fatal("expected migrated table to exist")
	}
	if got := countLedgerRows(t, db); got != 1 {
		t.Fatalf("ledger rows = %d, want 1", got)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_catalog.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE catalog_items(id TEXT PRIMARY KEY);"),
		},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i+1, err)
		}
	}
	if got := countLedgerRows(t, db); got != 1 {
		t.Fatalf("ledger rows after replay = %d, want 1", got)
	}
}

func TestApplyMigrationsRunsFilesInLexicalOrder(t *testing.T) {
	t.Parallel()
	db := openInMemoryDB(t)

	// 002 references the table 001 creates; out-of-order execution fails.
	migrations := fstest.MapFS{
		"002_index.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE INDEX idx_items_id ON catalog_items(id);"),
		},
		"001_catalog.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE catalog_items(id TEXT PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply ordered migrations: %v", err)
	}
	if got := countLedgerRows(t, db); got != 2 {
		t.Fatalf("ledger rows = %d, want 2", got)
	}
}

func TestApplyMigrationsSkipsEmptyUpSections(t *testing.T) {
	t.Parallel()
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_noop.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\n\n-- +migrate Down\nDROP TABLE nothing;"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply noop migration: %v", err)
	}
	if got := countLedgerRows(t, db); got != 0 {
		t.Fatalf("ledger rows = %d, want 0 for empty up section", got)
	}
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "up and down markers",
			content: "-- +migrate Up\nCREATE TABLE a(id);\n-- +migrate Down\nDROP TABLE a;",
			want:    "\nCREATE TABLE a(id);\n",
		},
		{
			name:    "up marker only",
			content: "-- +migrate Up\nCREATE TABLE a(id);",
			want:    "\nCREATE TABLE a(id);",
		},
		{
			name:    "no markers",
			content: "CREATE TABLE a(id);",
			want:    "CREATE TABLE a(id);",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractUpMigration(tc.content); got != tc.want {
				t.Fatalf("extract up = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestApplyMigrationsToleratesExistingObjects(t *testing.T) {
	t.Parallel()
	db := openInMemoryDB(t)

	if _, err := db.Exec("CREATE TABLE catalog_items(id TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	migrations := fstest.MapFS{
		"001_catalog.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE catalog_items(id TEXT PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply over existing table: %v", err)
	}
	if got := countLedgerRows(t, db); got != 1 {
		t.Fatalf("ledger rows = %d, want 1", got)
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func countLedgerRows(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count ledger rows: %v", err)
	}
	return count
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName)
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return false
		}
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
