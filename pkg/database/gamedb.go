package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql seed_data.sql
var gameDBFiles embed.FS

// EnsureGameDB creates and seeds the crime database if it does not exist yet.
// This is the only code path that ever holds a writable handle to the file;
// everything else goes through OpenGameDBReadOnly.
func EnsureGameDB(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create game db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open game db for init: %w", err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='suspects'").Scan(&name)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("inspect game db: %w", err)
	}

	for _, f := range []string{"schema.sql", "seed_data.sql"} {
		script, err := gameDBFiles.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", f, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("apply %s: %w", f, err)
		}
	}

	return nil
}

// OpenGameDBReadOnly opens the crime database so that writes are impossible at
// the connection level. The keyword denylist is the first line of defense;
// this is the second, independent one.
func OpenGameDBReadOnly(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open game db read-only: %w", err)
	}

	// Read-only pool; concurrent checks each borrow their own connection.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping game db: %w", err)
	}

	return db, nil
}
