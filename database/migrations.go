package database

import (
	"database/sql"
	"fmt"
)

// RunMigrations creates the key/value table used by storage.SQLStore.
func RunMigrations(db *sql.DB, driver string) error {
	valueType := "BYTEA"
	if driver == DriverSQLite {
		valueType = "BLOB"
	}

	migrationSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS kv_entries (
		namespace VARCHAR(64) NOT NULL,
		item_key VARCHAR(64) NOT NULL,
		value %s NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, item_key)
	);
	`, valueType)

	if _, err := db.Exec(migrationSQL); err != nil {
		return fmt.Errorf("failed to run kv_entries migration: %w", err)
	}
	return nil
}
