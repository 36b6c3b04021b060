package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	// SchemaVersionLegacy is the layout without a due column. Stores in this
	// layout are recognized and refused, never migrated.
	SchemaVersionLegacy = 1
	// SchemaVersion is the layout this build reads and writes.
	SchemaVersion = 2
)

var (
	ErrLegacySchema      = errors.New("store uses the legacy schema without due dates")
	ErrUnsupportedSchema = errors.New("store was written by a newer schema version")
)

// originalTable is the table of the first release of the tool, which
// lives at the same default path: todo(id, task, done) with no due column.
const originalTable = "todo"

const createTasksTable = `CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	due TEXT NULL
)`

const createSchemaVersionTable = `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
)`

// ensureSchema creates the current layout on a fresh store and verifies the
// layout of an existing one. It never alters tables it did not create.
func ensureSchema(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		version, found, err := storedVersion(tx)
		if err != nil {
			return err
		}
		if found {
			switch {
			case version < SchemaVersion:
				return fmt.Errorf("%w (version %d)", ErrLegacySchema, version)
			case version > SchemaVersion:
				return fmt.Errorf("%w: found version %d, supported version %d", ErrUnsupportedSchema, version, SchemaVersion)
			}
		}

		if tx.Migrator().HasTable(originalTable) {
			columns, err := columnNames(tx, originalTable)
			if err != nil {
				return err
			}
			if !columns["due"] {
				return fmt.Errorf("%w (version %d, table %s)", ErrLegacySchema, SchemaVersionLegacy, originalTable)
			}
			return fmt.Errorf("%w: unrecognized layout of table %s", ErrUnsupportedSchema, originalTable)
		}

		if tx.Migrator().HasTable("tasks") {
			columns, err := columnNames(tx, "tasks")
			if err != nil {
				return err
			}
			if !columns["due"] {
				return fmt.Errorf("%w (version %d)", ErrLegacySchema, SchemaVersionLegacy)
			}
		}

		if err := tx.Exec(createTasksTable).Error; err != nil {
			return fmt.Errorf("failed to create tasks table: %w", err)
		}
		if err := tx.Exec(createSchemaVersionTable).Error; err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}
		if !found {
			if err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion).Error; err != nil {
				return fmt.Errorf("failed to record schema version: %w", err)
			}
		}
		return nil
	})
}

// storedVersion reads the schema marker. found is false when the marker
// table is absent or empty.
func storedVersion(tx *gorm.DB) (version int, found bool, err error) {
	if !tx.Migrator().HasTable("schema_version") {
		return 0, false, nil
	}

	var v sql.NullInt64
	if err := tx.Raw("SELECT MAX(version) FROM schema_version").Row().Scan(&v); err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return int(v.Int64), true, nil
}

// columnNames probes a table's columns with PRAGMA table_info.
func columnNames(tx *gorm.DB, table string) (map[string]bool, error) {
	rows, err := tx.Raw(fmt.Sprintf("PRAGMA table_info(%q)", table)).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}
	return columns, nil
}
