package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Schema DDL. Tables are created only when missing so a restart keeps the
// recorded cards.
const (
	createHistory = `CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    satznummer TEXT,
    machine TEXT,
    zestaw TEXT,
    operator TEXT NOT NULL DEFAULT '',
    stone_type TEXT NOT NULL DEFAULT '',
    data TEXT
);`

	createDetails = `CREATE TABLE IF NOT EXISTS details (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    satznummer TEXT,
    code TEXT,
    diameter REAL,
    status TEXT DEFAULT 'New'
);`
)

// Index DDL for the card id lookups every operation does.
const (
	idxHistorySatznummer = `CREATE INDEX IF NOT EXISTS idx_history_satznummer ON history(satznummer);`
	idxDetailsSatznummer = `CREATE INDEX IF NOT EXISTS idx_details_satznummer ON details(satznummer);`
)

var schemaDDL = []string{
	createHistory,
	createDetails,
}

var indexDDL = []string{
	idxHistorySatznummer,
	idxDetailsSatznummer,
}

// addedColumns lists columns introduced after the first schema version.
// Databases created before them get the columns added in place.
var addedColumns = []struct {
	table  string
	column string
	ddl    string
}{
	{types.HistoryTable, "operator", "ALTER TABLE history ADD COLUMN operator TEXT NOT NULL DEFAULT ''"},
	{types.HistoryTable, "stone_type", "ALTER TABLE history ADD COLUMN stone_type TEXT NOT NULL DEFAULT ''"},
}

// ensureSchema creates missing tables and indexes and upgrades old tables.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ac := range addedColumns {
		ok, err := hasColumn(ctx, db, ac.table, ac.column)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := db.ExecContext(ctx, ac.ddl); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", ac.table, ac.column, err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
